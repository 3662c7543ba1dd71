package search

import (
	"context"
	"errors"
	"testing"

	"github.com/hyperjump/docdex/internal/config"
	"github.com/hyperjump/docdex/internal/embedding"
	"github.com/hyperjump/docdex/internal/index"
	"github.com/hyperjump/docdex/internal/models"
)

func testEngine(t *testing.T) (*Engine, *index.Index, *embedding.SimpleGenerator) {
	t.Helper()
	idx := index.New()
	gen := embedding.NewSimpleGenerator(50, 0)
	return NewEngine(idx, gen, config.Default().Search), idx, gen
}

func addChunk(t *testing.T, idx *index.Index, gen embedding.Generator, id, source, title, content string, tags ...string) {
	t.Helper()
	vec, err := gen.Embed(context.Background(), content)
	if err != nil {
		t.Fatal(err)
	}
	idx.Put(&models.DocumentChunk{
		ID:                 id,
		Source:             source,
		Title:              title,
		Content:            content,
		Tags:               tags,
		Embedding:          vec,
		EmbeddingDimension: len(vec),
	})
}

func seedCorpus(t *testing.T, idx *index.Index, gen embedding.Generator) {
	addChunk(t, idx, gen, "spring-security-a1", "spring-security", "JWT Authentication",
		"spring security jwt authentication filters protect endpoints with bearer tokens", "security", "jwt")
	addChunk(t, idx, gen, "spring-data-b1", "spring-data", "Repositories",
		"spring data jpa repositories derive queries from method names", "jpa", "spring-data")
	addChunk(t, idx, gen, "misc-c1", "misc", "Gardening",
		"unrelated topic about growing tomatoes in a greenhouse")
}

func TestEngine_BlankQuery(t *testing.T) {
	e, idx, gen := testEngine(t)
	seedCorpus(t, idx, gen)

	for _, q := range []string{"", "   "} {
		res := e.Search(context.Background(), &models.SearchRequest{Query: q, SemanticSearch: true})
		if res.TotalResults != 0 || len(res.Results) != 0 {
			t.Errorf("blank query %q returned %d results", q, res.TotalResults)
		}
		if res.SearchType != "" {
			t.Errorf("blank query SearchType = %q, want unset", res.SearchType)
		}
	}
}

func TestEngine_SemanticRanking(t *testing.T) {
	e, idx, gen := testEngine(t)
	seedCorpus(t, idx, gen)

	res := e.Search(context.Background(), &models.SearchRequest{
		Query:          "jwt authentication security",
		SemanticSearch: true,
	})
	if res.SearchType != models.SearchTypeSemantic {
		t.Errorf("SearchType = %q", res.SearchType)
	}
	posSecurity, posMisc := -1, -1
	for i, r := range res.Results {
		switch r.ID {
		case "spring-security-a1":
			posSecurity = i
		case "misc-c1":
			posMisc = i
		}
	}
	if posSecurity == -1 {
		t.Fatal("security chunk not in results")
	}
	if posMisc != -1 && posMisc < posSecurity {
		t.Errorf("unrelated chunk ranked %d above security chunk at %d", posMisc, posSecurity)
	}
}

// Short chunks carry little length signal, so shared vocabulary has to do the
// ranking work: a chunk sharing a query term must beat one sharing nothing.
func TestEngine_SemanticRankingShortChunks(t *testing.T) {
	e, idx, gen := testEngine(t)
	addChunk(t, idx, gen, "a", "spring-security", "Security", "spring security jwt")
	addChunk(t, idx, gen, "b", "spring-data", "Data", "spring data jpa")
	addChunk(t, idx, gen, "c", "misc", "Misc", "unrelated topic")

	res := e.Search(context.Background(), &models.SearchRequest{
		Query:          "jwt authentication",
		SemanticSearch: true,
	})
	posA, posC := -1, -1
	for i, r := range res.Results {
		switch r.ID {
		case "a":
			posA = i
		case "c":
			posC = i
		}
	}
	if posA == -1 {
		t.Fatal("jwt chunk not in results")
	}
	if posC != -1 && posC < posA {
		t.Errorf("unrelated chunk ranked %d above jwt chunk at %d", posC, posA)
	}
}

// failingGenerator always errors, standing in for an unavailable model backend.
type failingGenerator struct{}

func (failingGenerator) Embed(context.Context, string) ([]float64, error) {
	return nil, errors.New("model unavailable")
}
func (failingGenerator) Dimensions() int { return 50 }
func (failingGenerator) Close() error    { return nil }

func TestEngine_SearchTypeReflectsModesRun(t *testing.T) {
	idx := index.New()
	gen := embedding.NewSimpleGenerator(50, 0)
	addChunk(t, idx, gen, "web-a1", "web", "Controllers",
		"annotated controller methods map incoming requests")
	e := NewEngine(idx, failingGenerator{}, config.Default().Search)

	res := e.Search(context.Background(), &models.SearchRequest{
		Query:          "controller",
		SemanticSearch: true,
		KeywordSearch:  true,
	})
	if res.SearchType != models.SearchTypeKeyword {
		t.Errorf("SearchType = %q, want keyword when only the keyword pass ran", res.SearchType)
	}
	if res.TotalResults != 1 {
		t.Errorf("keyword pass found %d results, want 1", res.TotalResults)
	}
}

func TestEngine_DefaultsToSemantic(t *testing.T) {
	e, idx, gen := testEngine(t)
	seedCorpus(t, idx, gen)

	res := e.Search(context.Background(), &models.SearchRequest{Query: "spring security"})
	if res.SearchType != models.SearchTypeSemantic {
		t.Errorf("SearchType = %q, want semantic", res.SearchType)
	}
}

func TestEngine_KeywordFuzzy(t *testing.T) {
	e, idx, gen := testEngine(t)
	addChunk(t, idx, gen, "web-a1", "web", "Request mapping",
		"the controler maps incoming requests to annotated handler methods")

	exact := e.Search(context.Background(), &models.SearchRequest{
		Query:         "controller",
		KeywordSearch: true,
	})
	if exact.TotalResults != 0 {
		t.Errorf("exact search matched misspelling: %d results", exact.TotalResults)
	}

	fuzzy := e.Search(context.Background(), &models.SearchRequest{
		Query:         "controller",
		KeywordSearch: true,
		FuzzySearch:   true,
	})
	if fuzzy.TotalResults != 1 {
		t.Fatalf("fuzzy search found %d results, want 1", fuzzy.TotalResults)
	}
	if fuzzy.Results[0].RelevanceScore <= 0 {
		t.Errorf("fuzzy score = %v, want > 0", fuzzy.Results[0].RelevanceScore)
	}
	if fuzzy.SearchType != models.SearchTypeKeyword {
		t.Errorf("SearchType = %q", fuzzy.SearchType)
	}
}

func TestEngine_SourceFilter(t *testing.T) {
	e, idx, gen := testEngine(t)
	seedCorpus(t, idx, gen)

	res := e.Search(context.Background(), &models.SearchRequest{
		Query:          "spring",
		SemanticSearch: true,
		KeywordSearch:  true,
		Source:         "spring-security",
	})
	for _, r := range res.Results {
		if r.Source != "spring-security" {
			t.Errorf("result %q has source %q", r.ID, r.Source)
		}
	}
	if res.TotalResults == 0 {
		t.Error("expected at least one filtered result")
	}
}

func TestEngine_TagFilterMatchAny(t *testing.T) {
	e, idx, gen := testEngine(t)
	seedCorpus(t, idx, gen)

	res := e.Search(context.Background(), &models.SearchRequest{
		Query:          "spring",
		SemanticSearch: true,
		Tags:           []string{"jwt", "missing-tag"},
	})
	if res.TotalResults != 1 || res.Results[0].ID != "spring-security-a1" {
		t.Errorf("tag filter results = %+v", res.Results)
	}
}

func TestEngine_MaxResults(t *testing.T) {
	e, idx, gen := testEngine(t)
	seedCorpus(t, idx, gen)

	res := e.Search(context.Background(), &models.SearchRequest{
		Query:          "spring",
		SemanticSearch: true,
		MaxResults:     1,
	})
	if len(res.Results) > 1 {
		t.Errorf("got %d results, want <= 1", len(res.Results))
	}
	if res.TotalResults < len(res.Results) {
		t.Errorf("TotalResults %d below returned count %d", res.TotalResults, len(res.Results))
	}
}

func TestEngine_HybridDeduplicates(t *testing.T) {
	e, idx, gen := testEngine(t)
	seedCorpus(t, idx, gen)

	res := e.Search(context.Background(), &models.SearchRequest{
		Query:          "spring security jwt",
		SemanticSearch: true,
		KeywordSearch:  true,
	})
	if res.SearchType != models.SearchTypeHybrid {
		t.Errorf("SearchType = %q, want hybrid", res.SearchType)
	}
	seen := make(map[string]int)
	for _, r := range res.Results {
		seen[r.ID]++
	}
	for id, n := range seen {
		if n > 1 {
			t.Errorf("chunk %q appears %d times", id, n)
		}
	}

	// The deduplicated score is the higher of the two signals.
	semOnly := e.Search(context.Background(), &models.SearchRequest{
		Query: "spring security jwt", SemanticSearch: true,
	})
	kwOnly := e.Search(context.Background(), &models.SearchRequest{
		Query: "spring security jwt", KeywordSearch: true,
	})
	want := scoreFor(semOnly, "spring-security-a1")
	if kw := scoreFor(kwOnly, "spring-security-a1"); kw > want {
		want = kw
	}
	if got := scoreFor(res, "spring-security-a1"); got != want {
		t.Errorf("hybrid score = %v, want max of signals %v", got, want)
	}
}

func TestEngine_DoesNotMutateStoredChunks(t *testing.T) {
	e, idx, gen := testEngine(t)
	seedCorpus(t, idx, gen)

	_ = e.Search(context.Background(), &models.SearchRequest{Query: "spring", SemanticSearch: true})
	for _, chunk := range idx.All() {
		if chunk.RelevanceScore != 0 {
			t.Errorf("stored chunk %q mutated: score %v", chunk.ID, chunk.RelevanceScore)
		}
	}
}

func TestEngine_FindSimilar(t *testing.T) {
	e, idx, gen := testEngine(t)
	addChunk(t, idx, gen, "a", "docs", "JWT part one",
		"spring security jwt authentication bearer token validation in the filter chain")
	addChunk(t, idx, gen, "b", "docs", "JWT part two",
		"spring security jwt authentication bearer token validation in the filter pipeline")
	addChunk(t, idx, gen, "c", "docs", "Gardening",
		"unrelated topic about growing tomatoes in a greenhouse with no code at all")

	similar, err := e.FindSimilar("a", 10)
	if err != nil {
		t.Fatalf("FindSimilar: %v", err)
	}
	for _, s := range similar {
		if s.ID == "a" {
			t.Error("chunk must not be similar to itself")
		}
	}
	found := false
	for _, s := range similar {
		if s.ID == "b" {
			found = true
			if s.RelevanceScore < 0.7 {
				t.Errorf("similarity %v below threshold", s.RelevanceScore)
			}
		}
	}
	if !found {
		t.Error("near-duplicate chunk not found")
	}

	if _, err := e.FindSimilar("missing", 10); err == nil {
		t.Error("expected error for unknown ID")
	}
}

func TestEngine_Suggest(t *testing.T) {
	e, idx, gen := testEngine(t)
	seedCorpus(t, idx, gen)

	suggestions := e.Suggest("jw")
	if len(suggestions) == 0 {
		t.Fatal("no suggestions")
	}
	hasPrefix := false
	for _, s := range suggestions {
		if s == "jwt" || s == "JWT Authentication" {
			hasPrefix = true
		}
	}
	if !hasPrefix {
		t.Errorf("suggestions %v missing jwt entries", suggestions)
	}
	if got := e.Suggest("  "); got != nil {
		t.Errorf("blank partial = %v, want nil", got)
	}
}

func scoreFor(res *models.SearchResult, id string) float64 {
	for _, r := range res.Results {
		if r.ID == id {
			return r.RelevanceScore
		}
	}
	return -1
}
