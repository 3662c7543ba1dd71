package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/docdex/internal/config"
	"github.com/hyperjump/docdex/internal/embedding"
	"github.com/hyperjump/docdex/internal/index"
	"github.com/hyperjump/docdex/internal/models"
)

// Engine scores document chunks against queries. It reads from the document
// index and uses the embedding generator for query embeddings; stored chunks
// are never mutated, so concurrent searches are safe.
type Engine struct {
	index    *index.Index
	embedder embedding.Generator
	config   config.SearchConfig
	logger   *zap.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates a search engine over idx using gen for query embeddings.
func NewEngine(idx *index.Index, gen embedding.Generator, cfg config.SearchConfig, opts ...EngineOption) *Engine {
	e := &Engine{index: idx, embedder: gen, config: cfg}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Search runs the requested modes over the candidate set and returns ranked,
// deduplicated results. Blank queries yield an empty result, never an error.
func (e *Engine) Search(ctx context.Context, req *models.SearchRequest) *models.SearchResult {
	start := time.Now()
	result := &models.SearchResult{Query: req.Query, Results: []*models.DocumentChunk{}}
	if req.IsBlank() {
		result.SearchTimeMs = time.Since(start).Milliseconds()
		return result
	}
	req.Normalize(e.config.DefaultMaxResults)

	candidates := e.candidates(req)

	// Best score per chunk ID across all modes that ran.
	scores := make(map[string]float64)
	byID := make(map[string]*models.DocumentChunk)
	record := func(chunk *models.DocumentChunk, score float64) {
		if prev, ok := scores[chunk.ID]; !ok || score > prev {
			scores[chunk.ID] = score
			byID[chunk.ID] = chunk
		}
	}

	semanticRan := false
	if req.SemanticSearch {
		queryVec, err := e.embedder.Embed(ctx, req.Query)
		if err != nil && e.logger != nil {
			e.logger.Warn("query embedding failed, skipping semantic scoring", zap.Error(err))
		}
		if err == nil && len(queryVec) > 0 {
			semanticRan = true
			for _, chunk := range candidates {
				score := embedding.CosineSimilarity(queryVec, chunk.Embedding)
				if score >= req.MinRelevanceScore {
					record(chunk, score)
				}
			}
		}
	}

	if req.KeywordSearch {
		terms := queryTerms(req.Query)
		for _, chunk := range candidates {
			score := keywordScore(chunk, terms, req.FuzzySearch)
			if score > 0 && score >= req.MinRelevanceScore {
				record(chunk, score)
			}
		}
	}

	ids := make([]string, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if scores[ids[i]] != scores[ids[j]] {
			return scores[ids[i]] > scores[ids[j]]
		}
		return ids[i] < ids[j] // deterministic tie-break
	})

	result.TotalResults = len(ids)
	if len(ids) > req.MaxResults {
		ids = ids[:req.MaxResults]
	}
	for _, id := range ids {
		result.Results = append(result.Results, byID[id].Scored(scores[id]))
	}

	// Label by the modes that actually scored, not the modes requested. A
	// hybrid request whose embedding step was skipped ran as keyword-only.
	switch {
	case semanticRan && req.KeywordSearch:
		result.SearchType = models.SearchTypeHybrid
	case req.KeywordSearch:
		result.SearchType = models.SearchTypeKeyword
	default:
		result.SearchType = models.SearchTypeSemantic
	}
	result.SearchTimeMs = time.Since(start).Milliseconds()

	if e.logger != nil {
		e.logger.Debug("search completed",
			zap.String("query", req.Query),
			zap.String("type", result.SearchType),
			zap.Int("total", result.TotalResults),
			zap.Int64("ms", result.SearchTimeMs))
	}
	return result
}

// candidates applies the request's filters before any scoring: source,
// version, and category must match exactly when set; the tags filter matches
// when the chunk has at least one of the requested tags.
func (e *Engine) candidates(req *models.SearchRequest) []*models.DocumentChunk {
	var all []*models.DocumentChunk
	if req.Source != "" {
		all = e.index.GetBySource(req.Source)
	} else {
		all = e.index.All()
	}

	out := all[:0:0]
	for _, chunk := range all {
		if req.Version != "" && chunk.Version != req.Version {
			continue
		}
		if req.Category != "" && chunk.Category != req.Category {
			continue
		}
		if len(req.Tags) > 0 && !hasAnyTag(chunk.Tags, req.Tags) {
			continue
		}
		out = append(out, chunk)
	}
	return out
}

func hasAnyTag(chunkTags, wanted []string) bool {
	for _, w := range wanted {
		for _, t := range chunkTags {
			if strings.EqualFold(t, w) {
				return true
			}
		}
	}
	return false
}

// FindSimilar returns up to maxResults chunks whose embeddings exceed the
// similarity threshold against the given chunk's embedding, excluding the
// chunk itself. Useful for "related documents" features.
func (e *Engine) FindSimilar(id string, maxResults int) ([]*models.DocumentChunk, error) {
	ref, err := e.index.Get(id)
	if err != nil {
		return nil, fmt.Errorf("find similar: %w", err)
	}
	if maxResults <= 0 {
		maxResults = e.config.DefaultMaxResults
	}

	type scored struct {
		chunk *models.DocumentChunk
		score float64
	}
	var matches []scored
	for _, chunk := range e.index.All() {
		if chunk.ID == id {
			continue
		}
		score := embedding.CosineSimilarity(ref.Embedding, chunk.Embedding)
		if score >= e.config.SimilarThreshold {
			matches = append(matches, scored{chunk, score})
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].chunk.ID < matches[j].chunk.ID
	})
	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}
	out := make([]*models.DocumentChunk, len(matches))
	for i, m := range matches {
		out[i] = m.chunk.Scored(m.score)
	}
	return out, nil
}

// Suggest returns autocomplete suggestions for a partial query, drawn from
// chunk titles and tags. Prefix matches rank before substring matches;
// within each group ordering is alphabetical.
func (e *Engine) Suggest(partial string) []string {
	q := strings.ToLower(strings.TrimSpace(partial))
	if q == "" {
		return nil
	}
	limit := e.config.SuggestionLimit
	if limit <= 0 {
		limit = 10
	}

	seen := make(map[string]struct{})
	var prefix, substring []string
	consider := func(candidate string) {
		lower := strings.ToLower(candidate)
		if _, ok := seen[lower]; ok {
			return
		}
		switch {
		case strings.HasPrefix(lower, q):
			seen[lower] = struct{}{}
			prefix = append(prefix, candidate)
		case strings.Contains(lower, q):
			seen[lower] = struct{}{}
			substring = append(substring, candidate)
		}
	}

	for _, chunk := range e.index.All() {
		consider(chunk.Title)
		for _, tag := range chunk.Tags {
			consider(tag)
		}
	}
	sort.Strings(prefix)
	sort.Strings(substring)

	out := append(prefix, substring...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
