package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/hyperjump/docdex/internal/models"
)

func sampleResult() *models.SearchResult {
	return &models.SearchResult{
		Query: "jwt security",
		Results: []*models.DocumentChunk{
			{
				ID:             "spring-security-abcd1234",
				Title:          "JWT Authentication",
				Content:        "Configure a security filter chain with a JwtDecoder bean.",
				Source:         "spring-security",
				Category:       "security",
				Tags:           []string{"jwt", "security"},
				RelevanceScore: 0.91,
			},
		},
		TotalResults: 1,
		SearchTimeMs: 3,
		SearchType:   models.SearchTypeSemantic,
	}
}

func TestWriteSearchResult_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResult(&buf, sampleResult(), OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"Found 1 results in 3ms (semantic search)",
		"Rank: 1 | Score: 0.9100",
		"ID: spring-security-abcd1234",
		"Title: JWT Authentication",
		"Source: spring-security | Category: security",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestWriteSearchResult_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResult(&buf, sampleResult(), OutputJSON); err != nil {
		t.Fatal(err)
	}
	var decoded models.SearchResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.TotalResults != 1 || decoded.Results[0].ID != "spring-security-abcd1234" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestWriteSearchResult_Empty(t *testing.T) {
	var buf bytes.Buffer
	result := &models.SearchResult{Query: "   "}
	if err := WriteSearchResult(&buf, result, OutputText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Found 0 results") {
		t.Errorf("output = %q", buf.String())
	}
	if !strings.Contains(buf.String(), "(none search)") {
		t.Errorf("blank query should report no search type: %q", buf.String())
	}
}

func TestWriteIngestStats(t *testing.T) {
	stats := &models.IngestStats{Source: "spring-boot", Chunks: 5, ElapsedMs: 12}
	var buf bytes.Buffer
	if err := WriteIngestStats(&buf, stats, OutputText); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "Ingested 5 chunks from spring-boot in 12ms\n"; got != want {
		t.Errorf("text output = %q, want %q", got, want)
	}

	buf.Reset()
	if err := WriteIngestStats(&buf, stats, OutputJSON); err != nil {
		t.Fatal(err)
	}
	var decoded models.IngestStats
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Chunks != 5 {
		t.Errorf("decoded chunks = %d", decoded.Chunks)
	}
}
