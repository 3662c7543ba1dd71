package models

import "strings"

// Search type labels reported in SearchResult.SearchType.
const (
	SearchTypeSemantic = "semantic"
	SearchTypeKeyword  = "keyword"
	SearchTypeHybrid   = "hybrid"
)

// SearchRequest is a search query with mode switches and optional filters.
// When neither SemanticSearch nor KeywordSearch is set, semantic search runs.
type SearchRequest struct {
	Query          string `json:"query"`
	SemanticSearch bool   `json:"semanticSearch,omitempty"`
	KeywordSearch  bool   `json:"keywordSearch,omitempty"`
	// FuzzySearch enables edit-distance matching of query terms against
	// content words. Only applies to keyword search.
	FuzzySearch bool `json:"fuzzySearch,omitempty"`

	// Filters restrict the candidate set before scoring. Source, Version,
	// and Category are equality filters; Tags is match-any.
	Source   string   `json:"source,omitempty"`
	Version  string   `json:"version,omitempty"`
	Category string   `json:"category,omitempty"`
	Tags     []string `json:"tags,omitempty"`

	MinRelevanceScore float64 `json:"minRelevanceScore,omitempty"`
	MaxResults        int     `json:"maxResults,omitempty"`
}

// IsBlank reports whether the query is empty or whitespace-only. Blank
// requests short-circuit to an empty result without error.
func (r *SearchRequest) IsBlank() bool {
	return strings.TrimSpace(r.Query) == ""
}

// Normalize applies defaults: semantic mode when no mode is selected, and a
// result cap when MaxResults is unset or negative.
func (r *SearchRequest) Normalize(defaultMaxResults int) {
	if !r.SemanticSearch && !r.KeywordSearch {
		r.SemanticSearch = true
	}
	if r.MaxResults <= 0 {
		r.MaxResults = defaultMaxResults
	}
}
