package models

// SearchResult is the response for one search call. Results are ordered by
// RelevanceScore descending (chunk ID ascending on ties) and capped at the
// request's MaxResults.
type SearchResult struct {
	Query        string           `json:"query"`
	Results      []*DocumentChunk `json:"results"`
	TotalResults int              `json:"totalResults"`
	SearchTimeMs int64            `json:"searchTimeMs"`
	// SearchType is "semantic", "keyword", or "hybrid" when both signals ran.
	// Empty for blank-query short-circuits.
	SearchType string `json:"searchType,omitempty"`
}

// IngestStats summarizes one ingest call for API and CLI output.
type IngestStats struct {
	Source    string `json:"source"`
	Chunks    int    `json:"chunks"`
	JobID     string `json:"jobId,omitempty"`
	ElapsedMs int64  `json:"elapsedMs,omitempty"`
}
