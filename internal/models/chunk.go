// Package models defines core data structures for document chunks, search
// requests, and search results.
package models

// DocumentChunk is the atomic indexed unit: one section of a documentation
// page plus the metadata and embedding derived from it.
type DocumentChunk struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	URL      string `json:"url,omitempty"`
	Source   string `json:"source"`
	Version  string `json:"version,omitempty"`
	Category string `json:"category,omitempty"`

	Tags                  []string `json:"tags,omitempty"`
	CodeSnippets          []string `json:"codeSnippets,omitempty"`
	ConfigurationExamples []string `json:"configurationExamples,omitempty"`

	// Checksum is a deterministic fingerprint of Content. Re-ingesting
	// unchanged content for the same source reproduces the same ID.
	Checksum string `json:"checksum"`

	// Embedding is L2-normalized; EmbeddingDimension records its length,
	// which is fixed across the whole index.
	Embedding          []float64 `json:"-"`
	EmbeddingDimension int       `json:"embeddingDimension,omitempty"`

	// RelevanceScore is query-scoped: it is only set on result copies
	// returned by the search engine, never on the stored chunk.
	RelevanceScore float64 `json:"relevanceScore,omitempty"`
}

// Scored returns a copy of the chunk with RelevanceScore set. The stored
// chunk is shared state across concurrent searches and must not be mutated.
func (c *DocumentChunk) Scored(score float64) *DocumentChunk {
	out := *c
	out.RelevanceScore = score
	return &out
}
