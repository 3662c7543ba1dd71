// Package cli provides CLI output utilities for docdex.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/hyperjump/docdex/internal/models"
	"github.com/hyperjump/docdex/pkg/utils"
)

// OutputFormat is the format for CLI output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// WriteSearchResult writes a search result to w in the given format.
// Use OutputJSON for parseable output consumable by other apps.
func WriteSearchResult(w io.Writer, result *models.SearchResult, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	default:
		writeSearchResultText(w, result)
		return nil
	}
}

func writeSearchResultText(w io.Writer, result *models.SearchResult) {
	label := result.SearchType
	if label == "" {
		label = "none"
	}
	fmt.Fprintf(w, "\nFound %d results in %dms (%s search)\n\n",
		result.TotalResults, result.SearchTimeMs, label)
	for i, chunk := range result.Results {
		writeOneChunk(w, chunk, i+1)
	}
}

func writeOneChunk(w io.Writer, chunk *models.DocumentChunk, rank int) {
	fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
	fmt.Fprintf(w, "Rank: %d | Score: %.4f\n", rank, chunk.RelevanceScore)
	fmt.Fprintf(w, "ID: %s\n", chunk.ID)
	if chunk.Title != "" {
		fmt.Fprintf(w, "Title: %s\n", chunk.Title)
	}
	fmt.Fprintf(w, "Source: %s", chunk.Source)
	if chunk.Category != "" {
		fmt.Fprintf(w, " | Category: %s", chunk.Category)
	}
	if len(chunk.Tags) > 0 {
		fmt.Fprintf(w, " | Tags: %v", chunk.Tags)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "\n%s\n", utils.Truncate(chunk.Content, 200))
	fmt.Fprintln(w)
}

// WriteIngestStats writes ingest statistics to w in the given format.
func WriteIngestStats(w io.Writer, stats *models.IngestStats, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	default:
		fmt.Fprintf(w, "Ingested %d chunks from %s in %dms\n",
			stats.Chunks, stats.Source, stats.ElapsedMs)
		return nil
	}
}

// PrintSearchResult prints a search result to stdout in text format.
func PrintSearchResult(result *models.SearchResult) {
	_ = WriteSearchResult(os.Stdout, result, OutputText)
}
