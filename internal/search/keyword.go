package search

import (
	"math"
	"strings"

	"github.com/hyperjump/docdex/internal/models"
)

// Keyword score weights. Per query term: a title hit counts once, each
// substring occurrence in title+content counts once, a fuzzy best-match is
// half-weighted, and each tag containing the term counts once.
const (
	titleWeight      = 3.0
	occurrenceWeight = 1.0
	fuzzyWeight      = 0.5
	tagWeight        = 2.0

	// fuzzyLengthWindow bounds which content words are compared to a term:
	// only words within +-2 characters of the term's length.
	fuzzyLengthWindow = 2
)

// keywordScore computes the composite keyword score of chunk for the given
// query terms. Each term's score is normalized by log(contentLength + 1), and
// the sum is divided by the number of terms.
func keywordScore(chunk *models.DocumentChunk, terms []string, fuzzy bool) float64 {
	if len(terms) == 0 {
		return 0
	}
	titleLower := strings.ToLower(chunk.Title)
	contentLower := strings.ToLower(chunk.Content)
	combined := titleLower + " " + contentLower

	var contentWords []string
	if fuzzy {
		contentWords = strings.Fields(contentLower)
	}

	lengthNorm := math.Log(float64(len(chunk.Content)) + 1)
	if lengthNorm <= 0 {
		lengthNorm = 1
	}

	var total float64
	for _, term := range terms {
		var s float64
		if strings.Contains(titleLower, term) {
			s += titleWeight
		}
		s += occurrenceWeight * float64(strings.Count(combined, term))
		if fuzzy {
			s += fuzzyWeight * bestFuzzyMatch(term, contentWords)
		}
		for _, tag := range chunk.Tags {
			if strings.Contains(strings.ToLower(tag), term) {
				s += tagWeight
			}
		}
		total += s / lengthNorm
	}
	return total / float64(len(terms))
}

// bestFuzzyMatch returns the highest edit-distance similarity between term and
// any content word of comparable length, or 0 when no word qualifies.
func bestFuzzyMatch(term string, words []string) float64 {
	termLen := len([]rune(term))
	best := 0.0
	for _, word := range words {
		wordLen := len([]rune(word))
		if wordLen < termLen-fuzzyLengthWindow || wordLen > termLen+fuzzyLengthWindow {
			continue
		}
		if sim := similarity(term, word); sim > best {
			best = sim
		}
	}
	return best
}

// queryTerms splits a query into lowercase whitespace-delimited terms.
func queryTerms(query string) []string {
	return strings.Fields(strings.ToLower(query))
}
