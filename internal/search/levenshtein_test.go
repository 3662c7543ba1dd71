package search

import (
	"math"
	"testing"
)

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"identical", "controller", "controller", 0},
		{"empty to word", "", "abc", 3},
		{"word to empty", "abc", "", 3},
		{"single substitution", "kitten", "mitten", 1},
		{"classic", "kitten", "sitting", 3},
		{"deletion", "controller", "controler", 1},
		{"unicode", "café", "cafe", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LevenshteinDistance(tt.a, tt.b); got != tt.want {
				t.Errorf("LevenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			// Distance is symmetric.
			if got := LevenshteinDistance(tt.b, tt.a); got != tt.want {
				t.Errorf("LevenshteinDistance(%q, %q) = %d, want %d", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestSimilarity(t *testing.T) {
	if got := similarity("controller", "controller"); got != 1 {
		t.Errorf("identical = %v, want 1", got)
	}
	// distance 1 over max length 10
	if got := similarity("controller", "controler"); math.Abs(got-0.9) > 1e-9 {
		t.Errorf("near match = %v, want 0.9", got)
	}
	if got := similarity("", ""); got != 1 {
		t.Errorf("empty = %v, want 1", got)
	}
}
