package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/hyperjump/docdex/pkg/utils"
)

// DefaultDimensions is the embedding dimension used across the index unless
// configured otherwise.
const DefaultDimensions = 50

// domainKeywords are counted into features 1-10 (occurrences / 100, capped at 1).
// Terms that appear in nearly every chunk ("spring") carry no signal and are
// left out in favor of discriminative vocabulary.
var domainKeywords = [10]string{
	"boot", "security", "data", "web", "jwt",
	"configuration", "annotation", "authentication", "controller", "jpa",
}

// codePatterns are counted into features 11-15 (occurrences / 50, capped at 1).
var codePatterns = [5]string{"@", "public", "class", "import", "new"}

// structuralChars are counted into features 16-20, each divided by structuralScale.
var structuralChars = [5]string{"{", "(", ".", ";", "\n"}

const structuralScale = 100.0

// SimpleGenerator is the deterministic fallback embedding provider. It maps
// text to a fixed-dimension feature vector from keyword, code-pattern, and
// structural-character counts, then L2-normalizes. The same text always
// produces the same vector, so results are reproducible without a model.
type SimpleGenerator struct {
	dimensions int
	cache      *Cache
}

// NewSimpleGenerator creates a simple generator with the given dimension
// (DefaultDimensions when <= 0) and cache capacity (<= 0 means unbounded).
func NewSimpleGenerator(dimensions, cacheSize int) *SimpleGenerator {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &SimpleGenerator{
		dimensions: dimensions,
		cache:      NewCache(cacheSize),
	}
}

// Embed returns the feature vector for text. Empty or whitespace-only text
// yields an empty vector. Results are cached by the SHA-256 of the raw input.
func (g *SimpleGenerator) Embed(ctx context.Context, text string) ([]float64, error) {
	if strings.TrimSpace(text) == "" {
		return []float64{}, nil
	}
	key := cacheKey(text)
	if cached, ok := g.cache.Get(key); ok {
		return cached, nil
	}
	vec := g.featurize(text)
	g.cache.Set(key, vec)
	return vec, nil
}

func (g *SimpleGenerator) featurize(text string) []float64 {
	t := strings.ToLower(strings.TrimSpace(text))
	vec := make([]float64, g.dimensions)
	pos := 0
	put := func(v float64) {
		if pos < g.dimensions {
			vec[pos] = v
		}
		pos++
	}

	put(float64(len(t)) / 1000.0)
	for _, kw := range domainKeywords {
		put(capped(float64(strings.Count(t, kw)) / 100.0))
	}
	for _, p := range codePatterns {
		put(capped(float64(strings.Count(t, p)) / 50.0))
	}
	for _, ch := range structuralChars {
		put(float64(strings.Count(t, ch)) / structuralScale)
	}
	// Remaining dimensions stay zero.

	utils.NormalizeL2(vec)
	return vec
}

func capped(v float64) float64 {
	if v > 1.0 {
		return 1.0
	}
	return v
}

// Dimensions returns the embedding dimension.
func (g *SimpleGenerator) Dimensions() int {
	return g.dimensions
}

// CacheStats returns cache hit and miss counts.
func (g *SimpleGenerator) CacheStats() (hits, misses uint64) {
	return g.cache.Stats()
}

// Close is a no-op for SimpleGenerator.
func (g *SimpleGenerator) Close() error {
	return nil
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
