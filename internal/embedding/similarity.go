package embedding

import "math"

// CosineSimilarity returns the cosine similarity between two vectors: the dot
// product over the product of magnitudes, in [-1, 1]. Nil, empty, or
// mismatched-length inputs and zero-magnitude vectors return 0 rather than
// an error.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
