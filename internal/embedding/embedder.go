// Package embedding provides text embedding generation, caching, and vector
// similarity.
package embedding

import (
	"context"

	"go.uber.org/zap"
)

// Provider names accepted by NewFromProvider.
const (
	ProviderSimple = "simple"
	ProviderONNX   = "onnx"
)

// Generator produces fixed-dimension, L2-normalized vector embeddings for text.
// Empty text yields an empty vector, never an error.
type Generator interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	Dimensions() int
	Close() error
}

// NewFromProvider returns the generator for the named provider. Unknown names
// and providers that fail to initialize (e.g. ONNX without cgo or a model)
// fall back to the deterministic simple generator with a logged warning;
// provider selection never fails the caller.
func NewFromProvider(name, modelPath string, dimensions, maxTokens, cacheSize int, logger *zap.Logger) Generator {
	switch name {
	case ProviderSimple, "":
		return NewSimpleGenerator(dimensions, cacheSize)
	case ProviderONNX:
		gen, err := NewONNXGenerator(modelPath, dimensions, maxTokens, cacheSize)
		if err != nil {
			if logger != nil {
				logger.Warn("ONNX provider unavailable, falling back to simple",
					zap.String("model_path", modelPath), zap.Error(err))
			}
			return NewSimpleGenerator(dimensions, cacheSize)
		}
		return gen
	default:
		if logger != nil {
			logger.Warn("unknown embedding provider, falling back to simple",
				zap.String("provider", name))
		}
		return NewSimpleGenerator(dimensions, cacheSize)
	}
}
