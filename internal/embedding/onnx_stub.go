//go:build !cgo
// +build !cgo

package embedding

import (
	"context"
	"errors"
)

// ONNXGenerator stub type when built without CGO (see onnx.go for the real
// implementation). NewFromProvider falls back to the simple generator when
// construction fails.
type ONNXGenerator struct{}

// NewONNXGenerator returns an error when built without CGO.
func NewONNXGenerator(_ string, _, _, _ int) (*ONNXGenerator, error) {
	return nil, errors.New("ONNX generator requires CGO; build with CGO_ENABLED=1 and onnxruntime")
}

// Embed is unreachable on the stub; it exists to satisfy the Generator interface.
func (g *ONNXGenerator) Embed(ctx context.Context, text string) ([]float64, error) {
	return nil, errors.New("ONNX generator not available")
}

// Dimensions returns 0 on the stub.
func (g *ONNXGenerator) Dimensions() int { return 0 }

// Close is a no-op on the stub.
func (g *ONNXGenerator) Close() error { return nil }
