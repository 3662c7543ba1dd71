//go:build cgo
// +build cgo

package embedding

import (
	"context"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/hyperjump/docdex/pkg/utils"
)

// ONNXGenerator runs a sentence-embedding model via ONNX Runtime. It requires
// CGO and the onnxruntime shared library; when either is missing,
// NewFromProvider falls back to the simple generator. Model output is copied
// into the configured dimension and L2-normalized so the vector contract
// (fixed dimension, unit length) holds regardless of provider.
type ONNXGenerator struct {
	session    *ort.AdvancedSession
	dimensions int
	maxTokens  int
	cache      *Cache
	tokenizer  Tokenizer
	// Pre-allocated tensors for Run(); input data is updated in place.
	inputIDsTensor      *ort.Tensor[int64]
	attentionMaskTensor *ort.Tensor[int64]
	tokenTypeIDsTensor  *ort.Tensor[int64]
	outputTensor        *ort.Tensor[float32]
	mu                  sync.Mutex
}

// NewONNXGenerator creates an ONNX generator for the model at modelPath.
// InitializeEnvironment is called if not already done.
func NewONNXGenerator(modelPath string, dimensions, maxTokens, cacheSize int) (*ONNXGenerator, error) {
	if modelPath == "" {
		return nil, fmt.Errorf("onnx model path not configured")
	}
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("failed to initialize ONNX runtime: %w", err)
	}

	tokenizer := &WordTokenizer{}
	inputIDs, attentionMask, tokenTypeIDs := tokenizer.Tokenize("", maxTokens)

	inputIDsTensor, err := ort.NewTensor(ort.NewShape(1, int64(maxTokens)), inputIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to create input_ids tensor: %w", err)
	}
	attentionMaskTensor, err := ort.NewTensor(ort.NewShape(1, int64(maxTokens)), attentionMask)
	if err != nil {
		inputIDsTensor.Destroy()
		return nil, fmt.Errorf("failed to create attention_mask tensor: %w", err)
	}
	tokenTypeIDsTensor, err := ort.NewTensor(ort.NewShape(1, int64(maxTokens)), tokenTypeIDs)
	if err != nil {
		inputIDsTensor.Destroy()
		attentionMaskTensor.Destroy()
		return nil, fmt.Errorf("failed to create token_type_ids tensor: %w", err)
	}
	outputTensor, err := ort.NewTensor(ort.NewShape(1, int64(dimensions)), make([]float32, dimensions))
	if err != nil {
		inputIDsTensor.Destroy()
		attentionMaskTensor.Destroy()
		tokenTypeIDsTensor.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		modelPath,
		[]string{"input_ids", "attention_mask", "token_type_ids"},
		[]string{"output"},
		[]ort.ArbitraryTensor{inputIDsTensor, attentionMaskTensor, tokenTypeIDsTensor},
		[]ort.ArbitraryTensor{outputTensor},
		nil,
	)
	if err != nil {
		inputIDsTensor.Destroy()
		attentionMaskTensor.Destroy()
		tokenTypeIDsTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &ONNXGenerator{
		session:             session,
		dimensions:          dimensions,
		maxTokens:           maxTokens,
		cache:               NewCache(cacheSize),
		tokenizer:           tokenizer,
		inputIDsTensor:      inputIDsTensor,
		attentionMaskTensor: attentionMaskTensor,
		tokenTypeIDsTensor:  tokenTypeIDsTensor,
		outputTensor:        outputTensor,
	}, nil
}

// Embed returns the model embedding for text, using the cache when available.
// Empty text yields an empty vector without touching the model.
func (g *ONNXGenerator) Embed(ctx context.Context, text string) ([]float64, error) {
	if text == "" {
		return []float64{}, nil
	}
	key := cacheKey(text)
	if cached, ok := g.cache.Get(key); ok {
		return cached, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	inputIDs, attentionMask, tokenTypeIDs := g.tokenizer.Tokenize(text, g.maxTokens)
	copy(g.inputIDsTensor.GetData(), inputIDs)
	copy(g.attentionMaskTensor.GetData(), attentionMask)
	copy(g.tokenTypeIDsTensor.GetData(), tokenTypeIDs)

	if err := g.session.Run(); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	output := g.outputTensor.GetData()
	vec := make([]float64, g.dimensions)
	for i := 0; i < g.dimensions && i < len(output); i++ {
		vec[i] = float64(output[i])
	}
	utils.NormalizeL2(vec)
	g.cache.Set(key, vec)
	return vec, nil
}

// Dimensions returns the embedding dimension.
func (g *ONNXGenerator) Dimensions() int {
	return g.dimensions
}

// Close destroys the session and tensors.
func (g *ONNXGenerator) Close() error {
	var err error
	if g.session != nil {
		err = g.session.Destroy()
		g.session = nil
	}
	if g.inputIDsTensor != nil {
		_ = g.inputIDsTensor.Destroy()
		g.inputIDsTensor = nil
	}
	if g.attentionMaskTensor != nil {
		_ = g.attentionMaskTensor.Destroy()
		g.attentionMaskTensor = nil
	}
	if g.tokenTypeIDsTensor != nil {
		_ = g.tokenTypeIDsTensor.Destroy()
		g.tokenTypeIDsTensor = nil
	}
	if g.outputTensor != nil {
		_ = g.outputTensor.Destroy()
		g.outputTensor = nil
	}
	return err
}
