package embedding

import (
	"context"
	"math"
	"testing"
)

func TestSimpleGenerator_Embed(t *testing.T) {
	g := NewSimpleGenerator(0, 0)
	ctx := context.Background()

	vec, err := g.Embed(ctx, "Spring Boot security configuration with @Bean methods")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vec) != DefaultDimensions {
		t.Fatalf("dimension = %d, want %d", len(vec), DefaultDimensions)
	}
	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if math.Abs(math.Sqrt(norm)-1.0) > 1e-9 {
		t.Errorf("L2 norm = %v, want 1.0", math.Sqrt(norm))
	}
}

func TestSimpleGenerator_EmptyText(t *testing.T) {
	g := NewSimpleGenerator(50, 0)
	for _, text := range []string{"", "   ", "\n\t"} {
		vec, err := g.Embed(context.Background(), text)
		if err != nil {
			t.Fatalf("Embed(%q): %v", text, err)
		}
		if len(vec) != 0 {
			t.Errorf("Embed(%q) = %d dims, want empty vector", text, len(vec))
		}
	}
}

func TestSimpleGenerator_Deterministic(t *testing.T) {
	g := NewSimpleGenerator(50, 0)
	ctx := context.Background()
	text := "spring data jpa repositories"

	a, _ := g.Embed(ctx, text)
	_, missesAfterFirst := g.CacheStats()
	b, _ := g.Embed(ctx, text)
	_, missesAfterSecond := g.CacheStats()

	if len(a) != len(b) {
		t.Fatal("dimension changed between calls")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("vectors differ at %d: %v != %v", i, a[i], b[i])
		}
	}
	if missesAfterSecond != missesAfterFirst {
		t.Errorf("second call increased misses: %d -> %d", missesAfterFirst, missesAfterSecond)
	}
	hits, _ := g.CacheStats()
	if hits == 0 {
		t.Error("expected a cache hit on the second call")
	}
}

func TestSimpleGenerator_DomainSignal(t *testing.T) {
	g := NewSimpleGenerator(50, 0)
	ctx := context.Background()

	security, _ := g.Embed(ctx, "spring security jwt authentication filter chain")
	securityQuery, _ := g.Embed(ctx, "jwt authentication security")
	unrelated, _ := g.Embed(ctx, "gardening tips for growing tomatoes outdoors")

	simRelated := CosineSimilarity(securityQuery, security)
	simUnrelated := CosineSimilarity(securityQuery, unrelated)
	if simRelated <= simUnrelated {
		t.Errorf("related similarity %v not above unrelated %v", simRelated, simUnrelated)
	}
}

func TestNewFromProvider_Fallback(t *testing.T) {
	tests := []struct {
		name     string
		provider string
	}{
		{"unknown provider", "quantum"},
		{"onnx without model", "onnx"},
		{"empty name", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewFromProvider(tt.provider, "", 50, 256, 0, nil)
			if g == nil {
				t.Fatal("provider selection must never return nil")
			}
			if _, ok := g.(*SimpleGenerator); !ok {
				t.Fatalf("expected fallback to SimpleGenerator, got %T", g)
			}
			if g.Dimensions() != 50 {
				t.Errorf("Dimensions = %d, want 50", g.Dimensions())
			}
		})
	}
}
