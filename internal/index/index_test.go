package index

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/hyperjump/docdex/internal/models"
)

func TestIndex_PutGet(t *testing.T) {
	x := New()
	chunk := &models.DocumentChunk{ID: "spring-security-abc123", Source: "spring-security", Title: "JWT"}
	x.Put(chunk)

	got, err := x.Get("spring-security-abc123")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "JWT" {
		t.Errorf("Title = %q", got.Title)
	}

	if _, err := x.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestIndex_UpsertSameID(t *testing.T) {
	x := New()
	x.Put(&models.DocumentChunk{ID: "a", Source: "s", Title: "old"})
	x.Put(&models.DocumentChunk{ID: "a", Source: "s", Title: "new"})

	if x.Len() != 1 {
		t.Fatalf("Len = %d, want 1", x.Len())
	}
	got, _ := x.Get("a")
	if got.Title != "new" {
		t.Errorf("last write must win, got %q", got.Title)
	}
}

func TestIndex_GetBySource(t *testing.T) {
	x := New()
	x.Put(&models.DocumentChunk{ID: "b", Source: "spring-boot"})
	x.Put(&models.DocumentChunk{ID: "a", Source: "spring-boot"})
	x.Put(&models.DocumentChunk{ID: "c", Source: "spring-data"})

	chunks := x.GetBySource("spring-boot")
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	if chunks[0].ID != "a" || chunks[1].ID != "b" {
		t.Errorf("not ordered by ID: %s, %s", chunks[0].ID, chunks[1].ID)
	}
	if got := x.GetBySource("unknown"); got != nil {
		t.Errorf("unknown source = %v, want nil", got)
	}
}

func TestIndex_SourceReassignment(t *testing.T) {
	x := New()
	x.Put(&models.DocumentChunk{ID: "a", Source: "one"})
	x.Put(&models.DocumentChunk{ID: "a", Source: "two"})

	if got := x.GetBySource("one"); len(got) != 0 {
		t.Errorf("stale source mapping: %v", got)
	}
	if got := x.GetBySource("two"); len(got) != 1 {
		t.Errorf("new source missing: %v", got)
	}
}

func TestIndex_Stats(t *testing.T) {
	x := New()
	x.Put(&models.DocumentChunk{ID: "a", Source: "s1"})
	x.Put(&models.DocumentChunk{ID: "b", Source: "s1"})
	x.Put(&models.DocumentChunk{ID: "c", Source: "s2"})

	stats := x.Stats()
	if stats["s1"] != 2 || stats["s2"] != 1 {
		t.Errorf("Stats = %v", stats)
	}
}

func TestIndex_ConcurrentAccess(t *testing.T) {
	x := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				x.Put(&models.DocumentChunk{
					ID:     fmt.Sprintf("w%d-%d", n, j),
					Source: fmt.Sprintf("source-%d", n),
				})
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = x.All()
				_ = x.Stats()
			}
		}()
	}
	wg.Wait()
	if x.Len() != 800 {
		t.Errorf("Len = %d, want 800", x.Len())
	}
}
