// Package index provides the in-memory document chunk index.
package index

import (
	"errors"
	"sort"
	"sync"

	"github.com/hyperjump/docdex/internal/models"
)

// ErrNotFound is returned by Get when no chunk has the requested ID.
var ErrNotFound = errors.New("chunk not found")

// Index is an in-memory store of document chunks keyed by ID. Writes are
// keyed upserts (last write wins); readers never observe a partially written
// chunk. It is safe for concurrent use.
type Index struct {
	mu       sync.RWMutex
	chunks   map[string]*models.DocumentChunk
	bySource map[string]map[string]struct{}
}

// New creates an empty index.
func New() *Index {
	return &Index{
		chunks:   make(map[string]*models.DocumentChunk),
		bySource: make(map[string]map[string]struct{}),
	}
}

// Put inserts or replaces the chunk with the same ID. Re-ingesting unchanged
// content reproduces the same ID, so Put is the idempotent re-index path.
func (x *Index) Put(chunk *models.DocumentChunk) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if old, ok := x.chunks[chunk.ID]; ok && old.Source != chunk.Source {
		delete(x.bySource[old.Source], chunk.ID)
	}
	x.chunks[chunk.ID] = chunk
	ids, ok := x.bySource[chunk.Source]
	if !ok {
		ids = make(map[string]struct{})
		x.bySource[chunk.Source] = ids
	}
	ids[chunk.ID] = struct{}{}
}

// Get returns the chunk with the given ID, or ErrNotFound.
func (x *Index) Get(id string) (*models.DocumentChunk, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	chunk, ok := x.chunks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return chunk, nil
}

// GetBySource returns all chunks for source, ordered by ID for reproducibility.
func (x *Index) GetBySource(source string) []*models.DocumentChunk {
	x.mu.RLock()
	defer x.mu.RUnlock()
	ids, ok := x.bySource[source]
	if !ok {
		return nil
	}
	out := make([]*models.DocumentChunk, 0, len(ids))
	for id := range ids {
		out = append(out, x.chunks[id])
	}
	sortByID(out)
	return out
}

// All returns every chunk in the index, ordered by ID.
func (x *Index) All() []*models.DocumentChunk {
	x.mu.RLock()
	defer x.mu.RUnlock()
	out := make([]*models.DocumentChunk, 0, len(x.chunks))
	for _, chunk := range x.chunks {
		out = append(out, chunk)
	}
	sortByID(out)
	return out
}

// Len returns the number of indexed chunks.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.chunks)
}

// Stats returns chunk counts keyed by source.
func (x *Index) Stats() map[string]int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	stats := make(map[string]int, len(x.bySource))
	for source, ids := range x.bySource {
		if len(ids) > 0 {
			stats[source] = len(ids)
		}
	}
	return stats
}

func sortByID(chunks []*models.DocumentChunk) {
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].ID < chunks[j].ID })
}
