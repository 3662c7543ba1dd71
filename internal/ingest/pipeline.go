package ingest

import (
	"context"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/docdex/internal/config"
	"github.com/hyperjump/docdex/internal/embedding"
	"github.com/hyperjump/docdex/internal/extract"
	"github.com/hyperjump/docdex/internal/features"
	"github.com/hyperjump/docdex/internal/index"
	"github.com/hyperjump/docdex/internal/models"
)

// checksumIDLen is the checksum prefix length used in chunk IDs.
const checksumIDLen = 8

// Page is one raw source page for batch ingestion.
type Page struct {
	Source  string
	URL     string
	Content string
}

// Pipeline chunks raw pages, enriches each chunk with features and an
// embedding, and writes the result to the document index.
type Pipeline struct {
	index     *index.Index
	embedder  embedding.Generator
	chunker   *Chunker
	extractor *extract.Extractor
	logger    *zap.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithLogger sets a logger for per-source failures and debug events.
func WithLogger(l *zap.Logger) PipelineOption {
	return func(p *Pipeline) { p.logger = l }
}

// WithExtractor enables file-format extraction for the local-file ingestion
// path. Without it, files are read as plain text.
func WithExtractor(e *extract.Extractor) PipelineOption {
	return func(p *Pipeline) { p.extractor = e }
}

// NewPipeline creates a pipeline writing to idx and embedding with gen.
func NewPipeline(idx *index.Index, gen embedding.Generator, cfg config.IngestConfig, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		index:    idx,
		embedder: gen,
		chunker: NewChunker(
			cfg.MinChunkLength,
			cfg.ParagraphChunkSize,
			cfg.ParagraphGroup,
			cfg.MinTailLength,
		),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Ingest chunks raw page content for source, enriches each chunk, and upserts
// it into the index. The returned chunks are the stored ones. Re-ingesting
// unchanged content reproduces the same IDs, so ingestion is idempotent.
func (p *Pipeline) Ingest(ctx context.Context, source, url, raw string) ([]*models.DocumentChunk, error) {
	if strings.TrimSpace(source) == "" {
		return nil, fmt.Errorf("source must not be empty")
	}
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("empty content for source %q", source)
	}

	sections, err := p.chunker.Chunk(raw)
	if err != nil {
		return nil, fmt.Errorf("chunk source %q: %w", source, err)
	}

	chunks := make([]*models.DocumentChunk, 0, len(sections))
	for _, section := range sections {
		chunk, err := p.enrich(ctx, source, url, section)
		if err != nil {
			return nil, fmt.Errorf("enrich chunk %q of %q: %w", section.Title, source, err)
		}
		p.index.Put(chunk)
		chunks = append(chunks, chunk)
	}
	if p.logger != nil {
		p.logger.Debug("source ingested",
			zap.String("source", source), zap.Int("chunks", len(chunks)))
	}
	return chunks, nil
}

// IngestBatch ingests multiple pages. A failing page is logged and skipped;
// one bad source never aborts the rest of the batch. Returns all chunks that
// were ingested.
func (p *Pipeline) IngestBatch(ctx context.Context, pages []Page) []*models.DocumentChunk {
	var all []*models.DocumentChunk
	for _, page := range pages {
		chunks, err := p.Ingest(ctx, page.Source, page.URL, page.Content)
		if err != nil {
			if p.logger != nil {
				p.logger.Warn("skipping source after ingest failure",
					zap.String("source", page.Source), zap.Error(err))
			}
			continue
		}
		all = append(all, chunks...)
	}
	return all
}

// enrich computes the checksum, features, and embedding for one section and
// assembles the chunk. The ID is the source plus a checksum prefix, so the
// same (source, content) pair always maps to the same chunk.
func (p *Pipeline) enrich(ctx context.Context, source, url string, section Section) (*models.DocumentChunk, error) {
	sum := Checksum(section.Content)
	feat := features.Extract(section.Content)
	vec, err := p.embedder.Embed(ctx, section.Content)
	if err != nil {
		return nil, fmt.Errorf("embed: %w", err)
	}
	return &models.DocumentChunk{
		ID:                    ChunkID(source, sum),
		Title:                 section.Title,
		Content:               section.Content,
		URL:                   url,
		Source:                source,
		Category:              feat.Category,
		Tags:                  feat.Tags,
		CodeSnippets:          feat.CodeSnippets,
		ConfigurationExamples: feat.ConfigurationExamples,
		Checksum:              sum,
		Embedding:             vec,
		EmbeddingDimension:    len(vec),
	}, nil
}

// IngestFile extracts text from the file at path and ingests it. The source
// label defaults to the file name without extension when empty.
func (p *Pipeline) IngestFile(ctx context.Context, path, source string) ([]*models.DocumentChunk, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}
	text, err := p.extractText(abs)
	if err != nil {
		return nil, fmt.Errorf("extract %q: %w", abs, err)
	}
	if source == "" {
		source = strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
	}
	return p.Ingest(ctx, source, "file://"+abs, text)
}

// IngestDirectory walks dir and ingests each regular file whose extension is
// in exts (all files when exts is empty). Per-file failures are logged and
// skipped. Returns the number of files ingested.
func (p *Pipeline) IngestDirectory(ctx context.Context, dir string, exts []string) (int, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return 0, fmt.Errorf("absolute path: %w", err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return 0, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("not a directory: %s", absDir)
	}

	n := 0
	err = filepath.WalkDir(absDir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !extensionAllowed(filepath.Ext(path), exts) {
			return nil
		}
		finfo, statErr := os.Stat(path)
		if statErr != nil || !finfo.Mode().IsRegular() {
			return nil
		}
		if _, ingestErr := p.IngestFile(ctx, path, ""); ingestErr != nil {
			if p.logger != nil {
				p.logger.Warn("skipping file after ingest failure",
					zap.String("path", path), zap.Error(ingestErr))
			}
			return nil
		}
		n++
		return nil
	})
	return n, err
}

func (p *Pipeline) extractText(path string) (string, error) {
	if p.extractor != nil {
		return p.extractor.Extract(path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

func extensionAllowed(ext string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	extNorm := strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, a := range allowed {
		if strings.ToLower(strings.TrimPrefix(a, ".")) == extNorm {
			return true
		}
	}
	return false
}

// Checksum returns the FNV-1a 64 hex fingerprint of content. It is a
// non-cryptographic content fingerprint used for ID generation and
// change detection only.
func Checksum(content string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(content))
	return fmt.Sprintf("%016x", h.Sum64())
}

// ChunkID derives the stable chunk ID from source and content checksum.
func ChunkID(source, checksum string) string {
	prefix := checksum
	if len(prefix) > checksumIDLen {
		prefix = prefix[:checksumIDLen]
	}
	return source + "-" + prefix
}
