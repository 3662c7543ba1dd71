package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Server.Port != 8585 {
		t.Errorf("Port = %d, want 8585", cfg.Server.Port)
	}
	if cfg.Embedding.Provider != "simple" {
		t.Errorf("Provider = %q, want simple", cfg.Embedding.Provider)
	}
	if cfg.Embedding.Dimensions != 50 {
		t.Errorf("Dimensions = %d, want 50", cfg.Embedding.Dimensions)
	}
	if cfg.Search.SimilarThreshold != 0.7 {
		t.Errorf("SimilarThreshold = %v, want 0.7", cfg.Search.SimilarThreshold)
	}
	if cfg.Ingest.MinChunkLength != 50 {
		t.Errorf("MinChunkLength = %d, want 50", cfg.Ingest.MinChunkLength)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
debug: true
server:
  host: 0.0.0.0
  port: 9000
embedding:
  provider: onnx
  dimensions: 64
  model_path: ./model.onnx
search:
  default_max_results: 25
watch:
  directories:
    - ./docs
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Debug {
		t.Error("Debug = false, want true")
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Embedding.Provider != "onnx" {
		t.Errorf("Provider = %q, want onnx", cfg.Embedding.Provider)
	}
	if cfg.Embedding.Dimensions != 64 {
		t.Errorf("Dimensions = %d, want 64", cfg.Embedding.Dimensions)
	}
	if cfg.Search.DefaultMaxResults != 25 {
		t.Errorf("DefaultMaxResults = %d, want 25", cfg.Search.DefaultMaxResults)
	}
	// Paths starting with ./ resolve relative to the config directory.
	if want := filepath.Join(dir, "model.onnx"); cfg.Embedding.ModelPath != want {
		t.Errorf("ModelPath = %q, want %q", cfg.Embedding.ModelPath, want)
	}
	if want := filepath.Join(dir, "docs"); cfg.Watch.Directories[0] != want {
		t.Errorf("watch dir = %q, want %q", cfg.Watch.Directories[0], want)
	}
	// Unset fields still get defaults.
	if cfg.Search.SuggestionLimit != 10 {
		t.Errorf("SuggestionLimit = %d, want 10", cfg.Search.SuggestionLimit)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := Default()
	cfg.Server.Port = 9191
	cfg.Watch.Directories = []string{"/var/docs"}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Server.Port != 9191 {
		t.Errorf("Port = %d, want 9191", loaded.Server.Port)
	}
	if len(loaded.Watch.Directories) != 1 || loaded.Watch.Directories[0] != "/var/docs" {
		t.Errorf("watch dirs = %v, want [/var/docs]", loaded.Watch.Directories)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWatchConfig_RecursiveOrDefault(t *testing.T) {
	var w WatchConfig
	if !w.RecursiveOrDefault() {
		t.Error("unset recursive should default to true")
	}
	f := false
	w.Recursive = &f
	if w.RecursiveOrDefault() {
		t.Error("explicit false must be respected")
	}
}
