// Package server provides the HTTP API for docdex.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/docdex/internal/config"
	"github.com/hyperjump/docdex/internal/embedding"
	"github.com/hyperjump/docdex/internal/index"
	"github.com/hyperjump/docdex/internal/ingest"
	"github.com/hyperjump/docdex/internal/search"
	"go.uber.org/zap"
)

// WatchService is the subset of the directory watcher the API manages.
type WatchService interface {
	Directories() []string
	AddDirectory(path string, syncExisting bool) error
	RemoveDirectory(path string) error
}

// Server is the HTTP server for the docdex API.
type Server struct {
	engine   *search.Engine
	pipeline *ingest.Pipeline
	index    *index.Index
	embedder embedding.Generator
	config   *config.Config
	logger   *zap.Logger
	server   *http.Server
	started  time.Time

	// Watch state is optional; nil when watch mode is disabled.
	watch        WatchService
	configPath   string
	watchCfgMu   sync.Mutex
	fetchTimeout time.Duration
}

// Option configures optional server behavior.
type Option func(*Server)

// WithWatcher attaches a running directory watcher so the watch endpoints can
// manage it. configPath, when non-empty, lets directory changes persist.
func WithWatcher(w WatchService, configPath string) Option {
	return func(s *Server) {
		s.watch = w
		s.configPath = configPath
	}
}

// NewServer creates a server with the given dependencies.
func NewServer(
	engine *search.Engine,
	pipeline *ingest.Pipeline,
	idx *index.Index,
	embedder embedding.Generator,
	cfg *config.Config,
	logger *zap.Logger,
	opts ...Option,
) *Server {
	s := &Server{
		engine:       engine,
		pipeline:     pipeline,
		index:        idx,
		embedder:     embedder,
		config:       cfg,
		logger:       logger,
		started:      time.Now(),
		fetchTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the chi router with all API routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/search", s.handleSearch)
	r.Post("/api/v1/ingest", s.handleIngest)
	r.Get("/api/v1/documents/{id}", s.handleGetDocument)
	r.Get("/api/v1/documents/{id}/similar", s.handleSimilar)
	r.Get("/api/v1/suggest", s.handleSuggest)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/api/v1/watch/directories", s.handleWatchDirectoriesList)
	r.Post("/api/v1/watch/directories", s.handleWatchDirectoriesAdd)
	r.Delete("/api/v1/watch/directories", s.handleWatchDirectoriesRemove)
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
