// Package main is the docdex CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/hyperjump/docdex/internal/cli"
	"github.com/hyperjump/docdex/internal/config"
	"github.com/hyperjump/docdex/internal/embedding"
	"github.com/hyperjump/docdex/internal/extract"
	"github.com/hyperjump/docdex/internal/index"
	"github.com/hyperjump/docdex/internal/ingest"
	"github.com/hyperjump/docdex/internal/models"
	"github.com/hyperjump/docdex/internal/search"
	"github.com/hyperjump/docdex/internal/server"
	"github.com/hyperjump/docdex/internal/watcher"
	"github.com/hyperjump/docdex/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const (
	defaultConfigPath = "/usr/local/etc/docdex/config.yaml"
	defaultServerURL  = "http://localhost:8585"
)

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists it
// is used, so that "docdex server" from the project dir picks up the project's
// config. Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); statErr != nil {
			return config.Default(), "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "ingest":
		runIngest()
	case "similar":
		runSimilar()
	case "suggest":
		runSuggest()
	case "status":
		runStatus()
	case "watch":
		runWatch()
	case "version", "--version", "-v":
		fmt.Printf("docdex version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (watch events, ingestion, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	idx := index.New()
	embedder := embedding.NewFromProvider(
		cfg.Embedding.Provider,
		cfg.Embedding.ModelPath,
		cfg.Embedding.Dimensions,
		cfg.Embedding.MaxTokens,
		cfg.Embedding.CacheSize,
		logger,
	)
	defer embedder.Close()

	pipelineOpts := []ingest.PipelineOption{ingest.WithExtractor(extract.NewExtractor())}
	engineOpts := []search.EngineOption{}
	if debugMode {
		pipelineOpts = append(pipelineOpts, ingest.WithLogger(logger))
		engineOpts = append(engineOpts, search.WithLogger(logger))
	}
	pipeline := ingest.NewPipeline(idx, embedder, cfg.Ingest, pipelineOpts...)
	engine := search.NewEngine(idx, embedder, cfg.Search, engineOpts...)

	serverOpts := []server.Option{}
	var watchSvc *watcher.Watcher
	if len(cfg.Watch.Directories) > 0 {
		watchOpts := []watcher.Option{}
		if debugMode {
			watchOpts = append(watchOpts, watcher.WithLogger(logger))
		}
		watchSvc = watcher.New(
			cfg.Watch.Directories,
			cfg.Watch.Extensions,
			cfg.Watch.RecursiveOrDefault(),
			func(path string) {
				if _, err := pipeline.IngestFile(context.Background(), path, ""); err != nil {
					logger.Warn("watch ingest failed", zap.String("path", path), zap.Error(err))
				}
			},
			func(path string) {
				logger.Debug("watched file removed", zap.String("path", path))
			},
			watchOpts...,
		)
		watchCtx, watchCancel := context.WithCancel(context.Background())
		defer watchCancel()
		if err := watchSvc.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		defer watchSvc.Stop()
		watchSvc.SyncExisting()
		serverOpts = append(serverOpts, server.WithWatcher(watchSvc, resolvedConfigPath))
	}

	srv := server.NewServer(engine, pipeline, idx, embedder, cfg, logger, serverOpts...)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// buildSearchQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// searchArgsReorder moves any flags (and their values) that appear after the
// query to the front of the slice so that flag.Parse() sees them. Go's flag
// package stops at the first non-flag argument, so "docdex search \"query\"
// -limit 5" would otherwise leave -limit unparsed.
func searchArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func printSearchUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: docdex search [flags] <query>\n\n")
	fmt.Fprintf(fs.Output(), "Query is all remaining arguments joined by spaces. Multi-word queries work with or without quotes.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Semantic search runs by default; enable keyword matching with --keyword.
  • Use --keyword --semantic=false for keyword-only search.
  • Use --fuzzy with --keyword to tolerate typos.
  • --source, --version-filter, --category, and --tags narrow the candidate set.

Examples:
  docdex search spring security jwt
  docdex search "spring security jwt"              # same as above
  docdex search --keyword --fuzzy configuraton     # typo-tolerant keyword search
  docdex search --source spring-boot --limit 20 actuator endpoints
`)
}

func runSearch() {
	searchArgs := searchArgsReorder(os.Args[2:])
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	serverURL := fs.String("server", defaultServerURL, "server URL")
	limit := fs.Int("limit", 0, "number of results (0 = server default)")
	minScore := fs.Float64("min-score", 0, "minimum relevance score")
	semEnabled := fs.Bool("semantic", true, "enable semantic search")
	kwEnabled := fs.Bool("keyword", false, "enable keyword search")
	fuzzyEnabled := fs.Bool("fuzzy", false, "enable fuzzy matching for typo tolerance")
	source := fs.String("source", "", "filter by source")
	versionFilter := fs.String("version-filter", "", "filter by documentation version")
	category := fs.String("category", "", "filter by category")
	tags := fs.String("tags", "", "filter by tags (comma-separated, any match)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	fs.Usage = func() { printSearchUsage(fs) }
	_ = fs.Parse(searchArgs)

	queryStr := buildSearchQuery(fs.Args())
	if queryStr == "" {
		printSearchUsage(fs)
		os.Exit(1)
	}

	format, ok := parseOutputFormat(*outputFormat)
	if !ok {
		fmt.Printf("Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}

	req := &models.SearchRequest{
		Query:             queryStr,
		SemanticSearch:    *semEnabled,
		KeywordSearch:     *kwEnabled,
		FuzzySearch:       *fuzzyEnabled,
		Source:            *source,
		Version:           *versionFilter,
		Category:          *category,
		MinRelevanceScore: *minScore,
		MaxResults:        *limit,
	}
	if *tags != "" {
		for _, tag := range strings.Split(*tags, ",") {
			if t := strings.TrimSpace(tag); t != "" {
				req.Tags = append(req.Tags, t)
			}
		}
	}

	result, err := searchViaHTTP(*serverURL, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteSearchResult(os.Stdout, result, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func parseOutputFormat(s string) (cli.OutputFormat, bool) {
	switch s {
	case "json":
		return cli.OutputJSON, true
	case "text", "":
		return cli.OutputText, true
	default:
		return cli.OutputText, false
	}
}

func searchViaHTTP(serverURL string, req *models.SearchRequest) (*models.SearchResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/search", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var result models.SearchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &result, nil
}

func runIngest() {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	serverURL := fs.String("server", defaultServerURL, "server URL")
	source := fs.String("source", "", "source name (defaults to the file name)")
	docURL := fs.String("url", "", "remote documentation URL to fetch and ingest")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format, ok := parseOutputFormat(*outputFormat)
	if !ok {
		fmt.Printf("Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}

	if *docURL != "" {
		if *source == "" {
			fmt.Println("Usage: docdex ingest --source <name> --url <url>")
			os.Exit(1)
		}
		stats, err := ingestViaHTTP(*serverURL, *source, *docURL, "")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Ingest failed: %v\n", err)
			os.Exit(1)
		}
		_ = cli.WriteIngestStats(os.Stdout, stats, format)
		return
	}

	if fs.NArg() < 1 {
		fmt.Println("Usage: docdex ingest [flags] <file> | --source <name> --url <url>")
		os.Exit(1)
	}
	path := fs.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read file: %v\n", err)
		os.Exit(1)
	}
	name := *source
	if name == "" {
		base := filepath.Base(path)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	stats, err := ingestViaHTTP(*serverURL, name, "", string(data))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ingest failed: %v\n", err)
		os.Exit(1)
	}
	_ = cli.WriteIngestStats(os.Stdout, stats, format)
}

func ingestViaHTTP(serverURL, source, docURL, content string) (*models.IngestStats, error) {
	body, err := json.Marshal(map[string]string{
		"source":  source,
		"url":     docURL,
		"content": content,
	})
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/ingest", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var stats models.IngestStats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &stats, nil
}

func runSimilar() {
	fs := flag.NewFlagSet("similar", flag.ExitOnError)
	serverURL := fs.String("server", defaultServerURL, "server URL")
	limit := fs.Int("limit", 0, "number of results (0 = server default)")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: docdex similar [flags] <chunk-id>")
		os.Exit(1)
	}
	id := fs.Arg(0)

	endpoint := *serverURL + "/api/v1/documents/" + url.PathEscape(id) + "/similar"
	if *limit > 0 {
		endpoint += fmt.Sprintf("?limit=%d", *limit)
	}
	resp, err := http.Get(endpoint)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		fmt.Fprintf(os.Stderr, "Similar failed (%d): %s\n", resp.StatusCode, string(b))
		os.Exit(1)
	}
	var out struct {
		Results []*models.DocumentChunk `json:"results"`
		Total   int                     `json:"total"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		fmt.Fprintf(os.Stderr, "Parse failed: %v\n", err)
		os.Exit(1)
	}
	cli.PrintSearchResult(&models.SearchResult{
		Query:        id,
		Results:      out.Results,
		TotalResults: out.Total,
		SearchType:   "similar",
	})
}

func runSuggest() {
	fs := flag.NewFlagSet("suggest", flag.ExitOnError)
	serverURL := fs.String("server", defaultServerURL, "server URL")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: docdex suggest [flags] <partial-query>")
		os.Exit(1)
	}
	partial := buildSearchQuery(fs.Args())

	resp, err := http.Get(*serverURL + "/api/v1/suggest?q=" + url.QueryEscape(partial))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		fmt.Fprintf(os.Stderr, "Suggest failed (%d): %s\n", resp.StatusCode, string(b))
		os.Exit(1)
	}
	var out struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		fmt.Fprintf(os.Stderr, "Parse failed: %v\n", err)
		os.Exit(1)
	}
	for _, s := range out.Suggestions {
		fmt.Println(s)
	}
}

// statusResponse is the shape of GET /api/v1/status.
type statusResponse struct {
	Chunks         int            `json:"chunks"`
	Sources        map[string]int `json:"sources"`
	UptimeSeconds  int64          `json:"uptime_seconds"`
	EmbeddingCache map[string]int `json:"embedding_cache,omitempty"`
	Config         struct {
		EmbeddingProvider   string  `json:"embedding_provider"`
		EmbeddingDimensions int     `json:"embedding_dimensions"`
		DefaultMaxResults   int     `json:"default_max_results"`
		SimilarThreshold    float64 `json:"similar_threshold"`
	} `json:"config"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	serverURL := fs.String("server", defaultServerURL, "server URL")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	resp, err := http.Get(*serverURL + "/api/v1/status")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		fmt.Fprintf(os.Stderr, "Status failed (%d): %s\n", resp.StatusCode, string(b))
		os.Exit(1)
	}
	var status statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		fmt.Fprintf(os.Stderr, "Parse failed: %v\n", err)
		os.Exit(1)
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		fmt.Printf("chunks:           %d   # indexed documentation chunks\n", status.Chunks)
		fmt.Printf("uptime_seconds:   %d\n", status.UptimeSeconds)
		if len(status.Sources) > 0 {
			fmt.Println()
			fmt.Println("# sources")
			for name, n := range status.Sources {
				fmt.Printf("%-20s %d\n", name+":", n)
			}
		}
		if status.EmbeddingCache != nil {
			fmt.Println()
			fmt.Printf("cache_hits:       %d\n", status.EmbeddingCache["hits"])
			fmt.Printf("cache_misses:     %d\n", status.EmbeddingCache["misses"])
		}
		fmt.Println()
		fmt.Println("# configuration")
		fmt.Printf("embedding_provider:  %s\n", status.Config.EmbeddingProvider)
		fmt.Printf("embedding_dims:      %d\n", status.Config.EmbeddingDimensions)
		fmt.Printf("default_max_results: %d\n", status.Config.DefaultMaxResults)
		fmt.Printf("similar_threshold:   %.2f\n", status.Config.SimilarThreshold)
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func runWatch() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: docdex watch <add|remove|list> [path]")
		fmt.Println("  docdex watch add <path>     Add directory to watch")
		fmt.Println("  docdex watch remove <path>  Remove directory from watch")
		fmt.Println("  docdex watch list           List watched directories")
		os.Exit(1)
	}
	sub := os.Args[2]
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	serverURL := fs.String("server", defaultServerURL, "server URL")
	_ = fs.Parse(os.Args[3:])
	switch sub {
	case "add":
		if fs.NArg() < 1 {
			fmt.Println("Usage: docdex watch add <path>")
			os.Exit(1)
		}
		path, _ := filepath.Abs(fs.Arg(0))
		body, _ := json.Marshal(map[string]interface{}{"path": path, "sync": true})
		resp, err := http.Post(*serverURL+"/api/v1/watch/directories", "application/json", bytes.NewReader(body))
		if err != nil {
			fmt.Printf("Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			b, _ := io.ReadAll(resp.Body)
			fmt.Printf("Add failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		fmt.Printf("Added: %s\n", path)
	case "remove":
		if fs.NArg() < 1 {
			fmt.Println("Usage: docdex watch remove <path>")
			os.Exit(1)
		}
		path, _ := filepath.Abs(fs.Arg(0))
		req, _ := http.NewRequest(http.MethodDelete, *serverURL+"/api/v1/watch/directories?path="+url.QueryEscape(path), nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			fmt.Printf("Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Printf("Remove failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		fmt.Printf("Removed: %s\n", path)
	case "list":
		resp, err := http.Get(*serverURL + "/api/v1/watch/directories")
		if err != nil {
			fmt.Printf("Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Printf("List failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		var out struct {
			Directories []string `json:"directories"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			fmt.Printf("Parse failed: %v\n", err)
			os.Exit(1)
		}
		for _, d := range out.Directories {
			fmt.Println(d)
		}
	default:
		fmt.Printf("Unknown watch subcommand: %s\n", sub)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`docdex - documentation ingestion and hybrid search

Usage:
  docdex server [flags]            Start the HTTP server
  docdex search [flags] <query>    Search documentation chunks
  docdex ingest [flags] <file>     Ingest a documentation file
  docdex similar [flags] <id>      Find chunks similar to a chunk
  docdex suggest [flags] <prefix>  Suggest query completions
  docdex status [flags]            Show index and config status
  docdex watch <add|remove|list>   Manage watched directories
  docdex version                   Show version
  docdex help                      Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/docdex/config.yaml)
  --debug            Enable debug logging (watch events, ingestion, etc.)

Search Flags:
  --server string          Server URL (default: http://localhost:8585)
  --limit int              Number of results (0 = server default)
  --min-score float        Minimum relevance score
  --semantic               Enable semantic search (default: true)
  --keyword                Enable keyword search (default: false)
  --fuzzy                  Enable fuzzy matching for typo tolerance
  --source string          Filter by source
  --version-filter string  Filter by documentation version
  --category string        Filter by category
  --tags string            Filter by tags (comma-separated, any match)
  --output string          Output format: text or json (default: text)

Ingest Flags:
  --server string    Server URL (default: http://localhost:8585)
  --source string    Source name (defaults to the file name)
  --url string       Remote documentation URL to fetch and ingest

Examples:
  docdex server
  docdex ingest --source spring-boot reference.md
  docdex ingest --source spring-boot --url https://docs.spring.io/spring-boot/reference
  docdex search spring security jwt
  docdex search --keyword --fuzzy configuraton
  docdex similar spring-boot-a1b2c3d4
  docdex suggest spring sec
  docdex status --output json
  docdex watch add /path/to/docs`)
}
