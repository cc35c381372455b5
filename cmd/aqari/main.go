// Package main is the Aqari CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperestate/aqari/internal/catalog"
	"github.com/hyperestate/aqari/internal/config"
	"github.com/hyperestate/aqari/internal/embedding"
	"github.com/hyperestate/aqari/internal/models"
	"github.com/hyperestate/aqari/internal/search"
	"github.com/hyperestate/aqari/internal/server"
	"github.com/hyperestate/aqari/internal/vector"
	"github.com/hyperestate/aqari/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/aqari/config.yaml"

// loadConfig loads config from path. When path is the default, it first
// looks for config.yaml in the current directory (for development); if that
// exists it is used. Returns the config and the path actually loaded.
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
	case "parse":
		runParse()
	case "version", "--version", "-v":
		fmt.Printf("aqari version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`Usage: aqari <command> [flags]

Commands:
  server    start the HTTP API server
  search    run a query against the local catalog
  parse     show the structured criteria extracted from a query
  version   print version
`)
}

// newEmbedder builds the configured embedding provider wrapped in an LRU
// cache.
func newEmbedder(cfg *config.EmbeddingConfig) (embedding.Embedder, error) {
	var base embedding.Embedder
	switch cfg.Provider {
	case "openai":
		embedder, err := embedding.NewOpenAIEmbedder(embedding.OpenAIConfig{
			BaseURL:    cfg.BaseURL,
			Token:      cfg.ResolveToken(),
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create openai embedder: %w", err)
		}
		base = embedder
	case "mock":
		base = embedding.NewMockEmbedder(cfg.Dimensions)
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Provider)
	}
	return embedding.NewCachedEmbedder(base, cfg.CacheSize), nil
}

// loadLocale reads one locale's catalog (and its embedding index when the
// file exists) into a snapshot.
func loadLocale(ctx context.Context, cfg *config.CatalogConfig, src config.LocaleSource) (*catalog.Snapshot, error) {
	var properties []models.Property
	var err error
	switch cfg.Source {
	case "sqlite":
		store, openErr := catalog.OpenSQLite(cfg.DatabasePath)
		if openErr != nil {
			return nil, openErr
		}
		properties, err = store.LoadAll(ctx, src.Locale)
		_ = store.Close()
	default:
		properties, err = catalog.LoadJSON(src.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s catalog: %w", src.Locale, err)
	}

	var vectors *vector.Index
	if src.VectorPath != "" {
		if _, statErr := os.Stat(src.VectorPath); statErr == nil {
			vectors, err = vector.LoadIndex(src.VectorPath)
			if err != nil {
				return nil, fmt.Errorf("failed to load %s embedding index: %w", src.Locale, err)
			}
		}
	}
	return catalog.NewSnapshot(src.Locale, properties, vectors)
}

// buildStore loads every configured locale into a catalog store.
func buildStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*catalog.Store, error) {
	store := catalog.NewStore()
	for _, src := range cfg.Catalog.Locales {
		snap, err := loadLocale(ctx, &cfg.Catalog, src)
		if err != nil {
			return nil, err
		}
		store.Put(snap)
		logger.Info("catalog loaded",
			zap.String("locale", src.Locale),
			zap.Int("properties", snap.Len()),
			zap.Bool("vectors", snap.HasVectors()),
		)
	}
	return store, nil
}

func buildEngine(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*search.Engine, *catalog.Store, error) {
	store, err := buildStore(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	embedder, err := newEmbedder(&cfg.Embedding)
	if err != nil {
		return nil, nil, err
	}
	engine, err := search.NewEngine(store, embedder, search.Options{
		CacheSize: cfg.Search.CacheSize,
		CacheTTL:  time.Duration(cfg.Search.CacheTTLSeconds) * time.Second,
	}, logger)
	if err != nil {
		return nil, nil, err
	}
	return engine, store, nil
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
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

	ctx := context.Background()
	engine, store, err := buildEngine(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize engine", zap.Error(err))
	}

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if cfg.Catalog.WatchOrDefault() && cfg.Catalog.Source == "json" {
		watchSvc := startCatalogWatcher(watchCtx, cfg, store, engine, logger, debugMode)
		if watchSvc != nil {
			defer watchSvc.Stop()
		}
	}

	srv := server.NewServer(engine, &cfg.Server, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(shutdownCtx)
}

// startCatalogWatcher reloads a locale's snapshot when its catalog file
// changes and purges the result cache afterwards.
func startCatalogWatcher(ctx context.Context, cfg *config.Config, store *catalog.Store, engine *search.Engine, logger *zap.Logger, debugMode bool) *catalog.Watcher {
	byPath := make(map[string]config.LocaleSource)
	paths := make([]string, 0, len(cfg.Catalog.Locales))
	for _, src := range cfg.Catalog.Locales {
		abs, err := filepath.Abs(src.Path)
		if err != nil {
			abs = src.Path
		}
		byPath[abs] = src
		paths = append(paths, src.Path)
	}

	opts := []catalog.WatcherOption{}
	if debugMode {
		opts = append(opts, catalog.WithLogger(logger))
	}
	watchSvc := catalog.NewWatcher(paths, func(path string) {
		src, ok := byPath[path]
		if !ok {
			return
		}
		snap, err := loadLocale(context.Background(), &cfg.Catalog, src)
		if err != nil {
			logger.Warn("catalog reload failed", zap.String("path", path), zap.Error(err))
			return
		}
		store.Put(snap)
		engine.InvalidateCache()
		logger.Info("catalog reloaded",
			zap.String("locale", src.Locale),
			zap.Int("properties", snap.Len()),
		)
	}, opts...)

	if err := watchSvc.Start(ctx); err != nil {
		logger.Warn("Failed to start catalog watcher", zap.Error(err))
		return nil
	}
	return watchSvc
}

// buildQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	locale := fs.String("locale", "ar", "query locale (ar or en)")
	limit := fs.Int("limit", 10, "number of results")
	semantic := fs.Bool("semantic", false, "rank by embedding similarity")
	jsonOut := fs.Bool("json", false, "print the raw JSON response")
	_ = fs.Parse(os.Args[2:])

	queryStr := buildQuery(fs.Args())
	if queryStr == "" {
		fmt.Fprintln(os.Stderr, "Usage: aqari search [flags] <query>")
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := zap.NewNop()
	ctx := context.Background()
	engine, _, err := buildEngine(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize engine: %v\n", err)
		os.Exit(1)
	}

	response, err := engine.Search(ctx, &models.SearchRequest{
		Query:    queryStr,
		Limit:    limit,
		Locale:   *locale,
		Semantic: *semantic,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}

	if *jsonOut {
		data, _ := json.MarshalIndent(response, "", "  ")
		fmt.Println(string(data))
		return
	}
	fmt.Printf("%s (%dms, %d matched)\n\n", response.Summary, response.QueryTime, response.Total)
	for i, result := range response.Results {
		fmt.Printf("%d. %s - %s, %s - %d SAR (score %.3f)\n",
			i+1, result.Title, result.City, result.District, result.Price, result.SimilarityScore)
	}
}

func runParse() {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	locale := fs.String("locale", "ar", "query locale (ar or en)")
	_ = fs.Parse(os.Args[2:])

	queryStr := buildQuery(fs.Args())
	if queryStr == "" {
		fmt.Fprintln(os.Stderr, "Usage: aqari parse [flags] <query>")
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := zap.NewNop()
	engine, _, err := buildEngine(context.Background(), cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize engine: %v\n", err)
		os.Exit(1)
	}

	criteria, confidence, err := engine.Parse(queryStr, *locale)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Parse failed: %v\n", err)
		os.Exit(1)
	}
	out := map[string]interface{}{
		"query":      queryStr,
		"criteria":   criteria,
		"confidence": confidence,
	}
	data, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(data))
}
