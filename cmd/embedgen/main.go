// Package main precomputes the embedding index for a catalog. It embeds
// every property's search text in batches through a worker pool and writes
// the position-aligned index file the server loads at startup.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/hyperestate/aqari/internal/catalog"
	"github.com/hyperestate/aqari/internal/config"
	"github.com/hyperestate/aqari/internal/embedding"
	"github.com/hyperestate/aqari/internal/models"
	"github.com/hyperestate/aqari/internal/vector"
	"github.com/hyperestate/aqari/pkg/utils"
)

const defaultBatchSize = 16

func main() {
	fs := flag.NewFlagSet("embedgen", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "config file path")
	locale := fs.String("locale", "", "locale to embed (empty = all configured locales)")
	batchSize := fs.Int("batch", defaultBatchSize, "properties per embedding request")
	workers := fs.Int("workers", 0, "concurrent embedding requests (0 = NumCPU/2)")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug || *debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	embedder, err := newEmbedder(&cfg.Embedding)
	if err != nil {
		logger.Fatal("Failed to create embedder", zap.Error(err))
	}

	poolSize := *workers
	if poolSize <= 0 {
		poolSize = runtime.NumCPU() / 2
		if poolSize < 1 {
			poolSize = 1
		}
	}

	ctx := context.Background()
	for _, src := range cfg.Catalog.Locales {
		if *locale != "" && src.Locale != *locale {
			continue
		}
		if src.VectorPath == "" {
			logger.Warn("locale has no vector_path configured, skipping", zap.String("locale", src.Locale))
			continue
		}
		if err := generate(ctx, &cfg.Catalog, src, embedder, poolSize, *batchSize, logger); err != nil {
			logger.Fatal("Embedding generation failed", zap.String("locale", src.Locale), zap.Error(err))
		}
	}
}

func newEmbedder(cfg *config.EmbeddingConfig) (embedding.Embedder, error) {
	switch cfg.Provider {
	case "openai":
		return embedding.NewOpenAIEmbedder(embedding.OpenAIConfig{
			BaseURL:    cfg.BaseURL,
			Token:      cfg.ResolveToken(),
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
		})
	case "mock":
		return embedding.NewMockEmbedder(cfg.Dimensions), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Provider)
	}
}

func loadProperties(ctx context.Context, cfg *config.CatalogConfig, src config.LocaleSource) ([]models.Property, error) {
	if cfg.Source == "sqlite" {
		store, err := catalog.OpenSQLite(cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.LoadAll(ctx, src.Locale)
	}
	return catalog.LoadJSON(src.Path)
}

// generate embeds one locale's catalog and writes its index file. Batches
// run concurrently through the pool; results land in position-aligned
// slots so catalog order is preserved regardless of completion order.
func generate(ctx context.Context, cfg *config.CatalogConfig, src config.LocaleSource, embedder embedding.Embedder, poolSize, batchSize int, logger *zap.Logger) error {
	properties, err := loadProperties(ctx, cfg, src)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	if len(properties) == 0 {
		return fmt.Errorf("catalog for %s is empty", src.Locale)
	}
	logger.Info("embedding catalog",
		zap.String("locale", src.Locale),
		zap.Int("properties", len(properties)),
		zap.Int("workers", poolSize),
		zap.Int("batch", batchSize),
	)

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return err
	}
	defer pool.Release()

	vectors := make([][]float32, len(properties))
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for start := 0; start < len(properties); start += batchSize {
		end := start + batchSize
		if end > len(properties) {
			end = len(properties)
		}
		start, end := start, end
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			texts := make([]string, end-start)
			for i := start; i < end; i++ {
				texts[i-start] = properties[i].SearchText()
			}
			batch, err := embedder.EmbedBatch(ctx, texts)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			for i, vec := range batch {
				vectors[start+i] = vec
			}
		})
		if submitErr != nil {
			wg.Done()
			return submitErr
		}
	}
	wg.Wait()
	if firstErr != nil {
		return firstErr
	}

	index, err := vector.NewIndex(embedder.Dimensions())
	if err != nil {
		return err
	}
	for i, vec := range vectors {
		if err := index.Append(vec); err != nil {
			return fmt.Errorf("vector %d (%s): %w", i, properties[i].ID, err)
		}
	}
	if err := index.Save(src.VectorPath); err != nil {
		return fmt.Errorf("failed to save index: %w", err)
	}
	logger.Info("embedding index written",
		zap.String("locale", src.Locale),
		zap.String("path", src.VectorPath),
		zap.Int("vectors", index.Len()),
	)
	return nil
}
