// Package search composes criteria extraction, exact matching and ranking
// into the property search engine.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hyperestate/aqari/internal/catalog"
	"github.com/hyperestate/aqari/internal/embedding"
	"github.com/hyperestate/aqari/internal/extract"
	"github.com/hyperestate/aqari/internal/lexicon"
	"github.com/hyperestate/aqari/internal/matcher"
	"github.com/hyperestate/aqari/internal/models"
	"github.com/hyperestate/aqari/internal/ranking"
)

// ErrUnknownLocale is returned when no catalog or lexicon is loaded for
// the requested locale.
var ErrUnknownLocale = errors.New("unknown locale")

// Options tunes engine behavior.
type Options struct {
	CacheSize int
	CacheTTL  time.Duration
}

// Engine answers natural-language property queries: it extracts structured
// criteria, filters the catalog conjunctively, then ranks survivors either
// semantically or in catalog order.
type Engine struct {
	store      *catalog.Store
	embedder   embedding.Embedder
	extractors map[string]*extract.Extractor
	cache      *resultCache
	logger     *zap.Logger
}

// NewEngine creates an engine with one extractor per lexicon locale.
func NewEngine(store *catalog.Store, embedder embedding.Embedder, opts Options, logger *zap.Logger) (*Engine, error) {
	extractors := make(map[string]*extract.Extractor)
	for _, locale := range lexicon.Locales() {
		table, err := lexicon.Load(locale)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s lexicon: %w", locale, err)
		}
		extractors[locale] = extract.New(table)
	}
	return &Engine{
		store:      store,
		embedder:   embedder,
		extractors: extractors,
		cache:      newResultCache(opts.CacheSize, opts.CacheTTL),
		logger:     logger,
	}, nil
}

// Search runs the full pipeline for one request.
func (e *Engine) Search(ctx context.Context, req *models.SearchRequest) (*models.SearchResponse, error) {
	startTime := time.Now()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	key := cacheKey(req.Query, req.Locale, *req.Limit, req.Semantic)
	if cached, ok := e.cache.Get(key); ok {
		e.logger.Debug("cache hit", zap.String("query", req.Query), zap.String("locale", req.Locale))
		return cached, nil
	}

	snap, ok := e.store.Get(req.Locale)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLocale, req.Locale)
	}
	extractor, ok := e.extractors[req.Locale]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLocale, req.Locale)
	}

	criteria, confidence := extractor.Extract(req.Query)
	positions := matcher.MatchPositions(criteria, snap.Properties)

	var results []models.SearchResult
	if req.Semantic {
		ranker := ranking.NewRanker(e.embedder, snap.Vectors)
		var err error
		results, err = ranker.Rank(ctx, req.Query, snap.Properties, positions, *req.Limit)
		if err != nil {
			return nil, err
		}
	} else if confidence == 0 && strings.TrimSpace(req.Query) != "" {
		// Nothing parsed from a non-empty query. Fall back to weighted
		// substring ranking so the raw text still orders the catalog.
		results = ranking.Heuristic(req.Query, snap.Properties, positions, *req.Limit)
	} else {
		results = ranking.Exact(snap.Properties, positions, *req.Limit)
	}

	response := &models.SearchResponse{
		Results:    results,
		Total:      len(positions),
		Summary:    buildSummary(req.Locale, len(positions), criteria),
		QueryTime:  time.Since(startTime).Milliseconds(),
		Query:      req.Query,
		Criteria:   criteria,
		Confidence: confidence,
	}
	e.cache.Set(key, response)

	e.logger.Info("search completed",
		zap.String("query", req.Query),
		zap.String("locale", req.Locale),
		zap.Bool("semantic", req.Semantic),
		zap.Int("matched", len(positions)),
		zap.Int("returned", len(results)),
		zap.Float64("confidence", confidence),
		zap.Duration("duration", time.Since(startTime)),
	)
	return response, nil
}

// Parse extracts criteria without touching the catalog, for callers that
// only want the structured interpretation of a query.
func (e *Engine) Parse(query, locale string) (*models.SearchCriteria, float64, error) {
	if locale == "" {
		locale = "ar"
	}
	extractor, ok := e.extractors[locale]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %s", ErrUnknownLocale, locale)
	}
	criteria, confidence := extractor.Extract(query)
	return criteria, confidence, nil
}

// Property returns a single listing by ID from a locale's catalog.
func (e *Engine) Property(locale, id string) (*models.Property, bool) {
	snap, ok := e.store.Get(locale)
	if !ok {
		return nil, false
	}
	return snap.Get(id)
}

// InvalidateCache drops cached responses. Must be called after a catalog
// reload.
func (e *Engine) InvalidateCache() {
	e.cache.Purge()
}

// LocaleStatus describes one loaded catalog for the status endpoint.
type LocaleStatus struct {
	Locale     string `json:"locale"`
	Properties int    `json:"properties"`
	HasVectors bool   `json:"hasVectors"`
	Vectors    int    `json:"vectors"`
}

// Status reports loaded catalogs and cache occupancy.
func (e *Engine) Status() ([]LocaleStatus, int) {
	locales := e.store.Locales()
	statuses := make([]LocaleStatus, 0, len(locales))
	for _, locale := range locales {
		snap, ok := e.store.Get(locale)
		if !ok {
			continue
		}
		status := LocaleStatus{
			Locale:     locale,
			Properties: snap.Len(),
			HasVectors: snap.HasVectors(),
		}
		if snap.Vectors != nil {
			status.Vectors = snap.Vectors.Len()
		}
		statuses = append(statuses, status)
	}
	return statuses, e.cache.Len()
}

func buildSummary(locale string, total int, criteria *models.SearchCriteria) string {
	if locale == "ar" {
		if total == 0 {
			return "لم يتم العثور على عقارات مطابقة"
		}
		if criteria != nil && criteria.City != nil {
			return fmt.Sprintf("تم العثور على %d عقار في %s", total, *criteria.City)
		}
		return fmt.Sprintf("تم العثور على %d عقار مطابق", total)
	}
	if total == 0 {
		return "no matching properties found"
	}
	if criteria != nil && criteria.City != nil {
		return fmt.Sprintf("found %d properties in %s", total, *criteria.City)
	}
	return fmt.Sprintf("found %d matching properties", total)
}
