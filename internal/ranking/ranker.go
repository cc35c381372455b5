// Package ranking orders matched candidates, either by semantic similarity
// against precomputed embedding vectors or by a deterministic heuristic.
// All strategies produce the same SearchResult contract.
package ranking

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/hyperestate/aqari/internal/embedding"
	"github.com/hyperestate/aqari/internal/models"
	"github.com/hyperestate/aqari/internal/vector"
	"github.com/hyperestate/aqari/pkg/utils"
)

// ErrNoEmbeddingIndex is returned when semantic ranking is requested but no
// embedding index was loaded. Distinct from an empty result set: the two
// are different outcomes for the caller.
var ErrNoEmbeddingIndex = errors.New("no embedding index loaded")

// ErrIndexMisaligned is returned when the embedding index does not carry
// exactly one vector per catalog property.
var ErrIndexMisaligned = errors.New("embedding index not aligned with catalog")

// Ranker computes semantic similarity orderings.
type Ranker struct {
	embedder embedding.Embedder
	index    *vector.Index
}

// NewRanker creates a ranker. index may be nil, in which case semantic
// ranking fails fast with ErrNoEmbeddingIndex.
func NewRanker(embedder embedding.Embedder, index *vector.Index) *Ranker {
	return &Ranker{embedder: embedder, index: index}
}

// HasIndex reports whether semantic ranking is available.
func (r *Ranker) HasIndex() bool { return r.index != nil }

// IndexSize returns the number of vectors loaded, 0 without an index.
func (r *Ranker) IndexSize() int {
	if r.index == nil {
		return 0
	}
	return r.index.Len()
}

// Rank embeds the query via the external provider and orders candidates by
// cosine similarity against their precomputed vectors, descending. Ties
// keep catalog insertion order (stable sort). candidates are catalog
// positions; the vector at the same position belongs to the same property.
func (r *Ranker) Rank(ctx context.Context, query string, catalog []models.Property, candidates []int, limit int) ([]models.SearchResult, error) {
	if r.index == nil {
		return nil, ErrNoEmbeddingIndex
	}
	if r.index.Len() != len(catalog) {
		return nil, fmt.Errorf("%w: %d vectors for %d properties", ErrIndexMisaligned, r.index.Len(), len(catalog))
	}
	queryVec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	type scored struct {
		pos   int
		score float64
	}
	scores := make([]scored, len(candidates))
	for i, pos := range candidates {
		sim := vector.CosineSimilarity(queryVec, r.index.At(pos))
		scores[i] = scored{pos: pos, score: utils.Clamp01(sim)}
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})
	if limit > 0 && limit < len(scores) {
		scores = scores[:limit]
	}

	results := make([]models.SearchResult, len(scores))
	for i, s := range scores {
		results[i] = models.NewSearchResult(catalog[s.pos], s.score)
	}
	return results, nil
}

// Exact builds results in catalog order with a full similarity score of
// 1.0, for exact-match-only mode where no semantic ranking was requested.
func Exact(catalog []models.Property, candidates []int, limit int) []models.SearchResult {
	n := len(candidates)
	if limit > 0 && limit < n {
		n = limit
	}
	results := make([]models.SearchResult, n)
	for i := 0; i < n; i++ {
		results[i] = models.NewSearchResult(catalog[candidates[i]], 1.0)
	}
	return results
}
