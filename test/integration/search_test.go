// Package integration exercises the full pipeline: catalog files on disk,
// precomputed embedding index, extraction, matching and ranking.
package integration

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/hyperestate/aqari/internal/catalog"
	"github.com/hyperestate/aqari/internal/embedding"
	"github.com/hyperestate/aqari/internal/models"
	"github.com/hyperestate/aqari/internal/search"
	"github.com/hyperestate/aqari/internal/vector"
)

func writeCatalog(t *testing.T, dir string) string {
	t.Helper()
	properties := []models.Property{
		{
			ID: "p1", Title: "فيلا فاخرة مع مسبح", Type: "فيلا", City: "الرياض", District: "النرجس",
			Price: 2_500_000, Features: []string{"مسبح", "حديقة", "4 غرف نوم", "3 حمامات"},
		},
		{
			ID: "p2", Title: "شقة عصرية", Type: "شقة", City: "الرياض", District: "الملقا",
			Price: 850_000, Features: []string{"بلكونة", "2 غرف نوم", "2 حمامات"},
		},
		{
			ID: "p3", Title: "فيلا على الكورنيش", Type: "فيلا", City: "جدة", District: "الشاطئ",
			Price: 3_900_000, Features: []string{"مسبح", "مجلس", "6 غرف نوم"},
		},
	}
	data, err := json.Marshal(properties)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "properties_ar.json")
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestIntegration_Search(t *testing.T) {
	dir := t.TempDir()
	catalogPath := writeCatalog(t, dir)
	vectorPath := filepath.Join(dir, "vectors_ar.bin")

	properties, err := catalog.LoadJSON(catalogPath)
	if err != nil {
		t.Fatal(err)
	}

	// Precompute the embedding index the way embedgen does, then reload it
	// from disk like the server would.
	embedder := embedding.NewMockEmbedder(32)
	ctx := context.Background()
	idx, err := vector.NewIndex(32)
	if err != nil {
		t.Fatal(err)
	}
	for i := range properties {
		vec, err := embedder.Embed(ctx, properties[i].SearchText())
		if err != nil {
			t.Fatal(err)
		}
		if err := idx.Append(vec); err != nil {
			t.Fatal(err)
		}
	}
	if err := idx.Save(vectorPath); err != nil {
		t.Fatal(err)
	}
	loaded, err := vector.LoadIndex(vectorPath)
	if err != nil {
		t.Fatal(err)
	}

	snap, err := catalog.NewSnapshot("ar", properties, loaded)
	if err != nil {
		t.Fatal(err)
	}
	store := catalog.NewStore()
	store.Put(snap)

	engine, err := search.NewEngine(store, embedding.NewCachedEmbedder(embedder, 100), search.Options{}, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	resp, err := engine.Search(ctx, &models.SearchRequest{Query: "فيلا مع مسبح في الرياض"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Total != 1 || resp.Results[0].ID != "p1" {
		t.Errorf("exact search: total=%d results=%+v", resp.Total, resp.Results)
	}

	resp, err = engine.Search(ctx, &models.SearchRequest{Query: "فيلا فيها مسبح", Semantic: true})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Total != 2 {
		t.Errorf("semantic search: total=%d, want 2", resp.Total)
	}
	for i := 1; i < len(resp.Results); i++ {
		if resp.Results[i].SimilarityScore > resp.Results[i-1].SimilarityScore {
			t.Error("semantic scores not descending")
		}
	}

	resp, err = engine.Search(ctx, &models.SearchRequest{Query: "شقة غرفتين اقل من مليون"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Total != 1 || resp.Results[0].ID != "p2" {
		t.Errorf("rooms+price search: total=%d results=%+v", resp.Total, resp.Results)
	}
}
