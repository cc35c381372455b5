package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/hyperestate/aqari/internal/catalog"
	"github.com/hyperestate/aqari/internal/config"
	"github.com/hyperestate/aqari/internal/embedding"
	"github.com/hyperestate/aqari/internal/models"
	"github.com/hyperestate/aqari/internal/search"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	properties := []models.Property{
		{
			ID: "p1", Title: "فيلا فاخرة", Type: "فيلا", City: "الرياض", District: "النرجس",
			Price: 2_500_000, Features: []string{"مسبح", "4 غرف نوم"},
		},
		{
			ID: "p2", Title: "شقة حديثة", Type: "شقة", City: "الرياض", District: "الملقا",
			Price: 800_000, Features: []string{"بلكونة", "2 غرف نوم"},
		},
	}
	snap, err := catalog.NewSnapshot("ar", properties, nil)
	if err != nil {
		t.Fatal(err)
	}
	store := catalog.NewStore()
	store.Put(snap)

	engine, err := search.NewEngine(store, embedding.NewMockEmbedder(32), search.Options{}, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	cfg := &config.ServerConfig{Host: "localhost", Port: 0, RequestTimeout: 5, MaxConcurrent: 8}
	return NewServer(engine, cfg, zap.NewNop())
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleSearch(t *testing.T) {
	router := newTestServer(t).Router()
	rec := doJSON(t, router, http.MethodPost, "/api/v1/search", map[string]interface{}{
		"query": "فيلا في الرياض",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp models.SearchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 1 || resp.Results[0].ID != "p1" {
		t.Errorf("got total=%d results=%+v", resp.Total, resp.Results)
	}
}

func TestHandleSearch_invalidBody(t *testing.T) {
	router := newTestServer(t).Router()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleSearch_invalidLimit(t *testing.T) {
	router := newTestServer(t).Router()
	rec := doJSON(t, router, http.MethodPost, "/api/v1/search", map[string]interface{}{
		"query": "فيلا",
		"limit": -1,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleSearch_semanticWithoutIndex(t *testing.T) {
	router := newTestServer(t).Router()
	rec := doJSON(t, router, http.MethodPost, "/api/v1/search", map[string]interface{}{
		"query":    "فيلا",
		"semantic": true,
	})
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503 when no embedding index is loaded", rec.Code)
	}
}

func TestHandleSearch_unknownLocale(t *testing.T) {
	router := newTestServer(t).Router()
	rec := doJSON(t, router, http.MethodPost, "/api/v1/search", map[string]interface{}{
		"query":  "villa",
		"locale": "fr",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleParse(t *testing.T) {
	router := newTestServer(t).Router()
	rec := doJSON(t, router, http.MethodPost, "/api/v1/parse", map[string]interface{}{
		"query": "شقة اقل من مليون",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Criteria   *models.SearchCriteria `json:"criteria"`
		Confidence float64                `json:"confidence"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Criteria == nil || resp.Criteria.MaxPrice == nil || *resp.Criteria.MaxPrice != 1_000_000 {
		t.Errorf("criteria = %+v", resp.Criteria)
	}
	if resp.Confidence != 0.5 {
		t.Errorf("confidence = %v, want 0.5", resp.Confidence)
	}
}

func TestHandleGetProperty(t *testing.T) {
	router := newTestServer(t).Router()
	rec := doJSON(t, router, http.MethodGet, "/api/v1/properties/p2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var p models.Property
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatal(err)
	}
	if p.ID != "p2" {
		t.Errorf("id = %s, want p2", p.ID)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/properties/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	router := newTestServer(t).Router()
	rec := doJSON(t, router, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestHandleStatus(t *testing.T) {
	router := newTestServer(t).Router()
	rec := doJSON(t, router, http.MethodGet, "/api/v1/status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Locales []search.LocaleStatus `json:"locales"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Locales) != 1 || resp.Locales[0].Properties != 2 {
		t.Errorf("locales = %+v", resp.Locales)
	}
}
