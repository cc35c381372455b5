package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hyperestate/aqari/internal/embedding"
	"github.com/hyperestate/aqari/internal/models"
	"github.com/hyperestate/aqari/internal/ranking"
	"github.com/hyperestate/aqari/internal/search"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("search request",
		zap.String("query", req.Query),
		zap.String("locale", req.Locale),
		zap.Bool("semantic", req.Semantic),
	)
	response, err := s.engine.Search(r.Context(), &req)
	if err != nil {
		s.respondSearchError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, response)
}

type parseRequest struct {
	Query  string `json:"query"`
	Locale string `json:"locale,omitempty"`
}

type parseResponse struct {
	Query      string                 `json:"query"`
	Criteria   *models.SearchCriteria `json:"criteria"`
	Confidence float64                `json:"confidence"`
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	criteria, confidence, err := s.engine.Parse(req.Query, req.Locale)
	if err != nil {
		if errors.Is(err, search.ErrUnknownLocale) {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("parse failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, parseResponse{
		Query:      req.Query,
		Criteria:   criteria,
		Confidence: confidence,
	})
}

func (s *Server) handleGetProperty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	locale := r.URL.Query().Get("locale")
	if locale == "" {
		locale = "ar"
	}
	property, ok := s.engine.Property(locale, id)
	if !ok {
		s.respondError(w, http.StatusNotFound, "property not found")
		return
	}
	s.respondJSON(w, http.StatusOK, property)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	locales, cacheSize := s.engine.Status()
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"locales":           locales,
		"result_cache_size": cacheSize,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// respondSearchError maps engine failures onto HTTP statuses. A missing
// embedding index is a service-level gap (503), a provider failure an
// upstream one (502); bad input stays a 400.
func (s *Server) respondSearchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidLimit):
		s.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, search.ErrUnknownLocale):
		s.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ranking.ErrNoEmbeddingIndex):
		s.respondError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, ranking.ErrIndexMisaligned):
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, embedding.ErrProvider):
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusBadGateway, err.Error())
	default:
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
