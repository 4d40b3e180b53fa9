// Package chi exposes the index service over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/docdex/docdex/internal/domain"
	indexuc "github.com/docdex/docdex/internal/usecase/index"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server translates the HTTP API onto the index service. The service is the
// synchronization boundary; handlers hold no state of their own.
type Server struct {
	index         *indexuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(index *indexuc.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{index: index, logger: logger}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEmptyDocumentID, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrEmptyDocumentText, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrInvalidDimensions, http.StatusBadRequest, codeValidationFailed),
	}
	return s
}

// Routes mounts all API endpoints on r.
func (s *Server) Routes(r chi.Router) {
	r.Post("/v1/documents", s.upsertDocument)
	r.Post("/v1/query", s.query)
	r.Post("/v1/embed", s.embed)
	r.Post("/v1/embed/batch", s.batchEmbed)
	r.Get("/v1/stats", s.stats)
	r.Get("/healthz", s.healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

// upsertDocument handles POST /v1/documents.
func (s *Server) upsertDocument(w http.ResponseWriter, r *http.Request) {
	var req upsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	created, err := s.index.Upsert(r.Context(), req.ID, req.Text)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, upsertResponse{ID: req.ID, Created: created})
}

// query handles POST /v1/query.
func (s *Server) query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	hits, err := s.index.Query(r.Context(), req.Query, req.K)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp := queryResponse{Hits: make([]hit, len(hits))}
	for i, h := range hits {
		resp.Hits[i] = hit{ID: h.ID, Text: h.Text, Score: h.Score}
	}
	writeJSON(w, http.StatusOK, resp)
}

// embed handles POST /v1/embed.
func (s *Server) embed(w http.ResponseWriter, r *http.Request) {
	var req embedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	vector, err := s.index.Embed(r.Context(), req.Text)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, embedResponse{Vector: vector, Dimensions: len(vector)})
}

// batchEmbed handles POST /v1/embed/batch.
func (s *Server) batchEmbed(w http.ResponseWriter, r *http.Request) {
	var req batchEmbedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	vectors, err := s.index.BatchEmbed(r.Context(), req.Texts)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, batchEmbedResponse{Vectors: vectors})
}

// stats handles GET /v1/stats.
func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	st := s.index.Stats(r.Context())
	writeJSON(w, http.StatusOK, statsResponse{
		Documents:  st.Documents,
		Dimensions: st.Dimensions,
		DataPath:   st.DataPath,
	})
}

// healthz handles GET /healthz. The index is in-process; reaching the
// handler means the service is up.
func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	for _, handle := range s.errorHandlers {
		if handle(w, err) {
			return
		}
	}
	s.logger.Error("unhandled domain error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, err.Error())
		return true
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
