package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/hansard/internal/db"
	"github.com/kailas-cloud/hansard/internal/domain"
	archiveuc "github.com/kailas-cloud/hansard/internal/usecase/archive"
	healthuc "github.com/kailas-cloud/hansard/internal/usecase/health"
)

// Error codes returned to clients.
const (
	codeBadRequest      = "bad_request"
	codeInvalidInterval = "invalid_interval"
	codeNotFound        = "not_found"
	codeUpstreamError   = "upstream_error"
	codeInternalError   = "internal_error"
)

// errorResponse is the JSON error body.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the archive service over HTTP.
type Server struct {
	archive       *archiveuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	maxHitsSize   int
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	archive *archiveuc.Service,
	health *healthuc.Service,
	maxHitsSize int,
	logger *zap.Logger,
) *Server {
	s := &Server{
		archive:     archive,
		health:      health,
		logger:      logger,
		maxHitsSize: maxHitsSize,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidInterval, http.StatusBadRequest, codeInvalidInterval),
		sentinelHandler(domain.ErrSpeechNotFound, http.StatusNotFound, codeNotFound),
		upstreamHandler,
	}
	return s
}

// Register mounts the API routes.
func (s *Server) Register(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/summary", s.GetSummary)
		r.Get("/hits", s.GetHits)
		r.Get("/export", s.ExportTSV)
		r.Get("/speeches/{id}", s.GetSpeech)
		r.Get("/transcripts/{transcript}/context", s.GetContext)
	})
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// GetSummary handles GET /api/v1/summary.
func (s *Server) GetSummary(w http.ResponseWriter, r *http.Request) {
	opts, err := s.optionsFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	result, err := s.archive.Summary(r.Context(), opts)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GetHits handles GET /api/v1/hits.
func (s *Server) GetHits(w http.ResponseWriter, r *http.Request) {
	opts, err := s.optionsFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	result, err := s.archive.Hits(r.Context(), opts)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ExportTSV handles GET /api/v1/export, streaming the full result set.
func (s *Server) ExportTSV(w http.ResponseWriter, r *http.Request) {
	opts, err := s.optionsFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/tab-separated-values; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="speeches.tsv"`)

	if err := s.archive.WriteTSV(r.Context(), w, opts); err != nil {
		// Rows may already be on the wire; all we can do is cut the
		// stream short and log.
		s.logger.Error("export aborted", zap.Error(err))
	}
}

// GetSpeech handles GET /api/v1/speeches/{id}.
func (s *Server) GetSpeech(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sp, err := s.archive.Speech(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sp)
}

// GetContext handles GET /api/v1/transcripts/{transcript}/context.
func (s *Server) GetContext(w http.ResponseWriter, r *http.Request) {
	transcript := chi.URLParam(r, "transcript")

	start, err := intParam(r, "start")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	end, err := intParam(r, "end")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	speeches, err := s.archive.Context(r.Context(), transcript, start, end)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"speeches": speeches})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// optionsFromQuery parses the recognized search parameters; anything else in
// the query string is ignored.
func (s *Server) optionsFromQuery(r *http.Request) (domain.SearchOptions, error) {
	q := r.URL.Query()

	opts := domain.SearchOptions{
		Query:    q.Get("query"),
		Interval: q.Get("interval"),
		Sort:     q.Get("sort"),
	}

	if v := q.Get("include_chair"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return domain.SearchOptions{}, errors.New("include_chair must be a boolean")
		}
		opts.IncludeChair = b
	}

	if v := q.Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return domain.SearchOptions{}, errors.New("size must be a non-negative integer")
		}
		if n > s.maxHitsSize {
			n = s.maxHitsSize
		}
		opts.Size = n
	}

	if v := q.Get("from"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return domain.SearchOptions{}, errors.New("from must be a non-negative integer")
		}
		opts.From = n
	}

	return opts, nil
}

func intParam(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, errors.New(name + " is required")
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New(name + " must be an integer")
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidInterval,
		domain.ErrSpeechNotFound,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// upstreamHandler maps index round-trip failures to 502.
func upstreamHandler(w http.ResponseWriter, err error, _ string) bool {
	var dbErr *db.Error
	if !errors.As(err, &dbErr) {
		return false
	}
	writeError(w, http.StatusBadGateway, codeUpstreamError, "search backend error")
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
