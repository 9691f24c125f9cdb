// Package http exposes the prediction API plus the health, readiness, and
// metrics endpoints shared by both processes. The core defines no transport
// protocol; everything transport-specific (status codes, wire shapes of
// errors) lives here.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AshVenn/openaq-aqi-predictor/internal/domain"
	"github.com/AshVenn/openaq-aqi-predictor/internal/model"
	"github.com/AshVenn/openaq-aqi-predictor/internal/observability"
	"github.com/AshVenn/openaq-aqi-predictor/internal/predict"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// ReadyFunc adapts a plain function to ReadinessChecker.
type ReadyFunc func(ctx context.Context) error

func (f ReadyFunc) CheckReadiness(ctx context.Context) error { return f(ctx) }

// Server exposes the service's HTTP surface.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, and /metrics
// routes. The scorer process uses this as-is; the API process adds the
// prediction routes via NewAPIServer.
func NewServer(addr string, ready ReadinessChecker, logger *slog.Logger) *Server {
	s, _ := newServer(addr, ready, logger)
	return s
}

// NewAPIServer creates the prediction API server: the operational routes
// plus POST /v1/predict and GET /v1/model. Readiness is satisfied by
// construction — the artifact bundle must be loaded before the server exists.
func NewAPIServer(addr string, svc *predict.Service, artifacts *model.Artifacts, metrics *observability.Metrics, logger *slog.Logger) *Server {
	alwaysReady := ReadyFunc(func(context.Context) error { return nil })
	s, mux := newServer(addr, alwaysReady, logger)

	h := &predictHandler{svc: svc, artifacts: artifacts, metrics: metrics, logger: logger}
	mux.HandleFunc("POST /v1/predict", h.handlePredict)
	mux.HandleFunc("GET /v1/model", h.handleModel)

	return s
}

func newServer(addr string, ready ReadinessChecker, logger *slog.Logger) (*Server, *http.ServeMux) {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s, mux
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

type predictHandler struct {
	svc       *predict.Service
	artifacts *model.Artifacts
	metrics   *observability.Metrics
	logger    *slog.Logger
}

func (h *predictHandler) handlePredict(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req predict.Request
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "request body is not valid JSON")
		return
	}

	result, err := h.svc.Predict(r.Context(), req)
	if err != nil {
		status, kind := classifyError(err)
		h.metrics.PredictionsTotal.WithLabelValues("error").Inc()
		h.metrics.PredictionErrors.WithLabelValues(kind).Inc()
		if status >= http.StatusInternalServerError {
			h.logger.Error("prediction failed", "kind", kind, "error", err)
		}
		writeError(w, status, kind, err.Error())
		return
	}

	outcome := "exact"
	if result.UsedModel {
		outcome = "model"
	}
	h.metrics.PredictionsTotal.WithLabelValues(outcome).Inc()
	h.metrics.PredictionDuration.Observe(time.Since(start).Seconds())

	writeJSON(w, http.StatusOK, result)
}

func (h *predictHandler) handleModel(w http.ResponseWriter, _ *http.Request) {
	meta := h.artifacts.Meta
	writeJSON(w, http.StatusOK, map[string]any{
		"name":             meta.ModelName,
		"version":          meta.Version,
		"trained_at":       meta.TrainedAt,
		"output_unit":      meta.OutputUnit,
		"input_pollutants": meta.InputPollutants,
		"features":         h.artifacts.Schema.Columns,
	})
}

// classifyError maps a prediction error to an HTTP status and a stable kind
// label used in both the error payload and the metrics.
func classifyError(err error) (int, string) {
	var (
		unsupported *domain.UnsupportedUnitError
		invalid     *domain.InvalidReadingError
		validation  *predict.ValidationError
		missing     *model.MissingRequiredFeatureError
	)

	switch {
	case errors.As(err, &unsupported):
		return http.StatusBadRequest, "unsupported_unit"
	case errors.As(err, &invalid):
		return http.StatusBadRequest, "invalid_reading"
	case errors.As(err, &validation):
		return http.StatusBadRequest, "validation"
	case errors.As(err, &missing):
		// A pollutant-derived column means the caller supplied too little
		// data; anything else means the schema itself is misconfigured.
		if _, ok := model.PollutantColumn(missing.Column); ok {
			return http.StatusUnprocessableEntity, "missing_required_feature"
		}
		return http.StatusInternalServerError, "schema_misconfigured"
	}
	return http.StatusInternalServerError, "internal"
}

func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, map[string]string{"error": message, "kind": kind})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}
