package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/aurorastack/insight-engine/internal/models"
	"github.com/aurorastack/insight-engine/internal/services"
)

// InsightHandler is the service surface the HTTP layer exposes.
type InsightHandler interface {
	Query(ctx context.Context, in services.QueryInput) (models.QueryResult, error)
	Datasets(ctx context.Context) ([]services.DatasetInfo, error)
}

// NewRouter wires the HTTP routes and request-logging middleware.
func NewRouter(logger *slog.Logger, svc InsightHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/api/v1/insight", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		var in services.QueryInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "malformed request body")
			return
		}

		result, err := svc.Query(r.Context(), in)
		if err != nil {
			status, msg := classify(err)
			if status == http.StatusInternalServerError {
				logger.Error("query failed", slog.Any("error", err))
				msg = "internal error"
			}
			writeError(w, status, msg)
			return
		}
		writeJSON(w, http.StatusOK, result)
	})

	mux.HandleFunc("/api/v1/datasets", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		infos, err := svc.Datasets(r.Context())
		if err != nil {
			logger.Error("dataset listing failed", slog.Any("error", err))
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"datasets": infos})
	})

	return logRequests(logger, mux)
}

// classify maps service errors to HTTP statuses. Caller mistakes (empty or
// oversized queries, unknown modes, unresolvable datasets) are 400s.
func classify(err error) (int, string) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, verr.Msg
	}
	var unknown *models.UnknownDatasetError
	if errors.As(err, &unknown) {
		return http.StatusBadRequest, unknown.Error()
	}
	return http.StatusInternalServerError, ""
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func logRequests(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		logger.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rw.status),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
