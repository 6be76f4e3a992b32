package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aurorastack/insight-engine/internal/dataset"
	"github.com/aurorastack/insight-engine/internal/metrics"
	"github.com/aurorastack/insight-engine/internal/models"
	"github.com/aurorastack/insight-engine/internal/utils"
)

// maxQueryLength caps free-text query size at the service boundary.
const maxQueryLength = 10000

// ValidationError marks a request the caller can fix; transports map it to
// a 400-class response.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// QueryOrchestrator runs one query end-to-end and merges collaborator output.
type QueryOrchestrator interface {
	Handle(ctx context.Context, requestID string, req models.QueryRequest) (models.QueryResult, error)
}

// DatasetCatalog exposes the registry surface the listing endpoint needs.
type DatasetCatalog interface {
	Labels() []models.DatasetLabel
	Get(label models.DatasetLabel) (*dataset.Table, error)
}

// QueryInput is the wire-level query shape before validation.
type QueryInput struct {
	Query   string            `json:"query"`
	Mode    string            `json:"mode,omitempty"`
	Context map[string]string `json:"context,omitempty"`
}

// DatasetInfo describes one registry corpus for the listing endpoint.
type DatasetInfo struct {
	Label   models.DatasetLabel `json:"label"`
	Rows    int                 `json:"rows"`
	Columns []string            `json:"columns"`
}

// InsightService is the application facade: validation, request identity,
// latency accounting, and delegation to the orchestrator.
type InsightService struct {
	logger       *slog.Logger
	orchestrator QueryOrchestrator
	catalog      DatasetCatalog
	latencies    *utils.LatencyTracker
}

// NewInsightService constructs the service facade.
func NewInsightService(logger *slog.Logger, orchestrator QueryOrchestrator, catalog DatasetCatalog) *InsightService {
	if logger == nil {
		logger = slog.Default()
	}
	return &InsightService{
		logger:       logger,
		orchestrator: orchestrator,
		catalog:      catalog,
		latencies:    utils.NewLatencyTracker(1024),
	}
}

// Query validates and answers one free-text query.
func (s *InsightService) Query(ctx context.Context, in QueryInput) (models.QueryResult, error) {
	if s.orchestrator == nil {
		return models.QueryResult{}, utils.NewAppError("services.query", "orchestrator not configured", nil)
	}

	query := strings.TrimSpace(in.Query)
	if query == "" {
		return models.QueryResult{}, &ValidationError{Msg: "query must not be empty"}
	}
	if len(query) > maxQueryLength {
		return models.QueryResult{}, &ValidationError{Msg: fmt.Sprintf("query exceeds %d characters", maxQueryLength)}
	}
	mode, ok := models.ParseMode(in.Mode)
	if !ok {
		return models.QueryResult{}, &ValidationError{Msg: fmt.Sprintf("unknown mode %q", in.Mode)}
	}

	requestID := uuid.NewString()
	s.logger.Debug("query accepted", slog.String("request_id", requestID), slog.String("mode", in.Mode))

	start := time.Now()
	result, err := s.orchestrator.Handle(ctx, requestID, models.QueryRequest{
		Query:   query,
		Mode:    mode,
		Context: in.Context,
	})
	duration := time.Since(start)
	if err != nil {
		metrics.ObserveQuery(duration, metrics.OutcomeError)
		s.logger.Error("query failed", slog.String("request_id", requestID), slog.Any("error", err))
		return models.QueryResult{}, err
	}

	s.latencies.Observe(duration)
	metrics.ObserveQuery(duration, metrics.OutcomeSuccess)
	if count := s.latencies.Count(); count >= 20 && count%20 == 0 {
		p95 := s.latencies.Percentile(95)
		s.logger.Info("query latency", slog.Duration("p95", p95), slog.Int("samples", count))
	}

	return result, nil
}

// Datasets lists the registered corpora with their shapes.
func (s *InsightService) Datasets(ctx context.Context) ([]DatasetInfo, error) {
	if s.catalog == nil {
		return nil, utils.NewAppError("services.datasets", "catalog not configured", nil)
	}

	labels := s.catalog.Labels()
	infos := make([]DatasetInfo, 0, len(labels))
	for _, label := range labels {
		table, err := s.catalog.Get(label)
		if err != nil {
			return nil, utils.NewAppError("services.datasets", "load dataset", err)
		}
		infos = append(infos, DatasetInfo{
			Label:   label,
			Rows:    table.Len(),
			Columns: table.Columns(),
		})
	}
	return infos, nil
}

// LatencyP95 returns the current p95 query latency.
func (s *InsightService) LatencyP95() time.Duration {
	if s.latencies == nil {
		return 0
	}
	return s.latencies.Percentile(95)
}
