package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/aurorastack/insight-engine/internal/dataset"
	"github.com/aurorastack/insight-engine/internal/models"
)

type fakeOrchestrator struct {
	gotID  string
	gotReq models.QueryRequest
	result models.QueryResult
	err    error
}

func (f *fakeOrchestrator) Handle(ctx context.Context, requestID string, req models.QueryRequest) (models.QueryResult, error) {
	f.gotID = requestID
	f.gotReq = req
	if f.err != nil {
		return models.QueryResult{}, f.err
	}
	f.result.RequestID = requestID
	return f.result, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestQueryValidation(t *testing.T) {
	cases := []struct {
		name string
		in   QueryInput
	}{
		{"empty query", QueryInput{Query: ""}},
		{"whitespace query", QueryInput{Query: "   \t "}},
		{"oversized query", QueryInput{Query: strings.Repeat("x", maxQueryLength+1)}},
		{"unknown mode", QueryInput{Query: "hello", Mode: "turbo"}},
	}

	svc := NewInsightService(testLogger(), &fakeOrchestrator{}, dataset.NewRegistry())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Query(context.Background(), tc.in)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
		})
	}
}

func TestQueryDelegatesToOrchestrator(t *testing.T) {
	orch := &fakeOrchestrator{result: models.QueryResult{Insight: "text"}}
	svc := NewInsightService(testLogger(), orch, dataset.NewRegistry())

	out, err := svc.Query(context.Background(), QueryInput{
		Query:   "  analyze my hrv  ",
		Mode:    "energy",
		Context: map[string]string{"tier": "lite"},
	})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}

	if orch.gotReq.Query != "analyze my hrv" {
		t.Errorf("query = %q, want trimmed", orch.gotReq.Query)
	}
	if orch.gotReq.Mode != models.ModeEnergy {
		t.Errorf("mode = %q", orch.gotReq.Mode)
	}
	if orch.gotReq.Context["tier"] != "lite" {
		t.Errorf("context = %v", orch.gotReq.Context)
	}
	if _, err := uuid.Parse(out.RequestID); err != nil {
		t.Errorf("request id %q is not a uuid: %v", out.RequestID, err)
	}
	if out.Insight != "text" {
		t.Errorf("result not passed through: %+v", out)
	}
}

func TestQueryRequestIDsAreUnique(t *testing.T) {
	orch := &fakeOrchestrator{}
	svc := NewInsightService(testLogger(), orch, dataset.NewRegistry())

	first, _ := svc.Query(context.Background(), QueryInput{Query: "a"})
	second, _ := svc.Query(context.Background(), QueryInput{Query: "a"})
	if first.RequestID == second.RequestID {
		t.Errorf("request ids collide: %q", first.RequestID)
	}
}

func TestQueryPropagatesOrchestratorError(t *testing.T) {
	wantErr := &models.UnknownDatasetError{Label: "nope"}
	svc := NewInsightService(testLogger(), &fakeOrchestrator{err: wantErr}, dataset.NewRegistry())

	_, err := svc.Query(context.Background(), QueryInput{Query: "hello"})
	var unknown *models.UnknownDatasetError
	if !errors.As(err, &unknown) {
		t.Fatalf("err = %v, want UnknownDatasetError", err)
	}
}

func TestDatasetsListing(t *testing.T) {
	svc := NewInsightService(testLogger(), &fakeOrchestrator{}, dataset.NewRegistry())

	infos, err := svc.Datasets(context.Background())
	if err != nil {
		t.Fatalf("Datasets: %v", err)
	}

	rows := map[models.DatasetLabel]int{}
	for _, info := range infos {
		rows[info.Label] = info.Rows
		if len(info.Columns) == 0 {
			t.Errorf("dataset %s has no columns", info.Label)
		}
	}
	want := map[models.DatasetLabel]int{
		models.DatasetBaseBiometric: 15,
		models.DatasetCortisolFocus: 10,
		models.DatasetHRVStress:     14,
	}
	for label, n := range want {
		if rows[label] != n {
			t.Errorf("dataset %s rows = %d, want %d", label, rows[label], n)
		}
	}
}
