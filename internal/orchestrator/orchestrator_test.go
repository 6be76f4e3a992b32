package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/aurorastack/insight-engine/internal/chart"
	"github.com/aurorastack/insight-engine/internal/dataset"
	"github.com/aurorastack/insight-engine/internal/engine"
	"github.com/aurorastack/insight-engine/internal/models"
	"github.com/aurorastack/insight-engine/internal/narrative"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newOrchestrator(t *testing.T) *Orchestrator {
	t.Helper()
	logger := testLogger()
	return New(
		logger,
		dataset.NewRegistry(),
		engine.NewEngine(logger, engine.WithTrendSeed(1)),
		chart.NewBuilder(),
		narrative.NewSelector(logger, nil, nil),
	)
}

func TestHandleDefaultRunsAllCollaborators(t *testing.T) {
	o := newOrchestrator(t)
	out, err := o.Handle(context.Background(), "req-1", models.QueryRequest{Query: "how is my heart doing"})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if out.RequestID != "req-1" {
		t.Errorf("request id = %q", out.RequestID)
	}
	if out.Data.Dataset != models.DatasetBaseBiometric {
		t.Errorf("dataset = %q, want base_biometric", out.Data.Dataset)
	}
	if out.Chart == nil {
		t.Error("chart missing on default route")
	}
	if out.Insight == "" {
		t.Error("insight missing on default route")
	}
}

func TestHandleKeywordRouting(t *testing.T) {
	cases := []struct {
		name      string
		query     string
		wantChart bool
		wantText  bool
	}{
		{"visualize only", "plot my hrv please", true, false},
		{"explain only", "explain my stress pattern", false, true},
		{"analyze only", "run an analysis of my stats", false, false},
		{"visualize and explain", "chart it and explain why", true, true},
		{"no keywords runs all", "morning check-in", true, true},
	}

	o := newOrchestrator(t)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := o.Handle(context.Background(), "req", models.QueryRequest{Query: tc.query})
			if err != nil {
				t.Fatalf("Handle: %v", err)
			}
			if got := out.Chart != nil; got != tc.wantChart {
				t.Errorf("chart present = %v, want %v", got, tc.wantChart)
			}
			if got := out.Insight != ""; got != tc.wantText {
				t.Errorf("insight present = %v, want %v", got, tc.wantText)
			}
		})
	}
}

func TestHandleModeDatasetBeatsKeyword(t *testing.T) {
	o := newOrchestrator(t)
	out, err := o.Handle(context.Background(), "req", models.QueryRequest{
		Query: "how is my cortisol",
		Mode:  models.ModeEnergy,
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if out.Data.Dataset != models.DatasetHRVStress {
		t.Errorf("dataset = %q, want hrv_stress (mode override wins)", out.Data.Dataset)
	}
}

func TestHandleEnergyMerge(t *testing.T) {
	o := newOrchestrator(t)
	out, err := o.Handle(context.Background(), "req", models.QueryRequest{
		Query: "weekly energy report",
		Mode:  models.ModeEnergy,
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if out.Chart == nil || out.Chart.Primary.Kind != models.ChartLine {
		t.Errorf("energy chart = %+v, want line primary", out.Chart)
	}
	if out.Hero == nil {
		t.Fatal("hero missing in energy mode")
	}
	if out.Hero["coordination_score"] != "86.97" {
		t.Errorf("hero coordination_score = %q", out.Hero["coordination_score"])
	}
	if out.Hero["greeting"] == "" {
		t.Error("greeting not merged into hero")
	}
	// Mirror-family summaries replace the headline+detail insight text.
	if strings.Contains(out.Insight, "\n\n") {
		t.Errorf("insight %q looks like headline+detail, want summary", out.Insight)
	}
	if out.Insight == "" {
		t.Error("insight missing in energy mode")
	}
}

func TestHandleCompanionNarrativeOnly(t *testing.T) {
	o := newOrchestrator(t)
	out, err := o.Handle(context.Background(), "req", models.QueryRequest{
		Query: "chart my day", // visualize keyword must be ignored on a fixed route
		Mode:  models.ModeCompanion,
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if out.Chart != nil {
		t.Error("companion mode must not attach a chart")
	}
	if out.Insight == "" {
		t.Error("companion mode must attach a narrative")
	}
	if out.Hero != nil {
		t.Error("companion mode has no hero metadata")
	}
}

func TestHandleLongevityRoute(t *testing.T) {
	o := newOrchestrator(t)
	out, err := o.Handle(context.Background(), "req", models.QueryRequest{Mode: models.ModeLongevity})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if out.Data.Dataset != models.DatasetCortisolFocus {
		t.Errorf("dataset = %q, want cortisol_focus", out.Data.Dataset)
	}
	if out.Chart == nil || out.Insight == "" {
		t.Error("longevity mode runs chart and narrative")
	}
	if out.Data.CoordinationScore != nil {
		t.Error("longevity mode requests no derived fields")
	}
}

type countingAnalyzer struct {
	inner *engine.Engine
	calls int
}

func (a *countingAnalyzer) ResolveDataset(query string, override models.DatasetLabel) models.DatasetLabel {
	return a.inner.ResolveDataset(query, override)
}

func (a *countingAnalyzer) Analyze(table *dataset.Table, label models.DatasetLabel, derived models.DerivedSet) (models.AnalysisResult, error) {
	a.calls++
	return a.inner.Analyze(table, label, derived)
}

func TestHandleAnalyzesExactlyOnce(t *testing.T) {
	logger := testLogger()
	analyzer := &countingAnalyzer{inner: engine.NewEngine(logger, engine.WithTrendSeed(1))}
	o := New(logger, dataset.NewRegistry(), analyzer, chart.NewBuilder(), narrative.NewSelector(logger, nil, nil))

	// A query matching no keyword family runs both downstream collaborators
	// against the single analysis result.
	if _, err := o.Handle(context.Background(), "req", models.QueryRequest{Query: "check in"}); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if analyzer.calls != 1 {
		t.Errorf("Analyze called %d times, want 1", analyzer.calls)
	}
}

type failingTables struct{ err error }

func (f failingTables) Get(label models.DatasetLabel) (*dataset.Table, error) {
	return nil, f.err
}

func TestHandlePropagatesDatasetErrors(t *testing.T) {
	logger := testLogger()
	wantErr := &models.UnknownDatasetError{Label: "nope"}
	o := New(logger, failingTables{err: wantErr},
		engine.NewEngine(logger), chart.NewBuilder(), narrative.NewSelector(logger, nil, nil))

	_, err := o.Handle(context.Background(), "req", models.QueryRequest{Query: "anything"})
	var unknown *models.UnknownDatasetError
	if !errors.As(err, &unknown) {
		t.Fatalf("err = %v, want UnknownDatasetError", err)
	}
}
