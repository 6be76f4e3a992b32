// Package orchestrator routes one query end-to-end: it resolves a dataset,
// runs the analysis engine once, fans the result out to the chart and
// narrative collaborators the route asks for, and merges their outputs.
package orchestrator

import (
	"context"
	"log/slog"

	"github.com/aurorastack/insight-engine/internal/dataset"
	"github.com/aurorastack/insight-engine/internal/models"
)

// Analyzer is the analysis engine surface the orchestrator consumes.
type Analyzer interface {
	ResolveDataset(query string, override models.DatasetLabel) models.DatasetLabel
	Analyze(table *dataset.Table, label models.DatasetLabel, derived models.DerivedSet) (models.AnalysisResult, error)
}

// ViewBuilder produces chart specifications from an analysis result.
type ViewBuilder interface {
	BuildView(result *models.AnalysisResult) models.ChartView
}

// Narrator produces narrative text from an analysis result. Implementations
// never fail; collaborator outages degrade to deterministic templates.
type Narrator interface {
	Explain(ctx context.Context, result *models.AnalysisResult, family models.NarrativeFamily, tier string) models.Narrative
}

// TableSource resolves dataset labels to immutable tables.
type TableSource interface {
	Get(label models.DatasetLabel) (*dataset.Table, error)
}

// Orchestrator coordinates one query per Handle call. It holds no per-request
// state and is safe for concurrent use.
type Orchestrator struct {
	logger   *slog.Logger
	tables   TableSource
	engine   Analyzer
	charts   ViewBuilder
	narrator Narrator
}

// New wires an orchestrator from its collaborators.
func New(logger *slog.Logger, tables TableSource, engine Analyzer, charts ViewBuilder, narrator Narrator) *Orchestrator {
	return &Orchestrator{
		logger:   logger,
		tables:   tables,
		engine:   engine,
		charts:   charts,
		narrator: narrator,
	}
}

// Handle processes one query end-to-end and merges the collaborator outputs.
// Dataset and analysis errors abort the request; narrative failures never
// reach here because the narrator absorbs them.
func (o *Orchestrator) Handle(ctx context.Context, requestID string, req models.QueryRequest) (models.QueryResult, error) {
	rt := routes[req.Mode]

	label := o.engine.ResolveDataset(req.Query, rt.datasetOverride)
	table, err := o.tables.Get(label)
	if err != nil {
		return models.QueryResult{}, err
	}
	o.logger.Debug("dataset resolved", "request_id", requestID, "dataset", label, "mode", req.Mode)

	result, err := o.engine.Analyze(table, label, rt.derived)
	if err != nil {
		return models.QueryResult{}, err
	}

	runChart, runNarrative := rt.runChart, rt.runNarrative
	if !rt.fixed {
		runChart, runNarrative = detectCollaborators(req.Query)
	}

	out := models.QueryResult{RequestID: requestID, Data: result}

	if runChart {
		view := o.charts.BuildView(&result)
		out.Chart = &view
	}

	if runNarrative {
		narrative := o.narrator.Explain(ctx, &result, rt.family, req.Tier())
		out.Insight = narrative.Headline + "\n\n" + narrative.Detail
		// Mirror-family summaries replace the insight text; the greeting
		// lands in the hero map without clobbering analysis entries.
		if narrative.Summary != "" {
			out.Insight = narrative.Summary
		}
		if rt.mergeHero {
			out.Hero = mergeHero(result.Hero, narrative.TopDialog)
		}
	} else if rt.mergeHero {
		out.Hero = mergeHero(result.Hero, "")
	}

	o.logger.Debug("query merged", "request_id", requestID,
		"chart", runChart, "narrative", runNarrative)
	return out, nil
}

// mergeHero copies the analysis hero fields and adds the narrative greeting
// under its own key. Existing entries always win.
func mergeHero(analysis map[string]string, greeting string) map[string]string {
	if len(analysis) == 0 && greeting == "" {
		return nil
	}
	merged := make(map[string]string, len(analysis)+1)
	for k, v := range analysis {
		merged[k] = v
	}
	if greeting != "" {
		if _, exists := merged["greeting"]; !exists {
			merged["greeting"] = greeting
		}
	}
	return merged
}
