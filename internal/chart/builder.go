// Package chart chooses chart specifications for analysis results. It decides
// what to render (kinds, axis bindings, alternate views); rendering belongs
// to the caller.
package chart

import (
	"fmt"

	"github.com/aurorastack/insight-engine/internal/models"
)

// Builder derives chart views from analysis results. It is stateless and
// safe for concurrent use.
type Builder struct{}

// NewBuilder returns a chart view builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// BuildView selects a primary chart spec plus alternates for result.
// It never fails on a well-formed result: missing optional fields select
// a simpler view rather than erroring.
func (b *Builder) BuildView(result *models.AnalysisResult) models.ChartView {
	x, y := axisBindings(result)

	scatter := models.ChartSpec{
		Kind:  models.ChartScatter,
		Title: fmt.Sprintf("%s vs %s", y, x),
		Series: []models.SeriesSpec{
			{X: x, Y: y, Role: "primary"},
		},
	}

	if len(result.Trend) > 0 {
		return models.ChartView{
			Primary:    trendLine(result),
			Alternates: append([]models.ChartSpec{scatter}, sessionViews(x, y)...),
		}
	}

	if trendCapable(result) {
		return models.ChartView{
			Primary:    scatter,
			Alternates: sessionViews(x, y),
		}
	}

	return models.ChartView{Primary: scatter}
}

// axisBindings picks the x/y columns from the headline bucket definition,
// falling back to the focus pair when no buckets were computed.
func axisBindings(result *models.AnalysisResult) (x, y string) {
	if len(result.Bucketed) > 0 {
		return result.Bucketed[0].Column, result.Bucketed[0].ValueColumn
	}
	if len(result.Columns) >= 2 {
		return result.Columns[0], result.Columns[1]
	}
	return "x", "y"
}

// trendCapable reports whether the dataset carries per-day or per-session
// structure worth a box and time-series rendering.
func trendCapable(result *models.AnalysisResult) bool {
	return result.Dataset == models.DatasetHRVStress
}

func sessionViews(x, y string) []models.ChartSpec {
	return []models.ChartSpec{
		{
			Kind:  models.ChartBox,
			Title: fmt.Sprintf("%s by %s band", y, x),
			Series: []models.SeriesSpec{
				{X: x, Y: y, Role: "distribution"},
			},
		},
		{
			Kind:  models.ChartTimeSeries,
			Title: fmt.Sprintf("%s over sessions", y),
			Series: []models.SeriesSpec{
				{X: "day", Y: y, Role: "primary"},
			},
		},
	}
}

// trendLine builds the three-series synthetic trend view. Trend values are
// already clamped to a shared display range by the engine.
func trendLine(result *models.AnalysisResult) models.ChartSpec {
	series := make([]models.SeriesSpec, 0, len(result.Trend))
	for _, s := range result.Trend {
		series = append(series, models.SeriesSpec{X: "day", Y: s.Metric, Role: "trend"})
	}
	return models.ChartSpec{
		Kind:   models.ChartLine,
		Title:  "7-day wellness trend",
		Series: series,
	}
}
