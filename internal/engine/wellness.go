package engine

import (
	"math/rand"

	"github.com/aurorastack/insight-engine/internal/models"
)

// Coordination score bounds and weights. The score is a weighted linear
// combination of mean HRV, mean stress and their correlation, clamped so a
// degenerate table can never push it off the wellness scale.
const (
	coordinationFloor = 40.0
	coordinationCeil  = 95.0

	trendDays  = 7
	trendFloor = 20.0
	trendCeil  = 95.0
	maxDrift   = 3.0
)

// coordinationScore combines the already-rounded summary fields, so the
// score is reproducible from the published result alone.
func (e *Engine) coordinationScore(result models.AnalysisResult, spec analysisSpec) float64 {
	hrv := result.Statistics[spec.focusPair[0]].Mean
	stress := result.Statistics[spec.focusPair[1]].Mean
	r := result.Correlations[models.PairKey(spec.focusPair[0], spec.focusPair[1])]

	raw := 40 + 0.9*hrv - 0.6*stress - 15*r
	return round2(clamp(raw, coordinationFloor, coordinationCeil))
}

func heroFields(score float64) map[string]string {
	state := "steady"
	switch {
	case score >= 80:
		state = "in sync"
	case score < 55:
		state = "strained"
	}
	return map[string]string{
		"coordination_score": formatNumber(score),
		"state":              state,
	}
}

// trendSeries builds the 7-point synthetic series for each display metric.
// The series is randomized on purpose: a seeded baseline plus bounded
// day-over-day drift. Determinism comes only from the injected seed.
func (e *Engine) trendSeries(result models.AnalysisResult, spec analysisSpec) []models.TrendSeries {
	rng := rand.New(rand.NewSource(e.seedFn()))

	anchors := []struct {
		metric string
		value  float64
	}{
		{"hrv", result.Statistics[spec.focusPair[0]].Mean},
		{"stress", result.Statistics[spec.focusPair[1]].Mean},
		{"coordination", e.coordinationScore(result, spec)},
	}

	series := make([]models.TrendSeries, 0, len(anchors))
	for _, anchor := range anchors {
		points := make([]models.TrendPoint, 0, trendDays)
		value := anchor.value + drift(rng)
		for day := 1; day <= trendDays; day++ {
			value = clamp(value, trendFloor, trendCeil)
			points = append(points, models.TrendPoint{Day: day, Value: round2(value)})
			value += drift(rng)
		}
		series = append(series, models.TrendSeries{Metric: anchor.metric, Points: points})
	}
	return series
}

// drift returns a day-over-day step bounded to [-maxDrift, maxDrift].
func drift(rng *rand.Rand) float64 {
	return rng.Float64()*2*maxDrift - maxDrift
}
