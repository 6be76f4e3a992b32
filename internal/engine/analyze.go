package engine

import (
	"log/slog"
	"strings"
	"time"

	"github.com/aurorastack/insight-engine/internal/dataset"
	"github.com/aurorastack/insight-engine/internal/models"
)

// analysisSpec declares how one dataset is analysed: which columns are
// numeric, how rows are bucketed, and which pair headlines the insights.
type analysisSpec struct {
	numericColumns []string
	buckets        []bucketSpec
	primaryColumn  string
	primaryDisplay string
	bucketNoun     string
	comparePair    [2]string
	focusPair      [2]string
	focusDisplay   [2]string
	keywords       []string
}

var specs = map[models.DatasetLabel]analysisSpec{
	models.DatasetBaseBiometric: {
		numericColumns: []string{"hrv", "stress_score", "age"},
		buckets: []bucketSpec{
			{
				column:      "stress_score",
				valueColumn: "hrv",
				bands: []band{
					{label: "Low", upper: 20},
					{label: "Medium", upper: 35, inclusive: true},
					{label: "High"},
				},
				fullAgg: true,
			},
			{
				column:      "age",
				valueColumn: "hrv",
				bands: []band{
					{label: "Young", upper: 30},
					{label: "Middle", upper: 35, inclusive: true},
					{label: "Senior"},
				},
			},
		},
		primaryColumn:  "hrv",
		primaryDisplay: "HRV",
		bucketNoun:     "stress",
		comparePair:    [2]string{"Low", "High"},
		focusPair:      [2]string{"hrv", "stress_score"},
		focusDisplay:   [2]string{"HRV", "stress score"},
	},
	models.DatasetCortisolFocus: {
		numericColumns: []string{
			"cortisol_morning", "cortisol_evening", "reaction_time_ms",
			"focus_index", "sleep_duration", "cortisol_ratio", "focus_per_sleep",
		},
		buckets: []bucketSpec{
			{
				column:      "cortisol_ratio",
				valueColumn: "focus_index",
				bands: []band{
					{label: "balanced", upper: 2.8},
					{label: "elevated", upper: 3.4, inclusive: true},
					{label: "high"},
				},
			},
		},
		primaryColumn:  "focus_index",
		primaryDisplay: "focus index",
		bucketNoun:     "cortisol load",
		comparePair:    [2]string{"balanced", "high"},
		focusPair:      [2]string{"cortisol_ratio", "focus_index"},
		focusDisplay:   [2]string{"cortisol ratio", "focus index"},
		keywords:       []string{"cortisol", "focus", "reaction"},
	},
	models.DatasetHRVStress: {
		numericColumns: []string{
			"hrv", "stress_score", "perceived_stress", "breathing_rate", "sleep_quality",
		},
		buckets: []bucketSpec{
			{
				labelColumn: "stress_bucket",
				valueColumn: "hrv",
			},
		},
		primaryColumn:  "hrv",
		primaryDisplay: "HRV",
		bucketNoun:     "stress",
		comparePair:    [2]string{"low", "high"},
		focusPair:      [2]string{"hrv", "stress_score"},
		focusDisplay:   [2]string{"HRV", "stress score"},
		keywords:       []string{"weekly", "session", "recovery", "trend"},
	},
}

// Engine computes analysis results over registry tables. It holds no
// per-request state; the only mutable input is the injected trend seed
// source, which tests replace for reproducibility.
type Engine struct {
	logger *slog.Logger
	seedFn func() int64
}

// Option customises engine construction.
type Option func(*Engine)

// WithTrendSeed pins the synthetic trend generator to a fixed seed, making
// Analyze fully deterministic.
func WithTrendSeed(seed int64) Option {
	return func(e *Engine) {
		e.seedFn = func() int64 { return seed }
	}
}

// NewEngine constructs the analysis engine.
func NewEngine(logger *slog.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		logger: logger,
		seedFn: func() int64 { return time.Now().UnixNano() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ResolveDataset applies the selection priority: an explicit mode override
// wins over query keywords, keywords win over the base default.
func (e *Engine) ResolveDataset(query string, override models.DatasetLabel) models.DatasetLabel {
	if override != "" {
		return override
	}
	lowered := strings.ToLower(query)
	for _, label := range []models.DatasetLabel{models.DatasetCortisolFocus, models.DatasetHRVStress} {
		for _, kw := range specs[label].keywords {
			if strings.Contains(lowered, kw) {
				return label
			}
		}
	}
	return models.DatasetBaseBiometric
}

// Analyze computes the full result bundle for a table. Derived wellness
// fields are only produced when requested by the route.
func (e *Engine) Analyze(table *dataset.Table, label models.DatasetLabel, derived models.DerivedSet) (models.AnalysisResult, error) {
	spec, ok := specs[label]
	if !ok {
		return models.AnalysisResult{}, &models.UnknownDatasetError{Label: label}
	}

	columns := make(map[string][]float64, len(spec.numericColumns))
	stats := make(map[string]models.StatSummary, len(spec.numericColumns))
	for _, name := range spec.numericColumns {
		values, err := table.RequireNumeric(label, name)
		if err != nil {
			return models.AnalysisResult{}, err
		}
		columns[name] = values
		stats[name] = summarize(values)
	}

	bucketed := make([]models.BucketSummary, 0, len(spec.buckets))
	for _, bs := range spec.buckets {
		summary, err := groupBuckets(table, label, bs)
		if err != nil {
			return models.AnalysisResult{}, err
		}
		bucketed = append(bucketed, summary)
	}

	correlations := make(models.CorrelationSet)
	for i := 0; i < len(spec.numericColumns); i++ {
		for j := i + 1; j < len(spec.numericColumns); j++ {
			a, b := spec.numericColumns[i], spec.numericColumns[j]
			correlations[models.PairKey(a, b)] = pearson(columns[a], columns[b])
		}
	}

	result := models.AnalysisResult{
		Dataset:        label,
		TotalRecords:   table.Len(),
		Columns:        table.Columns(),
		Statistics:     stats,
		Bucketed:       bucketed,
		Correlations:   correlations,
		FocusPair:      models.PairKey(spec.focusPair[0], spec.focusPair[1]),
		CompareBuckets: spec.comparePair,
	}
	result.Insights = buildInsights(spec, result)

	if derived.Has(models.DerivedCoordination) {
		score := e.coordinationScore(result, spec)
		result.CoordinationScore = &score
		result.Hero = heroFields(score)
	}
	if derived.Has(models.DerivedTrend) {
		result.Trend = e.trendSeries(result, spec)
	}

	e.logger.Debug("analysis complete",
		slog.String("dataset", string(label)),
		slog.Int("records", result.TotalRecords),
		slog.Int("pairs", len(correlations)),
	)
	return result, nil
}
