package engine

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/aurorastack/insight-engine/internal/dataset"
	"github.com/aurorastack/insight-engine/internal/models"
)

func baseTable(t *testing.T) *dataset.Table {
	t.Helper()
	table, err := dataset.NewRegistry().Get(models.DatasetBaseBiometric)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return table
}

func TestAnalyzeBaseStatistics(t *testing.T) {
	eng := NewEngine(nil)

	result, err := eng.Analyze(baseTable(t), models.DatasetBaseBiometric, nil)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	hrv := result.Statistics["hrv"]
	want := models.StatSummary{Count: 15, Mean: 50.28, Std: 7.21, Min: 38.5, Max: 61.3, Median: 49.7}
	if hrv != want {
		t.Fatalf("hrv summary = %+v, want %+v", hrv, want)
	}

	stress := result.Statistics["stress_score"]
	if stress.Mean != 27.53 || stress.Median != 25 {
		t.Fatalf("stress summary = %+v", stress)
	}
	if result.TotalRecords != 15 {
		t.Fatalf("total records = %d", result.TotalRecords)
	}
}

func TestAnalyzeBaseBuckets(t *testing.T) {
	eng := NewEngine(nil)

	result, err := eng.Analyze(baseTable(t), models.DatasetBaseBiometric, nil)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(result.Bucketed) != 2 {
		t.Fatalf("expected stress and age bucketings, got %d", len(result.Bucketed))
	}

	stress := result.Bucketed[0].Buckets
	low := stress["Low"]
	if low.Count != 5 || low.Mean != 57.24 {
		t.Fatalf("Low bucket = %+v", low)
	}
	high := stress["High"]
	if high.Count != 4 || high.Mean != 41.53 {
		t.Fatalf("High bucket = %+v", high)
	}
	if low.Min == nil || *low.Min != 52.8 || *low.Max != 61.3 {
		t.Fatalf("Low min/max = %+v", low)
	}

	age := result.Bucketed[1].Buckets
	if age["Senior"].Count != 2 || age["Senior"].Mean != 59.2 {
		t.Fatalf("Senior group = %+v", age["Senior"])
	}
	if age["Young"].Min != nil {
		t.Fatal("age grouping should not carry min/max")
	}
}

func TestBucketPartitionIsTotal(t *testing.T) {
	eng := NewEngine(nil)
	reg := dataset.NewRegistry()

	for _, label := range reg.Labels() {
		table, err := reg.Get(label)
		if err != nil {
			t.Fatalf("registry %s: %v", label, err)
		}
		result, err := eng.Analyze(table, label, nil)
		if err != nil {
			t.Fatalf("analyze %s: %v", label, err)
		}
		for _, summary := range result.Bucketed {
			total := 0
			for _, b := range summary.Buckets {
				total += b.Count
			}
			if total != result.TotalRecords {
				t.Fatalf("%s %s: bucket counts sum to %d, want %d",
					label, summary.Column, total, result.TotalRecords)
			}
		}
	}
}

func TestBucketBoundaries(t *testing.T) {
	spec := specs[models.DatasetBaseBiometric].buckets[0]

	cases := []struct {
		value float64
		want  string
	}{
		{19, "Low"},
		{20, "Medium"}, // lower edge is exclusive for Low
		{35, "Medium"}, // boundary value stays in the lower-named bucket
		{36, "High"},
	}
	for _, tc := range cases {
		if got := spec.assign(tc.value); got != tc.want {
			t.Fatalf("assign(%v) = %q, want %q", tc.value, got, tc.want)
		}
	}
}

func TestAnalyzeScenarioLowBucket(t *testing.T) {
	table, err := dataset.NewBuilder(5).
		Ints("id", []int{1, 2, 3, 4, 5}).
		Numeric("hrv", []float64{45.2, 52.8, 38.5, 61.3, 49.7}).
		Ints("stress_score", []int{25, 15, 45, 10, 30}).
		Ints("age", []int{28, 32, 25, 35, 30}).
		Build()
	if err != nil {
		t.Fatalf("build table: %v", err)
	}

	result, err := NewEngine(nil).Analyze(table, models.DatasetBaseBiometric, nil)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	low := result.Bucketed[0].Buckets["Low"]
	if low.Count != 2 {
		t.Fatalf("Low bucket count = %d, want 2", low.Count)
	}
	if low.Mean != 57.05 {
		t.Fatalf("Low bucket mean = %v, want 57.05", low.Mean)
	}
}

func TestCorrelationsPairwise(t *testing.T) {
	eng := NewEngine(nil)

	result, err := eng.Analyze(baseTable(t), models.DatasetBaseBiometric, nil)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	// Three numeric columns yield exactly three unordered pairs.
	if len(result.Correlations) != 3 {
		t.Fatalf("got %d pairs, want 3: %v", len(result.Correlations), result.Correlations)
	}
	for key := range result.Correlations {
		if key == models.PairKey("hrv", "hrv") {
			t.Fatal("self pair must not be computed")
		}
	}

	r, ok := result.Correlations[models.PairKey("stress_score", "hrv")]
	if !ok {
		t.Fatal("pair key must be order-independent")
	}
	if r != -0.918 {
		t.Fatalf("hrv/stress correlation = %v, want -0.918", r)
	}
}

func TestRoundingContract(t *testing.T) {
	eng := NewEngine(nil)
	reg := dataset.NewRegistry()

	for _, label := range reg.Labels() {
		table, _ := reg.Get(label)
		result, err := eng.Analyze(table, label, nil)
		if err != nil {
			t.Fatalf("analyze %s: %v", label, err)
		}
		for col, s := range result.Statistics {
			for _, v := range []float64{s.Mean, s.Std, s.Min, s.Max, s.Median} {
				if math.Round(v*100)/100 != v {
					t.Fatalf("%s.%s carries more than 2 decimals: %v", label, col, v)
				}
			}
		}
		for key, r := range result.Correlations {
			if math.Round(r*1000)/1000 != r {
				t.Fatalf("%s %s carries more than 3 decimals: %v", label, key, r)
			}
			if r < -1 || r > 1 {
				t.Fatalf("%s %s out of range: %v", label, key, r)
			}
		}
	}
}

func TestAnalyzeIdempotentWithSeed(t *testing.T) {
	reg := dataset.NewRegistry()
	table, _ := reg.Get(models.DatasetHRVStress)
	derived := models.NewDerivedSet(models.DerivedCoordination, models.DerivedTrend)

	eng := NewEngine(nil, WithTrendSeed(42))
	first, err := eng.Analyze(table, models.DatasetHRVStress, derived)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	second, err := eng.Analyze(table, models.DatasetHRVStress, derived)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("same table/dataset/seed must yield identical results")
	}
}

func TestCoordinationScore(t *testing.T) {
	reg := dataset.NewRegistry()
	table, _ := reg.Get(models.DatasetHRVStress)

	result, err := NewEngine(nil, WithTrendSeed(1)).
		Analyze(table, models.DatasetHRVStress, models.NewDerivedSet(models.DerivedCoordination))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if result.CoordinationScore == nil {
		t.Fatal("expected coordination score")
	}
	// 40 + 0.9*56.93 - 0.6*31.86 - 15*(-0.99) = 86.97
	if *result.CoordinationScore != 86.97 {
		t.Fatalf("coordination score = %v, want 86.97", *result.CoordinationScore)
	}
	if result.Hero["coordination_score"] != "86.97" {
		t.Fatalf("hero fields = %v", result.Hero)
	}
}

func TestTrendSeriesShapeAndBounds(t *testing.T) {
	reg := dataset.NewRegistry()
	table, _ := reg.Get(models.DatasetHRVStress)
	derived := models.NewDerivedSet(models.DerivedTrend)

	result, err := NewEngine(nil, WithTrendSeed(7)).Analyze(table, models.DatasetHRVStress, derived)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(result.Trend) != 3 {
		t.Fatalf("got %d trend series, want 3", len(result.Trend))
	}
	for _, series := range result.Trend {
		if len(series.Points) != 7 {
			t.Fatalf("%s: got %d points, want 7", series.Metric, len(series.Points))
		}
		for _, p := range series.Points {
			if p.Value < 20 || p.Value > 95 {
				t.Fatalf("%s day %d out of bounds: %v", series.Metric, p.Day, p.Value)
			}
		}
	}

	other, _ := NewEngine(nil, WithTrendSeed(8)).Analyze(table, models.DatasetHRVStress, derived)
	if reflect.DeepEqual(result.Trend, other.Trend) {
		t.Fatal("different seeds should diverge")
	}
}

func TestResolveDatasetPriority(t *testing.T) {
	eng := NewEngine(nil)

	cases := []struct {
		name     string
		query    string
		override models.DatasetLabel
		want     models.DatasetLabel
	}{
		{"mode wins over keyword", "analyze my cortisol", models.DatasetHRVStress, models.DatasetHRVStress},
		{"keyword cortisol", "how is my cortisol doing", "", models.DatasetCortisolFocus},
		{"keyword case-insensitive", "show my Weekly recovery", "", models.DatasetHRVStress},
		{"default", "analyze everything", "", models.DatasetBaseBiometric},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := eng.ResolveDataset(tc.query, tc.override); got != tc.want {
				t.Fatalf("ResolveDataset = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestAnalyzeMissingColumn(t *testing.T) {
	table, err := dataset.NewBuilder(2).
		Numeric("hrv", []float64{50, 51}).
		Build()
	if err != nil {
		t.Fatalf("build table: %v", err)
	}

	_, err = NewEngine(nil).Analyze(table, models.DatasetBaseBiometric, nil)
	var missing *models.MissingColumnError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingColumnError, got %v", err)
	}
	if missing.Column != "stress_score" {
		t.Fatalf("missing column = %q", missing.Column)
	}
}
