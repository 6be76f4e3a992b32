package dataset

import (
	"errors"
	"testing"

	"github.com/aurorastack/insight-engine/internal/models"
)

func TestRegistryResolvesKnownLabels(t *testing.T) {
	reg := NewRegistry()

	cases := []struct {
		label models.DatasetLabel
		rows  int
		cols  []string
	}{
		{models.DatasetBaseBiometric, 15, []string{"id", "hrv", "stress_score", "age"}},
		{models.DatasetCortisolFocus, 10, []string{"cortisol_ratio", "focus_per_sleep"}},
		{models.DatasetHRVStress, 14, []string{"hrv_delta_from_baseline", "day_index", "stress_bucket", "hrv_variability"}},
	}

	for _, tc := range cases {
		table, err := reg.Get(tc.label)
		if err != nil {
			t.Fatalf("Get(%s): %v", tc.label, err)
		}
		if table.Len() != tc.rows {
			t.Fatalf("%s: got %d rows, want %d", tc.label, table.Len(), tc.rows)
		}
		for _, col := range tc.cols {
			if !table.HasColumn(col) {
				t.Fatalf("%s: missing column %q", tc.label, col)
			}
		}
	}
}

func TestRegistryUnknownLabel(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Get("sleep_lab")
	if err == nil {
		t.Fatal("expected error for unknown label")
	}
	var unknown *models.UnknownDatasetError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownDatasetError, got %T", err)
	}
	if unknown.Label != "sleep_lab" {
		t.Fatalf("error carries label %q", unknown.Label)
	}
}

func TestRegistryMemoizesAndStaysImmutable(t *testing.T) {
	reg := NewRegistry()

	first, err := reg.Get(models.DatasetBaseBiometric)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	second, err := reg.Get(models.DatasetBaseBiometric)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if first != second {
		t.Fatal("expected memoized table instance")
	}

	hrv, ok := first.Numeric("hrv")
	if !ok {
		t.Fatal("hrv column missing")
	}
	hrv[0] = -1

	again, _ := first.Numeric("hrv")
	if again[0] != 45.2 {
		t.Fatalf("shared table mutated: got %v", again[0])
	}
}

func TestCortisolDerivedColumns(t *testing.T) {
	reg := NewRegistry()
	table, err := reg.Get(models.DatasetCortisolFocus)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	ratio, _ := table.Numeric("cortisol_ratio")
	want := []float64{2.98, 3.25, 2.51, 3.91, 2.49, 3.56, 3.07, 4.31, 3.54, 2.69}
	for i, v := range want {
		if ratio[i] != v {
			t.Fatalf("cortisol_ratio[%d] = %v, want %v", i, ratio[i], v)
		}
	}
}

func TestHRVStressDerivedColumns(t *testing.T) {
	reg := NewRegistry()
	table, err := reg.Get(models.DatasetHRVStress)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	delta, _ := table.Numeric("hrv_delta_from_baseline")
	if delta[0] != 0 || delta[1] != -3 || delta[13] != -15 {
		t.Fatalf("unexpected deltas: %v", delta)
	}

	bucket, _ := table.Labels("stress_bucket")
	// 20 -> low, 26 -> moderate, 35 -> high (boundary belongs to high band).
	if bucket[0] != "low" || bucket[4] != "moderate" || bucket[12] != "high" {
		t.Fatalf("unexpected stress buckets: %v", bucket)
	}

	variability, _ := table.Numeric("hrv_variability")
	if variability[0] != 0 {
		t.Fatalf("first row variability = %v, want 0", variability[0])
	}
	if variability[1] != 2.12 || variability[2] != 1.53 {
		t.Fatalf("rolling std mismatch: %v", variability[:3])
	}
}

func TestBuilderRejectsRaggedColumns(t *testing.T) {
	_, err := NewBuilder(3).Numeric("a", []float64{1, 2}).Build()
	if err == nil {
		t.Fatal("expected row-count error")
	}

	_, err = NewBuilder(2).
		Numeric("a", []float64{1, 2}).
		Numeric("a", []float64{3, 4}).
		Build()
	if err == nil {
		t.Fatal("expected duplicate-column error")
	}
}
