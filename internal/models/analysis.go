package models

// DatasetLabel identifies one of the fixed synthetic corpora.
type DatasetLabel string

const (
	DatasetBaseBiometric DatasetLabel = "base_biometric"
	DatasetCortisolFocus DatasetLabel = "cortisol_focus"
	DatasetHRVStress     DatasetLabel = "hrv_stress"
)

// StatSummary holds descriptive statistics for one numeric column.
// All float fields are rounded to two decimals.
type StatSummary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
}

// BucketStats aggregates one value column over the rows of a bucket.
// Min/Max are only populated for buckets that request the full aggregate set.
type BucketStats struct {
	Count int      `json:"count"`
	Mean  float64  `json:"mean"`
	Std   float64  `json:"std"`
	Min   *float64 `json:"min,omitempty"`
	Max   *float64 `json:"max,omitempty"`
}

// BucketSummary maps bucket labels to aggregates. The bucket definition is a
// total partition: every source row lands in exactly one bucket.
type BucketSummary struct {
	Column      string                 `json:"column"`
	ValueColumn string                 `json:"value_column"`
	Buckets     map[string]BucketStats `json:"buckets"`
}

// CorrelationSet maps order-independent pair keys (PairKey) to Pearson
// coefficients rounded to three decimals.
type CorrelationSet map[string]float64

// TrendPoint is one day of a synthetic trend series.
type TrendPoint struct {
	Day   int     `json:"day"`
	Value float64 `json:"value"`
}

// TrendSeries is a named 7-point synthetic series, one point per day.
type TrendSeries struct {
	Metric string       `json:"metric"`
	Points []TrendPoint `json:"points"`
}

// AnalysisResult aggregates everything the engine derives for one request.
// It is created fresh per invocation and never shared across requests.
type AnalysisResult struct {
	Dataset      DatasetLabel           `json:"dataset"`
	TotalRecords int                    `json:"total_records"`
	Columns      []string               `json:"columns"`
	Statistics   map[string]StatSummary `json:"statistics"`
	Bucketed     []BucketSummary        `json:"bucketed"`
	Correlations CorrelationSet         `json:"correlations"`
	Insights     []string               `json:"insights"`

	// FocusPair keys the dataset's headline correlation; CompareBuckets names
	// the two buckets narrative text compares.
	FocusPair      string    `json:"focus_pair"`
	CompareBuckets [2]string `json:"compare_buckets"`

	// Energy-mode derived fields; nil/empty otherwise.
	CoordinationScore *float64          `json:"coordination_score,omitempty"`
	Trend             []TrendSeries     `json:"trend,omitempty"`
	Hero              map[string]string `json:"hero,omitempty"`
}

// FocusCorrelation returns the coefficient for the dataset's focus pair.
func (r AnalysisResult) FocusCorrelation() float64 {
	return r.Correlations[r.FocusPair]
}

// PairKey builds the order-independent key used by CorrelationSet.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "_vs_" + b
}
