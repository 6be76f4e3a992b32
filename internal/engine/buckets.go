package engine

import (
	"github.com/aurorastack/insight-engine/internal/dataset"
	"github.com/aurorastack/insight-engine/internal/models"
)

// band is one named interval of a threshold partition, ordered low to high.
// Upper is the exclusive upper edge except when inclusive is set; the last
// band is open-ended and its Upper is ignored.
type band struct {
	label     string
	upper     float64
	inclusive bool
}

// bucketSpec derives one categorical grouping for a dataset. Either bands
// partition a numeric source column, or labelColumn names a pre-computed
// categorical column.
type bucketSpec struct {
	column      string
	valueColumn string
	bands       []band
	labelColumn string
	fullAgg     bool
}

func (s bucketSpec) assign(v float64) string {
	last := len(s.bands) - 1
	for i, b := range s.bands {
		if i == last {
			return b.label
		}
		if v < b.upper || (b.inclusive && v == b.upper) {
			return b.label
		}
	}
	return ""
}

// groupBuckets partitions the value column by the spec and aggregates each
// bucket. Every row maps to exactly one bucket.
func groupBuckets(table *dataset.Table, label models.DatasetLabel, spec bucketSpec) (models.BucketSummary, error) {
	values, err := table.RequireNumeric(label, spec.valueColumn)
	if err != nil {
		return models.BucketSummary{}, err
	}

	assignments := make([]string, len(values))
	if spec.labelColumn != "" {
		labels, ok := table.Labels(spec.labelColumn)
		if !ok {
			return models.BucketSummary{}, &models.MissingColumnError{Dataset: label, Column: spec.labelColumn}
		}
		copy(assignments, labels)
	} else {
		source, err := table.RequireNumeric(label, spec.column)
		if err != nil {
			return models.BucketSummary{}, err
		}
		for i, v := range source {
			assignments[i] = spec.assign(v)
		}
	}

	grouped := make(map[string][]float64)
	for i, bucket := range assignments {
		grouped[bucket] = append(grouped[bucket], values[i])
	}

	summary := models.BucketSummary{
		Column:      spec.groupColumn(),
		ValueColumn: spec.valueColumn,
		Buckets:     make(map[string]models.BucketStats, len(grouped)),
	}
	for bucket, members := range grouped {
		stats := summarize(members)
		entry := models.BucketStats{Count: stats.Count, Mean: stats.Mean, Std: stats.Std}
		if spec.fullAgg {
			min, max := stats.Min, stats.Max
			entry.Min = &min
			entry.Max = &max
		}
		summary.Buckets[bucket] = entry
	}
	return summary, nil
}

func (s bucketSpec) groupColumn() string {
	if s.labelColumn != "" {
		return s.labelColumn
	}
	return s.column
}
