package engine

import (
	"fmt"
	"math"

	"github.com/aurorastack/insight-engine/internal/models"
)

// strongCorrelation is the absolute coefficient at which a direction-labeled
// insight sentence is emitted.
const strongCorrelation = 0.3

// buildInsights derives the ordered insight sentences. Every sentence is a
// pure function of the result, so identical inputs produce identical text.
func buildInsights(spec analysisSpec, result models.AnalysisResult) []string {
	insights := make([]string, 0, 4)

	primary := result.Statistics[spec.primaryColumn]
	insights = append(insights, fmt.Sprintf(
		"Average %s across all records: %s", spec.primaryDisplay, formatNumber(primary.Mean)))

	if sentence, ok := bucketComparison(spec, result); ok {
		insights = append(insights, sentence)
	}

	key := models.PairKey(spec.focusPair[0], spec.focusPair[1])
	if r, ok := result.Correlations[key]; ok && math.Abs(r) >= strongCorrelation {
		direction := "positive"
		if r < 0 {
			direction = "negative"
		}
		insights = append(insights, fmt.Sprintf(
			"Strong %s correlation (%s) between %s and %s",
			direction, formatNumber(r), spec.focusDisplay[0], spec.focusDisplay[1]))
	}

	insights = append(insights, fmt.Sprintf("Analysis completed on %d records", primary.Count))
	return insights
}

// bucketComparison emits the two-named-bucket sentence only when both named
// buckets are present; the comparison word is a literal numeric comparison
// of the bucket means.
func bucketComparison(spec analysisSpec, result models.AnalysisResult) (string, bool) {
	if len(result.Bucketed) == 0 {
		return "", false
	}
	buckets := result.Bucketed[0].Buckets
	a, okA := buckets[spec.comparePair[0]]
	b, okB := buckets[spec.comparePair[1]]
	if !okA || !okB {
		return "", false
	}
	word := "lower"
	if a.Mean > b.Mean {
		word = "higher"
	}
	return fmt.Sprintf("Average %s for %s %s (%s) is %s than %s %s (%s)",
		spec.primaryDisplay,
		spec.comparePair[0], spec.bucketNoun, formatNumber(a.Mean),
		word,
		spec.comparePair[1], spec.bucketNoun, formatNumber(b.Mean)), true
}

// formatNumber renders an already-rounded value without trailing zeros,
// matching the numbers narrative text interpolates.
func formatNumber(v float64) string {
	return fmt.Sprintf("%g", v)
}
