package engine

import (
	"math"
	"sort"

	"github.com/aurorastack/insight-engine/internal/models"
)

// summarize computes descriptive statistics for one column. Std is the
// sample standard deviation (n-1); all floats are rounded to two decimals.
func summarize(values []float64) models.StatSummary {
	n := len(values)
	if n == 0 {
		return models.StatSummary{}
	}

	mean := 0.0
	min, max := values[0], values[0]
	for _, v := range values {
		mean += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	mean /= float64(n)

	std := 0.0
	if n > 1 {
		sum := 0.0
		for _, v := range values {
			d := v - mean
			sum += d * d
		}
		std = math.Sqrt(sum / float64(n-1))
	}

	return models.StatSummary{
		Count:  n,
		Mean:   round2(mean),
		Std:    round2(std),
		Min:    round2(min),
		Max:    round2(max),
		Median: round2(median(values)),
	}
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// pearson computes the Pearson correlation coefficient, rounded to three
// decimals. Constant columns yield zero.
func pearson(a, b []float64) float64 {
	n := len(a)
	if n == 0 || n != len(b) {
		return 0
	}

	meanA, meanB := 0.0, 0.0
	for i := 0; i < n; i++ {
		meanA += a[i]
		meanB += b[i]
	}
	meanA /= float64(n)
	meanB /= float64(n)

	num, varA, varB := 0.0, 0.0, 0.0
	for i := 0; i < n; i++ {
		da := a[i] - meanA
		db := b[i] - meanB
		num += da * db
		varA += da * da
		varB += db * db
	}
	if varA == 0 || varB == 0 {
		return 0
	}
	return round3(num / math.Sqrt(varA*varB))
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
