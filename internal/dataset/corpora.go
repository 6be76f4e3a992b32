package dataset

import "math"

// The corpora below are fixed synthetic samples. Identical label always
// yields identical shape and values; derived columns are computed once at
// table construction, never against the shared copy.

func buildBaseBiometric() (*Table, error) {
	return NewBuilder(15).
		Ints("id", []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}).
		Numeric("hrv", []float64{
			45.2, 52.8, 38.5, 61.3, 49.7, 55.1, 42.9, 58.6,
			48.3, 53.7, 40.1, 56.4, 47.2, 59.8, 44.6,
		}).
		Ints("stress_score", []int{25, 15, 45, 10, 30, 20, 50, 12, 35, 18, 55, 22, 28, 8, 40}).
		Ints("age", []int{28, 32, 25, 35, 30, 27, 22, 38, 29, 33, 26, 31, 34, 40, 24}).
		Build()
}

func buildCortisolFocus() (*Table, error) {
	morning := []float64{18.5, 19.2, 17.8, 21.1, 16.9, 20.3, 18.7, 22.4, 19.8, 17.2}
	evening := []float64{6.2, 5.9, 7.1, 5.4, 6.8, 5.7, 6.1, 5.2, 5.6, 6.4}
	focus := []float64{78, 82, 75, 88, 70, 85, 80, 90, 82, 76}
	sleep := []float64{7.2, 7.5, 6.8, 7.9, 6.5, 7.3, 7.1, 8.1, 7.4, 6.9}

	ratio := make([]float64, len(morning))
	perSleep := make([]float64, len(focus))
	for i := range morning {
		ratio[i] = round2(morning[i] / evening[i])
		perSleep[i] = round2(focus[i] / sleep[i])
	}

	return NewBuilder(10).
		Ints("id", []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}).
		Numeric("cortisol_morning", morning).
		Numeric("cortisol_evening", evening).
		Ints("reaction_time_ms", []int{245, 232, 258, 225, 268, 238, 241, 222, 235, 252}).
		Numeric("focus_index", focus).
		Numeric("sleep_duration", sleep).
		Numeric("cortisol_ratio", ratio).
		Numeric("focus_per_sleep", perSleep).
		Build()
}

func buildHRVStress() (*Table, error) {
	hrv := []float64{65, 62, 64, 60, 61, 57, 59, 54, 56, 51, 54, 49, 55, 50}
	stress := []float64{20, 24, 22, 28, 26, 33, 30, 37, 34, 40, 36, 42, 35, 39}

	delta := make([]float64, len(hrv))
	dayIndex := make([]float64, len(hrv))
	bucket := make([]string, len(stress))
	variability := make([]float64, len(hrv))
	baseline := hrv[0]
	for i := range hrv {
		delta[i] = round2(hrv[i] - baseline)
		dayIndex[i] = float64(i + 1)
		bucket[i] = stressBand(stress[i])
		variability[i] = round2(rollingStd(hrv, i, 3))
	}

	return NewBuilder(14).
		Labels("day", []string{
			"Mon", "Mon", "Tue", "Tue", "Wed", "Wed", "Thu",
			"Thu", "Fri", "Fri", "Sat", "Sat", "Sun", "Sun",
		}).
		Labels("timestamp", []string{
			"2024-07-01T08:00:00", "2024-07-01T20:00:00",
			"2024-07-02T08:00:00", "2024-07-02T20:00:00",
			"2024-07-03T08:00:00", "2024-07-03T20:00:00",
			"2024-07-04T08:00:00", "2024-07-04T20:00:00",
			"2024-07-05T08:00:00", "2024-07-05T20:00:00",
			"2024-07-06T08:00:00", "2024-07-06T20:00:00",
			"2024-07-07T08:00:00", "2024-07-07T20:00:00",
		}).
		Labels("session", []string{
			"Morning", "Evening", "Morning", "Evening", "Morning", "Evening", "Morning",
			"Evening", "Morning", "Evening", "Morning", "Evening", "Morning", "Evening",
		}).
		Numeric("hrv", hrv).
		Numeric("stress_score", stress).
		Ints("perceived_stress", []int{18, 22, 20, 26, 24, 30, 28, 34, 32, 38, 33, 40, 31, 37}).
		Ints("breathing_rate", []int{12, 13, 12, 14, 13, 15, 14, 16, 15, 17, 15, 18, 14, 17}).
		Ints("sleep_quality", []int{82, 78, 80, 76, 78, 73, 75, 70, 74, 68, 73, 66, 74, 67}).
		Numeric("hrv_delta_from_baseline", delta).
		Numeric("day_index", dayIndex).
		Labels("stress_bucket", bucket).
		Numeric("hrv_variability", variability).
		Build()
}

// stressBand partitions weekly stress scores: low [0,25), moderate [25,35),
// high [35,∞).
func stressBand(score float64) string {
	switch {
	case score < 25:
		return "low"
	case score < 35:
		return "moderate"
	default:
		return "high"
	}
}

// rollingStd computes the trailing-window sample standard deviation ending
// at index i. A window of one sample yields zero.
func rollingStd(values []float64, i, window int) float64 {
	lo := i - window + 1
	if lo < 0 {
		lo = 0
	}
	w := values[lo : i+1]
	if len(w) < 2 {
		return 0
	}
	mean := 0.0
	for _, v := range w {
		mean += v
	}
	mean /= float64(len(w))
	sum := 0.0
	for _, v := range w {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(w)-1))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
