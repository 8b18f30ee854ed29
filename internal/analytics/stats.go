// Package analytics accumulates per-frame observations into the movement and
// pinch statistics reported at the end of a session.
package analytics

import "math"

// mean returns the arithmetic mean of values, or 0 for an empty slice.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdDev returns the population standard deviation of values.
func stdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

// Round2 rounds v to two decimal places. All derived scores and averages in
// the session report are rounded this way so exports are stable across runs.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// variabilityScore maps a sample spread onto a 0-100 score where 100 means
// perfectly consistent. It is shared by movement smoothness and pinch
// consistency: score = 100 - 100 * spread / mean, clamped at 0.
func variabilityScore(spread, mean float64) float64 {
	if mean == 0 {
		return 0
	}
	score := 100 - 100*spread/mean
	if score < 0 {
		return 0
	}
	return score
}
