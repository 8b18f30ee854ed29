// Package calibration derives a personalized pinch threshold and cursor
// sensitivity from a short observation window at session start. Users with
// limited finger extension never reach the open-hand distances the defaults
// assume, so the threshold adapts to the range each user actually produces.
package calibration

import (
	"sort"
	"time"

	"github.com/ayusman/rehand/internal/detector"
)

const (
	// DefaultWindow is how long the calibration phase observes the hand.
	DefaultWindow = 8 * time.Second

	// MaxThreshold caps the derived pinch threshold in pixels.
	MaxThreshold = 60.0

	// distancePercentile picks the reference pinch distance from the sorted
	// samples. 0.7 lands above relaxed-hand noise but below full extension.
	distancePercentile = 0.7

	// thresholdScale widens the reference distance into the press threshold.
	thresholdScale = 1.2

	// smallRangeSpan is the movement range in pixels below which the user is
	// considered to have limited reach and gets boosted sensitivity.
	smallRangeSpan = 100.0

	boostedSensitivity = 1.5
	normalSensitivity  = 1.0
)

// Result holds the values derived from a calibration window.
type Result struct {
	// PinchThreshold is the personalized press distance in pixels.
	PinchThreshold float64 `json:"pinch_threshold"`

	// Sensitivity scales cursor movement for users with a small reach.
	Sensitivity float64 `json:"sensitivity"`
}

// DefaultResult returns the values used when calibration is skipped or
// produced no samples.
func DefaultResult() Result {
	return Result{
		PinchThreshold: 40.0,
		Sensitivity:    normalSensitivity,
	}
}

// Calibrator collects pinch distances and hand positions over the calibration
// window. Feed it one snapshot per frame with Observe, then call Result.
type Calibrator struct {
	distances []float64
	xs        []int
	ys        []int
}

// NewCalibrator creates an empty calibrator.
func NewCalibrator() *Calibrator {
	return &Calibrator{}
}

// Observe records one frame. Snapshots without both fingertips contribute
// nothing; the window simply yields fewer samples.
func (c *Calibrator) Observe(snap detector.Snapshot) {
	if dist, ok := snap.PinchDistance(); ok {
		c.distances = append(c.distances, dist)
	}
	if pos, ok := snap.HandPosition(); ok {
		c.xs = append(c.xs, pos.X)
		c.ys = append(c.ys, pos.Y)
	}
}

// Samples returns how many pinch distance samples were collected.
func (c *Calibrator) Samples() int {
	return len(c.distances)
}

// Result derives the threshold and sensitivity from the collected samples.
// With no samples it falls back to DefaultResult.
func (c *Calibrator) Result() Result {
	if len(c.distances) == 0 {
		return DefaultResult()
	}

	sorted := make([]float64, len(c.distances))
	copy(sorted, c.distances)
	sort.Float64s(sorted)

	idx := int(distancePercentile * float64(len(sorted)))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	threshold := sorted[idx] * thresholdScale
	if threshold > MaxThreshold {
		threshold = MaxThreshold
	}

	return Result{
		PinchThreshold: threshold,
		Sensitivity:    c.sensitivity(),
	}
}

// sensitivity boosts cursor movement when the observed hand travel is small
// in both axes.
func (c *Calibrator) sensitivity() float64 {
	if len(c.xs) == 0 {
		return normalSensitivity
	}
	xRange := span(c.xs)
	yRange := span(c.ys)
	if (xRange+yRange)/2 < smallRangeSpan {
		return boostedSensitivity
	}
	return normalSensitivity
}

func span(values []int) float64 {
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return float64(max - min)
}
