package analytics

import "time"

// PinchTracker accumulates pinch attempt statistics across a session. The
// session engine feeds it the debounced edges: RecordAttempt on each pinch
// start, RecordRelease on each pinch end. One tracker covers one session.
type PinchTracker struct {
	attempts  int
	successes int

	distances []float64
	durations []float64
	gaps      []float64

	active       bool
	attemptStart time.Time

	hasLastRelease bool
	lastRelease    time.Time
}

// NewPinchTracker creates an empty tracker.
func NewPinchTracker() *PinchTracker {
	return &PinchTracker{}
}

// RecordAttempt registers a pinch start. distance is the thumb-index distance
// at the moment of the pinch; success reports whether the pinch hit a target.
// The gap since the previous release is recorded when one exists.
func (t *PinchTracker) RecordAttempt(now time.Time, distance float64, success bool) {
	t.attempts++
	if success {
		t.successes++
	}
	t.distances = append(t.distances, distance)

	if t.hasLastRelease {
		if gap := now.Sub(t.lastRelease).Seconds(); gap >= 0 {
			t.gaps = append(t.gaps, gap)
		}
	}

	t.active = true
	t.attemptStart = now
}

// RecordRelease registers the end of the active pinch and records its
// duration. Calls without an active pinch are ignored.
func (t *PinchTracker) RecordRelease(now time.Time) {
	if !t.active {
		return
	}
	t.active = false
	if d := now.Sub(t.attemptStart).Seconds(); d >= 0 {
		t.durations = append(t.durations, d)
	}
	t.hasLastRelease = true
	t.lastRelease = now
}

// Flush closes a pinch that is still held when the session ends, so its
// duration is not lost. A no-op when no pinch is active.
func (t *PinchTracker) Flush(now time.Time) {
	t.RecordRelease(now)
}

// Attempts returns the total number of pinch attempts.
func (t *PinchTracker) Attempts() int {
	return t.attempts
}

// Successes returns the number of attempts that hit a target.
func (t *PinchTracker) Successes() int {
	return t.successes
}

// SuccessRate returns the percentage of successful attempts, or 0 when there
// were none.
func (t *PinchTracker) SuccessRate() float64 {
	if t.attempts == 0 {
		return 0
	}
	return 100 * float64(t.successes) / float64(t.attempts)
}

// AvgDistance returns the mean pinch distance in pixels at attempt time.
func (t *PinchTracker) AvgDistance() float64 {
	return mean(t.distances)
}

// MinDistance returns the smallest recorded attempt distance, or 0 when there
// were no attempts.
func (t *PinchTracker) MinDistance() float64 {
	if len(t.distances) == 0 {
		return 0
	}
	min := t.distances[0]
	for _, d := range t.distances[1:] {
		if d < min {
			min = d
		}
	}
	return min
}

// MaxDistance returns the largest recorded attempt distance.
func (t *PinchTracker) MaxDistance() float64 {
	var max float64
	for _, d := range t.distances {
		if d > max {
			max = d
		}
	}
	return max
}

// AvgDuration returns the mean pinch hold time in seconds.
func (t *PinchTracker) AvgDuration() float64 {
	return mean(t.durations)
}

// AvgGap returns the mean release-to-attempt interval in seconds.
func (t *PinchTracker) AvgGap() float64 {
	return mean(t.gaps)
}

// Consistency rates how repeatable the pinch distances are on a 0-100 scale:
// 100 - 100 * stddev / mean over the attempt distances, clamped at 0. Hold
// times do not enter the score. Fewer than two attempts give no spread to
// measure and score 0.
func (t *PinchTracker) Consistency() float64 {
	if len(t.distances) < 2 {
		return 0
	}
	return variabilityScore(stdDev(t.distances), mean(t.distances))
}
