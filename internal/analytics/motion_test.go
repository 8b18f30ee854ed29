package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/ayusman/rehand/internal/detector"
)

const epsilon = 1e-9

// feedConstantSpeed observes n frames moving step pixels per frame at the
// given frame interval, starting from origin.
func feedConstantSpeed(t *MotionTracker, n, step int, interval time.Duration) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		t.Observe(detector.Point{X: i * step, Y: 0}, true, now)
		now = now.Add(interval)
	}
}

func TestMotionTracker_ConstantSpeedIsPerfectlySmooth(t *testing.T) {
	tr := NewMotionTracker()
	feedConstantSpeed(tr, 20, 10, 33*time.Millisecond)

	if got := tr.SmoothnessScore(); math.Abs(got-100.0) > epsilon {
		t.Errorf("smoothness = %f, want 100 for constant speed", got)
	}
	if tr.MovementCount() != 19 {
		t.Errorf("movements = %d, want 19 for 20 frames", tr.MovementCount())
	}
	if math.Abs(tr.TotalDistance()-190.0) > epsilon {
		t.Errorf("total distance = %f, want 190", tr.TotalDistance())
	}
}

func TestMotionTracker_SmoothnessNeedsThreeSamples(t *testing.T) {
	tr := NewMotionTracker()
	feedConstantSpeed(tr, 3, 10, 33*time.Millisecond) // only 2 speed samples

	if got := tr.SmoothnessScore(); got != 0 {
		t.Errorf("smoothness = %f, want 0 with fewer than 3 samples", got)
	}
}

func TestMotionTracker_NoiseFloor(t *testing.T) {
	tr := NewMotionTracker()
	now := time.Now()

	tr.Observe(detector.Point{X: 100, Y: 100}, true, now)
	// Sub-pixel jitter must not count as movement
	tr.Observe(detector.Point{X: 101, Y: 100}, true, now.Add(33*time.Millisecond))
	tr.Observe(detector.Point{X: 100, Y: 100}, true, now.Add(66*time.Millisecond))

	if tr.MovementCount() != 0 {
		t.Errorf("movements = %d, want 0 for jitter below the noise floor", tr.MovementCount())
	}
	if tr.TotalDistance() != 0 {
		t.Errorf("distance = %f, want 0", tr.TotalDistance())
	}
}

func TestMotionTracker_DetectionRate(t *testing.T) {
	tr := NewMotionTracker()
	now := time.Now()

	for i := 0; i < 10; i++ {
		detected := i < 8
		tr.Observe(detector.Point{X: 100, Y: 100}, detected, now.Add(time.Duration(i)*33*time.Millisecond))
	}

	if got := tr.DetectionRate(); math.Abs(got-80.0) > epsilon {
		t.Errorf("detection rate = %f, want 80", got)
	}
	if tr.TotalFrames() != 10 {
		t.Errorf("total frames = %d, want 10", tr.TotalFrames())
	}

	if got := NewMotionTracker().DetectionRate(); got != 0 {
		t.Errorf("empty tracker detection rate = %f, want 0", got)
	}
}

func TestMotionTracker_TrackingLostCountsFallingEdges(t *testing.T) {
	tr := NewMotionTracker()
	now := time.Now()
	pattern := []bool{true, true, false, false, false, true, false, true}

	for i, detected := range pattern {
		tr.Observe(detector.Point{X: 100, Y: 100}, detected, now.Add(time.Duration(i)*33*time.Millisecond))
	}

	if got := tr.TrackingLostCount(); got != 2 {
		t.Errorf("tracking lost = %d, want 2 (a run of misses counts once)", got)
	}
}

func TestMotionTracker_NoJumpAfterReacquisition(t *testing.T) {
	tr := NewMotionTracker()
	now := time.Now()

	tr.Observe(detector.Point{X: 0, Y: 0}, true, now)
	tr.Observe(detector.Point{}, false, now.Add(33*time.Millisecond))
	// Hand reappears far away; the gap must not be recorded as movement
	tr.Observe(detector.Point{X: 500, Y: 500}, true, now.Add(66*time.Millisecond))

	if tr.MovementCount() != 0 {
		t.Errorf("movements = %d, want 0 right after reacquisition", tr.MovementCount())
	}

	tr.Observe(detector.Point{X: 510, Y: 500}, true, now.Add(99*time.Millisecond))
	if tr.MovementCount() != 1 {
		t.Errorf("movements = %d, want 1 once a fresh segment starts", tr.MovementCount())
	}
}

func TestMotionTracker_Speeds(t *testing.T) {
	tr := NewMotionTracker()
	now := time.Now()

	tr.Observe(detector.Point{X: 0, Y: 0}, true, now)
	tr.Observe(detector.Point{X: 30, Y: 40}, true, now.Add(100*time.Millisecond)) // 50 px in 0.1 s
	tr.Observe(detector.Point{X: 40, Y: 40}, true, now.Add(200*time.Millisecond)) // 10 px in 0.1 s

	if got := tr.MaxSpeed(); math.Abs(got-500.0) > epsilon {
		t.Errorf("max speed = %f, want 500", got)
	}
	if got := tr.AvgSpeed(); math.Abs(got-300.0) > epsilon {
		t.Errorf("avg speed = %f, want 300", got)
	}
}
