package analytics

import (
	"math"
	"time"

	"github.com/ayusman/rehand/internal/detector"
)

// minDisplacement is the per-frame movement in pixels below which a position
// change is treated as jitter and not recorded as movement.
const minDisplacement = 1.0

// MotionTracker accumulates hand movement statistics across the frames of a
// session: distance travelled, per-frame speeds, detection rate and tracking
// losses. One tracker instance covers one session.
type MotionTracker struct {
	totalFrames    int
	detectedFrames int

	hasPrev  bool
	prevPos  detector.Point
	prevTime time.Time

	speeds        []float64
	totalDistance float64
	maxSpeed      float64

	wasDetected  bool
	trackingLost int
}

// NewMotionTracker creates an empty tracker.
func NewMotionTracker() *MotionTracker {
	return &MotionTracker{}
}

// Observe records one frame. pos is the hand position (middle finger MCP) and
// is ignored when detected is false. Tracking losses are counted on the
// detected-to-undetected transition only, so a long absence counts once. The
// previous position is dropped on loss: the first frame after reacquisition
// starts a fresh movement segment instead of producing a spurious jump.
func (t *MotionTracker) Observe(pos detector.Point, detected bool, now time.Time) {
	t.totalFrames++

	if !detected {
		if t.wasDetected {
			t.trackingLost++
		}
		t.wasDetected = false
		t.hasPrev = false
		return
	}

	t.detectedFrames++
	t.wasDetected = true

	if t.hasPrev {
		dt := now.Sub(t.prevTime).Seconds()
		dx := float64(pos.X - t.prevPos.X)
		dy := float64(pos.Y - t.prevPos.Y)
		disp := math.Hypot(dx, dy)

		if dt > 0 && disp > minDisplacement {
			speed := disp / dt
			t.speeds = append(t.speeds, speed)
			t.totalDistance += disp
			if speed > t.maxSpeed {
				t.maxSpeed = speed
			}
		}
	}

	t.hasPrev = true
	t.prevPos = pos
	t.prevTime = now
}

// TotalFrames returns the number of observed frames.
func (t *MotionTracker) TotalFrames() int {
	return t.totalFrames
}

// DetectionRate returns the percentage of frames in which the hand was
// detected, or 0 when no frames were observed.
func (t *MotionTracker) DetectionRate() float64 {
	if t.totalFrames == 0 {
		return 0
	}
	return 100 * float64(t.detectedFrames) / float64(t.totalFrames)
}

// MovementCount returns the number of recorded movement samples.
func (t *MotionTracker) MovementCount() int {
	return len(t.speeds)
}

// TotalDistance returns the summed per-frame displacement in pixels.
func (t *MotionTracker) TotalDistance() float64 {
	return t.totalDistance
}

// AvgSpeed returns the mean recorded speed in pixels per second.
func (t *MotionTracker) AvgSpeed() float64 {
	return mean(t.speeds)
}

// MaxSpeed returns the highest recorded speed in pixels per second.
func (t *MotionTracker) MaxSpeed() float64 {
	return t.maxSpeed
}

// TrackingLostCount returns how many times detection was lost.
func (t *MotionTracker) TrackingLostCount() int {
	return t.trackingLost
}

// SmoothnessScore rates the movement on a 0-100 scale from the frame-to-frame
// speed variation: 100 - 100 * mean(|Δspeed|) / mean(speed), clamped at 0.
// Fewer than three speed samples give no meaningful variation and score 0.
func (t *MotionTracker) SmoothnessScore() float64 {
	if len(t.speeds) < 3 {
		return 0
	}
	deltas := make([]float64, 0, len(t.speeds)-1)
	for i := 1; i < len(t.speeds); i++ {
		d := t.speeds[i] - t.speeds[i-1]
		if d < 0 {
			d = -d
		}
		deltas = append(deltas, d)
	}
	return variabilityScore(mean(deltas), mean(t.speeds))
}
