package gesture

import (
	"time"

	"github.com/ayusman/rehand/internal/detector"
)

// DefaultPinchThreshold is the thumb-index distance in pixels below which a
// pinch is registered, unless calibration supplies a personalized value.
const DefaultPinchThreshold = 40.0

// Edge identifies a discrete pinch transition within a single frame update.
type Edge int

const (
	// EdgeNone means the pinch state did not change this frame.
	EdgeNone Edge = iota
	// EdgeDown is the inactive-to-active transition (pinch started).
	EdgeDown
	// EdgeUp is the active-to-inactive transition (pinch released).
	EdgeUp
)

// Config holds configuration options for pinch detection.
type Config struct {
	// Threshold is the press distance in pixels (default: DefaultPinchThreshold).
	Threshold float64

	// ReleaseGap widens the release distance to Threshold+ReleaseGap,
	// forming a hysteresis band. Zero keeps the single symmetric threshold
	// of the original exercises.
	ReleaseGap float64
}

// DefaultConfig returns a Config with the default press threshold and no
// hysteresis band.
func DefaultConfig() Config {
	return Config{Threshold: DefaultPinchThreshold}
}

// State describes the pinch gesture across frames.
type State struct {
	Active        bool
	StartTime     time.Time
	LastEventTime time.Time
}

// Result is the per-frame output of the pinch detector.
type Result struct {
	// Pinching reports whether the pinch is active after this frame.
	Pinching bool

	// Cursor is the thumb-index midpoint. It is computed whenever both
	// tips are present, independent of pinch state; callers wanting a
	// "cursor only while pinching" filter on Pinching.
	Cursor    detector.Point
	HasCursor bool

	// Distance is the thumb-index distance in pixels, valid when HasCursor.
	Distance float64

	// Edge is the discrete transition produced by this frame, if any.
	Edge Edge
}

// PinchDetector turns the continuous thumb-index distance into debounced
// discrete pinch transitions. One detector instance tracks one hand for the
// duration of a session; Update must be called exactly once per frame.
type PinchDetector struct {
	cfg   Config
	state State
}

// NewPinchDetector creates a PinchDetector with the given configuration.
// A zero or negative threshold falls back to the default.
func NewPinchDetector(cfg Config) *PinchDetector {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultPinchThreshold
	}
	if cfg.ReleaseGap < 0 {
		cfg.ReleaseGap = 0
	}
	return &PinchDetector{cfg: cfg}
}

// Threshold returns the configured press threshold in pixels.
func (d *PinchDetector) Threshold() float64 {
	return d.cfg.Threshold
}

// State returns a copy of the current gesture state.
func (d *PinchDetector) State() State {
	return d.state
}

// Update advances the detector by one frame. A snapshot without both
// fingertips reports not-pinching and no cursor; if a pinch was active it is
// released so no pinch stays open across a tracking loss.
func (d *PinchDetector) Update(snap detector.Snapshot, now time.Time) Result {
	dist, ok := snap.PinchDistance()
	if !ok {
		res := Result{}
		if d.state.Active {
			d.state.Active = false
			d.state.LastEventTime = now
			res.Edge = EdgeUp
		}
		return res
	}

	cursor, _ := snap.PinchMidpoint()

	pinching := d.state.Active
	if d.state.Active {
		if dist >= d.cfg.Threshold+d.cfg.ReleaseGap {
			pinching = false
		}
	} else if dist < d.cfg.Threshold {
		pinching = true
	}

	res := Result{
		Pinching:  pinching,
		Cursor:    cursor,
		HasCursor: true,
		Distance:  dist,
	}

	switch {
	case pinching && !d.state.Active:
		res.Edge = EdgeDown
		d.state.StartTime = now
		d.state.LastEventTime = now
	case !pinching && d.state.Active:
		res.Edge = EdgeUp
		d.state.LastEventTime = now
	}
	d.state.Active = pinching

	return res
}
