// Package game contains the exercise mini-games. Games are pure state
// machines over per-frame input: the session engine owns detection, gesture
// debouncing and analytics, and feeds each game one Frame per camera frame
// plus discrete pinch events. Games never touch the camera or the detector.
package game

import (
	"time"

	"github.com/ayusman/rehand/internal/detector"
)

// Frame is the per-frame input handed to a game.
type Frame struct {
	Now time.Time

	// Cursor is the thumb-index midpoint, valid when HasCursor.
	Cursor    detector.Point
	HasCursor bool

	// Pinching is the debounced pinch level for this frame.
	Pinching bool

	// Angle is the index finger flexion angle in degrees, valid when
	// HasAngle. Only angle-based games read it.
	Angle    float64
	HasAngle bool
}

// Game is one exercise. Update advances time-driven state once per frame;
// OnPinch is called exactly once per pinch start and reports whether the
// pinch hit a target, which feeds the success analytics.
type Game interface {
	// Name is the stable identifier stored with the session metrics.
	Name() string

	// Update advances the game by one frame.
	Update(f Frame)

	// OnPinch handles a pinch starting at cursor. It returns true when the
	// pinch accomplished something (popped a balloon, grabbed a target).
	OnPinch(cursor detector.Point) bool

	// Finished reports whether the game has reached its end condition.
	Finished() bool

	// Score is the current score.
	Score() int

	// Interactions returns how many scoring opportunities the game offered
	// and how many the player converted.
	Interactions() (total, successful int)

	// Details returns the game_specific_metrics section of the session
	// report.
	Details() map[string]any
}
