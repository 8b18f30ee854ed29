// Package session runs one exercise session: it feeds per-frame landmark
// snapshots through the pinch detector, the motion and pinch trackers and the
// active game, and assembles the final metrics report.
package session

import (
	"time"

	"github.com/ayusman/rehand/internal/analytics"
	"github.com/ayusman/rehand/internal/detector"
	"github.com/ayusman/rehand/internal/game"
	"github.com/ayusman/rehand/internal/gesture"
)

// Session ties one game to one set of trackers. Not safe for concurrent use;
// the capture loop is the only caller.
type Session struct {
	game    game.Game
	pinch   *gesture.PinchDetector
	motion  *analytics.MotionTracker
	pinches *analytics.PinchTracker

	started bool
	start   time.Time
	last    time.Time
}

// New creates a session for the given game. cfg carries the calibrated pinch
// threshold; a zero config gets the defaults.
func New(g game.Game, cfg gesture.Config) *Session {
	return &Session{
		game:    g,
		pinch:   gesture.NewPinchDetector(cfg),
		motion:  analytics.NewMotionTracker(),
		pinches: analytics.NewPinchTracker(),
	}
}

// Game returns the active game.
func (s *Session) Game() game.Game {
	return s.game
}

// Finished reports whether the game has reached its end condition.
func (s *Session) Finished() bool {
	return s.game.Finished()
}

// FrameState is what ProcessFrame reports back to the caller, for overlays
// and the live stream.
type FrameState struct {
	Pinching  bool
	Cursor    detector.Point
	HasCursor bool
	Score     int
}

// ProcessFrame advances the session by one frame. Order matters: the gesture
// level and trackers update first, then the game sees the frame, and pinch
// edges fire last against the game's post-update state.
func (s *Session) ProcessFrame(snap detector.Snapshot, now time.Time) FrameState {
	if !s.started {
		s.started = true
		s.start = now
	}
	s.last = now

	res := s.pinch.Update(snap, now)

	pos, detected := snap.HandPosition()
	s.motion.Observe(pos, detected, now)

	angle, hasAngle := gesture.IndexFlexionAngle(snap)

	s.game.Update(game.Frame{
		Now:       now,
		Cursor:    res.Cursor,
		HasCursor: res.HasCursor,
		Pinching:  res.Pinching,
		Angle:     angle,
		HasAngle:  hasAngle,
	})

	switch res.Edge {
	case gesture.EdgeDown:
		hit := s.game.OnPinch(res.Cursor)
		s.pinches.RecordAttempt(now, res.Distance, hit)
	case gesture.EdgeUp:
		s.pinches.RecordRelease(now)
	}

	return FrameState{
		Pinching:  res.Pinching,
		Cursor:    res.Cursor,
		HasCursor: res.HasCursor,
		Score:     s.game.Score(),
	}
}

// End closes the session at now and assembles the metrics report. A pinch
// still held is flushed so its duration is counted. End is idempotent with
// respect to the trackers but is meant to be called once.
func (s *Session) End(now time.Time) analytics.SessionMetrics {
	s.pinches.Flush(now)

	var duration float64
	if s.started {
		duration = now.Sub(s.start).Seconds()
	}

	total, successful := s.game.Interactions()

	return analytics.SessionMetrics{
		GameName: s.game.Name(),
		Score:    s.game.Score(),
		SessionMetadata: analytics.SessionMetadata{
			DurationSeconds:   analytics.Round2(duration),
			TotalFrames:       s.motion.TotalFrames(),
			HandDetectionRate: analytics.Round2(s.motion.DetectionRate()),
		},
		HandMovement:        analytics.BuildMovementAnalytics(s.motion, total, successful),
		Pinch:               analytics.BuildPinchAnalytics(s.pinches),
		GameSpecificMetrics: s.game.Details(),
	}
}
