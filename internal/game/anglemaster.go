package game

import (
	"math"

	"github.com/ayusman/rehand/internal/detector"
)

// AngleMasterConfig tunes the finger flexion exercise.
type AngleMasterConfig struct {
	// Targets are the flexion angles to hit, in degrees, in order.
	Targets []float64

	// Tolerance is the accepted deviation in degrees around a target.
	Tolerance float64

	// HoldFrames is how many consecutive in-tolerance frames complete a
	// target. Requiring a hold filters out angles swept through in passing.
	HoldFrames int
}

// DefaultAngleMasterConfig returns a flex-and-extend ladder alternating bent
// and straight targets.
func DefaultAngleMasterConfig() AngleMasterConfig {
	return AngleMasterConfig{
		Targets:    []float64{90, 160, 70, 150, 50, 170},
		Tolerance:  15,
		HoldFrames: 10,
	}
}

// AngleMaster is the finger flexion exercise: bend and straighten the index
// finger to match a sequence of target angles. It is driven entirely by the
// per-frame angle; pinches score nothing here.
type AngleMaster struct {
	cfg AngleMasterConfig

	current    int
	held       int
	score      int
	deviations []float64
}

// NewAngleMaster creates a game with the given config. An empty target list
// falls back to the default ladder.
func NewAngleMaster(cfg AngleMasterConfig) *AngleMaster {
	if len(cfg.Targets) == 0 {
		cfg = DefaultAngleMasterConfig()
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = 15
	}
	if cfg.HoldFrames <= 0 {
		cfg.HoldFrames = 10
	}
	return &AngleMaster{cfg: cfg}
}

func (g *AngleMaster) Name() string { return "angle_master" }

// Update checks the frame angle against the current target. The hold counter
// resets whenever the angle leaves the tolerance band or the angle is
// unavailable.
func (g *AngleMaster) Update(f Frame) {
	if g.Finished() || !f.HasAngle {
		g.held = 0
		return
	}

	target := g.cfg.Targets[g.current]
	dev := math.Abs(f.Angle - target)
	if dev > g.cfg.Tolerance {
		g.held = 0
		return
	}

	g.held++
	if g.held >= g.cfg.HoldFrames {
		g.deviations = append(g.deviations, dev)
		g.score += 20
		g.current++
		g.held = 0
	}
}

// OnPinch is a no-op; this exercise is angle-driven.
func (g *AngleMaster) OnPinch(detector.Point) bool { return false }

func (g *AngleMaster) Finished() bool {
	return g.current >= len(g.cfg.Targets)
}

func (g *AngleMaster) Score() int { return g.score }

func (g *AngleMaster) Interactions() (total, successful int) {
	return len(g.cfg.Targets), g.current
}

func (g *AngleMaster) Details() map[string]any {
	var avgDev float64
	if len(g.deviations) > 0 {
		var sum float64
		for _, d := range g.deviations {
			sum += d
		}
		avgDev = sum / float64(len(g.deviations))
	}
	return map[string]any{
		"targets_total":     len(g.cfg.Targets),
		"targets_completed": g.current,
		"avg_deviation":     math.Round(avgDev*100) / 100,
	}
}
