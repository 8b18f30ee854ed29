package game

import (
	"math"
	"math/rand"
	"time"

	"github.com/ayusman/rehand/internal/detector"
)

// BalloonPopConfig sizes the play field and tunes difficulty.
type BalloonPopConfig struct {
	Width, Height int

	// Radius is the pop radius in pixels around a balloon center.
	Radius float64

	// RiseSpeed is how fast balloons climb, pixels per second.
	RiseSpeed float64

	// SpawnEvery is the interval between new balloons.
	SpawnEvery time.Duration

	// Target ends the game once this many balloons have left the field,
	// popped or escaped. Zero means the game never finishes on its own.
	Target int
}

// DefaultBalloonPopConfig returns the standard 640x480 setup.
func DefaultBalloonPopConfig() BalloonPopConfig {
	return BalloonPopConfig{
		Width:      640,
		Height:     480,
		Radius:     40,
		RiseSpeed:  80,
		SpawnEvery: 2 * time.Second,
		Target:     15,
	}
}

type balloon struct {
	x, y float64
}

// BalloonPop is the pinch-to-pop exercise. Balloons rise from the bottom of
// the frame; pinching near one pops it. The randomness is owned by the game
// so runs are reproducible from a seed.
type BalloonPop struct {
	cfg BalloonPopConfig
	rng *rand.Rand

	balloons  []balloon
	lastSpawn time.Time
	started   bool
	prevFrame time.Time

	popped  int
	escaped int
	score   int
}

// NewBalloonPop creates a game with the given config and random seed.
func NewBalloonPop(cfg BalloonPopConfig, seed int64) *BalloonPop {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg = DefaultBalloonPopConfig()
	}
	return &BalloonPop{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
	}
}

func (g *BalloonPop) Name() string { return "balloon_pop" }

// Update spawns and rises balloons. Balloons that clear the top edge count
// as escaped.
func (g *BalloonPop) Update(f Frame) {
	if !g.started {
		g.started = true
		g.lastSpawn = f.Now
		g.prevFrame = f.Now
		g.spawn()
		return
	}

	dt := f.Now.Sub(g.prevFrame).Seconds()
	g.prevFrame = f.Now
	if dt <= 0 {
		return
	}

	kept := g.balloons[:0]
	for _, b := range g.balloons {
		b.y -= g.cfg.RiseSpeed * dt
		if b.y < -g.cfg.Radius {
			g.escaped++
			continue
		}
		kept = append(kept, b)
	}
	g.balloons = kept

	if f.Now.Sub(g.lastSpawn) >= g.cfg.SpawnEvery {
		g.spawn()
		g.lastSpawn = f.Now
	}
}

func (g *BalloonPop) spawn() {
	margin := g.cfg.Radius
	x := margin + g.rng.Float64()*(float64(g.cfg.Width)-2*margin)
	g.balloons = append(g.balloons, balloon{x: x, y: float64(g.cfg.Height) + g.cfg.Radius})
}

// OnPinch pops the nearest balloon within the pop radius. At most one balloon
// pops per pinch.
func (g *BalloonPop) OnPinch(cursor detector.Point) bool {
	best := -1
	bestDist := g.cfg.Radius
	for i, b := range g.balloons {
		d := math.Hypot(b.x-float64(cursor.X), b.y-float64(cursor.Y))
		if d <= bestDist {
			best = i
			bestDist = d
		}
	}
	if best < 0 {
		return false
	}

	g.balloons = append(g.balloons[:best], g.balloons[best+1:]...)
	g.popped++
	g.score += 10
	return true
}

func (g *BalloonPop) Finished() bool {
	return g.cfg.Target > 0 && g.popped+g.escaped >= g.cfg.Target
}

func (g *BalloonPop) Score() int { return g.score }

func (g *BalloonPop) Interactions() (total, successful int) {
	return g.popped + g.escaped, g.popped
}

func (g *BalloonPop) Details() map[string]any {
	return map[string]any{
		"balloons_popped":  g.popped,
		"balloons_escaped": g.escaped,
	}
}
