package game

import (
	"github.com/ayusman/rehand/internal/detector"
)

// DefaultMazeLayout is a 8x6 course. '1' is wall, '0' open, 'S' start,
// 'E' exit.
var DefaultMazeLayout = []string{
	"S0011111",
	"10001111",
	"11100011",
	"11111001",
	"11110001",
	"1111000E",
}

// MazeConfig maps the grid onto the camera frame.
type MazeConfig struct {
	Layout        []string
	Width, Height int
}

// DefaultMazeConfig returns the standard course on a 640x480 field.
func DefaultMazeConfig() MazeConfig {
	return MazeConfig{
		Layout: DefaultMazeLayout,
		Width:  640,
		Height: 480,
	}
}

// Maze is the guided navigation exercise: steer the cursor from start to
// exit along the open corridor. Wall contact is penalized but does not reset
// the run; the exercise rewards controlled movement, not restarts.
type Maze struct {
	cfg  MazeConfig
	rows int
	cols int

	hasCell  bool
	cellRow  int
	cellCol  int
	moves    int
	wallHits int

	reachedExit bool
}

// NewMaze creates a game with the given config. An empty layout falls back
// to the default course.
func NewMaze(cfg MazeConfig) *Maze {
	if len(cfg.Layout) == 0 {
		cfg = DefaultMazeConfig()
	}
	if cfg.Width <= 0 {
		cfg.Width = 640
	}
	if cfg.Height <= 0 {
		cfg.Height = 480
	}
	return &Maze{
		cfg:  cfg,
		rows: len(cfg.Layout),
		cols: len(cfg.Layout[0]),
	}
}

func (g *Maze) Name() string { return "maze_navigation" }

// Update maps the cursor to a grid cell and scores cell transitions. Frames
// without a cursor leave the position unchanged.
func (g *Maze) Update(f Frame) {
	if g.reachedExit || !f.HasCursor {
		return
	}

	col := f.Cursor.X * g.cols / g.cfg.Width
	row := f.Cursor.Y * g.rows / g.cfg.Height
	if col < 0 || col >= g.cols || row < 0 || row >= g.rows {
		return
	}

	if g.hasCell && row == g.cellRow && col == g.cellCol {
		return
	}
	g.hasCell = true
	g.cellRow = row
	g.cellCol = col
	g.moves++

	switch g.cfg.Layout[row][col] {
	case '1':
		g.wallHits++
	case 'E':
		g.reachedExit = true
	}
}

// OnPinch is a no-op; the maze is steered by movement alone.
func (g *Maze) OnPinch(detector.Point) bool { return false }

func (g *Maze) Finished() bool { return g.reachedExit }

// Score is 100 for reaching the exit, less 5 per wall contact, floored at 0.
func (g *Maze) Score() int {
	if !g.reachedExit {
		return 0
	}
	score := 100 - 5*g.wallHits
	if score < 0 {
		return 0
	}
	return score
}

func (g *Maze) Interactions() (total, successful int) {
	if g.reachedExit {
		return 1, 1
	}
	return 1, 0
}

// NavigationAccuracy is the percentage of cell transitions that stayed on
// the corridor.
func (g *Maze) NavigationAccuracy() float64 {
	if g.moves == 0 {
		return 0
	}
	return 100 * float64(g.moves-g.wallHits) / float64(g.moves)
}

func (g *Maze) Details() map[string]any {
	return map[string]any{
		"completed":           g.reachedExit,
		"wall_touches":        g.wallHits,
		"navigation_accuracy": g.NavigationAccuracy(),
	}
}
