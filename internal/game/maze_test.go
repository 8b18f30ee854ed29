package game

import (
	"testing"
	"time"

	"github.com/ayusman/rehand/internal/detector"
)

// cellCenter maps a grid cell of the default 8x6 maze on a 640x480 field to
// its pixel center.
func cellCenter(row, col int) detector.Point {
	return detector.Point{X: col*80 + 40, Y: row*80 + 40}
}

func steer(g *Maze, cells [][2]int) {
	now := time.Now()
	for i, c := range cells {
		g.Update(Frame{
			Now:       now.Add(time.Duration(i) * 33 * time.Millisecond),
			Cursor:    cellCenter(c[0], c[1]),
			HasCursor: true,
		})
	}
}

// corridorPath follows the open cells of DefaultMazeLayout start to exit.
var corridorPath = [][2]int{
	{0, 0}, {0, 1}, {1, 1}, {1, 2}, {1, 3}, {2, 3}, {2, 4}, {2, 5},
	{3, 5}, {3, 6}, {4, 6}, {5, 6}, {5, 7},
}

func TestMaze_CleanRun(t *testing.T) {
	g := NewMaze(DefaultMazeConfig())
	steer(g, corridorPath)

	if !g.Finished() {
		t.Fatal("corridor path reaches the exit, game should be finished")
	}
	if g.Score() != 100 {
		t.Errorf("score = %d, want 100 for a clean run", g.Score())
	}
	if acc := g.NavigationAccuracy(); acc != 100.0 {
		t.Errorf("accuracy = %f, want 100", acc)
	}
	total, successful := g.Interactions()
	if total != 1 || successful != 1 {
		t.Errorf("interactions = %d/%d, want 1/1", total, successful)
	}
}

func TestMaze_WallTouchesPenalized(t *testing.T) {
	g := NewMaze(DefaultMazeConfig())
	// Detour through two wall cells before rejoining the corridor
	path := append([][2]int{{0, 0}, {1, 0}, {0, 0}, {0, 1}, {0, 2}, {0, 3}, {0, 2}}, corridorPath[1:]...)
	steer(g, path)

	if !g.Finished() {
		t.Fatal("game should still finish after wall contact")
	}
	d := g.Details()
	if d["wall_touches"].(int) != 2 {
		t.Errorf("wall_touches = %v, want 2", d["wall_touches"])
	}
	if g.Score() != 90 {
		t.Errorf("score = %d, want 90 (100 minus 5 per touch)", g.Score())
	}
	if acc := g.NavigationAccuracy(); acc >= 100 {
		t.Errorf("accuracy = %f, want below 100 after wall contact", acc)
	}
}

func TestMaze_StayingInCellIsOneMove(t *testing.T) {
	g := NewMaze(DefaultMazeConfig())
	now := time.Now()

	// Ten frames inside the start cell, jittering within its bounds
	for i := 0; i < 10; i++ {
		g.Update(Frame{
			Now:       now.Add(time.Duration(i) * 33 * time.Millisecond),
			Cursor:    detector.Point{X: 20 + i, Y: 30},
			HasCursor: true,
		})
	}

	if g.moves != 1 {
		t.Errorf("moves = %d, want 1 for frames inside a single cell", g.moves)
	}
}

func TestMaze_NoCursorLeavesStateUnchanged(t *testing.T) {
	g := NewMaze(DefaultMazeConfig())
	steer(g, [][2]int{{0, 0}, {0, 1}})
	before := g.moves

	g.Update(Frame{Now: time.Now()}) // no cursor

	if g.moves != before {
		t.Errorf("moves changed from %d to %d on a cursorless frame", before, g.moves)
	}
	if g.Finished() {
		t.Error("game should not finish without reaching the exit")
	}
}

func TestMaze_IncompleteRunScoresZero(t *testing.T) {
	g := NewMaze(DefaultMazeConfig())
	steer(g, corridorPath[:5])

	if g.Score() != 0 {
		t.Errorf("score = %d, want 0 before reaching the exit", g.Score())
	}
	total, successful := g.Interactions()
	if total != 1 || successful != 0 {
		t.Errorf("interactions = %d/%d, want 1/0", total, successful)
	}
}
