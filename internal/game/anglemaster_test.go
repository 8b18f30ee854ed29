package game

import (
	"testing"
	"time"
)

func angleFrames(angle float64, n int) []Frame {
	now := time.Now()
	frames := make([]Frame, n)
	for i := range frames {
		frames[i] = Frame{
			Now:      now.Add(time.Duration(i) * 33 * time.Millisecond),
			Angle:    angle,
			HasAngle: true,
		}
	}
	return frames
}

func TestAngleMaster_CompletesTargetAfterHold(t *testing.T) {
	g := NewAngleMaster(AngleMasterConfig{
		Targets:    []float64{90, 160},
		Tolerance:  15,
		HoldFrames: 5,
	})

	for _, f := range angleFrames(92, 5) {
		g.Update(f)
	}

	if g.Score() != 20 {
		t.Errorf("score = %d, want 20 after holding the first target", g.Score())
	}
	_, successful := g.Interactions()
	if successful != 1 {
		t.Errorf("completed = %d, want 1", successful)
	}
	if g.Finished() {
		t.Error("one target left, game should not be finished")
	}

	for _, f := range angleFrames(158, 5) {
		g.Update(f)
	}
	if !g.Finished() {
		t.Error("all targets held, game should be finished")
	}
	if g.Score() != 40 {
		t.Errorf("score = %d, want 40", g.Score())
	}
}

func TestAngleMaster_HoldResetsOutsideTolerance(t *testing.T) {
	g := NewAngleMaster(AngleMasterConfig{
		Targets:    []float64{90},
		Tolerance:  15,
		HoldFrames: 5,
	})

	// 4 good frames, one bad, 4 good: never 5 in a row
	for _, f := range angleFrames(90, 4) {
		g.Update(f)
	}
	g.Update(Frame{Now: time.Now(), Angle: 140, HasAngle: true})
	for _, f := range angleFrames(90, 4) {
		g.Update(f)
	}

	if g.Score() != 0 {
		t.Errorf("score = %d, want 0 when the hold keeps resetting", g.Score())
	}
}

func TestAngleMaster_MissingAngleResetsHold(t *testing.T) {
	g := NewAngleMaster(AngleMasterConfig{
		Targets:    []float64{90},
		Tolerance:  15,
		HoldFrames: 3,
	})

	g.Update(Frame{Angle: 90, HasAngle: true})
	g.Update(Frame{Angle: 90, HasAngle: true})
	g.Update(Frame{}) // tracking dropped
	g.Update(Frame{Angle: 90, HasAngle: true})
	g.Update(Frame{Angle: 90, HasAngle: true})

	if g.Score() != 0 {
		t.Errorf("score = %d, want 0, the hold must restart after a dropout", g.Score())
	}

	g.Update(Frame{Angle: 90, HasAngle: true})
	if g.Score() != 20 {
		t.Errorf("score = %d, want 20 after three consecutive frames", g.Score())
	}
}

func TestAngleMaster_Details(t *testing.T) {
	g := NewAngleMaster(AngleMasterConfig{
		Targets:    []float64{90, 160},
		Tolerance:  15,
		HoldFrames: 2,
	})
	for _, f := range angleFrames(100, 2) { // deviation 10
		g.Update(f)
	}

	d := g.Details()
	if d["targets_completed"].(int) != 1 {
		t.Errorf("targets_completed = %v, want 1", d["targets_completed"])
	}
	if d["targets_total"].(int) != 2 {
		t.Errorf("targets_total = %v, want 2", d["targets_total"])
	}
	if d["avg_deviation"].(float64) != 10.0 {
		t.Errorf("avg_deviation = %v, want 10", d["avg_deviation"])
	}
}
