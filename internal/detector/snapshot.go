package detector

import "math"

// Point is a pixel-space coordinate on a video frame.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Snapshot is the pixel-space projection of one detected hand for a single
// frame. It is created fresh every frame from detector output and is never
// mutated afterwards. An empty snapshot means no hand was detected; a partial
// snapshot (fewer than NumLandmarks points) is treated as no-data by any
// accessor whose landmark ids are missing.
type Snapshot struct {
	points []Point
}

// NewSnapshot builds a snapshot from an ordered list of pixel coordinates.
// The slice is indexed by landmark id (Wrist=0 .. PinkyTip=20).
func NewSnapshot(points []Point) Snapshot {
	return Snapshot{points: points}
}

// Snapshot projects the normalized landmark coordinates onto a frame of the
// given pixel dimensions.
func (h *HandLandmarks) Snapshot(width, height int) Snapshot {
	if h == nil {
		return Snapshot{}
	}
	points := make([]Point, NumLandmarks)
	for i := 0; i < NumLandmarks; i++ {
		points[i] = Point{
			X: int(h.Points[i].X * float64(width)),
			Y: int(h.Points[i].Y * float64(height)),
		}
	}
	return Snapshot{points: points}
}

// Empty reports whether the snapshot contains no landmarks at all.
func (s Snapshot) Empty() bool {
	return len(s.points) == 0
}

// Count returns the number of landmarks present.
func (s Snapshot) Count() int {
	return len(s.points)
}

// Point returns the pixel coordinate of the given landmark id.
// The second return value is false when the landmark is not present.
func (s Snapshot) Point(id int) (Point, bool) {
	if id < 0 || id >= len(s.points) {
		return Point{}, false
	}
	return s.points[id], true
}

// HandPosition returns the palm center, anchored at the middle finger MCP
// (landmark 9) which is a stable reference for whole-hand motion.
func (s Snapshot) HandPosition() (Point, bool) {
	return s.Point(MiddleMCP)
}

// PinchDistance returns the thumb tip to index tip distance in pixels.
func (s Snapshot) PinchDistance() (float64, bool) {
	thumb, ok := s.Point(ThumbTip)
	if !ok {
		return 0, false
	}
	index, ok := s.Point(IndexTip)
	if !ok {
		return 0, false
	}
	return math.Hypot(float64(index.X-thumb.X), float64(index.Y-thumb.Y)), true
}

// PinchMidpoint returns the midpoint between the thumb and index finger tips,
// used as the cursor position regardless of pinch state.
func (s Snapshot) PinchMidpoint() (Point, bool) {
	thumb, ok := s.Point(ThumbTip)
	if !ok {
		return Point{}, false
	}
	index, ok := s.Point(IndexTip)
	if !ok {
		return Point{}, false
	}
	return Point{
		X: (thumb.X + index.X) / 2,
		Y: (thumb.Y + index.Y) / 2,
	}, true
}
