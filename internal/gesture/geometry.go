// Package gesture turns per-frame hand landmark snapshots into debounced
// pinch events and continuous derived quantities (cursor position, joint
// angles, inter-point distances).
package gesture

import (
	"math"

	"github.com/ayusman/rehand/internal/detector"
)

// Distance calculates the Euclidean distance in pixels between two points.
func Distance(p1, p2 detector.Point) float64 {
	return math.Hypot(float64(p2.X-p1.X), float64(p2.Y-p1.Y))
}

// AngleAtVertex calculates the interior angle in degrees formed at p2 by the
// rays toward p1 and p3. The result is always in [0, 180]: the raw atan2
// difference is shifted into [0, 360) and reflex angles are reflected.
// Target-angle matching downstream relies on this exact normalization.
func AngleAtVertex(p1, p2, p3 detector.Point) float64 {
	a1 := math.Atan2(float64(p1.Y-p2.Y), float64(p1.X-p2.X))
	a3 := math.Atan2(float64(p3.Y-p2.Y), float64(p3.X-p2.X))

	angle := (a3 - a1) * 180 / math.Pi
	if angle < 0 {
		angle += 360
	}
	if angle > 180 {
		angle = 360 - angle
	}
	return angle
}

// IndexFlexionAngle returns the index finger flexion angle: the angle at the
// PIP joint between the MCP and the fingertip. The second return value is
// false when any of the three joints is missing from the snapshot.
func IndexFlexionAngle(snap detector.Snapshot) (float64, bool) {
	mcp, ok := snap.Point(detector.IndexMCP)
	if !ok {
		return 0, false
	}
	pip, ok := snap.Point(detector.IndexPIP)
	if !ok {
		return 0, false
	}
	tip, ok := snap.Point(detector.IndexTip)
	if !ok {
		return 0, false
	}
	return AngleAtVertex(mcp, pip, tip), true
}
