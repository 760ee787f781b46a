// Package engine turns per-frame keypoint sets and an exercise config
// into analysis results: the active limb, the tracked joint angle, the
// movement phase, the repetition count and corrective form feedback.
package engine

import (
	"math"

	"github.com/formsense/formsense/internal/pose"
)

// Angle returns the angle in degrees at vertex b between the rays b→a
// and b→c, normalized to [0, 180]. Callers are responsible for checking
// that all three keypoints are actually present.
func Angle(a, b, c pose.Keypoint) float64 {
	rad := math.Atan2(c.Y-b.Y, c.X-b.X) - math.Atan2(a.Y-b.Y, a.X-b.X)
	deg := math.Abs(rad * 180 / math.Pi)
	if deg > 180 {
		deg = 360 - deg
	}
	return deg
}
