package engine

import (
	"math"

	"github.com/formsense/formsense/internal/exercise"
	"github.com/formsense/formsense/internal/pose"
)

// minScoreMagnitude guards the relative-difference computation when both
// sides are essentially motionless.
const minScoreMagnitude = 1e-6

// sideScore is the movement evidence for one side of a bilateral limb.
// Higher means the side looks more like it is performing the exercise.
type sideScore struct {
	score float64
	ok    bool // all required landmarks visible
}

// scoreSide computes the movement score for one side of the given limb.
// The score combines three signals: how far the distal joint has risen
// relative to its proximal joint, how far the limb reaches horizontally
// from the body, and how far the reference joint angle deviates from the
// assumed anatomical rest angle.
func scoreSide(cfg Config, limb exercise.Limb, frame pose.Frame, side pose.Side) sideScore {
	var proximalIdx, distalIdx int
	var refA, refVertex, refB int
	var restAngle float64

	switch limb {
	case exercise.LimbLeg:
		proximalIdx = pose.Resolve(pose.LeftHip, side)
		distalIdx = pose.Resolve(pose.LeftAnkle, side)
		refA = pose.Resolve(pose.LeftHip, side)
		refVertex = pose.Resolve(pose.LeftKnee, side)
		refB = pose.Resolve(pose.LeftAnkle, side)
		restAngle = cfg.LegRestAngle
	default: // arm
		proximalIdx = pose.Resolve(pose.LeftShoulder, side)
		distalIdx = pose.Resolve(pose.LeftWrist, side)
		refA = pose.Resolve(pose.LeftHip, side)
		refVertex = pose.Resolve(pose.LeftShoulder, side)
		refB = pose.Resolve(pose.LeftWrist, side)
		restAngle = cfg.ArmRestAngle
	}

	proximal, ok1 := frame.At(proximalIdx, cfg.MinVisibility)
	distal, ok2 := frame.At(distalIdx, cfg.MinVisibility)
	a, ok3 := frame.At(refA, cfg.MinVisibility)
	vertex, ok4 := frame.At(refVertex, cfg.MinVisibility)
	b, ok5 := frame.At(refB, cfg.MinVisibility)
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
		return sideScore{}
	}

	// Y grows downward, so proximal minus distal is positive when the
	// distal joint has risen above its proximal joint.
	elevation := proximal.Y - distal.Y
	extension := math.Abs(distal.X - proximal.X)
	angleDev := math.Abs(Angle(a, vertex, b)-restAngle) / 180

	return sideScore{
		score: cfg.ElevationWeight*elevation + cfg.ExtensionWeight*extension + cfg.AngleWeight*angleDev,
		ok:    true,
	}
}

// DetectActiveSide decides which side of the bilateral limb is performing
// the exercise. The side only switches when the other side's score
// exceeds the current one by more than the hysteresis margin relative to
// the average score magnitude; near-equal scores retain the previous
// side, otherwise the detector oscillates every frame. Missing landmarks
// on either side also retain the previous side.
func DetectActiveSide(cfg Config, limb exercise.Limb, frame pose.Frame, prev pose.Side) pose.Side {
	if prev == "" {
		prev = pose.SideLeft
	}

	left := scoreSide(cfg, limb, frame, pose.SideLeft)
	right := scoreSide(cfg, limb, frame, pose.SideRight)
	if !left.ok || !right.ok {
		return prev
	}

	winner := pose.SideLeft
	if right.score > left.score {
		winner = pose.SideRight
	}
	if winner == prev {
		return prev
	}

	denom := (math.Abs(left.score) + math.Abs(right.score)) / 2
	if denom < minScoreMagnitude {
		return prev
	}
	if math.Abs(left.score-right.score)/denom <= cfg.SwitchHysteresis {
		return prev
	}
	return winner
}
