package engine

import (
	"math"

	"github.com/formsense/formsense/internal/exercise"
	"github.com/formsense/formsense/internal/pose"
)

// Tolerances for the form-rule geometric tests, in normalized image
// coordinates or degrees. Empirical starting points, same caveat as the
// engine tunables.
const (
	wristAboveShoulderTol = 0.10 // wrist this far above the shoulder line fails
	elbowBelowShoulderTol = 0.05
	elbowDriftTol         = 0.12 // horizontal elbow drift from the hip
	kneeAlignmentTol      = 0.10 // horizontal knee offset from the ankle
	backStraightMinAngle  = 160  // degrees at the hip; below this the back is bent
)

// EvaluateFormChecks runs the exercise's form rules against the frame,
// with every landmark resolved to the active side. The first failing
// rule's message wins. Rules whose kind is unknown, or whose landmarks
// are not visible this frame, are skipped rather than failed.
func EvaluateFormChecks(cfg Config, ex *exercise.Config, frame pose.Frame, side pose.Side) (ok bool, message string) {
	for _, rule := range ex.FormChecks {
		violated, evaluable := evaluateRule(cfg, rule.Kind, frame, side)
		if evaluable && violated {
			return false, rule.ErrorMessage
		}
	}
	return true, ""
}

// evaluateRule applies one rule kind's geometric test. evaluable is
// false when the rule is unknown or a required landmark is missing.
func evaluateRule(cfg Config, kind exercise.RuleKind, frame pose.Frame, side pose.Side) (violated, evaluable bool) {
	at := func(canonical int) (pose.Keypoint, bool) {
		return frame.At(pose.Resolve(canonical, side), cfg.MinVisibility)
	}

	switch kind {
	case exercise.RuleWristAboveShoulder:
		wrist, ok1 := at(pose.LeftWrist)
		shoulder, ok2 := at(pose.LeftShoulder)
		if !ok1 || !ok2 {
			return false, false
		}
		return wrist.Y < shoulder.Y-wristAboveShoulderTol, true

	case exercise.RuleElbowBelowShoulder:
		elbow, ok1 := at(pose.LeftElbow)
		shoulder, ok2 := at(pose.LeftShoulder)
		if !ok1 || !ok2 {
			return false, false
		}
		return elbow.Y > shoulder.Y+elbowBelowShoulderTol, true

	case exercise.RuleElbowDrift:
		elbow, ok1 := at(pose.LeftElbow)
		hip, ok2 := at(pose.LeftHip)
		if !ok1 || !ok2 {
			return false, false
		}
		return math.Abs(elbow.X-hip.X) > elbowDriftTol, true

	case exercise.RuleKneeAlignment:
		knee, ok1 := at(pose.LeftKnee)
		ankle, ok2 := at(pose.LeftAnkle)
		if !ok1 || !ok2 {
			return false, false
		}
		return math.Abs(knee.X-ankle.X) > kneeAlignmentTol, true

	case exercise.RuleBackStraight:
		shoulder, ok1 := at(pose.LeftShoulder)
		hip, ok2 := at(pose.LeftHip)
		knee, ok3 := at(pose.LeftKnee)
		if !ok1 || !ok2 || !ok3 {
			return false, false
		}
		return Angle(shoulder, hip, knee) < backStraightMinAngle, true
	}

	// Unknown rule kinds are inert.
	return false, false
}
