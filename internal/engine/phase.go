package engine

import "github.com/formsense/formsense/internal/exercise"

// Phase is the motion-cycle state of the tracked limb for one frame.
type Phase string

const (
	PhaseReady     Phase = "ready"
	PhaseMoving    Phase = "moving"
	PhasePeak      Phase = "at-peak"
	PhaseReturning Phase = "returning"
)

// ClassifyPhase maps the current angle to a base phase of ready, moving
// or at-peak using the exercise's thresholds. For extension-type
// exercises the angle climbs toward the peak; for flexion-type it falls,
// so the threshold comparisons mirror. Any angle the thresholds leave
// uncovered classifies as moving: every frame must resolve to exactly
// one phase.
//
// PhaseReturning is not produced here; it is a session-level refinement
// of moving after the peak has been reached.
func ClassifyPhase(ex *exercise.Config, angle float64) Phase {
	t := ex.RepThresholds
	if ex.TargetRanges.OptimalPeak.Contains(angle) {
		return PhasePeak
	}

	switch ex.Category {
	case exercise.CategoryFlexion:
		// Thresholds are ascending, so for a falling angle RestMax is the
		// boundary where movement begins and LiftingMin bounds the far
		// end of the cycle.
		if angle < t.RestMax {
			return PhaseMoving
		}
		return PhaseReady
	default:
		if angle > t.LiftingMin {
			return PhaseMoving
		}
		if angle <= t.RestMax {
			return PhaseReady
		}
		return PhaseMoving
	}
}
