package engine

import (
	"testing"

	"github.com/formsense/formsense/internal/exercise"
	"github.com/formsense/formsense/internal/pose"
)

func extensionConfig(t *testing.T) *exercise.Config {
	t.Helper()
	cfg := &exercise.Config{
		Name: "Test Abduction",
		PrimaryAngle: exercise.AngleSpec{
			Points: [3]int{pose.LeftHip, pose.LeftShoulder, pose.LeftElbow},
			Name:   "shoulder angle",
		},
		TargetRanges: exercise.TargetRanges{
			StartingPosition: exercise.Range{Low: 0, High: 30},
			TargetRange:      exercise.Range{Low: 90, High: 180},
			OptimalPeak:      exercise.Range{Low: 160, High: 180},
		},
		RepThresholds: exercise.RepThresholds{LiftingMin: 90, LoweringMax: 120, RestMax: 150},
	}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return cfg
}

func flexionConfig(t *testing.T) *exercise.Config {
	t.Helper()
	cfg := &exercise.Config{
		Name: "Test Curl",
		PrimaryAngle: exercise.AngleSpec{
			Points: [3]int{pose.LeftShoulder, pose.LeftElbow, pose.LeftWrist},
			Name:   "elbow angle",
		},
		TargetRanges: exercise.TargetRanges{
			StartingPosition: exercise.Range{Low: 150, High: 180},
			TargetRange:      exercise.Range{Low: 30, High: 90},
			OptimalPeak:      exercise.Range{Low: 30, High: 60},
		},
		RepThresholds: exercise.RepThresholds{LiftingMin: 70, LoweringMax: 110, RestMax: 150},
	}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return cfg
}

func TestClassifyPhase_Extension(t *testing.T) {
	ex := extensionConfig(t)
	if ex.Category != exercise.CategoryExtension {
		t.Fatalf("category = %q, want extension", ex.Category)
	}

	cases := []struct {
		angle float64
		want  Phase
	}{
		{10, PhaseReady},
		{30, PhaseReady},
		{91, PhaseMoving},
		{120, PhaseMoving},
		{159, PhaseMoving},
		{160, PhasePeak},
		{175, PhasePeak},
		{180, PhasePeak},
	}
	for _, c := range cases {
		if got := ClassifyPhase(ex, c.angle); got != c.want {
			t.Errorf("ClassifyPhase(%v) = %q, want %q", c.angle, got, c.want)
		}
	}
}

func TestClassifyPhase_Flexion(t *testing.T) {
	ex := flexionConfig(t)
	if ex.Category != exercise.CategoryFlexion {
		t.Fatalf("category = %q, want flexion", ex.Category)
	}

	cases := []struct {
		angle float64
		want  Phase
	}{
		{175, PhaseReady},
		{150, PhaseReady},
		{149, PhaseMoving},
		{100, PhaseMoving},
		{61, PhaseMoving},
		{60, PhasePeak},
		{45, PhasePeak},
		{30, PhasePeak},
		{20, PhaseMoving}, // past the optimal band, still in motion
	}
	for _, c := range cases {
		if got := ClassifyPhase(ex, c.angle); got != c.want {
			t.Errorf("ClassifyPhase(%v) = %q, want %q", c.angle, got, c.want)
		}
	}
}

func TestClassifyPhase_GapDefaultsToMoving(t *testing.T) {
	// Thresholds leaving a band uncovered must still classify: every
	// frame resolves to exactly one phase.
	ex := extensionConfig(t)
	for angle := 0.0; angle <= 180; angle += 0.5 {
		got := ClassifyPhase(ex, angle)
		if got != PhaseReady && got != PhaseMoving && got != PhasePeak {
			t.Fatalf("ClassifyPhase(%v) = %q, not a base phase", angle, got)
		}
	}
}
