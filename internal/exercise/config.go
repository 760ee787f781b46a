// Package exercise defines exercise configurations: the target joint
// angle, phase thresholds and form-check rules that drive per-frame
// analysis. Configs always reference left-side landmark indices; the
// engine mirrors them to whichever side the user is actually using.
package exercise

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/formsense/formsense/internal/monitoring"
	"github.com/formsense/formsense/internal/pose"
)

// Category determines how the joint angle relates to the movement cycle.
type Category string

const (
	// CategoryExtension covers raises, abductions and flexions where the
	// tracked angle increases toward the peak of the movement.
	CategoryExtension Category = "extension"
	// CategoryFlexion covers curls where the tracked angle decreases
	// toward the peak.
	CategoryFlexion Category = "flexion"
)

// Limb identifies which bilateral limb pair an exercise tracks.
type Limb string

const (
	LimbArm Limb = "arm"
	LimbLeg Limb = "leg"
)

// AngleSpec names the three landmarks forming the primary joint angle.
// Points is [a, vertex, b]: the angle is measured at the vertex.
type AngleSpec struct {
	Points [3]int `json:"points" yaml:"points,flow"`
	Name   string `json:"name" yaml:"name"`
}

// Range is an inclusive [low, high] angle band in degrees.
type Range struct {
	Low  float64 `json:"low" yaml:"low"`
	High float64 `json:"high" yaml:"high"`
}

// Contains reports whether the angle falls inside the band.
func (r Range) Contains(angle float64) bool {
	return angle >= r.Low && angle <= r.High
}

// Mid returns the midpoint of the band.
func (r Range) Mid() float64 {
	return (r.Low + r.High) / 2
}

// TargetRanges describes the angle bands of one movement cycle.
type TargetRanges struct {
	StartingPosition Range `json:"starting_position" yaml:"starting_position"`
	TargetRange      Range `json:"target_range" yaml:"target_range"`
	OptimalPeak      Range `json:"optimal_peak" yaml:"optimal_peak"`
}

// RepThresholds are the angle boundaries the phase classifier uses.
// The invariant LiftingMin < LoweringMax < RestMax is repaired at load
// time if a config violates it.
type RepThresholds struct {
	LiftingMin  float64 `json:"lifting_min" yaml:"lifting_min"`
	LoweringMax float64 `json:"lowering_max" yaml:"lowering_max"`
	RestMax     float64 `json:"rest_max" yaml:"rest_max"`
}

// FormCheck is one configured technique rule. Condition is free text
// from the recommendation service; it is parsed into a RuleKind once at
// load time. Unrecognized conditions parse to RuleUnknown and are inert.
type FormCheck struct {
	Condition    string `json:"condition" yaml:"condition"`
	ErrorMessage string `json:"error_message" yaml:"error_message"`
	Keypoints    []int  `json:"keypoints" yaml:"keypoints,flow"`

	// Kind is derived from Condition at load time.
	Kind RuleKind `json:"-" yaml:"-"`
}

// RuleKind enumerates the form-check vocabulary.
type RuleKind int

const (
	RuleUnknown RuleKind = iota
	RuleWristAboveShoulder
	RuleElbowBelowShoulder
	RuleElbowDrift
	RuleKneeAlignment
	RuleBackStraight
)

// ruleVocabulary maps condition substrings to rule kinds. Matching is
// case-insensitive and first match wins, so more specific phrases come
// first.
var ruleVocabulary = []struct {
	substr string
	kind   RuleKind
}{
	{"wrist higher than shoulder", RuleWristAboveShoulder},
	{"wrist above shoulder", RuleWristAboveShoulder},
	{"elbow below shoulder", RuleElbowBelowShoulder},
	{"elbow away from body", RuleElbowDrift},
	{"elbow drift", RuleElbowDrift},
	{"knee alignment", RuleKneeAlignment},
	{"knee past toe", RuleKneeAlignment},
	{"back straight", RuleBackStraight},
	{"torso upright", RuleBackStraight},
}

// ParseRuleKind classifies a form-check condition string.
func ParseRuleKind(condition string) RuleKind {
	c := strings.ToLower(condition)
	for _, v := range ruleVocabulary {
		if strings.Contains(c, v.substr) {
			return v.kind
		}
	}
	return RuleUnknown
}

// Config is one exercise definition. Immutable for the lifetime of a
// tracking session.
type Config struct {
	ID          string   `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Steps       []string `json:"steps" yaml:"steps"`

	TargetKeypoints []int         `json:"target_keypoints" yaml:"target_keypoints,flow"`
	PrimaryAngle    AngleSpec     `json:"primary_angle" yaml:"primary_angle"`
	TargetRanges    TargetRanges  `json:"target_ranges" yaml:"target_ranges"`
	FormChecks      []FormCheck   `json:"form_checks" yaml:"form_checks"`
	RepThresholds   RepThresholds `json:"rep_thresholds" yaml:"rep_thresholds"`

	// Derived at load time, never re-derived per frame.
	Category Category `json:"-" yaml:"-"`
	Limb     Limb     `json:"-" yaml:"-"`
}

// Structural load-time errors. A config failing these never enters the
// pipeline.
var (
	ErrNoName         = errors.New("exercise config has no name")
	ErrNoPrimaryAngle = errors.New("exercise config has no primary angle points")
	ErrBadLandmark    = errors.New("exercise config references an invalid landmark index")
)

// flexionNames are name fragments indicating a flexion-type exercise,
// one whose tracked angle decreases toward the peak (elbow angle in a
// curl, knee angle in a squat). Everything else is extension-type.
var flexionNames = []string{"curl", "squat", "leg raise"}

// categoryForName derives the exercise category from its name.
func categoryForName(name string) Category {
	n := strings.ToLower(name)
	for _, frag := range flexionNames {
		if strings.Contains(n, frag) {
			return CategoryFlexion
		}
	}
	return CategoryExtension
}

// limbForAngle derives which limb an exercise tracks from its primary
// angle landmarks: any leg landmark makes it a leg exercise.
func limbForAngle(points [3]int) Limb {
	for _, p := range points {
		switch p {
		case pose.LeftHip, pose.LeftKnee, pose.LeftAnkle:
			return LimbLeg
		}
	}
	return LimbArm
}

// Finalize validates the config structurally, repairs the threshold
// ordering invariant and derives the category, limb and form-rule kinds.
// It must be called once when a config is loaded, before any session
// uses it.
func (c *Config) Finalize() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrNoName
	}
	if c.PrimaryAngle.Points == [3]int{} {
		return fmt.Errorf("%w: %q", ErrNoPrimaryAngle, c.Name)
	}
	for _, p := range c.PrimaryAngle.Points {
		if p < 0 || p >= pose.NumLandmarks {
			return fmt.Errorf("%w: %q primary angle point %d", ErrBadLandmark, c.Name, p)
		}
	}
	for _, fc := range c.FormChecks {
		for _, p := range fc.Keypoints {
			if p < 0 || p >= pose.NumLandmarks {
				return fmt.Errorf("%w: %q form check %q point %d", ErrBadLandmark, c.Name, fc.Condition, p)
			}
		}
	}

	if c.repairThresholds() {
		monitoring.Logf("exercise %q: rep thresholds out of order, corrected to lifting_min=%.0f lowering_max=%.0f rest_max=%.0f",
			c.Name, c.RepThresholds.LiftingMin, c.RepThresholds.LoweringMax, c.RepThresholds.RestMax)
	}

	c.Category = categoryForName(c.Name)
	c.Limb = limbForAngle(c.PrimaryAngle.Points)
	for i := range c.FormChecks {
		c.FormChecks[i].Kind = ParseRuleKind(c.FormChecks[i].Condition)
		if c.FormChecks[i].Kind == RuleUnknown {
			monitoring.Logf("exercise %q: unrecognized form condition %q, rule will be skipped", c.Name, c.FormChecks[i].Condition)
		}
	}
	return nil
}

// repairThresholds enforces LiftingMin < LoweringMax < RestMax by
// sorting the three values into ascending order. Returns true if the
// config needed correction.
func (c *Config) repairThresholds() bool {
	t := &c.RepThresholds
	vals := []float64{t.LiftingMin, t.LoweringMax, t.RestMax}
	if vals[0] < vals[1] && vals[1] < vals[2] {
		return false
	}
	sort.Float64s(vals)
	t.LiftingMin, t.LoweringMax, t.RestMax = vals[0], vals[1], vals[2]
	return true
}
