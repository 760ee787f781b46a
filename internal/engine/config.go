package engine

import "time"

// Constants for engine configuration.
const (
	// DefaultRepDebounce is the minimum wall-clock gap between counted reps.
	DefaultRepDebounce = 1000 * time.Millisecond
	// DefaultMinVisibility is the visibility below which a keypoint is
	// treated as missing.
	DefaultMinVisibility = 0.5
	// MaxAngleHistory caps the per-session angle samples kept for the
	// summary and debug chart.
	MaxAngleHistory = 4096
)

// Config holds the engine's tunable parameters. The values are
// empirically chosen starting points, not calibrated constants; override
// them through a tuning file where a deployment needs different
// behaviour.
type Config struct {
	MinVisibility    float64       // Keypoint visibility threshold
	SwitchHysteresis float64       // Relative score margin required to switch sides
	RepDebounce      time.Duration // Minimum gap between counted reps
	ArmRestAngle     float64       // Assumed arm reference angle at rest (degrees)
	LegRestAngle     float64       // Assumed leg reference angle at rest (degrees)
	ElevationWeight  float64       // Movement score weight: distal rise over proximal
	ExtensionWeight  float64       // Movement score weight: horizontal reach
	AngleWeight      float64       // Movement score weight: deviation from rest angle
	SmoothingWindow  int           // Moving-average window over raw angles (1 = off)
	BadFrameNotice   int           // Consecutive untracked frames before prompting the user
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		MinVisibility:    DefaultMinVisibility,
		SwitchHysteresis: 0.25,
		RepDebounce:      DefaultRepDebounce,
		ArmRestAngle:     20,
		LegRestAngle:     175,
		ElevationWeight:  0.5,
		ExtensionWeight:  0.3,
		AngleWeight:      0.2,
		SmoothingWindow:  1,
		BadFrameNotice:   15,
	}
}
