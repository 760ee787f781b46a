package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// TuningConfig is the on-disk form of the engine tunables. All fields
// are optional pointers so a partial file only overrides what it names;
// everything else keeps the DefaultConfig value.
type TuningConfig struct {
	MinVisibility    *float64 `json:"min_visibility,omitempty"`
	SwitchHysteresis *float64 `json:"switch_hysteresis,omitempty"`
	RepDebounce      *string  `json:"rep_debounce,omitempty"` // duration string like "1s"
	ArmRestAngle     *float64 `json:"arm_rest_angle,omitempty"`
	LegRestAngle     *float64 `json:"leg_rest_angle,omitempty"`
	ElevationWeight  *float64 `json:"elevation_weight,omitempty"`
	ExtensionWeight  *float64 `json:"extension_weight,omitempty"`
	AngleWeight      *float64 `json:"angle_weight,omitempty"`
	SmoothingWindow  *int     `json:"smoothing_window,omitempty"`
	BadFrameNotice   *int     `json:"bad_frame_notice,omitempty"`
}

// LoadTuningConfig loads engine tunables from a JSON file and applies
// them over the defaults.
func LoadTuningConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return cfg, fmt.Errorf("tuning file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return cfg, fmt.Errorf("failed to read tuning file: %w", err)
	}

	var tc TuningConfig
	if err := json.Unmarshal(data, &tc); err != nil {
		return cfg, fmt.Errorf("failed to parse tuning JSON: %w", err)
	}

	if err := tc.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid tuning config: %w", err)
	}

	tc.apply(&cfg)
	return cfg, nil
}

// Validate checks that the tuning values are within operating ranges.
func (tc *TuningConfig) Validate() error {
	if tc.MinVisibility != nil {
		if *tc.MinVisibility < 0 || *tc.MinVisibility > 1 {
			return fmt.Errorf("min_visibility must be between 0 and 1, got %f", *tc.MinVisibility)
		}
	}
	if tc.SwitchHysteresis != nil {
		if *tc.SwitchHysteresis < 0 || *tc.SwitchHysteresis > 1 {
			return fmt.Errorf("switch_hysteresis must be between 0 and 1, got %f", *tc.SwitchHysteresis)
		}
	}
	if tc.RepDebounce != nil && *tc.RepDebounce != "" {
		d, err := time.ParseDuration(*tc.RepDebounce)
		if err != nil {
			return fmt.Errorf("invalid rep_debounce %q: %w", *tc.RepDebounce, err)
		}
		if d < 0 {
			return fmt.Errorf("rep_debounce must be non-negative, got %v", d)
		}
	}
	if tc.SmoothingWindow != nil && *tc.SmoothingWindow < 1 {
		return fmt.Errorf("smoothing_window must be >= 1, got %d", *tc.SmoothingWindow)
	}
	if tc.BadFrameNotice != nil && *tc.BadFrameNotice < 1 {
		return fmt.Errorf("bad_frame_notice must be >= 1, got %d", *tc.BadFrameNotice)
	}
	return nil
}

func (tc *TuningConfig) apply(cfg *Config) {
	if tc.MinVisibility != nil {
		cfg.MinVisibility = *tc.MinVisibility
	}
	if tc.SwitchHysteresis != nil {
		cfg.SwitchHysteresis = *tc.SwitchHysteresis
	}
	if tc.RepDebounce != nil && *tc.RepDebounce != "" {
		if d, err := time.ParseDuration(*tc.RepDebounce); err == nil {
			cfg.RepDebounce = d
		}
	}
	if tc.ArmRestAngle != nil {
		cfg.ArmRestAngle = *tc.ArmRestAngle
	}
	if tc.LegRestAngle != nil {
		cfg.LegRestAngle = *tc.LegRestAngle
	}
	if tc.ElevationWeight != nil {
		cfg.ElevationWeight = *tc.ElevationWeight
	}
	if tc.ExtensionWeight != nil {
		cfg.ExtensionWeight = *tc.ExtensionWeight
	}
	if tc.AngleWeight != nil {
		cfg.AngleWeight = *tc.AngleWeight
	}
	if tc.SmoothingWindow != nil {
		cfg.SmoothingWindow = *tc.SmoothingWindow
	}
	if tc.BadFrameNotice != nil {
		cfg.BadFrameNotice = *tc.BadFrameNotice
	}
}
