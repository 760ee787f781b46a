package engine

import (
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates a session's angle timeline and rep output, for the
// end-of-attempt report and the debug chart.
type Summary struct {
	SessionID  string        `json:"session_id"`
	Exercise   string        `json:"exercise"`
	RepCount   int           `json:"rep_count"`
	Frames     int           `json:"frames"`
	MeanAngle  float64       `json:"mean_angle"`
	MinAngle   float64       `json:"min_angle"`
	MaxAngle   float64       `json:"max_angle"`
	AngleStdev float64       `json:"angle_stdev"`
	Duration   time.Duration `json:"duration_ns"`
	RepsPerMin float64       `json:"reps_per_min"`
}

// Summarize computes the session summary from its recorded history.
func (s *Session) Summarize() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := Summary{
		SessionID: s.ID,
		Exercise:  s.Exercise.Name,
		RepCount:  s.repCount,
		Frames:    len(s.history),
	}
	if len(s.history) == 0 {
		return sum
	}

	angles := make([]float64, len(s.history))
	for i, h := range s.history {
		angles[i] = h.Angle
	}
	sum.MeanAngle = stat.Mean(angles, nil)
	sum.MinAngle = floats.Min(angles)
	sum.MaxAngle = floats.Max(angles)
	if len(angles) > 1 {
		sum.AngleStdev = stat.StdDev(angles, nil)
	}

	first, last := s.history[0].At, s.history[len(s.history)-1].At
	sum.Duration = last.Sub(first)
	if mins := sum.Duration.Minutes(); mins > 0 {
		sum.RepsPerMin = float64(s.repCount) / mins
	}
	return sum
}
