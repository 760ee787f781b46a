package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/formsense/formsense/internal/exercise"
	"github.com/formsense/formsense/internal/pose"
	"github.com/formsense/formsense/internal/timeutil"
)

// Result is the immutable outcome of analyzing one frame.
type Result struct {
	// Angle is the (smoothed) primary joint angle in degrees, and
	// AngleDegrees its rounded form for display.
	Angle        float64   `json:"angle"`
	AngleDegrees int       `json:"angle_degrees"`
	ActiveSide   pose.Side `json:"active_side"`
	Phase        Phase     `json:"phase"`
	RepCount     int       `json:"rep_count"`
	RepCounted   bool      `json:"rep_counted"`
	// FormOK is nil when the frame could not be tracked well enough to
	// judge form at all.
	FormOK    *bool     `json:"form_ok"`
	Message   string    `json:"message"`
	Tracking  bool      `json:"tracking"`
	Timestamp time.Time `json:"timestamp"`
}

// AngleSample is one point of a session's angle timeline.
type AngleSample struct {
	FrameIdx int       `json:"frame_idx"`
	At       time.Time `json:"at"`
	Angle    float64   `json:"angle"`
	Phase    Phase     `json:"phase"`
}

// Session is the mutable tracking state for one exercise attempt. It is
// owned by whoever drives the per-frame loop: Analyze must be called
// serially, one frame at a time. Internal locking only protects
// observers (summary, history readers) against the analysis loop, not
// concurrent analysis of two frames.
type Session struct {
	ID       string
	Exercise *exercise.Config

	cfg   Config
	clock timeutil.Clock

	mu             sync.Mutex
	activeSide     pose.Side
	lastPhase      Phase
	hasReachedPeak bool
	lastRepAt      time.Time
	repCount       int
	started        bool
	startedAt      time.Time
	badStreak      int
	frameIdx       int
	smooth         []float64
	history        []AngleSample
}

// NewSession creates a session for one exercise attempt using the wall
// clock.
func NewSession(ex *exercise.Config, cfg Config) *Session {
	return NewSessionWithClock(ex, cfg, timeutil.RealClock{})
}

// NewSessionWithClock creates a session with an injected clock. Tests
// use this with a MockClock to drive the rep debounce deterministically.
func NewSessionWithClock(ex *exercise.Config, cfg Config, clock timeutil.Clock) *Session {
	if cfg.SmoothingWindow < 1 {
		cfg.SmoothingWindow = 1
	}
	return &Session{
		ID:         uuid.New().String(),
		Exercise:   ex,
		cfg:        cfg,
		clock:      clock,
		activeSide: pose.SideLeft,
		lastPhase:  PhaseReady,
	}
}

// Start begins counting reps. Frames analyzed before Start still produce
// live angle and side readings, but never advance the rep counter.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = true
	if s.startedAt.IsZero() {
		s.startedAt = s.clock.Now()
	}
}

// Stop halts rep counting without discarding accumulated state.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = false
}

// Reset returns the session to its initial state: rep count zero, peak
// flag cleared, phase back to ready. The detected active side is kept;
// the user has not changed arms just because they restarted.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repCount = 0
	s.hasReachedPeak = false
	s.lastPhase = PhaseReady
	s.lastRepAt = time.Time{}
	s.badStreak = 0
	s.frameIdx = 0
	s.startedAt = time.Time{}
	s.smooth = s.smooth[:0]
	s.history = nil
}

// Started reports whether the session is actively counting reps.
func (s *Session) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// RepCount returns the current repetition count.
func (s *Session) RepCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repCount
}

// ActiveSide returns the currently detected active side.
func (s *Session) ActiveSide() pose.Side {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeSide
}

// History returns a copy of the session's angle timeline.
func (s *Session) History() []AngleSample {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]AngleSample, len(s.history))
	copy(out, s.history)
	return out
}

// Analyze threads one frame through the pipeline: active-side detection,
// index resolution, angle computation, phase classification, rep
// counting and form checks. It always returns a well-formed Result; all
// per-frame failures degrade the result instead of erroring.
func (s *Session) Analyze(frame pose.Frame) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.frameIdx++

	// Side detection runs even while stopped or badly tracked so the
	// display keeps following the user.
	s.activeSide = DetectActiveSide(s.cfg, s.Exercise.Limb, frame, s.activeSide)

	pts := pose.ResolveIndices(s.Exercise.PrimaryAngle.Points[:], s.activeSide)
	a, ok1 := frame.At(pts[0], s.cfg.MinVisibility)
	vertex, ok2 := frame.At(pts[1], s.cfg.MinVisibility)
	b, ok3 := frame.At(pts[2], s.cfg.MinVisibility)
	if !ok1 || !ok2 || !ok3 {
		// Insufficient tracking: report it and leave the session state
		// alone so a flickering estimator cannot reset a rep cycle.
		s.badStreak++
		msg := "Insufficient tracking"
		if s.badStreak >= s.cfg.BadFrameNotice {
			msg = "Move fully into the camera frame"
		}
		return Result{
			ActiveSide: s.activeSide,
			Phase:      s.lastPhase,
			RepCount:   s.repCount,
			Message:    msg,
			Timestamp:  now,
		}
	}
	s.badStreak = 0

	angle := s.smoothed(Angle(a, vertex, b))
	basePhase := ClassifyPhase(s.Exercise, angle)

	if !s.started {
		// Feedback-only frame: show the live reading but apply no state
		// transitions and count nothing.
		return Result{
			Angle:        angle,
			AngleDegrees: roundDegrees(angle),
			ActiveSide:   s.activeSide,
			Phase:        basePhase,
			RepCount:     s.repCount,
			Message:      "Press start to begin counting",
			Tracking:     true,
			Timestamp:    now,
		}
	}

	// Rep state machine. A rep counts exactly once per cycle: the first
	// peak frame arms the cooling flag, and only a return to the ready
	// range re-arms the counter.
	repCounted := false
	switch basePhase {
	case PhasePeak:
		if !s.hasReachedPeak {
			if s.lastRepAt.IsZero() || now.Sub(s.lastRepAt) > s.cfg.RepDebounce {
				s.repCount++
				s.lastRepAt = now
				repCounted = true
			}
			s.hasReachedPeak = true
		}
	case PhaseReady:
		s.hasReachedPeak = false
	}

	phase := basePhase
	if basePhase == PhaseMoving && s.hasReachedPeak {
		phase = PhaseReturning
	}

	// Form is judged only during movement; the configured rules describe
	// movement-time technique errors.
	var formOK *bool
	var message string
	if basePhase == PhaseMoving {
		ok, failMsg := EvaluateFormChecks(s.cfg, s.Exercise, frame, s.activeSide)
		formOK = &ok
		message = failMsg
	} else {
		ok := true
		formOK = &ok
	}
	if message == "" {
		message = s.guidance(phase, repCounted)
	}

	s.lastPhase = phase
	s.history = append(s.history, AngleSample{
		FrameIdx: s.frameIdx,
		At:       now,
		Angle:    angle,
		Phase:    phase,
	})
	if len(s.history) > MaxAngleHistory {
		s.history = s.history[len(s.history)-MaxAngleHistory:]
	}

	return Result{
		Angle:        angle,
		AngleDegrees: roundDegrees(angle),
		ActiveSide:   s.activeSide,
		Phase:        phase,
		RepCount:     s.repCount,
		RepCounted:   repCounted,
		FormOK:       formOK,
		Message:      message,
		Tracking:     true,
		Timestamp:    now,
	}
}

// smoothed pushes a raw angle into the moving-average window and returns
// the damped value. A window of 1 passes angles through untouched.
func (s *Session) smoothed(raw float64) float64 {
	if s.cfg.SmoothingWindow <= 1 {
		return raw
	}
	s.smooth = append(s.smooth, raw)
	if len(s.smooth) > s.cfg.SmoothingWindow {
		s.smooth = s.smooth[1:]
	}
	var sum float64
	for _, v := range s.smooth {
		sum += v
	}
	return sum / float64(len(s.smooth))
}

// guidance produces the phase-appropriate coaching message shown when no
// form rule has failed.
func (s *Session) guidance(phase Phase, repCounted bool) string {
	if repCounted {
		return fmt.Sprintf("Rep %d complete", s.repCount)
	}
	switch phase {
	case PhasePeak:
		return "Hold the position"
	case PhaseReturning:
		return "Return to the starting position with control"
	case PhaseMoving:
		return "Keep going"
	default:
		return "In position, begin when ready"
	}
}

func roundDegrees(angle float64) int {
	return int(angle + 0.5)
}
