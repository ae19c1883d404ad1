package workout

import (
	"fmt"
	"time"
)

// SessionState is the live state of one workout.
type SessionState struct {
	CurrentExerciseIndex int
	CurrentRound         int
	Phase                Phase
	TimeLeftSeconds      int
	IsRunning            bool
	CaloriesBurned       float64
	HeartRateZone        int
	StartedAt            time.Time // zero until the session is first started
	ElapsedSeconds       int
	Message              string
}

// TickResult describes what a tick or a skip did to the session.
type TickResult struct {
	Ticked       bool // a running second was consumed
	Countdown    bool // 1 to 3 seconds left in the phase and not muted
	Transitioned bool
	From         Phase
	To           Phase
	Completed    bool
}

// Session is the workout state machine. It is not safe for concurrent use;
// Runner serializes access to it.
type Session struct {
	plan  Plan
	state SessionState
	muted bool
	pick  MessagePicker
}

type SessionOption func(*Session)

// WithMessagePicker replaces the random choice of motivational message.
func WithMessagePicker(pick MessagePicker) SessionOption {
	return func(s *Session) {
		if pick != nil {
			s.pick = pick
		}
	}
}

// WithMuted sets the initial mute flag.
func WithMuted(muted bool) SessionOption {
	return func(s *Session) {
		s.muted = muted
	}
}

// NewSession validates plan and returns a session positioned at the first
// exercise of round one, paused.
func NewSession(plan Plan, opts ...SessionOption) (*Session, error) {
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("creating session for %q: %w", plan.Name, err)
	}

	exercises := make([]ExerciseDefinition, len(plan.Exercises))
	copy(exercises, plan.Exercises)
	plan.Exercises = exercises

	s := &Session{
		plan: plan,
		pick: randomPicker,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.reset()
	return s, nil
}

func (s *Session) reset() {
	s.state = SessionState{
		CurrentExerciseIndex: 0,
		CurrentRound:         1,
		Phase:                PhaseWork,
		TimeLeftSeconds:      s.plan.Exercises[0].DurationSeconds,
		HeartRateZone:        DefaultHeartRateZone,
		Message:              s.pickMessage(),
	}
}

func (s *Session) pickMessage() string {
	return motivationalMessages[s.pick(len(motivationalMessages))]
}

func (s *Session) Plan() Plan {
	return s.plan
}

func (s *Session) State() SessionState {
	return s.state
}

func (s *Session) Muted() bool {
	return s.muted
}

// CurrentExercise returns the exercise at the current index. During REST
// this is the exercise that just finished.
func (s *Session) CurrentExercise() ExerciseDefinition {
	return s.plan.Exercises[s.state.CurrentExerciseIndex]
}

// NextExercise returns the exercise that will be played after the current
// WORK interval, or the one the current REST leads into.
func (s *Session) NextExercise() (ExerciseDefinition, bool) {
	if s.state.Phase == PhaseComplete {
		return ExerciseDefinition{}, false
	}
	next := s.linearIndex() + 1
	if next >= s.plan.TotalExercises() {
		return ExerciseDefinition{}, false
	}
	return s.plan.Exercises[next%s.plan.ExerciseCount()], true
}

// Tick consumes one second. It does nothing unless the session is running
// and not complete.
func (s *Session) Tick() TickResult {
	st := &s.state
	if !st.IsRunning || st.Phase == PhaseComplete {
		return TickResult{}
	}

	if st.Phase == PhaseWork {
		cost := s.CurrentExercise().EnergyCostPerSecond
		st.CaloriesBurned += cost
		st.HeartRateZone = ZoneForEnergyCost(cost)
	}

	st.TimeLeftSeconds--
	st.ElapsedSeconds++

	res := TickResult{Ticked: true, From: st.Phase, To: st.Phase}
	if st.TimeLeftSeconds <= 0 {
		s.advance(&res)
		return res
	}
	res.Countdown = s.CountdownDue()
	return res
}

// CountdownDue reports whether the current second is one of the last three
// of a phase and cues are not muted.
func (s *Session) CountdownDue() bool {
	st := s.state
	return !s.muted && st.Phase != PhaseComplete && st.TimeLeftSeconds >= 1 && st.TimeLeftSeconds <= 3
}

// ToggleRunning starts or pauses the session and returns the new running
// state. The first start records StartedAt. A complete session stays stopped.
func (s *Session) ToggleRunning(now time.Time) bool {
	st := &s.state
	if st.Phase == PhaseComplete {
		return false
	}
	if !st.IsRunning && st.StartedAt.IsZero() {
		st.StartedAt = now
	}
	st.IsRunning = !st.IsRunning
	return st.IsRunning
}

// Skip ends the current phase immediately. Skipped WORK seconds earn no
// calories. The running flag is left alone unless the skip completes the
// workout.
func (s *Session) Skip() TickResult {
	if s.state.Phase == PhaseComplete {
		return TickResult{}
	}
	res := TickResult{From: s.state.Phase, To: s.state.Phase}
	s.advance(&res)
	return res
}

// Stop resets the session to its initial state. The mute flag is kept.
func (s *Session) Stop() {
	s.reset()
}

// ToggleMute flips the mute flag and returns the new value.
func (s *Session) ToggleMute() bool {
	s.muted = !s.muted
	return s.muted
}

func (s *Session) advance(res *TickResult) {
	res.Transitioned = true
	res.From = s.state.Phase

	switch s.state.Phase {
	case PhaseWork:
		s.finishWork()
	case PhaseRest:
		s.startNextExercise()
	}

	res.To = s.state.Phase
	res.Completed = s.state.Phase == PhaseComplete
	// A phase of three seconds or less starts inside the countdown.
	res.Countdown = s.CountdownDue()
}

func (s *Session) finishWork() {
	st := &s.state
	if s.plan.TotalExercises()-s.linearIndex() <= 1 {
		st.Phase = PhaseComplete
		st.IsRunning = false
		st.TimeLeftSeconds = 0
		return
	}

	st.Message = s.pickMessage()
	if s.plan.RestSeconds == 0 {
		s.startNextExercise()
		return
	}
	st.Phase = PhaseRest
	st.TimeLeftSeconds = s.plan.RestSeconds
	st.HeartRateZone = RecoveryHeartRateZone
}

func (s *Session) startNextExercise() {
	st := &s.state
	st.CurrentExerciseIndex = (st.CurrentExerciseIndex + 1) % s.plan.ExerciseCount()
	if st.CurrentExerciseIndex == 0 && st.CurrentRound < s.plan.TotalRounds {
		st.CurrentRound++
	}
	st.Phase = PhaseWork
	st.TimeLeftSeconds = s.CurrentExercise().DurationSeconds
}

// linearIndex is the position of the current exercise in the whole workout.
func (s *Session) linearIndex() int {
	return (s.state.CurrentRound-1)*s.plan.ExerciseCount() + s.state.CurrentExerciseIndex
}
