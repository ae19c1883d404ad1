package workout

import "fmt"

// CompletedExercises counts WORK intervals already finished. It equals
// TotalExercises once the session is complete.
func (s *Session) CompletedExercises() int {
	if s.state.Phase == PhaseComplete {
		return s.plan.TotalExercises()
	}
	return s.linearIndex()
}

// ProgressPercent is the share of exercises completed, in [0, 100].
func (s *Session) ProgressPercent() float64 {
	total := s.plan.TotalExercises()
	if total == 0 {
		return 0
	}
	p := 100 * float64(s.CompletedExercises()) / float64(total)
	return min(max(p, 0), 100)
}

// RemainingSeconds is the number of ticks left until the workout completes:
// the current phase, every exercise not yet started, and the rest in front
// of each of those exercises. A REST in progress is already covered by
// TimeLeftSeconds.
//
// The rest between the last exercise of a round and the first of the next
// is counted as well, since the session plays it. A per-round sum of
// exercises plus (count-1) rests would undercount by one rest per round
// boundary: the A:45/B:30, 2 rounds, 15 s rest plan starts at 195, not 180.
// The value therefore drops by exactly one on every tick.
func (s *Session) RemainingSeconds() int {
	if s.state.Phase == PhaseComplete {
		return 0
	}

	n := s.plan.ExerciseCount()
	remaining := s.state.TimeLeftSeconds
	rests := 0
	for i := s.linearIndex() + 1; i < s.plan.TotalExercises(); i++ {
		remaining += s.plan.Exercises[i%n].DurationSeconds
		rests++
	}
	if s.state.Phase == PhaseRest {
		rests--
	}
	return remaining + rests*s.plan.RestSeconds
}

// StatusMessage is the line shown under the timer.
func (s *Session) StatusMessage() string {
	if s.state.Phase == PhaseComplete {
		return completeMessage
	}
	switch p := s.ProgressPercent(); {
	case p >= 90:
		return finalPushMessage
	case p >= 80:
		return almostMessage
	case p >= 50:
		return halfwayMessage
	default:
		return s.state.Message
	}
}

// FormatTime renders seconds as m:ss.
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
