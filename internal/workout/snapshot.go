package workout

// Snapshot is a read-only view of a session for observers. It is a value:
// holding one never races with the engine.
type Snapshot struct {
	PlanName           string
	State              SessionState
	Muted              bool
	CurrentExercise    ExerciseDefinition
	NextExercise       *ExerciseDefinition
	ExerciseCount      int
	TotalRounds        int
	RestSeconds        int
	TotalExercises     int
	CompletedExercises int
	ProgressPercent    float64
	RemainingSeconds   int
	TotalSeconds       int
	StatusMessage      string
}

func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		PlanName:           s.plan.Name,
		State:              s.state,
		Muted:              s.muted,
		CurrentExercise:    s.CurrentExercise(),
		ExerciseCount:      s.plan.ExerciseCount(),
		TotalRounds:        s.plan.TotalRounds,
		RestSeconds:        s.plan.RestSeconds,
		TotalExercises:     s.plan.TotalExercises(),
		CompletedExercises: s.CompletedExercises(),
		ProgressPercent:    s.ProgressPercent(),
		RemainingSeconds:   s.RemainingSeconds(),
		TotalSeconds:       s.plan.TotalSeconds(),
		StatusMessage:      s.StatusMessage(),
	}
	if next, ok := s.NextExercise(); ok {
		snap.NextExercise = &next
	}
	return snap
}

// Started reports whether the session has been started since creation or the
// last stop.
func (s Snapshot) Started() bool {
	return !s.State.StartedAt.IsZero()
}
