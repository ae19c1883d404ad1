package workout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func firstMessage(int) int { return 0 }

func newTestSession(t *testing.T, plan Plan, opts ...SessionOption) *Session {
	t.Helper()
	opts = append([]SessionOption{WithMessagePicker(firstMessage)}, opts...)
	s, err := NewSession(plan, opts...)
	require.NoError(t, err)
	return s
}

func startedSession(t *testing.T, plan Plan, opts ...SessionOption) *Session {
	t.Helper()
	s := newTestSession(t, plan, opts...)
	require.True(t, s.ToggleRunning(time.Now()))
	return s
}

func tickN(s *Session, n int) {
	for i := 0; i < n; i++ {
		s.Tick()
	}
}

type position struct {
	phase Phase
	index int
	round int
}

func positionOf(s *Session) position {
	st := s.State()
	return position{st.Phase, st.CurrentExerciseIndex, st.CurrentRound}
}

func TestNewSession_InitialState(t *testing.T) {
	s := newTestSession(t, scenarioPlan())
	st := s.State()

	assert.Equal(t, 0, st.CurrentExerciseIndex)
	assert.Equal(t, 1, st.CurrentRound)
	assert.Equal(t, PhaseWork, st.Phase)
	assert.Equal(t, 45, st.TimeLeftSeconds)
	assert.False(t, st.IsRunning)
	assert.Zero(t, st.CaloriesBurned)
	assert.Equal(t, DefaultHeartRateZone, st.HeartRateZone)
	assert.True(t, st.StartedAt.IsZero())
	assert.Equal(t, motivationalMessages[0], st.Message)
	assert.False(t, s.Muted())
}

func TestNewSession_RejectsInvalidPlan(t *testing.T) {
	p := scenarioPlan()
	p.TotalRounds = 0

	s, err := NewSession(p)
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrInvalidRounds)
}

func TestNewSession_CopiesExercises(t *testing.T) {
	p := scenarioPlan()
	s := newTestSession(t, p)
	p.Exercises[0].DurationSeconds = 1

	assert.Equal(t, 45, s.CurrentExercise().DurationSeconds)
}

func TestSession_TickIgnoredWhilePaused(t *testing.T) {
	s := newTestSession(t, scenarioPlan())
	before := s.State()

	res := s.Tick()
	assert.False(t, res.Ticked)
	assert.Equal(t, before, s.State())
}

func TestSession_ScenarioTrace(t *testing.T) {
	s := startedSession(t, scenarioPlan())
	total := 0

	tickN(s, 45)
	total += 45
	assert.Equal(t, position{PhaseRest, 0, 1}, positionOf(s))
	assert.Equal(t, 15, s.State().TimeLeftSeconds)

	tickN(s, 15)
	total += 15
	assert.Equal(t, position{PhaseWork, 1, 1}, positionOf(s))
	assert.Equal(t, 30, s.State().TimeLeftSeconds)

	tickN(s, 30)
	total += 30
	assert.Equal(t, position{PhaseRest, 1, 1}, positionOf(s), "round 1 < 2, so rest before the next round")

	tickN(s, 15)
	total += 15
	assert.Equal(t, position{PhaseWork, 0, 2}, positionOf(s))
	assert.Equal(t, 45, s.State().TimeLeftSeconds)

	for s.State().Phase != PhaseComplete {
		require.True(t, s.Tick().Ticked)
		total++
		require.LessOrEqual(t, total, 500)
	}

	assert.Equal(t, 195, total)
	assert.Equal(t, scenarioPlan().TotalSeconds(), total)
	assert.Equal(t, 100.0, s.ProgressPercent())
	assert.Equal(t, 4, s.CompletedExercises())
	assert.Equal(t, 0, s.RemainingSeconds())
	assert.False(t, s.State().IsRunning)
	assert.Equal(t, 195, s.State().ElapsedSeconds)
	assert.InDelta(t, 2*(45*0.25+30*0.10), s.State().CaloriesBurned, 1e-9)
}

func TestSession_CaloriesAccrueOnlyInWork(t *testing.T) {
	s := startedSession(t, scenarioPlan())

	tickN(s, 10)
	assert.InDelta(t, 10*0.25, s.State().CaloriesBurned, 1e-9)

	tickN(s, 35)
	require.Equal(t, PhaseRest, s.State().Phase)
	atRestStart := s.State().CaloriesBurned

	tickN(s, 14)
	assert.Equal(t, atRestStart, s.State().CaloriesBurned)
}

func TestSession_HeartRateZone(t *testing.T) {
	s := startedSession(t, scenarioPlan())
	assert.Equal(t, 3, s.State().HeartRateZone)

	s.Tick()
	assert.Equal(t, 4, s.State().HeartRateZone, "A costs 0.25/s")

	tickN(s, 44)
	require.Equal(t, PhaseRest, s.State().Phase)
	assert.Equal(t, RecoveryHeartRateZone, s.State().HeartRateZone)

	tickN(s, 16)
	require.Equal(t, PhaseWork, s.State().Phase)
	assert.Equal(t, 2, s.State().HeartRateZone, "B costs 0.10/s")
}

func TestZoneForEnergyCost(t *testing.T) {
	assert.Equal(t, 4, ZoneForEnergyCost(0.21))
	assert.Equal(t, 3, ZoneForEnergyCost(0.20))
	assert.Equal(t, 3, ZoneForEnergyCost(0.16))
	assert.Equal(t, 2, ZoneForEnergyCost(0.15))
	assert.Equal(t, 2, ZoneForEnergyCost(0.01))
}

func TestSession_Countdown(t *testing.T) {
	s := startedSession(t, Plan{Name: "cd", Exercises: []ExerciseDefinition{ex("A", 5, 0.1)}, TotalRounds: 2, RestSeconds: 5})

	var flags []bool
	for i := 0; i < 5; i++ {
		flags = append(flags, s.Tick().Countdown)
	}
	assert.Equal(t, []bool{false, true, true, true, false}, flags)
	assert.Equal(t, PhaseRest, s.State().Phase)

	s.ToggleMute()
	for i := 0; i < 4; i++ {
		assert.False(t, s.Tick().Countdown)
	}
}

func TestSession_CountdownOnEntryToShortPhase(t *testing.T) {
	s := startedSession(t, Plan{Name: "short", Exercises: []ExerciseDefinition{ex("A", 5, 0.1), ex("B", 3, 0.1)}, TotalRounds: 1, RestSeconds: 2})

	var flags []bool
	for i := 0; i < 10; i++ {
		flags = append(flags, s.Tick().Countdown)
	}
	// A: 4..1 then REST(2) starts at 2; REST ends into B which starts at 3.
	assert.Equal(t, []bool{false, true, true, true, true, true, true, true, true, false}, flags)
	assert.Equal(t, PhaseComplete, s.State().Phase)

	s.Stop()
	s.ToggleRunning(time.Now())
	res := s.Skip()
	assert.True(t, res.Transitioned)
	assert.True(t, res.Countdown)
	assert.Equal(t, PhaseRest, res.To)
}

func TestSession_ToggleRunning(t *testing.T) {
	s := newTestSession(t, scenarioPlan())
	t0 := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	assert.True(t, s.ToggleRunning(t0))
	assert.Equal(t, t0, s.State().StartedAt)

	assert.False(t, s.ToggleRunning(t0.Add(time.Minute)))
	assert.True(t, s.ToggleRunning(t0.Add(2*time.Minute)))
	assert.Equal(t, t0, s.State().StartedAt, "StartedAt is only recorded on the first start")
}

func TestSession_ToggleRunningNoOpWhenComplete(t *testing.T) {
	s := startedSession(t, Plan{Name: "one", Exercises: []ExerciseDefinition{ex("A", 2, 0.1)}, TotalRounds: 1})
	tickN(s, 2)
	require.Equal(t, PhaseComplete, s.State().Phase)

	assert.False(t, s.ToggleRunning(time.Now()))
	assert.False(t, s.State().IsRunning)
}

func TestSession_SkipMatchesFastForward(t *testing.T) {
	plan := scenarioPlan()
	for steps := 0; steps < 6; steps++ {
		skipped := startedSession(t, plan)
		played := startedSession(t, plan)

		for i := 0; i < steps; i++ {
			skipped.Skip()
			for before := positionOf(played); positionOf(played) == before; {
				played.Tick()
			}
		}
		assert.Equal(t, positionOf(played), positionOf(skipped), "after %d transitions", steps)
	}
}

func TestSession_SkipEarnsNoCalories(t *testing.T) {
	s := startedSession(t, scenarioPlan())
	tickN(s, 5)
	burned := s.State().CaloriesBurned

	res := s.Skip()
	assert.True(t, res.Transitioned)
	assert.Equal(t, PhaseWork, res.From)
	assert.Equal(t, PhaseRest, res.To)
	assert.Equal(t, burned, s.State().CaloriesBurned)
}

func TestSession_SkipWhilePausedStaysPaused(t *testing.T) {
	s := newTestSession(t, scenarioPlan())
	s.Skip()
	assert.Equal(t, PhaseRest, s.State().Phase)
	assert.False(t, s.State().IsRunning)
}

func TestSession_SkipToCompletion(t *testing.T) {
	s := startedSession(t, scenarioPlan())
	for i := 0; i < 7; i++ {
		s.Skip()
	}
	assert.Equal(t, PhaseComplete, s.State().Phase)
	assert.False(t, s.State().IsRunning)
	assert.Equal(t, 0, s.State().TimeLeftSeconds)

	frozen := s.State()
	res := s.Skip()
	assert.False(t, res.Transitioned)
	assert.False(t, s.Tick().Ticked)
	assert.Equal(t, frozen, s.State())
}

func TestSession_NoRestAfterFinalExercise(t *testing.T) {
	s := startedSession(t, scenarioPlan())
	for i := 0; i < 6; i++ {
		s.Skip()
	}
	require.Equal(t, position{PhaseWork, 1, 2}, positionOf(s))

	tickN(s, 30)
	assert.Equal(t, PhaseComplete, s.State().Phase)
}

func TestSession_ZeroRestGoesStraightToNextExercise(t *testing.T) {
	p := scenarioPlan()
	p.RestSeconds = 0
	s := startedSession(t, p)

	tickN(s, 45)
	assert.Equal(t, position{PhaseWork, 1, 1}, positionOf(s))
	assert.Equal(t, 30, s.State().TimeLeftSeconds)

	tickN(s, 30)
	assert.Equal(t, position{PhaseWork, 0, 2}, positionOf(s))

	tickN(s, 75)
	assert.Equal(t, PhaseComplete, s.State().Phase)
	assert.Equal(t, 150, s.State().ElapsedSeconds)
}

func TestSession_StopRestoresInitialState(t *testing.T) {
	s := newTestSession(t, scenarioPlan())
	initial := s.State()

	s.ToggleRunning(time.Now())
	tickN(s, 70)
	s.Skip()
	s.ToggleMute()
	s.Stop()

	assert.Equal(t, initial, s.State())
	assert.True(t, s.Muted(), "stop leaves the mute flag alone")

	tickN(s, 3)
	assert.Equal(t, initial, s.State(), "stopped session does not tick")
}

func TestSession_StopAfterComplete(t *testing.T) {
	s := startedSession(t, Plan{Name: "one", Exercises: []ExerciseDefinition{ex("A", 3, 0.1)}, TotalRounds: 1})
	tickN(s, 3)
	require.Equal(t, PhaseComplete, s.State().Phase)

	s.Stop()
	assert.Equal(t, PhaseWork, s.State().Phase)
	assert.Equal(t, 3, s.State().TimeLeftSeconds)
}

func TestSession_ToggleMuteOnlyFlipsFlag(t *testing.T) {
	s := startedSession(t, scenarioPlan())
	tickN(s, 4)
	before := s.State()

	assert.True(t, s.ToggleMute())
	assert.Equal(t, before, s.State())
	assert.False(t, s.ToggleMute())
}

func TestSession_NextExercise(t *testing.T) {
	s := startedSession(t, scenarioPlan())

	next, ok := s.NextExercise()
	require.True(t, ok)
	assert.Equal(t, "B", next.Name)

	s.Skip()
	next, ok = s.NextExercise()
	require.True(t, ok)
	assert.Equal(t, "B", next.Name, "rest leads into B")

	for i := 0; i < 5; i++ {
		s.Skip()
	}
	require.Equal(t, position{PhaseWork, 1, 2}, positionOf(s))
	_, ok = s.NextExercise()
	assert.False(t, ok)
}

func TestSession_SingleExerciseSingleRound(t *testing.T) {
	s := startedSession(t, Plan{Name: "one", Exercises: []ExerciseDefinition{ex("A", 10, 0.3)}, TotalRounds: 1, RestSeconds: 30})

	tickN(s, 9)
	assert.Equal(t, PhaseWork, s.State().Phase)
	res := s.Tick()
	assert.True(t, res.Completed)
	assert.Equal(t, PhaseComplete, s.State().Phase)
	assert.InDelta(t, 3.0, s.State().CaloriesBurned, 1e-9)
}
