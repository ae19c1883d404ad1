package trainer

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowaak/smart-trainer/hiit-timer-app/internal/workout"
)

func TestNewUIModel_PanicsWithoutDependencies(t *testing.T) {
	assert.PanicsWithValue(t, "UIModel: logger cannot be nil", func() {
		NewUIModel(NewUIModelArg{Plans: testPlans()})
	})
	assert.PanicsWithValue(t, "UIModel: plans cannot be empty", func() {
		NewUIModel(NewUIModelArg{Logger: discardLogger()})
	})
}

func TestUIModel_StartsOnHomeWithFirstPlan(t *testing.T) {
	m := newTestModel(t, "")

	assert.Equal(t, UIModeHome, m.GetUIState().Mode)
	setup := m.GetSetup()
	assert.Equal(t, "sprint", setup.Template.ID)
	assert.Equal(t, 1, setup.Rounds)
	assert.Equal(t, 0, setup.RestSeconds)
	assert.False(t, m.GetSession().Active)
}

func TestUIModel_SetModeNotifiesOnlyOnChange(t *testing.T) {
	m := newTestModel(t, "")

	ch := make(chan UIState, 4)
	unregister := m.ListenToUIState(ch)
	defer unregister()

	m.SetMode(UIModeConfigure)
	m.SetMode(UIModeConfigure)
	m.SetMode(UIModeTimer)

	assert.Equal(t, UIModeConfigure, (<-ch).Mode)
	assert.Equal(t, UIModeTimer, (<-ch).Mode)
	assert.Empty(t, ch)
}

func TestUIModel_SetupIsRememberedAcrossRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	m := newTestModel(t, path)

	setup := m.defaultSetup(1)
	setup.Rounds = 5
	setup.RestSeconds = 0
	m.SetSetup(setup)
	m.SetMuted(true)

	reloaded := newTestModel(t, path)
	prefs := reloaded.Preferences()
	assert.Equal(t, "ladder", prefs.LastPlanID)
	assert.Equal(t, 5, prefs.Rounds)
	require.NotNil(t, prefs.RestSeconds)
	assert.Equal(t, 0, *prefs.RestSeconds)
	assert.True(t, prefs.Muted)
}

func TestWorkoutSetup_PlanUsesChosenRoundsAndRest(t *testing.T) {
	m := newTestModel(t, "")
	setup := m.defaultSetup(1)
	setup.Rounds = 2
	setup.RestSeconds = 10

	plan := setup.Plan()
	assert.Equal(t, "Ladder", plan.Name)
	assert.Equal(t, 2, plan.TotalRounds)
	assert.Equal(t, 10, plan.RestSeconds)
	assert.Len(t, plan.Exercises, 2)
}

func TestUIModel_PlanIndexByID(t *testing.T) {
	m := newTestModel(t, "")

	i, ok := m.PlanIndexByID("ladder")
	assert.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = m.PlanIndexByID("missing")
	assert.False(t, ok)
}

func TestUIModel_CurrentWorkZone(t *testing.T) {
	m := newTestModel(t, "")
	assert.Equal(t, 1, m.CurrentWorkZone(), "no session")

	snap := workout.Snapshot{State: workout.SessionState{HeartRateZone: 4}}
	m.SetSession(snap)
	assert.Equal(t, 1, m.CurrentWorkZone(), "paused")

	snap.State.IsRunning = true
	m.SetSession(snap)
	assert.Equal(t, 4, m.CurrentWorkZone())
}

func TestUIModel_PublishCueNumbersCues(t *testing.T) {
	m := newTestModel(t, "")

	ch := make(chan Cue, 4)
	unregister := m.ListenToCue(ch)
	defer unregister()

	snap := workout.Snapshot{State: workout.SessionState{Phase: workout.PhaseWork, TimeLeftSeconds: 3}}
	m.PublishCue(workout.Notification{Kind: workout.NotificationCountdown, Snapshot: snap})
	m.PublishCue(workout.Notification{Kind: workout.NotificationCountdown, Snapshot: snap})

	first, second := <-ch, <-ch
	assert.Equal(t, workout.NotificationCountdown, first.Kind)
	assert.Equal(t, 3, first.TimeLeftSeconds)
	assert.Equal(t, workout.PhaseWork, first.Phase)
	assert.Less(t, first.Seq, second.Seq)
}

func TestUIModel_LogTail(t *testing.T) {
	lines := make(chan string, 4)
	m := NewUIModel(NewUIModelArg{
		Plans:    testPlans(),
		Logger:   discardLogger(),
		LogLines: lines,
	})
	defer m.Shutdown()

	lines <- "one"
	lines <- "two"
	lines <- "three"

	assert.Eventually(t, func() bool {
		return len(m.GetLogTail(10)) == 3
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"two", "three"}, m.GetLogTail(2))
	assert.Empty(t, m.GetLogTail(0))
}
