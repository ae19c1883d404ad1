package trainer

import (
	"context"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/lowaak/smart-trainer/hiit-timer-app/internal/history"
	"github.com/lowaak/smart-trainer/hiit-timer-app/internal/workout"
)

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func testPlans() []workout.PlanTemplate {
	return []workout.PlanTemplate{
		{
			ID:   "sprint",
			Name: "Sprint",
			Exercises: []workout.ExerciseDefinition{
				{ID: "a", Name: "A", DurationSeconds: 10, MuscleGroup: "Legs", EnergyCostPerSecond: 0.2},
			},
			DefaultRounds:      1,
			DefaultRestSeconds: 0,
		},
		{
			ID:   "ladder",
			Name: "Ladder",
			Exercises: []workout.ExerciseDefinition{
				{ID: "a", Name: "A", DurationSeconds: 20, MuscleGroup: "Legs", EnergyCostPerSecond: 0.25},
				{ID: "b", Name: "B", DurationSeconds: 20, MuscleGroup: "Core", EnergyCostPerSecond: 0.1},
			},
			DefaultRounds:      3,
			DefaultRestSeconds: 15,
		},
	}
}

func newTestModel(t *testing.T, prefsPath string) *UIModel {
	t.Helper()
	m := NewUIModel(NewUIModelArg{
		Plans:           testPlans(),
		PreferencesPath: prefsPath,
		Logger:          discardLogger(),
	})
	t.Cleanup(m.Shutdown)
	return m
}

// manualClock hands out tickers that all share one unbuffered channel, so a
// send only succeeds while the runner is armed.
type manualClock struct {
	now time.Time
	c   chan time.Time
}

func newManualClock() *manualClock {
	return &manualClock{
		now: time.Date(2026, 3, 1, 7, 0, 0, 0, time.UTC),
		c:   make(chan time.Time),
	}
}

func (m *manualClock) Now() time.Time { return m.now }

func (m *manualClock) NewTicker(time.Duration) workout.Ticker { return manualTicker{c: m.c} }

type manualTicker struct{ c chan time.Time }

func (t manualTicker) C() <-chan time.Time { return t.c }
func (manualTicker) Stop()                 {}

type mockStore struct {
	mock.Mock
	mu      sync.Mutex
	created []*history.Record
}

func (m *mockStore) Create(ctx context.Context, r *history.Record) error {
	args := m.Called(ctx, r)
	m.mu.Lock()
	m.created = append(m.created, r)
	m.mu.Unlock()
	return args.Error(0)
}

func (m *mockStore) Get(ctx context.Context, id string) (*history.Record, error) {
	args := m.Called(ctx, id)
	rec, _ := args.Get(0).(*history.Record)
	return rec, args.Error(1)
}

func (m *mockStore) ListRecent(ctx context.Context, limit int) ([]*history.Record, error) {
	args := m.Called(ctx, limit)
	recs, _ := args.Get(0).([]*history.Record)
	return recs, args.Error(1)
}

func (m *mockStore) Totals(ctx context.Context) (history.Totals, error) {
	args := m.Called(ctx)
	return args.Get(0).(history.Totals), args.Error(1)
}

func (m *mockStore) records() []*history.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*history.Record(nil), m.created...)
}

// newEmptyStore answers history reads with nothing.
func newEmptyStore() *mockStore {
	s := &mockStore{}
	s.On("ListRecent", mock.Anything, recentHistoryLimit).Return([]*history.Record(nil), nil).Maybe()
	s.On("Totals", mock.Anything).Return(history.Totals{}, nil).Maybe()
	return s
}
