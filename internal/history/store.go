// Package history stores finished and abandoned workouts in SQLite.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lowaak/smart-trainer/hiit-timer-app/internal/workout"
)

var ErrNotFound = errors.New("not found")

// Record is one played workout.
type Record struct {
	ID                 string
	PlanName           string
	StartedAt          time.Time
	EndedAt            time.Time
	Completed          bool
	TotalRounds        int
	RoundsReached      int
	ExercisesCompleted int
	TotalExercises     int
	ElapsedSeconds     int
	Calories           float64
}

// Totals aggregates all stored records.
type Totals struct {
	Sessions       int
	Completed      int
	ElapsedSeconds int
	Calories       float64
}

// Store is the persistence interface used by the app.
type Store interface {
	Create(ctx context.Context, r *Record) error
	Get(ctx context.Context, id string) (*Record, error)
	ListRecent(ctx context.Context, limit int) ([]*Record, error)
	Totals(ctx context.Context) (Totals, error)
}

// RecordFromSnapshot builds a record for a session that ended at endedAt.
func RecordFromSnapshot(snap workout.Snapshot, endedAt time.Time) *Record {
	startedAt := snap.State.StartedAt
	if startedAt.IsZero() {
		startedAt = endedAt
	}
	return &Record{
		PlanName:           snap.PlanName,
		StartedAt:          startedAt,
		EndedAt:            endedAt,
		Completed:          snap.State.Phase == workout.PhaseComplete,
		TotalRounds:        snap.TotalRounds,
		RoundsReached:      snap.State.CurrentRound,
		ExercisesCompleted: snap.CompletedExercises,
		TotalExercises:     snap.TotalExercises,
		ElapsedSeconds:     snap.State.ElapsedSeconds,
		Calories:           snap.State.CaloriesBurned,
	}
}

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Create inserts r, assigning an ID when it has none.
func (s *SQLiteStore) Create(ctx context.Context, r *Record) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, plan_name, started_at, ended_at, completed, total_rounds,
		 rounds_reached, exercises_completed, total_exercises, elapsed_seconds, calories)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.PlanName,
		r.StartedAt.UTC().Format(time.RFC3339), r.EndedAt.UTC().Format(time.RFC3339),
		boolToInt(r.Completed), r.TotalRounds, r.RoundsReached,
		r.ExercisesCompleted, r.TotalExercises, r.ElapsedSeconds, r.Calories,
	)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting session: %w", err)
	}
	return r, nil
}

// ListRecent returns up to limit records, newest first.
func (s *SQLiteStore) ListRecent(ctx context.Context, limit int) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *SQLiteStore) Totals(ctx context.Context) (Totals, error) {
	var t Totals
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(completed), 0), COALESCE(SUM(elapsed_seconds), 0), COALESCE(SUM(calories), 0)
		 FROM sessions`,
	).Scan(&t.Sessions, &t.Completed, &t.ElapsedSeconds, &t.Calories)
	if err != nil {
		return Totals{}, fmt.Errorf("summing sessions: %w", err)
	}
	return t, nil
}

const selectColumns = `SELECT id, plan_name, started_at, ended_at, completed, total_rounds,
	rounds_reached, exercises_completed, total_exercises, elapsed_seconds, calories FROM sessions`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var (
		r                  Record
		startedAt, endedAt string
		completed          int
	)
	err := row.Scan(&r.ID, &r.PlanName, &startedAt, &endedAt, &completed, &r.TotalRounds,
		&r.RoundsReached, &r.ExercisesCompleted, &r.TotalExercises, &r.ElapsedSeconds, &r.Calories)
	if err != nil {
		return nil, err
	}
	if r.StartedAt, err = time.Parse(time.RFC3339, startedAt); err != nil {
		return nil, fmt.Errorf("parsing started_at: %w", err)
	}
	if r.EndedAt, err = time.Parse(time.RFC3339, endedAt); err != nil {
		return nil, fmt.Errorf("parsing ended_at: %w", err)
	}
	r.Completed = completed != 0
	return &r, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
