package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowaak/smart-trainer/hiit-timer-app/internal/history"
)

// seedHistory writes one stopped workout into a fresh database file.
func seedHistory(t *testing.T, path string) *history.Record {
	t.Helper()
	db, err := history.OpenDB(path)
	require.NoError(t, err)
	defer db.Close()

	started := time.Date(2026, 5, 1, 6, 30, 0, 0, time.UTC)
	r := &history.Record{
		PlanName:           "Cardio Burn",
		StartedAt:          started,
		EndedAt:            started.Add(4 * time.Minute),
		TotalRounds:        3,
		RoundsReached:      2,
		ExercisesCompleted: 4,
		TotalExercises:     9,
		ElapsedSeconds:     245,
		Calories:           41.5,
	}
	require.NoError(t, history.NewSQLiteStore(db).Create(context.Background(), r))
	return r
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestHistoryCmd_ListsAndShowsRecord(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "history.db")
	rec := seedHistory(t, dbPath)

	out, err := runCLI(t, "history", "--state-dir", dir, "--history-db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, rec.ID)
	assert.Contains(t, out, "Cardio Burn")
	assert.Contains(t, out, "1 sessions, 0 completed")

	out, err = runCLI(t, "history", "show", rec.ID, "--state-dir", dir, "--history-db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Cardio Burn")
	assert.Contains(t, out, "stopped")
	assert.Contains(t, out, "4/9")
	assert.Contains(t, out, "4:05")
	assert.Contains(t, out, "41.5 kcal")
}

func TestHistoryCmd_ShowUnknownID(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "history.db")
	seedHistory(t, dbPath)

	_, err := runCLI(t, "history", "show", "missing", "--state-dir", dir, "--history-db", dbPath)
	assert.ErrorIs(t, err, history.ErrNotFound)
}

func TestHistoryCmd_NoDatabaseYet(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLI(t, "history", "show", "anything", "--state-dir", dir, "--history-db", filepath.Join(dir, "none.db"))
	require.NoError(t, err)
	assert.Contains(t, out, "No workouts recorded yet.")
}
