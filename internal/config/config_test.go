package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(newFlags(t, "--state-dir", dir))
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.StateDir)
	assert.Equal(t, DefaultPlan, cfg.Plan)
	assert.Equal(t, 0, cfg.Rounds)
	assert.False(t, cfg.HasRestOverride())
	assert.Equal(t, 185, cfg.MaxHeartRate)
	assert.Equal(t, MonitorNone, cfg.HeartRateMonitor)
	assert.Equal(t, filepath.Join(dir, "history.db"), cfg.HistoryDB)
	assert.Equal(t, filepath.Join(dir, "hiit-timer.log"), cfg.LogFile)
}

func TestLoad_ConfigFileEnvAndFlagPrecedence(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(
		"rounds: 4\nrest: 20\nplan: core-crusher\nmax-heart-rate: 170\n"), 0644))
	t.Setenv("HIIT_REST", "25")
	t.Setenv("HIIT_HEART_RATE_MONITOR", "MOCK")

	cfg, err := Load(newFlags(t, "--state-dir", dir, "--rounds", "6"))
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.Rounds, "flag beats file")
	assert.Equal(t, 25, cfg.RestSeconds, "env beats file")
	assert.True(t, cfg.HasRestOverride())
	assert.Equal(t, "core-crusher", cfg.Plan)
	assert.Equal(t, 170, cfg.MaxHeartRate)
	assert.Equal(t, MonitorMock, cfg.HeartRateMonitor)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(newFlags(t, "--state-dir", dir, "--rounds", "11"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Load(newFlags(t, "--state-dir", dir, "--rest", "90"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Load(newFlags(t, "--state-dir", dir, "--heart-rate-monitor", "ant+"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Load(newFlags(t, "--state-dir", dir, "--max-heart-rate", "20"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_MalformedConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("rounds: [\n"), 0644))

	_, err := Load(newFlags(t, "--state-dir", dir))
	assert.Error(t, err)
}
