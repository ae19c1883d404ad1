// Package config resolves settings from defaults, an optional config.yaml in
// the state directory, HIIT_* environment variables and command-line flags,
// in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var ErrInvalidConfig = errors.New("invalid config")

// Heart-rate monitor sources.
const (
	MonitorNone = "none"
	MonitorBLE  = "ble"
	MonitorMock = "mock"
)

// Limits offered on the configuration screen.
const (
	MinRounds   = 1
	MaxRounds   = 10
	MinRest     = 0
	MaxRest     = 60
	RestStep    = 5
	DefaultPlan = "full-body-blast"
)

const (
	keyStateDir       = "state-dir"
	keyPlan           = "plan"
	keyRounds         = "rounds"
	keyRest           = "rest"
	keyMuted          = "muted"
	keyMaxHeartRate   = "max-heart-rate"
	keyMonitor        = "heart-rate-monitor"
	keyMockControl    = "mock-control-addr"
	keyHistoryDB      = "history-db"
	keyPlansFile      = "plans-file"
	keyLogFile        = "log-file"
	keyLogMaxSizeMB   = "log-max-size-mb"
	keyLogMaxBackups  = "log-max-backups"
	configFileName    = "config"
	envPrefix         = "HIIT"
	defaultStateDir   = ".hiit-timer"
	defaultMaxHR      = 185
	defaultLogSizeMB  = 5
	defaultLogBackups = 3
)

// Config holds resolved settings. Rounds and RestSeconds of zero mean "use
// the plan's defaults".
type Config struct {
	StateDir         string
	Plan             string
	Rounds           int
	RestSeconds      int
	Muted            bool
	MaxHeartRate     int
	HeartRateMonitor string
	MockControlAddr  string
	HistoryDB        string
	PlansFile        string
	LogFile          string
	LogMaxSizeMB     int
	LogMaxBackups    int
}

// RegisterFlags adds every setting to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(keyStateDir, "", "directory for preferences, history and logs (default ~/"+defaultStateDir+")")
	fs.String(keyPlan, DefaultPlan, "plan to preselect on start")
	fs.Int(keyRounds, 0, "rounds override (0 uses the plan default)")
	fs.Int(keyRest, -1, "rest seconds override (-1 uses the plan default)")
	fs.Bool(keyMuted, false, "start with countdown cues muted")
	fs.Int(keyMaxHeartRate, defaultMaxHR, "maximum heart rate used for zone display")
	fs.String(keyMonitor, MonitorNone, "heart rate monitor: none, ble or mock")
	fs.String(keyMockControl, "", "address for the mock monitor's control API, e.g. localhost:8089")
	fs.String(keyHistoryDB, "", "workout history database (default <state-dir>/history.db)")
	fs.String(keyPlansFile, "", "YAML file with additional plans")
	fs.String(keyLogFile, "", "log file (default <state-dir>/hiit-timer.log)")
	fs.Int(keyLogMaxSizeMB, defaultLogSizeMB, "rotate the log file after this many megabytes")
	fs.Int(keyLogMaxBackups, defaultLogBackups, "number of rotated log files to keep")
}

// Load resolves the configuration. fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault(keyPlan, DefaultPlan)
	v.SetDefault(keyRest, -1)
	v.SetDefault(keyMaxHeartRate, defaultMaxHR)
	v.SetDefault(keyMonitor, MonitorNone)
	v.SetDefault(keyLogMaxSizeMB, defaultLogSizeMB)
	v.SetDefault(keyLogMaxBackups, defaultLogBackups)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("binding flags: %w", err)
		}
	}

	stateDir := v.GetString(keyStateDir)
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("locating home directory: %w", err)
		}
		stateDir = filepath.Join(home, defaultStateDir)
	}

	v.SetConfigName(configFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(stateDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := &Config{
		StateDir:         stateDir,
		Plan:             v.GetString(keyPlan),
		Rounds:           v.GetInt(keyRounds),
		RestSeconds:      v.GetInt(keyRest),
		Muted:            v.GetBool(keyMuted),
		MaxHeartRate:     v.GetInt(keyMaxHeartRate),
		HeartRateMonitor: strings.ToLower(v.GetString(keyMonitor)),
		MockControlAddr:  v.GetString(keyMockControl),
		HistoryDB:        v.GetString(keyHistoryDB),
		PlansFile:        v.GetString(keyPlansFile),
		LogFile:          v.GetString(keyLogFile),
		LogMaxSizeMB:     v.GetInt(keyLogMaxSizeMB),
		LogMaxBackups:    v.GetInt(keyLogMaxBackups),
	}
	if cfg.HistoryDB == "" {
		cfg.HistoryDB = filepath.Join(stateDir, "history.db")
	}
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(stateDir, "hiit-timer.log")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges. Zero rounds and negative rest are accepted as
// "not set".
func (c *Config) Validate() error {
	if c.Rounds != 0 && (c.Rounds < MinRounds || c.Rounds > MaxRounds) {
		return fmt.Errorf("%w: rounds must be between %d and %d, got %d", ErrInvalidConfig, MinRounds, MaxRounds, c.Rounds)
	}
	if c.RestSeconds > MaxRest {
		return fmt.Errorf("%w: rest must be at most %d seconds, got %d", ErrInvalidConfig, MaxRest, c.RestSeconds)
	}
	if c.MaxHeartRate < 100 || c.MaxHeartRate > 230 {
		return fmt.Errorf("%w: max heart rate must be between 100 and 230, got %d", ErrInvalidConfig, c.MaxHeartRate)
	}
	switch c.HeartRateMonitor {
	case MonitorNone, MonitorBLE, MonitorMock:
	default:
		return fmt.Errorf("%w: unknown heart rate monitor %q", ErrInvalidConfig, c.HeartRateMonitor)
	}
	if c.LogMaxSizeMB <= 0 {
		return fmt.Errorf("%w: log-max-size-mb must be positive", ErrInvalidConfig)
	}
	if c.LogMaxBackups < 0 {
		return fmt.Errorf("%w: log-max-backups must not be negative", ErrInvalidConfig)
	}
	return nil
}

// HasRestOverride reports whether rest was set explicitly.
func (c *Config) HasRestOverride() bool {
	return c.RestSeconds >= MinRest
}
