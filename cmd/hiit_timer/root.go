package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/rivo/tview"
	"github.com/spf13/cobra"
	"tinygo.org/x/bluetooth"

	"github.com/lowaak/smart-trainer/hiit-timer-app/internal/config"
	"github.com/lowaak/smart-trainer/hiit-timer-app/internal/history"
	"github.com/lowaak/smart-trainer/hiit-timer-app/internal/hrm"
	"github.com/lowaak/smart-trainer/hiit-timer-app/internal/logging"
	"github.com/lowaak/smart-trainer/hiit-timer-app/internal/trainer"
	"github.com/lowaak/smart-trainer/hiit-timer-app/internal/workout"
)

const preferencesFileName = "preferences.json"

var errNotInteractive = errors.New("the timer needs an interactive terminal; try the plans or history commands")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "hiit-timer",
		Short:         "Interval workout timer with heart rate zones",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isInteractive() {
				return errNotInteractive
			}
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			return runTimer(cfg)
		},
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newPlansCmd(),
		newHistoryCmd(),
	)
	return root
}

func isInteractive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// loadPlans returns the built-in catalog followed by the plans file, if any.
func loadPlans(cfg *config.Config) ([]workout.PlanTemplate, error) {
	plans := append([]workout.PlanTemplate(nil), workout.AllPlans...)
	if cfg.PlansFile == "" {
		return plans, nil
	}
	extra, err := workout.LoadPlansFile(cfg.PlansFile)
	if err != nil {
		return nil, err
	}
	return append(plans, extra...), nil
}

func runTimer(cfg *config.Config) error {
	logger := logging.New(logging.Options{
		Path:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
	})
	defer logger.Close()
	logger.Printf("Starting hiit-timer (state dir %s)", cfg.StateDir)

	plans, err := loadPlans(cfg)
	if err != nil {
		return err
	}

	database, err := history.OpenDB(cfg.HistoryDB)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer database.Close()
	store := history.NewSQLiteStore(database)

	model := trainer.NewUIModel(trainer.NewUIModelArg{
		Plans:           plans,
		PreferencesPath: filepath.Join(cfg.StateDir, preferencesFileName),
		Logger:          logger.Logger,
		LogLines:        logger.Lines,
	})
	defer model.Shutdown()

	monitor := newMonitor(cfg, logger, model)

	controller := trainer.NewUIController(trainer.NewUIControllerArg{
		Model:        model,
		History:      store,
		Monitor:      monitor,
		Clock:        workout.SystemClock(),
		Logger:       logger.Logger,
		MaxHeartRate: cfg.MaxHeartRate,
		Startup: trainer.StartupOptions{
			PlanID:      cfg.Plan,
			Rounds:      cfg.Rounds,
			RestSeconds: cfg.RestSeconds,
			HasRest:     cfg.HasRestOverride(),
			Muted:       cfg.Muted,
		},
	})
	defer controller.Shutdown()

	app := tview.NewApplication()
	view := trainer.NewBaseUIView(trainer.NewBaseUIViewArg{
		UIViewImpl:   trainer.NewCursesUIView(logger.Logger, app, model),
		UIModel:      model,
		UIController: controller,
		Logger:       logger.Logger,
	})
	defer view.Shutdown()

	if err := view.Run(); err != nil {
		return fmt.Errorf("running UI: %w", err)
	}
	logger.Println("UI exited")
	return nil
}

// newMonitor returns the configured heart rate source, or nil for none.
func newMonitor(cfg *config.Config, logger *logging.Logger, model *trainer.UIModel) hrm.Monitor {
	switch cfg.HeartRateMonitor {
	case config.MonitorBLE:
		return hrm.NewBLEMonitor(bluetooth.DefaultAdapter, logger.Logger)
	case config.MonitorMock:
		return hrm.NewMockMonitor(logger.Logger, hrm.MockMonitorConfig{
			MaxHR:       cfg.MaxHeartRate,
			TargetZone:  model.CurrentWorkZone,
			ControlAddr: cfg.MockControlAddr,
		})
	default:
		return nil
	}
}
