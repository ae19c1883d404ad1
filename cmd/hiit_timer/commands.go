package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lowaak/smart-trainer/hiit-timer-app/internal/config"
	"github.com/lowaak/smart-trainer/hiit-timer-app/internal/history"
	"github.com/lowaak/smart-trainer/hiit-timer-app/internal/workout"
)

func newPlansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plans",
		Short: "List available workout plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			plans, err := loadPlans(cfg)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tLEVEL\tEXERCISES\tROUNDS\tREST\tDURATION\tEST. KCAL")
			for _, p := range plans {
				def := p.DefaultPlan()
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%ds\t%s\t%.0f\n",
					p.ID, p.Name, p.Difficulty, len(p.Exercises), p.DefaultRounds, p.DefaultRestSeconds,
					workout.FormatTime(def.TotalSeconds()), def.EstimatedCalories())
			}
			return w.Flush()
		},
	}
}

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent workouts and totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(cmd, func(store history.Store) error {
				return printHistory(cmd.Context(), cmd.OutOrStdout(), store, limit)
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of sessions to show")
	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show one recorded workout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(cmd, func(store history.Store) error {
				return printRecord(cmd.Context(), cmd.OutOrStdout(), store, args[0])
			})
		},
	})
	return cmd
}

// withHistory opens the history database for fn. A missing database file
// means nothing was recorded yet and fn is not called.
func withHistory(cmd *cobra.Command, fn func(history.Store) error) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	if _, err := os.Stat(cfg.HistoryDB); os.IsNotExist(err) {
		fmt.Fprintln(cmd.OutOrStdout(), "No workouts recorded yet.")
		return nil
	}

	database, err := history.OpenDB(cfg.HistoryDB)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer database.Close()
	return fn(history.NewSQLiteStore(database))
}

func printHistory(ctx context.Context, out io.Writer, store history.Store, limit int) error {
	if ctx == nil {
		ctx = context.Background()
	}
	recent, err := store.ListRecent(ctx, limit)
	if err != nil {
		return err
	}
	totals, err := store.Totals(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tPLAN\tRESULT\tEXERCISES\tROUNDS\tTIME\tKCAL")
	for _, r := range recent {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d/%d\t%d/%d\t%s\t%.1f\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04"), r.PlanName, resultLabel(r),
			r.ExercisesCompleted, r.TotalExercises, r.RoundsReached, r.TotalRounds,
			workout.FormatTime(r.ElapsedSeconds), r.Calories)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out, strings.Repeat("-", 40))
	fmt.Fprintf(out, "%d sessions, %d completed, %s total, %.0f kcal\n",
		totals.Sessions, totals.Completed, workout.FormatTime(totals.ElapsedSeconds), totals.Calories)
	return nil
}

func printRecord(ctx context.Context, out io.Writer, store history.Store, id string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	r, err := store.Get(ctx, id)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Plan:\t%s\n", r.PlanName)
	fmt.Fprintf(w, "Result:\t%s\n", resultLabel(r))
	fmt.Fprintf(w, "Started:\t%s\n", r.StartedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Ended:\t%s\n", r.EndedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Exercises:\t%d/%d\n", r.ExercisesCompleted, r.TotalExercises)
	fmt.Fprintf(w, "Rounds:\t%d/%d\n", r.RoundsReached, r.TotalRounds)
	fmt.Fprintf(w, "Time:\t%s\n", workout.FormatTime(r.ElapsedSeconds))
	fmt.Fprintf(w, "Calories:\t%.1f kcal\n", r.Calories)
	return w.Flush()
}

func resultLabel(r *history.Record) string {
	if r.Completed {
		return "complete"
	}
	return "stopped"
}
