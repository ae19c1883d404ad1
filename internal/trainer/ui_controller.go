package trainer

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/lowaak/smart-trainer/hiit-timer-app/internal/history"
	"github.com/lowaak/smart-trainer/hiit-timer-app/internal/hrm"
	"github.com/lowaak/smart-trainer/hiit-timer-app/internal/safego"
	"github.com/lowaak/smart-trainer/hiit-timer-app/internal/workout"
)

const historyWriteTimeout = 5 * time.Second

// StartupOptions seed the configuration screen. Zero values fall back to the
// remembered preferences and then to the plan's defaults.
type StartupOptions struct {
	PlanID      string
	Rounds      int
	RestSeconds int
	HasRest     bool
	Muted       bool
}

// activeRunner is the runner behind the timer screen plus the goroutine
// forwarding its snapshots into the model.
type activeRunner struct {
	runner   *workout.Runner
	cancel   context.CancelFunc
	done     chan struct{}
	unlisten func()
}

// UIController handles UI events and coordinates with the UIModel
type UIController struct {
	model        *UIModel
	history      history.Store
	monitor      hrm.Monitor
	clock        workout.Clock
	logger       *log.Logger
	maxHeartRate int

	mu     sync.Mutex
	active *activeRunner

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewUIControllerArg holds the arguments for creating a new UIController.
// Monitor is optional.
type NewUIControllerArg struct {
	Model        *UIModel
	History      history.Store
	Monitor      hrm.Monitor
	Clock        workout.Clock
	Logger       *log.Logger
	MaxHeartRate int
	Startup      StartupOptions
}

func NewUIController(args NewUIControllerArg) *UIController {
	if args.Model == nil {
		panic("UIController: model cannot be nil")
	}
	if args.History == nil {
		panic("UIController: history cannot be nil")
	}
	if args.Clock == nil {
		panic("UIController: clock cannot be nil")
	}
	if args.Logger == nil {
		panic("UIController: logger cannot be nil")
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &UIController{
		model:        args.Model,
		history:      args.History,
		monitor:      args.Monitor,
		clock:        args.Clock,
		logger:       args.Logger,
		maxHeartRate: args.MaxHeartRate,
		ctx:          ctx,
		cancel:       cancel,
	}

	c.applyStartup(args.Startup)
	c.RefreshHistory()

	if c.monitor != nil {
		readings := make(chan hrm.Reading, 8)
		unlisten := c.monitor.ListenToReadings(readings)
		safego.GoWithWaitGroup(&c.wg, c.logger, func() {
			defer unlisten()
			c.forwardReadings(readings)
		})
		safego.GoWithWaitGroup(&c.wg, c.logger, func() {
			if err := c.monitor.Start(c.ctx); err != nil {
				c.logger.Printf("Heart rate monitor unavailable: %v", err)
			}
		})
	}

	return c
}

// applyStartup picks the initial plan, rounds, rest and mute state. Explicit
// startup options win over remembered preferences.
func (c *UIController) applyStartup(opts StartupOptions) {
	prefs := c.model.Preferences()

	planID := opts.PlanID
	if planID == "" {
		planID = prefs.LastPlanID
	}
	index := 0
	if planID != "" {
		if i, ok := c.model.PlanIndexByID(planID); ok {
			index = i
		} else {
			c.logger.Printf("Unknown plan '%s', using '%s'", planID, c.model.Plans()[0].ID)
		}
	}
	setup := c.model.defaultSetup(index)

	// Remembered rounds/rest only apply to the plan they were chosen for.
	if prefs.LastPlanID == setup.Template.ID {
		if prefs.Rounds > 0 {
			setup.Rounds = prefs.Rounds
		}
		if prefs.RestSeconds != nil {
			setup.RestSeconds = *prefs.RestSeconds
		}
	}
	if opts.Rounds > 0 {
		setup.Rounds = opts.Rounds
	}
	if opts.HasRest {
		setup.RestSeconds = opts.RestSeconds
	}
	setup.Rounds = clamp(setup.Rounds, MinRounds, MaxRounds)
	setup.RestSeconds = clamp(setup.RestSeconds, MinRestSeconds, MaxRestSeconds)
	c.model.SetSetup(setup)

	if opts.Muted && !prefs.Muted {
		c.model.SetMuted(true)
	}
}

// OnEscapeKey handles when the Escape key is pressed
func (c *UIController) OnEscapeKey() {
	c.model.RequestCloseApplication()
}

// OnModeChange handles when the user requests a mode change
func (c *UIController) OnModeChange(mode UIMode) {
	if mode == UIModeTimer && !c.model.GetSession().Active {
		c.logger.Printf("No workout started - pick a plan and press Enter on the Configure screen")
		return
	}
	if info, ok := GetUIModeInfo(mode); ok {
		c.logger.Printf("Switching to %s mode", info.DisplayName)
	}
	c.model.SetMode(mode)
}

// SelectPlan loads the plan's default rounds and rest and opens the
// configuration screen.
func (c *UIController) SelectPlan(index int) {
	plans := c.model.Plans()
	if index < 0 || index >= len(plans) {
		c.logger.Printf("Invalid plan index: %d", index)
		return
	}
	setup := c.model.defaultSetup(index)
	c.logger.Printf("Plan selected: %s", setup.Template.Name)
	c.model.SetSetup(setup)
	c.OnModeChange(UIModeConfigure)
}

// AdjustRounds changes the round count by delta within [MinRounds, MaxRounds].
func (c *UIController) AdjustRounds(delta int) {
	setup := c.model.GetSetup()
	rounds := clamp(setup.Rounds+delta, MinRounds, MaxRounds)
	if rounds == setup.Rounds {
		return
	}
	setup.Rounds = rounds
	c.model.SetSetup(setup)
}

// AdjustRest changes the rest by delta steps of RestStepSeconds.
func (c *UIController) AdjustRest(delta int) {
	setup := c.model.GetSetup()
	rest := clamp(setup.RestSeconds+delta*RestStepSeconds, MinRestSeconds, MaxRestSeconds)
	if rest == setup.RestSeconds {
		return
	}
	setup.RestSeconds = rest
	c.model.SetSetup(setup)
}

// BeginWorkout replaces any current session with one built from the
// configured setup, switches to the timer and starts it.
func (c *UIController) BeginWorkout() {
	setup := c.model.GetSetup()
	plan := setup.Plan()

	c.mu.Lock()
	defer c.mu.Unlock()

	runner, err := workout.NewRunner(plan, c.clock, c.logger, workout.WithMuted(c.model.Preferences().Muted))
	if err != nil {
		c.logger.Printf("Cannot start workout: %v", err)
		return
	}
	c.releaseRunnerLocked()

	active := &activeRunner{runner: runner, done: make(chan struct{})}
	active.unlisten = runner.ListenToNotifications(c.onNotification)

	states := make(chan workout.Snapshot, 8)
	unlistenState := runner.ListenToState(states)
	fwdCtx, cancel := context.WithCancel(c.ctx)
	active.cancel = cancel
	safego.GoWithWaitGroup(&c.wg, c.logger, func() {
		defer close(active.done)
		defer unlistenState()
		c.forwardSnapshots(fwdCtx, states)
	})
	c.active = active

	c.model.SetMode(UIModeTimer)
	runner.Toggle()
}

// ToggleWorkout starts, pauses or resumes the current session.
func (c *UIController) ToggleWorkout() {
	if r := c.currentRunner(); r != nil {
		r.Toggle()
	}
}

// SkipPhase ends the current phase without earning its calories.
func (c *UIController) SkipPhase() {
	if r := c.currentRunner(); r != nil {
		r.Skip()
	}
}

// StopWorkout resets the session to the first exercise of round 1.
func (c *UIController) StopWorkout() {
	if r := c.currentRunner(); r != nil {
		r.Stop()
	}
}

// ToggleMute flips the countdown cue setting and remembers it.
func (c *UIController) ToggleMute() {
	c.mu.Lock()
	active := c.active
	c.mu.Unlock()

	muted := !c.model.Preferences().Muted
	if active != nil {
		muted = active.runner.ToggleMute().Muted
	}
	c.model.SetMuted(muted)
	c.logger.Printf("Countdown cues muted: %v", muted)
}

// RefreshHistory reloads recent sessions and totals into the model.
func (c *UIController) RefreshHistory() {
	ctx, cancel := context.WithTimeout(c.ctx, historyWriteTimeout)
	defer cancel()

	recent, err := c.history.ListRecent(ctx, recentHistoryLimit)
	if err != nil {
		c.logger.Printf("Loading history failed: %v", err)
		return
	}
	totals, err := c.history.Totals(ctx)
	if err != nil {
		c.logger.Printf("Loading history totals failed: %v", err)
		return
	}
	c.model.SetHistory(HistoryState{Recent: recent, Totals: totals})
}

func (c *UIController) currentRunner() *workout.Runner {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		c.logger.Printf("No workout started - pick a plan and press Enter on the Configure screen")
		return nil
	}
	return c.active.runner
}

// onNotification runs on the runner goroutine, so it only touches the model
// and hands history writes to another goroutine.
func (c *UIController) onNotification(n workout.Notification) {
	c.model.PublishCue(n)

	switch n.Kind {
	case workout.NotificationComplete:
		c.recordAsync(n.Snapshot)
	case workout.NotificationStopped:
		// A completed session was recorded when it completed.
		if n.Snapshot.Started() && n.Snapshot.State.Phase != workout.PhaseComplete {
			c.recordAsync(n.Snapshot)
		}
	}
}

func (c *UIController) recordAsync(snap workout.Snapshot) {
	endedAt := c.clock.Now()
	safego.GoWithWaitGroup(&c.wg, c.logger, func() {
		ctx, cancel := context.WithTimeout(context.Background(), historyWriteTimeout)
		defer cancel()

		rec := history.RecordFromSnapshot(snap, endedAt)
		if err := c.history.Create(ctx, rec); err != nil {
			c.logger.Printf("Saving session to history failed: %v", err)
			return
		}
		c.logger.Printf("Session saved: %s, %d/%d exercises, %.1f kcal",
			rec.PlanName, rec.ExercisesCompleted, rec.TotalExercises, rec.Calories)
		c.RefreshHistory()
	})
}

func (c *UIController) forwardSnapshots(ctx context.Context, states <-chan workout.Snapshot) {
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-states:
			if !ok {
				return
			}
			c.model.SetSession(snap)
		}
	}
}

func (c *UIController) forwardReadings(readings <-chan hrm.Reading) {
	for {
		select {
		case <-c.ctx.Done():
			return
		case r, ok := <-readings:
			if !ok {
				return
			}
			c.model.SetHeartRate(HeartRateState{
				Connected: true,
				BPM:       r.BPM,
				Zone:      hrm.ZoneForHeartRate(r.BPM, c.maxHeartRate),
				Source:    r.Source,
			})
		}
	}
}

// releaseRunnerLocked stops the current runner, recording an abandoned
// session, and waits for its forwarder to exit. c.mu must be held.
func (c *UIController) releaseRunnerLocked() {
	if c.active == nil {
		return
	}
	a := c.active
	c.active = nil

	a.runner.Stop()
	a.runner.Shutdown()
	a.unlisten()
	a.cancel()
	<-a.done
}

// Shutdown stops the runner, the heart rate monitor and waits for pending
// history writes.
func (c *UIController) Shutdown() {
	c.mu.Lock()
	c.releaseRunnerLocked()
	c.mu.Unlock()

	c.cancel()
	if c.monitor != nil {
		c.monitor.Shutdown()
	}
	c.wg.Wait()
	c.logger.Println("UIController: Shutdown complete")
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
