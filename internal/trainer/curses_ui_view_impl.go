package trainer

import (
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/lowaak/smart-trainer/hiit-timer-app/internal/workout"
)

// Page names for tview.Pages
const (
	pageHome      = "home"
	pageConfigure = "configure"
	pageTimer     = "timer"
)

const (
	progressBarWidth = 30
	cueFlashDuration = 700 * time.Millisecond
)

// CursesUIViewImpl implements UIViewImpl using tview (curses-based terminal UI)
type CursesUIViewImpl struct {
	logger      *log.Logger
	app         *tview.Application
	model       *UIModel
	currentMode UIMode

	// Root container that holds all pages
	pages *tview.Pages

	// Shared components (visible in all modes)
	logView  *tview.TextView
	mainFlex *tview.Flex // Main layout: mode content on left, logs on right

	// Plans mode components
	homeFlex       *tview.Flex
	homeTabWidgets []*tview.Box
	planList       *tview.List
	planDetails    *tview.TextView
	historyPanel   *tview.TextView
	plans          []workout.PlanTemplate

	// Configure mode components
	configureFlex       *tview.Flex
	configureTabWidgets []*tview.Box
	setupPanel          *tview.TextView
	setupPreviewPanel   *tview.TextView

	// Timer mode components
	timerFlex       *tview.Flex
	timerTabWidgets []*tview.Box
	timerPanel      *tview.TextView
	statsPanel      *tview.TextView
	heartRatePanel  *tview.TextView
	cuePanel        *tview.TextView
	lastCueSeq      atomic.Uint64
}

func NewCursesUIView(logger *log.Logger, app *tview.Application, model *UIModel) *CursesUIViewImpl {
	return &CursesUIViewImpl{
		logger:      logger,
		app:         app,
		model:       model,
		currentMode: UIModeHome,
	}
}

// Initialize sets up the tview widgets
func (ui *CursesUIViewImpl) Initialize(controller *UIController) {
	// Don't use SetChangedFunc with app.Draw(): it can hang during shutdown
	// while log lines are still being written.
	ui.logView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false)
	ui.logView.SetBorder(true).SetTitle(" Logs ")

	ui.pages = tview.NewPages()

	ui.initHomeMode(controller)
	ui.initConfigureMode()
	ui.initTimerMode()

	ui.pages.AddPage(pageHome, ui.homeFlex, true, true)
	ui.pages.AddPage(pageConfigure, ui.configureFlex, true, false)
	ui.pages.AddPage(pageTimer, ui.timerFlex, true, false)

	ui.mainFlex = tview.NewFlex().
		AddItem(ui.pages, 0, 2, true).
		AddItem(ui.logView, 0, 1, false)

	ui.setFocusForCurrentMode()
}

func newPanel(title string) *tview.TextView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	tv.SetBorder(true).SetTitle(title)
	return tv
}

func newInstructions(text string) *tview.TextView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	tv.SetText(text)
	return tv
}

func (ui *CursesUIViewImpl) initHomeMode(controller *UIController) {
	instructions := newInstructions("[yellow]Enter[white] Choose plan  |  [yellow]Tab[white] Cycle panels  |  [yellow]Esc[white] Quit\n[yellow]1[white] Plans  |  [yellow]2[white] Configure  |  [yellow]3[white] Timer")

	ui.planList = tview.NewList().
		ShowSecondaryText(true).
		SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
			ui.logger.Printf("UI: Plan selected: index=%d, name=%s", index, mainText)
			controller.SelectPlan(index)
		}).
		SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
			ui.updatePlanDetails(index)
		})
	ui.planList.SetBorder(true).SetTitle(" Plans ")

	ui.planDetails = newPanel(" Plan Details ")
	ui.updatePlanDetails(-1)

	ui.historyPanel = newPanel(" History ")
	ui.UpdateHistory(HistoryState{})

	ui.homeTabWidgets = []*tview.Box{ui.planList.Box, ui.planDetails.Box, ui.historyPanel.Box}

	right := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(ui.planDetails, 0, 3, false).
		AddItem(ui.historyPanel, 0, 2, false)

	body := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(ui.planList, 0, 1, true).
		AddItem(right, 0, 1, false)

	ui.homeFlex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(instructions, 2, 0, false).
		AddItem(body, 0, 1, true)
}

func (ui *CursesUIViewImpl) initConfigureMode() {
	instructions := newInstructions("[yellow]+[white]/[yellow]-[white] or [yellow]Up[white]/[yellow]Down[white] Rounds  |  [yellow]>[white]/[yellow]<[white] or [yellow]Right[white]/[yellow]Left[white] Rest  |  [yellow]Enter[white] Start\n[yellow]1[white] Plans  |  [yellow]2[white] Configure  |  [yellow]3[white] Timer")

	ui.setupPanel = newPanel(" Setup ")
	ui.setupPreviewPanel = newPanel(" Exercises ")
	ui.configureTabWidgets = []*tview.Box{ui.setupPanel.Box, ui.setupPreviewPanel.Box}

	body := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(ui.setupPanel, 0, 1, true).
		AddItem(ui.setupPreviewPanel, 0, 1, false)

	ui.configureFlex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(instructions, 2, 0, false).
		AddItem(body, 0, 1, true)
}

func (ui *CursesUIViewImpl) initTimerMode() {
	instructions := newInstructions("[yellow]Space[white] Start/Pause  |  [yellow]S[white] Skip  |  [yellow]X[white] Stop  |  [yellow]M[white] Mute\n[yellow]1[white] Plans  |  [yellow]2[white] Configure  |  [yellow]3[white] Timer")

	ui.timerPanel = newPanel(" Timer ")
	ui.statsPanel = newPanel(" Session ")
	ui.heartRatePanel = newPanel(" Heart Rate ")
	ui.UpdateHeartRate(HeartRateState{})

	ui.cuePanel = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)

	ui.timerTabWidgets = []*tview.Box{ui.timerPanel.Box, ui.statsPanel.Box, ui.heartRatePanel.Box}

	left := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(ui.timerPanel, 0, 3, true).
		AddItem(ui.cuePanel, 1, 0, false)

	right := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(ui.statsPanel, 0, 2, false).
		AddItem(ui.heartRatePanel, 0, 1, false)

	body := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(left, 0, 3, true).
		AddItem(right, 0, 2, false)

	ui.timerFlex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(instructions, 2, 0, false).
		AddItem(body, 0, 1, true)
}

// SetPlanList populates the plan catalog
func (ui *CursesUIViewImpl) SetPlanList(plans []workout.PlanTemplate) {
	ui.plans = plans
	ui.planList.Clear()

	for _, p := range plans {
		def := p.DefaultPlan()
		secondary := fmt.Sprintf("%s  |  %d exercises  |  ~%d min", p.Difficulty, len(p.Exercises), (def.TotalSeconds()+59)/60)
		ui.planList.AddItem(p.Name, secondary, 0, nil)
	}

	if len(plans) > 0 {
		ui.updatePlanDetails(0)
	}
}

func (ui *CursesUIViewImpl) updatePlanDetails(index int) {
	if ui.planDetails == nil {
		return
	}

	var sb strings.Builder
	if index < 0 || index >= len(ui.plans) {
		sb.WriteString("\n\n  [yellow]Plans[white]\n\n")
		sb.WriteString("  Select a plan from the list to view details.\n")
		ui.planDetails.SetText(sb.String())
		return
	}

	p := ui.plans[index]
	def := p.DefaultPlan()
	fmt.Fprintf(&sb, "\n  [yellow]%s[white] [gray](%s)[white]\n\n", p.Name, p.Difficulty)
	if p.Description != "" {
		fmt.Fprintf(&sb, "  %s\n\n", p.Description)
	}
	fmt.Fprintf(&sb, "  [gray]Rounds:[white] %d   [gray]Rest:[white] %ds\n", p.DefaultRounds, p.DefaultRestSeconds)
	fmt.Fprintf(&sb, "  [gray]Duration:[white] %s   [gray]Est.:[white] %.0f kcal\n", workout.FormatTime(def.TotalSeconds()), def.EstimatedCalories())
	fmt.Fprintf(&sb, "  [gray]Targets:[white] %s\n\n", strings.Join(p.MuscleGroups(), ", "))

	sb.WriteString("  [gray]Exercises:[white]\n")
	for i, ex := range p.Exercises {
		fmt.Fprintf(&sb, "    %d. %-18s %3ds  [gray]%s[white]\n", i+1, ex.Name, ex.DurationSeconds, ex.MuscleGroup)
	}
	sb.WriteString("\n  [green]Press Enter to configure this plan[white]\n")
	ui.planDetails.SetText(sb.String())
}

// UpdateHistory shows lifetime totals and the most recent sessions
func (ui *CursesUIViewImpl) UpdateHistory(state HistoryState) {
	if ui.historyPanel == nil {
		return
	}

	var sb strings.Builder
	t := state.Totals
	fmt.Fprintf(&sb, "\n  [gray]Sessions:[white] %d  [gray]Completed:[white] %d\n", t.Sessions, t.Completed)
	fmt.Fprintf(&sb, "  [gray]Time:[white] %s  [gray]Burned:[white] %.0f kcal\n\n", workout.FormatTime(t.ElapsedSeconds), t.Calories)

	if len(state.Recent) == 0 {
		sb.WriteString("  [gray]No sessions yet[white]\n")
	}
	for _, r := range state.Recent {
		mark := "[yellow]~[white]"
		if r.Completed {
			mark = "[green]✓[white]"
		}
		fmt.Fprintf(&sb, "  %s %s  %-18s %5s  %5.1f kcal\n",
			mark, r.StartedAt.Local().Format("Jan 02 15:04"), r.PlanName, workout.FormatTime(r.ElapsedSeconds), r.Calories)
	}
	ui.historyPanel.SetText(sb.String())
}

// UpdateSetup renders the configuration screen
func (ui *CursesUIViewImpl) UpdateSetup(setup WorkoutSetup) {
	plan := setup.Plan()

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n  [yellow]%s[white]\n\n", setup.Template.Name)
	fmt.Fprintf(&sb, "  [gray]Rounds:[white]    [yellow]◀ %2d ▶[white]   [gray](%d-%d)[white]\n", setup.Rounds, MinRounds, MaxRounds)
	fmt.Fprintf(&sb, "  [gray]Rest:[white]      [yellow]◀ %2ds ▶[white]  [gray](%d-%ds)[white]\n\n", setup.RestSeconds, MinRestSeconds, MaxRestSeconds)
	fmt.Fprintf(&sb, "  [gray]Exercises:[white] %d x %d = %d\n", plan.ExerciseCount(), plan.TotalRounds, plan.TotalExercises())
	fmt.Fprintf(&sb, "  [gray]Duration:[white]  %s\n", workout.FormatTime(plan.TotalSeconds()))
	fmt.Fprintf(&sb, "  [gray]Estimate:[white]  %.0f kcal\n\n", plan.EstimatedCalories())
	sb.WriteString("  [green]Press Enter to start[white]\n")
	ui.setupPanel.SetText(sb.String())

	sb.Reset()
	sb.WriteString("\n")
	for i, ex := range plan.Exercises {
		fmt.Fprintf(&sb, "  %d. [yellow]%s[white] %ds\n", i+1, ex.Name, ex.DurationSeconds)
		fmt.Fprintf(&sb, "     [gray]%s", ex.MuscleGroup)
		if len(ex.SecondaryMuscles) > 0 {
			fmt.Fprintf(&sb, " + %s", strings.Join(ex.SecondaryMuscles, ", "))
		}
		sb.WriteString("[white]\n")
	}
	ui.setupPreviewPanel.SetText(sb.String())
}

// UpdateSession renders the timer screen from a session snapshot
func (ui *CursesUIViewImpl) UpdateSession(view SessionView) {
	if !view.Active {
		ui.timerPanel.SetText("\n  [gray]No workout started[white]\n\n  Pick a plan (press 1) and press Enter on the Configure screen.\n")
		ui.statsPanel.SetText("")
		return
	}

	snap := view.Snapshot
	st := snap.State

	var sb strings.Builder
	sb.WriteString("\n")
	switch {
	case st.Phase == workout.PhaseComplete:
		sb.WriteString("  [green::b]WORKOUT COMPLETE[-:-:-]\n\n")
	case !st.IsRunning && snap.Started():
		fmt.Fprintf(&sb, "  %s [gray](PAUSED)[white]\n\n", phaseLabel(st.Phase))
	default:
		fmt.Fprintf(&sb, "  %s\n\n", phaseLabel(st.Phase))
	}

	if st.Phase != workout.PhaseComplete {
		fmt.Fprintf(&sb, "  [::b]%s[::-]   %s\n", workout.FormatTime(st.TimeLeftSeconds), snap.CurrentExercise.Name)
		fmt.Fprintf(&sb, "  [gray]%s[white]\n\n", snap.CurrentExercise.MuscleGroup)
		fmt.Fprintf(&sb, "  [gray]Round[white] %d/%d   [gray]Exercise[white] %d/%d\n",
			st.CurrentRound, snap.TotalRounds, st.CurrentExerciseIndex+1, snap.ExerciseCount)
		if snap.NextExercise != nil {
			fmt.Fprintf(&sb, "  [gray]Next:[white] %s\n", snap.NextExercise.Name)
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "  %s %3.0f%%\n\n", progressBar(snap.ProgressPercent), snap.ProgressPercent)
	fmt.Fprintf(&sb, "  [yellow]%s[white]\n", st.Message)
	fmt.Fprintf(&sb, "  [gray]%s[white]\n", snap.StatusMessage)
	if !snap.Started() {
		sb.WriteString("\n  [gray]Press[white] [yellow]Space[white] [gray]to start[white]\n")
	}
	ui.timerPanel.SetText(sb.String())

	sb.Reset()
	fmt.Fprintf(&sb, "\n  [yellow]%s[white]\n\n", snap.PlanName)
	fmt.Fprintf(&sb, "  [gray]Elapsed:[white]   %s\n", workout.FormatTime(st.ElapsedSeconds))
	fmt.Fprintf(&sb, "  [gray]Remaining:[white] %s\n", workout.FormatTime(snap.RemainingSeconds))
	fmt.Fprintf(&sb, "  [gray]Done:[white]      %d/%d\n\n", snap.CompletedExercises, snap.TotalExercises)
	fmt.Fprintf(&sb, "  [red]Calories:[white]  [yellow]%.1f[white] kcal\n", st.CaloriesBurned)
	fmt.Fprintf(&sb, "  [gray]Zone:[white]      %s\n", zoneLabel(st.HeartRateZone))
	if snap.Muted {
		sb.WriteString("\n  [gray]Countdown cues muted[white]\n")
	}
	ui.statsPanel.SetText(sb.String())
}

// UpdateHeartRate renders the strap reading next to the zone the engine
// expects.
func (ui *CursesUIViewImpl) UpdateHeartRate(state HeartRateState) {
	if !state.Connected {
		ui.heartRatePanel.SetText("\n  [gray]No heart rate monitor[white]\n")
		return
	}
	target := ui.model.GetSession().Snapshot.State.HeartRateZone

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n  [red]♥[white] [yellow]%d[white] bpm  %s\n", state.BPM, zoneLabel(state.Zone))
	if state.Zone > 0 && target > 0 {
		switch {
		case state.Zone < target:
			sb.WriteString("  [blue]Below target zone[white]\n")
		case state.Zone > target:
			sb.WriteString("  [red]Above target zone[white]\n")
		default:
			sb.WriteString("  [green]On target[white]\n")
		}
	}
	fmt.Fprintf(&sb, "  [gray]%s[white]\n", state.Source)
	ui.heartRatePanel.SetText(sb.String())
}

// ShowCue flashes a countdown digit or phase banner, then clears it unless a
// newer cue replaced it.
func (ui *CursesUIViewImpl) ShowCue(cue Cue) {
	var text string
	switch cue.Kind {
	case workout.NotificationCountdown:
		text = fmt.Sprintf("[red::b]%d[-:-:-]", cue.TimeLeftSeconds)
	case workout.NotificationPhaseChanged:
		if cue.Phase == workout.PhaseWork {
			text = "[green::b]GO![-:-:-]"
		} else {
			text = "[blue::b]REST[-:-:-]"
		}
	case workout.NotificationComplete:
		text = "[yellow::b]DONE![-:-:-]"
	default:
		text = ""
	}
	ui.cuePanel.SetText(text)
	ui.lastCueSeq.Store(cue.Seq)

	time.AfterFunc(cueFlashDuration, func() {
		if ui.lastCueSeq.Load() != cue.Seq {
			return
		}
		ui.app.QueueUpdateDraw(func() { ui.cuePanel.SetText("") })
	})
}

func phaseLabel(p workout.Phase) string {
	switch p {
	case workout.PhaseWork:
		return "[red::b]WORK[-:-:-]"
	case workout.PhaseRest:
		return "[blue::b]REST[-:-:-]"
	default:
		return "[green::b]DONE[-:-:-]"
	}
}

func zoneLabel(zone int) string {
	colors := map[int]string{1: "gray", 2: "blue", 3: "green", 4: "orange", 5: "red"}
	c, ok := colors[zone]
	if !ok {
		return "[gray]-[white]"
	}
	return fmt.Sprintf("[%s]Z%d[white]", c, zone)
}

func progressBar(percent float64) string {
	filled := int(percent / 100 * progressBarWidth)
	filled = clamp(filled, 0, progressBarWidth)
	return "[green]" + strings.Repeat("█", filled) + "[gray]" + strings.Repeat("░", progressBarWidth-filled) + "[white]"
}

// SetMode switches the UI to the specified mode
func (ui *CursesUIViewImpl) SetMode(mode UIMode) {
	if ui.currentMode == mode {
		return
	}

	ui.currentMode = mode

	switch mode {
	case UIModeHome:
		ui.pages.SwitchToPage(pageHome)
	case UIModeConfigure:
		ui.pages.SwitchToPage(pageConfigure)
	case UIModeTimer:
		ui.pages.SwitchToPage(pageTimer)
	}

	ui.setFocusForCurrentMode()
	ui.app.Draw()
}

// GetCurrentMode returns the currently active UI mode
func (ui *CursesUIViewImpl) GetCurrentMode() UIMode {
	return ui.currentMode
}

func (ui *CursesUIViewImpl) setFocusForCurrentMode() {
	if widgets := ui.getTabWidgetsForCurrentMode(); len(widgets) > 0 {
		ui.app.SetFocus(widgets[0])
	}
}

func (ui *CursesUIViewImpl) getTabWidgetsForCurrentMode() []*tview.Box {
	switch ui.currentMode {
	case UIModeHome:
		return ui.homeTabWidgets
	case UIModeConfigure:
		return ui.configureTabWidgets
	case UIModeTimer:
		return ui.timerTabWidgets
	default:
		return nil
	}
}

// SetupKeyboardHandlers sets up keyboard event handlers
func (ui *CursesUIViewImpl) SetupKeyboardHandlers(controller *UIController) {
	ui.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyRune {
			if mode, ok := GetUIModeByKey(event.Rune()); ok {
				// The controller updates the model, which notifies us
				controller.OnModeChange(mode)
				return nil
			}
		}

		if event.Key() == tcell.KeyTab {
			widgets := ui.getTabWidgetsForCurrentMode()
			for i, w := range widgets {
				if w.HasFocus() {
					ui.app.SetFocus(widgets[(i+1)%len(widgets)])
					break
				}
			}
			return nil
		}

		if event.Key() == tcell.KeyEscape {
			controller.OnEscapeKey()
			return nil
		}

		switch ui.currentMode {
		case UIModeConfigure:
			switch event.Key() {
			case tcell.KeyEnter:
				controller.BeginWorkout()
				return nil
			case tcell.KeyUp:
				controller.AdjustRounds(1)
				return nil
			case tcell.KeyDown:
				controller.AdjustRounds(-1)
				return nil
			case tcell.KeyRight:
				controller.AdjustRest(1)
				return nil
			case tcell.KeyLeft:
				controller.AdjustRest(-1)
				return nil
			case tcell.KeyRune:
				switch event.Rune() {
				case '+', '=':
					controller.AdjustRounds(1)
					return nil
				case '-':
					controller.AdjustRounds(-1)
					return nil
				case '>', '.':
					controller.AdjustRest(1)
					return nil
				case '<', ',':
					controller.AdjustRest(-1)
					return nil
				}
			}
		case UIModeTimer:
			if event.Key() == tcell.KeyRune {
				switch event.Rune() {
				case ' ':
					controller.ToggleWorkout()
					return nil
				case 's':
					controller.SkipPhase()
					return nil
				case 'x':
					controller.StopWorkout()
					return nil
				case 'm':
					controller.ToggleMute()
					return nil
				}
			}
		}

		return event
	})
}

// GetLogViewHeight returns the visible height of the log view
func (ui *CursesUIViewImpl) GetLogViewHeight() int {
	_, _, _, height := ui.logView.GetInnerRect()
	return height
}

// ClearLogView clears the log view
func (ui *CursesUIViewImpl) ClearLogView() {
	ui.logView.Clear()
}

// WriteLogLine writes a line to the log view
func (ui *CursesUIViewImpl) WriteLogLine(line string) error {
	_, err := fmt.Fprintln(ui.logView, tview.Escape(line))
	return err
}

// Draw refreshes/redraws the UI
func (ui *CursesUIViewImpl) Draw() error {
	ui.app.Draw()
	return nil
}

// Run starts the UI and blocks until it exits
func (ui *CursesUIViewImpl) Run() error {
	// SetRoot must be called before setting focus, otherwise focus may be reset
	ui.app.SetRoot(ui.mainFlex, true)
	ui.setFocusForCurrentMode()
	return ui.app.Run()
}

// Stop stops the UI framework
func (ui *CursesUIViewImpl) Stop() {
	ui.app.Stop()
}
