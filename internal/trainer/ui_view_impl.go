package trainer

import "github.com/lowaak/smart-trainer/hiit-timer-app/internal/workout"

// UIViewImpl defines the interface for framework-specific UI implementations
type UIViewImpl interface {
	// Initialize is called after construction to set up framework-specific widgets
	// controller is used to handle UI events
	Initialize(controller *UIController)

	// SetupKeyboardHandlers sets up keyboard event handlers
	SetupKeyboardHandlers(controller *UIController)

	// Run starts the UI framework and blocks until it exits
	Run() error

	// Stop stops the UI framework
	Stop()

	// Draw refreshes/redraws the UI
	Draw() error

	// --- Mode Management ---

	SetMode(mode UIMode)
	GetCurrentMode() UIMode

	// --- Log View (shared across modes) ---

	GetLogViewHeight() int
	ClearLogView()
	WriteLogLine(line string) error

	// --- Plans Mode ---

	// SetPlanList populates the plan catalog
	SetPlanList(plans []workout.PlanTemplate)

	// UpdateHistory shows recent sessions and lifetime totals
	UpdateHistory(state HistoryState)

	// --- Configure Mode ---

	UpdateSetup(setup WorkoutSetup)

	// --- Timer Mode ---

	UpdateSession(view SessionView)
	UpdateHeartRate(state HeartRateState)

	// ShowCue flashes a countdown or phase change
	ShowCue(cue Cue)
}
