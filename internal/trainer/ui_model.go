package trainer

import (
	"context"
	"log"
	"sync"

	"github.com/lowaak/smart-trainer/hiit-timer-app/internal/events"
	"github.com/lowaak/smart-trainer/hiit-timer-app/internal/history"
	"github.com/lowaak/smart-trainer/hiit-timer-app/internal/safego"
	"github.com/lowaak/smart-trainer/hiit-timer-app/internal/workout"
)

// UIState holds the current state of the UI that views need to render
type UIState struct {
	Mode UIMode
}

// WorkoutSetup is the plan and the rounds/rest chosen on the configuration
// screen.
type WorkoutSetup struct {
	PlanIndex   int
	Template    workout.PlanTemplate
	Rounds      int
	RestSeconds int
}

func (s WorkoutSetup) Plan() workout.Plan {
	return s.Template.Plan(s.Rounds, s.RestSeconds)
}

// SessionView is the timer screen's state. Active is false until a workout
// has been started from the configuration screen.
type SessionView struct {
	Active   bool
	Snapshot workout.Snapshot
}

// HeartRateState is the latest strap reading.
type HeartRateState struct {
	Connected bool
	BPM       uint16
	Zone      int
	Source    string
}

type HistoryState struct {
	Recent []*history.Record
	Totals history.Totals
}

// Cue is a visual countdown or transition flash. Seq increases with every
// cue so the view can tell repeats apart.
type Cue struct {
	Kind            workout.NotificationKind
	Phase           workout.Phase
	TimeLeftSeconds int
	Seq             uint64
}

type UIModel struct {
	logger      *log.Logger
	persistence *uiModelPersistence
	plans       []workout.PlanTemplate

	logEvent              *events.ChannelEvent[string]
	closeApplicationEvent *events.ChannelEvent[struct{}]
	uiStateEvent          *events.ChannelEvent[UIState]
	setupEvent            *events.ChannelEvent[WorkoutSetup]
	sessionEvent          *events.ChannelEvent[SessionView]
	heartRateEvent        *events.ChannelEvent[HeartRateState]
	historyEvent          *events.ChannelEvent[HistoryState]
	cueEvent              *events.ChannelEvent[Cue]

	mu        sync.RWMutex
	uiState   UIState
	setup     WorkoutSetup
	session   SessionView
	heartRate HeartRateState
	history   HistoryState
	cueSeq    uint64

	logLines []string
	logMu    sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewUIModelArg holds the arguments for creating a new UIModel
type NewUIModelArg struct {
	Plans           []workout.PlanTemplate
	PreferencesPath string
	Logger          *log.Logger
	LogLines        <-chan string
}

func NewUIModel(args NewUIModelArg) *UIModel {
	if args.Logger == nil {
		panic("UIModel: logger cannot be nil")
	}
	if len(args.Plans) == 0 {
		panic("UIModel: plans cannot be empty")
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &UIModel{
		logger:                args.Logger,
		persistence:           newUIModelPersistence(args.PreferencesPath, args.Logger),
		plans:                 args.Plans,
		logEvent:              events.NewChannelEvent[string](false),
		closeApplicationEvent: events.NewChannelEvent[struct{}](true),
		uiStateEvent:          events.NewChannelEvent[UIState](true),
		setupEvent:            events.NewChannelEvent[WorkoutSetup](true),
		sessionEvent:          events.NewChannelEvent[SessionView](true),
		heartRateEvent:        events.NewChannelEvent[HeartRateState](true),
		historyEvent:          events.NewChannelEvent[HistoryState](true),
		cueEvent:              events.NewChannelEvent[Cue](false),
		uiState:               UIState{Mode: UIModeHome},
		logLines:              make([]string, 0, maxLogLines),
		ctx:                   ctx,
		cancel:                cancel,
	}
	m.setup = m.defaultSetup(0)

	if args.LogLines != nil {
		safego.GoWithWaitGroup(&m.wg, m.logger, func() { m.readFromLogChannel(ctx, args.LogLines) })
	}
	return m
}

// Shutdown stops all goroutines and waits for them to finish
func (m *UIModel) Shutdown() {
	m.logger.Println("UIModel: Shutting down")
	m.cancel()
	m.wg.Wait()
	m.logger.Println("UIModel: Shutdown complete")
}

func (m *UIModel) Plans() []workout.PlanTemplate {
	return m.plans
}

func (m *UIModel) Preferences() Preferences {
	return m.persistence.get()
}

func (m *UIModel) ListenToLog(ch chan<- string) func() {
	return m.logEvent.Listen(ch)
}

func (m *UIModel) ListenToCloseApplication(ch chan<- struct{}) func() {
	return m.closeApplicationEvent.Listen(ch)
}

// RequestCloseApplication signals that the application should close
func (m *UIModel) RequestCloseApplication() {
	m.closeApplicationEvent.Notify(struct{}{})
}

func (m *UIModel) ListenToUIState(ch chan<- UIState) func() {
	return m.uiStateEvent.Listen(ch)
}

func (m *UIModel) GetUIState() UIState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.uiState
}

// SetMode updates the current UI mode and notifies listeners
func (m *UIModel) SetMode(mode UIMode) {
	m.mu.Lock()
	if m.uiState.Mode == mode {
		m.mu.Unlock()
		return
	}
	m.uiState.Mode = mode
	state := m.uiState
	m.mu.Unlock()

	m.uiStateEvent.Notify(state)
}

func (m *UIModel) ListenToSetup(ch chan<- WorkoutSetup) func() {
	return m.setupEvent.Listen(ch)
}

func (m *UIModel) GetSetup() WorkoutSetup {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.setup
}

// SetSetup stores the setup, remembers it for the next run and notifies
// listeners.
func (m *UIModel) SetSetup(setup WorkoutSetup) {
	m.mu.Lock()
	m.setup = setup
	m.mu.Unlock()

	rest := setup.RestSeconds
	m.persistence.update(func(p *Preferences) {
		p.LastPlanID = setup.Template.ID
		p.Rounds = setup.Rounds
		p.RestSeconds = &rest
	})
	m.setupEvent.Notify(setup)
}

// defaultSetup is the template's own rounds and rest.
func (m *UIModel) defaultSetup(index int) WorkoutSetup {
	tmpl := m.plans[index]
	return WorkoutSetup{
		PlanIndex:   index,
		Template:    tmpl,
		Rounds:      tmpl.DefaultRounds,
		RestSeconds: tmpl.DefaultRestSeconds,
	}
}

// PlanIndexByID returns the catalog position of the plan with id.
func (m *UIModel) PlanIndexByID(id string) (int, bool) {
	for i, p := range m.plans {
		if p.ID == id {
			return i, true
		}
	}
	return 0, false
}

func (m *UIModel) SetMuted(muted bool) {
	m.persistence.update(func(p *Preferences) { p.Muted = muted })
}

func (m *UIModel) ListenToSession(ch chan<- SessionView) func() {
	return m.sessionEvent.Listen(ch)
}

func (m *UIModel) GetSession() SessionView {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session
}

func (m *UIModel) SetSession(snap workout.Snapshot) {
	view := SessionView{Active: true, Snapshot: snap}
	m.mu.Lock()
	m.session = view
	m.mu.Unlock()

	m.sessionEvent.Notify(view)
}

// CurrentWorkZone is the zone the athlete should currently be in: the
// engine's zone while a session runs, zone 1 otherwise.
func (m *UIModel) CurrentWorkZone() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st := m.session.Snapshot.State
	if !m.session.Active || !st.IsRunning {
		return 1
	}
	return st.HeartRateZone
}

func (m *UIModel) ListenToHeartRate(ch chan<- HeartRateState) func() {
	return m.heartRateEvent.Listen(ch)
}

func (m *UIModel) GetHeartRate() HeartRateState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.heartRate
}

func (m *UIModel) SetHeartRate(state HeartRateState) {
	m.mu.Lock()
	m.heartRate = state
	m.mu.Unlock()

	m.heartRateEvent.Notify(state)
}

func (m *UIModel) ListenToHistory(ch chan<- HistoryState) func() {
	return m.historyEvent.Listen(ch)
}

func (m *UIModel) GetHistory() HistoryState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.history
}

func (m *UIModel) SetHistory(state HistoryState) {
	m.mu.Lock()
	m.history = state
	m.mu.Unlock()

	m.historyEvent.Notify(state)
}

func (m *UIModel) ListenToCue(ch chan<- Cue) func() {
	return m.cueEvent.Listen(ch)
}

// PublishCue turns a runner notification into a visual cue.
func (m *UIModel) PublishCue(n workout.Notification) {
	m.mu.Lock()
	m.cueSeq++
	cue := Cue{
		Kind:            n.Kind,
		Phase:           n.Snapshot.State.Phase,
		TimeLeftSeconds: n.Snapshot.State.TimeLeftSeconds,
		Seq:             m.cueSeq,
	}
	m.mu.Unlock()

	m.cueEvent.Notify(cue)
}

func (m *UIModel) readFromLogChannel(ctx context.Context, logChan <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-logChan:
			if !ok {
				return
			}

			m.logMu.Lock()
			m.logLines = append(m.logLines, line)
			if len(m.logLines) > maxLogLines {
				m.logLines = m.logLines[len(m.logLines)-maxLogLines:]
			}
			m.logMu.Unlock()

			m.logEvent.Notify(line)
		}
	}
}

// GetLogTail returns the last n lines of logs
func (m *UIModel) GetLogTail(n int) []string {
	m.logMu.RLock()
	defer m.logMu.RUnlock()

	if n <= 0 {
		return []string{}
	}
	start := max(len(m.logLines)-n, 0)
	result := make([]string, len(m.logLines)-start)
	copy(result, m.logLines[start:])
	return result
}
