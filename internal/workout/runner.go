package workout

import (
	"log"
	"sync"
	"time"

	"github.com/lowaak/smart-trainer/hiit-timer-app/internal/events"
	"github.com/lowaak/smart-trainer/hiit-timer-app/internal/safego"
)

// TickInterval is the period of the drive loop.
const TickInterval = 1 * time.Second

// runnerCommand represents commands sent to the runner goroutine
type runnerCommand int

const (
	cmdToggle runnerCommand = iota
	cmdSkip
	cmdStop
	cmdMute
	cmdSnapshot
)

type commandRequest struct {
	cmd   runnerCommand
	reply chan Snapshot
}

// Runner drives a Session from a single goroutine. Control methods block
// until the goroutine has applied them, so once Stop returns no tick from
// before the stop can still reach the session.
//
// The tick source is armed only while the session runs. Every phase or
// exercise change replaces it with a fresh handle so the new interval gets
// a full first second.
type Runner struct {
	session *Session
	clock   Clock
	logger  *log.Logger

	stateEvent        *events.ChannelEvent[Snapshot]
	notificationEvent *events.CallbackEvent[Notification]

	// Owned by the loop goroutine.
	ticker Ticker

	cmdChan      chan commandRequest
	doneChan     chan struct{}
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

// NewRunner validates plan, creates its session and starts the drive loop.
// The session starts paused.
func NewRunner(plan Plan, clock Clock, logger *log.Logger, opts ...SessionOption) (*Runner, error) {
	if clock == nil {
		panic("Runner: clock cannot be nil")
	}
	if logger == nil {
		panic("Runner: logger cannot be nil")
	}

	session, err := NewSession(plan, opts...)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		session:           session,
		clock:             clock,
		logger:            logger,
		stateEvent:        events.NewChannelEvent[Snapshot](true),
		notificationEvent: events.NewCallbackEvent[Notification](false),
		cmdChan:           make(chan commandRequest, 1),
		doneChan:          make(chan struct{}),
	}
	r.stateEvent.Notify(session.Snapshot())

	safego.GoWithWaitGroup(&r.wg, logger, r.runLoop)

	logger.Printf("Runner: Plan '%s' loaded (%d exercises x %d rounds, rest %ds, total %s)",
		plan.Name, plan.ExerciseCount(), plan.TotalRounds, plan.RestSeconds, FormatTime(plan.TotalSeconds()))
	return r, nil
}

// ListenToState registers ch for snapshots after every change. The current
// snapshot is sent immediately.
func (r *Runner) ListenToState(ch chan<- Snapshot) func() {
	return r.stateEvent.Listen(ch)
}

// ListenToNotifications registers cb for cues. cb runs on the runner
// goroutine and must not call back into the Runner.
func (r *Runner) ListenToNotifications(cb func(Notification)) func() {
	return r.notificationEvent.Listen(cb)
}

// Toggle starts, pauses or resumes the session.
func (r *Runner) Toggle() Snapshot {
	return r.send(cmdToggle)
}

// Skip ends the current phase immediately.
func (r *Runner) Skip() Snapshot {
	return r.send(cmdSkip)
}

// Stop resets the session. No tick is applied after Stop returns until the
// session is started again.
func (r *Runner) Stop() Snapshot {
	return r.send(cmdStop)
}

// ToggleMute flips the mute flag.
func (r *Runner) ToggleMute() Snapshot {
	return r.send(cmdMute)
}

// Snapshot returns the current state after all earlier commands and ticks
// have been applied.
func (r *Runner) Snapshot() Snapshot {
	return r.send(cmdSnapshot)
}

// Shutdown stops the drive loop. Safe to call multiple times.
func (r *Runner) Shutdown() {
	r.shutdownOnce.Do(func() {
		close(r.doneChan)
		r.wg.Wait()
		r.logger.Printf("Runner: Shutdown complete")
	})
}

func (r *Runner) send(cmd runnerCommand) Snapshot {
	req := commandRequest{cmd: cmd, reply: make(chan Snapshot, 1)}
	select {
	case r.cmdChan <- req:
	case <-r.doneChan:
		return r.lastSnapshot()
	}
	select {
	case snap := <-req.reply:
		return snap
	case <-r.doneChan:
		return r.lastSnapshot()
	}
}

func (r *Runner) lastSnapshot() Snapshot {
	snap, _ := r.stateEvent.Last()
	return snap
}

// --- Loop goroutine only below this point ---

func (r *Runner) runLoop() {
	defer r.disarm()

	for {
		select {
		case <-r.doneChan:
			return
		case req := <-r.cmdChan:
			r.handleCommand(req)
		case <-r.tickChan():
			r.handleTick()
		}
	}
}

// tickChan is nil while disarmed, which blocks that select case.
func (r *Runner) tickChan() <-chan time.Time {
	if r.ticker == nil {
		return nil
	}
	return r.ticker.C()
}

func (r *Runner) arm() {
	if r.ticker != nil {
		r.ticker.Stop()
	}
	r.ticker = r.clock.NewTicker(TickInterval)
}

func (r *Runner) disarm() {
	if r.ticker != nil {
		r.ticker.Stop()
		r.ticker = nil
	}
}

func (r *Runner) handleCommand(req commandRequest) {
	var notifications []Notification

	switch req.cmd {
	case cmdToggle:
		firstStart := r.session.State().StartedAt.IsZero()
		if r.session.ToggleRunning(r.clock.Now()) {
			r.arm()
			r.logger.Printf("Runner: Running")
			if firstStart && r.session.CountdownDue() {
				st := r.session.State()
				notifications = append(notifications, Notification{Kind: NotificationCountdown, From: st.Phase, To: st.Phase})
			}
		} else {
			r.disarm()
			r.logger.Printf("Runner: Paused")
		}
	case cmdSkip:
		res := r.session.Skip()
		if res.Transitioned {
			r.logger.Printf("Runner: Skipped %s", res.From)
			notifications = r.tickNotifications(res)
		}
	case cmdStop:
		r.disarm()
		before := r.session.Snapshot()
		r.session.Stop()
		r.logger.Printf("Runner: Stopped after %s", FormatTime(before.State.ElapsedSeconds))
		notifications = append(notifications, Notification{
			Kind: NotificationStopped, From: before.State.Phase, To: PhaseWork, Snapshot: before,
		})
	case cmdMute:
		muted := r.session.ToggleMute()
		r.logger.Printf("Runner: Muted=%v", muted)
	}

	snap := r.session.Snapshot()
	if req.cmd != cmdSnapshot {
		r.publish(snap, notifications)
	}
	req.reply <- snap
}

func (r *Runner) handleTick() {
	res := r.session.Tick()
	if !res.Ticked {
		// Tick raced with a pause; the session ignored it.
		r.disarm()
		return
	}

	r.publish(r.session.Snapshot(), r.tickNotifications(res))
}

// tickNotifications lists the phase change first so a countdown raised on
// entry to a short phase follows it.
func (r *Runner) tickNotifications(res TickResult) []Notification {
	var notifications []Notification
	if res.Transitioned {
		notifications = append(notifications, r.afterTransition(res)...)
	}
	if res.Countdown {
		notifications = append(notifications, Notification{Kind: NotificationCountdown, From: res.To, To: res.To})
	}
	return notifications
}

// afterTransition re-arms or disarms the tick source for the new phase.
func (r *Runner) afterTransition(res TickResult) []Notification {
	st := r.session.State()
	if res.Completed {
		r.disarm()
		r.logger.Printf("Runner: Workout complete, %.1f kcal in %s",
			st.CaloriesBurned, FormatTime(st.ElapsedSeconds))
		return []Notification{{Kind: NotificationComplete, From: res.From, To: res.To}}
	}

	if st.IsRunning {
		r.arm()
	}
	r.logger.Printf("Runner: %s -> %s (round %d/%d, exercise %d/%d)",
		res.From, res.To, st.CurrentRound, r.session.Plan().TotalRounds,
		st.CurrentExerciseIndex+1, r.session.Plan().ExerciseCount())
	return []Notification{{Kind: NotificationPhaseChanged, From: res.From, To: res.To}}
}

func (r *Runner) publish(snap Snapshot, notifications []Notification) {
	r.stateEvent.Notify(snap)
	for _, n := range notifications {
		if n.Kind != NotificationStopped {
			n.Snapshot = snap
		}
		r.notificationEvent.Notify(n)
	}
}
