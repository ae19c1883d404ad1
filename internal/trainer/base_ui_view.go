package trainer

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/lowaak/smart-trainer/hiit-timer-app/internal/safego"
)

// BaseUIView contains the base logic shared by all UI implementations
type BaseUIView struct {
	uiViewImpl   UIViewImpl
	uiModel      *UIModel
	uiController *UIController
	context      context.Context
	cancelFunc   context.CancelFunc
	waitGroup    sync.WaitGroup
	logger       *log.Logger
}

// NewBaseUIViewArg holds the arguments for creating a new BaseUIView
type NewBaseUIViewArg struct {
	UIViewImpl   UIViewImpl
	UIModel      *UIModel
	UIController *UIController
	Logger       *log.Logger
}

// NewBaseUIView creates a new BaseUIView with the given implementation
func NewBaseUIView(args NewBaseUIViewArg) *BaseUIView {
	if args.Logger == nil {
		panic("BaseUIView: logger cannot be nil")
	}
	if args.UIViewImpl == nil {
		panic("BaseUIView: UIViewImpl cannot be nil")
	}
	if args.UIModel == nil {
		panic("BaseUIView: UIModel cannot be nil")
	}
	if args.UIController == nil {
		panic("BaseUIView: UIController cannot be nil")
	}
	ctx, cancel := context.WithCancel(context.Background())

	base := &BaseUIView{
		uiViewImpl:   args.UIViewImpl,
		uiModel:      args.UIModel,
		uiController: args.UIController,
		context:      ctx,
		cancelFunc:   cancel,
		logger:       args.Logger,
	}

	args.UIViewImpl.Initialize(args.UIController)
	args.UIViewImpl.SetupKeyboardHandlers(args.UIController)
	args.UIViewImpl.SetPlanList(args.UIModel.Plans())
	args.UIViewImpl.SetMode(args.UIModel.GetUIState().Mode)

	safego.GoWithWaitGroup(&base.waitGroup, base.logger, base.monitorLogResize)
	base.updateLogDisplay()

	base.setupEventListeners()

	return base
}

// listen forwards every value of one model event to fn on its own goroutine
// and redraws afterwards. The event replays its last value, so fn also sees
// the state at registration time.
func listen[T any](base *BaseUIView, register func(chan<- T) func(), fn func(T)) {
	ch := make(chan T, 1)
	unregister := register(ch)
	safego.GoWithWaitGroup(&base.waitGroup, base.logger, func() {
		defer unregister()
		for {
			select {
			case <-base.context.Done():
				return
			case v, ok := <-ch:
				if !ok {
					return
				}
				fn(v)
				base.draw()
			}
		}
	})
}

func (base *BaseUIView) setupEventListeners() {
	m := base.uiModel
	impl := base.uiViewImpl

	// Show the tail whenever a new line arrives
	listen(base, m.ListenToLog, func(string) { base.updateLogDisplay() })

	listen(base, m.ListenToUIState, func(s UIState) { impl.SetMode(s.Mode) })
	listen(base, m.ListenToSetup, impl.UpdateSetup)
	listen(base, m.ListenToSession, impl.UpdateSession)
	listen(base, m.ListenToHeartRate, impl.UpdateHeartRate)
	listen(base, m.ListenToHistory, impl.UpdateHistory)
	listen(base, m.ListenToCue, impl.ShowCue)

	closeChan := make(chan struct{}, 1)
	closeUnregister := m.ListenToCloseApplication(closeChan)
	safego.GoWithWaitGroup(&base.waitGroup, base.logger, func() {
		defer closeUnregister()
		select {
		case <-base.context.Done():
			return
		case _, ok := <-closeChan:
			if !ok {
				return
			}
			impl.Stop()
		}
	})
}

func (base *BaseUIView) draw() {
	if err := base.uiViewImpl.Draw(); err != nil {
		base.logger.Printf("BaseUIView: Error drawing: %v", err)
	}
}

func (base *BaseUIView) updateLogDisplay() {
	height := base.uiViewImpl.GetLogViewHeight()
	if height <= 0 {
		return
	}

	logLines := base.uiModel.GetLogTail(height)

	base.uiViewImpl.ClearLogView()
	for _, line := range logLines {
		if err := base.uiViewImpl.WriteLogLine(line); err != nil {
			base.logger.Printf("BaseUIView: Error writing to log view: %v", err)
		}
	}
}

func (base *BaseUIView) monitorLogResize() {
	var lastHeight int
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-base.context.Done():
			return
		case <-ticker.C:
			height := base.uiViewImpl.GetLogViewHeight()
			if height != lastHeight && height > 0 {
				lastHeight = height
				base.updateLogDisplay()
				base.draw()
			}
		}
	}
}

// Shutdown stops all goroutines and waits for them to finish
func (base *BaseUIView) Shutdown() {
	base.logger.Println("BaseUIView: Shutting down")
	base.cancelFunc()
	base.waitGroup.Wait()
	base.logger.Println("BaseUIView: Shutdown complete")
}

// Run starts the UI and blocks until it exits
func (base *BaseUIView) Run() error {
	return base.uiViewImpl.Run()
}
