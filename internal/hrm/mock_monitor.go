package hrm

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lowaak/smart-trainer/hiit-timer-app/internal/events"
	"github.com/lowaak/smart-trainer/hiit-timer-app/internal/safego"
)

const mockSourceName = "Mock HRM"

// MockMonitorConfig configures the simulated strap.
type MockMonitorConfig struct {
	MaxHR      int
	RestingBPM float64
	Interval   time.Duration
	// MaxStepBPM bounds how far the simulated rate moves per sample.
	MaxStepBPM float64
	// TargetZone reports the zone the simulated athlete is working in.
	TargetZone func() int
	// ControlAddr, when set, serves a small HTTP API for overriding the rate
	// by hand, e.g. "localhost:8089".
	ControlAddr string
}

// MockMonitorState is served on /api/state.
type MockMonitorState struct {
	HeartRate       uint16  `json:"heartRate"`
	TargetHeartRate float64 `json:"targetHeartRate"`
	Override        uint16  `json:"override"`
}

// MockMonitor simulates a chest strap. Each sample is encoded as a Heart Rate
// Measurement packet and decoded again, so it travels the same path as real
// strap data.
type MockMonitor struct {
	logger *log.Logger
	config MockMonitorConfig

	readings *events.ChannelEvent[Reading]

	mu       sync.Mutex
	bpm      float64
	override uint16

	server       *http.Server
	doneChan     chan struct{}
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

func NewMockMonitor(logger *log.Logger, config MockMonitorConfig) *MockMonitor {
	if logger == nil {
		panic("MockMonitor: logger cannot be nil")
	}
	if config.MaxHR <= 0 {
		config.MaxHR = 185
	}
	if config.RestingBPM <= 0 {
		config.RestingBPM = 70
	}
	if config.Interval <= 0 {
		config.Interval = time.Second
	}
	if config.MaxStepBPM <= 0 {
		config.MaxStepBPM = 3
	}
	if config.TargetZone == nil {
		config.TargetZone = func() int { return 1 }
	}

	return &MockMonitor{
		logger:   logger,
		config:   config,
		readings: events.NewChannelEvent[Reading](true),
		bpm:      config.RestingBPM,
		doneChan: make(chan struct{}),
	}
}

func (m *MockMonitor) ListenToReadings(ch chan<- Reading) func() {
	return m.readings.Listen(ch)
}

// Start begins emitting samples and, if configured, serving the control API.
func (m *MockMonitor) Start(ctx context.Context) error {
	if m.config.ControlAddr != "" {
		m.server = &http.Server{
			Addr:              m.config.ControlAddr,
			Handler:           m.handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		safego.GoWithWaitGroup(&m.wg, m.logger, func() {
			m.logger.Printf("MockMonitor: Control API on http://%s", m.config.ControlAddr)
			if err := m.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				m.logger.Printf("MockMonitor: Control API error: %v", err)
			}
		})
	}

	safego.GoWithWaitGroup(&m.wg, m.logger, func() {
		ticker := time.NewTicker(m.config.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-m.doneChan:
				return
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				m.emit(now)
			}
		}
	})

	m.logger.Printf("MockMonitor: Started (max HR %d)", m.config.MaxHR)
	return nil
}

// Shutdown stops sampling and the control API.
func (m *MockMonitor) Shutdown() {
	m.shutdownOnce.Do(func() {
		close(m.doneChan)
		if m.server != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := m.server.Shutdown(ctx); err != nil {
				m.logger.Printf("MockMonitor: Error shutting down control API: %v", err)
			}
		}
		m.wg.Wait()
		m.logger.Printf("MockMonitor: Shutdown complete")
	})
}

// step advances the simulated rate toward its target and returns the new
// value rounded to whole beats.
func (m *MockMonitor) step() uint16 {
	m.mu.Lock()
	defer m.mu.Unlock()

	target := m.targetLocked()
	delta := target - m.bpm
	delta = min(max(delta, -m.config.MaxStepBPM), m.config.MaxStepBPM)
	m.bpm += delta
	return uint16(m.bpm + 0.5)
}

func (m *MockMonitor) targetLocked() float64 {
	if m.override > 0 {
		return float64(m.override)
	}
	return TargetHeartRateForZone(m.config.TargetZone(), m.config.MaxHR)
}

func (m *MockMonitor) emit(now time.Time) {
	packet := encodeMeasurement(m.step())
	bpm, err := ParseHeartRateMeasurement(packet)
	if err != nil {
		m.logger.Printf("MockMonitor: %v", err)
		return
	}
	m.readings.Notify(Reading{BPM: bpm, Source: mockSourceName, At: now})
}

// encodeMeasurement builds a Heart Rate Measurement packet, using the 16-bit
// format only when the value does not fit in a byte.
func encodeMeasurement(bpm uint16) []byte {
	if bpm <= 0xFF {
		return []byte{0x00, byte(bpm)}
	}
	return []byte{0x01, byte(bpm), byte(bpm >> 8)}
}

func (m *MockMonitor) state() MockMonitorState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return MockMonitorState{
		HeartRate:       uint16(m.bpm + 0.5),
		TargetHeartRate: m.targetLocked(),
		Override:        m.override,
	}
}

// SetOverride pins the simulated rate's target. Zero returns control to the
// workout zone.
func (m *MockMonitor) SetOverride(bpm uint16) {
	m.mu.Lock()
	m.override = bpm
	m.mu.Unlock()
	m.logger.Printf("MockMonitor: Override set to %d bpm", bpm)
}

func (m *MockMonitor) handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/api/state", m.handleGetState)
	r.Get("/api/set", m.handleSet)
	r.Put("/api/heart-rate/{bpm}", m.handlePutHeartRate)
	r.Delete("/api/heart-rate", m.handleClearOverride)
	return r
}

func (m *MockMonitor) handleGetState(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(m.state()); err != nil {
		m.logger.Printf("MockMonitor: Error encoding state: %v", err)
	}
}

// handleSet accepts /api/set?heartRate=N so the rate can be changed from a
// browser address bar.
func (m *MockMonitor) handleSet(w http.ResponseWriter, r *http.Request) {
	m.setFromString(w, r, r.URL.Query().Get("heartRate"))
}

func (m *MockMonitor) handlePutHeartRate(w http.ResponseWriter, r *http.Request) {
	m.setFromString(w, r, chi.URLParam(r, "bpm"))
}

// handleClearOverride returns to the simulated rate.
func (m *MockMonitor) handleClearOverride(w http.ResponseWriter, r *http.Request) {
	m.SetOverride(0)
	m.handleGetState(w, r)
}

func (m *MockMonitor) setFromString(w http.ResponseWriter, r *http.Request, raw string) {
	value, err := strconv.ParseUint(raw, 10, 16)
	if err != nil {
		http.Error(w, "heart rate must be a number between 0 and 65535", http.StatusBadRequest)
		return
	}
	m.SetOverride(uint16(value))
	m.handleGetState(w, r)
}
