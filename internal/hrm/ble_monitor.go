package hrm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"tinygo.org/x/bluetooth"

	"github.com/lowaak/smart-trainer/hiit-timer-app/internal/events"
	"github.com/lowaak/smart-trainer/hiit-timer-app/internal/safego"
)

var (
	ErrNoMonitorFound       = errors.New("no heart rate monitor found")
	ErrCharacteristicAbsent = errors.New("heart rate measurement characteristic not found")
)

// BLEMonitor connects to the first chest strap advertising the Heart Rate
// service and publishes its measurements.
type BLEMonitor struct {
	adapter *bluetooth.Adapter
	logger  *log.Logger

	serviceUUID bluetooth.UUID
	measureUUID bluetooth.UUID

	readings *events.ChannelEvent[Reading]

	mu        sync.Mutex
	device    bluetooth.Device
	connected bool
	name      string

	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

// NewBLEMonitor creates a monitor on adapter. Call Start to scan and connect.
func NewBLEMonitor(adapter *bluetooth.Adapter, logger *log.Logger) *BLEMonitor {
	if adapter == nil {
		panic("BLEMonitor: adapter cannot be nil")
	}
	if logger == nil {
		panic("BLEMonitor: logger cannot be nil")
	}

	serviceUUID, err := bluetooth.ParseUUID(HeartRateServiceUUID)
	if err != nil {
		panic(fmt.Sprintf("BLEMonitor: bad service uuid: %v", err))
	}
	measureUUID, err := bluetooth.ParseUUID(HeartRateMeasurementUUID)
	if err != nil {
		panic(fmt.Sprintf("BLEMonitor: bad characteristic uuid: %v", err))
	}

	return &BLEMonitor{
		adapter:     adapter,
		logger:      logger,
		serviceUUID: serviceUUID,
		measureUUID: measureUUID,
		readings:    events.NewChannelEvent[Reading](true),
	}
}

func (m *BLEMonitor) ListenToReadings(ch chan<- Reading) func() {
	return m.readings.Listen(ch)
}

// Start enables the adapter, scans until a strap is found or ctx is done,
// connects and subscribes to measurement notifications.
func (m *BLEMonitor) Start(ctx context.Context) error {
	m.adapter.SetConnectHandler(func(device bluetooth.Device, connected bool) {
		m.logger.Printf("BLEMonitor: %s connected=%v", device.Address.String(), connected)
		if !connected {
			m.mu.Lock()
			m.connected = false
			m.mu.Unlock()
		}
	})
	if err := m.adapter.Enable(); err != nil {
		return fmt.Errorf("enabling bluetooth adapter: %w", err)
	}

	result, err := m.scan(ctx)
	if err != nil {
		return err
	}
	return m.connect(result)
}

func (m *BLEMonitor) scan(ctx context.Context) (bluetooth.ScanResult, error) {
	found := make(chan bluetooth.ScanResult, 1)
	scanDone := make(chan error, 1)

	m.logger.Printf("BLEMonitor: Scanning for heart rate monitors")
	safego.GoWithWaitGroup(&m.wg, m.logger, func() {
		scanDone <- m.adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
			if !m.advertisesHeartRate(result) {
				return
			}
			select {
			case found <- result:
				if err := adapter.StopScan(); err != nil {
					m.logger.Printf("BLEMonitor: StopScan failed: %v", err)
				}
			default:
			}
		})
	})

	select {
	case result := <-found:
		return result, nil
	case err := <-scanDone:
		select {
		case result := <-found:
			return result, nil
		default:
		}
		if err != nil {
			return bluetooth.ScanResult{}, fmt.Errorf("scanning: %w", err)
		}
		return bluetooth.ScanResult{}, ErrNoMonitorFound
	case <-ctx.Done():
		if err := m.adapter.StopScan(); err != nil {
			m.logger.Printf("BLEMonitor: StopScan failed: %v", err)
		}
		return bluetooth.ScanResult{}, fmt.Errorf("%w: %w", ErrNoMonitorFound, ctx.Err())
	}
}

func (m *BLEMonitor) advertisesHeartRate(result bluetooth.ScanResult) bool {
	for _, uuid := range result.ServiceUUIDs() {
		if uuid == m.serviceUUID {
			return true
		}
	}
	return false
}

func (m *BLEMonitor) connect(result bluetooth.ScanResult) error {
	name := result.LocalName()
	if name == "" {
		name = result.Address.String()
	}
	m.logger.Printf("BLEMonitor: Connecting to %s [RSSI: %d]", name, result.RSSI)

	device, err := m.adapter.Connect(result.Address, bluetooth.ConnectionParams{})
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", name, err)
	}

	services, err := device.DiscoverServices([]bluetooth.UUID{m.serviceUUID})
	if err != nil || len(services) == 0 {
		_ = device.Disconnect()
		return fmt.Errorf("discovering heart rate service on %s: %w", name, errors.Join(ErrCharacteristicAbsent, err))
	}

	chars, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{m.measureUUID})
	if err != nil || len(chars) == 0 {
		_ = device.Disconnect()
		return fmt.Errorf("discovering measurement characteristic on %s: %w", name, errors.Join(ErrCharacteristicAbsent, err))
	}

	m.mu.Lock()
	m.device = device
	m.connected = true
	m.name = name
	m.mu.Unlock()

	if err := chars[0].EnableNotifications(m.handleMeasurement); err != nil {
		_ = m.disconnect()
		return fmt.Errorf("subscribing to %s: %w", name, err)
	}
	m.logger.Printf("BLEMonitor: Subscribed to %s", name)
	return nil
}

// handleMeasurement runs on the bluetooth stack's goroutine.
func (m *BLEMonitor) handleMeasurement(buf []byte) {
	bpm, err := ParseHeartRateMeasurement(buf)
	if err != nil {
		m.logger.Printf("BLEMonitor: %v", err)
		return
	}

	m.mu.Lock()
	name := m.name
	m.mu.Unlock()

	m.readings.Notify(Reading{BPM: bpm, Source: name, At: time.Now()})
}

func (m *BLEMonitor) disconnect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return nil
	}
	m.connected = false
	return m.device.Disconnect()
}

// Shutdown disconnects the strap and stops any scan in progress.
func (m *BLEMonitor) Shutdown() {
	m.shutdownOnce.Do(func() {
		if err := m.adapter.StopScan(); err != nil {
			m.logger.Printf("BLEMonitor: StopScan on shutdown: %v", err)
		}
		if err := m.disconnect(); err != nil {
			m.logger.Printf("BLEMonitor: Disconnect failed: %v", err)
		}
		m.wg.Wait()
		m.logger.Printf("BLEMonitor: Shutdown complete")
	})
}
