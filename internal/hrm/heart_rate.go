// Package hrm reads live heart rate from a Bluetooth LE chest strap, or from
// a simulated one when no strap is available.
package hrm

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

// GATT identifiers of the standard Heart Rate service.
const (
	HeartRateServiceUUID     = "0000180d-0000-1000-8000-00805f9b34fb"
	HeartRateMeasurementUUID = "00002a37-0000-1000-8000-00805f9b34fb"
)

var ErrMeasurementTooShort = errors.New("heart rate measurement too short")

// Reading is one heart-rate sample.
type Reading struct {
	BPM    uint16
	Source string
	At     time.Time
}

// Monitor is a source of heart-rate readings.
type Monitor interface {
	// Start connects to the source. It blocks until readings are flowing or
	// ctx is done.
	Start(ctx context.Context) error
	ListenToReadings(ch chan<- Reading) func()
	Shutdown()
}

// ParseHeartRateMeasurement decodes the bpm value of a Heart Rate
// Measurement notification. Bit 0 of the flags byte selects an 8-bit or a
// little-endian 16-bit value.
func ParseHeartRateMeasurement(buf []byte) (uint16, error) {
	if len(buf) < 2 {
		return 0, fmt.Errorf("%w: %d bytes", ErrMeasurementTooShort, len(buf))
	}

	if buf[0]&0x01 == 0 {
		return uint16(buf[1]), nil
	}
	if len(buf) < 3 {
		return 0, fmt.Errorf("%w: uint16 value in %d bytes", ErrMeasurementTooShort, len(buf))
	}
	return binary.LittleEndian.Uint16(buf[1:3]), nil
}

// ZoneForHeartRate returns the training zone (1-5) of bpm relative to maxHR,
// with zone boundaries at 60/70/80/90 percent. It returns 0 when either value
// is unknown.
func ZoneForHeartRate(bpm uint16, maxHR int) int {
	if bpm == 0 || maxHR <= 0 {
		return 0
	}
	pct := float64(bpm) / float64(maxHR)
	switch {
	case pct >= 0.9:
		return 5
	case pct >= 0.8:
		return 4
	case pct >= 0.7:
		return 3
	case pct >= 0.6:
		return 2
	default:
		return 1
	}
}

// TargetHeartRateForZone is the middle of a zone's bpm band.
func TargetHeartRateForZone(zone, maxHR int) float64 {
	zone = min(max(zone, 1), 5)
	return float64(maxHR) * (0.45 + 0.1*float64(zone))
}
