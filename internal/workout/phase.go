package workout

// Phase is the current stage of a session. Pausing is tracked separately by
// SessionState.IsRunning.
type Phase int

const (
	PhaseWork Phase = iota
	PhaseRest
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseWork:
		return "WORK"
	case PhaseRest:
		return "REST"
	case PhaseComplete:
		return "COMPLETE"
	default:
		return "UNKNOWN"
	}
}

// Heart-rate zones used by the engine. Zone 3 is the idle default; WORK
// intervals set the zone from the exercise's energy cost and REST drops it to
// the recovery zone.
const (
	DefaultHeartRateZone  = 3
	RecoveryHeartRateZone = 2
)

// ZoneForEnergyCost maps an exercise's energy cost per second to a heart-rate
// zone.
func ZoneForEnergyCost(costPerSecond float64) int {
	switch {
	case costPerSecond > 0.20:
		return 4
	case costPerSecond > 0.15:
		return 3
	default:
		return RecoveryHeartRateZone
	}
}
