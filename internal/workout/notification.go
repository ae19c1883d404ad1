package workout

// NotificationKind identifies a cue raised by the runner.
type NotificationKind int

const (
	// NotificationCountdown fires on each of the last three seconds of a
	// phase. It is not raised while muted.
	NotificationCountdown NotificationKind = iota
	NotificationPhaseChanged
	NotificationComplete
	// NotificationStopped carries the snapshot taken just before the reset.
	NotificationStopped
)

func (k NotificationKind) String() string {
	switch k {
	case NotificationCountdown:
		return "countdown"
	case NotificationPhaseChanged:
		return "phase-changed"
	case NotificationComplete:
		return "complete"
	case NotificationStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

type Notification struct {
	Kind     NotificationKind
	From     Phase
	To       Phase
	Snapshot Snapshot
}
