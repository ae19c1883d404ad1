package trainer

// UIMode represents the different screens of the application
type UIMode int

const (
	UIModeHome UIMode = iota
	UIModeConfigure
	UIModeTimer
)

// UIModeInfo contains metadata about a UI mode
type UIModeInfo struct {
	Mode        UIMode
	DisplayName string
	KeyBinding  rune
}

// AllUIModes is the ordered list of all available UI modes
var AllUIModes = []UIModeInfo{
	{Mode: UIModeHome, DisplayName: "Plans", KeyBinding: '1'},
	{Mode: UIModeConfigure, DisplayName: "Configure", KeyBinding: '2'},
	{Mode: UIModeTimer, DisplayName: "Timer", KeyBinding: '3'},
}

// GetUIModeByKey returns the UIMode for a given key binding
func GetUIModeByKey(key rune) (UIMode, bool) {
	for _, info := range AllUIModes {
		if info.KeyBinding == key {
			return info.Mode, true
		}
	}
	return 0, false
}

// GetUIModeInfo returns the UIModeInfo for a given mode
func GetUIModeInfo(mode UIMode) (UIModeInfo, bool) {
	for _, info := range AllUIModes {
		if info.Mode == mode {
			return info, true
		}
	}
	return UIModeInfo{}, false
}

// Configuration screen limits
const (
	MinRounds       = 1
	MaxRounds       = 10
	MinRestSeconds  = 0
	MaxRestSeconds  = 60
	RestStepSeconds = 5
)

const (
	recentHistoryLimit = 8
	maxLogLines        = 1000
)
