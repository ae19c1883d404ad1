package workout

import "math/rand/v2"

var motivationalMessages = []string{
	"You've got this!",
	"Strong body, strong mind!",
	"Keep that form tight!",
	"Breathe and push through!",
	"Every rep counts!",
	"Stay focused, stay strong!",
	"Your future self will thank you!",
	"Pain is temporary, pride is forever!",
}

const (
	completeMessage  = "Workout complete! Amazing job!"
	finalPushMessage = "Final push! Give it everything!"
	almostMessage    = "Almost there, don't stop now!"
	halfwayMessage   = "Halfway done, keep it up!"
)

// MessagePicker returns an index in [0, n).
type MessagePicker func(n int) int

func randomPicker(n int) int {
	return rand.IntN(n)
}
