package events

// ChannelEvent is a typed pub/sub hub that delivers values to listener
// channels. Sends never block: a listener whose buffer is full misses the
// value, so listeners that only care about the latest state should use a
// buffered channel and read it promptly.
type ChannelEvent[T any] struct {
	reg registry[T, chan<- T]
}

// NewChannelEvent creates a ChannelEvent. When replayLast is true, a channel
// registered after the first Notify immediately receives the most recent value.
func NewChannelEvent[T any](replayLast bool) *ChannelEvent[T] {
	e := &ChannelEvent[T]{}
	e.reg.replay = replayLast
	return e
}

// Listen registers ch and returns a function that removes it.
func (e *ChannelEvent[T]) Listen(ch chan<- T) func() {
	if ch == nil {
		panic("ChannelEvent: channel cannot be nil")
	}

	id, last, replay := e.reg.add(ch)
	if replay {
		trySend(ch, last)
	}
	return func() { e.reg.remove(id) }
}

// Notify sends value to every registered channel without blocking.
func (e *ChannelEvent[T]) Notify(value T) {
	for _, ch := range e.reg.publish(value) {
		trySend(ch, value)
	}
}

// Last returns the most recently published value, if any.
func (e *ChannelEvent[T]) Last() (T, bool) {
	return e.reg.lastValue()
}

// ListenerCount returns the number of registered listeners.
func (e *ChannelEvent[T]) ListenerCount() int {
	return e.reg.count()
}

func trySend[T any](ch chan<- T, value T) {
	select {
	case ch <- value:
	default:
	}
}
