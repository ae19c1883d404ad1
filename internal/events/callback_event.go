package events

// CallbackEvent is a typed pub/sub hub that invokes listener callbacks
// synchronously, in registration order, on the publishing goroutine.
type CallbackEvent[T any] struct {
	reg registry[T, func(T)]
}

// NewCallbackEvent creates a CallbackEvent. When replayLast is true, a listener
// registered after the first Notify is immediately called with the most
// recent value.
func NewCallbackEvent[T any](replayLast bool) *CallbackEvent[T] {
	e := &CallbackEvent[T]{}
	e.reg.replay = replayLast
	return e
}

// Listen registers callback and returns a function that removes it.
func (e *CallbackEvent[T]) Listen(callback func(T)) func() {
	if callback == nil {
		panic("CallbackEvent: callback cannot be nil")
	}

	id, last, replay := e.reg.add(callback)
	if replay {
		callback(last)
	}
	return func() { e.reg.remove(id) }
}

// Notify calls every registered callback with value. Callbacks run outside
// the internal lock, so they may register or remove listeners themselves.
func (e *CallbackEvent[T]) Notify(value T) {
	for _, callback := range e.reg.publish(value) {
		callback(value)
	}
}

// Last returns the most recently published value, if any.
func (e *CallbackEvent[T]) Last() (T, bool) {
	return e.reg.lastValue()
}

// ListenerCount returns the number of registered listeners.
func (e *CallbackEvent[T]) ListenerCount() int {
	return e.reg.count()
}
