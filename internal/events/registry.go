package events

import "sync"

// registry keeps listeners in registration order and optionally remembers the
// last published value so late listeners can be brought up to date.
type registry[T any, L any] struct {
	mu       sync.RWMutex
	entries  []entry[L]
	nextID   uint64
	replay   bool
	last     T
	hasValue bool
}

type entry[L any] struct {
	id       uint64
	listener L
}

func (r *registry[T, L]) add(listener L) (uint64, T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	r.entries = append(r.entries, entry[L]{id: id, listener: listener})
	return id, r.last, r.replay && r.hasValue
}

func (r *registry[T, L]) remove(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.entries {
		if e.id == id {
			r.entries = append(r.entries[:i:i], r.entries[i+1:]...)
			return
		}
	}
}

// publish records value as the last event and returns a snapshot of the
// listeners to call outside the lock.
func (r *registry[T, L]) publish(value T) []L {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.last = value
	r.hasValue = true

	listeners := make([]L, len(r.entries))
	for i, e := range r.entries {
		listeners[i] = e.listener
	}
	return listeners
}

func (r *registry[T, L]) lastValue() (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last, r.hasValue
}

func (r *registry[T, L]) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
