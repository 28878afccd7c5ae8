package contact

import (
	"cmp"
	"sync"
)

// Event is a multi-cast event. Listeners may be added from any goroutine;
// Invoke calls a snapshot of them outside the lock.
type Event[T any] struct {
	mu        sync.Mutex
	listeners []func(T)
}

// AddListener adds a callback to be invoked when the event fires
func (e *Event[T]) AddListener(callback func(T)) {
	if callback == nil {
		return
	}
	e.mu.Lock()
	e.listeners = append(e.listeners, callback)
	e.mu.Unlock()
}

// RemoveAllListeners clears all listeners
func (e *Event[T]) RemoveAllListeners() {
	e.mu.Lock()
	e.listeners = nil
	e.mu.Unlock()
}

// Invoke calls all registered listeners
func (e *Event[T]) Invoke(arg T) {
	e.mu.Lock()
	listeners := e.listeners
	e.mu.Unlock()

	for _, listener := range listeners {
		listener(arg)
	}
}

// ListenerCount returns the number of registered listeners
func (e *Event[T]) ListenerCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners)
}

// Listeners groups the three contact events of one owner or one world.
type Listeners[K cmp.Ordered] struct {
	// OnIntersect fires for every touching pair, entering or staying
	OnIntersect Event[Contact[K]]
	OnEnter     Event[Contact[K]]
	OnExit      Event[Contact[K]]
}

// Dispatch routes contacts to the matching events
func (l *Listeners[K]) Dispatch(contacts []Contact[K]) {
	for _, c := range contacts {
		switch c.Phase {
		case Enter:
			l.OnEnter.Invoke(c)
			l.OnIntersect.Invoke(c)
		case Stay:
			l.OnIntersect.Invoke(c)
		case Exit:
			l.OnExit.Invoke(c)
		}
	}
}
