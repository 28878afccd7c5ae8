package contact

import (
	"sync"
	"testing"
)

func TestEventListeners(t *testing.T) {
	var e Event[int]

	sum := 0
	e.AddListener(func(v int) { sum += v })
	e.AddListener(func(v int) { sum += v * 10 })
	e.AddListener(nil)

	if e.ListenerCount() != 2 {
		t.Errorf("Expected 2 listeners, got %d", e.ListenerCount())
	}

	e.Invoke(2)
	if sum != 22 {
		t.Errorf("Expected sum 22, got %d", sum)
	}

	e.RemoveAllListeners()
	e.Invoke(2)
	if sum != 22 {
		t.Errorf("Expected no calls after RemoveAllListeners, got sum %d", sum)
	}
}

func TestEventAddDuringInvoke(t *testing.T) {
	var e Event[int]
	calls := 0
	e.AddListener(func(int) {
		calls++
		e.AddListener(func(int) { calls++ })
	})

	e.Invoke(0)
	if calls != 1 {
		t.Errorf("Expected listeners added during Invoke to wait for the next call, got %d calls", calls)
	}
	if e.ListenerCount() != 2 {
		t.Errorf("Expected 2 listeners, got %d", e.ListenerCount())
	}
}

func TestEventConcurrentAdd(t *testing.T) {
	var e Event[int]
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.AddListener(func(int) {})
		}()
	}
	wg.Wait()

	if e.ListenerCount() != 16 {
		t.Errorf("Expected 16 listeners, got %d", e.ListenerCount())
	}
}

func TestListenersDispatch(t *testing.T) {
	var l Listeners[int]
	var intersects, enters, exits []Pair[int]

	l.OnIntersect.AddListener(func(c Contact[int]) { intersects = append(intersects, c.Pair) })
	l.OnEnter.AddListener(func(c Contact[int]) { enters = append(enters, c.Pair) })
	l.OnExit.AddListener(func(c Contact[int]) { exits = append(exits, c.Pair) })

	l.Dispatch([]Contact[int]{
		{Phase: Enter, Pair: Pair[int]{A: 1, B: 2}},
		{Phase: Stay, Pair: Pair[int]{A: 3, B: 4}},
		{Phase: Exit, Pair: Pair[int]{A: 5, B: 6}},
	})

	if len(enters) != 1 || enters[0] != (Pair[int]{A: 1, B: 2}) {
		t.Errorf("Expected one enter for (1,2), got %v", enters)
	}
	if len(intersects) != 2 {
		t.Errorf("Expected intersect for enter and stay, got %v", intersects)
	}
	if len(exits) != 1 || exits[0] != (Pair[int]{A: 5, B: 6}) {
		t.Errorf("Expected one exit for (5,6), got %v", exits)
	}
}
