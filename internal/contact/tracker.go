// Package contact turns per-tick intersection results into enter/stay/exit
// contacts and fans them out to listeners. The physics core never calls back;
// the resolver owning a Tracker decides when contacts are dispatched.
package contact

import (
	"cmp"
	"slices"

	"collide3d/internal/physics"
)

// Phase of a contact between two ticks
type Phase uint8

const (
	Enter Phase = iota
	Stay
	Exit
)

func (p Phase) String() string {
	switch p {
	case Enter:
		return "enter"
	case Stay:
		return "stay"
	default:
		return "exit"
	}
}

// Pair is an unordered pair of owner keys stored smaller first
type Pair[K cmp.Ordered] struct {
	A, B K
}

// MakePair orders the keys and reports whether they were swapped
func MakePair[K cmp.Ordered](a, b K) (Pair[K], bool) {
	if a > b {
		return Pair[K]{A: b, B: a}, true
	}
	return Pair[K]{A: a, B: b}, false
}

// Contact is one pair's state change. Data is seen from A: its normal points from B toward A.
// Exit contacts carry the last data recorded for the pair.
type Contact[K cmp.Ordered] struct {
	Phase Phase
	Pair[K]
	Data physics.CollisionData
}

// Tracker compares the pairs recorded this tick against the previous tick.
// It is meant for a single resolver goroutine.
type Tracker[K cmp.Ordered] struct {
	active   map[Pair[K]]physics.CollisionData // pairs from last tick
	current  map[Pair[K]]physics.CollisionData // pairs this tick
	contacts []Contact[K]
}

func NewTracker[K cmp.Ordered]() *Tracker[K] {
	return &Tracker[K]{
		active:  make(map[Pair[K]]physics.CollisionData),
		current: make(map[Pair[K]]physics.CollisionData),
	}
}

// Begin starts a tick
func (t *Tracker[K]) Begin() {
	clear(t.current)
}

// Record marks a and b as intersecting this tick. data is seen from a.
// Recording a key against itself is ignored.
func (t *Tracker[K]) Record(a, b K, data physics.CollisionData) {
	pair, swapped := MakePair(a, b)
	if pair.A == pair.B {
		return
	}
	if swapped {
		data = data.Flip()
	}
	t.current[pair] = data
}

// End finishes the tick and returns its contacts ordered by phase, then pair.
// The returned slice is reused by the next call to End.
func (t *Tracker[K]) End() []Contact[K] {
	t.contacts = t.contacts[:0]

	for pair, data := range t.current {
		phase := Stay
		if _, ok := t.active[pair]; !ok {
			phase = Enter
		}
		t.contacts = append(t.contacts, Contact[K]{Phase: phase, Pair: pair, Data: data})
	}
	for pair, data := range t.active {
		if _, ok := t.current[pair]; !ok {
			t.contacts = append(t.contacts, Contact[K]{Phase: Exit, Pair: pair, Data: data})
		}
	}

	slices.SortFunc(t.contacts, func(x, y Contact[K]) int {
		if c := cmp.Compare(x.Phase, y.Phase); c != 0 {
			return c
		}
		if c := cmp.Compare(x.A, y.A); c != 0 {
			return c
		}
		return cmp.Compare(x.B, y.B)
	})

	// Swap buffers
	t.active, t.current = t.current, t.active
	return t.contacts
}

// Active returns the number of pairs touching as of the last End
func (t *Tracker[K]) Active() int {
	return len(t.active)
}

// Touching reports whether the pair was touching as of the last End
func (t *Tracker[K]) Touching(a, b K) bool {
	pair, _ := MakePair(a, b)
	_, ok := t.active[pair]
	return ok
}
