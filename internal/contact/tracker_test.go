package contact

import (
	"testing"

	"collide3d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func hit(nx float32) physics.CollisionData {
	return physics.CollisionData{Normal: rl.Vector3{X: nx}, Depth: 0.5}
}

func TestMakePair(t *testing.T) {
	p, swapped := MakePair(5, 2)
	if p.A != 2 || p.B != 5 || !swapped {
		t.Errorf("Expected (2,5) swapped, got (%d,%d) %v", p.A, p.B, swapped)
	}
	ps, swapped := MakePair("a", "b")
	if ps.A != "a" || ps.B != "b" || swapped {
		t.Errorf("Expected (a,b) unswapped, got (%s,%s) %v", ps.A, ps.B, swapped)
	}
}

func TestTrackerPhases(t *testing.T) {
	tr := NewTracker[int]()

	tr.Begin()
	tr.Record(1, 2, hit(1))
	contacts := tr.End()
	if len(contacts) != 1 || contacts[0].Phase != Enter {
		t.Fatalf("Expected one enter, got %v", contacts)
	}
	if !tr.Touching(2, 1) {
		t.Error("Expected pair to be touching")
	}

	tr.Begin()
	tr.Record(2, 1, hit(-1))
	contacts = tr.End()
	if len(contacts) != 1 || contacts[0].Phase != Stay {
		t.Fatalf("Expected one stay, got %v", contacts)
	}
	if contacts[0].A != 1 || contacts[0].B != 2 {
		t.Errorf("Expected pair (1,2), got (%d,%d)", contacts[0].A, contacts[0].B)
	}
	// Recorded from 2's side, stored from 1's side
	if contacts[0].Data.Normal.X != 1 {
		t.Errorf("Expected flipped normal X 1, got %f", contacts[0].Data.Normal.X)
	}

	tr.Begin()
	contacts = tr.End()
	if len(contacts) != 1 || contacts[0].Phase != Exit {
		t.Fatalf("Expected one exit, got %v", contacts)
	}
	if contacts[0].Data.Depth != 0.5 {
		t.Errorf("Expected exit to carry the last data, got %v", contacts[0].Data)
	}
	if tr.Active() != 0 || tr.Touching(1, 2) {
		t.Error("Expected no active pairs after exit")
	}

	tr.Begin()
	if contacts = tr.End(); len(contacts) != 0 {
		t.Errorf("Expected no contacts, got %v", contacts)
	}
}

func TestTrackerOrdering(t *testing.T) {
	tr := NewTracker[int]()

	tr.Begin()
	tr.Record(3, 4, hit(1))
	tr.Record(1, 2, hit(1))
	tr.End()

	tr.Begin()
	tr.Record(5, 6, hit(1))
	tr.Record(3, 4, hit(1))
	tr.Record(7, 7, hit(1))
	contacts := tr.End()

	want := []struct {
		phase Phase
		a, b  int
	}{
		{Enter, 5, 6},
		{Stay, 3, 4},
		{Exit, 1, 2},
	}
	if len(contacts) != len(want) {
		t.Fatalf("Expected %d contacts, got %v", len(want), contacts)
	}
	for i, w := range want {
		c := contacts[i]
		if c.Phase != w.phase || c.A != w.a || c.B != w.b {
			t.Errorf("Expected contact %d to be %s (%d,%d), got %s (%d,%d)", i, w.phase, w.a, w.b, c.Phase, c.A, c.B)
		}
	}
	if tr.Active() != 2 {
		t.Errorf("Expected 2 active pairs, got %d", tr.Active())
	}
}

func TestPhaseString(t *testing.T) {
	if Enter.String() != "enter" || Stay.String() != "stay" || Exit.String() != "exit" {
		t.Errorf("Unexpected phase names %s %s %s", Enter, Stay, Exit)
	}
}
