package world

import "testing"

func TestAddAssignsIDs(t *testing.T) {
	s := NewState()
	a := s.Add(&Mobile{Name: "a"})
	b := s.Add(&Mobile{Name: "b"})
	if a.ID == 0 || b.ID == 0 || a.ID == b.ID {
		t.Fatalf("IDs = %d, %d", a.ID, b.ID)
	}
	if s.Get(a.ID) != a || s.Get(b.ID) != b {
		t.Fatal("lookup mismatch")
	}
	if s.Count() != 2 {
		t.Fatalf("Count = %d", s.Count())
	}

	// explicit IDs are honored and advance the allocator
	c := s.Add(&Mobile{ID: 100})
	d := s.Add(&Mobile{})
	if c.ID != 100 || d.ID != 101 {
		t.Fatalf("explicit/next IDs = %d, %d, want 100, 101", c.ID, d.ID)
	}
	if a.Reagents == nil || a.Skills == nil {
		t.Fatal("Add left maps nil")
	}
}

func TestRemoveMarksDeleted(t *testing.T) {
	s := NewState()
	m := s.Add(&Mobile{Name: "gone"})
	held := m // a timer callback would hold this pointer
	s.Remove(m.ID)

	if s.Get(m.ID) != nil {
		t.Fatal("removed mobile still retrievable")
	}
	if !held.Deleted || held.Alive() {
		t.Fatal("held pointer does not observe deletion")
	}
	s.Remove(m.ID) // no-op
	s.Remove(9999) // unknown, no-op
}

func TestInRange(t *testing.T) {
	s := NewState()
	a := s.Add(&Mobile{X: 10, Y: 10})
	b := s.Add(&Mobile{X: 13, Y: 8})

	// Chebyshev distance: max(3, 2) = 3
	if !s.InRange(a, b, 3) {
		t.Fatal("InRange(3) = false at distance 3")
	}
	if s.InRange(a, b, 2) {
		t.Fatal("InRange(2) = true at distance 3")
	}
	if s.InRange(nil, b, 10) || s.InRange(a, nil, 10) {
		t.Fatal("nil mobiles in range")
	}

	c := s.Add(&Mobile{X: 10, Y: 10, MapID: 1})
	if s.InRange(a, c, 10) {
		t.Fatal("cross-map mobiles in range")
	}
}

func TestLineOfSight(t *testing.T) {
	s := NewState()
	a := s.Add(&Mobile{X: 0, Y: 0})
	b := s.Add(&Mobile{X: 6, Y: 0})

	if !s.LineOfSight(a, b) {
		t.Fatal("open line blocked")
	}
	s.Block(3, 0, 0)
	if s.LineOfSight(a, b) {
		t.Fatal("wall ignored")
	}
	s.Unblock(3, 0, 0)
	if !s.LineOfSight(a, b) {
		t.Fatal("unblocked line still blocked")
	}

	// endpoints never block: standing in a doorway is fine
	s.Block(0, 0, 0)
	s.Block(6, 0, 0)
	if !s.LineOfSight(a, b) {
		t.Fatal("endpoint tiles blocked the line")
	}
}

func TestLineOfSightDiagonal(t *testing.T) {
	s := NewState()
	a := s.Add(&Mobile{X: 0, Y: 0})
	b := s.Add(&Mobile{X: 5, Y: 5})
	if !s.LineOfSight(a, b) {
		t.Fatal("open diagonal blocked")
	}
	s.Block(2, 2, 0)
	if s.LineOfSight(a, b) {
		t.Fatal("diagonal wall ignored")
	}
}

func TestUpdatePositionKeepsGridCurrent(t *testing.T) {
	s := NewState()
	a := s.Add(&Mobile{X: 0, Y: 0})
	b := s.Add(&Mobile{X: 1, Y: 1})

	found := func() bool {
		for _, id := range s.Nearby(b.X, b.Y, b.MapID) {
			if id == a.ID {
				return true
			}
		}
		return false
	}
	if !found() {
		t.Fatal("adjacent mobile not in Nearby")
	}
	s.UpdatePosition(a.ID, 500, 500, 0)
	if found() {
		t.Fatal("moved mobile still in old cell")
	}
	if a.X != 500 || a.Y != 500 {
		t.Fatalf("position = %d,%d", a.X, a.Y)
	}
}

func TestForEachTolerantOfRemove(t *testing.T) {
	s := NewState()
	for i := 0; i < 10; i++ {
		s.Add(&Mobile{})
	}
	s.ForEach(func(m *Mobile) {
		s.Remove(m.ID)
	})
	if s.Count() != 0 {
		t.Fatalf("Count = %d after removing everything", s.Count())
	}
}
