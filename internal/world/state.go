package world

// State is the process-wide actor registry. Accessed only from the game
// loop goroutine — no mutex needed. Tests construct isolated instances;
// there is no package-level singleton.
type State struct {
	mobiles map[int32]*Mobile
	grid    *Grid
	nextID  int32
}

func NewState() *State {
	return &State{
		mobiles: make(map[int32]*Mobile),
		grid:    NewGrid(),
	}
}

// Add registers a mobile. A zero ID is assigned the next free one.
func (s *State) Add(m *Mobile) *Mobile {
	if m.ID == 0 {
		s.nextID++
		m.ID = s.nextID
	} else if m.ID > s.nextID {
		s.nextID = m.ID
	}
	if m.Reagents == nil {
		m.Reagents = make(map[int32]int)
	}
	if m.Skills == nil {
		m.Skills = make(map[string]int)
	}
	s.mobiles[m.ID] = m
	s.grid.Add(m.ID, m.X, m.Y, m.MapID)
	return m
}

// Get returns the mobile for id, or nil. Deleted mobiles are gone.
func (s *State) Get(id int32) *Mobile {
	return s.mobiles[id]
}

// Remove deletes a mobile from the world. Timer callbacks holding the
// ID will see nil on lookup; callbacks holding the pointer see Deleted.
func (s *State) Remove(id int32) {
	m := s.mobiles[id]
	if m == nil {
		return
	}
	m.Deleted = true
	s.grid.Remove(id, m.X, m.Y, m.MapID)
	delete(s.mobiles, id)
}

// UpdatePosition moves a mobile, keeping the grid in sync.
func (s *State) UpdatePosition(id, x, y int32, mapID int16) {
	m := s.mobiles[id]
	if m == nil {
		return
	}
	s.grid.Remove(id, m.X, m.Y, m.MapID)
	m.X, m.Y, m.MapID = x, y, mapID
	s.grid.Add(id, x, y, mapID)
}

// ForEach iterates all mobiles. Safe to Remove during iteration.
func (s *State) ForEach(fn func(*Mobile)) {
	for _, m := range s.mobiles {
		fn(m)
	}
}

func (s *State) Count() int {
	return len(s.mobiles)
}

// InRange reports whether a and b are on the same map within dist
// (Chebyshev distance, matching tile-based visibility).
func (s *State) InRange(a, b *Mobile, dist int32) bool {
	if a == nil || b == nil || a.MapID != b.MapID {
		return false
	}
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	if dy > dx {
		dx = dy
	}
	return dx <= dist
}

// LineOfSight reports whether a can see b. The grid tracks blocked
// cells; a straight walk between the two positions must cross none.
func (s *State) LineOfSight(a, b *Mobile) bool {
	if a == nil || b == nil || a.MapID != b.MapID {
		return false
	}
	return s.grid.ClearPath(a.X, a.Y, b.X, b.Y, a.MapID)
}

// Nearby returns the IDs of mobiles in the cells around a point,
// including the querying mobile itself when it is there.
func (s *State) Nearby(x, y int32, mapID int16) []int32 {
	return s.grid.Nearby(x, y, mapID)
}

// Block marks a tile opaque to line-of-sight (walls, closed doors).
func (s *State) Block(x, y int32, mapID int16) {
	s.grid.Block(x, y, mapID)
}

// Unblock clears an opaque tile.
func (s *State) Unblock(x, y int32, mapID int16) {
	s.grid.Unblock(x, y, mapID)
}
