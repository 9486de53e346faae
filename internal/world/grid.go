package world

// Grid is a cell-based spatial index over mobiles plus a set of opaque
// tiles for line-of-sight checks. Cell size is chosen so a 3x3 cell
// neighbourhood fully covers the visibility range (Chebyshev distance 20).
// Accessed only from the game loop goroutine — no locks.

const cellSize = 20

type cellKey struct {
	mapID int16
	cx    int32
	cy    int32
}

type tileKey struct {
	mapID int16
	x, y  int32
}

func toCellCoord(v int32) int32 {
	if v < 0 {
		return (v - cellSize + 1) / cellSize
	}
	return v / cellSize
}

// Grid tracks which mobiles are in which cells and which tiles block sight.
type Grid struct {
	cells   map[cellKey]map[int32]struct{} // cellKey → set of mobile IDs
	blocked map[tileKey]struct{}
}

func NewGrid() *Grid {
	return &Grid{
		cells:   make(map[cellKey]map[int32]struct{}),
		blocked: make(map[tileKey]struct{}),
	}
}

func (g *Grid) key(x, y int32, mapID int16) cellKey {
	return cellKey{mapID: mapID, cx: toCellCoord(x), cy: toCellCoord(y)}
}

// Add places a mobile into the grid.
func (g *Grid) Add(id int32, x, y int32, mapID int16) {
	k := g.key(x, y, mapID)
	cell := g.cells[k]
	if cell == nil {
		cell = make(map[int32]struct{})
		g.cells[k] = cell
	}
	cell[id] = struct{}{}
}

// Remove takes a mobile out of the grid.
func (g *Grid) Remove(id int32, x, y int32, mapID int16) {
	k := g.key(x, y, mapID)
	cell := g.cells[k]
	if cell != nil {
		delete(cell, id)
		if len(cell) == 0 {
			delete(g.cells, k)
		}
	}
}

// Nearby returns the IDs of all mobiles in the 3x3 cell neighbourhood of
// (x, y). Includes the querying mobile itself if present.
func (g *Grid) Nearby(x, y int32, mapID int16) []int32 {
	var out []int32
	cx, cy := toCellCoord(x), toCellCoord(y)
	for dx := int32(-1); dx <= 1; dx++ {
		for dy := int32(-1); dy <= 1; dy++ {
			cell := g.cells[cellKey{mapID: mapID, cx: cx + dx, cy: cy + dy}]
			for id := range cell {
				out = append(out, id)
			}
		}
	}
	return out
}

// Block marks a tile opaque.
func (g *Grid) Block(x, y int32, mapID int16) {
	g.blocked[tileKey{mapID: mapID, x: x, y: y}] = struct{}{}
}

// Unblock clears an opaque tile.
func (g *Grid) Unblock(x, y int32, mapID int16) {
	delete(g.blocked, tileKey{mapID: mapID, x: x, y: y})
}

// ClearPath walks a Bresenham line from (x0,y0) to (x1,y1) and reports
// whether no intermediate tile is opaque. Endpoints themselves do not
// block (an actor standing in a doorway can still be targeted).
func (g *Grid) ClearPath(x0, y0, x1, y1 int32, mapID int16) bool {
	dx := x1 - x0
	if dx < 0 {
		dx = -dx
	}
	dy := y1 - y0
	if dy < 0 {
		dy = -dy
	}
	sx := int32(1)
	if x0 > x1 {
		sx = -1
	}
	sy := int32(1)
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy

	x, y := x0, y0
	for {
		if x == x1 && y == y1 {
			return true
		}
		if x != x0 || y != y0 {
			if _, ok := g.blocked[tileKey{mapID: mapID, x: x, y: y}]; ok {
				return false
			}
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}
