// Package grid provides a single-occupancy toroidal 2D grid for spatial
// agent-based models: Moore neighborhood queries with wrap-around and
// relocation to uniformly chosen empty cells.
package grid

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrNoEmptyCell is returned by MoveToEmpty when the grid is saturated.
var ErrNoEmptyCell = errors.New("grid: no empty cell available")

// Point is a cell coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Torus stores occupant ids in row-major order with toroidal wrapping.
// At most one occupant per cell; occupant ids must be unique and nonzero
// only by convention of the caller (the grid itself accepts any id).
type Torus struct {
	W, H int

	cells    []uint64 // occupant id, valid only where occupied
	occupied []bool
	pos      map[uint64]int // occupant id → cell index
}

// New allocates an empty w×h torus.
func New(w, h int) *Torus {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &Torus{
		W:        w,
		H:        h,
		cells:    make([]uint64, w*h),
		occupied: make([]bool, w*h),
		pos:      make(map[uint64]int),
	}
}

// Index returns the linear slice index for coordinates (x, y).
func (g *Torus) Index(x, y int) int { return y*g.W + x }

// Wrap applies toroidal wrapping to the provided coordinates.
func (g *Torus) Wrap(x, y int) (int, int) {
	x = (x%g.W + g.W) % g.W
	y = (y%g.H + g.H) % g.H
	return x, y
}

// Size returns the total cell count.
func (g *Torus) Size() int { return g.W * g.H }

// Occupied returns the number of occupied cells.
func (g *Torus) Occupied() int { return len(g.pos) }

// Place puts an occupant on the cell at (x, y).
func (g *Torus) Place(id uint64, x, y int) error {
	x, y = g.Wrap(x, y)
	idx := g.Index(x, y)
	if g.occupied[idx] {
		return fmt.Errorf("grid: cell (%d,%d) already occupied by %d", x, y, g.cells[idx])
	}
	if _, ok := g.pos[id]; ok {
		return fmt.Errorf("grid: occupant %d already placed", id)
	}
	g.cells[idx] = id
	g.occupied[idx] = true
	g.pos[id] = idx
	return nil
}

// Remove takes an occupant off the grid.
func (g *Torus) Remove(id uint64) {
	idx, ok := g.pos[id]
	if !ok {
		return
	}
	g.occupied[idx] = false
	delete(g.pos, id)
}

// PositionOf returns the occupant's current cell.
func (g *Torus) PositionOf(id uint64) (Point, bool) {
	idx, ok := g.pos[id]
	if !ok {
		return Point{}, false
	}
	return Point{X: idx % g.W, Y: idx / g.W}, true
}

// OccupantAt returns the occupant id on cell (x, y), if any.
func (g *Torus) OccupantAt(x, y int) (uint64, bool) {
	x, y = g.Wrap(x, y)
	idx := g.Index(x, y)
	if !g.occupied[idx] {
		return 0, false
	}
	return g.cells[idx], true
}

// Neighbors returns the ids of all occupants within Moore distance radius of
// the given occupant's cell, wrapping around the edges. The occupant itself
// is never included. When the neighborhood spans the whole torus in either
// axis, wrapped duplicates are counted once.
func (g *Torus) Neighbors(id uint64, radius int) []uint64 {
	idx, ok := g.pos[id]
	if !ok {
		return nil
	}
	cx, cy := idx%g.W, idx/g.W

	span := 2*radius + 1
	var seen map[int]bool
	if span > g.W || span > g.H {
		seen = make(map[int]bool)
	}

	var out []uint64
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			x, y := g.Wrap(cx+dx, cy+dy)
			n := g.Index(x, y)
			if n == idx {
				continue
			}
			if seen != nil {
				if seen[n] {
					continue
				}
				seen[n] = true
			}
			if g.occupied[n] {
				out = append(out, g.cells[n])
			}
		}
	}
	return out
}

// Empties returns all currently unoccupied cells in row-major order.
func (g *Torus) Empties() []Point {
	var out []Point
	for i, occ := range g.occupied {
		if !occ {
			out = append(out, Point{X: i % g.W, Y: i / g.W})
		}
	}
	return out
}

// MoveToEmpty relocates the occupant to an empty cell chosen uniformly among
// the cells empty at the moment of the call. The source cell is vacated and
// the target occupied as one operation; no intermediate state is observable.
func (g *Torus) MoveToEmpty(id uint64, rng *rand.Rand) error {
	src, ok := g.pos[id]
	if !ok {
		return fmt.Errorf("grid: occupant %d not placed", id)
	}

	empties := g.Empties()
	if len(empties) == 0 {
		return ErrNoEmptyCell
	}
	dst := empties[rng.Intn(len(empties))]

	g.occupied[src] = false
	tgt := g.Index(dst.X, dst.Y)
	g.cells[tgt] = id
	g.occupied[tgt] = true
	g.pos[id] = tgt
	return nil
}
