package grid

import (
	"errors"
	"math/rand"
	"testing"
)

func fill(t *testing.T, g *Torus) {
	t.Helper()
	id := uint64(1)
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			if err := g.Place(id, x, y); err != nil {
				t.Fatalf("place %d at (%d,%d): %v", id, x, y, err)
			}
			id++
		}
	}
}

func TestWrap(t *testing.T) {
	g := New(5, 4)

	cases := []struct {
		x, y   int
		wx, wy int
	}{
		{0, 0, 0, 0},
		{5, 4, 0, 0},
		{-1, -1, 4, 3},
		{7, -6, 2, 2},
	}
	for _, c := range cases {
		x, y := g.Wrap(c.x, c.y)
		if x != c.wx || y != c.wy {
			t.Errorf("Wrap(%d,%d) = (%d,%d), want (%d,%d)", c.x, c.y, x, y, c.wx, c.wy)
		}
	}
}

func TestNeighborsFullTorus(t *testing.T) {
	g := New(4, 4)
	fill(t, g)

	for id := uint64(1); id <= 16; id++ {
		n := g.Neighbors(id, 1)
		if len(n) != 8 {
			t.Fatalf("agent %d: got %d neighbors, want 8", id, len(n))
		}
	}
}

func TestNeighborhoodSymmetry(t *testing.T) {
	g := New(6, 5)
	rng := rand.New(rand.NewSource(3))
	var ids []uint64
	id := uint64(1)
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			if rng.Float64() < 0.6 {
				g.Place(id, x, y)
				ids = append(ids, id)
				id++
			}
		}
	}

	for radius := 1; radius <= 3; radius++ {
		sees := make(map[uint64]map[uint64]bool)
		for _, a := range ids {
			sees[a] = make(map[uint64]bool)
			for _, b := range g.Neighbors(a, radius) {
				sees[a][b] = true
			}
		}
		for _, a := range ids {
			for _, b := range ids {
				if a != b && sees[a][b] != sees[b][a] {
					t.Fatalf("radius %d: asymmetric neighborhood between %d and %d", radius, a, b)
				}
			}
		}
	}
}

func TestNeighborsDedupWhenRadiusSpansTorus(t *testing.T) {
	g := New(3, 3)
	fill(t, g)

	// Radius 2 spans 5 cells on a 3-wide torus; every other occupant must
	// still be counted exactly once.
	for id := uint64(1); id <= 9; id++ {
		n := g.Neighbors(id, 2)
		if len(n) != 8 {
			t.Fatalf("agent %d: got %d neighbors, want 8", id, len(n))
		}
		seen := make(map[uint64]bool)
		for _, other := range n {
			if seen[other] {
				t.Fatalf("agent %d: neighbor %d counted twice", id, other)
			}
			seen[other] = true
		}
	}
}

func TestMoveToEmpty(t *testing.T) {
	g := New(4, 4)
	g.Place(1, 0, 0)
	g.Place(2, 1, 0)

	rng := rand.New(rand.NewSource(9))
	src, _ := g.PositionOf(1)
	if err := g.MoveToEmpty(1, rng); err != nil {
		t.Fatalf("MoveToEmpty: %v", err)
	}

	dst, ok := g.PositionOf(1)
	if !ok {
		t.Fatal("occupant 1 lost after move")
	}
	if dst == src {
		t.Fatalf("occupant 1 did not move from %v", src)
	}
	if _, occ := g.OccupantAt(src.X, src.Y); occ {
		t.Fatalf("source cell %v still occupied", src)
	}
	if g.Occupied() != 2 {
		t.Fatalf("occupied count = %d, want 2", g.Occupied())
	}
}

func TestMoveToEmptySaturated(t *testing.T) {
	g := New(2, 2)
	fill(t, g)

	rng := rand.New(rand.NewSource(1))
	err := g.MoveToEmpty(3, rng)
	if !errors.Is(err, ErrNoEmptyCell) {
		t.Fatalf("got %v, want ErrNoEmptyCell", err)
	}
}

func TestPlaceRejectsConflicts(t *testing.T) {
	g := New(3, 3)
	if err := g.Place(1, 1, 1); err != nil {
		t.Fatalf("first place: %v", err)
	}
	if err := g.Place(2, 1, 1); err == nil {
		t.Fatal("placing onto an occupied cell succeeded")
	}
	if err := g.Place(1, 0, 0); err == nil {
		t.Fatal("placing an already-placed occupant succeeded")
	}
}

func TestEmptiesShrinkAsPlaced(t *testing.T) {
	g := New(3, 2)
	if got := len(g.Empties()); got != 6 {
		t.Fatalf("empties = %d, want 6", got)
	}
	g.Place(1, 0, 0)
	g.Place(2, 2, 1)
	if got := len(g.Empties()); got != 4 {
		t.Fatalf("empties = %d, want 4", got)
	}
	g.Remove(1)
	if got := len(g.Empties()); got != 5 {
		t.Fatalf("empties after remove = %d, want 5", got)
	}
}
