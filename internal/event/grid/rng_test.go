package grid

import (
	"testing"

	"github.com/evcam/ekalibr-go/internal/event"
)

func TestComputeRNG_ColinearTripleSkipsFarEdge(t *testing.T) {
	// Three colinear points: the middle point blocks the long edge between
	// the two ends, leaving only the two short edges.
	points := []event.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}
	g := computeRNG(points, 0)

	if !g.AreAdjacent(0, 1) || !g.AreAdjacent(1, 2) {
		t.Errorf("expected both short edges present")
	}
	if g.AreAdjacent(0, 2) {
		t.Errorf("expected the long edge 0-2 to be blocked by the middle point")
	}
}

func TestComputeRNG_UnitSquareHasNoDiagonals(t *testing.T) {
	points := []event.Vec2{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1},
	}
	g := computeRNG(points, 0)

	sideEdges := [][2]int{{0, 1}, {0, 2}, {1, 3}, {2, 3}}
	for _, e := range sideEdges {
		if !g.AreAdjacent(e[0], e[1]) {
			t.Errorf("expected side edge %v to be present", e)
		}
	}
	if g.AreAdjacent(0, 3) || g.AreAdjacent(1, 2) {
		t.Errorf("expected the two diagonals to be blocked by a nearer corner")
	}
}
