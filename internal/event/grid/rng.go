package grid

import "github.com/evcam/ekalibr-go/internal/event"

// computeRNG builds the Relative Neighborhood Graph over points: an edge
// (u, v) exists iff no third point is simultaneously closer to both u and v
// than u and v are to each other. switchDist relaxes the test slightly
// (minRNGEdgeSwitchDist), matching the reference implementation's
// tolerance for near-ties.
func computeRNG(points []event.Vec2, switchDist float64) *Graph {
	n := len(points)
	g := NewGraph(n)
	for u := 0; u < n; u++ {
		for v := u + 1; v < n; v++ {
			duv := points[u].DistSq(points[v])
			isEdge := true
			for w := 0; w < n; w++ {
				if w == u || w == v {
					continue
				}
				dwu := points[w].DistSq(points[u])
				dwv := points[w].DistSq(points[v])
				lim := duv + switchDist*switchDist
				if dwu < lim && dwv < lim {
					isEdge = false
					break
				}
			}
			if isEdge {
				g.AddEdge(u, v)
			}
		}
	}
	return g
}
