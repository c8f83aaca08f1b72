package grid

import "github.com/evcam/ekalibr-go/internal/event"

// validateShape checks the detected grid is a simple (non-self-intersecting)
// polygon along its outer ring. Only the outer ring is tested: no inflated
// convex-hull containment check is made, so interior centers are not
// checked against the hull.
func validateShape(centers []event.Vec2, rows, cols int, p Params) bool {
	if len(centers) != rows*cols {
		return false
	}
	if rows < 2 || cols < 2 {
		return true
	}
	ring := perimeterRing(centers, rows, cols)
	return isSimplePolygon(ring)
}

func at(centers []event.Vec2, cols, r, c int) event.Vec2 { return centers[r*cols+c] }

func perimeterRing(centers []event.Vec2, rows, cols int) []event.Vec2 {
	var ring []event.Vec2
	for c := 0; c < cols; c++ {
		ring = append(ring, at(centers, cols, 0, c))
	}
	for r := 1; r < rows; r++ {
		ring = append(ring, at(centers, cols, r, cols-1))
	}
	for c := cols - 2; c >= 0; c-- {
		ring = append(ring, at(centers, cols, rows-1, c))
	}
	for r := rows - 2; r >= 1; r-- {
		ring = append(ring, at(centers, cols, r, 0))
	}
	return ring
}

func isSimplePolygon(ring []event.Vec2) bool {
	n := len(ring)
	if n < 4 {
		return true
	}
	for i := 0; i < n; i++ {
		a1, a2 := ring[i], ring[(i+1)%n]
		for j := i + 1; j < n; j++ {
			if j == i || (j+1)%n == i || j == (i+1)%n {
				continue
			}
			b1, b2 := ring[j], ring[(j+1)%n]
			if segmentsIntersect(a1, a2, b1, b2) {
				return false
			}
		}
	}
	return true
}

func orientation(a, b, c event.Vec2) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

func onSegment(a, b, c event.Vec2) bool {
	return c.X >= min2(a.X, b.X) && c.X <= max2(a.X, b.X) &&
		c.Y >= min2(a.Y, b.Y) && c.Y <= max2(a.Y, b.Y)
}

func segmentsIntersect(p1, p2, p3, p4 event.Vec2) bool {
	d1 := orientation(p3, p4, p1)
	d2 := orientation(p3, p4, p2)
	d3 := orientation(p1, p2, p3)
	d4 := orientation(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	if d1 == 0 && onSegment(p3, p4, p1) {
		return true
	}
	if d2 == 0 && onSegment(p3, p4, p2) {
		return true
	}
	if d3 == 0 && onSegment(p1, p2, p3) {
		return true
	}
	if d4 == 0 && onSegment(p1, p2, p4) {
		return true
	}
	return false
}

func min2(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max2(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
