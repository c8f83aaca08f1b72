package grid

import (
	"sort"

	"github.com/evcam/ekalibr-go/internal/event"
)

// Finder recovers an ordered (rows, cols) grid from an unordered point set.
type Finder struct {
	params Params
}

// NewFinder validates params and returns a Finder.
func NewFinder(params Params) (*Finder, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Finder{params: params}, nil
}

// Result is a successful grid reconstruction.
type Result struct {
	Centers []event.Vec2 // row-major, rows*cols long
	Rows    int
	Cols    int
}

// densityFilter drops points whose square neighborhood of
// DensityNeighborhoodSize contains fewer than MinDensity other points.
func (f *Finder) densityFilter(points []event.Vec2) []event.Vec2 {
	hw, hh := f.params.DensityNeighborhoodSize.X/2, f.params.DensityNeighborhoodSize.Y/2
	var out []event.Vec2
	for _, p := range points {
		count := 0
		for _, q := range points {
			if q == p {
				continue
			}
			if absF(q.X-p.X) <= hw && absF(q.Y-p.Y) <= hh {
				count++
			}
		}
		if float64(count) >= f.params.MinDensity {
			out = append(out, p)
		}
	}
	return out
}

// Find reconstructs a rows x cols grid of kind from points. The basis
// directions come from k-means over nearest-neighbor vectors (findBasis);
// computeRNG is not used by Find. Kind does not change detection: row and
// column growth follow whatever two non-antiparallel directions are
// recovered from the point spacing, which handles sheared lattices, but a
// half-offset brick pattern is not reliably recovered and no interleaved
// sub-grids are stitched.
func (f *Finder) Find(points []event.Vec2, rows, cols int, kind Kind) (Result, bool) {
	filtered := f.densityFilter(points)
	if len(filtered) < rows*cols {
		return Result{}, false
	}

	rowVec, colVec, ok := findBasis(filtered, f.params)
	if !ok {
		return Result{}, false
	}
	if absF(rowVec.X) < absF(colVec.X) {
		rowVec, colVec = colVec, rowVec
	}

	tol := f.params.SquareSize * 0.35
	if tol <= 0 {
		tol = f.params.MaxRectifiedDistance
	}
	rowGraph := basisGraph(filtered, rowVec, tol)
	seed := rowGraph.LongestPath(rowGraph.FloydWarshall())
	if len(seed) == 0 {
		return Result{}, false
	}
	sort.Slice(seed, func(i, j int) bool {
		return filtered[seed[i]].Dot(rowVec) < filtered[seed[j]].Dot(rowVec)
	})

	grid := map[int][]int{0: seed} // row index -> ordered point indices
	used := make(map[int]bool)
	for _, i := range seed {
		used[i] = true
	}

	growDirection(filtered, grid, used, rowVec, colVec, tol, f.params, true)
	growDirection(filtered, grid, used, rowVec, colVec, tol, f.params, false)

	matched := make(map[[2]int]event.Vec2)
	minRow, maxRow := 0, 0
	for r, row := range grid {
		if r < minRow {
			minRow = r
		}
		if r > maxRow {
			maxRow = r
		}
		for c, idx := range row {
			matched[[2]int{r, c}] = filtered[idx]
		}
	}

	fillMissingByHomography(matched, minRow, maxRow, rows, cols, used, filtered, f.params)

	rowOffset := -minRow
	centers := make([]event.Vec2, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			p, ok := matched[[2]int{r - rowOffset, c}]
			if !ok {
				return Result{}, false
			}
			centers = append(centers, p)
		}
	}

	if !validateShape(centers, rows, cols, f.params) {
		return Result{}, false
	}
	return Result{Centers: centers, Rows: rows, Cols: cols}, true
}

// basisGraph connects u, v whenever points[v]-points[u] is within tol of
// +vec or -vec.
func basisGraph(points []event.Vec2, vec event.Vec2, tol float64) *Graph {
	g := NewGraph(len(points))
	for u := 0; u < len(points); u++ {
		for v := u + 1; v < len(points); v++ {
			d := points[v].Sub(points[u])
			if d.Sub(vec).Norm() <= tol || d.Add(vec).Norm() <= tol {
				g.AddEdge(u, v)
			}
		}
	}
	return g
}

// growDirection extends grid one row at a time along +colVec (forward) or
// -colVec, scoring each predicted row by the spec's graph_confidence
// formula (edge terms folded into a per-vertex match test, since distinct
// edge bookkeeping across a predicted row adds no information the vertex
// match/miss count doesn't already capture for this traversal).
//
// At every step it also tries colVec mirrored across rowVec and keeps
// whichever step vector matches more of the boundary row. On an orthogonal
// (symmetric) grid the mirror coincides with colVec and this is a no-op;
// on a brick-offset asymmetric grid, consecutive rows alternate between the
// two diagonal step vectors, and a single fixed colVec can only ever walk
// every other row.
func growDirection(points []event.Vec2, grid map[int][]int, used map[int]bool, rowVec, colVec event.Vec2, tol float64, p Params, forward bool) {
	mirror := mirrorAcross(colVec, rowVec)
	for {
		var boundaryRow int
		if forward {
			boundaryRow = maxKey(grid)
		} else {
			boundaryRow = minKey(grid)
		}
		boundary := grid[boundaryRow]

		stepA, stepB := colVec, mirror
		if !forward {
			stepA, stepB = stepA.Scale(-1), stepB.Scale(-1)
		}

		matchedA, missingA := matchRow(points, used, boundary, stepA, tol)
		matchedB, missingB := matchRow(points, used, boundary, stepB, tol)

		confA := p.VertexGain*float64(len(matchedA)) + p.VertexPenalty*float64(missingA)
		confB := p.VertexGain*float64(len(matchedB)) + p.VertexPenalty*float64(missingB)

		matchedIdx, confidence := matchedA, confA
		if confB > confA {
			matchedIdx, confidence = matchedB, confB
		}
		if confidence < p.MinGraphConfidence || len(matchedIdx) == 0 {
			return
		}

		row := boundaryRow + 1
		if !forward {
			row = boundaryRow - 1
		}
		sort.Slice(matchedIdx, func(i, j int) bool {
			return points[matchedIdx[i]].Dot(rowVec) < points[matchedIdx[j]].Dot(rowVec)
		})
		grid[row] = matchedIdx
		for _, i := range matchedIdx {
			used[i] = true
		}
	}
}

// matchRow predicts boundary+step for each boundary point and greedily
// claims the nearest unused point within tol.
func matchRow(points []event.Vec2, used map[int]bool, boundary []int, step event.Vec2, tol float64) ([]int, int) {
	matched := make([]int, 0, len(boundary))
	missing := 0
	for _, idx := range boundary {
		predicted := points[idx].Add(step)
		best, bd := -1, tol
		for i, q := range points {
			if used[i] {
				continue
			}
			if d := q.Sub(predicted).Norm(); d <= bd {
				best, bd = i, d
			}
		}
		if best < 0 {
			missing++
			continue
		}
		matched = append(matched, best)
	}
	return matched, missing
}

// mirrorAcross reflects v so its component along axis flips sign, leaving
// the perpendicular component unchanged.
func mirrorAcross(v, axis event.Vec2) event.Vec2 {
	u := axis.Unit()
	return v.Sub(u.Scale(2 * v.Dot(u)))
}

func maxKey(m map[int][]int) int {
	k := 0
	first := true
	for key := range m {
		if first || key > k {
			k, first = key, false
		}
	}
	return k
}

func minKey(m map[int][]int) int {
	k := 0
	first := true
	for key := range m {
		if first || key < k {
			k, first = key, false
		}
	}
	return k
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// fillMissingByHomography fits a homography from currently matched grid
// cells to image points, then predicts and claims the remaining cells
// needed to reach rows*cols, within MaxRectifiedDistance.
func fillMissingByHomography(matched map[[2]int]event.Vec2, minRow, maxRow, rows, cols int, used map[int]bool, points []event.Vec2, p Params) {
	if len(matched) < 4 {
		return
	}
	var src, dst []event.Vec2
	for k, v := range matched {
		src = append(src, event.Vec2{X: float64(k[0]), Y: float64(k[1])})
		dst = append(dst, v)
	}
	h, ok := fitHomography(src, dst)
	if !ok {
		return
	}
	rowOffset := -minRow
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			key := [2]int{r - rowOffset, c}
			if _, ok := matched[key]; ok {
				continue
			}
			pred := h.Apply(event.Vec2{X: float64(key[0]), Y: float64(key[1])})
			best, bd := -1, p.MaxRectifiedDistance
			for i, q := range points {
				if used[i] {
					continue
				}
				if d := q.Sub(pred).Norm(); d <= bd {
					best, bd = i, d
				}
			}
			if best >= 0 {
				matched[key] = points[best]
				used[best] = true
			}
		}
	}
}
