package grid

import (
	"math"
	"math/rand"
	"sort"

	"github.com/evcam/ekalibr-go/internal/event"
)

const neighborSampleSize = 8

// neighborVectors collects, for every point, the vectors to its
// neighborSampleSize nearest other points. On a regular grid these vectors
// cluster around the four directions +b1, -b1, +b2, -b2 and, since eight
// neighbors are sampled, around the diagonal sums +-b1 +-b2 as well.
func neighborVectors(points []event.Vec2) []event.Vec2 {
	var out []event.Vec2
	for i, p := range points {
		type nd struct {
			idx int
			d   float64
		}
		var nbrs []nd
		for j, q := range points {
			if i == j {
				continue
			}
			nbrs = append(nbrs, nd{j, p.DistSq(q)})
		}
		sort.Slice(nbrs, func(a, b int) bool { return nbrs[a].d < nbrs[b].d })
		k := neighborSampleSize
		if k > len(nbrs) {
			k = len(nbrs)
		}
		for _, nb := range nbrs[:k] {
			out = append(out, points[nb.idx].Sub(p))
		}
	}
	return out
}

// kmeansVec2 clusters vectors into k centers using squared-Euclidean
// k-means, restarting `attempts` times from random seeds and keeping the
// lowest-inertia result.
func kmeansVec2(vectors []event.Vec2, k, attempts int) []event.Vec2 {
	if len(vectors) < k {
		return nil
	}
	rng := rand.New(rand.NewSource(1))
	var bestCenters []event.Vec2
	bestInertia := -1.0

	for attempt := 0; attempt < attempts; attempt++ {
		centers := make([]event.Vec2, k)
		perm := rng.Perm(len(vectors))
		for i := 0; i < k; i++ {
			centers[i] = vectors[perm[i]]
		}
		assign := make([]int, len(vectors))
		for iter := 0; iter < 25; iter++ {
			changed := false
			for i, v := range vectors {
				best, bd := 0, v.DistSq(centers[0])
				for c := 1; c < k; c++ {
					if d := v.DistSq(centers[c]); d < bd {
						best, bd = c, d
					}
				}
				if assign[i] != best {
					assign[i] = best
					changed = true
				}
			}
			sums := make([]event.Vec2, k)
			counts := make([]int, k)
			for i, v := range vectors {
				sums[assign[i]] = sums[assign[i]].Add(v)
				counts[assign[i]]++
			}
			for c := 0; c < k; c++ {
				if counts[c] > 0 {
					centers[c] = sums[c].Scale(1 / float64(counts[c]))
				}
			}
			if !changed {
				break
			}
		}

		inertia := 0.0
		for i, v := range vectors {
			inertia += v.DistSq(centers[assign[i]])
		}
		if bestInertia < 0 || inertia < bestInertia {
			bestInertia = inertia
			bestCenters = centers
		}
	}
	return bestCenters
}

// findBasis recovers the grid's two basis vectors: among the four k-means
// clusters of neighbor-to-neighbor vectors, the pair of non-parallel
// directions with the smallest combined length.
func findBasis(points []event.Vec2, p Params) (b1, b2 event.Vec2, ok bool) {
	vectors := neighborVectors(points)
	centers := kmeansVec2(vectors, 4, p.KmeansAttempts)
	if len(centers) < 4 {
		return event.Vec2{}, event.Vec2{}, false
	}

	// Discard clusters too close to the origin (degenerate / noise).
	var valid []event.Vec2
	for _, c := range centers {
		if c.Norm() > 1e-6 {
			valid = append(valid, c)
		}
	}
	if len(valid) < 2 {
		return event.Vec2{}, event.Vec2{}, false
	}

	// Among every non-parallel, non-antiparallel pair, keep the shortest:
	// the grid's true step vectors are always the nearest-neighbor
	// direction, never a second-nearest diagonal (which is itself a sum of
	// the two step vectors and would misalign row/column growth in Find).
	bestSum := math.Inf(1)
	for i := 0; i < len(valid); i++ {
		for j := i + 1; j < len(valid); j++ {
			cosAngle := valid[i].Unit().Dot(valid[j].Unit())
			if math.Abs(cosAngle) > 0.8 { // parallel or antiparallel: not a real second axis
				continue
			}
			if sum := valid[i].Norm() + valid[j].Norm(); sum < bestSum {
				bestSum, b1, b2, ok = sum, valid[i], valid[j], true
			}
		}
	}
	return b1, b2, ok
}
