package circle

import "github.com/evcam/ekalibr-go/internal/event"

var eightConn = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// extractClusters renders the pack's active pixels as per-polarity contours
// and returns one Cluster per surviving contour.
//
// A true 2-D contour tracer with polygon area is replaced here by an
// 8-connected flood fill whose edges are additionally gated on
// |t(u) - t(v)| <= cfg.TauBreak: this is the "morphological breakup in the
// time domain" from the same traversal that finds connected components,
// rather than a separate post-processing pass. Component pixel count
// stands in for contour area.
func extractClusters(pack event.NormFlowPack, cfg Config) []Cluster {
	visited := make(map[event.PixelKey]bool, len(pack.Flows))
	var clusters []Cluster

	for start, nf := range pack.Flows {
		if visited[start] {
			continue
		}
		stack := []event.PixelKey{start}
		visited[start] = true
		var members []*event.NormFlow

		for len(stack) > 0 {
			k := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			cur := pack.Flows[k]
			members = append(members, cur)

			for _, d := range eightConn {
				nx, ny := int(k.X)+d[0], int(k.Y)+d[1]
				if nx < 0 || ny < 0 || nx >= pack.PMat.W || ny >= pack.PMat.H {
					continue
				}
				nk := event.PixelKey{X: uint16(nx), Y: uint16(ny)}
				if visited[nk] {
					continue
				}
				nnf, ok := pack.Flows[nk]
				if !ok || nnf.Polarity != nf.Polarity {
					continue
				}
				if absFloat(nnf.T-cur.T) > cfg.TauBreak {
					continue
				}
				visited[nk] = true
				stack = append(stack, nk)
			}
		}

		if float64(len(members)) < cfg.ClusterAreaThd {
			continue
		}
		clusters = append(clusters, buildCluster(members))
	}
	return clusters
}

// buildCluster computes center (mean pixel) and dir (unit mean nf_dir) for
// a set of NormFlow records that all share one polarity.
func buildCluster(members []*event.NormFlow) Cluster {
	var center, dir event.Vec2
	for _, nf := range members {
		center = center.Add(event.Vec2{X: float64(nf.P.X), Y: float64(nf.P.Y)})
		dir = dir.Add(nf.NFDir)
	}
	n := float64(len(members))
	center = center.Scale(1 / n)
	dir = dir.Unit()

	return Cluster{
		Polarity: members[0].Polarity,
		Center:   center,
		Dir:      dir,
		Flows:    members,
	}
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
