package circle

import "github.com/evcam/ekalibr-go/internal/event"

// classify assigns Chase, Run, or Other to cluster by raycasting from its
// centroid in +dir and -dir against the pack's active region. Chase is the
// leading edge: it should exit the active region almost immediately in
// +dir while the trailing side (-dir) stays inside. Run is the mirror
// image. A tie (both or neither raycast exits quickly) is Other.
//
// Step size and max step count are the spec's open-question resolution:
// 1 px steps, 50 steps, tie classifies as Other.
func classify(pmat event.Image[event.PixelState], c Cluster, cfg Config) Kind {
	plus := raycastExitSteps(pmat, c.Center, c.Dir, cfg)
	minus := raycastExitSteps(pmat, c.Center, c.Dir.Scale(-1), cfg)

	plusImmediate := plus <= 1
	minusImmediate := minus <= 1

	switch {
	case plusImmediate && !minusImmediate:
		return Chase
	case minusImmediate && !plusImmediate:
		return Run
	default:
		return Other
	}
}

// raycastExitSteps walks from origin along dir in cfg.RaycastStep
// increments, returning the number of steps taken before the ray leaves
// the active region (image bounds or an inactive pixel). Returns
// cfg.RaycastMaxSteps if the ray never exits within the step budget.
func raycastExitSteps(pmat event.Image[event.PixelState], origin, dir event.Vec2, cfg Config) int {
	for step := 1; step <= cfg.RaycastMaxSteps; step++ {
		p := origin.Add(dir.Scale(float64(step) * cfg.RaycastStep))
		x, y := int(p.X), int(p.Y)
		if !pmat.InBounds(x, y) || pmat.At(x, y) == event.PixelInactive {
			return step
		}
	}
	return cfg.RaycastMaxSteps
}
