// Package circle implements the circle extractor (C4): it turns a
// NormFlowPack into contour clusters, classifies each as the leading
// ("chase") or trailing ("run") edge of a moving disk, matches chase/run
// pairs, and fits a time-varying circle to each accepted pair.
package circle

import (
	"math"

	"github.com/evcam/ekalibr-go/internal/event"
)

// ClusterIdx addresses a cluster within one extraction call's arena. It is
// only valid for the NormFlowPack it was produced from.
type ClusterIdx int

// Kind classifies a cluster by the direction its mean normal flow points
// relative to its own centroid.
type Kind int8

const (
	// Other is the default: the raycast classification was ambiguous.
	Other Kind = iota
	Chase
	Run
)

func (k Kind) String() string {
	switch k {
	case Chase:
		return "chase"
	case Run:
		return "run"
	default:
		return "other"
	}
}

// Cluster is a CircleClusterInfo: one surviving contour's worth of
// NormFlow records, all sharing the same polarity.
type Cluster struct {
	Polarity bool
	Center   event.Vec2
	Dir      event.Vec2
	Kind     Kind
	Flows    []*event.NormFlow
}

// RawInliers returns the union of the raw supporting (x,y,t) samples across
// every NormFlow record in the cluster, used by the time-varying circle fit.
func (c *Cluster) RawInliers() []event.RawInlier {
	var out []event.RawInlier
	for _, nf := range c.Flows {
		out = append(out, nf.RawInliers...)
	}
	return out
}

// Circle is a static 2-D circle: the evaluation of a TimeVaryingCircle at
// one instant.
type Circle struct {
	Center event.Vec2
	Radius float64
}

// TimeVaryingCircle models a moving circular target's trajectory between
// sparse event frames: the center is affine in time, the squared radius is
// quadratic in time, matching a continuous rigid translation of a circle
// under roughly constant apparent size over the short fit window.
type TimeVaryingCircle struct {
	StartT, EndT float64
	Cx, Cy       event.Vec2 // center(t) = Cx*t + Cy
	R2           [3]float64 // radius(t)^2 = R2[0]*t^2 + R2[1]*t + R2[2]
}

// PosAt returns the center of the circle at time t.
func (c TimeVaryingCircle) PosAt(t float64) event.Vec2 {
	return c.Cx.Scale(t).Add(c.Cy)
}

// RadiusAt returns the radius at time t. A negative squared radius (can
// occur just outside [StartT, EndT] from fit noise) clamps to zero rather
// than producing NaN.
func (c TimeVaryingCircle) RadiusAt(t float64) float64 {
	r2 := c.R2[0]*t*t + c.R2[1]*t + c.R2[2]
	if r2 < 0 {
		return 0
	}
	return math.Sqrt(r2)
}

// CircleAt evaluates the trajectory at time t as a static Circle.
func (c TimeVaryingCircle) CircleAt(t float64) Circle {
	return Circle{Center: c.PosAt(t), Radius: c.RadiusAt(t)}
}

// PointToCircleDistance returns |p - PosAt(t)| - RadiusAt(t): the signed
// distance of p from the circle's boundary at time t.
func (c TimeVaryingCircle) PointToCircleDistance(p event.Vec2, t float64) float64 {
	return p.Sub(c.PosAt(t)).Norm() - c.RadiusAt(t)
}
