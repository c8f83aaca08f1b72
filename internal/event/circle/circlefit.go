package circle

import (
	"github.com/evcam/ekalibr-go/internal/event"
	"gonum.org/v1/gonum/mat"
)

// fitTimeVaryingCircle solves the 7-parameter time-varying circle model
// (spec §4.3.4, §9 open question) over the union of two clusters' raw
// inlier events.
//
// center(t) = Cx*t + Cy expands the per-point residual
//
//	|p|^2 - 2t(p.Cx) - 2(p.Cy) - (r^2(t) - |Cx t + Cy|^2) = 0
//
// into a system that is linear in 7 unknowns only if the bracketed term is
// treated as a single free quadratic q(t) = q0 + q1 t + q2 t^2, rather than
// algebraically tied to Cx, Cy, r2 (that coupling is what makes the naive
// expansion quadratic in the unknowns). Solving for (Cx, Cy, q0, q1, q2) by
// linear least squares and then recovering r2 from q afterwards is exactly
// the "fourth parameterization" the spec's design note gestures at, made
// concrete: r2(t) = |Cx|^2 t^2 + 2(Cx.Cy) t + |Cy|^2 + q(t).
func fitTimeVaryingCircle(inliers []event.RawInlier, cfg Config) (TimeVaryingCircle, bool) {
	n := len(inliers)
	if n < 7 {
		return TimeVaryingCircle{}, false
	}

	a := mat.NewDense(7, 7, nil)
	b := mat.NewVecDense(7, nil)

	rows := make([]float64, 0, n*7)
	rhs := make([]float64, 0, n)
	minT, maxT := inliers[0].T, inliers[0].T
	for _, e := range inliers {
		px, py, t := float64(e.X), float64(e.Y), e.T
		if t < minT {
			minT = t
		}
		if t > maxT {
			maxT = t
		}
		rows = append(rows,
			2*t*px, 2*t*py, 2*px, 2*py, 1, t, t*t,
		)
		rhs = append(rhs, px*px+py*py)
	}

	for i := 0; i < 7; i++ {
		for j := 0; j < 7; j++ {
			var sum float64
			for r := 0; r < n; r++ {
				sum += rows[r*7+i] * rows[r*7+j]
			}
			a.Set(i, j, sum)
		}
		var sumB float64
		for r := 0; r < n; r++ {
			sumB += rows[r*7+i] * rhs[r]
		}
		b.SetVec(i, sumB)
	}

	var u mat.VecDense
	if err := u.SolveVec(a, b); err != nil {
		return TimeVaryingCircle{}, false
	}

	cx := event.Vec2{X: u.AtVec(0), Y: u.AtVec(1)}
	cy := event.Vec2{X: u.AtVec(2), Y: u.AtVec(3)}
	q0, q1, q2 := u.AtVec(4), u.AtVec(5), u.AtVec(6)

	tvc := TimeVaryingCircle{
		StartT: minT,
		EndT:   maxT,
		Cx:     cx,
		Cy:     cy,
		R2: [3]float64{
			cx.NormSq() + q2,
			2*cx.Dot(cy) + q1,
			cy.NormSq() + q0,
		},
	}

	var sumDist float64
	for _, e := range inliers {
		p := event.Vec2{X: float64(e.X), Y: float64(e.Y)}
		sumDist += absFloat(tvc.PointToCircleDistance(p, e.T))
	}
	avgDist := sumDist / float64(n)
	if avgDist > cfg.PointToCircleAvgThd {
		return TimeVaryingCircle{}, false
	}
	return tvc, true
}
