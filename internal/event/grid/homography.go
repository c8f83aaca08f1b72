package grid

import (
	"github.com/evcam/ekalibr-go/internal/event"
	"gonum.org/v1/gonum/mat"
)

// Homography is a 3x3 projective transform with h22 fixed to 1, mapping
// ideal (row, col) grid coordinates to image-space points.
type Homography struct {
	H [8]float64 // h00 h01 h02 h10 h11 h12 h20 h21
}

// fitHomography solves the DLT linear system for src -> dst via least
// squares over >= 4 correspondences.
func fitHomography(src, dst []event.Vec2) (Homography, bool) {
	n := len(src)
	if n < 4 {
		return Homography{}, false
	}
	a := mat.NewDense(2*n, 8, nil)
	b := mat.NewVecDense(2*n, nil)
	for i := 0; i < n; i++ {
		x, y := src[i].X, src[i].Y
		xp, yp := dst[i].X, dst[i].Y
		a.SetRow(2*i, []float64{x, y, 1, 0, 0, 0, -xp * x, -xp * y})
		b.SetVec(2*i, xp)
		a.SetRow(2*i+1, []float64{0, 0, 0, x, y, 1, -yp * x, -yp * y})
		b.SetVec(2*i+1, yp)
	}

	var ata mat.Dense
	ata.Mul(a.T(), a)
	var atb mat.VecDense
	atb.MulVec(a.T(), b)

	var h mat.VecDense
	if err := h.SolveVec(&ata, &atb); err != nil {
		return Homography{}, false
	}
	var out Homography
	for i := 0; i < 8; i++ {
		out.H[i] = h.AtVec(i)
	}
	return out, true
}

// Apply maps a (row, col) grid coordinate to image space.
func (h Homography) Apply(p event.Vec2) event.Vec2 {
	denom := h.H[6]*p.X + h.H[7]*p.Y + 1
	if denom == 0 {
		denom = 1e-12
	}
	return event.Vec2{
		X: (h.H[0]*p.X + h.H[1]*p.Y + h.H[2]) / denom,
		Y: (h.H[3]*p.X + h.H[4]*p.Y + h.H[5]) / denom,
	}
}
