package grid

import (
	"math"
	"testing"

	"github.com/evcam/ekalibr-go/internal/event"
)

func TestFitHomography_RecoversAffineTransform(t *testing.T) {
	// A pure affine map (no projective skew) is exactly representable by
	// the homography's 8 free parameters with h20 = h21 = 0.
	theta := 0.3
	scale := 12.0
	tx, ty := 50.0, 80.0
	affine := func(p event.Vec2) event.Vec2 {
		x := scale*(math.Cos(theta)*p.X-math.Sin(theta)*p.Y) + tx
		y := scale*(math.Sin(theta)*p.X+math.Cos(theta)*p.Y) + ty
		return event.Vec2{X: x, Y: y}
	}

	var src, dst []event.Vec2
	for r := 0; r < 2; r++ {
		for c := 0; c < 3; c++ {
			p := event.Vec2{X: float64(c), Y: float64(r)}
			src = append(src, p)
			dst = append(dst, affine(p))
		}
	}

	h, ok := fitHomography(src, dst)
	if !ok {
		t.Fatalf("expected fitHomography to succeed with 6 non-degenerate correspondences")
	}
	for i, p := range src {
		got := h.Apply(p)
		want := dst[i]
		if got.Sub(want).Norm() > 1e-6 {
			t.Errorf("point %d: Apply(%+v) = %+v, want %+v", i, p, got, want)
		}
	}
}

func TestFitHomography_RejectsTooFewCorrespondences(t *testing.T) {
	src := []event.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}
	dst := []event.Vec2{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 0, Y: 2}}
	if _, ok := fitHomography(src, dst); ok {
		t.Errorf("expected fitHomography to reject fewer than 4 correspondences")
	}
}
