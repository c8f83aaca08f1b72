package circle

import (
	"math"
	"testing"

	"github.com/evcam/ekalibr-go/internal/event"
)

func TestTimeVaryingCircle_Sanity(t *testing.T) {
	tvc := TimeVaryingCircle{
		StartT: 0,
		EndT:   1,
		Cx:     event.Vec2{X: 50, Y: 0},
		Cy:     event.Vec2{X: 100, Y: 100},
		R2:     [3]float64{0, 0, 100}, // constant radius 10
	}

	for _, tt := range []float64{0, 0.25, 0.5, 0.75, 1} {
		r := tvc.RadiusAt(tt)
		if r <= 0 {
			t.Errorf("RadiusAt(%v) = %v, want > 0", tt, r)
		}
	}

	p := event.Vec2{X: 110, Y: 100}
	wantDist := p.Sub(tvc.PosAt(0.5)).Norm() - tvc.RadiusAt(0.5)
	if got := tvc.PointToCircleDistance(p, 0.5); math.Abs(got-wantDist) > 1e-9 {
		t.Errorf("PointToCircleDistance = %v, want %v", got, wantDist)
	}
}

func TestTimeVaryingCircle_NegativeSquaredRadiusClampsToZero(t *testing.T) {
	tvc := TimeVaryingCircle{R2: [3]float64{0, 0, -5}}
	if got := tvc.RadiusAt(0); got != 0 {
		t.Errorf("expected clamped radius 0, got %v", got)
	}
}

func TestKind_String(t *testing.T) {
	cases := map[Kind]string{Chase: "chase", Run: "run", Other: "other"}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("%v.String() = %q, want %q", k, got, want)
		}
	}
}
