package circle

import (
	"math"
	"testing"

	"github.com/evcam/ekalibr-go/internal/event"
)

func TestFitTimeVaryingCircle_RecoversKnownTrajectory(t *testing.T) {
	want := TimeVaryingCircle{
		Cx: event.Vec2{X: 5, Y: 0},
		Cy: event.Vec2{X: 100, Y: 100},
		R2: [3]float64{0, 0, 100}, // radius 10, constant
	}

	var inliers []event.RawInlier
	for i := 0; i < 60; i++ {
		tt := float64(i) / 59.0 // t in [0, 1]
		theta := float64(i) * 2.1
		center := want.PosAt(tt)
		x := center.X + 10*math.Cos(theta)
		y := center.Y + 10*math.Sin(theta)
		inliers = append(inliers, event.RawInlier{
			X: uint16(math.Round(x)),
			Y: uint16(math.Round(y)),
			T: tt,
		})
	}

	cfg := DefaultConfig(1.0)
	cfg.PointToCircleAvgThd = 1.0

	tvc, ok := fitTimeVaryingCircle(inliers, cfg)
	if !ok {
		t.Fatalf("expected fit to be accepted")
	}
	for _, tt := range []float64{0, 0.5, 1.0} {
		got := tvc.CircleAt(tt)
		wantCircle := want.CircleAt(tt)
		if got.Center.Sub(wantCircle.Center).Norm() > 1.0 {
			t.Errorf("t=%v: center %+v, want near %+v", tt, got.Center, wantCircle.Center)
		}
		if math.Abs(got.Radius-wantCircle.Radius) > 1.0 {
			t.Errorf("t=%v: radius %v, want near %v", tt, got.Radius, wantCircle.Radius)
		}
	}
}

func TestFitTimeVaryingCircle_RejectsTooFewInliers(t *testing.T) {
	cfg := DefaultConfig(1.0)
	_, ok := fitTimeVaryingCircle(make([]event.RawInlier, 3), cfg)
	if ok {
		t.Errorf("expected fit with < 7 inliers to be rejected")
	}
}

func TestFitTimeVaryingCircle_RejectsNoisyInliers(t *testing.T) {
	inliers := []event.RawInlier{
		{X: 0, Y: 0, T: 0}, {X: 100, Y: 0, T: 0}, {X: 0, Y: 100, T: 0},
		{X: 50, Y: 50, T: 0.5}, {X: 10, Y: 90, T: 0.5}, {X: 90, Y: 10, T: 0.5},
		{X: 30, Y: 70, T: 1}, {X: 70, Y: 30, T: 1},
	}
	cfg := DefaultConfig(1.0)
	cfg.PointToCircleAvgThd = 0.001
	_, ok := fitTimeVaryingCircle(inliers, cfg)
	if ok {
		t.Errorf("expected scattered points to fail a tight distance threshold")
	}
}
