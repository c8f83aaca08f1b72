package grid

import (
	"fmt"

	"github.com/evcam/ekalibr-go/internal/event"
)

// Kind selects the grid's point arrangement.
type Kind int

const (
	Symmetric Kind = iota
	Asymmetric
)

// Params holds CirclesGridFinderParameters (spec §6: GridFinder), unchanged
// in name and meaning from the original implementation.
type Params struct {
	DensityNeighborhoodSize   event.Vec2 // width, height of the density-filter window
	MinDensity                float64
	KmeansAttempts            int
	MinDistanceToAddKeypoint  float64
	KeypointScale             float64
	MinGraphConfidence        float64
	VertexGain                float64
	VertexPenalty             float64
	ExistingVertexGain        float64
	EdgeGain                  float64
	EdgePenalty               float64
	ConvexHullFactor          float64
	MinRNGEdgeSwitchDist      float64
	SquareSize                float64
	MaxRectifiedDistance      float64
}

// DefaultParams returns OpenCV's CirclesGridFinderParameters defaults,
// adapted to the grid's expected spacing.
func DefaultParams(squareSize float64) Params {
	return Params{
		DensityNeighborhoodSize:  event.Vec2{X: squareSize * 2, Y: squareSize * 2},
		MinDensity:               10,
		KmeansAttempts:           100,
		MinDistanceToAddKeypoint: squareSize / 2,
		KeypointScale:            1,
		MinGraphConfidence:       9,
		VertexGain:               1,
		VertexPenalty:            -0.6,
		ExistingVertexGain:       10000,
		EdgeGain:                 1,
		EdgePenalty:              -0.6,
		ConvexHullFactor:         1.1,
		MinRNGEdgeSwitchDist:     5,
		SquareSize:               squareSize,
		MaxRectifiedDistance:     squareSize / 2,
	}
}

// Validate checks Params is usable.
func (p Params) Validate() error {
	if p.SquareSize <= 0 {
		return fmt.Errorf("%w: SquareSize must be > 0, got %v", event.ErrConfigInvalid, p.SquareSize)
	}
	if p.MinDensity < 0 {
		return fmt.Errorf("%w: MinDensity must be >= 0, got %v", event.ErrConfigInvalid, p.MinDensity)
	}
	if p.KmeansAttempts < 1 {
		return fmt.Errorf("%w: KmeansAttempts must be >= 1, got %d", event.ErrConfigInvalid, p.KmeansAttempts)
	}
	if p.MinGraphConfidence <= 0 {
		return fmt.Errorf("%w: MinGraphConfidence must be > 0, got %v", event.ErrConfigInvalid, p.MinGraphConfidence)
	}
	if p.ConvexHullFactor < 1 {
		return fmt.Errorf("%w: ConvexHullFactor must be >= 1, got %v", event.ErrConfigInvalid, p.ConvexHullFactor)
	}
	if p.MaxRectifiedDistance <= 0 {
		return fmt.Errorf("%w: MaxRectifiedDistance must be > 0, got %v", event.ErrConfigInvalid, p.MaxRectifiedDistance)
	}
	return nil
}
