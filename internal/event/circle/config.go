package circle

import (
	"fmt"
	"math"

	"github.com/evcam/ekalibr-go/internal/event"
)

// Config holds the circle extractor's tunables (spec §6: CircleExtractor).
type Config struct {
	// ClusterAreaThd is the minimum pixel-count area a contour must reach
	// to survive as a cluster (default: 10).
	ClusterAreaThd float64
	// DirDiffDegThd bounds the angular agreement required to accept a
	// chase/run pairing, in degrees (default: 30).
	DirDiffDegThd float64
	// PointToCircleAvgThd is the maximum accepted average point-to-circle
	// distance for a time-varying circle fit, in pixels (default: 1).
	PointToCircleAvgThd float64
	// TauBreak is the temporal-discontinuity threshold used to split a
	// connected component into separate clusters (default: the SAE's tau).
	TauBreak float64
	// Visualization enables Sink notifications during extraction.
	Visualization bool
	// RaycastStep and RaycastMaxSteps drive classification's raycast
	// (spec §9 open question: step 1px, 50 steps, tie -> Other).
	RaycastStep     float64
	RaycastMaxSteps int
}

// DefaultConfig returns the spec defaults, given the SAE's tau.
func DefaultConfig(tau float64) Config {
	return Config{
		ClusterAreaThd:      10,
		DirDiffDegThd:       30,
		PointToCircleAvgThd: 1,
		TauBreak:            tau,
		Visualization:       false,
		RaycastStep:         1,
		RaycastMaxSteps:     50,
	}
}

// Validate checks Config is usable.
func (c Config) Validate() error {
	if c.ClusterAreaThd <= 0 {
		return fmt.Errorf("%w: ClusterAreaThd must be > 0, got %v", event.ErrConfigInvalid, c.ClusterAreaThd)
	}
	if c.DirDiffDegThd <= 0 || c.DirDiffDegThd >= 180 {
		return fmt.Errorf("%w: DirDiffDegThd must be in (0, 180), got %v", event.ErrConfigInvalid, c.DirDiffDegThd)
	}
	if c.PointToCircleAvgThd <= 0 {
		return fmt.Errorf("%w: PointToCircleAvgThd must be > 0, got %v", event.ErrConfigInvalid, c.PointToCircleAvgThd)
	}
	if c.TauBreak <= 0 {
		return fmt.Errorf("%w: TauBreak must be > 0, got %v", event.ErrConfigInvalid, c.TauBreak)
	}
	if c.RaycastStep <= 0 {
		return fmt.Errorf("%w: RaycastStep must be > 0, got %v", event.ErrConfigInvalid, c.RaycastStep)
	}
	if c.RaycastMaxSteps < 1 {
		return fmt.Errorf("%w: RaycastMaxSteps must be >= 1, got %d", event.ErrConfigInvalid, c.RaycastMaxSteps)
	}
	return nil
}

// cosDirDiffThd is the cosine of DirDiffDegThd, the form the matcher
// actually compares against.
func (c Config) cosDirDiffThd() float64 {
	return math.Cos(c.DirDiffDegThd * math.Pi / 180)
}
