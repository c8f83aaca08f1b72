// Package viewer defines the debug-viewer side channel the core extraction
// pipeline reports to. The pipeline never reads anything back from a Sink
// and never blocks on one; a Sink is a pure observer, wired in only when
// visualization is enabled, and a NullSink is always a valid choice.
package viewer

import "github.com/evcam/ekalibr-go/internal/event"

// ClusterKind mirrors circle.Kind without importing the circle
// package, keeping viewer a leaf dependency of the pipeline rather than a
// peer of it.
type ClusterKind string

const (
	ClusterChase ClusterKind = "chase"
	ClusterRun   ClusterKind = "run"
	ClusterOther ClusterKind = "other"
)

// Sink receives typed notifications from the circle extractor and grid
// finder. Every method must return promptly; a slow sink slows the caller
// that drives extraction, since there is no internal buffering or
// background delivery.
type Sink interface {
	// FrameStart is called once per NormFlowPack with the pack's reference
	// time and its decay surface, before any cluster events for that pack.
	FrameStart(tCur float64, decay event.Image[uint8])

	// ClusterFormed reports one surviving contour cluster after area
	// filtering and classification.
	ClusterFormed(id int, kind ClusterKind, polarity bool, center, dir event.Vec2)

	// PairMatched reports one chase/run (or re-search) pair accepted by
	// the matching phases, before the circle fit is attempted.
	PairMatched(aID, bID int, score float64)

	// CircleAccepted reports one time-varying circle fit that passed the
	// point-to-circle distance threshold.
	CircleAccepted(center event.Vec2, radius float64, startT, endT float64)

	// GridFound reports a successful grid reconstruction.
	GridFound(centers []event.Vec2, rows, cols int)
}
