package viewer

import "github.com/evcam/ekalibr-go/internal/event"

// MultiSink fans every notification out to a fixed set of sinks in order,
// mirroring the teacher's visualiser Publisher broadcasting one frame to
// every subscriber. It lets the same extraction pass feed, say, a live
// EChartsSink dashboard and a GRPCSink overlay stream at once.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink returns a Sink that forwards every call to each of sinks in
// order.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) FrameStart(tCur float64, decay event.Image[uint8]) {
	for _, s := range m.sinks {
		s.FrameStart(tCur, decay)
	}
}

func (m *MultiSink) ClusterFormed(id int, kind ClusterKind, polarity bool, center, dir event.Vec2) {
	for _, s := range m.sinks {
		s.ClusterFormed(id, kind, polarity, center, dir)
	}
}

func (m *MultiSink) PairMatched(aID, bID int, score float64) {
	for _, s := range m.sinks {
		s.PairMatched(aID, bID, score)
	}
}

func (m *MultiSink) CircleAccepted(center event.Vec2, radius float64, startT, endT float64) {
	for _, s := range m.sinks {
		s.CircleAccepted(center, radius, startT, endT)
	}
}

func (m *MultiSink) GridFound(centers []event.Vec2, rows, cols int) {
	for _, s := range m.sinks {
		s.GridFound(centers, rows, cols)
	}
}

var _ Sink = (*MultiSink)(nil)
