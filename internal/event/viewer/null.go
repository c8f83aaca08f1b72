package viewer

import "github.com/evcam/ekalibr-go/internal/event"

// NullSink discards every notification. It is the default sink and the one
// every unit test in this module runs against.
type NullSink struct{}

func (NullSink) FrameStart(float64, event.Image[uint8])                             {}
func (NullSink) ClusterFormed(int, ClusterKind, bool, event.Vec2, event.Vec2)        {}
func (NullSink) PairMatched(int, int, float64)                                       {}
func (NullSink) CircleAccepted(event.Vec2, float64, float64, float64)                {}
func (NullSink) GridFound([]event.Vec2, int, int)                                    {}

var _ Sink = NullSink{}
