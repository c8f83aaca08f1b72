package circle

import (
	"github.com/evcam/ekalibr-go/internal/event"
	"github.com/evcam/ekalibr-go/internal/event/grid"
	"github.com/evcam/ekalibr-go/internal/event/viewer"
)

// Metrics counts extraction outcomes for observability (spec §7: counters
// are exposed but never block).
type Metrics struct {
	ClustersFormed   uint64
	ClustersRejected uint64
	PairsMatched     uint64
	CirclesAccepted  uint64
	CirclesRejected  uint64
}

// Extractor is the circle extractor (C4). It holds only configuration, a
// sink, and running counters; every extraction call is self-contained.
type Extractor struct {
	cfg     Config
	sink    viewer.Sink
	metrics Metrics
}

// NewExtractor validates cfg and returns an Extractor reporting to sink. A
// nil sink is replaced with viewer.NullSink{}.
func NewExtractor(cfg Config, sink viewer.Sink) (*Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sink == nil {
		sink = viewer.NullSink{}
	}
	return &Extractor{cfg: cfg, sink: sink}, nil
}

// Metrics returns a snapshot of the extractor's running counters.
func (ex *Extractor) Metrics() Metrics { return ex.metrics }

// ExtractCircles turns one NormFlowPack into a list of circles evaluated at
// the pack's reference time (the middle of its temporal window), returning
// that time alongside them. When the pack yields no cluster, tEval is 0 and
// the list is empty.
func (ex *Extractor) ExtractCircles(pack event.NormFlowPack) (tEval float64, circles []Circle) {
	if ex.cfg.Visualization {
		ex.sink.FrameStart(pack.TCur, pack.Decay)
	}

	clusters := extractClusters(pack, ex.cfg)
	if len(clusters) == 0 {
		return 0, nil
	}

	tEval = clusterWindowMid(pack)
	for i := range clusters {
		clusters[i].Kind = classify(pack.PMat, clusters[i], ex.cfg)
		ex.metrics.ClustersFormed++
		if ex.cfg.Visualization {
			ex.sink.ClusterFormed(i, toViewerKind(clusters[i].Kind), clusters[i].Polarity, clusters[i].Center, clusters[i].Dir)
		}
	}

	pairs := Match(clusters, ex.cfg)
	for _, pair := range pairs {
		ex.metrics.PairsMatched++
		if ex.cfg.Visualization {
			ex.sink.PairMatched(int(pair.A), int(pair.B), pair.Score)
		}

		inliers := append(clusters[pair.A].RawInliers(), clusters[pair.B].RawInliers()...)
		tvc, ok := fitTimeVaryingCircle(inliers, ex.cfg)
		if !ok {
			ex.metrics.CirclesRejected++
			continue
		}
		ex.metrics.CirclesAccepted++
		c := tvc.CircleAt(tEval)
		circles = append(circles, c)
		if ex.cfg.Visualization {
			ex.sink.CircleAccepted(c.Center, c.Radius, tvc.StartT, tvc.EndT)
		}
	}
	return tEval, circles
}

// ExtractCirclesGrid hands the 2-D centers of the pack's accepted circles
// to the grid finder (spec §4.3.5). It returns ok=false ("None") whenever
// extraction or grid reconstruction fails, never an error: a missed grid
// on one frame is routine and the caller simply tries the next pack.
func (ex *Extractor) ExtractCirclesGrid(pack event.NormFlowPack, finder *grid.Finder, rows, cols int, kind grid.Kind) (grid.Result, bool) {
	_, circles := ex.ExtractCircles(pack)
	if len(circles) == 0 {
		return grid.Result{}, false
	}
	centers := make([]event.Vec2, len(circles))
	for i, c := range circles {
		centers[i] = c.Center
	}
	result, ok := finder.Find(centers, rows, cols, kind)
	if ok && ex.cfg.Visualization {
		ex.sink.GridFound(result.Centers, rows, cols)
	}
	return result, ok
}

// clusterWindowMid estimates the pack's temporal window midpoint from the
// spread of its active pixels' timestamps, falling back to TCur when the
// pack has no active pixels (an empty window has no meaningful midpoint
// other than "now").
func clusterWindowMid(pack event.NormFlowPack) float64 {
	minT, maxT := pack.TCur, pack.TCur
	any := false
	for _, nf := range pack.Flows {
		if !any || nf.T < minT {
			minT = nf.T
		}
		if !any || nf.T > maxT {
			maxT = nf.T
		}
		any = true
	}
	if !any {
		return pack.TCur
	}
	return (minT + maxT) / 2
}

func toViewerKind(k Kind) viewer.ClusterKind {
	switch k {
	case Chase:
		return viewer.ClusterChase
	case Run:
		return viewer.ClusterRun
	default:
		return viewer.ClusterOther
	}
}
