package event

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// PixelState classifies a pixel's role in a NormFlowPack: whether it took
// part in the current exposure window at all, and if so under which
// polarity.
type PixelState int8

const (
	// PixelInactive means the pixel did not clear the K*tau recency
	// threshold, or cleared it but failed the neighborhood-size or
	// residual test and was dropped.
	PixelInactive PixelState = iota
	// PixelActivePositive means the pixel has a fitted NormFlow under the
	// positive polarity.
	PixelActivePositive
	// PixelActiveNegative means the pixel has a fitted NormFlow under the
	// negative polarity.
	PixelActiveNegative
)

// PixelKey addresses a single pixel in a NormFlowPack's Flows map.
type PixelKey struct{ X, Y uint16 }

// RawInlier is one supporting (x, y, t) sample behind a fitted NormFlow.
type RawInlier struct {
	X, Y uint16
	T    float64
}

// NormFlow is a per-pixel normal-flow sample: the local velocity estimate
// at one pixel, plus the neighborhood that produced it.
type NormFlow struct {
	P          PixelKey
	T          float64
	Polarity   bool
	NF         Vec2
	NFDir      Vec2
	NFNorm     float64
	RawInliers []RawInlier
}

// NormFlowPack is the bundle C3 produces for one exposure window: the
// reference time t_cur, the per-pixel active/polarity mask, the fused time
// image, the per-pixel NormFlow records, a decay surface for visualization,
// and a raw-event accumulator image.
type NormFlowPack struct {
	TCur     float64
	PMat     Image[PixelState]
	TMat     Image[float64]
	Flows    map[PixelKey]*NormFlow
	Decay    Image[uint8]
	RawCount Image[uint32]
}

// FlowConfig configures the normal-flow estimator (spec §6: NormFlowEstimator
// tunables).
type FlowConfig struct {
	// Tau is the SAE decay constant (seconds, > 0) shared with the
	// exposure-selection threshold and the visualization decay surface.
	Tau float64
	// K scales Tau into the "recent" window: a pixel is active when
	// t_cur - t(x,y) <= K*Tau (default: 3).
	K float64
	// WNf is the neighborhood half-size in pixels (default: 3, >= 1).
	WNf int
	// MMin is the minimum neighborhood size required to attempt a fit
	// (default: 8).
	MMin int
	// SigmaFit bounds the RMS residual of the local plane fit; a pixel
	// whose fit residual exceeds this is dropped (default: problem
	// specific, must be > 0).
	SigmaFit float64
}

// DefaultFlowConfig returns the spec's default NormFlowEstimator tunables
// for the given decay constant.
func DefaultFlowConfig(tau float64) FlowConfig {
	return FlowConfig{
		Tau:      tau,
		K:        3,
		WNf:      3,
		MMin:     8,
		SigmaFit: 1e-3,
	}
}

// Validate checks the configuration is usable, returning ErrConfigInvalid
// wrapped with the offending field on failure.
func (c FlowConfig) Validate() error {
	if c.Tau <= 0 {
		return fmt.Errorf("%w: Tau must be > 0, got %v", ErrConfigInvalid, c.Tau)
	}
	if c.K <= 0 {
		return fmt.Errorf("%w: K must be > 0, got %v", ErrConfigInvalid, c.K)
	}
	if c.WNf < 1 {
		return fmt.Errorf("%w: WNf must be >= 1, got %d", ErrConfigInvalid, c.WNf)
	}
	if c.MMin < 1 {
		return fmt.Errorf("%w: MMin must be >= 1, got %d", ErrConfigInvalid, c.MMin)
	}
	if c.SigmaFit <= 0 {
		return fmt.Errorf("%w: SigmaFit must be > 0, got %v", ErrConfigInvalid, c.SigmaFit)
	}
	return nil
}

// FlowEstimator turns a Surface into NormFlowPacks. It holds no per-frame
// state: every field it touches on a Surface is read-only.
type FlowEstimator struct {
	cfg FlowConfig
}

// NewFlowEstimator validates cfg and returns an estimator.
func NewFlowEstimator(cfg FlowConfig) (*FlowEstimator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &FlowEstimator{cfg: cfg}, nil
}

// candidate is an exposure-window pixel before neighborhood fitting.
type candidate struct {
	t        float64
	polarity bool
}

// Estimate produces the NormFlowPack for the current state of s. recent is
// the raw events ingested during the δ-second window this pack covers,
// used only to build the visualization accumulator image; active-pixel
// selection is driven entirely by s.
func (e *FlowEstimator) Estimate(s *Surface, recent []Event) NormFlowPack {
	w, h := s.Width(), s.Height()
	tCur := s.TimeLatest()
	threshold := e.cfg.K * e.cfg.Tau

	cand := make(map[PixelKey]candidate)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			tp := s.At(x, y, true)
			tn := s.At(x, y, false)
			t, polarity := tp, true
			if tn > tp {
				t, polarity = tn, false
			}
			if t == sentinel || tCur-t > threshold {
				continue
			}
			cand[PixelKey{uint16(x), uint16(y)}] = candidate{t: t, polarity: polarity}
		}
	}

	pMat := NewImage[PixelState](w, h)
	tMat := NewImage[float64](w, h)
	for k, c := range cand {
		tMat.Set(int(k.X), int(k.Y), c.t)
	}

	flows := make(map[PixelKey]*NormFlow)
	for k, c := range cand {
		nf, ok := e.fitPixel(cand, k, c, w, h)
		if !ok {
			continue
		}
		flows[k] = nf
		if c.polarity {
			pMat.Set(int(k.X), int(k.Y), PixelActivePositive)
		} else {
			pMat.Set(int(k.X), int(k.Y), PixelActiveNegative)
		}
	}

	rawCount := NewImage[uint32](w, h)
	for _, ev := range recent {
		if !rawCount.InBounds(int(ev.X), int(ev.Y)) {
			continue
		}
		idx := int(ev.Y)*w + int(ev.X)
		rawCount.Data[idx]++
	}

	return NormFlowPack{
		TCur:     tCur,
		PMat:     pMat,
		TMat:     tMat,
		Flows:    flows,
		Decay:    s.DecayTimeSurface(true, DecayDiff, e.cfg.Tau),
		RawCount: rawCount,
	}
}

// fitPixel attempts the local plane fit around k. It returns (nil, false)
// if the neighborhood is too small or the fit residual exceeds SigmaFit.
func (e *FlowEstimator) fitPixel(cand map[PixelKey]candidate, k PixelKey, c candidate, w, h int) (*NormFlow, bool) {
	type sample struct {
		x, y int
		t    float64
	}
	var nbrs []sample
	wnf := e.cfg.WNf
	for dy := -wnf; dy <= wnf; dy++ {
		for dx := -wnf; dx <= wnf; dx++ {
			x, y := int(k.X)+dx, int(k.Y)+dy
			if x < 0 || x >= w || y < 0 || y >= h {
				continue
			}
			nk := PixelKey{uint16(x), uint16(y)}
			nc, ok := cand[nk]
			if !ok || nc.polarity != c.polarity {
				continue
			}
			nbrs = append(nbrs, sample{x, y, nc.t})
		}
	}
	if len(nbrs) < e.cfg.MMin {
		return nil, false
	}

	var sxx, sxy, syy, sx, sy, sxt, syt, st float64
	n := float64(len(nbrs))
	for _, s := range nbrs {
		fx, fy := float64(s.x), float64(s.y)
		sxx += fx * fx
		sxy += fx * fy
		syy += fy * fy
		sx += fx
		sy += fy
		sxt += fx * s.t
		syt += fy * s.t
		st += s.t
	}

	a := mat.NewDense(3, 3, []float64{
		sxx, sxy, sx,
		sxy, syy, sy,
		sx, sy, n,
	})
	b := mat.NewVecDense(3, []float64{sxt, syt, st})
	var coef mat.VecDense
	if err := coef.SolveVec(a, b); err != nil {
		return nil, false
	}
	ca, cb, cc := coef.AtVec(0), coef.AtVec(1), coef.AtVec(2)

	var sqResid float64
	inliers := make([]RawInlier, len(nbrs))
	for i, s := range nbrs {
		pred := ca*float64(s.x) + cb*float64(s.y) + cc
		d := s.t - pred
		sqResid += d * d
		inliers[i] = RawInlier{X: uint16(s.x), Y: uint16(s.y), T: s.t}
	}
	rms := math.Sqrt(sqResid / n)
	if rms > e.cfg.SigmaFit {
		return nil, false
	}

	denom := ca*ca + cb*cb
	if denom == 0 {
		return nil, false
	}
	nf := Vec2{X: -ca / denom, Y: -cb / denom}
	nfNorm := nf.Norm()
	if nfNorm == 0 {
		return nil, false
	}

	return &NormFlow{
		P:          k,
		T:          c.t,
		Polarity:   c.polarity,
		NF:         nf,
		NFDir:      nf.Unit(),
		NFNorm:     nfNorm,
		RawInliers: inliers,
	}, true
}
