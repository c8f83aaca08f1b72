package event

import "math"

// sentinel compares as "older than any event": exp(-(tLatest-sentinel)/tau)
// underflows to 0 for any finite tLatest and tau > 0, so pixels never
// written decay to 0; only DecayTimeSurface's DecayDiff remap checks for
// them explicitly.
const sentinel = math.Inf(-1)

// DecayMode selects how the two polarity planes of a Surface are fused into
// a single decay or raw time surface.
type DecayMode int

const (
	// DecayDiff fuses by subtracting the negative-polarity plane from the
	// positive-polarity plane.
	DecayDiff DecayMode = iota
	// DecayPositiveOnly uses only the positive-polarity plane.
	DecayPositiveOnly
	// DecayNegativeOnly uses only the negative-polarity plane.
	DecayNegativeOnly
)

// Surface is the Surface of Active Events (SAE): a dense W x H x 2 grid of
// timestamps, one plane per polarity, plus the largest timestamp ever
// ingested. It is mutated only by Grab; everything downstream reads a
// snapshot at TimeLatest and never inspects individual events.
type Surface struct {
	w, h       int
	pos        []float64 // positive-polarity plane, row-major
	neg        []float64 // negative-polarity plane, row-major
	timeLatest float64
}

// NewSurface allocates a Surface for a w x h sensor. Both planes start at
// the sentinel "older than any event" value.
func NewSurface(w, h int) *Surface {
	s := &Surface{
		w:          w,
		h:          h,
		pos:        make([]float64, w*h),
		neg:        make([]float64, w*h),
		timeLatest: sentinel,
	}
	for i := range s.pos {
		s.pos[i] = sentinel
		s.neg[i] = sentinel
	}
	return s
}

// Width returns the sensor width in pixels.
func (s *Surface) Width() int { return s.w }

// Height returns the sensor height in pixels.
func (s *Surface) Height() int { return s.h }

// Grab ingests one event. Out-of-range pixel coordinates are silently
// dropped (no error is returned; event cameras occasionally
// emit out-of-range coordinates near sensor edges). An event older than the
// value already stored at its pixel is also dropped (monotonic updates
// only), but TimeLatest still advances to the max timestamp ever ingested,
// since out-of-order events are still "seen", just not written.
func (s *Surface) Grab(e Event) {
	if e.T > s.timeLatest {
		s.timeLatest = e.T
	}
	if int(e.X) < 0 || int(e.X) >= s.w || int(e.Y) < 0 || int(e.Y) >= s.h {
		return
	}
	idx := int(e.Y)*s.w + int(e.X)
	plane := s.pos
	if !e.Polarity {
		plane = s.neg
	}
	if e.T > plane[idx] {
		plane[idx] = e.T
	}
}

// GrabArray ingests every event of an EventArray in order.
func (s *Surface) GrabArray(a EventArray) {
	for _, e := range a.Events {
		s.Grab(e)
	}
}

// TimeLatest returns the largest timestamp ever ingested.
func (s *Surface) TimeLatest() float64 { return s.timeLatest }

// At returns the stored timestamp for (x, y, polarity). Returns the
// sentinel value for a pixel never written.
func (s *Surface) At(x, y int, polarity bool) float64 {
	idx := y*s.w + x
	if polarity {
		return s.pos[idx]
	}
	return s.neg[idx]
}

// fused returns the per-pixel decay (or raw timestamp, when decay is false)
// fusion of the two polarity planes according to mode.
func (s *Surface) fused(ignorePolarity bool, mode DecayMode, decay bool, tau float64) []float64 {
	out := make([]float64, s.w*s.h)
	for i := range out {
		tp, tn := s.pos[i], s.neg[i]
		if ignorePolarity {
			t := math.Max(tp, tn)
			if decay {
				out[i] = math.Exp(-(s.timeLatest - t) / tau)
			} else {
				out[i] = t
			}
			continue
		}
		var dp, dn float64
		if decay {
			dp = math.Exp(-(s.timeLatest - tp) / tau)
			dn = math.Exp(-(s.timeLatest - tn) / tau)
		} else {
			dp, dn = tp, tn
		}
		switch mode {
		case DecayPositiveOnly:
			out[i] = dp
		case DecayNegativeOnly:
			out[i] = dn
		default: // DecayDiff
			out[i] = dp - dn
		}
	}
	return out
}

// DecayTimeSurface renders the exponentially-decayed SAE, rescaled to
// [0, 255] and clamped. A pixel never written renders as 0. A pixel whose
// timestamp in the selected plane (either plane, with ignorePolarity)
// equals TimeLatest renders as 255; in DecayDiff mode with polarity kept,
// the positive-minus-negative difference is remapped from [-1, 1], so such
// a pixel renders 255 only when its negative plane has decayed to 0.
func (s *Surface) DecayTimeSurface(ignorePolarity bool, mode DecayMode, tau float64) Image[uint8] {
	fused := s.fused(ignorePolarity, mode, true, tau)
	out := NewImage[uint8](s.w, s.h)
	for i, v := range fused {
		scaled := v
		if mode == DecayDiff && !ignorePolarity {
			if s.pos[i] == sentinel && s.neg[i] == sentinel {
				continue // never written: stays 0
			}
			// Diff ranges over [-1, 1]; remap to [0, 1] before scaling.
			scaled = (v + 1) / 2
		}
		out.Data[i] = clamp255(scaled * 255)
	}
	return out
}

// RawTimeSurface returns the fused timestamp image directly, with no decay
// applied.
func (s *Surface) RawTimeSurface(ignorePolarity bool, mode DecayMode) Image[float64] {
	fused := s.fused(ignorePolarity, mode, false, tauUnused)
	return Image[float64]{W: s.w, H: s.h, Data: fused}
}

// tauUnused documents that RawTimeSurface's fused() call ignores tau (decay
// is disabled for that call).
const tauUnused = 1

func clamp255(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
