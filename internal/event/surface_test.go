package event

import (
	"math"
	"testing"
)

func TestSurface_GrabIsMonotonicPerPixel(t *testing.T) {
	s := NewSurface(10, 10)
	s.Grab(Event{T: 5, X: 4, Y: 4, Polarity: true})
	if got := s.At(4, 4, true); got != 5 {
		t.Fatalf("expected 5, got %v", got)
	}
	// Older event at the same pixel must be dropped.
	s.Grab(Event{T: 2, X: 4, Y: 4, Polarity: true})
	if got := s.At(4, 4, true); got != 5 {
		t.Errorf("stale event overwrote newer value: got %v", got)
	}
	// Newer event must take effect.
	s.Grab(Event{T: 9, X: 4, Y: 4, Polarity: true})
	if got := s.At(4, 4, true); got != 9 {
		t.Errorf("expected 9, got %v", got)
	}
}

func TestSurface_TimeLatestTracksGlobalMax(t *testing.T) {
	s := NewSurface(10, 10)
	events := []Event{
		{T: 5, X: 0, Y: 0, Polarity: true},
		{T: 2, X: 1, Y: 1, Polarity: true}, // older than time_latest, still "ingested"
		{T: 7, X: 2, Y: 2, Polarity: false},
	}
	for _, e := range events {
		s.Grab(e)
	}
	if s.TimeLatest() != 7 {
		t.Errorf("expected time_latest 7, got %v", s.TimeLatest())
	}
	// The out-of-order event still wrote its own pixel since it was newer
	// than that pixel's previous (sentinel) value.
	if got := s.At(1, 1, true); got != 2 {
		t.Errorf("expected pixel (1,1) to hold 2, got %v", got)
	}
}

func TestSurface_OutOfBoundsDropped(t *testing.T) {
	s := NewSurface(4, 4)
	s.Grab(Event{T: 1, X: 100, Y: 100, Polarity: true})
	if s.TimeLatest() != 1 {
		t.Errorf("out-of-bounds event should still advance time_latest, got %v", s.TimeLatest())
	}
}

func TestSurface_DecayTimeSurfaceBounds(t *testing.T) {
	s := NewSurface(4, 4)
	s.Grab(Event{T: 10, X: 0, Y: 0, Polarity: true})
	s.Grab(Event{T: 10, X: 1, Y: 1, Polarity: false})

	img := s.DecayTimeSurface(true, DecayDiff, 1.0)
	if img.At(0, 0) != 255 {
		t.Errorf("pixel at time_latest should render 255, got %d", img.At(0, 0))
	}
	if img.At(2, 2) != 0 {
		t.Errorf("never-written pixel should render 0, got %d", img.At(2, 2))
	}
	for _, v := range img.Data {
		if v > 255 {
			t.Fatalf("decay surface value out of uint8 range: %d", v)
		}
	}
}

func TestSurface_RawTimeSurfacePositiveOnly(t *testing.T) {
	s := NewSurface(2, 2)
	s.Grab(Event{T: 3, X: 0, Y: 0, Polarity: true})
	s.Grab(Event{T: 8, X: 0, Y: 0, Polarity: false})

	raw := s.RawTimeSurface(false, DecayPositiveOnly)
	if got := raw.At(0, 0); got != 3 {
		t.Errorf("expected positive plane value 3, got %v", got)
	}
}

func TestSurface_NeverWrittenPixelIsSentinel(t *testing.T) {
	s := NewSurface(2, 2)
	if got := s.At(1, 1, true); !math.IsInf(got, -1) {
		t.Errorf("expected -Inf sentinel for never-written pixel, got %v", got)
	}
}
