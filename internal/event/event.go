package event

import "sort"

// Event is a single (t, x, y, polarity) brightness-change sample from an
// event camera. Polarity true means the pixel brightened. Events are
// immutable once created.
type Event struct {
	T        float64 // seconds, since an arbitrary epoch
	X        uint16
	Y        uint16
	Polarity bool
}

// EventArray is one ingestion batch: events sorted by T ascending, with
// TBatch equal to the timestamp of the last event. Arrays are delivered by
// an event source in non-decreasing TBatch order; within an array, events
// may arrive out of order and are tolerated (see Surface.Grab).
type EventArray struct {
	TBatch float64
	Events []Event
}

// NewEventArray builds an EventArray from an unsorted slice of events,
// sorting them by T ascending and setting TBatch to the last event's
// timestamp. Returns the zero value for an empty input.
func NewEventArray(events []Event) EventArray {
	if len(events) == 0 {
		return EventArray{}
	}
	sorted := make([]Event, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].T < sorted[j].T })
	return EventArray{
		TBatch: sorted[len(sorted)-1].T,
		Events: sorted,
	}
}
