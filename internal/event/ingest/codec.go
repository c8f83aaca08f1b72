package ingest

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/evcam/ekalibr-go/internal/event"
)

// recordSize is the wire size of one event record: an 8-byte float64
// timestamp, two 2-byte pixel coordinates, and a 1-byte polarity flag.
const recordSize = 8 + 2 + 2 + 1

// batchSize caps how many records decodeBatch reads per call, bounding
// per-call allocation regardless of payload size.
const batchSize = 4096

// decodeRecord parses one length-recordSize wire record, as produced by the
// companion encoder used by test fixtures and the live emitter. The layout
// is little-endian: t_seconds float64, x uint16, y uint16, polarity uint8
// (0 or 1).
func decodeRecord(b []byte) (event.Event, error) {
	if len(b) < recordSize {
		return event.Event{}, fmt.Errorf("%w: record is %d bytes, want %d", ErrShortRecord, len(b), recordSize)
	}
	t := math.Float64frombits(binary.LittleEndian.Uint64(b[0:8]))
	x := binary.LittleEndian.Uint16(b[8:10])
	y := binary.LittleEndian.Uint16(b[10:12])
	polarity := b[12] != 0
	return event.Event{T: t, X: x, Y: y, Polarity: polarity}, nil
}

// decodeBatch decodes up to batchSize whole records from payload into a
// single EventArray; records beyond that cap are dropped. A short trailing
// partial record is dropped too (not an error: payloads from a lossy UDP
// transport may be truncated).
func decodeBatch(payload []byte) event.EventArray {
	n := len(payload) / recordSize
	if n > batchSize {
		n = batchSize
	}
	events := make([]event.Event, 0, n)
	for i := 0; i < n; i++ {
		rec, err := decodeRecord(payload[i*recordSize : (i+1)*recordSize])
		if err != nil {
			continue
		}
		events = append(events, rec)
	}
	return event.NewEventArray(events)
}

// encodeRecord is decodeRecord's inverse, used by test fixtures to build
// synthetic wire payloads.
func encodeRecord(e event.Event) []byte {
	b := make([]byte, recordSize)
	binary.LittleEndian.PutUint64(b[0:8], math.Float64bits(e.T))
	binary.LittleEndian.PutUint16(b[8:10], e.X)
	binary.LittleEndian.PutUint16(b[10:12], e.Y)
	if e.Polarity {
		b[12] = 1
	}
	return b
}
