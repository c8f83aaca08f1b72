package ingest

import (
	"errors"

	"github.com/evcam/ekalibr-go/internal/event"
)

// ErrShortRecord marks a wire record too short to decode.
var ErrShortRecord = errors.New("ingest: short record")

// Source produces EventArray batches behind one interface, so the CLI and
// tests can swap PCAPSource and UDPSource freely. Batches come out in the
// order the input delivers them; no reordering or ordering check is done
// across batches.
type Source interface {
	// Next returns the next batch. io.EOF (wrapped) signals a clean end of
	// input; any other error is fatal to the source.
	Next() (event.EventArray, error)
	// Close releases the underlying file or socket.
	Close() error
}
