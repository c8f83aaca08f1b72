package eventconfig

import (
	"fmt"

	"github.com/evcam/ekalibr-go/internal/event"
)

// ErrConfigInvalid is eventconfig's alias for the shared configuration
// error sentinel, so callers can errors.Is against either package.
var ErrConfigInvalid = event.ErrConfigInvalid

// EventModelType names the event camera's pixel model (grounded on
// sensor_model.h in the original source). It is carried in Config only:
// the ingest package decodes a single wire format and does not read it.
type EventModelType int

const (
	// Prophesee is the default Metavision/Prophesee event model.
	Prophesee EventModelType = iota
	// Dvs is the classic DVS (Dynamic Vision Sensor) event model.
	Dvs
)

// String returns the model's canonical name.
func (m EventModelType) String() string {
	switch m {
	case Prophesee:
		return "prophesee"
	case Dvs:
		return "dvs"
	default:
		return fmt.Sprintf("EventModelType(%d)", int(m))
	}
}

// EventModelTypeFromString parses a model name, rejecting unknown values.
func EventModelTypeFromString(s string) (EventModelType, error) {
	switch s {
	case "prophesee":
		return Prophesee, nil
	case "dvs":
		return Dvs, nil
	default:
		return 0, fmt.Errorf("%w: unknown event model %q", ErrConfigInvalid, s)
	}
}

// CirclePatternType names the calibration target's circle-grid layout.
type CirclePatternType int

const (
	// SymmetricGrid is a rows x cols grid of circles on a regular lattice.
	SymmetricGrid CirclePatternType = iota
	// AsymmetricGrid staggers alternating rows by half a column spacing,
	// doubling the effective row count for the same physical target size.
	AsymmetricGrid
)

// String returns the pattern's canonical name.
func (p CirclePatternType) String() string {
	switch p {
	case SymmetricGrid:
		return "symmetric"
	case AsymmetricGrid:
		return "asymmetric"
	default:
		return fmt.Sprintf("CirclePatternType(%d)", int(p))
	}
}

// CirclePatternTypeFromString parses a pattern name, rejecting unknown
// values.
func CirclePatternTypeFromString(s string) (CirclePatternType, error) {
	switch s {
	case "symmetric":
		return SymmetricGrid, nil
	case "asymmetric":
		return AsymmetricGrid, nil
	default:
		return 0, fmt.Errorf("%w: unknown circle pattern %q", ErrConfigInvalid, s)
	}
}
