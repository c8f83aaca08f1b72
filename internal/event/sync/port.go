package sync

import (
	"io"

	"go.bug.st/serial"
)

// TriggerPorter is the minimal interface a hardware trigger line must
// satisfy, grounded on the teacher's serialmux.SerialPorter.
type TriggerPorter interface {
	io.ReadWriter
	io.Closer
}

// DefaultMode returns the serial mode used by the reference trigger-pulse
// hardware: 115200 8N1, matching the original source's sync board firmware.
func DefaultMode() *serial.Mode {
	return &serial.Mode{
		BaudRate: 115200,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
}

// Open opens a real serial trigger port at path.
func Open(path string) (TriggerPorter, error) {
	return serial.Open(path, DefaultMode())
}
