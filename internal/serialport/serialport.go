// Package serialport opens the sensor's serial device. The rest of the
// program only ever sees it as an io.ReadCloser.
package serialport

import (
	"io"

	"go.bug.st/serial"

	"github.com/LukaszMeyer/pms5003/internal/errors"
)

// Open opens the named serial device in 8N1 mode at the given baud rate.
// The PMS5003 family talks at 9600 baud.
func Open(name string, baud int) (io.ReadCloser, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, errors.Wrap(errors.ErrSerialOpen, err)
	}

	return port, nil
}
