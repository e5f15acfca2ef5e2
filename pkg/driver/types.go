package driver

import (
	"github.com/robotalks/adalight.go/pkg/ws2812b"
)

// Transmitter emits a pulse sequence on the data line.
type Transmitter interface {
	// Transmit blocks until the whole sequence is sent or fails.
	Transmit(ws2812b.Sequence) error
}

// TransmitFunc is func form of Transmitter.
type TransmitFunc func(ws2812b.Sequence) error

// Transmit implements Transmitter.
func (f TransmitFunc) Transmit(seq ws2812b.Sequence) error {
	return f(seq)
}
