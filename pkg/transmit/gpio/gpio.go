// Package gpio emits the data line by streaming bits to a GPIO pin.
package gpio

import (
	"fmt"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/gpio/gpiostream"
	"periph.io/x/conn/v3/physic"

	"github.com/robotalks/adalight.go/pkg/transmit"
	"github.com/robotalks/adalight.go/pkg/ws2812b"
)

// StreamOutPin is a pin able to emit a gpiostream.Stream.
type StreamOutPin interface {
	StreamOut(gpiostream.Stream) error
}

// Transmitter implements driver.Transmitter using a pin supporting
// gpiostream output.
type Transmitter struct {
	pin    StreamOutPin
	raster *transmit.Raster
	stream gpiostream.BitStream
}

// Open finds the pin by name and creates the Transmitter.
func Open(name string, numLEDs int, t ws2812b.Timing, rate physic.Frequency) (*Transmitter, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("unknown pin %q", name)
	}
	out, ok := p.(StreamOutPin)
	if !ok {
		return nil, fmt.Errorf("pin %s doesn't support streaming", p)
	}
	return New(out, numLEDs, t, rate)
}

// New creates a Transmitter streaming to pin.
func New(pin StreamOutPin, numLEDs int, t ws2812b.Timing, rate physic.Frequency) (*Transmitter, error) {
	raster, err := transmit.NewRaster(numLEDs, t, rate)
	if err != nil {
		return nil, err
	}
	return &Transmitter{
		pin:    pin,
		raster: raster,
		stream: gpiostream.BitStream{Freq: raster.SampleRate()},
	}, nil
}

// Transmit implements driver.Transmitter.
func (t *Transmitter) Transmit(seq ws2812b.Sequence) error {
	data, err := t.raster.Rasterize(seq)
	if err != nil {
		return err
	}
	t.stream.Bits = data
	return t.pin.StreamOut(&t.stream)
}
