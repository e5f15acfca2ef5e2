// Package preview shows the strip on a display instead of real LEDs.
package preview

import (
	"image"
	"image/color"

	"periph.io/x/conn/v3/display"
	"periph.io/x/extra/devices/screen"

	"github.com/robotalks/adalight.go/pkg/led"
	"github.com/robotalks/adalight.go/pkg/ws2812b"
)

// Transmitter decodes the pulses back into colors and draws them as a
// one row image.
type Transmitter struct {
	drawer display.Drawer
	timing ws2812b.Timing
	colors led.Buffer
	img    *image.NRGBA
}

// NewConsole creates a Transmitter drawing on the terminal.
func NewConsole(numLEDs int, t ws2812b.Timing) *Transmitter {
	return New(screen.New(numLEDs), numLEDs, t)
}

// New creates a Transmitter drawing with drawer.
func New(drawer display.Drawer, numLEDs int, t ws2812b.Timing) *Transmitter {
	return &Transmitter{
		drawer: drawer,
		timing: t,
		colors: led.NewBuffer(numLEDs),
		img:    image.NewNRGBA(image.Rect(0, 0, numLEDs, 1)),
	}
}

// Colors returns the colors last drawn.
func (t *Transmitter) Colors() led.Buffer {
	return t.colors
}

// Transmit implements driver.Transmitter.
func (t *Transmitter) Transmit(seq ws2812b.Sequence) error {
	if err := ws2812b.Decode(seq, t.timing, t.colors); err != nil {
		return err
	}
	for x, c := range t.colors {
		t.img.SetNRGBA(x, 0, color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
	}
	return t.drawer.Draw(t.drawer.Bounds(), t.img, image.Point{})
}

// Close implements io.Closer.
func (t *Transmitter) Close() error {
	return t.drawer.Halt()
}
