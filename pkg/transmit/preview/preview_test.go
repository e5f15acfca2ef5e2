package preview

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/adalight.go/pkg/led"
	"github.com/robotalks/adalight.go/pkg/ws2812b"
)

type canvas struct {
	width  int
	frames []image.Image
	halted bool
}

func (c *canvas) String() string          { return "canvas" }
func (c *canvas) Halt() error             { c.halted = true; return nil }
func (c *canvas) ColorModel() color.Model { return color.NRGBAModel }
func (c *canvas) Bounds() image.Rectangle { return image.Rect(0, 0, c.width, 1) }

func (c *canvas) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	img := image.NewNRGBA(r)
	for x := r.Min.X; x < r.Max.X; x++ {
		img.Set(x, 0, src.At(sp.X+x, sp.Y))
	}
	c.frames = append(c.frames, img)
	return nil
}

func TestTransmit(t *testing.T) {
	tm := ws2812b.DefaultTiming
	c := &canvas{width: 3}
	tx := New(c, 3, tm)
	colors := led.Buffer{led.RGB(255, 0, 0), led.RGB(0, 255, 0), led.RGB(1, 2, 3)}
	seq := ws2812b.Encode(make(ws2812b.Sequence, ws2812b.SequenceLen(3)), colors, tm)
	require.NoError(t, tx.Transmit(seq))
	require.Equal(t, colors, tx.Colors())
	require.Len(t, c.frames, 1)
	require.Equal(t, color.NRGBA{R: 1, G: 2, B: 3, A: 0xff}, c.frames[0].At(2, 0))
	require.Equal(t, color.NRGBA{G: 255, A: 0xff}, c.frames[0].At(1, 0))
	require.NoError(t, tx.Close())
	require.True(t, c.halted)
}

func TestTransmitMalformed(t *testing.T) {
	tx := New(&canvas{width: 2}, 2, ws2812b.DefaultTiming)
	err := tx.Transmit(ws2812b.Sequence{ws2812b.DefaultTiming.ResetPulse()})
	require.Error(t, err)
}
