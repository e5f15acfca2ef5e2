// Package led defines the colors shown on an addressable LED strip.
package led

import "fmt"

// Color is a logical RGB color of one LED.
type Color struct {
	R, G, B uint8
}

// RGB creates a Color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// GRB returns the channels in the order they are shifted out to the strip.
func (c Color) GRB() [3]byte {
	return [3]byte{c.G, c.R, c.B}
}

// String implements fmt.Stringer.
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Buffer is the color of every LED along the strip, index 0 being the
// first LED on the data line. The length is fixed when created.
type Buffer []Color

// NewBuffer allocates a Buffer for n LEDs.
func NewBuffer(n int) Buffer {
	return make(Buffer, n)
}

// PayloadSize is the number of wire bytes (R, G, B triples) for the buffer.
func (b Buffer) PayloadSize() int {
	return len(b) * 3
}

// SetRGB fills every LED from consecutive R, G, B triples.
// len(payload) must be exactly PayloadSize.
func (b Buffer) SetRGB(payload []byte) error {
	if len(payload) != b.PayloadSize() {
		return fmt.Errorf("payload size %d mismatch, expect %d", len(payload), b.PayloadSize())
	}
	for i := range b {
		b[i] = Color{R: payload[i*3], G: payload[i*3+1], B: payload[i*3+2]}
	}
	return nil
}

// RGB writes R, G, B triples into dst and returns the written slice.
// dst is grown only when its capacity is too small.
func (b Buffer) RGB(dst []byte) []byte {
	if cap(dst) < b.PayloadSize() {
		dst = make([]byte, b.PayloadSize())
	}
	dst = dst[:b.PayloadSize()]
	for i, c := range b {
		dst[i*3], dst[i*3+1], dst[i*3+2] = c.R, c.G, c.B
	}
	return dst
}

// Fill sets all LEDs to the same color.
func (b Buffer) Fill(c Color) {
	for i := range b {
		b[i] = c
	}
}
