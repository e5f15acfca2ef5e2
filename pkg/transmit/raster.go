// Package transmit converts pulse sequences into forms that hardware
// peripherals can emit.
package transmit

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/physic"

	"github.com/robotalks/adalight.go/pkg/ws2812b"
)

// DefaultSampleRate gives 400ns per sample, the coarsest rate where the
// default timing still separates zero and one bits.
const DefaultSampleRate = 2500 * physic.KiloHertz

var (
	// ErrSampleRate indicates the sample rate can't represent the timing.
	ErrSampleRate = errors.New("sample rate too low for timing")
	// ErrOverflow indicates the sequence doesn't fit the raster storage.
	ErrOverflow = errors.New("sequence exceeds raster capacity")
)

// Raster renders a pulse sequence as a bit stream sampled at a fixed rate,
// most significant bit first. A set bit drives the line high.
type Raster struct {
	timing ws2812b.Timing
	rate   physic.Frequency
	buf    []byte
}

// NewRaster creates a Raster with storage for numLEDs.
func NewRaster(numLEDs int, t ws2812b.Timing, rate physic.Frequency) (*Raster, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if numLEDs <= 0 {
		return nil, fmt.Errorf("invalid number of LEDs %d", numLEDs)
	}
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	r := &Raster{timing: t, rate: rate}
	zero, one := r.pulseSamples(t.ZeroBit()), r.pulseSamples(t.OneBit())
	if r.Samples(t.T0H) == 0 || r.Samples(t.T0H) == r.Samples(t.T1H) {
		return nil, fmt.Errorf("%w: %s at %s", ErrSampleRate, t, rate)
	}
	bit := zero
	if one > bit {
		bit = one
	}
	bits := numLEDs*24*bit + r.pulseSamples(t.ResetPulse())
	r.buf = make([]byte, (bits+7)/8)
	return r, nil
}

// SampleRate returns the sample rate.
func (r *Raster) SampleRate() physic.Frequency {
	return r.rate
}

// Capacity returns the size of the storage in bytes.
func (r *Raster) Capacity() int {
	return len(r.buf)
}

// Samples converts a duration in clock ticks to the nearest number of samples.
func (r *Raster) Samples(ticks uint16) int {
	clock := uint64(r.timing.Clock)
	return int((uint64(ticks)*uint64(r.rate) + clock/2) / clock)
}

func (r *Raster) pulseSamples(p ws2812b.Pulse) int {
	return r.Samples(p.Duration0) + r.Samples(p.Duration1)
}

// Rasterize renders seq into the internal storage and returns the used
// part. The result is only valid until the next call.
func (r *Raster) Rasterize(seq ws2812b.Sequence) ([]byte, error) {
	for n := range r.buf {
		r.buf[n] = 0
	}
	var pos int
	limit := len(r.buf) * 8
	for _, p := range seq {
		for _, half := range [2]struct {
			level ws2812b.Level
			ticks uint16
		}{{p.Level0, p.Duration0}, {p.Level1, p.Duration1}} {
			n := r.Samples(half.ticks)
			if pos+n > limit {
				return nil, ErrOverflow
			}
			if half.level == ws2812b.High {
				for i := pos; i < pos+n; i++ {
					r.buf[i>>3] |= 0x80 >> uint(i&7)
				}
			}
			pos += n
		}
	}
	return r.buf[:(pos+7)/8], nil
}
