package ws2812b

import (
	"errors"
	"fmt"

	"github.com/robotalks/adalight.go/pkg/led"
)

// Encode converts colors into dst and returns the encoded part of dst.
// Colors are shifted out in G, R, B order, most significant bit first.
// It doesn't allocate; dst must hold at least SequenceLen(len(colors)) pulses.
func Encode(dst Sequence, colors led.Buffer, t Timing) Sequence {
	n := SequenceLen(len(colors))
	if len(dst) < n {
		panic(fmt.Sprintf("ws2812b: sequence too short: %d < %d", len(dst), n))
	}
	zero, one := t.ZeroBit(), t.OneBit()
	i := 0
	for _, c := range colors {
		for _, b := range c.GRB() {
			for mask := byte(0x80); mask != 0; mask >>= 1 {
				if b&mask != 0 {
					dst[i] = one
				} else {
					dst[i] = zero
				}
				i++
			}
		}
	}
	dst[i] = t.ResetPulse()
	return dst[:n]
}

// Encoder owns the pulse storage of a strip.
type Encoder struct {
	timing Timing
	seq    Sequence
}

// NewEncoder allocates storage for numLEDs.
func NewEncoder(numLEDs int, t Timing) (*Encoder, error) {
	if numLEDs <= 0 {
		return nil, fmt.Errorf("invalid number of LEDs: %d", numLEDs)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &Encoder{timing: t, seq: make(Sequence, SequenceLen(numLEDs))}, nil
}

// Timing returns the timing used.
func (e *Encoder) Timing() Timing {
	return e.timing
}

// NumLEDs returns the strip length.
func (e *Encoder) NumLEDs() int {
	return (len(e.seq) - 1) / 24
}

// Encode encodes colors into the internal storage. The returned Sequence
// is overwritten by the next call.
func (e *Encoder) Encode(colors led.Buffer) (Sequence, error) {
	if len(colors) != e.NumLEDs() {
		return nil, fmt.Errorf("%d colors for a strip of %d", len(colors), e.NumLEDs())
	}
	return Encode(e.seq, colors, e.timing), nil
}

// ErrMalformed indicates a pulse sequence can't be decoded.
var ErrMalformed = errors.New("malformed pulse sequence")

// Decode recovers the colors from a sequence produced with timing t.
// A bit is one if its high half-period is closer to T1H than T0H.
func Decode(seq Sequence, t Timing, dst led.Buffer) error {
	if len(seq) != SequenceLen(len(dst)) {
		return fmt.Errorf("%w: %d pulses for %d LEDs", ErrMalformed, len(seq), len(dst))
	}
	threshold := (uint32(t.T0H) + uint32(t.T1H)) / 2
	var grb [3]byte
	for i := range dst {
		for ch := range grb {
			var b byte
			for _, p := range seq[i*24+ch*8 : i*24+ch*8+8] {
				if p.Level0 != High || p.Level1 != Low {
					return fmt.Errorf("%w: unexpected levels at LED %d", ErrMalformed, i)
				}
				b <<= 1
				if uint32(p.Duration0) > threshold {
					b |= 1
				}
			}
			grb[ch] = b
		}
		dst[i] = led.Color{R: grb[1], G: grb[0], B: grb[2]}
	}
	if last := seq[len(seq)-1]; last.Level0 != Low || last.Level1 != Low {
		return fmt.Errorf("%w: missing reset", ErrMalformed)
	}
	return nil
}
