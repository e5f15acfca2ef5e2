package ws2812b

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/physic"
)

// MaxDuration is the largest duration of a half-period in ticks.
const MaxDuration = 0x7fff

// MinReset is the minimum low time latching the colors.
const MinReset = 50 * time.Microsecond

// Timing defines the durations of the half-periods in ticks of Clock.
type Timing struct {
	Clock physic.Frequency
	T0H   uint16
	T0L   uint16
	T1H   uint16
	T1L   uint16
	Reset uint16
}

// DefaultTiming uses an 80MHz clock (12.5ns per tick).
// Reset is 60us, leaving some margin over MinReset.
var DefaultTiming = Timing{
	Clock: 80 * physic.MegaHertz,
	T0H:   32,
	T0L:   68,
	T1H:   64,
	T1L:   36,
	Reset: 4800,
}

var (
	errNoClock    = errors.New("clock not specified")
	errDutyCycle  = errors.New("one bit duty cycle must be larger than zero bit")
	errResetShort = fmt.Errorf("reset shorter than %s", MinReset)
)

// Validate checks the timing against the datasheet constraints.
func (t Timing) Validate() error {
	if t.Clock <= 0 {
		return errNoClock
	}
	for _, d := range []uint16{t.T0H, t.T0L, t.T1H, t.T1L} {
		if d == 0 || d > MaxDuration {
			return fmt.Errorf("invalid duration %d", d)
		}
	}
	if t.Reset/2 > MaxDuration {
		return fmt.Errorf("invalid reset %d", t.Reset)
	}
	// T1H/T1L > T0H/T0L
	if uint32(t.T1H)*uint32(t.T0L) <= uint32(t.T0H)*uint32(t.T1L) {
		return errDutyCycle
	}
	if t.Picoseconds(t.Reset/2*2) < uint64(MinReset.Nanoseconds())*1000 {
		return errResetShort
	}
	return nil
}

// Picoseconds converts ticks into picoseconds.
func (t Timing) Picoseconds(ticks uint16) uint64 {
	// Clock is in micro hertz.
	return uint64(float64(ticks)*1e18/float64(t.Clock) + 0.5)
}

// Nanoseconds converts ticks into nanoseconds.
func (t Timing) Nanoseconds(ticks uint16) float64 {
	return float64(ticks) * 1e15 / float64(t.Clock)
}

// Rescale converts the durations to a different clock.
func (t Timing) Rescale(clock physic.Frequency) Timing {
	scale := func(d uint16) uint16 {
		v := float64(d)*float64(clock)/float64(t.Clock) + 0.5
		if v > 0xffff {
			return 0xffff
		}
		return uint16(v)
	}
	return Timing{
		Clock: clock,
		T0H:   scale(t.T0H),
		T0L:   scale(t.T0L),
		T1H:   scale(t.T1H),
		T1L:   scale(t.T1L),
		Reset: scale(t.Reset),
	}
}

// String implements fmt.Stringer.
func (t Timing) String() string {
	return fmt.Sprintf("T0H=%.1fns T0L=%.1fns T1H=%.1fns T1L=%.1fns RES=%.1fus @%s",
		t.Nanoseconds(t.T0H), t.Nanoseconds(t.T0L),
		t.Nanoseconds(t.T1H), t.Nanoseconds(t.T1L),
		t.Nanoseconds(t.Reset)/1000, t.Clock)
}
