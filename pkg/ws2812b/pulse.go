package ws2812b

// Level is the signal level of a half-period.
type Level uint8

// Levels.
const (
	Low  Level = 0
	High Level = 1
)

// Pulse is one square-wave cycle made of two half-periods.
// Durations are in ticks of Timing.Clock.
type Pulse struct {
	Level0    Level
	Duration0 uint16
	Level1    Level
	Duration1 uint16
}

// Sequence is the pulse train of a full strip update: 24 pulses per LED
// followed by one reset pulse.
type Sequence []Pulse

// SequenceLen returns the length of a Sequence for numLEDs.
func SequenceLen(numLEDs int) int {
	return numLEDs*24 + 1
}

// ZeroBit returns the pulse encoding a zero bit.
func (t Timing) ZeroBit() Pulse {
	return Pulse{Level0: High, Duration0: t.T0H, Level1: Low, Duration1: t.T0L}
}

// OneBit returns the pulse encoding a one bit.
func (t Timing) OneBit() Pulse {
	return Pulse{Level0: High, Duration0: t.T1H, Level1: Low, Duration1: t.T1L}
}

// ResetPulse returns the trailing low pulse latching the colors.
func (t Timing) ResetPulse() Pulse {
	return Pulse{Level0: Low, Duration0: t.Reset / 2, Level1: Low, Duration1: t.Reset / 2}
}
