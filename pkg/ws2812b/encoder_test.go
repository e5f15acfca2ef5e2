package ws2812b

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/adalight.go/pkg/led"
)

func bits(p Pulse, n int) []Pulse {
	out := make([]Pulse, n)
	for i := range out {
		out[i] = p
	}
	return out
}

func TestEncodeRedBlue(t *testing.T) {
	tm := DefaultTiming
	zero := Pulse{High, 32, Low, 68}
	one := Pulse{High, 64, Low, 36}
	reset := Pulse{Low, 2400, Low, 2400}
	require.Equal(t, zero, tm.ZeroBit())
	require.Equal(t, one, tm.OneBit())
	require.Equal(t, reset, tm.ResetPulse())

	var expect Sequence
	// LED0 red: G=0x00 R=0xff B=0x00
	expect = append(expect, bits(zero, 8)...)
	expect = append(expect, bits(one, 8)...)
	expect = append(expect, bits(zero, 8)...)
	// LED1 blue: G=0x00 R=0x00 B=0xff
	expect = append(expect, bits(zero, 16)...)
	expect = append(expect, bits(one, 8)...)
	expect = append(expect, reset)

	colors := led.Buffer{led.RGB(255, 0, 0), led.RGB(0, 0, 255)}
	seq := Encode(make(Sequence, SequenceLen(2)), colors, tm)
	require.Len(t, seq, 49)
	require.Equal(t, expect, seq)
}

func TestEncodeBitOrder(t *testing.T) {
	tm := DefaultTiming
	zero, one := tm.ZeroBit(), tm.OneBit()
	seq := Encode(make(Sequence, SequenceLen(1)), led.Buffer{led.RGB(0x01, 0x80, 0xa5)}, tm)
	// G=0x80
	require.Equal(t, one, seq[0])
	require.Equal(t, bits(zero, 7), []Pulse(seq[1:8]))
	// R=0x01
	require.Equal(t, bits(zero, 7), []Pulse(seq[8:15]))
	require.Equal(t, one, seq[15])
	// B=0xa5 = 10100101
	require.Equal(t, []Pulse{one, zero, one, zero, zero, one, zero, one}, []Pulse(seq[16:24]))
	require.Equal(t, tm.ResetPulse(), seq[24])
}

func TestEncodeLargerDestination(t *testing.T) {
	dst := make(Sequence, 100)
	seq := Encode(dst, led.Buffer{led.RGB(1, 2, 3)}, DefaultTiming)
	require.Len(t, seq, 25)
	require.Equal(t, &dst[0], &seq[0])
}

func TestEncodeShortDestination(t *testing.T) {
	require.Panics(t, func() {
		Encode(make(Sequence, 24), led.Buffer{led.RGB(1, 2, 3)}, DefaultTiming)
	})
}

func TestEncoder(t *testing.T) {
	enc, err := NewEncoder(3, DefaultTiming)
	require.NoError(t, err)
	require.Equal(t, 3, enc.NumLEDs())
	require.Equal(t, DefaultTiming, enc.Timing())

	colors := led.Buffer{led.RGB(1, 2, 3), led.RGB(0xff, 0x80, 0), led.RGB(0, 0x7f, 0xfe)}
	seq1, err := enc.Encode(colors)
	require.NoError(t, err)
	require.Len(t, seq1, SequenceLen(3))
	first := append(Sequence(nil), seq1...)

	seq2, err := enc.Encode(colors)
	require.NoError(t, err)
	require.Equal(t, first, seq2, "encoding not deterministic")
	require.Equal(t, &seq1[0], &seq2[0], "storage reallocated")
	require.Equal(t, Pulse{Low, 2400, Low, 2400}, seq2[len(seq2)-1])

	_, err = enc.Encode(led.NewBuffer(2))
	require.Error(t, err)
}

func TestNewEncoderInvalid(t *testing.T) {
	_, err := NewEncoder(0, DefaultTiming)
	require.Error(t, err)
	_, err = NewEncoder(1, Timing{})
	require.Error(t, err)
}

func TestEncodeAllocs(t *testing.T) {
	enc, err := NewEncoder(16, DefaultTiming)
	require.NoError(t, err)
	colors := led.NewBuffer(16)
	colors.Fill(led.RGB(0x12, 0x34, 0x56))
	allocs := testing.AllocsPerRun(10, func() {
		enc.Encode(colors)
	})
	require.Zero(t, allocs)
}

func TestDecode(t *testing.T) {
	colors := led.Buffer{led.RGB(255, 0, 0), led.RGB(0, 0, 255), led.RGB(0x12, 0x34, 0x56)}
	seq := Encode(make(Sequence, SequenceLen(3)), colors, DefaultTiming)
	out := led.NewBuffer(3)
	require.NoError(t, Decode(seq, DefaultTiming, out))
	require.Equal(t, colors, out)

	require.ErrorIs(t, Decode(seq[:len(seq)-1], DefaultTiming, out), ErrMalformed)

	bad := append(Sequence(nil), seq...)
	bad[len(bad)-1] = DefaultTiming.ZeroBit()
	require.ErrorIs(t, Decode(bad, DefaultTiming, out), ErrMalformed)

	bad = append(Sequence(nil), seq...)
	bad[3].Level0 = Low
	require.ErrorIs(t, Decode(bad, DefaultTiming, out), ErrMalformed)
}
