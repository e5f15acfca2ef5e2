package gpio

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio/gpiostream"

	"github.com/robotalks/adalight.go/pkg/led"
	"github.com/robotalks/adalight.go/pkg/transmit"
	"github.com/robotalks/adalight.go/pkg/ws2812b"
)

type streamRecorder struct {
	streams []gpiostream.BitStream
	err     error
}

func (r *streamRecorder) StreamOut(s gpiostream.Stream) error {
	if r.err != nil {
		return r.err
	}
	bs := *s.(*gpiostream.BitStream)
	bs.Bits = append([]byte(nil), bs.Bits...)
	r.streams = append(r.streams, bs)
	return nil
}

func TestTransmit(t *testing.T) {
	tm := ws2812b.DefaultTiming
	pin := &streamRecorder{}
	tx, err := New(pin, 1, tm, 0)
	require.NoError(t, err)

	seq := ws2812b.Encode(make(ws2812b.Sequence, ws2812b.SequenceLen(1)), led.Buffer{led.RGB(0xff, 0, 0)}, tm)
	require.NoError(t, tx.Transmit(seq))
	require.Len(t, pin.streams, 1)
	s := pin.streams[0]
	require.Equal(t, transmit.DefaultSampleRate, s.Freq)
	require.False(t, s.LSBF)
	// G=0x00 as eight "100" then R=0xff as eight "110"
	require.Equal(t, []byte{0x92, 0x49, 0x24, 0xdb, 0x6d, 0xb6}, s.Bits[:6])
	require.Len(t, s.Bits, 28)
}

func TestTransmitError(t *testing.T) {
	failure := errors.New("pin busy")
	pin := &streamRecorder{err: failure}
	tx, err := New(pin, 1, ws2812b.DefaultTiming, 0)
	require.NoError(t, err)
	seq := ws2812b.Encode(make(ws2812b.Sequence, ws2812b.SequenceLen(1)), led.NewBuffer(1), ws2812b.DefaultTiming)
	require.Equal(t, failure, tx.Transmit(seq))
}
