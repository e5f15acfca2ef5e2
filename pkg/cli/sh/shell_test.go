package sh

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/adalight.go/pkg/adalight"
	"github.com/robotalks/adalight.go/pkg/led"
	"github.com/robotalks/adalight.go/pkg/status"
)

type bufferSender struct {
	bytes.Buffer
	closed bool
}

func (b *bufferSender) Close() error {
	b.closed = true
	return nil
}

func newTestShell(n int) *Shell {
	conf := NewConfig()
	conf.NumLEDs = n
	return &Shell{Config: conf, Colors: led.NewBuffer(n)}
}

func TestSendFrame(t *testing.T) {
	s := newTestShell(2)
	require.False(t, s.Connected())
	require.Error(t, s.Send())

	w := &bufferSender{}
	s.SetSender("test", w)
	require.True(t, s.Connected())
	s.Colors[0] = led.RGB(1, 2, 3)
	require.NoError(t, s.Send())
	require.Equal(t, []byte{'A', 'd', 'a', 0, 1, 0x54, 1, 2, 3, 0, 0, 0}, w.Bytes())

	// the bytes parse back into the same colors
	p, err := adalight.NewParser(2, nil)
	require.NoError(t, err)
	r := adalight.NewReader(bytes.NewReader(w.Bytes()), p)
	got := led.NewBuffer(2)
	_, err = r.ReadFrame(context.Background(), got)
	require.NoError(t, err)
	require.Equal(t, s.Colors, got)

	s.Disconnect()
	require.True(t, w.closed)
	require.False(t, s.Connected())
}

func TestResize(t *testing.T) {
	s := newTestShell(2)
	s.Colors.Fill(led.RGB(9, 9, 9))
	s.Resize(3)
	require.Equal(t, led.Buffer{led.RGB(9, 9, 9), led.RGB(9, 9, 9), {}}, s.Colors)
	require.Equal(t, 3, s.Config.NumLEDs)
	require.Len(t, s.FrameBytes(), 3+adalight.HeaderSize+9)
}

func TestDialErrors(t *testing.T) {
	for _, target := range []string{"usb://x", "mqtt://localhost:1883/", "serial:///dev/does-not-exist-adalight", "::"} {
		_, err := Dial(target)
		require.Error(t, err, target)
	}
}

func TestFormatMeta(t *testing.T) {
	require.Equal(t, "strip1 262 LEDs from serial to spi",
		FormatMeta(status.Meta{Device: "strip1", NumLEDs: 262, Source: "serial", Output: "spi"}))
	require.Equal(t, "x 1 LEDs", FormatMeta(status.Meta{Device: "x", NumLEDs: 1}))
}
