package adalight

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/adalight.go/pkg/led"
)

func TestHeader(t *testing.T) {
	testCases := []struct {
		numLEDs int
		expect  Header
	}{
		{1, Header{0, 0, 0x55}},
		{2, Header{0, 1, 0x54}},
		{262, Header{1, 5, 0x51}},
		{256, Header{0, 0xff, 0xaa}},
	}
	for _, tc := range testCases {
		h := NewHeader(tc.numLEDs)
		require.Equal(t, tc.expect, h)
		require.Equal(t, tc.numLEDs, h.LEDCount())
		require.True(t, AdalightChecksum(h))
	}
	require.False(t, AdalightChecksum(Header{0, 1, 0x55}))
}

func TestFrame(t *testing.T) {
	colors := led.Buffer{led.RGB(255, 0, 0), led.RGB(0, 0, 255)}
	f := NewFrame(colors)
	expect := []byte{'A', 'd', 'a', 0, 1, 0x54, 255, 0, 0, 0, 0, 255}
	require.Equal(t, expect, f.Bytes())

	var buf bytes.Buffer
	n, err := f.WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(len(expect)), n)
	require.Equal(t, expect, buf.Bytes())

	require.Equal(t, append([]byte{9, 'X', 'Y', 0, 1, 0x54}, expect[6:]...), f.Append([]byte{9}, []byte("XY")))
}
