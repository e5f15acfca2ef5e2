package frame

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/adalight.go/pkg/led"
)

func TestParseColor(t *testing.T) {
	cases := []struct {
		args  []string
		color led.Color
		fail  bool
	}{
		{args: []string{"#ff8000"}, color: led.RGB(255, 128, 0)},
		{args: []string{"0000ff"}, color: led.RGB(0, 0, 255)},
		{args: []string{"1", "2", "0x10"}, color: led.RGB(1, 2, 16)},
		{args: []string{"#fff"}, fail: true},
		{args: []string{"#gg0000"}, fail: true},
		{args: []string{"1", "2", "256"}, fail: true},
		{args: []string{"1", "2"}, fail: true},
	}
	for _, c := range cases {
		color, err := ParseColor(c.args)
		if c.fail {
			require.Error(t, err, "%v", c.args)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, c.color, color)
	}
}

func TestParseRange(t *testing.T) {
	from, to, err := ParseRange("3", 10)
	require.NoError(t, err)
	require.Equal(t, []int{3, 4}, []int{from, to})
	from, to, err = ParseRange("2-9", 10)
	require.NoError(t, err)
	require.Equal(t, []int{2, 10}, []int{from, to})
	for _, arg := range []string{"10", "5-3", "-1", "a", "1-b", "0-10"} {
		_, _, err = ParseRange(arg, 10)
		require.Error(t, err, arg)
	}
}

func TestFormatColors(t *testing.T) {
	colors := led.NewBuffer(5)
	colors[2] = led.RGB(255, 0, 0)
	require.Equal(t, "0-1 #000000\n2 #ff0000\n3-4 #000000", FormatColors(colors))
	require.Empty(t, FormatColors(nil))
}
