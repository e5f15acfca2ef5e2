// Package frame provides shell commands editing and sending colors.
package frame

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/adalight.go/pkg/cli/sh"
	"github.com/robotalks/adalight.go/pkg/led"
)

// ParseColor parses "#rrggbb", "rrggbb" or "R G B".
func ParseColor(args []string) (led.Color, error) {
	switch len(args) {
	case 1:
		hex := strings.TrimPrefix(args[0], "#")
		if len(hex) != 6 {
			return led.Color{}, fmt.Errorf("invalid color %q", args[0])
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return led.Color{}, fmt.Errorf("invalid color %q", args[0])
		}
		return led.RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
	case 3:
		var rgb [3]uint8
		for n, arg := range args {
			v, err := strconv.ParseUint(arg, 0, 8)
			if err != nil {
				return led.Color{}, fmt.Errorf("invalid component %q", arg)
			}
			rgb[n] = uint8(v)
		}
		return led.RGB(rgb[0], rgb[1], rgb[2]), nil
	default:
		return led.Color{}, fmt.Errorf("COLOR expects #rrggbb or R G B")
	}
}

// ParseRange parses "N" or "FROM-TO" (inclusive) within n LEDs.
func ParseRange(arg string, n int) (from, to int, err error) {
	parts := strings.SplitN(arg, "-", 2)
	if from, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, fmt.Errorf("invalid index %q", parts[0])
	}
	to = from
	if len(parts) > 1 {
		if to, err = strconv.Atoi(parts[1]); err != nil {
			return 0, 0, fmt.Errorf("invalid index %q", parts[1])
		}
	}
	if from < 0 || to < from || to >= n {
		return 0, 0, fmt.Errorf("range %s out of 0-%d", arg, n-1)
	}
	return from, to + 1, nil
}

func sendIfConnected(c *ishell.Context) {
	s := sh.ShellFrom(c)
	if !s.Connected() {
		return
	}
	if err := s.Send(); err != nil {
		c.Err(err)
	}
}

var (
	// FillCmd sets all LEDs to one color.
	FillCmd = ishell.Cmd{
		Name:    "fill",
		Aliases: []string{"f"},
		Help:    "COLOR (#rrggbb or R G B)",
		Func: func(c *ishell.Context) {
			color, err := ParseColor(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			sh.ShellFrom(c).Colors.Fill(color)
			sendIfConnected(c)
		},
	}

	// SetCmd sets a range of LEDs.
	SetCmd = ishell.Cmd{
		Name:    "set",
		Aliases: []string{"s"},
		Help:    "INDEX|FROM-TO COLOR",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("INDEX and COLOR required"))
				return
			}
			s := sh.ShellFrom(c)
			from, to, err := ParseRange(c.Args[0], len(s.Colors))
			if err != nil {
				c.Err(err)
				return
			}
			color, err := ParseColor(c.Args[1:])
			if err != nil {
				c.Err(err)
				return
			}
			s.Colors[from:to].Fill(color)
			sendIfConnected(c)
		},
	}

	// ClearCmd turns off all LEDs.
	ClearCmd = ishell.Cmd{
		Name:    "clear",
		Aliases: []string{"off"},
		Help:    "",
		Func: func(c *ishell.Context) {
			sh.ShellFrom(c).Colors.Fill(led.Color{})
			sendIfConnected(c)
		},
	}

	// SendCmd sends current colors again.
	SendCmd = ishell.Cmd{
		Name: "send",
		Help: "[COUNT]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			count := 1
			if len(c.Args) > 0 {
				n, err := strconv.Atoi(c.Args[0])
				if err != nil || n <= 0 {
					c.Err(fmt.Errorf("invalid COUNT %q", c.Args[0]))
					return
				}
				count = n
			}
			s := sh.ShellFrom(c)
			for i := 0; i < count; i++ {
				if err := s.Send(); err != nil {
					c.Err(err)
					return
				}
			}
		}),
	}

	// ShowCmd prints current colors.
	ShowCmd = ishell.Cmd{
		Name: "show",
		Help: "",
		Func: func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			if s.OutputJSON {
				colors := make([]string, len(s.Colors))
				for n, color := range s.Colors {
					colors[n] = color.String()
				}
				sh.PrintJSON(c, colors)
				return
			}
			c.Println(FormatColors(s.Colors))
		},
	}

	// LEDsCmd shows or changes the number of LEDs.
	LEDsCmd = ishell.Cmd{
		Name: "leds",
		Help: "[COUNT]",
		Func: func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			if len(c.Args) == 0 {
				c.Println(len(s.Colors))
				return
			}
			n, err := strconv.Atoi(c.Args[0])
			if err != nil || n <= 0 || n > 0x10000 {
				c.Err(fmt.Errorf("invalid COUNT %q", c.Args[0]))
				return
			}
			s.Resize(n)
		},
	}
)

// FormatColors prints runs of the same color as "FROM-TO #rrggbb".
func FormatColors(colors led.Buffer) string {
	var lines []string
	for start := 0; start < len(colors); {
		end := start + 1
		for end < len(colors) && colors[end] == colors[start] {
			end++
		}
		if end-start == 1 {
			lines = append(lines, fmt.Sprintf("%d %s", start, colors[start]))
		} else {
			lines = append(lines, fmt.Sprintf("%d-%d %s", start, end-1, colors[start]))
		}
		start = end
	}
	return strings.Join(lines, "\n")
}

func init() {
	sh.AddCmds(
		&FillCmd,
		&SetCmd,
		&ClearCmd,
		&SendCmd,
		&ShowCmd,
		&LEDsCmd,
	)
}
