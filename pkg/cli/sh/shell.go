// Package sh provides an interactive shell sending frames to a device.
package sh

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	"github.com/robotalks/adalight.go/pkg/adalight"
	"github.com/robotalks/adalight.go/pkg/led"
	"github.com/robotalks/adalight.go/pkg/mqtt"
	"github.com/robotalks/adalight.go/pkg/status"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool

	Shell  *ishell.Shell
	Config *Config
	Colors led.Buffer

	target string
	sender io.WriteCloser
	frame  []byte
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

// DiscoverTimeout is how long to collect retained device meta.
var DiscoverTimeout = 500 * time.Millisecond

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&DiscoverCmd,
		&ConnectCmd,
		&DisconnectCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Config: conf,
		Colors: led.NewBuffer(conf.NumLEDs),
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps command func requires a connection.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if !ShellFrom(c).Connected() {
			c.Err(fmt.Errorf("not connected"))
			return
		}
		fn(c)
	}
}

// Connected tells if frames can be sent.
func (s *Shell) Connected() bool {
	return s.sender != nil
}

// Connect opens target and makes it current.
func (s *Shell) Connect(target string) error {
	w, err := Dial(target)
	if err != nil {
		return err
	}
	s.SetSender(target, w)
	return nil
}

// SetSender replaces the current sender.
func (s *Shell) SetSender(target string, w io.WriteCloser) {
	s.Disconnect()
	s.target, s.sender = target, w
	if s.Shell != nil {
		s.Shell.SetPrompt(fmt.Sprintf("%s > ", target))
	}
}

// Disconnect closes current target.
func (s *Shell) Disconnect() {
	if s.sender != nil {
		s.sender.Close()
		s.sender, s.target = nil, ""
		if s.Shell != nil {
			s.Shell.SetPrompt(unconnectedPrompt)
		}
	}
}

// Resize changes the number of LEDs, keeping existing colors.
func (s *Shell) Resize(n int) {
	colors := led.NewBuffer(n)
	copy(colors, s.Colors)
	s.Colors = colors
	s.Config.NumLEDs = n
}

// FrameBytes encodes current colors as a frame.
func (s *Shell) FrameBytes() []byte {
	s.frame = adalight.NewFrame(s.Colors).Append(s.frame[:0], []byte(s.Config.Magic))
	return s.frame
}

// Send sends current colors.
func (s *Shell) Send() error {
	if s.sender == nil {
		return fmt.Errorf("not connected")
	}
	_, err := s.sender.Write(s.FrameBytes())
	return err
}

// Discover lists devices announcing meta on the MQTT broker.
func (s *Shell) Discover(ctx context.Context) ([]status.Meta, error) {
	q, err := mqtt.NewQueueFromURL(s.Config.MQTTBrokerURL)
	if err != nil {
		return nil, err
	}
	defer q.Close()
	metaCh := make(chan status.Meta, 16)
	q.Sub(status.MetaTopic("+"), func(topic string, payload []byte) {
		var meta status.Meta
		if len(payload) == 0 || json.Unmarshal(payload, &meta) != nil {
			return
		}
		select {
		case metaCh <- meta:
		case <-time.After(time.Second):
		}
	})
	if err = q.Connect(ctx); err != nil {
		return nil, err
	}
	found := make(map[string]status.Meta)
	timeout := time.After(DiscoverTimeout)
	for {
		select {
		case meta := <-metaCh:
			found[meta.Device] = meta
		case <-timeout:
			list := make([]status.Meta, 0, len(found))
			for _, meta := range found {
				list = append(list, meta)
			}
			sort.Slice(list, func(i, j int) bool { return list[i].Device < list[j].Device })
			return list, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// PrintJSON prints v as JSON.
func PrintJSON(c *ishell.Context, v interface{}) {
	out, err := json.Marshal(v)
	if err != nil {
		c.Err(err)
		return
	}
	c.Println(string(out))
}

// FormatMeta prints device meta into friendly string for display.
func FormatMeta(meta status.Meta) string {
	items := []string{meta.Device, fmt.Sprintf("%d LEDs", meta.NumLEDs)}
	if meta.Source != "" {
		items = append(items, "from "+meta.Source)
	}
	if meta.Output != "" {
		items = append(items, "to "+meta.Output)
	}
	return strings.Join(items, " ")
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if s.Config.Target != "" {
		if s.Interactive {
			s.Shell.Printf("Connecting %s ...\n", s.Config.Target)
		}
		if err := s.Connect(s.Config.Target); err != nil {
			glog.Fatalf("connect %q failed: %v", s.Config.Target, err)
		}
	}
	defer s.Disconnect()

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			glog.Fatal(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	glog.Fatal("command expected")
}

var (
	// DiscoverCmd discovers devices.
	DiscoverCmd = ishell.Cmd{
		Name:    "discover",
		Aliases: []string{"list", "l"},
		Help:    "list devices announced on the MQTT broker",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			ctx, cancel := context.WithTimeout(context.Background(), DialTimeout)
			defer cancel()
			list, err := s.Discover(ctx)
			if err != nil {
				c.Err(err)
				return
			}
			if s.OutputJSON {
				PrintJSON(c, list)
				return
			}
			if len(list) == 0 {
				c.Println("No devices found")
				return
			}
			for _, meta := range list {
				c.Println(FormatMeta(meta))
			}
		},
	}

	// ConnectCmd connects a target.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "TARGET, e.g. serial:///dev/ttyUSB0, tcp://host:4048, ws://host:4048/frames, mqtt://broker/prefix/?device=ID",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("TARGET required"))
				return
			}
			if err := ShellFrom(c).Connect(c.Args[0]); err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd disconnects current target.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(NewConfig()).Run(flag.Args()...)
}
