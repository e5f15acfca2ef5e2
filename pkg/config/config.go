// Package config collects the settings of the daemon from defaults,
// environment variables (ADA_*), a YAML file and command line flags, in
// that order of precedence.
package config

import (
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"strconv"
	"time"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
	"gopkg.in/yaml.v3"
)

// Source kinds.
const (
	SourceSerial    = "serial"
	SourceTCP       = "tcp"
	SourceWebsocket = "websocket"
	SourceMQTT      = "mqtt"
)

// Output kinds.
const (
	OutputSPI     = "spi"
	OutputGPIO    = "gpio"
	OutputPreview = "preview"
)

// MaxLEDs is the most LEDs the 16-bit header count can describe.
const MaxLEDs = 0x10000

// SourceConfig selects where the stream comes from.
type SourceConfig struct {
	Kind   string `yaml:"kind"`
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`
	Addr   string `yaml:"addr"`
	Path   string `yaml:"path"`
}

// OutputConfig selects how the data line is driven.
type OutputConfig struct {
	Kind       string `yaml:"kind"`
	Port       string `yaml:"port"`
	SampleRate int64  `yaml:"sample_rate_hz"`
}

// Config is the configuration of the daemon.
type Config struct {
	NumLEDs        int           `yaml:"num_leds"`
	DataPin        string        `yaml:"data_pin"`
	Magic          string        `yaml:"magic"`
	Checksum       bool          `yaml:"checksum"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	Source         SourceConfig  `yaml:"source"`
	Output         OutputConfig  `yaml:"output"`
	MQTTBrokerURL  string        `yaml:"mqtt_url"`
	DeviceID       string        `yaml:"device_id"`
	StatusInterval time.Duration `yaml:"status_interval"`
}

var defaultConfig = Config{
	NumLEDs:     262,
	DataPin:     "GPIO18",
	Magic:       "Ada",
	ReadTimeout: 132 * time.Millisecond,
	Source: SourceConfig{
		Kind:   SourceSerial,
		Device: "/dev/ttyAMA0",
		Baud:   500000,
		Addr:   ":4048",
		Path:   "/frames",
	},
	Output: OutputConfig{
		Kind:       OutputSPI,
		SampleRate: 2500000,
	},
	StatusInterval: 5 * time.Second,
}

var (
	configFile string
	flagConfig Config
)

func init() {
	defaultConfig.DeviceID = MachineID()
	if err := applyEnv(&defaultConfig, os.Getenv); err != nil {
		glog.Warningf("environment: %v", err)
	}
	configFile = os.Getenv("ADA_CONFIG")
	flagConfig = defaultConfig
}

// MachineID returns an ID of this machine specific to this application.
func MachineID() string {
	id, err := machineid.ProtectedID("adalight")
	if err != nil {
		glog.Warningf("machine id unavailable: %v", err)
		host, _ := os.Hostname()
		if host == "" {
			host = "adalight"
		}
		return host
	}
	if len(id) > 12 {
		id = id[:12]
	}
	return id
}

func applyEnv(c *Config, getenv func(string) string) error {
	str := map[string]*string{
		"ADA_DATA_PIN":      &c.DataPin,
		"ADA_MAGIC":         &c.Magic,
		"ADA_SOURCE":        &c.Source.Kind,
		"ADA_SERIAL_DEVICE": &c.Source.Device,
		"ADA_LISTEN":        &c.Source.Addr,
		"ADA_WS_PATH":       &c.Source.Path,
		"ADA_OUTPUT":        &c.Output.Kind,
		"ADA_OUTPUT_PORT":   &c.Output.Port,
		"ADA_MQTT_URL":      &c.MQTTBrokerURL,
		"ADA_DEVICE_ID":     &c.DeviceID,
	}
	for name, ptr := range str {
		if val := getenv(name); val != "" {
			*ptr = val
		}
	}
	ints := map[string]*int{
		"ADA_NUM_LEDS": &c.NumLEDs,
		"ADA_BAUD":     &c.Source.Baud,
	}
	for name, ptr := range ints {
		if val := getenv(name); val != "" {
			n, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*ptr = n
		}
	}
	durations := map[string]*time.Duration{
		"ADA_READ_TIMEOUT":    &c.ReadTimeout,
		"ADA_STATUS_INTERVAL": &c.StatusInterval,
	}
	for name, ptr := range durations {
		if val := getenv(name); val != "" {
			d, err := time.ParseDuration(val)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*ptr = d
		}
	}
	if val := getenv("ADA_SAMPLE_RATE"); val != "" {
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return fmt.Errorf("ADA_SAMPLE_RATE: %w", err)
		}
		c.Output.SampleRate = n
	}
	if val := getenv("ADA_CHECKSUM"); val != "" {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("ADA_CHECKSUM: %w", err)
		}
		c.Checksum = b
	}
	return nil
}

// BindFlags registers flags on fs writing into c.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.NumLEDs, "leds", c.NumLEDs, "Number of LEDs")
	fs.StringVar(&c.DataPin, "pin", c.DataPin, "Data pin for gpio output")
	fs.StringVar(&c.Magic, "magic", c.Magic, "Frame magic word")
	fs.BoolVar(&c.Checksum, "checksum", c.Checksum, "Validate header checksum")
	fs.DurationVar(&c.ReadTimeout, "read-timeout", c.ReadTimeout, "Max wait for the rest of a frame")
	fs.StringVar(&c.Source.Kind, "source", c.Source.Kind, "Source: serial, tcp, websocket or mqtt")
	fs.StringVar(&c.Source.Device, "serial", c.Source.Device, "Serial device")
	fs.IntVar(&c.Source.Baud, "baud", c.Source.Baud, "Serial baud rate")
	fs.StringVar(&c.Source.Addr, "listen", c.Source.Addr, "Listen address for tcp and websocket")
	fs.StringVar(&c.Source.Path, "ws-path", c.Source.Path, "Websocket path")
	fs.StringVar(&c.Output.Kind, "output", c.Output.Kind, "Output: spi, gpio or preview")
	fs.StringVar(&c.Output.Port, "spi", c.Output.Port, "SPI port, empty for the first one")
	fs.Int64Var(&c.Output.SampleRate, "sample-rate", c.Output.SampleRate, "Output sample rate in Hz")
	fs.StringVar(&c.MQTTBrokerURL, "mqtt", c.MQTTBrokerURL, "MQTT broker URL, e.g. mqtt://host:1883/leds/")
	fs.StringVar(&c.DeviceID, "id", c.DeviceID, "Device ID")
	fs.DurationVar(&c.StatusInterval, "status-interval", c.StatusInterval, "Status publishing interval")
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flagConfig.BindFlags(flag.CommandLine)
	flag.StringVar(&configFile, "config", configFile, "YAML config file")
}

// Default gets default config.
func Default() *Config {
	conf := defaultConfig
	return &conf
}

// NewConfig creates the Config from all sources after flags are parsed.
func NewConfig() (*Config, error) {
	return Load(configFile, flag.CommandLine)
}

// MustNewConfig creates the Config and fails on error.
func MustNewConfig() *Config {
	conf, err := NewConfig()
	if err != nil {
		glog.Fatal(err)
	}
	return conf
}

// Load starts from defaults, reads the YAML file if path is not empty and
// applies the flags explicitly set in fs.
func Load(path string, fs *flag.FlagSet) (*Config, error) {
	conf := defaultConfig
	if path != "" {
		if err := conf.LoadFile(path); err != nil {
			return nil, err
		}
	}
	if fs != nil {
		overrides := flag.NewFlagSet("overrides", flag.ContinueOnError)
		conf.BindFlags(overrides)
		var err error
		fs.Visit(func(f *flag.Flag) {
			if o := overrides.Lookup(f.Name); o != nil && err == nil {
				err = o.Value.Set(f.Value.String())
			}
		})
		if err != nil {
			return nil, err
		}
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

// LoadFile merges the YAML file into c.
func (c *Config) LoadFile(path string) error {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}
	if err = yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// Validate checks the config.
func (c *Config) Validate() error {
	if c.NumLEDs <= 0 || c.NumLEDs > MaxLEDs {
		return fmt.Errorf("number of LEDs must be in 1..%d: %d", MaxLEDs, c.NumLEDs)
	}
	if c.Magic == "" {
		return fmt.Errorf("magic must not be empty")
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive: %s", c.ReadTimeout)
	}
	switch c.Source.Kind {
	case SourceSerial:
		if c.Source.Device == "" {
			return fmt.Errorf("serial device required")
		}
	case SourceTCP, SourceWebsocket:
		if c.Source.Addr == "" {
			return fmt.Errorf("listen address required for %s source", c.Source.Kind)
		}
	case SourceMQTT:
		if c.MQTTBrokerURL == "" {
			return fmt.Errorf("MQTT broker URL required for mqtt source")
		}
	default:
		return fmt.Errorf("unknown source %q", c.Source.Kind)
	}
	switch c.Output.Kind {
	case OutputSPI, OutputGPIO, OutputPreview:
	default:
		return fmt.Errorf("unknown output %q", c.Output.Kind)
	}
	if c.Output.Kind == OutputGPIO && c.DataPin == "" {
		return fmt.Errorf("data pin required for gpio output")
	}
	if c.Output.SampleRate < 0 {
		return fmt.Errorf("invalid sample rate %d", c.Output.SampleRate)
	}
	if c.MQTTBrokerURL != "" && c.DeviceID == "" {
		return fmt.Errorf("device ID required with MQTT")
	}
	return nil
}
