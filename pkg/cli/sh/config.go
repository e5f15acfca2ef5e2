package sh

import (
	"flag"
	"os"
	"strconv"

	"github.com/robotalks/adalight.go/pkg/adalight"
)

// Config provides common options of the shell.
type Config struct {
	NumLEDs int
	Magic   string

	// Target is where frames are sent, see Dial.
	Target string

	// MQTTBrokerURL is used to discover devices.
	// e.g. mqtt://host:port/topic-prefix/
	MQTTBrokerURL string
}

var defaultConfig = Config{
	NumLEDs:       262,
	Magic:         string(adalight.DefaultMagic),
	MQTTBrokerURL: "mqtt://localhost:1883/adalight/",
}

func init() {
	if val := os.Getenv("ADA_NUM_LEDS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			defaultConfig.NumLEDs = n
		}
	}
	if val := os.Getenv("ADA_TARGET"); val != "" {
		defaultConfig.Target = val
	}
	if val := os.Getenv("ADA_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.IntVar(&defaultConfig.NumLEDs, "leds", defaultConfig.NumLEDs, "Number of LEDs.")
	flag.StringVar(&defaultConfig.Magic, "magic", defaultConfig.Magic, "Frame magic word.")
	flag.StringVar(&defaultConfig.Target, "target", defaultConfig.Target, "Where to send frames, e.g. serial:///dev/ttyUSB0, tcp://host:4048.")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL for discovery.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}
