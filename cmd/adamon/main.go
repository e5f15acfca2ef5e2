package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/robotalks/adalight.go/pkg/cli/cmds/device"
	"github.com/robotalks/adalight.go/pkg/mqtt"
	"github.com/robotalks/adalight.go/pkg/status"
)

var (
	mqttURL = "mqtt://localhost:1883/adalight/"
)

func init() {
	if val := os.Getenv("ADA_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}

	q.Sub("#", mqtt.Handler(func(topic string, payload []byte) {
		switch {
		case strings.HasSuffix(topic, "/meta"):
			if len(payload) == 0 {
				log.Printf("%s: gone", topic)
				return
			}
			log.Printf("%s: %s", topic, string(payload))
		case strings.HasSuffix(topic, "/status"):
			snap, err := status.Decode(payload)
			if err != nil {
				log.Printf("%s: bad status: %v", topic, err)
				return
			}
			log.Printf("%s: %s", topic, device.FormatSnapshot(snap))
		case strings.HasSuffix(topic, "/frames"):
			log.Printf("%s: %d bytes", topic, len(payload))
		}
	}))
	if err = q.Connect(context.Background()); err != nil {
		log.Fatalln(err)
	}
	<-(chan struct{})(nil)
}
