package sh

import (
	"fmt"
	"io"
	"net"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/net/websocket"

	"github.com/robotalks/adalight.go/pkg/mqtt"
	mqttsrc "github.com/robotalks/adalight.go/pkg/source/mqtt"
	"github.com/robotalks/adalight.go/pkg/source/serial"
)

// DialTimeout bounds connecting to a target.
const DialTimeout = 5 * time.Second

// Dial opens a target for sending frames. Supported targets:
//
//	serial:///dev/ttyUSB0?baud=500000
//	tcp://host:4048
//	ws://host:8080/frames
//	mqtt://broker:1883/prefix/?device=ID
func Dial(target string) (io.WriteCloser, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("invalid target: %w", err)
	}
	switch u.Scheme {
	case "serial":
		baud := serial.DefaultBaud
		if val := u.Query().Get("baud"); val != "" {
			if baud, err = strconv.Atoi(val); err != nil {
				return nil, fmt.Errorf("invalid baud: %w", err)
			}
		}
		return serial.Open(u.Path, baud, 0)
	case "tcp":
		return net.DialTimeout("tcp", u.Host, DialTimeout)
	case "ws", "wss":
		origin := "http://" + u.Host + "/"
		conn, err := websocket.Dial(target, "", origin)
		if err != nil {
			return nil, err
		}
		conn.PayloadType = websocket.BinaryFrame
		return conn, nil
	case "mqtt", "mqtts":
		device := u.Query().Get("device")
		if device == "" {
			return nil, fmt.Errorf("device required in MQTT target")
		}
		q, err := mqtt.NewQueueFromURL(target)
		if err != nil {
			return nil, err
		}
		token := q.Client.Connect()
		if !token.WaitTimeout(DialTimeout) {
			q.Close()
			return nil, fmt.Errorf("connect %s: timeout", u.Host)
		}
		if err = token.Error(); err != nil {
			return nil, err
		}
		return &mqttWriter{queue: q, topic: mqttsrc.FramesTopic(device)}, nil
	default:
		return nil, fmt.Errorf("unknown target scheme: %q", u.Scheme)
	}
}

type mqttWriter struct {
	queue *mqtt.Queue
	topic string
}

func (w *mqttWriter) Write(p []byte) (int, error) {
	token := w.queue.Pub(w.topic, p)
	token.Wait()
	if err := token.Error(); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *mqttWriter) Close() error {
	return w.queue.Close()
}
