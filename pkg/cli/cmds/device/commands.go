// Package device provides shell commands monitoring devices over MQTT.
package device

import (
	"context"
	"fmt"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/adalight.go/pkg/cli/sh"
	"github.com/robotalks/adalight.go/pkg/driver"
	"github.com/robotalks/adalight.go/pkg/mqtt"
	"github.com/robotalks/adalight.go/pkg/status"
)

// StatusWait is how long to wait for a status message.
var StatusWait = 15 * time.Second

// WaitStatus waits for the next status message of a device.
func WaitStatus(ctx context.Context, brokerURL, device string) (driver.Snapshot, error) {
	q, err := mqtt.NewQueueFromURL(brokerURL)
	if err != nil {
		return driver.Snapshot{}, err
	}
	defer q.Close()
	payloadCh := make(chan []byte, 1)
	q.Sub(status.StatusTopic(device), func(_ string, payload []byte) {
		select {
		case payloadCh <- payload:
		default:
		}
	})
	if err = q.Connect(ctx); err != nil {
		return driver.Snapshot{}, err
	}
	select {
	case payload := <-payloadCh:
		return status.Decode(payload)
	case <-ctx.Done():
		return driver.Snapshot{}, ctx.Err()
	}
}

// FormatSnapshot prints the stats for display.
func FormatSnapshot(s driver.Snapshot) string {
	last := "never"
	if !s.LastFrame.IsZero() {
		last = s.LastFrame.Local().Format(time.RFC3339)
	}
	return fmt.Sprintf("frames %d (shown %d), timeouts %d, checksum errors %d, transmit errors %d, last frame %s",
		s.Frames, s.Shown, s.Timeouts, s.ChecksumErrors, s.TransmitErrors, last)
}

var (
	// StatusCmd prints the next status of a device.
	StatusCmd = ishell.Cmd{
		Name:    "status",
		Aliases: []string{"st"},
		Help:    "DEVICE",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("DEVICE required"))
				return
			}
			s := sh.ShellFrom(c)
			ctx, cancel := context.WithTimeout(context.Background(), StatusWait)
			defer cancel()
			snap, err := WaitStatus(ctx, s.Config.MQTTBrokerURL, c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			if s.OutputJSON {
				sh.PrintJSON(c, snap)
				return
			}
			c.Println(FormatSnapshot(snap))
		},
	}
)

func init() {
	sh.AddCmds(&StatusCmd)
}
