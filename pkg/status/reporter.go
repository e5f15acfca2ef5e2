// Package status publishes the driver state to MQTT.
//
// Topics, relative to the prefix of the broker URL:
//
//	<device>/meta    retained JSON Meta, cleared when the device goes away
//	<device>/status  protobuf google.protobuf.Struct with the counters
package status

import (
	"context"
	"encoding/json"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/adalight.go/pkg/driver"
	"github.com/robotalks/adalight.go/pkg/mqtt"
)

// DefaultInterval is the default period of status messages.
const DefaultInterval = 5 * time.Second

// RetryInterval is the wait between attempts of the initial connection.
var RetryInterval = 5 * time.Second

// Meta describes the device.
type Meta struct {
	Device  string `json:"device"`
	NumLEDs int    `json:"num_leds"`
	Source  string `json:"source"`
	Output  string `json:"output"`
	Timing  string `json:"timing"`
}

// StatsSource provides snapshots of the driver stats.
type StatsSource interface {
	Snapshot() driver.Snapshot
}

// MetaTopic returns the topic of the meta of a device.
func MetaTopic(deviceID string) string {
	return deviceID + "/meta"
}

// StatusTopic returns the topic of the status of a device.
func StatusTopic(deviceID string) string {
	return deviceID + "/status"
}

// Reporter publishes meta when connected and status periodically.
type Reporter struct {
	Queue    *mqtt.Queue
	Meta     Meta
	Stats    StatsSource
	Interval time.Duration

	metaJSON []byte
}

// New creates a Reporter. The meta is cleared by the broker if the
// connection is lost.
func New(brokerURL string, meta Meta, stats StatsSource) (*Reporter, error) {
	metaJSON, err := json.Marshal(&meta)
	if err != nil {
		return nil, err
	}
	opts, topicPrefix, err := mqtt.ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	opts.SetBinaryWill(topicPrefix+MetaTopic(meta.Device), nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("adalight:" + meta.Device)
	}
	r := &Reporter{
		Queue:    mqtt.NewQueue(opts, topicPrefix),
		Meta:     meta,
		Stats:    stats,
		Interval: DefaultInterval,
		metaJSON: metaJSON,
	}
	r.Queue.OnConnect = func(*mqtt.Queue) { r.publishMeta() }
	return r, nil
}

// Name implements Named.
func (r *Reporter) Name() string {
	return "status"
}

// Run implements Runnable.
func (r *Reporter) Run(ctx context.Context) error {
	defer r.Queue.Close()
	if err := r.connect(ctx); err != nil {
		return err
	}
	interval := r.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.Queue.PubWith(MetaTopic(r.Meta.Device), nil, 1, true).WaitTimeout(time.Second)
			return ctx.Err()
		case <-ticker.C:
			r.publishStatus()
		}
	}
}

// connect keeps trying until connected, later reconnects are done by the
// client.
func (r *Reporter) connect(ctx context.Context) error {
	for {
		err := r.Queue.Connect(ctx)
		if err == nil || ctx.Err() != nil {
			return err
		}
		glog.Warningf("MQTT connect failed, retry in %s: %v", RetryInterval, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(RetryInterval):
		}
	}
}

func (r *Reporter) publishMeta() {
	r.Queue.PubWith(MetaTopic(r.Meta.Device), r.metaJSON, 1, true)
}

func (r *Reporter) publishStatus() {
	payload, err := Encode(r.Stats.Snapshot())
	if err != nil {
		glog.Errorf("encode status: %v", err)
		return
	}
	r.Queue.Pub(StatusTopic(r.Meta.Device), payload)
}
