// Package mqtt receives the stream as MQTT messages.
package mqtt

import (
	"context"

	"github.com/golang/glog"

	"github.com/robotalks/adalight.go/pkg/mqtt"
	"github.com/robotalks/adalight.go/pkg/source"
)

// FramesTopic returns the topic frames are published to for a device.
func FramesTopic(deviceID string) string {
	return deviceID + "/frames"
}

// Subscriber forwards the payload of messages on Topic into Pipe.
// Messages are appended in arrival order; a message may carry any part of
// the stream.
type Subscriber struct {
	Queue *mqtt.Queue
	Topic string
	Pipe  *source.Pipe
}

// NewSubscriber creates a Subscriber.
func NewSubscriber(q *mqtt.Queue, topic string, pipe *source.Pipe) *Subscriber {
	return &Subscriber{Queue: q, Topic: topic, Pipe: pipe}
}

// Name implements Named.
func (s *Subscriber) Name() string {
	return "mqtt:" + s.Topic
}

// Run implements Runnable.
func (s *Subscriber) Run(ctx context.Context) error {
	sub := s.Queue.Sub(s.Topic, s.handleMsg)
	defer sub.Close()
	<-ctx.Done()
	return ctx.Err()
}

func (s *Subscriber) handleMsg(topic string, payload []byte) {
	if _, err := s.Pipe.Write(payload); err != nil {
		glog.V(2).Infof("drop message on %s: %v", topic, err)
	}
}
