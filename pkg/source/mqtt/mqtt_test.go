package mqtt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/adalight.go/pkg/mqtt"
	"github.com/robotalks/adalight.go/pkg/source"
)

func TestSubscriber(t *testing.T) {
	q, err := mqtt.NewQueueFromURL("mqtt://localhost:1883/leds/")
	require.NoError(t, err)
	pipe := source.NewPipe(4)
	pipe.ReadTimeout = time.Second
	s := NewSubscriber(q, FramesTopic("strip1"), pipe)
	require.Equal(t, "mqtt:strip1/frames", s.Name())
	require.Equal(t, "strip1/frames", s.Topic)

	// the handler is exercised directly, no broker is involved.
	s.handleMsg(s.Topic, []byte("Ada"))
	buf := make([]byte, 8)
	n, err := pipe.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "Ada", string(buf[:n]))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()
	cancel()
	select {
	case err := <-errCh:
		require.Equal(t, context.Canceled, err)
	case <-time.After(time.Second):
		t.Fatal("subscriber doesn't stop")
	}

	pipe.Close()
	s.handleMsg(s.Topic, []byte{1})
}
