package tcp

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/adalight.go/pkg/source"
)

func readN(t *testing.T, pipe *source.Pipe, n int) []byte {
	out := make([]byte, 0, n)
	buf := make([]byte, n)
	for len(out) < n {
		m, err := pipe.Read(buf[:n-len(out)])
		require.NoError(t, err)
		out = append(out, buf[:m]...)
	}
	return out
}

func TestServer(t *testing.T) {
	pipe := source.NewPipe(8)
	pipe.ReadTimeout = time.Second
	s, err := Listen("127.0.0.1:0", pipe)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()

	c1, err := net.Dial("tcp", s.Addr().String())
	require.NoError(t, err)
	defer c1.Close()
	_, err = c1.Write([]byte("Ada"))
	require.NoError(t, err)
	require.Equal(t, []byte("Ada"), readN(t, pipe, 3))

	c2, err := net.Dial("tcp", s.Addr().String())
	require.NoError(t, err)
	defer c2.Close()
	_, err = c2.Write([]byte{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, readN(t, pipe, 3))

	// the first sender has been replaced
	c1.SetReadDeadline(time.Now().Add(time.Second))
	_, err = c1.Read(make([]byte, 1))
	require.Error(t, err)

	cancel()
	select {
	case err := <-errCh:
		require.Equal(t, context.Canceled, err)
	case <-time.After(time.Second):
		t.Fatal("server doesn't stop")
	}
}
