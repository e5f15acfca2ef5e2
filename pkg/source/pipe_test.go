package source

import (
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPipeReadWrite(t *testing.T) {
	p := NewPipe(4)
	n, err := p.Write([]byte("Ada"))
	require.NoError(t, err)
	require.Equal(t, 3, n)
	_, err = p.Write([]byte{1, 2})
	require.NoError(t, err)

	buf := make([]byte, 2)
	n, err = p.Read(buf)
	require.NoError(t, err)
	require.Equal(t, []byte("Ad"), buf[:n])
	n, err = p.Read(buf)
	require.NoError(t, err)
	require.Equal(t, []byte("a"), buf[:n])
	n, err = p.Read(buf)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2}, buf[:n])
}

func TestPipeWriteCopies(t *testing.T) {
	p := NewPipe(1)
	data := []byte{1, 2, 3}
	_, err := p.Write(data)
	require.NoError(t, err)
	data[0] = 9
	buf := make([]byte, 3)
	n, err := p.Read(buf)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, buf[:n])
}

func TestPipeTimeout(t *testing.T) {
	p := NewPipe(1)
	p.ReadTimeout = 10 * time.Millisecond
	buf := make([]byte, 1)
	for i := 0; i < 3; i++ {
		start := time.Now()
		n, err := p.Read(buf)
		require.Zero(t, n)
		require.True(t, os.IsTimeout(err))
		require.True(t, time.Since(start) >= 10*time.Millisecond)
	}

	go func() {
		time.Sleep(2 * time.Millisecond)
		p.Write([]byte{7})
	}()
	p.ReadTimeout = time.Second
	n, err := p.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, byte(7), buf[0])
}

func TestPipeClose(t *testing.T) {
	p := NewPipe(2)
	_, err := p.Write([]byte{1})
	require.NoError(t, err)
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	_, err = p.Write([]byte{2})
	require.Equal(t, io.ErrClosedPipe, err)

	buf := make([]byte, 4)
	n, err := p.Read(buf)
	require.NoError(t, err)
	require.Equal(t, []byte{1}, buf[:n])
	_, err = p.Read(buf)
	require.Equal(t, io.EOF, err)
}

func TestPipeCloseUnblocksWriter(t *testing.T) {
	p := NewPipe(1)
	_, err := p.Write([]byte{1})
	require.NoError(t, err)
	errCh := make(chan error, 1)
	go func() {
		_, err := p.Write([]byte{2})
		errCh <- err
	}()
	time.Sleep(5 * time.Millisecond)
	p.Close()
	select {
	case err := <-errCh:
		require.Equal(t, io.ErrClosedPipe, err)
	case <-time.After(time.Second):
		t.Fatal("writer blocked after close")
	}
}
