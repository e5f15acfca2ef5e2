// Package source provides the byte streams frames are read from.
package source

import (
	"io"
	"os"
	"sync"
	"time"
)

// DefaultReadTimeout bounds a single Read on a Pipe.
const DefaultReadTimeout = 100 * time.Millisecond

// Pipe connects writers delivering chunks of the stream (network
// connections, message handlers) to a single reader. Each Read waits at
// most ReadTimeout and fails with os.ErrDeadlineExceeded when nothing
// arrives.
type Pipe struct {
	ReadTimeout time.Duration

	chunks  chan []byte
	done    chan struct{}
	once    sync.Once
	pending []byte
	timer   *time.Timer
}

// NewPipe creates a Pipe buffering up to depth chunks.
func NewPipe(depth int) *Pipe {
	return &Pipe{
		ReadTimeout: DefaultReadTimeout,
		chunks:      make(chan []byte, depth),
		done:        make(chan struct{}),
	}
}

// Write implements io.Writer. The data is copied and Write blocks while
// the buffer is full.
func (p *Pipe) Write(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}
	chunk := append([]byte(nil), b...)
	select {
	case <-p.done:
		return 0, io.ErrClosedPipe
	default:
	}
	select {
	case p.chunks <- chunk:
		return len(b), nil
	case <-p.done:
		return 0, io.ErrClosedPipe
	}
}

// Read implements io.Reader. After Close it drains the buffered chunks and
// then returns io.EOF.
func (p *Pipe) Read(b []byte) (int, error) {
	if len(p.pending) == 0 {
		chunk, err := p.receive()
		if err != nil {
			return 0, err
		}
		p.pending = chunk
	}
	n := copy(b, p.pending)
	p.pending = p.pending[n:]
	return n, nil
}

func (p *Pipe) receive() ([]byte, error) {
	select {
	case chunk := <-p.chunks:
		return chunk, nil
	default:
	}
	timeout := p.ReadTimeout
	if timeout <= 0 {
		timeout = DefaultReadTimeout
	}
	if p.timer == nil {
		p.timer = time.NewTimer(timeout)
	} else {
		p.timer.Reset(timeout)
	}
	select {
	case chunk := <-p.chunks:
		p.stopTimer()
		return chunk, nil
	case <-p.done:
		p.stopTimer()
		select {
		case chunk := <-p.chunks:
			return chunk, nil
		default:
			return nil, io.EOF
		}
	case <-p.timer.C:
		return nil, os.ErrDeadlineExceeded
	}
}

func (p *Pipe) stopTimer() {
	if !p.timer.Stop() {
		<-p.timer.C
	}
}

// Close implements io.Closer.
func (p *Pipe) Close() error {
	p.once.Do(func() { close(p.done) })
	return nil
}
