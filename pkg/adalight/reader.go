package adalight

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/adalight.go/pkg/led"
)

// DefaultTimeout is the default time allowed for the header, and again for
// the payload, once the prefix is matched.
const DefaultTimeout = 132 * time.Millisecond

// Reader acquires frames from a byte stream.
//
// Each Read on Source must return within a bounded time, reporting no data
// either as (0, nil) or an error satisfying os.IsTimeout. Serial ports with
// a read timeout and net.Conn with read deadlines both fit.
type Reader struct {
	Source  io.Reader
	Timeout time.Duration

	parser *Parser
	buf    []byte
}

// NewReader creates a Reader.
func NewReader(src io.Reader, parser *Parser) *Reader {
	n := parser.NumLEDs() * 3
	if n < HeaderSize {
		n = HeaderSize
	}
	return &Reader{
		Source:  src,
		Timeout: DefaultTimeout,
		parser:  parser,
		buf:     make([]byte, n),
	}
}

// Parser returns the underlying parser.
func (r *Reader) Parser() *Parser {
	return r.parser
}

// ReadFrame blocks until a complete frame is received and copies its colors
// into dst. On any error dst is left untouched.
//
// ErrTimeout (or ErrChecksum) means the frame was dropped and the caller
// should simply call again. io.EOF is returned if the stream ends while
// seeking the prefix. The context is only checked while seeking, a frame
// in progress always runs to completion or timeout.
func (r *Reader) ReadFrame(ctx context.Context, dst led.Buffer) (Header, error) {
	if len(dst) != r.parser.NumLEDs() {
		return Header{}, ErrBufferSize
	}
	var deadline time.Time
	for {
		state := r.parser.State()
		if state == StateSeekingPrefix {
			select {
			case <-ctx.Done():
				return Header{}, ctx.Err()
			default:
			}
		}

		n, err := r.Source.Read(r.buf[:r.parser.Need()])
		for _, b := range r.buf[:n] {
			pr := r.parser.Parse(b)
			if pr.Err != nil {
				return Header{}, pr.Err
			}
			if pr.Frame != nil {
				if count := pr.Frame.Header.LEDCount(); count != len(dst) {
					glog.V(3).Infof("frame announces %d LEDs, strip has %d", count, len(dst))
				}
				return pr.Frame.Header, dst.SetRGB(pr.Frame.Payload)
			}
		}

		next := r.parser.State()
		if next != state && next != StateSeekingPrefix {
			deadline = time.Now().Add(r.timeout())
		}
		if err != nil && !isTimeout(err) {
			if next == StateSeekingPrefix {
				return Header{}, err
			}
			r.parser.Timeout()
			if err == io.EOF {
				return Header{}, ErrTimeout
			}
			return Header{}, err
		}
		if next != StateSeekingPrefix && !time.Now().Before(deadline) {
			r.parser.Timeout()
			return Header{}, ErrTimeout
		}
	}
}

func (r *Reader) timeout() time.Duration {
	if r.Timeout > 0 {
		return r.Timeout
	}
	return DefaultTimeout
}

func isTimeout(err error) bool {
	return os.IsTimeout(err) || errors.Is(err, os.ErrDeadlineExceeded)
}
