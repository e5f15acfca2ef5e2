// Package serial reads the stream from a UART.
package serial

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/term"
)

// Defaults of the serial link.
const (
	DefaultBaud        = 500000
	DefaultReadTimeout = 100 * time.Millisecond
)

// Port is a serial port in raw mode (8N1, no flow control).
// A Read returning nothing within the read timeout fails with
// os.ErrDeadlineExceeded.
type Port struct {
	Device string
	Baud   int

	t *term.Term
}

// Open opens the device with the baud rate and read timeout.
func Open(device string, baud int, readTimeout time.Duration) (*Port, error) {
	if baud <= 0 {
		baud = DefaultBaud
	}
	if readTimeout <= 0 {
		readTimeout = DefaultReadTimeout
	}
	t, err := term.Open(device, term.Speed(baud), term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", device, err)
	}
	if err = t.SetReadTimeout(readTimeout); err != nil {
		t.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", device, err)
	}
	if err = t.Flush(); err != nil {
		t.Close()
		return nil, fmt.Errorf("flush %s: %w", device, err)
	}
	return &Port{Device: device, Baud: baud, t: t}, nil
}

// Read implements io.Reader.
func (p *Port) Read(b []byte) (int, error) {
	return readBounded(p.t, b)
}

// Write implements io.Writer.
func (p *Port) Write(b []byte) (int, error) {
	return p.t.Write(b)
}

// Close implements io.Closer.
func (p *Port) Close() error {
	return p.t.Close()
}

// String implements fmt.Stringer.
func (p *Port) String() string {
	return fmt.Sprintf("%s@%d", p.Device, p.Baud)
}

// readBounded maps the empty reads of an expired VTIME to a timeout.
func readBounded(r io.Reader, b []byte) (int, error) {
	n, err := r.Read(b)
	if n == 0 && len(b) > 0 && (err == nil || err == io.EOF) {
		return 0, os.ErrDeadlineExceeded
	}
	return n, err
}
