package adalight

import (
	"io"

	"github.com/robotalks/adalight.go/pkg/led"
)

// HeaderSize is the size of the header following the magic prefix.
const HeaderSize = 3

// DefaultMagic is the prefix of every frame.
var DefaultMagic = []byte("Ada")

// Header is the frame header.
type Header struct {
	Hi       byte
	Lo       byte
	Checksum byte
}

// NewHeader creates a Header announcing numLEDs.
func NewHeader(numLEDs int) Header {
	n := numLEDs - 1
	hi, lo := byte(n>>8), byte(n)
	return Header{Hi: hi, Lo: lo, Checksum: hi ^ lo ^ 0x55}
}

// LEDCount is the number of LEDs announced by the header.
func (h Header) LEDCount() int {
	return (int(h.Hi)<<8 | int(h.Lo)) + 1
}

// ChecksumFunc validates a header.
type ChecksumFunc func(Header) bool

// AdalightChecksum is the checksum used by Adalight senders.
func AdalightChecksum(h Header) bool {
	return h.Checksum == h.Hi^h.Lo^0x55
}

// Frame is a complete strip update.
type Frame struct {
	Header  Header
	Payload []byte
}

// NewFrame creates a Frame carrying the colors.
func NewFrame(colors led.Buffer) *Frame {
	return &Frame{Header: NewHeader(len(colors)), Payload: colors.RGB(nil)}
}

// Append encodes the frame with the magic prefix and appends to dst.
func (f *Frame) Append(dst []byte, magic []byte) []byte {
	dst = append(dst, magic...)
	dst = append(dst, f.Header.Hi, f.Header.Lo, f.Header.Checksum)
	return append(dst, f.Payload...)
}

// Bytes returns encoded bytes using DefaultMagic.
func (f *Frame) Bytes() []byte {
	return f.Append(make([]byte, 0, len(DefaultMagic)+HeaderSize+len(f.Payload)), DefaultMagic)
}

// WriteTo writes encoded bytes using DefaultMagic.
func (f *Frame) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(f.Bytes())
	return int64(n), err
}
