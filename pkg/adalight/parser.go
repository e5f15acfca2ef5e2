package adalight

import (
	"errors"
	"fmt"
)

// State is the state of frame parsing.
type State int

const (
	// StateSeekingPrefix means looking for the magic prefix.
	StateSeekingPrefix State = iota
	// StateReadingHeader means the prefix is matched and header bytes are expected.
	StateReadingHeader
	// StateReadingPayload means payload bytes are expected.
	StateReadingPayload
	// StateFrameReady is only reported in the ParseResult completing a frame.
	// The parser is back to StateSeekingPrefix at that point.
	StateFrameReady
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateSeekingPrefix:
		return "SeekingPrefix"
	case StateReadingHeader:
		return "ReadingHeader"
	case StateReadingPayload:
		return "ReadingPayload"
	case StateFrameReady:
		return "FrameReady"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ParseResult indicates the result after one parsing step.
type ParseResult struct {
	State State
	// Frame is set when the frame completes. Payload refers to the parser's
	// internal buffer and is only valid until the next call to Parse.
	Frame *Frame
	// Err is set when a frame in progress is dropped.
	Err error
}

// Parser parses bytes received into frames.
type Parser struct {
	// Checksum validates the header when set.
	Checksum ChecksumFunc

	magic    []byte
	fallback []int
	state    State
	matched  int
	header   [HeaderSize]byte
	hdrLen   int
	payload  []byte
	recvLen  int
	frame    Frame
}

// NewParser creates a Parser for a strip of numLEDs. A nil magic means DefaultMagic.
func NewParser(numLEDs int, magic []byte) (*Parser, error) {
	if numLEDs <= 0 {
		return nil, fmt.Errorf("invalid number of LEDs: %d", numLEDs)
	}
	if magic == nil {
		magic = DefaultMagic
	}
	if len(magic) == 0 {
		return nil, errors.New("empty magic")
	}
	p := &Parser{
		magic:   append([]byte(nil), magic...),
		payload: make([]byte, numLEDs*3),
	}
	p.fallback = prefixFunc(p.magic)
	return p, nil
}

// NumLEDs returns the strip length.
func (p *Parser) NumLEDs() int {
	return len(p.payload) / 3
}

// Magic returns the magic prefix.
func (p *Parser) Magic() []byte {
	return p.magic
}

// State gets the current state.
func (p *Parser) State() State {
	return p.state
}

// Need returns the number of bytes expected to complete the current state.
func (p *Parser) Need() int {
	switch p.state {
	case StateReadingHeader:
		return HeaderSize - p.hdrLen
	case StateReadingPayload:
		return len(p.payload) - p.recvLen
	}
	return 1
}

// Reset drops everything in progress, including a partial prefix match.
func (p *Parser) Reset() {
	p.resync()
	p.matched = 0
}

// Parse consumes one byte.
func (p *Parser) Parse(b byte) (pr ParseResult) {
	pr.Frame, pr.Err = p.parseByte(b)
	if pr.State = p.state; pr.Frame != nil {
		pr.State = StateFrameReady
	}
	return
}

// Timeout notifies the deadline of the current state expires.
// A header or payload in progress is dropped, a partial prefix match is kept.
func (p *Parser) Timeout() (pr ParseResult) {
	if p.state != StateSeekingPrefix {
		p.resync()
		pr.Err = ErrTimeout
	}
	pr.State = p.state
	return
}

func (p *Parser) parseByte(b byte) (*Frame, error) {
	switch p.state {
	case StateSeekingPrefix:
		if p.matchPrefix(b) {
			p.matched, p.hdrLen = 0, 0
			p.state = StateReadingHeader
		}
	case StateReadingHeader:
		p.header[p.hdrLen] = b
		p.hdrLen++
		if p.hdrLen < HeaderSize {
			break
		}
		hdr := Header{Hi: p.header[0], Lo: p.header[1], Checksum: p.header[2]}
		if p.Checksum != nil && !p.Checksum(hdr) {
			p.resync()
			return nil, ErrChecksum
		}
		p.frame.Header, p.recvLen = hdr, 0
		p.state = StateReadingPayload
	case StateReadingPayload:
		p.payload[p.recvLen] = b
		p.recvLen++
		if p.recvLen >= len(p.payload) {
			p.resync()
			p.frame.Payload = p.payload
			return &p.frame, nil
		}
	}
	return nil, nil
}

// matchPrefix advances the prefix match. A rejected byte is tested again
// against shorter partial matches, so "AAda" still matches "Ada".
func (p *Parser) matchPrefix(b byte) bool {
	for p.matched > 0 && p.magic[p.matched] != b {
		p.matched = p.fallback[p.matched-1]
	}
	if p.magic[p.matched] == b {
		p.matched++
	}
	return p.matched == len(p.magic)
}

func (p *Parser) resync() {
	p.state = StateSeekingPrefix
	p.hdrLen, p.recvLen = 0, 0
}

// prefixFunc computes for each i the length of the longest proper prefix
// of s[:i+1] which is also its suffix.
func prefixFunc(s []byte) []int {
	f := make([]int, len(s))
	for i, k := 1, 0; i < len(s); i++ {
		for k > 0 && s[i] != s[k] {
			k = f[k-1]
		}
		if s[i] == s[k] {
			k++
		}
		f[i] = k
	}
	return f
}
