package adalight

import "errors"

var (
	// ErrTimeout indicates header or payload bytes didn't arrive in time.
	// The frame is dropped and the next read starts seeking the prefix.
	ErrTimeout = errors.New("frame timeout")
	// ErrChecksum indicates the header is rejected by the ChecksumFunc.
	ErrChecksum = errors.New("header checksum mismatch")
	// ErrBufferSize indicates the destination buffer doesn't match the
	// strip length the parser is configured with.
	ErrBufferSize = errors.New("buffer size mismatch")
)
