package driver

import (
	"sync/atomic"
	"time"
)

// Stats counts what happened in the driver loop.
// It's safe to read from other goroutines.
type Stats struct {
	// 64-bit fields first for atomic access on 32-bit platforms.
	frames         uint64
	shown          uint64
	timeouts       uint64
	checksumErrors uint64
	transmitErrors uint64
	lastFrame      int64
}

// Snapshot is a copy of Stats at some point.
type Snapshot struct {
	Frames         uint64
	Shown          uint64
	Timeouts       uint64
	ChecksumErrors uint64
	TransmitErrors uint64
	LastFrame      time.Time
}

// Snapshot takes a copy of current values.
func (s *Stats) Snapshot() (snap Snapshot) {
	snap.Frames = atomic.LoadUint64(&s.frames)
	snap.Shown = atomic.LoadUint64(&s.shown)
	snap.Timeouts = atomic.LoadUint64(&s.timeouts)
	snap.ChecksumErrors = atomic.LoadUint64(&s.checksumErrors)
	snap.TransmitErrors = atomic.LoadUint64(&s.transmitErrors)
	if ts := atomic.LoadInt64(&s.lastFrame); ts != 0 {
		snap.LastFrame = time.Unix(0, ts)
	}
	return
}

func (s *Stats) frameReceived(t time.Time) {
	atomic.AddUint64(&s.frames, 1)
	atomic.StoreInt64(&s.lastFrame, t.UnixNano())
}

func (s *Stats) frameShown()       { atomic.AddUint64(&s.shown, 1) }
func (s *Stats) frameTimeout()     { atomic.AddUint64(&s.timeouts, 1) }
func (s *Stats) checksumMismatch() { atomic.AddUint64(&s.checksumErrors, 1) }
func (s *Stats) transmitFailed()   { atomic.AddUint64(&s.transmitErrors, 1) }
