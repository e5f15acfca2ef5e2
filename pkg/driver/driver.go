// Package driver runs the loop updating the LED strip.
package driver

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/adalight.go/pkg/adalight"
	"github.com/robotalks/adalight.go/pkg/led"
	"github.com/robotalks/adalight.go/pkg/ws2812b"
)

// Driver acquires frames, encodes and transmits them, strictly one after
// another. It owns the only color buffer, and the encoder owns the only
// pulse sequence.
type Driver struct {
	Reader      *adalight.Reader
	Encoder     *ws2812b.Encoder
	Transmitter Transmitter
	Stats       *Stats

	colors led.Buffer
}

// New creates a Driver.
func New(r *adalight.Reader, enc *ws2812b.Encoder, tx Transmitter) (*Driver, error) {
	if n, m := r.Parser().NumLEDs(), enc.NumLEDs(); n != m {
		return nil, fmt.Errorf("parser is configured for %d LEDs, encoder for %d", n, m)
	}
	if tx == nil {
		return nil, fmt.Errorf("transmitter required")
	}
	return &Driver{
		Reader:      r,
		Encoder:     enc,
		Transmitter: tx,
		Stats:       &Stats{},
		colors:      led.NewBuffer(enc.NumLEDs()),
	}, nil
}

// Name implements Named.
func (d *Driver) Name() string {
	return "driver"
}

// Colors returns the colors of the last frame received.
// It must not be used while Run is in progress.
func (d *Driver) Colors() led.Buffer {
	return d.colors
}

// Step acquires one frame and shows it. Dropped frames and transmission
// failures are counted and not returned as errors.
func (d *Driver) Step(ctx context.Context) error {
	_, err := d.Reader.ReadFrame(ctx, d.colors)
	switch err {
	case nil:
	case adalight.ErrTimeout:
		d.Stats.frameTimeout()
		glog.V(2).Info("frame dropped: timeout")
		return nil
	case adalight.ErrChecksum:
		d.Stats.checksumMismatch()
		glog.V(2).Info("frame dropped: checksum mismatch")
		return nil
	default:
		return err
	}
	d.Stats.frameReceived(time.Now())

	seq, err := d.Encoder.Encode(d.colors)
	if err != nil {
		return err
	}
	if err = d.Transmitter.Transmit(seq); err != nil {
		d.Stats.transmitFailed()
		glog.Warningf("transmit error: %v", err)
		return nil
	}
	d.Stats.frameShown()
	return nil
}

// Run implements Runnable. It returns nil when the source is closed.
func (d *Driver) Run(ctx context.Context) error {
	glog.Infof("driving %d LEDs: %s", d.Encoder.NumLEDs(), d.Encoder.Timing())
	for {
		if err := d.Step(ctx); err != nil {
			if err == io.EOF {
				glog.Info("source closed")
				return nil
			}
			return err
		}
	}
}
