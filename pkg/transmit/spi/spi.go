// Package spi emits the data line on the MOSI pin of a SPI port.
package spi

import (
	"fmt"
	"io"

	"github.com/golang/glog"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"

	"github.com/robotalks/adalight.go/pkg/transmit"
	"github.com/robotalks/adalight.go/pkg/ws2812b"
)

// Transmitter implements driver.Transmitter using a SPI connection.
// The SPI clock is the raster sample rate so every bit on MOSI is a sample.
type Transmitter struct {
	port   spi.Port
	conn   spi.Conn
	raster *transmit.Raster
}

// Open opens the SPI port by name and creates the Transmitter.
// An empty name selects the first port available.
func Open(name string, numLEDs int, t ws2812b.Timing, rate physic.Frequency) (*Transmitter, error) {
	port, err := spireg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open SPI port %q: %w", name, err)
	}
	tx, err := New(port, numLEDs, t, rate)
	if err != nil {
		port.Close()
		return nil, err
	}
	return tx, nil
}

// New creates a Transmitter on an opened port.
func New(port spi.Port, numLEDs int, t ws2812b.Timing, rate physic.Frequency) (*Transmitter, error) {
	raster, err := transmit.NewRaster(numLEDs, t, rate)
	if err != nil {
		return nil, err
	}
	c, err := port.Connect(raster.SampleRate(), spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("connect SPI at %s: %w", raster.SampleRate(), err)
	}
	if l, ok := c.(conn.Limits); ok {
		if max := l.MaxTxSize(); max > 0 && raster.Capacity() > max {
			return nil, fmt.Errorf("frame of %d bytes exceeds SPI transfer limit %d", raster.Capacity(), max)
		}
	}
	glog.Infof("SPI %s at %s, %d bytes per frame", c, raster.SampleRate(), raster.Capacity())
	return &Transmitter{port: port, conn: c, raster: raster}, nil
}

// Transmit implements driver.Transmitter.
func (t *Transmitter) Transmit(seq ws2812b.Sequence) error {
	data, err := t.raster.Rasterize(seq)
	if err != nil {
		return err
	}
	return t.conn.Tx(data, nil)
}

// Close implements io.Closer.
func (t *Transmitter) Close() error {
	if closer, ok := t.port.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
