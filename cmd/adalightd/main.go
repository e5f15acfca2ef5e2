package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/golang/glog"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/robotalks/adalight.go/pkg/adalight"
	"github.com/robotalks/adalight.go/pkg/config"
	"github.com/robotalks/adalight.go/pkg/driver"
	fx "github.com/robotalks/adalight.go/pkg/framework"
	"github.com/robotalks/adalight.go/pkg/source"
	mqttsrc "github.com/robotalks/adalight.go/pkg/source/mqtt"
	"github.com/robotalks/adalight.go/pkg/source/serial"
	"github.com/robotalks/adalight.go/pkg/source/tcp"
	"github.com/robotalks/adalight.go/pkg/source/websocket"
	"github.com/robotalks/adalight.go/pkg/status"
	"github.com/robotalks/adalight.go/pkg/transmit/gpio"
	"github.com/robotalks/adalight.go/pkg/transmit/preview"
	"github.com/robotalks/adalight.go/pkg/transmit/spi"
	"github.com/robotalks/adalight.go/pkg/ws2812b"
)

// pipeDepth is the number of chunks network sources may buffer.
const pipeDepth = 64

var statsviewAddr string

func init() {
	config.SetupFlags()
	flag.StringVar(&statsviewAddr, "statsview", statsviewAddr, "Serve runtime stats charts on this address, e.g. localhost:18066")
}

type app struct {
	conf     *config.Config
	runner   *fx.Runner
	closers  []io.Closer
	reporter *status.Reporter
}

func (a *app) openOutput() (driver.Transmitter, error) {
	c := a.conf
	timing := ws2812b.DefaultTiming
	rate := physic.Frequency(c.Output.SampleRate) * physic.Hertz
	if c.Output.Kind == config.OutputPreview {
		tx := preview.NewConsole(c.NumLEDs, timing)
		a.closers = append(a.closers, tx)
		return tx, nil
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}
	switch c.Output.Kind {
	case config.OutputSPI:
		tx, err := spi.Open(c.Output.Port, c.NumLEDs, timing, rate)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, tx)
		return tx, nil
	case config.OutputGPIO:
		return gpio.Open(c.DataPin, c.NumLEDs, timing, rate)
	}
	return nil, fmt.Errorf("unknown output %q", c.Output.Kind)
}

func (a *app) openSource() (io.Reader, error) {
	c := a.conf
	if c.Source.Kind == config.SourceSerial {
		port, err := serial.Open(c.Source.Device, c.Source.Baud, serial.DefaultReadTimeout)
		if err != nil {
			return nil, err
		}
		glog.Infof("reading frames from %s", port)
		a.closers = append(a.closers, port)
		return port, nil
	}

	pipe := source.NewPipe(pipeDepth)
	a.closers = append(a.closers, pipe)
	switch c.Source.Kind {
	case config.SourceTCP:
		s, err := tcp.Listen(c.Source.Addr, pipe)
		if err != nil {
			return nil, err
		}
		a.runner.Go(s)
	case config.SourceWebsocket:
		s, err := websocket.Listen(c.Source.Addr, c.Source.Path, pipe)
		if err != nil {
			return nil, err
		}
		a.runner.Go(s)
	case config.SourceMQTT:
		topic := mqttsrc.FramesTopic(c.DeviceID)
		glog.Infof("reading frames from MQTT topic %s%s", a.reporter.Queue.TopicPrefix, topic)
		a.runner.Go(mqttsrc.NewSubscriber(a.reporter.Queue, topic, pipe))
	default:
		return nil, fmt.Errorf("unknown source %q", c.Source.Kind)
	}
	return pipe, nil
}

func (a *app) newDriver(src io.Reader, tx driver.Transmitter) (*driver.Driver, error) {
	c := a.conf
	parser, err := adalight.NewParser(c.NumLEDs, []byte(c.Magic))
	if err != nil {
		return nil, err
	}
	if c.Checksum {
		parser.Checksum = adalight.AdalightChecksum
	}
	reader := adalight.NewReader(src, parser)
	reader.Timeout = c.ReadTimeout
	enc, err := ws2812b.NewEncoder(c.NumLEDs, ws2812b.DefaultTiming)
	if err != nil {
		return nil, err
	}
	return driver.New(reader, enc, tx)
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i].Close()
	}
}

func statsviewRunner(addr string) fx.Runnable {
	return fx.NamedRun("statsview", fx.RunFunc(func(ctx context.Context) error {
		viewer.SetConfiguration(viewer.WithAddr(addr))
		mgr := statsview.New()
		glog.Infof("stats available at http://%s/debug/statsview", addr)
		return fx.RunWithContextCancel(ctx, func() { mgr.Stop() }, func() error {
			mgr.Start()
			return nil
		})
	}))
}

func main() {
	flag.Parse()

	a := &app{
		conf:   config.MustNewConfig(),
		runner: fx.NewRunner().HandleSignals(),
	}
	defer a.close()
	c := a.conf

	if c.MQTTBrokerURL != "" {
		meta := status.Meta{
			Device:  c.DeviceID,
			NumLEDs: c.NumLEDs,
			Source:  c.Source.Kind,
			Output:  c.Output.Kind,
			Timing:  ws2812b.DefaultTiming.String(),
		}
		reporter, err := status.New(c.MQTTBrokerURL, meta, nil)
		if err != nil {
			glog.Fatalf("status reporter: %v", err)
		}
		reporter.Interval = c.StatusInterval
		a.reporter = reporter
	}

	tx, err := a.openOutput()
	if err != nil {
		glog.Fatalf("output: %v", err)
	}
	src, err := a.openSource()
	if err != nil {
		glog.Fatalf("source: %v", err)
	}
	drv, err := a.newDriver(src, tx)
	if err != nil {
		glog.Fatalf("driver: %v", err)
	}
	if a.reporter != nil {
		a.reporter.Stats = drv.Stats
		a.runner.Go(a.reporter)
	}
	if statsviewAddr != "" {
		a.runner.Go(statsviewRunner(statsviewAddr))
	}
	a.runner.Go(drv)

	if err = a.runner.Wait(); err != nil {
		glog.Errorf("stopped: %v", err)
	}
	glog.Flush()
}
