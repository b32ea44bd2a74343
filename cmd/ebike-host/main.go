// ebike-host conditions rider throttle inputs and forwards the resulting
// command to the motor-control MCU.
//
// Usage:
//
//	ebike-host -config ~/ebike.cfg [options]
//
// Options:
//
//	-config string   Controller configuration file (required)
//	-sim             Use the simulated board instead of real hardware
//	-metrics string  Prometheus scrape address (default: disabled)
//	-logfile string  Log file path (default: stderr)
//
// Examples:
//
//	# Run against real hardware
//	ebike-host -config ~/ebike.cfg
//
//	# Bench run with the simulated board and a metrics endpoint
//	ebike-host -config ~/ebike.cfg -sim -metrics :9105
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KingQueenWong/ebike-g4/pkg/config"
	"github.com/KingQueenWong/ebike-g4/pkg/hw"
	"github.com/KingQueenWong/ebike-g4/pkg/log"
	"github.com/KingQueenWong/ebike-g4/pkg/metrics"
	"github.com/KingQueenWong/ebike-g4/pkg/reactor"
	"github.com/KingQueenWong/ebike-g4/pkg/serial"
	"github.com/KingQueenWong/ebike-g4/pkg/throttle"
)

const samplePeriod = 1.0 / throttle.SampleRate

func main() {
	configFile := flag.String("config", "", "Controller configuration file (required)")
	sim := flag.Bool("sim", false, "Use the simulated board instead of real hardware")
	metricsAddr := flag.String("metrics", "", "Prometheus scrape address (default: disabled)")
	logFile := flag.String("logfile", "", "Log file path (default: stderr)")
	flag.Parse()

	if *configFile == "" {
		fmt.Fprintf(os.Stderr, "Error: -config is required\n")
		flag.Usage()
		os.Exit(1)
	}

	logger := log.GetLogger("main")
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		root := log.New("ebike")
		root.SetWriter(f)
		root.SetColorize(false)
		log.SetDefaultLogger(root)
		logger = log.GetLogger("main")
	}

	logger.Info("ebike-host starting")

	raw, err := config.Load(*configFile)
	if err != nil {
		logger.Error("config: %v", err)
		os.Exit(1)
	}
	ctrlCfg, err := config.ResolveController(raw)
	if err != nil {
		logger.Error("config: %v", err)
		os.Exit(1)
	}

	logger.Info("config: %s", *configFile)
	logger.Info("vref: %.2fV, %d channel(s)", ctrlCfg.Vref, len(ctrlCfg.Channels))

	var board hw.Board
	if *sim {
		board = hw.NewSim(float32(ctrlCfg.Vref))
		logger.Info("using simulated board")
	} else {
		board, err = newBoard(ctrlCfg)
		if err != nil {
			logger.Error("board init: %v", err)
			os.Exit(1)
		}
	}

	// Optional downstream MCU link.
	var link *serial.CommandLink
	if ctrlCfg.SerialDevice != "" {
		scfg := serial.DefaultConfig()
		scfg.Device = ctrlCfg.SerialDevice
		scfg.BaudRate = ctrlCfg.Baud
		port, err := serial.Open(scfg)
		if err != nil {
			logger.Error("serial: %v", err)
			os.Exit(1)
		}
		defer port.Close()
		link = serial.NewCommandLink(port)
		logger.Info("forwarding commands to %s at %d baud", ctrlCfg.SerialDevice, ctrlCfg.Baud)
	}

	registry := metrics.NewRegistry()
	thrMetrics := metrics.NewThrottleMetrics(registry)

	channels := make([]*throttle.Channel, 0, len(ctrlCfg.Channels))
	for _, cc := range ctrlCfg.Channels {
		cfg, err := channelSettings(cc)
		if err != nil {
			logger.Error("throttle %d: %v", cc.Channel, err)
			os.Exit(1)
		}
		ch, err := throttle.NewChannel(cc.Channel, cfg, board)
		if err != nil {
			logger.Error("throttle %d: %v", cc.Channel, err)
			os.Exit(1)
		}
		if err := ch.Configure(); err != nil {
			logger.Error("throttle %d: %v", cc.Channel, err)
			os.Exit(1)
		}
		logger.Info("throttle %d: type=%s pin=%s", cc.Channel, cfg.Type, cc.Pin.FullName())
		channels = append(channels, ch)
	}

	if err := raw.CheckUnusedOptions(); err != nil {
		logger.Warn("config: %v", err)
	}
	for _, name := range raw.GetUnusedSections() {
		logger.Warn("config: unused section [%s]", name)
	}

	r := reactor.New()
	for _, ch := range channels {
		ch := ch
		labels := metrics.ChannelLabels(ch.Number())
		var lastFaults uint64
		r.RegisterTimer(func(eventtime float64) float64 {
			cmd := ch.Update()
			thrMetrics.Samples.Inc(labels)
			thrMetrics.Command.Set(labels, float64(cmd))
			if faults := ch.FaultCount(); faults != lastFaults {
				thrMetrics.RangeFaults.Add(labels, faults-lastFaults)
				thrMetrics.CalibrationRestarts.Add(labels, faults-lastFaults)
				lastFaults = faults
				logger.Warn("throttle %d: range fault, recalibrating", ch.Number())
			}
			if ch.Type() == throttle.TypePAS {
				thrMetrics.PASSpeed.Set(labels, float64(ch.PASSpeed()))
			}
			if link != nil {
				if err := link.Send(ch.Number(), cmd); err != nil {
					logger.Warn("serial send: %v", err)
				}
			}
			return eventtime + samplePeriod
		}, reactor.NOW)
	}

	var metricsSrv *metrics.Server
	if *metricsAddr != "" {
		metricsSrv = metrics.NewServer(*metricsAddr, registry)
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil {
				logger.Error("metrics server: %v", err)
			}
		}()
		logger.Info("metrics on %s/metrics", *metricsAddr)
	}

	r.Run()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received %v, shutting down", sig)

	r.End()
	r.Wait()

	if metricsSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		metricsSrv.Shutdown(ctx)
		cancel()
	}

	for _, ch := range channels {
		logger.Info("throttle %d: final command %.3f, %d range fault(s)",
			ch.Number(), ch.Command(), ch.FaultCount())
	}
	logger.Info("ebike-host stopped")
}

// channelSettings converts resolved config values into the throttle
// package's single-precision settings.
func channelSettings(cc *config.ChannelConfig) (throttle.Config, error) {
	typ, err := throttle.ParseType(cc.Type)
	if err != nil {
		return throttle.Config{}, err
	}
	cfg := throttle.DefaultConfig()
	cfg.Type = typ
	cfg.StartTime = cc.StartTime
	cfg.StartDeadtime = cc.StartDeadtime
	cfg.RangeLimit = float32(cc.RangeLimit)
	cfg.MinDefault = float32(cc.MinDefault)
	cfg.MaxDefault = float32(cc.MaxDefault)
	cfg.Dropout = float32(cc.Dropout)
	cfg.HystLow = float32(cc.HystLow)
	cfg.HystHigh = float32(cc.HystHigh)
	cfg.SlewRate = float32(cc.SlewRate)
	cfg.FilterHz = float32(cc.FilterHz)
	cfg.FilterQ = float32(cc.FilterQ)
	cfg.PASFilter = float32(cc.PASFilter)
	cfg.PASScale = float32(cc.PASScale)
	return cfg, nil
}
