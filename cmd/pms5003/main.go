package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LukaszMeyer/pms5003/internal/config"
	"github.com/LukaszMeyer/pms5003/internal/emit"
	"github.com/LukaszMeyer/pms5003/internal/errors"
	"github.com/LukaszMeyer/pms5003/internal/frame"
	"github.com/LukaszMeyer/pms5003/internal/logger"
	"github.com/LukaszMeyer/pms5003/internal/metrics"
	"github.com/LukaszMeyer/pms5003/internal/pipeline"
	"github.com/LukaszMeyer/pms5003/internal/serialport"
)

func main() {
	os.Exit(run())
}

// run wires the components together and maps the pipeline result to the
// process exit status. All success and failure decisions happen here; the
// packages below only return errors.
func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}

	if err := logger.Init(cfg.LogLevel, logger.IsService()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		return 1
	}
	logger.Debug().
		Str("port", cfg.Port).
		Int("baud", cfg.Baud).
		Int("average", cfg.Average).
		Str("model", cfg.Model).
		Msg("Config loaded")

	if cfg.Port == "" {
		logger.Error().Msg("No serial port configured, use --port (e.g. --port /dev/ttyUSB0)")
		return 1
	}

	variant := frame.PMS5003
	if cfg.Model == config.ModelPMS5003T {
		variant = frame.PMS5003T
	}

	port, err := serialport.Open(cfg.Port, cfg.Baud)
	if err != nil {
		logger.Error().Err(err).Str("port", cfg.Port).Msg("Failed to open serial port")
		return 1
	}
	defer port.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var scanOpts []frame.Option
	var pipeOpts []pipeline.Option
	if cfg.Metrics {
		m := metrics.New()
		scanOpts = append(scanOpts, frame.WithObserver(m))
		pipeOpts = append(pipeOpts, pipeline.WithMeasurementHook(func(meas frame.Measurement) {
			m.ObserveReading(meas, variant)
		}))
		go func() {
			if err := m.Serve(ctx, cfg.MetricsAddr); err != nil {
				logger.Error().Err(err).Msg("Metrics listener stopped")
			}
		}()
		logger.Info().Str("addr", cfg.MetricsAddr).Msg("Serving prometheus metrics")
	}

	scanner := frame.NewScanner(port, variant, scanOpts...)
	emitter := emit.NewWriter(os.Stdout, variant)
	window := time.Duration(cfg.Average) * time.Second

	err = pipeline.New(scanner, emitter, window, pipeOpts...).Run(ctx)
	switch {
	case err == nil:
		return 0
	case errors.IsCode(err, errors.ErrEmptyWindow):
		logger.Warn().Msg("No data frames collected in the given time span")
		return 1
	default:
		logger.Error().Err(err).Msg("Pipeline failed")
		return 1
	}
}
