package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/martinclaus/sensorflow/internal/config"
	"github.com/martinclaus/sensorflow/internal/logging"
	"github.com/martinclaus/sensorflow/pkg/sensorflow"
)

var (
	rootCmd = &cobra.Command{
		Use:   "sensorflow [device]",
		Short: "Decode sensor gateway frames",
		Long: "sensorflow reads frames from a sensor gateway (a configured serial device, a capture file or stdin)\n" +
			"and prints them as text or InfluxDB line protocol.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args)
			if err != nil {
				return err
			}
			log, err := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, log, cmd.OutOrStdout())
		},
	}

	configPath    string
	input         string
	output        string
	readTimeout   time.Duration
	metricsListen string
	logLevel      string
)

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&configPath, "config", "", "path to a YAML config file")
	flags.StringVar(&input, "input", "jeelink", "input protocol ("+strings.Join(sensorflow.Inputs(), ", ")+")")
	flags.StringVar(&output, "output", "stringify", "output format (stringify, influxdb)")
	flags.DurationVar(&readTimeout, "timeout", time.Second, "bounded wait per device read, 0 to block")
	flags.StringVar(&metricsListen, "metrics-listen", "", "serve Prometheus metrics on this address")
	flags.StringVar(&logLevel, "log-level", "info", "log level")
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logrus.Fatal(err)
	}
}

// loadConfig applies explicitly set flags over the config file.
func loadConfig(cmd *cobra.Command, args []string) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	flags := cmd.Flags()
	if len(args) == 1 {
		cfg.Device.Path = args[0]
	}
	if flags.Changed("input") {
		cfg.Device.Input = input
	}
	if flags.Changed("output") {
		cfg.Output.Format = output
	}
	if flags.Changed("timeout") {
		cfg.Device.ReadTimeout = readTimeout
	}
	if flags.Changed("metrics-listen") {
		cfg.Metrics.Enabled = metricsListen != ""
		cfg.Metrics.Listen = metricsListen
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	return cfg, cfg.Validate()
}

func run(ctx context.Context, cfg config.Config, log *logrus.Logger, out io.Writer) error {
	format, err := sensorflow.ParseOutput(cfg.Output.Format)
	if err != nil {
		return err
	}
	src, err := openDevice(cfg.Device.Path)
	if err != nil {
		return err
	}
	defer src.Close()

	opts := sensorflow.Options{
		Input:       cfg.Device.Input,
		ReadTimeout: cfg.Device.ReadTimeout,
		BufferSize:  cfg.Device.BufferSize,
		Logger:      log,
	}
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		opts.Registerer = reg
		srv := serveMetrics(cfg.Metrics.Listen, reg, log)
		defer shutdown(srv)
	}

	reader, err := sensorflow.NewReader(src, opts)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	// Closing the source unblocks a pending read once we are asked to stop.
	go func() {
		<-ctx.Done()
		src.Close()
	}()

	log.WithFields(logrus.Fields{
		"device": cfg.Device.Path,
		"input":  reader.Input(),
		"output": format,
	}).Info("ready to read")
	for {
		f, err := reader.ReadFrame(ctx)
		switch {
		case err == nil:
			fmt.Fprintln(out, sensorflow.Format(f, format))
		case ctx.Err() != nil:
			log.Info("stopped")
			return nil
		case errors.Is(err, io.EOF):
			log.WithField("discarded_bytes", reader.Discarded()).Info("device closed")
			return nil
		case sensorflow.IsRecoverable(err):
			log.WithError(err).Warn("skipping malformed frame")
		default:
			return fmt.Errorf("read %s: %w", cfg.Device.Path, err)
		}
	}
}

// openDevice opens an already configured device node or capture file. Port
// settings such as the baud rate are left to the caller's environment.
func openDevice(path string) (*os.File, error) {
	if path == "" || path == "-" {
		return os.Stdin, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open device: %w", err)
	}
	return f, nil
}

func serveMetrics(addr string, reg *prometheus.Registry, log *logrus.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.WithField("addr", addr).Info("serving metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("metrics server failed")
		}
	}()
	return srv
}

func shutdown(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}
