package sensorflow

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/martinclaus/sensorflow/internal/frame"
	"github.com/martinclaus/sensorflow/internal/metrics"
)

// Options configures a Reader.
type Options struct {
	// Input names the gateway protocol, "jeelink" when empty.
	Input string
	// ReadTimeout bounds each read on sources with read deadlines.
	ReadTimeout time.Duration
	// BufferSize is the initial buffer capacity and read size.
	BufferSize int
	Logger     logrus.FieldLogger
	// Registerer receives the reader's counters when set. Use one
	// registerer per reader.
	Registerer prometheus.Registerer
}

func (opts Options) toInternal() ([]frame.Option, error) {
	out := []frame.Option{
		frame.WithReadTimeout(opts.ReadTimeout),
		frame.WithBufferSize(opts.BufferSize),
		frame.WithLogger(opts.Logger),
	}
	if opts.Registerer != nil {
		m, err := metrics.New(opts.Registerer)
		if err != nil {
			return nil, err
		}
		out = append(out, frame.WithMetrics(m))
	}
	return out, nil
}
