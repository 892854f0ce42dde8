package frame

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/martinclaus/sensorflow/internal/metrics"
)

// Option configures a Decoder or Extractor.
type Option func(*config)

type config struct {
	bufferSize  int
	chunkSize   int
	readTimeout time.Duration
	log         logrus.FieldLogger
	metrics     *metrics.Collector
}

func newConfig(opts []Option) config {
	cfg := config{
		bufferSize: defaultBufferSize,
		chunkSize:  defaultBufferSize,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		cfg.log = l
	}
	return cfg
}

// WithBufferSize sets the initial capacity of the accumulation buffer and
// the size of each read.
func WithBufferSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.bufferSize = n
			c.chunkSize = n
		}
	}
}

// WithReadTimeout bounds every read on sources that support read
// deadlines. Zero disables deadlines.
func WithReadTimeout(d time.Duration) Option {
	return func(c *config) { c.readTimeout = d }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}

// WithMetrics records extractor activity on m.
func WithMetrics(m *metrics.Collector) Option {
	return func(c *config) { c.metrics = m }
}
