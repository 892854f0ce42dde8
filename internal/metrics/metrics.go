package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "sensorflow"

// Collector groups the counters updated by the frame extractor. A nil
// *Collector is valid and records nothing.
type Collector struct {
	BytesRead      prometheus.Counter
	BytesDiscarded prometheus.Counter
	FramesDecoded  prometheus.Counter
	DecodeErrors   prometheus.Counter
	ReadTimeouts   prometheus.Counter
}

// New creates the counters and registers them on reg when it is non-nil.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		BytesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_read_total",
			Help:      "Bytes read from the device.",
		}),
		BytesDiscarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_discarded_total",
			Help:      "Noise bytes dropped while searching for a frame start.",
		}),
		FramesDecoded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_decoded_total",
			Help:      "Frames decoded into records.",
		}),
		DecodeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decode_errors_total",
			Help:      "Frames whose payload was rejected.",
		}),
		ReadTimeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "read_timeouts_total",
			Help:      "Reads that returned without data because the deadline passed.",
		}),
	}
	if reg == nil {
		return c, nil
	}
	for _, col := range []prometheus.Collector{c.BytesRead, c.BytesDiscarded, c.FramesDecoded, c.DecodeErrors, c.ReadTimeouts} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Collector) AddRead(n int) {
	if c != nil {
		c.BytesRead.Add(float64(n))
	}
}

func (c *Collector) AddDiscarded(n int) {
	if c != nil {
		c.BytesDiscarded.Add(float64(n))
	}
}

func (c *Collector) IncFrames() {
	if c != nil {
		c.FramesDecoded.Inc()
	}
}

func (c *Collector) IncDecodeErrors() {
	if c != nil {
		c.DecodeErrors.Inc()
	}
}

func (c *Collector) IncTimeouts() {
	if c != nil {
		c.ReadTimeouts.Inc()
	}
}
