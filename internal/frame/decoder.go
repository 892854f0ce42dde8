package frame

import (
	"bytes"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/martinclaus/sensorflow/internal/metrics"
)

const defaultBufferSize = 256

// Decoder is the I/O-free core of the extractor. Bytes are pushed with Feed
// and records are pulled with Poll, which makes it usable from a scheduler
// that polls a non-blocking source as well as from Extractor.
type Decoder[T any] struct {
	grammar   Grammar[T]
	buf       bytes.Buffer
	discarded uint64
	log       logrus.FieldLogger
	metrics   *metrics.Collector
}

// NewDecoder returns a decoder with an empty accumulation buffer.
func NewDecoder[T any](g Grammar[T], opts ...Option) *Decoder[T] {
	return newDecoder(g, newConfig(opts))
}

func newDecoder[T any](g Grammar[T], cfg config) *Decoder[T] {
	d := &Decoder[T]{
		grammar: g,
		log:     cfg.log,
		metrics: cfg.metrics,
	}
	d.buf.Grow(cfg.bufferSize)
	return d
}

// Feed appends bytes received from the source.
func (d *Decoder[T]) Feed(p []byte) {
	d.buf.Write(p)
}

// Poll returns the next record when a complete frame is buffered. It
// returns ErrNoFrame when more bytes are needed and a *DecodeError when the
// frame was found but its payload was rejected.
func (d *Decoder[T]) Poll() (T, error) {
	var zero T
	payload, skipped, err := check(&d.buf, d.grammar)
	if skipped > 0 {
		d.discarded += uint64(skipped)
		d.metrics.AddDiscarded(skipped)
		d.log.WithField("bytes", skipped).Debug("dropped bytes before frame start")
	}
	if errors.Is(err, ErrIncomplete) {
		return zero, ErrNoFrame
	}
	if err != nil {
		return zero, err
	}
	rec, err := d.grammar.Decode(payload)
	if err != nil {
		d.metrics.IncDecodeErrors()
		d.log.WithError(err).WithField("payload", string(payload)).Debug("rejected frame payload")
		return zero, &DecodeError{Payload: payload, Err: err}
	}
	d.metrics.IncFrames()
	return rec, nil
}

// Buffered returns the number of bytes not yet attributed to a frame.
func (d *Decoder[T]) Buffered() int { return d.buf.Len() }

// Discarded returns the number of noise bytes dropped while searching for
// frame starts.
func (d *Decoder[T]) Discarded() uint64 { return d.discarded }
