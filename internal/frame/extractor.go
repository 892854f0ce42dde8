package frame

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/martinclaus/sensorflow/internal/metrics"
)

// DeadlineReader is a source that can bound the wait of a single read, such
// as an *os.File opened on a tty or a net.Conn.
type DeadlineReader interface {
	io.Reader
	SetReadDeadline(t time.Time) error
}

// Extractor reads from a byte source until the grammar yields a record.
//
// Sources implementing DeadlineReader are read with a bounded wait when a
// read timeout is configured; timeouts only mean "no bytes yet". Any other
// io.Reader is read directly and parks the calling goroutine until bytes
// arrive. An Extractor must not be shared between goroutines.
type Extractor[T any] struct {
	dec     *Decoder[T]
	src     io.Reader
	chunk   []byte
	timeout time.Duration
	read    func() (int, error)
	eof     bool
	log     logrus.FieldLogger
	metrics *metrics.Collector
}

// NewExtractor wraps src with an accumulation buffer driven by g.
func NewExtractor[T any](src io.Reader, g Grammar[T], opts ...Option) *Extractor[T] {
	cfg := newConfig(opts)
	e := &Extractor[T]{
		dec:     newDecoder(g, cfg),
		src:     src,
		chunk:   make([]byte, cfg.chunkSize),
		timeout: cfg.readTimeout,
		log:     cfg.log,
		metrics: cfg.metrics,
	}
	e.read = e.readDirect
	if dr, ok := src.(DeadlineReader); ok && cfg.readTimeout > 0 {
		e.read = func() (int, error) { return e.readWithDeadline(dr) }
	}
	return e
}

// Next returns the next decoded record.
//
// It returns io.EOF when the source closed cleanly with nothing buffered,
// ErrConnectionLost when it closed in the middle of a frame, a *DecodeError
// for a rejected payload (reading may continue), and any other source
// error unchanged. No I/O happens while a complete frame is buffered.
func (e *Extractor[T]) Next(ctx context.Context) (T, error) {
	var zero T
	for {
		rec, err := e.dec.Poll()
		if !errors.Is(err, ErrNoFrame) {
			return rec, err
		}
		if e.eof {
			return zero, e.closeErr()
		}
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		n, err := e.read()
		if n > 0 {
			e.dec.Feed(e.chunk[:n])
			e.metrics.AddRead(n)
		}
		switch {
		case err == nil:
		case isTimeout(err):
			e.metrics.IncTimeouts()
		case errors.Is(err, io.EOF):
			e.eof = true
		default:
			return zero, err
		}
	}
}

// Buffered returns the number of bytes waiting for a complete frame.
func (e *Extractor[T]) Buffered() int { return e.dec.Buffered() }

// Discarded returns the number of noise bytes dropped so far.
func (e *Extractor[T]) Discarded() uint64 { return e.dec.Discarded() }

func (e *Extractor[T]) closeErr() error {
	if e.dec.Buffered() == 0 {
		return io.EOF
	}
	e.log.WithField("buffered", e.dec.Buffered()).Warn("source closed with a partial frame")
	return ErrConnectionLost
}

func (e *Extractor[T]) readDirect() (int, error) {
	return e.src.Read(e.chunk)
}

func (e *Extractor[T]) readWithDeadline(dr DeadlineReader) (int, error) {
	if err := dr.SetReadDeadline(time.Now().Add(e.timeout)); err != nil {
		if errors.Is(err, os.ErrNoDeadline) {
			e.read = e.readDirect
			return e.readDirect()
		}
		return 0, err
	}
	return dr.Read(e.chunk)
}

func isTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
