package jeelink

import (
	"context"
	"io"

	"github.com/martinclaus/sensorflow/internal/device"
	"github.com/martinclaus/sensorflow/internal/frame"
)

// BaudRate of the JeeLink USB stick. The port is configured by the caller.
const BaudRate = 57600

func init() {
	device.Register(Driver{})
}

// Driver reads LaCrosse readings from a JeeLink gateway.
type Driver struct{}

// Name returns the canonical driver name.
func (Driver) Name() string { return "jeelink" }

// NewReader implements device.Driver.
func (Driver) NewReader(src io.Reader, opts ...frame.Option) device.Reader {
	return &reader{ex: NewExtractor(src, opts...)}
}

// NewExtractor returns a typed extractor for JeeLink frames on src.
func NewExtractor(src io.Reader, opts ...frame.Option) *frame.Extractor[Reading] {
	return frame.NewExtractor[Reading](src, Grammar{}, opts...)
}

type reader struct {
	ex *frame.Extractor[Reading]
}

func (r *reader) ReadFrame(ctx context.Context) (device.Frame, error) {
	rec, err := r.ex.Next(ctx)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *reader) Discarded() uint64 { return r.ex.Discarded() }
