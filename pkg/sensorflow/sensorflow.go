package sensorflow

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/martinclaus/sensorflow/internal/device"
	_ "github.com/martinclaus/sensorflow/internal/device/jeelink" // register driver
	"github.com/martinclaus/sensorflow/internal/frame"
)

const defaultInput = "jeelink"

// Frame is one decoded sensor record.
type Frame = device.Frame

var (
	// ErrConnectionLost is returned when the device closed mid-frame.
	ErrConnectionLost = frame.ErrConnectionLost
)

// IsRecoverable reports whether reading may continue after err, which is
// the case for frames whose payload was rejected.
func IsRecoverable(err error) bool {
	return frame.IsRecoverable(err)
}

// Output selects how frames are rendered.
type Output int

const (
	// OutputStringify renders a human-readable line.
	OutputStringify Output = iota
	// OutputInfluxDB renders an InfluxDB line-protocol point.
	OutputInfluxDB
)

func (o Output) String() string {
	switch o {
	case OutputInfluxDB:
		return "influxdb"
	default:
		return "stringify"
	}
}

// ParseOutput maps a format name to an Output.
func ParseOutput(name string) (Output, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "stringify", "":
		return OutputStringify, nil
	case "influxdb":
		return OutputInfluxDB, nil
	default:
		return 0, fmt.Errorf("unknown output format %q (want stringify or influxdb)", name)
	}
}

// Format renders f. Line-protocol output is stamped with the current time.
func Format(f Frame, out Output) string {
	if out == OutputInfluxDB {
		return f.Point().String()
	}
	return f.String()
}

// Inputs lists the supported gateway protocols.
func Inputs() []string {
	return device.Names()
}

// Reader decodes frames from a byte source. It is not safe for concurrent
// use.
type Reader struct {
	input string
	dev   device.Reader
}

// NewReader wraps src, which stays owned by the caller.
func NewReader(src io.Reader, opts Options) (*Reader, error) {
	input := opts.Input
	if strings.TrimSpace(input) == "" {
		input = defaultInput
	}
	drv, err := device.Lookup(input)
	if err != nil {
		return nil, err
	}
	frameOpts, err := opts.toInternal()
	if err != nil {
		return nil, err
	}
	return &Reader{input: drv.Name(), dev: drv.NewReader(src, frameOpts...)}, nil
}

// Input returns the protocol name the reader decodes.
func (r *Reader) Input() string { return r.input }

// ReadFrame blocks until the next frame is decoded. It returns io.EOF after a
// clean close, ErrConnectionLost when the source closed mid-frame, and an
// error for which IsRecoverable is true when one frame was malformed.
func (r *Reader) ReadFrame(ctx context.Context) (Frame, error) {
	return r.dev.ReadFrame(ctx)
}

// Discarded returns the number of noise bytes dropped so far.
func (r *Reader) Discarded() uint64 { return r.dev.Discarded() }
