package sensorflow

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/martinclaus/sensorflow/internal/device/jeelink"
	"github.com/martinclaus/sensorflow/internal/testutil"
)

var zeroTime time.Time

type golden struct {
	DecodeErrors int               `json:"decode_errors"`
	Readings     []jeelink.Reading `json:"readings"`
}

func TestJeeLinkGolden(t *testing.T) {
	capture := testutil.LoadCapture(t, "jeelink/capture.txt")
	var expected golden
	testutil.LoadJSON(t, "jeelink/capture.json", &expected)

	sources := map[string]func() io.Reader{
		"whole":      func() io.Reader { return bytes.NewReader(capture) },
		"one_byte":   func() io.Reader { return iotest.OneByteReader(bytes.NewReader(capture)) },
		"half_reads": func() io.Reader { return iotest.HalfReader(bytes.NewReader(capture)) },
		"data_eof":   func() io.Reader { return iotest.DataErrReader(bytes.NewReader(capture)) },
	}
	for name, open := range sources {
		open := open
		t.Run(name, func(t *testing.T) {
			r, err := NewReader(open(), Options{BufferSize: 16})
			require.NoError(t, err)

			var readings []jeelink.Reading
			decodeErrors := 0
			for {
				f, err := r.ReadFrame(context.Background())
				if errors.Is(err, io.EOF) {
					break
				}
				if IsRecoverable(err) {
					decodeErrors++
					continue
				}
				require.NoError(t, err)
				readings = append(readings, f.(jeelink.Reading))
			}
			require.Equal(t, expected.Readings, readings)
			require.Equal(t, expected.DecodeErrors, decodeErrors)
			require.Greater(t, r.Discarded(), uint64(0))
		})
	}
}

func TestJeeLinkTruncatedCapture(t *testing.T) {
	capture := testutil.LoadCapture(t, "jeelink/truncated.txt")
	r, err := NewReader(bytes.NewReader(capture), Options{})
	require.NoError(t, err)

	f, err := r.ReadFrame(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint8(50), f.(jeelink.Reading).ID)

	_, err = r.ReadFrame(context.Background())
	require.ErrorIs(t, err, ErrConnectionLost)
	require.False(t, IsRecoverable(err))
}
