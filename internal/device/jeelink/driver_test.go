package jeelink

import (
	"context"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/require"

	"github.com/martinclaus/sensorflow/internal/device"
	"github.com/martinclaus/sensorflow/internal/frame"
)

func TestDriverRegistered(t *testing.T) {
	drv, err := device.Lookup("JeeLink")
	require.NoError(t, err)
	require.Equal(t, "jeelink", drv.Name())
}

func TestReaderStream(t *testing.T) {
	stream := "\r\n[LaCrosseITPlusReader.10.1s (RFM69CW f:868300 r:17241)]\r\n" +
		"OK 9 50 1 4 193 65\r\n" +
		"OK 9 12 129 4 102 234\r\n"
	src := iotest.OneByteReader(strings.NewReader(stream))
	r := Driver{}.NewReader(src, frame.WithBufferSize(8))

	ctx := context.Background()
	f, err := r.ReadFrame(ctx)
	require.NoError(t, err)
	require.Equal(t, Reading{ID: 50, SensorType: 1, Temperature: 21.7, Humidity: 65}, f)

	f, err = r.ReadFrame(ctx)
	require.NoError(t, err)
	require.Equal(t, Reading{ID: 12, SensorType: 1, NewBattery: true, WeakBattery: true, Temperature: 12.6, Humidity: 106}, f)

	_, err = r.ReadFrame(ctx)
	require.ErrorIs(t, err, io.EOF)
	require.Greater(t, r.Discarded(), uint64(0))
}

func TestReaderSkipsMalformedFrame(t *testing.T) {
	stream := "OK 9 50 1 4 abc 65\r\nOK 9 50 1 4 193 65\r\n"
	r := Driver{}.NewReader(strings.NewReader(stream))

	ctx := context.Background()
	_, err := r.ReadFrame(ctx)
	require.Error(t, err)
	require.True(t, frame.IsRecoverable(err))
	require.ErrorIs(t, err, ErrInvalidChars)

	f, err := r.ReadFrame(ctx)
	require.NoError(t, err)
	require.Equal(t, uint8(50), f.(Reading).ID)
}

func TestReaderConnectionLost(t *testing.T) {
	r := Driver{}.NewReader(strings.NewReader("OK 9 50 1 4"))
	_, err := r.ReadFrame(context.Background())
	require.ErrorIs(t, err, frame.ErrConnectionLost)
}
