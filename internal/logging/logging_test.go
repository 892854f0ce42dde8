package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	var buf bytes.Buffer
	log, err := New("debug", "json", &buf)
	require.NoError(t, err)
	require.Equal(t, logrus.DebugLevel, log.GetLevel())

	log.WithField("bytes", 3).Debug("dropped")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "dropped", entry["msg"])
	require.Equal(t, float64(3), entry["bytes"])
}

func TestNewEnvOverride(t *testing.T) {
	t.Setenv(EnvLogLevel, "warn")
	log, err := New("debug", "text", &bytes.Buffer{})
	require.NoError(t, err)
	require.Equal(t, logrus.WarnLevel, log.GetLevel())
}

func TestNewRejectsBadInput(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	_, err := New("loud", "text", &bytes.Buffer{})
	require.Error(t, err)
	_, err = New("info", "xml", &bytes.Buffer{})
	require.Error(t, err)
}
