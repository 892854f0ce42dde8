package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.NoError(t, cfg.Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sensorflow.yaml")
	data := []byte(`
device:
  path: /dev/ttyUSB0
  read_timeout: 250ms
output:
  format: influxdb
metrics:
  enabled: true
  listen: 127.0.0.1:9100
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/dev/ttyUSB0", cfg.Device.Path)
	require.Equal(t, 250*time.Millisecond, cfg.Device.ReadTimeout)
	require.Equal(t, "jeelink", cfg.Device.Input)
	require.Equal(t, 256, cfg.Device.BufferSize)
	require.Equal(t, "influxdb", cfg.Output.Format)
	require.Equal(t, "info", cfg.Log.Level)
	require.True(t, cfg.Metrics.Enabled)
	require.Equal(t, "127.0.0.1:9100", cfg.Metrics.Listen)
	require.NoError(t, cfg.Validate())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("device: [unclosed"), 0o600))
	_, err = Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"empty input":      func(c *Config) { c.Device.Input = " " },
		"zero buffer":      func(c *Config) { c.Device.BufferSize = 0 },
		"negative timeout": func(c *Config) { c.Device.ReadTimeout = -time.Second },
		"unknown output":   func(c *Config) { c.Output.Format = "csv" },
		"unknown log":      func(c *Config) { c.Log.Format = "xml" },
		"metrics no addr":  func(c *Config) { c.Metrics.Enabled = true; c.Metrics.Listen = "" },
	}
	for name, mutate := range cases {
		mutate := mutate
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
