package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Device  DeviceConfig  `yaml:"device"`
	Output  OutputConfig  `yaml:"output"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type DeviceConfig struct {
	Path        string        `yaml:"path"`
	Input       string        `yaml:"input"`
	ReadTimeout time.Duration `yaml:"read_timeout"`
	BufferSize  int           `yaml:"buffer_size"`
}

type OutputConfig struct {
	Format string `yaml:"format"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Device: DeviceConfig{
			Path:        "-",
			Input:       "jeelink",
			ReadTimeout: time.Second,
			BufferSize:  256,
		},
		Output: OutputConfig{
			Format: "stringify",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Listen:  ":9090",
		},
	}
}

// Load reads a YAML file on top of Default. An empty path returns the
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that the reader cannot recover from at runtime.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Device.Input) == "" {
		return fmt.Errorf("device.input must be set")
	}
	if c.Device.BufferSize <= 0 {
		return fmt.Errorf("device.buffer_size must be positive, got %d", c.Device.BufferSize)
	}
	if c.Device.ReadTimeout < 0 {
		return fmt.Errorf("device.read_timeout must not be negative, got %s", c.Device.ReadTimeout)
	}
	switch strings.ToLower(c.Output.Format) {
	case "stringify", "influxdb":
	default:
		return fmt.Errorf("output.format must be stringify or influxdb, got %q", c.Output.Format)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	if c.Metrics.Enabled && strings.TrimSpace(c.Metrics.Listen) == "" {
		return fmt.Errorf("metrics.listen must be set when metrics are enabled")
	}
	return nil
}
