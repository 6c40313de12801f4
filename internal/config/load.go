package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML file at path, applies defaults and environment
// overrides, then validates. An empty path yields the defaults plus
// overrides.
func Load(path string) (*Config, error) {
	var data []byte
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		}
		data = b
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("configuration %q: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML configuration bytes. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	ApplyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// applyEnvOverrides applies ESGUARD_SECTION_FIELD variables. Values that do
// not parse are ignored.
func applyEnvOverrides(cfg *Config) {
	envString("ESGUARD_SERVER_LISTEN_ADDRESS", &cfg.Server.ListenAddress)
	envDuration("ESGUARD_SERVER_READ_TIMEOUT", &cfg.Server.ReadTimeout)
	envDuration("ESGUARD_SERVER_WRITE_TIMEOUT", &cfg.Server.WriteTimeout)
	envDuration("ESGUARD_SERVER_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)

	envString("ESGUARD_LOG_LEVEL", &cfg.Log.Level)
	envString("ESGUARD_LOG_FORMAT", &cfg.Log.Format)

	if val := os.Getenv("ESGUARD_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
	envString("ESGUARD_METRICS_NAMESPACE", &cfg.Metrics.Namespace)
	envString("ESGUARD_METRICS_PATH", &cfg.Metrics.Path)

	envString("ESGUARD_GATEWAY_BASE_URL", &cfg.Gateway.BaseURL)
	envDuration("ESGUARD_GATEWAY_TIMEOUT", &cfg.Gateway.Timeout)

	if val := os.Getenv("ESGUARD_DECODE_MAX_BYTES"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Decode.MaxBytes = i
		}
	}
	if val := os.Getenv("ESGUARD_DECODE_MAX_DEPTH"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Decode.MaxDepth = i
		}
	}
	envString("ESGUARD_DECODE_DUPLICATE_KEYS", &cfg.Decode.DuplicateKeys)
}

func envString(name string, dst *string) {
	if val := os.Getenv(name); val != "" {
		*dst = val
	}
}

func envDuration(name string, dst *time.Duration) {
	if val := os.Getenv(name); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}
