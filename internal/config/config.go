// Package config loads the esguard service configuration from YAML, applies
// defaults and ESGUARD_* environment overrides, validates the result and
// watches the file for changes.
package config

import (
	"fmt"
	"strings"
	"time"

	g "github.com/reoring/esguard"
)

// Config is the root configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
	Gateway GatewayConfig `yaml:"gateway"`
	Decode  DecodeConfig  `yaml:"decode"`

	// Caps overrides the cap policy of a schema, keyed by schema id. Zero
	// limits keep the schema's defaults.
	Caps map[string]g.CapPolicy `yaml:"caps"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	ListenAddress   string        `yaml:"listen_address" validate:"required,hostname_port"`
	ReadTimeout     time.Duration `yaml:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
}

// LogConfig configures the logrus logger.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=trace debug info warn warning error fatal panic"`
	Format string `yaml:"format" validate:"oneof=json text"`
}

// MetricsConfig configures the Prometheus collectors.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace" validate:"required_if=Enabled true"`
	Path      string `yaml:"path" validate:"startswith=/"`
}

// GatewayConfig configures forwarding of canonical documents. Forwarding is
// off when BaseURL is empty.
type GatewayConfig struct {
	BaseURL string        `yaml:"base_url" validate:"omitempty,url"`
	Timeout time.Duration `yaml:"timeout" validate:"gt=0"`
}

// DecodeConfig bounds raw input before any grammar sees it.
type DecodeConfig struct {
	MaxBytes      int64  `yaml:"max_bytes" validate:"gte=0"`
	MaxDepth      int    `yaml:"max_depth" validate:"gte=0"`
	DuplicateKeys string `yaml:"duplicate_keys" validate:"oneof=ignore warn error"`
}

// Options converts the section into decode options.
func (d DecodeConfig) Options() g.DecodeOpt {
	return g.DecodeOpt{
		OnDuplicateKey: ParseSeverity(d.DuplicateKeys),
		MaxDepth:       d.MaxDepth,
		MaxBytes:       d.MaxBytes,
	}
}

// ParseSeverity maps "warn" and "error" to their severities; anything else
// ignores duplicates.
func ParseSeverity(s string) g.Severity {
	switch strings.ToLower(s) {
	case "warn":
		return g.Warn
	case "error":
		return g.Error
	default:
		return g.Ignore
	}
}

func (c *Config) String() string {
	return fmt.Sprintf("listen=%s log=%s/%s metrics=%t gateway=%q caps=%d",
		c.Server.ListenAddress, c.Log.Level, c.Log.Format, c.Metrics.Enabled, c.Gateway.BaseURL, len(c.Caps))
}
