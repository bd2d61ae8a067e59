// Package config loads and validates the agent extension configuration.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/c360/agentkit/errors"
)

// Log sink selection values.
const (
	SinkConsole = "console"
	SinkNATS    = "nats"
)

// Config is the top-level agent extension configuration.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Provider ProviderConfig `yaml:"provider"`
	Gateway  GatewayConfig  `yaml:"gateway"`
	NATS     NATSConfig     `yaml:"nats"`
}

// LogConfig controls local structured logging and the host log sink.
type LogConfig struct {
	// Level is the local slog level: debug, info, warn, or error.
	Level string `yaml:"level"`
	// Sink selects where provider diagnostics are forwarded: "console"
	// (fallback mode) or "nats". Decided once at startup.
	Sink string `yaml:"sink"`
}

// ProviderConfig controls provider discovery.
type ProviderConfig struct {
	// Path is the search path scanned for provider units.
	Path string `yaml:"path"`
	// ItemTimeout is the cooperative per-item time budget.
	ItemTimeout Duration `yaml:"item_timeout"`
	// Exclude lists provider identifiers skipped during discovery, in
	// addition to the loader's own name.
	Exclude []string `yaml:"exclude"`
}

// Duration wraps time.Duration with YAML parsing of both "3s"-style strings
// and plain integer seconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw any
	if err := value.Decode(&raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", v, err)
		}
		*d = Duration(parsed)
		return nil
	case int:
		*d = Duration(time.Duration(v) * time.Second)
		return nil
	case float64:
		*d = Duration(time.Duration(v * float64(time.Second)))
		return nil
	default:
		return fmt.Errorf("invalid duration value %v", raw)
	}
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// String returns the duration in time.Duration notation.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// GatewayConfig controls the host-facing HTTP surface. An empty Listen
// disables the gateway.
type GatewayConfig struct {
	Listen    string  `yaml:"listen"`
	RateLimit float64 `yaml:"rate_limit"` // run requests per second, 0 = unlimited
	RateBurst int     `yaml:"rate_burst"`
}

// NATSConfig controls the optional NATS connection used by the remote log
// sink.
type NATSConfig struct {
	URL           string `yaml:"url"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
			Sink:  SinkConsole,
		},
		Provider: ProviderConfig{
			Path:        "/etc/agentkit/providers",
			ItemTimeout: Duration(3 * time.Second),
		},
		Gateway: GatewayConfig{
			Listen:    ":9650",
			RateLimit: 50,
			RateBurst: 100,
		},
		NATS: NATSConfig{
			SubjectPrefix: "agent.logs",
		},
	}
}

// Load reads, parses, and validates a YAML configuration file. Fields not
// present in the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := safeReadFile(path)
	if err != nil {
		return nil, errors.WrapInvalid(err, "Config", "Load", "config file read")
	}

	cfg := Default()
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return nil, errors.WrapInvalid(err, "Config", "Load", "YAML parse")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "Config", "Load", "validation")
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return errors.WrapInvalid(err, "Config", "Validate", "log level")
	}

	switch c.Log.Sink {
	case SinkConsole, SinkNATS:
	default:
		return errors.WrapInvalid(
			fmt.Errorf("unknown log sink %q", c.Log.Sink),
			"Config", "Validate", "log sink")
	}

	if c.Log.Sink == SinkNATS && c.NATS.URL == "" {
		return errors.WrapInvalid(errors.ErrMissingConfig, "Config", "Validate", "nats.url for nats log sink")
	}

	if c.Provider.Path == "" {
		return errors.WrapInvalid(errors.ErrMissingConfig, "Config", "Validate", "provider.path")
	}
	if c.Provider.ItemTimeout < 0 {
		return errors.WrapInvalid(
			fmt.Errorf("item_timeout must not be negative"),
			"Config", "Validate", "provider.item_timeout")
	}

	if c.Gateway.RateLimit < 0 {
		return errors.WrapInvalid(
			fmt.Errorf("rate_limit must not be negative"),
			"Config", "Validate", "gateway.rate_limit")
	}
	if c.Gateway.RateLimit > 0 && c.Gateway.RateBurst <= 0 {
		return errors.WrapInvalid(
			fmt.Errorf("rate_burst must be positive when rate_limit is set"),
			"Config", "Validate", "gateway.rate_burst")
	}

	return nil
}

// GatewayEnabled reports whether the HTTP gateway should be started.
func (c *Config) GatewayEnabled() bool {
	return c.Gateway.Listen != ""
}

// ParseLevel converts a configuration log level into a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}
