// Package config holds the calcrpc configuration: service endpoints,
// transport security, watched input files, and the two arithmetic
// policy knobs.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all calcrpc configuration.
type Config struct {
	Algebraic EndpointConfig `yaml:"algebraic"`
	Geometric EndpointConfig `yaml:"geometric"`
	TLS       TLSConfig      `yaml:"tls"`
	Watch     WatchConfig    `yaml:"watch"`
	Algebra   AlgebraConfig  `yaml:"algebra"`
	Geometry  GeometryConfig `yaml:"geometry"`
	History   HistoryConfig  `yaml:"history"`
	Logging   LoggingConfig  `yaml:"logging"`
}

// EndpointConfig addresses one service.
type EndpointConfig struct {
	Addr string `yaml:"addr"`
}

// TLSConfig selects encrypted or plaintext transport. When enabled, the
// servers load the cert/key pair and the clients trust the cert file.
type TLSConfig struct {
	Enabled    bool   `yaml:"enabled"`
	CertFile   string `yaml:"cert_file"`
	KeyFile    string `yaml:"key_file"`
	ServerName string `yaml:"server_name"`
}

// WatchConfig names the input files the clients watch.
type WatchConfig struct {
	AlgebraicFile string `yaml:"algebraic_file"`
	GeometricFile string `yaml:"geometric_file"`
	Debounce      string `yaml:"debounce"`
}

// DebounceDuration parses the debounce window, defaulting to 100ms.
func (w WatchConfig) DebounceDuration() time.Duration {
	if w.Debounce == "" {
		return 100 * time.Millisecond
	}
	d, err := time.ParseDuration(w.Debounce)
	if err != nil {
		return 100 * time.Millisecond
	}
	return d
}

// AlgebraConfig carries the overflow policy: saturate or fail.
type AlgebraConfig struct {
	Overflow string `yaml:"overflow"`
}

// GeometryConfig carries the negative-input policy: reject or allow.
type GeometryConfig struct {
	NegativeInputs string `yaml:"negative_inputs"`
}

// HistoryConfig configures the dispatch log. An empty path disables it.
type HistoryConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Algebraic: EndpointConfig{Addr: "127.0.0.1:7201"},
		Geometric: EndpointConfig{Addr: "127.0.0.1:7202"},
		Watch: WatchConfig{
			AlgebraicFile: "ops/algebraic.txt",
			GeometricFile: "ops/geometric.txt",
			Debounce:      "100ms",
		},
		Algebra:  AlgebraConfig{Overflow: "saturate"},
		Geometry: GeometryConfig{NegativeInputs: "reject"},
		History:  HistoryConfig{DatabasePath: ""},
		Logging:  LoggingConfig{Level: "info"},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment variables override the file, and the result is
// validated regardless of where it came from.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
		// Defaults only.
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CALCRPC_ALGEBRAIC_ADDR"); v != "" {
		c.Algebraic.Addr = v
	}
	if v := os.Getenv("CALCRPC_GEOMETRIC_ADDR"); v != "" {
		c.Geometric.Addr = v
	}
	if v := os.Getenv("CALCRPC_HISTORY_DB"); v != "" {
		c.History.DatabasePath = v
	}
	if v := os.Getenv("CALCRPC_OVERFLOW_POLICY"); v != "" {
		c.Algebra.Overflow = v
	}
	if v := os.Getenv("CALCRPC_NEGATIVE_INPUTS"); v != "" {
		c.Geometry.NegativeInputs = v
	}
}

// Validate rejects unknown policy values.
func (c *Config) Validate() error {
	switch c.Algebra.Overflow {
	case "", "saturate", "fail":
	default:
		return fmt.Errorf("algebra.overflow: unknown policy %q", c.Algebra.Overflow)
	}
	switch c.Geometry.NegativeInputs {
	case "", "reject", "allow":
	default:
		return fmt.Errorf("geometry.negative_inputs: unknown policy %q", c.Geometry.NegativeInputs)
	}
	if c.TLS.Enabled && (c.TLS.CertFile == "" || c.TLS.KeyFile == "") {
		return fmt.Errorf("tls enabled but cert_file/key_file not set")
	}
	return nil
}
