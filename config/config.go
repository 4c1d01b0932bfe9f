package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileEnv names the environment variable holding an optional YAML config path.
const FileEnv = "PREVIEW_CONFIG_FILE"

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string `yaml:"host"` // default: "0.0.0.0"
	Port int    `yaml:"port"` // default: 50051
	Mode string `yaml:"mode"` // "debug", "release", "test"; default: "release"
}

// Addr returns host:port, bracketing IPv6 hosts.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// FetchConfig controls how pages are retrieved.
type FetchConfig struct {
	// Timeout bounds each fetch, including redirects and body read.
	Timeout time.Duration `yaml:"timeout"` // default: 10s

	// MaxBodyBytes caps the bytes read from a response body.
	MaxBodyBytes int64 `yaml:"max_body_bytes"` // default: 10 MiB

	// UserAgent is sent with every request.
	UserAgent string `yaml:"user_agent"`

	// ChromeTLS adds the Chrome-fingerprint engine as an escalation tier.
	ChromeTLS bool `yaml:"chrome_tls"` // default: true

	// EscalationDelays is the staged start delay for each engine tier.
	EscalationDelays []time.Duration `yaml:"escalation_delays"` // default: [0s, 2s]

	// MemoryTTL is how long the winning engine is remembered per host.
	MemoryTTL time.Duration `yaml:"memory_ttl"` // default: 24h
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // default: "info"
	Format string `yaml:"format"` // "json" or "text"; default: "json"
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"` // default: true
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 50051,
			Mode: "release",
		},
		Fetch: FetchConfig{
			Timeout:          10 * time.Second,
			MaxBodyBytes:     10 << 20,
			ChromeTLS:        true,
			EscalationDelays: []time.Duration{0, 2 * time.Second},
			MemoryTTL:        24 * time.Hour,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// PREVIEW_CONFIG_FILE if set, then PREVIEW_* environment variables.
func Load() (*Config, error) {
	cfg := Default()
	if path := os.Getenv(FileEnv); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Host = envOr("PREVIEW_HOST", c.Server.Host)
	c.Server.Port = envIntOr("PREVIEW_PORT", c.Server.Port)
	c.Server.Mode = envOr("PREVIEW_MODE", c.Server.Mode)

	c.Fetch.Timeout = envDurationOr("PREVIEW_FETCH_TIMEOUT", c.Fetch.Timeout)
	c.Fetch.MaxBodyBytes = int64(envIntOr("PREVIEW_MAX_BODY_BYTES", int(c.Fetch.MaxBodyBytes)))
	c.Fetch.UserAgent = envOr("PREVIEW_USER_AGENT", c.Fetch.UserAgent)
	c.Fetch.ChromeTLS = envBoolOr("PREVIEW_CHROME_TLS", c.Fetch.ChromeTLS)
	c.Fetch.EscalationDelays = envDurationSliceOr("PREVIEW_ESCALATION_DELAYS", c.Fetch.EscalationDelays)
	c.Fetch.MemoryTTL = envDurationOr("PREVIEW_MEMORY_TTL", c.Fetch.MemoryTTL)

	c.Log.Level = envOr("PREVIEW_LOG_LEVEL", c.Log.Level)
	c.Log.Format = envOr("PREVIEW_LOG_FORMAT", c.Log.Format)

	c.Metrics.Enabled = envBoolOr("PREVIEW_METRICS", c.Metrics.Enabled)
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envDurationSliceOr(key string, fallback []time.Duration) []time.Duration {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]time.Duration, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				if d, err := time.ParseDuration(trimmed); err == nil {
					result = append(result, d)
				}
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
