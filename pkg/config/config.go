// Package config loads the server configuration from file, .env and environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/tauribridge/pkg/domain"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration written as "10s", "250ms" in config files.
type Duration time.Duration

// Std converts to time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// DriverConfig controls the tauri-driver process.
type DriverConfig struct {
	Path          string   `yaml:"path" json:"path"`
	Port          int      `yaml:"port" json:"port"`
	Args          []string `yaml:"args" json:"args"`
	ReadyTimeout  Duration `yaml:"ready_timeout" json:"ready_timeout"`
	ReadyInterval Duration `yaml:"ready_interval" json:"ready_interval"`
	Settle        Duration `yaml:"settle" json:"settle"`
	GracePeriod   Duration `yaml:"grace_period" json:"grace_period"`
}

// SessionConfig controls new WebDriver sessions and command execution.
type SessionConfig struct {
	BrowserName  string         `yaml:"browser_name" json:"browser_name"`
	DefaultWait  Duration       `yaml:"default_wait" json:"default_wait"`
	CommandGrace Duration       `yaml:"command_grace" json:"command_grace"`
	Capabilities map[string]any `yaml:"capabilities" json:"capabilities"`
}

// RedisConfig locates the redis server used by the redis store.
type RedisConfig struct {
	Addr     string `yaml:"addr" json:"addr"`
	Password string `yaml:"password" json:"password"`
	DB       int    `yaml:"db" json:"db"`
	Prefix   string `yaml:"prefix" json:"prefix"`
}

// StoreConfig selects where driver and session records are kept.
type StoreConfig struct {
	Kind  string      `yaml:"kind" json:"kind"` // memory | file | redis
	Path  string      `yaml:"path" json:"path"`
	Redis RedisConfig `yaml:"redis" json:"redis"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"` // text | json
}

// TransportConfig selects the MCP transport.
type TransportConfig struct {
	Kind    string `yaml:"kind" json:"kind"` // stdio | sse
	Port    int    `yaml:"port" json:"port"`
	BaseURL string `yaml:"base_url" json:"base_url"`
}

// MetricsConfig enables the Prometheus endpoint.
type MetricsConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

// TracingConfig enables span export to stderr.
type TracingConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
}

// Config is the full server configuration.
type Config struct {
	Driver    DriverConfig    `yaml:"driver" json:"driver"`
	Session   SessionConfig   `yaml:"session" json:"session"`
	Store     StoreConfig     `yaml:"store" json:"store"`
	Log       LogConfig       `yaml:"log" json:"log"`
	Transport TransportConfig `yaml:"transport" json:"transport"`
	Metrics   MetricsConfig   `yaml:"metrics" json:"metrics"`
	Tracing   TracingConfig   `yaml:"tracing" json:"tracing"`
}

// Store kinds.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Transport kinds.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Driver: DriverConfig{
			Port:          domain.DefaultDriverPort,
			ReadyTimeout:  Duration(10 * time.Second),
			ReadyInterval: Duration(100 * time.Millisecond),
			GracePeriod:   Duration(3 * time.Second),
		},
		Session: SessionConfig{
			BrowserName:  domain.BrowserName,
			DefaultWait:  Duration(domain.DefaultWaitTimeout),
			CommandGrace: Duration(30 * time.Second),
		},
		Store: StoreConfig{
			Kind: StoreMemory,
			Path: ".tauribridge",
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "tauribridge:",
			},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Transport: TransportConfig{
			Kind: TransportStdio,
			Port: 8080,
		},
	}
}

// Load reads a YAML or JSON file on top of the defaults.
// A missing file is not an error: the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	return cfg, nil
}

// LoadEnv loads .env files into the process environment. Missing files are ignored
// and variables already set are not overridden.
func LoadEnv(files ...string) error {
	for _, f := range files {
		err := godotenv.Load(f)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// Environment variables read by ApplyEnv.
const (
	EnvDriverPath    = "TAURI_DRIVER_PATH"
	EnvDriverPort    = "TAURI_MCP_DRIVER_PORT"
	EnvDefaultWait   = "TAURI_MCP_DEFAULT_WAIT"
	EnvStore         = "TAURI_MCP_STORE"
	EnvStorePath     = "TAURI_MCP_STORE_PATH"
	EnvRedisAddr     = "TAURI_MCP_REDIS_ADDR"
	EnvRedisPassword = "TAURI_MCP_REDIS_PASSWORD"
	EnvLogLevel      = "TAURI_MCP_LOG_LEVEL"
	EnvLogFormat     = "TAURI_MCP_LOG_FORMAT"
	EnvTransport     = "TAURI_MCP_TRANSPORT"
	EnvPort          = "TAURI_MCP_PORT"
	EnvMetricsAddr   = "TAURI_MCP_METRICS_ADDR"
	EnvTrace         = "TAURI_MCP_TRACE"
)

// ApplyEnv overrides fields from the environment.
func (c *Config) ApplyEnv() error {
	setString(&c.Driver.Path, EnvDriverPath)
	setString(&c.Store.Kind, EnvStore)
	setString(&c.Store.Path, EnvStorePath)
	setString(&c.Store.Redis.Addr, EnvRedisAddr)
	setString(&c.Store.Redis.Password, EnvRedisPassword)
	setString(&c.Log.Level, EnvLogLevel)
	setString(&c.Log.Format, EnvLogFormat)
	setString(&c.Transport.Kind, EnvTransport)
	setString(&c.Metrics.Addr, EnvMetricsAddr)

	if err := setInt(&c.Driver.Port, EnvDriverPort); err != nil {
		return err
	}
	if err := setInt(&c.Transport.Port, EnvPort); err != nil {
		return err
	}
	if v, ok := os.LookupEnv(EnvDefaultWait); ok && v != "" {
		var d Duration
		if err := d.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("invalid %s: %w", EnvDefaultWait, err)
		}
		c.Session.DefaultWait = d
	}
	if v, ok := os.LookupEnv(EnvTrace); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvTrace, err)
		}
		c.Tracing.Enabled = b
	}
	return nil
}

// Validate checks the values a run depends on.
func (c Config) Validate() error {
	var errs []error
	if c.Driver.Port <= 0 || c.Driver.Port > 65535 {
		errs = append(errs, fmt.Errorf("driver.port out of range: %d", c.Driver.Port))
	}
	switch c.Store.Kind {
	case StoreMemory, StoreFile, StoreRedis:
	default:
		errs = append(errs, fmt.Errorf("unknown store.kind %q", c.Store.Kind))
	}
	switch c.Transport.Kind {
	case TransportStdio, TransportSSE:
	default:
		errs = append(errs, fmt.Errorf("unknown transport.kind %q", c.Transport.Kind))
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log.format %q", c.Log.Format))
	}
	if c.Session.DefaultWait < 0 || c.Session.CommandGrace < 0 {
		errs = append(errs, errors.New("session timeouts must not be negative"))
	}
	return errors.Join(errs...)
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}
