// Package config provides the configuration surface for the monitoring
// engine. Settings come from built-in defaults, an optional YAML file,
// and RESMOND_* environment overrides, in that order. The result is
// validated once; an invalid configuration is fatal before any sampler
// starts.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultIntervalMS = 1000
	// DefaultHistoryCapacity bounds each domain's history to one hour
	// of samples at the default 1 Hz cadence.
	DefaultHistoryCapacity = 3600
	DefaultShutdownTimeout = 5 * time.Second
)

// DomainSettings is the per-domain sampling knob set.
type DomainSettings struct {
	// IntervalMS is the sampling period in milliseconds.
	IntervalMS int `yaml:"interval_ms"`
	// HistoryCapacity is the maximum number of retained snapshots.
	HistoryCapacity int `yaml:"history_capacity"`
}

func (d DomainSettings) Interval() time.Duration {
	return time.Duration(d.IntervalMS) * time.Millisecond
}

type Config struct {
	CPU     DomainSettings `yaml:"cpu"`
	Memory  DomainSettings `yaml:"memory"`
	Disk    DomainSettings `yaml:"disk"`
	Network DomainSettings `yaml:"network"`
	Process DomainSettings `yaml:"process"`

	// KillRequiresConfirmation is informational for the presentation
	// layer; the engine itself never acts on it.
	KillRequiresConfirmation bool `yaml:"kill_requires_confirmation"`

	ShutdownTimeout time.Duration `yaml:"-"`
	// ShutdownTimeoutMS mirrors ShutdownTimeout for the YAML surface.
	ShutdownTimeoutMS int `yaml:"shutdown_timeout_ms"`

	LogLevel string `yaml:"log_level"`
	LogJSON  bool   `yaml:"log_json"`
}

func Default() Config {
	domain := DomainSettings{
		IntervalMS:      DefaultIntervalMS,
		HistoryCapacity: DefaultHistoryCapacity,
	}
	return Config{
		CPU:                      domain,
		Memory:                   domain,
		Disk:                     domain,
		Network:                  domain,
		Process:                  domain,
		KillRequiresConfirmation: true,
		ShutdownTimeout:          DefaultShutdownTimeout,
		LogLevel:                 "info",
	}
}

// Load builds the effective configuration: defaults, then the YAML file
// named by RESMOND_CONFIG (if any), then env overrides, then validation.
func Load() (Config, error) {
	return load(env("RESMOND_CONFIG", ""))
}

// LoadFile is Load with an explicit file path, for callers that manage
// their own flag parsing.
func LoadFile(path string) (Config, error) {
	return load(path)
}

func load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
		if cfg.ShutdownTimeoutMS > 0 {
			cfg.ShutdownTimeout = time.Duration(cfg.ShutdownTimeoutMS) * time.Millisecond
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if interval := envInt("RESMOND_INTERVAL_MS", 0); interval > 0 {
		for _, d := range cfg.domains() {
			d.IntervalMS = interval
		}
	}
	if capacity := envInt("RESMOND_HISTORY_CAPACITY", 0); capacity > 0 {
		for _, d := range cfg.domains() {
			d.HistoryCapacity = capacity
		}
	}
	cfg.ShutdownTimeout = envDuration("RESMOND_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	cfg.LogLevel = strings.ToLower(env("RESMOND_LOG_LEVEL", cfg.LogLevel))
	cfg.LogJSON = envBool("RESMOND_LOG_JSON", cfg.LogJSON)
	cfg.KillRequiresConfirmation = envBool("RESMOND_KILL_REQUIRES_CONFIRMATION", cfg.KillRequiresConfirmation)
}

func (c *Config) domains() []*DomainSettings {
	return []*DomainSettings{&c.CPU, &c.Memory, &c.Disk, &c.Network, &c.Process}
}

func (c Config) Validate() error {
	named := []struct {
		name     string
		settings DomainSettings
	}{
		{"cpu", c.CPU},
		{"memory", c.Memory},
		{"disk", c.Disk},
		{"network", c.Network},
		{"process", c.Process},
	}
	for _, d := range named {
		if d.settings.IntervalMS <= 0 {
			return fmt.Errorf("%s interval_ms must be > 0, got %d", d.name, d.settings.IntervalMS)
		}
		if d.settings.HistoryCapacity <= 0 {
			return fmt.Errorf("%s history_capacity must be > 0, got %d", d.name, d.settings.HistoryCapacity)
		}
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("shutdown timeout must be > 0")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log level %q", c.LogLevel)
	}
	return nil
}

func env(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func envBool(key string, fallback bool) bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	switch v {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
