package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Sessions  SessionsConfig  `yaml:"sessions"`
	Notify    NotifyConfig    `yaml:"notify"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// AuthConfig guards the session control endpoints. An empty APIKey leaves
// them open, which is the expected setup on a private tailnet.
type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// SessionsConfig tunes the timer engine and its registry. Durations are
// plain integers (milliseconds for the tick, seconds elsewhere) so the YAML
// stays obvious.
type SessionsConfig struct {
	TickIntervalMS       int `yaml:"tick_interval_ms"`
	MaxSessions          int `yaml:"max_sessions"`
	SweepIntervalSeconds int `yaml:"sweep_interval_seconds"`
	ExpireAfterSeconds   int `yaml:"expire_after_seconds"`
}

// NotifyConfig configures the optional webhook sink for terminal session
// notifications. An empty WebhookURL disables it.
type NotifyConfig struct {
	WebhookURL     string `yaml:"webhook_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxAttempts    int    `yaml:"max_attempts"`
}

func (s SessionsConfig) TickInterval() time.Duration {
	return time.Duration(s.TickIntervalMS) * time.Millisecond
}

func (s SessionsConfig) SweepInterval() time.Duration {
	return time.Duration(s.SweepIntervalSeconds) * time.Second
}

func (s SessionsConfig) ExpireAfter() time.Duration {
	return time.Duration(s.ExpireAfterSeconds) * time.Second
}

func (n NotifyConfig) Timeout() time.Duration {
	return time.Duration(n.TimeoutSeconds) * time.Second
}

// Default returns the configuration used before any file or environment
// override is applied.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Host: "127.0.0.1", Port: 8484},
		Sessions: SessionsConfig{
			TickIntervalMS:       1000,
			MaxSessions:          16,
			SweepIntervalSeconds: 300,
			ExpireAfterSeconds:   3600,
		},
		Notify: NotifyConfig{TimeoutSeconds: 10, MaxAttempts: 3},
	}
}

// Load reads config from a YAML file over the defaults, then applies
// environment variable overrides. Env vars use the prefix RESPAWN_ and
// underscore-separated paths:
//
//	RESPAWN_SERVER_HOST, RESPAWN_SERVER_PORT,
//	RESPAWN_AUTH_API_KEY,
//	RESPAWN_TAILSCALE_ENABLED, RESPAWN_TAILSCALE_HOSTNAME,
//	RESPAWN_TAILSCALE_STATE_DIR,
//	RESPAWN_SESSIONS_MAX, RESPAWN_SESSIONS_TICK_MS,
//	RESPAWN_NOTIFY_WEBHOOK_URL
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("RESPAWN_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("RESPAWN_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("RESPAWN_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("RESPAWN_TAILSCALE_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = enabled
		}
	}
	if v := os.Getenv("RESPAWN_TAILSCALE_HOSTNAME"); v != "" {
		cfg.Tailscale.Hostname = v
	}
	if v := os.Getenv("RESPAWN_TAILSCALE_STATE_DIR"); v != "" {
		cfg.Tailscale.StateDir = v
	}
	if v := os.Getenv("RESPAWN_SESSIONS_MAX"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Sessions.MaxSessions = n
		}
	}
	if v := os.Getenv("RESPAWN_SESSIONS_TICK_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Sessions.TickIntervalMS = n
		}
	}
	if v := os.Getenv("RESPAWN_NOTIFY_WEBHOOK_URL"); v != "" {
		cfg.Notify.WebhookURL = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Sessions.TickIntervalMS < 0 {
		return fmt.Errorf("sessions.tick_interval_ms must not be negative")
	}
	if c.Sessions.MaxSessions < 0 {
		return fmt.Errorf("sessions.max_sessions must not be negative")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	if c.Notify.WebhookURL != "" && c.Notify.MaxAttempts <= 0 {
		return fmt.Errorf("notify.max_attempts must be positive")
	}
	return nil
}
