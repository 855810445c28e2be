package config

import (
	"time"
)

// Config holds runtime settings for the companion CLI.
//
// Fields:
//   - APIBaseURL: backend REST root including the /api prefix.
//   - EnableBackend: false runs the app in demo mode with local replies.
//   - RequestTimeout: bound on each backend request.
//   - DemoDelay: artificial reply latency in demo mode.
//   - AuthDemoDelay: artificial login/signup latency in demo mode.
//   - DatabasePath: SQLite file holding the stored credential.
//   - OnlineCheckInterval: how often the CLI probes backend reachability.
//   - LogLevel, LogFormat: slog level name and "text" or "json".
type Config struct {
	APIBaseURL     string
	EnableBackend  bool
	RequestTimeout time.Duration
	DemoDelay      time.Duration
	AuthDemoDelay  time.Duration
	DatabasePath   string
	LogLevel       string
	LogFormat      string

	OnlineCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8000/api"
	c.EnableBackend = true
	c.RequestTimeout = 30 * time.Second
	c.DemoDelay = 1500 * time.Millisecond
	c.AuthDemoDelay = time.Second
	c.DatabasePath = "cbtcompanion.db"
	c.LogLevel = "warn"
	c.LogFormat = "text"
	c.OnlineCheckInterval = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment (optionally seeded from a .env file), a JSON file
// and command-line flags. Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
