package config

import (
	"net/url"
	"strings"
	"time"

	"github.com/ecosync/ecosync/internal/filex"
)

const (
	localAPIBaseURL      = "http://localhost:8000/api/v1"
	productionAPIBaseURL = "https://eco-sync-mvp.vercel.app/api/v1"
)

// Config holds runtime settings for the EcoSync CLI.
//
// Fields:
//   - APIBaseURL: explicit REST base URL; overrides Host when set.
//   - Host: the hostname the client pretends to run on. localhost and
//     127.0.0.1 select the local backend, anything else production.
//   - StorePath: SQLite file holding the saved session.
//   - OnlineCheckInterval: how often the shell probes /health (0 disables).
//   - RequestTimeout: per-request timeout (0 means none).
//   - LogBackend, LogLevel: see logging.New.
type Config struct {
	APIBaseURL          string
	Host                string
	StorePath           string
	OnlineCheckInterval time.Duration
	RequestTimeout      time.Duration
	LogBackend          string
	LogLevel            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = ""
	c.Host = "localhost"
	c.StorePath = filex.DefaultDataFile("session.db")
	c.OnlineCheckInterval = 3 * time.Second
	c.RequestTimeout = 0
	c.LogBackend = "slog"
	c.LogLevel = "warn"
}

// BaseURL returns the REST base URL the client talks to.
func (c *Config) BaseURL() string {
	if c.APIBaseURL != "" {
		return strings.TrimRight(c.APIBaseURL, "/")
	}
	return ResolveBaseURL(c.Host)
}

// ResolveBaseURL picks the backend by hostname. host may also be a URL or a
// host:port pair.
func ResolveBaseURL(host string) string {
	h := strings.TrimSpace(host)
	if u, err := url.Parse(h); err == nil && u.Host != "" {
		h = u.Hostname()
	} else if name, _, ok := strings.Cut(h, ":"); ok {
		h = name
	}

	switch strings.ToLower(h) {
	case "localhost", "127.0.0.1":
		return localAPIBaseURL
	default:
		return productionAPIBaseURL
	}
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a config file (if present) and command-line flags (if present). Later
// sources take precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
