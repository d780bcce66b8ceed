// Package config loads the YAML configuration shared by the CLI and the library
package config

import (
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	// EnvConfigPath overrides the config file location
	EnvConfigPath = "ARABSTREAM_CONFIG"
	// EnvDebug forces debug logging when set to a true value
	EnvDebug = "ARABSTREAM_DEBUG"
	// EnvBrowserTLS forces the Chrome TLS fingerprint transport
	EnvBrowserTLS = "ARABSTREAM_BROWSER_TLS"
	// EnvLogFormat selects text, json or logfmt log lines
	EnvLogFormat = "ARABSTREAM_LOG_FORMAT"
)

// Config represents the application configuration
type Config struct {
	Debug      bool                  `yaml:"debug"`
	LogFormat  string                `yaml:"log_format"`
	Timeout    time.Duration         `yaml:"timeout"`
	Retries    int                   `yaml:"retries"`
	RetryDelay time.Duration         `yaml:"retry_delay"`
	BrowserTLS bool                  `yaml:"browser_tls"`
	UserAgents []string              `yaml:"user_agents"`
	MaxWorkers int                   `yaml:"max_workers"`
	CacheSize  int                   `yaml:"cache_size"`
	Sites      map[string]SiteConfig `yaml:"sites"`
}

// SiteConfig overrides the built-in settings of one provider.
// Zero values keep the built-in setting.
type SiteConfig struct {
	BaseURL       string        `yaml:"base_url"`
	Disabled      bool          `yaml:"disabled"`
	MinInterval   time.Duration `yaml:"min_interval"`
	MaxConcurrent int           `yaml:"max_concurrent"`
	Jitter        time.Duration `yaml:"jitter"`
}

// DefaultUserAgents is the rotation used when the config lists none
var DefaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Mobile Safari/537.36",
}

// DefaultConfig returns configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Timeout:    20 * time.Second,
		Retries:    0,
		RetryDelay: 500 * time.Millisecond,
		UserAgents: append([]string(nil), DefaultUserAgents...),
		MaxWorkers: 6,
		CacheSize:  30,
		Sites:      map[string]SiteConfig{},
	}
}

// DefaultPath returns $ARABSTREAM_CONFIG or <UserConfigDir>/arabstream/config.yaml
func DefaultPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "arabstream", "config.yaml")
}

// Load reads configuration from a YAML file.
// A missing file yields the defaults; env overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, errors.Wrapf(err, "read config %s", path)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errors.Wrapf(err, "parse config %s", path)
			}
		}
	}

	cfg.applyEnv()
	if len(cfg.UserAgents) == 0 {
		cfg.UserAgents = append([]string(nil), DefaultUserAgents...)
	}
	if cfg.Sites == nil {
		cfg.Sites = map[string]SiteConfig{}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v, ok := envBool(EnvDebug); ok {
		c.Debug = v
	}
	if v, ok := envBool(EnvBrowserTLS); ok {
		c.BrowserTLS = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		c.LogFormat = v
	}
}

func envBool(key string) (bool, bool) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return false, false
	}
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, false
	}
	return v, true
}

// Validate rejects negative durations and sizes and non-http base URLs
func (c *Config) Validate() error {
	switch {
	case c.Timeout < 0:
		return errors.Errorf("timeout must not be negative, got %s", c.Timeout)
	case c.Retries < 0:
		return errors.Errorf("retries must not be negative, got %d", c.Retries)
	case c.RetryDelay < 0:
		return errors.Errorf("retry_delay must not be negative, got %s", c.RetryDelay)
	case c.MaxWorkers < 0:
		return errors.Errorf("max_workers must not be negative, got %d", c.MaxWorkers)
	case c.CacheSize < 0:
		return errors.Errorf("cache_size must not be negative, got %d", c.CacheSize)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json", "logfmt":
	default:
		return errors.Errorf("log_format must be text, json or logfmt, got %q", c.LogFormat)
	}

	for name, site := range c.Sites {
		if site.MinInterval < 0 || site.Jitter < 0 || site.MaxConcurrent < 0 {
			return errors.Errorf("sites.%s: throttle values must not be negative", name)
		}
		if site.BaseURL == "" {
			continue
		}
		u, err := url.Parse(site.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return errors.Errorf("sites.%s: base_url %q is not an http(s) URL", name, site.BaseURL)
		}
	}
	return nil
}

// Site returns the override block for name, matched case-insensitively
func (c *Config) Site(name string) SiteConfig {
	if s, ok := c.Sites[name]; ok {
		return s
	}
	for k, s := range c.Sites {
		if strings.EqualFold(k, name) {
			return s
		}
	}
	return SiteConfig{}
}
