package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	DefaultReciter      = 7 // Mishari Rashid al-Afasy
	DefaultAPIBaseURL   = "https://api.quran.com/api/v4"
	DefaultAudioBaseURL = "https://verses.quran.com"
)

type Config struct {
	Reciter   int `koanf:"reciter"`    // quran.com recitation id (default: 7)
	StartPage int `koanf:"start_page"` // 0 resumes the last page read

	Icons string `koanf:"icons"` // "nerd", "unicode", or "none" (default: "unicode")

	Notifications *bool `koanf:"notifications"` // desktop notification on verse change (default: true)
	MPRIS         *bool `koanf:"mpris"`         // media key integration (default: true)

	API      APIConfig      `koanf:"api"`
	Playback PlaybackConfig `koanf:"playback"`
	Logs     LogConfig      `koanf:"logs"`
}

// APIConfig holds the content API endpoints.
type APIConfig struct {
	BaseURL        string `koanf:"base_url"`
	AudioBaseURL   string `koanf:"audio_base_url"` // prefix for relative audio paths
	TimeoutSeconds int    `koanf:"timeout_seconds"`
}

// PlaybackConfig holds recitation playback defaults.
type PlaybackConfig struct {
	Autoplay           bool     `koanf:"autoplay"`             // continue to the next page at the end of a page
	Volume             *float64 `koanf:"volume"`               // 0.0-1.0 (default: 1.0)
	LoadTimeoutSeconds int      `koanf:"load_timeout_seconds"` // (default: 10)
}

// LogConfig holds diagnostic logging configuration.
type LogConfig struct {
	Enabled bool   `koanf:"enabled"`
	Level   string `koanf:"level"` // logrus level name (default: "info")
	JSON    bool   `koanf:"json"`
	Dir     string `koanf:"dir"` // empty means the XDG state directory
}

func Load() (*Config, error) {
	return LoadFrom(getConfigPaths()...)
}

// LoadFrom reads the given files in order, later files overriding
// earlier ones. Missing files are skipped.
func LoadFrom(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{
		Reciter: DefaultReciter,
		Icons:   "unicode",
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	// Normalize URLs (remove trailing slash)
	cfg.API.BaseURL = strings.TrimSuffix(cfg.API.BaseURL, "/")
	cfg.API.AudioBaseURL = strings.TrimSuffix(cfg.API.AudioBaseURL, "/")

	if cfg.Logs.Dir != "" {
		cfg.Logs.Dir = expandPath(cfg.Logs.Dir)
	}

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/tilawa/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "tilawa", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// NotificationsEnabled returns true unless notifications were turned off.
func (c *Config) NotificationsEnabled() bool {
	return c.Notifications == nil || *c.Notifications
}

// MPRISEnabled returns true unless MPRIS was turned off.
func (c *Config) MPRISEnabled() bool {
	return c.MPRIS == nil || *c.MPRIS
}

// GetAPIConfig returns the API configuration with defaults applied.
func (c *Config) GetAPIConfig() APIConfig {
	cfg := c.API
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultAPIBaseURL
	}
	if cfg.AudioBaseURL == "" {
		cfg.AudioBaseURL = DefaultAudioBaseURL
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 15
	}
	return cfg
}

// Timeout returns the HTTP timeout for API requests.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// GetPlaybackConfig returns the playback configuration with defaults applied.
func (c *Config) GetPlaybackConfig() PlaybackConfig {
	cfg := c.Playback
	if cfg.Volume == nil {
		v := 1.0
		cfg.Volume = &v
	} else {
		v := max(0, min(*cfg.Volume, 1))
		cfg.Volume = &v
	}
	if cfg.LoadTimeoutSeconds <= 0 {
		cfg.LoadTimeoutSeconds = 10
	}
	return cfg
}

// LoadTimeout returns the clip load timeout.
func (p PlaybackConfig) LoadTimeout() time.Duration {
	return time.Duration(p.LoadTimeoutSeconds) * time.Second
}

// GetLogConfig returns the logging configuration with defaults applied.
func (c *Config) GetLogConfig() LogConfig {
	cfg := c.Logs
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	return cfg
}
