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

type Config struct {
	// Server holds Museed backend endpoints.
	Server ServerConfig `koanf:"server"`

	// Generate controls the playlist-generation polling loop.
	Generate GenerateConfig `koanf:"generate"`

	// Playback holds default transport settings.
	Playback PlaybackConfig `koanf:"playback"`

	// Log holds diagnostic logging settings.
	Log LogConfig `koanf:"log"`
}

// ServerConfig holds the Museed API and media endpoints.
type ServerConfig struct {
	URL      string `koanf:"url"`       // e.g., "http://localhost:8000"
	MediaURL string `koanf:"media_url"` // base for track audio/art paths; defaults to URL
}

// GenerateConfig holds playlist-generation polling settings.
type GenerateConfig struct {
	PollInterval time.Duration `koanf:"poll_interval"` // default: 1s
	MaxAttempts  int           `koanf:"max_attempts"`  // default: 300
	Timeout      time.Duration `koanf:"timeout"`       // default: 10m
}

// PlaybackConfig holds default transport settings.
type PlaybackConfig struct {
	Volume float64 `koanf:"volume"` // initial volume 0.0-1.0 (default: 0.7)
}

// LogConfig holds diagnostic logging settings.
type LogConfig struct {
	Level string `koanf:"level"` // "debug", "info", "warn", "error" (default: "info")
	File  string `koanf:"file"`  // empty means XDG state dir
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := defaults()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.normalize()
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			URL: "http://localhost:8000",
		},
		Generate: GenerateConfig{
			PollInterval: time.Second,
			MaxAttempts:  300,
			Timeout:      10 * time.Minute,
		},
		Playback: PlaybackConfig{
			Volume: 0.7,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func (c *Config) normalize() {
	c.Server.URL = strings.TrimSuffix(c.Server.URL, "/")
	c.Server.MediaURL = strings.TrimSuffix(c.Server.MediaURL, "/")
	if c.Server.MediaURL == "" {
		c.Server.MediaURL = c.Server.URL
	}

	if c.Generate.PollInterval <= 0 {
		c.Generate.PollInterval = time.Second
	}
	if c.Generate.MaxAttempts <= 0 {
		c.Generate.MaxAttempts = 300
	}
	if c.Generate.Timeout <= 0 {
		c.Generate.Timeout = 10 * time.Minute
	}

	if c.Playback.Volume < 0 {
		c.Playback.Volume = 0
	}
	if c.Playback.Volume > 1 {
		c.Playback.Volume = 1
	}

	if c.Log.File != "" {
		c.Log.File = expandPath(c.Log.File)
	}
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/museed/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "museed", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
