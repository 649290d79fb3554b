package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Version       int           `toml:"version"`
	SearchPaths   []string      `toml:"search_paths"`
	SystemModules []string      `toml:"system_modules"`
	Placeholders  []string      `toml:"placeholder_modules"`
	Exclude       Exclude       `toml:"exclude"`
	Languages     Languages     `toml:"languages"`
	History       History       `toml:"history"`
	Observability Observability `toml:"observability"`
	Watch         Watch         `toml:"watch"`
	Workers       Workers       `toml:"workers"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Languages struct {
	// Enabled restricts which source languages the frontend parses. Empty
	// means all registered languages.
	Enabled []string `toml:"enabled"`
}

type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type Observability struct {
	MetricsAddr  string `toml:"metrics_addr"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
}

type Watch struct {
	Debounce     time.Duration `toml:"debounce"`
	ScanRate     float64       `toml:"scan_rate"`
	ScanBurst    int           `toml:"scan_burst"`
	RediscoverMs int           `toml:"rediscover_ms"`
}

type Workers struct {
	Count int `toml:"count"`
}

func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Exclude: Exclude{
			Dirs:  []string{".git", "node_modules", "__pycache__", "target", "vendor"},
			Files: []string{"*_test.go", "test_*.py", "*.min.js"},
		},
		History: History{
			Path: filepath.Join(defaultStateDir(), "history.db"),
		},
		Watch: Watch{
			Debounce:  500 * time.Millisecond,
			ScanRate:  4,
			ScanBurst: 2,
		},
		Workers: Workers{Count: 1},
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	for _, p := range c.SearchPaths {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("search_paths must not contain empty entries")
		}
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	if c.Watch.ScanRate < 0 {
		return fmt.Errorf("watch.scan_rate must not be negative")
	}
	if c.Workers.Count < 0 {
		return fmt.Errorf("workers.count must not be negative")
	}
	if c.History.Enabled && strings.TrimSpace(c.History.Path) == "" {
		return fmt.Errorf("history.path is required when history is enabled")
	}
	return nil
}

func defaultStateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "depscan")
	}
	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "depscan")
	}
	return "."
}
