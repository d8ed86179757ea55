package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Backend  Backend  `yaml:"backend"`
	Query    Query    `yaml:"query"`
	Articles Articles `yaml:"articles"`
	Live     Live     `yaml:"live"`
	Server   Server   `yaml:"server"`
	Logging  Logging  `yaml:"logging"`
}

type Backend struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type Query struct {
	Granularity string   `yaml:"granularity"`
	DaysBack    int      `yaml:"days_back"`
	Sources     []string `yaml:"sources"`
	Topics      []string `yaml:"topics"`
}

type Articles struct {
	PerPage int `yaml:"per_page"`
}

type Live struct {
	Enabled         bool  `yaml:"enabled"`
	IntervalSeconds int   `yaml:"interval_seconds"`
	Seed            int64 `yaml:"seed"`
}

type Server struct {
	Port int `yaml:"port"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for newslens.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "newslens")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/newslens/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'newslens init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Backend: Backend{
			BaseURL:        "http://localhost:8080/api/v1",
			TimeoutSeconds: 30,
		},
		Query: Query{
			Granularity: "daily",
			DaysBack:    7,
		},
		Articles: Articles{PerPage: 20},
		Live: Live{
			Enabled:         true,
			IntervalSeconds: 5,
		},
		Server:  Server{Port: 8000},
		Logging: Logging{Level: "INFO"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
