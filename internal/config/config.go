package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the application's configuration model.
// It captures inputs, filters, storage and how reports are rendered.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Filters FiltersConfig `yaml:"filters"`
	Storage StorageConfig `yaml:"storage"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Report  ReportConfig  `yaml:"report"`
}

type InputConfig struct {
	// CSV exports read by import when no files are given on the command line
	Files []string `yaml:"files"`
	// IANA zone used for day, hour and weekday buckets. If empty, read CHATPULSE_TZ
	Timezone string `yaml:"timezone"`
}

type FiltersConfig struct {
	ExcludeBots bool `yaml:"excludeBots"`
	// Inclusive calendar days, e.g. "2024-01-31"
	After  string `yaml:"after"`
	Before string `yaml:"before"`
}

type StorageConfig struct {
	DBPath string `yaml:"dbPath"`
}

type ServerConfig struct {
	Addr        string `yaml:"addr"`
	MetricsAddr string `yaml:"metricsAddr"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

type ReportConfig struct {
	TopAuthors int    `yaml:"topAuthors"`
	TopWords   int    `yaml:"topWords"`
	TopEmojis  int    `yaml:"topEmojis"`
	Sort       string `yaml:"sort"` // column key, e.g. "msgs" or "resp"
	Ascending  bool   `yaml:"ascending"`
}

// Default returns a sensible default configuration.
func Default() Config {
	return Config{
		Input:   InputConfig{Timezone: "Local"},
		Storage: StorageConfig{DBPath: "./chatpulse.db"},
		Server:  ServerConfig{Addr: ":8080"},
		Logging: LoggingConfig{Level: "info"},
		Report:  ReportConfig{TopAuthors: 6, TopWords: 20, TopEmojis: 10, Sort: "msgs"},
	}
}

// ResolveEnv fills in config fields from environment variables if not set.
func (c *Config) ResolveEnv() {
	if v := os.Getenv("CHATPULSE_DB_PATH"); v != "" && c.Storage.DBPath == "" {
		c.Storage.DBPath = v
	}
	if v := os.Getenv("CHATPULSE_TZ"); v != "" && c.Input.Timezone == "" {
		c.Input.Timezone = v
	}
	if v := os.Getenv("CHATPULSE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("CHATPULSE_HTTP_ADDR"); v != "" && c.Server.Addr == "" {
		c.Server.Addr = v
	}
	if c.Server.MetricsAddr == "" {
		c.Server.MetricsAddr = os.Getenv("METRICS_ADDR")
	}
}

// Location resolves the configured timezone. Empty or "Local" means the
// process's local zone.
func (c Config) Location() (*time.Location, error) {
	switch c.Input.Timezone {
	case "", "Local":
		return time.Local, nil
	}
	return time.LoadLocation(c.Input.Timezone)
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	cfg.ResolveEnv()
	return cfg, nil
}

// LoadOrDefault reads path when it exists and falls back to Default otherwise.
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg = Default()
		cfg.ResolveEnv()
		return cfg, nil
	}
	return cfg, err
}

// Save writes YAML config to path, creating directories as needed.
func Save(path string, cfg Config) error {
	if path == "" {
		return errors.New("empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
