// Package config provides configuration loading and structs for the Aqari
// server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Search    SearchConfig    `yaml:"search"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	RequestTimeout int    `yaml:"request_timeout_seconds"`
	MaxConcurrent  int    `yaml:"max_concurrent_requests"`
}

// LocaleSource names the catalog and embedding index files for one locale.
type LocaleSource struct {
	Locale     string `yaml:"locale"`
	Path       string `yaml:"path"`
	VectorPath string `yaml:"vector_path"`
}

// CatalogConfig holds catalog data sources.
type CatalogConfig struct {
	// Source selects the loader: "json" reads the per-locale files, "sqlite"
	// reads the database at DatabasePath.
	Source       string         `yaml:"source"`
	DatabasePath string         `yaml:"database_path"`
	Locales      []LocaleSource `yaml:"locales"`
	Watch        *bool          `yaml:"watch"`
}

// WatchOrDefault returns whether catalog files are watched for changes;
// defaults to true when unset.
func (c *CatalogConfig) WatchOrDefault() bool {
	if c.Watch != nil {
		return *c.Watch
	}
	return true
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	// Provider selects the embedder: "openai" or "mock".
	Provider   string `yaml:"provider"`
	BaseURL    string `yaml:"base_url"`
	Token      string `yaml:"token"`
	TokenEnv   string `yaml:"token_env"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
	CacheSize  int    `yaml:"cache_size"`
}

// ResolveToken returns the API token, preferring the environment variable
// named by TokenEnv over the inline value.
func (e *EmbeddingConfig) ResolveToken() string {
	if e.TokenEnv != "" {
		if token := os.Getenv(e.TokenEnv); token != "" {
			return token
		}
	}
	return e.Token
}

// SearchConfig holds search behavior settings.
type SearchConfig struct {
	DefaultLimit    int `yaml:"default_limit"`
	MaxLimit        int `yaml:"max_limit"`
	CacheSize       int `yaml:"cache_size"`
	CacheTTLSeconds int `yaml:"cache_ttl_seconds"`
}

// Load reads and parses the config file at path, expands paths, and
// applies defaults. Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Catalog.DatabasePath = expandPath(cfg.Catalog.DatabasePath, configDir)
	for i := range cfg.Catalog.Locales {
		cfg.Catalog.Locales[i].Path = expandPath(cfg.Catalog.Locales[i].Path, configDir)
		if cfg.Catalog.Locales[i].VectorPath != "" {
			cfg.Catalog.Locales[i].VectorPath = expandPath(cfg.Catalog.Locales[i].VectorPath, configDir)
		}
	}

	return &cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are
// relative to configDir; other relative paths are relative to the home
// directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
