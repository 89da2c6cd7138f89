package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// StoreConfig contains connection details for the hosted vector store.
// API keys are never written to the config file; the file names the
// environment variables to read them from.
type StoreConfig struct {
	URL                 string `yaml:"url"`
	URLEnv              string `yaml:"url_env"`
	APIKeyEnv           string `yaml:"api_key_env"`
	GenerativeAPIKeyEnv string `yaml:"generative_api_key_env"`
	TimeoutSecs         int    `yaml:"timeout_secs"`
}

// SearchConfig holds search defaults presented by the UI.
type SearchConfig struct {
	DefaultTopK int `yaml:"default_top_k"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Store  StoreConfig  `yaml:"store"`
	Search SearchConfig `yaml:"search"`
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			applyConfigDefaults(cfg)
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// ResolveURL returns the configured endpoint, falling back to the named
// environment variable when the file leaves it empty.
func (c *StoreConfig) ResolveURL() string {
	if c.URL != "" {
		return c.URL
	}
	return os.Getenv(c.URLEnv)
}

func defaultConfig() *AppConfig {
	return &AppConfig{}
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Store.URLEnv == "" {
		cfg.Store.URLEnv = "WEAVIATE_URL"
	}
	if cfg.Store.APIKeyEnv == "" {
		cfg.Store.APIKeyEnv = "WEAVIATE_API_KEY"
	}
	if cfg.Store.GenerativeAPIKeyEnv == "" {
		cfg.Store.GenerativeAPIKeyEnv = "COHERE_API_KEY"
	}
	if cfg.Store.TimeoutSecs == 0 {
		cfg.Store.TimeoutSecs = 30
	}
	if cfg.Search.DefaultTopK == 0 {
		cfg.Search.DefaultTopK = 5
	}
}
