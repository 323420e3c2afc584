// Package config holds sysmarket configuration: YAML file on disk with
// environment variable overrides layered on top.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all sysmarket configuration.
type Config struct {
	// LLM configuration for the boilerplate generator and ask command.
	LLM LLMConfig `yaml:"llm"`

	// Inventory remote API and local store configuration.
	Inventory InventoryConfig `yaml:"inventory"`

	// Logging.
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig configures the Gemini model call.
type LLMConfig struct {
	APIKey          string  `yaml:"api_key"`
	Model           string  `yaml:"model"`
	Temperature     float32 `yaml:"temperature"`
	TopP            float32 `yaml:"top_p"`
	MaxOutputTokens int32   `yaml:"max_output_tokens"`
	Timeout         string  `yaml:"timeout"`
}

// InventoryConfig configures the remote inventory API and the local store.
type InventoryConfig struct {
	BaseURL           string `yaml:"base_url"`
	ProductsEndpoint  string `yaml:"products_endpoint"`
	SuppliersEndpoint string `yaml:"suppliers_endpoint"`
	SalesEndpoint     string `yaml:"sales_endpoint"`
	RequestTimeout    string `yaml:"request_timeout"`
	CacheTTL          string `yaml:"cache_ttl"`
	SalesCacheTTL     string `yaml:"sales_cache_ttl"`
	DatabasePath      string `yaml:"database_path"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Model:           "gemini-2.5-pro",
			Temperature:     0.4,
			TopP:            0.9,
			MaxOutputTokens: 18000,
			Timeout:         "5m",
		},
		Inventory: InventoryConfig{
			BaseURL:           "http://localhost:8080/api/v1",
			ProductsEndpoint:  "/products",
			SuppliersEndpoint: "/suppliers",
			SalesEndpoint:     "/sales",
			RequestTimeout:    "15s",
			CacheTTL:          "60s",
			SalesCacheTTL:     "120s",
			DatabasePath:      "sysmarket.db",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from a YAML file and applies environment
// overrides. A missing file is not an error: defaults apply.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
// GEMINI_API_KEY takes precedence over GOOGLE_API_KEY.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		c.LLM.APIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
	}
	if url := os.Getenv("SYSMARKET_API_URL"); url != "" {
		c.Inventory.BaseURL = url
	}
	if db := os.Getenv("SYSMARKET_DB"); db != "" {
		c.Inventory.DatabasePath = db
	}
}

// LLMTimeout parses the configured LLM timeout, falling back to 5 minutes.
func (c *Config) LLMTimeout() time.Duration {
	return parseDurationOr(c.LLM.Timeout, 5*time.Minute)
}

// InventoryRequestTimeout parses the API request timeout, default 15s.
func (c *Config) InventoryRequestTimeout() time.Duration {
	return parseDurationOr(c.Inventory.RequestTimeout, 15*time.Second)
}

// InventoryCacheTTL parses the response cache TTL, default 60s.
func (c *Config) InventoryCacheTTL() time.Duration {
	return parseDurationOr(c.Inventory.CacheTTL, 60*time.Second)
}

// InventorySalesCacheTTL parses the sales cache TTL, default 120s.
func (c *Config) InventorySalesCacheTTL() time.Duration {
	return parseDurationOr(c.Inventory.SalesCacheTTL, 120*time.Second)
}

func parseDurationOr(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
