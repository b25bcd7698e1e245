// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigDir is the directory name for tagline configuration.
	DefaultConfigDir = ".tagline"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
)

// Config holds static infrastructure configuration (read-only after init).
type Config struct {
	LLM          LLMConfig          `yaml:"llm,omitempty"`
	HTTP         HTTPConfig         `yaml:"http,omitempty"`
	Constitution ConstitutionConfig `yaml:"constitution,omitempty"`
	Discovery    DiscoveryConfig    `yaml:"discovery,omitempty"`
	Verification VerificationConfig `yaml:"verification,omitempty"`
	SQLite       SQLiteConfig       `yaml:"sqlite,omitempty"`
}

// LLMConfig holds configuration for the LLM completion endpoint.
type LLMConfig struct {
	URL       string `yaml:"url,omitempty"`
	Model     string `yaml:"model,omitempty"`
	APIKey    string `yaml:"api_key,omitempty"`
	MaxTokens int    `yaml:"max_tokens,omitempty"`
}

// HTTPConfig holds the retry policy shared by all outbound HTTP calls.
// The delay between attempts grows linearly with the attempt number.
type HTTPConfig struct {
	MaxRetries        int `yaml:"max_retries,omitempty"`
	RetryDelaySeconds int `yaml:"retry_delay_seconds,omitempty"`
	TimeoutSeconds    int `yaml:"timeout_seconds,omitempty"`
}

// RetryDelay returns the base delay between retry attempts.
func (c HTTPConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelaySeconds) * time.Second
}

// Timeout returns the per-attempt request timeout.
func (c HTTPConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ConstitutionConfig holds configuration for the remote prompt store.
type ConstitutionConfig struct {
	BaseURL               string   `yaml:"base_url,omitempty"`
	Topics                []string `yaml:"topics,omitempty"`
	UpdateIntervalSeconds int      `yaml:"update_interval_seconds,omitempty"`
}

// UpdateInterval returns how long cached prompts stay fresh.
func (c ConstitutionConfig) UpdateInterval() time.Duration {
	return time.Duration(c.UpdateIntervalSeconds) * time.Second
}

// DiscoveryConfig holds configuration for the social platform API.
type DiscoveryConfig struct {
	BaseURL string `yaml:"base_url,omitempty"`
	APIKey  string `yaml:"api_key,omitempty"`
}

// VerificationConfig holds the quote-tweet verification settings: posts
// quoting the announcement account get the sentinel topic appended.
type VerificationConfig struct {
	AnnouncementAccountID string `yaml:"announcement_account_id,omitempty"`
	SentinelTopic         string `yaml:"sentinel_topic,omitempty"`
}

// SQLiteConfig holds configuration for the SQLite post store.
type SQLiteConfig struct {
	Path string `yaml:"path,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			URL:       "https://llm.chutes.ai/v1/chat/completions",
			Model:     "Qwen/Qwen3-8B",
			MaxTokens: 1024,
		},
		HTTP: HTTPConfig{
			MaxRetries:        5,
			RetryDelaySeconds: 5,
			TimeoutSeconds:    30,
		},
		Constitution: ConstitutionConfig{
			UpdateIntervalSeconds: 3600,
		},
		Verification: VerificationConfig{
			SentinelTopic: "announcement",
		},
	}
}

// Load loads configuration from the .tagline directory in the given path.
func Load(basePath string) (*Config, error) {
	configFile := ConfigFilePath(basePath)

	data, err := os.ReadFile(configFile)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s (run 'tagline init' first)", configFile)
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Start with defaults
	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	cfg.applyEnvOverrides()

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("CHUTES_API_KEY"); key != "" && c.LLM.APIKey == "" {
		c.LLM.APIKey = key
	}
	if key := os.Getenv("TWITTER_API_KEY"); key != "" && c.Discovery.APIKey == "" {
		c.Discovery.APIKey = key
	}
}

// ConfigDir returns the path to the .tagline config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}

// SQLitePath returns the configured database path, defaulting to a file
// inside the config directory.
func (c *Config) SQLitePath(basePath string) string {
	if c.SQLite.Path != "" {
		return c.SQLite.Path
	}
	return filepath.Join(basePath, DefaultConfigDir, "tagline.db")
}

// Exists checks if a tagline config exists in the given path.
func Exists(basePath string) bool {
	_, err := os.Stat(ConfigFilePath(basePath))
	return err == nil
}
