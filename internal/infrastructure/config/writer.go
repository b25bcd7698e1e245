package config

import (
	"fmt"
	"os"
)

// DefaultConfigYAML is the default configuration content.
const DefaultConfigYAML = `# Tagline Configuration

llm:
  url: https://llm.chutes.ai/v1/chat/completions
  model: Qwen/Qwen3-8B
  max_tokens: 1024
  # api_key: your-api-key (or set CHUTES_API_KEY env var)

http:
  max_retries: 5
  retry_delay_seconds: 5
  timeout_seconds: 30

constitution:
  # base_url: https://example.com/constitution/
  update_interval_seconds: 3600
  topics: []

discovery:
  # base_url: https://api.twitter.example.com
  # api_key: your-api-key (or set TWITTER_API_KEY env var)

verification:
  # announcement_account_id: account whose quoted posts earn the sentinel topic
  sentinel_topic: announcement
`

// WriteDefault creates the .tagline directory and writes a default config file.
func WriteDefault(basePath string) error {
	configDir := ConfigDir(basePath)
	configFile := ConfigFilePath(basePath)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if Exists(basePath) {
		return fmt.Errorf("config file already exists: %s", configFile)
	}

	if err := os.WriteFile(configFile, []byte(DefaultConfigYAML), 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
