// Package deepseek provides a client for the DeepSeek chat completions API.
package deepseek

import (
	"os"
	"time"
)

// Config holds configuration for the DeepSeek API client.
type Config struct {
	APIKey  string        // API key for authentication
	BaseURL string        // Base URL for the API (e.g., "https://api.deepseek.com/v1")
	Model   string        // Chat model name
	Timeout time.Duration // HTTP request timeout
}

// LoadConfig loads DeepSeek configuration from environment variables.
func LoadConfig() Config {
	base := os.Getenv("DEEPSEEK_BASE_URL")
	if base == "" {
		base = "https://api.deepseek.com/v1"
	}
	model := os.Getenv("DEEPSEEK_MODEL")
	if model == "" {
		model = "deepseek-chat"
	}
	return Config{
		APIKey:  os.Getenv("DEEPSEEK_API_KEY"),
		BaseURL: base,
		Model:   model,
		// LLMの応答は遅いため、マーケットデータAPIより長めに取る
		Timeout: 60 * time.Second,
	}
}
