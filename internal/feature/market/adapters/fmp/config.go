// Package fmp provides a client for the Financial Modeling Prep (FMP) market data API.
package fmp

import (
	"os"
	"time"
)

// Config holds configuration for the FMP API client.
type Config struct {
	APIKey  string        // API key for authentication
	BaseURL string        // Base URL for the API (e.g., "https://financialmodelingprep.com/api/v3")
	Timeout time.Duration // HTTP request timeout
}

// LoadConfig loads FMP configuration from environment variables.
func LoadConfig() Config {
	base := os.Getenv("FMP_BASE_URL")
	if base == "" {
		base = "https://financialmodelingprep.com/api/v3"
	}
	return Config{
		APIKey:  os.Getenv("FMP_API_KEY"),
		BaseURL: base,
		Timeout: 15 * time.Second,
	}
}
