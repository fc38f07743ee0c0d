package config

import (
	"fmt"
	"time"
)

// CuratorConfig configures the conversational concierge.
type CuratorConfig struct {
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	Timeout     string  `yaml:"timeout"`

	// RatePerMinute throttles outbound requests. Zero disables throttling.
	RatePerMinute int `yaml:"rate_per_minute"`
	Burst         int `yaml:"burst"`
}

// DefaultCuratorConfig returns the concierge defaults.
func DefaultCuratorConfig() CuratorConfig {
	return CuratorConfig{
		Model:         "gemini-3-flash-preview",
		Temperature:   0.7,
		Timeout:       "30s",
		RatePerMinute: 30,
		Burst:         3,
	}
}

// Enabled reports whether a credential is configured.
func (c CuratorConfig) Enabled() bool {
	return c.APIKey != ""
}

// GetTimeout returns the per-request timeout.
func (c CuratorConfig) GetTimeout() time.Duration {
	return parseDuration(c.Timeout, 30*time.Second)
}

// Validate checks the concierge settings.
func (c CuratorConfig) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("curator.model must not be empty")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("curator.temperature must be in [0, 2], got %v", c.Temperature)
	}
	if c.RatePerMinute < 0 || c.Burst < 0 {
		return fmt.Errorf("curator rate limits must not be negative")
	}
	return nil
}
