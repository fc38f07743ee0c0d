package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = "axiom.yaml"

// Config holds all AXIOM configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	DataDir string `yaml:"data_dir"`

	// Static content
	Catalog CatalogConfig `yaml:"catalog"`

	// Rituals
	Gate          GateConfig         `yaml:"gate"`
	Checkout      CheckoutConfig     `yaml:"checkout"`
	Notifications NotificationConfig `yaml:"notifications"`

	// External collaborators
	Curator CuratorConfig `yaml:"curator"`
	Ledger  LedgerConfig  `yaml:"ledger"`

	// Presentation
	UI UIConfig `yaml:"ui"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// CatalogConfig points at an optional catalog file. Empty uses the embedded catalog.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// GateConfig configures the biometric gate.
type GateConfig struct {
	TickInterval string  `yaml:"tick_interval"`
	Step         float64 `yaml:"step"`
	SettleDelay  string  `yaml:"settle_delay"`
}

// CheckoutConfig configures the hold-to-confirm checkout.
type CheckoutConfig struct {
	TickInterval    string  `yaml:"tick_interval"`
	Step            float64 `yaml:"step"`
	CloseDelay      string  `yaml:"close_delay"`
	ManifestMessage string  `yaml:"manifest_message"`
}

// NotificationConfig configures the notification queue.
type NotificationConfig struct {
	VisibleDuration string `yaml:"visible_duration"`
}

// LedgerConfig configures where settled manifests are recorded.
type LedgerConfig struct {
	// DSN for the sqlite driver. The default keeps the ledger in memory.
	DSN string `yaml:"dsn"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "AXIOM",
		DataDir: ".axiom",

		Gate: GateConfig{
			TickInterval: "16ms",
			Step:         2,
			SettleDelay:  "1s",
		},

		Checkout: CheckoutConfig{
			TickInterval:    "16ms",
			Step:            1.5,
			CloseDelay:      "4s",
			ManifestMessage: "Shipment Manifest Generated",
		},

		Notifications: NotificationConfig{
			VisibleDuration: "3s",
		},

		Curator: DefaultCuratorConfig(),

		Ledger: LedgerConfig{
			DSN: "file:axiom-ledger?mode=memory&cache=shared",
		},

		UI: *DefaultUIConfig(),

		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			File:   "axiom.log",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if config file doesn't exist
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
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
func (c *Config) applyEnvOverrides() {
	// Curator key: the generic API_KEY first, GEMINI_API_KEY wins when both are set
	if key := os.Getenv("API_KEY"); key != "" {
		c.Curator.APIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Curator.APIKey = key
	}
	if model := os.Getenv("AXIOM_CURATOR_MODEL"); model != "" {
		c.Curator.Model = model
	}

	if dsn := os.Getenv("AXIOM_LEDGER"); dsn != "" {
		c.Ledger.DSN = dsn
	}
	if dir := os.Getenv("AXIOM_DATA_DIR"); dir != "" {
		c.DataDir = dir
	}
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// GetGateTickInterval returns the gate tick period.
func (c *Config) GetGateTickInterval() time.Duration {
	return parseDuration(c.Gate.TickInterval, 16*time.Millisecond)
}

// GetGateSettleDelay returns the delay between scan success and membership.
func (c *Config) GetGateSettleDelay() time.Duration {
	return parseDuration(c.Gate.SettleDelay, time.Second)
}

// GetCheckoutTickInterval returns the checkout tick period.
func (c *Config) GetCheckoutTickInterval() time.Duration {
	return parseDuration(c.Checkout.TickInterval, 16*time.Millisecond)
}

// GetCheckoutCloseDelay returns how long the success screen stays up.
func (c *Config) GetCheckoutCloseDelay() time.Duration {
	return parseDuration(c.Checkout.CloseDelay, 4*time.Second)
}

// GetNotificationVisible returns the auto-dismiss delay.
func (c *Config) GetNotificationVisible() time.Duration {
	return parseDuration(c.Notifications.VisibleDuration, 3*time.Second)
}

// LogsDir returns the directory debug logs are written to.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Gate.Step <= 0 || c.Gate.Step > 100 {
		return fmt.Errorf("gate.step must be in (0, 100], got %v", c.Gate.Step)
	}
	if c.Checkout.Step <= 0 || c.Checkout.Step > 100 {
		return fmt.Errorf("checkout.step must be in (0, 100], got %v", c.Checkout.Step)
	}
	if err := c.Curator.Validate(); err != nil {
		return err
	}
	if c.Ledger.DSN == "" {
		return fmt.Errorf("ledger.dsn must not be empty")
	}
	return nil
}
