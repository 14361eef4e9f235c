package config

import (
	"fmt"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the vitapick client.
//
// Units: RefreshTimeout and RequestTimeout are time.Duration values.
type Config struct {
	BaseURL        string
	RefreshTimeout time.Duration
	RequestTimeout time.Duration
	DBPath         string
	LogLevel       string

	// Messaging provider settings.
	MessagingAPIKey string
	VAPIDKey        string
	PushDeviceToken string
	PushPermission  string
	PushEnabled     bool

	// Content upload credentials, passed through to the front end.
	UploadAccessKey string
	UploadSecretKey string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://127.0.0.1:8080"
	c.RefreshTimeout = 10 * time.Second
	c.RequestTimeout = 30 * time.Second
	c.DBPath = filepath.Join(".", "vitapick.db")
	c.LogLevel = "info"
	c.PushPermission = "default"
	c.PushEnabled = true
}

// Load builds a Config from defaults, then the JSON file at jsonPath (when
// non-empty), then VITAPICK_* environment variables. Later sources take
// precedence; command-line flags are applied on top by the caller.
func Load(jsonPath string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if jsonPath != "" {
		if err := cfg.loadJSON(jsonPath); err != nil {
			return nil, err
		}
	}
	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("config: base url is required")
	}
	if c.RefreshTimeout <= 0 {
		return fmt.Errorf("config: refresh timeout must be positive, got %s", c.RefreshTimeout)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("config: request timeout must be positive, got %s", c.RequestTimeout)
	}
	return nil
}
