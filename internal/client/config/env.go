package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const EnvPrefix = "VITAPICK_"

// envConfig holds raw environment values. Unset variables leave the
// corresponding Config field alone.
type envConfig struct {
	BaseURL         *string        `env:"BASE_URL"`
	RefreshTimeout  *time.Duration `env:"REFRESH_TIMEOUT"`
	RequestTimeout  *time.Duration `env:"REQUEST_TIMEOUT"`
	DBPath          *string        `env:"DB_PATH"`
	LogLevel        *string        `env:"LOG_LEVEL"`
	MessagingAPIKey *string        `env:"MESSAGING_API_KEY"`
	VAPIDKey        *string        `env:"VAPID_KEY"`
	PushDeviceToken *string        `env:"PUSH_DEVICE_TOKEN"`
	PushPermission  *string        `env:"PUSH_PERMISSION"`
	PushEnabled     *bool          `env:"PUSH_ENABLED"`
	UploadAccessKey *string        `env:"UPLOAD_ACCESS_KEY"`
	UploadSecretKey *string        `env:"UPLOAD_SECRET_KEY"`
}

func (c *Config) loadEnv() error {
	var raw envConfig
	if err := env.ParseWithOptions(&raw, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	setString(&c.BaseURL, raw.BaseURL)
	setString(&c.DBPath, raw.DBPath)
	setString(&c.LogLevel, raw.LogLevel)
	setString(&c.MessagingAPIKey, raw.MessagingAPIKey)
	setString(&c.VAPIDKey, raw.VAPIDKey)
	setString(&c.PushDeviceToken, raw.PushDeviceToken)
	setString(&c.PushPermission, raw.PushPermission)
	setString(&c.UploadAccessKey, raw.UploadAccessKey)
	setString(&c.UploadSecretKey, raw.UploadSecretKey)
	if raw.PushEnabled != nil {
		c.PushEnabled = *raw.PushEnabled
	}
	if raw.RefreshTimeout != nil {
		c.RefreshTimeout = *raw.RefreshTimeout
	}
	if raw.RequestTimeout != nil {
		c.RequestTimeout = *raw.RequestTimeout
	}
	return nil
}
