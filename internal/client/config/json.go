package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/vitapick/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Intervals use
// timex.Duration so they can be written as "10s" or as nanoseconds. Fields
// left out of the file keep their previous value.
type JsonConfig struct {
	BaseURL         *string         `json:"base_url"`
	RefreshTimeout  *timex.Duration `json:"refresh_timeout"`
	RequestTimeout  *timex.Duration `json:"request_timeout"`
	DBPath          *string         `json:"db_path"`
	LogLevel        *string         `json:"log_level"`
	MessagingAPIKey *string         `json:"messaging_api_key"`
	VAPIDKey        *string         `json:"vapid_key"`
	PushDeviceToken *string         `json:"push_device_token"`
	PushPermission  *string         `json:"push_permission"`
	PushEnabled     *bool           `json:"push_enabled"`
	UploadAccessKey *string         `json:"upload_access_key"`
	UploadSecretKey *string         `json:"upload_secret_key"`
}

func (c *Config) loadJSON(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&c.BaseURL, jc.BaseURL)
	setString(&c.DBPath, jc.DBPath)
	setString(&c.LogLevel, jc.LogLevel)
	setString(&c.MessagingAPIKey, jc.MessagingAPIKey)
	setString(&c.VAPIDKey, jc.VAPIDKey)
	setString(&c.PushDeviceToken, jc.PushDeviceToken)
	setString(&c.PushPermission, jc.PushPermission)
	setString(&c.UploadAccessKey, jc.UploadAccessKey)
	setString(&c.UploadSecretKey, jc.UploadSecretKey)
	if jc.PushEnabled != nil {
		c.PushEnabled = *jc.PushEnabled
	}
	if jc.RefreshTimeout != nil {
		c.RefreshTimeout = jc.RefreshTimeout.Duration
	}
	if jc.RequestTimeout != nil {
		c.RequestTimeout = jc.RequestTimeout.Duration
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
