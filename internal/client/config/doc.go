// Package config loads runtime configuration for the vitapick client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with --config / -c.
//  3. VITAPICK_* environment variables.
//  4. Command-line flags, applied by the cli package.
//
// # JSON schema
//
//	{
//	  "base_url": "https://api.vitapick.kr",
//	  "refresh_timeout": "10s",
//	  "request_timeout": "30s",
//	  "db_path": "vitapick.db",
//	  "log_level": "info",
//	  "messaging_api_key": "...",
//	  "vapid_key": "...",
//	  "push_device_token": "...",
//	  "push_permission": "granted",
//	  "push_enabled": true,
//	  "upload_access_key": "...",
//	  "upload_secret_key": "..."
//	}
//
// # Environment
//
// Each JSON key has an environment counterpart: upper-cased and prefixed
// with VITAPICK_, e.g. VITAPICK_BASE_URL or VITAPICK_REFRESH_TIMEOUT=5s.
package config
