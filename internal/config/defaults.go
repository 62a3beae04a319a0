package config

import (
	"time"

	"github.com/spf13/viper"

	"meeting-minutes/internal/minutes"
)

const (
	defaultAddr            = ":5000"
	defaultUploadDir       = "uploads"
	defaultMaxUploadBytes  = 100 * 1024 * 1024
	defaultSessionTTL      = time.Hour
	defaultUploadRateLimit = 10
	defaultPollInterval    = 2 * time.Second
)

// setDefaults registers every known key so env overrides resolve on Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("google_api_key", "")
	v.SetDefault("model", minutes.DefaultModel)
	v.SetDefault("prompt_file", "")
	v.SetDefault("poll_interval", defaultPollInterval)

	v.SetDefault("web.addr", defaultAddr)
	v.SetDefault("web.upload_dir", defaultUploadDir)
	v.SetDefault("web.max_upload_bytes", defaultMaxUploadBytes)
	v.SetDefault("web.session_ttl", defaultSessionTTL)
	v.SetDefault("web.upload_rate_limit", defaultUploadRateLimit)
	v.SetDefault("web.cors_origins", []string{})

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.no_color", false)
}
