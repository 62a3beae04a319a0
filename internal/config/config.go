// Package config loads process configuration for both front-ends.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"meeting-minutes/internal/logger"
	"meeting-minutes/internal/minutes"
)

const (
	envPrefix     = "MINUTES"
	envConfigPath = "MINUTES_CONFIG"

	defaultConfigFile = "minutes.yaml"
)

// EnvFiles lists dotenv files in lookup order; only the first present is loaded.
var EnvFiles = []string{".env_sample", ".env"}

// Config is the resolved process configuration.
type Config struct {
	GoogleAPIKey string        `mapstructure:"google_api_key"`
	Model        string        `mapstructure:"model" validate:"required"`
	PromptFile   string        `mapstructure:"prompt_file"`
	PollInterval time.Duration `mapstructure:"poll_interval" validate:"gt=0"`
	Web          WebConfig     `mapstructure:"web"`
	Logging      logger.Config `mapstructure:"logging"`
}

// WebConfig holds settings used only by the web front-end.
type WebConfig struct {
	Addr            string        `mapstructure:"addr" validate:"required"`
	UploadDir       string        `mapstructure:"upload_dir" validate:"required"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes" validate:"gt=0"`
	SessionTTL      time.Duration `mapstructure:"session_ttl" validate:"gt=0"`
	UploadRateLimit int           `mapstructure:"upload_rate_limit" validate:"gte=0"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

// HasCredential reports whether an API key was configured.
func (c Config) HasCredential() bool {
	return strings.TrimSpace(c.GoogleAPIKey) != ""
}

// Prompt returns the configured prompt text or the built-in default.
func (c Config) Prompt() (string, error) {
	return minutes.LoadPrompt(c.PromptFile)
}

// LoaderOption customizes Load.
type LoaderOption func(*loader)

type loader struct {
	dir        string
	configFile string
}

// WithDir resolves dotenv and default config files relative to dir.
func WithDir(dir string) LoaderOption {
	return func(l *loader) { l.dir = dir }
}

// WithConfigFile sets an explicit YAML config path.
func WithConfigFile(path string) LoaderOption {
	return func(l *loader) { l.configFile = path }
}

// Load reads dotenv files, the optional YAML file and MINUTES_* variables,
// then validates the result.
func Load(opts ...LoaderOption) (Config, error) {
	l := loader{}
	for _, opt := range opts {
		opt(&l)
	}

	if err := loadEnvFile(l.dir); err != nil {
		return Config{}, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("google_api_key", minutes.CredentialEnv); err != nil {
		return Config{}, fmt.Errorf("bind %s: %w", minutes.CredentialEnv, err)
	}

	if path := l.resolveConfigFile(); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Logging.ApplyDefaults()

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks struct constraints and returns a readable error.
func Validate(cfg Config) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// loadEnvFile loads the first dotenv file present; existing variables win.
func loadEnvFile(dir string) error {
	for _, name := range EnvFiles {
		path := filepath.Join(dir, name)
		if !exists(path) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		return nil
	}
	return nil
}

// resolveConfigFile picks the explicit path, then $MINUTES_CONFIG, then
// minutes.yaml when it exists.
func (l loader) resolveConfigFile() string {
	if l.configFile != "" {
		return l.configFile
	}
	if path := strings.TrimSpace(os.Getenv(envConfigPath)); path != "" {
		return path
	}
	path := filepath.Join(l.dir, defaultConfigFile)
	if exists(path) {
		return path
	}
	return ""
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
