// Package config loads runtime settings from an optional YAML file, a .env
// file and ONTOFORM_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/goliatone/go-ontoform/pkg/backend"
	"github.com/goliatone/go-ontoform/pkg/schema"
)

// EnvPrefix namespaces environment overrides, e.g. ONTOFORM_BACKEND_BASE_URL.
const EnvPrefix = "ONTOFORM"

// ErrInvalid wraps validation failures.
var ErrInvalid = errors.New("config: invalid")

// Config is the resolved runtime configuration.
type Config struct {
	Backend Backend `mapstructure:"backend"`
	Schema  Schema  `mapstructure:"schema"`
	Log     Log     `mapstructure:"log"`
}

// Backend configures the HTTP client.
type Backend struct {
	BaseURL  string        `mapstructure:"base_url" validate:"required,url"`
	ClassURI string        `mapstructure:"class_uri" validate:"required"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"gte=0"`
	// Contract points at an OpenAPI document replacing the embedded one.
	Contract string `mapstructure:"contract"`
}

// Schema configures translation and where the questionnaire comes from.
type Schema struct {
	MaxDepth int `mapstructure:"max_depth" validate:"gte=1"`
	// Source is a file path or URL read instead of the backend form endpoint.
	Source string `mapstructure:"source"`
}

// Log configures the zerolog output.
type Log struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
}

var defaults = map[string]any{
	"backend.base_url":  "http://localhost:8082",
	"backend.class_uri": backend.DefaultClassURI,
	"backend.timeout":   backend.DefaultTimeout,
	"backend.contract":  "",
	"schema.max_depth":  schema.DefaultMaxDepth,
	"schema.source":     "",
	"log.level":         "info",
	"log.format":        "console",
}

// Load resolves the configuration. configFile may be empty. envFiles default
// to ".env"; missing env files are ignored.
func Load(configFile string, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", file, err)
		}
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", configFile, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}
