// Package config loads the application configuration from the environment
// into a single immutable struct passed to component constructors. There is
// no ambient global state — main loads the config once and hands it down.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// envPrefix namespaces our environment variables, so PORT from some other
// process manager doesn't silently become our listen port.
// Example: SNIPPETSHARE_PORT=9090, SNIPPETSHARE_AUTH_JWT_SECRET=...
const envPrefix = "SNIPPETSHARE"

// Config holds all application configuration, grouped by concern.
// The validate tags are checked by Load — a misconfigured process fails at
// startup, not on its first request.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	GitHub   GitHubConfig   `mapstructure:"github"`
}

// ServerConfig contains the HTTP server settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains the storage settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// AuthConfig contains token issuance settings.
// The JWT secret must be real entropy: JWT_SECRET=$(openssl rand -hex 32).
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=16"`
}

// GitHubConfig contains the optional GitHub OAuth credentials. When ClientID
// is empty the OAuth routes are simply not registered — password auth still
// works.
type GitHubConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	CallbackURL  string `mapstructure:"callback_url"`
}

// Load reads configuration from environment variables, applies defaults, and
// validates the result. Environment variables use the SNIPPETSHARE_ prefix
// with underscores for nesting: SNIPPETSHARE_SERVER_PORT,
// SNIPPETSHARE_DATABASE_PATH, SNIPPETSHARE_AUTH_JWT_SECRET, ...
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("database.path", "data/snippetshare.db")

	v.SetEnvPrefix(envPrefix)
	// Nested keys use dots in viper but underscores in the environment:
	// "auth.jwt_secret" ← SNIPPETSHARE_AUTH_JWT_SECRET
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv alone doesn't make Unmarshal see env-only keys, so bind
	// each known key explicitly.
	for _, key := range []string{
		"server.port", "server.log_level",
		"database.path",
		"auth.jwt_secret",
		"github.client_id", "github.client_secret", "github.callback_url",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("config: binding %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshaling: %w", err)
	}

	if cfg.GitHub.ClientID != "" && cfg.GitHub.CallbackURL == "" {
		cfg.GitHub.CallbackURL = fmt.Sprintf(
			"http://localhost:%d/auth/github/callback", cfg.Server.Port)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config: validating: %w", err)
	}

	return &cfg, nil
}
