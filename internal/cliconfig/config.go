// Package cliconfig loads the CLI configuration from layered sources:
// built-in defaults, an optional TOML file, and CBADV_-prefixed environment
// variables, in increasing precedence.
package cliconfig

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/tidemark-labs/cbadv/internal/tokenstore"
)

// Storage backends for the access token.
const (
	TokenStorageKeyring = "keyring"
	TokenStorageFile    = "file"
	TokenStorageEnv     = "env"
)

const envPrefix = "CBADV_"

// Config is the full CLI configuration.
type Config struct {
	Log  LogConfig  `koanf:"log"`
	Auth AuthConfig `koanf:"auth"`
}

// LogConfig controls the slog handler installed at startup.
type LogConfig struct {
	Level  string `koanf:"level" validate:"required,oneof=debug info warn error"`
	Format string `koanf:"format" validate:"required,oneof=text json"`
}

// AuthConfig carries the OAuth application credentials and where the access
// token is kept between invocations.
type AuthConfig struct {
	Storage string `koanf:"storage" validate:"required,oneof=keyring file env"`

	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`
	RedirectURL  string `koanf:"redirect_url" validate:"required,url"`

	// TokenFile is the token path for file storage.
	TokenFile string `koanf:"token_file" validate:"required_if=Storage file"`
	// TokenEnv is the variable name for env storage.
	TokenEnv string `koanf:"token_env" validate:"required_if=Storage env"`

	Scopes []string `koanf:"scopes" validate:"required,min=1"`
}

// NewTokenStore builds the token store the configuration selects.
func (a AuthConfig) NewTokenStore() (tokenstore.Store, error) {
	switch a.Storage {
	case TokenStorageKeyring:
		return tokenstore.NewKeyringStore(a.ClientID), nil
	case TokenStorageFile:
		return tokenstore.NewFileStore(a.TokenFile), nil
	case TokenStorageEnv:
		return tokenstore.NewEnvStore(a.TokenEnv), nil
	default:
		return nil, fmt.Errorf("unknown token storage %q", a.Storage)
	}
}

func defaults() map[string]any {
	return map[string]any{
		"log.level":         "info",
		"log.format":        "text",
		"auth.storage":      TokenStorageKeyring,
		"auth.redirect_url": "http://localhost:3001",
		"auth.token_env":    "CBADV_ACCESS_TOKEN",
		"auth.scopes":       []string{"wallet:user:read", "wallet:accounts:read"},
	}
}

// Load reads the configuration. path may be empty to skip the file layer;
// environ is injectable so tests control the environment.
func Load(path string, environ func() []string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	// CBADV_LOG__LEVEL=debug maps to log.level; a double underscore
	// separates path segments so keys like client_id survive.
	envProvider := env.Provider(".", env.Opt{
		Prefix:      envPrefix,
		EnvironFunc: environ,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
			return strings.ReplaceAll(key, "__", "."), value
		},
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}
