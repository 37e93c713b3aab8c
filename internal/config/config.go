// Package config loads the service configuration from an optional YAML file
// and the environment, applying defaults and validating the result before
// anything else starts.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/scribehq/scribe/internal/auth/password"
	"github.com/scribehq/scribe/internal/auth/token"
	"github.com/scribehq/scribe/internal/httpserver"
	"github.com/scribehq/scribe/internal/logger"
	"github.com/scribehq/scribe/internal/store/mongo"
)

// InsecureDefaultSecret is the token signing secret used when none is
// configured. It exists so a fresh checkout runs out of the box; any real
// deployment must set its own secret.
const InsecureDefaultSecret = "secret"

// Config is the root configuration passed at startup. Nothing else in the
// service reads the environment.
type Config struct {
	Server httpserver.Config `yaml:"server" mapstructure:"server"`
	Store  StoreConfig       `yaml:"store" mapstructure:"store"`
	Auth   AuthConfig        `yaml:"auth" mapstructure:"auth"`
	Log    logger.Config     `yaml:"log" mapstructure:"log"`
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	// Driver selects the backend: "mongo" (default) or "memory".
	Driver string       `yaml:"driver" mapstructure:"driver"`
	Mongo  mongo.Config `yaml:"mongo" mapstructure:"mongo"`
}

// AuthConfig groups the credential hashing and token signing configuration.
type AuthConfig struct {
	Token    token.Config    `yaml:"token" mapstructure:"token"`
	Password password.Config `yaml:"password" mapstructure:"password"`
}

// Load reads configuration from config.yml (if present), a .env file (if
// present), and SCRIBE_-prefixed environment variables, then applies
// defaults and validates.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./cmd/api")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
	}

	v.SetEnvPrefix("SCRIBE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// JWT_SECRET and MONGO_URI are honored unprefixed for compatibility
	// with existing deployments.
	_ = v.BindEnv("auth.token.secret", "SCRIBE_AUTH_TOKEN_SECRET", "JWT_SECRET")
	_ = v.BindEnv("store.mongo.uri", "SCRIBE_STORE_MONGO_URI", "MONGO_URI")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults applies defaults to every section, including the insecure
// signing-secret fallback.
func (c *Config) ApplyDefaults() {
	c.Server.ApplyDefaults()
	c.Store.Mongo.ApplyDefaults()
	if c.Store.Driver == "" {
		c.Store.Driver = "mongo"
	}
	if c.Auth.Token.Secret == "" {
		c.Auth.Token.Secret = InsecureDefaultSecret
	}
	c.Auth.Token.ApplyDefaults()
	c.Auth.Password.ApplyDefaults()
	c.Log.ApplyDefaults()
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	switch c.Store.Driver {
	case "mongo":
		if err := c.Store.Mongo.Validate(); err != nil {
			return err
		}
	case "memory":
	default:
		return fmt.Errorf("store.driver must be mongo or memory (got: %s)", c.Store.Driver)
	}
	if err := c.Auth.Token.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Password.Validate(); err != nil {
		return err
	}
	return c.Log.Validate()
}

// UsingInsecureSecret reports whether the signing secret is the documented
// insecure fallback.
func (c *Config) UsingInsecureSecret() bool {
	return c.Auth.Token.Secret == InsecureDefaultSecret
}
