package config

import (
	"fmt"
	"regexp"
	"time"

	"github.com/spf13/viper"
)

var schemaPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

type Config struct {
	Env               string        `mapstructure:"ENV"`
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
	DatabaseURL       string        `mapstructure:"DATABASE_URL"`
	DBMaxConns        int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns        int32         `mapstructure:"DB_MIN_CONNS"`
	DBSchema          string        `mapstructure:"DB_SCHEMA"`
	RPCAddr           string        `mapstructure:"RPC_ADDR"`
	RPCRequestTimeout time.Duration `mapstructure:"RPC_REQUEST_TIMEOUT"`
	RPCAuthSecret     string        `mapstructure:"RPC_AUTH_SECRET"`
	RPCAuthIssuer     string        `mapstructure:"RPC_AUTH_ISSUER"`
	HTTPPort          string        `mapstructure:"HTTP_PORT"`
}

// Load reads the server configuration from .env and the environment.
func Load() (*Config, error) {
	cfg, err := load(".env")
	if err != nil {
		return nil, err
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

// LoadClient reads the same sources as Load for commands that only talk to a
// running adapter, so DATABASE_URL is not required.
func LoadClient() (*Config, error) {
	return load(".env")
}

func load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("DB_SCHEMA", "public")
	v.SetDefault("RPC_ADDR", ":3001")
	v.SetDefault("RPC_REQUEST_TIMEOUT", "0s")
	v.SetDefault("HTTP_PORT", "8000")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("ENV")
	v.BindEnv("LOG_LEVEL")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("DB_SCHEMA")
	v.BindEnv("RPC_ADDR")
	v.BindEnv("RPC_REQUEST_TIMEOUT")
	v.BindEnv("RPC_AUTH_SECRET")
	v.BindEnv("RPC_AUTH_ISSUER")
	v.BindEnv("HTTP_PORT")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// AuthEnabled reports whether request packets must carry a signed token.
func (c *Config) AuthEnabled() bool {
	return c.RPCAuthSecret != ""
}

// Validate checks that the configuration is safe to run. DB_SCHEMA is
// interpolated into search_path statements and must be a plain identifier.
func (c *Config) Validate() error {
	if !schemaPattern.MatchString(c.DBSchema) {
		return fmt.Errorf("DB_SCHEMA must be a plain SQL identifier, got %q", c.DBSchema)
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be at least 1, got %d", c.DBMaxConns)
	}
	if c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS (%d), got %d", c.DBMaxConns, c.DBMinConns)
	}
	if c.RPCAuthIssuer != "" && c.RPCAuthSecret == "" {
		return fmt.Errorf("RPC_AUTH_ISSUER is set but RPC_AUTH_SECRET is empty; tokens could not be verified")
	}
	if c.RPCRequestTimeout < 0 {
		return fmt.Errorf("RPC_REQUEST_TIMEOUT must not be negative, got %s", c.RPCRequestTimeout)
	}
	return nil
}
