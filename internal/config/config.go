// Package config loads settings for both binaries from an optional .env file,
// an optional shareit.yaml and SHAREIT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds settings for the server and the gateway.
type Config struct {
	Environment string
	Logger      LoggerConfig
	Server      ServerConfig
	Booking     BookingConfig
	Gateway     GatewayConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Addr   string
	DBPath string
	// GatewaySecret overrides the secret stored in the database.
	GatewaySecret string
}

type BookingConfig struct {
	PreventOverlap bool
}

type GatewayConfig struct {
	Addr      string
	ServerURL string
	Secret    string
	// RateLimit is in requests per second per client.
	RateLimit float64
	RateBurst int
}

// Load reads the configuration. Missing .env and config files are not errors.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("shareit")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/shareit/")

	v.SetEnvPrefix("SHAREIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := &Config{
		Environment: v.GetString("environment"),
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
		},
		Server: ServerConfig{
			Addr:          v.GetString("server.addr"),
			DBPath:        v.GetString("server.db_path"),
			GatewaySecret: v.GetString("server.gateway_secret"),
		},
		Booking: BookingConfig{
			PreventOverlap: v.GetBool("booking.prevent_overlap"),
		},
		Gateway: GatewayConfig{
			Addr:      v.GetString("gateway.addr"),
			ServerURL: v.GetString("gateway.server_url"),
			Secret:    v.GetString("gateway.secret"),
			RateLimit: v.GetFloat64("gateway.rate_limit"),
			RateBurst: v.GetInt("gateway.rate_burst"),
		},
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("logger.level", "info")

	v.SetDefault("server.addr", ":9090")
	v.SetDefault("server.db_path", "shareit.sqlite3")
	v.SetDefault("server.gateway_secret", "")
	v.SetDefault("booking.prevent_overlap", true)

	v.SetDefault("gateway.addr", ":8080")
	v.SetDefault("gateway.server_url", "http://localhost:9090")
	v.SetDefault("gateway.secret", "")
	v.SetDefault("gateway.rate_limit", 50)
	v.SetDefault("gateway.rate_burst", 100)
}

// ValidateServer checks the settings the server needs.
func (c *Config) ValidateServer() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if c.Server.DBPath == "" {
		return errors.New("server.db_path is required")
	}
	return nil
}

// ValidateGateway checks the settings the gateway needs.
func (c *Config) ValidateGateway() error {
	if c.Gateway.Addr == "" {
		return errors.New("gateway.addr is required")
	}
	u, err := url.Parse(c.Gateway.ServerURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("gateway.server_url %q is not an absolute URL", c.Gateway.ServerURL)
	}
	if c.Gateway.RateLimit <= 0 {
		return errors.New("gateway.rate_limit must be positive")
	}
	if c.Gateway.RateBurst <= 0 {
		return errors.New("gateway.rate_burst must be positive")
	}
	return nil
}

// IsProduction reports whether the environment is production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
