package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all process configuration. Values come from the environment
// (optionally via a .env file); the private key is never hardcoded and never
// logged.
type Config struct {
	LogLevel   string      `mapstructure:"log_level"`
	ListenAddr string      `mapstructure:"listen_addr"`
	Pear       PearConfig  `mapstructure:"pear"`
	Redis      RedisConfig `mapstructure:"redis"`
}

// PearConfig configures the remote trading API client.
type PearConfig struct {
	APIURL           string `mapstructure:"api_url"`
	ClientID         string `mapstructure:"client_id"`
	WalletAddress    string `mapstructure:"wallet_address"`
	WalletPrivateKey string `mapstructure:"wallet_private_key"`
}

// RedisConfig configures the optional event stream backend. An empty URL
// disables event publishing.
type RedisConfig struct {
	URL string `mapstructure:"url"`
}

var envBindings = map[string]string{
	"log_level":               "LOG_LEVEL",
	"listen_addr":             "LISTEN_ADDR",
	"pear.api_url":            "PEAR_API_URL",
	"pear.client_id":          "PEAR_CLIENT_ID",
	"pear.wallet_address":     "PEAR_WALLET_ADDRESS",
	"pear.wallet_private_key": "PEAR_WALLET_PRIVATE_KEY",
	"redis.url":               "REDIS_URL",
}

// Load reads configuration from the environment, loading a .env file first
// when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("log_level", "info")
	v.SetDefault("listen_addr", ":9000")
	v.SetDefault("pear.api_url", "https://hl-v2.pearprotocol.io")
	v.SetDefault("pear.client_id", "APITRADER")
	v.SetDefault("pear.wallet_address", "")
	v.SetDefault("pear.wallet_private_key", "")
	v.SetDefault("redis.url", "")

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.Pear.APIURL == "" {
		return fmt.Errorf("PEAR_API_URL must not be empty")
	}
	if c.Pear.ClientID == "" {
		return fmt.Errorf("PEAR_CLIENT_ID must not be empty")
	}
	return nil
}
