package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

/* Config is loaded from a .env file plus the process environment
 * A missing WEBHOOK_URL is legal: the engine degrades to a no-op that
 * refuses enqueues instead of failing startup
 */

type Config struct {
	Port          string `mapstructure:"PORT"`
	WebhookURL    string `mapstructure:"WEBHOOK_URL"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
	LogStorePath  string `mapstructure:"LOG_STORE_PATH"`
	CatalogPath   string `mapstructure:"CATALOG_PATH"`

	DrainIntervalMS   int `mapstructure:"DRAIN_INTERVAL_MS"`
	PersistIntervalMS int `mapstructure:"PERSIST_INTERVAL_MS"`
	BatchSize         int `mapstructure:"BATCH_SIZE"`
	MaxAttempts       int `mapstructure:"MAX_ATTEMPTS"`
}

func GetConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("toml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("LOG_STORE_PATH", "transmission_logs.json")
	viper.SetDefault("DRAIN_INTERVAL_MS", 4000)
	viper.SetDefault("PERSIST_INTERVAL_MS", 15000)
	viper.SetDefault("BATCH_SIZE", 3)
	viper.SetDefault("MAX_ATTEMPTS", 3)

	// The .env file is optional: env vars alone are a valid configuration
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("parsing config data: %w", err)
	}
	return &config, nil
}

// DrainInterval returns the drain tick cadence
func (c *Config) DrainInterval() time.Duration {
	return time.Duration(c.DrainIntervalMS) * time.Millisecond
}

// PersistInterval returns the periodic log persistence cadence
func (c *Config) PersistInterval() time.Duration {
	return time.Duration(c.PersistIntervalMS) * time.Millisecond
}
