package config

import (
	"github.com/spf13/viper"
)

// Config stores all configuration for the application.
type Config struct {
	PostgresURL        string `mapstructure:"POSTGRES_URL"`
	RedisAddr          string `mapstructure:"REDIS_ADDR"`
	ServerPort         string `mapstructure:"SERVER_PORT"`
	Headless           bool   `mapstructure:"HEADLESS"`
	PageTimeout        int    `mapstructure:"PAGE_TIMEOUT"`
	MutationDebounceMs int    `mapstructure:"MUTATION_DEBOUNCE_MS"`

	// Fresh-install seeds for the settings record; a stored record always
	// takes precedence over these.
	AutoApplyEnabled      bool `mapstructure:"AUTO_APPLY_ENABLED"`
	DailyApplicationLimit int  `mapstructure:"DAILY_APPLICATION_LIMIT"`

	// ProxyURLs is a comma-separated list of proxy servers rotated across
	// browser tabs. Empty means direct connection.
	ProxyURLs string `mapstructure:"PROXY_URLS"`
}

// Load reads configuration from file or environment variables.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	// Attempt to read the .env file, but don't fail if it's not present
	// This allows configuration purely through environment variables in production
	_ = viper.ReadInConfig()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("HEADLESS", true)
	viper.SetDefault("PAGE_TIMEOUT", 30) // in seconds
	viper.SetDefault("MUTATION_DEBOUNCE_MS", 1000)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("AUTO_APPLY_ENABLED", false)
	viper.SetDefault("DAILY_APPLICATION_LIMIT", 10)
	viper.SetDefault("PROXY_URLS", "")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
