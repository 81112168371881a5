package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Port      string `mapstructure:"port"`
	DBPath    string `mapstructure:"db_path"`
	JWTSecret string `mapstructure:"jwt_secret"`
	LogLevel  string `mapstructure:"log_level"`
	SeedDemo  bool   `mapstructure:"seed_demo"`

	// RateLimit is requests per minute per client IP.
	RateLimit int `mapstructure:"rate_limit"`
}

// Load reads configuration from an optional config file and CASELINK_*
// environment variables, with defaults suitable for local development.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("port", ":8080")
	v.SetDefault("db_path", "./data/caselink.db")
	v.SetDefault("jwt_secret", "change-me-in-production")
	v.SetDefault("log_level", "info")
	v.SetDefault("seed_demo", true)
	v.SetDefault("rate_limit", 600)

	v.SetConfigName("caselink")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("CASELINK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
