package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service
type Config struct {
	Server     ServerConfig
	InfluxDB   InfluxConfig
	Query      QueryConfig
	CORS       CORSConfig
	Monitoring MonitoringConfig
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type InfluxConfig struct {
	URL         string `mapstructure:"url"`
	Token       string `mapstructure:"token"`
	Org         string `mapstructure:"org"`
	Bucket      string `mapstructure:"bucket"`
	Measurement string `mapstructure:"measurement"`
}

// QueryConfig carries the defaults applied to dashboard queries when the
// request leaves them unset.
type QueryConfig struct {
	Lookback      time.Duration `mapstructure:"lookback"`
	DefaultField  string        `mapstructure:"default_field"`
	DefaultStart  string        `mapstructure:"default_start"`
	DefaultWindow string        `mapstructure:"default_window"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type MonitoringConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

// Load initializes configuration from environment variables and config file
func Load() (*Config, error) {
	viper.SetEnvPrefix("EMS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Load config file if exists
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", 8000)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "15s")
	viper.SetDefault("server.shutdown_timeout", "30s")

	// InfluxDB defaults. Token and org default empty so the keys are
	// known to viper and can be supplied by environment only.
	viper.SetDefault("influxdb.url", "http://localhost:8086")
	viper.SetDefault("influxdb.token", "")
	viper.SetDefault("influxdb.org", "")
	viper.SetDefault("influxdb.bucket", "srcful-prod")
	viper.SetDefault("influxdb.measurement", "der")

	// Query defaults
	viper.SetDefault("query.lookback", "1h")
	viper.SetDefault("query.default_field", "W")
	viper.SetDefault("query.default_start", "-1h")
	viper.SetDefault("query.default_window", "1m")

	// CORS defaults
	viper.SetDefault("cors.allowed_origins", []string{
		"http://localhost:5173",
		"http://localhost:3000",
		"*",
	})

	// Monitoring defaults
	viper.SetDefault("monitoring.log_level", "info")
}

func validateConfig(config *Config) error {
	if config.InfluxDB.URL == "" {
		return fmt.Errorf("influxdb url is required")
	}
	if config.InfluxDB.Org == "" {
		return fmt.Errorf("influxdb org is required")
	}
	if config.InfluxDB.Bucket == "" {
		return fmt.Errorf("influxdb bucket is required")
	}
	if config.Query.Lookback <= 0 {
		return fmt.Errorf("query lookback must be positive")
	}
	return nil
}
