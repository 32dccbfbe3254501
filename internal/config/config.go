// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all settings of the API server.
type Config struct {
	HTTPAddr          string        `mapstructure:"HTTP_ADDR"`
	DatabaseURL       string        `mapstructure:"DATABASE_URL"`
	JWTSecret         string        `mapstructure:"JWT_SECRET"`
	AccessTTL         time.Duration `mapstructure:"ACCESS_TTL"`
	NATSURL           string        `mapstructure:"NATS_URL"`
	NATSSubjectPrefix string        `mapstructure:"NATS_SUBJECT_PREFIX"`
	EventBuffer       int           `mapstructure:"EVENT_BUFFER"`
	MetricsAddr       string        `mapstructure:"METRICS_ADDR"`
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
	LogFormat         string        `mapstructure:"LOG_FORMAT"`
	LoginWindow       time.Duration `mapstructure:"LOGIN_WINDOW"`
	LoginMaxFails     int           `mapstructure:"LOGIN_MAX_FAILS"`
	LoginBlockFor     time.Duration `mapstructure:"LOGIN_BLOCK_FOR"`
	ShutdownTimeout   time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

var defaults = map[string]any{
	"HTTP_ADDR":           ":8080",
	"DATABASE_URL":        "",
	"JWT_SECRET":          "",
	"ACCESS_TTL":          "24h",
	"NATS_URL":            "",
	"NATS_SUBJECT_PREFIX": "marketplace.events",
	"EVENT_BUFFER":        256,
	"METRICS_ADDR":        ":9090",
	"LOG_LEVEL":           "info",
	"LOG_FORMAT":          "json",
	"LOGIN_WINDOW":        "15m",
	"LOGIN_MAX_FAILS":     5,
	"LOGIN_BLOCK_FOR":     "15m",
	"SHUTDOWN_TIMEOUT":    "10s",
}

// Load reads defaults, then the optional config file, then the environment.
// An empty file path skips the file.
func Load(file string) (*Config, error) {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	return &cfg, nil
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	var problems []error
	if c.DatabaseURL == "" {
		problems = append(problems, errors.New("DATABASE_URL is required"))
	}
	if c.JWTSecret == "" {
		problems = append(problems, errors.New("JWT_SECRET is required"))
	}
	if c.AccessTTL <= 0 {
		problems = append(problems, errors.New("ACCESS_TTL must be positive"))
	}
	if c.EventBuffer <= 0 {
		problems = append(problems, errors.New("EVENT_BUFFER must be positive"))
	}
	return errors.Join(problems...)
}
