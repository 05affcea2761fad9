package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// HTTPServerConfig represents HTTP server configuration
type HTTPServerConfig struct {
	Host            string        `yaml:"host" json:"host"`
	Port            int           `yaml:"port" json:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" json:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" json:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// ModelConfig represents production model bundle configuration
type ModelConfig struct {
	Dir string `yaml:"dir" json:"dir"` // bundle directory, e.g. models/production/latest
}

// MonitoringConfig represents prediction monitoring configuration
type MonitoringConfig struct {
	Enabled        bool    `yaml:"enabled" json:"enabled"`
	WindowCapacity int     `yaml:"window_capacity" json:"window_capacity"`
	DriftThreshold float64 `yaml:"drift_threshold" json:"drift_threshold"`
}

// StoreConfig represents prediction record persistence configuration
type StoreConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Dir     string `yaml:"dir" json:"dir"`
}

// Config represents the application configuration
type Config struct {
	Server     HTTPServerConfig `yaml:"server" json:"server"`
	Model      ModelConfig      `yaml:"model" json:"model"`
	Monitoring MonitoringConfig `yaml:"monitoring" json:"monitoring"`
	Store      StoreConfig      `yaml:"store" json:"store"`
	LogLevel   string           `yaml:"log_level" json:"log_level"`
}

// LoadConfig loads the application configuration: built-in defaults, then an
// optional config.yaml, then environment variable overrides.
func LoadConfig() (*Config, error) {
	config := &Config{
		Server: HTTPServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Model: ModelConfig{
			Dir: "models/production/latest",
		},
		Monitoring: MonitoringConfig{
			Enabled:        true,
			WindowCapacity: 1000,
			DriftThreshold: 2.0,
		},
		Store: StoreConfig{
			Enabled: true,
			Dir:     "data/predictions",
		},
		LogLevel: "info",
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/hestia")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		if viper.IsSet("server.host") {
			config.Server.Host = viper.GetString("server.host")
		}
		if viper.IsSet("server.port") {
			config.Server.Port = viper.GetInt("server.port")
		}
		if viper.IsSet("server.shutdown_timeout") {
			config.Server.ShutdownTimeout = viper.GetDuration("server.shutdown_timeout")
		}
		if viper.IsSet("model.dir") {
			config.Model.Dir = viper.GetString("model.dir")
		}
		if viper.IsSet("monitoring.enabled") {
			config.Monitoring.Enabled = viper.GetBool("monitoring.enabled")
		}
		if viper.IsSet("monitoring.window_capacity") {
			config.Monitoring.WindowCapacity = viper.GetInt("monitoring.window_capacity")
		}
		if viper.IsSet("monitoring.drift_threshold") {
			config.Monitoring.DriftThreshold = viper.GetFloat64("monitoring.drift_threshold")
		}
		if viper.IsSet("store.enabled") {
			config.Store.Enabled = viper.GetBool("store.enabled")
		}
		if viper.IsSet("store.dir") {
			config.Store.Dir = viper.GetString("store.dir")
		}
		if viper.IsSet("log_level") {
			config.LogLevel = viper.GetString("log_level")
		}
	}

	// Environment variables take precedence over file values
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port, err := strconv.Atoi(os.Getenv("SERVER_PORT")); err == nil {
		config.Server.Port = port
	}
	if dir := os.Getenv("MODEL_DIR"); dir != "" {
		config.Model.Dir = dir
	}
	if v := os.Getenv("MONITORING_ENABLED"); v != "" {
		config.Monitoring.Enabled = v == "true" || v == "1"
	}
	if capacity, err := strconv.Atoi(os.Getenv("MONITORING_WINDOW_CAPACITY")); err == nil && capacity > 0 {
		config.Monitoring.WindowCapacity = capacity
	}
	if threshold, err := strconv.ParseFloat(os.Getenv("DRIFT_THRESHOLD"), 64); err == nil && threshold > 0 {
		config.Monitoring.DriftThreshold = threshold
	}
	if dir := os.Getenv("PREDICTIONS_DIR"); dir != "" {
		config.Store.Dir = dir
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.LogLevel = level
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks configuration invariants
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Monitoring.WindowCapacity <= 0 {
		return fmt.Errorf("monitoring window capacity must be positive, got %d", c.Monitoring.WindowCapacity)
	}
	if c.Monitoring.DriftThreshold <= 0 {
		return fmt.Errorf("drift threshold must be positive, got %f", c.Monitoring.DriftThreshold)
	}
	if c.Model.Dir == "" {
		return fmt.Errorf("model dir must not be empty")
	}
	return nil
}
