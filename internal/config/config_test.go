package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "models/production/latest", cfg.Model.Dir)
	assert.True(t, cfg.Monitoring.Enabled)
	assert.Equal(t, 1000, cfg.Monitoring.WindowCapacity)
	assert.Equal(t, 2.0, cfg.Monitoring.DriftThreshold)
	assert.True(t, cfg.Store.Enabled)
	assert.Equal(t, "data/predictions", cfg.Store.Dir)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_HOST", "127.0.0.1")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("MODEL_DIR", "/opt/models/current")
	t.Setenv("MONITORING_ENABLED", "false")
	t.Setenv("MONITORING_WINDOW_CAPACITY", "250")
	t.Setenv("DRIFT_THRESHOLD", "3.5")
	t.Setenv("PREDICTIONS_DIR", "/var/lib/hestia/predictions")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/opt/models/current", cfg.Model.Dir)
	assert.False(t, cfg.Monitoring.Enabled)
	assert.Equal(t, 250, cfg.Monitoring.WindowCapacity)
	assert.Equal(t, 3.5, cfg.Monitoring.DriftThreshold)
	assert.Equal(t, "/var/lib/hestia/predictions", cfg.Store.Dir)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigIgnoresMalformedEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-port")
	t.Setenv("MONITORING_WINDOW_CAPACITY", "-5")
	t.Setenv("DRIFT_THRESHOLD", "0")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, 1000, cfg.Monitoring.WindowCapacity)
	assert.Equal(t, 2.0, cfg.Monitoring.DriftThreshold)
}

func TestLoadConfigRejectsInvalidPort(t *testing.T) {
	t.Setenv("SERVER_PORT", "0")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port")
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:     HTTPServerConfig{Port: 8000},
			Model:      ModelConfig{Dir: "models/production/latest"},
			Monitoring: MonitoringConfig{WindowCapacity: 1000, DriftThreshold: 2.0},
		}
	}

	assert.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"PortTooHigh", func(c *Config) { c.Server.Port = 70000 }},
		{"ZeroWindowCapacity", func(c *Config) { c.Monitoring.WindowCapacity = 0 }},
		{"NegativeDriftThreshold", func(c *Config) { c.Monitoring.DriftThreshold = -1 }},
		{"EmptyModelDir", func(c *Config) { c.Model.Dir = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
