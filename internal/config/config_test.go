package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8001, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 7000, cfg.TrainingSamples)
	assert.Equal(t, 0.05, cfg.InflationRate)
	assert.False(t, cfg.Backup.Enabled)
	assert.NotEmpty(t, cfg.PriceFeedBaseURL)
	assert.NotEmpty(t, cfg.NAVFeedBaseURL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("TRAINING_SAMPLES", "500")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 500, cfg.TrainingSamples)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"bad port", func(c *Config) { c.Port = -1 }, true},
		{"too few samples", func(c *Config) { c.TrainingSamples = 10 }, true},
		{"inflation out of range", func(c *Config) { c.InflationRate = 12 }, true},
		{"backup without bucket", func(c *Config) { c.Backup.Enabled = true }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Port:            8001,
				TrainingSamples: 7000,
				InflationRate:   0.05,
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
