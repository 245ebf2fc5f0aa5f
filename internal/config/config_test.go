package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 {
	return &v
}

func validConfig() *Config {
	cfg := Default()
	cfg.Latitude = f64(48.1)
	cfg.Longitude = f64(11.5)
	cfg.DistanceMeters = f64(100)

	return cfg
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ".gpx", cfg.Extension)
	assert.Equal(t, "text", cfg.Format)
	assert.Nil(t, cfg.Latitude)
	assert.Nil(t, cfg.Longitude)
	assert.Nil(t, cfg.DistanceMeters)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `latitude: 48.1
longitude: 11.5
distance: 250
workers: 4
format: json
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.NotNil(t, cfg.Latitude)
	assert.Equal(t, 48.1, *cfg.Latitude)
	require.NotNil(t, cfg.DistanceMeters)
	assert.Equal(t, 250.0, *cfg.DistanceMeters)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "json", cfg.Format)
	// Keys absent from the file keep their defaults.
	assert.Equal(t, ".gpx", cfg.Extension)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("latitude: not-a-number\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	cfg := validConfig()
	cfg.DistanceMeters = f64(0)
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing latitude", func(c *Config) { c.Latitude = nil }},
		{"missing longitude", func(c *Config) { c.Longitude = nil }},
		{"missing distance", func(c *Config) { c.DistanceMeters = nil }},
		{"latitude above range", func(c *Config) { c.Latitude = f64(91) }},
		{"longitude below range", func(c *Config) { c.Longitude = f64(-200) }},
		{"negative distance", func(c *Config) { c.DistanceMeters = f64(-1) }},
		{"negative workers", func(c *Config) { c.Workers = -1 }},
		{"extension without dot", func(c *Config) { c.Extension = "gpx" }},
		{"unknown format", func(c *Config) { c.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateNonFinite(t *testing.T) {
	cfg := validConfig()
	cfg.Latitude = f64(math.NaN())
	assert.ErrorContains(t, cfg.Validate(), "finite")

	cfg = validConfig()
	cfg.DistanceMeters = f64(math.Inf(1))
	assert.ErrorContains(t, cfg.Validate(), "finite")
}
