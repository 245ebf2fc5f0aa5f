// Package config handles run configuration loading and validation.
package config

import (
	"fmt"
	"math"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the effective analyzer configuration: defaults, overlaid by
// an optional YAML file, overlaid by command line flags. The reference
// coordinate and distance stay nil until one of those layers provides
// them, which Validate treats as an error.
type Config struct {
	Latitude        *float64 `yaml:"latitude,omitempty"  validate:"required,gte=-90,lte=90"`
	Longitude       *float64 `yaml:"longitude,omitempty" validate:"required,gte=-180,lte=180"`
	DistanceMeters  *float64 `yaml:"distance,omitempty"  validate:"required,gte=0"`
	Workers         int      `yaml:"workers,omitempty"   validate:"gte=0"`
	Extension       string   `yaml:"extension,omitempty" validate:"startswith=."`
	Format          string   `yaml:"format,omitempty"    validate:"oneof=text json geojson"`
	LegacyLonCosine bool     `yaml:"legacy_lon_cosine,omitempty"`
}

// Default returns the configuration used before any file or flag
// overrides.
func Default() *Config {
	return &Config{
		Extension: ".gpx",
		Format:    "text",
	}
}

// Load reads a YAML configuration file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks completeness and value ranges. It must pass before any
// file processing starts.
func (c *Config) Validate() error {
	for name, v := range map[string]*float64{
		"latitude":  c.Latitude,
		"longitude": c.Longitude,
		"distance":  c.DistanceMeters,
	} {
		if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
			return fmt.Errorf("%s must be a finite number", name)
		}
	}

	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}
