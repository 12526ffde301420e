// Package config loads the gotrimesh YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/philipparndt/gotrimesh/pkg/diag"
	"github.com/philipparndt/gotrimesh/pkg/trimesh"
	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by all commands
type Config struct {
	Workers        int           `yaml:"workers"`
	KNN            int           `yaml:"knn"`
	NeighborRadius float64       `yaml:"neighbor_radius"`
	RadiusFactor   float64       `yaml:"radius_factor"`
	Verbosity      string        `yaml:"verbosity"`
	Debounce       time.Duration `yaml:"debounce"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		KNN:          trimesh.DefaultKNN,
		RadiusFactor: trimesh.DefaultRadiusFactor,
		Verbosity:    "warn",
		Debounce:     300 * time.Millisecond,
	}
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses YAML from r over the defaults and validates the result
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks value ranges
func (c Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.KNN < 0 {
		return fmt.Errorf("knn must not be negative, got %d", c.KNN)
	}
	if c.NeighborRadius < 0 {
		return fmt.Errorf("neighbor_radius must not be negative, got %g", c.NeighborRadius)
	}
	if c.Debounce < 0 {
		return fmt.Errorf("debounce must not be negative, got %s", c.Debounce)
	}
	if _, err := diag.ParseLevel(c.Verbosity); err != nil {
		return err
	}
	return nil
}

// Level returns the parsed verbosity
func (c Config) Level() diag.Level {
	l, err := diag.ParseLevel(c.Verbosity)
	if err != nil {
		return diag.LevelWarn
	}
	return l
}

// Options converts the kernel settings into mesh options
func (c Config) Options(sink diag.Sink) []trimesh.Option {
	return []trimesh.Option{
		trimesh.WithWorkers(c.Workers),
		trimesh.WithKNN(c.KNN),
		trimesh.WithNeighborRadius(c.NeighborRadius),
		trimesh.WithRadiusFactor(c.RadiusFactor),
		trimesh.WithDiagnostics(sink),
	}
}
