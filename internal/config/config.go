// Package config provides simulation parameters with defaults, optional YAML
// file overlay, and construction-time validation.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all model construction parameters.
type Config struct {
	// Grid extents.
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`

	// Density is the chance for each cell to be occupied at setup.
	Density float64 `json:"density" yaml:"density"`

	// MinorityPC is the chance for an occupant to be of the minority type.
	MinorityPC float64 `json:"minority_pc" yaml:"minority_pc"`

	// Bounds of the uniform distribution each agent's personal homophily
	// threshold is drawn from.
	HomophilyLB float64 `json:"homophily_lb" yaml:"homophily_lb"`
	HomophilyUB float64 `json:"homophily_ub" yaml:"homophily_ub"`

	// Preference weights the similarity credit granted per dissimilar
	// neighbor.
	Preference float64 `json:"preference" yaml:"preference"`

	// Radius of the Moore neighborhood inspected by each agent.
	Radius int `json:"radius" yaml:"radius"`

	// Seed for the primary random source. 0 means time-derived.
	Seed int64 `json:"seed" yaml:"seed"`

	// ClusterAmplitude, when nonzero, modulates the per-cell occupation
	// probability with a simplex noise field so the initial population
	// forms spatial clusters. 0 keeps plain independent Bernoulli draws.
	ClusterAmplitude float64 `json:"cluster_amplitude" yaml:"cluster_amplitude"`

	// ClusterScale is the noise field frequency in cells (larger = broader
	// clusters). Only used when ClusterAmplitude is nonzero.
	ClusterScale float64 `json:"cluster_scale" yaml:"cluster_scale"`
}

// Default returns the standard model parameters.
func Default() Config {
	return Config{
		Width:        20,
		Height:       20,
		Density:      0.8,
		MinorityPC:   0.2,
		HomophilyLB:  0,
		HomophilyUB:  1,
		Preference:   0,
		Radius:       1,
		Seed:         0,
		ClusterScale: 8,
	}
}

// Load reads YAML from path over the defaults. A missing path is not an
// error; it simply returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects parameter combinations the model cannot run with.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("config: grid extents must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.Density < 0 || c.Density > 1 {
		return fmt.Errorf("config: density must be in [0,1], got %g", c.Density)
	}
	if c.MinorityPC < 0 || c.MinorityPC > 1 {
		return fmt.Errorf("config: minority_pc must be in [0,1], got %g", c.MinorityPC)
	}
	if c.HomophilyLB > c.HomophilyUB {
		return fmt.Errorf("config: homophily_lb %g exceeds homophily_ub %g", c.HomophilyLB, c.HomophilyUB)
	}
	if c.Preference < 0 {
		return fmt.Errorf("config: preference must be >= 0, got %g", c.Preference)
	}
	if c.Radius < 1 {
		return fmt.Errorf("config: radius must be >= 1, got %d", c.Radius)
	}
	if c.ClusterAmplitude != 0 && c.ClusterScale <= 0 {
		return fmt.Errorf("config: cluster_scale must be positive, got %g", c.ClusterScale)
	}
	return nil
}
