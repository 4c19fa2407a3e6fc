package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"negative height", func(c *Config) { c.Height = -3 }},
		{"density above one", func(c *Config) { c.Density = 1.5 }},
		{"negative density", func(c *Config) { c.Density = -0.1 }},
		{"minority above one", func(c *Config) { c.MinorityPC = 2 }},
		{"inverted homophily bounds", func(c *Config) { c.HomophilyLB = 2; c.HomophilyUB = 1 }},
		{"negative preference", func(c *Config) { c.Preference = -1 }},
		{"zero radius", func(c *Config) { c.Radius = 0 }},
		{"cluster without scale", func(c *Config) { c.ClusterAmplitude = 0.5; c.ClusterScale = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("got %+v, want defaults", cfg)
	}
}

func TestLoadOverlaysYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.yaml")
	doc := `width: 50
height: 40
density: 0.6
minority_pc: 0.35
homophily_ub: 4
preference: 0.2
radius: 2
seed: 1234
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Width != 50 || cfg.Height != 40 {
		t.Errorf("extents = %dx%d, want 50x40", cfg.Width, cfg.Height)
	}
	if cfg.Density != 0.6 || cfg.MinorityPC != 0.35 {
		t.Errorf("density/minority = %g/%g", cfg.Density, cfg.MinorityPC)
	}
	if cfg.HomophilyLB != 0 || cfg.HomophilyUB != 4 {
		t.Errorf("homophily bounds = [%g,%g], want [0,4]", cfg.HomophilyLB, cfg.HomophilyUB)
	}
	if cfg.Preference != 0.2 || cfg.Radius != 2 || cfg.Seed != 1234 {
		t.Errorf("preference/radius/seed = %g/%d/%d", cfg.Preference, cfg.Radius, cfg.Seed)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("loaded config invalid: %v", err)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("width: [not a number"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error, got nil")
	}
}
