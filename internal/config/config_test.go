package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/threatmap-io/threatmap/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoader_Defaults(t *testing.T) {
	loader, err := config.NewLoader(writeConfig(t, "server:\n  addr: \":9090\"\n"))
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	cfg := loader.Config()

	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %q, want :9090", cfg.Server.Addr)
	}
	if cfg.Generator.TickIntervalMs != 1500 {
		t.Errorf("tick_interval_ms = %d, want default 1500", cfg.Generator.TickIntervalMs)
	}
	if len(cfg.Generator.AttackTypes) != 3 {
		t.Errorf("attack_types = %v, want 3 defaults", cfg.Generator.AttackTypes)
	}
	if len(cfg.Generator.Locations) != 20 {
		t.Errorf("locations = %d, want 20 defaults", len(cfg.Generator.Locations))
	}
	if cfg.Intel.TimeoutMs != 5000 {
		t.Errorf("intel timeout_ms = %d, want default 5000", cfg.Intel.TimeoutMs)
	}
	if err := config.Validate(cfg); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoader_MissingFile(t *testing.T) {
	if _, err := config.NewLoader(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoader_BadYAML(t *testing.T) {
	if _, err := config.NewLoader(writeConfig(t, "generator: [not a map")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoader_Reload(t *testing.T) {
	path := writeConfig(t, "generator:\n  tick_interval_ms: 1000\n")
	loader, err := config.NewLoader(path)
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}

	var notified *config.Config
	loader.OnChange(func(cfg *config.Config) { notified = cfg })

	if err := os.WriteFile(path, []byte("generator:\n  tick_interval_ms: 2000\n"), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	cfg, err := loader.Reload()
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if cfg.Generator.TickIntervalMs != 2000 {
		t.Errorf("tick_interval_ms = %d, want 2000", cfg.Generator.TickIntervalMs)
	}
	if notified == nil || notified.Generator.TickIntervalMs != 2000 {
		t.Errorf("OnChange callback not invoked with new config")
	}
}

func TestValidate_Errors(t *testing.T) {
	base := func() *config.Config {
		return &config.Config{
			Generator: config.GeneratorConf{
				TickIntervalMs: 1500,
				AttackTypes:    []string{"ddos"},
				Locations: []config.Location{
					{Country: "US", Lat: 37.7, Lng: -95.7},
					{Country: "DE", Lat: 51.1, Lng: 10.4},
				},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantSub string
	}{
		{"zero tick", func(c *config.Config) { c.Generator.TickIntervalMs = 0 }, "tick_interval_ms"},
		{"no attack types", func(c *config.Config) { c.Generator.AttackTypes = nil }, "attack_types"},
		{"one location", func(c *config.Config) { c.Generator.Locations = c.Generator.Locations[:1] }, "two locations"},
		{"duplicate country", func(c *config.Config) { c.Generator.Locations[1].Country = "US" }, "duplicate country"},
		{"bad lat", func(c *config.Config) { c.Generator.Locations[0].Lat = 120 }, "lat"},
		{"bad lng", func(c *config.Config) { c.Generator.Locations[0].Lng = 200 }, "lng"},
		{"negative warm days", func(c *config.Config) { c.History.WarmDays = -1 }, "warm_days"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(cfg)
			err := config.Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Errorf("error %q does not mention %q", err, tc.wantSub)
			}
		})
	}

	if err := config.Validate(base()); err != nil {
		t.Errorf("base config should be valid: %v", err)
	}
}
