package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/arbeitszeit/internal/work"
)

func TestLoadNonExistentFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() unexpected error: %v", err)
	}
	if cfg.Plan != DefaultPlan {
		t.Errorf("Default Plan = %s, want %s", cfg.Plan, DefaultPlan)
	}
	if cfg.PlannedWork != work.DefaultPlannedWorkMinutes {
		t.Errorf("Default PlannedWork = %d, want %d", cfg.PlannedWork, work.DefaultPlannedWorkMinutes)
	}
	if cfg.CacheSize != DefaultCacheSize {
		t.Errorf("Default CacheSize = %d, want %d", cfg.CacheSize, DefaultCacheSize)
	}
	if filepath.Base(cfg.DatabasePath) != "state.db" {
		t.Errorf("Default DatabasePath = %s, want .../state.db", cfg.DatabasePath)
	}
}

func TestLoadFromFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `DatabasePath: ~/work/state.db
Plan: early
PlannedWork: 420
LogLevel: debug
Plans:
  - Name: early
    Start: "05:30"
    End: "15:00"
    Max: 540
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() unexpected error: %v", err)
	}
	if want := filepath.Join(home, "work", "state.db"); cfg.DatabasePath != want {
		t.Errorf("DatabasePath = %s, want %s", cfg.DatabasePath, want)
	}
	if cfg.PlannedWork != 420 || cfg.CacheSize != DefaultCacheSize {
		t.Errorf("PlannedWork/CacheSize = %d/%d, want 420/%d", cfg.PlannedWork, cfg.CacheSize, DefaultCacheSize)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel() = %v, want debug", cfg.SlogLevel())
	}

	plans, err := cfg.WorkPlans()
	if err != nil {
		t.Fatalf("WorkPlans() unexpected error: %v", err)
	}
	want := work.WorkPlan{Name: "early", Start: 330, End: 900, Max: 540}
	if len(plans) != 1 || plans[0] != want {
		t.Errorf("WorkPlans() = %+v, want [%+v]", plans, want)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte("Plans: [unclosed"), 0644)

	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom() on malformed YAML returned nil error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	cfg.PlannedWork = 300
	cfg.Plans = []PlanConfig{{Name: "fulltime", Start: "06:00", End: "20:00", Max: 645}}

	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("SaveTo() unexpected error: %v", err)
	}
	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() unexpected error: %v", err)
	}
	if loaded.PlannedWork != 300 || len(loaded.Plans) != 1 || loaded.Plans[0] != cfg.Plans[0] {
		t.Errorf("round trip = %+v, want %+v", loaded, cfg)
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"loud", slog.LevelInfo},
	}

	for _, tt := range tests {
		cfg := &Config{LogLevel: tt.level}
		if got := cfg.SlogLevel(); got != tt.expected {
			t.Errorf("SlogLevel(%q) = %v, want %v", tt.level, got, tt.expected)
		}
	}
}

func TestConfigValidation(t *testing.T) {
	valid := func() *Config {
		return &Config{DatabasePath: "/tmp/state.db", Plan: "fulltime", PlannedWork: 480, LogLevel: "info"}
	}

	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"missing database path", func(c *Config) { c.DatabasePath = "" }, "DatabasePath"},
		{"zero planned work", func(c *Config) { c.PlannedWork = 0 }, "PlannedWork"},
		{"negative cache", func(c *Config) { c.CacheSize = -1 }, "CacheSize"},
		{"unknown log level", func(c *Config) { c.LogLevel = "loud" }, "LogLevel"},
		{"unknown plan", func(c *Config) { c.Plan = "fourday" }, "Plan"},
		{"bad plan time", func(c *Config) {
			c.Plans = []PlanConfig{{Name: "fulltime", Start: "6 Uhr", End: "20:00", Max: 600}}
		}, "Plans[0].Start"},
		{"inverted plan window", func(c *Config) {
			c.Plans = []PlanConfig{{Name: "fulltime", Start: "20:00", End: "06:00", Max: 600}}
		}, "Plans[0]"},
		{"duplicate plan", func(c *Config) {
			c.Plans = []PlanConfig{
				{Name: "fulltime", Start: "06:00", End: "20:00", Max: 600},
				{Name: "fulltime", Start: "07:00", End: "20:00", Max: 600},
			}
		}, "Plans[1].Name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(cfg)
			err := cfg.Validate()

			if tt.field == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Field != tt.field {
				t.Errorf("Validate() = %v, want error on %s", err, tt.field)
			}
		})
	}
}
