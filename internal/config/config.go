package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arbeitszeit/internal/breaks"
	"github.com/arbeitszeit/internal/work"
)

const (
	DefaultPlan      = "fulltime"
	DefaultCacheSize = 64
	DefaultLogLevel  = "info"
)

// PlanConfig is a work plan as written in the config file.
type PlanConfig struct {
	Name  string `yaml:"Name"`
	Start string `yaml:"Start"` // HH:MM
	End   string `yaml:"End"`   // HH:MM
	Max   int    `yaml:"Max"`   // minutes of presence
}

type Config struct {
	DatabasePath string       `yaml:"DatabasePath"`
	Plan         string       `yaml:"Plan"`
	PlannedWork  int          `yaml:"PlannedWork"`
	Plans        []PlanConfig `yaml:"Plans,omitempty"`
	CacheSize    int          `yaml:"CacheSize"`
	LogLevel     string       `yaml:"LogLevel"`
}

// Load reads the config from the default path.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config at path. A missing file yields the defaults.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	// Apply defaults for zeroed values
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = Default().DatabasePath
	}
	if cfg.Plan == "" {
		cfg.Plan = DefaultPlan
	}
	if cfg.PlannedWork == 0 {
		cfg.PlannedWork = work.DefaultPlannedWorkMinutes
	}
	if cfg.CacheSize == 0 {
		cfg.CacheSize = DefaultCacheSize
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	// Expand ~ in database path
	if strings.HasPrefix(cfg.DatabasePath, "~/") {
		home, _ := os.UserHomeDir()
		cfg.DatabasePath = filepath.Join(home, cfg.DatabasePath[2:])
	}

	return cfg, nil
}

// Save writes cfg to the default path.
func Save(cfg *Config) error {
	return SaveTo(cfg, Path())
}

func SaveTo(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Path is ~/.arbeitszeit.yaml.
func Path() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".arbeitszeit.yaml")
}

func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		DatabasePath: filepath.Join(home, ".arbeitszeit", "state.db"),
		Plan:         DefaultPlan,
		PlannedWork:  work.DefaultPlannedWorkMinutes,
		CacheSize:    DefaultCacheSize,
		LogLevel:     DefaultLogLevel,
	}
}

// WorkPlans converts the configured plans, or returns the built-in plans if
// none are configured.
func (c *Config) WorkPlans() ([]work.WorkPlan, error) {
	if len(c.Plans) == 0 {
		return work.DefaultPlans(), nil
	}
	plans := make([]work.WorkPlan, 0, len(c.Plans))
	for i, pc := range c.Plans {
		start, err := breaks.ParseTimeOfDay(pc.Start)
		if err != nil {
			return nil, &ValidationError{Field: fmt.Sprintf("Plans[%d].Start", i), Message: err.Error()}
		}
		end, err := breaks.ParseTimeOfDay(pc.End)
		if err != nil {
			return nil, &ValidationError{Field: fmt.Sprintf("Plans[%d].End", i), Message: err.Error()}
		}
		plans = append(plans, work.WorkPlan{
			Name:  pc.Name,
			Start: start.Minutes(),
			End:   end.Minutes(),
			Max:   pc.Max,
		})
	}
	return plans, nil
}

// SlogLevel maps LogLevel to a slog level; unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation error: %s - %s", e.Field, e.Message)
}

// Validate checks the configuration for common issues
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return &ValidationError{Field: "DatabasePath", Message: "Database path is required"}
	}
	if c.PlannedWork <= 0 {
		return &ValidationError{Field: "PlannedWork", Message: "Planned work must be positive"}
	}
	if c.CacheSize < 0 {
		return &ValidationError{Field: "CacheSize", Message: "Cache size must not be negative"}
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return &ValidationError{Field: "LogLevel", Message: fmt.Sprintf("unknown level %q", c.LogLevel)}
	}

	plans, err := c.WorkPlans()
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(plans))
	for i, p := range plans {
		if err := p.Validate(); err != nil {
			return &ValidationError{Field: fmt.Sprintf("Plans[%d]", i), Message: err.Error()}
		}
		if seen[p.Name] {
			return &ValidationError{Field: fmt.Sprintf("Plans[%d].Name", i), Message: fmt.Sprintf("duplicate plan %q", p.Name)}
		}
		seen[p.Name] = true
	}
	if !seen[c.Plan] {
		return &ValidationError{Field: "Plan", Message: fmt.Sprintf("plan %q is not defined", c.Plan)}
	}
	return nil
}
