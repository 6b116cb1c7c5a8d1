package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"
)

// Color modes accepted by the color setting.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Environment variables that override config.yaml.
const (
	EnvSpecsDir      = "SPECQ_SPECS_DIR"
	EnvLimit         = "SPECQ_LIMIT"
	EnvFuzzyDistance = "SPECQ_FUZZY_DISTANCE"
)

const saveLockTimeout = 5 * time.Second

// Config is the in-memory representation of ~/.specq/config.yaml.
type Config struct {
	SpecsDir      string `yaml:"specs_dir"`
	Limit         int    `yaml:"limit,omitempty"`
	FuzzyDistance int    `yaml:"fuzzy_distance"`
	Workers       int    `yaml:"workers,omitempty"`
	Color         string `yaml:"color,omitempty"`
}

// SpecqDir returns the absolute path to ~/.specq/.
func SpecqDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".specq"), nil
}

// ConfigPath returns the absolute path to ~/.specq/config.yaml.
func ConfigPath() (string, error) {
	dir, err := SpecqDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(p string) (string, error) {
	if !strings.HasPrefix(p, "~") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand ~: %w", err)
	}
	return filepath.Join(home, p[1:]), nil
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		SpecsDir:      "specs",
		Limit:         20,
		FuzzyDistance: 1,
		Color:         ColorAuto,
	}
}

// Load reads ~/.specq/config.yaml and applies environment overrides.
// A missing file yields the defaults.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}

	if err := cfg.applyOverrides(); err != nil {
		return nil, err
	}
	cfg.SpecsDir, err = ExpandPath(cfg.SpecsDir)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyOverrides() error {
	if v, err := GetConfigValue(EnvSpecsDir); err != nil {
		return err
	} else if v != "" {
		c.SpecsDir = v
	}

	ints := []struct {
		key string
		dst *int
	}{
		{EnvLimit, &c.Limit},
		{EnvFuzzyDistance, &c.FuzzyDistance},
	}
	for _, o := range ints {
		v, err := GetConfigValue(o.key)
		if err != nil {
			return err
		}
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s must be an integer, got %q", o.key, v)
		}
		*o.dst = n
	}
	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Limit < 0 {
		return fmt.Errorf("limit must not be negative (got %d)", c.Limit)
	}
	if c.FuzzyDistance < 0 {
		return fmt.Errorf("fuzzy_distance must not be negative (got %d)", c.FuzzyDistance)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative (got %d)", c.Workers)
	}
	switch c.Color {
	case "", ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("color must be one of auto, always, never (got %q)", c.Color)
	}
	return nil
}

// Save marshals cfg and writes it to ~/.specq/config.yaml while holding
// ~/.specq/config.lock.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", filepath.Dir(path), err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}

	unlock, err := acquireLock(filepath.Join(filepath.Dir(path), "config.lock"), saveLockTimeout)
	if err != nil {
		return err
	}
	defer unlock()

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write config %s: %w", path, err)
	}
	return nil
}

func acquireLock(lockPath string, timeout time.Duration) (func(), error) {
	l := flock.New(lockPath)
	deadline := time.Now().Add(timeout)
	for {
		locked, err := l.TryLock()
		if err != nil {
			return func() {}, fmt.Errorf("cannot acquire config lock: %w", err)
		}
		if locked {
			return func() { _ = l.Unlock() }, nil
		}
		if !time.Now().Before(deadline) {
			return func() {}, fmt.Errorf("config is locked by another process (lock: %s)", lockPath)
		}
		time.Sleep(100 * time.Millisecond)
	}
}
