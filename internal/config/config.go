// Package config provides configuration loading for Hearts.
//
// Values come from the embedded defaults.yaml, optionally overlaid by a
// user YAML file. Configuration is read once at startup; nothing here
// is hot-reloaded.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Mr-Dark-debug/hearts/internal/particles"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all application configuration.
type Config struct {
	Particles   particles.Config  `yaml:"particles"`
	Constrained ConstrainedConfig `yaml:"constrained"`
	Display     DisplayConfig     `yaml:"display"`
	Storage     StorageConfig     `yaml:"storage"`
}

// ConstrainedConfig overrides the particle limits on slow or remote terminals.
type ConstrainedConfig struct {
	MaxParticles  int           `yaml:"max_particles"`
	ThrottleDelay time.Duration `yaml:"throttle_delay"`
}

// DisplayConfig controls how pixel coordinates map onto the terminal.
type DisplayConfig struct {
	CellWidth  int     `yaml:"cell_width"`  // pixels per column
	CellHeight int     `yaml:"cell_height"` // pixels per row
	FPS        int     `yaml:"fps"`
	FadeAfter  float64 `yaml:"fade_after"` // fraction of lifetime before rendering faint
}

// StorageConfig locates the settings database, the log file and the
// pid file of a running TUI.
type StorageConfig struct {
	DBPath  string `yaml:"db_path"`
	LogPath string `yaml:"log_path"`
	PIDPath string `yaml:"pid_path"`
}

// Load reads the embedded defaults and overlays the file at path, if any.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.resolvePaths()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// resolvePaths fills empty storage paths with locations under ~/.hearts.
func (c *Config) resolvePaths() {
	if c.Storage.DBPath == "" {
		c.Storage.DBPath = filepath.Join(DataDir(), "hearts.db")
	}
	if c.Storage.LogPath == "" {
		c.Storage.LogPath = filepath.Join(DataDir(), "hearts.log")
	}
	if c.Storage.PIDPath == "" {
		c.Storage.PIDPath = filepath.Join(DataDir(), "hearts-tui.pid")
	}
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if err := c.Particles.Validate(); err != nil {
		return fmt.Errorf("particles: %w", err)
	}
	if c.Constrained.MaxParticles < 0 || c.Constrained.ThrottleDelay < 0 {
		return fmt.Errorf("constrained: limits must be >= 0")
	}
	if c.Display.CellWidth <= 0 || c.Display.CellHeight <= 0 {
		return fmt.Errorf("display: cell size must be positive, got %dx%d",
			c.Display.CellWidth, c.Display.CellHeight)
	}
	if c.Display.FPS <= 0 || c.Display.FPS > 120 {
		return fmt.Errorf("display: fps must be in (0, 120], got %d", c.Display.FPS)
	}
	if c.Display.FadeAfter < 0 || c.Display.FadeAfter > 1 {
		return fmt.Errorf("display: fade_after must be in [0, 1], got %.2f", c.Display.FadeAfter)
	}
	return nil
}

// ParticleConfig returns the manager configuration, applying the
// constrained overrides when requested.
func (c *Config) ParticleConfig(constrained bool) particles.Config {
	pc := c.Particles
	if constrained {
		if c.Constrained.MaxParticles > 0 {
			pc.MaxParticles = c.Constrained.MaxParticles
		}
		if c.Constrained.ThrottleDelay > 0 {
			pc.ThrottleDelay = c.Constrained.ThrottleDelay
		}
	}
	return pc
}

// Dump renders the configuration as YAML.
func (c *Config) Dump() ([]byte, error) {
	b, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return b, nil
}

// DataDir returns the per-user directory Hearts stores its files in.
func DataDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".hearts")
}

// UserConfigPath returns ~/.hearts/config.yaml if it exists, or "".
func UserConfigPath() string {
	p := filepath.Join(DataDir(), "config.yaml")
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return p
}

// DetectConstrained reports whether the environment looks like a
// resource-constrained terminal: a remote SSH session, the Linux
// virtual console, or an explicit HEARTS_CONSTRAINED=1.
func DetectConstrained(getenv func(string) string) bool {
	switch strings.ToLower(getenv("HEARTS_CONSTRAINED")) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	}
	if getenv("SSH_CONNECTION") != "" || getenv("SSH_TTY") != "" {
		return true
	}
	switch getenv("TERM") {
	case "linux", "vt100", "vt220":
		return true
	}
	return false
}
