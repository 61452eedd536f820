package particles

import (
	"fmt"
	"time"
)

// Config holds the manager's tuning parameters. It is read once at
// construction; changing it afterwards has no effect.
type Config struct {
	// MaxParticles bounds the live collection.
	MaxParticles int `yaml:"max_particles" json:"max_particles"`

	// ThrottleDelay is the minimum interval between motion-driven spawns.
	ThrottleDelay time.Duration `yaml:"throttle_delay" json:"throttle_delay"`

	// Lifetime is how long a particle lives before it removes itself.
	Lifetime time.Duration `yaml:"lifetime" json:"lifetime"`

	// ReapInterval is the period of the capacity/cleanup pass.
	ReapInterval time.Duration `yaml:"reap_interval" json:"reap_interval"`

	// Jitter is the half-width, in pixels, of the random offset applied
	// once to each new particle.
	Jitter float64 `yaml:"jitter" json:"jitter"`

	// BurstMin and BurstMax bound the burst size: n ∈ [BurstMin, BurstMax).
	BurstMin int `yaml:"burst_min" json:"burst_min"`
	BurstMax int `yaml:"burst_max" json:"burst_max"`

	// BurstStagger separates consecutive spawns in a burst.
	BurstStagger time.Duration `yaml:"burst_stagger" json:"burst_stagger"`

	// BurstSpread is the half-width, in pixels, of each burst spawn's offset.
	BurstSpread float64 `yaml:"burst_spread" json:"burst_spread"`
}

// DefaultConfig returns the desktop defaults.
func DefaultConfig() Config {
	return Config{
		MaxParticles:  50,
		ThrottleDelay: 50 * time.Millisecond,
		Lifetime:      3500 * time.Millisecond,
		ReapInterval:  1000 * time.Millisecond,
		Jitter:        10,
		BurstMin:      3,
		BurstMax:      8,
		BurstStagger:  50 * time.Millisecond,
		BurstSpread:   20,
	}
}

// ConstrainedConfig returns the defaults for resource-constrained
// contexts: half the particles and a slower throttle.
func ConstrainedConfig() Config {
	c := DefaultConfig()
	c.MaxParticles = 25
	c.ThrottleDelay = 100 * time.Millisecond
	return c
}

// withDefaults returns DefaultConfig for the zero Config. Otherwise it
// only fills the fields that must be positive, leaving zero throttle,
// jitter, stagger and spread as given. Validate rejects those same
// zeros, so a loaded file never relies on the fill.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c == (Config{}) {
		return d
	}
	if c.MaxParticles <= 0 {
		c.MaxParticles = d.MaxParticles
	}
	if c.Lifetime <= 0 {
		c.Lifetime = d.Lifetime
	}
	if c.ReapInterval <= 0 {
		c.ReapInterval = d.ReapInterval
	}
	return c
}

// Validate reports configurations the manager cannot run with.
func (c Config) Validate() error {
	switch {
	case c.MaxParticles <= 0:
		return fmt.Errorf("max_particles must be > 0, got %d", c.MaxParticles)
	case c.ThrottleDelay < 0:
		return fmt.Errorf("throttle_delay must be >= 0, got %v", c.ThrottleDelay)
	case c.Lifetime <= 0:
		return fmt.Errorf("lifetime must be > 0, got %v", c.Lifetime)
	case c.ReapInterval <= 0:
		return fmt.Errorf("reap_interval must be > 0, got %v", c.ReapInterval)
	case c.Jitter < 0 || c.BurstSpread < 0:
		return fmt.Errorf("jitter and burst_spread must be >= 0")
	case c.BurstMin < 0 || c.BurstMax < c.BurstMin:
		return fmt.Errorf("burst range [%d, %d) is invalid", c.BurstMin, c.BurstMax)
	case c.BurstStagger < 0:
		return fmt.Errorf("burst_stagger must be >= 0, got %v", c.BurstStagger)
	}
	return nil
}
