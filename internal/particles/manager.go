// Package particles implements the heart particle lifecycle manager.
//
// A Manager owns a bounded, self-expiring collection of particles
// anchored to pointer and touch coordinates. Particles are created by
// throttled motion events and by click bursts, remove themselves after
// a fixed lifetime, and are kept under the capacity bound by a periodic
// reaper that also prunes particles whose node was detached out of band.
//
// The manager is single-threaded by construction: it never starts
// goroutines or locks. All delayed work goes through the Scheduler it
// was built with, and every delayed task re-reads live state when it
// fires, so disabling the effect suppresses spawns that are still
// pending from an earlier burst.
package particles

import (
	"log"
	"math/rand/v2"
	"time"

	"github.com/Mr-Dark-debug/hearts/internal/settings"
	"github.com/Mr-Dark-debug/hearts/pkg/timeutil"
)

// Deps are the collaborators a Manager is wired to.
type Deps struct {
	Surface   Surface
	Scheduler Scheduler
	Clock     timeutil.Clock

	// Store persists the enabled flag. Nil disables persistence.
	Store settings.Store

	// Rand drives style, jitter and burst sampling. Nil seeds from the clock.
	Rand *rand.Rand
}

// Point is a pointer or touch coordinate in viewport pixels.
type Point struct {
	X, Y float64
}

// Particle is a read-only snapshot of a live particle.
type Particle struct {
	ID    uint64    `json:"id"`
	X     float64   `json:"x"`
	Y     float64   `json:"y"`
	DX    float64   `json:"dx"`
	DY    float64   `json:"dy"`
	Style Style     `json:"style"`
	Born  time.Time `json:"born"`
}

type particle struct {
	Particle
	node Node
}

// Manager creates, bounds and reaps particles. It is not safe for
// concurrent use; see the package documentation.
type Manager struct {
	cfg     Config
	surface Surface
	sched   Scheduler
	clock   timeutil.Clock
	store   settings.Store
	rng     *rand.Rand

	particles []*particle
	nextID    uint64

	enabled   bool // user preference, persisted
	suspended bool // transient, set while the host is hidden

	lastMove time.Time

	reaping  bool
	tornDown bool

	stats Stats
}

// New builds a manager and loads the persisted enabled flag.
// Surface and Scheduler are required.
func New(cfg Config, deps Deps) *Manager {
	if deps.Surface == nil || deps.Scheduler == nil {
		panic("particles.New: Surface and Scheduler are required")
	}
	if deps.Clock == nil {
		deps.Clock = timeutil.SystemClock{}
	}
	if deps.Rand == nil {
		seed := uint64(deps.Clock.Now().UnixNano())
		deps.Rand = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}

	return &Manager{
		cfg:     cfg.withDefaults(),
		surface: deps.Surface,
		sched:   deps.Scheduler,
		clock:   deps.Clock,
		store:   deps.Store,
		rng:     deps.Rand,
		enabled: settings.LoadEnabled(deps.Store),
	}
}

// Config returns the effective configuration.
func (m *Manager) Config() Config {
	return m.cfg
}

// Start begins the periodic reaper. Calling Start more than once has no
// further effect.
func (m *Manager) Start() {
	if m.reaping || m.tornDown {
		return
	}
	m.reaping = true
	m.sched.After(m.cfg.ReapInterval, m.reapTick)
}

func (m *Manager) reapTick() {
	if m.tornDown {
		m.reaping = false
		return
	}
	m.Reap()
	m.sched.After(m.cfg.ReapInterval, m.reapTick)
}

// Enabled reports the user preference.
func (m *Manager) Enabled() bool {
	return m.enabled
}

// Suspended reports whether spawning is paused because the host is hidden.
func (m *Manager) Suspended() bool {
	return m.suspended
}

// Active reports whether new particles may be spawned right now.
func (m *Manager) Active() bool {
	return m.enabled && !m.suspended && !m.tornDown
}

// Len returns the number of particles in the collection.
func (m *Manager) Len() int {
	return len(m.particles)
}

// Particles returns a snapshot of the collection, oldest first.
func (m *Manager) Particles() []Particle {
	out := make([]Particle, len(m.particles))
	for i, p := range m.particles {
		out[i] = p.Particle
	}
	return out
}

// Stats returns the lifecycle counters.
func (m *Manager) Stats() Stats {
	return m.stats
}

// SpawnAt creates one particle at (x, y). It silently does nothing when
// the manager is inactive or the collection is full.
func (m *Manager) SpawnAt(x, y float64) {
	if !m.Active() {
		m.stats.Suppressed++
		return
	}
	if len(m.particles) >= m.cfg.MaxParticles {
		m.stats.Dropped++
		return
	}

	style := RandomStyle(m.rng)
	node := m.surface.NewNode(style)
	node.SetPosition(x, y)
	m.surface.Append(node)

	m.nextID++
	p := &particle{
		Particle: Particle{
			ID:    m.nextID,
			X:     x,
			Y:     y,
			Style: style,
			Born:  m.clock.Now(),
		},
		node: node,
	}
	m.particles = append(m.particles, p)

	p.DX = m.spread(m.cfg.Jitter)
	p.DY = m.spread(m.cfg.Jitter)
	node.SetTranslate(p.DX, p.DY)
	m.stats.Spawned++

	m.sched.After(m.cfg.Lifetime, func() {
		if m.remove(p) {
			m.stats.Expired++
		}
	})
}

// BurstAt schedules a staggered batch of spawns around (x, y) and
// returns how many were scheduled. Each spawn checks the manager's
// state when it fires, not when it was scheduled.
func (m *Manager) BurstAt(x, y float64) int {
	n := m.cfg.BurstMin
	if span := m.cfg.BurstMax - m.cfg.BurstMin; span > 0 {
		n += m.rng.IntN(span)
	}

	for i := 0; i < n; i++ {
		m.sched.After(time.Duration(i)*m.cfg.BurstStagger, func() {
			ox := m.spread(m.cfg.BurstSpread)
			oy := m.spread(m.cfg.BurstSpread)
			m.SpawnAt(x+ox, y+oy)
		})
	}
	m.stats.Bursts++
	return n
}

// PointerMove handles pointer motion, spawning at most one particle per
// ThrottleDelay.
func (m *Manager) PointerMove(x, y float64) {
	now := m.clock.Now()
	if now.Sub(m.lastMove) > m.cfg.ThrottleDelay {
		m.SpawnAt(x, y)
		m.lastMove = now
	}
}

// TouchMove handles touch motion using the first active touch point.
// It shares the pointer throttle gate.
func (m *Manager) TouchMove(points []Point) {
	if len(points) == 0 {
		return
	}
	m.PointerMove(points[0].X, points[0].Y)
}

// Click handles a click or tap. It bursts when the manager is active
// and bypasses the throttle gate.
func (m *Manager) Click(x, y float64) {
	if m.Active() {
		m.BurstAt(x, y)
	}
}

// SetVisible records host visibility. Hiding suspends spawning without
// touching the persisted preference; becoming visible lifts the
// suspension, so a user who disabled the effect stays disabled.
func (m *Manager) SetVisible(visible bool) {
	m.suspended = !visible
}

// SetEnabled updates and persists the user preference. Disabling clears
// every live particle immediately.
func (m *Manager) SetEnabled(enabled bool) {
	m.enabled = enabled
	settings.SaveEnabled(m.store, enabled)

	if !enabled {
		m.Clear()
	}
}

// Toggle flips the user preference and returns the new value.
func (m *Manager) Toggle() bool {
	m.SetEnabled(!m.enabled)
	return m.enabled
}

// Reap prunes particles whose node has been detached, then evicts the
// oldest particles until the collection fits MaxParticles.
func (m *Manager) Reap() {
	m.stats.Reaps++

	kept := m.particles[:0]
	for _, p := range m.particles {
		if p.node.Attached() {
			kept = append(kept, p)
		} else {
			m.stats.Pruned++
		}
	}
	for i := len(kept); i < len(m.particles); i++ {
		m.particles[i] = nil
	}
	m.particles = kept

	for len(m.particles) > m.cfg.MaxParticles {
		oldest := m.particles[0]
		m.particles[0] = nil
		m.particles = m.particles[1:]
		oldest.node.Detach()
		m.stats.Evicted++
	}
}

// Clear detaches and drops every particle.
func (m *Manager) Clear() {
	for _, p := range m.particles {
		if p.node.Attached() {
			p.node.Detach()
		}
		m.stats.Cleared++
	}
	m.particles = nil
}

// Teardown clears the collection, releases the surface and stops the
// reaper from rescheduling. Timers already scheduled still fire but find
// nothing to do. Safe to call more than once.
func (m *Manager) Teardown() {
	if m.tornDown {
		return
	}
	n := len(m.particles)
	m.Clear()
	m.surface.Release()
	m.tornDown = true
	log.Printf("[INFO] Particle manager torn down (%d particles cleared)", n)
}

// remove detaches p and drops it from the collection. A particle whose
// node is already detached is left alone for the reaper.
func (m *Manager) remove(p *particle) bool {
	if p == nil || p.node == nil || !p.node.Attached() {
		return false
	}
	p.node.Detach()
	for i, other := range m.particles {
		if other == p {
			copy(m.particles[i:], m.particles[i+1:])
			m.particles[len(m.particles)-1] = nil
			m.particles = m.particles[:len(m.particles)-1]
			break
		}
	}
	return true
}

// spread samples uniformly from [-half, half).
func (m *Manager) spread(half float64) float64 {
	return (m.rng.Float64() - 0.5) * 2 * half
}
