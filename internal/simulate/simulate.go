// Package simulate runs scripted input against a particle manager on
// virtual time and reports what happened. Everything is deterministic
// for a given seed: the event loop supplies both the clock and the
// scheduler, and the manager draws on a seeded PCG source.
//
// Each scenario is checked against the collection invariants while it
// runs:
//   - the collection never exceeds MaxParticles once a reap has run
//   - every tracked particle is attached to the surface and vice versa
//   - nothing is live while the effect is disabled
//   - everything has expired once the scenario drains
package simulate

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"github.com/Mr-Dark-debug/hearts/internal/eventloop"
	"github.com/Mr-Dark-debug/hearts/internal/particles"
	"github.com/Mr-Dark-debug/hearts/internal/settings"
	"github.com/Mr-Dark-debug/hearts/pkg/timeutil"

	"gonum.org/v1/gonum/stat"
)

// Options configure a simulation run.
type Options struct {
	Config particles.Config
	Seed   uint64

	// Store receives the enabled flag. Nil uses a fresh MemoryStore.
	Store settings.Store
}

// Event is a notable moment in a run.
type Event struct {
	At      string `json:"at"` // offset from the start of the run
	Message string `json:"message"`
}

// Sample is the collection state after one step of a run.
type Sample struct {
	AtMs      int64 `csv:"at_ms" json:"at_ms"`
	Live      int   `csv:"live" json:"live"`
	Attached  int   `csv:"attached" json:"attached"`
	Spawned   int   `csv:"spawned" json:"spawned"`
	Enabled   bool  `csv:"enabled" json:"enabled"`
	Suspended bool  `csv:"suspended" json:"suspended"`
}

// Report is the outcome of a simulation run.
type Report struct {
	Scenario    string           `json:"scenario"`
	Description string           `json:"description"`
	Seed        uint64           `json:"seed"`
	Config      particles.Config `json:"config"`
	GeneratedAt string           `json:"generated_at"`

	DurationMs int64           `json:"duration_ms"`
	Tasks      int             `json:"tasks"`
	Stats      particles.Stats `json:"stats"`
	Samples    int             `json:"samples"`
	PeakLen    int             `json:"peak_len"`
	MeanLen    float64         `json:"mean_len"`
	StdDevLen  float64         `json:"stddev_len"`
	FinalLen   int             `json:"final_len"`

	// Trend is the least-squares slope of the live count over the
	// scripted part of the run, in particles per second.
	Trend float64 `json:"trend_per_sec"`

	// Series holds every sample; see WriteSamples.
	Series []Sample `json:"-"`

	Events     []Event  `json:"events,omitempty"`
	Violations []string `json:"violations,omitempty"`
}

// OK reports whether the run finished without invariant violations.
func (r *Report) OK() bool {
	return len(r.Violations) == 0
}

// Scenario is a named input script.
type Scenario struct {
	Name        string
	Description string
	script      func(*run)
}

var scenarios = map[string]Scenario{
	"trail": {
		Name:        "trail",
		Description: "Pointer circling at 120 Hz for 10 s with a click every second",
		script: func(r *run) {
			r.trail(10*time.Second, true)
			r.drain()
		},
	},
	"flood": {
		Name:        "flood",
		Description: "60 spawns in one instant against the capacity bound, then one reap",
		script: func(r *run) {
			for i := 0; i < 60; i++ {
				r.mgr.SpawnAt(float64(100+i), 100)
			}
			r.sample()
			r.note("flooded with 60 spawns, %d live", r.mgr.Len())
			r.advance(r.cfg.ReapInterval)
			r.drain()
		},
	},
	"toggle": {
		Name:        "toggle",
		Description: "Trail with the effect disabled mid-burst and re-enabled later",
		script: func(r *run) {
			r.trail(3*time.Second, false)
			r.mgr.Click(r.x, r.y)
			r.note("clicked at (%.0f, %.0f)", r.x, r.y)
			r.advance(2 * r.cfg.BurstStagger)
			r.note("disabling with %d live", r.mgr.Len())
			r.mgr.SetEnabled(false)
			r.sample()
			r.trail(2*time.Second, true)
			r.mgr.SetEnabled(true)
			r.note("re-enabled")
			r.trail(2*time.Second, false)
			r.drain()
		},
	},
	"hidden": {
		Name:        "hidden",
		Description: "Trail interrupted by the host losing visibility for 2 s",
		script: func(r *run) {
			r.trail(2*time.Second, false)
			r.mgr.SetVisible(false)
			r.note("hidden with %d live", r.mgr.Len())
			r.trail(2*time.Second, true)
			r.mgr.SetVisible(true)
			r.note("visible again")
			r.trail(2*time.Second, false)
			r.drain()
		},
	},
}

// Names lists the available scenarios in sorted order.
func Names() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the named scenario.
func Lookup(name string) (Scenario, bool) {
	s, ok := scenarios[name]
	return s, ok
}

// Run executes the named scenario and returns its report.
func Run(name string, opts Options) (*Report, error) {
	sc, ok := scenarios[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario %q (have %s)", name, strings.Join(Names(), ", "))
	}
	if opts.Seed == 0 {
		opts.Seed = 1
	}
	store := opts.Store
	if store == nil {
		store = settings.NewMemoryStore()
	}

	loop := eventloop.New(timeutil.Epoch)
	surface := particles.NewHeadlessSurface()
	mgr := particles.New(opts.Config, particles.Deps{
		Surface:   surface,
		Scheduler: loop,
		Clock:     loop,
		Store:     store,
		Rand:      rand.New(rand.NewPCG(opts.Seed, opts.Seed)),
	})
	if !mgr.Enabled() {
		// The scripts assume a running effect.
		mgr.SetEnabled(true)
	}

	r := &run{
		loop:    loop,
		surface: surface,
		mgr:     mgr,
		cfg:     mgr.Config(),
		start:   loop.Now(),
		x:       640,
		y:       360,
		report: &Report{
			Scenario:    sc.Name,
			Description: sc.Description,
			Seed:        opts.Seed,
			Config:      mgr.Config(),
			GeneratedAt: time.Now().Format(time.RFC3339),
		},
	}

	mgr.Start()
	sc.script(r)
	r.report.FinalLen = mgr.Len()
	if r.report.FinalLen != 0 {
		r.violate("%d particles still live after draining", r.report.FinalLen)
	}

	mgr.Teardown()
	if !surface.Released() {
		r.violate("surface not released on teardown")
	}

	r.report.DurationMs = timeutil.Millis(loop.Now().Sub(r.start))
	r.report.Tasks = loop.Ran()
	r.report.Stats = mgr.Stats()
	r.summarize()
	return r.report, nil
}

// run is the state of one scenario execution.
type run struct {
	loop    *eventloop.Loop
	surface *particles.HeadlessSurface
	mgr     *particles.Manager
	cfg     particles.Config
	start   time.Time

	// Current pointer position and angle on the circle.
	x, y  float64
	angle float64

	lastReaps int
	drainedAt int // series length when draining began
	report    *Report
}

const (
	pointerHz     = 120
	pointerRadius = 200
)

// trail moves the pointer around a circle at pointerHz for d, with an
// optional click at the start of every second.
func (r *run) trail(d time.Duration, clicks bool) {
	step := time.Second / pointerHz
	ticks := int(d / step)
	for i := 0; i < ticks; i++ {
		r.angle += 2 * math.Pi / pointerHz
		r.x = 640 + pointerRadius*math.Cos(r.angle)
		r.y = 360 + pointerRadius*math.Sin(r.angle)
		r.mgr.PointerMove(r.x, r.y)
		if clicks && i%pointerHz == 0 {
			r.mgr.Click(r.x, r.y)
		}
		r.advance(step)
	}
}

// drain runs long enough for every pending burst spawn and lifetime to
// elapse, plus one more reap.
func (r *run) drain() {
	wait := r.cfg.Lifetime + time.Duration(r.cfg.BurstMax)*r.cfg.BurstStagger + r.cfg.ReapInterval
	if r.drainedAt == 0 {
		r.drainedAt = len(r.report.Series)
	}
	r.advance(wait)
	r.note("drained, %d live", r.mgr.Len())
}

// advance moves virtual time forward and samples the collection.
func (r *run) advance(d time.Duration) {
	r.loop.Advance(d)
	r.sample()
}

// sample records the collection length and checks the invariants.
func (r *run) sample() {
	n := r.mgr.Len()
	r.report.Samples++
	r.report.Series = append(r.report.Series, Sample{
		AtMs:      timeutil.Millis(r.loop.Now().Sub(r.start)),
		Live:      n,
		Attached:  r.surface.Count(),
		Spawned:   r.mgr.Stats().Spawned,
		Enabled:   r.mgr.Enabled(),
		Suspended: r.mgr.Suspended(),
	})
	if n > r.report.PeakLen {
		r.report.PeakLen = n
	}

	reaps := r.mgr.Stats().Reaps
	if reaps != r.lastReaps && n > r.cfg.MaxParticles {
		r.violate("%d particles after reap, max %d", n, r.cfg.MaxParticles)
	}
	r.lastReaps = reaps

	if c := r.surface.Count(); c != n {
		r.violate("surface holds %d nodes but %d particles are tracked", c, n)
	}
	if !r.mgr.Enabled() && n > 0 {
		r.violate("%d particles live while disabled", n)
	}
}

// summarize computes the population statistics from the series.
func (r *run) summarize() {
	series := r.report.Series
	if len(series) == 0 {
		return
	}
	xs := make([]float64, len(series))
	ys := make([]float64, len(series))
	for i, s := range series {
		xs[i] = float64(s.AtMs) / 1000
		ys[i] = float64(s.Live)
	}
	r.report.MeanLen, r.report.StdDevLen = stat.MeanStdDev(ys, nil)
	if math.IsNaN(r.report.StdDevLen) {
		r.report.StdDevLen = 0
	}

	// The drain tail is all expiry; leave it out of the trend.
	n := len(series)
	if r.drainedAt > 0 {
		n = r.drainedAt
	}
	if n >= 2 && xs[n-1] > xs[0] {
		_, r.report.Trend = stat.LinearRegression(xs[:n], ys[:n], nil, false)
	}
}

func (r *run) note(format string, args ...any) {
	r.report.Events = append(r.report.Events, Event{
		At:      timeutil.FormatOffset(r.start, r.loop.Now()),
		Message: fmt.Sprintf(format, args...),
	})
}

func (r *run) violate(format string, args ...any) {
	msg := fmt.Sprintf("%s %s", timeutil.FormatOffset(r.start, r.loop.Now()), fmt.Sprintf(format, args...))
	r.report.Violations = append(r.report.Violations, msg)
}
