package particles

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/Mr-Dark-debug/hearts/internal/eventloop"
	"github.com/Mr-Dark-debug/hearts/internal/settings"
	"github.com/Mr-Dark-debug/hearts/pkg/timeutil"
)

// failingStore simulates storage that is unavailable or over quota.
type failingStore struct{}

func (failingStore) Get(string) (string, bool, error) { return "", false, errors.New("storage unavailable") }
func (failingStore) Set(string, string) error         { return errors.New("quota exceeded") }
func (failingStore) Close() error                     { return nil }

type harness struct {
	m       *Manager
	loop    *eventloop.Loop
	surface *HeadlessSurface
	store   settings.Store
}

func newHarness(t *testing.T, cfg Config, store settings.Store) *harness {
	t.Helper()
	loop := eventloop.New(timeutil.Epoch)
	surface := NewHeadlessSurface()
	m := New(cfg, Deps{
		Surface:   surface,
		Scheduler: loop,
		Clock:     loop,
		Store:     store,
		Rand:      rand.New(rand.NewPCG(1, 2)),
	})
	return &harness{m: m, loop: loop, surface: surface, store: store}
}

func TestSpawnFloodSettlesAtCapacity(t *testing.T) {
	h := newHarness(t, DefaultConfig(), nil)
	h.m.Start()

	for i := 0; i < 60; i++ {
		h.m.SpawnAt(float64(i), float64(i))
	}
	if h.m.Len() != 50 {
		t.Fatalf("expected 50 particles after flood, got %d", h.m.Len())
	}

	h.loop.Advance(time.Second)

	if h.m.Len() != 50 {
		t.Errorf("expected 50 particles after one reap, got %d", h.m.Len())
	}
	stats := h.m.Stats()
	if stats.Dropped != 10 {
		t.Errorf("expected 10 spawns dropped at capacity, got %d", stats.Dropped)
	}
	if stats.Reaps != 1 {
		t.Errorf("expected exactly one reap pass, got %d", stats.Reaps)
	}

	// The survivors are the first 50 requests; the last 10 never entered.
	for i, p := range h.m.Particles() {
		if p.X != float64(i) {
			t.Fatalf("particle %d anchored at x=%v, expected %d", i, p.X, i)
		}
	}
	if h.surface.Count() != 50 {
		t.Errorf("expected 50 attached nodes, got %d", h.surface.Count())
	}
}

func TestSpawnWhileDisabled(t *testing.T) {
	h := newHarness(t, DefaultConfig(), settings.NewMemoryStore())
	h.m.SetEnabled(false)

	for i := 0; i < 10; i++ {
		h.m.SpawnAt(100, 100)
		h.m.PointerMove(100, 100)
		h.loop.Advance(100 * time.Millisecond)
	}

	if h.m.Len() != 0 {
		t.Errorf("expected no particles while disabled, got %d", h.m.Len())
	}
	if h.surface.Count() != 0 {
		t.Errorf("expected no nodes while disabled, got %d", h.surface.Count())
	}
	if h.m.Stats().Suppressed == 0 {
		t.Error("expected suppressed spawns to be counted")
	}
}

func TestParticleExpiresAfterLifetime(t *testing.T) {
	h := newHarness(t, DefaultConfig(), nil)
	h.m.Start()

	h.m.SpawnAt(10, 10)
	node := h.surface.Attached()[0]

	h.loop.Advance(3499 * time.Millisecond)
	if h.m.Len() != 1 || !node.Attached() {
		t.Fatalf("expected particle alive at +3.499s, len=%d attached=%v", h.m.Len(), node.Attached())
	}

	h.loop.Advance(time.Millisecond)
	if h.m.Len() != 0 {
		t.Errorf("expected particle removed at +3.5s, len=%d", h.m.Len())
	}
	if node.Attached() {
		t.Error("expected node detached at +3.5s")
	}
	if h.m.Stats().Expired != 1 {
		t.Errorf("expected 1 expiry, got %d", h.m.Stats().Expired)
	}
}

func TestDisableClearsPendingParticles(t *testing.T) {
	h := newHarness(t, DefaultConfig(), settings.NewMemoryStore())

	for i := 0; i < 5; i++ {
		h.m.SpawnAt(float64(i*10), 0)
	}
	nodes := h.surface.Attached()

	h.m.SetEnabled(false)
	if h.m.Len() != 0 {
		t.Fatalf("expected immediate clear, got %d", h.m.Len())
	}
	for i, n := range nodes {
		if n.Attached() {
			t.Errorf("node %d still attached after disable", i)
		}
	}

	// The five expiry timers fire later and must be harmless.
	h.loop.Advance(5 * time.Second)
	stats := h.m.Stats()
	if stats.Expired != 0 {
		t.Errorf("expected expiry timers to be no-ops, got %d expiries", stats.Expired)
	}
	if stats.Cleared != 5 {
		t.Errorf("expected 5 cleared, got %d", stats.Cleared)
	}
	if h.loop.Pending() != 0 {
		t.Errorf("expected all timers drained, got %d pending", h.loop.Pending())
	}
}

func TestBurstCountAndStagger(t *testing.T) {
	loop := eventloop.New(timeutil.Epoch)
	var delays []time.Duration
	sched := SchedulerFunc(func(d time.Duration, task func()) {
		delays = append(delays, d)
		loop.After(d, task)
	})
	m := New(DefaultConfig(), Deps{
		Surface:   NewHeadlessSurface(),
		Scheduler: sched,
		Clock:     loop,
		Rand:      rand.New(rand.NewPCG(7, 7)),
	})

	seen := make(map[int]bool)
	for i := 0; i < 200; i++ {
		delays = delays[:0]
		n := m.BurstAt(50, 50)
		if n < 3 || n >= 8 {
			t.Fatalf("burst size %d outside [3, 8)", n)
		}
		seen[n] = true
		if len(delays) != n {
			t.Fatalf("expected %d scheduled spawns, got %d", n, len(delays))
		}
		for j, d := range delays {
			if d != time.Duration(j)*50*time.Millisecond {
				t.Fatalf("spawn %d scheduled at %v, expected %v", j, d, time.Duration(j)*50*time.Millisecond)
			}
		}
		// Expiry timers for spawned particles land on the recorder too.
		loop.Advance(10 * time.Second)
		m.Clear()
	}
	for n := 3; n < 8; n++ {
		if !seen[n] {
			t.Errorf("burst size %d never drawn in 200 bursts", n)
		}
	}
}

func TestBurstSpawnsLandNearTarget(t *testing.T) {
	h := newHarness(t, DefaultConfig(), nil)

	n := h.m.BurstAt(200, 300)
	h.loop.Advance(time.Duration(n) * 50 * time.Millisecond)

	if h.m.Len() != n {
		t.Fatalf("expected %d particles from burst, got %d", n, h.m.Len())
	}
	for _, p := range h.m.Particles() {
		if p.X < 180 || p.X > 220 || p.Y < 280 || p.Y > 320 {
			t.Errorf("burst particle at (%.1f, %.1f) outside ±20px of target", p.X, p.Y)
		}
	}
}

func TestBurstSuppressedAfterDisable(t *testing.T) {
	h := newHarness(t, DefaultConfig(), settings.NewMemoryStore())

	n := h.m.BurstAt(0, 0)
	h.loop.Advance(50 * time.Millisecond) // spawns at +0ms and +50ms fire
	if h.m.Len() != 2 {
		t.Fatalf("expected 2 particles before disable, got %d", h.m.Len())
	}

	h.m.SetEnabled(false)
	h.loop.Advance(time.Second)

	stats := h.m.Stats()
	if h.m.Len() != 0 {
		t.Errorf("expected no particles after disable, got %d", h.m.Len())
	}
	if stats.Spawned != 2 {
		t.Errorf("expected only 2 spawns, got %d", stats.Spawned)
	}
	if stats.Suppressed != n-2 {
		t.Errorf("expected %d suppressed burst spawns, got %d", n-2, stats.Suppressed)
	}
}

func TestClickBurstsOnlyWhenActive(t *testing.T) {
	h := newHarness(t, DefaultConfig(), nil)

	h.m.SetVisible(false)
	h.m.Click(10, 10)
	if h.m.Stats().Bursts != 0 {
		t.Error("expected no burst while hidden")
	}

	h.m.SetVisible(true)
	h.m.PointerMove(10, 10) // arms the throttle gate
	h.m.Click(10, 10)
	if h.m.Stats().Bursts != 1 {
		t.Error("expected click to burst regardless of the throttle gate")
	}
}

func TestPointerThrottle(t *testing.T) {
	h := newHarness(t, DefaultConfig(), nil)

	steps := []struct {
		advance time.Duration
		want    int
	}{
		{0, 1},                      // first move always passes
		{30 * time.Millisecond, 1},  // +30ms
		{20 * time.Millisecond, 1},  // +50ms, gate is strictly greater
		{1 * time.Millisecond, 2},   // +51ms
		{100 * time.Millisecond, 3}, // +151ms
	}
	for i, s := range steps {
		h.loop.Advance(s.advance)
		h.m.PointerMove(5, 5)
		if h.m.Len() != s.want {
			t.Errorf("step %d: expected %d particles, got %d", i, s.want, h.m.Len())
		}
	}
}

func TestTouchSharesThrottleGate(t *testing.T) {
	h := newHarness(t, ConstrainedConfig(), nil)

	h.m.TouchMove(nil)
	if h.m.Len() != 0 {
		t.Fatal("expected empty touch list to be ignored")
	}

	h.m.TouchMove([]Point{{X: 1, Y: 2}, {X: 300, Y: 300}})
	h.loop.Advance(60 * time.Millisecond)
	h.m.PointerMove(3, 4)
	if h.m.Len() != 1 {
		t.Fatalf("expected the pointer move to be throttled by the touch, got %d", h.m.Len())
	}
	if p := h.m.Particles()[0]; p.X != 1 || p.Y != 2 {
		t.Errorf("expected first touch point (1, 2), got (%v, %v)", p.X, p.Y)
	}

	h.loop.Advance(50 * time.Millisecond)
	h.m.TouchMove([]Point{{X: 9, Y: 9}})
	if h.m.Len() != 2 {
		t.Errorf("expected constrained gate (100ms) to pass after 110ms, got %d", h.m.Len())
	}
}

func TestReapPrunesDetachedNodes(t *testing.T) {
	h := newHarness(t, DefaultConfig(), nil)

	for i := 0; i < 3; i++ {
		h.m.SpawnAt(float64(i), 0)
	}
	h.surface.Attached()[0].Detach() // removed out of band

	if h.m.Len() != 3 {
		t.Fatalf("expected stale entry to linger until reap, got %d", h.m.Len())
	}

	h.m.Reap()
	if h.m.Len() != 2 {
		t.Errorf("expected 2 particles after prune, got %d", h.m.Len())
	}
	if h.m.Stats().Pruned != 1 {
		t.Errorf("expected 1 pruned, got %d", h.m.Stats().Pruned)
	}

	h.loop.Advance(4 * time.Second)
	if h.m.Stats().Expired != 2 {
		t.Errorf("expected the 2 survivors to expire, got %d", h.m.Stats().Expired)
	}
}

func TestReapEvictsOldestFirst(t *testing.T) {
	h := newHarness(t, DefaultConfig(), nil)

	for i := 0; i < 10; i++ {
		h.m.SpawnAt(float64(i), 0)
	}
	nodes := h.surface.Attached()

	h.m.cfg.MaxParticles = 4
	h.m.Reap()

	if h.m.Len() != 4 {
		t.Fatalf("expected 4 particles after eviction, got %d", h.m.Len())
	}
	for i, p := range h.m.Particles() {
		if p.X != float64(6+i) {
			t.Errorf("survivor %d at x=%v, expected %d", i, p.X, 6+i)
		}
	}
	for i := 0; i < 6; i++ {
		if nodes[i].Attached() {
			t.Errorf("evicted node %d still attached", i)
		}
	}
	if h.m.Stats().Evicted != 6 {
		t.Errorf("expected 6 evictions, got %d", h.m.Stats().Evicted)
	}
}

func TestCapacityInvariantUnderRandomLoad(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxParticles = 12
	h := newHarness(t, cfg, settings.NewMemoryStore())
	h.m.Start()

	r := rand.New(rand.NewPCG(42, 42))
	for i := 0; i < 5000; i++ {
		x, y := r.Float64()*800, r.Float64()*600
		switch r.IntN(10) {
		case 0:
			h.m.Click(x, y)
		case 1:
			h.m.SetEnabled(r.IntN(4) != 0)
		case 2:
			h.m.SetVisible(r.IntN(3) != 0)
		default:
			h.m.PointerMove(x, y)
		}
		h.loop.Advance(time.Duration(r.IntN(80)) * time.Millisecond)

		if h.m.Len() > cfg.MaxParticles {
			t.Fatalf("op %d: collection length %d exceeds max %d", i, h.m.Len(), cfg.MaxParticles)
		}
		if h.surface.Count() != h.m.Len() {
			t.Fatalf("op %d: %d attached nodes for %d particles", i, h.surface.Count(), h.m.Len())
		}
	}
}

func TestJitterWithinBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxParticles = 500
	h := newHarness(t, cfg, nil)

	for i := 0; i < 500; i++ {
		h.m.SpawnAt(0, 0)
	}
	for _, n := range h.surface.Attached() {
		if n.DX < -10 || n.DX > 10 || n.DY < -10 || n.DY > 10 {
			t.Fatalf("jitter (%.2f, %.2f) outside ±10px", n.DX, n.DY)
		}
		if n.X != 0 || n.Y != 0 {
			t.Fatalf("position should be the anchor, got (%v, %v)", n.X, n.Y)
		}
	}
}

func TestEnabledFlagRoundTrip(t *testing.T) {
	for _, v := range []bool{true, false} {
		store := settings.NewMemoryStore()
		first := newHarness(t, DefaultConfig(), store)
		first.m.SetEnabled(v)

		reloaded := newHarness(t, DefaultConfig(), store)
		if reloaded.m.Enabled() != v {
			t.Errorf("setEnabled(%v) then reload returned %v", v, reloaded.m.Enabled())
		}
	}
}

func TestPersistenceFailureDefaultsToEnabled(t *testing.T) {
	h := newHarness(t, DefaultConfig(), failingStore{})
	if !h.m.Enabled() {
		t.Fatal("expected enabled when the store cannot be read")
	}

	h.m.SetEnabled(false) // write fails, must not panic
	if h.m.Enabled() {
		t.Error("expected in-memory flag to follow SetEnabled despite write failure")
	}
}

func TestVisibilitySuspendIsTransient(t *testing.T) {
	store := settings.NewMemoryStore()
	h := newHarness(t, DefaultConfig(), store)

	h.m.SetVisible(false)
	if h.m.Active() || !h.m.Enabled() || !h.m.Suspended() {
		t.Fatalf("expected suspended but enabled, active=%v enabled=%v", h.m.Active(), h.m.Enabled())
	}
	if _, ok, _ := store.Get(settings.EnabledKey); ok {
		t.Error("visibility change must not persist the flag")
	}

	h.m.SpawnAt(1, 1)
	if h.m.Len() != 0 {
		t.Error("expected spawn to be suppressed while hidden")
	}

	h.m.SetVisible(true)
	if !h.m.Active() {
		t.Error("expected visibility regain to lift the suspension")
	}

	h.m.SetEnabled(false)
	h.m.SetVisible(false)
	h.m.SetVisible(true)
	if h.m.Active() {
		t.Error("visibility regain must not override a user disable")
	}
}

func TestToggle(t *testing.T) {
	h := newHarness(t, DefaultConfig(), settings.NewMemoryStore())
	h.m.SpawnAt(1, 1)

	if h.m.Toggle() {
		t.Fatal("expected toggle from enabled to return false")
	}
	if h.m.Len() != 0 {
		t.Error("expected toggle off to clear particles")
	}
	if !h.m.Toggle() {
		t.Error("expected second toggle to re-enable")
	}
}

func TestTeardownIsIdempotent(t *testing.T) {
	h := newHarness(t, DefaultConfig(), nil)
	h.m.Start()

	for i := 0; i < 3; i++ {
		h.m.SpawnAt(0, 0)
	}
	h.m.Teardown()
	h.m.Teardown()

	if h.m.Len() != 0 {
		t.Errorf("expected empty collection after teardown, got %d", h.m.Len())
	}
	if !h.surface.Released() {
		t.Error("expected surface to be released")
	}

	h.m.SpawnAt(0, 0)
	if h.m.Len() != 0 {
		t.Error("expected spawns after teardown to be ignored")
	}

	// In-flight timers fire as no-ops and the reaper stops rescheduling.
	h.loop.Advance(10 * time.Second)
	if h.loop.Pending() != 0 {
		t.Errorf("expected no timers left after teardown, got %d", h.loop.Pending())
	}
}

func TestStartIsIdempotent(t *testing.T) {
	h := newHarness(t, DefaultConfig(), nil)
	h.m.Start()
	h.m.Start()

	h.loop.Advance(3 * time.Second)
	if got := h.m.Stats().Reaps; got != 3 {
		t.Errorf("expected 3 reaps in 3s with a single reaper, got %d", got)
	}
}
