package tui

import (
	"fmt"
	"time"

	"github.com/Mr-Dark-debug/hearts/internal/config"
	"github.com/Mr-Dark-debug/hearts/internal/particles"
	"github.com/Mr-Dark-debug/hearts/internal/settings"
	"github.com/Mr-Dark-debug/hearts/pkg/timeutil"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Options configures a Model.
type Options struct {
	Particles   particles.Config
	Display     config.DisplayConfig
	Store       settings.Store
	Constrained bool

	// Clock defaults to the system clock.
	Clock timeutil.Clock
}

// ────────────────────────────────────────────────────────────
// Model
// ────────────────────────────────────────────────────────────

// Model is the root BubbleTea model. The particle manager and its
// collaborators live behind pointers, so copies of the Model handed
// around by the runtime all drive the same state.
type Model struct {
	mgr    *particles.Manager
	canvas *canvas
	sched  *scheduler
	opts   Options

	// UI state
	width  int
	height int

	// Status
	statusMsg string
}

// NewModel wires a particle manager to a terminal canvas and a
// BubbleTea-backed scheduler.
func NewModel(opts Options) Model {
	if opts.Clock == nil {
		opts.Clock = timeutil.SystemClock{}
	}
	d := &opts.Display
	if d.CellWidth <= 0 {
		d.CellWidth = 8
	}
	if d.CellHeight <= 0 {
		d.CellHeight = 16
	}
	if d.FPS <= 0 {
		d.FPS = 30
	}
	if d.FadeAfter <= 0 {
		d.FadeAfter = 0.7
	}

	sched := &scheduler{}
	cv := newCanvas(d.CellWidth, d.CellHeight, d.FPS, d.FadeAfter, 0, opts.Clock)
	mgr := particles.New(opts.Particles, particles.Deps{
		Surface:   cv,
		Scheduler: sched,
		Clock:     opts.Clock,
		Store:     opts.Store,
	})
	cv.lifetime = mgr.Config().Lifetime

	m := Model{
		mgr:    mgr,
		canvas: cv,
		sched:  sched,
		opts:   opts,
	}
	m.statusMsg = enabledStatus(mgr.Enabled())
	return m
}

// Manager exposes the underlying particle manager.
func (m Model) Manager() *particles.Manager {
	return m.mgr
}

// ────────────────────────────────────────────────────────────
// Messages
// ────────────────────────────────────────────────────────────

type frameMsg time.Time

// ────────────────────────────────────────────────────────────
// Init
// ────────────────────────────────────────────────────────────

func (m Model) Init() tea.Cmd {
	m.mgr.Start()
	return tea.Batch(m.sched.drain(), m.frameTick())
}

func (m Model) frameTick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.Display.FPS), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// ────────────────────────────────────────────────────────────
// Update
// ────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		m, cmd = m.handleKey(msg)

	case tea.MouseMsg:
		m = m.handleMouse(msg)

	case tea.FocusMsg:
		m.mgr.SetVisible(true)
		m.statusMsg = enabledStatus(m.mgr.Enabled())

	case tea.BlurMsg:
		m.mgr.SetVisible(false)
		m.statusMsg = "Paused while the terminal is in the background"

	case taskMsg:
		msg.run()

	case frameMsg:
		m.canvas.step()
		cmd = m.frameTick()

	case toggleMsg:
		m.setEnabled(msg.enabled)
	}

	// Timers scheduled by the manager during this update.
	return m, tea.Batch(cmd, m.sched.drain())
}

// handleKey routes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.mgr.Teardown()
		return m, tea.Quit

	case "h":
		m.setEnabled(!m.mgr.Enabled())

	case "c":
		n := m.mgr.Len()
		m.mgr.Clear()
		m.statusMsg = clearedStatus(n)
	}
	return m, nil
}

// handleMouse maps terminal mouse events onto manager input. Cells are
// converted to the pixel coordinates of their centre.
func (m Model) handleMouse(msg tea.MouseMsg) Model {
	d := m.opts.Display
	x := cellToPixel(msg.X, d.CellWidth)
	y := cellToPixel(msg.Y, d.CellHeight)

	switch msg.Action {
	case tea.MouseActionMotion:
		// Dragging with the primary button stands in for touch movement.
		if msg.Button == tea.MouseButtonLeft {
			m.mgr.TouchMove([]particles.Point{{X: x, Y: y}})
		} else {
			m.mgr.PointerMove(x, y)
		}

	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m
		}
		if m.onToggleButton(msg.X, msg.Y) {
			m.setEnabled(!m.mgr.Enabled())
			return m
		}
		m.mgr.Click(x, y)
	}
	return m
}

// setEnabled applies and persists a user toggle.
func (m *Model) setEnabled(enabled bool) {
	m.mgr.SetEnabled(enabled)
	m.statusMsg = enabledStatus(enabled)
}

// ────────────────────────────────────────────────────────────
// View
// ────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	header := renderHeader(&m)
	footer := renderFooter(&m)

	bodyHeight := maxInt(m.height-2, 0) // header + footer
	body := m.canvas.render(m.width, bodyHeight, 1)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func enabledStatus(enabled bool) string {
	if enabled {
		return "Hearts on"
	}
	return "Hearts off (press h to turn on)"
}

func clearedStatus(n int) string {
	if n == 1 {
		return "Cleared 1 heart"
	}
	return fmt.Sprintf("Cleared %d hearts", n)
}
