package tui

import (
	"strings"
	"time"

	"github.com/Mr-Dark-debug/hearts/internal/particles"
	"github.com/Mr-Dark-debug/hearts/pkg/timeutil"

	"github.com/charmbracelet/harmonica"
)

// motion describes one animation variant: where a heart drifts to,
// in cells, relative to its anchor, and how springy the trip is. The
// sideways spring is slower than the upward one so hearts arc.
type motion struct {
	rise      float64 // rows upward
	sway      float64 // columns sideways
	frequency float64
	swayFreq  float64
	damping   float64
}

// motions is indexed by particles.Variant.
var motions = [...]motion{
	particles.Anim1: {rise: 3, sway: 0, frequency: 3.0, swayFreq: 1.5, damping: 1.0},  // straight, smooth
	particles.Anim2: {rise: 2, sway: -3, frequency: 4.0, swayFreq: 2.0, damping: 0.6}, // drifts left
	particles.Anim3: {rise: 4, sway: 3, frequency: 6.0, swayFreq: 3.0, damping: 0.3},  // bouncy, drifts right
}

// canvas is the terminal display surface for particles. Positions are
// kept in pixels and mapped onto cells at render time.
type canvas struct {
	cellW, cellH int
	fps          int
	fadeAfter    float64
	lifetime     time.Duration
	clock        timeutil.Clock

	nodes    []*heartNode
	released bool
}

func newCanvas(cellW, cellH, fps int, fadeAfter float64, lifetime time.Duration, clock timeutil.Clock) *canvas {
	return &canvas{
		cellW:     cellW,
		cellH:     cellH,
		fps:       fps,
		fadeAfter: fadeAfter,
		lifetime:  lifetime,
		clock:     clock,
	}
}

// heartNode is a particle's on-screen element.
type heartNode struct {
	c     *canvas
	style particles.Style

	x, y   float64
	dx, dy float64
	born   time.Time

	attached bool

	riseSpring    harmonica.Spring
	swaySpring    harmonica.Spring
	target        motion
	rise, riseVel float64
	sway, swayVel float64
}

// NewNode implements particles.Surface.
func (c *canvas) NewNode(style particles.Style) particles.Node {
	m := motions[particles.Anim1]
	if int(style.Variant) < len(motions) {
		m = motions[style.Variant]
	}
	return &heartNode{
		c:          c,
		style:      style,
		target:     m,
		riseSpring: harmonica.NewSpring(harmonica.FPS(c.fps), m.frequency, m.damping),
		swaySpring: harmonica.NewSpring(harmonica.FPS(c.fps), m.swayFreq, m.damping),
	}
}

// Append implements particles.Surface.
func (c *canvas) Append(n particles.Node) {
	hn, ok := n.(*heartNode)
	if !ok || hn.c != c || hn.attached || c.released {
		return
	}
	hn.attached = true
	hn.born = c.clock.Now()
	c.nodes = append(c.nodes, hn)
}

// Release implements particles.Surface.
func (c *canvas) Release() {
	for _, n := range c.nodes {
		n.attached = false
	}
	c.nodes = nil
	c.released = true
}

// count returns the number of attached nodes.
func (c *canvas) count() int {
	return len(c.nodes)
}

// step advances every node's springs by one frame.
func (c *canvas) step() {
	for _, n := range c.nodes {
		n.rise, n.riseVel = n.riseSpring.Update(n.rise, n.riseVel, n.target.rise)
		n.sway, n.swayVel = n.swaySpring.Update(n.sway, n.swayVel, n.target.sway)
	}
}

// cell returns the node's current screen cell.
func (n *heartNode) cell() (col, row int) {
	px, py := n.x+n.dx, n.y+n.dy
	col = pixelToCell(px, n.c.cellW) + roundInt(n.sway)
	row = pixelToCell(py, n.c.cellH) - roundInt(n.rise)
	return col, row
}

// fading reports whether the node is in the tail of its lifetime.
func (n *heartNode) fading(now time.Time) bool {
	if n.c.lifetime <= 0 {
		return false
	}
	age := now.Sub(n.born)
	return float64(age) >= n.c.fadeAfter*float64(n.c.lifetime)
}

func (n *heartNode) SetPosition(x, y float64) {
	n.x, n.y = x, y
}

func (n *heartNode) SetTranslate(dx, dy float64) {
	n.dx, n.dy = dx, dy
}

func (n *heartNode) Attached() bool {
	return n.attached
}

func (n *heartNode) Detach() {
	if !n.attached {
		return
	}
	n.attached = false
	nodes := n.c.nodes
	for i, other := range nodes {
		if other == n {
			n.c.nodes = append(nodes[:i], nodes[i+1:]...)
			break
		}
	}
}

// render draws the canvas into a width × height block. top is the
// screen row the block starts at, so particles anchored in screen
// coordinates land on the right line. Later nodes draw over earlier ones.
func (c *canvas) render(width, height, top int) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	grid := make([][]string, height)
	for i := range grid {
		grid[i] = make([]string, width)
	}

	now := c.clock.Now()
	for _, n := range c.nodes {
		col, row := n.cell()
		row -= top
		if col < 0 || col >= width || row < 0 || row >= height {
			continue
		}
		grid[row][col] = heartStyle(n.style, n.fading(now)).Render(heartGlyph(n.style.Size))
	}

	lines := make([]string, height)
	for r, cells := range grid {
		var b strings.Builder
		for _, cell := range cells {
			if cell == "" {
				b.WriteByte(' ')
				continue
			}
			b.WriteString(cell)
		}
		lines[r] = b.String()
	}
	return strings.Join(lines, "\n")
}
