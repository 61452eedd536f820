package particles

// HeadlessSurface is a Surface that keeps nodes in memory without
// drawing them. It backs simulations and tests, and lets callers detach
// nodes out of band to exercise the reaper's pruning.
type HeadlessSurface struct {
	nodes    []*HeadlessNode
	released bool
}

// HeadlessNode is the node type produced by HeadlessSurface.
type HeadlessNode struct {
	Style    Style
	X, Y     float64
	DX, DY   float64
	attached bool
	surface  *HeadlessSurface
}

// NewHeadlessSurface returns an empty surface.
func NewHeadlessSurface() *HeadlessSurface {
	return &HeadlessSurface{}
}

// NewNode creates a detached node.
func (s *HeadlessSurface) NewNode(style Style) Node {
	return &HeadlessNode{Style: style, surface: s}
}

// Append attaches n. Nodes from other surfaces are ignored.
func (s *HeadlessSurface) Append(n Node) {
	hn, ok := n.(*HeadlessNode)
	if !ok || hn.surface != s || hn.attached {
		return
	}
	hn.attached = true
	s.nodes = append(s.nodes, hn)
}

// Release detaches every node and marks the container gone.
func (s *HeadlessSurface) Release() {
	for _, n := range s.nodes {
		n.attached = false
	}
	s.nodes = nil
	s.released = true
}

// Released reports whether Release has been called.
func (s *HeadlessSurface) Released() bool {
	return s.released
}

// Attached returns the nodes currently in the display tree, oldest first.
func (s *HeadlessSurface) Attached() []*HeadlessNode {
	out := make([]*HeadlessNode, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// Count returns the number of attached nodes.
func (s *HeadlessSurface) Count() int {
	return len(s.nodes)
}

func (n *HeadlessNode) SetPosition(x, y float64) {
	n.X, n.Y = x, y
}

func (n *HeadlessNode) SetTranslate(dx, dy float64) {
	n.DX, n.DY = dx, dy
}

func (n *HeadlessNode) Attached() bool {
	return n.attached
}

func (n *HeadlessNode) Detach() {
	if !n.attached {
		return
	}
	n.attached = false
	nodes := n.surface.nodes
	for i, other := range nodes {
		if other == n {
			n.surface.nodes = append(nodes[:i], nodes[i+1:]...)
			break
		}
	}
}
