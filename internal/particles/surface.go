package particles

import "time"

// Node is a single detachable visual element backing a particle.
type Node interface {
	// SetPosition places the node at (x, y) in viewport pixels.
	SetPosition(x, y float64)
	// SetTranslate applies an additional pixel offset on top of the position.
	SetTranslate(dx, dy float64)
	// Attached reports whether the node is still part of the display tree.
	Attached() bool
	// Detach removes the node from the display tree. Detaching twice is a no-op.
	Detach()
}

// Surface is the display collaborator: it creates nodes and owns the
// container they are attached under.
type Surface interface {
	// NewNode creates a detached node with the given style.
	NewNode(style Style) Node
	// Append attaches n under the particle container.
	Append(n Node)
	// Release tears down the container. Nodes still attached are detached.
	Release()
}

// Scheduler runs tasks after a delay on the goroutine that owns the
// Manager. Implementations must never run a task concurrently with
// another task or with a Manager method.
type Scheduler interface {
	After(d time.Duration, task func())
}

// SchedulerFunc adapts a function to the Scheduler interface.
type SchedulerFunc func(d time.Duration, task func())

// After calls f(d, task).
func (f SchedulerFunc) After(d time.Duration, task func()) {
	f(d, task)
}
