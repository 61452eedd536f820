// Package eventloop provides a single-threaded, virtual-time task queue.
//
// Loop implements the scheduling and clock contracts the particle manager
// depends on. Time only moves when the owner calls Advance or Step, which
// makes every timer-driven behavior (expiry, reaping, burst staggering,
// throttling) deterministic in tests and headless simulations.
//
// Tasks run on the caller's goroutine, one at a time, in due-time order;
// tasks with equal due times run in the order they were scheduled. A task
// may schedule further tasks, including ones due within the window
// currently being advanced.
package eventloop

import (
	"container/heap"
	"time"
)

type task struct {
	due time.Time
	seq uint64
	run func()
}

type taskQueue []*task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].due.Equal(q[j].due) {
		return q[i].seq < q[j].seq
	}
	return q[i].due.Before(q[j].due)
}

func (q taskQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *taskQueue) Push(x any) { *q = append(*q, x.(*task)) }

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return t
}

// Loop is a virtual-time event loop. The zero value is not usable; use New.
type Loop struct {
	now   time.Time
	seq   uint64
	queue taskQueue
	ran   int
}

// New creates a loop whose clock starts at start.
func New(start time.Time) *Loop {
	return &Loop{now: start}
}

// Now returns the loop's current virtual time.
func (l *Loop) Now() time.Time {
	return l.now
}

// After schedules run to execute once d has elapsed on the virtual clock.
// Negative delays are treated as zero.
func (l *Loop) After(d time.Duration, run func()) {
	if d < 0 {
		d = 0
	}
	l.seq++
	heap.Push(&l.queue, &task{due: l.now.Add(d), seq: l.seq, run: run})
}

// Pending returns the number of tasks that have not yet run.
func (l *Loop) Pending() int {
	return len(l.queue)
}

// Ran returns the total number of tasks executed so far.
func (l *Loop) Ran() int {
	return l.ran
}

// NextDue reports when the earliest pending task is due.
func (l *Loop) NextDue() (time.Time, bool) {
	if len(l.queue) == 0 {
		return time.Time{}, false
	}
	return l.queue[0].due, true
}

// Step runs the earliest pending task, moving the clock forward to its
// due time. It returns false when the queue is empty.
func (l *Loop) Step() bool {
	if len(l.queue) == 0 {
		return false
	}
	t := heap.Pop(&l.queue).(*task)
	if t.due.After(l.now) {
		l.now = t.due
	}
	l.ran++
	t.run()
	return true
}

// Advance moves the clock forward by d, running every task that falls due
// on the way. It returns the number of tasks executed.
func (l *Loop) Advance(d time.Duration) int {
	if d < 0 {
		d = 0
	}
	target := l.now.Add(d)
	n := 0
	for len(l.queue) > 0 && !l.queue[0].due.After(target) {
		l.Step()
		n++
	}
	l.now = target
	return n
}

// Flush runs tasks that are already due without moving the clock.
func (l *Loop) Flush() int {
	return l.Advance(0)
}
