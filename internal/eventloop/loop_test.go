package eventloop

import (
	"testing"
	"time"

	"github.com/Mr-Dark-debug/hearts/pkg/timeutil"
)

func TestAdvanceRunsDueTasksInOrder(t *testing.T) {
	l := New(timeutil.Epoch)

	var order []string
	l.After(30*time.Millisecond, func() { order = append(order, "c") })
	l.After(10*time.Millisecond, func() { order = append(order, "a") })
	l.After(20*time.Millisecond, func() { order = append(order, "b") })
	l.After(40*time.Millisecond, func() { order = append(order, "late") })

	if n := l.Advance(30 * time.Millisecond); n != 3 {
		t.Fatalf("expected 3 tasks to run, got %d", n)
	}
	want := []string{"a", "b", "c"}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("task %d: expected %s, got %s", i, want[i], order[i])
		}
	}
	if l.Pending() != 1 {
		t.Errorf("expected 1 pending task, got %d", l.Pending())
	}
	if got := l.Now().Sub(timeutil.Epoch); got != 30*time.Millisecond {
		t.Errorf("expected clock at +30ms, got %v", got)
	}
}

func TestEqualDueTimesKeepScheduleOrder(t *testing.T) {
	l := New(timeutil.Epoch)

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		l.After(0, func() { order = append(order, i) })
	}
	l.Flush()

	for i, v := range order {
		if v != i {
			t.Fatalf("expected FIFO order, got %v", order)
		}
	}
}

func TestTaskSeesItsDueTime(t *testing.T) {
	l := New(timeutil.Epoch)

	var seen time.Duration
	l.After(3500*time.Millisecond, func() { seen = l.Now().Sub(timeutil.Epoch) })
	l.Advance(10 * time.Second)

	if seen != 3500*time.Millisecond {
		t.Errorf("expected task to observe +3.5s, got %v", seen)
	}
}

func TestNestedSchedulingWithinWindow(t *testing.T) {
	l := New(timeutil.Epoch)

	ticks := 0
	var tick func()
	tick = func() {
		ticks++
		l.After(time.Second, tick)
	}
	l.After(time.Second, tick)

	l.Advance(5 * time.Second)
	if ticks != 5 {
		t.Errorf("expected 5 ticks in 5s, got %d", ticks)
	}
	if l.Pending() != 1 {
		t.Errorf("expected the next tick to stay queued, got %d pending", l.Pending())
	}
}

func TestNegativeDelayRunsImmediately(t *testing.T) {
	l := New(timeutil.Epoch)

	ran := false
	l.After(-time.Second, func() { ran = true })
	l.Flush()
	if !ran {
		t.Error("expected negative delay to be treated as zero")
	}
}

func TestStepOnEmptyQueue(t *testing.T) {
	l := New(timeutil.Epoch)
	if l.Step() {
		t.Error("expected Step to report an empty queue")
	}
	if _, ok := l.NextDue(); ok {
		t.Error("expected no next due time")
	}
}
