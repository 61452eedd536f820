package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// taskMsg carries a delayed task back into Update, where it runs on the
// program's goroutine like any other message.
type taskMsg struct {
	run func()
}

// scheduler implements particles.Scheduler on top of BubbleTea commands.
// Tasks scheduled during an Update call are collected and handed back
// to the runtime as a single batch when the call returns.
type scheduler struct {
	pending []tea.Cmd
}

// After queues task to be delivered as a taskMsg once d has elapsed.
func (s *scheduler) After(d time.Duration, task func()) {
	s.pending = append(s.pending, tea.Tick(d, func(time.Time) tea.Msg {
		return taskMsg{run: task}
	}))
}

// drain returns the queued timers as one command and resets the queue.
func (s *scheduler) drain() tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	cmds := s.pending
	s.pending = nil
	return tea.Batch(cmds...)
}
