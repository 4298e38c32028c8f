package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"audioprobe/internal/progress"
)

// frameMsg is delivered when a scheduled frame is due
type frameMsg struct {
	handle progress.Handle
	at     time.Time
}

// teaFrames is a progress.FrameScheduler driven by the bubbletea event loop.
// Schedule queues a tea.Tick command; the model returns it from Update via
// drain and hands the resulting frameMsg back through fire. Frames cancelled
// in the meantime still arrive and are dropped.
//
// Only the program goroutine touches teaFrames.
type teaFrames struct {
	interval  time.Duration
	next      progress.Handle
	callbacks map[progress.Handle]func(time.Time)
	queued    []tea.Cmd
}

func newTeaFrames(interval time.Duration) *teaFrames {
	if interval <= 0 {
		interval = progress.DefaultFrameInterval
	}
	return &teaFrames{
		interval:  interval,
		callbacks: make(map[progress.Handle]func(time.Time)),
	}
}

func (f *teaFrames) Schedule(fn func(now time.Time)) progress.Handle {
	f.next++
	h := f.next
	f.callbacks[h] = fn
	f.queued = append(f.queued, tea.Tick(f.interval, func(t time.Time) tea.Msg {
		return frameMsg{handle: h, at: t}
	}))
	return h
}

func (f *teaFrames) Cancel(h progress.Handle) {
	delete(f.callbacks, h)
}

// fire runs the callback for msg, reporting false for stale frames
func (f *teaFrames) fire(msg frameMsg) bool {
	fn, ok := f.callbacks[msg.handle]
	if !ok {
		return false
	}
	delete(f.callbacks, msg.handle)
	fn(msg.at)
	return true
}

// drain returns the commands queued since the last call
func (f *teaFrames) drain() tea.Cmd {
	if len(f.queued) == 0 {
		return nil
	}
	cmds := f.queued
	f.queued = nil
	return tea.Batch(cmds...)
}
