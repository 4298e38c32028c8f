package progress

import (
	"sync"
	"time"
)

// DefaultFrameInterval approximates one display refresh
const DefaultFrameInterval = 16 * time.Millisecond

// Handle identifies a pending frame callback
type Handle uint64

// FrameScheduler runs a callback on a later frame.
// Schedule must not invoke fn synchronously. Cancel on a fired or
// unknown handle is a no-op.
type FrameScheduler interface {
	Schedule(fn func(now time.Time)) Handle
	Cancel(h Handle)
}

// TimerFrames schedules frames on timers at a fixed interval
type TimerFrames struct {
	interval time.Duration

	mu     sync.Mutex
	next   Handle
	timers map[Handle]*time.Timer
}

// NewTimerFrames creates a timer-backed frame scheduler
func NewTimerFrames(interval time.Duration) *TimerFrames {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &TimerFrames{
		interval: interval,
		timers:   make(map[Handle]*time.Timer),
	}
}

// Schedule arranges for fn to run after one frame interval
func (f *TimerFrames) Schedule(fn func(now time.Time)) Handle {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.next++
	h := f.next
	f.timers[h] = time.AfterFunc(f.interval, func() {
		f.mu.Lock()
		_, live := f.timers[h]
		delete(f.timers, h)
		f.mu.Unlock()

		if live {
			fn(time.Now())
		}
	})
	return h
}

// Cancel stops a pending frame
func (f *TimerFrames) Cancel(h Handle) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if t, ok := f.timers[h]; ok {
		t.Stop()
		delete(f.timers, h)
	}
}

// Pending returns the number of frames not yet fired or cancelled
func (f *TimerFrames) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.timers)
}
