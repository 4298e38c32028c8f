package progress

import (
	"sync"
	"time"
)

// State is the lifecycle of a progress run
type State int

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	default:
		return "idle"
	}
}

// RunState is the animation state of a single run
type RunState struct {
	StartTime time.Time
	Estimated time.Duration
	Completed bool
	Fraction  float64
}

// Elapsed returns the time since the run started, as seen at now
func (r RunState) Elapsed(now time.Time) time.Duration {
	if r.StartTime.IsZero() {
		return 0
	}
	return now.Sub(r.StartTime)
}

// Stalled reports whether the estimate is used up without completion
func (r RunState) Stalled(now time.Time) bool {
	return !r.Completed && TimeProgress(r.Elapsed(now), r.Estimated) >= 1
}

// SchedulerOptions configures a Scheduler
type SchedulerOptions struct {
	// Frames drives ticks. Default: TimerFrames at DefaultFrameInterval
	Frames FrameScheduler

	// Now is the clock. Default: time.Now
	Now func() time.Time

	// Signal reports whether the real task has finished.
	// It is polled on every frame.
	Signal func() bool

	// OnFrame observes the state after every applied tick.
	// It is called without internal locks held.
	OnFrame func(RunState)
}

// Scheduler animates the progress of one run at a time.
// At most one frame is pending; frames belonging to a stopped or
// restarted run are discarded.
type Scheduler struct {
	frames  FrameScheduler
	now     func() time.Time
	signal  func() bool
	onFrame func(RunState)

	mu         sync.Mutex
	state      State
	run        *RunState
	gen        uint64
	pending    Handle
	hasPending bool
}

// NewScheduler creates an idle scheduler
func NewScheduler(opts SchedulerOptions) *Scheduler {
	if opts.Frames == nil {
		opts.Frames = NewTimerFrames(DefaultFrameInterval)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Scheduler{
		frames:  opts.Frames,
		now:     opts.Now,
		signal:  opts.Signal,
		onFrame: opts.OnFrame,
	}
}

// Start begins a new run, discarding any previous one
func (s *Scheduler) Start(estimated time.Duration) {
	if estimated <= 0 {
		estimated = DefaultEstimate
	}

	s.mu.Lock()
	s.cancelLocked()
	s.gen++
	s.run = &RunState{
		StartTime: s.now(),
		Estimated: estimated,
	}
	s.state = StateRunning
	s.scheduleLocked()
	s.mu.Unlock()
}

// SetEstimate restarts the run only if estimated differs from the current one.
// It returns true when a new run was started.
func (s *Scheduler) SetEstimate(estimated time.Duration) bool {
	if estimated <= 0 {
		estimated = DefaultEstimate
	}

	s.mu.Lock()
	same := s.run != nil && s.run.Estimated == estimated
	s.mu.Unlock()

	if same {
		return false
	}
	s.Start(estimated)
	return true
}

// Tick applies one animation step at now.
// The pending frame is kept; a completing tick cancels it.
func (s *Scheduler) Tick(now time.Time, completed bool) RunState {
	s.mu.Lock()
	if s.state != StateRunning {
		st := s.snapshotLocked()
		s.mu.Unlock()
		return st
	}

	st := s.tickLocked(now, completed)
	if s.state == StateRunning && !s.hasPending {
		s.scheduleLocked()
	}
	obs := s.onFrame
	s.mu.Unlock()

	if obs != nil {
		obs(st)
	}
	return st
}

// Complete applies the completing tick immediately
func (s *Scheduler) Complete() RunState {
	return s.Tick(s.now(), true)
}

// Stop cancels the pending frame and discards the run
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked()
	s.gen++
	s.run = nil
	s.state = StateIdle
}

// State returns the lifecycle state
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot returns a copy of the current run state.
// An idle scheduler returns the zero RunState.
func (s *Scheduler) Snapshot() RunState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Fraction returns the current progress in [0,1]
func (s *Scheduler) Fraction() float64 {
	return s.Snapshot().Fraction
}

func (s *Scheduler) frame(gen uint64, now time.Time) {
	s.mu.Lock()
	if gen != s.gen || s.state != StateRunning {
		s.mu.Unlock()
		return
	}
	s.hasPending = false

	completed := s.signal != nil && s.signal()
	st := s.tickLocked(now, completed)
	if s.state == StateRunning {
		s.scheduleLocked()
	}
	obs := s.onFrame
	s.mu.Unlock()

	if obs != nil {
		obs(st)
	}
}

func (s *Scheduler) tickLocked(now time.Time, completed bool) RunState {
	run := s.run
	t := TimeProgress(run.Elapsed(now), run.Estimated)

	fraction := FractionAt(t, completed)
	if fraction < run.Fraction {
		// clock went backwards; never move the bar back
		fraction = run.Fraction
	}
	run.Fraction = fraction

	if completed {
		run.Completed = true
		run.Fraction = 1
		s.state = StateCompleted
		s.cancelLocked()
	}

	return *run
}

func (s *Scheduler) scheduleLocked() {
	gen := s.gen
	s.pending = s.frames.Schedule(func(now time.Time) {
		s.frame(gen, now)
	})
	s.hasPending = true
}

func (s *Scheduler) cancelLocked() {
	if s.hasPending {
		s.frames.Cancel(s.pending)
		s.hasPending = false
	}
}

func (s *Scheduler) snapshotLocked() RunState {
	if s.run == nil {
		return RunState{}
	}
	return *s.run
}
