package progress

import (
	"context"
	"sync/atomic"
	"time"
)

// Task is the real work a run tracks
type Task func(ctx context.Context) error

// RunOptions configures Run
type RunOptions struct {
	Label     string
	Estimated time.Duration
	Frames    FrameScheduler // default TimerFrames at DefaultFrameInterval
	Now       func() time.Time
}

// Run animates ind while task executes. The bar eases toward the stall
// ceiling over the estimate and snaps to 100% when task returns nil.
// It returns the final run state and the task's error.
func Run(ctx context.Context, ind Indicator, opts RunOptions, task Task) (RunState, error) {
	if ind == nil {
		ind = NewNullIndicator()
	}

	var done atomic.Bool
	sched := NewScheduler(SchedulerOptions{
		Frames:  opts.Frames,
		Now:     opts.Now,
		Signal:  done.Load,
		OnFrame: ind.Render,
	})

	ind.Start(opts.Label)
	sched.Start(opts.Estimated)

	errCh := make(chan error, 1)
	go func() {
		errCh <- task(ctx)
	}()

	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		err = ctx.Err()
	}

	if err != nil {
		st := sched.Snapshot()
		sched.Stop()
		ind.Fail(err.Error())
		return st, err
	}

	done.Store(true)
	st := sched.Complete()
	ind.Complete("done in " + FormatDuration(st.Elapsed(sched.now())))
	return st, nil
}
