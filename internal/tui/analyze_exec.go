package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	pbar "github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"audioprobe/internal/analysis"
	"audioprobe/internal/logger"
	"audioprobe/internal/progress"
)

// ErrCancelled is reported when the user quits before the analysis finishes
var ErrCancelled = errors.New("analysis cancelled")

// AnalyzeFunc performs the real request
type AnalyzeFunc func(ctx context.Context) (*analysis.Result, error)

// AnalyzeOptions configures an AnalyzeModel
type AnalyzeOptions struct {
	Name          string
	SizeBytes     float64 // normalized size for the label; 0 if unknown
	Estimated     time.Duration
	FrameInterval time.Duration
	Run           AnalyzeFunc
	Now           func() time.Time
}

type keyMap struct {
	Quit key.Binding
}

var analyzeKeys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "cancel"),
	),
}

type analysisDoneMsg struct {
	result *analysis.Result
	err    error
}

// AnalyzeModel shows an eased progress bar while an analysis request runs
type AnalyzeModel struct {
	ctx    context.Context
	cancel context.CancelFunc
	logger logger.Logger
	run    AnalyzeFunc
	now    func() time.Time

	name      string
	sizeBytes float64
	label     string

	frames *teaFrames
	sched  *progress.Scheduler
	bar    pbar.Model
	keys   keyMap

	state     progress.RunState
	status    string
	done      bool
	cancelled bool
	err       error
	result    *analysis.Result
	elapsed   time.Duration
}

// NewAnalyzeModel creates the model. The run starts in Init.
func NewAnalyzeModel(ctx context.Context, log logger.Logger, opts AnalyzeOptions) AnalyzeModel {
	if log == nil {
		log = logger.NewNullLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Estimated <= 0 {
		opts.Estimated = progress.DefaultEstimate
	}

	runCtx, cancel := context.WithCancel(ctx)
	frames := newTeaFrames(opts.FrameInterval)

	return AnalyzeModel{
		ctx:       runCtx,
		cancel:    cancel,
		logger:    log,
		run:       opts.Run,
		now:       opts.Now,
		name:      opts.Name,
		sizeBytes: opts.SizeBytes,
		label:     progress.Label(opts.Estimated, opts.SizeBytes),
		frames:    frames,
		sched: progress.NewScheduler(progress.SchedulerOptions{
			Frames: frames,
			Now:    opts.Now,
		}),
		bar:    pbar.New(pbar.WithDefaultGradient(), pbar.WithWidth(50)),
		keys:   analyzeKeys,
		status: "Uploading audio...",
		state:  progress.RunState{Estimated: opts.Estimated},
	}
}

func (m AnalyzeModel) Init() tea.Cmd {
	m.sched.Start(m.state.Estimated)
	return tea.Batch(m.runCmd(), m.frames.drain())
}

func (m AnalyzeModel) runCmd() tea.Cmd {
	ctx, run := m.ctx, m.run
	return func() tea.Msg {
		if run == nil {
			return analysisDoneMsg{err: errors.New("nothing to analyze")}
		}
		result, err := run(ctx)
		return analysisDoneMsg{result: result, err: err}
	}
}

func (m AnalyzeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		if !m.frames.fire(msg) {
			return m, nil
		}
		m.state = m.sched.Snapshot()
		m.status = m.statusFor(msg.at)
		return m, m.frames.drain()

	case analysisDoneMsg:
		if m.done {
			return m, nil
		}
		m.done = true
		if msg.err != nil {
			m.err = msg.err
			m.state = m.sched.Snapshot()
			m.elapsed = m.state.Elapsed(m.now())
			m.sched.Stop()
			m.status = fmt.Sprintf("❌ Analysis failed: %v", msg.err)
			m.logger.Debug("Analysis failed", "file", m.name, "error", msg.err)
		} else {
			m.result = msg.result
			m.state = m.sched.Complete()
			m.elapsed = m.state.Elapsed(m.now())
			m.status = "✅ Analysis complete"
			m.logger.Debug("Analysis finished", "file", m.name, "elapsed", m.elapsed)
		}
		m.cancel()
		return m, tea.Quit

	case tea.WindowSizeMsg:
		width := msg.Width - 4
		if width > 60 {
			width = 60
		}
		if width > 10 {
			m.bar.Width = width
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) && !m.done {
			m.done = true
			m.cancelled = true
			m.err = ErrCancelled
			m.state = m.sched.Snapshot()
			m.elapsed = m.state.Elapsed(m.now())
			m.sched.Stop()
			m.cancel()
			m.status = "Cancelled"
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m AnalyzeModel) statusFor(now time.Time) string {
	if m.state.Stalled(now) {
		return "Taking longer than expected, still working..."
	}
	switch f := m.state.Fraction; {
	case f < 0.1:
		return "Uploading audio..."
	case f < 0.45:
		return "Detecting voiced segments..."
	case f < 0.75:
		return "Measuring pitch and spatial cues..."
	default:
		return "Grouping speakers..."
	}
}

func (m AnalyzeModel) View() string {
	var s strings.Builder
	s.Grow(512)

	s.WriteString("\n")
	s.WriteString(titleStyle.Render("🎧 Audio Analysis"))
	s.WriteString("\n\n")

	s.WriteString(fmt.Sprintf("  %s %s\n", labelStyle.Render(fmt.Sprintf("%-10s", "File:")), m.name))
	if m.sizeBytes > 0 {
		s.WriteString(fmt.Sprintf("  %s %s\n", labelStyle.Render(fmt.Sprintf("%-10s", "Size:")), progress.FormatSize(m.sizeBytes)))
	}
	s.WriteString(fmt.Sprintf("  %s %s\n", labelStyle.Render(fmt.Sprintf("%-10s", "Estimate:")), m.label))

	elapsed := m.elapsed
	if !m.done {
		elapsed = m.sched.Snapshot().Elapsed(m.now())
	}
	s.WriteString(fmt.Sprintf("  %s %s\n\n", labelStyle.Render(fmt.Sprintf("%-10s", "Elapsed:")), progress.FormatDuration(elapsed)))

	s.WriteString("  " + m.bar.ViewAs(m.state.Fraction) + "\n\n")

	switch {
	case !m.done:
		frame := spinnerFrames[int(elapsed/(100*time.Millisecond))%len(spinnerFrames)]
		status := m.status
		if m.state.Stalled(m.now()) {
			status = warnStyle.Render(status)
		}
		s.WriteString(fmt.Sprintf("  %s %s\n", frame, status))
		s.WriteString("\n  " + infoStyle.Render(m.keys.Quit.Help().Key+": "+m.keys.Quit.Help().Desc) + "\n")
	case m.cancelled:
		s.WriteString("  " + warnStyle.Render(m.status) + "\n")
	case m.err != nil:
		s.WriteString("  " + errorStyle.Render(m.status) + "\n")
	default:
		s.WriteString("  " + successStyle.Render(m.status) + "\n\n")
		if m.result != nil {
			for _, line := range m.result.Summary() {
				s.WriteString("  " + line + "\n")
			}
		}
	}

	return s.String()
}

// Result returns the analysis result, or nil if the run did not succeed
func (m AnalyzeModel) Result() *analysis.Result {
	return m.result
}

// Err returns the failure, ErrCancelled if the user quit, or nil
func (m AnalyzeModel) Err() error {
	return m.err
}

// Elapsed returns the wall time of the finished run
func (m AnalyzeModel) Elapsed() time.Duration {
	return m.elapsed
}

// Estimated returns the estimate the run was animated against
func (m AnalyzeModel) Estimated() time.Duration {
	return m.state.Estimated
}

// RunAnalyze runs the model as a bubbletea program and returns the final model
func RunAnalyze(m AnalyzeModel, opts ...tea.ProgramOption) (AnalyzeModel, error) {
	p := tea.NewProgram(m, opts...)

	final, err := p.Run()
	if err != nil {
		m.cancel()
		return m, fmt.Errorf("error running analysis UI: %w", err)
	}

	fm, ok := final.(AnalyzeModel)
	if !ok {
		return m, fmt.Errorf("unexpected model type %T", final)
	}
	return fm, nil
}
