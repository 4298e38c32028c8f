package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Indicator renders a run for non-interactive output
type Indicator interface {
	Start(label string)
	Render(state RunState)
	Complete(message string)
	Fail(message string)
	Stop()
}

// ProgressBar redraws a single-line text bar on every frame
type ProgressBar struct {
	mu      sync.Mutex
	writer  io.Writer
	label   string
	width   int
	active  bool
	lastPct int
}

// NewProgressBar creates a new progress bar
func NewProgressBar(w io.Writer) *ProgressBar {
	if w == nil {
		w = os.Stdout
	}
	return &ProgressBar{
		writer:  w,
		width:   40,
		lastPct: -1,
	}
}

// Start begins the progress bar
func (p *ProgressBar) Start(label string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.label = label
	p.active = true
	p.lastPct = -1
	p.renderLocked(0)
}

// Render draws the bar for state. Frames that do not change the
// whole-percent value are skipped.
func (p *ProgressBar) Render(state RunState) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.active {
		return
	}
	p.renderLocked(state.Fraction)
}

// Complete finishes the progress bar
func (p *ProgressBar) Complete(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.active {
		p.renderLocked(1)
	}
	fmt.Fprintf(p.writer, " ✅ %s\n", message)
	p.active = false
}

// Fail stops the progress bar with failure
func (p *ProgressBar) Fail(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.writer, " ❌ %s\n", message)
	p.active = false
}

// Stop stops the progress bar
func (p *ProgressBar) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active = false
}

func (p *ProgressBar) renderLocked(fraction float64) {
	pct := int(fraction * 100)
	if pct == p.lastPct {
		return
	}
	p.lastPct = pct

	fmt.Fprintf(p.writer, "\r%s [%s] %3d%%", p.label, RenderBar(fraction, p.width), pct)
}

// RenderBar draws fraction as a bar of width cells
func RenderBar(fraction float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(clamp01(fraction) * float64(width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// LineByLine prints one line per progress milestone
type LineByLine struct {
	mu       sync.Mutex
	writer   io.Writer
	step     int
	reported int
}

// NewLineByLine creates a line-by-line indicator reporting every 10%
func NewLineByLine(w io.Writer) *LineByLine {
	if w == nil {
		w = os.Stdout
	}
	return &LineByLine{
		writer: w,
		step:   10,
	}
}

// Start shows the initial message
func (l *LineByLine) Start(label string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.reported = 0
	fmt.Fprintf(l.writer, "\n🔄 %s\n", label)
}

// Render prints a line whenever a new milestone is crossed
func (l *LineByLine) Render(state RunState) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if state.Completed {
		return
	}
	pct := int(state.Fraction*100) / l.step * l.step
	if pct <= l.reported {
		return
	}
	l.reported = pct
	fmt.Fprintf(l.writer, "   %d%%\n", pct)
}

// Complete shows completion message
func (l *LineByLine) Complete(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.writer, "✅ %s\n\n", message)
}

// Fail shows failure message
func (l *LineByLine) Fail(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.writer, "❌ %s\n\n", message)
}

// Stop does nothing for line-by-line (no cleanup needed)
func (l *LineByLine) Stop() {}

// NewIndicator creates an indicator for non-interactive output.
// Unknown types fall back to line-by-line.
func NewIndicator(indicatorType string, w io.Writer) Indicator {
	switch indicatorType {
	case "bar":
		return NewProgressBar(w)
	case "line":
		return NewLineByLine(w)
	case "none":
		return NewNullIndicator()
	default:
		return NewLineByLine(w)
	}
}

// NullIndicator is a no-op indicator that produces no output
type NullIndicator struct{}

// NewNullIndicator creates an indicator that does nothing
func NewNullIndicator() *NullIndicator {
	return &NullIndicator{}
}

func (n *NullIndicator) Start(label string)      {}
func (n *NullIndicator) Render(state RunState)   {}
func (n *NullIndicator) Complete(message string) {}
func (n *NullIndicator) Fail(message string)     {}
func (n *NullIndicator) Stop()                   {}
