package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// ProgressReporter reports progress of a sequence of steps.
type ProgressReporter interface {
	Update(done, total int)
	Finish()
	Error(err error)
}

// SimpleProgress draws a single-line progress bar.
type SimpleProgress struct {
	mu     sync.Mutex
	label  string
	done   int
	total  int
	writer io.Writer
}

// NewProgressReporter creates a reporter that writes to w, or os.Stderr
// when w is nil.
func NewProgressReporter(w io.Writer, label string) *SimpleProgress {
	if w == nil {
		w = os.Stderr
	}
	return &SimpleProgress{writer: w, label: label}
}

// Update records progress and redraws the bar.
func (p *SimpleProgress) Update(done, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done, p.total = done, total
	p.render()
}

// Finish ends the progress line.
func (p *SimpleProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.total > 0 {
		fmt.Fprintln(p.writer)
	}
}

// Error ends the progress line with err.
func (p *SimpleProgress) Error(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.writer, "\n✗ %v\n", err)
}

func (p *SimpleProgress) render() {
	if p.total <= 0 {
		return
	}
	const width = 20
	filled := width * p.done / p.total
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	fmt.Fprintf(p.writer, "\r%s [%s] %d/%d", p.label, bar, p.done, p.total)
}
