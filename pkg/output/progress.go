package output

import (
	"io"
	"sync"

	"github.com/cheggaaa/pb/v3"
)

// ProgressBar displays per-stage progress on a terminal. It implements
// ProgressReporter; PathDone may be called from many workers at once.
type ProgressBar struct {
	writer io.Writer

	mu  sync.Mutex
	bar *pb.ProgressBar
}

// NewProgressBar creates a progress reporter writing to w (typically
// stderr, so piped stdout stays clean)
func NewProgressBar(w io.Writer) *ProgressBar {
	return &ProgressBar{writer: w}
}

// StageStart finishes any previous bar and starts one for the new
// stage. Stages with nothing to process show no bar.
func (p *ProgressBar) StageStart(stage string, totalPaths int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar != nil {
		p.bar.Finish()
		p.bar = nil
	}
	if totalPaths == 0 {
		return
	}

	bar := pb.New(totalPaths)
	bar.SetWriter(p.writer)
	bar.Set("prefix", stage+" ")
	bar.Start()
	p.bar = bar
}

// PathDone advances the current bar by one path
func (p *ProgressBar) PathDone(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		p.bar.Increment()
	}
}

// Finish tears down the current bar
func (p *ProgressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		p.bar.Finish()
		p.bar = nil
	}
}

// NullProgress is a ProgressReporter that does nothing, used when
// progress display is disabled or output is not a terminal
type NullProgress struct{}

// StageStart does nothing
func (NullProgress) StageStart(stage string, totalPaths int) {}

// PathDone does nothing
func (NullProgress) PathDone(path string) {}

// Finish does nothing
func (NullProgress) Finish() {}
