package index

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// ProgressReporter observes an indexing run. Calls come from a single
// goroutine.
type ProgressReporter interface {
	Start(total int)
	FileDone(path string)
	Finish(stats Stats)
}

type NoopProgress struct{}

func (NoopProgress) Start(int)       {}
func (NoopProgress) FileDone(string) {}
func (NoopProgress) Finish(Stats)    {}

// BarProgress draws a progress bar and prints a summary line when done.
type BarProgress struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func NewBarProgress(w io.Writer) *BarProgress {
	return &BarProgress{w: w}
}

func (p *BarProgress) Start(total int) {
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.w),
		progressbar.OptionSetDescription("Indexing files"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(p.w)
		}),
	)
}

func (p *BarProgress) FileDone(string) {
	if p.bar != nil {
		_ = p.bar.Add(1)
	}
}

func (p *BarProgress) Finish(stats Stats) {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
	fmt.Fprintf(p.w, "%s\n", stats)
}
