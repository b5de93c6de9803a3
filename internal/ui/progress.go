package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/progress"

	"scalebench/internal/benchmark"
)

const barWidth = 30

// Progress redraws a single status line for each completed run.
type Progress struct {
	w     io.Writer
	bar   progress.Model
	now   func() time.Time
	start time.Time
	total int
	done  int
}

// NewProgress returns an Observer drawing to w, usually stderr.
func NewProgress(w io.Writer) *Progress {
	return &Progress{
		w:   w,
		bar: progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth), progress.WithoutPercentage()),
		now: time.Now,
	}
}

func (p *Progress) Start(plan []benchmark.Key) {
	p.total = len(plan)
	p.done = 0
	p.start = p.now()
}

func (p *Progress) Done(k benchmark.Key, seconds float64) {
	p.done++
	percent := 1.0
	if p.total > 0 {
		percent = float64(p.done) / float64(p.total)
	}
	elapsed := p.now().Sub(p.start).Round(time.Second)
	fmt.Fprintf(p.w, "\r%s %s %s %s",
		counterStyle.Render(fmt.Sprintf("[%d/%d]", p.done, p.total)),
		p.bar.ViewAs(percent),
		keyStyle.Render(fmt.Sprintf("%s %.4gs", k, seconds)),
		mutedStyle.Render(elapsed.String()))
}

func (p *Progress) Finish() {
	if p.done > 0 {
		fmt.Fprintln(p.w)
	}
}

type nopObserver struct{}

func (nopObserver) Start([]benchmark.Key)       {}
func (nopObserver) Done(benchmark.Key, float64) {}
func (nopObserver) Finish()                     {}

// NopObserver discards progress, for --quiet and non-terminal output.
var NopObserver benchmark.Observer = nopObserver{}
