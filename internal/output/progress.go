package output

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"golang.org/x/time/rate"

	"github.com/torosent/goku/internal/config"
	"github.com/torosent/goku/internal/metrics"
)

const progressRedrawInterval = 100 * time.Millisecond

// ProgressBar renders run progress on a single terminal line. In iteration
// mode it counts samples, in duration mode it follows the clock. It is
// driven from the collector goroutine and is not safe for concurrent use.
type ProgressBar struct {
	bar      progress.Model
	writer   io.Writer
	redraw   rate.Sometimes
	total    int
	duration time.Duration
	start    time.Time
	done     int
	closed   bool
}

// NewProgressBar sizes the bar for the run described by s.
func NewProgressBar(w io.Writer, s *config.Settings) *ProgressBar {
	if w == nil {
		w = io.Discard
	}
	term := s.Termination()
	p := &ProgressBar{
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(40), progress.WithoutPercentage()),
		writer: w,
		redraw: rate.Sometimes{Interval: progressRedrawInterval},
		start:  time.Now(),
	}
	if term.Mode == config.ByDuration {
		p.duration = term.Duration
	} else {
		p.total = s.ExpectedSamples()
	}
	return p
}

// Observe counts one sample and redraws at most every 100ms.
func (p *ProgressBar) Observe(metrics.Sample) {
	p.done++
	p.redraw.Do(p.render)
}

// Finish draws the final state and moves to a new line.
func (p *ProgressBar) Finish() {
	if p.closed {
		return
	}
	p.closed = true
	p.render()
	fmt.Fprintln(p.writer)
}

func (p *ProgressBar) fraction() float64 {
	var f float64
	if p.duration > 0 {
		f = float64(time.Since(p.start)) / float64(p.duration)
	} else if p.total > 0 {
		f = float64(p.done) / float64(p.total)
	}
	if f > 1 {
		f = 1
	}
	return f
}

func (p *ProgressBar) render() {
	if p.duration > 0 {
		fmt.Fprintf(p.writer, "\r%s %d requests %s", p.bar.ViewAs(p.fraction()), p.done,
			time.Since(p.start).Truncate(time.Second))
		return
	}
	fmt.Fprintf(p.writer, "\r%s %d/%d", p.bar.ViewAs(p.fraction()), p.done, p.total)
}
