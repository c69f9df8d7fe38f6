// Package progress renders count-up animations in the terminal.
package progress

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/ziadkadry99/youthsite/internal/motion"
)

// Reporter receives the values of a running counter.
type Reporter interface {
	Start(total int)
	Update(current int, message string)
	Finish()
}

// NewReporter returns a TerminalReporter if running in an interactive terminal,
// or a CIReporter if the CI environment variable is set.
func NewReporter(w io.Writer) Reporter {
	if w == nil {
		w = os.Stderr
	}
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIReporter{w: w}
	}
	return &TerminalReporter{w: w}
}

// TerminalReporter displays a progress bar in the terminal.
type TerminalReporter struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func (r *TerminalReporter) Start(total int) {
	if total <= 0 {
		total = 1
	}
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.w),
		progressbar.OptionSetDescription("Counting up"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
	)
}

func (r *TerminalReporter) Update(current int, message string) {
	if r.bar != nil {
		r.bar.Describe(message)
		_ = r.bar.Set(current)
	}
}

func (r *TerminalReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
		fmt.Fprintln(r.w)
	}
}

// CIReporter prints one line per distinct value, suitable for CI logs.
type CIReporter struct {
	w     io.Writer
	total int
	last  int
}

func (r *CIReporter) Start(total int) {
	r.total = total
	r.last = -1
	fmt.Fprintf(r.w, "Counting up to %d\n", total)
}

func (r *CIReporter) Update(current int, message string) {
	if current == r.last {
		return
	}
	r.last = current
	fmt.Fprintf(r.w, "[%d/%d] %s\n", current, r.total, message)
}

func (r *CIReporter) Finish() {
	fmt.Fprintln(r.w, "Count-up complete")
}

// CountUp runs a motion.CountUp toward end on scheduler and forwards every
// displayed value to reporter. It blocks until the final frame and returns
// the final value, or returns early with ctx's error.
func CountUp(ctx context.Context, reporter Reporter, scheduler motion.Scheduler, end float64, opts ...motion.CountUpOption) (int, error) {
	type update struct {
		value int
		final bool
	}
	updates := make(chan update, 64)
	done := make(chan struct{})
	defer close(done)

	var counter *motion.CountUp
	opts = append(opts, motion.WithOnUpdate(func(v int) {
		u := update{value: v, final: counter != nil && !counter.Running()}
		select {
		case updates <- u:
		default:
			// Intermediate frames may be dropped; the final one may not.
			if u.final {
				select {
				case updates <- u:
				case <-done:
				}
			}
		}
	}))
	counter = motion.NewCountUp(scheduler, opts...)

	reporter.Start(int(end))
	counter.Start(end)
	defer counter.Stop()

	for {
		select {
		case <-ctx.Done():
			reporter.Finish()
			return counter.Value(), ctx.Err()
		case u := <-updates:
			reporter.Update(u.value, counter.Display())
			if u.final {
				reporter.Finish()
				return u.value, nil
			}
		}
	}
}
