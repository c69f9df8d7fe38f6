package motion

import (
	"math"
	"strconv"
	"sync"
	"time"
)

// DefaultCountUpDuration is used when no duration is configured.
const DefaultCountUpDuration = 2000 * time.Millisecond

// EaseOutQuart is 1-(1-x)^4: fast at the start, settling toward 1.
func EaseOutQuart(x float64) float64 {
	return 1 - math.Pow(1-x, 4)
}

// ValueAt returns the counter value elapsed into an animation toward end.
// Once elapsed reaches duration the result is exactly floor(end).
func ValueAt(elapsed, end float64, duration float64) float64 {
	if duration <= 0 {
		return math.Floor(end)
	}
	progress := elapsed / duration
	if progress >= 1 {
		return math.Floor(end)
	}
	if progress < 0 {
		progress = 0
	}
	return math.Floor(EaseOutQuart(progress) * end)
}

// FrameID identifies a scheduled frame callback.
type FrameID uint64

// Scheduler adapts a platform's per-frame callback mechanism.
type Scheduler interface {
	RequestFrame(fn func(now time.Time)) FrameID
	CancelFrame(id FrameID)
}

// CountUp animates a displayed integer from 0 to a target value.
type CountUp struct {
	scheduler Scheduler
	duration  time.Duration
	suffix    string
	onUpdate  func(value int)

	mu      sync.Mutex
	end     float64
	value   int
	running bool
	started time.Time
	frame   FrameID
	run     uint64
}

// CountUpOption configures a CountUp.
type CountUpOption func(*CountUp)

// WithDuration sets the wall-clock length of the animation.
func WithDuration(d time.Duration) CountUpOption {
	return func(c *CountUp) { c.duration = d }
}

// WithSuffix sets the text appended by Display, such as "%" or "K+".
func WithSuffix(s string) CountUpOption {
	return func(c *CountUp) { c.suffix = s }
}

// WithOnUpdate registers a callback that receives every displayed value.
func WithOnUpdate(fn func(value int)) CountUpOption {
	return func(c *CountUp) { c.onUpdate = fn }
}

// NewCountUp creates an idle counter driven by scheduler.
func NewCountUp(scheduler Scheduler, opts ...CountUpOption) *CountUp {
	c := &CountUp{scheduler: scheduler, duration: DefaultCountUpDuration}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start runs the animation toward end. The displayed value always restarts
// at 0, even when a previous run already finished.
func (c *CountUp) Start(end float64) {
	c.mu.Lock()
	if c.running {
		c.scheduler.CancelFrame(c.frame)
	}
	c.run++
	run := c.run
	c.end = end
	c.value = 0
	c.started = time.Time{}
	c.running = true
	c.frame = c.scheduler.RequestFrame(func(now time.Time) { c.step(run, now) })
	c.mu.Unlock()

	c.notify(0)
}

func (c *CountUp) step(run uint64, now time.Time) {
	c.mu.Lock()
	if run != c.run || !c.running {
		c.mu.Unlock()
		return
	}
	if c.started.IsZero() {
		c.started = now
	}
	elapsed := float64(now.Sub(c.started)) / float64(time.Millisecond)
	duration := float64(c.duration) / float64(time.Millisecond)

	v := int(ValueAt(elapsed, c.end, duration))
	if elapsed >= duration || duration <= 0 {
		// Final frame lands on the target itself, not the curve's estimate.
		v = int(math.Floor(c.end))
		c.running = false
	} else {
		c.frame = c.scheduler.RequestFrame(func(now time.Time) { c.step(run, now) })
	}
	c.value = v
	c.mu.Unlock()

	c.notify(v)
}

func (c *CountUp) notify(v int) {
	if c.onUpdate != nil {
		c.onUpdate(v)
	}
}

// Stop cancels the pending frame. No updates are delivered afterwards.
func (c *CountUp) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		c.scheduler.CancelFrame(c.frame)
	}
	c.running = false
	c.run++
}

// Value returns the currently displayed integer.
func (c *CountUp) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Display returns the value with its suffix.
func (c *CountUp) Display() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return strconv.Itoa(c.value) + c.suffix
}

// Running reports whether frames are still scheduled.
func (c *CountUp) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Duration returns the configured animation length.
func (c *CountUp) Duration() time.Duration {
	return c.duration
}
