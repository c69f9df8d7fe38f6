package motion

import (
	"sync"
	"time"
)

// DefaultViewportThreshold is the fraction of a target that must be visible
// before its entrance animation plays.
const DefaultViewportThreshold = 0.1

// Target identifies an observed element.
type Target string

// IntersectionChange reports how much of a target is inside the viewport.
type IntersectionChange struct {
	Ratio float64
}

// IntersectionSource is the platform's visibility primitive. Subscribe
// returns a stream of changes for target and a function that ends the
// subscription.
type IntersectionSource interface {
	Subscribe(target Target) (<-chan IntersectionChange, func())
}

// Observer is the one-shot visibility contract consumers depend on.
type Observer interface {
	Observe(target Target, onFirstVisible func())
	Dispose()
}

// Trigger fires once, the first time its target reaches the threshold.
type Trigger struct {
	source    IntersectionSource
	threshold float64

	mu        sync.Mutex
	visible   bool
	observing bool
	disposed  bool
	cancel    func()
	done      chan struct{}
}

var _ Observer = (*Trigger)(nil)

// NewTrigger creates a trigger backed by source. A nil source means the
// platform has no intersection primitive; the trigger then treats every
// target as visible.
func NewTrigger(source IntersectionSource, threshold float64) *Trigger {
	return &Trigger{source: source, threshold: clamp(threshold, 0, 1)}
}

// Threshold returns the effective threshold after clamping.
func (t *Trigger) Threshold() float64 {
	return t.threshold
}

// Visible reports whether the target has been seen.
func (t *Trigger) Visible() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.visible
}

// Observe starts watching target. onFirstVisible runs at most once. Calls
// after the trigger fired, was disposed, or is already observing are
// ignored.
func (t *Trigger) Observe(target Target, onFirstVisible func()) {
	t.mu.Lock()
	if t.visible || t.disposed || t.observing {
		t.mu.Unlock()
		return
	}
	if t.source == nil {
		t.visible = true
		t.mu.Unlock()
		if onFirstVisible != nil {
			onFirstVisible()
		}
		return
	}

	changes, cancel := t.source.Subscribe(target)
	done := make(chan struct{})
	t.cancel = cancel
	t.done = done
	t.observing = true
	t.mu.Unlock()

	go t.watch(changes, done, onFirstVisible)
}

func (t *Trigger) watch(changes <-chan IntersectionChange, done <-chan struct{}, onFirstVisible func()) {
	for {
		select {
		case <-done:
			return
		case c, ok := <-changes:
			if !ok {
				return
			}
			if t.offer(c) {
				if onFirstVisible != nil {
					onFirstVisible()
				}
				return
			}
		}
	}
}

// offer applies one change and reports whether it fired the trigger.
func (t *Trigger) offer(c IntersectionChange) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.visible || t.disposed || c.Ratio < t.threshold {
		return false
	}
	t.visible = true
	t.disconnectLocked()
	return true
}

// Dispose stops observing. It is safe to call more than once.
func (t *Trigger) Dispose() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.disposed = true
	t.disconnectLocked()
}

func (t *Trigger) disconnectLocked() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	if t.done != nil {
		close(t.done)
		t.done = nil
	}
	t.observing = false
}

// PollingSource backs IntersectionSource with a periodic probe, for
// runtimes that have no native intersection callback.
type PollingSource struct {
	probe    func(Target) float64
	interval time.Duration
}

// NewPollingSource creates a source that calls probe every interval.
// A non-positive interval defaults to 100ms.
func NewPollingSource(probe func(Target) float64, interval time.Duration) *PollingSource {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &PollingSource{probe: probe, interval: interval}
}

func (p *PollingSource) Subscribe(target Target) (<-chan IntersectionChange, func()) {
	ch := make(chan IntersectionChange)
	stop := make(chan struct{})
	var once sync.Once

	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				select {
				case ch <- IntersectionChange{Ratio: p.probe(target)}:
				case <-stop:
					return
				}
			}
		}
	}()

	return ch, func() { once.Do(func() { close(stop) }) }
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
