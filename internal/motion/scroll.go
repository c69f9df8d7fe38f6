package motion

import (
	"context"
	"errors"
	"math"
	"sync"
)

// Defaults for the scroll-driven effects. Zones are fractions of the
// viewport height.
const (
	DefaultNavThreshold = 100.0
	DefaultSafeZone     = 0.4
	DefaultFadeZone     = 0.2
)

// NavVisible derives navbar visibility from two consecutive offsets.
// Scrolling down past threshold hides it; any upward scroll shows it.
func NavVisible(prev, current, threshold float64, wasVisible bool) bool {
	switch {
	case current > prev && current > threshold:
		return false
	case current < prev:
		return true
	default:
		return wasVisible
	}
}

// Grayscale returns the desaturation percentage for an image whose center
// is distance away from the viewport center, using the default zones.
func Grayscale(distance, viewportHeight float64) float64 {
	return GrayscaleZones(distance, viewportHeight, DefaultSafeZone, DefaultFadeZone)
}

// GrayscaleZones is Grayscale with explicit safe and fade fractions.
// The result is always within [0, 100].
func GrayscaleZones(distance, viewportHeight, safeZone, fadeZone float64) float64 {
	if viewportHeight <= 0 {
		return 0
	}
	safe := safeZone * viewportHeight
	fade := fadeZone * viewportHeight
	d := math.Abs(distance)
	if fade <= 0 {
		if d > safe {
			return 100
		}
		return 0
	}
	return clamp((d-safe)/fade, 0, 1) * 100
}

// CenterDistance is the distance between an element's vertical center and
// the viewport's. elementTop is relative to the top of the viewport.
func CenterDistance(elementTop, elementHeight, viewportHeight float64) float64 {
	return math.Abs(elementTop + elementHeight/2 - viewportHeight/2)
}

// ScrollEvent is one scroll observation.
type ScrollEvent struct {
	Offset         float64
	ViewportHeight float64
}

// ScrollSource delivers scroll events. Current returns the position at
// subscription time so initial state can be computed before any scroll.
type ScrollSource interface {
	Subscribe() (<-chan ScrollEvent, func())
	Current() ScrollEvent
}

// ElementBox is an element's position in document coordinates.
type ElementBox struct {
	Top    float64
	Height float64
}

// ScrollState is the state derived from the latest scroll event.
type ScrollState struct {
	Offset     float64
	LastOffset float64
	NavVisible bool
	Grayscale  map[string]float64
}

// ErrTrackerStarted is returned by Start on a running tracker.
var ErrTrackerStarted = errors.New("motion: tracker already started")

// Tracker derives navbar visibility and per-image grayscale from scroll
// events. Each instance is independent.
type Tracker struct {
	source       ScrollSource
	navThreshold float64
	safeZone     float64
	fadeZone     float64
	onChange     func(ScrollState)

	mu       sync.Mutex
	images   map[string]ElementBox
	state    ScrollState
	viewport float64
	cancel   func()
	stopped  chan struct{}
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithNavThreshold sets the offset below which the navbar never hides.
func WithNavThreshold(px float64) TrackerOption {
	return func(t *Tracker) { t.navThreshold = px }
}

// WithZones overrides the grayscale safe and fade fractions.
func WithZones(safe, fade float64) TrackerOption {
	return func(t *Tracker) {
		t.safeZone = safe
		t.fadeZone = fade
	}
}

// WithImage registers an image for grayscale tracking.
func WithImage(id string, box ElementBox) TrackerOption {
	return func(t *Tracker) { t.images[id] = box }
}

// WithOnChange registers a callback invoked after every recomputation.
func WithOnChange(fn func(ScrollState)) TrackerOption {
	return func(t *Tracker) { t.onChange = fn }
}

// NewTracker creates a stopped tracker over source.
func NewTracker(source ScrollSource, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		source:       source,
		navThreshold: DefaultNavThreshold,
		safeZone:     DefaultSafeZone,
		fadeZone:     DefaultFadeZone,
		images:       make(map[string]ElementBox),
		state:        ScrollState{NavVisible: true},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Register adds or moves an image after construction.
func (t *Tracker) Register(id string, box ElementBox) {
	t.mu.Lock()
	t.images[id] = box
	if t.viewport > 0 {
		t.state.Grayscale = t.grayscaleLocked(t.state.Offset, t.viewport)
	}
	t.mu.Unlock()
}

// Start subscribes to the source, computes the initial state and then
// recomputes on every event until ctx ends or Stop is called.
func (t *Tracker) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.stopped != nil {
		select {
		case <-t.stopped:
		default:
			t.mu.Unlock()
			return ErrTrackerStarted
		}
	}
	events, cancel := t.source.Subscribe()
	stopped := make(chan struct{})
	t.cancel = cancel
	t.stopped = stopped

	cur := t.source.Current()
	t.viewport = cur.ViewportHeight
	t.state = ScrollState{
		Offset:     cur.Offset,
		LastOffset: cur.Offset,
		NavVisible: true,
		Grayscale:  t.grayscaleLocked(cur.Offset, cur.ViewportHeight),
	}
	snapshot := t.snapshotLocked()
	t.mu.Unlock()

	t.emit(snapshot)

	go func() {
		for {
			select {
			case <-ctx.Done():
				t.Stop()
				return
			case <-stopped:
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				if _, applied := t.feed(ev, stopped); !applied {
					return
				}
			}
		}
	}()
	return nil
}

// Stop ends the subscription. It is safe to call more than once.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	if t.stopped != nil {
		select {
		case <-t.stopped:
		default:
			close(t.stopped)
		}
	}
}

// Feed applies one scroll event synchronously.
func (t *Tracker) Feed(ev ScrollEvent) ScrollState {
	s, _ := t.feed(ev, nil)
	return s
}

// feed applies ev unless stopped is closed. An event still buffered when
// Stop runs must not change state or reach onChange.
func (t *Tracker) feed(ev ScrollEvent, stopped chan struct{}) (ScrollState, bool) {
	t.mu.Lock()
	if stopped != nil {
		select {
		case <-stopped:
			snapshot := t.snapshotLocked()
			t.mu.Unlock()
			return snapshot, false
		default:
		}
	}
	prev := t.state.Offset
	if ev.ViewportHeight > 0 {
		t.viewport = ev.ViewportHeight
	}
	t.state = ScrollState{
		Offset:     ev.Offset,
		LastOffset: prev,
		NavVisible: NavVisible(prev, ev.Offset, t.navThreshold, t.state.NavVisible),
		Grayscale:  t.grayscaleLocked(ev.Offset, t.viewport),
	}
	snapshot := t.snapshotLocked()
	t.mu.Unlock()

	t.emit(snapshot)
	return snapshot, true
}

// State returns a copy of the current state.
func (t *Tracker) State() ScrollState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Tracker) grayscaleLocked(offset, viewport float64) map[string]float64 {
	out := make(map[string]float64, len(t.images))
	for id, box := range t.images {
		d := CenterDistance(box.Top-offset, box.Height, viewport)
		out[id] = GrayscaleZones(d, viewport, t.safeZone, t.fadeZone)
	}
	return out
}

func (t *Tracker) snapshotLocked() ScrollState {
	s := t.state
	s.Grayscale = make(map[string]float64, len(t.state.Grayscale))
	for k, v := range t.state.Grayscale {
		s.Grayscale[k] = v
	}
	return s
}

func (t *Tracker) emit(s ScrollState) {
	if t.onChange != nil {
		t.onChange(s)
	}
}
