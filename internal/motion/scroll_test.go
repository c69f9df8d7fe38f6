package motion

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestNavVisibleSequence(t *testing.T) {
	offsets := []float64{0, 50, 150, 120}
	want := []bool{true, true, false, true}

	visible := true
	prev := 0.0
	for i, off := range offsets {
		visible = NavVisible(prev, off, 100, visible)
		if visible != want[i] {
			t.Errorf("offset %v: visible = %v, want %v", off, visible, want[i])
		}
		prev = off
	}
}

func TestNavVisibleUpwardAlwaysShows(t *testing.T) {
	if !NavVisible(5000, 4999, 100, false) {
		t.Error("scrolling up far down the page should show the navbar")
	}
	if NavVisible(300, 300, 100, false) {
		t.Error("no movement should keep the previous state")
	}
}

func TestGrayscale(t *testing.T) {
	const vh = 1000.0
	if got := Grayscale(0, vh); got != 0 {
		t.Errorf("Grayscale(0) = %v, want 0", got)
	}
	if got := Grayscale(400, vh); got != 0 {
		t.Errorf("Grayscale(safe) = %v, want 0", got)
	}
	if got := Grayscale(500, vh); got != 50 {
		t.Errorf("Grayscale(safe+fade/2) = %v, want 50", got)
	}
	if got := Grayscale(600, vh); got != 100 {
		t.Errorf("Grayscale(safe+fade) = %v, want 100", got)
	}
	if got := Grayscale(-600, vh); got != 100 {
		t.Errorf("Grayscale(-(safe+fade)) = %v, want 100", got)
	}
	if got := Grayscale(100, 0); got != 0 {
		t.Errorf("zero viewport should give 0, got %v", got)
	}
}

func TestGrayscaleMonotoneAndClamped(t *testing.T) {
	const vh = 800.0
	prev := 0.0
	for d := 0.0; d <= 2000; d += 3 {
		g := Grayscale(d, vh)
		if g < 0 || g > 100 {
			t.Fatalf("Grayscale(%v) = %v out of range", d, g)
		}
		if d > 0.4*vh && g < prev {
			t.Fatalf("Grayscale decreased at %v: %v -> %v", d, prev, g)
		}
		prev = g
	}
}

func TestCenterDistance(t *testing.T) {
	// 200px tall image whose top sits 400px into a 1000px viewport: centered.
	if got := CenterDistance(400, 200, 1000); got != 0 {
		t.Errorf("CenterDistance = %v, want 0", got)
	}
	if got := CenterDistance(-100, 200, 1000); got != 500 {
		t.Errorf("CenterDistance = %v, want 500", got)
	}
}

type fakeScroll struct {
	mu        sync.Mutex
	ch        chan ScrollEvent
	current   ScrollEvent
	cancelled bool
}

func (f *fakeScroll) Subscribe() (<-chan ScrollEvent, func()) {
	return f.ch, func() {
		f.mu.Lock()
		f.cancelled = true
		f.mu.Unlock()
	}
}

func (f *fakeScroll) Current() ScrollEvent {
	return f.current
}

func TestTrackerFeed(t *testing.T) {
	tr := NewTracker(&fakeScroll{}, WithImage("hero", ElementBox{Top: 400, Height: 200}))

	var states []ScrollState
	for _, off := range []float64{0, 50, 150, 120} {
		states = append(states, tr.Feed(ScrollEvent{Offset: off, ViewportHeight: 1000}))
	}
	want := []bool{true, true, false, true}
	for i, s := range states {
		if s.NavVisible != want[i] {
			t.Errorf("event %d: NavVisible = %v, want %v", i, s.NavVisible, want[i])
		}
	}
	if states[3].LastOffset != 150 {
		t.Errorf("LastOffset = %v, want 150", states[3].LastOffset)
	}
	if states[0].Grayscale["hero"] != 0 {
		t.Errorf("centered image grayscale = %v, want 0", states[0].Grayscale["hero"])
	}

	// Scrolled so the image center is 600px above the viewport center.
	s := tr.Feed(ScrollEvent{Offset: 600, ViewportHeight: 1000})
	if s.Grayscale["hero"] != 100 {
		t.Errorf("far image grayscale = %v, want 100", s.Grayscale["hero"])
	}
}

func TestTrackerNavThresholdOption(t *testing.T) {
	tr := NewTracker(&fakeScroll{}, WithNavThreshold(40))
	tr.Feed(ScrollEvent{Offset: 30, ViewportHeight: 800})
	if s := tr.Feed(ScrollEvent{Offset: 45, ViewportHeight: 800}); s.NavVisible {
		t.Error("expected hidden past a 40px threshold")
	}
}

func TestTrackerStartComputesInitialStateAndFollowsEvents(t *testing.T) {
	src := &fakeScroll{
		ch:      make(chan ScrollEvent),
		current: ScrollEvent{Offset: 900, ViewportHeight: 1000},
	}
	changes := make(chan ScrollState, 8)
	tr := NewTracker(src,
		WithImage("a", ElementBox{Top: 400, Height: 200}),
		WithOnChange(func(s ScrollState) { changes <- s }),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := tr.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := tr.Start(ctx); err != ErrTrackerStarted {
		t.Errorf("second Start: got %v, want ErrTrackerStarted", err)
	}

	initial := <-changes
	if initial.Offset != 900 || !initial.NavVisible {
		t.Errorf("unexpected initial state %+v", initial)
	}
	if initial.Grayscale["a"] != 100 {
		t.Errorf("initial grayscale = %v, want 100", initial.Grayscale["a"])
	}

	src.ch <- ScrollEvent{Offset: 1000, ViewportHeight: 1000}
	select {
	case s := <-changes:
		if s.NavVisible {
			t.Error("expected navbar hidden after scrolling down")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("tracker did not react to scroll event")
	}

	tr.Stop()
	tr.Stop()
	src.mu.Lock()
	cancelled := src.cancelled
	src.mu.Unlock()
	if !cancelled {
		t.Error("Stop should end the subscription")
	}
}

func TestTrackerRegisterAfterStart(t *testing.T) {
	tr := NewTracker(&fakeScroll{})
	tr.Feed(ScrollEvent{Offset: 0, ViewportHeight: 1000})
	tr.Register("late", ElementBox{Top: 400, Height: 200})
	if g, ok := tr.State().Grayscale["late"]; !ok || g != 0 {
		t.Errorf("late registration grayscale = %v (ok=%v), want 0", g, ok)
	}
}

func TestTrackerIgnoresEventsBufferedAtStop(t *testing.T) {
	src := &fakeScroll{
		ch:      make(chan ScrollEvent, 4),
		current: ScrollEvent{Offset: 0, ViewportHeight: 1000},
	}
	var mu sync.Mutex
	changes := 0
	tr := NewTracker(src, WithOnChange(func(ScrollState) {
		mu.Lock()
		changes++
		mu.Unlock()
	}))
	if err := tr.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	tr.Stop()

	for _, off := range []float64{200, 400, 600} {
		src.ch <- ScrollEvent{Offset: off, ViewportHeight: 1000}
	}
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	got := changes
	mu.Unlock()
	if got != 1 {
		t.Errorf("onChange calls = %d, want only the initial one", got)
	}
	if s := tr.State(); s.Offset != 0 {
		t.Errorf("offset = %v after Stop, want 0", s.Offset)
	}
}

func TestTrackerFeedAfterStopIsDropped(t *testing.T) {
	called := false
	tr := NewTracker(&fakeScroll{}, WithOnChange(func(ScrollState) { called = true }))
	stopped := make(chan struct{})
	close(stopped)

	if _, applied := tr.feed(ScrollEvent{Offset: 300, ViewportHeight: 800}, stopped); applied {
		t.Error("event applied after stop")
	}
	if called {
		t.Error("onChange ran after stop")
	}
	if s := tr.State(); s.Offset != 0 {
		t.Errorf("offset = %v, want 0", s.Offset)
	}
}
