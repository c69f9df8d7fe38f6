package motion

import (
	"sync"
	"time"
)

// frameQueue is the bookkeeping shared by the scheduler adapters. Frames
// requested while a batch is firing wait for the next batch.
type frameQueue struct {
	mu      sync.Mutex
	next    FrameID
	pending map[FrameID]func(time.Time)
	order   []FrameID
}

func (q *frameQueue) request(fn func(time.Time)) FrameID {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.pending == nil {
		q.pending = make(map[FrameID]func(time.Time))
	}
	q.next++
	q.pending[q.next] = fn
	q.order = append(q.order, q.next)
	return q.next
}

func (q *frameQueue) cancel(id FrameID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.pending, id)
}

// fire runs every frame queued before the call.
func (q *frameQueue) fire(now time.Time) int {
	q.mu.Lock()
	batch := q.order
	q.order = nil
	fns := make([]func(time.Time), 0, len(batch))
	for _, id := range batch {
		if fn, ok := q.pending[id]; ok {
			fns = append(fns, fn)
			delete(q.pending, id)
		}
	}
	q.mu.Unlock()

	for _, fn := range fns {
		fn(now)
	}
	return len(fns)
}

func (q *frameQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// ManualScheduler fires frames only when advanced. Its clock is synthetic,
// which makes animations deterministic in tests and headless renders.
type ManualScheduler struct {
	queue frameQueue
	mu    sync.Mutex
	now   time.Time
}

// NewManualScheduler creates a scheduler whose clock starts at start.
func NewManualScheduler(start time.Time) *ManualScheduler {
	return &ManualScheduler{now: start}
}

func (s *ManualScheduler) RequestFrame(fn func(now time.Time)) FrameID {
	return s.queue.request(fn)
}

func (s *ManualScheduler) CancelFrame(id FrameID) {
	s.queue.cancel(id)
}

// Advance moves the clock forward by d and fires the pending frames.
// It returns how many frames ran.
func (s *ManualScheduler) Advance(d time.Duration) int {
	s.mu.Lock()
	s.now = s.now.Add(d)
	now := s.now
	s.mu.Unlock()
	return s.queue.fire(now)
}

// Now returns the synthetic clock.
func (s *ManualScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Pending returns the number of queued frames.
func (s *ManualScheduler) Pending() int {
	return s.queue.len()
}

// TickerScheduler fires frames from a wall-clock ticker.
type TickerScheduler struct {
	queue frameQueue
	stop  chan struct{}
	once  sync.Once
}

// NewTickerScheduler starts a scheduler at fps frames per second. A
// non-positive fps defaults to 60. Close stops it.
func NewTickerScheduler(fps int) *TickerScheduler {
	if fps <= 0 {
		fps = 60
	}
	s := &TickerScheduler{stop: make(chan struct{})}
	go s.loop(time.Second / time.Duration(fps))
	return s
}

func (s *TickerScheduler) loop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.queue.fire(now)
		}
	}
}

func (s *TickerScheduler) RequestFrame(fn func(now time.Time)) FrameID {
	return s.queue.request(fn)
}

func (s *TickerScheduler) CancelFrame(id FrameID) {
	s.queue.cancel(id)
}

// Close stops the ticker. Pending frames never fire.
func (s *TickerScheduler) Close() {
	s.once.Do(func() { close(s.stop) })
}
