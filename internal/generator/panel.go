package generator

import (
	"context"
	"strings"
	"sync"
)

// PanelState is what a generator panel displays.
type PanelState struct {
	Kind       Kind         `json:"kind"`
	Generating bool         `json:"generating"`
	Input      string       `json:"input,omitempty"`
	RequestID  uint64       `json:"requestId"`
	Roadmap    *Roadmap     `json:"roadmap,omitempty"`
	Impact     *ImpactStory `json:"impact,omitempty"`
}

// Panel owns the displayed result of one generator. Only one request runs
// at a time, and every request carries an increasing id; a result whose id
// is no longer current is dropped.
type Panel struct {
	client   *Client
	kind     Kind
	onChange func(PanelState)

	mu     sync.Mutex
	state  PanelState
	nextID uint64
}

// PanelOption configures a Panel.
type PanelOption func(*Panel)

// WithOnChange registers a callback for every state change: once when a
// request starts and once when its result is displayed.
func WithOnChange(fn func(PanelState)) PanelOption {
	return func(p *Panel) { p.onChange = fn }
}

// NewPanel creates an empty panel for kind.
func NewPanel(client *Client, kind Kind, opts ...PanelOption) *Panel {
	p := &Panel{client: client, kind: kind, state: PanelState{Kind: kind}}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start begins a request and returns a channel that yields the final
// state. Whitespace-only input returns ErrEmptyInput and a request already
// in progress returns ErrBusy; neither changes the panel.
func (p *Panel) Start(ctx context.Context, input string) (<-chan PanelState, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyInput
	}

	p.mu.Lock()
	if p.state.Generating {
		p.mu.Unlock()
		return nil, ErrBusy
	}
	p.nextID++
	id := p.nextID
	p.state.Generating = true
	p.state.Input = input
	p.state.RequestID = id
	snapshot := p.state
	p.mu.Unlock()

	p.emit(snapshot)

	done := make(chan PanelState, 1)
	go func() {
		done <- p.run(ctx, id, input)
		close(done)
	}()
	return done, nil
}

// Submit runs a request to completion. It reports false when the input was
// empty or another request was in progress.
func (p *Panel) Submit(ctx context.Context, input string) bool {
	done, err := p.Start(ctx, input)
	if err != nil {
		return false
	}
	<-done
	return true
}

func (p *Panel) run(ctx context.Context, id uint64, input string) PanelState {
	var (
		roadmap *Roadmap
		impact  *ImpactStory
	)
	switch p.kind {
	case KindRoadmap:
		r := p.client.GenerateRoadmap(ctx, input)
		roadmap = &r
	default:
		s := p.client.GenerateImpactVision(ctx, input)
		impact = &s
	}

	p.mu.Lock()
	if id != p.nextID {
		// Superseded by Reset.
		snapshot := p.state
		p.mu.Unlock()
		return snapshot
	}
	p.state.Generating = false
	p.state.Roadmap = roadmap
	p.state.Impact = impact
	snapshot := p.state
	p.mu.Unlock()

	p.emit(snapshot)
	return snapshot
}

// Reset clears the panel. A request still in flight is discarded when it
// completes.
func (p *Panel) Reset() {
	p.mu.Lock()
	p.nextID++
	p.state = PanelState{Kind: p.kind, RequestID: p.nextID}
	snapshot := p.state
	p.mu.Unlock()
	p.emit(snapshot)
}

// State returns the current panel state.
func (p *Panel) State() PanelState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Generating reports whether a request is in progress.
func (p *Panel) Generating() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.Generating
}

func (p *Panel) emit(s PanelState) {
	if p.onChange != nil {
		p.onChange(s)
	}
}
