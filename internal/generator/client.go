package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ziadkadry99/youthsite/internal/llm"
)

// Client produces roadmaps and impact stories from a generative provider.
// Its methods never fail: any problem yields the fixed fallback, and the
// cause is reported to the Observer.
type Client struct {
	provider    llm.Provider
	model       string
	temperature float64
	maxTokens   int
	observer    Observer
	now         func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithModel overrides the provider's default model.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(c *Client) { c.temperature = t }
}

// WithMaxTokens caps the response length.
func WithMaxTokens(n int) Option {
	return func(c *Client) { c.maxTokens = n }
}

// WithObserver registers the diagnostics sink.
func WithObserver(o Observer) Option {
	return func(c *Client) {
		if o != nil {
			c.observer = o
		}
	}
}

// NewClient creates a client over provider.
func NewClient(provider llm.Provider, opts ...Option) *Client {
	c := &Client{
		provider:    provider,
		temperature: 0.7,
		maxTokens:   1024,
		observer:    nopObserver{},
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GenerateRoadmap returns a roadmap for skill, or the fallback roadmap.
func (c *Client) GenerateRoadmap(ctx context.Context, skill string) Roadmap {
	var out Roadmap
	ev := c.complete(ctx, KindRoadmap, skill, roadmapPrompt(skill), roadmapSchema, &out, func() error {
		return validateRoadmap(out)
	})
	if ev.Outcome != OutcomeSuccess {
		return FallbackRoadmap(skill)
	}
	return out
}

// GenerateImpactVision returns an impact story for topic, or the fallback.
func (c *Client) GenerateImpactVision(ctx context.Context, topic string) ImpactStory {
	var out ImpactStory
	ev := c.complete(ctx, KindImpact, topic, impactPrompt(topic), impactSchema, &out, func() error {
		return validateImpact(out)
	})
	if ev.Outcome != OutcomeSuccess {
		return FallbackImpactStory(topic)
	}
	return out
}

func (c *Client) complete(ctx context.Context, kind Kind, input, prompt string, schema *llm.Schema, target any, validate func() error) (ev Event) {
	ev = Event{
		Kind:    kind,
		Input:   input,
		Outcome: OutcomeFallback,
		Model:   c.model,
		Started: c.now(),
	}
	c.observer.GenerationStarted(kind, input)

	defer func() {
		if r := recover(); r != nil {
			ev.Outcome = OutcomeFallback
			ev.Reason = ReasonPanic
			ev.Detail = fmt.Sprint(r)
		}
		ev.Duration = c.now().Sub(ev.Started)
		c.observer.GenerationFinished(ev)
	}()

	ev.Provider = c.provider.Name()

	resp, err := c.provider.Complete(ctx, llm.CompletionRequest{
		Model: c.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: systemPrompt},
			{Role: llm.RoleUser, Content: prompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		JSONMode:    true,
		Schema:      schema,
	})
	if err != nil {
		ev.Reason = classify(ctx, err)
		ev.Detail = err.Error()
		return ev
	}
	ev.InputTokens = resp.InputTokens
	ev.OutputTokens = resp.OutputTokens
	// Some providers (Ollama among them) omit usage.
	if ev.InputTokens == 0 {
		ev.InputTokens = llm.EstimateTokens(systemPrompt) + llm.EstimateTokens(prompt)
	}
	if ev.OutputTokens == 0 {
		ev.OutputTokens = llm.EstimateTokens(resp.Content)
	}
	if resp.Model != "" {
		ev.Model = resp.Model
	}

	body := stripFences(resp.Content)
	empty := body == ""
	if empty {
		body = "{}"
	}
	if err := json.Unmarshal([]byte(body), target); err != nil {
		ev.Reason = ReasonMalformed
		ev.Detail = err.Error()
		return ev
	}
	if err := validate(); err != nil {
		ev.Reason = ReasonSchema
		if empty {
			ev.Reason = ReasonEmpty
		}
		ev.Detail = err.Error()
		return ev
	}

	ev.Outcome = OutcomeSuccess
	return ev
}

func classify(ctx context.Context, err error) FallbackReason {
	switch {
	case ctx.Err() != nil:
		// The caller went away; the provider is not at fault.
		return ReasonCanceled
	case errors.Is(err, llm.ErrNoCredential):
		return ReasonNoCredential
	case errors.Is(err, llm.ErrRateLimited):
		return ReasonRateLimited
	default:
		return ReasonTransport
	}
}

// stripFences removes a surrounding markdown code fence, which some models
// add even in JSON mode.
func stripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "```") {
		return raw
	}
	lines := strings.Split(raw, "\n")
	if len(lines) < 2 {
		return ""
	}
	end := len(lines)
	if strings.TrimSpace(lines[end-1]) == "```" {
		end--
	}
	return strings.TrimSpace(strings.Join(lines[1:end], "\n"))
}

func validateRoadmap(r Roadmap) error {
	if strings.TrimSpace(r.Skill) == "" {
		return errors.New("roadmap: skill is missing")
	}
	if strings.TrimSpace(r.Vision) == "" {
		return errors.New("roadmap: vision is missing")
	}
	if len(r.Milestones) == 0 {
		return errors.New("roadmap: no milestones")
	}
	for i, m := range r.Milestones {
		if strings.TrimSpace(m.Phase) == "" || strings.TrimSpace(m.Action) == "" {
			return fmt.Errorf("roadmap: milestone %d is incomplete", i)
		}
	}
	return nil
}

func validateImpact(s ImpactStory) error {
	if strings.TrimSpace(s.Topic) == "" {
		return errors.New("impact: topic is missing")
	}
	if strings.TrimSpace(s.Vision) == "" {
		return errors.New("impact: vision is missing")
	}
	if len(s.KeyGoals) == 0 {
		return errors.New("impact: no key goals")
	}
	for i, g := range s.KeyGoals {
		if strings.TrimSpace(g) == "" {
			return fmt.Errorf("impact: goal %d is empty", i)
		}
	}
	return nil
}
