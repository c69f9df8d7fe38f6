package generator

import (
	"errors"
	"time"
)

// Kind names one of the two generators.
type Kind string

const (
	KindRoadmap Kind = "roadmap"
	KindImpact  Kind = "impact"
)

// Milestone is one step of a roadmap.
type Milestone struct {
	Phase  string `json:"phase"`
	Action string `json:"action"`
}

// Roadmap is a generated plan for developing a skill.
type Roadmap struct {
	Skill      string      `json:"skill"`
	Vision     string      `json:"vision"`
	Milestones []Milestone `json:"milestones"`
}

// ImpactStory is a generated vision for a cause.
type ImpactStory struct {
	Topic    string   `json:"topic"`
	Vision   string   `json:"vision"`
	KeyGoals []string `json:"keyGoals"`
}

// Outcome says whether a caller got generated or fallback content.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeFallback Outcome = "fallback"
)

// FallbackReason classifies why the fallback was served.
type FallbackReason string

const (
	ReasonNone         FallbackReason = ""
	ReasonTransport    FallbackReason = "transport"
	ReasonEmpty        FallbackReason = "empty"
	ReasonMalformed    FallbackReason = "malformed"
	ReasonSchema       FallbackReason = "schema"
	ReasonPanic        FallbackReason = "panic"
	ReasonNoCredential FallbackReason = "no_credential"
	ReasonRateLimited  FallbackReason = "rate_limited"
	ReasonCanceled     FallbackReason = "canceled"
)

// Event describes one finished generation. It is the diagnostic record
// that keeps degraded providers visible even though callers always get
// content.
type Event struct {
	Kind         Kind
	Input        string
	Outcome      Outcome
	Reason       FallbackReason
	Detail       string
	Provider     string
	Model        string
	Started      time.Time
	Duration     time.Duration
	InputTokens  int
	OutputTokens int
}

// Observer receives generation lifecycle notifications.
type Observer interface {
	GenerationStarted(kind Kind, input string)
	GenerationFinished(ev Event)
}

type nopObserver struct{}

func (nopObserver) GenerationStarted(Kind, string) {}
func (nopObserver) GenerationFinished(Event)       {}

// Panel submission errors.
var (
	ErrEmptyInput = errors.New("generator: input is empty")
	ErrBusy       = errors.New("generator: a request is already in progress")
)
