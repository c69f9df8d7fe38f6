// Package diagnostics keeps an operator-visible trail of generation
// outcomes. Visitors always receive content; this package is where a
// degraded provider shows up.
package diagnostics

import (
	"time"

	"github.com/ziadkadry99/youthsite/internal/generator"
)

// Record is one persisted generation outcome.
type Record struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Kind         string    `json:"kind"`
	Input        string    `json:"input"`
	Outcome      string    `json:"outcome"`
	Reason       string    `json:"reason,omitempty"`
	Detail       string    `json:"detail,omitempty"`
	Provider     string    `json:"provider"`
	Model        string    `json:"model"`
	DurationMS   int64     `json:"durationMs"`
	InputTokens  int       `json:"inputTokens"`
	OutputTokens int       `json:"outputTokens"`
	CostUSD      float64   `json:"costUsd"`
}

// Health summarizes the most recent generations.
type Health struct {
	Status        string  `json:"status"` // "ok", "degraded" or "idle"
	Window        int     `json:"window"`
	Total         int     `json:"total"`
	Canceled      int     `json:"canceled"`
	Fallbacks     int     `json:"fallbacks"`
	FallbackRatio float64 `json:"fallbackRatio"`
	LastReason    string  `json:"lastReason,omitempty"`
}

// Health defaults.
const (
	DefaultHealthWindow = 20
	degradedRatio       = 0.5
)

const reasonCanceled = string(generator.ReasonCanceled)

// maxInputLen truncates stored visitor input.
const maxInputLen = 200
