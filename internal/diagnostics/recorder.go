package diagnostics

import (
	"context"
	"log/slog"
	"time"

	"github.com/ziadkadry99/youthsite/internal/generator"
	"github.com/ziadkadry99/youthsite/internal/llm"
	"github.com/ziadkadry99/youthsite/internal/logging"
	"github.com/ziadkadry99/youthsite/internal/metrics"
)

// storeTimeout bounds the write of one record; the visitor's request does
// not wait on it beyond this.
const storeTimeout = 2 * time.Second

// Recorder is the generator.Observer used by the server. It logs every
// outcome, counts it, and persists it. Any of the three sinks may be nil.
type Recorder struct {
	logger  *slog.Logger
	metrics *metrics.Manager
	store   *Store
}

var _ generator.Observer = (*Recorder)(nil)

// NewRecorder creates a Recorder.
func NewRecorder(logger *slog.Logger, m *metrics.Manager, store *Store) *Recorder {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Recorder{
		logger:  logger.With(logging.Scope("generator")),
		metrics: m,
		store:   store,
	}
}

func (r *Recorder) GenerationStarted(kind generator.Kind, input string) {
	if r.metrics != nil {
		r.metrics.GenerationStarted()
	}
	r.logger.Debug("generation started", slog.String("kind", string(kind)), slog.Int("input_len", len(input)))
}

func (r *Recorder) GenerationFinished(ev generator.Event) {
	rec := FromEvent(ev)

	attrs := []any{
		slog.String("kind", rec.Kind),
		slog.String("provider", rec.Provider),
		slog.String("model", rec.Model),
		slog.Int64("duration_ms", rec.DurationMS),
	}
	switch {
	case ev.Outcome == generator.OutcomeSuccess:
		r.logger.Info("generation succeeded", append(attrs,
			slog.Int("input_tokens", rec.InputTokens),
			slog.Int("output_tokens", rec.OutputTokens))...)
	case ev.Reason == generator.ReasonCanceled:
		r.logger.Info("generation canceled by caller", attrs...)
	default:
		r.logger.Warn("generation fell back", append(attrs,
			slog.String("reason", rec.Reason),
			slog.String("detail", rec.Detail))...)
	}

	if r.metrics != nil {
		r.metrics.GenerationFinished(rec.Kind, rec.Outcome, rec.Reason, ev.Duration)
	}

	if r.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if err := r.store.Log(ctx, rec); err != nil {
			r.logger.Error("persisting generation event", logging.Err(err))
		}
	}
}

// FromEvent converts a generator event into a persisted record.
func FromEvent(ev generator.Event) Record {
	return Record{
		Timestamp:    ev.Started,
		Kind:         string(ev.Kind),
		Input:        ev.Input,
		Outcome:      string(ev.Outcome),
		Reason:       string(ev.Reason),
		Detail:       ev.Detail,
		Provider:     ev.Provider,
		Model:        ev.Model,
		DurationMS:   ev.Duration.Milliseconds(),
		InputTokens:  ev.InputTokens,
		OutputTokens: ev.OutputTokens,
		CostUSD:      llm.EstimateCost(ev.Model, ev.InputTokens, ev.OutputTokens),
	}
}
