package diagnostics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/youthsite/internal/db"
	"github.com/ziadkadry99/youthsite/internal/generator"
	"github.com/ziadkadry99/youthsite/internal/llm"
	"github.com/ziadkadry99/youthsite/internal/logging"
	"github.com/ziadkadry99/youthsite/internal/metrics"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func logRecords(t *testing.T, store *Store, base time.Time, outcomes ...string) {
	t.Helper()
	for i, o := range outcomes {
		rec := Record{
			Timestamp: base.Add(time.Duration(i) * time.Second),
			Kind:      "roadmap",
			Input:     "Coding",
			Outcome:   o,
		}
		if o == "fallback" {
			rec.Reason = "transport"
		}
		if err := store.Log(context.Background(), rec); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}
}

func TestLogAndGetByID(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	rec := Record{
		ID:           "gen-1",
		Timestamp:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Kind:         "impact",
		Input:        strings.Repeat("x", 500),
		Outcome:      "fallback",
		Reason:       "malformed",
		Detail:       "invalid character 'S'",
		Provider:     "google",
		Model:        "gemini-2.5-flash",
		DurationMS:   840,
		InputTokens:  120,
		OutputTokens: 0,
	}
	if err := store.Log(ctx, rec); err != nil {
		t.Fatalf("Log: %v", err)
	}

	got, err := store.GetByID(ctx, "gen-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Reason != "malformed" || got.Provider != "google" || got.DurationMS != 840 {
		t.Errorf("unexpected record: %+v", got)
	}
	if len(got.Input) != maxInputLen {
		t.Errorf("input length = %d, want %d", len(got.Input), maxInputLen)
	}
	if !got.Timestamp.Equal(rec.Timestamp) {
		t.Errorf("timestamp = %v, want %v", got.Timestamp, rec.Timestamp)
	}

	if _, err := store.GetByID(ctx, "missing"); err == nil {
		t.Error("expected error for missing id")
	}
}

func TestLogGeneratesUUID(t *testing.T) {
	store := setupStore(t)
	if err := store.Log(context.Background(), Record{Kind: "roadmap", Outcome: "success"}); err != nil {
		t.Fatalf("Log: %v", err)
	}
	records, err := store.Query(context.Background(), QueryFilter{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(records) != 1 || len(records[0].ID) != 36 {
		t.Errorf("expected one record with a UUID, got %+v", records)
	}
}

func TestQueryFilters(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	logRecords(t, store, base, "success", "fallback", "success", "fallback", "fallback")
	if err := store.Log(ctx, Record{Timestamp: base, Kind: "impact", Outcome: "success"}); err != nil {
		t.Fatal(err)
	}

	fallbacks, err := store.Query(ctx, QueryFilter{Outcome: "fallback"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(fallbacks) != 3 {
		t.Errorf("fallbacks = %d, want 3", len(fallbacks))
	}

	impact, _ := store.Query(ctx, QueryFilter{Kind: "impact"})
	if len(impact) != 1 {
		t.Errorf("impact records = %d, want 1", len(impact))
	}

	since := base.Add(3 * time.Second)
	recent, _ := store.Query(ctx, QueryFilter{Kind: "roadmap", Since: &since})
	if len(recent) != 2 {
		t.Errorf("records since +3s = %d, want 2", len(recent))
	}
	if !recent[0].Timestamp.After(recent[1].Timestamp) {
		t.Error("expected newest first")
	}

	page, _ := store.Query(ctx, QueryFilter{Kind: "roadmap", Offset: 4})
	if len(page) != 1 {
		t.Errorf("offset without limit returned %d records, want 1", len(page))
	}
}

func TestHealth(t *testing.T) {
	ctx := context.Background()

	empty := setupStore(t)
	h, err := empty.Health(ctx, 0)
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if h.Status != "idle" || h.Window != DefaultHealthWindow {
		t.Errorf("empty store health = %+v", h)
	}

	store := setupStore(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	// Old failures fall outside the window of 4.
	logRecords(t, store, base, "fallback", "fallback", "fallback", "success", "success", "fallback", "success")
	h, _ = store.Health(ctx, 4)
	if h.Status != "ok" || h.Fallbacks != 1 || h.Total != 4 {
		t.Errorf("health = %+v, want ok with 1 fallback of 4", h)
	}

	logRecords(t, store, base.Add(time.Hour), "fallback", "fallback", "fallback")
	h, _ = store.Health(ctx, 4)
	if h.Status != "degraded" || h.FallbackRatio != 0.75 || h.LastReason != "transport" {
		t.Errorf("health = %+v, want degraded at 0.75", h)
	}
}

func TestHealthIgnoresCanceledRequests(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	logRecords(t, store, base, "success", "success")
	for i := 0; i < 3; i++ {
		rec := Record{
			Timestamp: base.Add(time.Minute + time.Duration(i)*time.Second),
			Kind:      "roadmap",
			Outcome:   "fallback",
			Reason:    reasonCanceled,
		}
		if err := store.Log(ctx, rec); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	h, err := store.Health(ctx, 0)
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if h.Status != "ok" || h.Total != 2 || h.Fallbacks != 0 || h.Canceled != 3 {
		t.Errorf("health = %+v, want ok with 2 counted and 3 canceled", h)
	}

	onlyCanceled := setupStore(t)
	if err := onlyCanceled.Log(ctx, Record{Kind: "impact", Outcome: "fallback", Reason: reasonCanceled}); err != nil {
		t.Fatalf("Log: %v", err)
	}
	h, _ = onlyCanceled.Health(ctx, 0)
	if h.Status != "idle" || h.Canceled != 1 {
		t.Errorf("health = %+v, want idle", h)
	}
}

func TestLogTruncatesOnRuneBoundary(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	input := "a" + strings.Repeat("é", 150)
	if err := store.Log(ctx, Record{ID: "utf8", Kind: "impact", Outcome: "success", Input: input}); err != nil {
		t.Fatalf("Log: %v", err)
	}
	got, err := store.GetByID(ctx, "utf8")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !utf8.ValidString(got.Input) {
		t.Errorf("stored input is not valid UTF-8: %q", got.Input[len(got.Input)-4:])
	}
	if len(got.Input) != maxInputLen-1 {
		t.Errorf("input length = %d, want %d", len(got.Input), maxInputLen-1)
	}
	if !strings.HasPrefix(input, got.Input) {
		t.Error("stored input should be a prefix of the original")
	}
}

func TestTruncateInput(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"abcdef", 3, "abc"},
		{"aé", 2, "a"},
		{"日本語", 4, "日"},
		{"", 5, ""},
	}
	for _, tt := range tests {
		if got := truncateInput(tt.in, tt.n); got != tt.want {
			t.Errorf("truncateInput(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

// blockingProvider never answers before its caller gives up.
type blockingProvider struct{}

func (blockingProvider) Name() string { return "google" }
func (blockingProvider) Complete(ctx context.Context, _ llm.CompletionRequest) (*llm.CompletionResponse, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestRecorderCanceledRequestKeepsHealth(t *testing.T) {
	store := setupStore(t)
	m := metrics.NewManager()
	var logs bytes.Buffer
	rec := NewRecorder(logging.New("debug", &logs), m, store)
	client := generator.NewClient(blockingProvider{}, generator.WithObserver(rec))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	client.GenerateRoadmap(ctx, "Coding")

	records, err := store.Query(context.Background(), QueryFilter{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(records) != 1 || records[0].Reason != "canceled" {
		t.Fatalf("records = %+v, want one canceled record", records)
	}

	h, err := store.Health(context.Background(), 0)
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if h.Status != "idle" || h.FallbackRatio != 0 {
		t.Errorf("health = %+v, a canceled request must not degrade it", h)
	}
	if strings.Contains(logs.String(), "generation fell back") {
		t.Errorf("canceled request logged as a fallback:\n%s", logs.String())
	}
}

type failingProvider struct{}

func (failingProvider) Name() string { return "google" }
func (failingProvider) Complete(context.Context, llm.CompletionRequest) (*llm.CompletionResponse, error) {
	return nil, errors.New("503 service unavailable")
}

func TestRecorderObservesClient(t *testing.T) {
	store := setupStore(t)
	m := metrics.NewManager()
	var logs bytes.Buffer
	rec := NewRecorder(logging.New("debug", &logs), m, store)

	client := generator.NewClient(failingProvider{}, generator.WithObserver(rec), generator.WithModel("gemini-2.5-flash"))
	got := client.GenerateRoadmap(context.Background(), "Public Speaking")
	if len(got.Milestones) != 4 {
		t.Fatalf("expected fallback roadmap, got %+v", got)
	}

	records, err := store.Query(context.Background(), QueryFilter{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	r := records[0]
	if r.Outcome != "fallback" || r.Reason != "transport" || r.Provider != "google" || r.Kind != "roadmap" {
		t.Errorf("unexpected record: %+v", r)
	}

	if !strings.Contains(logs.String(), "generation fell back") || !strings.Contains(logs.String(), "reason=transport") {
		t.Errorf("expected a warning log line, got:\n%s", logs.String())
	}

	if count := fallbackCount(t, m); count != 1 {
		t.Errorf("fallback counter = %v, want 1", count)
	}
}

// fallbackCount sums the generations_total series labelled as fallbacks.
func fallbackCount(t *testing.T, m *metrics.Manager) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	var total float64
	for _, f := range families {
		if f.GetName() != "youthsite_generations_total" {
			continue
		}
		for _, metric := range f.GetMetric() {
			for _, l := range metric.GetLabel() {
				if l.GetName() == "outcome" && l.GetValue() == "fallback" {
					total += metric.GetCounter().GetValue()
				}
			}
		}
	}
	return total
}

func TestRecorderToleratesNilSinks(t *testing.T) {
	rec := NewRecorder(nil, nil, nil)
	rec.GenerationStarted(generator.KindImpact, "x")
	rec.GenerationFinished(generator.Event{Kind: generator.KindImpact, Outcome: generator.OutcomeSuccess})
}

func TestFromEventEstimatesCost(t *testing.T) {
	r := FromEvent(generator.Event{
		Kind:         generator.KindImpact,
		Outcome:      generator.OutcomeSuccess,
		Model:        "gpt-4o",
		Duration:     1500 * time.Millisecond,
		InputTokens:  1_000_000,
		OutputTokens: 0,
	})
	if r.DurationMS != 1500 {
		t.Errorf("DurationMS = %d", r.DurationMS)
	}
	if r.CostUSD < 2.49 || r.CostUSD > 2.51 {
		t.Errorf("CostUSD = %v, want ~2.50", r.CostUSD)
	}
}

func TestRoutes(t *testing.T) {
	store := setupStore(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	logRecords(t, store, base, "fallback", "fallback", "success")

	r := chi.NewRouter()
	RegisterRoutes(r, store)

	req := httptest.NewRequest(http.MethodGet, "/api/diagnostics/generations?outcome=fallback", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var records []Record
	if err := json.NewDecoder(w.Body).Decode(&records); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("records = %d, want 2", len(records))
	}

	req = httptest.NewRequest(http.MethodGet, "/api/diagnostics/health", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("health status = %d, want 503 when degraded", w.Code)
	}
	var h Health
	if err := json.NewDecoder(w.Body).Decode(&h); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if h.Status != "degraded" {
		t.Errorf("status = %q", h.Status)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/diagnostics/generations/"+records[0].ID, nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("get by id status = %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/diagnostics/generations/nope", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing id status = %d", w.Code)
	}
}
