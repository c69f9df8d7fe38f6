package diagnostics

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ziadkadry99/youthsite/internal/db"
)

// timestampLayout sorts lexically in time order.
const timestampLayout = "2006-01-02 15:04:05.000000"

// Store persists generation records.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Log inserts a record. If rec.ID is empty a UUID is generated, and a zero
// timestamp becomes now.
func (s *Store) Log(ctx context.Context, rec Record) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	rec.Input = truncateInput(rec.Input, maxInputLen)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO generation_events (
			id, timestamp, kind, input, outcome, reason, detail,
			provider, model, duration_ms, input_tokens, output_tokens, cost_usd
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.Timestamp.UTC().Format(timestampLayout),
		rec.Kind,
		rec.Input,
		rec.Outcome,
		rec.Reason,
		rec.Detail,
		rec.Provider,
		rec.Model,
		rec.DurationMS,
		rec.InputTokens,
		rec.OutputTokens,
		rec.CostUSD,
	)
	if err != nil {
		return fmt.Errorf("inserting generation event: %w", err)
	}
	return nil
}

// truncateInput cuts s to at most n bytes without splitting a rune.
func truncateInput(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[:n]
	for len(s) > 0 && !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}

// GetByID retrieves a single record.
func (s *Store) GetByID(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	return scanInto(row)
}

// QueryFilter controls which records Query returns.
type QueryFilter struct {
	Kind    string
	Outcome string
	Since   *time.Time
	Limit   int
	Offset  int
}

const selectColumns = `SELECT id, timestamp, kind, input, outcome, reason, detail,
	provider, model, duration_ms, input_tokens, output_tokens, cost_usd
	FROM generation_events`

// Query returns records matching the filter, newest first.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Record, error) {
	var (
		clauses []string
		args    []any
	)

	if filter.Kind != "" {
		clauses = append(clauses, "kind = ?")
		args = append(args, filter.Kind)
	}
	if filter.Outcome != "" {
		clauses = append(clauses, "outcome = ?")
		args = append(args, filter.Outcome)
	}
	if filter.Since != nil {
		clauses = append(clauses, "timestamp >= ?")
		args = append(args, filter.Since.UTC().Format(timestampLayout))
	}

	query := selectColumns
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY timestamp DESC, rowid DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		if filter.Limit <= 0 {
			query += " LIMIT -1"
		}
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying generation events: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanInto(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// Health computes the fallback ratio over the most recent window records.
func (s *Store) Health(ctx context.Context, window int) (Health, error) {
	if window <= 0 {
		window = DefaultHealthWindow
	}
	recent, err := s.Query(ctx, QueryFilter{Limit: window})
	if err != nil {
		return Health{}, err
	}
	return summarize(recent, window), nil
}

// summarize expects records newest first. Requests the caller abandoned
// say nothing about the provider and are left out.
func summarize(recent []Record, window int) Health {
	h := Health{Status: "idle", Window: window}
	for _, r := range recent {
		if r.Reason == reasonCanceled {
			h.Canceled++
			continue
		}
		h.Total++
		if r.Outcome == "fallback" {
			h.Fallbacks++
			if h.LastReason == "" {
				h.LastReason = r.Reason
			}
		}
	}
	if h.Total == 0 {
		return h
	}
	h.FallbackRatio = float64(h.Fallbacks) / float64(h.Total)
	h.Status = "ok"
	if h.FallbackRatio > degradedRatio {
		h.Status = "degraded"
	}
	return h
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanInto(sc scanner) (*Record, error) {
	var (
		r  Record
		ts string
	)
	err := sc.Scan(
		&r.ID, &ts, &r.Kind, &r.Input, &r.Outcome, &r.Reason, &r.Detail,
		&r.Provider, &r.Model, &r.DurationMS, &r.InputTokens, &r.OutputTokens, &r.CostUSD,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("generation event not found: %w", err)
	}
	if err != nil {
		return nil, err
	}
	if t, parseErr := time.Parse(timestampLayout, ts); parseErr == nil {
		r.Timestamp = t
	}
	return &r, nil
}
