// Package lookuplog records the outcome of every query so unresolved
// searches can be reviewed and added to the knowledge base.
//
// Recording is asynchronous and best effort: events go through a bounded
// queue and are dropped, with a warning, when the queue is full or the
// database is unavailable. A query never waits on the log.
package lookuplog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Outcome classifies how a query was answered.
type Outcome string

const (
	Resolved Outcome = "resolved"  // curated knowledge matched
	Fallback Outcome = "fallback"  // answered from the external provider
	NotFound Outcome = "not_found" // miss shape returned
)

// Event is one recorded lookup.
type Event struct {
	ID         uuid.UUID
	Domain     string
	Query      string
	Normalized string
	Outcome    Outcome
	Key        string
	Stage      string
	Score      float64
	At         time.Time
}

// Recorder accepts lookup events.
type Recorder interface {
	Record(e Event)
}

// Nop discards events. Used when no database is configured.
type Nop struct{}

func (Nop) Record(Event) {}

// DB is the subset of pgxpool.Pool the log needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PGRecorder writes events to Postgres from a background goroutine.
type PGRecorder struct {
	db      DB
	logger  *slog.Logger
	queue   chan Event
	timeout time.Duration
	dropped atomic.Int64
	written atomic.Int64
	wg      sync.WaitGroup
	now     func() time.Time
}

// NewPGRecorder returns a recorder with a queue of size buffer. Call Run to
// start writing.
func NewPGRecorder(db DB, buffer int, logger *slog.Logger) *PGRecorder {
	if buffer <= 0 {
		buffer = 256
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PGRecorder{
		db:      db,
		logger:  logger,
		queue:   make(chan Event, buffer),
		timeout: 2 * time.Second,
		now:     time.Now,
	}
}

// Record enqueues e without blocking. ID and At are filled when zero.
func (r *PGRecorder) Record(e Event) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.At.IsZero() {
		e.At = r.now().UTC()
	}
	select {
	case r.queue <- e:
	default:
		if r.dropped.Add(1)%100 == 1 {
			r.logger.Warn("lookup log queue full, dropping events", "dropped_total", r.dropped.Load())
		}
	}
}

// Run drains the queue until ctx is cancelled, then writes what is left.
// Intended to be called with `go`.
func (r *PGRecorder) Run(ctx context.Context) {
	r.wg.Add(1)
	defer r.wg.Done()
	for {
		select {
		case e := <-r.queue:
			r.write(e)
		case <-ctx.Done():
			for {
				select {
				case e := <-r.queue:
					r.write(e)
				default:
					return
				}
			}
		}
	}
}

// Wait blocks until Run has returned.
func (r *PGRecorder) Wait() { r.wg.Wait() }

func (r *PGRecorder) write(e Event) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	_, err := r.db.Exec(ctx, "insert_lookup_event",
		e.ID, e.Domain, e.Query, e.Normalized, string(e.Outcome),
		nullable(e.Key), nullable(e.Stage), e.Score, e.At)
	if err != nil {
		r.logger.Warn("lookup event not recorded", "error", err, "domain", e.Domain, "outcome", e.Outcome)
		return
	}
	r.written.Add(1)
}

// Stats reports counters for health checks.
func (r *PGRecorder) Stats() map[string]int64 {
	return map[string]int64{
		"written": r.written.Load(),
		"dropped": r.dropped.Load(),
		"queued":  int64(len(r.queue)),
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// QueryCount is an aggregated unresolved query.
type QueryCount struct {
	Domain string `json:"domain"`
	Query  string `json:"query"`
	Count  int64  `json:"count"`
}

// Prune deletes events older than before.
func Prune(ctx context.Context, db DB, before time.Time) (int64, error) {
	tag, err := db.Exec(ctx, "prune_lookup_events", before)
	if err != nil {
		return 0, fmt.Errorf("prune lookup events: %w", err)
	}
	return tag.RowsAffected(), nil
}

// TopUnresolved returns the most frequent not-found queries since since.
func TopUnresolved(ctx context.Context, db DB, since time.Time, limit int) ([]QueryCount, error) {
	rows, err := db.Query(ctx, "top_unresolved_queries", since, limit)
	if err != nil {
		return nil, fmt.Errorf("top unresolved: %w", err)
	}
	defer rows.Close()
	var out []QueryCount
	for rows.Next() {
		var qc QueryCount
		if err := rows.Scan(&qc.Domain, &qc.Query, &qc.Count); err != nil {
			return nil, fmt.Errorf("scan unresolved: %w", err)
		}
		out = append(out, qc)
	}
	return out, rows.Err()
}

// OutcomeCounts returns the number of events per outcome since since.
func OutcomeCounts(ctx context.Context, db DB, since time.Time) (map[Outcome]int64, error) {
	rows, err := db.Query(ctx, "lookup_outcome_counts", since)
	if err != nil {
		return nil, fmt.Errorf("outcome counts: %w", err)
	}
	defer rows.Close()
	out := make(map[Outcome]int64, 3)
	for rows.Next() {
		var (
			o Outcome
			n int64
		)
		if err := rows.Scan(&o, &n); err != nil {
			return nil, fmt.Errorf("scan outcome count: %w", err)
		}
		out[o] = n
	}
	return out, rows.Err()
}
