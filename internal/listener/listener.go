// Package listener keeps API replicas in step over Postgres LISTEN/NOTIFY.
// It holds a dedicated pgx connection (not from the pool) listening on the
// `hockey_explainer_sync` channel.
//
// When an admin reloads the knowledge base or refreshes the roster on one
// replica, that replica publishes an event and every other replica runs the
// same action locally. Events a replica published itself are ignored.
package listener

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	// Channel is the NOTIFY channel shared by all replicas.
	Channel          = "hockey_explainer_sync"
	reconnectBackoff = 5 * time.Second
	maxReconnect     = 30 * time.Second
)

// Kind names a replicated action.
type Kind string

const (
	KindKnowledgeReload Kind = "knowledge_reload"
	KindRosterRefresh   Kind = "roster_refresh"
)

// Event is the JSON payload of a sync notification.
type Event struct {
	Kind      Kind   `json:"kind"`
	Origin    string `json:"origin"`
	Timestamp int64  `json:"ts"`
}

// Execer runs a statement. *pgxpool.Pool satisfies it.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Listener consumes sync events and publishes this replica's own.
type Listener struct {
	dbURL    string
	origin   string
	db       Execer
	handlers map[Kind]func(context.Context) error
	logger   *slog.Logger
}

// New creates a listener with a fresh replica id. db is used for publishing.
func New(dbURL string, db Execer, logger *slog.Logger) *Listener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener{
		dbURL:    dbURL,
		origin:   uuid.NewString(),
		db:       db,
		handlers: make(map[Kind]func(context.Context) error),
		logger:   logger,
	}
}

// Origin returns this replica's id.
func (l *Listener) Origin() string { return l.origin }

// Handle registers fn for events of kind. Register before Start.
func (l *Listener) Handle(kind Kind, fn func(context.Context) error) {
	l.handlers[kind] = fn
}

// Publish notifies the other replicas that kind ran here.
func (l *Listener) Publish(ctx context.Context, kind Kind) error {
	payload, err := json.Marshal(Event{Kind: kind, Origin: l.origin, Timestamp: time.Now().Unix()})
	if err != nil {
		return err
	}
	if _, err := l.db.Exec(ctx, "notify_sync", Channel, string(payload)); err != nil {
		return fmt.Errorf("notify %s: %w", kind, err)
	}
	return nil
}

// Start opens a dedicated connection and listens on Channel. It reconnects
// automatically on connection loss. Blocks until ctx is cancelled. Intended
// to be called with `go`.
func (l *Listener) Start(ctx context.Context) {
	backoff := reconnectBackoff

	for {
		err := l.listenLoop(ctx)
		if ctx.Err() != nil {
			l.logger.Info("Sync listener stopped (context cancelled)")
			return
		}

		l.logger.Error("Sync listener disconnected, reconnecting...",
			"error", err, "backoff", backoff)

		select {
		case <-time.After(backoff):
			backoff = min(backoff*2, maxReconnect)
		case <-ctx.Done():
			return
		}
	}
}

// listenLoop runs a single listen session. Returns when the connection drops
// or the context is cancelled.
func (l *Listener) listenLoop(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, l.dbURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+Channel); err != nil {
		return fmt.Errorf("LISTEN %s: %w", Channel, err)
	}
	l.logger.Info("Sync listener connected", "channel", Channel, "origin", l.origin)

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}
		// Process asynchronously to avoid blocking the listener
		go l.dispatch(ctx, notification.Payload)
	}
}

// dispatch runs the handler for one payload. It reports whether a handler ran.
func (l *Listener) dispatch(ctx context.Context, payload string) bool {
	var ev Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		l.logger.Warn("Failed to parse sync event", "payload", payload, "error", err)
		return false
	}
	if ev.Origin == l.origin {
		return false
	}
	fn, ok := l.handlers[ev.Kind]
	if !ok {
		l.logger.Debug("Ignoring sync event", "kind", ev.Kind)
		return false
	}

	start := time.Now()
	if err := fn(ctx); err != nil {
		l.logger.Warn("Sync action failed", "kind", ev.Kind, "origin", ev.Origin, "error", err)
		return true
	}
	l.logger.Info("Sync action applied",
		"kind", ev.Kind, "origin", ev.Origin,
		"duration", time.Since(start).Round(time.Millisecond))
	return true
}
