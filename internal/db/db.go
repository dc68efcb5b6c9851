// Package db provides a pgxpool-based connection pool with prepared statement
// registration, schema bootstrap and health checking. The database is
// optional; it only backs the lookup log.
package db

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/albapepper/hockey-explainer/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New applies the schema, then creates and validates a connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	// Prepared statements reference the schema, so it must exist before the
	// first pooled connection is opened.
	if err := ApplySchema(ctx, cfg.DatabaseURL); err != nil {
		return nil, err
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// ApplySchema creates the lookup tables if they do not exist.
func ApplySchema(ctx context.Context, databaseURL string) error {
	conn, err := pgx.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("connect for schema: %w", err)
	}
	defer conn.Close(ctx)
	if _, err := conn.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// Statements maps prepared statement names to SQL. Callers pass the name
// in place of the query text.
var Statements = map[string]string{
	"health_check": "SELECT 1",

	// Lookup log
	"insert_lookup_event": `INSERT INTO ` + config.LookupEventsTable + `
		(id, domain, query, normalized, outcome, matched_key, stage, score, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
	"prune_lookup_events": `DELETE FROM ` + config.LookupEventsTable + ` WHERE created_at < $1`,
	"top_unresolved_queries": `SELECT domain, normalized, count(*) AS n
		FROM ` + config.LookupEventsTable + `
		WHERE outcome = 'not_found' AND created_at >= $1
		GROUP BY domain, normalized
		ORDER BY n DESC, normalized
		LIMIT $2`,
	"lookup_outcome_counts": `SELECT outcome, count(*) FROM ` + config.LookupEventsTable + `
		WHERE created_at >= $1 GROUP BY outcome`,

	// Replica sync
	"notify_sync": "SELECT pg_notify($1, $2)",
}

// registerPreparedStatements registers every entry of Statements on a new
// connection.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	for name, sql := range Statements {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
