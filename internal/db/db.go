// Package db is the optional Postgres journal for session events. The
// service is fully functional without it; every method is safe on a nil
// pool.
package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Pool struct {
	pool *pgxpool.Pool
}

func Open(ctx context.Context, databaseURL string) (*Pool, error) {
	p, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	// Verify connectivity early.
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, err
	}

	return &Pool{pool: p}, nil
}

func (p *Pool) Close() {
	if p == nil || p.pool == nil {
		return
	}
	p.pool.Close()
}

func (p *Pool) Ping(ctx context.Context) error {
	if p == nil || p.pool == nil {
		return nil
	}
	return p.pool.Ping(ctx)
}

// EnsureSchema creates the journal table when it does not exist yet.
func (p *Pool) EnsureSchema(ctx context.Context) error {
	if p == nil || p.pool == nil {
		return nil
	}
	_, err := p.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS session_events (
			id          BIGSERIAL PRIMARY KEY,
			session_id  TEXT        NOT NULL,
			kind        TEXT        NOT NULL,
			payload     JSONB,
			recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	return err
}

// RecordSessionEvent appends one event to the journal.
func (p *Pool) RecordSessionEvent(ctx context.Context, sessionID, kind string, payload map[string]any) error {
	if p == nil || p.pool == nil {
		return nil
	}
	_, err := p.pool.Exec(ctx,
		`INSERT INTO session_events (session_id, kind, payload) VALUES ($1, $2, $3)`,
		sessionID, kind, payload)
	return err
}
