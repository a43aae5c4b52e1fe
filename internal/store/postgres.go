package store

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nexhub-community/nexhub-api/internal/submission"
)

// schemaSQL is embedded so the service can self-bootstrap its database schema.
//
//go:embed schema.sql
var schemaSQL string

// PostgresStore keeps a queryable copy of every accepted submission next to the sheet.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a connection pool and fails fast if DB is unreachable.
func NewPostgresStore(dbURL string) (*PostgresStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema applies schema.sql. Safe to run multiple times.
func (p *PostgresStore) EnsureSchema() error {
	_, err := p.pool.Exec(context.Background(), schemaSQL)
	return err
}

// Ping is used by readiness endpoint to validate DB connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close shuts down the connection pool.
func (p *PostgresStore) Close() {
	p.pool.Close()
}

func (p *PostgresStore) Name() string {
	return "postgres"
}

// Persist appends rec as a new row. Identifiers are not unique (they repeat every
// 1000 seconds), so rows are keyed by a serial id and never deduplicated.
func (p *PostgresStore) Persist(ctx context.Context, rec submission.Record) error {
	args, err := insertArgs(rec)
	if err != nil {
		return err
	}

	_, err = p.pool.Exec(ctx, `
		INSERT INTO submissions(submission_id, category, status, fields, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, args...)
	return err
}

// CountSubmissions returns how many submissions of category were stored in [from,to).
func (p *PostgresStore) CountSubmissions(
	ctx context.Context,
	category submission.Category,
	from time.Time,
	to time.Time,
) (int64, error) {

	var count int64
	err := p.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM submissions
		WHERE category=$1
		  AND created_at >= $2
		  AND created_at <  $3
	`, string(category), from, to).Scan(&count)

	return count, err
}

func insertArgs(rec submission.Record) ([]any, error) {
	if rec.ID == "" || !rec.Category.Valid() {
		return nil, errors.New("record id and category required")
	}

	fieldsJSON, err := json.Marshal(rec.Fields)
	if err != nil {
		return nil, err
	}

	return []any{rec.ID, string(rec.Category), rec.Status, fieldsJSON, rec.CreatedAt}, nil
}
