package store

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps records in the kv_store table (see db/). Useful when
// several devices should share one profile and log.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresPool creates a connection pool for dbURL. We use a pool (not a
// single conn) because hosted Postgres closes idle connections.
func NewPostgresPool(ctx context.Context, dbURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("parse DB URL: %w", err)
	}
	// Simple protocol avoids "cached plan must not change result type" after
	// schema changes.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return pool, nil
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: pool}
}

// kvRow maps to kv_store.
type kvRow struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}

// queryOne runs a query and scans the first row into T using RowToStructByName.
func queryOne[T any](ctx context.Context, pool *pgxpool.Pool, sql string, args pgx.NamedArgs) (T, error) {
	rows, err := pool.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryOne] Query error: %v", err)
		var zero T
		return zero, err
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("[queryOne] Scan error: %v", err)
	}
	return result, err
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	row, err := queryOne[kvRow](ctx, s.db,
		"SELECT key, value::text AS value FROM kv_store WHERE key = @key",
		pgx.NamedArgs{"key": key})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(row.Value), nil
}

func (s *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO kv_store (key, value, updated_at)
		 VALUES (@key, @value::jsonb, now())
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		pgx.NamedArgs{"key": key, "value": string(value)})
	return err
}

func (s *PostgresStore) Remove(ctx context.Context, key string) error {
	result, err := s.db.Exec(ctx,
		"DELETE FROM kv_store WHERE key = @key",
		pgx.NamedArgs{"key": key})
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
