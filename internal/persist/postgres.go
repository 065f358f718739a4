package persist

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS ` + tableName + ` (
	doc_key TEXT PRIMARY KEY,
	doc_value BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresBackend stores documents in a PostgreSQL table. A pgx.Conn is
// not safe for concurrent use, so every call holds mu.
type PostgresBackend struct {
	mu   sync.Mutex
	conn *pgx.Conn
}

// NewPostgresBackend connects to PostgreSQL and creates the table
func NewPostgresBackend(ctx context.Context, connString string) (*PostgresBackend, error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := conn.Exec(ctx, postgresSchema); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("failed to create %s table: %w", tableName, err)
	}

	return &PostgresBackend{conn: conn}, nil
}

// Get reads the value stored under key
func (b *PostgresBackend) Get(ctx context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var value []byte
	err := b.conn.QueryRow(ctx, `SELECT doc_value FROM `+tableName+` WHERE doc_key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", key, err)
	}
	return value, nil
}

// Put inserts or replaces the value under key
func (b *PostgresBackend) Put(ctx context.Context, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	_, err := b.conn.Exec(ctx, `INSERT INTO `+tableName+` (doc_key, doc_value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (doc_key) DO UPDATE SET doc_value = EXCLUDED.doc_value, updated_at = now()`, key, value)
	if err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

// Delete removes key
func (b *PostgresBackend) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := b.conn.Exec(ctx, `DELETE FROM `+tableName+` WHERE doc_key = $1`, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Close closes the database connection
func (b *PostgresBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conn.Close(context.Background())
}
