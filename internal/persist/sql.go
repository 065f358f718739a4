package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// sqlBackend is a key value table behind database/sql
type sqlBackend struct {
	db     *sql.DB
	upsert string
	get    string
	delete string
}

// openSQL opens and pings a database/sql connection, then creates the
// key value table.
func openSQL(ctx context.Context, driver, dsn, ddl string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, ddl); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create %s table: %w", tableName, err)
	}

	return db, nil
}

// Get reads the value stored under key
func (b *sqlBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := b.db.QueryRowContext(ctx, b.get, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", key, err)
	}
	return value, nil
}

// Put inserts or replaces the value under key
func (b *sqlBackend) Put(ctx context.Context, key string, value []byte) error {
	if _, err := b.db.ExecContext(ctx, b.upsert, key, value); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

// Delete removes key
func (b *sqlBackend) Delete(ctx context.Context, key string) error {
	if _, err := b.db.ExecContext(ctx, b.delete, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Close closes the database connection
func (b *sqlBackend) Close() error {
	return b.db.Close()
}
