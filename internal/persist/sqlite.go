package persist

import (
	"context"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS ` + tableName + ` (
	doc_key TEXT PRIMARY KEY,
	doc_value BLOB NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

const sqliteUpsert = `INSERT INTO ` + tableName + ` (doc_key, doc_value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(doc_key) DO UPDATE SET doc_value = excluded.doc_value, updated_at = CURRENT_TIMESTAMP`

// SQLiteBackend stores documents in a SQLite file
type SQLiteBackend struct {
	sqlBackend
}

// NewSQLiteBackend opens the SQLite database at path
func NewSQLiteBackend(ctx context.Context, path string) (*SQLiteBackend, error) {
	db, err := openSQL(ctx, "sqlite3", path, sqliteSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite: %w", err)
	}

	return &SQLiteBackend{sqlBackend{
		db:     db,
		upsert: sqliteUpsert,
		get:    `SELECT doc_value FROM ` + tableName + ` WHERE doc_key = ?`,
		delete: `DELETE FROM ` + tableName + ` WHERE doc_key = ?`,
	}}, nil
}
