// Package persist stores editor documents in a key value backend selected
// by URL: a directory of JSON files, SQLite, PostgreSQL or MySQL.
package persist

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Backend.Get when the key is absent
var ErrNotFound = errors.New("key not found")

// tableName is the key value table SQL backends create on open
const tableName = "erd2prisma_kv"

// Backend is a minimal key value store
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Kind names a backend implementation
type Kind string

const (
	KindFile     Kind = "file"
	KindSQLite   Kind = "sqlite"
	KindPostgres Kind = "postgres"
	KindMySQL    Kind = "mysql"
)

// ParseURL detects the backend kind and returns the connection string the
// driver expects.
func ParseURL(url string) (Kind, string, error) {
	if url == "" {
		return "", "", fmt.Errorf("store URL is required")
	}

	if strings.HasPrefix(url, "file://") {
		dir := strings.TrimPrefix(url, "file://")
		if dir == "" {
			return "", "", fmt.Errorf("file store URL needs a directory")
		}
		return KindFile, dir, nil
	}

	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		return KindPostgres, url, nil
	}

	if strings.HasPrefix(url, "mysql://") {
		// Strip mysql:// prefix for the Go MySQL driver
		return KindMySQL, strings.TrimPrefix(url, "mysql://"), nil
	}

	if strings.HasPrefix(url, "sqlite://") {
		// Strip sqlite:// prefix to get file path
		path := strings.TrimPrefix(url, "sqlite://")
		if path == "" {
			return "", "", fmt.Errorf("sqlite store URL needs a path")
		}
		return KindSQLite, path, nil
	}

	return "", "", fmt.Errorf("invalid store URL scheme (must start with file://, sqlite://, postgres:// or mysql://)")
}

// Open connects the backend named by url and prepares its storage
func Open(ctx context.Context, url string) (Backend, error) {
	kind, conn, err := ParseURL(url)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindFile:
		return NewFileBackend(conn)
	case KindSQLite:
		return NewSQLiteBackend(ctx, conn)
	case KindPostgres:
		return NewPostgresBackend(ctx, conn)
	case KindMySQL:
		return NewMySQLBackend(ctx, conn)
	default:
		return nil, fmt.Errorf("unsupported store kind: %s", kind)
	}
}
