package persist

import (
	"context"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
)

const mysqlSchema = `CREATE TABLE IF NOT EXISTS ` + tableName + ` (
	doc_key VARCHAR(255) NOT NULL PRIMARY KEY,
	doc_value LONGBLOB NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
)`

const mysqlUpsert = `INSERT INTO ` + tableName + ` (doc_key, doc_value) VALUES (?, ?)
ON DUPLICATE KEY UPDATE doc_value = VALUES(doc_value)`

// MySQLBackend stores documents in a MySQL table
type MySQLBackend struct {
	sqlBackend
}

// NewMySQLBackend connects with a go-sql-driver DSN such as
// user:pass@tcp(host:3306)/db
func NewMySQLBackend(ctx context.Context, dsn string) (*MySQLBackend, error) {
	db, err := openSQL(ctx, "mysql", dsn, mysqlSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}

	return &MySQLBackend{sqlBackend{
		db:     db,
		upsert: mysqlUpsert,
		get:    `SELECT doc_value FROM ` + tableName + ` WHERE doc_key = ?`,
		delete: `DELETE FROM ` + tableName + ` WHERE doc_key = ?`,
	}}, nil
}
