//go:build integration
// +build integration

package persist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mysql"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

func TestPostgresBackend(t *testing.T) {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:17-alpine",
		postgres.WithDatabase("erd"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, container.Terminate(ctx))
	}()

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	b, err := Open(ctx, connStr)
	require.NoError(t, err)
	defer func() { _ = b.Close() }()

	assert.IsType(t, &PostgresBackend{}, b)
	exerciseBackend(t, b)

	repo := NewRepository(b, "")
	require.NoError(t, repo.Save(ctx, sampleDocument()))
	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleDocument(), got)
}

func TestMySQLBackend(t *testing.T) {
	ctx := context.Background()

	container, err := mysql.Run(ctx,
		"mysql:8.4",
		mysql.WithDatabase("erd"),
		mysql.WithUsername("testuser"),
		mysql.WithPassword("testpass"),
	)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, container.Terminate(ctx))
	}()

	connStr, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	b, err := Open(ctx, "mysql://"+connStr)
	require.NoError(t, err)
	defer func() { _ = b.Close() }()

	assert.IsType(t, &MySQLBackend{}, b)
	exerciseBackend(t, b)

	repo := NewRepository(b, "")
	require.NoError(t, repo.Save(ctx, sampleDocument()))
	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleDocument(), got)
}
