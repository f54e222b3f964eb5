package postgrescheckpointer

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupPostgres(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "shardtail",
			"POSTGRES_PASSWORD": "shardtail",
			"POSTGRES_DB":       "shardtail",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)
	t.Cleanup(func() { container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	db, err := Open(fmt.Sprintf("postgres://shardtail:shardtail@%s:%s/shardtail?sslmode=disable", host, port.Port()))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewValidatesOptions(t *testing.T) {
	_, err := New(&Options{Stream: "s"})
	assert.Error(t, err)
	_, err = New(&Options{DB: &sql.DB{}})
	assert.Error(t, err)

	c, err := New(&Options{DB: &sql.DB{}, Stream: "s"})
	require.NoError(t, err)
	assert.Equal(t, `"shardtail_checkpoints"`, c.table)
}

func TestPostgresLoadSaveClear(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()

	c, err := New(&Options{DB: db, Stream: "ctr-stream"})
	require.NoError(t, err)
	require.NoError(t, c.EnsureSchema(ctx))
	require.NoError(t, c.EnsureSchema(ctx))

	_, ok, err := c.Load(ctx)
	assert.Nil(t, err)
	assert.False(t, ok)

	require.Nil(t, c.Save(ctx, "1000"))
	require.Nil(t, c.Save(ctx, "1001"))

	other, err := New(&Options{DB: db, Stream: "other-stream"})
	require.NoError(t, err)
	require.Nil(t, other.Save(ctx, "9"))

	seq, ok, err := c.Load(ctx)
	assert.Nil(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1001", seq)

	require.Nil(t, c.Clear(ctx))
	_, ok, err = c.Load(ctx)
	assert.Nil(t, err)
	assert.False(t, ok)

	seq, _, _ = other.Load(ctx)
	assert.Equal(t, "9", seq)
}
