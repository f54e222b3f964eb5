package s3checkpointer

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	accessKey = "shardtail"
	secretKey = "shardtail-secret"
	bucket    = "checkpoints"
)

func setupMinio(t *testing.T) *minio.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping minio container test in short mode")
	}
	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "minio/minio:latest",
		ExposedPorts: []string{"9000/tcp"},
		Cmd:          []string{"server", "/data"},
		Env: map[string]string{
			"MINIO_ROOT_USER":     accessKey,
			"MINIO_ROOT_PASSWORD": secretKey,
		},
		WaitingFor: wait.ForHTTP("/minio/health/live").WithPort("9000/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)
	t.Cleanup(func() { container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "9000/tcp")
	require.NoError(t, err)

	client, err := NewClient(fmt.Sprintf("%s:%s", host, port.Port()), accessKey, secretKey, false)
	require.NoError(t, err)
	require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	return client
}

func TestNewValidatesOptions(t *testing.T) {
	_, err := New(&Options{Bucket: bucket, Stream: "s"})
	assert.Error(t, err)
	_, err = New(&Options{Client: &minio.Client{}, Stream: "s"})
	assert.Error(t, err)

	c, err := New(&Options{Client: &minio.Client{}, Bucket: bucket, Prefix: "shardtail/", Stream: "ctr"})
	require.NoError(t, err)
	assert.Equal(t, "shardtail/ctr", c.Key())
}

func TestS3LoadSaveClear(t *testing.T) {
	client := setupMinio(t)
	ctx := context.Background()
	c, err := New(&Options{Client: client, Bucket: bucket, Prefix: "shardtail", Stream: "ctr"})
	require.NoError(t, err)

	_, ok, err := c.Load(ctx)
	assert.Nil(t, err)
	assert.False(t, ok)

	require.Nil(t, c.Save(ctx, "1000"))
	require.Nil(t, c.Save(ctx, "1001"))

	seq, ok, err := c.Load(ctx)
	assert.Nil(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1001", seq)

	require.Nil(t, c.Clear(ctx))
	_, ok, err = c.Load(ctx)
	assert.Nil(t, err)
	assert.False(t, ok)
}
