package s3checkpointer

import (
	"bytes"
	"context"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"golang.org/x/xerrors"
)

// Checkpointer stores the position as the object <prefix>/<stream>. A single
// PutObject replaces the object atomically.
type Checkpointer struct {
	client *minio.Client
	bucket string
	key    string
}

type Options struct {
	Client *minio.Client
	Bucket string
	Prefix string
	Stream string
}

func New(opt *Options) (*Checkpointer, error) {
	if opt.Client == nil {
		return nil, xerrors.New("s3 checkpointer needs a client")
	}
	if opt.Bucket == "" || opt.Stream == "" {
		return nil, xerrors.New("s3 checkpointer needs a bucket and a stream name")
	}
	return &Checkpointer{
		client: opt.Client,
		bucket: opt.Bucket,
		key:    path.Join(opt.Prefix, opt.Stream),
	}, nil
}

// NewClient connects to S3 or any S3-compatible endpoint such as minio.
func NewClient(endpoint, accessKey, secretKey string, secure bool) (*minio.Client, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, xerrors.Errorf("failed to create s3 client for %s: %w", endpoint, err)
	}
	return client, nil
}

func (c *Checkpointer) Key() string {
	return c.key
}

func (c *Checkpointer) Load(ctx context.Context) (string, bool, error) {
	obj, err := c.client.GetObject(ctx, c.bucket, c.key, minio.GetObjectOptions{})
	if err != nil {
		return c.notFound(err)
	}
	defer obj.Close()
	b, err := io.ReadAll(obj)
	if err != nil {
		return c.notFound(err)
	}
	seq := strings.TrimSpace(string(b))
	return seq, seq != "", nil
}

func (c *Checkpointer) notFound(err error) (string, bool, error) {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return "", false, nil
	}
	return "", false, xerrors.Errorf("failed to read s3://%s/%s: %w", c.bucket, c.key, err)
}

func (c *Checkpointer) Save(ctx context.Context, position string) error {
	_, err := c.client.PutObject(ctx, c.bucket, c.key, bytes.NewReader([]byte(position)), int64(len(position)),
		minio.PutObjectOptions{ContentType: "text/plain"})
	if err != nil {
		return xerrors.Errorf("failed to write s3://%s/%s: %w", c.bucket, c.key, err)
	}
	return nil
}

func (c *Checkpointer) Clear(ctx context.Context) error {
	if err := c.client.RemoveObject(ctx, c.bucket, c.key, minio.RemoveObjectOptions{}); err != nil {
		return xerrors.Errorf("failed to delete s3://%s/%s: %w", c.bucket, c.key, err)
	}
	return nil
}
