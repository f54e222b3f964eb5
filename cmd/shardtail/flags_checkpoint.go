package main

import (
	"context"
	"fmt"

	emptycheckpointer "github.com/remind101/shardtail/checkpointers/empty"
	filecheckpointer "github.com/remind101/shardtail/checkpointers/file"
	postgrescheckpointer "github.com/remind101/shardtail/checkpointers/postgres"
	redischeckpointer "github.com/remind101/shardtail/checkpointers/redis"
	s3checkpointer "github.com/remind101/shardtail/checkpointers/s3"
	k "github.com/remind101/shardtail/interface"
	"github.com/urfave/cli"
)

var (
	fCheckpoint     = "checkpoint"
	fCheckpointFile = "checkpoint.file"
	fPostgresURL    = "postgres.url"
	fPostgresTable  = "postgres.table"
	fS3Endpoint     = "s3.endpoint"
	fS3Access       = "s3.accesskey"
	fS3Secret       = "s3.secretkey"
	fS3Insecure     = "s3.insecure"
	fS3Bucket       = "s3.bucket"
	fS3Prefix       = "s3.prefix"
)

var flagsCheckpoint = append([]cli.Flag{
	cli.StringFlag{
		Name:   fCheckpoint,
		Value:  "file",
		Usage:  "Where the position is stored: file, redis, postgres, s3 or none",
		EnvVar: "CHECKPOINT",
	},
	cli.StringFlag{
		Name:   fCheckpointFile,
		Value:  filecheckpointer.DefaultPath,
		Usage:  "The position file of the file checkpointer",
		EnvVar: "CHECKPOINT_FILE",
	},
	cli.StringFlag{
		Name:   fPostgresURL,
		Usage:  "The postgres connection string",
		EnvVar: "DATABASE_URL",
	},
	cli.StringFlag{
		Name:   fPostgresTable,
		Value:  postgrescheckpointer.DefaultTable,
		Usage:  "The postgres checkpoint table, created when missing",
		EnvVar: "POSTGRES_TABLE",
	},
	cli.StringFlag{
		Name:   fS3Endpoint,
		Value:  "s3.amazonaws.com",
		Usage:  "The S3 compatible endpoint",
		EnvVar: "S3_ENDPOINT",
	},
	cli.StringFlag{
		Name:   fS3Access,
		Usage:  "The S3 access key",
		EnvVar: "S3_ACCESS_KEY",
	},
	cli.StringFlag{
		Name:   fS3Secret,
		Usage:  "The S3 secret key",
		EnvVar: "S3_SECRET_KEY",
	},
	cli.BoolFlag{
		Name:   fS3Insecure,
		Usage:  "Talk plain HTTP to the S3 endpoint",
		EnvVar: "S3_INSECURE",
	},
	cli.StringFlag{
		Name:   fS3Bucket,
		Usage:  "The bucket holding position objects",
		EnvVar: "S3_BUCKET",
	},
	cli.StringFlag{
		Name:   fS3Prefix,
		Value:  "shardtail",
		Usage:  "Key prefix of position objects",
		EnvVar: "S3_PREFIX",
	},
}, flagsRedis...)

// checkpoint is a configured backend plus whatever must be closed after use.
type checkpoint struct {
	k.Checkpointer
	backend  string
	location string
	close    func()
}

func newCheckpointer(ctx *cli.Context, stream string) (*checkpoint, error) {
	backend := ctx.String(fCheckpoint)
	cp := &checkpoint{backend: backend, close: func() {}}

	switch backend {
	case "file":
		c := filecheckpointer.New(ctx.String(fCheckpointFile))
		cp.Checkpointer, cp.location = c, c.Path()

	case "none":
		cp.Checkpointer, cp.location = &emptycheckpointer.Checkpointer{}, "-"

	case "redis":
		pool, err := getRedisPool(ctx)
		if err != nil {
			return nil, err
		}
		prefix := ctx.String(fRedisPrefix)
		c, err := redischeckpointer.New(&redischeckpointer.Options{
			RedisPool:   pool,
			RedisPrefix: prefix,
			Stream:      stream,
		})
		if err != nil {
			pool.Close()
			return nil, err
		}
		cp.Checkpointer, cp.location = c, prefix+":sequence "+stream
		cp.close = func() { pool.Close() }

	case "postgres":
		dsn := ctx.String(fPostgresURL)
		if dsn == "" {
			return nil, fmt.Errorf("a postgres URL is required (--%s)", fPostgresURL)
		}
		db, err := postgrescheckpointer.Open(dsn)
		if err != nil {
			return nil, err
		}
		table := ctx.String(fPostgresTable)
		c, err := postgrescheckpointer.New(&postgrescheckpointer.Options{
			DB:     db,
			Table:  table,
			Stream: stream,
		})
		if err == nil {
			err = c.EnsureSchema(context.Background())
		}
		if err != nil {
			db.Close()
			return nil, err
		}
		cp.Checkpointer, cp.location = c, table+" "+stream
		cp.close = func() { db.Close() }

	case "s3":
		client, err := s3checkpointer.NewClient(
			ctx.String(fS3Endpoint),
			ctx.String(fS3Access),
			ctx.String(fS3Secret),
			!ctx.Bool(fS3Insecure),
		)
		if err != nil {
			return nil, err
		}
		c, err := s3checkpointer.New(&s3checkpointer.Options{
			Client: client,
			Bucket: ctx.String(fS3Bucket),
			Prefix: ctx.String(fS3Prefix),
			Stream: stream,
		})
		if err != nil {
			return nil, err
		}
		cp.Checkpointer, cp.location = c, "s3://"+ctx.String(fS3Bucket)+"/"+c.Key()

	default:
		return nil, fmt.Errorf("unknown checkpoint backend %q", backend)
	}
	return cp, nil
}
