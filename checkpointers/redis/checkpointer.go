package redischeckpointer

import (
	"context"

	"github.com/gomodule/redigo/redis"
	"golang.org/x/xerrors"
)

// Checkpointer keeps one field per stream in the hash <prefix>:sequence.
type Checkpointer struct {
	pool        *redis.Pool
	redisPrefix string
	stream      string
}

type Options struct {
	RedisPool   *redis.Pool
	RedisPrefix string
	Stream      string
}

func New(opt *Options) (*Checkpointer, error) {
	if opt.RedisPool == nil {
		return nil, xerrors.New("redis checkpointer needs a pool")
	}
	if opt.Stream == "" {
		return nil, xerrors.New("redis checkpointer needs a stream name")
	}
	return &Checkpointer{
		pool:        opt.RedisPool,
		redisPrefix: opt.RedisPrefix,
		stream:      opt.Stream,
	}, nil
}

func (r *Checkpointer) key() string {
	return r.redisPrefix + ":sequence"
}

func (r *Checkpointer) Load(context.Context) (string, bool, error) {
	conn := r.pool.Get()
	defer conn.Close()
	seq, err := redis.String(conn.Do("HGET", r.key(), r.stream))
	if err == redis.ErrNil {
		return "", false, nil
	}
	if err != nil {
		return "", false, xerrors.Errorf("failed to read %s %s: %w", r.key(), r.stream, err)
	}
	return seq, seq != "", nil
}

func (r *Checkpointer) Save(_ context.Context, position string) error {
	conn := r.pool.Get()
	defer conn.Close()
	if _, err := conn.Do("HSET", r.key(), r.stream, position); err != nil {
		return xerrors.Errorf("failed to write %s %s: %w", r.key(), r.stream, err)
	}
	return nil
}

func (r *Checkpointer) Clear(context.Context) error {
	conn := r.pool.Get()
	defer conn.Close()
	if _, err := conn.Do("HDEL", r.key(), r.stream); err != nil {
		return xerrors.Errorf("failed to delete %s %s: %w", r.key(), r.stream, err)
	}
	return nil
}
