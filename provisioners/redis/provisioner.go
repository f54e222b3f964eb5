package redisprovisioner

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/pborman/uuid" // Exported from code.google.com/p/go-uuid
)

var (
	ErrAlreadyAcquired = errors.New("Lock already acquired by this process")
	ErrNotAcquired     = errors.New("Failed to acquire lock")
	ErrBadLock         = errors.New("Bad lock")
)

// Refresh and release must only touch a lock this process still owns.
var (
	refreshScript = redis.NewScript(1, `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0`)
	releaseScript = redis.NewScript(1, `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)
)

// Provisioner holds shard leases as expiring redis keys.
type Provisioner struct {
	acquired    map[string]bool
	mut         sync.Mutex
	ttl         time.Duration
	pool        *redis.Pool
	redisPrefix string
	lock        string
}

type Options struct {
	TTL         time.Duration
	RedisPool   *redis.Pool
	RedisPrefix string
}

func New(opt *Options) (*Provisioner, error) {
	if opt.RedisPool == nil {
		return nil, errors.New("redis provisioner needs a pool")
	}
	if opt.TTL < time.Millisecond {
		return nil, errors.New("redis provisioner TTL must be at least 1ms")
	}
	return &Provisioner{
		acquired:    make(map[string]bool),
		ttl:         opt.TTL,
		pool:        opt.RedisPool,
		redisPrefix: opt.RedisPrefix,
		lock:        uuid.New(),
	}, nil
}

func (p *Provisioner) key(shardID string) string {
	return p.redisPrefix + ".lock." + shardID
}

func (p *Provisioner) TryAcquire(_ context.Context, shardID string) error {
	p.mut.Lock()
	defer p.mut.Unlock()
	if p.acquired[shardID] {
		return ErrAlreadyAcquired
	}
	conn := p.pool.Get()
	defer conn.Close()
	res, err := redis.String(conn.Do("SET", p.key(shardID), p.lock, "PX", int64(p.ttl/time.Millisecond), "NX"))
	if err == redis.ErrNil {
		return ErrNotAcquired
	}
	if err != nil {
		return err
	}
	if res != "OK" {
		return ErrNotAcquired
	}
	p.acquired[shardID] = true
	return nil
}

// Heartbeat extends the lease. It fails once the lock expired or was taken over.
func (p *Provisioner) Heartbeat(_ context.Context, shardID string) error {
	p.mut.Lock()
	defer p.mut.Unlock()
	if !p.acquired[shardID] {
		return ErrBadLock
	}
	conn := p.pool.Get()
	defer conn.Close()
	n, err := redis.Int(refreshScript.Do(conn, p.key(shardID), p.lock, int64(p.ttl/time.Millisecond)))
	if err != nil {
		return err
	}
	if n != 1 {
		delete(p.acquired, shardID)
		return ErrBadLock
	}
	return nil
}

func (p *Provisioner) Release(_ context.Context, shardID string) error {
	p.mut.Lock()
	defer p.mut.Unlock()
	delete(p.acquired, shardID)
	conn := p.pool.Get()
	defer conn.Close()
	n, err := redis.Int(releaseScript.Do(conn, p.key(shardID), p.lock))
	if err != nil {
		return err
	}
	if n != 1 {
		return ErrBadLock
	}
	return nil
}
