package shardtailiface

import (
	"context"
)

// Provisioner hands out an exclusive lease on a shard so two processes never
// advance the same checkpoint.
type Provisioner interface {
	TryAcquire(ctx context.Context, shardID string) error
	Heartbeat(ctx context.Context, shardID string) error
	Release(ctx context.Context, shardID string) error
}
