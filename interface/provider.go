package shardtailiface

import (
	"context"
)

// Provider is the slice of a sharded log service the consumer needs: shard
// discovery, the two iterator positioning modes and record pulls.
type Provider interface {
	ListShards(ctx context.Context, stream string) ([]Shard, error)

	// GetIteratorAfter positions strictly after position. It fails with
	// ErrInvalidPosition when the position is no longer readable.
	GetIteratorAfter(ctx context.Context, stream string, shard Shard, position string) (string, error)

	// GetIteratorAtLatest positions at the current head of the shard.
	GetIteratorAtLatest(ctx context.Context, stream string, shard Shard) (string, error)

	Pull(ctx context.Context, cursor string, limit int64) (*Batch, error)
}

type Shard struct {
	ID                     string
	ParentID               string
	StartingHashKey        string
	EndingHashKey          string
	StartingSequenceNumber string
	// Empty while the shard is open.
	EndingSequenceNumber string
}
