package shardtail

import (
	"context"
)

// Shardtail is the lifecycle surface of a running consumer.
type Shardtail[T any] interface {
	Begin(ctx context.Context) error
	End()
	Events() <-chan *Event[T]
	Err() error
}
