package shardtail

import (
	"time"

	k "github.com/remind101/shardtail/interface"
)

// Event is a decoded record together with where it was read from.
type Event[T any] struct {
	Value              T
	SequenceNumber     string
	PartitionKey       string
	ShardID            string
	ArrivedAt          time.Time
	MillisBehindLatest int64
}

func newEvent[T any](v T, rec *k.Record, shardID string, lag int64) *Event[T] {
	return &Event[T]{
		Value:              v,
		SequenceNumber:     rec.SequenceNumber,
		PartitionKey:       rec.PartitionKey,
		ShardID:            shardID,
		ArrivedAt:          rec.ArrivedAt,
		MillisBehindLatest: lag,
	}
}
