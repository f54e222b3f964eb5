package shardtailiface

import (
	"time"
)

type Record struct {
	SequenceNumber string
	PartitionKey   string
	Data           []byte
	ArrivedAt      time.Time
}

// Batch is the result of one Pull. NextCursor is empty once the shard is
// closed and fully read.
type Batch struct {
	Records            []*Record
	NextCursor         string
	MillisBehindLatest int64
}

// CaughtUp reports whether the pull reached the head of the shard.
func (b *Batch) CaughtUp() bool {
	return b.MillisBehindLatest == 0
}
