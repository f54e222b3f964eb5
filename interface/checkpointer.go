package shardtailiface

import (
	"context"
)

// Checkpointer durably holds one position marker. Load reports ok == false,
// with a nil error, when nothing was ever saved.
type Checkpointer interface {
	Load(ctx context.Context) (position string, ok bool, err error)
	Save(ctx context.Context, position string) error
}

// Clearer is implemented by checkpointers that support manual resets.
type Clearer interface {
	Clear(ctx context.Context) error
}
