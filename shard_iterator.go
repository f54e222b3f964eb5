package shardtail

import (
	"context"

	k "github.com/remind101/shardtail/interface"
	"github.com/rs/zerolog"
)

const (
	IteratorAfterSequenceNumber = "AFTER_SEQUENCE_NUMBER"
	IteratorLatest              = "LATEST"
)

// ShardIterator resolves the shard to read and owns the rotating cursor for it.
type ShardIterator struct {
	provider     k.Provider
	checkpointer k.Checkpointer
	provisioner  k.Provisioner
	stream       string
	logger       zerolog.Logger

	shard    k.Shard
	cursor   string
	mode     string
	position string
}

func NewShardIterator(provider k.Provider, checkpointer k.Checkpointer, provisioner k.Provisioner,
	stream string, logger zerolog.Logger) *ShardIterator {
	return &ShardIterator{
		provider:     provider,
		checkpointer: checkpointer,
		provisioner:  provisioner,
		stream:       stream,
		logger:       logger,
	}
}

// Init picks the first shard of the stream and positions the cursor after the
// stored checkpoint, or at the head when there is none. Every failure is fatal.
func (s *ShardIterator) Init(ctx context.Context) (err error) {
	shards, err := s.provider.ListShards(ctx, s.stream)
	if err != nil {
		return k.NewError(k.ECrit, nil, "Could not list shards of "+s.stream, err)
	}
	if len(shards) == 0 {
		return k.NewError(k.ECrit, k.ErrShardNotFound, "No shard found on stream "+s.stream, nil)
	}
	s.shard = shards[0]

	if s.provisioner != nil {
		if err := s.provisioner.TryAcquire(ctx, s.shard.ID); err != nil {
			return k.NewError(k.ECrit, k.ErrLeaseLost, "Could not acquire shard "+s.shard.ID, err)
		}
		defer func() {
			if err == nil {
				return
			}
			if rerr := s.provisioner.Release(context.WithoutCancel(ctx), s.shard.ID); rerr != nil {
				s.logger.Warn().Err(rerr).Str("shard", s.shard.ID).Msg("Could not release shard")
			}
		}()
	}

	position, ok, err := s.checkpointer.Load(ctx)
	if err != nil {
		return k.NewError(k.ECrit, k.ErrCheckpoint, "Could not load checkpoint", err)
	}

	var it string
	if ok {
		s.mode = IteratorAfterSequenceNumber
		s.position = position
		it, err = s.provider.GetIteratorAfter(ctx, s.stream, s.shard, position)
	} else {
		s.mode = IteratorLatest
		it, err = s.provider.GetIteratorAtLatest(ctx, s.stream, s.shard)
	}
	if err != nil {
		return k.NewError(k.ECrit, nil, "Could not get "+s.mode+" shard iterator", err)
	}
	if it == "" {
		return k.NewError(k.ECrit, k.ErrProviderUnavailable, "Provider returned no shard iterator", nil)
	}
	s.cursor = it

	ev := s.logger.Info().Str("stream", s.stream).Str("shard", s.shard.ID).Str("mode", s.mode)
	if ok {
		ev = ev.Str("sequence", position)
	}
	ev.Msg("Shard iteration started")
	return nil
}

// Next pulls the batch at the active cursor. The cursor is not advanced until
// Rotate is called.
func (s *ShardIterator) Next(ctx context.Context, limit int64) (*k.Batch, error) {
	batch, err := s.provider.Pull(ctx, s.cursor, limit)
	if err != nil {
		return nil, k.NewError(k.ECrit, nil, "Could not get records from shard "+s.shard.ID, err)
	}
	return batch, nil
}

// Rotate replaces the active cursor. An empty cursor means the shard has been
// closed, which this consumer does not follow.
func (s *ShardIterator) Rotate(next string) error {
	if next == "" {
		return k.NewError(k.ECrit, k.ErrShardClosed, "Shard "+s.shard.ID+" has reached its end", nil)
	}
	s.cursor = next
	return nil
}

func (s *ShardIterator) Shard() k.Shard {
	return s.shard
}

// Mode is IteratorAfterSequenceNumber or IteratorLatest once Init succeeded.
func (s *ShardIterator) Mode() string {
	return s.mode
}

// Position is the checkpoint the iterator resumed from, if any.
func (s *ShardIterator) Position() string {
	return s.position
}
