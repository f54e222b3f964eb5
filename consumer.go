package shardtail

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pborman/uuid"
	k "github.com/remind101/shardtail/interface"
	emptyprovisioner "github.com/remind101/shardtail/provisioners/empty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Options struct {
	// Maximum number of records per pull.
	GetRecordsLimit int64
	// How long to wait before pulling again once the shard head is reached.
	WaitTime time.Duration
	// Capacity of the Events channel. Zero hands each event off synchronously,
	// so at most one event is in flight ahead of its checkpoint.
	EventBuffer int
	// Save the position once per batch instead of once per record. Fewer
	// writes, but a crash may redeliver up to a whole batch.
	CheckpointPerBatch bool
	// Defaults to a provisioner that never contends.
	Provisioner k.Provisioner
	Logger      zerolog.Logger
}

var DefaultOptions = Options{
	GetRecordsLimit: 1000,
	WaitTime:        5 * time.Second,
	Logger:          log.Logger,
}

// Consumer reads a single shard of a stream, decodes every record and
// checkpoints after each one, so a restarted process picks up right after the
// last record it handled.
type Consumer[T any] struct {
	Provider     k.Provider
	Checkpointer k.Checkpointer
	Decoder      Decoder[T]
	Stream       string

	opt    Options
	logger zerolog.Logger
	wait   func(ctx context.Context, d time.Duration) error

	events chan *Event[T]
	cancel context.CancelFunc
	done   chan struct{}
	mut    sync.Mutex
	err    error
}

var _ Shardtail[any] = (*Consumer[any])(nil)

func New[T any](provider k.Provider, checkpointer k.Checkpointer, stream string, decoder Decoder[T],
	opt *Options) (*Consumer[T], error) {
	if provider == nil || checkpointer == nil {
		return nil, errors.New("shardtail: provider and checkpointer are required")
	}
	if stream == "" {
		return nil, errors.New("shardtail: stream name is required")
	}
	if opt == nil {
		o := DefaultOptions
		opt = &o
	}
	o := *opt
	if o.GetRecordsLimit <= 0 {
		o.GetRecordsLimit = DefaultOptions.GetRecordsLimit
	}
	if o.WaitTime < 0 {
		o.WaitTime = 0
	}
	if o.Provisioner == nil {
		o.Provisioner = &emptyprovisioner.Provisioner{}
	}
	if decoder == nil {
		decoder = JSONDecoder[T]()
	}
	return &Consumer[T]{
		Provider:     provider,
		Checkpointer: checkpointer,
		Decoder:      decoder,
		Stream:       stream,
		opt:          o,
		logger:       o.Logger.With().Str("stream", stream).Str("run", uuid.New()).Logger(),
		wait:         sleep,
	}, nil
}

// Run resolves the starting position and then consumes the shard, sending
// each decoded event on out, until ctx is cancelled or a fatal error occurs.
// It never returns nil.
func (c *Consumer[T]) Run(ctx context.Context, out chan<- *Event[T]) error {
	it, err := c.initialize(ctx)
	if err != nil {
		return err
	}
	defer c.release(it)
	return c.consume(ctx, it, out)
}

// Begin resolves the starting position synchronously, so a bad configuration
// or an expired checkpoint surfaces here, then consumes in the background.
func (c *Consumer[T]) Begin(ctx context.Context) error {
	it, err := c.initialize(ctx)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.events = make(chan *Event[T], c.opt.EventBuffer)
	c.done = make(chan struct{})

	go func() {
		defer close(c.done)
		defer close(c.events)
		defer c.release(it)
		err := c.consume(ctx, it, c.events)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		c.mut.Lock()
		c.err = err
		c.mut.Unlock()
	}()
	return nil
}

// End stops consumption after the record in hand and waits for the loop to
// exit. Events not received by then are not checkpointed and will be read
// again on the next run.
func (c *Consumer[T]) End() {
	if c.cancel == nil {
		return
	}
	c.cancel()
	<-c.done
}

// Events is closed when consumption stops; check Err afterwards.
func (c *Consumer[T]) Events() <-chan *Event[T] {
	return c.events
}

func (c *Consumer[T]) Err() error {
	c.mut.Lock()
	defer c.mut.Unlock()
	return c.err
}

func (c *Consumer[T]) initialize(ctx context.Context) (*ShardIterator, error) {
	it := NewShardIterator(c.Provider, c.Checkpointer, c.opt.Provisioner, c.Stream, c.logger)
	if err := it.Init(ctx); err != nil {
		c.logger.Error().Err(err).Msg("Could not start shard iteration")
		return nil, err
	}
	return it, nil
}

func (c *Consumer[T]) release(it *ShardIterator) {
	if err := c.opt.Provisioner.Release(context.Background(), it.Shard().ID); err != nil {
		c.logger.Warn().Err(err).Str("shard", it.Shard().ID).Msg("Could not release shard")
	}
}

func (c *Consumer[T]) consume(ctx context.Context, it *ShardIterator, out chan<- *Event[T]) (err error) {
	shardID := it.Shard().ID
	logger := c.logger.With().Str("shard", shardID).Logger()

	// Position of the last record handled but not yet saved; only used when
	// checkpointing per batch.
	var pending string
	defer func() {
		if pending == "" {
			return
		}
		if serr := c.save(ctx, pending); serr != nil && err == nil {
			err = serr
		}
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := c.opt.Provisioner.Heartbeat(ctx, shardID); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return k.NewError(k.ECrit, k.ErrLeaseLost, "Heartbeat failed for shard "+shardID, err)
		}

		batch, err := it.Next(ctx, c.opt.GetRecordsLimit)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		logger.Debug().
			Int("records", len(batch.Records)).
			Int64("millis_behind_latest", batch.MillisBehindLatest).
			Msg("Records retrieved")

		for _, rec := range batch.Records {
			if err := ctx.Err(); err != nil {
				return err
			}

			if v, ok := c.decode(logger, rec); ok {
				select {
				case out <- newEvent(v, rec, shardID, batch.MillisBehindLatest):
				case <-ctx.Done():
					return ctx.Err()
				}
			}

			if c.opt.CheckpointPerBatch {
				pending = rec.SequenceNumber
				continue
			}
			if err := c.save(ctx, rec.SequenceNumber); err != nil {
				return err
			}
		}

		if pending != "" {
			p := pending
			pending = ""
			if err := c.save(ctx, p); err != nil {
				return err
			}
		}

		if err := it.Rotate(batch.NextCursor); err != nil {
			logger.Error().Err(err).Msg("Shard iteration stopped")
			return err
		}

		if batch.CaughtUp() {
			if err := c.wait(ctx, c.opt.WaitTime); err != nil {
				return err
			}
		}
	}
}

// decode never fails the loop: a bad payload is logged and skipped.
func (c *Consumer[T]) decode(logger zerolog.Logger, rec *k.Record) (T, bool) {
	v, err := c.Decoder.Decode(rec.Data)
	if err != nil {
		if !errors.Is(err, ErrSkip) {
			logger.Warn().
				Err(err).
				Str("sequence", rec.SequenceNumber).
				Bytes("payload", rec.Data).
				Msg("Could not decode record, skipping")
		}
		var zero T
		return zero, false
	}
	return v, true
}

// save is detached from cancellation: a handed-off event always gets its checkpoint.
func (c *Consumer[T]) save(ctx context.Context, position string) error {
	if err := c.Checkpointer.Save(context.WithoutCancel(ctx), position); err != nil {
		c.logger.Error().Err(err).Str("sequence", position).Msg("Could not save checkpoint")
		return k.NewError(k.ECrit, k.ErrCheckpoint, "Could not save checkpoint "+position, err)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
