package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Jeffail/gabs/v2"
	jsoniter "github.com/json-iterator/go"
	shardtail "github.com/remind101/shardtail"
	"github.com/remind101/shardtail/ctr"
	k "github.com/remind101/shardtail/interface"
	redisprovisioner "github.com/remind101/shardtail/provisioners/redis"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli"
)

var cmdTail = cli.Command{
	Name:    "tail",
	Aliases: []string{"t"},
	Usage:   "Pipes the first shard of a Kinesis stream to standard out, one JSON record per line",
	Action:  runTail,
	Flags: concatFlags(
		flagsStream,
		[]cli.Flag{
			cli.DurationFlag{
				Name:   "wait",
				Value:  shardtail.DefaultOptions.WaitTime,
				Usage:  "How long to wait before polling again once caught up",
				EnvVar: "WAIT_TIME",
			},
			cli.Int64Flag{
				Name:   "limit",
				Value:  shardtail.DefaultOptions.GetRecordsLimit,
				Usage:  "Maximum number of records per poll",
				EnvVar: "GET_RECORDS_LIMIT",
			},
			cli.BoolFlag{
				Name:  "batch",
				Usage: "Save the position once per poll instead of once per record",
			},
			cli.DurationFlag{
				Name:  "lease",
				Usage: "Hold a redis lease on the shard with this TTL, 0 disables it",
			},
			cli.StringFlag{
				Name:  "path, p",
				Usage: "Print only this dotted path of each record, e.g. Agent.Username",
			},
		},
		flagsAws,
		flagsCheckpoint,
	),
}

func runTail(ctx *cli.Context) error {
	stream, err := getStream(ctx)
	if err != nil {
		return err
	}
	provider, err := newProvider(ctx)
	if err != nil {
		return err
	}
	cp, err := newCheckpointer(ctx, stream)
	if err != nil {
		return err
	}
	defer cp.close()

	opt := shardtail.DefaultOptions
	opt.WaitTime = ctx.Duration("wait")
	opt.GetRecordsLimit = ctx.Int64("limit")
	opt.CheckpointPerBatch = ctx.Bool("batch")
	opt.Logger = log.Logger

	if ttl := ctx.Duration("lease"); ttl > 0 {
		pool, err := getRedisPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()
		opt.Provisioner, err = redisprovisioner.New(&redisprovisioner.Options{
			TTL:         ttl,
			RedisPool:   pool,
			RedisPrefix: ctx.String(fRedisPrefix),
		})
		if err != nil {
			return err
		}
	}

	sigctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if path := ctx.String("path"); path != "" {
		return tail(sigctx, provider, cp, stream, pathDecoder(path), &opt, os.Stdout)
	}
	return tail(sigctx, provider, cp, stream, ctr.Decoder(), &opt, os.Stdout)
}

// tail prints every event until ctx is cancelled or the consumer fails.
func tail[T any](ctx context.Context, provider k.Provider, cp k.Checkpointer, stream string,
	decoder shardtail.Decoder[T], opt *shardtail.Options, w io.Writer) error {
	c, err := shardtail.New(provider, cp, stream, decoder, opt)
	if err != nil {
		return err
	}
	if err := c.Begin(ctx); err != nil {
		return err
	}
	defer c.End()

	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
	for ev := range c.Events() {
		if err := enc.Encode(ev.Value); err != nil {
			return err
		}
	}
	return c.Err()
}

// pathDecoder extracts one dotted path from each payload. Records without it
// are skipped.
func pathDecoder(path string) shardtail.Decoder[any] {
	return shardtail.DecoderFunc[any](func(data []byte) (any, error) {
		parsed, err := gabs.ParseJSON(data)
		if err != nil {
			return nil, err
		}
		if !parsed.ExistsP(path) {
			return nil, shardtail.ErrSkip
		}
		return parsed.Path(path).Data(), nil
	})
}

func concatFlags(groups ...[]cli.Flag) []cli.Flag {
	flags := make([]cli.Flag, 0)
	for _, g := range groups {
		flags = append(flags, g...)
	}
	return flags
}
