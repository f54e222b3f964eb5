package main

import (
	"context"
	"fmt"

	k "github.com/remind101/shardtail/interface"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli"
)

var cmdReset = cli.Command{
	Name:  "reset",
	Usage: "Forgets the stored position of a stream, the next tail starts at the head",
	Action: func(ctx *cli.Context) error {
		stream, err := getStream(ctx)
		if err != nil {
			return err
		}
		cp, err := newCheckpointer(ctx, stream)
		if err != nil {
			return err
		}
		defer cp.close()
		if err := reset(context.Background(), cp); err != nil {
			return err
		}
		log.Info().Str("stream", stream).Str("checkpoint", cp.backend).Msg("Position cleared")
		return nil
	},
	Flags: concatFlags(flagsStream, flagsCheckpoint),
}

func reset(ctx context.Context, cp *checkpoint) error {
	c, ok := cp.Checkpointer.(k.Clearer)
	if !ok {
		return fmt.Errorf("the %s checkpoint cannot be cleared", cp.backend)
	}
	return c.Clear(ctx)
}
