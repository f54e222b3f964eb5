package main

import (
	"context"
	"io"
	"os"

	"github.com/urfave/cli"
)

var cmdStatus = cli.Command{
	Name:    "status",
	Aliases: []string{"s"},
	Usage:   "Prints the stored position of a stream",
	Action:  runStatus,
	Flags:   concatFlags(flagsStream, flagsCheckpoint),
}

func runStatus(ctx *cli.Context) error {
	stream, err := getStream(ctx)
	if err != nil {
		return err
	}
	cp, err := newCheckpointer(ctx, stream)
	if err != nil {
		return err
	}
	defer cp.close()
	return printStatus(context.Background(), os.Stdout, stream, cp)
}

func printStatus(ctx context.Context, w io.Writer, stream string, cp *checkpoint) error {
	position, ok, err := cp.Load(ctx)
	if err != nil {
		return err
	}

	if !ok {
		position = ""
	}
	t := newTable("stream", "checkpoint", "location", "sequence number")
	t.add(stream, cp.backend, cp.location, position)
	t.write(w)
	return nil
}
