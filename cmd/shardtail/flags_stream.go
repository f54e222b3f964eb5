package main

import (
	"errors"

	"github.com/urfave/cli"
)

var fStream = "stream"

var flagsStream = []cli.Flag{
	cli.StringFlag{
		Name:   fStream + ", s",
		Usage:  "The Kinesis stream name",
		EnvVar: "AWS_KINESIS_STREAM",
	},
}

func getStream(ctx *cli.Context) (string, error) {
	stream := ctx.String(fStream)
	if stream == "" {
		return "", errors.New("a stream name is required (--stream)")
	}
	return stream, nil
}
