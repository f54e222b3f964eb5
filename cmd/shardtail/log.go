package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli"
)

var (
	fLogLevel = "log.level"
	fLogJSON  = "log.json"
)

var flagsLog = []cli.Flag{
	cli.StringFlag{
		Name:   fLogLevel,
		Value:  "info",
		Usage:  "Minimum level logged to stderr",
		EnvVar: "LOG_LEVEL",
	},
	cli.BoolFlag{
		Name:   fLogJSON,
		Usage:  "Log JSON lines instead of console output",
		EnvVar: "LOG_JSON",
	},
}

// Records go to stdout, logs go to stderr.
func setupLogger(ctx *cli.Context) error {
	level, err := zerolog.ParseLevel(ctx.GlobalString(fLogLevel))
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)
	if ctx.GlobalBool(fLogJSON) {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	return nil
}
