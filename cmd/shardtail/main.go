package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli"
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "shardtail"
	app.Usage = "Tail a shard of a Kinesis stream and remember where it stopped"
	app.Flags = flagsLog
	app.Before = setupLogger
	app.Commands = []cli.Command{
		cmdTail,
		cmdShards,
		cmdStatus,
		cmdReset,
	}
	return app
}

// run returns the process exit status: 1 for any error, logged at fatal level.
func run(args []string) int {
	if err := newApp().Run(args); err != nil {
		log.WithLevel(zerolog.FatalLevel).Err(err).Msg("shardtail stopped")
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args))
}
