package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

var server srv

func main() {
	// Missing .env is fine, production passes real environment variables.
	_ = godotenv.Load()

	app := cli.NewApp()
	app.Name = "otakuhub"
	app.Usage = "anime rating and social feed backend"
	app.Commands = []*cli.Command{
		{
			Action:      server.startApi,
			Name:        "api",
			Usage:       "Start the api server",
			Description: `Serves the full HTTP API on the configured host and port.`,
		},
		{
			Action:      server.startMigrate,
			Name:        "migrate",
			Usage:       "Apply pending database migrations",
			Description: `Applies versioned migrations in order and records each applied version.`,
		},
		{
			Action: server.startBackfill,
			Name:   "backfill",
			Usage:  "Rebuild the activity log and user stats from facts",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "user",
					Usage: "backfill a single user id instead of everyone",
				},
				&cli.IntFlag{
					Name:  "concurrency",
					Usage: "number of users backfilled in parallel",
				},
			},
			Description: `Replays ratings, reviews and posts per user, reinserting rank
promotions at the time each threshold was first crossed and recomputing
user stats. Safe to run repeatedly.`,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
