// Command tourctl runs searches, summaries and migrations directly against
// the tour database.
package main

import (
	"context"
	"fmt"
	"os"

	"tourplanner/internal/config"

	"github.com/urfave/cli/v3"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "tourctl:", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "tourctl",
		Usage: "Query and maintain the tour planner database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "postgres-url",
				Usage:   "Postgres connection string",
				Sources: cli.EnvVars("POSTGRES_URL"),
			},
			&cli.StringFlag{
				Name:    "backend",
				Usage:   "Search backend: query (SQL) or scan (in-process)",
				Value:   config.BackendQuery,
				Sources: cli.EnvVars("SEARCH_BACKEND"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "warn",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Commands: []*cli.Command{
			searchCommand(),
			summariesCommand(),
			migrateCommand(),
		},
	}
}
