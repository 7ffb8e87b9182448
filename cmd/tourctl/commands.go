package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"tourplanner/internal/config"
	"tourplanner/internal/db"
	"tourplanner/internal/logging"
	"tourplanner/internal/search"
	"tourplanner/internal/tour"
	"tourplanner/internal/tourlog"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
)

var errNoDatabase = errors.New("no database configured: set --postgres-url or POSTGRES_URL")

// connectFn opens the database. The returned func releases it.
var connectFn = func(url string) (db.Querier, func(), error) {
	pool, err := db.ConnectPostgres(config.Config{PostgresURL: url})
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	return pool, pool.Close, nil
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search tours by text, rating and log dates",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "Text to match against tours, logs and derived values"},
			&cli.IntFlag{Name: "min-rating", Usage: "Only tours with a log rated at least this"},
			&cli.StringFlag{Name: "from", Usage: "Only tours with a log on or after this date (YYYY-MM-DD or RFC 3339)"},
			&cli.StringFlag{Name: "to", Usage: "Only tours with a log on or before this date (YYYY-MM-DD or RFC 3339)"},
			&cli.StringFlag{Name: "sort", Usage: "Sort key: Name or DistanceKm", Value: search.SortByName.String()},
			&cli.BoolFlag{Name: "desc", Usage: "Sort descending"},
			&cli.IntFlag{Name: "page", Usage: "Page number", Value: 1},
			&cli.IntFlag{Name: "page-size", Usage: "Tours per page", Value: search.DefaultPageSize},
			&cli.BoolFlag{Name: "json", Usage: "Print JSON instead of a table"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			req, err := searchRequest(c)
			if err != nil {
				return err
			}
			return withSearcher(c, func(s search.Searcher) error {
				res, err := s.Search(ctx, req)
				if err != nil {
					return fmt.Errorf("searching tours: %w", err)
				}
				out := c.Root().Writer
				if c.Bool("json") {
					return writeJSON(out, res)
				}
				renderSearch(out, res)
				return nil
			})
		},
	}
}

func summariesCommand() *cli.Command {
	return &cli.Command{
		Name:  "summaries",
		Usage: "Show popularity, average rating and child-friendliness per tour",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Print JSON instead of a table"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return withSearcher(c, func(s search.Searcher) error {
				res, err := s.Summaries(ctx)
				if err != nil {
					return fmt.Errorf("computing summaries: %w", err)
				}
				out := c.Root().Writer
				if c.Bool("json") {
					return writeJSON(out, res)
				}
				renderSummaries(out, res)
				return nil
			})
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create the tour tables and indexes",
		Action: func(ctx context.Context, c *cli.Command) error {
			q, closeDB, err := open(c)
			if err != nil {
				return err
			}
			defer closeDB()

			if err := db.Migrate(ctx, q); err != nil {
				return err
			}
			fmt.Fprintln(c.Root().Writer, successStyle.Render("schema is up to date"))
			return nil
		},
	}
}

func searchRequest(c *cli.Command) (search.Request, error) {
	req := search.Request{
		Text:     c.String("query"),
		SortBy:   search.ParseSortField(c.String("sort")),
		Desc:     c.Bool("desc"),
		Page:     c.Int("page"),
		PageSize: c.Int("page-size"),
	}
	if c.IsSet("min-rating") {
		n := c.Int("min-rating")
		req.MinRating = &n
	}
	if v := c.String("from"); v != "" {
		t, err := search.ParseDate(v, false)
		if err != nil {
			return search.Request{}, fmt.Errorf("--from: %w", err)
		}
		req.DateFrom = &t
	}
	if v := c.String("to"); v != "" {
		t, err := search.ParseDate(v, true)
		if err != nil {
			return search.Request{}, fmt.Errorf("--to: %w", err)
		}
		req.DateTo = &t
	}
	return req, nil
}

func open(c *cli.Command) (db.Querier, func(), error) {
	url := c.String("postgres-url")
	if url == "" {
		return nil, nil, errNoDatabase
	}
	return connectFn(url)
}

func withSearcher(c *cli.Command, fn func(search.Searcher) error) error {
	q, closeDB, err := open(c)
	if err != nil {
		return err
	}
	defer closeDB()
	return fn(newSearcher(q, c.String("backend"), newLogger(c)))
}

func newSearcher(q db.Querier, backend string, logger zerolog.Logger) search.Searcher {
	if backend == config.BackendScan {
		return search.NewEngine(tour.NewPostgresStore(q), tourlog.NewPostgresStore(q), logger)
	}
	return search.NewQueryEngine(q, logger)
}

func newLogger(c *cli.Command) zerolog.Logger {
	return logging.Build(logging.Config{
		Level:     c.String("log-level"),
		Console:   true,
		Component: "tourctl",
	}, os.Stderr)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
