package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tourplanner/internal/config"
	"tourplanner/internal/db"
	"tourplanner/internal/logging"
	"tourplanner/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	shutdownTimeout = 5 * time.Second
	migrateTimeout  = 30 * time.Second
)

var mainDepsProvider = defaultDeps
var mainRunner = realMain

func main() {
	mainRunner(mainDepsProvider())
}

type mainDeps struct {
	loadConfig      func() config.Config
	connectPostgres func(config.Config) (*pgxpool.Pool, error)
	migrate         func(context.Context, db.Querier) error
	connectRedis    func(config.Config) *redis.Client
	notify          func(chan<- os.Signal, ...os.Signal)
	run             func(context.Context, config.Config, zerolog.Logger, *pgxpool.Pool, *redis.Client, <-chan os.Signal, ListenFunc) error
}

func defaultDeps() mainDeps {
	return mainDeps{
		loadConfig:      config.Load,
		connectPostgres: db.ConnectPostgres,
		migrate:         db.Migrate,
		connectRedis:    db.ConnectRedis,
		notify:          signal.Notify,
		run:             Run,
	}
}

func realMain(deps mainDeps) {
	cfg := deps.loadConfig()
	logger := logging.Build(logging.Config{Level: cfg.LogLevel, Console: cfg.LogConsole, Component: "api"}, os.Stdout)

	pg := openPostgres(deps, cfg, logger)
	rdb := deps.connectRedis(cfg)

	signals := make(chan os.Signal, 1)
	deps.notify(signals, syscall.SIGINT, syscall.SIGTERM)

	if err := deps.run(context.Background(), cfg, logger, pg, rdb, signals, nil); err != nil {
		logger.Error().Err(err).Msg("server exited with error")
	}
}

// openPostgres returns nil when no database is configured or reachable, in
// which case the server runs on in-memory stores.
func openPostgres(deps mainDeps, cfg config.Config, logger zerolog.Logger) *pgxpool.Pool {
	if cfg.PostgresURL == "" {
		logger.Info().Msg("no postgres configured, using in-memory stores")
		return nil
	}
	pg, err := deps.connectPostgres(cfg)
	if err != nil {
		logger.Error().Err(err).Msg("postgres connection failed, using in-memory stores")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
	defer cancel()
	if err := deps.migrate(ctx, pg); err != nil {
		logger.Error().Err(err).Msg("postgres migration failed, using in-memory stores")
		pg.Close()
		return nil
	}
	return pg
}

type ListenFunc func(app *fiber.App, addr string) error

var defaultListen ListenFunc = func(app *fiber.App, addr string) error {
	return app.Listen(addr)
}

var shutdownFn = func(app *fiber.App, ctx context.Context) error {
	return app.ShutdownWithContext(ctx)
}

// Run starts the HTTP server and waits for termination signals.
func Run(ctx context.Context, cfg config.Config, logger zerolog.Logger, pg *pgxpool.Pool, rdb *redis.Client, signals <-chan os.Signal, listen ListenFunc) error {
	var q db.Querier
	if pg != nil {
		q = pg
	}
	srv := server.NewServer(cfg, q, rdb, logger)

	if listen == nil {
		listen = defaultListen
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- listen(srv.App, cfg.ServerPort)
	}()
	logger.Info().Str("addr", cfg.ServerPort).Msg("listening")

	select {
	case sig := <-signals:
		logger.Info().Stringer("signal", sig).Msg("shutting down")
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := shutdownFn(srv.App, shutdownCtx); err != nil {
		return err
	}
	if err := srv.Close(); err != nil {
		logger.Warn().Err(err).Msg("closing stream subscription")
	}
	if pg != nil {
		pg.Close()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	return nil
}
