package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/codekeep/codekeep/app"
	"github.com/codekeep/codekeep/core/config"
	"github.com/codekeep/codekeep/core/logger"
	"github.com/codekeep/codekeep/core/record"
	"github.com/codekeep/codekeep/core/server"
	"github.com/codekeep/codekeep/integration/database/pg"
	redisconn "github.com/codekeep/codekeep/integration/database/redis"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type appConfig struct {
	// StorageDriver selects the record store: memory, redis or postgres.
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"memory"`

	Logger   logger.Config
	Server   server.Config
	Redis    redisconn.Config
	Postgres pg.Config
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "codekeepd:", err)
		os.Exit(1)
	}
}

func run() error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, health, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StorageDriver, err)
	}
	defer closeStore()

	opts := []app.Option{app.WithLogger(log)}
	if health != nil {
		opts = append(opts, app.WithHealthcheck(health))
	}
	application := app.New(store, opts...)

	srv, err := server.NewFromConfig(cfg.Server, server.WithLogger(log))
	if err != nil {
		return fmt.Errorf("init server: %w", err)
	}

	log.InfoContext(ctx, "codekeepd starting",
		slog.String("addr", cfg.Server.Addr),
		slog.String("storage", cfg.StorageDriver))

	if err := srv.Start(ctx, application.Handler()); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server: %w", err)
	}

	log.Info("codekeepd stopped")
	return nil
}

// openStore builds the record store named by cfg.StorageDriver along with an
// optional health probe and a release func for the underlying connection.
func openStore(ctx context.Context, cfg appConfig, log *slog.Logger) (record.Store, func(context.Context) error, func(), error) {
	switch cfg.StorageDriver {
	case "memory":
		return record.NewMemoryStore(), nil, func() {}, nil

	case "redis":
		client, err := redisconn.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, nil, err
		}
		closer := func() {
			if err := client.Close(); err != nil {
				log.Error("closing redis client", slog.Any("error", err))
			}
		}
		return record.NewRedisStore(client), redisconn.Healthcheck(client), closer, nil

	case "postgres":
		pool, err := pg.Connect(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := pg.Migrate(ctx, pool, migrationsFS, "migrations", log); err != nil {
			pool.Close()
			return nil, nil, nil, fmt.Errorf("migrate: %w", err)
		}
		return record.NewPostgresStore(pool), pg.Healthcheck(pool), pool.Close, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
