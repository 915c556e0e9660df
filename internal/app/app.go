package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"taskmanager/internal/config"
	"taskmanager/internal/logging"
	"taskmanager/internal/repo"
	"taskmanager/internal/service"
	"taskmanager/migrations"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
)

type App struct {
	cfg    config.Config
	log    logging.Logger
	pool   *pgxpool.Pool
	db     *sql.DB
	redis  *redis.Client
	router *gin.Engine
}

func New(ctx context.Context, cfg config.Config, log logging.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}

	pool, err := newPostgres(ctx, cfg.PG)
	if err != nil {
		return nil, err
	}
	a.pool = pool
	a.db = stdlib.OpenDBFromPool(pool)

	if err := runMigrations(ctx, a.db, log); err != nil {
		_ = a.Close(ctx)
		return nil, err
	}

	rdb, err := newRedis(ctx, cfg.Redis)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	a.redis = rdb

	users := repo.NewPGUserRepo(a.db)
	tasks := repo.NewPGTaskRepo(a.db)

	if cfg.App.SeedDefaults {
		n, err := service.NewTaskService(tasks).SeedDefaults(ctx)
		if err != nil {
			_ = a.Close(ctx)
			return nil, fmt.Errorf("seed default tasks: %w", err)
		}
		log.Info(ctx, "default tasks seeded", "inserted", n)
	}

	a.router = newRouter(Deps{
		Config: cfg,
		Logger: log,
		Redis:  rdb,
		Users:  users,
		Tasks:  tasks,
		Checks: map[string]func(context.Context) error{
			"postgres": a.db.PingContext,
			"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
	})
	return a, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Close(ctx context.Context) error {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn(ctx, "redis close", "error", err)
		}
	}
	if a.db != nil {
		_ = a.db.Close()
	}
	if a.pool != nil {
		a.pool.Close()
	}
	return nil
}

func newPostgres(ctx context.Context, pg config.PGConfig) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(pg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pg parse config: %w", err)
	}
	cfg.MaxConns = pg.MaxConns
	cfg.MinConns = pg.MinConns
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pg connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}

	return pool, nil
}

func newRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

func runMigrations(ctx context.Context, db *sql.DB, log logging.Logger) error {
	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	for _, r := range results {
		log.Info(ctx, "migration applied", "version", r.Source.Version, "duration", r.Duration)
	}
	return nil
}
