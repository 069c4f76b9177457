package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"jobmate/job-tracker/internal/config"
	"jobmate/job-tracker/internal/events"
	"jobmate/job-tracker/internal/listing"
	"jobmate/job-tracker/internal/store"
)

// Conns holds the connections opened for a Config. Either may be nil.
type Conns struct {
	Pool  *pgxpool.Pool
	Redis *redis.Client
}

// Connect opens only the connections cfg needs: Postgres for the postgres
// store or listing source, Redis for the redis store or whenever REDIS_URL
// is set (events).
func Connect(ctx context.Context, cfg *config.Config) (*Conns, error) {
	c := &Conns{}

	if cfg.StoreBackend == config.BackendPostgres || cfg.JobsSource == config.SourcePostgres {
		log.Println("[tracker] Connecting to PostgreSQL…")
		pool, err := NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		c.Pool = pool
		log.Println("[tracker] PostgreSQL connected ✓")
	}

	if cfg.RedisURL != "" {
		log.Println("[tracker] Connecting to Redis…")
		rdb, err := NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.Redis = rdb
		log.Println("[tracker] Redis connected ✓")
	}

	return c, nil
}

// Close releases every open connection.
func (c *Conns) Close() {
	if c.Redis != nil {
		c.Redis.Close()
	}
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// Store returns the configured key-value backend.
func (c *Conns) Store(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		return store.NewMemory(), nil
	case config.BackendFile:
		return store.NewFile(cfg.DataDir)
	case config.BackendRedis:
		if c.Redis == nil {
			return nil, errors.New("redis store selected but not connected")
		}
		return store.NewRedis(c.Redis, cfg.RedisNamespace), nil
	case config.BackendPostgres:
		if c.Pool == nil {
			return nil, errors.New("postgres store selected but not connected")
		}
		pg := store.NewPostgres(c.Pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return pg, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

// Catalog loads the listings from the configured source.
func (c *Conns) Catalog(ctx context.Context, cfg *config.Config) (*listing.Catalog, error) {
	if cfg.JobsSource == config.SourcePostgres {
		if c.Pool == nil {
			return nil, errors.New("postgres listing source selected but not connected")
		}
		return listing.LoadPostgres(ctx, c.Pool)
	}
	return listing.LoadFile(cfg.JobsFile)
}

// Publisher returns a Redis publisher when Redis is connected, else a no-op.
func (c *Conns) Publisher() events.Publisher {
	if c.Redis == nil {
		return events.Nop{}
	}
	return events.NewRedisPublisher(c.Redis)
}
