// Package app wires configuration into a running scheduler engine. The
// binaries under cmd/ share it so the optional Postgres and Redis sinks are
// connected the same way everywhere.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/hackgods/clinic-scheduling/internal/appointment"
	"github.com/hackgods/clinic-scheduling/internal/config"
	"github.com/hackgods/clinic-scheduling/internal/db"
	"github.com/hackgods/clinic-scheduling/internal/observability/metrics"
	redisclient "github.com/hackgods/clinic-scheduling/internal/redis"
)

const connectTimeout = 10 * time.Second

type Runtime struct {
	Service  *appointment.Service
	PgPool   *pgxpool.Pool
	Redis    *redis.Client
	Registry *prometheus.Registry
}

// New connects whatever backends cfg names and builds the engine on top.
// Missing backends are skipped; a configured backend that cannot be reached
// is an error.
func New(ctx context.Context, cfg config.Config) (*Runtime, error) {
	rt := &Runtime{Registry: prometheus.NewRegistry()}
	var sinks appointment.MultiSink

	if cfg.PostgresDSN != "" {
		pgCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		pool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
		if err == nil {
			err = db.EnsureSchema(pgCtx, pool)
			if err != nil {
				pool.Close()
			}
		}
		cancel()
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		rt.PgPool = pool
		sinks = append(sinks, appointment.NewPgEventLog(pool))
		log.Info().Msg("connected to Postgres, audit log enabled")
	}

	var locker redisclient.Locker
	if cfg.RedisEnabled() {
		redisCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		rdb, err := redisclient.NewRedisClient(redisCtx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
		cancel()
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		rt.Redis = rdb
		sinks = append(sinks, appointment.NewRedisEventStream(rdb, cfg.EventStream))
		log.Info().Str("stream", cfg.EventStream).Msg("connected to Redis, event stream enabled")

		if cfg.LockBackend == config.LockBackendRedis {
			locker = redisclient.NewRedisLocker(rdb, cfg.LockTTL)
			log.Info().Dur("ttl", cfg.LockTTL).Msg("using Redis calendar lock")
		}
	}

	var events appointment.EventSink
	if len(sinks) > 0 {
		events = sinks
	}

	rt.Service = appointment.NewService(locker, events, metrics.NewSchedulerMetrics(rt.Registry))
	return rt, nil
}

// Close releases the backend connections. It is safe on a partial Runtime.
func (rt *Runtime) Close() error {
	var errs []error
	if rt.Redis != nil {
		if err := rt.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if rt.PgPool != nil {
		rt.PgPool.Close()
	}
	return errors.Join(errs...)
}
