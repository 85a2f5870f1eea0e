package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/hackgods/clinic-scheduling/internal/command"
)

type RouterConfig struct {
	Service command.Scheduler

	// Optional dependencies, reported by /health/ready.
	Postgres  Pinger
	Redis     *redis.Client
	RedisLock bool

	// Gatherer backs /metrics; the endpoint is not mounted when nil.
	Gatherer prometheus.Gatherer

	// Now supplies the current date for booking rules. Defaults to time.Now.
	Now func() time.Time

	Env     string
	Version string
}

func NewRouter(cfg RouterConfig) http.Handler {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(middleware.Recoverer)

	health := NewHealthHandler(cfg.Postgres, cfg.Redis, cfg.RedisLock, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Post("/appointments", scheduleAppointmentHandler(cfg.Service, now))
	r.Get("/appointments", listAppointmentsHandler(cfg.Service))
	r.Post("/appointments/cancel", cancelAppointmentHandler(cfg.Service))
	r.Post("/appointments/reschedule", rescheduleAppointmentHandler(cfg.Service))
	r.Get("/billing", billingHandler(cfg.Service))
	r.Post("/commands", commandsHandler(cfg.Service, now))

	return r
}
