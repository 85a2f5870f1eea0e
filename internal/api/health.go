package api

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

type dependency struct {
	name     string
	pinger   Pinger
	critical bool
}

type HealthHandler struct {
	deps    []dependency
	env     string
	version string
}

// NewHealthHandler builds the probe handler. Nil dependencies are reported
// as disabled. Redis is critical only when it backs the calendar lock; the
// event sinks are best effort and only degrade readiness.
func NewHealthHandler(pg Pinger, rdb *redis.Client, redisLock bool, env, version string) *HealthHandler {
	h := &HealthHandler{env: env, version: version}
	h.deps = append(h.deps, dependency{name: "postgres", pinger: pg})

	var rp Pinger
	if rdb != nil {
		rp = redisPinger{client: rdb}
	}
	h.deps = append(h.deps, dependency{name: "redis", pinger: rp, critical: redisLock})
	return h
}

type LivenessResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Env     string `json:"env,omitempty"`
}

type ReadinessResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version,omitempty"`
	Env          string            `json:"env,omitempty"`
	Dependencies map[string]string `json:"dependencies"`
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LivenessResponse{
		Status:  "ok",
		Version: h.version,
		Env:     h.env,
	})
}

func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	deps := make(map[string]string, len(h.deps))
	status := "ok"

	for _, d := range h.deps {
		if d.pinger == nil {
			deps[d.name] = "disabled"
			continue
		}

		pingCtx, pingCancel := context.WithTimeout(ctx, time.Second)
		err := d.pinger.Ping(pingCtx)
		pingCancel()

		if err == nil {
			deps[d.name] = "ok"
			continue
		}
		deps[d.name] = "down"
		switch {
		case d.critical:
			status = "error"
		case status == "ok":
			status = "degraded"
		}
	}

	httpStatus := http.StatusOK
	if status == "error" {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, ReadinessResponse{
		Status:       status,
		Version:      h.version,
		Env:          h.env,
		Dependencies: deps,
	})
}
