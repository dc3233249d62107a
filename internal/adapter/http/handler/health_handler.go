package handler

import (
	"context"
	"net/http"
	"time"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a plain function to the Pinger interface.
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type healthCheck struct {
	name string
	ping Pinger
}

// HealthHandler serves liveness and readiness probes. Readiness pings
// every registered dependency in registration order.
type HealthHandler struct {
	checks []healthCheck
}

// NewHealthHandler creates a HealthHandler with no dependency checks.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// AddCheck registers a named dependency to be pinged during readiness.
func (h *HealthHandler) AddCheck(name string, p Pinger) *HealthHandler {
	h.checks = append(h.checks, healthCheck{name: name, ping: p})
	return h
}

// Liveness returns 200 if the service is alive.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness returns 200 if every registered dependency answers a ping.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := map[string]string{"status": "ready"}
	for _, c := range h.checks {
		if err := c.ping.Ping(ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, c.name+" unhealthy", err.Error())
			return
		}
		status[c.name] = "ok"
	}

	writeJSON(w, http.StatusOK, status)
}
