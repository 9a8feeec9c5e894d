package handler

import (
	"context"
	"net/http"
	"time"
)

// readyzTimeout bounds how long the readiness probe waits on dependencies.
const readyzTimeout = 5 * time.Second

// HealthChecker is anything the readiness probe can ping.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	db    HealthChecker
	cache HealthChecker
}

// NewHealthHandler creates a new HealthHandler.
// A nil db or cache is reported as "not configured" rather than failing.
func NewHealthHandler(db, cache HealthChecker) *HealthHandler {
	return &HealthHandler{
		db:    db,
		cache: cache,
	}
}

// HealthResponse is the body of both probes.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Healthz answers 200 whenever the process is up. It deliberately checks
// nothing else; dependency state belongs to Readyz.
//
// GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Readyz pings every dependency and answers 200 only when all of them
// respond, 503 otherwise. Load balancers use this to pull the instance
// out of rotation.
//
// GET /readyz
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyzTimeout)
	defer cancel()

	checks := make(map[string]string)
	healthy := runCheck(ctx, h.db, "postgres", checks)
	healthy = runCheck(ctx, h.cache, "redis", checks) && healthy

	status := "ok"
	statusCode := http.StatusOK
	if !healthy {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, HealthResponse{
		Status: status,
		Checks: checks,
	})
}

// runCheck records one dependency's state and reports whether it counts
// as healthy. Absent dependencies are noted but do not fail the probe.
func runCheck(ctx context.Context, dep HealthChecker, name string, checks map[string]string) bool {
	if dep == nil {
		checks[name] = "not configured"
		return true
	}
	if err := dep.Ping(ctx); err != nil {
		checks[name] = "error: " + err.Error()
		return false
	}
	checks[name] = "ok"
	return true
}
