package handler

import (
	"context"
	"net/http"
	"time"
)

// readyzTimeout bounds the dependency pings of a readiness check.
const readyzTimeout = 5 * time.Second

// HealthChecker defines an interface for checking service health.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// readinessReporter is implemented by dependencies that track their own
// connection state, such as the repository's monitor.
type readinessReporter interface {
	Ready() bool
}

// HealthHandler manages health check endpoints.
type HealthHandler struct {
	db    HealthChecker
	cache HealthChecker
}

// NewHealthHandler creates a new HealthHandler.
// Pass nil for db or cache if they are not yet initialized.
func NewHealthHandler(db, cache HealthChecker) *HealthHandler {
	return &HealthHandler{
		db:    db,
		cache: cache,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Healthz is the liveness endpoint.
// It returns 200 if the server is running, without dependency checks.
//
// GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Readyz is the readiness endpoint.
// It returns 200 only if PostgreSQL and Redis are both reachable.
//
// GET /readyz
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyzTimeout)
	defer cancel()

	checks := make(map[string]string)
	healthy := true

	for _, dep := range []struct {
		name    string
		checker HealthChecker
	}{
		{"postgres", h.db},
		{"redis", h.cache},
	} {
		status := checkDependency(ctx, dep.checker)
		checks[dep.name] = status
		if status != "ok" && status != "not configured" {
			healthy = false
		}
	}

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

func checkDependency(ctx context.Context, checker HealthChecker) string {
	if checker == nil {
		return "not configured"
	}
	// A dependency that knows it is down is not pinged again.
	if rr, ok := checker.(readinessReporter); ok && !rr.Ready() {
		return "reconnecting"
	}
	if err := checker.Ping(ctx); err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}
