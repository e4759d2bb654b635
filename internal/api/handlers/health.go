package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"sort"
	"time"

	"github.com/pratik-mahalle/trainhub/internal/pkg/logger"
	"github.com/pratik-mahalle/trainhub/internal/pkg/utils"
)

// ReadinessCheck reports whether one dependency can serve traffic
type ReadinessCheck func(ctx context.Context) error

// HealthHandler handles health check requests
type HealthHandler struct {
	checks  map[string]ReadinessCheck
	logger  *logger.Logger
	version string
}

// NewHealthHandler creates a health handler whose readiness probe pings db
// and checks the schema has been migrated
func NewHealthHandler(db *sql.DB, log *logger.Logger, version string) *HealthHandler {
	return &HealthHandler{
		checks: map[string]ReadinessCheck{
			"database": db.PingContext,
			"schema": func(ctx context.Context) error {
				var n int
				return db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&n)
			},
		},
		logger:  log,
		version: version,
	}
}

// Healthz handles liveness probe
// @Summary Liveness probe
// @Description Check if the application is alive
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string "Application is alive"
// @Router /health [get]
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccess(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.version,
	})
}

// Readyz handles readiness probe
// @Summary Readiness probe
// @Description Check if the database is reachable and migrated
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string "Application is ready"
// @Failure 503 {object} utils.ErrorResponse "Service unavailable"
// @Router /readyz [get]
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := map[string]string{"status": "ready"}
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			h.logger.With("check", name).ErrorWithErr(err, "Readiness check failed")
			utils.WriteErrorMessage(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", name+" is not ready")
			return
		}
		status[name] = "ok"
	}

	utils.WriteSuccess(w, http.StatusOK, status)
}
