package handlers

import (
	"net/http"
	"time"

	"bookslot/internal/jobs/background"
	"bookslot/internal/repositories"

	"github.com/labstack/echo/v4"
)

type HealthHandlers struct {
	db           repositories.DB
	jobScheduler *background.JobScheduler
}

func NewHealthHandlers(db repositories.DB, jobScheduler *background.JobScheduler) *HealthHandlers {
	return &HealthHandlers{
		db:           db,
		jobScheduler: jobScheduler,
	}
}

// Health handles GET /health
func (h *HealthHandlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC(),
	})
}

// Ready handles GET /health/ready
func (h *HealthHandlers) Ready(c echo.Context) error {
	ctx := c.Request().Context()

	var one int
	if err := h.db.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"status": "unavailable",
			"error":  "database unreachable",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "ready",
		"jobs":   h.jobScheduler.JobStatus(),
	})
}
