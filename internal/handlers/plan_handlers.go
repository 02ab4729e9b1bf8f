package handlers

import (
	"net/http"
	"time"

	"bookslot/internal/common"
	"bookslot/internal/services"

	"github.com/labstack/echo/v4"
)

type PlanHandlers struct {
	quotaSvc     services.QuotaService
	lifecycleSvc services.LifecycleService
}

func NewPlanHandlers(quotaSvc services.QuotaService, lifecycleSvc services.LifecycleService) *PlanHandlers {
	return &PlanHandlers{
		quotaSvc:     quotaSvc,
		lifecycleSvc: lifecycleSvc,
	}
}

// GetPlan handles GET /v1/plan
func (h *PlanHandlers) GetPlan(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	state, err := h.quotaSvc.PlanState(ctx, tenantID)
	if err != nil {
		return common.SendEngineError(c, err)
	}
	return c.JSON(http.StatusOK, state)
}

// Upgrade handles POST /v1/plan/upgrade
//
// This stands in for the payment webhook: the caller supplies the paid-through
// date and the tenant moves to pro immediately.
func (h *PlanHandlers) Upgrade(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var body struct {
		PeriodEnd string `json:"period_end"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	periodEnd, err := time.Parse(time.RFC3339, body.PeriodEnd)
	if err != nil {
		// Accept a bare date too; it reads as end-of-day UTC.
		date, dateErr := common.ValidateDate(body.PeriodEnd, "period_end")
		if dateErr != nil {
			return common.SendValidationError(c, "period_end", "must be RFC3339 or YYYY-MM-DD")
		}
		periodEnd = date.AddDate(0, 0, 1)
	}

	if err := h.lifecycleSvc.UpgradeToPro(ctx, tenantID, periodEnd, time.Now()); err != nil {
		return common.SendEngineError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":    "Upgraded to pro",
		"period_end": periodEnd,
	})
}
