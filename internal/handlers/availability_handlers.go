package handlers

import (
	"net/http"
	"strconv"

	"bookslot/internal/common"
	"bookslot/internal/services"

	"github.com/labstack/echo/v4"
)

type AvailabilityHandlers struct {
	availabilitySvc services.AvailabilityService
}

func NewAvailabilityHandlers(availabilitySvc services.AvailabilityService) *AvailabilityHandlers {
	return &AvailabilityHandlers{availabilitySvc: availabilitySvc}
}

// GetSchedule handles GET /v1/availability
func (h *AvailabilityHandlers) GetSchedule(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	if weekdayParam := c.QueryParam("weekday"); weekdayParam != "" {
		weekday, err := strconv.Atoi(weekdayParam)
		if err != nil {
			return common.SendValidationError(c, "weekday", "weekday must be a number")
		}
		windows, listErr := h.availabilitySvc.WindowsFor(ctx, tenantID, weekday)
		if listErr != nil {
			return common.SendEngineError(c, listErr)
		}
		return c.JSON(http.StatusOK, map[string]interface{}{"windows": windows})
	}

	schedule, err := h.availabilitySvc.WeeklySchedule(ctx, tenantID)
	if err != nil {
		return common.SendEngineError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"schedule": schedule})
}

// SetWindow handles PUT /v1/availability
func (h *AvailabilityHandlers) SetWindow(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req services.SetWindowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := h.availabilitySvc.SetWindow(ctx, tenantID, &req); err != nil {
		return common.SendEngineError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Availability updated",
	})
}
