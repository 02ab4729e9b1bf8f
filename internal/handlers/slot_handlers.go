package handlers

import (
	"net/http"
	"time"

	"bookslot/internal/common"
	"bookslot/internal/models"
	"bookslot/internal/services"

	"github.com/labstack/echo/v4"
)

// SlotHandlers serves the public booking-page slot queries, keyed by the
// tenant's subdomain. All endpoints here are read-only.
type SlotHandlers struct {
	tenantService services.TenantService
	catalogSvc    services.CatalogService
	slotSvc       services.SlotService
}

func NewSlotHandlers(tenantService services.TenantService, catalogSvc services.CatalogService, slotSvc services.SlotService) *SlotHandlers {
	return &SlotHandlers{
		tenantService: tenantService,
		catalogSvc:    catalogSvc,
		slotSvc:       slotSvc,
	}
}

func (h *SlotHandlers) resolve(c echo.Context) (*models.Tenant, *models.Service, error) {
	ctx := c.Request().Context()

	tenant, err := h.tenantService.GetBySubdomain(ctx, c.Param("subdomain"))
	if err != nil {
		return nil, nil, err
	}

	serviceID, err := common.ValidateUUID(c.QueryParam("service_id"), "service_id")
	if err != nil {
		return nil, nil, common.Invalid("slots.resolve", "%s", err.Error())
	}
	service, err := h.catalogSvc.GetByID(ctx, tenant.ID, serviceID)
	if err != nil {
		return nil, nil, err
	}
	return tenant, service, nil
}

// GetSlots handles GET /v1/book/:subdomain/slots?service_id=&date=
func (h *SlotHandlers) GetSlots(c echo.Context) error {
	tenant, service, err := h.resolve(c)
	if err != nil {
		return common.SendEngineError(c, err)
	}

	date, err := common.ValidateDate(c.QueryParam("date"), "date")
	if err != nil {
		return common.SendValidationError(c, "date", err.Error())
	}

	slots, genErr := h.slotSvc.Generate(c.Request().Context(), tenant, service, date, time.Now())
	if genErr != nil {
		return common.SendEngineError(c, genErr)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"slots":            slots,
		"date":             date.Format("2006-01-02"),
		"service":          service.Name,
		"service_duration": service.DurationMinutes,
		"provider":         tenant.Name,
	})
}

// CheckSlot handles GET /v1/book/:subdomain/check?service_id=&date=&time=
func (h *SlotHandlers) CheckSlot(c echo.Context) error {
	tenant, service, err := h.resolve(c)
	if err != nil {
		return common.SendEngineError(c, err)
	}

	date, err := common.ValidateDate(c.QueryParam("date"), "date")
	if err != nil {
		return common.SendValidationError(c, "date", err.Error())
	}
	clock, err := common.ValidateClock(c.QueryParam("time"), "time")
	if err != nil {
		return common.SendValidationError(c, "time", err.Error())
	}

	available, reason, checkErr := h.slotSvc.CheckSlot(c.Request().Context(), tenant, service, date, clock, time.Now())
	if checkErr != nil {
		return common.SendEngineError(c, checkErr)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"available": available,
		"reason":    reason,
	})
}

// NextAvailableDate handles GET /v1/book/:subdomain/next-date?service_id=&from=
func (h *SlotHandlers) NextAvailableDate(c echo.Context) error {
	tenant, service, err := h.resolve(c)
	if err != nil {
		return common.SendEngineError(c, err)
	}

	now := time.Now()
	from := now
	if fromParam := c.QueryParam("from"); fromParam != "" {
		parsed, err := common.ValidateDate(fromParam, "from")
		if err != nil {
			return common.SendValidationError(c, "from", err.Error())
		}
		from = parsed
	}

	date, searchErr := h.slotSvc.NextAvailableDate(c.Request().Context(), tenant, service, from, now, 30)
	if searchErr != nil {
		return common.SendEngineError(c, searchErr)
	}

	resp := map[string]interface{}{"found": date != nil}
	if date != nil {
		resp["date"] = date.Format("2006-01-02")
	}
	return c.JSON(http.StatusOK, resp)
}
