package handlers

import (
	"net/http"
	"time"

	"bookslot/internal/common"
	"bookslot/internal/services"

	"github.com/labstack/echo/v4"
)

// BookingHandlers covers the public booking submission and the provider's
// ledger views (list, cancel, confirm, complete).
type BookingHandlers struct {
	tenantService services.TenantService
	bookingSvc    services.BookingService
}

func NewBookingHandlers(tenantService services.TenantService, bookingSvc services.BookingService) *BookingHandlers {
	return &BookingHandlers{
		tenantService: tenantService,
		bookingSvc:    bookingSvc,
	}
}

// CreateBooking handles POST /v1/book/:subdomain/appointments
func (h *BookingHandlers) CreateBooking(c echo.Context) error {
	ctx := c.Request().Context()

	tenant, err := h.tenantService.GetBySubdomain(ctx, c.Param("subdomain"))
	if err != nil {
		return common.SendEngineError(c, err)
	}

	var body struct {
		ServiceID   string `json:"service_id"`
		Date        string `json:"date"`
		Time        string `json:"time"`
		ClientName  string `json:"client_name"`
		ClientPhone string `json:"client_phone"`
		ClientEmail string `json:"client_email"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	serviceID, err := common.ValidateUUID(body.ServiceID, "service_id")
	if err != nil {
		return common.SendValidationError(c, "service_id", err.Error())
	}
	date, err := common.ValidateDate(body.Date, "date")
	if err != nil {
		return common.SendValidationError(c, "date", err.Error())
	}
	clock, err := common.ValidateClock(body.Time, "time")
	if err != nil {
		return common.SendValidationError(c, "time", err.Error())
	}

	appointment, bookErr := h.bookingSvc.Book(ctx, &services.BookingRequest{
		TenantID:    tenant.ID,
		ServiceID:   serviceID,
		Date:        date,
		StartTime:   clock,
		ClientName:  body.ClientName,
		ClientPhone: body.ClientPhone,
		ClientEmail: body.ClientEmail,
	})
	if bookErr != nil {
		return common.SendEngineError(c, bookErr)
	}

	return c.JSON(http.StatusCreated, appointment)
}

// ListAppointments handles GET /v1/appointments?date=
func (h *BookingHandlers) ListAppointments(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	date, err := common.ValidateDate(c.QueryParam("date"), "date")
	if err != nil {
		return common.SendValidationError(c, "date", err.Error())
	}

	appointments, listErr := h.bookingSvc.ListByDate(ctx, tenantID, date)
	if listErr != nil {
		return common.SendEngineError(c, listErr)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"appointments": appointments,
		"date":         date.Format("2006-01-02"),
	})
}

// SetStatus handles PATCH /v1/appointments/:id/status
func (h *BookingHandlers) SetStatus(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	appointmentID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := h.bookingSvc.SetStatus(ctx, tenantID, appointmentID, body.Status); err != nil {
		return common.SendEngineError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Appointment status updated",
		"status":  body.Status,
		"time":    time.Now().UTC(),
	})
}
