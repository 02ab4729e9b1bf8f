package handlers

import (
	"net/http"

	"bookslot/internal/common"
	"bookslot/internal/services"

	"github.com/labstack/echo/v4"
)

type ServiceHandlers struct {
	catalogSvc services.CatalogService
}

func NewServiceHandlers(catalogSvc services.CatalogService) *ServiceHandlers {
	return &ServiceHandlers{catalogSvc: catalogSvc}
}

// CreateService handles POST /v1/services
func (h *ServiceHandlers) CreateService(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req services.CreateServiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	service, err := h.catalogSvc.Create(ctx, tenantID, &req)
	if err != nil {
		return common.SendEngineError(c, err)
	}
	return c.JSON(http.StatusCreated, service)
}

// ListServices handles GET /v1/services?active=
func (h *ServiceHandlers) ListServices(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	activeOnly := c.QueryParam("active") == "true"
	list, err := h.catalogSvc.List(ctx, tenantID, activeOnly)
	if err != nil {
		return common.SendEngineError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"services": list})
}

// UpdateService handles PUT /v1/services/:id
func (h *ServiceHandlers) UpdateService(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	serviceID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req services.UpdateServiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := h.catalogSvc.Update(ctx, tenantID, serviceID, &req); err != nil {
		return common.SendEngineError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Service updated",
	})
}
