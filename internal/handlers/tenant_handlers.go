package handlers

import (
	"net/http"

	"bookslot/internal/common"
	"bookslot/internal/middleware"
	"bookslot/internal/services"

	"github.com/labstack/echo/v4"
)

// TenantHandlers handles provider registration and profile reads.
type TenantHandlers struct {
	tenantService services.TenantService
	jwtSecret     string
}

func NewTenantHandlers(tenantService services.TenantService, jwtSecret string) *TenantHandlers {
	return &TenantHandlers{
		tenantService: tenantService,
		jwtSecret:     jwtSecret,
	}
}

// Signup handles POST /v1/auth/signup
func (h *TenantHandlers) Signup(c echo.Context) error {
	ctx := c.Request().Context()

	var req services.RegisterTenantRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	tenant, err := h.tenantService.Register(ctx, &req)
	if err != nil {
		return common.SendEngineError(c, err)
	}

	token, err := middleware.IssueToken(tenant.ID, h.jwtSecret)
	if err != nil {
		return common.SendServerError(c, "failed to issue token")
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"tenant": tenant,
		"token":  token,
	})
}

// Me handles GET /v1/me
func (h *TenantHandlers) Me(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	tenant, err := h.tenantService.GetByID(ctx, tenantID)
	if err != nil {
		return common.SendEngineError(c, err)
	}
	return c.JSON(http.StatusOK, tenant)
}
