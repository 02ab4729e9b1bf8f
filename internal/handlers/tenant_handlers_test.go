package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bookslot/internal/common"
	"bookslot/internal/models"
	"bookslot/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockTenantService struct {
	mock.Mock
}

func (m *MockTenantService) Register(ctx context.Context, req *services.RegisterTenantRequest) (*models.Tenant, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantService) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantService) GetBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error) {
	args := m.Called(ctx, subdomain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

type TenantHandlersTestSuite struct {
	suite.Suite
	mockService *MockTenantService
	handlers    *TenantHandlers
	echo        *echo.Echo
}

func (suite *TenantHandlersTestSuite) SetupTest() {
	suite.mockService = &MockTenantService{}
	suite.handlers = NewTenantHandlers(suite.mockService, "test-secret")
	suite.echo = echo.New()
	suite.mockService.Test(suite.T())
}

func (suite *TenantHandlersTestSuite) TearDownTest() {
	suite.mockService.AssertExpectations(suite.T())
}

func TestTenantHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(TenantHandlersTestSuite))
}

func (suite *TenantHandlersTestSuite) TestSignup_Success() {
	trialEnd := time.Now().Add(models.TrialDuration)
	tenant := &models.Tenant{
		ID:        uuid.New(),
		Name:      "Corner Barbershop",
		Subdomain: "corner",
		Plan:      models.PlanTrial,
		TrialEnd:  &trialEnd,
	}
	suite.mockService.On("Register", mock.Anything, mock.AnythingOfType("*services.RegisterTenantRequest")).
		Return(tenant, nil)

	body := `{"name":"Corner Barbershop","subdomain":"corner","timezone":"UTC"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/signup", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := suite.echo.NewContext(req, rec)

	err := suite.handlers.Signup(c)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusCreated, rec.Code)

	var resp map[string]json.RawMessage
	assert.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(suite.T(), resp, "tenant")
	assert.Contains(suite.T(), resp, "token")
	assert.NotEqual(suite.T(), `""`, string(resp["token"]))
}

func (suite *TenantHandlersTestSuite) TestSignup_ValidationError() {
	suite.mockService.On("Register", mock.Anything, mock.AnythingOfType("*services.RegisterTenantRequest")).
		Return(nil, common.Invalid("tenant.register", "name and subdomain are required"))

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/signup", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := suite.echo.NewContext(req, rec)

	err := suite.handlers.Signup(c)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)

	var resp common.ErrorResponse
	assert.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(suite.T(), "VALIDATION", resp.Error.Code)
}

func (suite *TenantHandlersTestSuite) TestMe_Success() {
	tenantID := uuid.New()
	tenant := &models.Tenant{ID: tenantID, Name: "Corner Barbershop", Plan: models.PlanFree}
	suite.mockService.On("GetByID", mock.Anything, tenantID).Return(tenant, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req = req.WithContext(common.WithTenantID(req.Context(), tenantID))
	rec := httptest.NewRecorder()
	c := suite.echo.NewContext(req, rec)

	err := suite.handlers.Me(c)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	var got models.Tenant
	assert.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(suite.T(), tenantID, got.ID)
}

func (suite *TenantHandlersTestSuite) TestMe_MissingTenantContext() {
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	rec := httptest.NewRecorder()
	c := suite.echo.NewContext(req, rec)

	err := suite.handlers.Me(c)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusUnauthorized, rec.Code)
}
