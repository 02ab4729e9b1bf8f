package services

import (
	"context"
	"testing"
	"time"

	"bookslot/internal/common"
	"bookslot/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type CatalogServiceTestSuite struct {
	suite.Suite
	tenantRepo  *fakeTenantRepo
	serviceRepo *fakeServiceRepo
	service     CatalogService
	ctx         context.Context
	tenant      *models.Tenant
}

func (suite *CatalogServiceTestSuite) SetupTest() {
	suite.tenantRepo = newFakeTenantRepo()
	suite.serviceRepo = newFakeServiceRepo()
	suite.service = NewCatalogService(suite.serviceRepo, suite.tenantRepo)
	suite.ctx = context.Background()

	suite.tenant = &models.Tenant{
		ID:          uuid.New(),
		Name:        "Corner Barbershop",
		Plan:        models.PlanFree,
		PeriodStart: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	suite.tenantRepo.add(suite.tenant)
}

func TestCatalogServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CatalogServiceTestSuite))
}

func (suite *CatalogServiceTestSuite) TestCreate_Success() {
	service, err := suite.service.Create(suite.ctx, suite.tenant.ID, &CreateServiceRequest{
		Name:            "Haircut",
		DurationMinutes: 30,
		Price:           25,
	})
	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), service)
	assert.True(suite.T(), service.Active)
	assert.Equal(suite.T(), suite.tenant.ID, service.TenantID)
}

func (suite *CatalogServiceTestSuite) TestCreate_Validation() {
	cases := []struct {
		name string
		req  *CreateServiceRequest
	}{
		{"empty name", &CreateServiceRequest{DurationMinutes: 30}},
		{"zero duration", &CreateServiceRequest{Name: "Haircut"}},
		{"negative price", &CreateServiceRequest{Name: "Haircut", DurationMinutes: 30, Price: -1}},
	}

	for _, tc := range cases {
		service, err := suite.service.Create(suite.ctx, suite.tenant.ID, tc.req)
		assert.Error(suite.T(), err, tc.name)
		assert.Nil(suite.T(), service, tc.name)
		assert.Equal(suite.T(), common.CodeValidation, common.ErrorCode(err), tc.name)
	}
}

func (suite *CatalogServiceTestSuite) TestCreate_FreePlanServiceCap() {
	for i := 0; i < models.FreePlanServiceLimit; i++ {
		_, err := suite.service.Create(suite.ctx, suite.tenant.ID, &CreateServiceRequest{
			Name:            "Service",
			DurationMinutes: 30,
		})
		assert.NoError(suite.T(), err)
	}

	_, err := suite.service.Create(suite.ctx, suite.tenant.ID, &CreateServiceRequest{
		Name:            "One too many",
		DurationMinutes: 30,
	})
	assert.Error(suite.T(), err)
	assert.Equal(suite.T(), common.CodeValidation, common.ErrorCode(err))
}

func (suite *CatalogServiceTestSuite) TestCreate_ProPlanHasNoServiceCap() {
	suite.tenant.Plan = models.PlanPro
	suite.tenantRepo.add(suite.tenant)

	for i := 0; i < models.FreePlanServiceLimit+2; i++ {
		_, err := suite.service.Create(suite.ctx, suite.tenant.ID, &CreateServiceRequest{
			Name:            "Service",
			DurationMinutes: 30,
		})
		assert.NoError(suite.T(), err)
	}
}

func (suite *CatalogServiceTestSuite) TestUpdate_DeactivateFreesCapSlot() {
	created, err := suite.service.Create(suite.ctx, suite.tenant.ID, &CreateServiceRequest{
		Name:            "Haircut",
		DurationMinutes: 30,
	})
	assert.NoError(suite.T(), err)

	err = suite.service.Update(suite.ctx, suite.tenant.ID, created.ID, &UpdateServiceRequest{
		Name:            "Haircut",
		DurationMinutes: 45,
		Active:          false,
	})
	assert.NoError(suite.T(), err)

	updated, err := suite.service.GetByID(suite.ctx, suite.tenant.ID, created.ID)
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), updated.Active)
	assert.Equal(suite.T(), 45, updated.DurationMinutes)

	count, err := suite.serviceRepo.CountActive(suite.ctx, suite.tenant.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, count)
}

func (suite *CatalogServiceTestSuite) TestUpdate_UnknownService() {
	err := suite.service.Update(suite.ctx, suite.tenant.ID, uuid.New(), &UpdateServiceRequest{
		Name:            "Ghost",
		DurationMinutes: 30,
	})
	assert.Error(suite.T(), err)
	assert.Equal(suite.T(), common.CodeNotFound, common.ErrorCode(err))
}
