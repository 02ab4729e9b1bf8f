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

type TenantServiceTestSuite struct {
	suite.Suite
	tenantRepo *fakeTenantRepo
	service    TenantService
	ctx        context.Context
}

func (suite *TenantServiceTestSuite) SetupTest() {
	suite.tenantRepo = newFakeTenantRepo()
	suite.service = NewTenantService(suite.tenantRepo)
	suite.ctx = context.Background()
}

func TestTenantServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TenantServiceTestSuite))
}

func (suite *TenantServiceTestSuite) TestRegister_StartsOnTrial() {
	tenant, err := suite.service.Register(suite.ctx, &RegisterTenantRequest{
		Name:      "Corner Barbershop",
		Subdomain: "Corner",
		Timezone:  "America/New_York",
	})
	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), tenant)
	assert.NotEqual(suite.T(), uuid.Nil, tenant.ID)
	assert.Equal(suite.T(), models.PlanTrial, tenant.Plan)
	assert.Equal(suite.T(), "corner", tenant.Subdomain)
	assert.True(suite.T(), tenant.AcceptingAppointments)
	assert.Equal(suite.T(), 0, tenant.UsageCount)

	assert.NotNil(suite.T(), tenant.TrialEnd)
	remaining := time.Until(*tenant.TrialEnd)
	assert.InDelta(suite.T(), models.TrialDuration.Hours(), remaining.Hours(), 1)
}

func (suite *TenantServiceTestSuite) TestRegister_ValidationFailures() {
	cases := []struct {
		name string
		req  *RegisterTenantRequest
	}{
		{"empty name", &RegisterTenantRequest{Subdomain: "shop"}},
		{"empty subdomain", &RegisterTenantRequest{Name: "Shop"}},
		{"subdomain with space", &RegisterTenantRequest{Name: "Shop", Subdomain: "my shop"}},
		{"unknown timezone", &RegisterTenantRequest{Name: "Shop", Subdomain: "shop", Timezone: "Mars/Olympus"}},
	}

	for _, tc := range cases {
		tenant, err := suite.service.Register(suite.ctx, tc.req)
		assert.Error(suite.T(), err, tc.name)
		assert.Nil(suite.T(), tenant, tc.name)
		assert.Equal(suite.T(), common.CodeValidation, common.ErrorCode(err), tc.name)
	}
}

func (suite *TenantServiceTestSuite) TestGetBySubdomain() {
	registered, err := suite.service.Register(suite.ctx, &RegisterTenantRequest{
		Name:      "Corner Barbershop",
		Subdomain: "corner",
	})
	assert.NoError(suite.T(), err)

	found, err := suite.service.GetBySubdomain(suite.ctx, "corner")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), registered.ID, found.ID)

	_, err = suite.service.GetBySubdomain(suite.ctx, "nowhere")
	assert.Error(suite.T(), err)
	assert.Equal(suite.T(), common.CodeNotFound, common.ErrorCode(err))

	_, err = suite.service.GetBySubdomain(suite.ctx, "")
	assert.Error(suite.T(), err)
	assert.Equal(suite.T(), common.CodeValidation, common.ErrorCode(err))
}
