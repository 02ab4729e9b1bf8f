package services

import (
	"context"
	"strings"
	"time"

	"bookslot/internal/common"
	"bookslot/internal/models"
	"bookslot/internal/repositories"

	"github.com/google/uuid"
)

// TenantService is the registration collaborator's entry point. New tenants
// always start on a 14-day trial with a zeroed usage counter.
type TenantService interface {
	Register(ctx context.Context, req *RegisterTenantRequest) (*models.Tenant, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error)
}

type RegisterTenantRequest struct {
	Name      string `json:"name" validate:"required"`
	Subdomain string `json:"subdomain" validate:"required"`
	Timezone  string `json:"timezone"`
}

type tenantService struct {
	tenantRepo repositories.TenantRepository
}

func NewTenantService(tenantRepo repositories.TenantRepository) TenantService {
	return &tenantService{tenantRepo: tenantRepo}
}

func (s *tenantService) Register(ctx context.Context, req *RegisterTenantRequest) (*models.Tenant, error) {
	const op = "tenant.register"

	if req.Name == "" || req.Subdomain == "" {
		return nil, common.Invalid(op, "name and subdomain are required")
	}
	if strings.TrimSpace(req.Subdomain) != req.Subdomain || strings.Contains(req.Subdomain, " ") {
		return nil, common.Invalid(op, "subdomain cannot have spaces")
	}
	if req.Timezone != "" {
		if _, err := time.LoadLocation(req.Timezone); err != nil {
			return nil, common.Invalid(op, "unknown timezone %q", req.Timezone)
		}
	}

	now := time.Now()
	trialEnd := now.Add(models.TrialDuration)
	tenant := &models.Tenant{
		ID:                    uuid.New(),
		Name:                  req.Name,
		Subdomain:             strings.ToLower(req.Subdomain),
		Timezone:              req.Timezone,
		Plan:                  models.PlanTrial,
		PlanStart:             now,
		TrialEnd:              &trialEnd,
		UsageCount:            0,
		PeriodStart:           time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC),
		AcceptingAppointments: true,
	}

	if err := s.tenantRepo.Create(ctx, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

func (s *tenantService) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	return s.tenantRepo.GetByID(ctx, id)
}

func (s *tenantService) GetBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error) {
	if subdomain == "" {
		return nil, common.Invalid("tenant.get", "subdomain is required")
	}
	return s.tenantRepo.GetBySubdomain(ctx, subdomain)
}
