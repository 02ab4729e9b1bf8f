package services

import (
	"context"

	"bookslot/internal/common"
	"bookslot/internal/models"
	"bookslot/internal/repositories"

	"github.com/google/uuid"
)

// CatalogService manages a tenant's bookable services. Services are immutable
// during slot computation; changes here only affect later queries.
type CatalogService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req *CreateServiceRequest) (*models.Service, error)
	Update(ctx context.Context, tenantID, serviceID uuid.UUID, req *UpdateServiceRequest) error
	GetByID(ctx context.Context, tenantID, serviceID uuid.UUID) (*models.Service, error)
	List(ctx context.Context, tenantID uuid.UUID, activeOnly bool) ([]*models.Service, error)
}

type CreateServiceRequest struct {
	Name            string  `json:"name" validate:"required"`
	DurationMinutes int     `json:"duration_minutes" validate:"required"`
	Price           float64 `json:"price"`
}

type UpdateServiceRequest struct {
	Name            string  `json:"name" validate:"required"`
	DurationMinutes int     `json:"duration_minutes" validate:"required"`
	Price           float64 `json:"price"`
	Active          bool    `json:"active"`
}

type catalogService struct {
	serviceRepo repositories.ServiceRepository
	tenantRepo  repositories.TenantRepository
}

func NewCatalogService(serviceRepo repositories.ServiceRepository, tenantRepo repositories.TenantRepository) CatalogService {
	return &catalogService{
		serviceRepo: serviceRepo,
		tenantRepo:  tenantRepo,
	}
}

func (s *catalogService) Create(ctx context.Context, tenantID uuid.UUID, req *CreateServiceRequest) (*models.Service, error) {
	const op = "catalog.create"

	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return nil, common.Invalid(op, "%s", err.Error())
	}
	if err := common.ValidateDuration(req.DurationMinutes, "duration_minutes"); err != nil {
		return nil, common.Invalid(op, "%s", err.Error())
	}
	if req.Price < 0 {
		return nil, common.Invalid(op, "price cannot be negative")
	}

	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant.Plan == models.PlanFree {
		count, err := s.serviceRepo.CountActive(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		if count >= models.FreePlanServiceLimit {
			return nil, common.Invalid(op, "free plan allows at most %d active services", models.FreePlanServiceLimit)
		}
	}

	service := &models.Service{
		ID:              uuid.New(),
		TenantID:        tenantID,
		Name:            req.Name,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		Active:          true,
	}
	if err := s.serviceRepo.Create(ctx, service); err != nil {
		return nil, err
	}
	return service, nil
}

func (s *catalogService) Update(ctx context.Context, tenantID, serviceID uuid.UUID, req *UpdateServiceRequest) error {
	const op = "catalog.update"

	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return common.Invalid(op, "%s", err.Error())
	}
	if err := common.ValidateDuration(req.DurationMinutes, "duration_minutes"); err != nil {
		return common.Invalid(op, "%s", err.Error())
	}

	existing, err := s.serviceRepo.GetByID(ctx, tenantID, serviceID)
	if err != nil {
		return err
	}
	existing.Name = req.Name
	existing.DurationMinutes = req.DurationMinutes
	existing.Price = req.Price
	existing.Active = req.Active
	return s.serviceRepo.Update(ctx, existing)
}

func (s *catalogService) GetByID(ctx context.Context, tenantID, serviceID uuid.UUID) (*models.Service, error) {
	return s.serviceRepo.GetByID(ctx, tenantID, serviceID)
}

func (s *catalogService) List(ctx context.Context, tenantID uuid.UUID, activeOnly bool) ([]*models.Service, error) {
	return s.serviceRepo.List(ctx, tenantID, activeOnly)
}
