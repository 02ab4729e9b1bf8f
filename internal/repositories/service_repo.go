package repositories

import (
	"context"
	"errors"

	"bookslot/internal/common"
	"bookslot/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ServiceRepository interface {
	Create(ctx context.Context, service *models.Service) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Service, error)
	Update(ctx context.Context, service *models.Service) error
	List(ctx context.Context, tenantID uuid.UUID, activeOnly bool) ([]*models.Service, error)
	CountActive(ctx context.Context, tenantID uuid.UUID) (int, error)
}

type serviceRepo struct {
	db DB
}

func NewServiceRepo(db DB) ServiceRepository {
	return &serviceRepo{db: db}
}

func (r *serviceRepo) Create(ctx context.Context, service *models.Service) error {
	query := `
		INSERT INTO services (id, tenant_id, name, duration_minutes, price, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, service.ID, service.TenantID, service.Name,
		service.DurationMinutes, service.Price, service.Active)
	return err
}

func (r *serviceRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Service, error) {
	service := &models.Service{}
	query := `
		SELECT id, tenant_id, name, duration_minutes, price, active, created_at, updated_at
		FROM services
		WHERE tenant_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&service.ID, &service.TenantID, &service.Name,
		&service.DurationMinutes, &service.Price, &service.Active, &service.CreatedAt, &service.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NotFound("service.get", "service")
		}
		return nil, err
	}
	return service, nil
}

func (r *serviceRepo) Update(ctx context.Context, service *models.Service) error {
	query := `
		UPDATE services
		SET name = $1, duration_minutes = $2, price = $3, active = $4, updated_at = NOW()
		WHERE tenant_id = $5 AND id = $6
	`
	tag, err := r.db.Exec(ctx, query, service.Name, service.DurationMinutes, service.Price,
		service.Active, service.TenantID, service.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("service.update", "service")
	}
	return nil
}

func (r *serviceRepo) List(ctx context.Context, tenantID uuid.UUID, activeOnly bool) ([]*models.Service, error) {
	query := `
		SELECT id, tenant_id, name, duration_minutes, price, active, created_at, updated_at
		FROM services
		WHERE tenant_id = $1 AND ($2 = false OR active = true)
		ORDER BY name
	`
	rows, err := r.db.Query(ctx, query, tenantID, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []*models.Service
	for rows.Next() {
		service := &models.Service{}
		if err := rows.Scan(&service.ID, &service.TenantID, &service.Name, &service.DurationMinutes,
			&service.Price, &service.Active, &service.CreatedAt, &service.UpdatedAt); err != nil {
			return nil, err
		}
		services = append(services, service)
	}
	return services, rows.Err()
}

func (r *serviceRepo) CountActive(ctx context.Context, tenantID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM services WHERE tenant_id = $1 AND active = true`
	err := r.db.QueryRow(ctx, query, tenantID).Scan(&count)
	return count, err
}
