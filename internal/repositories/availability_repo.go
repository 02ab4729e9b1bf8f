package repositories

import (
	"context"

	"bookslot/internal/models"

	"github.com/google/uuid"
)

type AvailabilityRepository interface {
	// Upsert writes the window for (tenant, weekday), replacing any
	// existing row. One window per weekday per tenant.
	Upsert(ctx context.Context, window *models.AvailabilityWindow) error
	GetForWeekday(ctx context.Context, tenantID uuid.UUID, weekday int) ([]*models.AvailabilityWindow, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.AvailabilityWindow, error)
}

type availabilityRepo struct {
	db DB
}

func NewAvailabilityRepo(db DB) AvailabilityRepository {
	return &availabilityRepo{db: db}
}

func (r *availabilityRepo) Upsert(ctx context.Context, window *models.AvailabilityWindow) error {
	query := `
		INSERT INTO availability_windows (id, tenant_id, weekday, start_time, end_time, enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (tenant_id, weekday) DO UPDATE
		SET start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time, enabled = EXCLUDED.enabled, updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, window.ID, window.TenantID, window.Weekday,
		window.StartTime, window.EndTime, window.Enabled)
	return err
}

func (r *availabilityRepo) GetForWeekday(ctx context.Context, tenantID uuid.UUID, weekday int) ([]*models.AvailabilityWindow, error) {
	query := `
		SELECT id, tenant_id, weekday, start_time, end_time, enabled, created_at, updated_at
		FROM availability_windows
		WHERE tenant_id = $1 AND weekday = $2 AND enabled = true
		ORDER BY start_time
	`
	return r.queryWindows(ctx, query, tenantID, weekday)
}

func (r *availabilityRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.AvailabilityWindow, error) {
	query := `
		SELECT id, tenant_id, weekday, start_time, end_time, enabled, created_at, updated_at
		FROM availability_windows
		WHERE tenant_id = $1
		ORDER BY weekday, start_time
	`
	return r.queryWindows(ctx, query, tenantID)
}

func (r *availabilityRepo) queryWindows(ctx context.Context, query string, args ...any) ([]*models.AvailabilityWindow, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var windows []*models.AvailabilityWindow
	for rows.Next() {
		window := &models.AvailabilityWindow{}
		if err := rows.Scan(&window.ID, &window.TenantID, &window.Weekday, &window.StartTime,
			&window.EndTime, &window.Enabled, &window.CreatedAt, &window.UpdatedAt); err != nil {
			return nil, err
		}
		windows = append(windows, window)
	}
	return windows, rows.Err()
}
