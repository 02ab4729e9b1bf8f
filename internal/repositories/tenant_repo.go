package repositories

import (
	"context"
	"errors"
	"time"

	"bookslot/internal/common"
	"bookslot/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrUsageLimitReached is returned by CheckAndIncrementUsage when the
// conditional increment matched no row because the counter is at the cap.
var ErrUsageLimitReached = errors.New("usage limit reached")

type TenantRepository interface {
	Create(ctx context.Context, tenant *models.Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error)
	List(ctx context.Context, limit, offset int) ([]*models.Tenant, error)

	// UpdatePlan writes all plan fields in one statement so a lifecycle
	// transition is a single atomic write.
	UpdatePlan(ctx context.Context, id uuid.UUID, plan string, planStart time.Time, planEnd, trialEnd *time.Time) error

	// CheckAndIncrementUsage bumps the monthly counter, refusing when limit
	// is non-negative and already reached. Check and increment are one
	// UPDATE so concurrent callers cannot both pass at the boundary.
	// Returns the new count, ErrUsageLimitReached at the cap, or the
	// not-found error for an unknown tenant.
	CheckAndIncrementUsage(ctx context.Context, id uuid.UUID, limit int) (int, error)

	// DecrementUsage compensates an increment whose booking insert failed.
	DecrementUsage(ctx context.Context, id uuid.UUID) error

	// ResetUsage zeroes the counter and advances the period start. The
	// period_start guard makes a repeat call within the same period a
	// no-op; the return value reports whether a reset actually happened.
	ResetUsage(ctx context.Context, id uuid.UUID, periodStart time.Time) (bool, error)
}

type tenantRepo struct {
	db DB
}

func NewTenantRepo(db DB) TenantRepository {
	return &tenantRepo{db: db}
}

const tenantColumns = `id, name, subdomain, timezone, plan, plan_start, plan_end, trial_end, usage_count, period_start, accepting_appointments, created_at, updated_at`

func scanTenant(row pgx.Row) (*models.Tenant, error) {
	tenant := &models.Tenant{}
	err := row.Scan(&tenant.ID, &tenant.Name, &tenant.Subdomain, &tenant.Timezone, &tenant.Plan,
		&tenant.PlanStart, &tenant.PlanEnd, &tenant.TrialEnd, &tenant.UsageCount, &tenant.PeriodStart,
		&tenant.AcceptingAppointments, &tenant.CreatedAt, &tenant.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NotFound("tenant.get", "tenant")
		}
		return nil, err
	}
	return tenant, nil
}

func (r *tenantRepo) Create(ctx context.Context, tenant *models.Tenant) error {
	query := `
		INSERT INTO tenants (id, name, subdomain, timezone, plan, plan_start, plan_end, trial_end, usage_count, period_start, accepting_appointments, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, tenant.ID, tenant.Name, tenant.Subdomain, tenant.Timezone,
		tenant.Plan, tenant.PlanStart, tenant.PlanEnd, tenant.TrialEnd, tenant.UsageCount,
		tenant.PeriodStart, tenant.AcceptingAppointments)
	return err
}

func (r *tenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1`
	return scanTenant(r.db.QueryRow(ctx, query, id))
}

func (r *tenantRepo) GetBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE subdomain = $1`
	return scanTenant(r.db.QueryRow(ctx, query, subdomain))
}

func (r *tenantRepo) List(ctx context.Context, limit, offset int) ([]*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants ORDER BY created_at LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []*models.Tenant
	for rows.Next() {
		tenant := &models.Tenant{}
		if err := rows.Scan(&tenant.ID, &tenant.Name, &tenant.Subdomain, &tenant.Timezone, &tenant.Plan,
			&tenant.PlanStart, &tenant.PlanEnd, &tenant.TrialEnd, &tenant.UsageCount, &tenant.PeriodStart,
			&tenant.AcceptingAppointments, &tenant.CreatedAt, &tenant.UpdatedAt); err != nil {
			return nil, err
		}
		tenants = append(tenants, tenant)
	}
	return tenants, rows.Err()
}

func (r *tenantRepo) UpdatePlan(ctx context.Context, id uuid.UUID, plan string, planStart time.Time, planEnd, trialEnd *time.Time) error {
	query := `
		UPDATE tenants
		SET plan = $1, plan_start = $2, plan_end = $3, trial_end = $4, updated_at = NOW()
		WHERE id = $5
	`
	tag, err := r.db.Exec(ctx, query, plan, planStart, planEnd, trialEnd, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("tenant.update_plan", "tenant")
	}
	return nil
}

func (r *tenantRepo) CheckAndIncrementUsage(ctx context.Context, id uuid.UUID, limit int) (int, error) {
	query := `
		UPDATE tenants
		SET usage_count = usage_count + 1, updated_at = NOW()
		WHERE id = $1 AND ($2 < 0 OR usage_count < $2)
		RETURNING usage_count
	`
	var count int
	err := r.db.QueryRow(ctx, query, id, limit).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either the tenant is unknown or the cap is reached.
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return 0, getErr
			}
			return 0, ErrUsageLimitReached
		}
		return 0, err
	}
	return count, nil
}

func (r *tenantRepo) DecrementUsage(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE tenants
		SET usage_count = GREATEST(usage_count - 1, 0), updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *tenantRepo) ResetUsage(ctx context.Context, id uuid.UUID, periodStart time.Time) (bool, error) {
	query := `
		UPDATE tenants
		SET usage_count = 0, period_start = $2, updated_at = NOW()
		WHERE id = $1 AND period_start < $2
	`
	tag, err := r.db.Exec(ctx, query, id, periodStart)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
