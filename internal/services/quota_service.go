package services

import (
	"context"
	"errors"
	"log"
	"time"

	"bookslot/internal/caching"
	"bookslot/internal/common"
	"bookslot/internal/locking"
	"bookslot/internal/models"
	"bookslot/internal/repositories"

	"github.com/google/uuid"
)

const planStateTTL = 30 * time.Second

// QuotaService enforces the free plan's monthly booking cap and owns the
// usage counter. The check and the increment are one repository operation so
// concurrent requests at the boundary cannot both pass.
type QuotaService interface {
	// CheckAndIncrement counts one booking against the tenant's period.
	// Free tenants at the cap fail with quota_exceeded and no increment;
	// trial and pro tenants are counted but never capped.
	CheckAndIncrement(ctx context.Context, tenant *models.Tenant) (int, error)
	// Release undoes an increment whose booking never committed.
	Release(ctx context.Context, tenantID uuid.UUID) error
	// Reset zeroes the counter for a new period. It takes the tenant's
	// serialization lock, so a booking landing at the period boundary is
	// either counted before the reset or against the fresh period, never
	// lost. Idempotent: a second call in the same period is a no-op.
	Reset(ctx context.Context, tenantID uuid.UUID, periodStart time.Time) (bool, error)
	// PlanState is the dashboard view of plan, limit and usage.
	PlanState(ctx context.Context, tenantID uuid.UUID) (*models.PlanState, error)
}

type quotaService struct {
	tenantRepo repositories.TenantRepository
	cacheSvc   caching.CacheService
	tenantLock *locking.TenantLock
}

func NewQuotaService(tenantRepo repositories.TenantRepository, cacheSvc caching.CacheService, tenantLock *locking.TenantLock) QuotaService {
	return &quotaService{
		tenantRepo: tenantRepo,
		cacheSvc:   cacheSvc,
		tenantLock: tenantLock,
	}
}

func (s *quotaService) CheckAndIncrement(ctx context.Context, tenant *models.Tenant) (int, error) {
	limit := models.PlanLimit(tenant.Plan)
	count, err := s.tenantRepo.CheckAndIncrementUsage(ctx, tenant.ID, limit)
	if err != nil {
		if errors.Is(err, repositories.ErrUsageLimitReached) {
			current, getErr := s.tenantRepo.GetByID(ctx, tenant.ID)
			used := limit
			if getErr == nil {
				used = current.UsageCount
			}
			return 0, common.QuotaExceeded("quota.increment", used, limit)
		}
		return 0, err
	}
	s.invalidate(ctx, tenant.ID)
	return count, nil
}

func (s *quotaService) Release(ctx context.Context, tenantID uuid.UUID) error {
	if err := s.tenantRepo.DecrementUsage(ctx, tenantID); err != nil {
		return err
	}
	s.invalidate(ctx, tenantID)
	return nil
}

func (s *quotaService) Reset(ctx context.Context, tenantID uuid.UUID, periodStart time.Time) (bool, error) {
	release, err := s.tenantLock.Acquire(ctx, tenantID)
	if err != nil {
		return false, err
	}
	defer release()

	reset, err := s.tenantRepo.ResetUsage(ctx, tenantID, periodStart)
	if err != nil {
		return false, err
	}
	if !reset {
		return false, nil
	}

	s.invalidate(ctx, tenantID)
	if err := s.cacheSvc.PublishCounterReset(ctx, caching.CounterResetEvent{
		TenantID:    tenantID,
		PeriodStart: periodStart,
	}); err != nil {
		// The reset itself is committed; a lost event only delays the
		// downstream notification.
		log.Printf("WARN: failed to publish counter reset for tenant %s: %v", tenantID, err)
	}
	return true, nil
}

func (s *quotaService) PlanState(ctx context.Context, tenantID uuid.UUID) (*models.PlanState, error) {
	if cached, err := s.cacheSvc.GetPlanState(ctx, tenantID); err == nil && cached != nil {
		return cached, nil
	} else if err != nil {
		log.Printf("WARN: plan state cache read failed for tenant %s: %v", tenantID, err)
	}

	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	limit := models.PlanLimit(tenant.Plan)
	state := &models.PlanState{
		Plan:  tenant.Plan,
		Limit: limit,
		Used:  tenant.UsageCount,
	}
	if limit >= 0 {
		state.Remaining = limit - tenant.UsageCount
		if state.Remaining < 0 {
			state.Remaining = 0
		}
	} else {
		state.Remaining = -1 // unlimited
	}
	switch tenant.Plan {
	case models.PlanTrial:
		state.PeriodEnd = tenant.TrialEnd
	case models.PlanPro:
		state.PeriodEnd = tenant.PlanEnd
	default:
		periodEnd := tenant.PeriodStart.AddDate(0, 1, 0)
		state.PeriodEnd = &periodEnd
	}

	if err := s.cacheSvc.SetPlanState(ctx, tenantID, state, planStateTTL); err != nil {
		log.Printf("WARN: plan state cache write failed for tenant %s: %v", tenantID, err)
	}
	return state, nil
}

func (s *quotaService) invalidate(ctx context.Context, tenantID uuid.UUID) {
	if err := s.cacheSvc.InvalidatePlanState(ctx, tenantID); err != nil {
		log.Printf("WARN: plan state cache invalidation failed for tenant %s: %v", tenantID, err)
	}
}
