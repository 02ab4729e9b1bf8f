package services

import (
	"context"
	"log"
	"time"

	"bookslot/internal/caching"
	"bookslot/internal/common"
	"bookslot/internal/models"
	"bookslot/internal/repositories"

	"github.com/google/uuid"
)

// Capabilities gated by plan. Booking is available on every plan (the quota
// caps it); the rest are pro features.
const (
	CapabilityBook         = "book"
	CapabilityStaff        = "staff"
	CapabilityCustomDomain = "custom_domain"
	CapabilityWhatsApp     = "whatsapp"
)

const sweepPageSize = 500

// LifecycleService is the state machine over tenant plans: trial -> free on
// trial expiry, pro -> free on subscription expiry, trial/free -> pro on
// payment. Every transition is one atomic write of the plan fields, and every
// decision is taken from persisted state so a crashed sweep can simply re-run.
type LifecycleService interface {
	// EvaluateTenant applies at most one due transition and reports the
	// resulting plan and whether anything changed.
	EvaluateTenant(ctx context.Context, tenant *models.Tenant, now time.Time) (string, bool, error)
	// Sweep evaluates every tenant, logging and skipping per-tenant
	// failures; a failed tenant is retried on the next cycle.
	Sweep(ctx context.Context, now time.Time) error
	// ResetSweep rolls every tenant's usage counter into the current
	// calendar-month period.
	ResetSweep(ctx context.Context, now time.Time) error
	// UpgradeToPro is the payment collaborator's success entry point.
	UpgradeToPro(ctx context.Context, tenantID uuid.UUID, periodEnd, now time.Time) error
	// Permits is the explicit feature gate for plan-bound capabilities.
	Permits(tenant *models.Tenant, capability string, now time.Time) error
}

type lifecycleService struct {
	tenantRepo repositories.TenantRepository
	quotaSvc   QuotaService
	cacheSvc   caching.CacheService
}

func NewLifecycleService(tenantRepo repositories.TenantRepository, quotaSvc QuotaService, cacheSvc caching.CacheService) LifecycleService {
	return &lifecycleService{
		tenantRepo: tenantRepo,
		quotaSvc:   quotaSvc,
		cacheSvc:   cacheSvc,
	}
}

func (s *lifecycleService) EvaluateTenant(ctx context.Context, tenant *models.Tenant, now time.Time) (string, bool, error) {
	var newPlan string

	switch tenant.Plan {
	case models.PlanTrial:
		if tenant.TrialEnd != nil && !now.Before(*tenant.TrialEnd) {
			newPlan = models.PlanFree
		}
	case models.PlanPro:
		if tenant.PlanEnd != nil && !now.Before(*tenant.PlanEnd) {
			newPlan = models.PlanFree
		}
	}
	if newPlan == "" {
		return tenant.Plan, false, nil
	}

	// Trial ends at most once: trial_end is cleared with the downgrade so
	// no later evaluation can re-trigger it.
	if err := s.tenantRepo.UpdatePlan(ctx, tenant.ID, newPlan, now, nil, nil); err != nil {
		return tenant.Plan, false, err
	}

	// An expired trial starts its free plan with a fresh counter and a
	// period anchored on the expiry day; uncapped trial usage must not eat
	// into the first free-plan month.
	if tenant.Plan == models.PlanTrial {
		periodStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		if _, err := s.quotaSvc.Reset(ctx, tenant.ID, periodStart); err != nil {
			// The plan transition is committed; the monthly sweep will
			// still zero the counter if this reset never lands.
			log.Printf("ERROR: counter reset after trial expiry failed for tenant %s: %v", tenant.ID, err)
		}
	}

	s.announce(ctx, tenant.ID, tenant.Plan, newPlan)
	return newPlan, true, nil
}

func (s *lifecycleService) Sweep(ctx context.Context, now time.Time) error {
	evaluated, transitioned := 0, 0
	for offset := 0; ; offset += sweepPageSize {
		tenants, err := s.tenantRepo.List(ctx, sweepPageSize, offset)
		if err != nil {
			return err
		}
		if len(tenants) == 0 {
			break
		}
		for _, tenant := range tenants {
			evaluated++
			_, changed, err := s.EvaluateTenant(ctx, tenant, now)
			if err != nil {
				log.Printf("ERROR: lifecycle sweep: tenant %s evaluation failed: %v", tenant.ID, err)
				continue
			}
			if changed {
				transitioned++
			}
		}
		if len(tenants) < sweepPageSize {
			break
		}
	}
	log.Printf("Lifecycle sweep evaluated %d tenants, %d transitions", evaluated, transitioned)
	return nil
}

func (s *lifecycleService) ResetSweep(ctx context.Context, now time.Time) error {
	periodStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	resets := 0
	for offset := 0; ; offset += sweepPageSize {
		tenants, err := s.tenantRepo.List(ctx, sweepPageSize, offset)
		if err != nil {
			return err
		}
		if len(tenants) == 0 {
			break
		}
		for _, tenant := range tenants {
			reset, err := s.quotaSvc.Reset(ctx, tenant.ID, periodStart)
			if err != nil {
				log.Printf("ERROR: reset sweep: tenant %s counter reset failed: %v", tenant.ID, err)
				continue
			}
			if reset {
				resets++
			}
		}
		if len(tenants) < sweepPageSize {
			break
		}
	}
	log.Printf("Monthly reset sweep completed, %d counters reset for period %s", resets, periodStart.Format("2006-01-02"))
	return nil
}

func (s *lifecycleService) UpgradeToPro(ctx context.Context, tenantID uuid.UUID, periodEnd, now time.Time) error {
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return err
	}
	if periodEnd.Before(now) {
		return common.Invalid("lifecycle.upgrade", "period_end must be in the future")
	}

	if err := s.tenantRepo.UpdatePlan(ctx, tenantID, models.PlanPro, now, &periodEnd, nil); err != nil {
		return err
	}
	s.announce(ctx, tenantID, tenant.Plan, models.PlanPro)
	return nil
}

func (s *lifecycleService) Permits(tenant *models.Tenant, capability string, now time.Time) error {
	switch capability {
	case CapabilityBook:
		if !tenant.AcceptingAppointments {
			return common.Invalid("lifecycle.permits", "provider is not accepting appointments")
		}
		if tenant.Plan == models.PlanPro && tenant.PlanEnd != nil && !now.Before(*tenant.PlanEnd) {
			return common.PlanExpired("lifecycle.permits")
		}
		return nil
	case CapabilityStaff, CapabilityCustomDomain, CapabilityWhatsApp:
		if s.hasProFeatures(tenant, now) {
			return nil
		}
		return common.Invalid("lifecycle.permits", "%s requires the pro plan", capability)
	default:
		return common.Invalid("lifecycle.permits", "unknown capability %q", capability)
	}
}

// hasProFeatures mirrors the plan gate for pro-only surface area: an unexpired
// pro subscription or an active trial.
func (s *lifecycleService) hasProFeatures(tenant *models.Tenant, now time.Time) bool {
	switch tenant.Plan {
	case models.PlanPro:
		return tenant.PlanEnd == nil || now.Before(*tenant.PlanEnd)
	case models.PlanTrial:
		return tenant.TrialEnd == nil || now.Before(*tenant.TrialEnd)
	}
	return false
}

func (s *lifecycleService) announce(ctx context.Context, tenantID uuid.UUID, oldPlan, newPlan string) {
	if err := s.cacheSvc.InvalidatePlanState(ctx, tenantID); err != nil {
		log.Printf("WARN: plan state cache invalidation failed for tenant %s: %v", tenantID, err)
	}
	if err := s.cacheSvc.PublishPlanChange(ctx, caching.PlanChangeEvent{
		TenantID: tenantID,
		OldPlan:  oldPlan,
		NewPlan:  newPlan,
	}); err != nil {
		log.Printf("WARN: failed to publish plan change for tenant %s: %v", tenantID, err)
	}
}
