package services

import (
	"context"
	"sync"
	"time"

	"bookslot/internal/caching"
	"bookslot/internal/common"
	"bookslot/internal/models"
	"bookslot/internal/repositories"

	"github.com/google/uuid"
)

// In-memory repository fakes. The concurrency tests need real state behind
// the interfaces, which expectation-based mocks cannot provide.

type fakeTenantRepo struct {
	mu      sync.Mutex
	tenants map[uuid.UUID]*models.Tenant
	order   []uuid.UUID

	updatePlanErr map[uuid.UUID]error
}

func newFakeTenantRepo() *fakeTenantRepo {
	return &fakeTenantRepo{
		tenants:       make(map[uuid.UUID]*models.Tenant),
		updatePlanErr: make(map[uuid.UUID]error),
	}
}

func (f *fakeTenantRepo) add(tenant *models.Tenant) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *tenant
	f.tenants[tenant.ID] = &copied
	f.order = append(f.order, tenant.ID)
}

func (f *fakeTenantRepo) Create(ctx context.Context, tenant *models.Tenant) error {
	f.add(tenant)
	return nil
}

func (f *fakeTenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tenant, ok := f.tenants[id]
	if !ok {
		return nil, common.NotFound("tenant.get", "tenant")
	}
	copied := *tenant
	return &copied, nil
}

func (f *fakeTenantRepo) GetBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tenant := range f.tenants {
		if tenant.Subdomain == subdomain {
			copied := *tenant
			return &copied, nil
		}
	}
	return nil, common.NotFound("tenant.get", "tenant")
}

func (f *fakeTenantRepo) List(ctx context.Context, limit, offset int) ([]*models.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Tenant
	for i := offset; i < len(f.order) && len(out) < limit; i++ {
		copied := *f.tenants[f.order[i]]
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeTenantRepo) UpdatePlan(ctx context.Context, id uuid.UUID, plan string, planStart time.Time, planEnd, trialEnd *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.updatePlanErr[id]; err != nil {
		return err
	}
	tenant, ok := f.tenants[id]
	if !ok {
		return common.NotFound("tenant.update_plan", "tenant")
	}
	tenant.Plan = plan
	tenant.PlanStart = planStart
	tenant.PlanEnd = planEnd
	tenant.TrialEnd = trialEnd
	return nil
}

func (f *fakeTenantRepo) CheckAndIncrementUsage(ctx context.Context, id uuid.UUID, limit int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tenant, ok := f.tenants[id]
	if !ok {
		return 0, common.NotFound("tenant.usage", "tenant")
	}
	if limit >= 0 && tenant.UsageCount >= limit {
		return 0, repositories.ErrUsageLimitReached
	}
	tenant.UsageCount++
	return tenant.UsageCount, nil
}

func (f *fakeTenantRepo) DecrementUsage(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	tenant, ok := f.tenants[id]
	if !ok {
		return common.NotFound("tenant.usage", "tenant")
	}
	if tenant.UsageCount > 0 {
		tenant.UsageCount--
	}
	return nil
}

func (f *fakeTenantRepo) ResetUsage(ctx context.Context, id uuid.UUID, periodStart time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tenant, ok := f.tenants[id]
	if !ok {
		return false, common.NotFound("tenant.usage", "tenant")
	}
	if !tenant.PeriodStart.Before(periodStart) {
		return false, nil
	}
	tenant.UsageCount = 0
	tenant.PeriodStart = periodStart
	return true, nil
}

type fakeServiceRepo struct {
	mu       sync.Mutex
	services map[uuid.UUID]*models.Service
}

func newFakeServiceRepo() *fakeServiceRepo {
	return &fakeServiceRepo{services: make(map[uuid.UUID]*models.Service)}
}

func (f *fakeServiceRepo) Create(ctx context.Context, service *models.Service) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *service
	f.services[service.ID] = &copied
	return nil
}

func (f *fakeServiceRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	service, ok := f.services[id]
	if !ok || service.TenantID != tenantID {
		return nil, common.NotFound("service.get", "service")
	}
	copied := *service
	return &copied, nil
}

func (f *fakeServiceRepo) Update(ctx context.Context, service *models.Service) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.services[service.ID]; !ok {
		return common.NotFound("service.update", "service")
	}
	copied := *service
	f.services[service.ID] = &copied
	return nil
}

func (f *fakeServiceRepo) List(ctx context.Context, tenantID uuid.UUID, activeOnly bool) ([]*models.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Service
	for _, service := range f.services {
		if service.TenantID != tenantID {
			continue
		}
		if activeOnly && !service.Active {
			continue
		}
		copied := *service
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeServiceRepo) CountActive(ctx context.Context, tenantID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, service := range f.services {
		if service.TenantID == tenantID && service.Active {
			count++
		}
	}
	return count, nil
}

type fakeAvailabilityRepo struct {
	mu      sync.Mutex
	windows map[uuid.UUID]map[int]*models.AvailabilityWindow
}

func newFakeAvailabilityRepo() *fakeAvailabilityRepo {
	return &fakeAvailabilityRepo{windows: make(map[uuid.UUID]map[int]*models.AvailabilityWindow)}
}

func (f *fakeAvailabilityRepo) Upsert(ctx context.Context, window *models.AvailabilityWindow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.windows[window.TenantID] == nil {
		f.windows[window.TenantID] = make(map[int]*models.AvailabilityWindow)
	}
	copied := *window
	f.windows[window.TenantID][window.Weekday] = &copied
	return nil
}

func (f *fakeAvailabilityRepo) GetForWeekday(ctx context.Context, tenantID uuid.UUID, weekday int) ([]*models.AvailabilityWindow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	window, ok := f.windows[tenantID][weekday]
	if !ok || !window.Enabled {
		return nil, nil
	}
	copied := *window
	return []*models.AvailabilityWindow{&copied}, nil
}

func (f *fakeAvailabilityRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.AvailabilityWindow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.AvailabilityWindow
	for weekday := 0; weekday < 7; weekday++ {
		if window, ok := f.windows[tenantID][weekday]; ok {
			copied := *window
			out = append(out, &copied)
		}
	}
	return out, nil
}

type fakeAppointmentRepo struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]*models.Appointment
	createErr    error
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*models.Appointment)}
}

func (f *fakeAppointmentRepo) Create(ctx context.Context, appointment *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	copied := *appointment
	f.appointments[appointment.ID] = &copied
	return nil
}

func (f *fakeAppointmentRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	appointment, ok := f.appointments[id]
	if !ok || appointment.TenantID != tenantID {
		return nil, common.NotFound("appointment.get", "appointment")
	}
	copied := *appointment
	return &copied, nil
}

func (f *fakeAppointmentRepo) ListActiveByDate(ctx context.Context, tenantID uuid.UUID, date time.Time) ([]*models.Appointment, error) {
	return f.list(tenantID, date, true)
}

func (f *fakeAppointmentRepo) ListByDate(ctx context.Context, tenantID uuid.UUID, date time.Time) ([]*models.Appointment, error) {
	return f.list(tenantID, date, false)
}

func (f *fakeAppointmentRepo) list(tenantID uuid.UUID, date time.Time, activeOnly bool) ([]*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Appointment
	for _, appointment := range f.appointments {
		if appointment.TenantID != tenantID || !appointment.Date.Equal(date) {
			continue
		}
		if activeOnly && !appointment.Active() {
			continue
		}
		copied := *appointment
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeAppointmentRepo) SetStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	appointment, ok := f.appointments[id]
	if !ok || appointment.TenantID != tenantID {
		return common.NotFound("appointment.set_status", "appointment")
	}
	appointment.Status = status
	return nil
}

// fakeCache records published events and otherwise behaves like an always-miss
// cache.
type fakeCache struct {
	mu          sync.Mutex
	states      map[uuid.UUID]*models.PlanState
	planEvents  []caching.PlanChangeEvent
	resetEvents []caching.CounterResetEvent
}

func newFakeCache() *fakeCache {
	return &fakeCache{states: make(map[uuid.UUID]*models.PlanState)}
}

func (f *fakeCache) GetPlanState(ctx context.Context, tenantID uuid.UUID) (*models.PlanState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.states[tenantID], nil
}

func (f *fakeCache) SetPlanState(ctx context.Context, tenantID uuid.UUID, state *models.PlanState, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states[tenantID] = state
	return nil
}

func (f *fakeCache) InvalidatePlanState(ctx context.Context, tenantID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.states, tenantID)
	return nil
}

func (f *fakeCache) PublishPlanChange(ctx context.Context, event caching.PlanChangeEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.planEvents = append(f.planEvents, event)
	return nil
}

func (f *fakeCache) PublishCounterReset(ctx context.Context, event caching.CounterResetEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetEvents = append(f.resetEvents, event)
	return nil
}
