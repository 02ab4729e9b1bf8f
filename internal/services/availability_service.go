package services

import (
	"context"

	"bookslot/internal/common"
	"bookslot/internal/models"
	"bookslot/internal/repositories"

	"github.com/google/uuid"
)

// AvailabilityService is the per-tenant weekly calendar of open/close windows.
type AvailabilityService interface {
	// WindowsFor returns the enabled windows for a weekday, sorted by start
	// time. Unknown tenants fail with not_found; a closed day returns an
	// empty list, not an error.
	WindowsFor(ctx context.Context, tenantID uuid.UUID, weekday int) ([]*models.AvailabilityWindow, error)
	SetWindow(ctx context.Context, tenantID uuid.UUID, req *SetWindowRequest) error
	// WeeklySchedule renders the tenant's business hours, one entry per day.
	WeeklySchedule(ctx context.Context, tenantID uuid.UUID) (map[string]string, error)
}

type SetWindowRequest struct {
	Weekday   int    `json:"weekday"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Enabled   bool   `json:"enabled"`
}

type availabilityService struct {
	availabilityRepo repositories.AvailabilityRepository
	tenantRepo       repositories.TenantRepository
}

func NewAvailabilityService(availabilityRepo repositories.AvailabilityRepository, tenantRepo repositories.TenantRepository) AvailabilityService {
	return &availabilityService{
		availabilityRepo: availabilityRepo,
		tenantRepo:       tenantRepo,
	}
}

func (s *availabilityService) WindowsFor(ctx context.Context, tenantID uuid.UUID, weekday int) ([]*models.AvailabilityWindow, error) {
	if err := common.ValidateWeekday(weekday, "weekday"); err != nil {
		return nil, common.Invalid("availability.windows", "%s", err.Error())
	}
	if _, err := s.tenantRepo.GetByID(ctx, tenantID); err != nil {
		return nil, err
	}
	windows, err := s.availabilityRepo.GetForWeekday(ctx, tenantID, weekday)
	if err != nil {
		return nil, err
	}
	if windows == nil {
		windows = []*models.AvailabilityWindow{}
	}
	return windows, nil
}

func (s *availabilityService) SetWindow(ctx context.Context, tenantID uuid.UUID, req *SetWindowRequest) error {
	if err := common.ValidateWeekday(req.Weekday, "weekday"); err != nil {
		return common.Invalid("availability.set", "%s", err.Error())
	}
	start, err := models.MinuteOfDay(req.StartTime)
	if err != nil {
		return common.Invalid("availability.set", "start_time must be HH:MM")
	}
	end, err := models.MinuteOfDay(req.EndTime)
	if err != nil {
		return common.Invalid("availability.set", "end_time must be HH:MM")
	}
	if req.Enabled && start >= end {
		return common.Invalid("availability.set", "start_time must be before end_time")
	}

	window := &models.AvailabilityWindow{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Weekday:   req.Weekday,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Enabled:   req.Enabled,
	}
	return s.availabilityRepo.Upsert(ctx, window)
}

func (s *availabilityService) WeeklySchedule(ctx context.Context, tenantID uuid.UUID) (map[string]string, error) {
	windows, err := s.availabilityRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	schedule := make(map[string]string, 7)
	for day := 0; day < 7; day++ {
		schedule[models.WeekdayName(day)] = "Closed"
	}
	for _, window := range windows {
		if window.Enabled {
			schedule[models.WeekdayName(window.Weekday)] = window.StartTime + " - " + window.EndTime
		}
	}
	return schedule, nil
}
