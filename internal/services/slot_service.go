package services

import (
	"context"
	"time"

	"bookslot/internal/common"
	"bookslot/internal/models"
	"bookslot/internal/repositories"
)

// SlotGranularityMinutes is the fixed stepping between candidate start times.
const SlotGranularityMinutes = 30

// CheckSlot reasons. ReasonBooked distinguishes a commit-time conflict from
// plain validation failures.
const (
	ReasonAvailable    = "Available"
	ReasonInvalidTime  = "Invalid time format"
	ReasonPastDate     = "Date is in the past"
	ReasonPastSlot     = "Time slot is in the past"
	ReasonClosed       = "Not available on this day"
	ReasonOutsideHours = "Outside business hours"
	ReasonTooLate      = "Service cannot be completed before closing time"
	ReasonBooked       = "Time slot already booked"
)

// SlotService computes valid booking slots for a tenant, service and date.
// It never mutates state; the returned list is a snapshot that can go stale
// between query and submit, which is why BookingService re-checks at commit.
type SlotService interface {
	// Generate returns candidate start times (HH:MM, earliest first). A
	// past date or a day with no fitting window yields an empty list.
	Generate(ctx context.Context, tenant *models.Tenant, service *models.Service, date, now time.Time) ([]string, error)
	// CheckSlot reports whether one specific start time is bookable, with a
	// human-readable reason when it is not.
	CheckSlot(ctx context.Context, tenant *models.Tenant, service *models.Service, date time.Time, clock string, now time.Time) (bool, string, error)
	// NextAvailableDate scans forward for the first date with at least one
	// open slot, up to daysAhead days. Returns nil when none is found.
	NextAvailableDate(ctx context.Context, tenant *models.Tenant, service *models.Service, from, now time.Time, daysAhead int) (*time.Time, error)
}

type slotService struct {
	availabilityRepo repositories.AvailabilityRepository
	appointmentRepo  repositories.AppointmentRepository
}

func NewSlotService(availabilityRepo repositories.AvailabilityRepository, appointmentRepo repositories.AppointmentRepository) SlotService {
	return &slotService{
		availabilityRepo: availabilityRepo,
		appointmentRepo:  appointmentRepo,
	}
}

// localDay truncates an instant to its calendar day in the given zone,
// expressed as minutes alongside the date for comparisons.
func localDay(t time.Time, loc *time.Location) (time.Time, int) {
	local := t.In(loc)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	return day, local.Hour()*60 + local.Minute()
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *slotService) Generate(ctx context.Context, tenant *models.Tenant, service *models.Service, date, now time.Time) ([]string, error) {
	slots := []string{}

	if !service.Active || service.TenantID != tenant.ID {
		return nil, common.NotFound("slots.generate", "service")
	}

	day := dateOnly(date)
	today, nowMinute := localDay(now, tenant.Location())
	if day.Before(today) {
		return slots, nil
	}
	isToday := day.Equal(today)

	windows, err := s.availabilityRepo.GetForWeekday(ctx, tenant.ID, models.GoWeekday(day.Weekday()))
	if err != nil {
		return nil, err
	}
	if len(windows) == 0 {
		return slots, nil
	}

	active, err := s.appointmentRepo.ListActiveByDate(ctx, tenant.ID, day)
	if err != nil {
		return nil, err
	}

	// Windows arrive sorted by start time and never overlap by
	// construction (one per weekday), so concatenation keeps the slot
	// list ordered earliest-first.
	for _, window := range windows {
		windowStart, err := window.StartMinute()
		if err != nil {
			return nil, err
		}
		windowEnd, err := window.EndMinute()
		if err != nil {
			return nil, err
		}

		for start := windowStart; start+service.DurationMinutes <= windowEnd; start += SlotGranularityMinutes {
			if isToday && start <= nowMinute {
				continue
			}
			candidate := models.Interval{Start: start, End: start + service.DurationMinutes}
			booked, err := overlapsActive(candidate, active)
			if err != nil {
				return nil, err
			}
			if booked {
				continue
			}
			slots = append(slots, models.ClockFromMinute(start))
		}
	}
	return slots, nil
}

func (s *slotService) CheckSlot(ctx context.Context, tenant *models.Tenant, service *models.Service, date time.Time, clock string, now time.Time) (bool, string, error) {
	start, err := models.MinuteOfDay(clock)
	if err != nil {
		return false, ReasonInvalidTime, nil
	}

	day := dateOnly(date)
	today, nowMinute := localDay(now, tenant.Location())
	if day.Before(today) {
		return false, ReasonPastDate, nil
	}
	if day.Equal(today) && start <= nowMinute {
		return false, ReasonPastSlot, nil
	}

	windows, err := s.availabilityRepo.GetForWeekday(ctx, tenant.ID, models.GoWeekday(day.Weekday()))
	if err != nil {
		return false, "", err
	}
	if len(windows) == 0 {
		return false, ReasonClosed, nil
	}

	fits := false
	for _, window := range windows {
		windowStart, err := window.StartMinute()
		if err != nil {
			return false, "", err
		}
		windowEnd, err := window.EndMinute()
		if err != nil {
			return false, "", err
		}
		if start < windowStart || start >= windowEnd {
			continue
		}
		if start+service.DurationMinutes > windowEnd {
			return false, ReasonTooLate, nil
		}
		fits = true
		break
	}
	if !fits {
		return false, ReasonOutsideHours, nil
	}

	active, err := s.appointmentRepo.ListActiveByDate(ctx, tenant.ID, day)
	if err != nil {
		return false, "", err
	}
	booked, err := overlapsActive(models.Interval{Start: start, End: start + service.DurationMinutes}, active)
	if err != nil {
		return false, "", err
	}
	if booked {
		return false, ReasonBooked, nil
	}
	return true, ReasonAvailable, nil
}

func (s *slotService) NextAvailableDate(ctx context.Context, tenant *models.Tenant, service *models.Service, from, now time.Time, daysAhead int) (*time.Time, error) {
	if daysAhead <= 0 {
		daysAhead = 30
	}
	start := dateOnly(from)
	if today, _ := localDay(now, tenant.Location()); start.Before(today) {
		start = today
	}

	for i := 0; i < daysAhead; i++ {
		day := start.AddDate(0, 0, i)
		slots, err := s.Generate(ctx, tenant, service, day, now)
		if err != nil {
			return nil, err
		}
		if len(slots) > 0 {
			return &day, nil
		}
	}
	return nil, nil
}
