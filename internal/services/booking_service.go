package services

import (
	"context"
	"log"
	"time"

	"bookslot/internal/common"
	"bookslot/internal/locking"
	"bookslot/internal/models"
	"bookslot/internal/repositories"

	"github.com/google/uuid"
)

// BookingService is the write path of the booking ledger. The slot list a
// client saw is only a snapshot, so every check is re-run at commit time
// under the tenant's serialization lock.
type BookingService interface {
	Book(ctx context.Context, req *BookingRequest) (*models.Appointment, error)
	// WouldOverlap is the read-only conflict probe against the active set.
	WouldOverlap(ctx context.Context, tenantID uuid.UUID, date time.Time, candidate models.Interval) (bool, error)
	// SetStatus transitions an appointment (cancel/confirm/complete/no-show)
	// without re-running quota or conflict checks. Leaving the active set
	// frees the slot for future bookings.
	SetStatus(ctx context.Context, tenantID, appointmentID uuid.UUID, status string) error
	ListByDate(ctx context.Context, tenantID uuid.UUID, date time.Time) ([]*models.Appointment, error)
}

type BookingRequest struct {
	TenantID    uuid.UUID
	ServiceID   uuid.UUID
	Date        time.Time
	StartTime   string
	ClientName  string
	ClientPhone string
	ClientEmail string
	Now         time.Time
}

type bookingService struct {
	tenantRepo      repositories.TenantRepository
	serviceRepo     repositories.ServiceRepository
	appointmentRepo repositories.AppointmentRepository
	slotSvc         SlotService
	quotaSvc        QuotaService
	lifecycleSvc    LifecycleService
	tenantLock      *locking.TenantLock
}

func NewBookingService(
	tenantRepo repositories.TenantRepository,
	serviceRepo repositories.ServiceRepository,
	appointmentRepo repositories.AppointmentRepository,
	slotSvc SlotService,
	quotaSvc QuotaService,
	lifecycleSvc LifecycleService,
	tenantLock *locking.TenantLock,
) BookingService {
	return &bookingService{
		tenantRepo:      tenantRepo,
		serviceRepo:     serviceRepo,
		appointmentRepo: appointmentRepo,
		slotSvc:         slotSvc,
		quotaSvc:        quotaSvc,
		lifecycleSvc:    lifecycleSvc,
		tenantLock:      tenantLock,
	}
}

func (s *bookingService) Book(ctx context.Context, req *BookingRequest) (*models.Appointment, error) {
	const op = "booking.commit"

	if err := common.ValidateRequiredString(req.ClientName, "client_name"); err != nil {
		return nil, common.Invalid(op, "%s", err.Error())
	}
	if err := common.ValidateRequiredString(req.ClientPhone, "client_phone"); err != nil {
		return nil, common.Invalid(op, "%s", err.Error())
	}
	if _, err := models.MinuteOfDay(req.StartTime); err != nil {
		return nil, common.Invalid(op, "start_time must be HH:MM")
	}
	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}

	tenant, err := s.tenantRepo.GetByID(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}
	service, err := s.serviceRepo.GetByID(ctx, tenant.ID, req.ServiceID)
	if err != nil {
		return nil, err
	}
	if !service.Active {
		return nil, common.Invalid(op, "service is not offered")
	}

	// A pro tenant whose period lapsed mid-session is downgraded lazily,
	// then re-checked as a free tenant; the sweep would have made the same
	// transition.
	if err := s.lifecycleSvc.Permits(tenant, CapabilityBook, now); err != nil {
		if common.ErrorCode(err) != common.CodePlanExpired {
			return nil, err
		}
		log.Printf("Tenant %s pro period lapsed, applying lazy downgrade", tenant.ID)
		if _, _, evalErr := s.lifecycleSvc.EvaluateTenant(ctx, tenant, now); evalErr != nil {
			return nil, evalErr
		}
		if tenant, err = s.tenantRepo.GetByID(ctx, req.TenantID); err != nil {
			return nil, err
		}
		if err := s.lifecycleSvc.Permits(tenant, CapabilityBook, now); err != nil {
			return nil, err
		}
	}

	// Serialization point: conflict re-check, quota increment and ledger
	// insert happen as one unit per tenant. A caller whose context expires
	// while queued gets the context error and has changed nothing.
	release, err := s.tenantLock.Acquire(ctx, tenant.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	available, reason, err := s.slotSvc.CheckSlot(ctx, tenant, service, req.Date, req.StartTime, now)
	if err != nil {
		return nil, err
	}
	if !available {
		if reason == ReasonBooked {
			return nil, common.Conflict(op, "time slot was taken, please pick another")
		}
		return nil, common.Invalid(op, "%s", reason)
	}

	if _, err := s.quotaSvc.CheckAndIncrement(ctx, tenant); err != nil {
		return nil, err
	}

	appointment := &models.Appointment{
		ID:              uuid.New(),
		TenantID:        tenant.ID,
		ServiceID:       service.ID,
		Date:            dateOnly(req.Date),
		StartTime:       req.StartTime,
		DurationMinutes: service.DurationMinutes,
		Status:          models.StatusPending,
		ClientName:      req.ClientName,
		ClientPhone:     req.ClientPhone,
		ClientEmail:     req.ClientEmail,
	}
	if err := s.appointmentRepo.Create(ctx, appointment); err != nil {
		// Undo the increment under the same lock so the failed commit has
		// no observable effect.
		if relErr := s.quotaSvc.Release(ctx, tenant.ID); relErr != nil {
			log.Printf("ERROR: tenant %s usage compensation failed after insert error: %v", tenant.ID, relErr)
		}
		return nil, common.Internal(err, op, "failed to create appointment")
	}
	return appointment, nil
}

func (s *bookingService) WouldOverlap(ctx context.Context, tenantID uuid.UUID, date time.Time, candidate models.Interval) (bool, error) {
	active, err := s.appointmentRepo.ListActiveByDate(ctx, tenantID, dateOnly(date))
	if err != nil {
		return false, err
	}
	return overlapsActive(candidate, active)
}

func (s *bookingService) SetStatus(ctx context.Context, tenantID, appointmentID uuid.UUID, status string) error {
	const op = "booking.set_status"

	if !models.ValidStatus(status) {
		return common.Invalid(op, "unknown status %q", status)
	}

	// Ledger writes are serialized per tenant, same as the commit path, so
	// a transition cannot interleave with a booking's conflict re-check.
	release, err := s.tenantLock.Acquire(ctx, tenantID)
	if err != nil {
		return err
	}
	defer release()

	appointment, err := s.appointmentRepo.GetByID(ctx, tenantID, appointmentID)
	if err != nil {
		return err
	}
	if !allowedTransition(appointment.Status, status) {
		return common.Invalid(op, "cannot move appointment from %s to %s", appointment.Status, status)
	}
	return s.appointmentRepo.SetStatus(ctx, tenantID, appointmentID, status)
}

func (s *bookingService) ListByDate(ctx context.Context, tenantID uuid.UUID, date time.Time) ([]*models.Appointment, error) {
	return s.appointmentRepo.ListByDate(ctx, tenantID, dateOnly(date))
}

// allowedTransition keeps the ledger append-only in spirit: historical
// statuses never return to the active set.
func allowedTransition(from, to string) bool {
	if from == to {
		return false
	}
	switch from {
	case models.StatusPending:
		return true
	case models.StatusConfirmed:
		return to == models.StatusCompleted || to == models.StatusCancelled || to == models.StatusNoShow
	}
	return false
}
