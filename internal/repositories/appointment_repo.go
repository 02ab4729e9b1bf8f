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

// AppointmentRepository is the persistence side of the booking ledger.
// Appointments are never deleted; cancellation and completion are status
// transitions so the ledger keeps its audit trail.
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *models.Appointment) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Appointment, error)
	// ListActiveByDate returns the pending/confirmed appointments occupying
	// calendar time on the given date.
	ListActiveByDate(ctx context.Context, tenantID uuid.UUID, date time.Time) ([]*models.Appointment, error)
	ListByDate(ctx context.Context, tenantID uuid.UUID, date time.Time) ([]*models.Appointment, error)
	SetStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error
}

type appointmentRepo struct {
	db DB
}

func NewAppointmentRepo(db DB) AppointmentRepository {
	return &appointmentRepo{db: db}
}

const appointmentColumns = `id, tenant_id, service_id, date, start_time, duration_minutes, status, client_name, client_phone, client_email, created_at, updated_at`

func (r *appointmentRepo) Create(ctx context.Context, appointment *models.Appointment) error {
	query := `
		INSERT INTO appointments (id, tenant_id, service_id, date, start_time, duration_minutes, status, client_name, client_phone, client_email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, appointment.ID, appointment.TenantID, appointment.ServiceID,
		appointment.Date, appointment.StartTime, appointment.DurationMinutes, appointment.Status,
		appointment.ClientName, appointment.ClientPhone, appointment.ClientEmail)
	return err
}

func (r *appointmentRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Appointment, error) {
	appointment := &models.Appointment{}
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE tenant_id = $1 AND id = $2`
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&appointment.ID, &appointment.TenantID,
		&appointment.ServiceID, &appointment.Date, &appointment.StartTime, &appointment.DurationMinutes,
		&appointment.Status, &appointment.ClientName, &appointment.ClientPhone, &appointment.ClientEmail,
		&appointment.CreatedAt, &appointment.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NotFound("appointment.get", "appointment")
		}
		return nil, err
	}
	return appointment, nil
}

func (r *appointmentRepo) ListActiveByDate(ctx context.Context, tenantID uuid.UUID, date time.Time) ([]*models.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE tenant_id = $1 AND date = $2 AND status IN ('pending', 'confirmed')
		ORDER BY start_time
	`
	return r.queryAppointments(ctx, query, tenantID, date)
}

func (r *appointmentRepo) ListByDate(ctx context.Context, tenantID uuid.UUID, date time.Time) ([]*models.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE tenant_id = $1 AND date = $2
		ORDER BY start_time
	`
	return r.queryAppointments(ctx, query, tenantID, date)
}

func (r *appointmentRepo) SetStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error {
	query := `
		UPDATE appointments
		SET status = $1, updated_at = NOW()
		WHERE tenant_id = $2 AND id = $3
	`
	tag, err := r.db.Exec(ctx, query, status, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("appointment.set_status", "appointment")
	}
	return nil
}

func (r *appointmentRepo) queryAppointments(ctx context.Context, query string, args ...any) ([]*models.Appointment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appointments []*models.Appointment
	for rows.Next() {
		appointment := &models.Appointment{}
		if err := rows.Scan(&appointment.ID, &appointment.TenantID, &appointment.ServiceID,
			&appointment.Date, &appointment.StartTime, &appointment.DurationMinutes, &appointment.Status,
			&appointment.ClientName, &appointment.ClientPhone, &appointment.ClientEmail,
			&appointment.CreatedAt, &appointment.UpdatedAt); err != nil {
			return nil, err
		}
		appointments = append(appointments, appointment)
	}
	return appointments, rows.Err()
}
