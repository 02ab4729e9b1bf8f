package models

import (
	"time"

	"github.com/google/uuid"
)

// Appointment statuses. Only pending and confirmed appointments occupy time on
// the calendar; the rest are historical and excluded from conflict detection.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no_show"
)

// ValidStatus reports whether s is a known appointment status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Appointment is one row of the booking ledger. Rows are never deleted, only
// status-transitioned, so the ledger stays usable as an audit trail.
type Appointment struct {
	ID              uuid.UUID `json:"id" db:"id"`
	TenantID        uuid.UUID `json:"tenant_id" db:"tenant_id"`
	ServiceID       uuid.UUID `json:"service_id" db:"service_id"`
	Date            time.Time `json:"date" db:"date"`
	StartTime       string    `json:"start_time" db:"start_time"`
	DurationMinutes int       `json:"duration_minutes" db:"duration_minutes"`
	Status          string    `json:"status" db:"status"`
	ClientName      string    `json:"client_name" db:"client_name"`
	ClientPhone     string    `json:"client_phone" db:"client_phone"`
	ClientEmail     string    `json:"client_email" db:"client_email"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// Active reports whether the appointment participates in conflict detection.
func (a *Appointment) Active() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// Interval returns the appointment's occupied time range.
func (a *Appointment) Interval() (Interval, error) {
	start, err := MinuteOfDay(a.StartTime)
	if err != nil {
		return Interval{}, err
	}
	return Interval{Start: start, End: start + a.DurationMinutes}, nil
}

// Interval is a half-open [Start, End) range in minutes from midnight.
type Interval struct {
	Start int
	End   int
}

// Overlaps reports whether two half-open intervals intersect.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && other.Start < i.End
}
