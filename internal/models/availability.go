package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Weekday numbering follows the booking calendar convention: 0=Monday through
// 6=Sunday. GoWeekday converts from time.Weekday (0=Sunday).
func GoWeekday(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// WeekdayName returns the display name for a calendar weekday index.
func WeekdayName(weekday int) string {
	names := [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	if weekday < 0 || weekday > 6 {
		return "Unknown"
	}
	return names[weekday]
}

// AvailabilityWindow is a tenant's open/close window for one weekday. One row
// per weekday per tenant; a disabled window means closed that day.
type AvailabilityWindow struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TenantID  uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Weekday   int       `json:"weekday" db:"weekday"`
	StartTime string    `json:"start_time" db:"start_time"`
	EndTime   string    `json:"end_time" db:"end_time"`
	Enabled   bool      `json:"enabled" db:"enabled"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// StartMinute returns the opening time as minutes from midnight.
func (w *AvailabilityWindow) StartMinute() (int, error) {
	return MinuteOfDay(w.StartTime)
}

// EndMinute returns the closing time as minutes from midnight.
func (w *AvailabilityWindow) EndMinute() (int, error) {
	return MinuteOfDay(w.EndTime)
}

// MinuteOfDay parses an HH:MM clock string into minutes from midnight.
func MinuteOfDay(clock string) (int, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: must be HH:MM", clock)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ClockFromMinute formats minutes from midnight as an HH:MM clock string.
func ClockFromMinute(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}
