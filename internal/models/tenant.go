package models

import (
	"time"

	"github.com/google/uuid"
)

type Tenant struct {
	ID                    uuid.UUID  `json:"id" db:"id"`
	Name                  string     `json:"name" db:"name"`
	Subdomain             string     `json:"subdomain" db:"subdomain"`
	Timezone              string     `json:"timezone" db:"timezone"`
	Plan                  string     `json:"plan" db:"plan"`
	PlanStart             time.Time  `json:"plan_start" db:"plan_start"`
	PlanEnd               *time.Time `json:"plan_end" db:"plan_end"`
	TrialEnd              *time.Time `json:"trial_end" db:"trial_end"`
	UsageCount            int        `json:"usage_count" db:"usage_count"`
	PeriodStart           time.Time  `json:"period_start" db:"period_start"`
	AcceptingAppointments bool       `json:"accepting_appointments" db:"accepting_appointments"`
	CreatedAt             time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at" db:"updated_at"`
}

// Location resolves the tenant's IANA time zone, falling back to UTC when the
// stored zone name is empty or unknown.
func (t *Tenant) Location() *time.Location {
	if t.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
