package models

import "time"

// Plan identifiers. Tenants cycle between these indefinitely; there is no
// terminal state.
const (
	PlanTrial = "trial"
	PlanFree  = "free"
	PlanPro   = "pro"
)

const (
	// FreePlanAppointmentLimit is the free plan's monthly booking cap.
	FreePlanAppointmentLimit = 5

	// FreePlanServiceLimit caps the number of active services on the free plan.
	FreePlanServiceLimit = 3

	// TrialDuration is how long a newly registered tenant keeps trial access.
	TrialDuration = 14 * 24 * time.Hour
)

// ValidPlan reports whether s is a known plan identifier.
func ValidPlan(s string) bool {
	return s == PlanTrial || s == PlanFree || s == PlanPro
}

// PlanLimit returns the monthly appointment limit for a plan, or -1 when the
// plan is uncapped. Trial and pro bookings are still counted for reset
// bookkeeping, they just never hit a ceiling.
func PlanLimit(plan string) int {
	if plan == PlanFree {
		return FreePlanAppointmentLimit
	}
	return -1
}

// PlanState is the quota/plan view exposed to provider dashboards.
type PlanState struct {
	Plan      string     `json:"plan"`
	Limit     int        `json:"limit"`
	Used      int        `json:"used"`
	Remaining int        `json:"remaining"`
	PeriodEnd *time.Time `json:"period_end,omitempty"`
}
