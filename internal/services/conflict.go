package services

import (
	"bookslot/internal/models"
)

// overlapsActive is the interval-overlap test shared by slot generation and
// commit-time conflict checking: true when the candidate intersects any
// pending/confirmed appointment. O(n) over one tenant's daily bookings.
func overlapsActive(candidate models.Interval, appointments []*models.Appointment) (bool, error) {
	for _, appointment := range appointments {
		if !appointment.Active() {
			continue
		}
		interval, err := appointment.Interval()
		if err != nil {
			return false, err
		}
		if candidate.Overlaps(interval) {
			return true, nil
		}
	}
	return false, nil
}
