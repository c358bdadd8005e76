// Package queue recomputes the production task queue from an inventory
// snapshot and the open orders. Everything here is pure: no I/O, no clock
// beyond the caller-supplied "today", and the caller's snapshot is never
// mutated.
package queue

import (
	"math"
	"time"

	"github.com/packhouse/packline/internal/model"
)

// NoDateScore sorts orders without a delivery date behind every dated
// order inside the UPCOMING tier.
const NoDateScore = 999

// Classify scores an order by delivery urgency. The score orders tasks
// within a tier: overdue orders sort by how overdue they are (more
// negative first), future orders by days out.
func Classify(o model.Order, today time.Time) (model.Priority, int) {
	if o.DeliveryDate == "" {
		return model.PriorityUpcoming, NoDateScore
	}
	due, err := time.ParseInLocation(model.DateLayout, o.DeliveryDate, today.Location())
	if err != nil {
		// Persisted dates may predate the current format; degrade, not fail.
		return model.PriorityUpcoming, NoDateScore
	}

	d := daysUntil(due, today)
	switch {
	case d <= 0:
		return model.PriorityUrgent, d
	case d == 1:
		return model.PriorityTomorrow, 1
	default:
		return model.PriorityUpcoming, d
	}
}

// daysUntil is the signed whole-day distance from today to due, both
// truncated to date-only. Rounding absorbs DST-shortened days.
func daysUntil(due, today time.Time) int {
	a := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	b := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, due.Location())
	return int(math.Round(b.Sub(a).Hours() / 24))
}
