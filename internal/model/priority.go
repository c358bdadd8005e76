package model

// Priority is the urgency tier of a production task. It is derived from
// delivery dates for order-driven tasks and assigned directly for restock
// work; it is never stored on its own.
type Priority string

const (
	PriorityUrgent   Priority = "URGENT"
	PriorityTomorrow Priority = "TOMORROW"
	PriorityUpcoming Priority = "UPCOMING"
	PriorityBackfill Priority = "BACKFILL"
)

var priorityRanks = map[Priority]int{
	PriorityUrgent:   0,
	PriorityTomorrow: 1,
	PriorityUpcoming: 2,
	PriorityBackfill: 3,
}

// Rank returns the sort rank of the tier; lower is more urgent. Unknown
// tiers rank with BACKFILL.
func (p Priority) Rank() int {
	if r, ok := priorityRanks[p]; ok {
		return r
	}
	return priorityRanks[PriorityBackfill]
}

// Outranks reports whether p is strictly more urgent than other.
func (p Priority) Outranks(other Priority) bool {
	return p.Rank() < other.Rank()
}

// ParsePriority maps a tier name to a Priority. Unrecognized names come
// back as BACKFILL with ok=false; persisted keys may predate the current
// tier set and must degrade rather than fail.
func ParsePriority(s string) (Priority, bool) {
	p := Priority(s)
	if _, ok := priorityRanks[p]; ok {
		return p, true
	}
	return PriorityBackfill, false
}
