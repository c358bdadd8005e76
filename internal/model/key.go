package model

import (
	"fmt"
	"strings"
)

// Task keys are content-addressed, not database identities:
//
//	FILL-{sku}-{TIER}      order-driven fill work
//	CASE-{sku}-{TIER}      order-driven casing work
//	BACKFILL-FILL-{sku}    restock fill sweep
//	BACKFILL-CASE-{sku}    restock casing sweep
//	BLOCKED-FILL-{sku}     shortfall, one per SKU regardless of tier
//
// Identical (type, sku, tier) demand from different orders collapses into
// one key. SKU codes may themselves contain hyphens, so parsing anchors on
// the known prefixes and the trailing tier segment.

// KeyKind distinguishes the three key families.
type KeyKind int

const (
	KeyOrder KeyKind = iota
	KeyBackfill
	KeyBlocked
)

// ParsedKey is the normalized form of a task key. PriorityKnown is false
// when the trailing segment was not a recognized tier; Priority then holds
// the BACKFILL default.
type ParsedKey struct {
	Raw           string
	Kind          KeyKind
	Type          TaskType
	SKU           SKU
	Priority      Priority
	PriorityKnown bool
}

// TaskKey derives the content-addressed id for order-driven work.
func TaskKey(t TaskType, sku SKU, p Priority) string {
	return fmt.Sprintf("%s-%s-%s", t, sku, p)
}

// BackfillKey derives the id for restock work.
func BackfillKey(t TaskType, sku SKU) string {
	return fmt.Sprintf("BACKFILL-%s-%s", t, sku)
}

// BlockedFillKey derives the id for the per-SKU shortfall task.
func BlockedFillKey(sku SKU) string {
	return fmt.Sprintf("BLOCKED-FILL-%s", sku)
}

// ParseKey normalizes a persisted task key. It never fails outright:
// externally persisted keys may predate the current format, so unknown
// shapes degrade to an order-kind key with the BACKFILL default tier and
// the full remainder as the SKU.
func ParseKey(key string) ParsedKey {
	switch {
	case strings.HasPrefix(key, "BACKFILL-FILL-"):
		return ParsedKey{Raw: key, Kind: KeyBackfill, Type: TaskFill, SKU: SKU(strings.TrimPrefix(key, "BACKFILL-FILL-")), Priority: PriorityBackfill, PriorityKnown: true}
	case strings.HasPrefix(key, "BACKFILL-CASE-"):
		return ParsedKey{Raw: key, Kind: KeyBackfill, Type: TaskCase, SKU: SKU(strings.TrimPrefix(key, "BACKFILL-CASE-")), Priority: PriorityBackfill, PriorityKnown: true}
	case strings.HasPrefix(key, "BLOCKED-FILL-"):
		return ParsedKey{Raw: key, Kind: KeyBlocked, Type: TaskFill, SKU: SKU(strings.TrimPrefix(key, "BLOCKED-FILL-")), Priority: PriorityBackfill, PriorityKnown: true}
	case strings.HasPrefix(key, "FILL-"):
		return parseOrderKey(key, TaskFill, strings.TrimPrefix(key, "FILL-"))
	case strings.HasPrefix(key, "CASE-"):
		return parseOrderKey(key, TaskCase, strings.TrimPrefix(key, "CASE-"))
	default:
		return ParsedKey{Raw: key, Kind: KeyOrder, Type: TaskFill, SKU: SKU(key), Priority: PriorityBackfill}
	}
}

func parseOrderKey(raw string, t TaskType, rest string) ParsedKey {
	pk := ParsedKey{Raw: raw, Kind: KeyOrder, Type: t, SKU: SKU(rest), Priority: PriorityBackfill}
	idx := strings.LastIndex(rest, "-")
	if idx <= 0 {
		return pk
	}
	if p, ok := ParsePriority(rest[idx+1:]); ok {
		pk.SKU = SKU(rest[:idx])
		pk.Priority = p
		pk.PriorityKnown = true
	}
	return pk
}

// EquivalentCaseKey maps the key of a TO_CASE task state to the CASE-task
// id that represents the same work in a freshly generated queue. A legacy
// FILL-{sku}-{TIER} key sitting in TO_CASE and the CASE-{sku}-{TIER} key
// an advance would have written are the same logical task.
func EquivalentCaseKey(key string, stateSKU SKU) string {
	pk := ParseKey(key)
	sku := pk.SKU
	if sku == "" {
		sku = stateSKU
	}
	switch pk.Kind {
	case KeyBackfill:
		return BackfillKey(TaskCase, sku)
	default:
		if !pk.PriorityKnown && stateSKU != "" {
			sku = stateSKU
		}
		return TaskKey(TaskCase, sku, pk.Priority)
	}
}

// RenameOnAdvance returns the key a TO_FILL task carries after crossing
// into TO_CASE. Blocked tasks cannot be advanced.
func RenameOnAdvance(key string) (string, error) {
	switch {
	case strings.HasPrefix(key, "BACKFILL-FILL-"):
		return "BACKFILL-CASE-" + strings.TrimPrefix(key, "BACKFILL-FILL-"), nil
	case strings.HasPrefix(key, "BLOCKED-"):
		return "", fmt.Errorf("blocked task %s cannot be advanced", key)
	case strings.HasPrefix(key, "FILL-"):
		return "CASE-" + strings.TrimPrefix(key, "FILL-"), nil
	default:
		return key, nil
	}
}

// RenameOnRevert is the inverse of RenameOnAdvance. Keys already in fill
// form (legacy states) pass through unchanged.
func RenameOnRevert(key string) string {
	switch {
	case strings.HasPrefix(key, "BACKFILL-CASE-"):
		return "BACKFILL-FILL-" + strings.TrimPrefix(key, "BACKFILL-CASE-")
	case strings.HasPrefix(key, "CASE-"):
		return "FILL-" + strings.TrimPrefix(key, "CASE-")
	default:
		return key
	}
}
