package model

import "testing"

func TestTaskKeyDerivation(t *testing.T) {
	if got := TaskKey(TaskFill, "BB", PriorityUrgent); got != "FILL-BB-URGENT" {
		t.Errorf("TaskKey: got %q", got)
	}
	if got := BackfillKey(TaskCase, "BB"); got != "BACKFILL-CASE-BB" {
		t.Errorf("BackfillKey: got %q", got)
	}
	if got := BlockedFillKey("BB"); got != "BLOCKED-FILL-BB" {
		t.Errorf("BlockedFillKey: got %q", got)
	}
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		key           string
		kind          KeyKind
		taskType      TaskType
		sku           SKU
		priority      Priority
		priorityKnown bool
	}{
		{"FILL-BB-URGENT", KeyOrder, TaskFill, "BB", PriorityUrgent, true},
		{"CASE-BB-TOMORROW", KeyOrder, TaskCase, "BB", PriorityTomorrow, true},
		// Hyphenated SKU codes: tier is the trailing segment.
		{"FILL-CHOC-CHIP-UPCOMING", KeyOrder, TaskFill, "CHOC-CHIP", PriorityUpcoming, true},
		{"BACKFILL-FILL-BB", KeyBackfill, TaskFill, "BB", PriorityBackfill, true},
		{"BACKFILL-CASE-CHOC-CHIP", KeyBackfill, TaskCase, "CHOC-CHIP", PriorityBackfill, true},
		{"BLOCKED-FILL-BB", KeyBlocked, TaskFill, "BB", PriorityBackfill, true},
		// Pre-schema key with no recognizable tier degrades, not fails.
		{"FILL-BB-RUSH", KeyOrder, TaskFill, "BB-RUSH", PriorityBackfill, false},
	}

	for _, tt := range tests {
		pk := ParseKey(tt.key)
		if pk.Kind != tt.kind {
			t.Errorf("%s: kind got %v, want %v", tt.key, pk.Kind, tt.kind)
		}
		if pk.Type != tt.taskType {
			t.Errorf("%s: type got %s, want %s", tt.key, pk.Type, tt.taskType)
		}
		if pk.SKU != tt.sku {
			t.Errorf("%s: sku got %s, want %s", tt.key, pk.SKU, tt.sku)
		}
		if pk.Priority != tt.priority {
			t.Errorf("%s: priority got %s, want %s", tt.key, pk.Priority, tt.priority)
		}
		if pk.PriorityKnown != tt.priorityKnown {
			t.Errorf("%s: priorityKnown got %v, want %v", tt.key, pk.PriorityKnown, tt.priorityKnown)
		}
	}
}

func TestEquivalentCaseKey(t *testing.T) {
	tests := []struct {
		key  string
		sku  SKU
		want string
	}{
		{"CASE-BB-URGENT", "BB", "CASE-BB-URGENT"},
		// Legacy: a FILL key advanced in place maps to the CASE key.
		{"FILL-BB-URGENT", "BB", "CASE-BB-URGENT"},
		{"BACKFILL-FILL-BB", "BB", "BACKFILL-CASE-BB"},
		{"BACKFILL-CASE-BB", "BB", "BACKFILL-CASE-BB"},
	}
	for _, tt := range tests {
		if got := EquivalentCaseKey(tt.key, tt.sku); got != tt.want {
			t.Errorf("EquivalentCaseKey(%s): got %s, want %s", tt.key, got, tt.want)
		}
	}
}

func TestRenameOnAdvance(t *testing.T) {
	got, err := RenameOnAdvance("FILL-BB-URGENT")
	if err != nil || got != "CASE-BB-URGENT" {
		t.Errorf("rename fill: got %q, %v", got, err)
	}
	got, err = RenameOnAdvance("BACKFILL-FILL-BB")
	if err != nil || got != "BACKFILL-CASE-BB" {
		t.Errorf("rename backfill: got %q, %v", got, err)
	}
	if _, err := RenameOnAdvance("BLOCKED-FILL-BB"); err == nil {
		t.Error("expected error advancing blocked key")
	}
	// Already in case form: advancing TO_CASE -> DONE keeps the key.
	got, err = RenameOnAdvance("CASE-BB-URGENT")
	if err != nil || got != "CASE-BB-URGENT" {
		t.Errorf("rename case: got %q, %v", got, err)
	}
}

func TestRenameOnRevert(t *testing.T) {
	if got := RenameOnRevert("CASE-BB-URGENT"); got != "FILL-BB-URGENT" {
		t.Errorf("revert case: got %q", got)
	}
	if got := RenameOnRevert("BACKFILL-CASE-BB"); got != "BACKFILL-FILL-BB" {
		t.Errorf("revert backfill: got %q", got)
	}
	if got := RenameOnRevert("FILL-BB-URGENT"); got != "FILL-BB-URGENT" {
		t.Errorf("revert legacy fill: got %q", got)
	}
}
