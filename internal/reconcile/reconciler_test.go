package reconcile

import (
	"testing"

	"github.com/packhouse/packline/internal/model"
)

func strptr(s string) *string { return &s }

func genCase(sku model.SKU, p model.Priority, qty int) *model.Task {
	return &model.Task{
		ID:       model.TaskKey(model.TaskCase, sku, p),
		SKU:      sku,
		Type:     model.TaskCase,
		Column:   model.ColumnToCase,
		Quantity: qty,
		Priority: p,
		Status:   model.TaskReady,
	}
}

func genFill(sku model.SKU, p model.Priority, qty int) *model.Task {
	return &model.Task{
		ID:       model.TaskKey(model.TaskFill, sku, p),
		SKU:      sku,
		Type:     model.TaskFill,
		Column:   model.ColumnToFill,
		Quantity: qty,
		Priority: p,
		Status:   model.TaskReady,
	}
}

func findTask(tasks []*model.Task, id string) *model.Task {
	for _, t := range tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func TestMerge_DoneStateMovesToCompleted(t *testing.T) {
	g := genCase("BB", model.PriorityUrgent, 5)
	res := Merge(Input{
		Generated: []*model.Task{g},
		States: map[string]model.TaskState{
			g.ID: {
				TaskKey: g.ID, SKU: "BB", TaskType: model.TaskCase,
				CurrentColumn: model.ColumnDone, Quantity: 4,
				CompletedAt: strptr("2026-03-10T09:30:00Z"),
			},
		},
		Inventory: map[model.SKU]model.InventoryLevels{"BB": {Filled: 10}},
	})

	if len(res.Tasks) != 0 {
		t.Errorf("active tasks: got %+v", res.Tasks)
	}
	if len(res.Completed) != 1 {
		t.Fatalf("completed: got %d entries", len(res.Completed))
	}
	done := res.Completed[0]
	if done.Quantity != 4 {
		t.Errorf("completed quantity must come from persisted state: got %d", done.Quantity)
	}
	if done.CompletedAt != "2026-03-10T09:30:00Z" {
		t.Errorf("completed_at: got %q", done.CompletedAt)
	}
}

func TestMerge_AdvancedStatePromotesColumn(t *testing.T) {
	// Legacy format: the FILL key itself was advanced to TO_CASE.
	g := genFill("BB", model.PriorityUrgent, 6)
	res := Merge(Input{
		Generated: []*model.Task{g},
		States: map[string]model.TaskState{
			g.ID: {
				TaskKey: g.ID, SKU: "BB", TaskType: model.TaskFill,
				CurrentColumn: model.ColumnToCase, Quantity: 4,
			},
		},
		Inventory: map[model.SKU]model.InventoryLevels{"BB": {Filled: 6}},
	})

	merged := findTask(res.Tasks, g.ID)
	if merged == nil {
		t.Fatal("task missing from merged list")
	}
	if merged.Column != model.ColumnToCase {
		t.Errorf("column: got %s, want TO_CASE", merged.Column)
	}
	if merged.Quantity != 6 {
		t.Errorf("quantity must stay generated: got %d", merged.Quantity)
	}
}

func TestMerge_ClaimedFilledSubtractedFromNewCaseTasks(t *testing.T) {
	// A human advanced fill work into a persisted CASE task (3 cases).
	// The builder, seeing filled inventory, generated a CASE task under a
	// different key for 5 cases; 3 of those are already spoken for.
	res := Merge(Input{
		Generated: []*model.Task{genCase("BB", model.PriorityTomorrow, 5)},
		States: map[string]model.TaskState{
			"CASE-BB-URGENT": {
				TaskKey: "CASE-BB-URGENT", SKU: "BB", TaskType: model.TaskCase,
				CurrentColumn: model.ColumnToCase, Quantity: 3,
			},
		},
		Inventory: map[model.SKU]model.InventoryLevels{"BB": {Filled: 5}},
	})

	reduced := findTask(res.Tasks, "CASE-BB-TOMORROW")
	if reduced == nil {
		t.Fatal("reduced CASE task missing")
	}
	if reduced.Quantity != 2 {
		t.Errorf("quantity: got %d, want 2 after subtracting the claim", reduced.Quantity)
	}

	// The persisted task itself stays visible (unmatched TO_CASE state).
	advanced := findTask(res.Tasks, "CASE-BB-URGENT")
	if advanced == nil {
		t.Fatal("advanced CASE task missing")
	}
	if advanced.Quantity != 3 {
		t.Errorf("advanced quantity: got %d", advanced.Quantity)
	}

	// No double-counting: total CASE quantity never exceeds filled stock.
	total := 0
	for _, task := range res.Tasks {
		if task.Type == model.TaskCase {
			total += task.Quantity
		}
	}
	if total > 5 {
		t.Errorf("CASE quantity %d exceeds filled inventory 5", total)
	}
}

func TestMerge_FullyClaimedCaseTaskDropped(t *testing.T) {
	res := Merge(Input{
		Generated: []*model.Task{genCase("BB", model.PriorityTomorrow, 3)},
		States: map[string]model.TaskState{
			"CASE-BB-URGENT": {
				TaskKey: "CASE-BB-URGENT", SKU: "BB", TaskType: model.TaskCase,
				CurrentColumn: model.ColumnToCase, Quantity: 4,
			},
		},
		Inventory: map[model.SKU]model.InventoryLevels{"BB": {Filled: 4}},
	})

	if findTask(res.Tasks, "CASE-BB-TOMORROW") != nil {
		t.Error("fully claimed task should be dropped")
	}
	if findTask(res.Tasks, "CASE-BB-URGENT") == nil {
		t.Error("persisted advanced task should be synthesized")
	}
}

func TestMerge_ClaimsConsumedInPriorityOrder(t *testing.T) {
	// Two generated CASE tasks compete for one 4-case claim. Generated
	// order is priority order, so the urgent task absorbs the claim first.
	res := Merge(Input{
		Generated: []*model.Task{
			genCase("BB", model.PriorityUrgent, 4),
			genCase("BB", model.PriorityTomorrow, 2),
		},
		States: map[string]model.TaskState{
			"CASE-BB-UPCOMING": {
				TaskKey: "CASE-BB-UPCOMING", SKU: "BB", TaskType: model.TaskCase,
				CurrentColumn: model.ColumnToCase, Quantity: 4,
			},
		},
		Inventory: map[model.SKU]model.InventoryLevels{"BB": {Filled: 6}},
	})

	if findTask(res.Tasks, "CASE-BB-URGENT") != nil {
		t.Error("urgent task should be fully absorbed by the claim")
	}
	// The claim was reduced by the urgent task's original quantity (4),
	// leaving nothing to subtract from the tomorrow task.
	tomorrow := findTask(res.Tasks, "CASE-BB-TOMORROW")
	if tomorrow == nil || tomorrow.Quantity != 2 {
		t.Errorf("tomorrow task: got %+v", tomorrow)
	}
}

func TestMerge_OrphanDoneSweep(t *testing.T) {
	res := Merge(Input{
		States: map[string]model.TaskState{
			"CASE-BB-URGENT": {
				TaskKey: "CASE-BB-URGENT", SKU: "BB", TaskType: model.TaskCase,
				CurrentColumn: model.ColumnDone, Quantity: 2,
				CompletedAt: strptr("2026-03-10T08:00:00Z"),
			},
			"FILL-CC-MYSTERY": {
				TaskKey: "FILL-CC-MYSTERY", SKU: "CC", TaskType: model.TaskFill,
				CurrentColumn: model.ColumnDone, Quantity: 1,
				CompletedAt: strptr("2026-03-10T07:00:00Z"),
			},
		},
		Inventory: map[model.SKU]model.InventoryLevels{},
	})

	if len(res.Completed) != 2 {
		t.Fatalf("completed: got %d entries", len(res.Completed))
	}
	byID := map[string]model.CompletedTask{}
	for _, c := range res.Completed {
		byID[c.ID] = c
	}
	if byID["CASE-BB-URGENT"].Priority != model.PriorityUrgent {
		t.Errorf("priority recovered from key: got %s", byID["CASE-BB-URGENT"].Priority)
	}
	if byID["FILL-CC-MYSTERY"].Priority != model.PriorityBackfill {
		t.Errorf("unrecognized tier must default to BACKFILL: got %s", byID["FILL-CC-MYSTERY"].Priority)
	}
}

func TestMerge_GhostFlaggedAndExcluded(t *testing.T) {
	res := Merge(Input{
		States: map[string]model.TaskState{
			"CASE-BB-URGENT": {
				TaskKey: "CASE-BB-URGENT", SKU: "BB", TaskType: model.TaskCase,
				CurrentColumn: model.ColumnToCase, Quantity: 5,
			},
		},
		// Backing inventory consumed elsewhere: only 2 filled remain.
		Inventory: map[model.SKU]model.InventoryLevels{"BB": {Filled: 2}},
	})

	if len(res.DeleteKeys) != 1 || res.DeleteKeys[0] != "CASE-BB-URGENT" {
		t.Errorf("delete intents: got %v", res.DeleteKeys)
	}
	if len(res.Tasks) != 0 {
		t.Errorf("ghost must not appear on the board: %+v", res.Tasks)
	}
}

func TestMerge_GhostClaimDoesNotShrinkLiveTasks(t *testing.T) {
	res := Merge(Input{
		Generated: []*model.Task{genCase("BB", model.PriorityUrgent, 2)},
		States: map[string]model.TaskState{
			"CASE-BB-UPCOMING": {
				TaskKey: "CASE-BB-UPCOMING", SKU: "BB", TaskType: model.TaskCase,
				CurrentColumn: model.ColumnToCase, Quantity: 9,
			},
		},
		Inventory: map[model.SKU]model.InventoryLevels{"BB": {Filled: 2}},
	})

	if len(res.DeleteKeys) != 1 {
		t.Fatalf("delete intents: got %v", res.DeleteKeys)
	}
	live := findTask(res.Tasks, "CASE-BB-URGENT")
	if live == nil || live.Quantity != 2 {
		t.Errorf("stale claim shrank a live task: got %+v", live)
	}
}

func TestMerge_SynthesizedAdvancedTask(t *testing.T) {
	res := Merge(Input{
		States: map[string]model.TaskState{
			"BACKFILL-CASE-BB": {
				TaskKey: "BACKFILL-CASE-BB", SKU: "BB", TaskType: model.TaskCase,
				CurrentColumn: model.ColumnToCase, Quantity: 3,
			},
		},
		Inventory: map[model.SKU]model.InventoryLevels{"BB": {Filled: 3}},
	})

	task := findTask(res.Tasks, "BACKFILL-CASE-BB")
	if task == nil {
		t.Fatal("synthesized task missing")
	}
	if task.Column != model.ColumnToCase || task.Type != model.TaskCase {
		t.Errorf("shape: got %+v", task)
	}
	if len(task.Sources) != 1 {
		t.Fatalf("sources: got %d", len(task.Sources))
	}
	src := task.Sources[0]
	if src.OrderID != "advanced" || src.CustomerName != "Advanced from Fill" {
		t.Errorf("source attribution: got %+v", src)
	}
}

func TestMerge_LegacyFillKeySynthesizesCaseKey(t *testing.T) {
	res := Merge(Input{
		States: map[string]model.TaskState{
			"FILL-BB-URGENT": {
				TaskKey: "FILL-BB-URGENT", SKU: "BB", TaskType: model.TaskFill,
				CurrentColumn: model.ColumnToCase, Quantity: 3,
			},
		},
		Inventory: map[model.SKU]model.InventoryLevels{"BB": {Filled: 3}},
	})

	if findTask(res.Tasks, "CASE-BB-URGENT") == nil {
		t.Error("legacy FILL-at-TO_CASE state should surface under the CASE key")
	}
}

func TestMerge_EmptyInputs(t *testing.T) {
	res := Merge(Input{})
	if len(res.Tasks) != 0 || len(res.Completed) != 0 || len(res.DeleteKeys) != 0 {
		t.Errorf("empty merge produced output: %+v", res)
	}
}
