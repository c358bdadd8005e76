// Package reconcile merges the recomputed task queue with durably
// persisted, human-advanced task state. It is pure: storage effects it
// wants (ghost deletions) come back as intents for the caller to apply,
// so a correct result never depends on cleanup succeeding.
package reconcile

import (
	"sort"

	"github.com/packhouse/packline/internal/model"
	"github.com/packhouse/packline/internal/queue"
)

// Input is a consistent snapshot: the freshly generated queue (already in
// board order), the persisted task states keyed by task key, and the
// current inventory used to validate TO_CASE states.
type Input struct {
	Generated []*model.Task
	States    map[string]model.TaskState
	Inventory map[model.SKU]model.InventoryLevels
}

// Result is what the board renders plus the cleanup the caller should run.
type Result struct {
	Tasks      []*model.Task
	Completed  []model.CompletedTask
	DeleteKeys []string
}

// Merge reconciles generated tasks against persisted state.
//
// A persisted TO_CASE state whose SKU no longer has enough FILLED
// inventory to back it is a ghost: its units were consumed or adjusted
// elsewhere. Ghosts are flagged for deletion and excluded before the
// claimed-inventory accounting, so stale claims cannot shrink live tasks.
func Merge(in Input) Result {
	var res Result

	live := make(map[string]model.TaskState, len(in.States))
	claimedFilled := make(map[model.SKU]int)
	for _, key := range sortedKeys(in.States) {
		st := in.States[key]
		if st.CurrentColumn == model.ColumnToCase {
			if in.Inventory[st.SKU].Filled < st.Quantity {
				res.DeleteKeys = append(res.DeleteKeys, key)
				continue
			}
			// FILLED cases already spoken for by an advanced task: both
			// current CASE-*/BACKFILL-CASE-* keys and the legacy FILL-*
			// key format sitting in TO_CASE.
			claimedFilled[st.SKU] += st.Quantity
		}
		live[key] = st
	}

	matched := make(map[string]bool)

	// Generated tasks arrive priority-sorted, so claims are consumed in
	// urgency order and the outcome does not depend on map iteration.
	for _, g := range in.Generated {
		st, ok := live[g.ID]
		if !ok {
			if g.Type == model.TaskCase && g.Column == model.ColumnToCase && claimedFilled[g.SKU] > 0 {
				orig := g.Quantity
				g.Quantity -= claimedFilled[g.SKU]
				claimedFilled[g.SKU] -= orig
				if claimedFilled[g.SKU] < 0 {
					claimedFilled[g.SKU] = 0
				}
				if g.Quantity <= 0 {
					// Fully covered by work a human already pulled into a
					// persisted CASE task; offering it again would
					// double-count the same FILLED units.
					continue
				}
			}
			res.Tasks = append(res.Tasks, g)
			continue
		}

		matched[g.ID] = true
		switch {
		case st.CurrentColumn == model.ColumnDone:
			res.Completed = append(res.Completed, completedFromState(g, st))
		case st.CurrentColumn == model.ColumnToCase && g.Column == model.ColumnToFill:
			// The human already advanced it; show the generated quantity
			// in the column the human put it in.
			g.Column = model.ColumnToCase
			res.Tasks = append(res.Tasks, g)
		default:
			res.Tasks = append(res.Tasks, g)
		}
	}

	// Persisted state the queue builder did not regenerate: completed work
	// still surfaces, and advanced TO_CASE work stays visible even though
	// the order that drove it may have changed or disappeared.
	for _, key := range sortedKeys(live) {
		if matched[key] {
			continue
		}
		st := live[key]
		switch st.CurrentColumn {
		case model.ColumnDone:
			res.Completed = append(res.Completed, orphanCompleted(key, st))
		case model.ColumnToCase:
			eq := model.EquivalentCaseKey(key, st.SKU)
			if hasTask(res.Tasks, eq) {
				continue
			}
			res.Tasks = append(res.Tasks, synthesizeAdvanced(eq, st))
		}
	}

	queue.SortTasks(res.Tasks)
	sort.Slice(res.Completed, func(i, j int) bool {
		a, b := res.Completed[i], res.Completed[j]
		if a.CompletedAt != b.CompletedAt {
			return a.CompletedAt > b.CompletedAt
		}
		return a.ID < b.ID
	})
	return res
}

func completedFromState(g *model.Task, st model.TaskState) model.CompletedTask {
	done := *g
	done.Column = model.ColumnDone
	done.Quantity = st.Quantity
	completedAt := ""
	if st.CompletedAt != nil {
		completedAt = *st.CompletedAt
	}
	return model.CompletedTask{Task: done, CompletedAt: completedAt}
}

// orphanCompleted rebuilds a completed entry from state alone, recovering
// the priority from the key's trailing segment (BACKFILL when the segment
// predates the current tier set).
func orphanCompleted(key string, st model.TaskState) model.CompletedTask {
	pk := model.ParseKey(key)
	completedAt := ""
	if st.CompletedAt != nil {
		completedAt = *st.CompletedAt
	}
	return model.CompletedTask{
		Task: model.Task{
			ID:       key,
			SKU:      st.SKU,
			Type:     st.TaskType,
			Column:   model.ColumnDone,
			Quantity: st.Quantity,
			Priority: pk.Priority,
			Status:   model.TaskReady,
		},
		CompletedAt: completedAt,
	}
}

func synthesizeAdvanced(id string, st model.TaskState) *model.Task {
	pk := model.ParseKey(id)
	return &model.Task{
		ID:       id,
		SKU:      st.SKU,
		Type:     model.TaskCase,
		Column:   model.ColumnToCase,
		Quantity: st.Quantity,
		Priority: pk.Priority,
		Status:   model.TaskReady,
		Sources: []model.TaskSource{{
			Type:         model.SourceOrder,
			OrderID:      "advanced",
			CustomerName: "Advanced from Fill",
			Quantity:     st.Quantity,
		}},
	}
}

func hasTask(tasks []*model.Task, id string) bool {
	for _, t := range tasks {
		if t.ID == id {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]model.TaskState) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
