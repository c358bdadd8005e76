package queue

import (
	"sort"
	"time"

	"github.com/packhouse/packline/internal/model"
)

// Build recomputes the production queue: actionable orders are classified
// and worked through in urgency order against a clone of the inventory
// snapshot, then the backfill sweep claims the leftovers. The result is
// deterministic for identical inputs.
func Build(inv map[model.SKU]model.InventoryLevels, orders []model.Order, today time.Time) []*model.Task {
	type scoredOrder struct {
		order    model.Order
		priority model.Priority
		score    int
	}

	var actionable []scoredOrder
	for _, o := range orders {
		if !o.Actionable() {
			continue
		}
		p, score := Classify(o, today)
		actionable = append(actionable, scoredOrder{order: o, priority: p, score: score})
	}
	sort.SliceStable(actionable, func(i, j int) bool {
		ri, rj := actionable[i].priority.Rank(), actionable[j].priority.Rank()
		if ri != rj {
			return ri < rj
		}
		return actionable[i].score < actionable[j].score
	})

	snapshot := model.CloneInventory(inv)
	acc := newAccumulator()

	for _, so := range actionable {
		for _, line := range so.order.LineItems {
			allocate(acc, snapshot, so.order, so.priority, line)
		}
	}

	backfill(acc, snapshot)

	tasks := acc.list()
	SortTasks(tasks)
	return tasks
}

// SortTasks applies the board ordering: tier first, READY before BLOCKED,
// FILL before CASE (fill feeds casing), largest quantity first, then id
// as a final determinism tie-break.
func SortTasks(tasks []*model.Task) {
	sort.Slice(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
			return ra < rb
		}
		if a.Status != b.Status {
			return a.Status == model.TaskReady
		}
		if a.Type != b.Type {
			return a.Type == model.TaskFill
		}
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		return a.ID < b.ID
	})
}
