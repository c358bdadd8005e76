package queue

import "github.com/packhouse/packline/internal/model"

// allocate satisfies one order line from the snapshot in strict stage
// order: CASED first (finished goods, no work), then FILLED (casing
// work), then STAGED (fill work). Whatever no pool can cover becomes the
// SKU's blocked task. Allocation never fails; shortfall is data, not an
// error.
func allocate(acc *accumulator, inv map[model.SKU]model.InventoryLevels, o model.Order, priority model.Priority, line model.LineItem) {
	needed := line.Quantity
	if needed <= 0 {
		return
	}
	levels := inv[line.SKU]

	take := min(needed, levels.Cased)
	levels.Cased -= take
	needed -= take

	if needed > 0 && levels.Filled > 0 {
		take = min(needed, levels.Filled)
		levels.Filled -= take
		needed -= take
		acc.add(model.TaskKey(model.TaskCase, line.SKU, priority), model.Task{
			SKU:      line.SKU,
			Type:     model.TaskCase,
			Column:   model.ColumnToCase,
			Priority: priority,
			Status:   model.TaskReady,
		}, orderSource(o, take))
	}

	if needed > 0 && levels.Staged > 0 {
		take = min(needed, levels.Staged)
		levels.Staged -= take
		needed -= take
		acc.add(model.TaskKey(model.TaskFill, line.SKU, priority), model.Task{
			SKU:      line.SKU,
			Type:     model.TaskFill,
			Column:   model.ColumnToFill,
			Priority: priority,
			Status:   model.TaskReady,
		}, orderSource(o, take))
	}

	if needed > 0 {
		// One blocked task per SKU, whatever the tier of the orders
		// feeding it; the key deliberately omits the priority.
		acc.add(model.BlockedFillKey(line.SKU), model.Task{
			SKU:           line.SKU,
			Type:          model.TaskFill,
			Column:        model.ColumnToFill,
			Priority:      priority,
			Status:        model.TaskBlocked,
			BlockedReason: model.BlockedReasonStaged,
		}, orderSource(o, needed))
	}

	inv[line.SKU] = levels
}

func orderSource(o model.Order, qty int) model.TaskSource {
	return model.TaskSource{
		Type:         model.SourceOrder,
		OrderID:      o.ID,
		CustomerName: o.CustomerName,
		Quantity:     qty,
		DeliveryDate: o.DeliveryDate,
	}
}
