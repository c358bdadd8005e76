package queue

import (
	"sort"

	"github.com/packhouse/packline/internal/model"
)

// backfill sweeps whatever FILLED and STAGED inventory the orders left
// behind into restock tasks so production keeps moving toward finished
// goods. There is no target quantity: all leftover is claimed. CASED
// leftovers stay put; finished goods need no further work.
func backfill(acc *accumulator, inv map[model.SKU]model.InventoryLevels) {
	skus := make([]model.SKU, 0, len(inv))
	for sku := range inv {
		skus = append(skus, sku)
	}
	sort.Slice(skus, func(i, j int) bool { return skus[i] < skus[j] })

	for _, sku := range skus {
		levels := inv[sku]
		if levels.Filled > 0 {
			acc.add(model.BackfillKey(model.TaskCase, sku), model.Task{
				SKU:      sku,
				Type:     model.TaskCase,
				Column:   model.ColumnToCase,
				Priority: model.PriorityBackfill,
				Status:   model.TaskReady,
			}, model.TaskSource{Type: model.SourceBackfill, Quantity: levels.Filled})
			levels.Filled = 0
		}
		if levels.Staged > 0 {
			acc.add(model.BackfillKey(model.TaskFill, sku), model.Task{
				SKU:      sku,
				Type:     model.TaskFill,
				Column:   model.ColumnToFill,
				Priority: model.PriorityBackfill,
				Status:   model.TaskReady,
			}, model.TaskSource{Type: model.SourceBackfill, Quantity: levels.Staged})
			levels.Staged = 0
		}
		inv[sku] = levels
	}
}
