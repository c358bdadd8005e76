// Package model defines the data structures for packline's inventory,
// orders, production tasks, and persisted task state.
package model

// SKU identifies a product in the catalog. The engine treats it as opaque;
// catalog validation happens at the CLI boundary.
type SKU string

// InventoryLevels tracks the three pipeline pools for one SKU, in whole
// cases. A unit is in exactly one pool at a time. Values never go negative;
// all decrements clamp at zero.
type InventoryLevels struct {
	Cased  int `yaml:"cased"`
	Filled int `yaml:"filled"`
	Staged int `yaml:"staged"`
}

// OnHand returns the total cases across all three pools.
func (l InventoryLevels) OnHand() int {
	return l.Cased + l.Filled + l.Staged
}

// CloneInventory copies a snapshot so allocation can consume it without
// mutating the caller's map.
func CloneInventory(inv map[SKU]InventoryLevels) map[SKU]InventoryLevels {
	out := make(map[SKU]InventoryLevels, len(inv))
	for sku, levels := range inv {
		out[sku] = levels
	}
	return out
}

type ContainerStatus string

const (
	ContainerAvailable ContainerStatus = "AVAILABLE"
	ContainerUsed      ContainerStatus = "USED"
)

// ContainerSizes are the physical container capacities, in cases.
var ContainerSizes = []int{1, 2, 3, 4, 8}

// Container is a physical staged unit. Adding or removing an AVAILABLE
// container is the only way STAGED inventory changes from outside the
// pipeline itself.
type Container struct {
	ID        string          `yaml:"id"`
	SKU       SKU             `yaml:"sku"`
	Size      int             `yaml:"size"`
	Status    ContainerStatus `yaml:"status"`
	CreatedAt string          `yaml:"created_at"`
	UsedAt    *string         `yaml:"used_at,omitempty"`
}

// ValidContainerSize reports whether size is one of the fixed capacities.
func ValidContainerSize(size int) bool {
	for _, s := range ContainerSizes {
		if s == size {
			return true
		}
	}
	return false
}
