package model

type Config struct {
	Project ProjectConfig `yaml:"project"`
	Catalog []CatalogSKU  `yaml:"catalog"`
	Board   BoardConfig   `yaml:"board"`
	Logging LoggingConfig `yaml:"logging"`
}

type ProjectConfig struct {
	Name    string `yaml:"name"`
	Created string `yaml:"created"`
}

// CatalogSKU declares a sellable product. LowStockThreshold overrides the
// board-level default for this SKU when set.
type CatalogSKU struct {
	Code              string `yaml:"code"`
	Name              string `yaml:"name"`
	LowStockThreshold int    `yaml:"low_stock_threshold,omitempty"`
}

type BoardConfig struct {
	LowStockThreshold int `yaml:"low_stock_threshold"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultLowStockThreshold applies when neither the board section nor the
// catalog entry sets one.
const DefaultLowStockThreshold = 10

// LowStockThreshold resolves the threshold for a SKU.
func (c Config) LowStockThreshold(sku SKU) int {
	for _, entry := range c.Catalog {
		if SKU(entry.Code) == sku && entry.LowStockThreshold > 0 {
			return entry.LowStockThreshold
		}
	}
	if c.Board.LowStockThreshold > 0 {
		return c.Board.LowStockThreshold
	}
	return DefaultLowStockThreshold
}

// InCatalog reports whether sku is declared in the catalog.
func (c Config) InCatalog(sku SKU) bool {
	for _, entry := range c.Catalog {
		if SKU(entry.Code) == sku {
			return true
		}
	}
	return false
}

// SKUName returns the display name for a SKU, falling back to the code.
func (c Config) SKUName(sku SKU) string {
	for _, entry := range c.Catalog {
		if SKU(entry.Code) == sku {
			return entry.Name
		}
	}
	return string(sku)
}
