// Package store persists packline's durable state as YAML files in the
// data directory: inventory levels, orders, task state, task notes, and
// containers. Every file carries a schema header, is validated on read,
// and is written atomically. Read-modify-write sequences are serialized
// per file with an in-process mutex map.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/packhouse/packline/internal/lock"
	"github.com/packhouse/packline/internal/model"
	yamlutil "github.com/packhouse/packline/internal/yaml"
	yamlv3 "gopkg.in/yaml.v3"
)

const (
	inventoryFile  = "inventory.yaml"
	ordersFile     = "orders.yaml"
	taskStateFile  = "task_state.yaml"
	notesFile      = "notes.yaml"
	containersFile = "containers.yaml"
	configFile     = "packline.yaml"
)

type Store struct {
	dir    string
	fileMu *lock.MutexMap

	// now is swappable so tests can pin the task-state expiry horizon.
	now func() time.Time
}

func New(dir string) *Store {
	return &Store{
		dir:    dir,
		fileMu: lock.NewMutexMap(),
		now:    time.Now,
	}
}

// Dir returns the data directory the store reads and writes.
func (s *Store) Dir() string {
	return s.dir
}

// SetNowFunc overrides the clock used for task-state expiry (tests only).
func (s *Store) SetNowFunc(f func() time.Time) {
	s.now = f
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

// readFile loads and validates a data file into out. A missing file is
// not an error; out keeps its zero value and ok is false.
func (s *Store) readFile(name, fileType string, out any) (ok bool, err error) {
	path := s.path(name)
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", name, err)
	}
	if err := yamlutil.ValidateSchemaHeaderFromBytes(content, fileType); err != nil {
		return false, fmt.Errorf("validate %s: %w", name, err)
	}
	if err := yamlv3.Unmarshal(content, out); err != nil {
		return false, fmt.Errorf("parse %s: %w", name, err)
	}
	return true, nil
}

func (s *Store) writeFile(name string, data any) error {
	if err := yamlutil.AtomicWrite(s.path(name), data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

type inventoryDoc struct {
	yamlutil.SchemaHeader `yaml:",inline"`
	Levels                map[model.SKU]model.InventoryLevels `yaml:"levels"`
}

// Inventory returns the per-SKU levels. SKUs with no row read as zero.
func (s *Store) Inventory() (map[model.SKU]model.InventoryLevels, error) {
	var doc inventoryDoc
	if _, err := s.readFile(inventoryFile, yamlutil.FileTypeInventory, &doc); err != nil {
		return nil, err
	}
	if doc.Levels == nil {
		doc.Levels = make(map[model.SKU]model.InventoryLevels)
	}
	return doc.Levels, nil
}

func (s *Store) SaveInventory(levels map[model.SKU]model.InventoryLevels) error {
	s.fileMu.Lock(inventoryFile)
	defer s.fileMu.Unlock(inventoryFile)
	return s.saveInventoryLocked(levels)
}

func (s *Store) saveInventoryLocked(levels map[model.SKU]model.InventoryLevels) error {
	return s.writeFile(inventoryFile, inventoryDoc{
		SchemaHeader: yamlutil.NewHeader(yamlutil.FileTypeInventory),
		Levels:       levels,
	})
}

// SetInventory replaces one SKU's levels.
func (s *Store) SetInventory(sku model.SKU, levels model.InventoryLevels) error {
	s.fileMu.Lock(inventoryFile)
	defer s.fileMu.Unlock(inventoryFile)

	all, err := s.Inventory()
	if err != nil {
		return err
	}
	all[sku] = levels
	return s.saveInventoryLocked(all)
}

type ordersDoc struct {
	yamlutil.SchemaHeader `yaml:",inline"`
	Orders                []model.Order `yaml:"orders"`
}

func (s *Store) Orders() ([]model.Order, error) {
	var doc ordersDoc
	if _, err := s.readFile(ordersFile, yamlutil.FileTypeOrders, &doc); err != nil {
		return nil, err
	}
	return doc.Orders, nil
}

func (s *Store) SaveOrders(orders []model.Order) error {
	s.fileMu.Lock(ordersFile)
	defer s.fileMu.Unlock(ordersFile)
	return s.saveOrdersLocked(orders)
}

func (s *Store) saveOrdersLocked(orders []model.Order) error {
	return s.writeFile(ordersFile, ordersDoc{
		SchemaHeader: yamlutil.NewHeader(yamlutil.FileTypeOrders),
		Orders:       orders,
	})
}

func (s *Store) AddOrder(o model.Order) error {
	s.fileMu.Lock(ordersFile)
	defer s.fileMu.Unlock(ordersFile)

	orders, err := s.Orders()
	if err != nil {
		return err
	}
	orders = append(orders, o)
	return s.saveOrdersLocked(orders)
}

// SetOrderStatus updates one order's status.
func (s *Store) SetOrderStatus(id string, status model.OrderStatus) error {
	s.fileMu.Lock(ordersFile)
	defer s.fileMu.Unlock(ordersFile)

	orders, err := s.Orders()
	if err != nil {
		return err
	}
	for i := range orders {
		if orders[i].ID == id {
			orders[i].Status = status
			return s.saveOrdersLocked(orders)
		}
	}
	return fmt.Errorf("order %s not found", id)
}

// LoadConfig reads packline.yaml from the data directory.
func (s *Store) LoadConfig() (model.Config, error) {
	var doc struct {
		yamlutil.SchemaHeader `yaml:",inline"`
		model.Config          `yaml:",inline"`
	}
	ok, err := s.readFile(configFile, yamlutil.FileTypeConfig, &doc)
	if err != nil {
		return model.Config{}, err
	}
	if !ok {
		return model.Config{}, fmt.Errorf("no %s in %s (run packline init)", configFile, s.dir)
	}
	return doc.Config, nil
}
