package store

import (
	"fmt"
	"sort"
	"time"

	"github.com/packhouse/packline/internal/model"
	yamlutil "github.com/packhouse/packline/internal/yaml"
)

type containersDoc struct {
	yamlutil.SchemaHeader `yaml:",inline"`
	Containers            []model.Container `yaml:"containers"`
}

func (s *Store) Containers() ([]model.Container, error) {
	var doc containersDoc
	if _, err := s.readFile(containersFile, yamlutil.FileTypeContainers, &doc); err != nil {
		return nil, err
	}
	return doc.Containers, nil
}

func (s *Store) saveContainersLocked(containers []model.Container) error {
	return s.writeFile(containersFile, containersDoc{
		SchemaHeader: yamlutil.NewHeader(yamlutil.FileTypeContainers),
		Containers:   containers,
	})
}

// AddContainer registers an AVAILABLE container and credits its size to
// the SKU's STAGED pool. This is the only way staged inventory grows from
// outside the pipeline.
func (s *Store) AddContainer(c model.Container) error {
	if !model.ValidContainerSize(c.Size) {
		return fmt.Errorf("invalid container size %d (valid: %v)", c.Size, model.ContainerSizes)
	}

	s.fileMu.Lock(containersFile)
	defer s.fileMu.Unlock(containersFile)

	containers, err := s.Containers()
	if err != nil {
		return err
	}
	containers = append(containers, c)
	if err := s.saveContainersLocked(containers); err != nil {
		return err
	}

	inv, err := s.Inventory()
	if err != nil {
		return err
	}
	levels := inv[c.SKU]
	levels.Staged += c.Size
	return s.SetInventory(c.SKU, levels)
}

// RemoveContainer deletes an AVAILABLE container and debits its size from
// STAGED, clamped at zero.
func (s *Store) RemoveContainer(id string) error {
	s.fileMu.Lock(containersFile)
	defer s.fileMu.Unlock(containersFile)

	containers, err := s.Containers()
	if err != nil {
		return err
	}
	for i, c := range containers {
		if c.ID != id {
			continue
		}
		if c.Status != model.ContainerAvailable {
			return fmt.Errorf("container %s is %s, only AVAILABLE containers can be removed", id, c.Status)
		}
		containers = append(containers[:i], containers[i+1:]...)
		if err := s.saveContainersLocked(containers); err != nil {
			return err
		}

		inv, err := s.Inventory()
		if err != nil {
			return err
		}
		levels := inv[c.SKU]
		levels.Staged -= c.Size
		if levels.Staged < 0 {
			levels.Staged = 0
		}
		return s.SetInventory(c.SKU, levels)
	}
	return fmt.Errorf("container %s not found", id)
}

// UseContainer marks an AVAILABLE container USED and debits its size
// from STAGED, clamped at zero. For product that left staging outside
// the fill pipeline; fill advances consume containers themselves.
func (s *Store) UseContainer(id string, usedAt time.Time) error {
	s.fileMu.Lock(containersFile)
	defer s.fileMu.Unlock(containersFile)

	containers, err := s.Containers()
	if err != nil {
		return err
	}
	for i, c := range containers {
		if c.ID != id {
			continue
		}
		if c.Status != model.ContainerAvailable {
			return fmt.Errorf("container %s is already %s", id, c.Status)
		}
		stamp := usedAt.UTC().Format(time.RFC3339)
		containers[i].Status = model.ContainerUsed
		containers[i].UsedAt = &stamp
		if err := s.saveContainersLocked(containers); err != nil {
			return err
		}

		inv, err := s.Inventory()
		if err != nil {
			return err
		}
		levels := inv[c.SKU]
		levels.Staged -= c.Size
		if levels.Staged < 0 {
			levels.Staged = 0
		}
		return s.SetInventory(c.SKU, levels)
	}
	return fmt.Errorf("container %s not found", id)
}

// ConsumeContainers marks the oldest AVAILABLE containers of a SKU as
// USED, greedily up to quantity cases. Best effort: inventory levels stay
// authoritative, this just keeps the physical-container ledger roughly in
// step with fill work.
func (s *Store) ConsumeContainers(sku model.SKU, quantity int, usedAt time.Time) error {
	s.fileMu.Lock(containersFile)
	defer s.fileMu.Unlock(containersFile)

	containers, err := s.Containers()
	if err != nil {
		return err
	}

	var available []int
	for i, c := range containers {
		if c.SKU == sku && c.Status == model.ContainerAvailable {
			available = append(available, i)
		}
	}
	sort.SliceStable(available, func(a, b int) bool {
		return containers[available[a]].CreatedAt < containers[available[b]].CreatedAt
	})

	stamp := usedAt.UTC().Format(time.RFC3339)
	consumed := 0
	changed := false
	for _, i := range available {
		if consumed >= quantity {
			break
		}
		containers[i].Status = model.ContainerUsed
		containers[i].UsedAt = &stamp
		consumed += containers[i].Size
		changed = true
	}
	if !changed {
		return nil
	}
	return s.saveContainersLocked(containers)
}
