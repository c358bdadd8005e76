package store

import (
	"sort"
	"time"

	"github.com/packhouse/packline/internal/model"
	yamlutil "github.com/packhouse/packline/internal/yaml"
)

type taskStateDoc struct {
	yamlutil.SchemaHeader `yaml:",inline"`
	States                []model.TaskState `yaml:"states"`
}

// TaskStates returns the persisted task states keyed by task key. DONE
// rows completed before the start of the current day have naturally
// expired and are excluded; they stay on disk until the next write
// rewrites the file.
func (s *Store) TaskStates() (map[string]model.TaskState, error) {
	var doc taskStateDoc
	if _, err := s.readFile(taskStateFile, yamlutil.FileTypeTaskState, &doc); err != nil {
		return nil, err
	}

	dayStart := s.dayStart()
	states := make(map[string]model.TaskState, len(doc.States))
	for _, st := range doc.States {
		if s.expired(st, dayStart) {
			continue
		}
		states[st.TaskKey] = st
	}
	return states, nil
}

func (s *Store) dayStart() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func (s *Store) expired(st model.TaskState, dayStart time.Time) bool {
	if st.CurrentColumn != model.ColumnDone || st.CompletedAt == nil {
		return false
	}
	completed, err := time.Parse(time.RFC3339, *st.CompletedAt)
	if err != nil {
		// Unparseable timestamps keep the row visible rather than
		// silently discarding completed work.
		return false
	}
	return completed.Before(dayStart)
}

// UpsertTaskState writes or replaces the state for its task key. Expired
// rows are dropped on rewrite.
func (s *Store) UpsertTaskState(st model.TaskState) error {
	s.fileMu.Lock(taskStateFile)
	defer s.fileMu.Unlock(taskStateFile)

	states, err := s.TaskStates()
	if err != nil {
		return err
	}
	states[st.TaskKey] = st
	return s.saveTaskStatesLocked(states)
}

// DeleteTaskState removes the state for key. Missing keys are a no-op.
func (s *Store) DeleteTaskState(key string) error {
	s.fileMu.Lock(taskStateFile)
	defer s.fileMu.Unlock(taskStateFile)

	states, err := s.TaskStates()
	if err != nil {
		return err
	}
	if _, ok := states[key]; !ok {
		return nil
	}
	delete(states, key)
	return s.saveTaskStatesLocked(states)
}

// DeleteGhost removes a task state only if it still satisfies the ghost
// condition (TO_CASE with less FILLED inventory than it records). A
// concurrent advance may have changed the row since the reconciler
// flagged it, in which case this is a no-op.
func (s *Store) DeleteGhost(key string) (bool, error) {
	s.fileMu.Lock(taskStateFile)
	defer s.fileMu.Unlock(taskStateFile)

	states, err := s.TaskStates()
	if err != nil {
		return false, err
	}
	st, ok := states[key]
	if !ok || st.CurrentColumn != model.ColumnToCase {
		return false, nil
	}
	inv, err := s.Inventory()
	if err != nil {
		return false, err
	}
	if inv[st.SKU].Filled >= st.Quantity {
		return false, nil
	}

	delete(states, key)
	if err := s.saveTaskStatesLocked(states); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) saveTaskStatesLocked(states map[string]model.TaskState) error {
	doc := taskStateDoc{SchemaHeader: yamlutil.NewHeader(yamlutil.FileTypeTaskState)}
	for _, key := range sortedStateKeys(states) {
		doc.States = append(doc.States, states[key])
	}
	return s.writeFile(taskStateFile, doc)
}

func sortedStateKeys(states map[string]model.TaskState) []string {
	keys := make([]string, 0, len(states))
	for k := range states {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
