package board

import (
	"errors"
	"fmt"
	"time"

	"github.com/packhouse/packline/internal/model"
)

// Transition precondition failures, surfaced verbatim to the operator.
var (
	ErrInsufficientStaged = errors.New("Insufficient staged inventory")
	ErrInsufficientFilled = errors.New("Insufficient filled inventory")
)

// TransitionRequest identifies the task being moved, the SKU and case
// quantity it carries, and the column the operator is moving it out of.
type TransitionRequest struct {
	TaskID     string
	SKU        model.SKU
	Quantity   int
	FromColumn model.Column
}

// Advance moves quantity one stage forward, updating inventory and task
// state together. All preconditions are checked before the first write
// (check-then-act); a failed precondition mutates nothing. Calls are
// serialized per SKU so racing advances cannot lose updates; different
// SKUs proceed in parallel.
func (s *Service) Advance(req TransitionRequest) error {
	if req.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive, got %d", req.Quantity)
	}
	if _, ok := model.AdvanceTarget(req.FromColumn); !ok {
		return fmt.Errorf("cannot advance from %s", req.FromColumn)
	}

	s.skuMu.Lock(string(req.SKU))
	defer s.skuMu.Unlock(string(req.SKU))

	states, err := s.store.TaskStates()
	if err != nil {
		return err
	}
	if err := validateColumn(states, req); err != nil {
		return err
	}
	inv, err := s.store.Inventory()
	if err != nil {
		return err
	}
	levels := inv[req.SKU]
	now := s.now()
	stamp := now.UTC().Format(time.RFC3339)

	switch req.FromColumn {
	case model.ColumnToFill:
		if levels.Staged < req.Quantity {
			return ErrInsufficientStaged
		}
		newKey, err := model.RenameOnAdvance(req.TaskID)
		if err != nil {
			return err
		}

		levels.Staged -= req.Quantity
		levels.Filled += req.Quantity
		if err := s.store.SetInventory(req.SKU, levels); err != nil {
			return err
		}

		// Same logical task crossing a stage boundary: the old key's
		// state row is superseded and its note travels with it.
		qty := req.Quantity
		if prior, ok := states[newKey]; ok && prior.CurrentColumn == model.ColumnToCase {
			qty += prior.Quantity
		}
		if err := s.store.UpsertTaskState(model.TaskState{
			TaskKey:       newKey,
			SKU:           req.SKU,
			TaskType:      model.TaskCase,
			CurrentColumn: model.ColumnToCase,
			Quantity:      qty,
			UpdatedAt:     stamp,
		}); err != nil {
			return err
		}
		if newKey != req.TaskID {
			if err := s.store.DeleteTaskState(req.TaskID); err != nil {
				return err
			}
			if err := s.store.RenameNote(req.TaskID, newKey); err != nil {
				return err
			}
		}

		if err := s.store.ConsumeContainers(req.SKU, req.Quantity, now); err != nil {
			// The container ledger is advisory; inventory levels stay
			// authoritative.
			s.log.Warn().Err(err).Str("sku", string(req.SKU)).Msg("container consume failed")
		}
		return nil

	default: // TO_CASE -> DONE
		if levels.Filled < req.Quantity {
			return ErrInsufficientFilled
		}

		levels.Filled -= req.Quantity
		levels.Cased += req.Quantity
		if err := s.store.SetInventory(req.SKU, levels); err != nil {
			return err
		}

		completed := stamp
		return s.store.UpsertTaskState(model.TaskState{
			TaskKey:       req.TaskID,
			SKU:           req.SKU,
			TaskType:      model.ParseKey(req.TaskID).Type,
			CurrentColumn: model.ColumnDone,
			Quantity:      req.Quantity,
			CompletedAt:   &completed,
			UpdatedAt:     stamp,
		})
	}
}

// Revert is the exact inverse of Advance. Inventory decrements clamp at
// zero; with preconditions respected the clamp is a no-op and advance
// then revert restores levels exactly.
func (s *Service) Revert(req TransitionRequest) error {
	if req.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive, got %d", req.Quantity)
	}
	if _, ok := model.RevertTarget(req.FromColumn); !ok {
		return fmt.Errorf("cannot revert from %s", req.FromColumn)
	}

	s.skuMu.Lock(string(req.SKU))
	defer s.skuMu.Unlock(string(req.SKU))

	states, err := s.store.TaskStates()
	if err != nil {
		return err
	}
	st, exists := states[req.TaskID]
	if !exists {
		return fmt.Errorf("task %s has no recorded progress to revert", req.TaskID)
	}
	if st.CurrentColumn != req.FromColumn {
		return fmt.Errorf("task %s is in %s, not %s", req.TaskID, st.CurrentColumn, req.FromColumn)
	}
	inv, err := s.store.Inventory()
	if err != nil {
		return err
	}
	levels := inv[req.SKU]
	stamp := s.now().UTC().Format(time.RFC3339)

	switch req.FromColumn {
	case model.ColumnToCase:
		levels.Filled -= req.Quantity
		if levels.Filled < 0 {
			levels.Filled = 0
		}
		levels.Staged += req.Quantity
		if err := s.store.SetInventory(req.SKU, levels); err != nil {
			return err
		}

		// Back to TO_FILL means back to the initial state: no row.
		if err := s.store.DeleteTaskState(req.TaskID); err != nil {
			return err
		}
		return s.store.RenameNote(req.TaskID, model.RenameOnRevert(req.TaskID))

	default: // DONE -> TO_CASE
		levels.Cased -= req.Quantity
		if levels.Cased < 0 {
			levels.Cased = 0
		}
		levels.Filled += req.Quantity
		if err := s.store.SetInventory(req.SKU, levels); err != nil {
			return err
		}

		return s.store.UpsertTaskState(model.TaskState{
			TaskKey:       req.TaskID,
			SKU:           req.SKU,
			TaskType:      st.TaskType,
			CurrentColumn: model.ColumnToCase,
			Quantity:      req.Quantity,
			UpdatedAt:     stamp,
		})
	}
}

// validateColumn rejects an advance whose FromColumn disagrees with the
// persisted state: a task already DONE cannot be advanced again. A task
// with no progress row sits in its initial column, which depends on the
// task kind: FILL work starts in TO_FILL, but CASE work generated against
// existing FILLED inventory is born in TO_CASE with no row at all.
func validateColumn(states map[string]model.TaskState, req TransitionRequest) error {
	st, exists := states[req.TaskID]
	if exists && st.CurrentColumn != req.FromColumn {
		return fmt.Errorf("task %s is in %s, not %s", req.TaskID, st.CurrentColumn, req.FromColumn)
	}
	if !exists {
		initial := model.ColumnToFill
		if model.ParseKey(req.TaskID).Type == model.TaskCase {
			initial = model.ColumnToCase
		}
		if req.FromColumn != initial {
			return fmt.Errorf("task %s has no recorded progress; it is still in %s", req.TaskID, initial)
		}
	}
	return nil
}
