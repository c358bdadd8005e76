// Package board composes the queue builder, the reconciler, and the
// store into the production board the CLI renders and acts on, and owns
// the advance/revert stage transitions.
package board

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/packhouse/packline/internal/lock"
	"github.com/packhouse/packline/internal/model"
	"github.com/packhouse/packline/internal/queue"
	"github.com/packhouse/packline/internal/reconcile"
	"github.com/packhouse/packline/internal/store"
)

type Service struct {
	store *store.Store
	cfg   model.Config
	log   zerolog.Logger
	skuMu *lock.MutexMap
	group singleflight.Group

	cleanup sync.WaitGroup

	now func() time.Time
}

func NewService(st *store.Store, cfg model.Config, logger zerolog.Logger) *Service {
	return &Service{
		store: st,
		cfg:   cfg,
		log:   logger,
		skuMu: lock.NewMutexMap(),
		now:   time.Now,
	}
}

// SetNowFunc pins the clock (tests only).
func (s *Service) SetNowFunc(f func() time.Time) {
	s.now = f
}

// SKUStatus is the per-SKU inventory/demand summary line.
type SKUStatus struct {
	SKU      model.SKU
	Name     string
	Cased    int
	Filled   int
	Staged   int
	Pending  int
	Gap      int
	LowStock bool
}

// Board is everything one read produces: active tasks in board order,
// today's completed work, per-SKU summaries, and the task notes.
type Board struct {
	Tasks       []*model.Task
	Completed   []model.CompletedTask
	Summaries   []SKUStatus
	Notes       map[string]string
	GeneratedAt time.Time
}

// Board recomputes the queue from the current snapshot and reconciles it
// against persisted task state. Concurrent callers share one build via
// singleflight; each build clones its own snapshot so reads are safe to
// run in parallel with each other.
func (s *Service) Board(ctx context.Context) (*Board, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v, err, _ := s.group.Do("board", func() (any, error) {
		return s.buildBoard()
	})
	if err != nil {
		return nil, err
	}
	return v.(*Board), nil
}

func (s *Service) buildBoard() (*Board, error) {
	inv, err := s.store.Inventory()
	if err != nil {
		return nil, err
	}
	orders, err := s.store.Orders()
	if err != nil {
		return nil, err
	}
	states, err := s.store.TaskStates()
	if err != nil {
		return nil, err
	}
	notes, err := s.store.Notes()
	if err != nil {
		return nil, err
	}

	now := s.now()
	generated := queue.Build(inv, orders, now)
	res := reconcile.Merge(reconcile.Input{
		Generated: generated,
		States:    states,
		Inventory: inv,
	})

	if len(res.DeleteKeys) > 0 {
		// Self-healing side effect, not a precondition: the board is
		// correct whether or not cleanup lands.
		s.cleanup.Add(1)
		go func(keys []string) {
			defer s.cleanup.Done()
			s.cleanupGhosts(keys)
		}(res.DeleteKeys)
	}

	return &Board{
		Tasks:       res.Tasks,
		Completed:   res.Completed,
		Summaries:   s.summaries(inv, orders),
		Notes:       notes,
		GeneratedAt: now,
	}, nil
}

// WaitCleanup blocks until in-flight ghost deletions finish. One-shot
// callers drain before exiting; long-lived callers never need to.
func (s *Service) WaitCleanup() {
	s.cleanup.Wait()
}

func (s *Service) cleanupGhosts(keys []string) {
	for _, key := range keys {
		deleted, err := s.store.DeleteGhost(key)
		if err != nil {
			s.log.Warn().Err(err).Str("task_key", key).Msg("ghost cleanup failed")
			continue
		}
		if deleted {
			s.log.Info().Str("task_key", key).Msg("removed ghost task state")
		}
	}
}

func (s *Service) summaries(inv map[model.SKU]model.InventoryLevels, orders []model.Order) []SKUStatus {
	pending := make(map[model.SKU]int)
	for _, o := range orders {
		if !o.Actionable() {
			continue
		}
		for _, line := range o.LineItems {
			pending[line.SKU] += line.Quantity
		}
	}

	seen := make(map[model.SKU]bool)
	var skus []model.SKU
	for _, entry := range s.cfg.Catalog {
		sku := model.SKU(entry.Code)
		if !seen[sku] {
			seen[sku] = true
			skus = append(skus, sku)
		}
	}
	for sku := range inv {
		if !seen[sku] {
			seen[sku] = true
			skus = append(skus, sku)
		}
	}
	for sku := range pending {
		if !seen[sku] {
			seen[sku] = true
			skus = append(skus, sku)
		}
	}
	sort.Slice(skus, func(i, j int) bool { return skus[i] < skus[j] })

	out := make([]SKUStatus, 0, len(skus))
	for _, sku := range skus {
		levels := inv[sku]
		gap := pending[sku] - levels.OnHand()
		if gap < 0 {
			gap = 0
		}
		out = append(out, SKUStatus{
			SKU:      sku,
			Name:     s.cfg.SKUName(sku),
			Cased:    levels.Cased,
			Filled:   levels.Filled,
			Staged:   levels.Staged,
			Pending:  pending[sku],
			Gap:      gap,
			LowStock: levels.OnHand() < s.cfg.LowStockThreshold(sku),
		})
	}
	return out
}
