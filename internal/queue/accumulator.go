package queue

import "github.com/packhouse/packline/internal/model"

// accumulator is the shared task map both the allocator and the backfill
// sweep write into. It is threaded through one Build call and never
// escapes it. Insertion order is tracked so the pre-sort task list is
// deterministic regardless of map iteration.
type accumulator struct {
	tasks map[string]*model.Task
	order []string
}

func newAccumulator() *accumulator {
	return &accumulator{tasks: make(map[string]*model.Task)}
}

// add merges a contribution into the task with the given id, creating it
// from proto on first sight. An existing task accumulates quantity,
// appends the source, and upgrades its priority when the incoming demand
// outranks it. A blocked task first created by a slow order inherits
// urgency from a later urgent one this way.
func (a *accumulator) add(id string, proto model.Task, src model.TaskSource) {
	if t, ok := a.tasks[id]; ok {
		t.Quantity += src.Quantity
		t.Sources = append(t.Sources, src)
		if proto.Priority.Outranks(t.Priority) {
			t.Priority = proto.Priority
		}
		return
	}

	t := proto
	t.ID = id
	t.Quantity = src.Quantity
	t.Sources = []model.TaskSource{src}
	a.tasks[id] = &t
	a.order = append(a.order, id)
}

// list returns the accumulated tasks in insertion order.
func (a *accumulator) list() []*model.Task {
	out := make([]*model.Task, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, a.tasks[id])
	}
	return out
}
