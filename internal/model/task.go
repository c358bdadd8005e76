package model

type TaskType string

const (
	TaskFill TaskType = "FILL"
	TaskCase TaskType = "CASE"
)

// Column is a position on the production board. TO_FILL and TO_CASE hold
// active work; DONE is terminal until explicitly reverted.
type Column string

const (
	ColumnToFill Column = "TO_FILL"
	ColumnToCase Column = "TO_CASE"
	ColumnDone   Column = "DONE"
)

type TaskStatus string

const (
	TaskReady   TaskStatus = "READY"
	TaskBlocked TaskStatus = "BLOCKED"
)

// BlockedReasonStaged is the reason set on shortfall tasks that cannot be
// started because STAGED inventory is exhausted.
const BlockedReasonStaged = "Needs Staged"

// Column transitions: advance moves work toward DONE, revert is the exact
// inverse. No other movement is legal.
var validAdvances = map[Column]Column{
	ColumnToFill: ColumnToCase,
	ColumnToCase: ColumnDone,
}

var validReverts = map[Column]Column{
	ColumnToCase: ColumnToFill,
	ColumnDone:   ColumnToCase,
}

// AdvanceTarget returns the column an advance from c lands in.
func AdvanceTarget(c Column) (Column, bool) {
	to, ok := validAdvances[c]
	return to, ok
}

// RevertTarget returns the column a revert from c lands in.
func RevertTarget(c Column) (Column, bool) {
	to, ok := validReverts[c]
	return to, ok
}

type SourceType string

const (
	SourceOrder    SourceType = "ORDER"
	SourceBackfill SourceType = "BACKFILL"
)

// TaskSource attributes part of a task's quantity to the demand that
// created it. Sources are append-only; only Quantity accumulates when the
// same order contributes twice.
type TaskSource struct {
	Type         SourceType `yaml:"type"`
	OrderID      string     `yaml:"order_id,omitempty"`
	CustomerName string     `yaml:"customer_name,omitempty"`
	Quantity     int        `yaml:"quantity"`
	DeliveryDate string     `yaml:"delivery_date,omitempty"`
}

// Task is one unit of production work. ID is content-addressed (derived
// from type, SKU, and priority), so identical demand from different orders
// collapses into one task with multiple sources.
type Task struct {
	ID            string       `yaml:"id"`
	SKU           SKU          `yaml:"sku"`
	Type          TaskType     `yaml:"type"`
	Column        Column       `yaml:"column"`
	Quantity      int          `yaml:"quantity"`
	Priority      Priority     `yaml:"priority"`
	Status        TaskStatus   `yaml:"status"`
	Sources       []TaskSource `yaml:"sources"`
	BlockedReason string       `yaml:"blocked_reason,omitempty"`
}

// SourceTotal sums the quantities attributed by sources. For freshly
// generated tasks this always equals Quantity.
func (t *Task) SourceTotal() int {
	total := 0
	for _, s := range t.Sources {
		total += s.Quantity
	}
	return total
}

// TaskState is the durable record of human progress on a task,
// independent of the recomputed queue. No row means the task is still in
// TO_FILL.
type TaskState struct {
	TaskKey       string   `yaml:"task_key"`
	SKU           SKU      `yaml:"sku"`
	TaskType      TaskType `yaml:"task_type"`
	CurrentColumn Column   `yaml:"current_column"`
	Quantity      int      `yaml:"quantity"`
	CompletedAt   *string  `yaml:"completed_at,omitempty"`
	UpdatedAt     string   `yaml:"updated_at"`
}

// CompletedTask is the read-only projection of a DONE task state shown on
// the board.
type CompletedTask struct {
	Task        `yaml:",inline"`
	CompletedAt string `yaml:"completed_at"`
}
