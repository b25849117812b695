package reconcile

import (
	"time"

	"go.uber.org/zap"
)

// TaskType is the kind of work a queued task carries.
type TaskType int

const (
	// TaskUpsert creates or refreshes the catalog row for a path.
	TaskUpsert TaskType = 0
	// TaskDelete removes the catalog row for a path.
	TaskDelete TaskType = 1
)

func (t TaskType) String() string {
	if t == TaskDelete {
		return "delete"
	}
	return "upsert"
}

// Task is one durable unit of sync work. Deleting the row marks it done.
type Task struct {
	ID          uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	DeltaCursor string   `gorm:"column:delta_cursor;type:text" json:"delta_cursor"`
	Path        string   `gorm:"column:path;type:text;not null" json:"path"`
	Type        TaskType `gorm:"column:type;not null;default:0" json:"type"`
	UserID      string   `gorm:"column:user_id;type:varchar(255);index;not null" json:"user_id"`
}

// TableName overrides the table name used by GORM.
func (Task) TableName() string {
	return "sync_tasks"
}

// Entry is one change reported by a delta: a lowercased path, deleted or not.
type Entry struct {
	Path    string
	Deleted bool
}

// Delta is one page of changes and the cursor that follows it.
type Delta struct {
	Entries []Entry
	Cursor  string
	HasMore bool
}

// Result summarizes one sync invocation.
type Result struct {
	// Added counts upsert tasks applied.
	Added int `json:"added"`
	// Deleted counts delete tasks that removed a row.
	Deleted int `json:"deleted"`
	// Fetched is the number of delta entries received.
	Fetched int `json:"fetched"`
	// Queued is the number of tasks persisted from this delta.
	Queued int `json:"queued"`
	// HasMore reports that the provider holds further delta pages.
	HasMore bool `json:"has_more"`
	// Reset reports that the stored cursor was rejected and a full listing
	// was taken instead.
	Reset bool `json:"reset"`
}

// Spec bundles an adapter with the knobs of a sync run.
type Spec struct {
	// Adapter provides catalog and provider specific behaviour.
	Adapter Adapter

	// BatchSize caps tasks per insert transaction and per drain load.
	// Defaults to 100.
	BatchSize int

	// Workers bounds concurrent Prepare calls. One means strictly sequential.
	Workers int

	// TaskTimeout bounds the network work of a single task. Zero disables it.
	TaskTimeout time.Duration

	// RunTimeout bounds a run started through Guard. Zero disables it.
	RunTimeout time.Duration

	// Logger receives run summaries. Defaults to a no-op logger.
	Logger *zap.Logger
}

// DefaultBatchSize is the largest number of rows written per statement.
const DefaultBatchSize = 100

func (s *Spec) batchSize() int {
	if s.BatchSize <= 0 {
		return DefaultBatchSize
	}
	return s.BatchSize
}

func (s *Spec) workers() int {
	if s.Workers <= 0 {
		return 1
	}
	return s.Workers
}

func (s *Spec) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
