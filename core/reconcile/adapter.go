package reconcile

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrCursorReset is returned by FetchDelta when the provider no longer
// accepts the stored cursor.
var ErrCursorReset = errors.New("delta cursor reset")

// Adapter supplies the catalog and provider side of a sync run. The engine
// owns the task queue, ordering, transactions and counters.
type Adapter interface {
	// Name identifies the adapter in logs and guard keys.
	Name() string

	// Root returns the lowercased path of the watched folder. A delta entry
	// for the folder itself is never queued.
	Root() string

	// LoadCursor returns the user's stored resumption cursor, or "" for a
	// full listing.
	LoadCursor(ctx context.Context, db *gorm.DB, userID string) (string, error)

	// SaveCursor stores the cursor that follows the last fetched delta.
	SaveCursor(ctx context.Context, db *gorm.DB, userID, cursor string) error

	// FetchDelta returns one page of changes since cursor.
	FetchDelta(ctx context.Context, userID, cursor string) (*Delta, error)

	// Apply writes one task to the catalog inside tx. prepared is the value
	// returned by Preparer.Prepare, or nil when the adapter has no Preparer.
	// The task row is deleted in the same transaction.
	Apply(ctx context.Context, tx *gorm.DB, task Task, prepared any) (Outcome, error)
}

// Preparer is implemented by adapters that do network work per task. Prepare
// must not touch the catalog; it may run concurrently for different tasks
// of the same user.
type Preparer interface {
	Prepare(ctx context.Context, task Task) (any, error)
}

// Outcome reports what Apply did.
type Outcome struct {
	// Counted is false when the task matched nothing (a delete of an
	// unknown path). Counted tasks increment Added or Deleted.
	Counted bool

	// AfterCommit runs once the transaction has committed and never when it
	// rolls back. An error stops the drain; the task is already consumed.
	AfterCommit func(ctx context.Context) error
}
