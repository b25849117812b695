package reconcile

import (
	"context"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// Guard coalesces overlapping sync runs for the same adapter and user.
// Callers that arrive while a run is in flight wait for it and share its
// result instead of draining the same queue twice.
//
// The shared run does not inherit any caller's cancellation; it is bounded by
// Spec.RunTimeout instead. A caller whose context ends stops waiting and gets
// its own context error while the run continues for the others.
type Guard struct {
	sf singleflight.Group
}

// NewGuard creates a guard.
func NewGuard() *Guard {
	return &Guard{}
}

// Run behaves like the package Run, deduplicated per adapter and user. shared
// reports whether the result came from another caller's run.
func (g *Guard) Run(ctx context.Context, spec *Spec, db *gorm.DB, userID string) (*Result, bool, error) {
	if spec.Adapter == nil {
		return nil, false, ErrNoAdapter
	}
	key := spec.Adapter.Name() + "|" + userID

	ch := g.sf.DoChan(key, func() (any, error) {
		runCtx := context.WithoutCancel(ctx)
		if spec.RunTimeout > 0 {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithTimeout(runCtx, spec.RunTimeout)
			defer cancel()
		}
		return Run(runCtx, spec, db, userID)
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case r := <-ch:
		res, _ := r.Val.(*Result)
		return res, r.Shared, r.Err
	}
}
