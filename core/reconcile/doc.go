// Package reconcile mirrors a remote change feed (a "delta") into a local
// catalog through a durable task queue.
//
// A sync run fetches one delta page since the user's stored cursor, persists
// every change as a row in sync_tasks, advances the cursor, and then drains
// the queue oldest first. A task row is deleted in the same transaction that
// writes its catalog change, so the queue itself is the recovery log: a run
// that crashes or fails part way leaves its remaining tasks behind and the
// next run finishes them.
//
// # Architecture
//
// 1. Engine: Run and Drain own ordering, batching, transactions and counters.
//
// 2. Adapter: catalog and provider specific behaviour. Apply writes one task
//    inside the engine's transaction. Adapters that also implement Preparer
//    get their network work (share links, thumbnails) run ahead of the
//    writes on a bounded errgroup pool, while writes stay in id order.
//
// 3. Guard: singleflight per adapter and user so overlapping triggers share
//    one run. The run is detached from the callers' cancellation and bounded
//    by Spec.RunTimeout.
//
// # Failure semantics
//
//   - A delta failure aborts before anything is written.
//   - A Prepare or Apply failure (including a TaskTimeout expiry) stops the
//     drain. The failing task and every later task stay queued.
//   - An Outcome.AfterCommit failure stops the drain after the task's write
//     has committed and been counted. A rolled back task never runs its hook.
//   - Re-draining an empty queue is a no-op.
//
// The cursor is stored after the tasks are persisted but in a separate
// commit. A crash between the delta fetch and that commit loses the delta;
// when the provider later rejects the cursor, Run takes a full listing and
// sets Result.Reset.
//
// # Usage Example
//
//	spec := &reconcile.Spec{
//	    Adapter:     gallery.NewSyncAdapter(...),
//	    BatchSize:   100,
//	    Workers:     4,
//	    TaskTimeout: 30 * time.Second,
//	}
//
//	res, err := reconcile.Run(ctx, spec, db, userID)
//	left, err := reconcile.Pending(ctx, db, userID)
package reconcile
