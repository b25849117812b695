package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNoAdapter is returned when a Spec has no adapter.
var ErrNoAdapter = errors.New("reconcile spec has no adapter")

// Run performs one sync invocation for userID:
//
//  1. fetch one delta page from the stored cursor
//  2. drop the entry for the watched root
//  3. persist the remaining entries as tasks
//  4. store the new cursor
//  5. drain every queued task, including ones left by earlier runs
//
// Only a single delta page is fetched; Result.HasMore tells the caller that
// the next invocation has more to pick up. A delta failure aborts before
// anything is written. A drain failure returns the partial Result together
// with the error and leaves the remaining tasks queued.
func Run(ctx context.Context, spec *Spec, db *gorm.DB, userID string) (*Result, error) {
	if spec.Adapter == nil {
		return nil, ErrNoAdapter
	}
	adapter := spec.Adapter
	log := spec.logger().With(zap.String("adapter", adapter.Name()), zap.String("user_id", userID))
	started := time.Now()

	cursor, err := adapter.LoadCursor(ctx, db, userID)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	delta, err := adapter.FetchDelta(ctx, userID, cursor)
	if errors.Is(err, ErrCursorReset) && cursor != "" {
		log.Warn("Delta cursor rejected, taking a full listing")
		res.Reset = true
		delta, err = adapter.FetchDelta(ctx, userID, "")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch delta: %w", err)
	}

	entries := filterRoot(delta.Entries, adapter.Root())
	res.Fetched = len(delta.Entries)
	res.HasMore = delta.HasMore

	res.Queued, err = Enqueue(ctx, db, userID, delta.Cursor, entries, spec.batchSize())
	if err != nil {
		return res, err
	}

	if err := adapter.SaveCursor(ctx, db, userID, delta.Cursor); err != nil {
		return res, fmt.Errorf("failed to save cursor: %w", err)
	}

	res.Added, res.Deleted, err = Drain(ctx, spec, db, userID)

	fields := []zap.Field{
		zap.Int("fetched", res.Fetched),
		zap.Int("queued", res.Queued),
		zap.Int("added", res.Added),
		zap.Int("deleted", res.Deleted),
		zap.Duration("duration", time.Since(started)),
	}
	if err != nil {
		log.Error("Sync aborted", append(fields, zap.Error(err))...)
		return res, err
	}
	if res.HasMore {
		log.Warn("Delta has more pages, remaining changes wait for the next sync", fields...)
	} else {
		log.Info("Sync finished", fields...)
	}
	return res, nil
}
