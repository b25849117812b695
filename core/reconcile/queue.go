package reconcile

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Enqueue persists entries as pending tasks tagged with cursor. Entries are
// written in batches of at most batchSize rows, one transaction per batch,
// in delta order so task ids follow it.
func Enqueue(ctx context.Context, db *gorm.DB, userID, cursor string, entries []Entry, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	queued := 0
	for start := 0; start < len(entries); start += batchSize {
		end := min(start+batchSize, len(entries))

		tasks := make([]Task, 0, end-start)
		for _, e := range entries[start:end] {
			typ := TaskUpsert
			if e.Deleted {
				typ = TaskDelete
			}
			tasks = append(tasks, Task{DeltaCursor: cursor, Path: e.Path, Type: typ, UserID: userID})
		}

		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return tx.Create(&tasks).Error
		})
		if err != nil {
			return queued, fmt.Errorf("failed to enqueue tasks %d-%d: %w", start, end, err)
		}
		queued += len(tasks)
	}
	return queued, nil
}

// Pending returns the number of tasks still queued for userID.
func Pending(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&Task{}).Where("user_id = ?", userID).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count pending tasks: %w", err)
	}
	return n, nil
}

// nextTasks loads up to limit queued tasks for userID, oldest first.
func nextTasks(ctx context.Context, db *gorm.DB, userID string, limit int) ([]Task, error) {
	var tasks []Task
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Limit(limit).
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load pending tasks: %w", err)
	}
	return tasks, nil
}

// filterRoot drops the entry for the watched folder itself.
func filterRoot(entries []Entry, root string) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if root != "" && e.Path == root {
			continue
		}
		out = append(out, e)
	}
	return out
}
