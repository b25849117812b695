package reconcile

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// errTaskGone means another drain already consumed the task.
var errTaskGone = errors.New("task already consumed")

// Drain applies every queued task for userID in id order and returns the
// counts. Up to spec.Workers tasks are prepared concurrently; catalog writes
// stay sequential and each task's write commits together with the deletion
// of its task row. The first failure stops the drain and leaves the failing
// task and all later ones queued.
func Drain(ctx context.Context, spec *Spec, db *gorm.DB, userID string) (added, deleted int, err error) {
	if spec.Adapter == nil {
		return 0, 0, ErrNoAdapter
	}

	log := spec.logger()
	window := spec.workers()

	for {
		tasks, err := nextTasks(ctx, db, userID, spec.batchSize())
		if err != nil {
			return added, deleted, err
		}
		if len(tasks) == 0 {
			return added, deleted, nil
		}

		for start := 0; start < len(tasks); start += window {
			if err := ctx.Err(); err != nil {
				return added, deleted, err
			}

			chunk := tasks[start:min(start+window, len(tasks))]
			prepared, prepErrs := prepare(ctx, spec, chunk)

			for i, task := range chunk {
				if prepErrs[i] != nil {
					return added, deleted, fmt.Errorf("task %d (%s %s): %w", task.ID, task.Type, task.Path, prepErrs[i])
				}

				counted, err := applyTask(ctx, spec, db, task, prepared[i])
				if errors.Is(err, errTaskGone) {
					log.Debug("Task already consumed", zap.Uint("task_id", task.ID))
					continue
				}
				if counted {
					if task.Type == TaskDelete {
						deleted++
					} else {
						added++
					}
				}
				if err != nil {
					return added, deleted, fmt.Errorf("task %d (%s %s): %w", task.ID, task.Type, task.Path, err)
				}
			}
		}
	}
}

// prepare runs the adapter's network step for a chunk of tasks on a bounded
// pool. Results and errors are returned by position.
func prepare(ctx context.Context, spec *Spec, chunk []Task) ([]any, []error) {
	prepared := make([]any, len(chunk))
	errs := make([]error, len(chunk))

	p, ok := spec.Adapter.(Preparer)
	if !ok {
		return prepared, errs
	}

	var g errgroup.Group
	g.SetLimit(spec.workers())
	for i, task := range chunk {
		g.Go(func() error {
			taskCtx := ctx
			if spec.TaskTimeout > 0 {
				var cancel context.CancelFunc
				taskCtx, cancel = context.WithTimeout(ctx, spec.TaskTimeout)
				defer cancel()
			}
			prepared[i], errs[i] = p.Prepare(taskCtx, task)
			return nil
		})
	}
	_ = g.Wait()
	return prepared, errs
}

// applyTask runs Apply and the task deletion in one transaction, then the
// adapter's post-commit hook. counted reflects the committed write even when
// the hook fails.
func applyTask(ctx context.Context, spec *Spec, db *gorm.DB, task Task, prepared any) (bool, error) {
	var outcome Outcome
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&Task{}, task.ID)
		if res.Error != nil {
			return fmt.Errorf("failed to delete task: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return errTaskGone
		}

		var err error
		outcome, err = spec.Adapter.Apply(ctx, tx, task, prepared)
		return err
	})
	if err != nil {
		return false, err
	}

	if outcome.AfterCommit != nil {
		if err := outcome.AfterCommit(ctx); err != nil {
			return outcome.Counted, fmt.Errorf("after commit: %w", err)
		}
	}
	return outcome.Counted, nil
}
