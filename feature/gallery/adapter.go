package gallery

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"picklr/core/provider"
	"picklr/core/reconcile"
	"picklr/core/thumbs"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// upsertPayload carries the provider results for one upsert task.
type upsertPayload struct {
	shareKey    string
	thumbnail   []byte
	placeholder bool
}

// SyncAdapter mirrors one user's watched folder into the catalog.
type SyncAdapter struct {
	catalog *Catalog
	api     provider.API
	thumbs  thumbs.Store
	root    string
	size    string
	format  string
	logger  *zap.Logger
}

// NewSyncAdapter creates an adapter that talks to the provider through api.
func NewSyncAdapter(catalog *Catalog, api provider.API, store thumbs.Store, root string, thumbCfg thumbs.Config, logger *zap.Logger) *SyncAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncAdapter{
		catalog: catalog,
		api:     api,
		thumbs:  store,
		root:    root,
		size:    thumbCfg.Size,
		format:  thumbCfg.Format,
		logger:  logger,
	}
}

// Name implements reconcile.Adapter.
func (a *SyncAdapter) Name() string { return "gallery" }

// Root implements reconcile.Adapter.
func (a *SyncAdapter) Root() string { return strings.ToLower(a.root) }

// LoadCursor implements reconcile.Adapter.
func (a *SyncAdapter) LoadCursor(ctx context.Context, db *gorm.DB, userID string) (string, error) {
	return a.catalog.WithTx(db).Cursor(ctx, userID)
}

// SaveCursor implements reconcile.Adapter.
func (a *SyncAdapter) SaveCursor(ctx context.Context, db *gorm.DB, userID, cursor string) error {
	return a.catalog.WithTx(db).SetCursor(ctx, userID, cursor)
}

// FetchDelta implements reconcile.Adapter. Folder entries are dropped.
func (a *SyncAdapter) FetchDelta(ctx context.Context, userID, cursor string) (*reconcile.Delta, error) {
	page, err := a.api.Delta(ctx, a.root, cursor)
	if err != nil {
		switch {
		case provider.IsKind(err, provider.KindReset):
			return nil, fmt.Errorf("%w: %v", reconcile.ErrCursorReset, err)
		case provider.IsKind(err, provider.KindAuth):
			return nil, fmt.Errorf("%w: %v", ErrAccessDenied, err)
		}
		return nil, err
	}

	delta := &reconcile.Delta{
		Entries: make([]reconcile.Entry, 0, len(page.Entries)),
		Cursor:  page.Cursor,
		HasMore: page.HasMore,
	}
	for _, e := range page.Entries {
		if e.Metadata != nil && e.Metadata.IsDir() {
			continue
		}
		delta.Entries = append(delta.Entries, reconcile.Entry{
			Path:    strings.ToLower(e.Path),
			Deleted: e.Metadata == nil,
		})
	}
	return delta, nil
}

// Prepare implements reconcile.Preparer. It fetches the share key and the
// thumbnail for upserts. A share link failure fails the task. Any error the
// provider reports for the thumbnail falls back to the placeholder, while
// transport failures fail the task so it is retried.
func (a *SyncAdapter) Prepare(ctx context.Context, task reconcile.Task) (any, error) {
	if task.Type != reconcile.TaskUpsert {
		return nil, nil
	}

	link, err := a.api.CreateShareLink(ctx, task.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to share %s: %w", task.Path, err)
	}
	key, err := provider.ShareKey(link)
	if err != nil {
		return nil, err
	}

	payload := &upsertPayload{shareKey: key}
	payload.thumbnail, err = a.api.Thumbnail(ctx, task.Path, a.size, a.format)
	if err != nil {
		pe, ok := provider.AsError(err)
		if !ok {
			return nil, fmt.Errorf("failed to fetch thumbnail for %s: %w", task.Path, err)
		}
		a.logger.Warn("Thumbnail unavailable, using placeholder",
			zap.String("path", task.Path), zap.String("kind", string(pe.Kind)))
		payload.placeholder = true
		payload.thumbnail = nil
	}
	return payload, nil
}

// Apply implements reconcile.Adapter.
func (a *SyncAdapter) Apply(ctx context.Context, tx *gorm.DB, task reconcile.Task, prepared any) (reconcile.Outcome, error) {
	catalog := a.catalog.WithTx(tx)
	name := path.Base(task.Path)

	if task.Type == reconcile.TaskDelete {
		file, err := catalog.FindByPath(ctx, task.UserID, name)
		if err != nil || file == nil {
			return reconcile.Outcome{}, err
		}
		if err := catalog.DeleteFile(ctx, file.ID); err != nil {
			return reconcile.Outcome{}, err
		}
		id := file.ID
		return reconcile.Outcome{
			Counted: true,
			AfterCommit: func(ctx context.Context) error {
				if err := a.thumbs.Remove(ctx, id); err != nil {
					a.logger.Warn("Failed to remove thumbnail", zap.Uint("file_id", id), zap.Error(err))
				}
				return nil
			},
		}, nil
	}

	payload, ok := prepared.(*upsertPayload)
	if !ok {
		return reconcile.Outcome{}, errors.New("upsert task was not prepared")
	}

	file, err := catalog.FindForUpsert(ctx, task.UserID, name)
	if err != nil {
		return reconcile.Outcome{}, err
	}
	if file == nil {
		file = &File{Path: name, ShareKey: payload.shareKey, UserID: task.UserID}
		if err := catalog.CreateFile(ctx, file); err != nil {
			return reconcile.Outcome{}, err
		}
	}

	id := file.ID
	return reconcile.Outcome{
		Counted: true,
		AfterCommit: func(ctx context.Context) error {
			return a.storeThumbnail(ctx, id, payload)
		},
	}, nil
}

// storeThumbnail writes the fetched thumbnail, or the placeholder when none
// was fetched or the write failed.
func (a *SyncAdapter) storeThumbnail(ctx context.Context, id uint, payload *upsertPayload) error {
	if !payload.placeholder {
		err := a.thumbs.Save(ctx, id, payload.thumbnail)
		if err == nil {
			return nil
		}
		a.logger.Warn("Failed to store thumbnail, using placeholder", zap.Uint("file_id", id), zap.Error(err))
	}
	if err := a.thumbs.SavePlaceholder(ctx, id); err != nil {
		return fmt.Errorf("failed to store thumbnail %d: %w", id, err)
	}
	return nil
}
