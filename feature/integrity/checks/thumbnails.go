package checks

import (
	"context"
	"errors"
	"fmt"

	"picklr/core/thumbs"
	"picklr/feature/gallery"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MissingThumbnails returns the ids of the user's files that have no stored
// thumbnail.
func MissingThumbnails(ctx context.Context, db *gorm.DB, store thumbs.Store, userID string) ([]uint, error) {
	var ids []uint
	if err := db.WithContext(ctx).Model(&gallery.File{}).Where("user_id = ?", userID).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}

	missing := []uint{}
	for _, id := range ids {
		rc, err := store.Open(ctx, id)
		if errors.Is(err, thumbs.ErrNotFound) {
			missing = append(missing, id)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to open thumbnail %d: %w", id, err)
		}
		rc.Close()
	}
	return missing, nil
}

// FixThumbnails stores the placeholder for every id.
func FixThumbnails(ctx context.Context, store thumbs.Store, logger *zap.Logger, ids []uint) error {
	for _, id := range ids {
		if err := store.SavePlaceholder(ctx, id); err != nil {
			return fmt.Errorf("failed to write placeholder for %d: %w", id, err)
		}
		logger.Info("Placeholder thumbnail written", zap.Uint("file_id", id))
	}
	return nil
}
