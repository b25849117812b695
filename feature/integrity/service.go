package integrity

import (
	"context"

	"picklr/core/thumbs"
	"picklr/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles integrity checks.
type Service struct {
	db     *gorm.DB
	store  thumbs.Store
	models []any
	logger *zap.Logger
}

// NewService creates a new integrity service. models are the tables the
// schema check expects.
func NewService(db *gorm.DB, store thumbs.Store, models []any, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: db, store: store, models: models, logger: logger}
}

// CheckSchema reports missing tables and columns.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db, s.models...)
}

// CheckThumbnails returns the user's files without a thumbnail.
func (s *Service) CheckThumbnails(ctx context.Context, userID string) ([]uint, error) {
	return checks.MissingThumbnails(ctx, s.db, s.store, userID)
}

// FixThumbnails writes placeholders for the given files.
func (s *Service) FixThumbnails(ctx context.Context, ids []uint) error {
	return checks.FixThumbnails(ctx, s.store, s.logger, ids)
}
