package cmd

import (
	"context"
	"fmt"

	"picklr/core/config"
	"picklr/core/database"
	"picklr/core/logger"
	"picklr/core/provider"
	"picklr/core/reconcile"
	"picklr/core/storage"
	"picklr/core/thumbs"
	"picklr/feature/gallery"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// catalogModels lists every table picklr owns.
func catalogModels() []any {
	return append(gallery.Models(), &reconcile.Task{})
}

// bootstrap loads configuration, builds the logger and opens the catalog.
func bootstrap() (*config.Config, *zap.Logger, *gorm.DB, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return cfg, l, db, nil
}

// newThumbStore builds the configured thumbnail backend. Object storage is
// only contacted by the s3 driver.
func newThumbStore(ctx context.Context, cfg *config.Config) (thumbs.Store, error) {
	var client storage.Client
	if cfg.Thumbs.Driver == thumbs.DriverS3 {
		var err error
		client, err = storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
			return nil, err
		}
	}
	return thumbs.New(cfg.Thumbs, client, cfg.Storage.Bucket)
}

// galleryDeps assembles the gallery service dependencies.
func galleryDeps(cfg *config.Config, l *zap.Logger, db *gorm.DB, store thumbs.Store, clients *provider.Factory) gallery.Deps {
	return gallery.Deps{
		DB:       db,
		Clients:  clients,
		Thumbs:   store,
		Provider: cfg.Provider,
		ThumbCfg: cfg.Thumbs,
		Sync:     cfg.Sync,
		Gallery:  cfg.Gallery,
		Logger:   l,
	}
}
