// Package storage wraps the MinIO Go client for thumbnail object storage.
//
// It works against AWS S3 and self-hosted MinIO. The Client interface is the
// subset of operations the thumbnail bucket store needs, so tests can use the
// testify mock in core/storage/mocks.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
//	    return err
//	}
package storage
