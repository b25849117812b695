package thumbs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"picklr/core/storage"

	"github.com/minio/minio-go/v7"
)

// BucketStore keeps thumbnails as <prefix>/<id>.jpg objects.
type BucketStore struct {
	client      storage.Client
	bucket      string
	prefix      string
	placeholder []byte
}

// NewBucketStore returns a store writing to bucket through client.
func NewBucketStore(client storage.Client, bucket, prefix string, placeholder []byte) *BucketStore {
	return &BucketStore{client: client, bucket: bucket, prefix: prefix, placeholder: placeholder}
}

// Key returns the object key a thumbnail id is stored at.
func (s *BucketStore) Key(id uint) string {
	return path.Join(s.prefix, FileName(id))
}

// Save uploads data as the thumbnail object of id.
func (s *BucketStore) Save(ctx context.Context, id uint, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, s.Key(id), bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "image/jpeg",
	})
	if err != nil {
		return fmt.Errorf("failed to upload thumbnail %d: %w", id, err)
	}
	return nil
}

// SavePlaceholder uploads the placeholder image as the thumbnail of id.
func (s *BucketStore) SavePlaceholder(ctx context.Context, id uint) error {
	return s.Save(ctx, id, s.placeholder)
}

// Remove deletes the thumbnail object of id. A missing key is ignored.
func (s *BucketStore) Remove(ctx context.Context, id uint) error {
	err := s.client.RemoveObject(ctx, s.bucket, s.Key(id), minio.RemoveObjectOptions{})
	if err != nil && !storage.IsNotFound(err) {
		return fmt.Errorf("failed to remove thumbnail %d: %w", id, err)
	}
	return nil
}

// Open reads the object fully so a missing key surfaces here rather than on
// the first Read.
func (s *BucketStore) Open(ctx context.Context, id uint) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.Key(id), minio.GetObjectOptions{})
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read thumbnail %d: %w", id, err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
