package thumbs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"io"
	"os"
	"strconv"
	"sync"

	"picklr/core/storage"
)

// Store keeps one thumbnail per catalog row, addressed by the row id.
type Store interface {
	// Save writes data as the thumbnail of id, replacing any previous one.
	Save(ctx context.Context, id uint, data []byte) error
	// SavePlaceholder writes the placeholder image as the thumbnail of id.
	SavePlaceholder(ctx context.Context, id uint) error
	// Remove deletes the thumbnail of id. A missing thumbnail is not an error.
	Remove(ctx context.Context, id uint) error
	// Open returns the thumbnail of id.
	Open(ctx context.Context, id uint) (io.ReadCloser, error)
}

// ErrNotFound is returned by Open when no thumbnail exists for an id.
var ErrNotFound = errors.New("thumbnail not found")

// New builds the store selected by cfg.Driver. client is only used by the
// s3 driver and may be nil otherwise.
func New(cfg Config, client storage.Client, bucket string) (Store, error) {
	placeholder, err := LoadPlaceholder(cfg.Placeholder)
	if err != nil {
		return nil, err
	}

	switch cfg.Driver {
	case DriverLocal, "":
		return NewLocalStore(cfg.Dir, placeholder)
	case DriverS3:
		if client == nil {
			return nil, fmt.Errorf("s3 thumbnail store requires a storage client")
		}
		return NewBucketStore(client, bucket, cfg.Prefix, placeholder), nil
	default:
		return nil, fmt.Errorf("unsupported thumbnail driver: %s", cfg.Driver)
	}
}

// FileName is the name a thumbnail is stored under.
func FileName(id uint) string {
	return strconv.FormatUint(uint64(id), 10) + ".jpg"
}

var (
	defaultPlaceholderOnce sync.Once
	defaultPlaceholder     []byte
)

// LoadPlaceholder reads the placeholder image at path, or returns a
// generated grey 128x128 JPEG when path is empty.
func LoadPlaceholder(path string) ([]byte, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read placeholder %s: %w", path, err)
		}
		return data, nil
	}

	defaultPlaceholderOnce.Do(func() {
		img := image.NewRGBA(image.Rect(0, 0, 128, 128))
		draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{R: 0xdd, G: 0xdd, B: 0xdd, A: 0xff}}, image.Point{}, draw.Src)
		var buf bytes.Buffer
		_ = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80})
		defaultPlaceholder = buf.Bytes()
	})
	return defaultPlaceholder, nil
}
