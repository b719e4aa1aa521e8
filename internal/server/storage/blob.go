// Package storage keeps attachment bytes outside the database when an
// object store is configured.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/earsip/internal/server/config"
	"github.com/google/uuid"
)

// BlobStore persists attachment payloads under opaque keys.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// NewKey returns a fresh object key partitioned by upload date.
func NewKey(now time.Time) string {
	return fmt.Sprintf("letters/%d/%02d/%02d/%s", now.Year(), now.Month(), now.Day(), uuid.New())
}

// New returns the BlobStore selected by cfg.StorageBackend. The database
// backend keeps bytes in the files table and needs no store, so New returns
// nil for it.
func New(ctx context.Context, cfg *config.Config) (BlobStore, error) {
	switch cfg.StorageBackend {
	case config.StorageS3:
		store, err := NewS3Store(ctx, S3Config{
			Region:    cfg.S3Region,
			AccessKey: cfg.S3RootUser,
			SecretKey: cfg.S3RootPassword,
			Endpoint:  cfg.S3BaseEndpoint,
			Bucket:    cfg.S3Bucket,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StorageDatabase, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
