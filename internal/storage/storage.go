package storage

import (
	"context"
	"errors"
	"fmt"

	"scrivener/internal/config"
)

// ErrBlobNotFound reports a read of a blob that does not exist.
var ErrBlobNotFound = errors.New("blob not found")

// Store is the blob storage contract the pipeline stages depend on.
type Store interface {
	// Upload copies a local file into container under name.
	Upload(ctx context.Context, container, name, sourcePath string) error
	// Put writes raw bytes into container under name.
	Put(ctx context.Context, container, name string, data []byte) error
	// Get reads a blob's full contents.
	Get(ctx context.Context, container, name string) ([]byte, error)
	// Download copies a blob to a local file.
	Download(ctx context.Context, container, name, destPath string) error
	// List returns the names of blobs in container starting with prefix,
	// in lexical order.
	List(ctx context.Context, container, prefix string) ([]string, error)
	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, container, name string) error
	// Copy duplicates a blob within the store.
	Copy(ctx context.Context, srcContainer, srcName, dstContainer, dstName string) error
}

// NewFromConfig constructs the backend selected by the configuration.
func NewFromConfig(cfg *config.Config) (Store, error) {
	switch cfg.Storage.Backend {
	case config.StorageBackendAzure:
		return NewAzureStore(cfg.Storage.AccountURL, cfg.Storage.SASToken, cfg.Storage.Timeout())
	case config.StorageBackendLocal:
		return NewLocalStore(cfg.Storage.LocalDir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
