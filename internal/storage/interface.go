package storage

import (
	"context"
)

// StorageClient holds published dashboards: one timestamped folder per
// publish containing index.html, charts.html, views.json, styles.css, the
// chart PNGs and optional commentary. Paths are slash separated and relative
// to the root of the store.
type StorageClient interface {
	// Close releases the underlying client
	Close() error

	// CreateDir prepares a dashboard folder. Object stores have no
	// directories and treat this as a no-op.
	CreateDir(ctx context.Context, dirPath string) error

	// StoreFile writes one dashboard artifact, replacing any previous copy
	StoreFile(ctx context.Context, filePath string, fileData []byte) error

	// GetFile reads an artifact back for the file proxy
	GetFile(ctx context.Context, filePath string) ([]byte, error)

	// ListDir lists the entries under dirPath in sorted order
	ListDir(ctx context.Context, dirPath string, recursive bool) ([]string, error)

	// FileExists reports whether an artifact is present
	FileExists(ctx context.Context, filePath string) (bool, error)
}
