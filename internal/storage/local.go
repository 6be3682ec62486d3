package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// LocalStorageClient handles local file system storage operations
type LocalStorageClient struct {
	baseDir string
}

// NewLocalStorageClient creates a new local storage client rooted at baseDir
func NewLocalStorageClient(baseDir string) (*LocalStorageClient, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory %s: %w", baseDir, err)
	}

	return &LocalStorageClient{
		baseDir: baseDir,
	}, nil
}

// BaseDir returns the root directory of the storage
func (l *LocalStorageClient) BaseDir() string {
	return l.baseDir
}

// Close is a no-op for local storage (implements same interface as GCSClient)
func (l *LocalStorageClient) Close() error {
	return nil
}

func (l *LocalStorageClient) fullPath(p string) string {
	return filepath.Join(l.baseDir, filepath.FromSlash(cleanPath(p)))
}

// CreateDir creates a directory below the base directory
func (l *LocalStorageClient) CreateDir(ctx context.Context, dirPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := l.fullPath(dirPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// StoreFile writes a file, creating parent directories as needed
func (l *LocalStorageClient) StoreFile(ctx context.Context, filePath string, fileData []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full := l.fullPath(filePath)

	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(full, fileData, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", full, err)
	}
	return nil
}

// GetFile retrieves any file from local storage
func (l *LocalStorageClient) GetFile(ctx context.Context, filePath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(l.fullPath(filePath))
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}
	return data, nil
}

// ListDir lists file paths below dirPath, relative to the base directory and sorted.
// Without recursive only the direct children are returned; directories end in "/".
func (l *LocalStorageClient) ListDir(ctx context.Context, dirPath string, recursive bool) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	root := l.fullPath(dirPath)

	var paths []string
	if !recursive {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, fmt.Errorf("failed to list directory %s: %w", dirPath, err)
		}
		for _, e := range entries {
			rel := l.relPath(filepath.Join(root, e.Name()))
			if e.IsDir() {
				rel += "/"
			}
			paths = append(paths, rel)
		}
		sort.Strings(paths)
		return paths, nil
	}

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			paths = append(paths, l.relPath(p))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", dirPath, err)
	}
	sort.Strings(paths)
	return paths, nil
}

func (l *LocalStorageClient) relPath(p string) string {
	rel, err := filepath.Rel(l.baseDir, p)
	if err != nil {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(rel)
}

// FileExists checks if a file exists at the specified path
func (l *LocalStorageClient) FileExists(ctx context.Context, filePath string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	info, err := os.Stat(l.fullPath(filePath))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", filePath, err)
	}
	return !info.IsDir(), nil
}
