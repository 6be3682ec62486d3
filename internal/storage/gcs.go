package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"flixviz/internal/logger"
)

// GCSClient handles Google Cloud Storage operations
type GCSClient struct {
	client *storage.Client
	bucket string
	log    *logger.Logger
}

// NewGCSClient creates a new GCS client
func NewGCSClient(ctx context.Context, bucketName string) (*GCSClient, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSClient{
		client: client,
		bucket: bucketName,
		log:    logger.Component("gcs"),
	}, nil
}

// Close closes the GCS client
func (g *GCSClient) Close() error {
	return g.client.Close()
}

// CreateDir is a no-op: GCS has no directories, only object prefixes
func (g *GCSClient) CreateDir(ctx context.Context, dirPath string) error {
	return nil
}

// StoreFile uploads an object with a content type derived from its extension
func (g *GCSClient) StoreFile(ctx context.Context, filePath string, fileData []byte) error {
	objectPath := cleanPath(filePath)
	g.log.Debug("Storing file to GCS", map[string]interface{}{"bucket": g.bucket, "object": objectPath})

	writer := g.client.Bucket(g.bucket).Object(objectPath).NewWriter(ctx)
	writer.ContentType = GetContentType(objectPath)
	writer.CacheControl = "public, max-age=3600"
	writer.Metadata = map[string]string{
		"generated-at": time.Now().UTC().Format(time.RFC3339),
	}

	if _, err := writer.Write(fileData); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write file to GCS: %w", err)
	}

	// Close finalizes the upload
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize GCS file upload: %w", err)
	}

	g.log.Info("File stored", map[string]interface{}{"object": objectPath, "bytes": len(fileData)})
	return nil
}

// GetFile retrieves an object from the client's bucket
func (g *GCSClient) GetFile(ctx context.Context, filePath string) ([]byte, error) {
	return g.ReadObject(ctx, g.bucket, cleanPath(filePath))
}

// ReadObject reads an object from any bucket. It lets the GCS client serve
// gs:// dataset locations.
func (g *GCSClient) ReadObject(ctx context.Context, bucket, object string) ([]byte, error) {
	reader, err := g.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create reader for gs://%s/%s: %w", bucket, object, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read gs://%s/%s: %w", bucket, object, err)
	}
	return data, nil
}

// ListDir lists object names below a prefix. Without recursive, nested
// prefixes are returned once, ending in "/".
func (g *GCSClient) ListDir(ctx context.Context, dirPath string, recursive bool) ([]string, error) {
	prefix := cleanPath(dirPath)
	if prefix != "" {
		prefix += "/"
	}

	query := &storage.Query{Prefix: prefix}
	if !recursive {
		query.Delimiter = "/"
	}

	it := g.client.Bucket(g.bucket).Objects(ctx, query)

	var paths []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		if attrs.Prefix != "" {
			paths = append(paths, attrs.Prefix)
			continue
		}
		if !strings.HasSuffix(attrs.Name, "/") {
			paths = append(paths, attrs.Name)
		}
	}

	sort.Strings(paths)
	return paths, nil
}

// FileExists checks whether an object exists
func (g *GCSClient) FileExists(ctx context.Context, filePath string) (bool, error) {
	_, err := g.client.Bucket(g.bucket).Object(cleanPath(filePath)).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat object %s: %w", filePath, err)
	}
	return true, nil
}
