// Package source loads the titles dataset from local files, HTTP(S) URLs
// or Cloud Storage objects.
package source

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"flixviz/internal/logger"
	"flixviz/internal/models"

	"github.com/go-resty/resty/v2"
)

var (
	// ErrSourceUnavailable means the dataset could not be reached
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrMalformedSource means the dataset was reached but could not be parsed
	ErrMalformedSource = errors.New("malformed source")
)

// RecordSource yields the parsed dataset
type RecordSource interface {
	Load(ctx context.Context, location string) ([]models.Record, error)
}

// ObjectReader reads a whole object from a bucket
type ObjectReader interface {
	ReadObject(ctx context.Context, bucket, object string) ([]byte, error)
}

// Loader is the default RecordSource. It understands plain paths,
// file:// and http(s):// URLs, and gs://bucket/object when an ObjectReader
// is configured.
type Loader struct {
	client  *resty.Client
	objects ObjectReader
	log     *logger.Logger
}

// Option configures a Loader
type Option func(*Loader)

// WithTimeout bounds each HTTP request
func WithTimeout(d time.Duration) Option {
	return func(l *Loader) {
		if d > 0 {
			l.client.SetTimeout(d)
		}
	}
}

// WithRetryCount enables HTTP retries. The default is no retries.
func WithRetryCount(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.client.SetRetryCount(n)
			l.client.SetRetryWaitTime(2 * time.Second)
		}
	}
}

// WithObjectReader enables gs:// locations
func WithObjectReader(r ObjectReader) Option {
	return func(l *Loader) {
		l.objects = r
	}
}

// NewLoader creates a Loader with a 30 second HTTP timeout
func NewLoader(opts ...Option) *Loader {
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetHeader("User-Agent", "flixviz/1.0")

	l := &Loader{
		client: client,
		log:    logger.GetGlobalLogger().WithComponent("source"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches and decodes the dataset at location
func (l *Loader) Load(ctx context.Context, location string) ([]models.Record, error) {
	start := time.Now()
	data, err := l.fetch(ctx, location)
	if err != nil {
		l.log.Error("Failed to fetch dataset", err, map[string]interface{}{"location": location})
		return nil, err
	}

	records, err := Decode(data, location)
	if err != nil {
		l.log.Error("Failed to decode dataset", err, map[string]interface{}{"location": location})
		return nil, err
	}

	l.log.Info("Dataset loaded", map[string]interface{}{
		"location": location,
		"bytes":    len(data),
		"records":  len(records),
		"duration": time.Since(start).String(),
	})
	return records, nil
}

func (l *Loader) fetch(ctx context.Context, location string) ([]byte, error) {
	if strings.TrimSpace(location) == "" {
		return nil, fmt.Errorf("%w: empty location", ErrSourceUnavailable)
	}

	switch {
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return l.fetchHTTP(ctx, location)
	case strings.HasPrefix(location, "gs://"):
		return l.fetchObject(ctx, location)
	case strings.HasPrefix(location, "file://"):
		u, err := url.Parse(location)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid file URL %q: %v", ErrSourceUnavailable, location, err)
		}
		return readFile(u.Path)
	default:
		return readFile(location)
	}
}

func (l *Loader) fetchHTTP(ctx context.Context, location string) ([]byte, error) {
	resp, err := l.client.R().
		SetContext(ctx).
		Get(location)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, location, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrSourceUnavailable, location, resp.StatusCode())
	}
	return resp.Body(), nil
}

func (l *Loader) fetchObject(ctx context.Context, location string) ([]byte, error) {
	if l.objects == nil {
		return nil, fmt.Errorf("%w: no object storage configured for %s", ErrSourceUnavailable, location)
	}
	bucket, object, err := ParseObjectURL(location)
	if err != nil {
		return nil, err
	}
	data, err := l.objects.ReadObject(ctx, bucket, object)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, location, err)
	}
	return data, nil
}

// ParseObjectURL splits gs://bucket/path/to/object
func ParseObjectURL(location string) (bucket, object string, err error) {
	rest, ok := strings.CutPrefix(location, "gs://")
	if !ok {
		return "", "", fmt.Errorf("%w: not a gs:// URL: %q", ErrSourceUnavailable, location)
	}
	bucket, object, _ = strings.Cut(rest, "/")
	if bucket == "" || object == "" {
		return "", "", fmt.Errorf("%w: gs:// URL needs bucket and object: %q", ErrSourceUnavailable, location)
	}
	return bucket, object, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return data, nil
}
