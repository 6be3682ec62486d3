package reports

import (
	"context"
	"fmt"
	"path"

	"golang.org/x/sync/errgroup"

	"flixviz/internal/logger"
	"flixviz/internal/storage"
)

// defaultUploadConcurrency bounds parallel uploads per dashboard
const defaultUploadConcurrency = 4

// Publisher generates dashboard files and stores them
type Publisher struct {
	storage     storage.StorageClient
	generator   *FileGenerator
	concurrency int
	log         *logger.Logger
}

// PublishResult describes a published dashboard
type PublishResult struct {
	FolderPath string   `json:"folder_path"`
	Files      []string `json:"files"`
}

// NewPublisher creates a new publisher
func NewPublisher(store storage.StorageClient, generator *FileGenerator) *Publisher {
	return &Publisher{
		storage:     store,
		generator:   generator,
		concurrency: defaultUploadConcurrency,
		log:         logger.Component("publisher"),
	}
}

// Publish writes index.html, charts.html, the chart images and views.json
// into a timestamped folder of the storage.
func (p *Publisher) Publish(ctx context.Context, in Input) (*PublishResult, error) {
	files, err := p.generator.GenerateAllFiles(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("failed to generate dashboard: %w", err)
	}

	if err := p.storage.CreateDir(ctx, files.FolderPath); err != nil {
		return nil, fmt.Errorf("failed to create dashboard folder: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	names := files.Names()
	stored := make([]string, len(names))
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			target := path.Join(files.FolderPath, name)
			if err := p.storage.StoreFile(gctx, target, files.Files[name]); err != nil {
				return fmt.Errorf("failed to store %s: %w", name, err)
			}
			stored[i] = target
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	p.log.Info("Dashboard published", map[string]interface{}{"folder": files.FolderPath, "files": len(stored)})
	return &PublishResult{FolderPath: files.FolderPath, Files: stored}, nil
}
