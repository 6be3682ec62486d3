package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"flixviz/internal/charts"
	"flixviz/internal/config"
	"flixviz/internal/llm"
	"flixviz/internal/logger"
	"flixviz/internal/reports"
	"flixviz/internal/source"
	"flixviz/internal/state"
	"flixviz/internal/storage"
)

// App holds the components shared by the HTTP service and the CLI
type App struct {
	Config    *config.Config
	Dashboard *state.Dashboard
	Loader    *source.Loader
	Storage   storage.StorageClient
	Charts    *charts.ChartGenerator
	Publisher *reports.Publisher

	// objects reads gs:// datasets when the storage itself is local
	objects *storage.GCSClient
	log     *logger.Logger
}

// New wires every component from cfg
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{
		Config: cfg,
		log:    logger.Component("app"),
	}

	store, err := storage.NewStorageClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.Storage = store

	loaderOpts := []source.Option{
		source.WithTimeout(cfg.SourceTimeout),
		source.WithRetryCount(cfg.SourceRetryCount),
	}
	if gcs, ok := store.(*storage.GCSClient); ok {
		loaderOpts = append(loaderOpts, source.WithObjectReader(gcs))
	} else if strings.HasPrefix(cfg.DatasetPath, "gs://") {
		objects, err := storage.NewGCSClient(ctx, cfg.GCSBucket)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to initialize dataset object reader: %w", err)
		}
		a.objects = objects
		loaderOpts = append(loaderOpts, source.WithObjectReader(objects))
	}
	a.Loader = source.NewLoader(loaderOpts...)

	// Keep the interface nil when commentary is disabled
	var commentator reports.Commentator
	if cfg.CommentaryEnabled() {
		commentator = llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	}

	a.Charts = charts.NewChartGenerator(filepath.Join(cfg.LocalOutputDir, "charts"))
	a.Publisher = reports.NewPublisher(store, reports.NewFileGenerator(a.Charts, commentator))
	a.Dashboard = state.NewDashboard(state.WithCountryLimit(cfg.TopCountriesLimit))

	a.log.Info("Components initialized", map[string]interface{}{
		"deployment_mode": cfg.DeploymentMode,
		"dataset":         cfg.DatasetPath,
		"commentary":      commentator != nil,
	})
	return a, nil
}

// LoadDataset loads the configured dataset into the dashboard, bounded by
// the source timeout. On failure every chart is left empty.
func (a *App) LoadDataset(ctx context.Context) error {
	if a.Config.SourceTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Config.SourceTimeout)
		defer cancel()
	}
	if err := a.Dashboard.LoadFrom(ctx, a.Loader, a.Config.DatasetPath); err != nil {
		return err
	}
	a.log.Info("Dataset loaded", map[string]interface{}{"records": a.Dashboard.Records()})
	return nil
}

// Close releases storage clients
func (a *App) Close() error {
	var firstErr error
	if a.objects != nil {
		firstErr = a.objects.Close()
	}
	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
