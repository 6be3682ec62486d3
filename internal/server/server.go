package server

import (
	"context"
	"net/http"
	"sync"

	"flixviz/internal/charts"
	"flixviz/internal/config"
	"flixviz/internal/logger"
	"flixviz/internal/reports"
	"flixviz/internal/source"
	"flixviz/internal/state"
	"flixviz/internal/storage"
)

// Server represents the main application server
type Server struct {
	Config    *config.Config
	Dashboard *state.Dashboard
	Charts    *charts.ChartGenerator
	Publisher *reports.Publisher
	Storage   storage.StorageClient

	// mu serializes every access to Dashboard
	mu sync.Mutex
	// publishMutex rejects concurrent publish requests
	publishMutex sync.Mutex

	log *logger.Logger
}

// NewServer creates a new server instance. publisher and store may be nil,
// which disables publishing and the file proxy.
func NewServer(cfg *config.Config, dashboard *state.Dashboard, chartGen *charts.ChartGenerator,
	publisher *reports.Publisher, store storage.StorageClient) *Server {
	return &Server{
		Config:    cfg,
		Dashboard: dashboard,
		Charts:    chartGen,
		Publisher: publisher,
		Storage:   store,
		log:       logger.Component("server"),
	}
}

// SetupRoutes configures HTTP routes for the server
func (s *Server) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.HandleHealth)
	mux.HandleFunc("GET /{$}", s.HandleRoot)

	mux.HandleFunc("GET /api/charts", s.HandleListCharts)
	mux.HandleFunc("GET /api/charts/{kind}", s.HandleGetChart)
	mux.HandleFunc("GET /api/charts/{kind}/options", s.HandleChartOptions)
	mux.HandleFunc("POST /api/charts/{kind}/events", s.HandleChartEvent)
	mux.HandleFunc("GET /api/charts/{kind}/point", s.HandleChartPoint)
	mux.HandleFunc("GET /charts/{file}", s.HandleChartImage)

	mux.HandleFunc("POST /publish", s.HandlePublish)
	mux.HandleFunc("GET /files/{path...}", s.HandleFileProxy)

	return mux
}

// withDashboard runs fn while holding the dashboard lock
func (s *Server) withDashboard(fn func(d *state.Dashboard)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.Dashboard)
}

// Reload replaces the dataset of every chart
func (s *Server) Reload(ctx context.Context, src source.RecordSource, location string) error {
	var err error
	s.withDashboard(func(d *state.Dashboard) {
		err = d.LoadFrom(ctx, src, location)
	})
	return err
}

// Close cleans up server resources
func (s *Server) Close() error {
	if s.Storage != nil {
		return s.Storage.Close()
	}
	return nil
}
