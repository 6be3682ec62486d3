package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flixviz/internal/app"
	"flixviz/internal/config"
	"flixviz/internal/logger"
	"flixviz/internal/server"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFormat); err != nil {
		logger.Fatal("Failed to configure logging", err)
	}

	logger.Info("Starting Netflix titles dashboard", map[string]interface{}{
		"port":            cfg.Port,
		"environment":     cfg.Environment,
		"deployment_mode": cfg.DeploymentMode,
		"version":         config.GetVersion(),
	})

	a, err := app.New(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize components", err)
	}
	defer a.Close()

	// The service stays up with empty charts when the dataset is unavailable
	if err := a.LoadDataset(ctx); err != nil {
		logger.Error("Failed to load dataset, serving empty charts", err, map[string]interface{}{"dataset": cfg.DatasetPath})
	}

	srv := server.NewServer(cfg, a.Dashboard, a.Charts, a.Publisher, a.Storage)
	httpServer := newHTTPServer(cfg, srv.SetupRoutes())

	go func() {
		logger.Info("Server listening", map[string]interface{}{"addr": httpServer.Addr})
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", err)
	}

	logger.Info("Server stopped")
}

func newHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // publishing renders every chart
		IdleTimeout:  60 * time.Second,
	}
}
