package storage

import (
	"context"
	"fmt"
	"strings"

	"flixviz/internal/config"
	"flixviz/internal/logger"
)

// DeploymentMode selects where dashboards are published
type DeploymentMode string

const (
	DeploymentLocal DeploymentMode = "local"
	DeploymentGCS   DeploymentMode = "gcs"
)

// defaultOutputDir is used when LOCAL_OUTPUT_DIR is empty
const defaultOutputDir = "dashboards"

// ParseDeploymentMode validates a DEPLOYMENT_MODE value
func ParseDeploymentMode(s string) (DeploymentMode, error) {
	switch mode := DeploymentMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case DeploymentLocal, DeploymentGCS:
		return mode, nil
	}
	return "", fmt.Errorf("unsupported deployment mode: %q", s)
}

// NewStorageClient opens the dashboard store selected by cfg.DeploymentMode:
// a directory under LocalOutputDir, or the GCSBucket bucket.
func NewStorageClient(ctx context.Context, cfg *config.Config) (StorageClient, error) {
	mode, err := ParseDeploymentMode(cfg.DeploymentMode)
	if err != nil {
		return nil, err
	}

	log := logger.Component("storage")
	switch mode {
	case DeploymentGCS:
		if cfg.GCSBucket == "" {
			return nil, fmt.Errorf("dashboards cannot be published to GCS without a bucket")
		}
		client, err := NewGCSClient(ctx, cfg.GCSBucket)
		if err != nil {
			return nil, fmt.Errorf("failed to open dashboard bucket %s: %w", cfg.GCSBucket, err)
		}
		log.Info("Publishing dashboards to GCS", map[string]interface{}{"bucket": cfg.GCSBucket})
		return client, nil

	default:
		outputDir := cfg.LocalOutputDir
		if outputDir == "" {
			outputDir = defaultOutputDir
		}
		client, err := NewLocalStorageClient(outputDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open dashboard directory %s: %w", outputDir, err)
		}
		log.Info("Publishing dashboards locally", map[string]interface{}{"dir": outputDir})
		return client, nil
	}
}
