package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all configuration for the titles dashboard
type Config struct {
	// Server configuration
	Port string `env:"PORT,default=8080"`

	// Dataset configuration
	DatasetPath       string        `env:"DATASET_PATH,default=netflix_titles.csv"`
	SourceTimeout     time.Duration `env:"SOURCE_TIMEOUT,default=30s"`
	SourceRetryCount  int           `env:"SOURCE_RETRY_COUNT,default=0"`
	TopCountriesLimit int           `env:"TOP_COUNTRIES_LIMIT,default=10"`

	// Storage configuration
	DeploymentMode string `env:"DEPLOYMENT_MODE,default=local"`
	LocalOutputDir string `env:"LOCAL_OUTPUT_DIR,default=./dashboards"`
	GCPProjectID   string `env:"GCP_PROJECT_ID"`
	GCSBucket      string `env:"GCS_BUCKET"`

	// OpenAI configuration, commentary is skipped without a key
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	OpenAIModel  string `env:"OPENAI_MODEL,default=gpt-4.1"`

	// Service configuration
	Environment string `env:"ENVIRONMENT,default=development"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	LogFormat   string `env:"LOG_FORMAT,default=auto"`
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	return LoadWithLookuper(ctx, envconfig.OsLookuper())
}

// LoadWithLookuper loads configuration from an arbitrary variable source
func LoadWithLookuper(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot check on its own
func (c *Config) Validate() error {
	switch c.DeploymentMode {
	case "local":
	case "gcs":
		if c.GCSBucket == "" {
			return fmt.Errorf("GCS_BUCKET is required when DEPLOYMENT_MODE=gcs")
		}
	default:
		return fmt.Errorf("unsupported DEPLOYMENT_MODE %q", c.DeploymentMode)
	}
	if c.TopCountriesLimit < 0 {
		return fmt.Errorf("TOP_COUNTRIES_LIMIT must not be negative, got %d", c.TopCountriesLimit)
	}
	if c.SourceRetryCount < 0 {
		return fmt.Errorf("SOURCE_RETRY_COUNT must not be negative, got %d", c.SourceRetryCount)
	}
	return nil
}

// CommentaryEnabled reports whether an OpenAI key is configured
func (c *Config) CommentaryEnabled() bool {
	return strings.TrimSpace(c.OpenAIAPIKey) != ""
}

// NeedsObjectStorage reports whether a Cloud Storage client is required
func (c *Config) NeedsObjectStorage() bool {
	return c.DeploymentMode == "gcs" || strings.HasPrefix(c.DatasetPath, "gs://")
}
