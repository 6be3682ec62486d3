// Package main provides the CLI that renders and publishes the titles dashboard.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"flixviz/internal/app"
	"flixviz/internal/charts"
	"flixviz/internal/config"
	"flixviz/internal/logger"
	"flixviz/internal/models"
	"flixviz/internal/reports"
	"flixviz/internal/state"
)

// options are the command line flags
type options struct {
	output     string
	genre      string
	year       int
	mode       string
	sort       string
	gcsBucket  string
	commentary bool
	images     bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "render-charts [dataset]",
		Short: "Render the Netflix titles dashboard",
		Long: `render-charts loads a titles dataset (CSV or XLSX from a file, http(s) or gs:// URL),
renders the four dashboard charts and publishes them to local or Cloud Storage.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output directory (default: LOCAL_OUTPUT_DIR)")
	cmd.Flags().StringVar(&opts.genre, "genre", "", "Genre for the popularity-over-time chart")
	cmd.Flags().IntVar(&opts.year, "year", 0, "Release year for the top countries chart (default: earliest)")
	cmd.Flags().StringVar(&opts.mode, "mode", string(models.ModeCount), "Metric mode: count or percent")
	cmd.Flags().StringVar(&opts.sort, "sort", string(models.SortDesc), "Rating sort order: asc or desc")
	cmd.Flags().StringVar(&opts.gcsBucket, "gcs", "", "Publish to this Cloud Storage bucket instead of the local directory")
	cmd.Flags().BoolVar(&opts.commentary, "commentary", true, "Generate commentary when OPENAI_API_KEY is set")
	cmd.Flags().BoolVar(&opts.images, "images", false, "Also write chart PNGs to <output>/charts")

	return cmd
}

func run(cmd *cobra.Command, args []string, opts *options) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}
	if err := applyOptions(cfg, args, opts); err != nil {
		return err
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.LoadDataset(ctx); err != nil {
		return fmt.Errorf("failed to load dataset %s: %w", cfg.DatasetPath, err)
	}
	if err := applySelections(a.Dashboard, opts); err != nil {
		return err
	}

	result, err := a.Publisher.Publish(ctx, reports.Input{
		Views:       a.Dashboard.Views(),
		DatasetPath: cfg.DatasetPath,
		Records:     a.Dashboard.Records(),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Published %d files to %s\n", len(result.Files), result.FolderPath)

	if opts.images {
		return writeImages(cmd.OutOrStdout(), a.Charts, a.Dashboard.Views())
	}
	return nil
}

// writeImages saves a PNG of every chart that has data
func writeImages(w io.Writer, gen *charts.ChartGenerator, views []state.View) error {
	for _, v := range views {
		if v.Empty() {
			continue
		}
		path, err := gen.WritePNG(v)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Wrote %s\n", path)
	}
	return nil
}

// applyOptions overrides environment configuration with flags
func applyOptions(cfg *config.Config, args []string, opts *options) error {
	if len(args) == 1 {
		cfg.DatasetPath = args[0]
	}
	if opts.output != "" {
		cfg.LocalOutputDir = opts.output
	}
	if opts.gcsBucket != "" {
		cfg.DeploymentMode = "gcs"
		cfg.GCSBucket = opts.gcsBucket
	}
	if !opts.commentary {
		cfg.OpenAIAPIKey = ""
	}
	return cfg.Validate()
}

// applySelections turns flags into chart events
func applySelections(d *state.Dashboard, opts *options) error {
	type selection struct {
		kinds   []models.ChartKind
		control string
		value   string
	}

	selections := []selection{
		{models.AllKinds, "mode", opts.mode},
		{[]models.ChartKind{models.KindRatingDistribution}, "sort", opts.sort},
	}
	if opts.genre != "" {
		selections = append(selections, selection{[]models.ChartKind{models.KindGenreTrend}, "genre", opts.genre})
	}
	if opts.year != 0 {
		selections = append(selections, selection{[]models.ChartKind{models.KindTopCountries}, "year", strconv.Itoa(opts.year)})
	}

	for _, sel := range selections {
		event, err := state.ParseEvent(sel.control, sel.value)
		if err != nil {
			return err
		}
		for _, kind := range sel.kinds {
			cs, err := d.State(kind)
			if err != nil {
				return err
			}
			if err := cs.Dispatch(event); err != nil {
				return fmt.Errorf("--%s %s: %w", sel.control, sel.value, err)
			}
		}
	}
	return nil
}
