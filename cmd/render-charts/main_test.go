package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"flixviz/internal/config"
	"flixviz/internal/models"
	"flixviz/internal/state"
)

const titlesCSV = `show_id,type,title,country,release_year,rating,listed_in
s1,Movie,A,India,2019,TV-MA,"Dramas, International Movies"
s2,TV Show,B,Japan,2020,TV-Y,Kids' TV
s3,Movie,C,"United States, India",2019,PG-13,Comedies
s4,TV Show,D,France,2020,TV-MA,TV Dramas
`

func testDashboard() *state.Dashboard {
	d := state.NewDashboard()
	d.Load([]models.Record{
		{"type": "Movie", "listed_in": "Dramas", "release_year": "2019", "country": "India", "rating": "TV-MA"},
		{"type": "TV Show", "listed_in": "Kids' TV", "release_year": "2020", "country": "Japan", "rating": "TV-Y"},
	})
	return d
}

func TestApplyOptions(t *testing.T) {
	cfg := &config.Config{DatasetPath: "netflix_titles.csv", DeploymentMode: "local", OpenAIAPIKey: "key"}
	opts := &options{output: "out", gcsBucket: "bucket", commentary: false}

	if err := applyOptions(cfg, []string{"other.csv"}, opts); err != nil {
		t.Fatalf("applyOptions failed: %v", err)
	}
	if cfg.DatasetPath != "other.csv" || cfg.LocalOutputDir != "out" {
		t.Errorf("Unexpected paths %+v", cfg)
	}
	if cfg.DeploymentMode != "gcs" || cfg.GCSBucket != "bucket" {
		t.Errorf("Expected gcs deployment, got %s %s", cfg.DeploymentMode, cfg.GCSBucket)
	}
	if cfg.CommentaryEnabled() {
		t.Error("Expected commentary to be disabled")
	}
}

func TestApplySelections(t *testing.T) {
	d := testDashboard()
	opts := &options{genre: "dramas", year: 2020, mode: "percent", sort: "asc"}

	if err := applySelections(d, opts); err != nil {
		t.Fatalf("applySelections failed: %v", err)
	}

	for _, v := range d.Views() {
		if v.Config.MetricMode != models.ModePercent {
			t.Errorf("%s: expected percent mode", v.Kind)
		}
	}

	trend, _ := d.State(models.KindGenreTrend)
	if trend.Config().Genre != "Dramas" {
		t.Errorf("Expected canonical genre Dramas, got %q", trend.Config().Genre)
	}
	countries, _ := d.State(models.KindTopCountries)
	if y := countries.Config().Year; y == nil || *y != 2020 {
		t.Errorf("Expected year 2020, got %v", y)
	}
	ratings, _ := d.State(models.KindRatingDistribution)
	if ratings.Config().SortOrder != models.SortAsc {
		t.Errorf("Expected ascending sort, got %s", ratings.Config().SortOrder)
	}
}

func TestApplySelectionsRejected(t *testing.T) {
	tests := []struct {
		name string
		opts options
	}{
		{"bad mode", options{mode: "ratio", sort: "desc"}},
		{"bad sort", options{mode: "count", sort: "sideways"}},
		{"unknown genre", options{mode: "count", sort: "desc", genre: "Westerns"}},
		{"unknown year", options{mode: "count", sort: "desc", year: 1900}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := applySelections(testDashboard(), &tt.opts)
			if !errors.Is(err, state.ErrInvalidConfiguration) {
				t.Errorf("Expected ErrInvalidConfiguration, got %v", err)
			}
		})
	}
}

func TestRootCommand(t *testing.T) {
	dir := t.TempDir()
	dataset := filepath.Join(dir, "titles.csv")
	if err := os.WriteFile(dataset, []byte(titlesCSV), 0644); err != nil {
		t.Fatalf("Failed to write dataset: %v", err)
	}
	output := filepath.Join(dir, "out")

	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("DEPLOYMENT_MODE", "local")

	cmd := newRootCmd()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{dataset, "--output", output, "--genre", "Dramas", "--year", "2020", "--mode", "percent", "--images"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.Contains(stdout.String(), "Published") {
		t.Errorf("Unexpected output %q", stdout.String())
	}

	matches, err := filepath.Glob(filepath.Join(output, "*", "*", "*", "Dashboard-*", "index.html"))
	if err != nil || len(matches) != 1 {
		t.Errorf("Expected one published dashboard, got %v", matches)
	}

	for _, kind := range models.AllKinds {
		if _, err := os.Stat(filepath.Join(output, "charts", string(kind)+".png")); err != nil {
			t.Errorf("Expected %s image: %v", kind, err)
		}
	}
}

func TestRootCommandMissingDataset(t *testing.T) {
	t.Setenv("DEPLOYMENT_MODE", "local")

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "missing.csv"), "--output", t.TempDir()})

	if err := cmd.Execute(); err == nil {
		t.Error("Expected error for missing dataset")
	}
}
