package charts

import (
	"bytes"
	"strings"
	"testing"

	"flixviz/internal/models"
	"flixviz/internal/state"
)

func TestSnippet(t *testing.T) {
	generator := NewChartGenerator(t.TempDir())

	for _, v := range loadedViews(t) {
		t.Run(string(v.Kind), func(t *testing.T) {
			snippet, err := generator.Snippet(v)
			if err != nil {
				t.Fatalf("Snippet failed: %v", err)
			}
			if snippet.ID != "chart-"+string(v.Kind) {
				t.Errorf("Expected ID chart-%s, got %s", v.Kind, snippet.ID)
			}
			if snippet.Title != v.Title {
				t.Errorf("Expected title %q, got %q", v.Title, snippet.Title)
			}
			if !strings.Contains(snippet.HTML, snippet.ID) {
				t.Error("Expected chart id in HTML")
			}
			if !strings.Contains(snippet.HTML, "echarts") {
				t.Error("Expected echarts script in HTML")
			}
			if !strings.Contains(snippet.HTML, "Count: ") || !strings.Contains(snippet.HTML, "Percent: ") {
				t.Error("Expected tooltip with count and percent in HTML")
			}
		})
	}
}

func TestSnippetEmptyView(t *testing.T) {
	generator := NewChartGenerator(t.TempDir())

	snippet, err := generator.Snippet(state.New(models.KindGenreTrend).View())
	if err != nil {
		t.Fatalf("Expected empty view to render, got %v", err)
	}
	if snippet.HTML == "" {
		t.Error("Expected HTML for empty view")
	}
}

func TestPage(t *testing.T) {
	generator := NewChartGenerator(t.TempDir())

	var buf bytes.Buffer
	if err := generator.Page(loadedViews(t), &buf); err != nil {
		t.Fatalf("Page failed: %v", err)
	}

	html := buf.String()
	for _, kind := range models.AllKinds {
		if !strings.Contains(html, "chart-"+string(kind)) {
			t.Errorf("Expected %s chart on page", kind)
		}
	}
}

func TestTooltipFormatter(t *testing.T) {
	records := []models.Record{
		{"type": "Movie", "release_year": "2020", "country": "India"},
		{"type": "Movie", "release_year": "2020", "country": "India"},
		{"type": "TV Show", "release_year": "2020", "country": "Japan"},
	}

	split := state.New(models.KindTypeSplit)
	split.Load(records)
	if err := split.SetMetricMode(models.ModePercent); err != nil {
		t.Fatalf("SetMetricMode failed: %v", err)
	}

	formatter := tooltipFormatter(split.View())
	for _, want := range []string{"var counts = [2,1];", "var shares = [66.7,33.3];", "Count: ", "Percent: "} {
		if !strings.Contains(formatter, want) {
			t.Errorf("Expected %q in formatter %q", want, formatter)
		}
	}

	// Horizontal bars are drawn bottom-up, so their details are reversed
	countries := state.New(models.KindTopCountries)
	countries.Load(records)
	formatter = tooltipFormatter(countries.View())
	if !strings.Contains(formatter, "var counts = [1,2];") {
		t.Errorf("Expected reversed counts for horizontal bars, got %q", formatter)
	}
}

func TestSeriesName(t *testing.T) {
	tests := []struct {
		mode     models.MetricMode
		expected string
	}{
		{models.ModeCount, "Titles"},
		{models.ModePercent, "Share of titles (%)"},
	}

	for _, tt := range tests {
		v := state.View{Config: models.ViewConfig{MetricMode: tt.mode}}
		if got := seriesName(v); got != tt.expected {
			t.Errorf("Expected %q for %s, got %q", tt.expected, tt.mode, got)
		}
	}
}
