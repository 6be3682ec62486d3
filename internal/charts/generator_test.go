package charts

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/wcharczuk/go-chart/v2"

	"flixviz/internal/models"
	"flixviz/internal/state"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func testRecords() []models.Record {
	return []models.Record{
		{"type": "Movie", "listed_in": "Dramas, International Movies", "release_year": "2019", "country": "India", "rating": "TV-MA"},
		{"type": "Movie", "listed_in": "Comedies", "release_year": "2019", "country": "United States, India", "rating": "PG-13"},
		{"type": "TV Show", "listed_in": "TV Dramas", "release_year": "2020", "country": "France", "rating": "TV-MA"},
		{"type": "Movie", "listed_in": "Dramas", "release_year": "2018", "country": "Spain", "rating": "R"},
		{"type": "TV Show", "listed_in": "Kids' TV", "release_year": "2020", "country": "Japan", "rating": "TV-Y"},
	}
}

// loadedViews returns one populated view per chart kind
func loadedViews(t *testing.T) []state.View {
	t.Helper()
	d := state.NewDashboard()
	d.Load(testRecords())

	trend, err := d.State(models.KindGenreTrend)
	if err != nil {
		t.Fatalf("State failed: %v", err)
	}
	if err := trend.SetGenre("Dramas"); err != nil {
		t.Fatalf("SetGenre failed: %v", err)
	}
	return d.Views()
}

func TestNewChartGenerator(t *testing.T) {
	outputDir := "/test/output"
	generator := NewChartGenerator(outputDir)

	if generator == nil {
		t.Fatal("NewChartGenerator returned nil")
	}
	if generator.outputDir != outputDir {
		t.Errorf("Expected outputDir %s, got %s", outputDir, generator.outputDir)
	}
}

func TestRenderPNG(t *testing.T) {
	generator := NewChartGenerator(t.TempDir())

	for _, v := range loadedViews(t) {
		t.Run(string(v.Kind), func(t *testing.T) {
			if v.Empty() {
				t.Fatalf("Expected populated view for %s", v.Kind)
			}
			var buf bytes.Buffer
			if err := generator.RenderPNG(v, &buf); err != nil {
				t.Fatalf("RenderPNG failed: %v", err)
			}
			if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
				t.Error("Expected PNG output")
			}
		})
	}
}

func TestRenderPNGPercentMode(t *testing.T) {
	generator := NewChartGenerator(t.TempDir())

	s := state.New(models.KindRatingDistribution)
	s.Load(testRecords())
	if err := s.SetMetricMode(models.ModePercent); err != nil {
		t.Fatalf("SetMetricMode failed: %v", err)
	}

	var buf bytes.Buffer
	if err := generator.RenderPNG(s.View(), &buf); err != nil {
		t.Fatalf("RenderPNG failed: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("Expected image data")
	}
}

func TestRenderPNGEmptyView(t *testing.T) {
	generator := NewChartGenerator(t.TempDir())

	for _, kind := range models.AllKinds {
		var buf bytes.Buffer
		err := generator.RenderPNG(state.New(kind).View(), &buf)
		if !errors.Is(err, ErrEmptyView) {
			t.Errorf("%s: expected ErrEmptyView, got %v", kind, err)
		}
		if buf.Len() != 0 {
			t.Errorf("%s: expected nothing written for empty view", kind)
		}
	}
}

func TestGenerateImagesSkipsEmpty(t *testing.T) {
	generator := NewChartGenerator(t.TempDir())

	// Genre trend stays empty without a selected genre
	d := state.NewDashboard()
	d.Load(testRecords())

	images, err := generator.GenerateImages(d.Views())
	if err != nil {
		t.Fatalf("GenerateImages failed: %v", err)
	}
	if len(images) != len(models.AllKinds)-1 {
		t.Errorf("Expected %d images, got %d", len(models.AllKinds)-1, len(images))
	}
	if _, ok := images[PNGFileName(models.KindGenreTrend)]; ok {
		t.Error("Expected no image for the empty genre trend")
	}
	for name, data := range images {
		if !bytes.HasPrefix(data, pngMagic) {
			t.Errorf("%s: expected PNG data", name)
		}
	}
}

func TestWritePNG(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")
	generator := NewChartGenerator(dir)

	views := loadedViews(t)
	path, err := generator.WritePNG(views[0])
	if err != nil {
		t.Fatalf("WritePNG failed: %v", err)
	}
	if filepath.Base(path) != "type-split.png" {
		t.Errorf("Expected type-split.png, got %s", path)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("Expected non-empty chart file, got %v", err)
	}

	_, err = generator.WritePNG(state.New(models.KindRatingDistribution).View())
	if !errors.Is(err, ErrEmptyView) {
		t.Errorf("Expected ErrEmptyView, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "rating-distribution.png")); !os.IsNotExist(err) {
		t.Error("Expected no file left behind for empty view")
	}
}

func TestValueTicks(t *testing.T) {
	percent := state.View{Config: models.ViewConfig{MetricMode: models.ModePercent}}
	ticks := valueTicks(&chart.ContinuousRange{Min: 0, Max: 100}, percent)
	if len(ticks) != 6 {
		t.Fatalf("Expected 6 ticks, got %d", len(ticks))
	}
	if ticks[1].Label != "20%" || ticks[5].Label != "100%" {
		t.Errorf("Unexpected percent labels %q and %q", ticks[1].Label, ticks[5].Label)
	}

	count := state.View{Config: models.DefaultViewConfig()}
	ticks = valueTicks(&chart.ContinuousRange{Min: 0, Max: 3}, count)
	if ticks[1].Label != "0.6" || ticks[5].Label != "3" {
		t.Errorf("Unexpected count labels %q and %q", ticks[1].Label, ticks[5].Label)
	}
}

func TestBandTicks(t *testing.T) {
	spec := models.ScaleSpec{Kind: models.ScaleBand, Categories: []string{"a", "b"}, Padding: 0}

	ticks := bandTicks(spec, false)
	if len(ticks) != 2 {
		t.Fatalf("Expected 2 ticks, got %d", len(ticks))
	}
	if ticks[0].Value != 0.5 || ticks[1].Value != 1.5 {
		t.Errorf("Expected ticks at 0.5 and 1.5, got %v and %v", ticks[0].Value, ticks[1].Value)
	}

	reversed := bandTicks(spec, true)
	if reversed[0].Value != 1.5 || reversed[0].Label != "a" {
		t.Errorf("Expected first category at 1.5, got %+v", reversed[0])
	}
}
