package charts

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"flixviz/internal/logger"
	"flixviz/internal/models"
	"flixviz/internal/state"
)

// ErrEmptyView is returned when a view has no points to draw as an image
var ErrEmptyView = errors.New("view has no data")

// ChartGenerator renders chart views as interactive HTML and static PNG
type ChartGenerator struct {
	outputDir string
	log       *logger.Logger
}

// NewChartGenerator creates a chart generator writing images into outputDir
func NewChartGenerator(outputDir string) *ChartGenerator {
	return &ChartGenerator{
		outputDir: outputDir,
		log:       logger.Component("charts"),
	}
}

// PNGFileName is the image name used for a chart kind
func PNGFileName(kind models.ChartKind) string {
	return string(kind) + ".png"
}

// GenerateImages renders every non-empty view as PNG bytes keyed by file name.
// Empty views are skipped.
func (cg *ChartGenerator) GenerateImages(views []state.View) (map[string][]byte, error) {
	images := make(map[string][]byte, len(views))
	for _, v := range views {
		var buf bytes.Buffer
		err := cg.RenderPNG(v, &buf)
		if errors.Is(err, ErrEmptyView) {
			cg.log.Info("Skipping empty chart image", map[string]interface{}{"kind": string(v.Kind)})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to render %s chart: %w", v.Kind, err)
		}
		images[PNGFileName(v.Kind)] = buf.Bytes()
	}
	return images, nil
}

// WritePNG renders view into the output directory and returns the file path
func (cg *ChartGenerator) WritePNG(v state.View) (string, error) {
	if err := os.MkdirAll(cg.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create chart directory: %w", err)
	}

	filename := filepath.Join(cg.outputDir, PNGFileName(v.Kind))
	f, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("failed to create %s chart file: %w", v.Kind, err)
	}
	defer f.Close()

	if err := cg.RenderPNG(v, f); err != nil {
		f.Close()
		os.Remove(filename)
		return "", err
	}
	return filename, nil
}
