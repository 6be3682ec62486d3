package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"flixviz/internal/charts"
	"flixviz/internal/config"
	"flixviz/internal/llm"
	"flixviz/internal/logger"
	"flixviz/internal/state"
	"flixviz/internal/storage"
)

// Published file names
const (
	IndexFile      = "index.html"
	ChartsPageFile = "charts.html"
	ViewsFile      = "views.json"
	CommentaryFile = "commentary.md"
	StylesFile     = "styles.css"
)

// Commentator produces markdown commentary for a set of views
type Commentator interface {
	Commentary(ctx context.Context, views []state.View) (string, error)
}

// Input is everything a dashboard is generated from
type Input struct {
	Views       []state.View
	DatasetPath string
	Records     int
	GeneratedAt time.Time
}

// GeneratedFiles contains all files generated for a dashboard
type GeneratedFiles struct {
	FolderPath string
	Files      map[string][]byte
}

// Names returns the generated file names in sorted order
func (gf *GeneratedFiles) Names() []string {
	names := make([]string, 0, len(gf.Files))
	for name := range gf.Files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FileGenerator handles generation of all dashboard files
type FileGenerator struct {
	chartGen    *charts.ChartGenerator
	htmlBuilder *HTMLBuilder
	commentator Commentator
	log         *logger.Logger
}

// NewFileGenerator creates a new file generator. commentator may be nil.
func NewFileGenerator(chartGen *charts.ChartGenerator, commentator Commentator) *FileGenerator {
	return &FileGenerator{
		chartGen:    chartGen,
		htmlBuilder: NewHTMLBuilder(),
		commentator: commentator,
		log:         logger.Component("reports"),
	}
}

// GenerateAllFiles creates all dashboard files (HTML, charts, JSON, assets)
func (fg *FileGenerator) GenerateAllFiles(ctx context.Context, in Input) (*GeneratedFiles, error) {
	if in.GeneratedAt.IsZero() {
		in.GeneratedAt = time.Now()
	}

	files := &GeneratedFiles{
		FolderPath: storage.GenerateDashboardFolderPath(in.GeneratedAt),
		Files:      make(map[string][]byte),
	}

	// 1. Static chart images
	images, err := fg.chartGen.GenerateImages(in.Views)
	if err != nil {
		return nil, fmt.Errorf("failed to generate chart images: %w", err)
	}
	for name, data := range images {
		files.Files[name] = data
	}

	// 2. Interactive charts page
	var page bytes.Buffer
	if err := fg.chartGen.Page(in.Views, &page); err != nil {
		return nil, err
	}
	files.Files[ChartsPageFile] = page.Bytes()

	// 3. Views as JSON
	viewsJSON, err := json.MarshalIndent(in.Views, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal views: %w", err)
	}
	files.Files[ViewsFile] = viewsJSON

	// 4. Optional commentary
	markdown := fg.generateCommentary(ctx, in.Views)
	if markdown != "" {
		files.Files[CommentaryFile] = []byte(markdown)
	}

	// 5. Stylesheet and dashboard page
	css, err := fg.htmlBuilder.GenerateStaticCSS()
	if err != nil {
		return nil, err
	}
	files.Files[StylesFile] = []byte(css)

	commentary, err := fg.htmlBuilder.CommentaryHTML(markdown)
	if err != nil {
		fg.log.Warn("Failed to render commentary", map[string]interface{}{"error": err.Error()})
		commentary = ""
	}

	index, err := fg.htmlBuilder.Build(DashboardData{
		Title:       "Netflix Titles Dashboard",
		GeneratedAt: in.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC"),
		Version:     config.GetVersion(),
		DatasetPath: in.DatasetPath,
		Records:     in.Records,
		CSSFilePath: StylesFile,
		ChartsPage:  ChartsPageFile,
		Commentary:  commentary,
		Charts:      Summarize(in.Views),
	})
	if err != nil {
		return nil, err
	}
	files.Files[IndexFile] = []byte(index)

	fg.log.Info("Dashboard files generated", map[string]interface{}{
		"folder": files.FolderPath,
		"files":  len(files.Files),
	})
	return files, nil
}

// generateCommentary returns "" when commentary is disabled or fails
func (fg *FileGenerator) generateCommentary(ctx context.Context, views []state.View) string {
	if fg.commentator == nil {
		return ""
	}
	markdown, err := fg.commentator.Commentary(ctx, views)
	if errors.Is(err, llm.ErrNoChartData) {
		return ""
	}
	if err != nil {
		fg.log.Warn("Failed to generate commentary", map[string]interface{}{"error": err.Error()})
		return ""
	}
	return markdown
}
