package reports

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"flixviz/internal/charts"
	"flixviz/internal/logger"
	"flixviz/internal/state"
)

// HTMLBuilder handles HTML generation with goldmark
type HTMLBuilder struct {
	templateLoader *TemplateLoader
	goldmark       goldmark.Markdown
	log            *logger.Logger
}

// NewHTMLBuilder creates an HTML builder
func NewHTMLBuilder() *HTMLBuilder {
	// Raw HTML in commentary is not rendered
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)

	return &HTMLBuilder{
		templateLoader: NewTemplateLoader(),
		goldmark:       md,
		log:            logger.Component("reports"),
	}
}

// DashboardData represents the data structure for the dashboard template
type DashboardData struct {
	Title       string
	GeneratedAt string
	Version     string
	DatasetPath string
	Records     int
	CSSFilePath string
	ChartsPage  string
	Commentary  template.HTML
	Charts      []ChartSummary
}

// ChartSummary is one chart section of the dashboard
type ChartSummary struct {
	Kind     string
	Title    string
	Subtitle string
	KeyLabel string
	// Image is empty when the chart has no data
	Image string
	Rows  []SummaryRow
}

// SummaryRow is one point of a chart in the summary table
type SummaryRow struct {
	Key   string
	Value string
	Count int
}

// Summarize turns views into dashboard sections
func Summarize(views []state.View) []ChartSummary {
	out := make([]ChartSummary, 0, len(views))
	for _, v := range views {
		keyLabel := v.XLabel
		if v.Horizontal {
			keyLabel = v.YLabel
		}
		s := ChartSummary{
			Kind:     string(v.Kind),
			Title:    v.Title,
			Subtitle: v.Subtitle,
			KeyLabel: keyLabel,
		}
		if !v.Empty() {
			s.Image = charts.PNGFileName(v.Kind)
			for _, p := range v.Series {
				s.Rows = append(s.Rows, SummaryRow{Key: p.Key, Value: v.FormatValue(p.Value), Count: p.Count})
			}
		}
		out = append(out, s)
	}
	return out
}

// ConvertMarkdownToHTML converts markdown to HTML using goldmark
func (h *HTMLBuilder) ConvertMarkdownToHTML(markdownContent string) (string, error) {
	var buf bytes.Buffer
	if err := h.goldmark.Convert([]byte(markdownContent), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return buf.String(), nil
}

// CommentaryHTML renders markdown commentary for the dashboard template
func (h *HTMLBuilder) CommentaryHTML(markdownContent string) (template.HTML, error) {
	if markdownContent == "" {
		return "", nil
	}
	rendered, err := h.ConvertMarkdownToHTML(markdownContent)
	if err != nil {
		return "", err
	}
	return template.HTML(rendered), nil
}

// GenerateStaticCSS returns the static CSS content
func (h *HTMLBuilder) GenerateStaticCSS() (string, error) {
	css, err := h.templateLoader.LoadCSSStyles()
	if err != nil {
		return "", fmt.Errorf("failed to load CSS: %w", err)
	}
	return css, nil
}

// Build renders the dashboard page
func (h *HTMLBuilder) Build(data DashboardData) (string, error) {
	htmlTemplate, err := h.templateLoader.LoadHTMLTemplate()
	if err != nil {
		return "", fmt.Errorf("failed to load HTML template: %w", err)
	}

	tmpl, err := template.New("dashboard").Parse(htmlTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	h.log.Debug("Dashboard HTML built", map[string]interface{}{"characters": buf.Len(), "charts": len(data.Charts)})
	return buf.String(), nil
}
