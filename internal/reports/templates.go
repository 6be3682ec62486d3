package reports

import (
	"embed"
)

//go:embed templates/dashboard.html templates/styles.css
var templateFS embed.FS

// TemplateLoader handles loading HTML templates and CSS styles
type TemplateLoader struct{}

// NewTemplateLoader creates a new template loader
func NewTemplateLoader() *TemplateLoader {
	return &TemplateLoader{}
}

// LoadHTMLTemplate loads the dashboard HTML template
func (t *TemplateLoader) LoadHTMLTemplate() (string, error) {
	content, err := templateFS.ReadFile("templates/dashboard.html")
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// LoadCSSStyles loads the dashboard stylesheet
func (t *TemplateLoader) LoadCSSStyles() (string, error) {
	content, err := templateFS.ReadFile("templates/styles.css")
	if err != nil {
		return "", err
	}
	return string(content), nil
}
