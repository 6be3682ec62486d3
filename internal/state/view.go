package state

import (
	"fmt"

	"flixviz/internal/models"
)

// View is everything a renderer needs to draw one chart
type View struct {
	Kind       models.ChartKind     `json:"kind"`
	Title      string               `json:"title"`
	Subtitle   string               `json:"subtitle,omitempty"`
	XLabel     string               `json:"x_label,omitempty"`
	YLabel     string               `json:"y_label,omitempty"`
	Width      float64              `json:"width"`
	Height     float64              `json:"height"`
	Config     models.ViewConfig    `json:"config"`
	Series     models.Series        `json:"series"`
	Colors     []string             `json:"colors"`
	X          models.ScaleSpec     `json:"x"`
	Y          models.ScaleSpec     `json:"y"`
	Legend     []models.LegendEntry `json:"legend,omitempty"`
	Horizontal bool                 `json:"horizontal,omitempty"`
	Line       bool                 `json:"line,omitempty"`
	Version    uint64               `json:"version"`
}

// Hover is what a tooltip shows for one point
type Hover struct {
	Key     string  `json:"key"`
	Value   float64 `json:"value"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
	Label   string  `json:"label"`
}

// Empty reports whether the view has nothing to draw
func (v View) Empty() bool {
	return len(v.Series) == 0
}

// Percent reports whether values are percentages
func (v View) Percent() bool {
	return v.Config.MetricMode == models.ModePercent
}

// ColorOf returns the fill color of the i-th point
func (v View) ColorOf(i int) string {
	if i >= 0 && i < len(v.Colors) {
		return v.Colors[i]
	}
	return DefaultColor
}

// FormatValue renders a value the way chart labels show it
func (v View) FormatValue(value float64) string {
	if v.Percent() {
		return fmt.Sprintf("%.1f%%", value)
	}
	return fmt.Sprintf("%.0f", value)
}

// Lookup returns hover details for key
func (v View) Lookup(key string) (Hover, bool) {
	p, ok := v.Series.Lookup(key)
	if !ok {
		return Hover{}, false
	}
	total := v.Series.Total()
	percent := 0.0
	if total > 0 {
		percent = float64(p.Count) / float64(total) * 100
	}
	return Hover{
		Key:     p.Key,
		Value:   p.Value,
		Count:   p.Count,
		Percent: percent,
		Label:   fmt.Sprintf("%s: %d titles (%.1f%%)", p.Key, p.Count, percent),
	}, true
}

func (v View) clone() View {
	out := v
	out.Config = v.Config.Clone()
	out.Series = v.Series.Clone()
	out.Colors = append([]string{}, v.Colors...)
	out.Legend = append([]models.LegendEntry(nil), v.Legend...)
	out.X.Categories = append([]string(nil), v.X.Categories...)
	out.Y.Categories = append([]string(nil), v.Y.Categories...)
	return out
}
