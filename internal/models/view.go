package models

import (
	"fmt"
	"strings"
)

// ChartKind identifies one of the dashboard visualizations
type ChartKind string

const (
	KindTypeSplit          ChartKind = "type-split"
	KindGenreTrend         ChartKind = "genre-trend"
	KindTopCountries       ChartKind = "top-countries"
	KindRatingDistribution ChartKind = "rating-distribution"
)

// AllKinds lists the visualizations in dashboard order
var AllKinds = []ChartKind{
	KindTypeSplit,
	KindGenreTrend,
	KindTopCountries,
	KindRatingDistribution,
}

// ParseChartKind validates a chart kind string
func ParseChartKind(s string) (ChartKind, error) {
	for _, k := range AllKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown chart kind %q", s)
}

// MetricMode selects raw counts or percentage shares
type MetricMode string

const (
	ModeCount   MetricMode = "count"
	ModePercent MetricMode = "percent"
)

// ParseMetricMode accepts "count" or "percent" in any case
func ParseMetricMode(s string) (MetricMode, error) {
	switch MetricMode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeCount:
		return ModeCount, nil
	case ModePercent:
		return ModePercent, nil
	}
	return "", fmt.Errorf("metric mode must be count or percent, got %q", s)
}

// SortOrder is the direction of a value sort
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder accepts "asc"/"ascending" or "desc"/"descending"
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return SortAsc, nil
	case "desc", "descending":
		return SortDesc, nil
	}
	return "", fmt.Errorf("sort order must be asc or desc, got %q", s)
}

// GenrePlaceholder is the unselected entry of the genre picker
const GenrePlaceholder = "Select a Genre"

// ViewConfig is the user-selected configuration of a chart.
// An empty Genre and a nil Year mean "no selection".
type ViewConfig struct {
	MetricMode MetricMode `json:"metric_mode"`
	Genre      string     `json:"genre,omitempty"`
	Year       *int       `json:"year,omitempty"`
	SortOrder  SortOrder  `json:"sort_order"`
}

// DefaultViewConfig returns count mode, no genre, no year, descending sort
func DefaultViewConfig() ViewConfig {
	return ViewConfig{
		MetricMode: ModeCount,
		SortOrder:  SortDesc,
	}
}

// Clone copies the config including the year pointer
func (c ViewConfig) Clone() ViewConfig {
	out := c
	if c.Year != nil {
		y := *c.Year
		out.Year = &y
	}
	return out
}

// ScaleKind is the type of a scale
type ScaleKind string

const (
	ScaleLinear ScaleKind = "linear"
	ScaleBand   ScaleKind = "band"
)

// ScaleSpec describes how one axis maps data onto pixels.
// Linear scales use Domain, band scales use Categories and Padding.
type ScaleSpec struct {
	Kind       ScaleKind  `json:"kind"`
	Domain     [2]float64 `json:"domain,omitempty"`
	Categories []string   `json:"categories,omitempty"`
	Range      [2]float64 `json:"range"`
	Padding    float64    `json:"padding,omitempty"`
}

// LegendEntry is one swatch of a chart legend
type LegendEntry struct {
	Label string `json:"label"`
	Color string `json:"color"`
}
