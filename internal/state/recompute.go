package state

import (
	"fmt"
	"strconv"

	"flixviz/internal/aggregate"
	"flixviz/internal/models"
	"flixviz/internal/scale"
)

// Chart colors
const (
	DefaultColor = "#E50914"
	MovieColor   = "#800000"
	TVShowColor  = "#FFB6C1"
)

// Band paddings per chart
const (
	typeSplitPadding = 0.4
	countryPadding   = 0.2
	ratingPadding    = 0.2
)

// recompute derives the view from the records and current config.
// The same records and config always give the same view.
func (s *ChartState) recompute() {
	var v View
	switch s.kind {
	case models.KindTypeSplit:
		v = s.typeSplitView()
	case models.KindGenreTrend:
		v = s.genreTrendView()
	case models.KindTopCountries:
		v = s.topCountriesView()
	default:
		v = s.ratingView()
	}

	s.version++
	v.Kind = s.kind
	v.Width = s.layout.Width
	v.Height = s.layout.Height
	v.Config = s.config.Clone()
	v.Version = s.version
	if v.Series == nil {
		v.Series = models.Series{}
	}
	s.view = v

	s.log.Debug("View recomputed", map[string]interface{}{
		"points":  len(v.Series),
		"mode":    string(s.config.MetricMode),
		"version": s.version,
	})
}

// applyMode converts counts into percentages when percent mode is active
func (s *ChartState) applyMode(series models.Series) models.Series {
	if s.config.MetricMode == models.ModePercent {
		return aggregate.ToPercent(series)
	}
	return series
}

// valueDomainMax is the top of the value axis
func (s *ChartState) valueDomainMax(series models.Series) float64 {
	if s.config.MetricMode == models.ModePercent {
		return 100
	}
	return series.Max()
}

func (s *ChartState) typeSplitView() View {
	counts := aggregate.CountByCategory(s.records, s.fields.Type,
		[]string{models.CategoryMovie, models.CategoryTVShow})
	series := s.applyMode(counts)
	if len(s.records) == 0 {
		series = models.Series{}
	}

	colors := make([]string, len(series))
	for i, p := range series {
		colors[i] = typeColor(p.Key)
	}

	return View{
		Title:    "Movies vs TV Shows on Netflix",
		Subtitle: typeSplitSubtitle(counts),
		XLabel:   "Type",
		YLabel:   valueLabel(s.config.MetricMode, "Number of Titles"),
		Series:   series,
		Colors:   colors,
		X:        scale.BandSpec(series.Keys(), 0, s.layout.Width, typeSplitPadding),
		Y:        scale.LinearSpec(0, s.valueDomainMax(series), s.layout.Height, 0),
	}
}

func typeSplitSubtitle(counts models.Series) string {
	pct := aggregate.ToPercent(counts)
	movies, _ := pct.Lookup(models.CategoryMovie)
	shows, _ := pct.Lookup(models.CategoryTVShow)
	return fmt.Sprintf("Movies: %d (%.1f%%) TV Shows: %d (%.1f%%)",
		movies.Count, movies.Value, shows.Count, shows.Value)
}

func typeColor(key string) string {
	switch key {
	case models.CategoryMovie:
		return MovieColor
	case models.CategoryTVShow:
		return TVShowColor
	default:
		return DefaultColor
	}
}

func (s *ChartState) genreTrendView() View {
	series := s.applyMode(aggregate.CountByYearForGenre(s.records, s.fields.Genre, s.config.Genre, s.fields.Year))

	title := "Select a genre to see its popularity over time"
	if s.config.Genre != "" {
		title = fmt.Sprintf("Popularity of \"%s\" Over Time", s.config.Genre)
	}

	minYear, maxYear := 0.0, 0.0
	if len(series) > 0 {
		first, _ := strconv.Atoi(series[0].Key)
		last, _ := strconv.Atoi(series[len(series)-1].Key)
		minYear, maxYear = float64(first), float64(last)
	}

	return View{
		Title:  title,
		XLabel: "Release Year",
		YLabel: valueLabel(s.config.MetricMode, "Number of Titles"),
		Series: series,
		Colors: fill(len(series), DefaultColor),
		X:      scale.LinearSpec(minYear, maxYear, 0, s.layout.Width),
		Y:      scale.LinearSpec(0, series.Max(), s.layout.Height, 0),
		Line:   true,
	}
}

func (s *ChartState) topCountriesView() View {
	var series models.Series
	title := "Top Countries by Releases"
	if s.config.Year != nil {
		year := *s.config.Year
		title = fmt.Sprintf("Top Countries by Releases in %d", year)
		series = aggregate.TopCountriesForYear(s.records, s.fields.Country, s.fields.Year, year, s.countryLimit)
	}
	series = s.applyMode(series)

	xMax := series.Max()
	if xMax == 0 {
		xMax = 1
	}

	return View{
		Title:      title,
		XLabel:     valueLabel(s.config.MetricMode, "Number of Titles"),
		YLabel:     "Country",
		Series:     series,
		Colors:     fill(len(series), DefaultColor),
		X:          scale.LinearSpec(0, xMax, 0, s.layout.Width),
		Y:          scale.BandSpec(series.Keys(), 0, s.layout.Height, countryPadding),
		Horizontal: true,
	}
}

func (s *ChartState) ratingView() View {
	// Sort on counts so rounded percentages cannot reorder the bars
	series := aggregate.SortByValue(aggregate.CountByRating(s.records, s.fields.Rating), s.config.SortOrder)
	series = s.applyMode(series)

	colors := make([]string, len(series))
	for i, p := range series {
		colors[i] = scale.ClassifyRating(p.Key).Color()
	}

	return View{
		Title:  "Distribution of Content Ratings",
		XLabel: "Rating",
		YLabel: valueLabel(s.config.MetricMode, "Number of Titles"),
		Series: series,
		Colors: colors,
		X:      scale.BandSpec(series.Keys(), 0, s.layout.Width, ratingPadding),
		Y:      scale.LinearSpec(0, scale.Nice(series.Max(), 10), s.layout.Height, 0),
		Legend: scale.RatingLegend(),
	}
}

func valueLabel(mode models.MetricMode, countLabel string) string {
	if mode == models.ModePercent {
		return "Share of Titles (%)"
	}
	return countLabel
}

func fill(n int, color string) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = color
	}
	return out
}
