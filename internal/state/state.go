// Package state holds the configuration of each chart and recomputes its
// series and scales whenever that configuration changes.
package state

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"flixviz/internal/aggregate"
	"flixviz/internal/logger"
	"flixviz/internal/models"
	"flixviz/internal/source"
)

// ErrInvalidConfiguration is returned when a control value is rejected.
// The previous configuration stays in effect.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Fields names the dataset columns a chart reads
type Fields struct {
	Type    string
	Genre   string
	Year    string
	Country string
	Rating  string
}

// DefaultFields are the column names of the titles dataset
func DefaultFields() Fields {
	return Fields{
		Type:    models.FieldType,
		Genre:   models.FieldGenre,
		Year:    models.FieldReleaseYear,
		Country: models.FieldCountry,
		Rating:  models.FieldRating,
	}
}

// Layout is the plotting area of a chart in pixels
type Layout struct {
	Width  float64
	Height float64
}

// DefaultLayout returns the plotting area used for kind
func DefaultLayout(kind models.ChartKind) Layout {
	switch kind {
	case models.KindTypeSplit:
		return Layout{Width: 720, Height: 360}
	case models.KindGenreTrend:
		return Layout{Width: 690, Height: 340}
	case models.KindTopCountries:
		return Layout{Width: 730, Height: 400}
	default:
		return Layout{Width: 800, Height: 340}
	}
}

// Option configures a ChartState
type Option func(*ChartState)

// WithCountryLimit sets how many countries the top-countries chart keeps
func WithCountryLimit(n int) Option {
	return func(s *ChartState) { s.countryLimit = n }
}

type subscriber struct {
	id int
	fn func()
}

// ChartState owns the configuration and derived view of one chart.
// It is not safe for concurrent use; callers serialize access.
type ChartState struct {
	kind         models.ChartKind
	fields       Fields
	layout       Layout
	countryLimit int

	records  []models.Record
	genres   []string
	genreSet map[string]string
	years    []int
	yearSet  map[int]bool

	config      models.ViewConfig
	view        View
	version     uint64
	subscribers []subscriber
	nextSub     int

	log *logger.Logger
}

// New creates the state of one chart with no records loaded
func New(kind models.ChartKind, opts ...Option) *ChartState {
	s := &ChartState{
		kind:         kind,
		fields:       DefaultFields(),
		layout:       DefaultLayout(kind),
		countryLimit: 10,
		genreSet:     map[string]string{},
		yearSet:      map[int]bool{},
		config:       models.DefaultViewConfig(),
		log:          logger.Component("state").WithFields(logger.Fields{"kind": string(kind)}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.recompute()
	return s
}

// Config returns a copy of the current configuration
func (s *ChartState) Config() models.ViewConfig { return s.config.Clone() }

// View returns the latest computed view
func (s *ChartState) View() View { return s.view.clone() }

// Genres lists the genre picker options, placeholder first
func (s *ChartState) Genres() []string {
	return append([]string{models.GenrePlaceholder}, s.genres...)
}

// Years lists the year picker options, ascending
func (s *ChartState) Years() []int {
	return append([]int(nil), s.years...)
}

// Records returns the number of loaded records
func (s *ChartState) Records() int { return len(s.records) }

// Subscribe registers fn to run after every recompute. The returned
// function removes the subscription.
func (s *ChartState) Subscribe(fn func()) func() {
	id := s.nextSub
	s.nextSub++
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: fn})
	return func() {
		for i, sub := range s.subscribers {
			if sub.id == id {
				s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
				return
			}
		}
	}
}

// Load replaces the dataset and recomputes the view. Selections that no
// longer exist in the new dataset are cleared.
func (s *ChartState) Load(records []models.Record) {
	s.records = records
	s.genres = aggregate.DistinctGenres(records, s.fields.Genre)
	s.years = aggregate.DistinctYears(records, s.fields.Year)

	s.genreSet = make(map[string]string, len(s.genres))
	for _, g := range s.genres {
		s.genreSet[strings.ToLower(g)] = g
	}
	s.yearSet = make(map[int]bool, len(s.years))
	for _, y := range s.years {
		s.yearSet[y] = true
	}

	if s.config.Genre != "" {
		if _, ok := s.genreSet[strings.ToLower(s.config.Genre)]; !ok {
			s.config.Genre = ""
		}
	}
	if s.config.Year != nil && !s.yearSet[*s.config.Year] {
		s.config.Year = nil
	}
	s.defaultYear()

	s.log.Info("Records loaded", map[string]interface{}{
		"records": len(records),
		"genres":  len(s.genres),
		"years":   len(s.years),
	})
	s.update()
}

// LoadFrom awaits src and loads its records. On failure the chart is left
// empty and the error is returned.
func (s *ChartState) LoadFrom(ctx context.Context, src source.RecordSource, location string) error {
	records, err := src.Load(ctx, location)
	if err != nil {
		s.Load(nil)
		return err
	}
	s.Load(records)
	return nil
}

// SetMetricMode switches between counts and percentages
func (s *ChartState) SetMetricMode(mode models.MetricMode) error {
	if mode != models.ModeCount && mode != models.ModePercent {
		return s.reject("metric mode", string(mode))
	}
	s.config.MetricMode = mode
	s.update()
	return nil
}

// SetGenre selects a known genre. An empty value or the placeholder clears
// the selection.
func (s *ChartState) SetGenre(genre string) error {
	g := strings.TrimSpace(genre)
	if !aggregate.IsGenreSelected(g) {
		s.config.Genre = ""
		s.update()
		return nil
	}
	canonical, ok := s.genreSet[strings.ToLower(g)]
	if !ok {
		return s.reject("genre", genre)
	}
	s.config.Genre = canonical
	s.update()
	return nil
}

// SetYear selects a release year present in the dataset
func (s *ChartState) SetYear(year int) error {
	if !s.yearSet[year] {
		return s.reject("year", fmt.Sprint(year))
	}
	s.config.Year = &year
	s.update()
	return nil
}

// ClearYear removes the year selection. The top-countries chart falls back
// to the earliest year, as it does after Load.
func (s *ChartState) ClearYear() {
	s.config.Year = nil
	s.defaultYear()
	s.update()
}

// defaultYear selects the earliest year for the top-countries chart when
// none is selected
func (s *ChartState) defaultYear() {
	if s.kind == models.KindTopCountries && s.config.Year == nil && len(s.years) > 0 {
		first := s.years[0]
		s.config.Year = &first
	}
}

// SetSortOrder sets the direction of value sorting
func (s *ChartState) SetSortOrder(order models.SortOrder) error {
	if order != models.SortAsc && order != models.SortDesc {
		return s.reject("sort order", string(order))
	}
	s.config.SortOrder = order
	s.update()
	return nil
}

// Dispatch applies a configuration event
func (s *ChartState) Dispatch(e Event) error {
	if e == nil {
		return fmt.Errorf("%w: nil event", ErrInvalidConfiguration)
	}
	return e.apply(s)
}

// Lookup returns the hover details of the point with key
func (s *ChartState) Lookup(key string) (Hover, bool) {
	return s.view.Lookup(key)
}

func (s *ChartState) reject(control, value string) error {
	err := fmt.Errorf("%w: unsupported %s %q", ErrInvalidConfiguration, control, value)
	s.log.Warn("Configuration rejected", map[string]interface{}{
		"control": control,
		"value":   value,
	})
	return err
}

func (s *ChartState) update() {
	s.recompute()
	for _, sub := range append([]subscriber(nil), s.subscribers...) {
		sub.fn()
	}
}
