package state

import (
	"fmt"
	"strconv"
	"strings"

	"flixviz/internal/models"
)

// Event is a user-initiated configuration change
type Event interface {
	Name() string
	apply(s *ChartState) error
}

// MetricModeChanged toggles counts and percentages
type MetricModeChanged struct {
	Mode models.MetricMode
}

// GenreSelected picks a genre, or clears it with "" or the placeholder
type GenreSelected struct {
	Genre string
}

// YearSelected picks a release year, or clears it when Year is nil
type YearSelected struct {
	Year *int
}

// SortOrderChanged sets the value sort direction
type SortOrderChanged struct {
	Order models.SortOrder
}

func (MetricModeChanged) Name() string { return "mode" }
func (GenreSelected) Name() string     { return "genre" }
func (YearSelected) Name() string      { return "year" }
func (SortOrderChanged) Name() string  { return "sort" }

func (e MetricModeChanged) apply(s *ChartState) error { return s.SetMetricMode(e.Mode) }
func (e GenreSelected) apply(s *ChartState) error     { return s.SetGenre(e.Genre) }
func (e SortOrderChanged) apply(s *ChartState) error  { return s.SetSortOrder(e.Order) }

func (e YearSelected) apply(s *ChartState) error {
	if e.Year == nil {
		s.ClearYear()
		return nil
	}
	return s.SetYear(*e.Year)
}

// ParseEvent turns a control name and its raw value into an event.
// Controls are "mode", "genre", "year" and "sort".
func ParseEvent(control, value string) (Event, error) {
	switch strings.ToLower(strings.TrimSpace(control)) {
	case "mode", "metric_mode", "view":
		mode, err := models.ParseMetricMode(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
		}
		return MetricModeChanged{Mode: mode}, nil

	case "genre":
		return GenreSelected{Genre: value}, nil

	case "year":
		if strings.TrimSpace(value) == "" {
			return YearSelected{}, nil
		}
		y, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("%w: year %q is not a number", ErrInvalidConfiguration, value)
		}
		return YearSelected{Year: &y}, nil

	case "sort", "sort_order":
		order, err := models.ParseSortOrder(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
		}
		return SortOrderChanged{Order: order}, nil
	}
	return nil, fmt.Errorf("%w: unknown control %q", ErrInvalidConfiguration, control)
}
