package scale

import (
	"strings"

	"flixviz/internal/models"
)

// RatingClass groups content ratings for coloring
type RatingClass string

const (
	RatingTV    RatingClass = "tv"
	RatingMovie RatingClass = "movie"
	RatingOther RatingClass = "other"
)

var movieRatings = map[string]bool{
	"G":     true,
	"PG":    true,
	"PG-13": true,
	"R":     true,
	"NC-17": true,
}

// ClassifyRating places a rating into the TV, movie or other class
func ClassifyRating(rating string) RatingClass {
	r := strings.TrimSpace(rating)
	switch {
	case strings.HasPrefix(r, "TV"):
		return RatingTV
	case movieRatings[r]:
		return RatingMovie
	default:
		return RatingOther
	}
}

// Color is the fill of the rating class
func (c RatingClass) Color() string {
	switch c {
	case RatingTV:
		return "#e50914"
	case RatingMovie:
		return "#ffffff"
	default:
		return "#000000"
	}
}

// Label is the legend text of the rating class
func (c RatingClass) Label() string {
	switch c {
	case RatingTV:
		return "TV Ratings"
	case RatingMovie:
		return "Movie Ratings"
	default:
		return "Other Ratings"
	}
}

// RatingLegend lists the rating classes in legend order
func RatingLegend() []models.LegendEntry {
	classes := []RatingClass{RatingTV, RatingMovie, RatingOther}
	out := make([]models.LegendEntry, len(classes))
	for i, c := range classes {
		out[i] = models.LegendEntry{Label: c.Label(), Color: c.Color()}
	}
	return out
}
