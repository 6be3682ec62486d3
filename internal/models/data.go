package models

import "strings"

// Record is one row of the titles dataset keyed by header name.
// Records are read-only once loaded.
type Record map[string]string

// Get returns the trimmed value of field, or "" when absent
func (r Record) Get(field string) string {
	return strings.TrimSpace(r[field])
}

// Has reports whether field is present and non-blank
func (r Record) Has(field string) bool {
	return r.Get(field) != ""
}

// Standard field names of the titles dataset
const (
	FieldType        = "type"
	FieldGenre       = "listed_in"
	FieldReleaseYear = "release_year"
	FieldCountry     = "country"
	FieldRating      = "rating"
	FieldTitle       = "title"
)

// Category values of the type field
const (
	CategoryMovie  = "Movie"
	CategoryTVShow = "TV Show"
)

// Point is a single aggregated value. Value holds the displayed metric
// (count or percent) while Count always keeps the raw count.
type Point struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// Series is an ordered list of points produced by one aggregation pass
type Series []Point

// Keys returns the point keys in series order
func (s Series) Keys() []string {
	keys := make([]string, len(s))
	for i, p := range s {
		keys[i] = p.Key
	}
	return keys
}

// Total returns the sum of raw counts
func (s Series) Total() int {
	total := 0
	for _, p := range s {
		total += p.Count
	}
	return total
}

// Max returns the largest value, or 0 for an empty series
func (s Series) Max() float64 {
	max := 0.0
	for _, p := range s {
		if p.Value > max {
			max = p.Value
		}
	}
	return max
}

// Lookup finds the point with the given key
func (s Series) Lookup(key string) (Point, bool) {
	for _, p := range s {
		if p.Key == key {
			return p, true
		}
	}
	return Point{}, false
}

// Clone returns a copy that can be reordered without touching s
func (s Series) Clone() Series {
	if s == nil {
		return Series{}
	}
	out := make(Series, len(s))
	copy(out, s)
	return out
}
