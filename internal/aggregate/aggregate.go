// Package aggregate derives small ordered series from title records.
// Every function is pure: it never mutates its input and returns an
// empty series rather than an error when nothing matches.
package aggregate

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"flixviz/internal/models"
)

// CountByCategory counts records whose trimmed field equals each category.
// The result follows category order and reports 0 for categories with no
// match. Repeated categories are collapsed to their first occurrence.
func CountByCategory(records []models.Record, field string, categories []string) models.Series {
	index := make(map[string]int, len(categories))
	out := models.Series{}
	for _, c := range categories {
		if _, dup := index[c]; dup {
			continue
		}
		index[c] = len(out)
		out = append(out, models.Point{Key: c})
	}

	for _, r := range records {
		if i, ok := index[r.Get(field)]; ok {
			out[i].Count++
		}
	}
	for i := range out {
		out[i].Value = float64(out[i].Count)
	}
	return out
}

// MatchesGenre reports whether the genre field contains genre as a
// case-insensitive substring. The whole comma-separated field is searched,
// so "Drama" also matches "Dramas".
func MatchesGenre(value, genre string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(genre))
}

// IsGenreSelected reports whether genre names an actual selection
func IsGenreSelected(genre string) bool {
	g := strings.TrimSpace(genre)
	return g != "" && g != models.GenrePlaceholder
}

// CountByYearForGenre counts records matching genre per release year,
// ascending by year. Records with a non-numeric year are skipped.
func CountByYearForGenre(records []models.Record, genreField, genre, yearField string) models.Series {
	if !IsGenreSelected(genre) {
		return models.Series{}
	}
	genre = strings.TrimSpace(genre)

	counts := make(map[int]int)
	for _, r := range records {
		if !MatchesGenre(r.Get(genreField), genre) {
			continue
		}
		year, ok := parseYear(r.Get(yearField))
		if !ok {
			continue
		}
		counts[year]++
	}

	years := make([]int, 0, len(counts))
	for y := range counts {
		years = append(years, y)
	}
	sort.Ints(years)

	out := make(models.Series, 0, len(years))
	for _, y := range years {
		n := counts[y]
		out = append(out, models.Point{Key: strconv.Itoa(y), Value: float64(n), Count: n})
	}
	return out
}

// TopCountriesForYear counts every country token of the titles released in
// year and returns the most frequent ones, ties broken by first appearance.
// A limit of zero or less keeps every country.
func TopCountriesForYear(records []models.Record, countryField, yearField string, year, limit int) models.Series {
	c := newCounter()
	for _, r := range records {
		y, ok := parseYear(r.Get(yearField))
		if !ok || y != year {
			continue
		}
		for _, token := range SplitList(r.Get(countryField)) {
			c.add(token)
		}
	}

	out := SortByValue(c.series(), models.SortDesc)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// CountByRating counts titles per trimmed rating, most frequent first.
// Blank ratings are dropped.
func CountByRating(records []models.Record, ratingField string) models.Series {
	c := newCounter()
	for _, r := range records {
		if !r.Has(ratingField) {
			continue
		}
		c.add(r.Get(ratingField))
	}
	return SortByValue(c.series(), models.SortDesc)
}

// ToPercent converts each point's value into its share of the series total,
// rounded to one decimal. A zero total yields zero for every point.
func ToPercent(s models.Series) models.Series {
	out := s.Clone()
	total := s.Total()
	for i := range out {
		if total == 0 {
			out[i].Value = 0
			continue
		}
		out[i].Value = round1(float64(out[i].Count) / float64(total) * 100)
	}
	return out
}

// DistinctGenres returns every genre token of genreField, sorted
func DistinctGenres(records []models.Record, genreField string) []string {
	seen := make(map[string]struct{})
	for _, r := range records {
		for _, g := range SplitList(r.Get(genreField)) {
			seen[g] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for g := range seen {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// DistinctYears returns the numeric release years, ascending
func DistinctYears(records []models.Record, yearField string) []int {
	seen := make(map[int]struct{})
	for _, r := range records {
		if y, ok := parseYear(r.Get(yearField)); ok {
			seen[y] = struct{}{}
		}
	}
	out := make([]int, 0, len(seen))
	for y := range seen {
		out = append(out, y)
	}
	sort.Ints(out)
	return out
}

// SplitList splits a comma-separated field into trimmed, non-empty tokens
func SplitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseYear(value string) (int, bool) {
	y, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, false
	}
	return y, true
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
