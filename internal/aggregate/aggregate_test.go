package aggregate

import (
	"math"
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"flixviz/internal/models"
)

func rec(fields ...string) models.Record {
	r := models.Record{}
	for i := 0; i+1 < len(fields); i += 2 {
		r[fields[i]] = fields[i+1]
	}
	return r
}

func TestCountByCategory(t *testing.T) {
	records := []models.Record{
		rec("type", "Movie"),
		rec("type", "Movie"),
		rec("type", "TV Show"),
		rec("type", "movie"),
		rec("title", "no type"),
	}

	tests := []struct {
		name       string
		categories []string
		want       []models.Point
	}{
		{
			name:       "movie and tv",
			categories: []string{"Movie", "TV Show"},
			want:       []models.Point{{Key: "Movie", Value: 2, Count: 2}, {Key: "TV Show", Value: 1, Count: 1}},
		},
		{
			name:       "category order preserved",
			categories: []string{"TV Show", "Movie"},
			want:       []models.Point{{Key: "TV Show", Value: 1, Count: 1}, {Key: "Movie", Value: 2, Count: 2}},
		},
		{
			name:       "unmatched category is zero",
			categories: []string{"Movie", "Documentary"},
			want:       []models.Point{{Key: "Movie", Value: 2, Count: 2}, {Key: "Documentary", Value: 0, Count: 0}},
		},
		{
			name:       "duplicate categories collapse",
			categories: []string{"Movie", "Movie"},
			want:       []models.Point{{Key: "Movie", Value: 2, Count: 2}},
		},
		{
			name:       "no categories",
			categories: nil,
			want:       []models.Point{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CountByCategory(records, "type", tt.categories)
			assertSeries(t, got, tt.want)
		})
	}
}

func TestCountByCategoryEmptyInput(t *testing.T) {
	got := CountByCategory(nil, "type", []string{"Movie", "TV Show"})
	if len(got) != 2 || got[0].Count != 0 || got[1].Count != 0 {
		t.Errorf("Expected two zero points for empty input, got %+v", got)
	}
}

func TestCountByCategoryTrimsValues(t *testing.T) {
	records := []models.Record{rec("type", " Movie "), rec("type", "Movie"), rec("type", "  ")}

	got := CountByCategory(records, "type", []string{"Movie", "TV Show"})
	assertSeries(t, got, []models.Point{{Key: "Movie", Value: 2, Count: 2}, {Key: "TV Show", Value: 0, Count: 0}})
}

func TestCountByCategorySumProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	values := []string{"Movie", "TV Show", "Special", ""}
	categories := []string{"Movie", "TV Show"}

	for trial := 0; trial < 50; trial++ {
		n := rng.Intn(200)
		records := make([]models.Record, n)
		inCategories := 0
		for i := range records {
			v := values[rng.Intn(len(values))]
			records[i] = rec("type", v)
			if v == "Movie" || v == "TV Show" {
				inCategories++
			}
		}
		if got := CountByCategory(records, "type", categories).Total(); got != inCategories {
			t.Fatalf("Trial %d: expected total %d, got %d", trial, inCategories, got)
		}
	}
}

func TestCountByYearForGenre(t *testing.T) {
	records := []models.Record{
		rec("listed_in", "Dramas, International Movies", "release_year", "2019"),
		rec("listed_in", "Comedies", "release_year", "2019"),
		rec("listed_in", "TV Dramas", "release_year", "2020"),
		rec("listed_in", "Dramas", "release_year", "2018"),
		rec("listed_in", "dramas", "release_year", "2019"),
		rec("listed_in", "Dramas", "release_year", "unknown"),
	}

	got := CountByYearForGenre(records, "listed_in", "Dramas", "release_year")
	want := []models.Point{
		{Key: "2018", Value: 1, Count: 1},
		{Key: "2019", Value: 2, Count: 2},
		{Key: "2020", Value: 1, Count: 1},
	}
	assertSeries(t, got, want)
}

func TestCountByYearForGenreNoSelection(t *testing.T) {
	records := []models.Record{rec("listed_in", "Dramas", "release_year", "2019")}

	for _, genre := range []string{"", "  ", models.GenrePlaceholder} {
		if got := CountByYearForGenre(records, "listed_in", genre, "release_year"); len(got) != 0 {
			t.Errorf("Expected empty series for genre %q, got %+v", genre, got)
		}
	}
}

func TestCountByYearForGenreProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	genres := []string{"Dramas", "Comedies", "Horror Movies", "Documentaries", "Stand-Up Comedy"}

	records := make([]models.Record, 300)
	for i := range records {
		g := genres[rng.Intn(len(genres))] + ", " + genres[rng.Intn(len(genres))]
		year := strconv.Itoa(2000 + rng.Intn(20))
		if rng.Intn(10) == 0 {
			year = "n/a"
		}
		records[i] = rec("listed_in", g, "release_year", year)
	}

	genre := "comed"
	expected := 0
	for _, r := range records {
		if strings.Contains(strings.ToLower(r["listed_in"]), genre) {
			if _, err := strconv.Atoi(r["release_year"]); err == nil {
				expected++
			}
		}
	}

	got := CountByYearForGenre(records, "listed_in", genre, "release_year")
	if got.Total() != expected {
		t.Errorf("Expected %d matching records, got %d", expected, got.Total())
	}
	for i := 1; i < len(got); i++ {
		prev, _ := strconv.Atoi(got[i-1].Key)
		cur, _ := strconv.Atoi(got[i].Key)
		if prev >= cur {
			t.Errorf("Expected ascending years, got %s before %s", got[i-1].Key, got[i].Key)
		}
	}
}

func TestTopCountriesForYear(t *testing.T) {
	records := []models.Record{
		rec("country", "India", "release_year", "2019"),
		rec("country", "United States, India", "release_year", "2019"),
		rec("country", "France", "release_year", "2019"),
		rec("country", "United States", "release_year", "2019"),
		rec("country", "Japan", "release_year", "2018"),
		rec("country", "", "release_year", "2019"),
		rec("country", " , Canada,", "release_year", "2019"),
	}

	tests := []struct {
		name  string
		year  int
		limit int
		want  []models.Point
	}{
		{
			name:  "ties keep first appearance",
			year:  2019,
			limit: 10,
			want: []models.Point{
				{Key: "India", Value: 2, Count: 2},
				{Key: "United States", Value: 2, Count: 2},
				{Key: "France", Value: 1, Count: 1},
				{Key: "Canada", Value: 1, Count: 1},
			},
		},
		{
			name:  "limit truncates",
			year:  2019,
			limit: 2,
			want: []models.Point{
				{Key: "India", Value: 2, Count: 2},
				{Key: "United States", Value: 2, Count: 2},
			},
		},
		{
			name:  "no titles in year",
			year:  1950,
			limit: 10,
			want:  []models.Point{},
		},
		{
			name:  "non-positive limit keeps all",
			year:  2019,
			limit: 0,
			want: []models.Point{
				{Key: "India", Value: 2, Count: 2},
				{Key: "United States", Value: 2, Count: 2},
				{Key: "France", Value: 1, Count: 1},
				{Key: "Canada", Value: 1, Count: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TopCountriesForYear(records, "country", "release_year", tt.year, tt.limit)
			assertSeries(t, got, tt.want)
		})
	}
}

func TestTopCountriesForYearProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	countries := []string{"India", "United States", "France", "Japan", "Brazil", "Spain", "Mexico", "Canada"}

	for trial := 0; trial < 30; trial++ {
		records := make([]models.Record, 150)
		for i := range records {
			c := countries[rng.Intn(len(countries))]
			if rng.Intn(3) == 0 {
				c += ", " + countries[rng.Intn(len(countries))]
			}
			records[i] = rec("country", c, "release_year", strconv.Itoa(2018+rng.Intn(3)))
		}

		limit := 1 + rng.Intn(5)
		got := TopCountriesForYear(records, "country", "release_year", 2019, limit)
		all := TopCountriesForYear(records, "country", "release_year", 2019, 0)

		if len(got) > limit {
			t.Fatalf("Trial %d: expected at most %d entries, got %d", trial, limit, len(got))
		}
		for i := 1; i < len(got); i++ {
			if got[i].Count > got[i-1].Count {
				t.Fatalf("Trial %d: counts increase at %d: %+v", trial, i, got)
			}
		}
		if len(got) == 0 {
			continue
		}
		included := make(map[string]bool)
		for _, p := range got {
			included[p.Key] = true
		}
		minIncluded := got[len(got)-1].Count
		for _, p := range all {
			if !included[p.Key] && p.Count > minIncluded {
				t.Fatalf("Trial %d: omitted %s (%d) outranks included minimum %d", trial, p.Key, p.Count, minIncluded)
			}
		}
	}
}

func TestCountByRating(t *testing.T) {
	records := []models.Record{
		rec("rating", "PG"),
		rec("rating", "PG"),
		rec("rating", "TV-MA"),
		rec("rating", ""),
		rec("rating", " "),
	}

	got := CountByRating(records, "rating")
	want := []models.Point{
		{Key: "PG", Value: 2, Count: 2},
		{Key: "TV-MA", Value: 1, Count: 1},
	}
	assertSeries(t, got, want)
}

func TestCountByRatingTrimsAndOrders(t *testing.T) {
	records := []models.Record{
		rec("rating", "R"),
		rec("rating", " TV-14 "),
		rec("rating", "TV-14"),
		rec("rating", "G"),
	}

	got := CountByRating(records, "rating")
	want := []models.Point{
		{Key: "TV-14", Value: 2, Count: 2},
		{Key: "R", Value: 1, Count: 1},
		{Key: "G", Value: 1, Count: 1},
	}
	assertSeries(t, got, want)
}

func TestToPercent(t *testing.T) {
	tests := []struct {
		name  string
		input models.Series
		want  []float64
	}{
		{
			name:  "two categories",
			input: models.Series{{Key: "Movie", Count: 7000}, {Key: "TV Show", Count: 3000}},
			want:  []float64{70, 30},
		},
		{
			name:  "rounded to one decimal",
			input: models.Series{{Key: "Movie", Count: 2}, {Key: "TV Show", Count: 1}},
			want:  []float64{66.7, 33.3},
		},
		{
			name:  "zero total",
			input: models.Series{{Key: "Movie", Count: 0}, {Key: "TV Show", Count: 0}},
			want:  []float64{0, 0},
		},
		{
			name:  "empty",
			input: models.Series{},
			want:  []float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToPercent(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %d points, got %d", len(tt.want), len(got))
			}
			for i, w := range tt.want {
				if math.Abs(got[i].Value-w) > 1e-9 {
					t.Errorf("Point %d: expected %v, got %v", i, w, got[i].Value)
				}
				if got[i].Count != tt.input[i].Count {
					t.Errorf("Point %d: expected raw count to be kept", i)
				}
			}
		})
	}
}

func TestToPercentSumsToHundred(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 100; trial++ {
		s := models.Series{{Key: "a", Count: 1 + rng.Intn(10000)}, {Key: "b", Count: rng.Intn(10000)}}
		sum := 0.0
		for _, p := range ToPercent(s) {
			sum += p.Value
		}
		if math.Abs(sum-100) > 0.1+1e-9 {
			t.Fatalf("Trial %d: expected sum near 100, got %v", trial, sum)
		}
	}
}

func TestSortByValue(t *testing.T) {
	s := models.Series{
		{Key: "a", Value: 1},
		{Key: "b", Value: 3},
		{Key: "c", Value: 1},
		{Key: "d", Value: 2},
	}

	asc := SortByValue(s, models.SortAsc)
	if got := strings.Join(asc.Keys(), ""); got != "acdb" {
		t.Errorf("Expected ascending order acdb, got %s", got)
	}
	desc := SortByValue(s, models.SortDesc)
	if got := strings.Join(desc.Keys(), ""); got != "bdac" {
		t.Errorf("Expected descending order bdac, got %s", got)
	}
	if got := strings.Join(s.Keys(), ""); got != "abcd" {
		t.Errorf("Expected input to stay untouched, got %s", got)
	}
}

func TestDistinctGenresAndYears(t *testing.T) {
	records := []models.Record{
		rec("listed_in", "Dramas, Comedies", "release_year", "2020"),
		rec("listed_in", "Comedies", "release_year", "2018"),
		rec("listed_in", "", "release_year", "abc"),
		rec("listed_in", "Horror Movies,", "release_year", "2020"),
	}

	genres := DistinctGenres(records, "listed_in")
	if got := strings.Join(genres, "|"); got != "Comedies|Dramas|Horror Movies" {
		t.Errorf("Unexpected genres %q", got)
	}

	years := DistinctYears(records, "release_year")
	if len(years) != 2 || years[0] != 2018 || years[1] != 2020 {
		t.Errorf("Unexpected years %v", years)
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"   ", nil},
		{"India", []string{"India"}},
		{" India , United States ", []string{"India", "United States"}},
		{",,France,", []string{"France"}},
	}

	for _, tt := range tests {
		got := SplitList(tt.input)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
			t.Errorf("SplitList(%q): expected %v, got %v", tt.input, tt.want, got)
		}
	}
}

func assertSeries(t *testing.T, got models.Series, want []models.Point) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("Expected %d points, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Point %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}
