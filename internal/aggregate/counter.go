package aggregate

import (
	"sort"

	"flixviz/internal/models"
)

// counter accumulates counts per key and remembers the order in which
// keys were first seen, so ties sort deterministically.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// series returns points in first-seen order
func (c *counter) series() models.Series {
	out := make(models.Series, 0, len(c.order))
	for _, k := range c.order {
		n := c.counts[k]
		out = append(out, models.Point{Key: k, Value: float64(n), Count: n})
	}
	return out
}

// SortByValue returns a copy of s sorted by value. Equal values keep their
// relative order.
func SortByValue(s models.Series, order models.SortOrder) models.Series {
	out := s.Clone()
	sort.SliceStable(out, func(i, j int) bool {
		if order == models.SortAsc {
			return out[i].Value < out[j].Value
		}
		return out[i].Value > out[j].Value
	})
	return out
}
