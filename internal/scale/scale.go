// Package scale maps data domains onto pixel ranges.
package scale

import (
	"errors"
	"fmt"
	"math"

	"flixviz/internal/models"
)

// ErrInvalidPadding is returned for band padding outside [0, 1)
var ErrInvalidPadding = errors.New("band padding must be in [0, 1)")

// Linear maps a numeric domain onto a numeric range
type Linear struct {
	d0, d1 float64
	r0, r1 float64
}

// NewLinear creates a linear scale from [d0, d1] onto [r0, r1]
func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{d0: d0, d1: d1, r0: r0, r1: r1}
}

// Map converts a domain value into range space. A degenerate domain maps
// every value to the start of the range.
func (l Linear) Map(v float64) float64 {
	if l.d0 == l.d1 {
		return l.r0
	}
	t := (v - l.d0) / (l.d1 - l.d0)
	return l.r0 + t*(l.r1-l.r0)
}

// Ticks returns count+1 evenly spaced domain values
func (l Linear) Ticks(count int) []float64 {
	if count <= 0 || l.d0 == l.d1 {
		return []float64{l.d0}
	}
	step := (l.d1 - l.d0) / float64(count)
	ticks := make([]float64, count+1)
	for i := range ticks {
		ticks[i] = l.d0 + float64(i)*step
	}
	return ticks
}

// Band is a categorical scale dividing a range into equal steps
type Band struct {
	categories []string
	index      map[string]int
	r0, r1     float64
	padding    float64
	step       float64
	width      float64
}

// Slot is the position of one category on a band scale
type Slot struct {
	Key   string
	Start float64
	Width float64
}

// NewBand divides [r0, r1] among categories. Each category gets a step of
// (r1-r0)/n made of a band of width step/(1+padding) followed by the gap.
func NewBand(categories []string, r0, r1, padding float64) (Band, error) {
	if padding < 0 || padding >= 1 || math.IsNaN(padding) {
		return Band{}, fmt.Errorf("%w: got %v", ErrInvalidPadding, padding)
	}

	b := Band{
		categories: append([]string(nil), categories...),
		index:      make(map[string]int, len(categories)),
		r0:         r0,
		r1:         r1,
		padding:    padding,
	}
	for i, c := range categories {
		if _, ok := b.index[c]; !ok {
			b.index[c] = i
		}
	}
	if n := len(categories); n > 0 {
		b.step = (r1 - r0) / float64(n)
		b.width = b.step / (1 + padding)
	}
	return b, nil
}

// Lookup returns the slot of key
func (b Band) Lookup(key string) (Slot, bool) {
	i, ok := b.index[key]
	if !ok {
		return Slot{}, false
	}
	return Slot{Key: key, Start: b.r0 + float64(i)*b.step, Width: b.width}, true
}

// Center returns the midpoint of key's band
func (b Band) Center(key string) (float64, bool) {
	s, ok := b.Lookup(key)
	if !ok {
		return 0, false
	}
	return s.Start + s.Width/2, true
}

// Slots returns every band in category order
func (b Band) Slots() []Slot {
	out := make([]Slot, len(b.categories))
	for i, c := range b.categories {
		out[i] = Slot{Key: c, Start: b.r0 + float64(i)*b.step, Width: b.width}
	}
	return out
}

// Width is the width of a single band
func (b Band) Width() float64 { return b.width }

// Step is the distance between the starts of adjacent bands
func (b Band) Step() float64 { return b.step }

// Nice rounds max up to a multiple of a tick step suitable for about
// ticks intervals.
func Nice(max float64, ticks int) float64 {
	if max <= 0 || ticks <= 0 || math.IsInf(max, 0) || math.IsNaN(max) {
		return max
	}
	step := tickStep(max, ticks)
	return math.Ceil(max/step) * step
}

func tickStep(span float64, ticks int) float64 {
	raw := span / float64(ticks)
	power := math.Pow(10, math.Floor(math.Log10(raw)))
	ratio := raw / power
	switch {
	case ratio >= math.Sqrt(50):
		return 10 * power
	case ratio >= math.Sqrt(10):
		return 5 * power
	case ratio >= math.Sqrt(2):
		return 2 * power
	default:
		return power
	}
}

// LinearSpec describes a linear axis
func LinearSpec(d0, d1, r0, r1 float64) models.ScaleSpec {
	return models.ScaleSpec{
		Kind:   models.ScaleLinear,
		Domain: [2]float64{d0, d1},
		Range:  [2]float64{r0, r1},
	}
}

// BandSpec describes a band axis
func BandSpec(categories []string, r0, r1, padding float64) models.ScaleSpec {
	return models.ScaleSpec{
		Kind:       models.ScaleBand,
		Categories: append([]string{}, categories...),
		Range:      [2]float64{r0, r1},
		Padding:    padding,
	}
}

// FromSpecLinear builds the linear scale described by spec
func FromSpecLinear(spec models.ScaleSpec) (Linear, error) {
	if spec.Kind != models.ScaleLinear {
		return Linear{}, fmt.Errorf("scale spec is %s, not linear", spec.Kind)
	}
	return NewLinear(spec.Domain[0], spec.Domain[1], spec.Range[0], spec.Range[1]), nil
}

// FromSpecBand builds the band scale described by spec
func FromSpecBand(spec models.ScaleSpec) (Band, error) {
	if spec.Kind != models.ScaleBand {
		return Band{}, fmt.Errorf("scale spec is %s, not band", spec.Kind)
	}
	return NewBand(spec.Categories, spec.Range[0], spec.Range[1], spec.Padding)
}

// Rescale returns spec with its range replaced, keeping domain and padding
func Rescale(spec models.ScaleSpec, r0, r1 float64) models.ScaleSpec {
	out := spec
	out.Categories = append([]string(nil), spec.Categories...)
	out.Range = [2]float64{r0, r1}
	return out
}
