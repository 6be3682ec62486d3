package charts

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"flixviz/internal/models"
	"flixviz/internal/scale"
	"flixviz/internal/state"
)

// Outer padding around the plot area, leaving room for titles and axis names
var plotPadding = chart.Box{Top: 70, Left: 90, Right: 40, Bottom: 70}

// barSeries draws one rectangle per point. Bars are laid out with the band
// and linear scales of the view rescaled onto the canvas.
type barSeries struct {
	view state.View
}

// legendOnlySeries is a dummy series used only to populate the chart legend
type legendOnlySeries struct {
	name  string
	color drawing.Color
}

func (ls legendOnlySeries) GetName() string { return ls.name }
func (ls legendOnlySeries) GetStyle() chart.Style {
	return chart.Style{FillColor: ls.color, StrokeColor: drawing.ColorFromHex("333333")}
}
func (ls legendOnlySeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }
func (ls legendOnlySeries) Len() int                  { return 0 }
func (ls legendOnlySeries) Validate() error           { return nil }
func (ls legendOnlySeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
}

func (bs barSeries) GetName() string           { return string(bs.view.Kind) }
func (bs barSeries) GetStyle() chart.Style     { return chart.Style{} }
func (bs barSeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }
func (bs barSeries) Len() int                  { return len(bs.view.Series) }

func (bs barSeries) Validate() error {
	if len(bs.view.Series) == 0 {
		return ErrEmptyView
	}
	return nil
}

func (bs barSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	v := bs.view
	width := float64(canvasBox.Width())
	height := float64(canvasBox.Height())

	var bandSpec, valueSpec models.ScaleSpec
	if v.Horizontal {
		bandSpec = scale.Rescale(v.Y, 0, height)
		valueSpec = scale.Rescale(v.X, 0, width)
	} else {
		bandSpec = scale.Rescale(v.X, 0, width)
		valueSpec = scale.Rescale(v.Y, height, 0)
	}
	band, err := scale.FromSpecBand(bandSpec)
	if err != nil {
		return
	}
	value, err := scale.FromSpecLinear(valueSpec)
	if err != nil {
		return
	}

	labelStyle := defaults
	labelStyle.FontSize = 9
	labelStyle.FontColor = drawing.ColorFromHex("333333")

	for i, p := range v.Series {
		slot, ok := band.Lookup(p.Key)
		if !ok {
			continue
		}
		var x0, x1, y0, y1 int
		if v.Horizontal {
			x0 = canvasBox.Left
			x1 = canvasBox.Left + int(value.Map(p.Value))
			y0 = canvasBox.Top + int(slot.Start)
			y1 = canvasBox.Top + int(slot.Start+slot.Width)
		} else {
			x0 = canvasBox.Left + int(slot.Start)
			x1 = canvasBox.Left + int(slot.Start+slot.Width)
			y0 = canvasBox.Top + int(value.Map(p.Value))
			y1 = canvasBox.Bottom
		}
		fillRect(r, x0, y0, x1, y1, hexColor(v.ColorOf(i)))

		center, _ := band.Center(p.Key)
		label := v.FormatValue(p.Value)
		labelStyle.WriteTextOptionsToRenderer(r)
		tw := r.MeasureText(label).Width()
		if v.Horizontal {
			r.Text(label, x1+4, canvasBox.Top+int(center)+4)
		} else {
			r.Text(label, canvasBox.Left+int(center)-tw/2, y0-4)
		}
	}
}

func fillRect(r chart.Renderer, x0, y0, x1, y1 int, color drawing.Color) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	r.SetFillColor(color)
	r.SetStrokeColor(drawing.ColorFromHex("333333"))
	r.SetStrokeWidth(0.5)
	r.MoveTo(x0, y0)
	r.LineTo(x1, y0)
	r.LineTo(x1, y1)
	r.LineTo(x0, y1)
	r.Close()
	r.FillStroke()
}

func hexColor(c string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(c, "#"))
}

// bandTicks places a label under the center of every band. Values are in
// category units, where band i occupies [i, i+1).
func bandTicks(spec models.ScaleSpec, reversed bool) []chart.Tick {
	n := float64(len(spec.Categories))
	band, err := scale.NewBand(spec.Categories, 0, n, spec.Padding)
	if err != nil {
		return nil
	}
	ticks := make([]chart.Tick, 0, len(spec.Categories))
	for _, slot := range band.Slots() {
		pos := slot.Start + band.Width()/2
		if reversed {
			pos = n - pos
		}
		ticks = append(ticks, chart.Tick{Value: pos, Label: slot.Key})
	}
	return ticks
}

// valueTicks splits the value axis into five even intervals
func valueTicks(rng *chart.ContinuousRange, v state.View) []chart.Tick {
	format := valueFormatter(v)
	values := scale.NewLinear(rng.Min, rng.Max, 0, 1).Ticks(5)
	ticks := make([]chart.Tick, len(values))
	for i, val := range values {
		ticks[i] = chart.Tick{Value: val, Label: format(val)}
	}
	return ticks
}

func valueRange(spec models.ScaleSpec) *chart.ContinuousRange {
	lo, hi := spec.Domain[0], spec.Domain[1]
	if hi <= lo {
		hi = lo + 1
	}
	return &chart.ContinuousRange{Min: lo, Max: hi}
}

func valueFormatter(v state.View) chart.ValueFormatter {
	return func(val interface{}) string {
		f, ok := val.(float64)
		if !ok {
			return fmt.Sprintf("%v", val)
		}
		label := strconv.FormatFloat(math.Round(f*10)/10, 'f', -1, 64)
		if v.Percent() {
			return label + "%"
		}
		return label
	}
}

// RenderPNG draws view as a static PNG image
func (cg *ChartGenerator) RenderPNG(v state.View, w io.Writer) error {
	if v.Empty() {
		return ErrEmptyView
	}

	graph := chart.Chart{
		Title:      v.Title,
		TitleStyle: chart.Style{FontSize: 16, FontColor: drawing.ColorBlack},
		Background: chart.Style{Padding: plotPadding},
		Width:      int(v.Width) + plotPadding.Left + plotPadding.Right,
		Height:     int(v.Height) + plotPadding.Top + plotPadding.Bottom,
	}

	gridStyle := chart.Style{StrokeColor: drawing.Color{R: 225, G: 225, B: 225, A: 255}, StrokeWidth: 1}

	switch {
	case v.Line:
		cg.configureLine(&graph, v, gridStyle)
	case v.Horizontal:
		n := float64(len(v.Y.Categories))
		values := valueRange(v.X)
		graph.XAxis = chart.XAxis{
			Name:           v.XLabel,
			Style:          chart.Style{FontSize: 10},
			Range:          values,
			Ticks:          valueTicks(values, v),
			GridMajorStyle: gridStyle,
		}
		graph.YAxis = chart.YAxis{
			Name:  v.YLabel,
			Style: chart.Style{FontSize: 10},
			Ticks: bandTicks(v.Y, true),
			Range: &chart.ContinuousRange{Min: 0, Max: n},
		}
		graph.Series = append(graph.Series, barSeries{view: v})
	default:
		n := float64(len(v.X.Categories))
		graph.XAxis = chart.XAxis{
			Name:  v.XLabel,
			Style: chart.Style{FontSize: 10},
			Ticks: bandTicks(v.X, false),
			Range: &chart.ContinuousRange{Min: 0, Max: n},
		}
		values := valueRange(v.Y)
		graph.YAxis = chart.YAxis{
			Name:           v.YLabel,
			Style:          chart.Style{FontSize: 10},
			Range:          values,
			Ticks:          valueTicks(values, v),
			GridMajorStyle: gridStyle,
		}
		graph.Series = append(graph.Series, barSeries{view: v})
	}

	if len(v.Legend) > 0 {
		for _, entry := range v.Legend {
			graph.Series = append(graph.Series, legendOnlySeries{name: entry.Label, color: hexColor(entry.Color)})
		}
		graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render %s chart: %w", v.Kind, err)
	}
	return nil
}

func (cg *ChartGenerator) configureLine(graph *chart.Chart, v state.View, gridStyle chart.Style) {
	xs := make([]float64, 0, len(v.Series))
	ys := make([]float64, 0, len(v.Series))
	for _, p := range v.Series {
		year, err := strconv.ParseFloat(p.Key, 64)
		if err != nil {
			continue
		}
		xs = append(xs, year)
		ys = append(ys, p.Value)
	}

	xRange := valueRange(v.X)
	if v.X.Domain[1] <= v.X.Domain[0] {
		xRange = &chart.ContinuousRange{Min: v.X.Domain[0] - 1, Max: v.X.Domain[0] + 1}
	}

	graph.XAxis = chart.XAxis{
		Name:  v.XLabel,
		Style: chart.Style{FontSize: 10},
		Range: xRange,
		ValueFormatter: func(val interface{}) string {
			if f, ok := val.(float64); ok {
				return strconv.FormatFloat(f, 'f', 0, 64)
			}
			return fmt.Sprintf("%v", val)
		},
	}
	values := valueRange(v.Y)
	graph.YAxis = chart.YAxis{
		Name:           v.YLabel,
		Style:          chart.Style{FontSize: 10},
		Range:          values,
		Ticks:          valueTicks(values, v),
		GridMajorStyle: gridStyle,
	}
	graph.Series = append(graph.Series, chart.ContinuousSeries{
		Name:    seriesName(v),
		XValues: xs,
		YValues: ys,
		Style: chart.Style{
			StrokeColor: hexColor(state.DefaultColor),
			StrokeWidth: 3,
			DotColor:    hexColor(state.DefaultColor),
			DotWidth:    3,
		},
	})
}
