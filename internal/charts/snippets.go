package charts

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"flixviz/internal/state"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// ChartSnippet is a rendered interactive chart.
// HTML is a standalone document that can be served or embedded in an iframe.
type ChartSnippet struct {
	ID    string
	Title string
	HTML  string
}

const (
	backgroundColor = "#141414"
	textColor       = "#FFFFFF"
)

// chartID is the DOM id of a chart
func chartID(v state.View) string {
	return "chart-" + string(v.Kind)
}

// Snippet renders view as a go-echarts document. Empty views render an
// empty chart rather than failing.
func (cg *ChartGenerator) Snippet(v state.View) (ChartSnippet, error) {
	var buf bytes.Buffer
	if err := cg.echart(v).Render(&buf); err != nil {
		return ChartSnippet{}, fmt.Errorf("failed to render %s chart: %w", v.Kind, err)
	}
	return ChartSnippet{ID: chartID(v), Title: v.Title, HTML: buf.String()}, nil
}

// Page renders every view onto one go-echarts page
func (cg *ChartGenerator) Page(views []state.View, w io.Writer) error {
	page := components.NewPage()
	page.PageTitle = "Netflix Titles Dashboard"
	page.SetLayout(components.PageFlexLayout)

	for _, v := range views {
		page.AddCharts(cg.echart(v))
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render dashboard page: %w", err)
	}
	return nil
}

// renderableChart is a go-echarts chart that can render itself
type renderableChart interface {
	components.Charter
	Render(w io.Writer) error
}

func (cg *ChartGenerator) echart(v state.View) renderableChart {
	if v.Line {
		return cg.lineChart(v)
	}
	return cg.barChart(v)
}

func globalOptions(v state.View) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			ChartID:         chartID(v),
			Width:           fmt.Sprintf("%.0fpx", v.Width+120),
			Height:          fmt.Sprintf("%.0fpx", v.Height+140),
			BackgroundColor: backgroundColor,
			Theme:           types.ThemeChalk,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:      v.Title,
			Subtitle:   v.Subtitle,
			TitleStyle: &opts.TextStyle{Color: textColor},
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:      opts.Bool(true),
			Trigger:   "item",
			Formatter: types.FuncStr(tooltipFormatter(v)),
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
	}
}

func (cg *ChartGenerator) barChart(v state.View) *charts.Bar {
	bar := charts.NewBar()
	global := globalOptions(v)

	categoryName, valueName := v.XLabel, v.YLabel
	if v.Horizontal {
		categoryName, valueName = v.YLabel, v.XLabel
	}
	global = append(global,
		charts.WithXAxisOpts(opts.XAxis{
			Name:      categoryName,
			AxisLabel: &opts.AxisLabel{Color: textColor, Rotate: rotation(v)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      valueName,
			AxisLabel: &opts.AxisLabel{Color: textColor},
		}),
	)
	bar.SetGlobalOptions(global...)

	keys := v.Series.Keys()
	data := make([]opts.BarData, len(v.Series))
	for i, p := range v.Series {
		data[i] = opts.BarData{
			Name:      p.Key,
			Value:     p.Value,
			ItemStyle: &opts.ItemStyle{Color: v.ColorOf(i), BorderColor: textColor},
		}
	}
	if v.Horizontal {
		keys, data = reverseKeys(keys), reverseBars(data)
	}

	bar.SetXAxis(keys).AddSeries(seriesName(v), data,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: labelPosition(v), Color: textColor}),
	)
	if v.Horizontal {
		bar.XYReversal()
	}
	return bar
}

func (cg *ChartGenerator) lineChart(v state.View) *charts.Line {
	line := charts.NewLine()
	global := globalOptions(v)
	global = append(global,
		charts.WithXAxisOpts(opts.XAxis{
			Name:      v.XLabel,
			AxisLabel: &opts.AxisLabel{Color: textColor},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      v.YLabel,
			Min:       v.Y.Domain[0],
			AxisLabel: &opts.AxisLabel{Color: textColor},
		}),
	)
	line.SetGlobalOptions(global...)

	data := make([]opts.LineData, len(v.Series))
	for i, p := range v.Series {
		data[i] = opts.LineData{Name: p.Key, Value: p.Value}
	}

	line.SetXAxis(v.Series.Keys()).
		AddSeries(seriesName(v), data).
		SetSeriesOptions(
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(false)}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: state.DefaultColor, Width: 3}),
		)
	return line
}

// tooltipFormatter shows the key, count and share of the hovered point.
// Counts travel with the chart so percent mode still reports them. They are
// listed in data order, which is reversed for horizontal bars.
func tooltipFormatter(v state.View) string {
	n := len(v.Series)
	counts := make([]string, n)
	shares := make([]string, n)
	for i, p := range v.Series {
		h, _ := v.Lookup(p.Key)
		j := i
		if v.Horizontal {
			j = n - 1 - i
		}
		counts[j] = strconv.Itoa(h.Count)
		shares[j] = strconv.FormatFloat(h.Percent, 'f', 1, 64)
	}

	return string(opts.FuncOpts(fmt.Sprintf(`function (params) {
	var counts = [%s];
	var shares = [%s];
	var i = params.dataIndex;
	return params.name + '<br/>Count: ' + counts[i] + '<br/>Percent: ' + shares[i] + '%%';
}`, strings.Join(counts, ","), strings.Join(shares, ","))))
}

func seriesName(v state.View) string {
	if v.Percent() {
		return "Share of titles (%)"
	}
	return "Titles"
}

func labelPosition(v state.View) string {
	if v.Horizontal {
		return "right"
	}
	return "top"
}

func rotation(v state.View) float64 {
	if len(v.Series) > 8 && !v.Horizontal {
		return 40
	}
	return 0
}

func reverseKeys(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[len(keys)-1-i] = k
	}
	return out
}

func reverseBars(data []opts.BarData) []opts.BarData {
	out := make([]opts.BarData, len(data))
	for i, d := range data {
		out[len(data)-1-i] = d
	}
	return out
}
