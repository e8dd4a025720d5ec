package render

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/tsawler/regiongdp/format"
	"github.com/tsawler/regiongdp/model"
)

// ShareTitle returns the title of the share chart for src.
func ShareTitle(src model.Source) string {
	return fmt.Sprintf("Share of Regional GDP by Country - %s", src)
}

// ShareChartDef builds a go-chart stacked bar chart in which every region
// bar is scaled to 100% and each segment is a country's share of that
// region's GDP.
func ShareChartDef(buckets []model.RegionBucket, src model.Source) chart.StackedBarChart {
	colors := Palette(buckets)

	bars := make([]chart.StackedBar, 0, len(buckets))
	for _, b := range buckets {
		values := make([]chart.Value, 0, len(b.Entries))
		for _, e := range b.Entries {
			values = append(values, chart.Value{
				Label: e.Label,
				Value: e.Value,
				Style: chart.Style{
					FillColor:   toDrawing(colors[e.Label]),
					StrokeColor: drawing.ColorWhite,
					StrokeWidth: 0.5,
				},
			})
		}
		bars = append(bars, chart.StackedBar{Name: b.Region, Width: barWidth, Values: values})
	}

	return chart.StackedBarChart{
		Title:      ShareTitle(src),
		Width:      int(chartWidth(len(bars))),
		Height:     chartHeight,
		BarSpacing: barSpacing,
		Background: chart.Style{
			Padding: chart.Box{Top: 60, Left: 20, Right: 20, Bottom: 40},
		},
		XAxis: chart.Style{FontSize: 9},
		YAxis: chart.Style{FontSize: 9},
		Bars:  bars,
	}
}

// ShareChart renders the per-region share chart as SVG or PNG.
func ShareChart(w io.Writer, buckets []model.RegionBucket, src model.Source, f format.Format) error {
	if !f.IsChart() {
		return fmt.Errorf("%w for charts: %s", ErrUnsupportedFormat, f)
	}
	if len(buckets) == 0 {
		return ErrNoData
	}

	sbc := ShareChartDef(buckets, src)
	if f == format.SVG {
		if err := sbc.Render(chart.SVG, w); err != nil {
			return fmt.Errorf("rendering SVG share chart: %w", err)
		}
		return nil
	}

	var buf bytes.Buffer
	if err := sbc.Render(chart.PNG, &buf); err != nil {
		return fmt.Errorf("rendering PNG share chart: %w", err)
	}
	return writeCaptioned(w, &buf, ShareCaption(src))
}

// ShareCaption returns the attribution line drawn under PNG share charts.
func ShareCaption(src model.Source) string {
	return fmt.Sprintf("Source: Wikipedia, %s figures. Share of each region's GDP", src)
}

func toDrawing(c color.RGBA) drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}
