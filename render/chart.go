package render

import (
	"errors"
	"fmt"
	"image/color"
	"image/png"
	"io"
	"math"
	"slices"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/tsawler/regiongdp/format"
	"github.com/tsawler/regiongdp/model"
)

// ErrNoData is returned when there are no buckets to draw.
var ErrNoData = errors.New("render: no region has data for the selected source")

// ErrUnsupportedFormat is returned for formats a renderer cannot produce.
var ErrUnsupportedFormat = errors.New("render: unsupported format")

// Unit is the unit of every GDP value.
const Unit = "GDP (US$ million)"

// Chart geometry, in points. PNG output uses 72 DPI so points equal pixels.
const (
	chartHeight = 700
	barWidth    = 60
	barSpacing  = 50
	minWidth    = 800
	pngDPI      = 72

	// Segments shorter than this share of the tallest bar are not labelled.
	minLabelShare = 0.04
	headroom      = 1.05
)

// Title returns the chart title for src.
func Title(src model.Source) string {
	return fmt.Sprintf("GDP by Country (Stacked by Region) - %s", src)
}

// Layout is the pivot of buckets into one stack series per label. Values[i][j]
// is the value of Labels[i] in Regions[j], zero when the label is absent.
type Layout struct {
	Regions []string
	Labels  []string
	Values  [][]float64
}

// Segment is one drawn piece of a region bar.
type Segment struct {
	Region string
	Label  string
	Bottom float64
	Top    float64
}

// NewLayout pivots buckets. Labels are sorted, so every bar stacks its
// countries in the same order and shares colours with the palette.
func NewLayout(buckets []model.RegionBucket) Layout {
	l := Layout{Regions: make([]string, len(buckets))}
	index := make(map[string]int)
	for _, b := range buckets {
		for _, e := range b.Entries {
			if _, ok := index[e.Label]; !ok {
				index[e.Label] = 0
				l.Labels = append(l.Labels, e.Label)
			}
		}
	}
	slices.Sort(l.Labels)
	for i, label := range l.Labels {
		index[label] = i
	}

	l.Values = make([][]float64, len(l.Labels))
	for i := range l.Values {
		l.Values[i] = make([]float64, len(buckets))
	}
	for j, b := range buckets {
		l.Regions[j] = b.Region
		for _, e := range b.Entries {
			l.Values[index[e.Label]][j] += e.Value
		}
	}
	return l
}

// Totals returns the stacked height of every region bar.
func (l Layout) Totals() []float64 {
	totals := make([]float64, len(l.Regions))
	for _, series := range l.Values {
		for j, v := range series {
			totals[j] += v
		}
	}
	return totals
}

// Segments returns the non-empty pieces of every bar, bottom to top.
func (l Layout) Segments() []Segment {
	var segs []Segment
	bottoms := make([]float64, len(l.Regions))
	for i, series := range l.Values {
		for j, v := range series {
			if v <= 0 {
				continue
			}
			segs = append(segs, Segment{
				Region: l.Regions[j],
				Label:  l.Labels[i],
				Bottom: bottoms[j],
				Top:    bottoms[j] + v,
			})
			bottoms[j] += v
		}
	}
	return segs
}

// Plot builds the stacked bar chart: one bar per region, one segment per
// country, heights in US$ million.
func Plot(buckets []model.RegionBucket, src model.Source) (*plot.Plot, error) {
	p, _, err := newPlot(buckets, src)
	return p, err
}

func newPlot(buckets []model.RegionBucket, src model.Source) (*plot.Plot, []*plotter.BarChart, error) {
	if len(buckets) == 0 {
		return nil, nil, ErrNoData
	}

	layout := NewLayout(buckets)
	colors := Palette(buckets)

	p := plot.New()
	p.Title.Text = Title(src)
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Region"
	p.Y.Label.Text = Unit
	p.Y.Tick.Marker = groupedTicks{printer: message.NewPrinter(language.English)}

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	p.Add(grid)

	bars := make([]*plotter.BarChart, 0, len(layout.Labels))
	var below *plotter.BarChart
	for i, label := range layout.Labels {
		b, err := plotter.NewBarChart(plotter.Values(layout.Values[i]), vg.Points(barWidth))
		if err != nil {
			return nil, nil, fmt.Errorf("building series %q: %w", label, err)
		}
		b.Color = colors[label]
		b.LineStyle.Color = color.White
		b.LineStyle.Width = vg.Points(0.5)
		if below != nil {
			b.StackOn(below)
		}
		p.Add(b)
		bars = append(bars, b)
		below = b
	}
	p.NominalX(layout.Regions...)

	labels, err := segmentLabels(layout)
	if err != nil {
		return nil, nil, err
	}
	if labels != nil {
		p.Add(labels)
	}

	p.Y.Min = 0
	p.Y.Max = max(slices.Max(layout.Totals())*headroom, 1)
	return p, bars, nil
}

// segmentLabels names the segments tall enough to hold text.
func segmentLabels(layout Layout) (*plotter.Labels, error) {
	tallest := slices.Max(layout.Totals())
	index := make(map[string]int, len(layout.Regions))
	for j, r := range layout.Regions {
		index[r] = j
	}

	var xyl plotter.XYLabels
	for _, s := range layout.Segments() {
		if tallest <= 0 || (s.Top-s.Bottom)/tallest < minLabelShare {
			continue
		}
		xyl.XYs = append(xyl.XYs, plotter.XY{X: float64(index[s.Region]), Y: (s.Bottom + s.Top) / 2})
		xyl.Labels = append(xyl.Labels, s.Label)
	}
	if len(xyl.Labels) == 0 {
		return nil, nil
	}

	labels, err := plotter.NewLabels(xyl)
	if err != nil {
		return nil, fmt.Errorf("building segment labels: %w", err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = draw.XCenter
		labels.TextStyle[i].YAlign = draw.YCenter
		labels.TextStyle[i].Font.Size = vg.Points(7)
	}
	return labels, nil
}

// groupedTicks labels the default ticks with English digit grouping.
type groupedTicks struct {
	printer *message.Printer
}

func (t groupedTicks) Ticks(lo, hi float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(lo, hi)
	for i := range ticks {
		if ticks[i].Label != "" {
			ticks[i].Label = t.printer.Sprintf("%.0f", ticks[i].Value)
		}
	}
	return ticks
}

// chartWidth grows with the number of bars.
func chartWidth(bars int) vg.Length {
	return vg.Points(float64(max(minWidth, bars*(barWidth+barSpacing)+200)))
}

// Chart renders buckets as an SVG or PNG stacked bar chart.
func Chart(w io.Writer, buckets []model.RegionBucket, src model.Source, f format.Format) error {
	if !f.IsChart() {
		return fmt.Errorf("%w for charts: %s", ErrUnsupportedFormat, f)
	}

	p, err := Plot(buckets, src)
	if err != nil {
		return err
	}
	width, height := chartWidth(len(buckets)), vg.Points(chartHeight)

	switch f {
	case format.SVG:
		c := vgsvg.New(width, height)
		p.Draw(draw.New(c))
		if _, err := c.WriteTo(w); err != nil {
			return fmt.Errorf("rendering SVG chart: %w", err)
		}
		return nil

	default:
		c := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(pngDPI))
		p.Draw(draw.New(c))
		if err := png.Encode(w, drawCaption(c.Image(), Caption(src))); err != nil {
			return fmt.Errorf("rendering PNG chart: %w", err)
		}
		return nil
	}
}

// Palette assigns one colour per distinct label, in sorted label order.
func Palette(buckets []model.RegionBucket) map[string]color.RGBA {
	labels := NewLayout(buckets).Labels
	colors := make(map[string]color.RGBA, len(labels))
	for i, label := range labels {
		colors[label] = Rainbow(i, len(labels))
	}
	return colors
}

// Rainbow returns the i-th of n colours spread from red (hue 0) to violet
// (hue 300).
func Rainbow(i, n int) color.RGBA {
	pos := 0.0
	if n > 1 {
		pos = float64(i) / float64(n-1)
	}
	return hsv(300*pos, 0.75, 0.95)
}

// hsv converts hue (degrees), saturation and value in [0, 1] to an opaque colour.
func hsv(h, s, v float64) color.RGBA {
	h = math.Mod(h, 360)
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	to8 := func(f float64) uint8 { return uint8(math.Round((f + m) * 255)) }
	return color.RGBA{R: to8(r), G: to8(g), B: to8(b), A: 255}
}
