package chart

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/nao1215/catalogscan/internal/model"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Chart file names inside the output directory.
const (
	TypeFile    = "type_distribution.png"
	GenreFile   = "top_genres.png"
	CountryFile = "top_countries.png"
	YearFile    = "yearly_trend.png"
)

// Chart titles.
const (
	TypeTitle  = "Movies vs TV Shows - Distribution"
	GenreTitle = "Top Genres"
	YearTitle  = "Content Released per Year"
)

// CountryTitle returns the title of the country chart for a top-n cut.
func CountryTitle(topN int) string {
	return fmt.Sprintf("Top %d Countries by Content Count", topN)
}

const (
	// DefaultWidth is the default image width in inches.
	DefaultWidth = 8.0

	// DefaultHeight is the default image height in inches.
	DefaultHeight = 5.0

	barWidth = vg.Length(20)
)

// ErrNoData is returned when a chart is requested for an empty series.
var ErrNoData = errors.New("no data to plot")

// chartColor is the fill and line color of every chart.
var chartColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}

// Renderer draws charts into image files.
type Renderer struct {
	width  vg.Length
	height vg.Length
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithSize sets the image size in inches. Non-positive values are ignored.
func WithSize(width, height float64) Option {
	return func(r *Renderer) {
		if width > 0 {
			r.width = vg.Length(width) * vg.Inch
		}
		if height > 0 {
			r.height = vg.Length(height) * vg.Inch
		}
	}
}

// NewRenderer returns a Renderer with the given options applied.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		width:  vg.Length(DefaultWidth) * vg.Inch,
		height: vg.Length(DefaultHeight) * vg.Inch,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Bar renders entries as a bar chart with one bar per value, in order.
func (r *Renderer) Bar(path, title, xLabel string, entries []model.Entry) error {
	p, err := r.barPlot(title, xLabel, entries)
	if err != nil {
		return err
	}
	return r.save(p, path)
}

// barPlot builds the bar chart of entries. The X range is padded by half a
// slot on each side so the outer bars are drawn whole.
func (r *Renderer) barPlot(title, xLabel string, entries []model.Entry) (*plot.Plot, error) {
	if len(entries) == 0 {
		return nil, ErrNoData
	}

	values := make(plotter.Values, len(entries))
	labels := make([]string, len(entries))
	for i, e := range entries {
		values[i] = float64(e.Count)
		labels[i] = e.Value
	}

	p := r.newPlot(title, xLabel)
	bars, err := plotter.NewBarChart(values, barWidth)
	if err != nil {
		return nil, fmt.Errorf("build bar chart: %w", err)
	}
	bars.Color = chartColor
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(labels...)
	p.X.Min = -0.5
	p.X.Max = float64(len(entries)) - 0.5
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	return p, nil
}

// Line renders a year trend as a line with point markers.
func (r *Renderer) Line(path, title, xLabel string, trend []model.YearCount) error {
	if len(trend) == 0 {
		return ErrNoData
	}

	xys := make(plotter.XYs, len(trend))
	for i, yc := range trend {
		xys[i].X = float64(yc.Year)
		xys[i].Y = float64(yc.Count)
	}

	p := r.newPlot(title, xLabel)
	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return fmt.Errorf("build line chart: %w", err)
	}
	line.Color = chartColor
	points.Shape = draw.CircleGlyph{}
	points.Color = chartColor
	p.Add(line, points)
	p.X.Tick.Marker = yearTicks{}

	return r.save(p, path)
}

// newPlot returns a plot with title, axis labels and a zero-based Y axis.
func (r *Renderer) newPlot(title, xLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "Count"
	p.Y.Min = 0
	return p
}

// save writes p to path, overwriting any existing file.
func (r *Renderer) save(p *plot.Plot, path string) error {
	if err := p.Save(r.width, r.height, path); err != nil {
		return fmt.Errorf("save chart %s: %w", path, err)
	}
	return nil
}

// yearTicks places ticks on whole years only.
type yearTicks struct{}

// Ticks implements plot.Ticker.
func (yearTicks) Ticks(lo, hi float64) []plot.Tick {
	var ticks []plot.Tick
	for _, t := range (plot.DefaultTicks{}).Ticks(lo, hi) {
		if t.Label != "" && t.Value != math.Trunc(t.Value) {
			continue
		}
		if t.Label != "" {
			t.Label = fmt.Sprintf("%d", int(t.Value))
		}
		ticks = append(ticks, t)
	}
	return ticks
}

// RenderAll creates dir and renders every chart supported by report into it.
// The type chart shows every value, genre and country charts the first topN
// values, and the year chart the full ascending trend. Absent or empty
// tables produce no chart. The first failure stops rendering; charts
// already written are kept.
func (r *Renderer) RenderAll(dir string, report *model.CatalogReport, topN int) ([]model.ChartFile, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", dir, err)
	}

	var charts []model.ChartFile

	bar := func(role model.Role, table *model.FrequencyTable, n int, file, title, xLabel string) error {
		if table.IsEmpty() {
			return nil
		}
		path := filepath.Join(dir, file)
		if err := r.Bar(path, title, xLabel, table.Top(n)); err != nil {
			return err
		}
		charts = append(charts, model.ChartFile{Role: role, Title: title, Path: path})
		return nil
	}

	if err := bar(model.RoleType, report.Types, 0, TypeFile, TypeTitle, "Type"); err != nil {
		return charts, err
	}
	if err := bar(model.RoleGenre, report.Genres, topN, GenreFile, GenreTitle, "Genre"); err != nil {
		return charts, err
	}
	if err := bar(model.RoleCountry, report.Countries, topN, CountryFile, CountryTitle(topN), "Country"); err != nil {
		return charts, err
	}

	if report.Years != nil && len(report.Years.Trend) > 0 {
		path := filepath.Join(dir, YearFile)
		if err := r.Line(path, YearTitle, "Year", report.Years.Trend); err != nil {
			return charts, err
		}
		charts = append(charts, model.ChartFile{Role: model.RoleRelease, Title: YearTitle, Path: path})
	}

	return charts, nil
}
