package heatmap

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"github.com/golang/geo/r2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Options controls rendering. Zero values pick defaults.
type Options struct {
	Title  string
	XLabel string
	YLabel string
	Width  vg.Length
	Height vg.Length
	Grid   int
}

func (o Options) withDefaults() Options {
	if o.XLabel == "" {
		o.XLabel = "X-Coordinate"
	}
	if o.YLabel == "" {
		o.YLabel = "Y-Coordinate"
	}
	if o.Width <= 0 {
		o.Width = 7 * vg.Inch
	}
	if o.Height <= 0 {
		o.Height = 7 * vg.Inch
	}
	if o.Grid < 2 {
		o.Grid = DefaultGrid
	}
	return o
}

// marginalShare is the fraction of the image given to each marginal plot.
const marginalShare = 0.18

var (
	fillColor   = color.RGBA{R: 240, G: 140, B: 60, A: 160}
	lineColor   = color.RGBA{R: 200, G: 80, B: 20, A: 255}
	pointColor  = color.RGBA{R: 40, G: 40, B: 40, A: 120}
	heatColours = 12
)

// Render estimates the density of points and writes the joint plot to w as PNG.
func Render(w io.Writer, points []r2.Point, opts Options) (*Density, error) {
	opts = opts.withDefaults()
	d, err := Estimate(points, opts.Grid)
	if err != nil {
		return nil, err
	}

	main := plot.New()
	main.Title.Text = opts.Title
	main.X.Label.Text = opts.XLabel
	main.Y.Label.Text = opts.YLabel
	main.Add(plotter.NewHeatMap(d, palette.Heat(heatColours, 1)))

	xys := make(plotter.XYs, len(points))
	for i, p := range points {
		xys[i] = plotter.XY{X: p.X, Y: p.Y}
	}
	sc, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, err
	}
	sc.GlyphStyle.Color = pointColor
	sc.GlyphStyle.Radius = vg.Points(1.2)
	main.Add(sc)

	cols, rows := d.Dims()
	main.X.Min, main.X.Max = d.X(0), d.X(cols-1)
	main.Y.Min, main.Y.Max = d.Y(0), d.Y(rows-1)

	topXY := make(plotter.XYs, cols)
	for c := range topXY {
		topXY[c] = plotter.XY{X: d.X(c), Y: d.MarginalX[c]}
	}
	top, err := marginalPlot(topXY, true)
	if err != nil {
		return nil, err
	}
	top.X.Min, top.X.Max = main.X.Min, main.X.Max
	top.Y.Min = 0

	rightXY := make(plotter.XYs, rows)
	for r := range rightXY {
		rightXY[r] = plotter.XY{X: d.MarginalY[r], Y: d.Y(r)}
	}
	right, err := marginalPlot(rightXY, false)
	if err != nil {
		return nil, err
	}
	right.Y.Min, right.Y.Max = main.Y.Min, main.Y.Max
	right.X.Min = 0

	img := vgimg.New(opts.Width, opts.Height)
	dc := draw.New(img)
	mw := vg.Length(marginalShare) * opts.Width
	mh := vg.Length(marginalShare) * opts.Height

	mainCanvas := draw.Crop(dc, 0, -mw, 0, -mh)
	main.Draw(mainCanvas)

	// Marginals share the main plot's data area along their common axis.
	da := main.DataCanvas(mainCanvas)
	top.Draw(draw.Canvas{Canvas: dc.Canvas, Rectangle: vg.Rectangle{
		Min: vg.Point{X: da.Min.X, Y: mainCanvas.Max.Y},
		Max: vg.Point{X: da.Max.X, Y: dc.Max.Y},
	}})
	right.Draw(draw.Canvas{Canvas: dc.Canvas, Rectangle: vg.Rectangle{
		Min: vg.Point{X: mainCanvas.Max.X, Y: da.Min.Y},
		Max: vg.Point{X: dc.Max.X, Y: da.Max.Y},
	}})

	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(w); err != nil {
		return nil, fmt.Errorf("write png: %w", err)
	}
	return d, nil
}

// Save renders to a PNG file, creating its directory if needed.
func Save(path string, points []r2.Point, opts Options) (*Density, error) {
	if len(points) < 2 {
		return nil, ErrNotEnoughPoints
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	d, err := Render(f, points, opts)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func marginalPlot(xys plotter.XYs, fill bool) (*plot.Plot, error) {
	p := plot.New()
	p.HideAxes()
	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, err
	}
	line.Color = lineColor
	line.Width = vg.Points(1)
	if fill {
		line.FillColor = fillColor
	}
	p.Add(line)
	return p, nil
}
