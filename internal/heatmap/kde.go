// Package heatmap estimates the density of player positions with a Gaussian
// kernel and renders it as a joint plot: a heatmap with the raw positions on
// top, and the marginal density of each axis alongside.
package heatmap

import (
	"errors"
	"math"

	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrNotEnoughPoints is returned when the points cannot support a density
// estimate: fewer than two, or no spread along an axis.
var ErrNotEnoughPoints = errors.New("not enough distinct points for a density estimate")

// DefaultGrid is the number of cells per axis.
const DefaultGrid = 100

// cutoff is how many bandwidths the grid extends past the outermost points.
const cutoff = 3.0

// Density is a kernel density estimate sampled on a regular grid.
// It implements plotter.GridXYZ.
type Density struct {
	xs, ys []float64
	z      [][]float64 // z[row][col]

	// Marginal densities at xs and ys.
	MarginalX, MarginalY []float64

	BandwidthX, BandwidthY float64
	N                      int
}

// Estimate evaluates a 2D Gaussian KDE with a diagonal bandwidth chosen by
// Scott's rule on a size×size grid.
func Estimate(points []r2.Point, size int) (*Density, error) {
	if size < 2 {
		size = DefaultGrid
	}
	n := len(points)
	if n < 2 {
		return nil, ErrNotEnoughPoints
	}
	px := make([]float64, n)
	py := make([]float64, n)
	for i, p := range points {
		px[i], py[i] = p.X, p.Y
	}
	scott := math.Pow(float64(n), -1.0/6)
	hx := stat.StdDev(px, nil) * scott
	hy := stat.StdDev(py, nil) * scott
	if !(hx > 0) || !(hy > 0) {
		return nil, ErrNotEnoughPoints
	}

	d := &Density{
		xs:         axis(px, hx, size),
		ys:         axis(py, hy, size),
		BandwidthX: hx,
		BandwidthY: hy,
		N:          n,
	}
	kx := kernel(d.xs, px, hx)
	ky := kernel(d.ys, py, hy)

	d.z = make([][]float64, size)
	for r := range d.ys {
		row := make([]float64, size)
		for c := range d.xs {
			var sum float64
			for i := 0; i < n; i++ {
				sum += kx[c][i] * ky[r][i]
			}
			row[c] = sum / float64(n)
		}
		d.z[r] = row
	}
	d.MarginalX = marginal(kx)
	d.MarginalY = marginal(ky)
	return d, nil
}

// axis returns size evenly spaced values covering the samples plus cutoff bandwidths.
func axis(samples []float64, h float64, size int) []float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range samples {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	lo -= cutoff * h
	hi += cutoff * h
	out := make([]float64, size)
	step := (hi - lo) / float64(size-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

// kernel returns k[g][i], the normal density centred on samples[i] at grid[g].
func kernel(grid, samples []float64, h float64) [][]float64 {
	k := make([][]float64, len(grid))
	for g, at := range grid {
		row := make([]float64, len(samples))
		for i, s := range samples {
			row[i] = distuv.Normal{Mu: s, Sigma: h}.Prob(at)
		}
		k[g] = row
	}
	return k
}

func marginal(k [][]float64) []float64 {
	out := make([]float64, len(k))
	for g, row := range k {
		out[g] = stat.Mean(row, nil)
	}
	return out
}

// Dims returns the number of columns and rows.
func (d *Density) Dims() (c, r int) { return len(d.xs), len(d.ys) }

// Z returns the density at column c, row r.
func (d *Density) Z(c, r int) float64 { return d.z[r][c] }

// X returns the x coordinate of column c.
func (d *Density) X(c int) float64 { return d.xs[c] }

// Y returns the y coordinate of row r.
func (d *Density) Y(r int) float64 { return d.ys[r] }

// Peak returns the grid location of the highest density.
func (d *Density) Peak() (r2.Point, float64) {
	var best r2.Point
	max := math.Inf(-1)
	for r, row := range d.z {
		for c, v := range row {
			if v > max {
				max = v
				best = r2.Point{X: d.xs[c], Y: d.ys[r]}
			}
		}
	}
	return best, max
}
