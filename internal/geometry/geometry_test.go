package geometry

import (
	"testing"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chokepoint is the light-blue area between T spawn and B on de_overpass.
var chokepoint = []r2.Point{
	{X: -1735, Y: 250}, {X: -2024, Y: 398}, {X: -2806, Y: 742}, {X: -2472, Y: 1233}, {X: -1565, Y: 580},
}

func square() Polygon {
	p, err := NewPolygon([]r2.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}})
	if err != nil {
		panic(err)
	}
	return p
}

func TestContainsInterior(t *testing.T) {
	p := square()
	assert.True(t, p.Contains(r2.Point{X: 5, Y: 5}))
	assert.True(t, p.Contains(r2.Point{X: 0.001, Y: 9.999}))
	assert.False(t, p.Contains(r2.Point{X: -0.001, Y: 5}))
	assert.False(t, p.Contains(r2.Point{X: 5, Y: 10.5}))
}

func TestContainsOutsideBoundingBox(t *testing.T) {
	p, err := NewPolygon(chokepoint)
	require.NoError(t, err)
	b := p.Bounds()
	outside := []r2.Point{
		{X: b.X.Lo - 1, Y: b.Y.Center()},
		{X: b.X.Hi + 1, Y: b.Y.Center()},
		{X: b.X.Center(), Y: b.Y.Lo - 1},
		{X: b.X.Center(), Y: b.Y.Hi + 1},
		{X: 10000, Y: -10000},
	}
	for _, pt := range outside {
		assert.False(t, p.Contains(pt), "point %v", pt)
	}
}

func TestContainsBoundaryIsInclusive(t *testing.T) {
	p := square()
	for _, v := range p.Vertices() {
		assert.True(t, p.Contains(v), "vertex %v", v)
	}
	assert.True(t, p.Contains(r2.Point{X: 5, Y: 0}))
	assert.True(t, p.Contains(r2.Point{X: 10, Y: 3}))

	cp, err := NewPolygon(chokepoint)
	require.NoError(t, err)
	for _, v := range chokepoint {
		assert.True(t, cp.Contains(v), "vertex %v", v)
	}
	mid := chokepoint[1].Add(chokepoint[2]).Mul(0.5)
	assert.True(t, cp.Contains(mid))
}

func TestContainsConcave(t *testing.T) {
	// U shape: the notch between the arms is outside.
	p, err := NewPolygon([]r2.Point{
		{X: 0, Y: 0}, {X: 9, Y: 0}, {X: 9, Y: 9}, {X: 6, Y: 9}, {X: 6, Y: 3}, {X: 3, Y: 3}, {X: 3, Y: 9}, {X: 0, Y: 9},
	})
	require.NoError(t, err)
	assert.True(t, p.Contains(r2.Point{X: 1, Y: 8}))
	assert.True(t, p.Contains(r2.Point{X: 8, Y: 8}))
	assert.False(t, p.Contains(r2.Point{X: 4.5, Y: 6}))
}

func TestNewPolygonRejectsMalformed(t *testing.T) {
	cases := map[string][]r2.Point{
		"too few":     {{X: 0, Y: 0}, {X: 1, Y: 1}},
		"collinear":   {{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}},
		"bow tie":     {{X: 0, Y: 0}, {X: 10, Y: 10}, {X: 10, Y: 0}, {X: 0, Y: 10}},
		"duplicates":  {{X: 0, Y: 0}, {X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 0}},
		"folded edge": {{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 5, Y: 0}, {X: 5, Y: 5}},
	}
	for name, vs := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewPolygon(vs)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidRegion)
			var ire *InvalidRegionError
			assert.ErrorAs(t, err, &ire)
		})
	}
}

func TestNewPolygonReportsCrossingEdges(t *testing.T) {
	_, err := NewPolygon([]r2.Point{{X: 0, Y: 0}, {X: 10, Y: 10}, {X: 10, Y: 0}, {X: 0, Y: 10}})
	var ire *InvalidRegionError
	require.ErrorAs(t, err, &ire)
	assert.Contains(t, ire.Reason, "intersect")
	assert.NotContains(t, ire.Reason, "zero area")
}

func TestNewPolygonDropsClosingVertex(t *testing.T) {
	p, err := NewPolygon([]r2.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 0}})
	require.NoError(t, err)
	assert.Len(t, p.Vertices(), 3)
}

func TestRegionHeightBand(t *testing.T) {
	r, err := NewRegion("choke", chokepoint, 285, 421)
	require.NoError(t, err)
	inside := r3.Vector{X: -2200, Y: 700, Z: 300}
	assert.True(t, r.Contains(inside))
	assert.True(t, r.Contains(r3.Vector{X: -2200, Y: 700, Z: 285}))
	assert.True(t, r.Contains(r3.Vector{X: -2200, Y: 700, Z: 421}))
	assert.False(t, r.Contains(r3.Vector{X: -2200, Y: 700, Z: 284.9}))
	assert.False(t, r.Contains(r3.Vector{X: -2200, Y: 700, Z: 500}))
}

func TestNewRegionRejectsEmptyZRange(t *testing.T) {
	_, err := NewRegion("bad", chokepoint, 10, 5)
	assert.ErrorIs(t, err, ErrInvalidRegion)

	r, err := NewRegion("flat", chokepoint, 300, 300)
	require.NoError(t, err)
	assert.True(t, r.Contains(r3.Vector{X: -2200, Y: 700, Z: 300}))
}
