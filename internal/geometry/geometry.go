// Package geometry implements the spatial filters used to decide whether a
// player stands inside a map region: a simple polygon on the map plane
// combined with an inclusive height band.
package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
)

// ErrInvalidRegion is matched by every *InvalidRegionError.
var ErrInvalidRegion = errors.New("invalid region")

// InvalidRegionError describes why a polygon or height band was rejected.
type InvalidRegionError struct {
	Reason string
}

func (e *InvalidRegionError) Error() string {
	return "invalid region: " + e.Reason
}

func (e *InvalidRegionError) Is(target error) bool {
	return target == ErrInvalidRegion
}

func invalid(format string, args ...any) error {
	return &InvalidRegionError{Reason: fmt.Sprintf(format, args...)}
}

// eps is the tolerance for on-edge tests, in Hammer units.
const eps = 1e-9

// Polygon is a validated simple polygon. The zero value is not usable.
type Polygon struct {
	vertices []r2.Point
	bounds   r2.Rect
}

// NewPolygon validates vertices and returns the polygon they describe.
// A closing vertex equal to the first one is dropped. The polygon must have
// at least 3 distinct vertices, non-zero area, and no self-intersections.
func NewPolygon(vertices []r2.Point) (Polygon, error) {
	vs := make([]r2.Point, 0, len(vertices))
	for _, v := range vertices {
		if math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsInf(v.X, 0) || math.IsInf(v.Y, 0) {
			return Polygon{}, invalid("vertex %v is not finite", v)
		}
		if len(vs) > 0 && samePoint(vs[len(vs)-1], v) {
			continue
		}
		vs = append(vs, v)
	}
	if len(vs) > 1 && samePoint(vs[0], vs[len(vs)-1]) {
		vs = vs[:len(vs)-1]
	}
	if len(vs) < 3 {
		return Polygon{}, invalid("need at least 3 distinct vertices, got %d", len(vs))
	}
	if i, j, ok := firstCrossing(vs); ok {
		return Polygon{}, invalid("edges %d and %d intersect", i, j)
	}
	if math.Abs(signedArea(vs)) <= eps {
		return Polygon{}, invalid("polygon has zero area")
	}
	return Polygon{vertices: vs, bounds: r2.RectFromPoints(vs...)}, nil
}

// Vertices returns a copy of the polygon's vertices.
func (p Polygon) Vertices() []r2.Point {
	out := make([]r2.Point, len(p.vertices))
	copy(out, p.vertices)
	return out
}

// Bounds returns the polygon's axis-aligned bounding box.
func (p Polygon) Bounds() r2.Rect {
	return p.bounds
}

// Contains reports whether pt lies inside the polygon. Points on an edge or
// vertex count as inside.
func (p Polygon) Contains(pt r2.Point) bool {
	if len(p.vertices) == 0 || !p.bounds.ContainsPoint(pt) {
		return false
	}
	n := len(p.vertices)
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := p.vertices[j], p.vertices[i]
		if onSegment(a, b, pt) {
			return true
		}
		// Even-odd rule: count crossings of a ray cast towards +X.
		if (a.Y > pt.Y) != (b.Y > pt.Y) {
			x := a.X + (pt.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if pt.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// Region is a named polygon on the map plane plus an inclusive height band.
type Region struct {
	Name    string
	Polygon Polygon
	ZMin    float64
	ZMax    float64
}

// NewRegion validates the polygon and height band.
func NewRegion(name string, vertices []r2.Point, zMin, zMax float64) (Region, error) {
	if math.IsNaN(zMin) || math.IsNaN(zMax) || zMin > zMax {
		return Region{}, invalid("z range [%v, %v] is empty", zMin, zMax)
	}
	poly, err := NewPolygon(vertices)
	if err != nil {
		return Region{}, err
	}
	return Region{Name: name, Polygon: poly, ZMin: zMin, ZMax: zMax}, nil
}

// Validate reports whether the region was built by NewRegion. The zero Region
// is invalid.
func (r Region) Validate() error {
	if len(r.Polygon.vertices) < 3 {
		return invalid("region %q has no polygon", r.Name)
	}
	if r.ZMin > r.ZMax {
		return invalid("z range [%v, %v] is empty", r.ZMin, r.ZMax)
	}
	return nil
}

// Contains reports whether pos is inside the polygon and the height band.
func (r Region) Contains(pos r3.Vector) bool {
	if pos.Z < r.ZMin || pos.Z > r.ZMax {
		return false
	}
	return r.Polygon.Contains(r2.Point{X: pos.X, Y: pos.Y})
}

func samePoint(a, b r2.Point) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps
}

func signedArea(vs []r2.Point) float64 {
	var sum float64
	for i := range vs {
		sum += vs[i].Cross(vs[(i+1)%len(vs)])
	}
	return sum / 2
}

func orientation(a, b, c r2.Point) float64 {
	return b.Sub(a).Cross(c.Sub(a))
}

func onSegment(a, b, p r2.Point) bool {
	if math.Abs(orientation(a, b, p)) > eps*math.Max(1, b.Sub(a).Norm()) {
		return false
	}
	return p.X >= math.Min(a.X, b.X)-eps && p.X <= math.Max(a.X, b.X)+eps &&
		p.Y >= math.Min(a.Y, b.Y)-eps && p.Y <= math.Max(a.Y, b.Y)+eps
}

func segmentsIntersect(p1, p2, q1, q2 r2.Point) bool {
	d1 := orientation(q1, q2, p1)
	d2 := orientation(q1, q2, p2)
	d3 := orientation(p1, p2, q1)
	d4 := orientation(p1, p2, q2)
	if ((d1 > eps && d2 < -eps) || (d1 < -eps && d2 > eps)) &&
		((d3 > eps && d4 < -eps) || (d3 < -eps && d4 > eps)) {
		return true
	}
	return onSegment(q1, q2, p1) || onSegment(q1, q2, p2) ||
		onSegment(p1, p2, q1) || onSegment(p1, p2, q2)
}

// firstCrossing returns the first pair of edges that touch although they are
// not neighbours. Neighbouring edges share a vertex and are checked for
// folding back onto each other instead.
func firstCrossing(vs []r2.Point) (int, int, bool) {
	n := len(vs)
	for i := 0; i < n; i++ {
		a1, a2 := vs[i], vs[(i+1)%n]
		next := vs[(i+2)%n]
		if math.Abs(orientation(a1, a2, next)) <= eps && a2.Sub(a1).Dot(next.Sub(a2)) < 0 {
			return i, (i + 1) % n, true
		}
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue
			}
			if segmentsIntersect(a1, a2, vs[j], vs[(j+1)%n]) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}
