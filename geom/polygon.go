// Package geom implements the 2D geometry layer of the stencil pipeline:
// polygons built from drawing primitives, outline joining, tessellation of
// curved boundaries and polygon offsetting.
//
// All coordinates are millimetres. Polygons are ordered vertex lists with
// an implicit closing edge; outer boundaries are counter-clockwise.
package geom

import (
	"github.com/stencilgen/stencilgen/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// JoinTolerance is the coordinate rounding applied when matching
	// segment endpoints. Fabrication drawings routinely carry
	// floating-point jitter an order of magnitude below this.
	JoinTolerance = 1e-4

	// MaxChord is the maximum chord length used when tessellating arcs
	// and circles into line segments.
	MaxChord = 0.2

	// MinArea is the smallest polygon area considered non-degenerate.
	MinArea = 1e-9
)

// Polygon is a closed 2d region described by its boundary vertices.
// The edge from the last vertex back to the first is implicit.
type Polygon []r2.Vec

// Area returns the signed area of the polygon. Counter-clockwise
// boundaries have positive area.
func (p Polygon) Area() float64 {
	if len(p) < 3 {
		return 0
	}
	sum := 0.0
	for i, v := range p {
		w := p[(i+1)%len(p)]
		sum += d2.Cross(v, w)
	}
	return sum / 2
}

// IsCCW returns true if the polygon boundary is counter-clockwise.
func (p Polygon) IsCCW() bool {
	return p.Area() > 0
}

// Reverse reverses the vertex order in place, flipping the winding.
func (p Polygon) Reverse() {
	for i, j := 0, len(p)-1; i < j; i, j = i+1, j-1 {
		p[i], p[j] = p[j], p[i]
	}
}

// CCW returns the polygon with counter-clockwise winding, reversing a
// copy if needed.
func (p Polygon) CCW() Polygon {
	if p.IsCCW() {
		return p
	}
	q := make(Polygon, len(p))
	copy(q, p)
	q.Reverse()
	return q
}

// Bounds returns the polygon bounding box.
func (p Polygon) Bounds() r2.Box {
	if len(p) == 0 {
		return r2.Box{}
	}
	return r2.Box{Min: d2.Set(p).Min(), Max: d2.Set(p).Max()}
}

// Translate returns the polygon moved by v.
func (p Polygon) Translate(v r2.Vec) Polygon {
	q := make(Polygon, len(p))
	for i := range p {
		q[i] = r2.Add(p[i], v)
	}
	return q
}

// RotateAbout returns the polygon rotated by theta radians about c.
func (p Polygon) RotateAbout(c r2.Vec, theta float64) Polygon {
	if theta == 0 {
		return p
	}
	q := make(Polygon, len(p))
	for i := range p {
		q[i] = d2.RotateAbout(p[i], c, theta)
	}
	return q
}

// dedup removes consecutive vertices closer than tol, including the
// wrap-around pair.
func (p Polygon) dedup(tol float64) Polygon {
	if len(p) == 0 {
		return p
	}
	q := make(Polygon, 0, len(p))
	for _, v := range p {
		if len(q) == 0 || !d2.EqualWithin(q[len(q)-1], v, tol) {
			q = append(q, v)
		}
	}
	for len(q) > 1 && d2.EqualWithin(q[0], q[len(q)-1], tol) {
		q = q[:len(q)-1]
	}
	return q
}

// BoundingRect returns the axis-aligned bounding rectangle of p as a
// counter-clockwise polygon, expanded on each side by margin.
func (p Polygon) BoundingRect(margin float64) Polygon {
	bb := d2.Box(p.Bounds()).Enlarge(d2.Elem(2 * margin))
	return Polygon(bb.Vertices())
}
