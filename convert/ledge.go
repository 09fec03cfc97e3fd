package convert

import (
	"github.com/stencilgen/stencilgen/geom"
	"github.com/stencilgen/stencilgen/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

// Ring is an annular cross-section between two boundaries, used for the
// alignment ledge and the fixture frame. The solid region is
// Outer − Inner − Cutter; Cutter is nil when the full perimeter is kept.
type Ring struct {
	Outer  geom.Polygon
	Inner  geom.Polygon
	Cutter geom.Polygon
}

// BuildLedge derives the alignment ledge ring from the board outline:
// the outline offset outward by the configured gap forms the outer
// boundary, the outline itself the inner one. Unless the full perimeter
// is requested, only the half of the ring below the midpoint of the
// longest bounding-box axis is kept, leaving one board side clear for
// lifting the stencil off. A zero gap degenerates to a zero-width ring
// and is not an error.
func BuildLedge(outline geom.Polygon, cfg Config) (*Ring, error) {
	outer, err := geom.Offset(outline, cfg.Gap)
	if err != nil {
		return nil, err
	}
	ring := &Ring{Outer: outer, Inner: outline}
	if !cfg.LedgeFullPerimeter {
		ring.Cutter = upperHalf(outer.Bounds(), cfg.Gap+1)
	}
	return ring, nil
}

// upperHalf returns a rectangle covering the half of bb above the
// midpoint of its longest axis, grown by margin on the outward sides so
// the subtraction fully clears the ring. The kept half is always the one
// with the lower coordinate along the split direction, which makes the
// choice reproducible for any outline.
func upperHalf(bounds r2.Box, margin float64) geom.Polygon {
	bb := d2.Box(bounds)
	size := bb.Size()
	center := bb.Center()
	min := r2.Sub(bb.Min, d2.Elem(margin))
	max := r2.Add(bb.Max, d2.Elem(margin))
	if size.X >= size.Y {
		// longest axis runs horizontally: remove the upper-Y half
		min.Y = center.Y
	} else {
		// longest axis runs vertically: remove the upper-X half
		min.X = center.X
	}
	return geom.Polygon{
		{X: min.X, Y: min.Y},
		{X: max.X, Y: min.Y},
		{X: max.X, Y: max.Y},
		{X: min.X, Y: max.Y},
	}
}

// BuildFrame derives a fixture frame ring: a rectangle of the given
// outer dimensions centered on the outline, minus the outline itself.
func BuildFrame(outline geom.Polygon, cfg Config) *Ring {
	center := d2.Box(outline.Bounds()).Center()
	return &Ring{
		Outer: geom.Rect(center, cfg.FrameWidth, cfg.FrameHeight, 0),
		Inner: outline,
	}
}
