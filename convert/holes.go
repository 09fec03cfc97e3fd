package convert

import (
	"github.com/stencilgen/stencilgen/geom"
	"github.com/stencilgen/stencilgen/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

// Hole is one pad opening, positioned in board coordinates.
type Hole struct {
	Index int // source statement index
	Poly  geom.Polygon
}

// BuildHoles converts paste flashes and joined stroke shapes into hole
// polygons, enlarging every boundary uniformly by half the configured
// size increase along its normal. Degenerate and out-of-bounds holes
// are dropped with a warning; one bad pad never aborts a conversion.
func BuildHoles(flashes []Flash, strokes []geom.Segment, bounds r2.Box, cfg Config) (holes []Hole, warns []Warning) {
	inc := cfg.HoleSizeIncrease
	bb := d2.Box(bounds)

	for _, fl := range flashes {
		if !bb.Contains(fl.Pos) {
			warns = append(warns, Warning{Kind: WarnOutOfBoundsHole, Index: fl.Index, Pos: fl.Pos})
			continue
		}
		poly, ok := holePolygon(fl, inc)
		if !ok {
			warns = append(warns, Warning{Kind: WarnDegenerateHole, Index: fl.Index, Pos: fl.Pos})
			continue
		}
		holes = append(holes, Hole{Index: fl.Index, Poly: poly})
	}

	loops, open := geom.Join(strokes)
	for _, pt := range open {
		warns = append(warns, Warning{Kind: WarnOpenPasteChain, Pos: pt})
	}
	for _, loop := range loops {
		poly := loop
		if inc != 0 {
			var err error
			poly, err = geom.OffsetMiter(loop, inc/2)
			if err != nil {
				warns = append(warns, Warning{Kind: WarnDegenerateHole, Pos: loop.Bounds().Min})
				continue
			}
		}
		center := d2.Box(poly.Bounds()).Center()
		if !bb.Contains(center) {
			warns = append(warns, Warning{Kind: WarnOutOfBoundsHole, Pos: center})
			continue
		}
		holes = append(holes, Hole{Poly: poly})
	}
	return holes, warns
}

// holePolygon builds the adjusted boundary for one flash. Corner
// geometry survives the adjustment: square corners stay square, round
// caps stay round, polygon corners are mitered.
func holePolygon(fl Flash, inc float64) (geom.Polygon, bool) {
	switch fl.Kind {
	case FlashCircle:
		r := fl.Radius + inc/2
		if r <= 0 {
			return nil, false
		}
		return geom.Circle(fl.Pos, r), true
	case FlashRect:
		w, h := fl.W+inc, fl.H+inc
		if w <= 0 || h <= 0 {
			return nil, false
		}
		return geom.Rect(fl.Pos, w, h, fl.Rot), true
	case FlashObround:
		w, h := fl.W+inc, fl.H+inc
		if w <= 0 || h <= 0 {
			return nil, false
		}
		return geom.Obround(fl.Pos, w, h, fl.Rot), true
	case FlashPoly:
		if inc == 0 {
			return fl.Poly, len(fl.Poly) >= 3
		}
		poly, err := geom.OffsetMiter(fl.Poly, inc/2)
		if err != nil {
			return nil, false
		}
		return poly, true
	}
	return nil, false
}
