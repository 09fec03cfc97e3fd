package convert

import (
	"math"

	"github.com/stencilgen/stencilgen/geom"
	"github.com/stencilgen/stencilgen/gerber"
	"github.com/stencilgen/stencilgen/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

// FlashKind tags the closed set of normalized aperture flash shapes.
type FlashKind int

const (
	FlashCircle FlashKind = iota
	FlashRect
	FlashObround
	FlashPoly
)

// Flash is a normalized aperture flash: one pad opening in the paste
// drawing, decoupled from the parser's native types. Which fields are
// set depends on Kind; Poly holds absolute vertices for FlashPoly.
type Flash struct {
	Index  int
	Kind   FlashKind
	Pos    r2.Vec
	Radius float64 // FlashCircle
	W, H   float64 // FlashRect, FlashObround
	Rot    float64 // radians, FlashRect and FlashObround
	Poly   geom.Polygon
}

// OutlineSegments normalizes a board-outline drawing into segments for
// joining. Aperture widths do not matter on the outline layer: only the
// stroked path defines the board edge. Flashes in an outline drawing
// carry no boundary information and are ignored.
func OutlineSegments(f *gerber.File) []geom.Segment {
	segs := make([]geom.Segment, 0, len(f.Draws))
	for _, d := range f.Draws {
		if d.Arc {
			segs = append(segs, geom.Arc(d.Start, d.End, d.Center, d.Clockwise))
		} else {
			segs = append(segs, geom.Line(d.Start, d.End))
		}
	}
	return segs
}

// PasteFeatures normalizes a solder-paste drawing. Aperture flashes
// become Flash values. Stroked draws split by aperture width: a stroke
// whose aperture is wide relative to its length becomes a thickened
// rectangle flash; thin strokes are returned as segments for the caller
// to join into closed shapes.
func PasteFeatures(f *gerber.File) (flashes []Flash, strokes []geom.Segment, err error) {
	for _, fl := range f.Flashes {
		fls, err := normalizeFlash(fl)
		if err != nil {
			return nil, nil, err
		}
		flashes = append(flashes, fls...)
	}
	for _, d := range f.Draws {
		length := r2.Norm(r2.Sub(d.End, d.Start))
		if !d.Arc && wideAperture(d.Aperture, length) {
			flashes = append(flashes, Flash{
				Index: d.Index,
				Kind:  FlashPoly,
				Pos:   r2.Scale(0.5, r2.Add(d.Start, d.End)),
				Poly:  strokeRect(d.Start, d.End, d.Aperture.Size()/2),
			})
			continue
		}
		if d.Arc {
			strokes = append(strokes, geom.Arc(d.Start, d.End, d.Center, d.Clockwise))
		} else {
			strokes = append(strokes, geom.Line(d.Start, d.End))
		}
	}
	return flashes, strokes, nil
}

// normalizeFlash maps one parsed flash onto the tagged shape variants.
// Macro apertures expand to one polygon flash per macro primitive.
func normalizeFlash(fl gerber.Flash) ([]Flash, error) {
	ap := fl.Aperture
	switch ap.Shape {
	case gerber.ShapeCircle:
		return []Flash{{Index: fl.Index, Kind: FlashCircle, Pos: fl.Pos, Radius: ap.Diameter / 2}}, nil
	case gerber.ShapeRectangle:
		return []Flash{{Index: fl.Index, Kind: FlashRect, Pos: fl.Pos, W: ap.XSize, H: ap.YSize}}, nil
	case gerber.ShapeObround:
		return []Flash{{Index: fl.Index, Kind: FlashObround, Pos: fl.Pos, W: ap.XSize, H: ap.YSize}}, nil
	case gerber.ShapePolygon:
		poly := geom.RegularPolygon(fl.Pos, ap.Vertices, ap.Diameter, ap.Rotation*math.Pi/180)
		if poly == nil {
			return nil, &gerber.UnsupportedPrimitiveError{Primitive: "polygon aperture with fewer than 3 vertices"}
		}
		return []Flash{{Index: fl.Index, Kind: FlashPoly, Pos: fl.Pos, Poly: poly}}, nil
	case gerber.ShapeMacro:
		var out []Flash
		for _, prim := range ap.Macro.Primitives {
			poly, err := macroPolygon(ap.Macro.Name, prim)
			if err != nil {
				return nil, err
			}
			out = append(out, Flash{
				Index: fl.Index,
				Kind:  FlashPoly,
				Pos:   fl.Pos,
				Poly:  poly.Translate(fl.Pos),
			})
		}
		return out, nil
	}
	return nil, &gerber.UnsupportedPrimitiveError{Primitive: ap.Shape.String()}
}

// macroPolygon converts one macro primitive to a polygon relative to
// the flash position.
func macroPolygon(name string, prim gerber.MacroPrimitive) (geom.Polygon, error) {
	m := prim.Modifiers
	switch prim.Kind {
	case gerber.MacroCircle: // exposure, diameter, x, y [, rot]
		if len(m) < 4 {
			return nil, &gerber.UnsupportedPrimitiveError{Primitive: "short circle primitive in macro " + name}
		}
		return geom.Circle(r2.Vec{X: m[2], Y: m[3]}, m[1]/2), nil
	case gerber.MacroVectorLine: // exposure, width, x1, y1, x2, y2 [, rot]
		if len(m) < 6 {
			return nil, &gerber.UnsupportedPrimitiveError{Primitive: "short vector line primitive in macro " + name}
		}
		p := lineRect(r2.Vec{X: m[2], Y: m[3]}, r2.Vec{X: m[4], Y: m[5]}, m[1]/2)
		if len(m) > 6 {
			p = p.RotateAbout(r2.Vec{}, m[6]*math.Pi/180)
		}
		return p, nil
	case gerber.MacroCenterLine: // exposure, width, height, x, y [, rot]
		if len(m) < 5 {
			return nil, &gerber.UnsupportedPrimitiveError{Primitive: "short center line primitive in macro " + name}
		}
		p := geom.Rect(r2.Vec{X: m[3], Y: m[4]}, m[1], m[2], 0)
		if len(m) > 5 {
			p = p.RotateAbout(r2.Vec{}, m[5]*math.Pi/180)
		}
		return p, nil
	case gerber.MacroOutline: // exposure, n, x0, y0, ..., xn, yn [, rot]
		if len(m) < 2 {
			return nil, &gerber.UnsupportedPrimitiveError{Primitive: "short outline primitive in macro " + name}
		}
		n := int(m[1])
		if len(m) < 2+2*(n+1) {
			return nil, &gerber.UnsupportedPrimitiveError{Primitive: "short outline primitive in macro " + name}
		}
		p := make(geom.Polygon, 0, n)
		for i := 0; i < n; i++ { // the n+1th point repeats the first
			p = append(p, r2.Vec{X: m[2+2*i], Y: m[3+2*i]})
		}
		if len(m) > 2+2*(n+1) {
			p = p.RotateAbout(r2.Vec{}, m[len(m)-1]*math.Pi/180)
		}
		return p.CCW(), nil
	}
	return nil, &gerber.UnsupportedPrimitiveError{Primitive: "macro primitive in " + name}
}

// wideAperture reports whether a stroke's aperture is wide enough to
// matter: more than a tenth of the stroke length.
func wideAperture(ap *gerber.Aperture, length float64) bool {
	size := ap.Size()
	if size == 0 {
		return false
	}
	if length > 0 {
		return size > length/10
	}
	return true
}

// strokeRect thickens a stroke into a square-capped rectangle: the
// caps extend half the aperture width past each endpoint.
func strokeRect(start, end r2.Vec, r float64) geom.Polygon {
	dir := r2.Sub(end, start)
	if n := r2.Norm(dir); n > 0 {
		dir = r2.Scale(1/n, dir)
	} else {
		dir = r2.Vec{X: 1}
	}
	d := r2.Scale(r, dir)
	n := d2.PerpCCW(d)
	return geom.Polygon{
		r2.Add(start, r2.Sub(n, d)), // left of start, capped back
		r2.Sub(start, r2.Add(n, d)), // right of start, capped back
		r2.Add(end, r2.Sub(d, n)),   // right of end, capped forward
		r2.Add(end, r2.Add(d, n)),   // left of end, capped forward
	}.CCW()
}

// lineRect is strokeRect without end caps, matching the vector-line
// macro primitive whose rectangle ends exactly at the endpoints.
func lineRect(start, end r2.Vec, r float64) geom.Polygon {
	dir := r2.Sub(end, start)
	if n := r2.Norm(dir); n > 0 {
		dir = r2.Scale(1/n, dir)
	} else {
		dir = r2.Vec{X: 1}
	}
	n := d2.PerpCCW(r2.Scale(r, dir))
	return geom.Polygon{
		r2.Add(start, n),
		r2.Sub(start, n),
		r2.Sub(end, n),
		r2.Add(end, n),
	}.CCW()
}
