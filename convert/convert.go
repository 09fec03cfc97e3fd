// Package convert turns parsed fabrication drawings into a printable
// solder-stencil solid. The pipeline runs strictly forward, with each
// stage consuming the previous stage's output in full: normalize
// primitives, build the board outline, build the pad holes, derive the
// ledge or frame, assemble the solid tree. It is pure and deterministic:
// no I/O, no shared state, identical inputs yield an identical tree.
package convert

import (
	"github.com/stencilgen/stencilgen/geom"
	"github.com/stencilgen/stencilgen/gerber"
	"github.com/stencilgen/stencilgen/internal/d2"
	"github.com/stencilgen/stencilgen/solid"
	"gonum.org/v1/gonum/spatial/r3"
)

// Stats summarizes the assembled geometry. PlateVolume is the exact
// analytic volume of the hole-punched plate, before any ledge.
type Stats struct {
	OutlineArea  float64
	HoleArea     float64
	HoleCount    int
	DroppedHoles int
	PlateVolume  float64
}

// Result is a successful conversion: the solid tree for rendering plus
// the intermediate geometry and any non-fatal findings.
type Result struct {
	Solid    solid.Solid
	Outline  geom.Polygon
	Holes    []Hole
	Warnings []Warning
	Stats    Stats
}

// Process converts an outline drawing and a solder-paste drawing into a
// stencil solid. The outline drawing may be nil, in which case the
// outline is derived from the paste bounding box and the configured
// stencil width/height/margin.
func Process(outline, paste *gerber.File, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	flashes, strokes, err := PasteFeatures(paste)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	res.Outline, err = buildOutline(outline, flashes, strokes, cfg, res)
	if err != nil {
		return nil, err
	}
	if res.Outline.Area() <= geom.MinArea {
		return nil, ErrEmptyResult
	}

	var warns []Warning
	res.Holes, warns = BuildHoles(flashes, strokes, res.Outline.Bounds(), cfg)
	res.Warnings = append(res.Warnings, warns...)

	if err := assemble(res, cfg); err != nil {
		return nil, err
	}

	res.Stats.OutlineArea = res.Outline.Area()
	for _, h := range res.Holes {
		res.Stats.HoleArea += h.Poly.CCW().Area()
	}
	res.Stats.HoleCount = len(res.Holes)
	for _, w := range res.Warnings {
		if w.Kind == WarnDegenerateHole || w.Kind == WarnOutOfBoundsHole {
			res.Stats.DroppedHoles++
		}
	}
	res.Stats.PlateVolume = (res.Stats.OutlineArea - res.Stats.HoleArea) * cfg.Thickness
	return res, nil
}

// buildOutline produces the outer board polygon: joined from the
// outline drawing when one is present, otherwise a rectangle derived
// from the paste features.
func buildOutline(outline *gerber.File, flashes []Flash, strokes []geom.Segment, cfg Config, res *Result) (geom.Polygon, error) {
	if outline != nil {
		segs := OutlineSegments(outline)
		if len(segs) > 0 {
			outer, discarded, err := geom.Outline(segs)
			if err != nil {
				return nil, err
			}
			for _, l := range discarded {
				res.Warnings = append(res.Warnings, Warning{
					Kind: WarnDiscardedLoop,
					Pos:  d2.Box(l.Bounds()).Center(),
				})
			}
			return outer, nil
		}
		// Some drawings carry no stroked outline at all; fall through to
		// the derived rectangle like the paste-only mode.
	}
	return derivedOutline(flashes, strokes, cfg)
}

// derivedOutline is the outline-less mode: the bounding box of the
// paste features, expanded by the stencil margin or forced to the
// configured width/height.
func derivedOutline(flashes []Flash, strokes []geom.Segment, cfg Config) (geom.Polygon, error) {
	bb, ok := pasteBounds(flashes, strokes)
	if !ok {
		return nil, ErrEmptyResult
	}
	if cfg.StencilWidth > 0 && cfg.StencilHeight > 0 {
		return geom.Rect(bb.Center(), cfg.StencilWidth, cfg.StencilHeight, 0), nil
	}
	margin := cfg.StencilMargin
	if margin <= 0 {
		margin = 2
	}
	grown := bb.Enlarge(d2.Elem(2 * margin))
	return geom.Polygon(grown.Vertices()), nil
}

func pasteBounds(flashes []Flash, strokes []geom.Segment) (d2.Box, bool) {
	var bb d2.Box
	found := false
	add := func(b d2.Box) {
		if !found {
			bb, found = b, true
			return
		}
		bb = bb.Extend(b)
	}
	for _, fl := range flashes {
		switch fl.Kind {
		case FlashPoly:
			add(d2.Box(fl.Poly.Bounds()))
		case FlashCircle:
			add(d2.NewBox2(fl.Pos, d2.Elem(2*fl.Radius)))
		default:
			add(d2.NewBox2(fl.Pos, d2.Elem(maxf(fl.W, fl.H))))
		}
	}
	for _, s := range strokes {
		add(d2.Box{Min: d2.MinElem(s.Start, s.End), Max: d2.MaxElem(s.Start, s.End)})
	}
	return bb, found
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// assemble composes the final solid tree:
//
//	extrude(outline) − union(extruded holes) [+ ledge or frame ring]
//
// then centers the board on the origin, optionally mirrors it for
// bottom-layer stencils, and lays it face down for printing. Holes that
// touch or overlap each other or the outline are handled by the boolean
// operations; they never fail the assembly.
func assemble(res *Result, cfg Config) error {
	plate := solid.Solid(solid.Extrude{Profile: res.Outline, Height: cfg.Thickness})
	if len(res.Holes) > 0 {
		cuts := make([]solid.Solid, len(res.Holes))
		for i, h := range res.Holes {
			cuts[i] = solid.Extrude{Profile: h.Poly, Height: cfg.Thickness}
		}
		plate = solid.Difference{Base: plate, Cuts: []solid.Solid{solid.Union{Solids: cuts}}}
	}

	stencil := plate
	switch {
	case cfg.LedgeEnabled:
		ring, err := BuildLedge(res.Outline, cfg)
		if err != nil {
			return err
		}
		stencil = solid.Union{Solids: []solid.Solid{plate, ringSolid(ring, cfg.LedgeThickness, cfg.Thickness)}}
	case cfg.FrameEnabled:
		ring := BuildFrame(res.Outline, cfg)
		stencil = solid.Union{Solids: []solid.Solid{plate, ringSolid(ring, cfg.FrameThickness, cfg.Thickness)}}
	}

	center := d2.Box(res.Outline.Bounds()).Center()
	stencil = solid.Translate{Solid: stencil, Offset: r3.Vec{X: -center.X, Y: -center.Y}}
	if cfg.FlipStencil {
		stencil = solid.Mirror{Solid: stencil, Normal: r3.Vec{X: -1}}
	}
	res.Solid = solid.Rotate{Solid: stencil, Axis: r3.Vec{X: 1}, Degrees: 180}
	return nil
}

// ringSolid extrudes an annular ring to its own thickness and sinks it
// so its top face stays flush with the top of the stencil plate.
func ringSolid(ring *Ring, thickness, plateThickness float64) solid.Solid {
	cuts := []solid.Solid{solid.Extrude{Profile: ring.Inner, Height: thickness}}
	if ring.Cutter != nil {
		cuts = append(cuts, solid.Extrude{Profile: ring.Cutter, Height: thickness})
	}
	return solid.Down(solid.Difference{
		Base: solid.Extrude{Profile: ring.Outer, Height: thickness},
		Cuts: cuts,
	}, thickness-plateThickness)
}
