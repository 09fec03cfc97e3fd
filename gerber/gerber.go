// Package gerber reads RS-274X fabrication drawings and exposes their
// primitives: stroked draws (lines and arcs) and flashed apertures.
//
// The reader covers the subset of the format that board outlines and
// solder-paste layers use in practice: format/unit parameters, standard
// apertures (circle, rectangle, obround, polygon), aperture macros built
// from fixed-parameter primitives, and linear/circular interpolation.
// Everything is resolved to millimetres before it leaves this package.
package gerber

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// ApertureShape is the closed set of standard aperture shapes.
type ApertureShape byte

const (
	ShapeCircle    ApertureShape = 'C'
	ShapeRectangle ApertureShape = 'R'
	ShapeObround   ApertureShape = 'O'
	ShapePolygon   ApertureShape = 'P'
	ShapeMacro     ApertureShape = 'M'
)

func (s ApertureShape) String() string {
	switch s {
	case ShapeCircle:
		return "circle"
	case ShapeRectangle:
		return "rectangle"
	case ShapeObround:
		return "obround"
	case ShapePolygon:
		return "polygon"
	case ShapeMacro:
		return "macro"
	}
	return fmt.Sprintf("aperture(%c)", byte(s))
}

// Aperture is a tool definition from an %ADD parameter. Dimensions are
// millimetres. Which fields are meaningful depends on Shape:
// circle uses Diameter; rectangle and obround use XSize/YSize; polygon
// uses Diameter, Vertices and Rotation; macro apertures carry Macro.
type Aperture struct {
	Code     int // D-code (10+)
	Shape    ApertureShape
	Diameter float64
	XSize    float64
	YSize    float64
	Vertices int
	Rotation float64 // degrees, polygon apertures only
	Macro    *Macro
}

// Size returns the aperture's characteristic dimension, used by the
// wide-stroke heuristic.
func (a *Aperture) Size() float64 {
	if a == nil {
		return 0
	}
	if a.Diameter != 0 {
		return a.Diameter
	}
	if a.XSize != 0 {
		return a.XSize
	}
	return a.YSize
}

// Macro is an %AM aperture macro: a list of fixed-parameter primitives.
type Macro struct {
	Name       string
	Primitives []MacroPrimitive
}

// MacroPrimitiveKind enumerates the supported macro primitive codes.
type MacroPrimitiveKind int

const (
	MacroCircle     MacroPrimitiveKind = 1
	MacroVectorLine MacroPrimitiveKind = 20
	MacroCenterLine MacroPrimitiveKind = 21
	MacroOutline    MacroPrimitiveKind = 4
)

// MacroPrimitive is one primitive of an aperture macro with its numeric
// modifiers already scaled to millimetres.
type MacroPrimitive struct {
	Kind      MacroPrimitiveKind
	Modifiers []float64
}

// Draw is a single D01 stroke in a drawing.
type Draw struct {
	Index      int // position in the source statement stream
	Start, End r2.Vec
	Arc        bool
	Center     r2.Vec
	Clockwise  bool
	Aperture   *Aperture
}

// Flash is a single D03 aperture flash.
type Flash struct {
	Index    int
	Pos      r2.Vec
	Aperture *Aperture
}

// File is a parsed drawing: the ordered draws and flashes it contains.
type File struct {
	Draws   []Draw
	Flashes []Flash
}
