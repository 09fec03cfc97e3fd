// Package solid describes stencil solids as trees of primitive solids
// and boolean operations. A tree is a pure value: building one performs
// no geometry computation, and identical pipeline inputs always produce
// an identical tree. Rendering the tree to a mesh is the job of the scad
// package and the external CAD engine it drives.
package solid

import (
	"github.com/stencilgen/stencilgen/geom"
	"gonum.org/v1/gonum/spatial/r3"
)

// Solid is a node in a solid model tree. The set of implementations is
// closed; renderers dispatch on the concrete type.
type Solid interface {
	solidNode()
}

// Extrude is a 2d profile extruded linearly from z=0 to z=Height.
type Extrude struct {
	Profile geom.Polygon
	Height  float64
}

// Union is the boolean union of its children.
type Union struct {
	Solids []Solid
}

// Difference subtracts every cut from the base solid.
type Difference struct {
	Base Solid
	Cuts []Solid
}

// Translate moves a solid by Offset.
type Translate struct {
	Solid  Solid
	Offset r3.Vec
}

// Rotate rotates a solid by Degrees about the axis through the origin.
type Rotate struct {
	Solid   Solid
	Axis    r3.Vec
	Degrees float64
}

// Mirror reflects a solid across the plane through the origin with the
// given normal.
type Mirror struct {
	Solid  Solid
	Normal r3.Vec
}

func (Extrude) solidNode()    {}
func (Union) solidNode()      {}
func (Difference) solidNode() {}
func (Translate) solidNode()  {}
func (Rotate) solidNode()     {}
func (Mirror) solidNode()     {}

// Down shifts a solid along -z, mirroring the usual "sink this solid
// below the build plane" composition.
func Down(s Solid, dz float64) Solid {
	if dz == 0 {
		return s
	}
	return Translate{Solid: s, Offset: r3.Vec{Z: -dz}}
}
