// Package scad serializes solid trees as OpenSCAD programs and drives
// the openscad binary to render them into STL meshes.
package scad

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/stencilgen/stencilgen/geom"
	"github.com/stencilgen/stencilgen/solid"
	"gonum.org/v1/gonum/spatial/r3"
)

// Marshal renders the solid tree as an OpenSCAD program. Identical
// trees always marshal to identical bytes.
func Marshal(s solid.Solid) []byte {
	var buf bytes.Buffer
	Write(&buf, s) //nolint:errcheck // bytes.Buffer does not fail
	return buf.Bytes()
}

// Write serializes the solid tree as an OpenSCAD program.
func Write(w io.Writer, s solid.Solid) error {
	p := printer{w: w}
	p.node(s)
	return p.err
}

type printer struct {
	w     io.Writer
	depth int
	err   error
}

func (p *printer) node(s solid.Solid) {
	switch n := s.(type) {
	case solid.Extrude:
		p.line("linear_extrude(height=%s)", ftoa(n.Height))
		p.polygon(n.Profile)
	case solid.Union:
		p.block("union()", n.Solids...)
	case solid.Difference:
		p.block("difference()", append([]solid.Solid{n.Base}, n.Cuts...)...)
	case solid.Translate:
		p.line("translate(%s)", vtoa(n.Offset))
		p.child(n.Solid)
	case solid.Rotate:
		p.line("rotate(a=%s, v=%s)", ftoa(n.Degrees), vtoa(n.Axis))
		p.child(n.Solid)
	case solid.Mirror:
		p.line("mirror(%s)", vtoa(n.Normal))
		p.child(n.Solid)
	default:
		p.fail(fmt.Errorf("scad: unknown solid node %T", s))
	}
}

func (p *printer) block(head string, children ...solid.Solid) {
	p.line("%s {", head)
	p.depth++
	for _, c := range children {
		p.node(c)
	}
	p.depth--
	p.line("}")
}

func (p *printer) child(c solid.Solid) {
	p.depth++
	p.node(c)
	p.depth--
}

func (p *printer) polygon(poly geom.Polygon) {
	var b bytes.Buffer
	b.WriteString("polygon(points=[")
	for i, v := range poly {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "[%s, %s]", ftoa(v.X), ftoa(v.Y))
	}
	b.WriteString("]);")
	p.line("%s", b.String())
}

func (p *printer) line(format string, args ...any) {
	if p.err != nil {
		return
	}
	for i := 0; i < p.depth; i++ {
		if _, err := io.WriteString(p.w, "    "); err != nil {
			p.fail(err)
			return
		}
	}
	if _, err := fmt.Fprintf(p.w, format+"\n", args...); err != nil {
		p.fail(err)
	}
}

func (p *printer) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

// ftoa formats a coordinate with the shortest exact decimal
// representation so that equal trees serialize byte for byte equal.
func ftoa(v float64) string {
	if v == 0 {
		v = 0 // normalize -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func vtoa(v r3.Vec) string {
	return "[" + ftoa(v.X) + ", " + ftoa(v.Y) + ", " + ftoa(v.Z) + "]"
}
