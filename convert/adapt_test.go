package convert_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/stencilgen/stencilgen/convert"
	"github.com/stencilgen/stencilgen/gerber"
)

// macroFlash builds a drawing with a single macro aperture flashed at
// pos.
func macroFlash(pos r2.Vec, prims ...gerber.MacroPrimitive) *gerber.File {
	return &gerber.File{
		Flashes: []gerber.Flash{{
			Index: 1,
			Pos:   pos,
			Aperture: &gerber.Aperture{
				Shape: gerber.ShapeMacro,
				Macro: &gerber.Macro{Name: "PAD", Primitives: prims},
			},
		}},
	}
}

func TestMacroOutlineFlash(t *testing.T) {
	// 2x1 rectangle as an outline primitive: exposure, n, then n+1
	// points with the last repeating the first.
	f := macroFlash(r2.Vec{X: 10, Y: 10}, gerber.MacroPrimitive{
		Kind:      gerber.MacroOutline,
		Modifiers: []float64{1, 4, 0, 0, 2, 0, 2, 1, 0, 1, 0, 0},
	})

	flashes, strokes, err := convert.PasteFeatures(f)
	require.NoError(t, err)
	require.Empty(t, strokes)
	require.Len(t, flashes, 1)
	fl := flashes[0]
	assert.Equal(t, convert.FlashPoly, fl.Kind)
	require.Len(t, fl.Poly, 4, "closing point must be dropped")
	assert.InDelta(t, 2, fl.Poly.Area(), 1e-9)

	bb := fl.Poly.Bounds()
	assert.InDelta(t, 10, bb.Min.X, 1e-9)
	assert.InDelta(t, 10, bb.Min.Y, 1e-9)
	assert.InDelta(t, 12, bb.Max.X, 1e-9)
	assert.InDelta(t, 11, bb.Max.Y, 1e-9)

	holes, warns := convert.BuildHoles(flashes, nil, boardBounds, convert.DefaultConfig())
	require.Empty(t, warns)
	require.Len(t, holes, 1)
	assert.InDelta(t, 2, holes[0].Poly.Area(), 1e-9)
}

func TestMacroOutlineTrailingRotation(t *testing.T) {
	// Same rectangle with a trailing 90 degree rotation about the macro
	// origin: width and height swap and the shape lands left of the
	// flash position.
	f := macroFlash(r2.Vec{X: 10, Y: 10}, gerber.MacroPrimitive{
		Kind:      gerber.MacroOutline,
		Modifiers: []float64{1, 4, 0, 0, 2, 0, 2, 1, 0, 1, 0, 0, 90},
	})

	flashes, _, err := convert.PasteFeatures(f)
	require.NoError(t, err)
	require.Len(t, flashes, 1)
	poly := flashes[0].Poly
	require.Len(t, poly, 4)
	assert.InDelta(t, 2, poly.Area(), 1e-9)

	bb := poly.Bounds()
	assert.InDelta(t, 9, bb.Min.X, 1e-9)
	assert.InDelta(t, 10, bb.Min.Y, 1e-9)
	assert.InDelta(t, 10, bb.Max.X, 1e-9)
	assert.InDelta(t, 12, bb.Max.Y, 1e-9)
}

func TestMacroCenterLineRotation(t *testing.T) {
	// 4x2 centered rectangle rotated 90 degrees stands upright.
	f := macroFlash(r2.Vec{X: 20, Y: 10}, gerber.MacroPrimitive{
		Kind:      gerber.MacroCenterLine,
		Modifiers: []float64{1, 4, 2, 0, 0, 90},
	})

	flashes, _, err := convert.PasteFeatures(f)
	require.NoError(t, err)
	require.Len(t, flashes, 1)
	poly := flashes[0].Poly
	assert.InDelta(t, 8, poly.Area(), 1e-9)

	bb := poly.Bounds()
	assert.InDelta(t, 19, bb.Min.X, 1e-9)
	assert.InDelta(t, 8, bb.Min.Y, 1e-9)
	assert.InDelta(t, 21, bb.Max.X, 1e-9)
	assert.InDelta(t, 12, bb.Max.Y, 1e-9)
}

func TestMacroExpandsOnePrimitivePerFlash(t *testing.T) {
	f := macroFlash(r2.Vec{X: 15, Y: 10},
		gerber.MacroPrimitive{Kind: gerber.MacroCircle, Modifiers: []float64{1, 2, 1, 0}},
		gerber.MacroPrimitive{Kind: gerber.MacroVectorLine, Modifiers: []float64{1, 0.5, -2, 0, 2, 0}},
	)

	flashes, _, err := convert.PasteFeatures(f)
	require.NoError(t, err)
	require.Len(t, flashes, 2)

	circle := flashes[0].Poly
	assert.InDelta(t, math.Pi, circle.Area(), 0.05)
	center := circle.Bounds()
	assert.InDelta(t, 16, (center.Min.X+center.Max.X)/2, 0.01)
	assert.InDelta(t, 10, (center.Min.Y+center.Max.Y)/2, 0.01)

	line := flashes[1].Poly
	require.Len(t, line, 4)
	assert.InDelta(t, 2, line.Area(), 1e-9)
}

func TestMacroShortOutlineIsUnsupported(t *testing.T) {
	// Point count promises 4 corners but only 3 points follow.
	f := macroFlash(r2.Vec{}, gerber.MacroPrimitive{
		Kind:      gerber.MacroOutline,
		Modifiers: []float64{1, 4, 0, 0, 2, 0, 2, 1},
	})

	_, _, err := convert.PasteFeatures(f)
	var unsupported *gerber.UnsupportedPrimitiveError
	require.ErrorAs(t, err, &unsupported)
	assert.Contains(t, unsupported.Primitive, "outline")
}
