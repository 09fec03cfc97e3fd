package gerber_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/stencilgen/stencilgen/gerber"
)

func parse(t *testing.T, src string) *gerber.File {
	t.Helper()
	f, err := gerber.Parse(strings.NewReader(src))
	require.NoError(t, err)
	return f
}

func TestParseFlash(t *testing.T) {
	f := parse(t, `
%FSLAX23Y23*%
%MOMM*%
%ADD10C,1.5*%
D10*
X1000Y2000D03*
M02*
`)
	require.Len(t, f.Flashes, 1)
	fl := f.Flashes[0]
	assert.Equal(t, r2.Vec{X: 1, Y: 2}, fl.Pos)
	assert.Equal(t, gerber.ShapeCircle, fl.Aperture.Shape)
	assert.Equal(t, 1.5, fl.Aperture.Diameter)
}

func TestParseDrawsAndModalOperation(t *testing.T) {
	f := parse(t, `
%FSLAX23Y23*%
%MOMM*%
%ADD10C,0.1*%
D10*
G01*
X0Y0D02*
X5000Y0D01*
X5000Y3000*
M02*
`)
	require.Len(t, f.Draws, 2)
	assert.Equal(t, r2.Vec{X: 5, Y: 0}, f.Draws[0].End)
	// The second coordinate word reuses the modal D01.
	assert.Equal(t, r2.Vec{X: 5, Y: 0}, f.Draws[1].Start)
	assert.Equal(t, r2.Vec{X: 5, Y: 3}, f.Draws[1].End)
	assert.False(t, f.Draws[1].Arc)
}

func TestParseArc(t *testing.T) {
	f := parse(t, `
%FSLAX23Y23*%
%MOMM*%
%ADD10C,0.1*%
D10*
G75*
X0Y0D02*
G03X0Y2000I0J1000D01*
M02*
`)
	require.Len(t, f.Draws, 1)
	d := f.Draws[0]
	assert.True(t, d.Arc)
	assert.False(t, d.Clockwise)
	assert.Equal(t, r2.Vec{X: 0, Y: 1}, d.Center)
	assert.Equal(t, r2.Vec{X: 0, Y: 2}, d.End)
}

func TestParseInchScaling(t *testing.T) {
	f := parse(t, `
%FSLAX24Y24*%
%MOIN*%
%ADD10C,0.05*%
D10*
X10000Y0D03*
M02*
`)
	require.Len(t, f.Flashes, 1)
	assert.InDelta(t, 25.4, f.Flashes[0].Pos.X, 1e-9)
	assert.InDelta(t, 1.27, f.Flashes[0].Aperture.Diameter, 1e-9)
}

func TestParseApertureShapes(t *testing.T) {
	f := parse(t, `
%FSLAX23Y23*%
%MOMM*%
%ADD10R,2X1*%
%ADD11O,3X1.5*%
%ADD12P,4X6X30*%
D10*
X0Y0D03*
D11*
X1000Y0D03*
D12*
X2000Y0D03*
M02*
`)
	require.Len(t, f.Flashes, 3)
	r := f.Flashes[0].Aperture
	assert.Equal(t, gerber.ShapeRectangle, r.Shape)
	assert.Equal(t, 2.0, r.XSize)
	assert.Equal(t, 1.0, r.YSize)
	o := f.Flashes[1].Aperture
	assert.Equal(t, gerber.ShapeObround, o.Shape)
	p := f.Flashes[2].Aperture
	assert.Equal(t, gerber.ShapePolygon, p.Shape)
	assert.Equal(t, 6, p.Vertices)
	assert.Equal(t, 30.0, p.Rotation)
}

func TestParseMacro(t *testing.T) {
	f := parse(t, `
%FSLAX23Y23*%
%MOMM*%
%AMPAD*
1,1,2.5,0,0*
21,1,1.0,0.5,0,0,0*%
%ADD15PAD*%
D15*
X0Y0D03*
M02*
`)
	require.Len(t, f.Flashes, 1)
	ap := f.Flashes[0].Aperture
	require.Equal(t, gerber.ShapeMacro, ap.Shape)
	require.NotNil(t, ap.Macro)
	require.Len(t, ap.Macro.Primitives, 2)
	assert.Equal(t, gerber.MacroCircle, ap.Macro.Primitives[0].Kind)
	assert.Equal(t, gerber.MacroCenterLine, ap.Macro.Primitives[1].Kind)
	assert.Equal(t, 2.5, ap.Macro.Primitives[0].Modifiers[1])
}

func TestParseMacroVariablesUnsupported(t *testing.T) {
	_, err := gerber.Parse(strings.NewReader(`
%FSLAX23Y23*%
%MOMM*%
%AMVAR*
1,1,$1,0,0*%
`))
	var unsupported *gerber.UnsupportedPrimitiveError
	require.ErrorAs(t, err, &unsupported)
}

func TestParseRegionUnsupported(t *testing.T) {
	_, err := gerber.Parse(strings.NewReader(`
%FSLAX23Y23*%
%MOMM*%
G36*
X0Y0D02*
G37*
`))
	var unsupported *gerber.UnsupportedPrimitiveError
	require.ErrorAs(t, err, &unsupported)
	assert.Contains(t, unsupported.Error(), "region")
}

func TestParseClearPolarityUnsupported(t *testing.T) {
	_, err := gerber.Parse(strings.NewReader(`
%FSLAX23Y23*%
%MOMM*%
%LPC*%
`))
	var unsupported *gerber.UnsupportedPrimitiveError
	require.ErrorAs(t, err, &unsupported)
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"bad format", "%FSLAXY*%"},
		{"bad aperture", "%FSLAX23Y23*%\n%ADD10C*%"},
		{"undefined aperture", "%FSLAX23Y23*%\nD42*\n"},
		{"flash before aperture", "%FSLAX23Y23*%\nX0Y0D03*\n"},
		{"coordinate without op", "%FSLAX23Y23*%\nX100Y100*\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := gerber.Parse(strings.NewReader(tc.src))
			var parseErr *gerber.ParseError
			require.ErrorAs(t, err, &parseErr, "input: %q", tc.src)
			assert.Greater(t, parseErr.Line, 0)
		})
	}
}

func TestParseTrailingZeroOmission(t *testing.T) {
	f := parse(t, `
%FSTAX23Y23*%
%MOMM*%
%ADD10C,1*%
D10*
X1Y25D03*
M02*
`)
	require.Len(t, f.Flashes, 1)
	// Trailing omission pads on the right: X1 -> 10.000, Y25 -> 25.000.
	assert.InDelta(t, 10, f.Flashes[0].Pos.X, 1e-9)
	assert.InDelta(t, 25, f.Flashes[0].Pos.Y, 1e-9)
}

func TestParseExplicitDecimal(t *testing.T) {
	f := parse(t, `
%FSLAX23Y23*%
%MOMM*%
%ADD10C,1*%
D10*
X1.25Y-0.5D03*
M02*
`)
	require.Len(t, f.Flashes, 1)
	assert.InDelta(t, 1.25, f.Flashes[0].Pos.X, 1e-9)
	assert.InDelta(t, -0.5, f.Flashes[0].Pos.Y, 1e-9)
}
