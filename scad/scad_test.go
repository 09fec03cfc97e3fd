package scad_test

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/stencilgen/stencilgen/geom"
	"github.com/stencilgen/stencilgen/scad"
	"github.com/stencilgen/stencilgen/solid"
)

func plate() solid.Solid {
	outline := geom.Polygon{{X: 0, Y: 0}, {X: 30, Y: 0}, {X: 30, Y: 20}, {X: 0, Y: 20}}
	hole := geom.Polygon{{X: 14, Y: 9}, {X: 16, Y: 9}, {X: 16, Y: 11}, {X: 14, Y: 11}}
	return solid.Rotate{
		Solid: solid.Translate{
			Solid: solid.Difference{
				Base: solid.Extrude{Profile: outline, Height: 0.2},
				Cuts: []solid.Solid{solid.Extrude{Profile: hole, Height: 0.2}},
			},
			Offset: r3.Vec{X: -15, Y: -10},
		},
		Axis:    r3.Vec{X: 1},
		Degrees: 180,
	}
}

func TestMarshalProgram(t *testing.T) {
	got := string(scad.Marshal(plate()))
	want := `rotate(a=180, v=[1, 0, 0])
    translate([-15, -10, 0])
        difference() {
            linear_extrude(height=0.2)
            polygon(points=[[0, 0], [30, 0], [30, 20], [0, 20]]);
            linear_extrude(height=0.2)
            polygon(points=[[14, 9], [16, 9], [16, 11], [14, 11]]);
        }
`
	assert.Equal(t, want, got)
}

func TestMarshalDeterministic(t *testing.T) {
	a := scad.Marshal(plate())
	b := scad.Marshal(plate())
	if !bytes.Equal(a, b) {
		t.Fatal("identical trees marshalled differently")
	}
}

func TestMarshalNormalizesNegativeZero(t *testing.T) {
	s := solid.Translate{
		Solid:  solid.Union{Solids: []solid.Solid{solid.Extrude{Profile: geom.Polygon{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}, Height: 1}}},
		Offset: r3.Vec{X: math.Copysign(0, -1)},
	}
	out := string(scad.Marshal(s))
	assert.NotContains(t, out, "-0,")
	assert.NotContains(t, out, "[-0")
}

func TestReadMeshStats(t *testing.T) {
	// Minimal ASCII STL: one triangle spanning 1mm in X and Y.
	src := `solid tri
facet normal 0 0 1
  outer loop
    vertex 0 0 0
    vertex 1 0 0
    vertex 0 1 0
  endloop
endfacet
endsolid tri
`
	path := filepath.Join(t.TempDir(), "tri.stl")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	stats, err := scad.ReadMeshStats(path)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Triangles)
	size := stats.Size()
	assert.InDelta(t, 1, size[0], 1e-6)
	assert.InDelta(t, 1, size[1], 1e-6)
	assert.InDelta(t, 0, size[2], 1e-6)
}

func TestEngineBinResolution(t *testing.T) {
	t.Setenv(scad.EnvBin, "")
	e := scad.NewEngine()
	assert.Equal(t, "openscad", e.Bin)

	t.Setenv(scad.EnvBin, "/opt/openscad/bin/openscad")
	e = scad.NewEngine()
	assert.True(t, strings.HasSuffix(e.Bin, "openscad"))
	assert.Equal(t, "/opt/openscad/bin/openscad", e.Bin)
}
