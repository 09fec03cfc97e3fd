package geom_test

import (
	"math"
	"testing"

	"github.com/stencilgen/stencilgen/geom"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestCircleArea(t *testing.T) {
	c := geom.Circle(r2.Vec{X: 3, Y: -2}, 2)
	if !c.IsCCW() {
		t.Fatal("circle not counter-clockwise")
	}
	want := math.Pi * 4
	if a := c.Area(); math.Abs(a-want) > 0.01 {
		t.Fatalf("area %g, want ~%g", a, want)
	}
	for _, v := range c {
		if d := r2.Norm(r2.Sub(v, r2.Vec{X: 3, Y: -2})); math.Abs(d-2) > 1e-9 {
			t.Fatalf("vertex %v not on circle", v)
		}
	}
}

func TestCircleMinimumSegments(t *testing.T) {
	if c := geom.Circle(r2.Vec{}, 0.05); len(c) < 8 {
		t.Fatalf("tiny circle has %d vertices, want at least 8", len(c))
	}
}

func TestRect(t *testing.T) {
	r := geom.Rect(r2.Vec{X: 1, Y: 1}, 4, 2, 0)
	if a := r.Area(); math.Abs(a-8) > 1e-12 {
		t.Fatalf("area %g, want 8", a)
	}
	// Rotation preserves area and center.
	rot := geom.Rect(r2.Vec{X: 1, Y: 1}, 4, 2, math.Pi/3)
	if a := rot.Area(); math.Abs(a-8) > 1e-9 {
		t.Fatalf("rotated area %g, want 8", a)
	}
}

func TestObround(t *testing.T) {
	o := geom.Obround(r2.Vec{}, 4, 2, 0)
	if !o.IsCCW() {
		t.Fatal("obround not counter-clockwise")
	}
	// Stadium area: straight middle plus a full circle of cap radius.
	want := (4-2)*2 + math.Pi
	if a := o.Area(); math.Abs(a-want) > 0.01 {
		t.Fatalf("area %g, want ~%g", a, want)
	}
	// Tall obround spans the axes the other way round.
	tall := geom.Obround(r2.Vec{}, 2, 4, 0)
	bb := tall.Bounds()
	if bb.Max.Y-bb.Min.Y <= bb.Max.X-bb.Min.X {
		t.Fatal("tall obround is not taller than wide")
	}
}

func TestObroundEqualSidesIsCircle(t *testing.T) {
	o := geom.Obround(r2.Vec{}, 3, 3, 0)
	c := geom.Circle(r2.Vec{}, 1.5)
	if len(o) != len(c) {
		t.Fatalf("degenerate obround has %d vertices, circle has %d", len(o), len(c))
	}
}

func TestRegularPolygon(t *testing.T) {
	hex := geom.RegularPolygon(r2.Vec{}, 6, 2, 0)
	if len(hex) != 6 {
		t.Fatalf("expected 6 vertices, got %d", len(hex))
	}
	// Regular hexagon of outer radius 1.
	want := 3 * math.Sqrt(3) / 2
	if a := hex.Area(); math.Abs(a-want) > 1e-9 {
		t.Fatalf("area %g, want %g", a, want)
	}
	if geom.RegularPolygon(r2.Vec{}, 2, 2, 0) != nil {
		t.Fatal("two-sided polygon should be rejected")
	}
}

func TestConvexHull(t *testing.T) {
	pts := []r2.Vec{
		{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4},
		{X: 2, Y: 2}, {X: 1, Y: 3}, // interior
	}
	hull := geom.ConvexHull(pts)
	if len(hull) != 4 {
		t.Fatalf("expected 4 hull vertices, got %d", len(hull))
	}
	if !hull.IsCCW() {
		t.Fatal("hull not counter-clockwise")
	}
	if a := hull.Area(); math.Abs(a-16) > 1e-12 {
		t.Fatalf("hull area %g, want 16", a)
	}
}
