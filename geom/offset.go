package geom

import (
	"errors"
	"math"

	"github.com/stencilgen/stencilgen/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

// ErrDegenerate reports an offset that collapses its polygon: the result
// flips winding or falls below MinArea. Callers treat the source shape
// as unusable and drop it.
var ErrDegenerate = errors.New("geom: offset collapses polygon")

// Offset returns the uniform-normal offset of p by delta millimetres.
// Positive delta grows the polygon, negative shrinks it.
//
// Corner policy: convex corners are mitered (adjacent offset edges
// extended to their intersection); on growing offsets concave corners
// are rounded with an arc about the original vertex so the boundary
// cannot fold back on itself. Shrinking offsets that invert the winding
// or leave less than MinArea return ErrDegenerate.
//
// Offset never clips or repairs its output. A shrink that folds part of
// the boundary while keeping the winding and a usable area is returned
// with the fold intact; the only failure mode is ErrDegenerate, on
// which callers drop the source shape.
func Offset(p Polygon, delta float64) (Polygon, error) {
	return offset(p, delta, true)
}

// OffsetMiter is Offset with miters at every corner. Used for hole
// enlargement where corner geometry must be preserved exactly.
func OffsetMiter(p Polygon, delta float64) (Polygon, error) {
	return offset(p, delta, false)
}

func offset(p Polygon, delta float64, roundConcave bool) (Polygon, error) {
	p = p.CCW().dedup(JoinTolerance)
	if len(p) < 3 {
		return nil, ErrDegenerate
	}
	if delta == 0 {
		q := make(Polygon, len(p))
		copy(q, p)
		return q, nil
	}

	n := len(p)
	out := make(Polygon, 0, n)
	for i := 0; i < n; i++ {
		prev := p[(i+n-1)%n]
		cur := p[i]
		next := p[(i+1)%n]

		dirIn := r2.Unit(r2.Sub(cur, prev))
		dirOut := r2.Unit(r2.Sub(next, cur))
		// Outward normal of a CCW boundary points right of the edge.
		nIn := d2.PerpCW(dirIn)
		nOut := d2.PerpCW(dirOut)

		a := r2.Add(cur, r2.Scale(delta, nIn))
		b := r2.Add(cur, r2.Scale(delta, nOut))

		cross := d2.Cross(dirIn, dirOut)
		switch {
		case math.Abs(cross) < 1e-12:
			out = append(out, a)
		case cross < 0 && roundConcave && delta > 0:
			out = append(out, roundCorner(cur, a, b, delta)...)
		default:
			out = append(out, miter(a, dirIn, b, dirOut))
		}
	}

	out = out.dedup(JoinTolerance)
	if len(out) < 3 || !out.IsCCW() || out.Area() < MinArea {
		return nil, ErrDegenerate
	}
	return out, nil
}

// miter intersects the two offset edge lines a+t*da and b+u*db.
// Near-parallel lines fall back to the first offset point.
func miter(a, da, b, db r2.Vec) r2.Vec {
	denom := d2.Cross(da, db)
	if math.Abs(denom) < 1e-12 {
		return a
	}
	t := d2.Cross(r2.Sub(b, a), db) / denom
	return r2.Add(a, r2.Scale(t, da))
}

// roundCorner returns arc vertices about center c from a to b at radius
// delta, sweeping the short way round.
func roundCorner(c, a, b r2.Vec, delta float64) []r2.Vec {
	a0 := math.Atan2(a.Y-c.Y, a.X-c.X)
	a1 := math.Atan2(b.Y-c.Y, b.X-c.X)
	sweep := a1 - a0
	for sweep > math.Pi {
		sweep -= 2 * math.Pi
	}
	for sweep < -math.Pi {
		sweep += 2 * math.Pi
	}
	steps := arcSegments(math.Abs(sweep)*delta, 1)
	pts := make([]r2.Vec, 0, steps+1)
	for i := 0; i <= steps; i++ {
		theta := a0 + sweep*float64(i)/float64(steps)
		pts = append(pts, r2.Add(c, d2.PolarToXY(delta, theta)))
	}
	return pts
}
