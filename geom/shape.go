package geom

import (
	"math"
	"sort"

	"github.com/stencilgen/stencilgen/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

// arcSegments returns the number of chords used to approximate an arc of
// the given length, never less than min.
func arcSegments(arcLength float64, min int) int {
	n := int(math.Round(arcLength / MaxChord))
	if n < min {
		n = min
	}
	return n
}

// Circle returns a counter-clockwise polygon approximating a circle.
func Circle(center r2.Vec, radius float64) Polygon {
	n := arcSegments(2*math.Pi*radius, 8)
	p := make(Polygon, n)
	for i := 0; i < n; i++ {
		theta := float64(i) * 2 * math.Pi / float64(n)
		p[i] = r2.Add(center, d2.PolarToXY(radius, theta))
	}
	return p
}

// Rect returns a counter-clockwise rectangle of size w x h centered on
// center and rotated by theta radians.
func Rect(center r2.Vec, w, h, theta float64) Polygon {
	hw, hh := w/2, h/2
	p := Polygon{
		{X: center.X - hw, Y: center.Y - hh},
		{X: center.X + hw, Y: center.Y - hh},
		{X: center.X + hw, Y: center.Y + hh},
		{X: center.X - hw, Y: center.Y + hh},
	}
	return p.RotateAbout(center, theta)
}

// Obround returns a counter-clockwise stadium shape of size w x h
// centered on center and rotated by theta radians. The shorter dimension
// sets the cap radius; w == h degenerates to a circle.
func Obround(center r2.Vec, w, h, theta float64) Polygon {
	if w == h {
		return Circle(center, w/2)
	}
	var r, half float64
	var axis r2.Vec // unit vector along the straight sides
	if w > h {
		r = h / 2
		half = (w - h) / 2
		axis = r2.Vec{X: 1}
	} else {
		r = w / 2
		half = (h - w) / 2
		axis = r2.Vec{Y: 1}
	}
	c0 := r2.Sub(center, r2.Scale(half, axis)) // first cap center
	c1 := r2.Add(center, r2.Scale(half, axis)) // second cap center

	// Semicircular caps, tessellated like full circles of the same radius
	// so an obround and a circle of equal radius share chord lengths.
	n := arcSegments(math.Pi*r, 4)
	base := math.Atan2(axis.Y, axis.X)
	p := make(Polygon, 0, 2*n+2)
	// cap around c1, sweeping from -90 to +90 degrees relative to axis
	for i := 0; i <= n; i++ {
		theta := base - math.Pi/2 + float64(i)*math.Pi/float64(n)
		p = append(p, r2.Add(c1, d2.PolarToXY(r, theta)))
	}
	// cap around c0, sweeping from +90 to +270 degrees relative to axis
	for i := 0; i <= n; i++ {
		theta := base + math.Pi/2 + float64(i)*math.Pi/float64(n)
		p = append(p, r2.Add(c0, d2.PolarToXY(r, theta)))
	}
	return p.dedup(JoinTolerance / 10).RotateAbout(center, theta)
}

// RegularPolygon returns an n sided regular polygon of the given outer
// diameter centered on center, first vertex at theta radians.
func RegularPolygon(center r2.Vec, n int, diameter, theta float64) Polygon {
	if n < 3 {
		return nil
	}
	p := make(Polygon, n)
	for i := 0; i < n; i++ {
		a := theta + float64(i)*2*math.Pi/float64(n)
		p[i] = r2.Add(center, d2.PolarToXY(diameter/2, a))
	}
	return p
}

// ConvexHull returns the convex hull of points as a counter-clockwise
// polygon (Andrew's monotone chain).
func ConvexHull(points []r2.Vec) Polygon {
	if len(points) < 3 {
		return Polygon(points)
	}
	pts := make([]r2.Vec, len(points))
	copy(pts, points)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})

	var lower, upper []r2.Vec
	for _, p := range pts {
		for len(lower) >= 2 && d2.Cross(r2.Sub(lower[len(lower)-1], lower[len(lower)-2]), r2.Sub(p, lower[len(lower)-2])) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	for i := len(pts) - 1; i >= 0; i-- {
		p := pts[i]
		for len(upper) >= 2 && d2.Cross(r2.Sub(upper[len(upper)-1], upper[len(upper)-2]), r2.Sub(p, upper[len(upper)-2])) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}
	return Polygon(append(lower[:len(lower)-1], upper[:len(upper)-1]...))
}
