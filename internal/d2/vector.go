package d2

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

func Elem(sides float64) r2.Vec {
	return r2.Vec{
		X: sides,
		Y: sides,
	}
}

func EqualWithin(a, b r2.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}

// MinElem return a vector with the minimum components of two vectors.
func MinElem(a, b r2.Vec) r2.Vec {
	return r2.Vec{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)}
}

// MaxElem return a vector with the maximum components of two vectors.
func MaxElem(a, b r2.Vec) r2.Vec {
	return r2.Vec{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)}
}

func AbsElem(a r2.Vec) r2.Vec {
	return r2.Vec{
		X: math.Abs(a.X),
		Y: math.Abs(a.Y),
	}
}

// Cross returns the 2d cross product (z component of the 3d cross product).
func Cross(a, b r2.Vec) float64 {
	return a.X*b.Y - a.Y*b.X
}

// PerpCCW returns a rotated 90 degrees counter-clockwise.
func PerpCCW(a r2.Vec) r2.Vec {
	return r2.Vec{X: -a.Y, Y: a.X}
}

// PerpCW returns a rotated 90 degrees clockwise.
func PerpCW(a r2.Vec) r2.Vec {
	return r2.Vec{X: a.Y, Y: -a.X}
}

// Rotate rotates a by theta radians about the origin.
func Rotate(a r2.Vec, theta float64) r2.Vec {
	c, s := math.Cos(theta), math.Sin(theta)
	return r2.Vec{X: c*a.X - s*a.Y, Y: s*a.X + c*a.Y}
}

// RotateAbout rotates a by theta radians about point c.
func RotateAbout(a, c r2.Vec, theta float64) r2.Vec {
	return r2.Add(c, Rotate(r2.Sub(a, c), theta))
}

// PolarToXY converts polar to cartesian coordinates.
func PolarToXY(r, theta float64) r2.Vec {
	return r2.Vec{X: r * math.Cos(theta), Y: r * math.Sin(theta)}
}

type Set []r2.Vec

// Min return the minimum components of a set of vectors.
func (a Set) Min() r2.Vec {
	vmin := a[0]
	for _, v := range a[1:] {
		vmin = MinElem(vmin, v)
	}
	return vmin
}

// Max return the maximum components of a set of vectors.
func (a Set) Max() r2.Vec {
	vmax := a[0]
	for _, v := range a[1:] {
		vmax = MaxElem(vmax, v)
	}
	return vmax
}
