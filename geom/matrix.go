// Provides the planar primitives shared by the importers, the scene
// model and the toolpath emitters: points, rectangles and 2D affine
// transforms, plus the distance queries used by the eraser tool.
// All coordinates are float64 millimeters in document space.
package geom

import "math"

// Matrix2D is an affine transform using the SVG matrix layout:
//
//	x' = A*x + C*y + E
//	y' = B*x + D*y + F
type Matrix2D struct {
	A, B, C, D, E, F float64
}

// Identity is the no-op transform.
var Identity = Matrix2D{1, 0, 0, 1, 0, 0}

// Mult returns the composition of a and b; b applies first, so nested
// transforms compose like nested group elements.
func (a Matrix2D) Mult(b Matrix2D) Matrix2D {
	return Matrix2D{
		A: a.A*b.A + a.C*b.B,
		B: a.B*b.A + a.D*b.B,
		C: a.A*b.C + a.C*b.D,
		D: a.B*b.C + a.D*b.D,
		E: a.A*b.E + a.C*b.F + a.E,
		F: a.B*b.E + a.D*b.F + a.F,
	}
}

// Apply transforms the point p.
func (a Matrix2D) Apply(p Point) Point {
	return Point{
		X: p.X*a.A + p.Y*a.C + a.E,
		Y: p.X*a.B + p.Y*a.D + a.F,
	}
}

// Transform maps the coordinate pair (x1, y1).
func (a Matrix2D) Transform(x1, y1 float64) (x2, y2 float64) {
	x2 = x1*a.A + y1*a.C + a.E
	y2 = x1*a.B + y1*a.D + a.F
	return
}

// Translate appends a translation by x, y.
func (a Matrix2D) Translate(x, y float64) Matrix2D {
	return a.Mult(Matrix2D{
		A: 1, B: 0,
		C: 0, D: 1,
		E: x, F: y})
}

// Scale appends a scale by x, y.
func (a Matrix2D) Scale(x, y float64) Matrix2D {
	return a.Mult(Matrix2D{
		A: x, B: 0,
		C: 0, D: y,
		E: 0, F: 0})
}

// Rotate appends a counter-clockwise rotation by theta radians.
func (a Matrix2D) Rotate(theta float64) Matrix2D {
	return a.Mult(Matrix2D{
		A: math.Cos(theta), B: math.Sin(theta),
		C: -math.Sin(theta), D: math.Cos(theta),
		E: 0, F: 0})
}

// SkewX appends a skew of theta radians along the x axis.
func (a Matrix2D) SkewX(theta float64) Matrix2D {
	return a.Mult(Matrix2D{
		A: 1, B: 0,
		C: math.Tan(theta), D: 1,
		E: 0, F: 0})
}

// SkewY appends a skew of theta radians along the y axis.
func (a Matrix2D) SkewY(theta float64) Matrix2D {
	return a.Mult(Matrix2D{
		A: 1, B: math.Tan(theta),
		C: 0, D: 1,
		E: 0, F: 0})
}

// Invert returns the inverse transform, or Identity when a is singular.
func (a Matrix2D) Invert() Matrix2D {
	det := a.A*a.D - a.C*a.B
	if math.Abs(det) < 1e-12 {
		return Identity
	}
	return Matrix2D{
		A: a.D / det, B: -a.B / det,
		C: -a.C / det, D: a.A / det,
		E: (a.C*a.F - a.D*a.E) / det,
		F: (a.B*a.E - a.A*a.F) / det,
	}
}
