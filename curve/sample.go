// Flattens the curved primitives of the importers and the part catalog
// into polylines. Every sampler is deterministic: the same input
// always yields the same point sequence, so emitted toolpaths are
// reproducible. Degenerate curves (zero radius, zero length, non
// finite input) sample to nil instead of propagating NaNs.
package curve

import (
	"math"

	"github.com/yukikaze0413/Nexcut-whiteboard-sub000/geom"
)

// fullCircleSegments is the number of chords used to cover a complete
// revolution; shorter arcs keep the same angular step.
const fullCircleSegments = 64

// minCubicSteps floors the sampling of cubic segments so short curves
// still flatten smoothly.
const minCubicSteps = 128

// minSplineSteps floors the sampling of spline control polygons.
const minSplineSteps = 64

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func finitePoint(p geom.Point) bool {
	return finite(p.X) && finite(p.Y)
}

// arcSegments returns the chord count covering a sweep of the given
// magnitude in radians.
func arcSegments(sweep float64) int {
	segs := int(math.Ceil(math.Abs(sweep) / (2 * math.Pi / fullCircleSegments)))
	if segs < 1 {
		segs = 1
	}
	return segs
}

// Arc samples the circular arc centered at c with radius r, starting
// at angle start and sweeping by sweep radians (counter-clockwise when
// positive). The result holds one point per chord end, segments+1 in
// total, with both arc ends included.
func Arc(c geom.Point, r, start, sweep float64) []geom.Point {
	if !finitePoint(c) || !finite(r) || !finite(start) || !finite(sweep) {
		return nil
	}
	if r <= 0 || sweep == 0 {
		return nil
	}
	segs := arcSegments(sweep)
	pts := make([]geom.Point, segs+1)
	for i := 0; i <= segs; i++ {
		a := start + sweep*float64(i)/float64(segs)
		pts[i] = geom.Point{X: c.X + r*math.Cos(a), Y: c.Y + r*math.Sin(a)}
	}
	return pts
}

// EllipseArc samples the arc of an ellipse centered at c with radii
// rx, ry, its x axis rotated by rot radians. start and sweep are the
// parametric angles of the arc.
func EllipseArc(c geom.Point, rx, ry, rot, start, sweep float64) []geom.Point {
	if !finitePoint(c) || !finite(rx) || !finite(ry) || !finite(sweep) {
		return nil
	}
	if rx <= 0 || ry <= 0 || sweep == 0 {
		return nil
	}
	sinT, cosT := math.Sin(rot), math.Cos(rot)
	segs := arcSegments(sweep)
	pts := make([]geom.Point, segs+1)
	for i := 0; i <= segs; i++ {
		eta := start + sweep*float64(i)/float64(segs)
		x, y := ellipsePointAt(rx, ry, sinT, cosT, eta, c.X, c.Y)
		pts[i] = geom.Point{X: x, Y: y}
	}
	return pts
}

// ellipsePointAt gives points for a parameterized ellipse; a, b radii,
// eta parameter, center cx, cy.
func ellipsePointAt(a, b, sinTheta, cosTheta, eta, cx, cy float64) (px, py float64) {
	aCosEta := a * math.Cos(eta)
	bSinEta := b * math.Sin(eta)
	px = cx + aCosEta*cosTheta - bSinEta*sinTheta
	py = cy + aCosEta*sinTheta + bSinEta*cosTheta
	return
}

// cubicSteps derives the sample count for one cubic segment from its
// estimated arc length: the average of the chord and the control
// polygon, floored at minCubicSteps.
func cubicSteps(p0, p1, p2, p3 geom.Point) int {
	chord := p3.Distance(p0)
	poly := p1.Distance(p0) + p2.Distance(p1) + p3.Distance(p2)
	n := int((chord + poly) / 2)
	if n < minCubicSteps {
		n = minCubicSteps
	}
	return n
}

// Cubic samples the cubic bezier segment p0..p3 at uniform parameter
// steps, both endpoints included.
func Cubic(p0, p1, p2, p3 geom.Point) []geom.Point {
	if !finitePoint(p0) || !finitePoint(p1) || !finitePoint(p2) || !finitePoint(p3) {
		return nil
	}
	if p0 == p1 && p1 == p2 && p2 == p3 {
		return nil
	}
	n := cubicSteps(p0, p1, p2, p3)
	pts := make([]geom.Point, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		pts[i] = geom.Point{
			X: bezierSpline(p0.X, p1.X, p2.X, p3.X, t),
			Y: bezierSpline(p0.Y, p1.Y, p2.Y, p3.Y, t),
		}
	}
	return pts
}

// cubic polynomial
// x = At^3 + Bt^2 + Ct + D
// where A,B,C,D:
// A = p3 -3 * p2 + 3 * p1 - p0
// B = 3 * p2 - 6 * p1 +3 * p0
// C = 3 * p1 - 3 * p0
// D = p0
func bezierSpline(p0, p1, p2, p3, t float64) float64 {
	return (p3-3*p2+3*p1-p0)*t*t*t +
		(3*p2-6*p1+3*p0)*t*t +
		(3*p1-3*p0)*t +
		(p0)
}

// Quad samples the quadratic bezier segment p0, ctrl, p1 by promoting
// it to a cubic.
func Quad(p0, ctrl, p1 geom.Point) []geom.Point {
	c1 := p0.Add(ctrl.Sub(p0).Mul(2.0 / 3.0))
	c2 := p1.Add(ctrl.Sub(p1).Mul(2.0 / 3.0))
	return Cubic(p0, c1, c2, p1)
}

// Spline evaluates the control polygon as a single bezier curve of
// degree len(ctrl)-1, by repeated linear interpolation. The sample
// count grows with the polygon size: 8 per control point, floored at
// minSplineSteps.
func Spline(ctrl []geom.Point) []geom.Point {
	if len(ctrl) < 2 {
		return nil
	}
	for _, p := range ctrl {
		if !finitePoint(p) {
			return nil
		}
	}
	steps := 8 * len(ctrl)
	if steps < minSplineSteps {
		steps = minSplineSteps
	}
	pts := make([]geom.Point, steps+1)
	scratch := make([]geom.Point, len(ctrl))
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		copy(scratch, ctrl)
		for m := len(scratch) - 1; m > 0; m-- {
			for j := 0; j < m; j++ {
				scratch[j] = scratch[j].Lerp(scratch[j+1], t)
			}
		}
		pts[i] = scratch[0]
	}
	return pts
}
