package curve

import (
	"math"

	"github.com/yukikaze0413/Nexcut-whiteboard-sub000/geom"
)

// This file builds the closed outlines used by the parametric part
// catalog. Outlines repeat their first point at the end so cutting
// them traverses a closed loop.

// Circle returns the closed outline of the circle centered at c.
func Circle(c geom.Point, r float64) []geom.Point {
	pts := Arc(c, r, 0, 2*math.Pi)
	if len(pts) == 0 {
		return nil
	}
	pts[len(pts)-1] = pts[0]
	return pts
}

// Ellipse returns the closed outline of an axis-aligned ellipse.
func Ellipse(c geom.Point, rx, ry float64) []geom.Point {
	pts := EllipseArc(c, rx, ry, 0, 0, 2*math.Pi)
	if len(pts) == 0 {
		return nil
	}
	pts[len(pts)-1] = pts[0]
	return pts
}

// RectOutline returns the closed outline of the rectangle r.
func RectOutline(r geom.Rect) []geom.Point {
	if r.W() <= 0 || r.H() <= 0 {
		return nil
	}
	return []geom.Point{
		{X: r.MinX, Y: r.MinY},
		{X: r.MaxX, Y: r.MinY},
		{X: r.MaxX, Y: r.MaxY},
		{X: r.MinX, Y: r.MaxY},
		{X: r.MinX, Y: r.MinY},
	}
}

// RoundedRect returns the closed outline of the rectangle r with
// corner radii rx, ry. Radii are clamped to half the rectangle
// extents; non-positive radii fall back to the sharp outline.
func RoundedRect(r geom.Rect, rx, ry float64) []geom.Point {
	if rx <= 0 || ry <= 0 {
		return RectOutline(r)
	}
	if r.W() <= 0 || r.H() <= 0 {
		return nil
	}
	if w := r.W(); w < rx*2 {
		rx = w / 2
	}
	if h := r.H(); h < ry*2 {
		ry = h / 2
	}
	pts := make([]geom.Point, 0, 4*fullCircleSegments/4+8)
	pts = append(pts, geom.Point{X: r.MinX + rx, Y: r.MinY})
	pts = append(pts, geom.Point{X: r.MaxX - rx, Y: r.MinY})
	pts = appendSkipFirst(pts, EllipseArc(geom.Point{X: r.MaxX - rx, Y: r.MinY + ry}, rx, ry, 0, -math.Pi/2, math.Pi/2))
	pts = append(pts, geom.Point{X: r.MaxX, Y: r.MaxY - ry})
	pts = appendSkipFirst(pts, EllipseArc(geom.Point{X: r.MaxX - rx, Y: r.MaxY - ry}, rx, ry, 0, 0, math.Pi/2))
	pts = append(pts, geom.Point{X: r.MinX + rx, Y: r.MaxY})
	pts = appendSkipFirst(pts, EllipseArc(geom.Point{X: r.MinX + rx, Y: r.MaxY - ry}, rx, ry, 0, math.Pi/2, math.Pi/2))
	pts = append(pts, geom.Point{X: r.MinX, Y: r.MinY + ry})
	// The last arc lands back on the first point; close exactly.
	if last := EllipseArc(geom.Point{X: r.MinX + rx, Y: r.MinY + ry}, rx, ry, 0, math.Pi, math.Pi/2); len(last) > 2 {
		pts = append(pts, last[1:len(last)-1]...)
	}
	pts = append(pts, pts[0])
	return pts
}

// appendSkipFirst joins an arc onto an outline under construction,
// dropping the arc's first point which duplicates the current end.
func appendSkipFirst(dst, arc []geom.Point) []geom.Point {
	if len(arc) <= 1 {
		return dst
	}
	return append(dst, arc[1:]...)
}

// Polygon returns the closed outline of a regular n-gon inscribed in
// the circle of center c and radius r, first vertex at angle rot.
func Polygon(c geom.Point, r float64, n int, rot float64) []geom.Point {
	if n < 3 || r <= 0 {
		return nil
	}
	pts := make([]geom.Point, n+1)
	for i := 0; i < n; i++ {
		a := rot + 2*math.Pi*float64(i)/float64(n)
		pts[i] = geom.Point{X: c.X + r*math.Cos(a), Y: c.Y + r*math.Sin(a)}
	}
	pts[n] = pts[0]
	return pts
}

// Star returns the closed outline of an n-pointed star alternating
// between the outer radius r and the inner radius inner.
func Star(c geom.Point, r, inner float64, n int, rot float64) []geom.Point {
	if n < 3 || r <= 0 || inner <= 0 {
		return nil
	}
	pts := make([]geom.Point, 2*n+1)
	for i := 0; i < 2*n; i++ {
		rad := r
		if i%2 == 1 {
			rad = inner
		}
		a := rot + math.Pi*float64(i)/float64(n)
		pts[i] = geom.Point{X: c.X + rad*math.Cos(a), Y: c.Y + rad*math.Sin(a)}
	}
	pts[2*n] = pts[0]
	return pts
}
