package geom

import "math"

// This file implements the distance queries behind the eraser tool.

// maxBisection bounds the boundary search on a segment.
const maxBisection = 20

// CrossingTol is the allowed |distance-radius| error of a point
// reported by CircleSegmentIntersection.
const CrossingTol = 1e-4

// ClosestOnSegment returns the point of the closed segment [a, b]
// nearest to p. A zero-length segment degenerates to a.
func ClosestOnSegment(p, a, b Point) Point {
	ab := b.Sub(a)
	den := ab.Dot(ab)
	if den == 0 {
		return a
	}
	t := p.Sub(a).Dot(ab) / den
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return a.Add(ab.Mul(t))
}

// PointSegmentDistance returns the distance from p to the closed
// segment [a, b].
func PointSegmentDistance(p, a, b Point) float64 {
	return p.Distance(ClosestOnSegment(p, a, b))
}

// CircleSegmentIntersection locates a point of segment [a, b] lying on
// the circle of center c and radius r, by bisecting the segment
// parameter. The segment must straddle the circle boundary: when both
// endpoints sit on the same side, ok is false. The returned point is
// within CrossingTol of the boundary after at most maxBisection
// halvings.
func CircleSegmentIntersection(c Point, r float64, a, b Point) (pt Point, ok bool) {
	fa := a.Distance(c) - r
	fb := b.Distance(c) - r
	if fa*fb > 0 {
		return Point{}, false
	}
	lo, hi := 0.0, 1.0
	mid := a
	for i := 0; i < maxBisection; i++ {
		t := (lo + hi) / 2
		mid = a.Lerp(b, t)
		fm := mid.Distance(c) - r
		if math.Abs(fm) < CrossingTol {
			break
		}
		if fa*fm < 0 {
			hi = t
		} else {
			lo = t
			fa = fm
		}
	}
	return mid, true
}
