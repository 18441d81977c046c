// Package eraser implements the circular erase brush. A brush stamp
// trims every drawing it crosses against the brush circle: the parts
// of the polyline inside the circle are discarded and each surviving
// run becomes an independent, re-centered drawing in place of the
// original.
package eraser

import (
	"github.com/yukikaze0413/Nexcut-whiteboard-sub000/geom"
	"github.com/yukikaze0413/Nexcut-whiteboard-sub000/scene"
)

// SplitPolyline trims a polyline against the circle of center c and
// radius r. It returns the runs that remain outside the circle, in
// order, and whether the circle touched the polyline at all. Crossing
// points on the boundary are located by bisection, so they may sit
// within geom.CrossingTol of the exact circle. Runs shorter than two
// points are dropped.
func SplitPolyline(pts []geom.Point, c geom.Point, r float64) (runs [][]geom.Point, split bool) {
	if len(pts) == 0 || r <= 0 {
		return nil, false
	}
	inside := func(p geom.Point) bool { return p.Distance(c) < r }

	var cur []geom.Point
	flush := func() {
		if len(cur) >= 2 {
			runs = append(runs, cur)
		}
		cur = nil
	}

	if inside(pts[0]) {
		split = true
	} else {
		cur = append(cur, pts[0])
	}
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		if geom.PointSegmentDistance(c, a, b) >= r {
			cur = append(cur, b)
			continue
		}
		split = true
		ain, bin := inside(a), inside(b)
		switch {
		case ain && bin:
			// Fully erased segment. cur is already empty because a
			// was never appended.
		case ain:
			if x, ok := geom.CircleSegmentIntersection(c, r, a, b); ok {
				cur = append(cur, x)
			}
			cur = append(cur, b)
		case bin:
			if x, ok := geom.CircleSegmentIntersection(c, r, a, b); ok {
				cur = append(cur, x)
			}
			flush()
		default:
			// Both ends clear but the chord dips through the circle.
			// Split around the closest approach, which is inside.
			mid := geom.ClosestOnSegment(c, a, b)
			if x, ok := geom.CircleSegmentIntersection(c, r, a, mid); ok {
				cur = append(cur, x)
			}
			flush()
			if x, ok := geom.CircleSegmentIntersection(c, r, mid, b); ok {
				cur = append(cur, x)
			}
			cur = append(cur, b)
		}
	}
	flush()
	return runs, split
}

// Erase applies one brush stamp at center c with radius r. Every
// top-level drawing crossed by the brush is replaced, at its stack
// position and on its layer, by the surviving runs re-centered as
// independent drawings; runs with fewer than two points vanish. Other
// item kinds are left alone. It reports whether the scene changed.
func Erase(sc *scene.Scene, c geom.Point, r float64) bool {
	if r <= 0 {
		return false
	}
	changed := false
	for _, it := range append([]scene.CanvasItem(nil), sc.Items...) {
		d, ok := it.(*scene.Drawing)
		if !ok {
			continue
		}
		abs := d.AbsolutePoints()
		if bounds, ok := geom.BoundsOf(abs); ok {
			if c.X < bounds.MinX-r || c.X > bounds.MaxX+r ||
				c.Y < bounds.MinY-r || c.Y > bounds.MaxY+r {
				continue
			}
		}
		runs, split := SplitPolyline(abs, c, r)
		if !split {
			continue
		}
		repl := make([]scene.CanvasItem, 0, len(runs))
		for _, run := range runs {
			if nd := scene.ItemFromRecord(scene.PolylineRecord{Points: run}); nd != nil {
				repl = append(repl, nd)
			}
		}
		sc.ReplaceItem(d.ID, repl...)
		changed = true
	}
	return changed
}
