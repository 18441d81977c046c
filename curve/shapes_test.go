package curve

import (
	"math"
	"testing"

	"github.com/yukikaze0413/Nexcut-whiteboard-sub000/geom"
)

func TestCircleClosed(t *testing.T) {
	c := geom.Point{X: 1, Y: 2}
	pts := Circle(c, 4)
	if len(pts) != fullCircleSegments+1 {
		t.Fatalf("len = %d", len(pts))
	}
	if pts[0] != pts[len(pts)-1] {
		t.Fatalf("outline is not closed: %v vs %v", pts[0], pts[len(pts)-1])
	}
	for _, p := range pts {
		if !near(p.Distance(c), 4, 1e-9) {
			t.Fatalf("point %v is off the circle", p)
		}
	}
}

func TestEllipseBounds(t *testing.T) {
	pts := Ellipse(geom.Point{}, 10, 4)
	r, ok := geom.BoundsOf(pts)
	if !ok {
		t.Fatal("no bounds")
	}
	want := geom.Rect{MinX: -10, MinY: -4, MaxX: 10, MaxY: 4}
	if !near(r.MinX, want.MinX, 1e-9) || !near(r.MaxX, want.MaxX, 1e-9) ||
		!near(r.MinY, want.MinY, 1e-9) || !near(r.MaxY, want.MaxY, 1e-9) {
		t.Fatalf("bounds = %+v, want %+v", r, want)
	}
}

func TestRectOutline(t *testing.T) {
	pts := RectOutline(geom.Rect{MinX: 0, MinY: 0, MaxX: 4, MaxY: 2})
	if len(pts) != 5 {
		t.Fatalf("len = %d", len(pts))
	}
	if pts[0] != pts[4] {
		t.Fatal("outline is not closed")
	}
	if pts := RectOutline(geom.Rect{MinX: 1, MinY: 1, MaxX: 1, MaxY: 5}); pts != nil {
		t.Fatal("degenerate rectangle produced an outline")
	}
}

func TestRoundedRect(t *testing.T) {
	r := geom.Rect{MinX: 0, MinY: 0, MaxX: 20, MaxY: 10}
	pts := RoundedRect(r, 3, 3)
	if len(pts) < 10 {
		t.Fatalf("len = %d", len(pts))
	}
	if pts[0] != pts[len(pts)-1] {
		t.Fatal("outline is not closed")
	}
	b, _ := geom.BoundsOf(pts)
	if !near(b.MinX, 0, 1e-9) || !near(b.MaxX, 20, 1e-9) ||
		!near(b.MinY, 0, 1e-9) || !near(b.MaxY, 10, 1e-9) {
		t.Fatalf("bounds = %+v", b)
	}
	// The sharp corner must be cut off.
	for _, p := range pts {
		if p.X < 0.5 && p.Y < 0.5 {
			t.Fatalf("point %v survives inside the rounded corner", p)
		}
	}

	// Zero radii fall back to the plain rectangle.
	if got := RoundedRect(r, 0, 0); len(got) != 5 {
		t.Fatalf("fallback len = %d", len(got))
	}
}

func TestRoundedRectClampsRadii(t *testing.T) {
	// Radii beyond half the extent clamp instead of overlapping.
	pts := RoundedRect(geom.Rect{MinX: 0, MinY: 0, MaxX: 4, MaxY: 4}, 10, 10)
	if len(pts) == 0 {
		t.Fatal("no outline")
	}
	b, _ := geom.BoundsOf(pts)
	if b.MaxX > 4+1e-9 || b.MaxY > 4+1e-9 || b.MinX < -1e-9 || b.MinY < -1e-9 {
		t.Fatalf("outline escapes the rectangle: %+v", b)
	}
}

func TestPolygonVertices(t *testing.T) {
	pts := Polygon(geom.Point{}, 10, 6, 0)
	if len(pts) != 7 {
		t.Fatalf("len = %d", len(pts))
	}
	if pts[0] != pts[6] {
		t.Fatal("outline is not closed")
	}
	for i := 0; i < 6; i++ {
		if !near(pts[i].Hypot(), 10, 1e-9) {
			t.Fatalf("vertex %d off the circumscribed circle", i)
		}
	}
	if Polygon(geom.Point{}, 10, 2, 0) != nil {
		t.Fatal("2-gon produced an outline")
	}
}

func TestStarVertices(t *testing.T) {
	pts := Star(geom.Point{}, 10, 4, 5, -math.Pi/2)
	if len(pts) != 11 {
		t.Fatalf("len = %d", len(pts))
	}
	for i := 0; i < 10; i++ {
		want := 10.0
		if i%2 == 1 {
			want = 4
		}
		if !near(pts[i].Hypot(), want, 1e-9) {
			t.Fatalf("vertex %d at radius %g, want %g", i, pts[i].Hypot(), want)
		}
	}
}
