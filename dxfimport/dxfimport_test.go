package dxfimport

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/yukikaze0413/Nexcut-whiteboard-sub000/geom"
	"github.com/yukikaze0413/Nexcut-whiteboard-sub000/scene"
)

const eps = 1e-9

// dxfDoc wraps entity fragments in a minimal ENTITIES section.
func dxfDoc(frags ...string) string {
	var b strings.Builder
	b.WriteString("0\nSECTION\n2\nENTITIES\n")
	for _, f := range frags {
		b.WriteString(f)
	}
	b.WriteString("0\nENDSEC\n0\nEOF\n")
	return b.String()
}

const (
	lineFrag   = "0\nLINE\n8\n0\n10\n0.0\n20\n0.0\n11\n5.0\n21\n5.0\n"
	circleFrag = "0\nCIRCLE\n8\n0\n10\n10.0\n20\n10.0\n40\n5.0\n"
	arcFrag    = "0\nARC\n8\n0\n10\n0.0\n20\n0.0\n40\n10.0\n50\n0.0\n51\n90.0\n"
	pointFrag  = "0\nPOINT\n8\n0\n10\n1.0\n20\n2.0\n"
)

func importDoc(t *testing.T, doc string) (scene.ShapeRecord, []scene.Skipped, error) {
	t.Helper()
	return ImportStream(strings.NewReader(doc))
}

func wantPolyline(t *testing.T, rec scene.ShapeRecord) scene.PolylineRecord {
	t.Helper()
	p, ok := rec.(scene.PolylineRecord)
	if !ok {
		t.Fatalf("record is %T, want PolylineRecord", rec)
	}
	return p
}

func pointNear(t *testing.T, got, want geom.Point) {
	t.Helper()
	if math.Abs(got.X-want.X) > eps || math.Abs(got.Y-want.Y) > eps {
		t.Fatalf("point %v, want %v", got, want)
	}
}

func TestImportSingleLine(t *testing.T) {
	rec, skipped, err := importDoc(t, dxfDoc(lineFrag))
	if err != nil {
		t.Fatal(err)
	}
	if len(skipped) != 0 {
		t.Fatalf("unexpected skips: %v", skipped)
	}
	p := wantPolyline(t, rec)
	if len(p.Points) != 2 {
		t.Fatalf("got %d points, want 2", len(p.Points))
	}
	pointNear(t, p.Points[0], geom.Point{X: 0, Y: 0})
	pointNear(t, p.Points[1], geom.Point{X: 5, Y: 5})
}

func TestImportCircle(t *testing.T) {
	rec, _, err := importDoc(t, dxfDoc(circleFrag))
	if err != nil {
		t.Fatal(err)
	}
	p := wantPolyline(t, rec)
	if len(p.Points) != 65 {
		t.Fatalf("got %d points, want 65", len(p.Points))
	}
	center := geom.Point{X: 10, Y: 10}
	for _, pt := range p.Points {
		if math.Abs(pt.Distance(center)-5) > eps {
			t.Fatalf("point %v is off the circle", pt)
		}
	}
	pointNear(t, p.Points[0], p.Points[len(p.Points)-1])
}

func TestImportArc(t *testing.T) {
	rec, _, err := importDoc(t, dxfDoc(arcFrag))
	if err != nil {
		t.Fatal(err)
	}
	p := wantPolyline(t, rec)
	if len(p.Points) != 17 {
		t.Fatalf("got %d points, want 17", len(p.Points))
	}
	pointNear(t, p.Points[0], geom.Point{X: 10, Y: 0})
	pointNear(t, p.Points[len(p.Points)-1], geom.Point{X: 0, Y: 10})
}

func TestImportArcWrapsThroughZero(t *testing.T) {
	frag := "0\nARC\n8\n0\n10\n0.0\n20\n0.0\n40\n10.0\n50\n270.0\n51\n90.0\n"
	rec, _, err := importDoc(t, dxfDoc(frag))
	if err != nil {
		t.Fatal(err)
	}
	p := wantPolyline(t, rec)
	pointNear(t, p.Points[0], geom.Point{X: 0, Y: -10})
	pointNear(t, p.Points[len(p.Points)-1], geom.Point{X: 0, Y: 10})
	// The half circle crossing zero stays on the positive X side.
	for _, pt := range p.Points {
		if pt.X < -eps {
			t.Fatalf("point %v crossed to the wrong side", pt)
		}
	}
}

func TestImportClosedLWPolyline(t *testing.T) {
	frag := "0\nLWPOLYLINE\n8\n0\n90\n3\n70\n1\n" +
		"10\n0.0\n20\n0.0\n10\n10.0\n20\n0.0\n10\n10.0\n20\n10.0\n"
	rec, _, err := importDoc(t, dxfDoc(frag))
	if err != nil {
		t.Fatal(err)
	}
	p := wantPolyline(t, rec)
	want := []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 0}}
	if len(p.Points) != len(want) {
		t.Fatalf("got %d points, want %d", len(p.Points), len(want))
	}
	for i := range want {
		pointNear(t, p.Points[i], want[i])
	}
}

func TestImportLWPolylineBulge(t *testing.T) {
	// A bulge of 1 between two vertices is a half circle, swept
	// counterclockwise from the first vertex to the second.
	frag := "0\nLWPOLYLINE\n8\n0\n90\n2\n70\n0\n" +
		"10\n0.0\n20\n0.0\n42\n1.0\n10\n10.0\n20\n0.0\n"
	rec, _, err := importDoc(t, dxfDoc(frag))
	if err != nil {
		t.Fatal(err)
	}
	p := wantPolyline(t, rec)
	if len(p.Points) != 33 {
		t.Fatalf("got %d points, want 33", len(p.Points))
	}
	pointNear(t, p.Points[0], geom.Point{X: 0, Y: 0})
	pointNear(t, p.Points[16], geom.Point{X: 5, Y: -5})
	pointNear(t, p.Points[32], geom.Point{X: 10, Y: 0})
}

func TestImportSpline(t *testing.T) {
	frag := "0\nSPLINE\n8\n0\n70\n8\n71\n3\n72\n8\n73\n4\n74\n0\n" +
		"40\n0.0\n40\n0.0\n40\n0.0\n40\n0.0\n40\n1.0\n40\n1.0\n40\n1.0\n40\n1.0\n" +
		"10\n0.0\n20\n0.0\n30\n0.0\n" +
		"10\n0.0\n20\n10.0\n30\n0.0\n" +
		"10\n10.0\n20\n10.0\n30\n0.0\n" +
		"10\n10.0\n20\n0.0\n30\n0.0\n"
	rec, _, err := importDoc(t, dxfDoc(frag))
	if err != nil {
		t.Fatal(err)
	}
	p := wantPolyline(t, rec)
	if len(p.Points) != 65 {
		t.Fatalf("got %d points, want 65", len(p.Points))
	}
	pointNear(t, p.Points[0], geom.Point{X: 0, Y: 0})
	pointNear(t, p.Points[32], geom.Point{X: 5, Y: 7.5})
	pointNear(t, p.Points[64], geom.Point{X: 10, Y: 0})
}

func TestImportHeavyPolyline(t *testing.T) {
	frag := "0\nPOLYLINE\n8\n0\n66\n1\n70\n0\n" +
		"0\nVERTEX\n8\n0\n10\n0.0\n20\n0.0\n" +
		"0\nVERTEX\n8\n0\n10\n5.0\n20\n0.0\n" +
		"0\nVERTEX\n8\n0\n10\n5.0\n20\n5.0\n" +
		"0\nSEQEND\n"
	rec, _, err := importDoc(t, dxfDoc(frag))
	if err != nil {
		t.Fatal(err)
	}
	p := wantPolyline(t, rec)
	if len(p.Points) != 3 {
		t.Fatalf("got %d points, want 3", len(p.Points))
	}
	pointNear(t, p.Points[2], geom.Point{X: 5, Y: 5})
}

func TestImportSeveralEntitiesGroup(t *testing.T) {
	rec, _, err := importDoc(t, dxfDoc(lineFrag, circleFrag))
	if err != nil {
		t.Fatal(err)
	}
	g, ok := rec.(scene.GroupRecord)
	if !ok {
		t.Fatalf("record is %T, want GroupRecord", rec)
	}
	if len(g.Children) != 2 {
		t.Fatalf("group has %d children, want 2", len(g.Children))
	}
}

func TestImportSkipsUnsupportedEntities(t *testing.T) {
	rec, skipped, err := importDoc(t, dxfDoc(pointFrag, lineFrag))
	if err != nil {
		t.Fatal(err)
	}
	wantPolyline(t, rec)
	if len(skipped) != 1 || skipped[0].Kind != "Point" {
		t.Fatalf("skipped = %v, want one Point note", skipped)
	}
}

func TestImportEmptySectionIsNoContent(t *testing.T) {
	_, _, err := importDoc(t, dxfDoc())
	if !errors.Is(err, scene.ErrNoContent) {
		t.Fatalf("err = %v, want ErrNoContent", err)
	}
}

func TestImportGarbageIsParseError(t *testing.T) {
	_, _, err := importDoc(t, "definitely not cad data\nat all\n")
	var parseErr *scene.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("err = %v, want ParseError", err)
	}
	if parseErr.Format != "dxf" {
		t.Fatalf("format %q, want dxf", parseErr.Format)
	}
}

func TestBulgeArcClockwise(t *testing.T) {
	pts := bulgeArc(geom.Point{X: 0, Y: 0}, geom.Point{X: 10, Y: 0}, -1)
	if len(pts) != 33 {
		t.Fatalf("got %d points, want 33", len(pts))
	}
	pointNear(t, pts[16], geom.Point{X: 5, Y: 5})
}
