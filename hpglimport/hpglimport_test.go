package hpglimport

import (
	"errors"
	"math"
	"testing"

	"github.com/yukikaze0413/Nexcut-whiteboard-sub000/geom"
	"github.com/yukikaze0413/Nexcut-whiteboard-sub000/scene"
)

const eps = 1e-9

func wantPolyline(t *testing.T, rec scene.ShapeRecord) scene.PolylineRecord {
	t.Helper()
	p, ok := rec.(scene.PolylineRecord)
	if !ok {
		t.Fatalf("record is %T, want PolylineRecord", rec)
	}
	return p
}

func wantPoints(t *testing.T, got, want []geom.Point) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d points %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if math.Abs(got[i].X-want[i].X) > eps || math.Abs(got[i].Y-want[i].Y) > eps {
			t.Fatalf("point %d is %v, want %v", i, got[i], want[i])
		}
	}
}

func TestImportPenDownRun(t *testing.T) {
	rec, skipped, err := Import("PU0,0;PD10,0,10,10;PU;")
	if err != nil {
		t.Fatal(err)
	}
	if len(skipped) != 0 {
		t.Fatalf("unexpected skips: %v", skipped)
	}
	p := wantPolyline(t, rec)
	wantPoints(t, p.Points, []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}})
}

func TestImportPenUpSplitsRuns(t *testing.T) {
	rec, _, err := Import("PU0,0;PD10,0;PU20,0;PD30,0;PU;")
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
	first := wantPolyline(t, g.Children[0])
	wantPoints(t, first.Points, []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}})
	second := wantPolyline(t, g.Children[1])
	wantPoints(t, second.Points, []geom.Point{{X: 20, Y: 0}, {X: 30, Y: 0}})
}

func TestImportAbsoluteMoveFollowsPenState(t *testing.T) {
	rec, _, err := Import("PU0,0;PD;PA5,0,5,5;PU;")
	if err != nil {
		t.Fatal(err)
	}
	p := wantPolyline(t, rec)
	wantPoints(t, p.Points, []geom.Point{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 5, Y: 5}})
}

func TestImportAbsoluteMovePenUpOnlyMoves(t *testing.T) {
	rec, _, err := Import("PA5,5;PD10,5;PU;")
	if err != nil {
		t.Fatal(err)
	}
	p := wantPolyline(t, rec)
	wantPoints(t, p.Points, []geom.Point{{X: 5, Y: 5}, {X: 10, Y: 5}})
}

func TestImportShortRunDropped(t *testing.T) {
	_, _, err := Import("PU0,0;PD;PU;")
	if !errors.Is(err, scene.ErrNoContent) {
		t.Fatalf("err = %v, want ErrNoContent", err)
	}
}

func TestImportNotesUnsupportedCommands(t *testing.T) {
	rec, skipped, err := Import("IN;SP1;PU0,0;PD10,0;PU;")
	if err != nil {
		t.Fatal(err)
	}
	wantPolyline(t, rec)
	if len(skipped) != 2 || skipped[0].Kind != "IN" || skipped[1].Kind != "SP" {
		t.Fatalf("skipped = %v, want IN and SP notes", skipped)
	}
}

func TestImportLowercaseCommands(t *testing.T) {
	rec, _, err := Import("pu0,0;pd10,0;pu;")
	if err != nil {
		t.Fatal(err)
	}
	p := wantPolyline(t, rec)
	wantPoints(t, p.Points, []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}})
}

func TestImportUnitsScaling(t *testing.T) {
	rec, _, err := ImportUnits("PU0,0;PD40,0,40,80;PU;", 40)
	if err != nil {
		t.Fatal(err)
	}
	p := wantPolyline(t, rec)
	wantPoints(t, p.Points, []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 2}})
}

func TestImportNoCommandsIsParseError(t *testing.T) {
	var parseErr *scene.ParseError
	for _, text := range []string{"", "zzz", "plain words"} {
		_, _, err := Import(text)
		if !errors.As(err, &parseErr) {
			t.Fatalf("text %q: err = %v, want ParseError", text, err)
		}
		if parseErr.Format != "hpgl" {
			t.Fatalf("format %q, want hpgl", parseErr.Format)
		}
	}
}

func TestImportBadArguments(t *testing.T) {
	var parseErr *scene.ParseError
	for _, text := range []string{"PD1,x;", "PU5;"} {
		_, _, err := Import(text)
		if !errors.As(err, &parseErr) {
			t.Fatalf("text %q: err = %v, want ParseError", text, err)
		}
	}
}
