package toolpath

import (
	"errors"
	"image"
	"math"
	"testing"

	"github.com/yukikaze0413/Nexcut-whiteboard-sub000/geom"
	"github.com/yukikaze0413/Nexcut-whiteboard-sub000/hpglimport"
	"github.com/yukikaze0413/Nexcut-whiteboard-sub000/scene"
)

func engraveSettings() EngraveSettings {
	return EngraveSettings{
		FeedRate:    480,
		TravelSpeed: 3000,
		Power:       160,
		Passes:      1,
	}
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestEngraveTracesDrawing(t *testing.T) {
	pts := []geom.Point{{X: -5, Y: -5}, {X: 5, Y: -5}, {X: 5, Y: 5}}
	d := scene.NewDrawing(geom.Pt(5, 5), pts)

	ins, err := EmitEngrave([]scene.CanvasItem{d}, engraveSettings())
	if err != nil {
		t.Fatalf("EmitEngrave: %v", err)
	}
	want := []Instruction{
		{X: 0, Y: 0, Feed: 3000},
		{X: 10, Y: 0, Power: 160, Feed: 480},
		{X: 10, Y: 10, Power: 160, Feed: 480},
	}
	if len(ins) != len(want) {
		t.Fatalf("emitted %v, want %v", ins, want)
	}
	for i := range want {
		if ins[i] != want[i] {
			t.Errorf("instruction %d = %+v, want %+v", i, ins[i], want[i])
		}
	}
}

func TestEngraveFlipYAfterPlotterImport(t *testing.T) {
	rec, _, err := hpglimport.Import("PU0,0;PD10,0,10,10;PU;")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	item := scene.ItemFromRecord(rec)
	if item == nil {
		t.Fatal("no item from record")
	}

	s := engraveSettings()
	s.FlipY = true
	s.CanvasHeight = 20
	ins, err := EmitEngrave([]scene.CanvasItem{item}, s)
	if err != nil {
		t.Fatalf("EmitEngrave: %v", err)
	}
	want := []geom.Point{{X: 0, Y: 20}, {X: 10, Y: 20}, {X: 10, Y: 10}}
	if len(ins) != len(want) {
		t.Fatalf("emitted %v, want %d motions", ins, len(want))
	}
	for i, w := range want {
		if !near(ins[i].X, w.X) || !near(ins[i].Y, w.Y) {
			t.Errorf("motion %d at (%g, %g), want (%g, %g)", i, ins[i].X, ins[i].Y, w.X, w.Y)
		}
	}
	if !ins[0].Rapid() {
		t.Error("path does not open with a rapid")
	}
	if ins[1].Rapid() || ins[2].Rapid() {
		t.Error("path points after the first are not cuts")
	}
}

func TestEngraveRepeatsPasses(t *testing.T) {
	d := scene.NewDrawing(geom.Pt(0, 0), []geom.Point{{X: 0, Y: 0}, {X: 5, Y: 0}})
	s := engraveSettings()
	s.Passes = 3

	ins, err := EmitEngrave([]scene.CanvasItem{d}, s)
	if err != nil {
		t.Fatalf("EmitEngrave: %v", err)
	}
	if len(ins) != 6 {
		t.Fatalf("emitted %d motions, want a rapid and a cut per pass", len(ins))
	}
	for i := 0; i < 6; i += 2 {
		if !ins[i].Rapid() || ins[i+1].Rapid() {
			t.Errorf("pass starting at %d is not rapid then cut", i)
		}
	}
}

func TestEngraveComposesGroupTransform(t *testing.T) {
	child := scene.NewDrawing(geom.Point{}, []geom.Point{{X: 0, Y: 0}, {X: 5, Y: 0}})
	group := &scene.GroupObject{Children: []scene.CanvasItem{child}}
	group.X = 10

	ins, err := EmitEngrave([]scene.CanvasItem{group}, engraveSettings())
	if err != nil {
		t.Fatalf("EmitEngrave: %v", err)
	}
	if len(ins) != 2 {
		t.Fatalf("emitted %v", ins)
	}
	if ins[0].X != 10 || ins[1].X != 15 {
		t.Errorf("group translation lost: %v", ins)
	}
}

func TestEngraveRotatesAboutItemOrigin(t *testing.T) {
	d := scene.NewDrawing(geom.Pt(10, 0), []geom.Point{{X: 0, Y: 0}, {X: 5, Y: 0}})
	d.Rotation = 90

	ins, err := EmitEngrave([]scene.CanvasItem{d}, engraveSettings())
	if err != nil {
		t.Fatalf("EmitEngrave: %v", err)
	}
	if len(ins) != 2 {
		t.Fatalf("emitted %v", ins)
	}
	if !near(ins[1].X, 10) || !near(ins[1].Y, 5) {
		t.Errorf("rotated endpoint at (%g, %g), want (10, 5)", ins[1].X, ins[1].Y)
	}
}

func TestEngraveExpandsParts(t *testing.T) {
	p := scene.NewPart(scene.PartRect, map[string]float64{"width": 10, "height": 6})
	p.X, p.Y = 20, 20

	ins, err := EmitEngrave([]scene.CanvasItem{p}, engraveSettings())
	if err != nil {
		t.Fatalf("EmitEngrave: %v", err)
	}
	if len(ins) < 5 {
		t.Fatalf("rectangle lowered to %d motions", len(ins))
	}
	for _, in := range ins[1:] {
		if in.Rapid() {
			t.Fatalf("rectangle outline interrupted by a rapid: %v", ins)
		}
		if in.X < 15-1e-9 || in.X > 25+1e-9 || in.Y < 17-1e-9 || in.Y > 23+1e-9 {
			t.Errorf("outline point (%g, %g) outside the part extent", in.X, in.Y)
		}
	}
}

func TestEngraveSkipsBitmapContent(t *testing.T) {
	text := scene.NewText("hello", 8)
	img := scene.NewImage(image.NewGray(image.Rect(0, 0, 2, 2)), 2, 2)
	d := scene.NewDrawing(geom.Point{}, []geom.Point{{X: 0, Y: 0}, {X: 5, Y: 0}})

	ins, err := EmitEngrave([]scene.CanvasItem{text, img, d}, engraveSettings())
	if err != nil {
		t.Fatalf("EmitEngrave: %v", err)
	}
	if len(ins) != 2 {
		t.Errorf("bitmap items leaked into the vector stream: %v", ins)
	}
}

func TestEngraveEmptyLayer(t *testing.T) {
	if _, err := EmitEngrave(nil, engraveSettings()); !errors.Is(err, ErrEmptyLayer) {
		t.Errorf("no items: err = %v, want ErrEmptyLayer", err)
	}
	text := scene.NewText("hello", 8)
	if _, err := EmitEngrave([]scene.CanvasItem{text}, engraveSettings()); !errors.Is(err, ErrEmptyLayer) {
		t.Errorf("only bitmap items: err = %v, want ErrEmptyLayer", err)
	}
}

func TestEmitLayerRoutesByMethod(t *testing.T) {
	sc := &scene.Scene{}
	d := scene.NewDrawing(geom.Pt(5, 5), []geom.Point{{X: -2, Y: 0}, {X: 2, Y: 0}})
	engraveLayer := sc.AddItem(d)
	if engraveLayer.Method != scene.Engrave {
		t.Fatalf("drawing routed to %v", engraveLayer.Method)
	}

	img := image.NewGray(image.Rect(0, 0, 4, 4)) // black
	im := scene.NewImage(img, 4, 4)
	im.X, im.Y = 5, 5
	scanLayer := sc.AddItem(im)
	if scanLayer.Method != scene.Scan {
		t.Fatalf("image routed to %v", scanLayer.Method)
	}

	engraveIns, err := EmitLayer(sc, engraveLayer, 10, 10, false)
	if err != nil {
		t.Fatalf("engrave EmitLayer: %v", err)
	}
	if len(engraveIns) != 2 {
		t.Errorf("engrave layer lowered to %v", engraveIns)
	}

	scanIns, err := EmitLayer(sc, scanLayer, 10, 10, false)
	if err != nil {
		t.Fatalf("scan EmitLayer: %v", err)
	}
	if len(cuts(scanIns)) == 0 {
		t.Error("scan layer produced no cutting moves")
	}
}
