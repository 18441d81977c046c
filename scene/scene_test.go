package scene

import (
	"errors"
	"image"
	"math"
	"testing"

	"github.com/yukikaze0413/Nexcut-whiteboard-sub000/geom"
)

func TestMethodForIsTotal(t *testing.T) {
	tests := []struct {
		name string
		item CanvasItem
		want PrintMethod
	}{
		{"part", NewPart(PartCircle, nil), Engrave},
		{"drawing", NewDrawing(geom.Point{}, []geom.Point{{X: 0}, {X: 1}}), Engrave},
		{"group", &GroupObject{ItemCore: newCore()}, Engrave},
		{"image", NewImage(image.NewGray(image.Rect(0, 0, 1, 1)), 10, 10), Scan},
		{"text", NewText("hi", 8), Scan},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MethodFor(tt.item); got != tt.want {
				t.Errorf("MethodFor = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAddItemRoutesAndCreatesLayers(t *testing.T) {
	var s Scene
	d := NewDrawing(geom.Point{}, []geom.Point{{X: 0}, {X: 5}})
	l1 := s.AddItem(d)
	if l1 == nil || l1.Method != Engrave {
		t.Fatalf("drawing routed to %+v", l1)
	}
	if d.Core().Layer != l1.ID {
		t.Fatal("item does not reference its layer")
	}

	img := NewImage(image.NewGray(image.Rect(0, 0, 2, 2)), 10, 10)
	l2 := s.AddItem(img)
	if l2.Method != Scan {
		t.Fatalf("image routed to %v layer", l2.Method)
	}
	if l1.ID == l2.ID {
		t.Fatal("scan and engrave content share a layer")
	}
	if len(s.Layers) != 2 {
		t.Fatalf("layer count = %d", len(s.Layers))
	}

	// A second drawing reuses the existing engrave layer.
	s.AddItem(NewDrawing(geom.Point{}, []geom.Point{{X: 0}, {X: 1}}))
	if len(s.Layers) != 2 {
		t.Fatalf("layer count after reuse = %d", len(s.Layers))
	}
}

func TestAddItemToRejectsBitmapOnEngrave(t *testing.T) {
	var s Scene
	engrave := NewLayer("cut", Engrave)
	scan := NewLayer("raster", Scan)
	s.Layers = append(s.Layers, engrave, scan)

	img := NewImage(image.NewGray(image.Rect(0, 0, 1, 1)), 5, 5)
	if err := s.AddItemTo(img, engrave.ID); !errors.Is(err, ErrMethodMismatch) {
		t.Fatalf("image on engrave layer: err = %v", err)
	}
	if err := s.AddItemTo(img, scan.ID); err != nil {
		t.Fatalf("image on scan layer: err = %v", err)
	}

	// Vector content may join a scan layer.
	d := NewDrawing(geom.Point{}, []geom.Point{{X: 0}, {X: 1}})
	if err := s.AddItemTo(d, scan.ID); err != nil {
		t.Fatalf("drawing on scan layer: err = %v", err)
	}

	if err := s.AddItemTo(d, "missing"); !errors.Is(err, ErrNoSuchLayer) {
		t.Fatalf("unknown layer: err = %v", err)
	}
}

func TestRemoveLayerDeletesItems(t *testing.T) {
	var s Scene
	d := NewDrawing(geom.Point{}, []geom.Point{{X: 0}, {X: 1}})
	l := s.AddItem(d)
	s.AddItem(NewImage(image.NewGray(image.Rect(0, 0, 1, 1)), 5, 5))

	if !s.RemoveLayer(l.ID) {
		t.Fatal("layer not removed")
	}
	if s.ItemByID(d.ID) != nil {
		t.Fatal("item survived its layer")
	}
	if len(s.Items) != 1 {
		t.Fatalf("item count = %d", len(s.Items))
	}
}

func TestReplaceItemKeepsLayerAndPosition(t *testing.T) {
	var s Scene
	a := NewDrawing(geom.Point{}, []geom.Point{{X: 0}, {X: 1}})
	b := NewDrawing(geom.Point{}, []geom.Point{{X: 2}, {X: 3}})
	s.AddItem(a)
	s.AddItem(b)
	layer := a.Core().Layer

	r1 := NewDrawing(geom.Point{}, []geom.Point{{X: 5}, {X: 6}})
	r2 := NewDrawing(geom.Point{}, []geom.Point{{X: 7}, {X: 8}})
	if !s.ReplaceItem(a.ID, r1, r2) {
		t.Fatal("item not found")
	}
	if len(s.Items) != 3 {
		t.Fatalf("item count = %d", len(s.Items))
	}
	if s.Items[0] != CanvasItem(r1) || s.Items[1] != CanvasItem(r2) || s.Items[2] != CanvasItem(b) {
		t.Fatal("replacement order wrong")
	}
	if r1.Core().Layer != layer || r2.Core().Layer != layer {
		t.Fatal("replacements did not inherit the layer")
	}

	if s.ReplaceItem("missing") {
		t.Fatal("replaced a missing item")
	}
}

func TestSceneCloneIsDeep(t *testing.T) {
	var s Scene
	d := NewDrawing(geom.Pt(1, 2), []geom.Point{{X: 0}, {X: 1}})
	s.AddItem(d)

	c := s.Clone()
	c.Items[0].(*Drawing).Points[0].X = 99
	c.Layers[0].Power = 1

	if s.Items[0].(*Drawing).Points[0].X == 99 {
		t.Fatal("clone shares drawing points")
	}
	if s.Layers[0].Power == 1 {
		t.Fatal("clone shares layers")
	}
}

func TestOutlinesComposesGroupTransforms(t *testing.T) {
	child := NewDrawing(geom.Pt(10, 0), []geom.Point{{X: -1, Y: 0}, {X: 1, Y: 0}})
	g := &GroupObject{ItemCore: newCore(), Children: []CanvasItem{child}}
	g.X, g.Y = 100, 50
	g.Rotation = 90

	got := Outlines(g)
	if len(got) != 1 || len(got[0]) != 2 {
		t.Fatalf("outline shape %v", got)
	}
	// The child origin (10,0) rotates onto (0,10) relative to the
	// group, so its segment runs vertically through (100, 60).
	want0 := geom.Pt(100, 59)
	want1 := geom.Pt(100, 61)
	if got[0][0].Distance(want0) > 1e-9 || got[0][1].Distance(want1) > 1e-9 {
		t.Fatalf("outline = %v, want %v..%v", got[0], want0, want1)
	}
}

func TestItemBoundsForImage(t *testing.T) {
	img := NewImage(image.NewGray(image.Rect(0, 0, 4, 4)), 20, 10)
	img.X, img.Y = 50, 50
	r, ok := ItemBounds(img)
	if !ok {
		t.Fatal("no bounds")
	}
	want := geom.Rect{MinX: 40, MinY: 45, MaxX: 60, MaxY: 55}
	if math.Abs(r.MinX-want.MinX) > 1e-9 || math.Abs(r.MaxY-want.MaxY) > 1e-9 {
		t.Fatalf("bounds = %+v, want %+v", r, want)
	}

	img.Rotation = 90
	r, _ = ItemBounds(img)
	if math.Abs(r.W()-10) > 1e-9 || math.Abs(r.H()-20) > 1e-9 {
		t.Fatalf("rotated bounds = %+v", r)
	}
}
