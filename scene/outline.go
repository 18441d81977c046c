package scene

import "github.com/yukikaze0413/Nexcut-whiteboard-sub000/geom"

// Outlines returns the vector contours of an item in document
// coordinates, group placements composed top-down. Text and image
// items have no vector contour and yield nothing.
func Outlines(it CanvasItem) [][]geom.Point {
	return outlinesWith(geom.Identity, it)
}

func outlinesWith(parent geom.Matrix2D, it CanvasItem) [][]geom.Point {
	m := parent.Mult(it.Core().matrix())
	switch it := it.(type) {
	case *Drawing:
		if len(it.Points) < 2 {
			return nil
		}
		out := make([]geom.Point, len(it.Points))
		for i, p := range it.Points {
			out[i] = m.Apply(p)
		}
		return [][]geom.Point{out}

	case *Part:
		var out [][]geom.Point
		for _, contour := range it.Outline() {
			pts := make([]geom.Point, len(contour))
			for i, p := range contour {
				pts[i] = m.Apply(p)
			}
			out = append(out, pts)
		}
		return out

	case *GroupObject:
		var out [][]geom.Point
		for _, child := range it.Children {
			out = append(out, outlinesWith(m, child)...)
		}
		return out
	}
	return nil
}

// Walk visits every leaf of the item tree with the document transform
// composed from all enclosing placements, the leaf's own included.
// Leaf geometry in local coordinates maps to document space through
// that transform.
func Walk(it CanvasItem, visit func(m geom.Matrix2D, leaf CanvasItem)) {
	walkWith(geom.Identity, it, visit)
}

func walkWith(parent geom.Matrix2D, it CanvasItem, visit func(m geom.Matrix2D, leaf CanvasItem)) {
	m := parent.Mult(it.Core().matrix())
	if g, ok := it.(*GroupObject); ok {
		for _, child := range g.Children {
			walkWith(m, child, visit)
		}
		return
	}
	visit(m, it)
}

// ItemBounds returns the document-space bounding box of an item's
// geometry. Images and text use their placed rectangle; vector items
// use their contours. ok is false for items with no extent.
func ItemBounds(it CanvasItem) (geom.Rect, bool) {
	switch it := it.(type) {
	case *ImageObject:
		return placedRect(it.Core(), it.W, it.H), true
	case *TextObject:
		if it.Rendered == nil {
			return geom.Rect{}, false
		}
		return placedRect(it.Core(), it.RenderedW, it.RenderedH), true
	}
	var out geom.Rect
	any := false
	for _, contour := range Outlines(it) {
		r, ok := geom.BoundsOf(contour)
		if !ok {
			continue
		}
		if !any {
			out, any = r, true
		} else {
			out = out.Union(r)
		}
	}
	return out, any
}

// placedRect is the axis-aligned rectangle of a w x h surface
// centered on the item origin. Rotation of bitmap content keeps the
// axis-aligned footprint of its corners.
func placedRect(core *ItemCore, w, h float64) geom.Rect {
	m := core.matrix()
	corners := []geom.Point{
		{X: -w / 2, Y: -h / 2},
		{X: w / 2, Y: -h / 2},
		{X: w / 2, Y: h / 2},
		{X: -w / 2, Y: h / 2},
	}
	for i, c := range corners {
		corners[i] = m.Apply(c)
	}
	r, _ := geom.BoundsOf(corners)
	return r
}
