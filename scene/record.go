package scene

import "github.com/yukikaze0413/Nexcut-whiteboard-sub000/geom"

// ShapeRecord is the canonical result of an import: either one
// polyline in absolute document coordinates, or a group of records.
// Importers emit records; ItemFromRecord turns them into placed
// canvas items.
type ShapeRecord interface{ isShapeRecord() }

// PolylineRecord is a single flattened contour.
type PolylineRecord struct {
	Points []geom.Point
}

// GroupRecord bundles several contours imported from one source file.
type GroupRecord struct {
	Children []ShapeRecord
}

func (PolylineRecord) isShapeRecord() {}
func (GroupRecord) isShapeRecord()    {}

// NormalizeRecord applies the import wrapping policy: no polylines is
// an ErrNoContent, a single polyline stays bare, several become one
// group.
func NormalizeRecord(polys [][]geom.Point) (ShapeRecord, error) {
	keep := polys[:0:0]
	for _, pts := range polys {
		if len(pts) >= 2 {
			keep = append(keep, pts)
		}
	}
	switch len(keep) {
	case 0:
		return nil, ErrNoContent
	case 1:
		return PolylineRecord{Points: keep[0]}, nil
	}
	recs := make([]ShapeRecord, len(keep))
	for i, pts := range keep {
		recs[i] = PolylineRecord{Points: pts}
	}
	return GroupRecord{Children: recs}, nil
}

// recordBounds accumulates the absolute bounding box of a record.
func recordBounds(rec ShapeRecord) (geom.Rect, bool) {
	switch rec := rec.(type) {
	case PolylineRecord:
		return geom.BoundsOf(rec.Points)
	case GroupRecord:
		var out geom.Rect
		any := false
		for _, child := range rec.Children {
			r, ok := recordBounds(child)
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
	return geom.Rect{}, false
}

// ItemFromRecord converts an import record to a canvas item.
// Polylines become drawings anchored at their bounding box center
// with relative points; groups become group objects whose children
// are re-expressed relative to the group center.
func ItemFromRecord(rec ShapeRecord) CanvasItem {
	return itemFromRecord(rec, geom.Point{})
}

func itemFromRecord(rec ShapeRecord, parent geom.Point) CanvasItem {
	switch rec := rec.(type) {
	case PolylineRecord:
		bounds, ok := geom.BoundsOf(rec.Points)
		if !ok {
			return nil
		}
		c := bounds.Center()
		rel := make([]geom.Point, len(rec.Points))
		for i, p := range rec.Points {
			rel[i] = p.Sub(c)
		}
		d := NewDrawing(c.Sub(parent), rel)
		return d

	case GroupRecord:
		bounds, ok := recordBounds(rec)
		if !ok {
			return nil
		}
		c := bounds.Center()
		g := &GroupObject{ItemCore: newCore()}
		g.X, g.Y = c.X-parent.X, c.Y-parent.Y
		for _, childRec := range rec.Children {
			if child := itemFromRecord(childRec, c); child != nil {
				g.Children = append(g.Children, child)
			}
		}
		if len(g.Children) == 0 {
			return nil
		}
		return g
	}
	return nil
}
