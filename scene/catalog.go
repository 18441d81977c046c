package scene

import (
	"math"

	"github.com/yukikaze0413/Nexcut-whiteboard-sub000/curve"
	"github.com/yukikaze0413/Nexcut-whiteboard-sub000/geom"
)

// The parametric part catalog. Every part type maps its parameter
// table to one or more closed outlines in item-local coordinates,
// centered on the item origin.

// PartType names a parametric outline from the part catalog.
type PartType string

const (
	PartLine      PartType = "line"
	PartRect      PartType = "rect"
	PartRoundRect PartType = "roundrect"
	PartCircle    PartType = "circle"
	PartEllipse   PartType = "ellipse"
	PartTriangle  PartType = "triangle"
	PartPolygon   PartType = "polygon"
	PartStar      PartType = "star"
)

// Parameter names understood by the catalog:
//
//	width, height  rect, roundrect, triangle extents
//	radius         circle, polygon, star outer radius; roundrect corner
//	rx, ry         ellipse radii
//	length         line span
//	sides          polygon vertex / star point count
//	inner          star inner radius
func (p *Part) param(name string, def float64) float64 {
	if v, ok := p.Params[name]; ok {
		return v
	}
	return def
}

// Outline returns the part contour in item-local coordinates. Unknown
// part types and degenerate parameters return nil.
func (p *Part) Outline() [][]geom.Point {
	switch p.Type {
	case PartLine:
		l := p.param("length", 20)
		if l <= 0 {
			return nil
		}
		return [][]geom.Point{{{X: -l / 2}, {X: l / 2}}}

	case PartRect:
		w, h := p.param("width", 20), p.param("height", 20)
		pts := curve.RectOutline(geom.Rect{MinX: -w / 2, MinY: -h / 2, MaxX: w / 2, MaxY: h / 2})
		return wrapOutline(pts)

	case PartRoundRect:
		w, h := p.param("width", 20), p.param("height", 20)
		r := p.param("radius", 3)
		pts := curve.RoundedRect(geom.Rect{MinX: -w / 2, MinY: -h / 2, MaxX: w / 2, MaxY: h / 2}, r, r)
		return wrapOutline(pts)

	case PartCircle:
		return wrapOutline(curve.Circle(geom.Point{}, p.param("radius", 10)))

	case PartEllipse:
		return wrapOutline(curve.Ellipse(geom.Point{}, p.param("rx", 15), p.param("ry", 10)))

	case PartTriangle:
		w, h := p.param("width", 20), p.param("height", 20)
		if w <= 0 || h <= 0 {
			return nil
		}
		return [][]geom.Point{{
			{X: 0, Y: -h / 2},
			{X: w / 2, Y: h / 2},
			{X: -w / 2, Y: h / 2},
			{X: 0, Y: -h / 2},
		}}

	case PartPolygon:
		n := int(p.param("sides", 6))
		return wrapOutline(curve.Polygon(geom.Point{}, p.param("radius", 10), n, -math.Pi/2))

	case PartStar:
		n := int(p.param("sides", 5))
		r := p.param("radius", 10)
		inner := p.param("inner", r*0.45)
		return wrapOutline(curve.Star(geom.Point{}, r, inner, n, -math.Pi/2))
	}
	return nil
}

func wrapOutline(pts []geom.Point) [][]geom.Point {
	if len(pts) < 2 {
		return nil
	}
	return [][]geom.Point{pts}
}
