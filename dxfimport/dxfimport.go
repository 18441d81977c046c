// Package dxfimport reads CAD interchange drawings into shape records.
//
// Entities of kind LINE, POLYLINE, LWPOLYLINE, CIRCLE, ARC and SPLINE
// become flattened polylines; anything else lands in the skip list and
// the rest of the document still imports.
package dxfimport

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/rpaloschi/dxf-go/document"
	"github.com/rpaloschi/dxf-go/entities"

	"github.com/yukikaze0413/Nexcut-whiteboard-sub000/curve"
	"github.com/yukikaze0413/Nexcut-whiteboard-sub000/geom"
	"github.com/yukikaze0413/Nexcut-whiteboard-sub000/scene"
)

// Import reads a CAD interchange file from the named path.
func Import(path string) (scene.ShapeRecord, []scene.Skipped, error) {
	fin, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer fin.Close()
	return ImportStream(fin)
}

// ImportStream parses a CAD interchange document into one canonical
// shape record, a bare polyline for a single entity or a group for
// several. A document parse failure reports a ParseError; a document
// with nothing drawable reports ErrNoContent.
func ImportStream(stream io.Reader) (scene.ShapeRecord, []scene.Skipped, error) {
	doc, err := document.DxfDocumentFromStream(stream)
	if err != nil {
		return nil, nil, &scene.ParseError{Format: "dxf", Err: err}
	}

	var polys [][]geom.Point
	var skipped []scene.Skipped
	for _, entity := range doc.Entities.Entities {
		switch e := entity.(type) {
		case *entities.Line:
			polys = append(polys, []geom.Point{
				{X: e.Start.X, Y: e.Start.Y},
				{X: e.End.X, Y: e.End.Y},
			})
		case *entities.Polyline:
			pts := make([]geom.Point, 0, len(e.Vertices))
			for _, v := range e.Vertices {
				pts = append(pts, geom.Point{X: v.Location.X, Y: v.Location.Y})
			}
			polys = append(polys, closeRing(pts, e.Closed))
		case *entities.LWPolyline:
			polys = append(polys, lwPoints(e))
		case *entities.Circle:
			polys = append(polys, curve.Circle(geom.Point{X: e.Center.X, Y: e.Center.Y}, e.Radius))
		case *entities.Arc:
			polys = append(polys, arcPoints(e))
		case *entities.Spline:
			polys = append(polys, splinePoints(e))
		default:
			kind := strings.TrimPrefix(fmt.Sprintf("%T", entity), "*entities.")
			skipped = append(skipped, scene.Skipped{Kind: kind, Reason: "unsupported entity"})
		}
	}

	rec, err := scene.NormalizeRecord(polys)
	return rec, skipped, err
}

// arcPoints samples a circular arc entity. Angles arrive in degrees
// running counterclockwise; an end angle behind the start angle means
// the arc wraps through zero.
func arcPoints(e *entities.Arc) []geom.Point {
	start := e.StartAngle * math.Pi / 180
	sweep := (e.EndAngle - e.StartAngle) * math.Pi / 180
	if sweep <= 0 {
		sweep += 2 * math.Pi
	}
	return curve.Arc(geom.Point{X: e.Center.X, Y: e.Center.Y}, e.Radius, start, sweep)
}

// splinePoints flattens a spline entity over its control polygon.
func splinePoints(e *entities.Spline) []geom.Point {
	ctrl := make([]geom.Point, 0, len(e.ControlPoints))
	for _, p := range e.ControlPoints {
		ctrl = append(ctrl, geom.Point{X: p.X, Y: p.Y})
	}
	return closeRing(curve.Spline(ctrl), e.Closed)
}

// lwPoints walks a lightweight polyline, expanding bulge values into
// arc samples between the vertices that carry them.
func lwPoints(e *entities.LWPolyline) []geom.Point {
	n := len(e.Points)
	if n == 0 {
		return nil
	}
	pts := []geom.Point{{X: e.Points[0].Point.X, Y: e.Points[0].Point.Y}}
	segs := n - 1
	if e.Closed {
		segs = n
	}
	for i := 0; i < segs; i++ {
		a := e.Points[i]
		b := e.Points[(i+1)%n]
		from := geom.Point{X: a.Point.X, Y: a.Point.Y}
		to := geom.Point{X: b.Point.X, Y: b.Point.Y}
		if arc := bulgeArc(from, to, a.Bulge); len(arc) > 1 {
			arc[len(arc)-1] = to
			pts = append(pts, arc[1:]...)
		} else {
			pts = append(pts, to)
		}
	}
	return pts
}

// bulgeArc samples the arc a bulge value encodes between two vertices.
// The bulge is the tangent of a quarter of the included angle, made
// negative when the arc runs clockwise from one vertex to the next.
func bulgeArc(from, to geom.Point, bulge float64) []geom.Point {
	theta := 4 * math.Atan(bulge)
	chord := from.Distance(to)
	if chord == 0 || theta == 0 {
		return nil
	}
	r := chord / (2 * math.Sin(theta/2))
	chordAngle := math.Atan2(to.Y-from.Y, to.X-from.X)
	offset := chordAngle + (math.Pi-theta)/2
	center := geom.Point{X: from.X + r*math.Cos(offset), Y: from.Y + r*math.Sin(offset)}
	start := math.Atan2(from.Y-center.Y, from.X-center.X)
	return curve.Arc(center, math.Abs(r), start, theta)
}

// closeRing appends the first point of a closed outline so consumers
// see an explicit ring.
func closeRing(pts []geom.Point, closed bool) []geom.Point {
	if closed && len(pts) >= 3 && pts[len(pts)-1] != pts[0] {
		pts = append(pts, pts[0])
	}
	return pts
}
