package svgimport

import (
	"encoding/xml"
	"errors"

	"github.com/yukikaze0413/Nexcut-whiteboard-sub000/curve"
	"github.com/yukikaze0413/Nexcut-whiteboard-sub000/geom"
	"github.com/yukikaze0413/Nexcut-whiteboard-sub000/scene"
)

type svgFunc func(c *cursor, attrs []xml.Attr) error

var drawFuncs = map[string]svgFunc{
	"svg":      svgF,
	"g":        gF,
	"path":     pathF,
	"rect":     rectF,
	"circle":   circleF,
	"ellipse":  circleF, // circleF handles ellipse also
	"line":     lineF,
	"polyline": polylineF,
	"polygon":  polygonF,
}

func svgF(c *cursor, attrs []xml.Attr) error {
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "viewBox":
			err = c.getPoints(attr.Value)
			if len(c.points) != 4 {
				return errParamMismatch
			}
			c.viewBox = geom.Rect{
				MinX: c.points[0],
				MinY: c.points[1],
				MaxX: c.points[0] + c.points[2],
				MaxY: c.points[1] + c.points[3],
			}
		case "width":
			c.width, err = parseFloat(attr.Value, 64)
		case "height":
			c.height, err = parseFloat(attr.Value, 64)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func gF(*cursor, []xml.Attr) error { return nil } // g does nothing but push the style

// pathF flattens a path element. Unfilled paths are construction
// geometry and do not import.
func pathF(c *cursor, attrs []xml.Attr) error {
	if !c.top().fill {
		c.skipped = append(c.skipped, scene.Skipped{Kind: "path", Reason: "not filled"})
		return nil
	}
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "d":
			if err := c.compilePath(attr.Value); err != nil {
				return err
			}
		}
	}
	for _, pts := range c.takeContours() {
		c.emit(pts)
	}
	return nil
}

func rectF(c *cursor, attrs []xml.Attr) error {
	var x, y, w, h, rx, ry float64
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "x":
			x, err = parseFloat(attr.Value, 64)
		case "y":
			y, err = parseFloat(attr.Value, 64)
		case "width":
			w, err = parseFloat(attr.Value, 64)
		case "height":
			h, err = parseFloat(attr.Value, 64)
		case "rx":
			rx, err = parseFloat(attr.Value, 64)
		case "ry":
			ry, err = parseFloat(attr.Value, 64)
		}
		if err != nil {
			return err
		}
	}
	if w == 0 || h == 0 {
		return nil
	}
	if rx > 0 && ry == 0 {
		ry = rx
	} else if ry > 0 && rx == 0 {
		rx = ry
	}
	c.emit(curve.RoundedRect(geom.Rect{MinX: x, MinY: y, MaxX: x + w, MaxY: y + h}, rx, ry))
	return nil
}

func circleF(c *cursor, attrs []xml.Attr) error {
	var cx, cy, rx, ry float64
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "cx":
			cx, err = parseFloat(attr.Value, 64)
		case "cy":
			cy, err = parseFloat(attr.Value, 64)
		case "r":
			rx, err = parseFloat(attr.Value, 64)
			ry = rx
		case "rx":
			rx, err = parseFloat(attr.Value, 64)
		case "ry":
			ry, err = parseFloat(attr.Value, 64)
		}
		if err != nil {
			return err
		}
	}
	if rx == 0 || ry == 0 { // not drawn, but not an error
		return nil
	}
	c.emit(curve.Ellipse(geom.Point{X: cx, Y: cy}, rx, ry))
	return nil
}

func lineF(c *cursor, attrs []xml.Attr) error {
	var x1, x2, y1, y2 float64
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "x1":
			x1, err = parseFloat(attr.Value, 64)
		case "x2":
			x2, err = parseFloat(attr.Value, 64)
		case "y1":
			y1, err = parseFloat(attr.Value, 64)
		case "y2":
			y2, err = parseFloat(attr.Value, 64)
		}
		if err != nil {
			return err
		}
	}
	c.emit([]geom.Point{{X: x1, Y: y1}, {X: x2, Y: y2}})
	return nil
}

func polylineF(c *cursor, attrs []xml.Attr) error {
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "points":
			err = c.getPoints(attr.Value)
			if err == nil && len(c.points)%2 != 0 {
				return errors.New("polygon has odd number of points")
			}
		}
		if err != nil {
			return err
		}
	}
	c.emit(pairPoints(c.points))
	return nil
}

func polygonF(c *cursor, attrs []xml.Attr) error {
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "points":
			err = c.getPoints(attr.Value)
			if err == nil && len(c.points)%2 != 0 {
				return errors.New("polygon has odd number of points")
			}
		}
		if err != nil {
			return err
		}
	}
	pts := pairPoints(c.points)
	if len(pts) >= 3 {
		pts = append(pts, pts[0])
	}
	c.emit(pts)
	return nil
}

// pairPoints folds a flat coordinate list into points.
func pairPoints(coords []float64) []geom.Point {
	if len(coords) < 4 {
		return nil
	}
	pts := make([]geom.Point, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		pts = append(pts, geom.Point{X: coords[i], Y: coords[i+1]})
	}
	return pts
}
