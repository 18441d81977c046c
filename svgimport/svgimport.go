// Provides parsing of vector markup (SVG) into the canonical shape
// records of the scene package. Only the geometric subset matters
// here: shapes flatten to polylines, path elements import when they
// are filled, and structural elements (definitions, clips, masks,
// symbols) are skipped with an observable note.
package svgimport

import (
	"encoding/xml"
	"errors"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/yukikaze0413/Nexcut-whiteboard-sub000/geom"
	"github.com/yukikaze0413/Nexcut-whiteboard-sub000/scene"
)

// style is the inherited state of an element: whether it paints its
// interior, and the transform composed from all enclosing elements.
type style struct {
	fill      bool
	transform geom.Matrix2D
}

// defaultStyle fills with no transform; markup paints black interiors
// unless fill="none" turns them off.
var defaultStyle = style{fill: true, transform: geom.Identity}

// cursor is used while parsing markup files.
type cursor struct {
	pathScanner

	out        [][]geom.Point // finished contours, document coordinates
	styleStack []style
	skipDepth  int
	skipped    []scene.Skipped

	viewBox       geom.Rect
	width, height float64
}

var errParamMismatch = errors.New("parameter mismatch")

// skipElements lists the structural elements whose subtree carries no
// directly drawable geometry.
var skipElements = map[string]bool{
	"defs":     true,
	"clipPath": true,
	"mask":     true,
	"marker":   true,
	"symbol":   true,
	"use":      true,
	"style":    true,
	"title":    true,
	"desc":     true,
	"metadata": true,
}

// Import reads vector markup from the named file.
func Import(path string) (scene.ShapeRecord, []scene.Skipped, error) {
	fin, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer fin.Close()
	return ImportStream(fin)
}

// ImportStream parses vector markup into one canonical shape record:
// a bare polyline for a single shape, a group for several. The
// returned notes list every recognized element that was skipped.
// Malformed markup reports a ParseError; markup with no usable shapes
// reports ErrNoContent.
func ImportStream(stream io.Reader) (scene.ShapeRecord, []scene.Skipped, error) {
	c := &cursor{styleStack: []style{defaultStyle}}
	decoder := xml.NewDecoder(stream)
	decoder.CharsetReader = charset.NewReaderLabel
	seenTag := false
	for {
		t, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				if !seenTag {
					return nil, c.skipped, &scene.ParseError{Format: "svg", Err: errors.New("no markup found")}
				}
				break
			}
			return nil, c.skipped, &scene.ParseError{Format: "svg", Err: err}
		}
		switch se := t.(type) {
		case xml.StartElement:
			seenTag = true
			if c.skipDepth > 0 || skipElements[se.Name.Local] {
				if c.skipDepth == 0 {
					c.skipped = append(c.skipped, scene.Skipped{Kind: se.Name.Local, Reason: "structural element"})
				}
				c.skipDepth++
				// Keep the stack symmetric without parsing attributes.
				c.styleStack = append(c.styleStack, c.styleStack[len(c.styleStack)-1])
				continue
			}
			// Reads all recognized style attributes from the start
			// element and places them on top of the style stack.
			if err = c.pushStyle(se.Attr); err != nil {
				return nil, c.skipped, &scene.ParseError{Format: "svg", Err: err}
			}
			if err = c.readStartElement(se); err != nil {
				return nil, c.skipped, &scene.ParseError{Format: "svg", Err: err}
			}
		case xml.EndElement:
			if c.skipDepth > 0 {
				c.skipDepth--
			}
			c.styleStack = c.styleStack[:len(c.styleStack)-1]
		}
	}

	c.applyDocumentScale()
	rec, err := scene.NormalizeRecord(c.out)
	return rec, c.skipped, err
}

// top returns the current style.
func (c *cursor) top() style { return c.styleStack[len(c.styleStack)-1] }

// emit transforms a finished contour by the current style and stores
// it. Contours of fewer than two points are dropped.
func (c *cursor) emit(pts []geom.Point) {
	if len(pts) < 2 {
		return
	}
	m := c.top().transform
	out := make([]geom.Point, len(pts))
	for i, p := range pts {
		out[i] = m.Apply(p)
	}
	c.out = append(c.out, out)
}

// applyDocumentScale maps view box coordinates to the declared
// physical size. Without both a view box and declared extents the
// coordinates pass through unchanged.
func (c *cursor) applyDocumentScale() {
	sx, sy := 1.0, 1.0
	if c.viewBox.W() > 0 && c.width > 0 {
		sx = c.width / c.viewBox.W()
	}
	if c.viewBox.H() > 0 && c.height > 0 {
		sy = c.height / c.viewBox.H()
	}
	if sx == 1 && sy == 1 && c.viewBox.MinX == 0 && c.viewBox.MinY == 0 {
		return
	}
	for _, pts := range c.out {
		for i, p := range pts {
			pts[i] = geom.Point{
				X: (p.X - c.viewBox.MinX) * sx,
				Y: (p.Y - c.viewBox.MinY) * sy,
			}
		}
	}
}

func (c *cursor) readStartElement(se xml.StartElement) error {
	df, ok := drawFuncs[se.Name.Local]
	if !ok {
		c.skipped = append(c.skipped, scene.Skipped{Kind: se.Name.Local, Reason: "unsupported element"})
		return nil
	}
	return df(c, se.Attr)
}

// pushStyle parses the style-bearing attributes of an element and
// pushes the result on the style stack. Both a style attribute and
// direct fill or transform attributes are read.
func (c *cursor) pushStyle(attrs []xml.Attr) error {
	var pairs []string
	for _, attr := range attrs {
		switch strings.ToLower(attr.Name.Local) {
		case "style":
			pairs = append(pairs, strings.Split(attr.Value, ";")...)
		default:
			pairs = append(pairs, attr.Name.Local+":"+attr.Value)
		}
	}
	// Make a copy of the top style.
	curStyle := c.top()
	for _, pair := range pairs {
		kv := strings.SplitN(pair, ":", 2)
		if len(kv) == 2 {
			k := strings.TrimSpace(strings.ToLower(kv[0]))
			v := strings.TrimSpace(kv[1])
			if err := c.readStyleAttr(&curStyle, k, v); err != nil {
				return err
			}
		}
	}
	c.styleStack = append(c.styleStack, curStyle)
	return nil
}

func (c *cursor) readStyleAttr(curStyle *style, k, v string) error {
	switch k {
	case "fill":
		curStyle.fill = v != "none"
	case "transform":
		m, err := c.parseTransform(v)
		if err != nil {
			return err
		}
		curStyle.transform = m
	}
	return nil
}

// parseTransform composes a transform attribute onto the inherited
// matrix. The value is a sequence of name(arguments) chunks.
func (c *cursor) parseTransform(v string) (geom.Matrix2D, error) {
	ts := strings.Split(v, ")")
	m1 := c.top().transform
	for _, t := range ts {
		t = strings.TrimSpace(t)
		if len(t) == 0 {
			continue
		}
		d := strings.Split(t, "(")
		if len(d) != 2 || len(d[1]) < 1 {
			return m1, errParamMismatch // badly formed transformation
		}
		if err := c.getPoints(d[1]); err != nil {
			return m1, err
		}
		var err error
		m1, err = c.readTransformAttr(m1, strings.ToLower(strings.TrimSpace(d[0])))
		if err != nil {
			return m1, err
		}
	}
	return m1, nil
}

func (c *cursor) readTransformAttr(m1 geom.Matrix2D, k string) (geom.Matrix2D, error) {
	ln := len(c.points)
	switch k {
	case "rotate":
		if ln == 1 {
			m1 = m1.Rotate(c.points[0] * math.Pi / 180)
		} else if ln == 3 {
			m1 = m1.Translate(c.points[1], c.points[2]).
				Rotate(c.points[0] * math.Pi / 180).
				Translate(-c.points[1], -c.points[2])
		} else {
			return m1, errParamMismatch
		}
	case "translate":
		if ln == 1 {
			m1 = m1.Translate(c.points[0], 0)
		} else if ln == 2 {
			m1 = m1.Translate(c.points[0], c.points[1])
		} else {
			return m1, errParamMismatch
		}
	case "skewx":
		if ln == 1 {
			m1 = m1.SkewX(c.points[0] * math.Pi / 180)
		} else {
			return m1, errParamMismatch
		}
	case "skewy":
		if ln == 1 {
			m1 = m1.SkewY(c.points[0] * math.Pi / 180)
		} else {
			return m1, errParamMismatch
		}
	case "scale":
		if ln == 1 {
			m1 = m1.Scale(c.points[0], c.points[0])
		} else if ln == 2 {
			m1 = m1.Scale(c.points[0], c.points[1])
		} else {
			return m1, errParamMismatch
		}
	case "matrix":
		if ln == 6 {
			m1 = m1.Mult(geom.Matrix2D{
				A: c.points[0],
				B: c.points[1],
				C: c.points[2],
				D: c.points[3],
				E: c.points[4],
				F: c.points[5]})
		} else {
			return m1, errParamMismatch
		}
	default:
		return m1, errParamMismatch
	}
	return m1, nil
}

// splitOnCommaOrSpace returns a list of strings after splitting the
// input on comma and whitespace delimiters.
func splitOnCommaOrSpace(s string) []string {
	return strings.FieldsFunc(s,
		func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
		})
}

// parseFloat reads a float attribute value, tolerating the common
// unit suffixes.
func parseFloat(v string, bitSize int) (float64, error) {
	v = strings.TrimSpace(v)
	for _, suffix := range [...]string{"px", "mm", "pt"} {
		v = strings.TrimSuffix(v, suffix)
	}
	return strconv.ParseFloat(v, bitSize)
}
