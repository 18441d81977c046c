package svgimport

import (
	"fmt"
	"strconv"
	"unicode"

	"github.com/yukikaze0413/Nexcut-whiteboard-sub000/curve"
	"github.com/yukikaze0413/Nexcut-whiteboard-sub000/geom"
)

// pathScanner turns SVG path data into flattened contours. Curved
// commands are sampled through the curve package, so every consumer
// downstream sees plain polylines. The points slice doubles as the
// scratch buffer for all numeric attribute lists (viewBox, polyline
// points, transform arguments).
type pathScanner struct {
	contours               [][]geom.Point
	cur                    []geom.Point
	placeX, placeY         float64
	cntlPtX, cntlPtY       float64
	pathStartX, pathStartY float64
	points                 []float64
	lastKey                uint8
}

func (c *pathScanner) init() {
	c.contours = nil
	c.cur = nil
	c.placeX, c.placeY = 0, 0
	c.pathStartX, c.pathStartY = 0, 0
	c.cntlPtX, c.cntlPtY = 0, 0
	c.lastKey = ' '
}

// readFloat reads a floating point value and adds it to the points
// slice. Numbers may be run together like ".5.5", where a second
// decimal point starts a new value.
func (c *pathScanner) readFloat(numStr string) error {
	last := 0
	isFirst := true
	for i, n := range numStr {
		if n == '.' {
			if isFirst {
				isFirst = false
				continue
			}
			f, err := strconv.ParseFloat(numStr[last:i], 64)
			if err != nil {
				return err
			}
			c.points = append(c.points, f)
			last = i
		}
	}
	f, err := strconv.ParseFloat(numStr[last:], 64)
	if err != nil {
		return err
	}
	c.points = append(c.points, f)
	return nil
}

// getPoints reads a set of floating point values from an SVG format
// number string and adds them to the points slice. Values may be
// separated by commas, whitespace, or nothing at all when a minus sign
// starts the next value, as in "10-5".
func (c *pathScanner) getPoints(dataPoints string) error {
	lastIndex := -1
	c.points = c.points[:0]
	lr := ' '
	for i, r := range dataPoints {
		if !unicode.IsNumber(r) && r != '.' && r != 'e' && r != 'E' &&
			!(r == '-' && (lr == 'e' || lr == 'E')) {
			if lastIndex != -1 {
				if err := c.readFloat(dataPoints[lastIndex:i]); err != nil {
					return err
				}
			}
			if r == '-' {
				lastIndex = i
			} else {
				lastIndex = -1
			}
		} else if lastIndex == -1 {
			lastIndex = i
		}
		lr = r
	}
	if lastIndex != -1 && lastIndex != len(dataPoints) {
		if err := c.readFloat(dataPoints[lastIndex:]); err != nil {
			return err
		}
	}
	return nil
}

// compilePath traverses the path data, splitting it at command letters
// and handing each command plus its arguments to addSeg.
func (c *pathScanner) compilePath(svgPath string) error {
	c.init()
	lastIndex := -1
	for i, v := range svgPath {
		if unicode.IsLetter(v) && v != 'e' && v != 'E' {
			if lastIndex != -1 {
				if err := c.addSeg(svgPath[lastIndex:i]); err != nil {
					return err
				}
			}
			lastIndex = i
		}
	}
	if lastIndex != -1 {
		if err := c.addSeg(svgPath[lastIndex:]); err != nil {
			return err
		}
	}
	c.flushContour()
	return nil
}

// hasSetsOrPoints reports whether the points slice holds a positive
// multiple of sz values.
func (c *pathScanner) hasSetsOrPoints(l, sz int) bool {
	return l != 0 && l%sz == 0
}

// pointToAbs shifts the coordinate pair at i by the current position
// when the command was relative.
func (c *pathScanner) pointToAbs(rel bool, i int) {
	if rel {
		c.points[i] += c.placeX
		c.points[i+1] += c.placeY
	}
}

// setToAbs shifts sz coordinate pairs starting at i by the current
// position. All pairs of one set are relative to the position at the
// start of the set.
func (c *pathScanner) setToAbs(rel bool, i, sz int) {
	if !rel {
		return
	}
	for j := 0; j < sz; j += 2 {
		c.points[i+j] += c.placeX
		c.points[i+j+1] += c.placeY
	}
}

func (c *pathScanner) addSeg(segString string) error {
	if err := c.getPoints(segString[1:]); err != nil {
		return err
	}
	l := len(c.points)
	k := segString[0]
	rel := k >= 'a' // lowercase commands take relative coordinates
	switch k {
	case 'Z', 'z':
		if l != 0 {
			return errParamMismatch
		}
		c.closeContour()
	case 'M', 'm':
		if !c.hasSetsOrPoints(l, 2) {
			return errParamMismatch
		}
		c.pointToAbs(rel, 0)
		c.startContour(c.points[0], c.points[1])
		for i := 2; i < l-1; i += 2 {
			c.pointToAbs(rel, i)
			c.lineTo(c.points[i], c.points[i+1])
		}
	case 'L', 'l':
		if !c.hasSetsOrPoints(l, 2) {
			return errParamMismatch
		}
		for i := 0; i < l-1; i += 2 {
			c.pointToAbs(rel, i)
			c.lineTo(c.points[i], c.points[i+1])
		}
	case 'H', 'h':
		if l == 0 {
			return errParamMismatch
		}
		for i := 0; i < l; i++ {
			x := c.points[i]
			if rel {
				x += c.placeX
			}
			c.lineTo(x, c.placeY)
		}
	case 'V', 'v':
		if l == 0 {
			return errParamMismatch
		}
		for i := 0; i < l; i++ {
			y := c.points[i]
			if rel {
				y += c.placeY
			}
			c.lineTo(c.placeX, y)
		}
	case 'C', 'c':
		if !c.hasSetsOrPoints(l, 6) {
			return errParamMismatch
		}
		for i := 0; i+5 < l; i += 6 {
			c.setToAbs(rel, i, 6)
			c.cubicTo(
				geom.Point{X: c.points[i], Y: c.points[i+1]},
				geom.Point{X: c.points[i+2], Y: c.points[i+3]},
				geom.Point{X: c.points[i+4], Y: c.points[i+5]})
			c.lastKey = k
		}
	case 'S', 's':
		if !c.hasSetsOrPoints(l, 4) {
			return errParamMismatch
		}
		for i := 0; i+3 < l; i += 4 {
			c.setToAbs(rel, i, 4)
			c.cubicTo(
				c.reflectCubeControl(),
				geom.Point{X: c.points[i], Y: c.points[i+1]},
				geom.Point{X: c.points[i+2], Y: c.points[i+3]})
			c.lastKey = k
		}
	case 'Q', 'q':
		if !c.hasSetsOrPoints(l, 4) {
			return errParamMismatch
		}
		for i := 0; i+3 < l; i += 4 {
			c.setToAbs(rel, i, 4)
			c.quadTo(
				geom.Point{X: c.points[i], Y: c.points[i+1]},
				geom.Point{X: c.points[i+2], Y: c.points[i+3]})
			c.lastKey = k
		}
	case 'T', 't':
		if !c.hasSetsOrPoints(l, 2) {
			return errParamMismatch
		}
		for i := 0; i < l-1; i += 2 {
			c.pointToAbs(rel, i)
			c.quadToReflected(geom.Point{X: c.points[i], Y: c.points[i+1]})
			c.lastKey = k
		}
	case 'A', 'a':
		if !c.hasSetsOrPoints(l, 7) {
			return errParamMismatch
		}
		for i := 0; i+6 < l; i += 7 {
			if rel {
				c.points[i+5] += c.placeX
				c.points[i+6] += c.placeY
			}
			c.arcTo(c.points[i], c.points[i+1], c.points[i+2],
				c.points[i+3] != 0, c.points[i+4] != 0,
				c.points[i+5], c.points[i+6])
		}
	default:
		return fmt.Errorf("unsupported path command %q", string(k))
	}
	c.lastKey = k
	return nil
}

// startContour flushes any open contour and begins a new subpath.
func (c *pathScanner) startContour(x, y float64) {
	c.flushContour()
	c.cur = []geom.Point{{X: x, Y: y}}
	c.placeX, c.placeY = x, y
	c.pathStartX, c.pathStartY = x, y
}

// lineTo extends the open contour, starting one at the current
// position if none is open. Zero-length segments are dropped.
func (c *pathScanner) lineTo(x, y float64) {
	c.openContour()
	if last := c.cur[len(c.cur)-1]; last.X != x || last.Y != y {
		c.cur = append(c.cur, geom.Point{X: x, Y: y})
	}
	c.placeX, c.placeY = x, y
}

// openContour makes sure a contour is started at the current position.
func (c *pathScanner) openContour() {
	if c.cur == nil {
		c.cur = []geom.Point{{X: c.placeX, Y: c.placeY}}
		c.pathStartX, c.pathStartY = c.placeX, c.placeY
	}
}

// appendFlattened adds a sampled curve to the open contour, skipping
// the leading sample that duplicates the current position.
func (c *pathScanner) appendFlattened(pts []geom.Point) {
	if len(pts) < 2 {
		return
	}
	c.openContour()
	c.cur = append(c.cur, pts[1:]...)
}

func (c *pathScanner) cubicTo(c1, c2, to geom.Point) {
	from := geom.Point{X: c.placeX, Y: c.placeY}
	c.appendFlattened(curve.Cubic(from, c1, c2, to))
	c.cntlPtX, c.cntlPtY = c2.X, c2.Y
	c.placeX, c.placeY = to.X, to.Y
}

func (c *pathScanner) quadTo(ctrl, to geom.Point) {
	from := geom.Point{X: c.placeX, Y: c.placeY}
	c.appendFlattened(curve.Quad(from, ctrl, to))
	c.cntlPtX, c.cntlPtY = ctrl.X, ctrl.Y
	c.placeX, c.placeY = to.X, to.Y
}

func (c *pathScanner) quadToReflected(to geom.Point) {
	c.quadTo(c.reflectQuadControl(), to)
}

func (c *pathScanner) arcTo(rx, ry, rotDeg float64, largeArc, sweep bool, x, y float64) {
	from := geom.Point{X: c.placeX, Y: c.placeY}
	pts := curve.EndpointArc(from, geom.Point{X: x, Y: y}, rx, ry, rotDeg, largeArc, sweep)
	if pts == nil {
		// a zero radius collapses the arc to a line
		c.lineTo(x, y)
		return
	}
	c.appendFlattened(pts)
	c.placeX, c.placeY = x, y
}

// reflectCubeControl mirrors the previous cubic control point about
// the current position. When the previous command was not a cubic the
// control degenerates to the current position.
func (c *pathScanner) reflectCubeControl() geom.Point {
	switch c.lastKey {
	case 'c', 'C', 's', 'S':
		return geom.Point{X: 2*c.placeX - c.cntlPtX, Y: 2*c.placeY - c.cntlPtY}
	}
	return geom.Point{X: c.placeX, Y: c.placeY}
}

func (c *pathScanner) reflectQuadControl() geom.Point {
	switch c.lastKey {
	case 'q', 'Q', 't', 'T':
		return geom.Point{X: 2*c.placeX - c.cntlPtX, Y: 2*c.placeY - c.cntlPtY}
	}
	return geom.Point{X: c.placeX, Y: c.placeY}
}

// closeContour ends the open contour, closing it back to its starting
// point. The position returns to the subpath start so that a drawing
// command following Z continues from there.
func (c *pathScanner) closeContour() {
	if c.cur == nil {
		return
	}
	start := geom.Point{X: c.pathStartX, Y: c.pathStartY}
	if last := c.cur[len(c.cur)-1]; last != start {
		c.cur = append(c.cur, start)
	}
	c.placeX, c.placeY = start.X, start.Y
	c.flushContour()
}

// flushContour moves the open contour, if it draws anything, into the
// finished set.
func (c *pathScanner) flushContour() {
	if len(c.cur) >= 2 {
		c.contours = append(c.contours, c.cur)
	}
	c.cur = nil
}

// takeContours returns the contours accumulated by compilePath and
// resets the scanner for the next path element.
func (c *pathScanner) takeContours() [][]geom.Point {
	c.flushContour()
	out := c.contours
	c.contours = nil
	return out
}
