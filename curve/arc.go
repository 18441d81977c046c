package curve

import (
	"math"

	"github.com/yukikaze0413/Nexcut-whiteboard-sub000/geom"
)

// This file converts endpoint parameterized elliptical arcs, as found
// in vector markup path data, to the center form the samplers consume.

// EndpointArc flattens the elliptical arc running from the current
// point `from` to `to`, with radii rx, ry and the ellipse x axis
// rotated by rotDeg degrees. largeArc and sweep select among the four
// candidate arcs. The exact end point closes the sequence so chained
// path segments join without drift. Degenerate arcs sample to nil.
func EndpointArc(from, to geom.Point, rx, ry, rotDeg float64, largeArc, sweep bool) []geom.Point {
	if !finitePoint(from) || !finitePoint(to) || !finite(rx) || !finite(ry) {
		return nil
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 || from == to {
		return nil
	}
	rotX := rotDeg * math.Pi / 180
	cx, cy, rx, ry := findArcCenter(rx, ry, rotX, from.X, from.Y, to.X, to.Y, sweep, !largeArc)

	startAngle := math.Atan2(from.Y-cy, from.X-cx) - rotX
	endAngle := math.Atan2(to.Y-cy, to.X-cx) - rotX
	deltaTheta := endAngle - startAngle
	arcBig := math.Abs(deltaTheta) > math.Pi

	etaStart := math.Atan2(math.Sin(startAngle)/ry, math.Cos(startAngle)/rx)
	etaEnd := math.Atan2(math.Sin(endAngle)/ry, math.Cos(endAngle)/rx)
	deltaEta := etaEnd - etaStart
	if arcBig != largeArc {
		if deltaEta < 0 {
			deltaEta += math.Pi * 2
		} else {
			deltaEta -= math.Pi * 2
		}
	}
	// This check is needed when the center of the ellipse sits at the
	// midpoint of the start and end points.
	if deltaEta < 0 && sweep {
		deltaEta += math.Pi * 2
	} else if deltaEta >= 0 && !sweep {
		deltaEta -= math.Pi * 2
	}

	sinT, cosT := math.Sin(rotX), math.Cos(rotX)
	segs := arcSegments(deltaEta)
	pts := make([]geom.Point, segs+1)
	pts[0] = from
	for i := 1; i <= segs; i++ {
		if i == segs {
			// Exact end point; no roundoff error.
			pts[i] = to
			break
		}
		eta := etaStart + deltaEta*float64(i)/float64(segs)
		x, y := ellipsePointAt(rx, ry, sinT, cosT, eta, cx, cy)
		pts[i] = geom.Point{X: x, Y: y}
	}
	return pts
}

// findArcCenter locates the center of the ellipse if it exists. If it
// does not, the radii are increased minimally for a solution to be
// possible while preserving the rx to ry ratio. The problem reduces,
// through coordinate transformations, to finding the center of a
// circle that includes the origin and an arbitrary point; that center
// is then transformed back to the original coordinates.
func findArcCenter(ra, rb, rotX, startX, startY, endX, endY float64, sweep, smallArc bool) (cx, cy, outRa, outRb float64) {
	cos, sin := math.Cos(rotX), math.Sin(rotX)

	// Move the origin to the start point.
	nx, ny := endX-startX, endY-startY

	// Rotate the ellipse x axis onto the coordinate x axis.
	nx, ny = nx*cos+ny*sin, -nx*sin+ny*cos
	// Scale the x dimension so that ra == rb.
	nx *= rb / ra

	midX, midY := nx/2, ny/2
	midlenSq := midX*midX + midY*midY

	var hr float64
	if rb*rb < midlenSq {
		// The requested ellipse does not exist: the span is longer
		// than the widest chord. Grow ra, rb to fit.
		nrb := math.Sqrt(midlenSq)
		if ra == rb {
			ra = nrb // prevents roundoff
		} else {
			ra = ra * nrb / rb
		}
		rb = nrb
	} else {
		hr = math.Sqrt(rb*rb-midlenSq) / math.Sqrt(midlenSq)
	}
	// When hr is zero both candidate centers coincide.
	if (sweep && smallArc) || (!sweep && !smallArc) {
		cx = midX + midY*hr
		cy = midY - midX*hr
	} else {
		cx = midX - midY*hr
		cy = midY + midX*hr
	}

	// Reverse the scale, then the rotation and translation.
	cx *= ra / rb
	return cx*cos - cy*sin + startX, cx*sin + cy*cos + startY, ra, rb
}
