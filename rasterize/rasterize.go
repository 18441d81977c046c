// Renders scan layer items into the grayscale pixel grid the raster
// lowering sweeps. Vector content is rasterized with rasterx, bitmap
// content is resampled with the x/image scalers, and image items that
// kept their vector source text are re-rendered through oksvg so the
// output stays sharp at any line density.
package rasterize

import (
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"

	"github.com/yukikaze0413/Nexcut-whiteboard-sub000/geom"
	"github.com/yukikaze0413/Nexcut-whiteboard-sub000/scene"
)

// Grid is a grayscale view of the document at a fixed pixel pitch.
// Lum runs row-major from the top-left cell; 255 is blank paper. Cell
// (col, row) covers the document square from (col*Pitch, row*Pitch)
// to ((col+1)*Pitch, (row+1)*Pitch).
type Grid struct {
	W, H  int
	Pitch float64 // mm per cell, both axes
	Lum   []uint8
}

// NewGrid returns a blank grid of w x h cells.
func NewGrid(w, h int, pitch float64) *Grid {
	g := &Grid{W: w, H: h, Pitch: pitch, Lum: make([]uint8, w*h)}
	for i := range g.Lum {
		g.Lum[i] = 255
	}
	return g
}

// At returns the luma of cell (col, row); reads outside the grid are
// blank.
func (g *Grid) At(col, row int) uint8 {
	if col < 0 || row < 0 || col >= g.W || row >= g.H {
		return 255
	}
	return g.Lum[row*g.W+col]
}

// Set stores the luma of cell (col, row); writes outside the grid are
// dropped.
func (g *Grid) Set(col, row int, v uint8) {
	if col < 0 || row < 0 || col >= g.W || row >= g.H {
		return
	}
	g.Lum[row*g.W+col] = v
}

// X returns the document x coordinate of a column's left edge.
func (g *Grid) X(col int) float64 { return float64(col) * g.Pitch }

// Y returns the document y coordinate of a row's top edge.
func (g *Grid) Y(row int) float64 { return float64(row) * g.Pitch }

// Render rasterizes items onto a blank grid covering a docW x docH
// millimeter canvas at the given cell pitch. Closed contours fill,
// open runs stroke one cell wide, bitmap content composites into its
// placed rectangle.
func Render(items []scene.CanvasItem, docW, docH, pitch float64) *Grid {
	if pitch <= 0 || docW <= 0 || docH <= 0 {
		return NewGrid(1, 1, math.Max(pitch, 1))
	}
	w := int(math.Ceil(docW / pitch))
	h := int(math.Ceil(docH / pitch))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	scanner.SetClip(img.Bounds())
	scanner.SetColor(color.NRGBA{A: 255})

	r := renderer{img: img, ppmm: 1 / pitch}
	r.filler = rasterx.NewFiller(w, h, scanner)
	r.dasher = rasterx.NewDasher(w, h, scanner)
	r.dasher.SetStroke(fixed.I(1), fixed.I(4),
		rasterx.ButtCap, rasterx.ButtCap, rasterx.FlatGap, rasterx.Round, nil, 0)

	for _, it := range items {
		scene.Walk(it, r.leaf)
	}

	return gridFrom(img, pitch)
}

type renderer struct {
	img    *image.RGBA
	filler *rasterx.Filler
	dasher *rasterx.Dasher
	ppmm   float64 // grid cells per millimeter
}

// pathSink is the part of the rasterx adders the renderer drives.
// Both Filler and Dasher satisfy it.
type pathSink interface {
	Start(a fixed.Point26_6)
	Line(b fixed.Point26_6)
	Stop(closeLoop bool)
	Draw()
	Clear()
}

func (r *renderer) leaf(m geom.Matrix2D, it scene.CanvasItem) {
	switch it := it.(type) {
	case *scene.Drawing:
		r.contour(m, it.Points)
	case *scene.Part:
		for _, pts := range it.Outline() {
			r.contour(m, pts)
		}
	case *scene.ImageObject:
		r.bitmap(m, it)
	case *scene.TextObject:
		if it.Rendered != nil {
			r.placed(m, it.Rendered, it.RenderedW, it.RenderedH)
		}
	}
}

// contour draws one polyline: closed rings fill, open runs stroke.
func (r *renderer) contour(m geom.Matrix2D, pts []geom.Point) {
	if len(pts) < 2 {
		return
	}
	closed := len(pts) >= 4 && pts[0] == pts[len(pts)-1]
	var sink pathSink = r.dasher
	if closed {
		sink = r.filler
	}
	sink.Start(r.fixedPoint(m.Apply(pts[0])))
	for _, p := range pts[1:] {
		sink.Line(r.fixedPoint(m.Apply(p)))
	}
	sink.Stop(closed)
	sink.Draw()
	sink.Clear()
}

func (r *renderer) fixedPoint(p geom.Point) fixed.Point26_6 {
	return fixed.Point26_6{
		X: fixed.Int26_6(p.X * r.ppmm * 64),
		Y: fixed.Int26_6(p.Y * r.ppmm * 64),
	}
}

// bitmap composites an image item into its placed rectangle. Items
// that kept their vector source re-render at the grid resolution
// instead of scaling stored pixels.
func (r *renderer) bitmap(m geom.Matrix2D, it *scene.ImageObject) {
	if it.W <= 0 || it.H <= 0 {
		return
	}
	src := it.Bitmap
	if it.VectorSource != "" {
		pxW := int(math.Ceil(it.W * r.ppmm))
		pxH := int(math.Ceil(it.H * r.ppmm))
		if re := renderVectorSource(it.VectorSource, pxW, pxH); re != nil {
			src = re
		}
	}
	if src == nil {
		return
	}
	r.placed(m, src, it.W, it.H)
}

// placed resamples src onto the w x h millimeter rectangle centered
// on the item origin, composing the item transform.
func (r *renderer) placed(m geom.Matrix2D, src image.Image, w, h float64) {
	sb := src.Bounds()
	if sb.Dx() == 0 || sb.Dy() == 0 || w <= 0 || h <= 0 {
		return
	}
	t := geom.Identity.Scale(r.ppmm, r.ppmm).
		Mult(m).
		Translate(-w/2, -h/2).
		Scale(w/float64(sb.Dx()), h/float64(sb.Dy())).
		Translate(-float64(sb.Min.X), -float64(sb.Min.Y))
	aff := f64.Aff3{t.A, t.C, t.E, t.B, t.D, t.F}
	draw.BiLinear.Transform(r.img, aff, src, sb, draw.Over, nil)
}

// renderVectorSource rasters markup text at the given pixel size on a
// white background. Broken markup returns nil and the caller falls
// back to the stored bitmap.
func renderVectorSource(markup string, w, h int) image.Image {
	icon, err := oksvg.ReadIconStream(strings.NewReader(markup))
	if err != nil {
		return nil
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)

	icon.SetTarget(0, 0, float64(w), float64(h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	scanner.SetClip(img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)
	return img
}

// gridFrom reduces the composited canvas to luma samples.
func gridFrom(img *image.RGBA, pitch float64) *Grid {
	b := img.Bounds()
	g := &Grid{W: b.Dx(), H: b.Dy(), Pitch: pitch, Lum: make([]uint8, b.Dx()*b.Dy())}
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.RGBAAt(x, y)
			g.Lum[i] = uint8((299*int(c.R) + 587*int(c.G) + 114*int(c.B)) / 1000)
			i++
		}
	}
	return g
}
