// Implements the whiteboard document model: canvas items, layers with
// their printing methods, import records and the bounded undo
// history. Importers produce shape records, the toolpath package
// consumes layers and items.
package scene

import (
	"image"
	"math"

	"github.com/google/uuid"

	"github.com/yukikaze0413/Nexcut-whiteboard-sub000/geom"
)

// CanvasItem is one element placed on the whiteboard: a parametric
// part, a free-hand drawing, a text block, a bitmap image, or a group
// of other items. All implementations are pointers.
type CanvasItem interface {
	// Core exposes the placement fields shared by every item.
	Core() *ItemCore
	// Clone returns a deep copy, used by the scene history.
	Clone() CanvasItem

	isCanvasItem()
}

// ItemCore carries the fields every canvas item shares. X, Y is the
// item origin in document coordinates; children of a group interpret
// it relative to the group origin instead.
type ItemCore struct {
	ID       string
	Layer    string  // owning layer ID, empty until routed
	X, Y     float64 // mm
	Rotation float64 // degrees, counter-clockwise about the origin
}

func (c *ItemCore) Core() *ItemCore    { return c }
func (c *ItemCore) Origin() geom.Point { return geom.Point{X: c.X, Y: c.Y} }

// matrix returns the local placement transform of the item.
func (c *ItemCore) matrix() geom.Matrix2D {
	return geom.Identity.Translate(c.X, c.Y).Rotate(c.Rotation * math.Pi / 180)
}

func newCore() ItemCore { return ItemCore{ID: uuid.NewString()} }

// Part is a parametric shape from the catalog, described by its type
// and a parameter table. The outline is generated on demand.
type Part struct {
	ItemCore
	Type   PartType
	Params map[string]float64
}

// Drawing is a free-hand or imported polyline. Points are relative to
// the item origin, which sits at the bounding box center for imported
// shapes.
type Drawing struct {
	ItemCore
	Points []geom.Point
}

// TextObject is a block of text. Text never lowers to vector
// outlines; scan layers raster the host-rendered bitmap when present.
type TextObject struct {
	ItemCore
	Text     string
	FontSize float64 // mm

	Rendered  *image.Gray // host-rendered pixels, optional
	RenderedW float64     // placed size of Rendered, mm
	RenderedH float64
}

// ImageObject is a bitmap placed on the canvas. VectorSource
// optionally keeps the markup text the bitmap was rendered from, so
// scan lowering can re-render it at the output density.
type ImageObject struct {
	ItemCore
	Bitmap       image.Image
	W, H         float64 // placed size, mm
	VectorSource string
}

// GroupObject nests items. Children coordinates are relative to the
// group origin.
type GroupObject struct {
	ItemCore
	Children []CanvasItem
}

func (*Part) isCanvasItem()        {}
func (*Drawing) isCanvasItem()     {}
func (*TextObject) isCanvasItem()  {}
func (*ImageObject) isCanvasItem() {}
func (*GroupObject) isCanvasItem() {}

func (p *Part) Clone() CanvasItem {
	cp := *p
	if p.Params != nil {
		cp.Params = make(map[string]float64, len(p.Params))
		for k, v := range p.Params {
			cp.Params[k] = v
		}
	}
	return &cp
}

func (d *Drawing) Clone() CanvasItem {
	cd := *d
	cd.Points = append([]geom.Point(nil), d.Points...)
	return &cd
}

func (t *TextObject) Clone() CanvasItem {
	ct := *t
	// Rendered pixels are treated as immutable and shared.
	return &ct
}

func (im *ImageObject) Clone() CanvasItem {
	ci := *im
	// Bitmap pixels are treated as immutable and shared.
	return &ci
}

func (g *GroupObject) Clone() CanvasItem {
	cg := *g
	cg.Children = make([]CanvasItem, len(g.Children))
	for i, child := range g.Children {
		cg.Children[i] = child.Clone()
	}
	return &cg
}

// NewDrawing builds a drawing item from points relative to the given
// origin.
func NewDrawing(origin geom.Point, pts []geom.Point) *Drawing {
	d := &Drawing{ItemCore: newCore(), Points: append([]geom.Point(nil), pts...)}
	d.X, d.Y = origin.X, origin.Y
	return d
}

// NewPart builds a catalog part at the origin.
func NewPart(typ PartType, params map[string]float64) *Part {
	p := &Part{ItemCore: newCore(), Type: typ, Params: params}
	return p
}

// NewImage builds an image item of the given placed size.
func NewImage(img image.Image, w, h float64) *ImageObject {
	return &ImageObject{ItemCore: newCore(), Bitmap: img, W: w, H: h}
}

// NewText builds a text item.
func NewText(text string, fontSize float64) *TextObject {
	return &TextObject{ItemCore: newCore(), Text: text, FontSize: fontSize}
}

// AbsolutePoints returns the drawing outline in document coordinates,
// rotation applied.
func (d *Drawing) AbsolutePoints() []geom.Point {
	m := d.matrix()
	out := make([]geom.Point, len(d.Points))
	for i, p := range d.Points {
		out[i] = m.Apply(p)
	}
	return out
}
