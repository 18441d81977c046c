package scene

import "github.com/google/uuid"

// PrintMethod selects how a layer lowers to machine instructions.
type PrintMethod uint8

const (
	// Scan rasters the layer row by row, modulating laser power from
	// pixel brightness.
	Scan PrintMethod = iota
	// Engrave traces the layer's vector outlines at a fixed power.
	Engrave
)

func (m PrintMethod) String() string {
	switch m {
	case Scan:
		return "scan"
	case Engrave:
		return "engrave"
	}
	return "unknown"
}

// Layer groups items that print together with the same method and
// power settings.
type Layer struct {
	ID      string
	Name    string
	Method  PrintMethod
	Visible bool

	Speed  float64 // cutting feed, mm/min
	Travel float64 // positioning feed, mm/min

	// Engrave settings.
	Power  int // 0..255
	Passes int

	// Scan settings.
	LineDensity        float64 // rows per mm
	Halftone           bool
	Negative           bool
	HFlip, VFlip       bool
	MinPower, MaxPower int     // 0..255
	Overscan           float64 // extra travel beyond row ends, mm
}

// NewLayer returns a layer with the default settings of its method.
func NewLayer(name string, method PrintMethod) *Layer {
	l := &Layer{
		ID:      uuid.NewString(),
		Name:    name,
		Method:  method,
		Visible: true,
		Travel:  3000,
	}
	switch method {
	case Scan:
		l.Speed = 2400
		l.LineDensity = 10
		l.MaxPower = 255
		l.Overscan = 2.5
	case Engrave:
		l.Speed = 480
		l.Power = 160
		l.Passes = 1
	}
	return l
}

func (l *Layer) clone() *Layer {
	cl := *l
	return &cl
}

// Scene is the whiteboard document: the layer stack plus the items
// placed on it. The zero value is empty and usable.
type Scene struct {
	Layers []*Layer
	Items  []CanvasItem
}

// MethodFor returns the printing method an item kind belongs to:
// bitmap content (images, text) rasters in Scan, everything else cuts
// in Engrave. The mapping is total over the item kinds, so every item
// always has exactly one home method.
func MethodFor(it CanvasItem) PrintMethod {
	switch it.(type) {
	case *ImageObject, *TextObject:
		return Scan
	}
	return Engrave
}

// LayerByID returns the layer with the given ID, or nil.
func (s *Scene) LayerByID(id string) *Layer {
	for _, l := range s.Layers {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// ItemByID returns the top-level item with the given ID, or nil.
func (s *Scene) ItemByID(id string) CanvasItem {
	for _, it := range s.Items {
		if it.Core().ID == id {
			return it
		}
	}
	return nil
}

// ItemsOn returns the top-level items owned by a layer, in insertion
// order.
func (s *Scene) ItemsOn(layerID string) []CanvasItem {
	var out []CanvasItem
	for _, it := range s.Items {
		if it.Core().Layer == layerID {
			out = append(out, it)
		}
	}
	return out
}

// layerFor returns the first layer printing with the given method,
// creating one when the scene has none.
func (s *Scene) layerFor(method PrintMethod) *Layer {
	for _, l := range s.Layers {
		if l.Method == method {
			return l
		}
	}
	name := "Engrave"
	if method == Scan {
		name = "Scan"
	}
	l := NewLayer(name, method)
	s.Layers = append(s.Layers, l)
	return l
}

// AddItem places an item on the scene, routing it to the layer of its
// home method. A matching layer is created on demand. Items with an
// empty ID receive a fresh one.
func (s *Scene) AddItem(it CanvasItem) *Layer {
	core := it.Core()
	if core.ID == "" {
		core.ID = uuid.NewString()
	}
	l := s.layerFor(MethodFor(it))
	core.Layer = l.ID
	s.Items = append(s.Items, it)
	return l
}

// AddItemTo places an item on an explicit layer. Bitmap content on an
// engrave layer is rejected with ErrMethodMismatch; vector content
// may join either method.
func (s *Scene) AddItemTo(it CanvasItem, layerID string) error {
	l := s.LayerByID(layerID)
	if l == nil {
		return ErrNoSuchLayer
	}
	if MethodFor(it) == Scan && l.Method == Engrave {
		return ErrMethodMismatch
	}
	core := it.Core()
	if core.ID == "" {
		core.ID = uuid.NewString()
	}
	core.Layer = l.ID
	s.Items = append(s.Items, it)
	return nil
}

// RemoveItem deletes the top-level item with the given ID. It reports
// whether anything was removed.
func (s *Scene) RemoveItem(id string) bool {
	for i, it := range s.Items {
		if it.Core().ID == id {
			s.Items = append(s.Items[:i], s.Items[i+1:]...)
			return true
		}
	}
	return false
}

// ReplaceItem swaps the item with the given ID for zero or more
// replacements at the same stack position, inheriting its layer.
// It reports whether the item was found.
func (s *Scene) ReplaceItem(id string, repl ...CanvasItem) bool {
	for i, it := range s.Items {
		if it.Core().ID != id {
			continue
		}
		layer := it.Core().Layer
		for _, r := range repl {
			core := r.Core()
			if core.ID == "" {
				core.ID = uuid.NewString()
			}
			core.Layer = layer
		}
		out := make([]CanvasItem, 0, len(s.Items)-1+len(repl))
		out = append(out, s.Items[:i]...)
		out = append(out, repl...)
		out = append(out, s.Items[i+1:]...)
		s.Items = out
		return true
	}
	return false
}

// RemoveLayer deletes a layer together with every item on it.
func (s *Scene) RemoveLayer(id string) bool {
	for i, l := range s.Layers {
		if l.ID != id {
			continue
		}
		s.Layers = append(s.Layers[:i], s.Layers[i+1:]...)
		kept := s.Items[:0]
		for _, it := range s.Items {
			if it.Core().Layer != id {
				kept = append(kept, it)
			}
		}
		s.Items = kept
		return true
	}
	return false
}

// Clone returns a deep copy of the scene.
func (s *Scene) Clone() *Scene {
	c := &Scene{
		Layers: make([]*Layer, len(s.Layers)),
		Items:  make([]CanvasItem, len(s.Items)),
	}
	for i, l := range s.Layers {
		c.Layers[i] = l.clone()
	}
	for i, it := range s.Items {
		c.Items[i] = it.Clone()
	}
	return c
}
