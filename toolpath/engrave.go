package toolpath

import (
	"github.com/yukikaze0413/Nexcut-whiteboard-sub000/scene"
)

// EngraveSettings parameterizes vector lowering.
type EngraveSettings struct {
	FeedRate     float64 // cutting feed, mm/min
	TravelSpeed  float64 // positioning feed, mm/min
	Power        int     // 0..255
	Passes       int     // whole-path repetitions, minimum 1
	FlipY        bool    // remap y to CanvasHeight-y
	CanvasHeight float64 // mm, read when FlipY is set
}

// EngraveSettingsOf extracts the vector parameters of a layer. flipY
// converts from the document convention (origin top left, y down) to
// the machine convention (origin bottom left, y up).
func EngraveSettingsOf(l *scene.Layer, canvasHeight float64, flipY bool) EngraveSettings {
	return EngraveSettings{
		FeedRate:     l.Speed,
		TravelSpeed:  l.Travel,
		Power:        l.Power,
		Passes:       l.Passes,
		FlipY:        flipY,
		CanvasHeight: canvasHeight,
	}
}

func (s EngraveSettings) flip(y float64) float64 {
	if s.FlipY {
		return s.CanvasHeight - y
	}
	return y
}

// EmitEngrave lowers an engrave layer's items: one rapid to each
// contour's first point, then a cut per following point, the whole
// contour repeated per pass. Text and image items have no cuttable
// path and never join the vector stream. ErrEmptyLayer reports a
// layer that lowered nothing.
func EmitEngrave(items []scene.CanvasItem, s EngraveSettings) ([]Instruction, error) {
	if len(items) == 0 {
		return nil, ErrEmptyLayer
	}
	passes := s.Passes
	if passes < 1 {
		passes = 1
	}
	power := clampPower(s.Power)

	var ins []Instruction
	contours := 0
	for _, it := range items {
		switch it.(type) {
		case *scene.TextObject, *scene.ImageObject:
			Logger().Warn("engrave lowering skips bitmap content", "item", it.Core().ID)
			continue
		}
		for _, pts := range scene.Outlines(it) {
			if len(pts) < 2 {
				continue
			}
			contours++
			for pass := 0; pass < passes; pass++ {
				ins = append(ins, Instruction{
					X: pts[0].X, Y: s.flip(pts[0].Y), Feed: s.TravelSpeed,
				})
				for _, p := range pts[1:] {
					ins = append(ins, Instruction{
						X: p.X, Y: s.flip(p.Y), Power: power, Feed: s.FeedRate,
					})
				}
			}
		}
	}
	if contours == 0 {
		return nil, ErrEmptyLayer
	}
	Logger().Debug("engrave lowering done",
		"contours", contours, "passes", passes, "instructions", len(ins))
	return ins, nil
}

// EmitLayer lowers one layer of a scene over a docW x docH canvas.
// flipY applies to engrave layers; scan rows sweep in document
// orientation and mirror through their own settings instead.
func EmitLayer(sc *scene.Scene, l *scene.Layer, docW, docH float64, flipY bool) ([]Instruction, error) {
	items := sc.ItemsOn(l.ID)
	if l.Method == scene.Scan {
		return EmitScan(items, docW, docH, ScanSettingsOf(l))
	}
	return EmitEngrave(items, EngraveSettingsOf(l, docH, flipY))
}
