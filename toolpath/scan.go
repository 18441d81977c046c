package toolpath

import (
	"fmt"
	"math"

	"github.com/yukikaze0413/Nexcut-whiteboard-sub000/rasterize"
	"github.com/yukikaze0413/Nexcut-whiteboard-sub000/scene"
)

// ScanSettings parameterizes raster lowering.
type ScanSettings struct {
	LineDensity float64 // output rows per millimeter
	Halftone    bool    // binary power dithering
	Negative    bool    // invert luma before mapping
	HFlip       bool    // mirror sampling left to right
	VFlip       bool    // mirror sampling top to bottom
	MinPower    int     // 0..255
	MaxPower    int     // 0..255
	FeedRate    float64 // cutting feed, mm/min
	TravelSpeed float64 // positioning feed, mm/min
	Overscan    float64 // travel beyond row content, mm
}

// ScanSettingsOf extracts the raster parameters of a layer.
func ScanSettingsOf(l *scene.Layer) ScanSettings {
	return ScanSettings{
		LineDensity: l.LineDensity,
		Halftone:    l.Halftone,
		Negative:    l.Negative,
		HFlip:       l.HFlip,
		VFlip:       l.VFlip,
		MinPower:    l.MinPower,
		MaxPower:    l.MaxPower,
		FeedRate:    l.Speed,
		TravelSpeed: l.Travel,
		Overscan:    l.Overscan,
	}
}

// PowerFor maps one luma sample to a laser power level. Halftone mode
// dithers with the boundary at 128; continuous mode with equal
// minimum and maximum power switches at 127; ranged continuous mode
// maps darkness linearly into [MinPower, MaxPower]. Blank paper
// (luma 255) never powers the laser.
func (s ScanSettings) PowerFor(luma uint8) int {
	if s.Halftone {
		if luma < 128 {
			return s.MaxPower
		}
		return 0
	}
	if s.MinPower == s.MaxPower {
		if luma < 127 {
			return s.MaxPower
		}
		return 0
	}
	if luma == 255 {
		return 0
	}
	span := float64(s.MaxPower - s.MinPower)
	return int(math.Round(float64(s.MinPower) + (1-float64(luma)/255)*span))
}

// ScanJob steps raster lowering one output row at a time, so a host
// can keep its event loop live over large canvases. Rows sweep top to
// bottom, alternating direction per row.
type ScanJob struct {
	grid *rasterize.Grid
	s    ScanSettings
	row  int
	ins  []Instruction
}

// NewScanJob rasterizes a scan layer's items over a docW x docH
// millimeter canvas and prepares the row sweep. Zero items is
// ErrEmptyLayer.
func NewScanJob(items []scene.CanvasItem, docW, docH float64, s ScanSettings) (*ScanJob, error) {
	if len(items) == 0 {
		return nil, ErrEmptyLayer
	}
	if s.LineDensity <= 0 {
		return nil, fmt.Errorf("toolpath: line density %g must be positive", s.LineDensity)
	}
	s.MinPower = clampPower(s.MinPower)
	s.MaxPower = clampPower(s.MaxPower)
	if s.Overscan < 0 {
		s.Overscan = 0
	}
	grid := rasterize.Render(items, docW, docH, 1/s.LineDensity)
	Logger().Debug("scan lowering prepared",
		"rows", grid.H, "cols", grid.W, "pitch", grid.Pitch)
	return &ScanJob{grid: grid, s: s}, nil
}

// Rows returns the number of rows of the sweep.
func (j *ScanJob) Rows() int { return j.grid.H }

// Row returns the index of the next row to lower.
func (j *ScanJob) Row() int { return j.row }

// Step lowers the next row and reports whether rows remain.
func (j *ScanJob) Step() bool {
	if j.row >= j.grid.H {
		return false
	}
	j.lowerRow(j.row)
	j.row++
	return j.row < j.grid.H
}

// Instructions returns the motions lowered so far.
func (j *ScanJob) Instructions() []Instruction { return j.ins }

// powerRun is a span of columns sharing one nonzero power.
type powerRun struct {
	a, b  int // inclusive column range
	power int
}

// runsIn collects the nonzero power runs of one row.
func (j *ScanJob) runsIn(row int) []powerRun {
	var runs []powerRun
	for col := 0; col < j.grid.W; col++ {
		p := j.s.PowerFor(j.luma(col, row))
		if p == 0 {
			continue
		}
		if n := len(runs) - 1; n >= 0 && runs[n].b == col-1 && runs[n].power == p {
			runs[n].b = col
			continue
		}
		runs = append(runs, powerRun{a: col, b: col, power: p})
	}
	return runs
}

// luma samples the grid with the mirror and negative settings
// applied.
func (j *ScanJob) luma(col, row int) uint8 {
	if j.s.HFlip {
		col = j.grid.W - 1 - col
	}
	if j.s.VFlip {
		row = j.grid.H - 1 - row
	}
	l := j.grid.At(col, row)
	if j.s.Negative {
		l = 255 - l
	}
	return l
}

// lowerRow emits one row: a rapid to the overscan lead point, a cut
// per power run with rapids across interior gaps, and a rapid to the
// overscan exit. Even rows sweep left to right, odd rows right to
// left. Blank rows emit nothing.
func (j *ScanJob) lowerRow(row int) {
	runs := j.runsIn(row)
	if len(runs) == 0 {
		return
	}
	y := j.grid.Y(row)
	pitch := j.grid.Pitch

	if row%2 == 0 {
		first := j.grid.X(runs[0].a)
		cur := first - j.s.Overscan
		j.emit(Instruction{X: cur, Y: y, Feed: j.s.TravelSpeed})
		for _, r := range runs {
			x0, x1 := j.grid.X(r.a), j.grid.X(r.b)+pitch
			if x0 != cur {
				j.emit(Instruction{X: x0, Y: y, Feed: j.s.TravelSpeed})
			}
			j.emit(Instruction{X: x1, Y: y, Power: r.power, Feed: j.s.FeedRate})
			cur = x1
		}
		if j.s.Overscan > 0 {
			j.emit(Instruction{X: cur + j.s.Overscan, Y: y, Feed: j.s.TravelSpeed})
		}
		return
	}

	first := j.grid.X(runs[len(runs)-1].b) + pitch
	cur := first + j.s.Overscan
	j.emit(Instruction{X: cur, Y: y, Feed: j.s.TravelSpeed})
	for i := len(runs) - 1; i >= 0; i-- {
		r := runs[i]
		x0, x1 := j.grid.X(r.b)+pitch, j.grid.X(r.a)
		if x0 != cur {
			j.emit(Instruction{X: x0, Y: y, Feed: j.s.TravelSpeed})
		}
		j.emit(Instruction{X: x1, Y: y, Power: r.power, Feed: j.s.FeedRate})
		cur = x1
	}
	if j.s.Overscan > 0 {
		j.emit(Instruction{X: cur - j.s.Overscan, Y: y, Feed: j.s.TravelSpeed})
	}
}

func (j *ScanJob) emit(in Instruction) {
	if n := len(j.ins); n > 0 && j.ins[n-1] == in {
		return
	}
	j.ins = append(j.ins, in)
}

// EmitScan lowers a scan layer's items in one call. Use a ScanJob
// directly to step rows incrementally.
func EmitScan(items []scene.CanvasItem, docW, docH float64, s ScanSettings) ([]Instruction, error) {
	j, err := NewScanJob(items, docW, docH, s)
	if err != nil {
		return nil, err
	}
	for j.Step() {
	}
	return j.Instructions(), nil
}

func clampPower(p int) int {
	if p < 0 {
		return 0
	}
	if p > 255 {
		return 255
	}
	return p
}
