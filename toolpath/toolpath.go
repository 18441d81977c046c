// Lowers scene layers to laser machine instructions and serializes
// them as line-oriented G-code. Scan layers raster to boustrophedon
// power runs, engrave layers trace vector outlines; the writer
// coalesces the stream so modal words repeat only when they change.
package toolpath

import "errors"

// ErrEmptyLayer reports an emission over a layer with nothing to
// print. Callers distinguish it from a valid program that happens to
// contain no cuts.
var ErrEmptyLayer = errors.New("toolpath: layer has no printable items")

// Instruction is one machine motion in document millimeters. The kind
// is not stored separately: zero power positions with the laser off,
// nonzero power cuts.
type Instruction struct {
	X, Y  float64
	Power int     // 0..255, 0 moves without cutting
	Feed  float64 // mm/min, 0 inherits the previous feed
}

// Rapid reports whether the motion runs with the laser off.
func (in Instruction) Rapid() bool { return in.Power == 0 }

// Coalesce drops motions that do not move the head: an instruction
// repeating its predecessor's coordinates, power and feed carries no
// information. Moving instructions are never merged, so positioning
// detours such as overscan lead-ins survive.
func Coalesce(ins []Instruction) []Instruction {
	if len(ins) < 2 {
		return ins
	}
	out := ins[:1:1]
	for _, in := range ins[1:] {
		if in == out[len(out)-1] {
			continue
		}
		out = append(out, in)
	}
	return out
}
