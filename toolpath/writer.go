package toolpath

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
)

// coordFormat fixes the emitted coordinate resolution. Comparing
// formatted words keeps sub-resolution jitter from re-emitting an
// axis.
const coordFormat = "%.2f"

// Config carries the device conventions of the program writer.
type Config struct {
	// PowerScale is the S word sent for full power (255). Controllers
	// expecting percent duty use 100, GRBL with $30=1000 uses 1000.
	PowerScale int
}

// Writer serializes an instruction stream as line-oriented G-code.
// It tracks the controller's modal state and leaves unchanged words
// off each line: an axis repeats only when it moves, F only when the
// feed changes. Power is the exception: every cutting line carries S
// and rapid lines never do. Write errors stick to the underlying
// buffer and surface from Flush.
type Writer struct {
	b   *bufio.Writer
	cfg Config

	x, y string // last emitted coordinate words
	feed string // last emitted feed word
}

// NewWriter returns a writer emitting to w. A nil cfg keeps powers on
// the raw 0..255 scale.
func NewWriter(w io.Writer, cfg *Config) *Writer {
	c := Config{PowerScale: 255}
	if cfg != nil && cfg.PowerScale > 0 {
		c.PowerScale = cfg.PowerScale
	}
	return &Writer{b: bufio.NewWriter(w), cfg: c}
}

// Preamble opens the program: millimeter units, absolute positioning,
// laser enabled at zero power.
func (w *Writer) Preamble() {
	w.b.WriteString("G21\n")
	w.b.WriteString("G90\n")
	w.b.WriteString("M3 S0\n")
}

// Postamble closes the program: laser off, return to origin.
func (w *Writer) Postamble() {
	w.b.WriteString("M5\n")
	w.b.WriteString("G0 X0 Y0\n")
}

// Comment writes one comment line.
func (w *Writer) Comment(text string) {
	w.b.WriteString("; ")
	w.b.WriteString(text)
	w.b.WriteByte('\n')
}

// Emit serializes one motion line. Zero-power motions emit G0 and
// never carry an S word; cutting motions emit G1 and always do. A
// rapid that changes nothing is dropped.
func (w *Writer) Emit(in Instruction) {
	words := make([]string, 1, 5)
	if in.Rapid() {
		words[0] = "G0"
	} else {
		words[0] = "G1"
	}
	if x := fmt.Sprintf(coordFormat, in.X); x != w.x {
		words = append(words, "X"+x)
		w.x = x
	}
	if y := fmt.Sprintf(coordFormat, in.Y); y != w.y {
		words = append(words, "Y"+y)
		w.y = y
	}
	if in.Feed > 0 {
		if f := fmt.Sprintf("%g", in.Feed); f != w.feed {
			words = append(words, "F"+f)
			w.feed = f
		}
	}
	if !in.Rapid() {
		words = append(words, "S"+strconv.Itoa(w.scaled(in.Power)))
	} else if len(words) == 1 {
		return
	}
	for i, word := range words {
		if i > 0 {
			w.b.WriteByte(' ')
		}
		w.b.WriteString(word)
	}
	w.b.WriteByte('\n')
}

// Program writes a whole instruction stream between preamble and
// postamble and flushes.
func (w *Writer) Program(ins []Instruction) error {
	w.Preamble()
	for _, in := range ins {
		w.Emit(in)
	}
	w.Postamble()
	return w.Flush()
}

// Flush drains the buffer and returns the first write error.
func (w *Writer) Flush() error {
	return w.b.Flush()
}

// scaled maps a 0..255 power level to the device S range. A nonzero
// power never rounds down to S0.
func (w *Writer) scaled(power int) int {
	if power < 0 {
		power = 0
	} else if power > 255 {
		power = 255
	}
	s := int(math.Round(float64(power) * float64(w.cfg.PowerScale) / 255))
	if power > 0 && s == 0 {
		s = 1
	}
	return s
}
