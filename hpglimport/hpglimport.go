// Package hpglimport reads pen plotter command text into shape records.
//
// Only the pen motion commands PU, PD and PA matter here: pen-down
// travel accumulates into polylines and every pen-up cuts one off.
// Other mnemonics land in the skip list.
package hpglimport

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/yukikaze0413/Nexcut-whiteboard-sub000/geom"
	"github.com/yukikaze0413/Nexcut-whiteboard-sub000/scene"
)

var cmdPattern = regexp.MustCompile(`([A-Za-z]{2})([^;]*);`)

// Import parses plotter commands with coordinates taken as document
// units directly.
func Import(text string) (scene.ShapeRecord, []scene.Skipped, error) {
	return ImportUnits(text, 1)
}

// ImportUnits parses plotter commands whose coordinates are expressed
// in plotter units, unitsPerMM of them to the millimeter (40 on
// classic 0.025 mm devices). The result is one canonical shape
// record: a bare polyline for a single pen-down run, a group for
// several. Text with no recognizable commands reports a ParseError;
// commands that never draw report ErrNoContent.
func ImportUnits(text string, unitsPerMM float64) (scene.ShapeRecord, []scene.Skipped, error) {
	if unitsPerMM <= 0 {
		unitsPerMM = 1
	}
	matches := cmdPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil, nil, &scene.ParseError{Format: "hpgl", Err: errors.New("no plotter commands found")}
	}

	var (
		pos     geom.Point
		down    bool
		cur     []geom.Point
		polys   [][]geom.Point
		skipped []scene.Skipped
	)
	flush := func() {
		if len(cur) >= 2 {
			polys = append(polys, cur)
		}
		cur = nil
	}
	draw := func(p geom.Point) {
		if last := cur[len(cur)-1]; last != p {
			cur = append(cur, p)
		}
	}

	for _, m := range matches {
		cmd := strings.ToUpper(m[1])
		if cmd != "PU" && cmd != "PD" && cmd != "PA" {
			skipped = append(skipped, scene.Skipped{Kind: cmd, Reason: "unsupported command"})
			continue
		}
		coords, err := parseCoords(m[2])
		if err != nil {
			return nil, skipped, &scene.ParseError{Format: "hpgl", Err: err}
		}
		for i := range coords {
			coords[i] /= unitsPerMM
		}
		switch cmd {
		case "PU":
			flush()
			down = false
			if len(coords) >= 2 {
				pos = geom.Point{X: coords[len(coords)-2], Y: coords[len(coords)-1]}
			}
		case "PD":
			down = true
			if cur == nil {
				cur = []geom.Point{pos}
			}
			for i := 0; i+1 < len(coords); i += 2 {
				pos = geom.Point{X: coords[i], Y: coords[i+1]}
				draw(pos)
			}
		case "PA":
			for i := 0; i+1 < len(coords); i += 2 {
				pos = geom.Point{X: coords[i], Y: coords[i+1]}
				if down {
					draw(pos)
				}
			}
		}
	}
	flush()

	rec, err := scene.NormalizeRecord(polys)
	return rec, skipped, err
}

// parseCoords reads comma or whitespace separated coordinate values.
// Pen motion arguments always come in pairs.
func parseCoords(s string) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\r' || r == '\n'
	})
	if len(fields) == 0 {
		return nil, nil
	}
	if len(fields)%2 != 0 {
		return nil, fmt.Errorf("odd coordinate count in %q", strings.TrimSpace(s))
	}
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
