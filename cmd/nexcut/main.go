// Command nexcut converts artwork into a laser machine program. It
// imports one SVG, DXF, HPGL or bitmap file, places it on a scene,
// lowers every layer with its printing method and writes the combined
// program next to the input.
//
// Device settings come from an optional nexcut config file (current
// directory or $HOME/.nexcut), selected with -profile; flags override
// individual values.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/srwiley/oksvg"

	"github.com/yukikaze0413/Nexcut-whiteboard-sub000/dxfimport"
	"github.com/yukikaze0413/Nexcut-whiteboard-sub000/hpglimport"
	"github.com/yukikaze0413/Nexcut-whiteboard-sub000/scene"
	"github.com/yukikaze0413/Nexcut-whiteboard-sub000/svgimport"
	"github.com/yukikaze0413/Nexcut-whiteboard-sub000/toolpath"
)

func main() {
	in := flag.String("in", "", "input artwork (.svg, .dxf, .plt, .hpgl, .png, .jpg)")
	out := flag.String("out", "", "output program path (default: input name with .gcode)")
	profileName := flag.String("profile", "default", "device profile from the nexcut config")
	mode := flag.String("mode", "auto", "printing method: auto, scan or engrave")
	widthMM := flag.Float64("width", 0, "placed width of bitmap input, mm (0 keeps the 96 dpi size)")
	heightMM := flag.Float64("height", 0, "placed height of bitmap input, mm")
	plotterUnits := flag.Float64("plotter-units", 0, "HPGL units per mm (0 keeps raw coordinates, 40 for native)")

	speed := flag.Float64("speed", 0, "cutting feed override, mm/min")
	travel := flag.Float64("travel", 0, "positioning feed override, mm/min")
	power := flag.Int("power", 0, "engrave power override, 0-255")
	passes := flag.Int("passes", 0, "engrave pass count override")
	density := flag.Float64("density", 0, "scan rows per mm override")
	overscan := flag.Float64("overscan", 0, "scan overscan override, mm")
	minPower := flag.Int("min-power", 0, "scan minimum power override, 0-255")
	maxPower := flag.Int("max-power", 0, "scan maximum power override, 0-255")
	halftone := flag.Bool("halftone", false, "scan with threshold halftoning")
	negative := flag.Bool("negative", false, "invert scan brightness")
	flipY := flag.Bool("flip-y", true, "mirror Y for a bottom-left machine origin")
	powerScale := flag.Int("power-scale", 0, "S word at full power (255, or 100/1000 for percent firmwares)")
	verbose := flag.Bool("v", false, "log lowering progress to stderr")
	flag.Parse()

	if *in == "" {
		flag.Usage()
		os.Exit(1)
	}
	switch *mode {
	case "auto", "scan", "engrave":
	default:
		log.Fatalf("unknown mode %q", *mode)
	}
	if *verbose {
		toolpath.SetLogger(slog.New(slog.NewTextHandler(os.Stderr,
			&slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	prof, err := loadProfile(*profileName)
	if err != nil {
		log.Fatalf("load profile %q: %v", *profileName, err)
	}

	sc := &scene.Scene{}
	skips, err := place(sc, *in, *mode, *widthMM, *heightMM, *plotterUnits)
	if err != nil {
		if errors.Is(err, scene.ErrNoContent) {
			log.Fatalf("%s contains no drawable content", *in)
		}
		log.Fatalf("import %s: %v", *in, err)
	}
	for _, s := range skips {
		fmt.Fprintf(os.Stderr, "skipped %s\n", s)
	}

	for _, l := range sc.Layers {
		applyProfile(l, prof)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "flip-y":
			prof.flipY = *flipY
		case "power-scale":
			prof.powerScale = *powerScale
		}
		for _, l := range sc.Layers {
			switch f.Name {
			case "speed":
				l.Speed = *speed
			case "travel":
				l.Travel = *travel
			case "power":
				l.Power = *power
			case "passes":
				l.Passes = *passes
			case "density":
				l.LineDensity = *density
			case "overscan":
				l.Overscan = *overscan
			case "min-power":
				l.MinPower = *minPower
			case "max-power":
				l.MaxPower = *maxPower
			case "halftone":
				l.Halftone = *halftone
			case "negative":
				l.Negative = *negative
			}
		}
	})

	outPath := *out
	if outPath == "" {
		base := filepath.Base(*in)
		outPath = strings.TrimSuffix(base, filepath.Ext(base)) + ".gcode"
	}
	host := osHost{dir: filepath.Dir(outPath), w: prof.bedW, h: prof.bedH}
	docW, docH := host.CanvasSize()

	var buf bytes.Buffer
	w := toolpath.NewWriter(&buf, &toolpath.Config{PowerScale: prof.powerScale})
	w.Comment("nexcut program")
	w.Comment("source: " + filepath.Base(*in))
	w.Preamble()
	total := 0
	for _, l := range sc.Layers {
		if !l.Visible {
			continue
		}
		ins, err := toolpath.EmitLayer(sc, l, docW, docH, prof.flipY)
		if err != nil {
			if errors.Is(err, toolpath.ErrEmptyLayer) {
				continue
			}
			log.Fatalf("layer %s: %v", l.Name, err)
		}
		ins = toolpath.Coalesce(ins)
		w.Comment(fmt.Sprintf("layer %s (%s), %d moves", l.Name, l.Method, len(ins)))
		for _, in := range ins {
			w.Emit(in)
		}
		total += len(ins)
	}
	w.Postamble()
	if err := w.Flush(); err != nil {
		log.Fatalf("write program: %v", err)
	}

	name := filepath.Base(outPath)
	if err := host.SaveOutput(name, buf.Bytes()); err != nil {
		log.Fatalf("save %s: %v", outPath, err)
	}
	fmt.Fprintf(os.Stderr, "%s: %d item(s), %d layer(s), %d move(s) -> %s\n",
		filepath.Base(*in), len(sc.Items), len(sc.Layers), total, outPath)
}

// deviceProfile is one machine description from the config file.
type deviceProfile struct {
	bedW, bedH float64
	powerScale int
	flipY      bool

	scanSpeed, scanTravel float64
	density, overscan     float64
	minPower, maxPower    int
	halftone, negative    bool

	engraveSpeed, engraveTravel float64
	power, passes               int
}

// loadProfile reads the named profile section from the nexcut config
// file. A missing file keeps the built-in defaults; a missing section
// is an error unless it is the default one.
func loadProfile(name string) (deviceProfile, error) {
	viper.SetConfigName("nexcut")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.nexcut")
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return deviceProfile{}, err
		}
	}
	v := viper.Sub(name)
	if v == nil {
		if name != "default" {
			return deviceProfile{}, fmt.Errorf("profile not in config")
		}
		v = viper.New()
	}
	v.SetDefault("bed_width", 400.0)
	v.SetDefault("bed_height", 400.0)
	v.SetDefault("power_scale", 255)
	v.SetDefault("flip_y", true)
	v.SetDefault("scan.speed", 2400.0)
	v.SetDefault("scan.travel", 3000.0)
	v.SetDefault("scan.density", 10.0)
	v.SetDefault("scan.overscan", 2.5)
	v.SetDefault("scan.min_power", 0)
	v.SetDefault("scan.max_power", 255)
	v.SetDefault("scan.halftone", false)
	v.SetDefault("scan.negative", false)
	v.SetDefault("engrave.speed", 480.0)
	v.SetDefault("engrave.travel", 3000.0)
	v.SetDefault("engrave.power", 160)
	v.SetDefault("engrave.passes", 1)

	return deviceProfile{
		bedW:          v.GetFloat64("bed_width"),
		bedH:          v.GetFloat64("bed_height"),
		powerScale:    v.GetInt("power_scale"),
		flipY:         v.GetBool("flip_y"),
		scanSpeed:     v.GetFloat64("scan.speed"),
		scanTravel:    v.GetFloat64("scan.travel"),
		density:       v.GetFloat64("scan.density"),
		overscan:      v.GetFloat64("scan.overscan"),
		minPower:      v.GetInt("scan.min_power"),
		maxPower:      v.GetInt("scan.max_power"),
		halftone:      v.GetBool("scan.halftone"),
		negative:      v.GetBool("scan.negative"),
		engraveSpeed:  v.GetFloat64("engrave.speed"),
		engraveTravel: v.GetFloat64("engrave.travel"),
		power:         v.GetInt("engrave.power"),
		passes:        v.GetInt("engrave.passes"),
	}, nil
}

// applyProfile copies the profile settings of the layer's method onto
// the layer.
func applyProfile(l *scene.Layer, p deviceProfile) {
	switch l.Method {
	case scene.Scan:
		l.Speed = p.scanSpeed
		l.Travel = p.scanTravel
		l.LineDensity = p.density
		l.Overscan = p.overscan
		l.MinPower = p.minPower
		l.MaxPower = p.maxPower
		l.Halftone = p.halftone
		l.Negative = p.negative
	case scene.Engrave:
		l.Speed = p.engraveSpeed
		l.Travel = p.engraveTravel
		l.Power = p.power
		l.Passes = p.passes
	}
}

// place imports one file and routes the result onto the scene.
func place(sc *scene.Scene, path, mode string, wMM, hMM, plotterUnits float64) ([]scene.Skipped, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".svg":
		if mode == "scan" {
			return nil, placeVectorImage(sc, path, mode, wMM, hMM)
		}
		rec, skips, err := svgimport.Import(path)
		if err != nil {
			return skips, err
		}
		return skips, placeRecord(sc, rec, mode)

	case ".dxf":
		rec, skips, err := dxfimport.Import(path)
		if err != nil {
			return skips, err
		}
		return skips, placeRecord(sc, rec, mode)

	case ".plt", ".hpgl":
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var (
			rec   scene.ShapeRecord
			skips []scene.Skipped
		)
		if plotterUnits > 0 {
			rec, skips, err = hpglimport.ImportUnits(string(raw), plotterUnits)
		} else {
			rec, skips, err = hpglimport.Import(string(raw))
		}
		if err != nil {
			return skips, err
		}
		return skips, placeRecord(sc, rec, mode)

	case ".png", ".jpg", ".jpeg":
		return nil, placeBitmap(sc, path, mode, wMM, hMM)
	}
	return nil, fmt.Errorf("unsupported input format %q", filepath.Ext(path))
}

func placeRecord(sc *scene.Scene, rec scene.ShapeRecord, mode string) error {
	it := scene.ItemFromRecord(rec)
	if it == nil {
		return scene.ErrNoContent
	}
	return routeItem(sc, it, mode)
}

// placeBitmap decodes a raster file and places it near the origin at
// the requested size, keeping the aspect ratio when only one extent
// is given.
func placeBitmap(sc *scene.Scene, path, mode string, wMM, hMM float64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return err
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return scene.ErrNoContent
	}
	w, h := placedSize(wMM, hMM, float64(b.Dx()), float64(b.Dy()))
	it := scene.NewImage(img, w, h)
	it.X, it.Y = w/2, h/2
	return routeItem(sc, it, mode)
}

// placeVectorImage brings an SVG in as a picture: the markup text is
// kept on the item so the scan grid re-renders it at output density.
func placeVectorImage(sc *scene.Scene, path, mode string, wMM, hMM float64) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(raw))
	if err != nil {
		return &scene.ParseError{Format: "svg", Err: err}
	}
	vb := icon.ViewBox
	if vb.W <= 0 || vb.H <= 0 {
		return scene.ErrNoContent
	}
	w, h := placedSize(wMM, hMM, vb.W, vb.H)
	it := &scene.ImageObject{VectorSource: string(raw), W: w, H: h}
	it.X, it.Y = w/2, h/2
	return routeItem(sc, it, mode)
}

// placedSize resolves the -width/-height flags against the source
// extent. Sizes in the source are treated as 96 dpi pixels.
func placedSize(wMM, hMM, srcW, srcH float64) (w, h float64) {
	const mmPerPx = 25.4 / 96
	switch {
	case wMM > 0 && hMM > 0:
		return wMM, hMM
	case wMM > 0:
		return wMM, wMM * srcH / srcW
	case hMM > 0:
		return hMM * srcW / srcH, hMM
	}
	return srcW * mmPerPx, srcH * mmPerPx
}

// routeItem places an item on its home layer, or on a forced one.
func routeItem(sc *scene.Scene, it scene.CanvasItem, mode string) error {
	switch mode {
	case "scan":
		return sc.AddItemTo(it, layerWith(sc, scene.Scan).ID)
	case "engrave":
		return sc.AddItemTo(it, layerWith(sc, scene.Engrave).ID)
	}
	sc.AddItem(it)
	return nil
}

// layerWith returns the scene's layer for a method, creating it on
// first use.
func layerWith(sc *scene.Scene, method scene.PrintMethod) *scene.Layer {
	for _, l := range sc.Layers {
		if l.Method == method {
			return l
		}
	}
	name := "Engrave"
	if method == scene.Scan {
		name = "Scan"
	}
	l := scene.NewLayer(name, method)
	sc.Layers = append(sc.Layers, l)
	return l
}

// osHost backs the scene host bridge with the local filesystem.
type osHost struct {
	dir  string
	w, h float64
}

var _ scene.Host = osHost{}

func (h osHost) CanvasSize() (float64, float64) { return h.w, h.h }

func (h osHost) SaveOutput(name string, data []byte) error {
	return os.WriteFile(filepath.Join(h.dir, name), data, 0644)
}
