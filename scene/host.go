package scene

// Host is the bridge to the embedding application. The scene never
// touches the filesystem or the display; the host decides where
// outputs land and how large the canvas is.
type Host interface {
	// CanvasSize returns the drawable area in millimeters.
	CanvasSize() (w, h float64)
	// SaveOutput hands a finished artifact to the host under the
	// given file name.
	SaveOutput(name string, data []byte) error
}
