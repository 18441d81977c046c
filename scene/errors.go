package scene

import "errors"

// ParseError reports a syntactically broken import source. The
// wrapped error carries the decoder detail.
type ParseError struct {
	Format string // "svg", "dxf" or "hpgl"
	Err    error
}

func (e *ParseError) Error() string { return e.Format + " import: " + e.Err.Error() }

func (e *ParseError) Unwrap() error { return e.Err }

// ErrNoContent reports a well-formed source with nothing drawable in
// it. Callers distinguish it from a parse failure: the file was fine,
// it just contained no usable shapes.
var ErrNoContent = errors.New("import: no drawable content")

// ErrMethodMismatch reports an attempt to place bitmap content on a
// vector layer.
var ErrMethodMismatch = errors.New("scene: bitmap content cannot join an engrave layer")

// ErrNoSuchLayer reports a layer ID the scene does not hold.
var ErrNoSuchLayer = errors.New("scene: no such layer")

// Skipped describes an input entity an importer recognized but did
// not convert. Importers collect these instead of failing, so callers
// can surface them.
type Skipped struct {
	Kind   string // source element or entity name
	Reason string
}

func (s Skipped) String() string { return s.Kind + ": " + s.Reason }
