package ocr

import (
	"context"
	"image"
)

// DefaultLanguage is the Tesseract language profile used for wireframe labels.
const DefaultLanguage = "eng"

// Bounds represents a rectangular bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// TextRegion is a line or word reported by an engine, with its location and
// confidence.
type TextRegion struct {
	// Text is the recognized text content.
	Text string `json:"text"`

	// Confidence is the engine's confidence score (0.0 to 1.0).
	Confidence float64 `json:"confidence"`

	// Bounds is the bounding box around this text in the image.
	Bounds Bounds `json:"bounds"`
}

// Recognition is everything one engine call produced. Engines differ in how
// much structure they return: Lines and Words may be empty even when Text is
// not.
type Recognition struct {
	// Text is the flat recognized text with the engine's line breaks.
	Text string `json:"text"`

	// Lines are text-line results with bounding boxes.
	Lines []TextRegion `json:"lines"`

	// Words are word results with bounding boxes.
	Words []TextRegion `json:"words"`
}

// Engine is a text-recognition capability.
//
// An Engine is acquired through an EngineFactory, used for a single
// Recognize call and then closed. Implementations own native resources, so
// Close must be called on every path.
type Engine interface {
	Recognize(ctx context.Context, img image.Image) (*Recognition, error)
	Close() error
}

// Options configures engine start-up.
type Options struct {
	// Language is the engine language profile, e.g. "eng".
	Language string `json:"language"`

	// TessdataPrefix overrides the directory holding traineddata files.
	// Empty means the engine default.
	TessdataPrefix string `json:"tessdata_prefix,omitempty"`
}

// DefaultOptions returns Options for the default language profile.
func DefaultOptions() Options {
	return Options{Language: DefaultLanguage}
}

// EngineFactory starts an engine. Start-up is the expensive step and may
// fail, e.g. when language data is missing.
type EngineFactory func(opts Options) (Engine, error)

// Info describes the availability of the OCR subsystem.
type Info struct {
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
	Error     string `json:"error,omitempty"`
	Backend   string `json:"backend"`
}
