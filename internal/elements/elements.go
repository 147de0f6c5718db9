// Package elements fuses detected shapes and recognized text into typed,
// positioned canvas elements.
//
// Output order encodes stacking: one full-canvas container first, then every
// shape-derived element in detection order, then every text element in
// recognition order, so text renders above the shapes that contain it.
package elements

import (
	"github.com/ironsheep/wireframe-mcp/internal/detection"
	"github.com/ironsheep/wireframe-mcp/internal/ocr"
)

// Type is the kind of a canvas element.
type Type string

const (
	TypeContainer Type = "container"
	TypeRectangle Type = "rectangle"
	TypeText      Type = "text"
	TypeInput     Type = "input"
	TypeImage     Type = "image"
	TypeButton    Type = "button"
	TypeCard      Type = "card"
)

// Property keys set on synthesized elements.
const (
	PropLabel      = "label"
	PropFontSize   = "fontSize"
	PropBackground = "backgroundColor"
)

// Element is one typed, positioned unit of the output document. Coordinates
// are in normalized image pixels.
type Element struct {
	Type       Type                   `json:"type"`
	X          int                    `json:"x"`
	Y          int                    `json:"y"`
	Width      int                    `json:"width"`
	Height     int                    `json:"height"`
	Content    string                 `json:"content,omitempty"`
	Properties map[string]interface{} `json:"properties"`
}

// Options are the classification constants used by Synthesize.
type Options struct {
	// MaxWidthRatio drops blobs wider than this fraction of the canvas; such
	// blobs are page borders, not widgets.
	MaxWidthRatio float64 `json:"max_width_ratio"`

	// InputAspectRatio: blobs with width/height above it become inputs.
	InputAspectRatio float64 `json:"input_aspect_ratio"`

	// ImageMaxArea: remaining blobs with area below it become images;
	// larger ones become containers.
	ImageMaxArea int `json:"image_max_area"`

	// FontSize is the font-size hint attached to text elements.
	FontSize int `json:"font_size"`

	// Background is the page background colour of the canvas container.
	Background string `json:"background"`
}

// DefaultOptions returns the reference classification constants.
func DefaultOptions() Options {
	return Options{
		MaxWidthRatio:    0.95,
		InputAspectRatio: 5,
		ImageMaxArea:     8000,
		FontSize:         18,
		Background:       "#ffffff",
	}
}

// Classify maps a blob's box to an element type:
// aspect ratio above InputAspectRatio is an input, otherwise area below
// ImageMaxArea is an image, otherwise a container. A zero height counts as
// an unbounded aspect ratio.
func (o Options) Classify(width, height int) Type {
	if height <= 0 || float64(width)/float64(height) > o.InputAspectRatio {
		return TypeInput
	}
	if width*height < o.ImageMaxArea {
		return TypeImage
	}
	return TypeContainer
}

// Synthesize builds the element list for a canvas of the given size.
//
// The result always starts with exactly one container at (0,0) spanning the
// canvas. Blobs wider than MaxWidthRatio*canvasWidth are skipped. Shape
// elements carry empty properties; text elements carry the text as content
// and as the label property, plus the font-size hint.
func Synthesize(canvasWidth, canvasHeight int, blobs []detection.Blob, fragments []ocr.TextFragment, opts Options) []Element {
	out := make([]Element, 0, 1+len(blobs)+len(fragments))

	out = append(out, Element{
		Type:   TypeContainer,
		X:      0,
		Y:      0,
		Width:  canvasWidth,
		Height: canvasHeight,
		Properties: map[string]interface{}{
			PropBackground: opts.Background,
		},
	})

	maxWidth := opts.MaxWidthRatio * float64(canvasWidth)
	for _, b := range blobs {
		if float64(b.Width) > maxWidth {
			continue
		}
		out = append(out, Element{
			Type:       opts.Classify(b.Width, b.Height),
			X:          b.X,
			Y:          b.Y,
			Width:      b.Width,
			Height:     b.Height,
			Properties: map[string]interface{}{},
		})
	}

	for _, f := range fragments {
		out = append(out, Element{
			Type:    TypeText,
			X:       f.X,
			Y:       f.Y,
			Width:   f.Width,
			Height:  f.Height,
			Content: f.Text,
			Properties: map[string]interface{}{
				PropLabel:    f.Text,
				PropFontSize: opts.FontSize,
			},
		})
	}

	return out
}
