package canvas

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/wireframe-mcp/internal/elements"
	wfimaging "github.com/ironsheep/wireframe-mcp/internal/imaging"
)

// PreviewResult is a rendered overlay of elements on the normalized image.
type PreviewResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	Elements    int    `json:"elements"`
}

// PreviewOptions control the overlay.
type PreviewOptions struct {
	// Thickness of element outlines in pixels.
	Thickness int
	// Labels draws each element's type at its top-left corner.
	Labels bool
}

// DefaultPreviewOptions returns 2px outlines with labels.
func DefaultPreviewOptions() PreviewOptions {
	return PreviewOptions{Thickness: 2, Labels: true}
}

// Hues per element type, spread around the wheel.
var typeHues = map[elements.Type]float64{
	elements.TypeContainer: 210,
	elements.TypeRectangle: 270,
	elements.TypeText:      0,
	elements.TypeInput:     120,
	elements.TypeImage:     30,
	elements.TypeButton:    300,
	elements.TypeCard:      180,
}

var labelBackground = color.NRGBA{0, 0, 0, 180}

// TypeColor returns the outline colour used for an element type. Unknown
// types are drawn in grey.
func TypeColor(t elements.Type) color.NRGBA {
	hue, ok := typeHues[t]
	if !ok {
		return color.NRGBA{128, 128, 128, 255}
	}
	return color.NRGBAModel.Convert(colorful.Hsv(hue, 0.85, 0.8)).(color.NRGBA)
}

// RenderPreview draws every element's outline, and optionally its type, over
// the normalized image and returns it as a base64 PNG. Elements are drawn in
// order, so later elements paint over earlier ones.
func RenderPreview(buf *wfimaging.PixelBuffer, els []elements.Element, opts PreviewOptions) (*PreviewResult, error) {
	if buf == nil || buf.Width == 0 || buf.Height == 0 {
		return nil, fmt.Errorf("empty canvas")
	}
	if opts.Thickness < 1 {
		opts.Thickness = 1
	}

	dst := buf.Image()

	for _, el := range els {
		col := TypeColor(el.Type)
		drawOutline(dst, el.X, el.Y, el.Width, el.Height, opts.Thickness, col)
	}
	if opts.Labels {
		for _, el := range els {
			drawLabel(dst, el.X+opts.Thickness, el.Y+opts.Thickness, string(el.Type), TypeColor(el.Type))
		}
	}

	var out bytes.Buffer
	if err := imaging.Encode(&out, dst, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}

	return &PreviewResult{
		Width:       buf.Width,
		Height:      buf.Height,
		ImageBase64: base64.StdEncoding.EncodeToString(out.Bytes()),
		MimeType:    "image/png",
		Elements:    len(els),
	}, nil
}

// drawOutline strokes the inside of the box (x, y)-(x+w, y+h), clipped to
// the image.
func drawOutline(dst *image.NRGBA, x, y, w, h, thickness int, col color.NRGBA) {
	outer := image.Rect(x, y, x+w+1, y+h+1).Intersect(dst.Bounds())
	if outer.Empty() {
		return
	}
	src := image.NewUniform(col)
	t := thickness

	// top, bottom, left, right
	for _, r := range []image.Rectangle{
		image.Rect(x, y, x+w+1, y+t),
		image.Rect(x, y+h+1-t, x+w+1, y+h+1),
		image.Rect(x, y, x+t, y+h+1),
		image.Rect(x+w+1-t, y, x+w+1, y+h+1),
	} {
		draw.Draw(dst, r.Intersect(outer), src, image.Point{}, draw.Src)
	}
}

// drawLabel draws text on a dark plate with its top-left corner at (x, y).
func drawLabel(dst *image.NRGBA, x, y int, text string, fg color.NRGBA) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(fg),
		Face: face,
	}

	plate := image.Rect(x, y, x+d.MeasureString(text).Ceil()+2, y+face.Height+2)
	draw.Draw(dst, plate.Intersect(dst.Bounds()), image.NewUniform(labelBackground), image.Point{}, draw.Over)

	d.Dot = fixed.P(x+1, y+1+face.Ascent)
	d.DrawString(text)
}
