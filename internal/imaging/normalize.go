package imaging

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"

	wferrors "github.com/ironsheep/wireframe-mcp/internal/errors"
)

// DefaultCanonicalWidth is the working width every input is scaled to.
const DefaultCanonicalWidth = 1000

// DefaultMaxCanvasPixels caps the normalized canvas at 1000×20000. Very
// narrow sources scale to very tall canvases; beyond this they are rejected.
const DefaultMaxCanvasPixels = 20_000_000

// PixelBuffer is a normalized RGBA raster with its origin at (0,0).
//
// Pix holds Width*Height*4 bytes in row-major R,G,B,A order with no row
// padding. Every pixel is fully opaque: transparent source areas are
// flattened onto white during normalization. A PixelBuffer is never mutated
// after Normalize returns it.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// RGBA returns the channels of the pixel at (x, y). Coordinates must lie
// inside the buffer.
func (b *PixelBuffer) RGBA(x, y int) (r, g, bl, a uint8) {
	i := (y*b.Width + x) * 4
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3]
}

// Image returns a copy of the buffer as an *image.NRGBA, suitable for
// encoding or handing to a text-recognition engine.
func (b *PixelBuffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	copy(img.Pix, b.Pix)
	return img
}

// Normalize flattens img onto a white background and scales it so its width
// equals targetWidth, preserving aspect ratio.
//
// The output height is round(originalHeight * targetWidth / originalWidth),
// never less than 1. The source image is not modified. maxPixels bounds
// targetWidth × height; zero or less means DefaultMaxCanvasPixels.
//
// # Errors
//
//   - Returns a DECODE_FAILED error if img is nil or has no pixels
//   - Returns a DECODE_FAILED error if the canvas would exceed maxPixels
//   - Returns an error if targetWidth is not positive
func Normalize(img image.Image, targetWidth, maxPixels int) (*PixelBuffer, error) {
	if targetWidth <= 0 {
		return nil, fmt.Errorf("invalid canonical width %d: must be positive", targetWidth)
	}
	if img == nil {
		return nil, wferrors.NewDecodeError("image", fmt.Errorf("nil image"))
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, wferrors.NewDecodeError("image", fmt.Errorf("image has no pixels (%dx%d)", bounds.Dx(), bounds.Dy()))
	}

	if maxPixels <= 0 {
		maxPixels = DefaultMaxCanvasPixels
	}
	targetHeight := ScaledHeight(bounds.Dx(), bounds.Dy(), targetWidth)
	if int64(targetWidth)*int64(targetHeight) > int64(maxPixels) {
		return nil, wferrors.NewDecodeError("image", fmt.Errorf(
			"%dx%d source scales to a %dx%d canvas, above the %d pixel limit",
			bounds.Dx(), bounds.Dy(), targetWidth, targetHeight, maxPixels))
	}

	// Clone first so the overlay always works from a zero-origin image.
	src := imaging.Clone(img)
	background := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	flat := imaging.Overlay(background, src, image.Pt(0, 0), 1.0)

	resized := imaging.Resize(flat, targetWidth, targetHeight, imaging.Linear)

	return fromNRGBA(resized), nil
}

// ScaledHeight computes the normalized height for an image of the given
// size scaled to targetWidth.
func ScaledHeight(width, height, targetWidth int) int {
	h := int(math.Round(float64(height) * (float64(targetWidth) / float64(width))))
	if h < 1 {
		h = 1
	}
	return h
}

// DecodeNormalized decodes an image from r and normalizes it.
//
// source names the input in error messages (a path, or "upload"). EXIF
// orientation is honoured so photographed sketches come out upright.
func DecodeNormalized(r io.Reader, source string, targetWidth, maxPixels int) (*PixelBuffer, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, wferrors.NewDecodeError(source, err)
	}
	return Normalize(img, targetWidth, maxPixels)
}

// LoadNormalized loads path through the cache and normalizes it.
func LoadNormalized(cache *ImageCache, path string, targetWidth, maxPixels int) (*PixelBuffer, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, wferrors.NewDecodeError(path, err)
	}
	return Normalize(img, targetWidth, maxPixels)
}

// Denoise returns a Gaussian-blurred copy of the buffer. A radius of zero or
// less returns the buffer unchanged.
//
// Blurring softens pencil texture and scanner speckle in photographed
// sketches before thresholding. It is off by default.
func Denoise(b *PixelBuffer, radius float64) *PixelBuffer {
	if radius <= 0 {
		return b
	}
	blurred := blur.Gaussian(b.Image(), radius)
	return fromNRGBA(imaging.Clone(blurred))
}

// fromNRGBA copies img into a tightly packed PixelBuffer.
func fromNRGBA(img *image.NRGBA) *PixelBuffer {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pix := make([]uint8, w*h*4)
	for y := 0; y < h; y++ {
		srcOff := y * img.Stride
		copy(pix[y*w*4:(y+1)*w*4], img.Pix[srcOff:srcOff+w*4])
	}
	return &PixelBuffer{Width: w, Height: h, Pix: pix}
}
