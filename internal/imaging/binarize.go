package imaging

import "math"

// DefaultThreshold is the luminance below which a pixel counts as ink.
// The value 180 was chosen empirically for pencil and marker sketches on
// white paper; it is a default, not a law.
const DefaultThreshold = 180

// BT.601 luma weights.
const (
	lumaRed   = 0.299
	lumaGreen = 0.587
	lumaBlue  = 0.114
)

// GrayscaleMap holds one luminance sample (0-255) per pixel, row-major.
type GrayscaleMap struct {
	Width  int
	Height int
	Pix    []uint8
}

// BinaryMask holds one value per pixel, row-major: 1 for foreground (dark
// ink) and 0 for background.
type BinaryMask struct {
	Width  int
	Height int
	Bits   []uint8
}

// NewBinaryMask returns an all-background mask of the given size.
func NewBinaryMask(width, height int) *BinaryMask {
	return &BinaryMask{
		Width:  width,
		Height: height,
		Bits:   make([]uint8, width*height),
	}
}

// At reports whether (x, y) is foreground. Out-of-range coordinates are
// background.
func (m *BinaryMask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Bits[y*m.Width+x] == 1
}

// Set marks (x, y) as foreground. Out-of-range coordinates are ignored.
func (m *BinaryMask) Set(x, y int) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return
	}
	m.Bits[y*m.Width+x] = 1
}

// Count returns the number of foreground pixels.
func (m *BinaryMask) Count() int {
	n := 0
	for _, v := range m.Bits {
		n += int(v)
	}
	return n
}

// ToGrayscale converts a PixelBuffer to luminance using
// Y = 0.299*R + 0.587*G + 0.114*B, rounded to the nearest integer.
// Alpha is ignored.
func ToGrayscale(b *PixelBuffer) *GrayscaleMap {
	n := b.Width * b.Height
	gray := &GrayscaleMap{
		Width:  b.Width,
		Height: b.Height,
		Pix:    make([]uint8, n),
	}
	for i := 0; i < n; i++ {
		p := b.Pix[i*4 : i*4+4 : i*4+4]
		gray.Pix[i] = luminance(p[0], p[1], p[2])
	}
	return gray
}

func luminance(r, g, b uint8) uint8 {
	y := math.Round(lumaRed*float64(r) + lumaGreen*float64(g) + lumaBlue*float64(b))
	if y > 255 {
		return 255
	}
	return uint8(y)
}

// Threshold binarizes a grayscale map: mask[i] = 1 if gray[i] < t, else 0.
//
// t is the single global cutoff (see DefaultThreshold). A t of 0 yields an
// empty mask; a t above 255 marks every pixel as foreground.
func Threshold(g *GrayscaleMap, t int) *BinaryMask {
	mask := NewBinaryMask(g.Width, g.Height)
	for i, v := range g.Pix {
		if int(v) < t {
			mask.Bits[i] = 1
		}
	}
	return mask
}

// Binarize is ToGrayscale followed by Threshold.
func Binarize(b *PixelBuffer, t int) *BinaryMask {
	return Threshold(ToGrayscale(b), t)
}
