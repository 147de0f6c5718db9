//go:build !ocr

package ocr

import (
	"context"
	"errors"
	"image"
)

// ErrOCRNotEnabled is returned when OCR support was not compiled in.
// Rebuild with -tags ocr to enable it.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// Tesseract is a stub engine used when the "ocr" build tag is not set.
type Tesseract struct{}

// NewTesseract always fails with ErrOCRNotEnabled. It matches EngineFactory.
func NewTesseract(opts Options) (Engine, error) {
	return nil, ErrOCRNotEnabled
}

// Recognize returns ErrOCRNotEnabled.
func (t *Tesseract) Recognize(ctx context.Context, img image.Image) (*Recognition, error) {
	return nil, ErrOCRNotEnabled
}

// Close is a no-op. It is safe to call on a nil engine.
func (t *Tesseract) Close() error {
	return nil
}

// GetInfo reports that OCR is unavailable in this build.
func GetInfo(opts Options) Info {
	return Info{
		Available: false,
		Error:     ErrOCRNotEnabled.Error(),
		Backend:   "none",
	}
}
