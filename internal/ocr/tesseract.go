//go:build ocr

package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract is an Engine backed by a native Tesseract client.
type Tesseract struct {
	client *gosseract.Client
}

// NewTesseract starts a Tesseract client configured for opts. It matches
// EngineFactory.
//
// The client is closed if configuration fails, so a returned error never
// leaks a native handle.
func NewTesseract(opts Options) (Engine, error) {
	client := gosseract.NewClient()

	if opts.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(opts.TessdataPrefix); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}

	language := opts.Language
	if language == "" {
		language = DefaultLanguage
	}
	if err := client.SetLanguage(language); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set language: %w", err)
	}

	return &Tesseract{client: client}, nil
}

// Recognize runs Tesseract over img and collects the flat text plus line and
// word boxes.
//
// Box extraction failures are not fatal: the corresponding slice is left
// empty so the caller can fall back to a coarser strategy.
func (t *Tesseract) Recognize(ctx context.Context, img image.Image) (*Recognition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	if err := t.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := t.client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	rec := &Recognition{
		Text:  text,
		Lines: []TextRegion{},
		Words: []TextRegion{},
	}

	if boxes, err := t.client.GetBoundingBoxes(gosseract.RIL_TEXTLINE); err == nil {
		rec.Lines = toRegions(boxes)
	}
	if boxes, err := t.client.GetBoundingBoxes(gosseract.RIL_WORD); err == nil {
		rec.Words = toRegions(boxes)
	}

	return rec, nil
}

// Close releases the native client.
func (t *Tesseract) Close() error {
	if t.client != nil {
		return t.client.Close()
	}
	return nil
}

func toRegions(boxes []gosseract.BoundingBox) []TextRegion {
	regions := make([]TextRegion, 0, len(boxes))
	for _, box := range boxes {
		regions = append(regions, TextRegion{
			Text:       box.Word,
			Confidence: float64(box.Confidence) / 100.0,
			Bounds: Bounds{
				X1: box.Box.Min.X,
				Y1: box.Box.Min.Y,
				X2: box.Box.Max.X,
				Y2: box.Box.Max.Y,
			},
		})
	}
	return regions
}

// GetInfo reports whether Tesseract can be started with opts and can read
// a blank page.
func GetInfo(opts Options) Info {
	client := gosseract.NewClient()
	version := client.Version()
	client.Close()

	info := Info{
		Available: true,
		Version:   version,
		Backend:   "gosseract",
	}

	engine, err := NewTesseract(opts)
	if err != nil {
		info.Available = false
		info.Error = err.Error()
		return info
	}
	defer engine.Close()

	blank := image.NewGray(image.Rect(0, 0, 32, 32))
	for i := range blank.Pix {
		blank.Pix[i] = 0xff
	}
	if _, err := engine.Recognize(context.Background(), blank); err != nil {
		info.Available = false
		info.Error = err.Error()
	}
	return info
}
