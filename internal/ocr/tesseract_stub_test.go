//go:build !ocr

package ocr

import (
	"context"
	"errors"
	"image"
	"testing"

	wferrors "github.com/ironsheep/wireframe-mcp/internal/errors"
)

func TestNewTesseractReturnsError(t *testing.T) {
	engine, err := NewTesseract(DefaultOptions())
	if !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("Expected ErrOCRNotEnabled, got: %v", err)
	}
	if engine != nil {
		t.Error("Expected nil engine when OCR is disabled")
	}
}

func TestCloseOnNilTesseract(t *testing.T) {
	var engine *Tesseract
	if err := engine.Close(); err != nil {
		t.Errorf("Close on nil engine should not error: %v", err)
	}
}

func TestGetInfo_Unavailable(t *testing.T) {
	info := GetInfo(DefaultOptions())
	if info.Available {
		t.Error("OCR should be unavailable without the ocr tag")
	}
	if info.Error == "" {
		t.Error("Info should explain why OCR is unavailable")
	}
}

func TestExtractText_StubIsRecognitionError(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	_, err := ExtractText(context.Background(), NewTesseract, DefaultOptions(), img, DefaultFallbackLayout())
	if !wferrors.IsRecognitionError(err) {
		t.Errorf("got %v, want recognition error", err)
	}
	if !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("cause should be ErrOCRNotEnabled: %v", err)
	}
}
