//go:build ocr

package ocr

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// drawText draws text on an image using basicfont
func drawText(img *image.RGBA, x, y int, text string, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

// createLabelImage renders lines of text and scales them up so Tesseract can
// read the bitmap font.
func createLabelImage(lines []string, scale int) *image.RGBA {
	maxLen := 0
	for _, line := range lines {
		if len(line) > maxLen {
			maxLen = len(line)
		}
	}

	small := image.NewRGBA(image.Rect(0, 0, maxLen*7+40, len(lines)*20+30))
	draw.Draw(small, small.Bounds(), image.White, image.Point{}, draw.Src)
	for i, line := range lines {
		drawText(small, 20, 25+i*20, line, color.Black)
	}

	b := small.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := small.At(x, y)
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					img.Set(x*scale+dx, y*scale+dy, c)
				}
			}
		}
	}
	return img
}

func TestTesseract_Recognize(t *testing.T) {
	engine, err := NewTesseract(DefaultOptions())
	if err != nil {
		t.Skipf("Tesseract not available: %v", err)
	}
	defer engine.Close()

	rec, err := engine.Recognize(context.Background(), createLabelImage([]string{"LOGIN"}, 4))
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}

	if !strings.Contains(strings.ToUpper(rec.Text), "LOGIN") {
		t.Errorf("Text: got %q, want it to contain LOGIN", rec.Text)
	}
	if len(rec.Lines) == 0 && len(rec.Words) == 0 {
		t.Error("expected line or word boxes")
	}
}

func TestTesseract_InvalidLanguage(t *testing.T) {
	engine, err := NewTesseract(Options{Language: "not_a_real_language_xyz"})
	if err == nil {
		engine.Close()
		t.Skip("engine accepted unknown language; validation happens at recognition time")
	}
}

func TestGetInfo(t *testing.T) {
	info := GetInfo(DefaultOptions())
	if !info.Available {
		t.Fatalf("default language should be usable: %+v", info)
	}
	if info.Backend != "gosseract" || info.Version == "" {
		t.Errorf("info: got %+v", info)
	}

	missing := GetInfo(Options{Language: "not_a_real_language_xyz"})
	if missing.Available {
		t.Error("unknown language should be reported unavailable")
	}
	if missing.Error == "" {
		t.Error("Info should explain why OCR is unavailable")
	}
}

func TestExtractText_MultiLine(t *testing.T) {
	img := createLabelImage([]string{"EMAIL", "PASSWORD"}, 4)

	result, err := ExtractText(context.Background(), NewTesseract, DefaultOptions(), img, DefaultFallbackLayout())
	if err != nil {
		t.Skipf("Tesseract not available: %v", err)
	}

	if result.Strategy != StrategyLines {
		t.Logf("strategy %s used instead of lines", result.Strategy)
	}
	if len(result.Fragments) == 0 {
		t.Fatal("expected at least one fragment")
	}
	for _, f := range result.Fragments {
		if f.Width < 0 || f.Height < 0 {
			t.Errorf("negative size in %+v", f)
		}
	}
}
