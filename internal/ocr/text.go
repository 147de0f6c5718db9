package ocr

import (
	"context"
	"errors"
	"image"
	"strings"
	"unicode/utf8"

	wferrors "github.com/ironsheep/wireframe-mcp/internal/errors"
)

// TextFragment is a recognized text run anchored to a box in normalized
// image space.
type TextFragment struct {
	Text   string `json:"text"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Strategy names which tier of the fallback chain produced the fragments.
type Strategy string

const (
	StrategyLines Strategy = "lines"
	StrategyWords Strategy = "words"
	StrategyRaw   Strategy = "raw"
	StrategyNone  Strategy = "none"
)

// FallbackLayout places raw-text lines when the engine returned no geometry.
// Line i (counting only non-blank lines) is placed at
// (Left, Top + i*Pitch) with width CharWidth*runeCount and height LineHeight.
type FallbackLayout struct {
	Left       int `json:"left"`
	Top        int `json:"top"`
	Pitch      int `json:"pitch"`
	CharWidth  int `json:"char_width"`
	LineHeight int `json:"line_height"`
}

// DefaultFallbackLayout matches the layout used for flat engine output.
func DefaultFallbackLayout() FallbackLayout {
	return FallbackLayout{Left: 100, Top: 100, Pitch: 60, CharWidth: 15, LineHeight: 30}
}

// TextResult is the output of ExtractText.
type TextResult struct {
	Fragments []TextFragment `json:"fragments"`
	Strategy  Strategy       `json:"strategy"`
}

// ExtractText acquires an engine, runs one recognition over img and turns
// the output into fragments with Fragments.
//
// The engine is closed before returning on every path. If ctx is already
// done, no engine is started and ctx.Err() is returned.
//
// # Errors
//
//   - ctx.Err() when the context is cancelled before or during recognition
//   - RECOGNITION_FAILED when the engine cannot start or recognition fails
func ExtractText(ctx context.Context, open EngineFactory, opts Options, img image.Image, layout FallbackLayout) (*TextResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	engine, err := open(opts)
	if err != nil {
		return nil, wferrors.NewRecognitionError("init", err)
	}
	if engine == nil {
		return nil, wferrors.NewRecognitionError("init", errors.New("no engine"))
	}
	defer engine.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rec, err := engine.Recognize(ctx, img)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, wferrors.NewRecognitionError("recognize", err)
	}

	fragments, strategy := Fragments(rec, layout)
	return &TextResult{Fragments: fragments, Strategy: strategy}, nil
}

// Fragments applies the fallback chain to a recognition, first match wins:
//
//  1. lines: one fragment per non-blank line, at its reported box
//  2. words: the same at word granularity
//  3. raw: the flat text split on line breaks, blank lines dropped, each
//     remaining line placed by layout
//
// Fragment text is whitespace-trimmed. A nil recognition or one with no
// usable text yields no fragments and StrategyNone.
func Fragments(rec *Recognition, layout FallbackLayout) ([]TextFragment, Strategy) {
	if rec == nil {
		return []TextFragment{}, StrategyNone
	}
	if frags := fromRegions(rec.Lines); len(frags) > 0 {
		return frags, StrategyLines
	}
	if frags := fromRegions(rec.Words); len(frags) > 0 {
		return frags, StrategyWords
	}
	if frags := fromRawText(rec.Text, layout); len(frags) > 0 {
		return frags, StrategyRaw
	}
	return []TextFragment{}, StrategyNone
}

func fromRegions(regions []TextRegion) []TextFragment {
	frags := make([]TextFragment, 0, len(regions))
	for _, r := range regions {
		text := strings.TrimSpace(r.Text)
		if text == "" {
			continue
		}
		frags = append(frags, TextFragment{
			Text:   text,
			X:      r.Bounds.X1,
			Y:      r.Bounds.Y1,
			Width:  nonNegative(r.Bounds.X2 - r.Bounds.X1),
			Height: nonNegative(r.Bounds.Y2 - r.Bounds.Y1),
		})
	}
	return frags
}

func fromRawText(text string, layout FallbackLayout) []TextFragment {
	frags := make([]TextFragment, 0)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		frags = append(frags, TextFragment{
			Text:   line,
			X:      layout.Left,
			Y:      layout.Top + len(frags)*layout.Pitch,
			Width:  nonNegative(utf8.RuneCountInString(line) * layout.CharWidth),
			Height: nonNegative(layout.LineHeight),
		})
	}
	return frags
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
