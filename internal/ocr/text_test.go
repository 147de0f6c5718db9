package ocr

import (
	"context"
	"errors"
	"image"
	"reflect"
	"testing"

	wferrors "github.com/ironsheep/wireframe-mcp/internal/errors"
)

// fakeEngine returns a canned recognition and records its lifecycle.
type fakeEngine struct {
	rec        *Recognition
	err        error
	recognized int
	closed     int
}

func (f *fakeEngine) Recognize(ctx context.Context, img image.Image) (*Recognition, error) {
	f.recognized++
	if f.err != nil {
		return nil, f.err
	}
	return f.rec, nil
}

func (f *fakeEngine) Close() error {
	f.closed++
	return nil
}

func factoryFor(e *fakeEngine) EngineFactory {
	return func(opts Options) (Engine, error) {
		return e, nil
	}
}

func testImage() image.Image {
	return image.NewNRGBA(image.Rect(0, 0, 100, 100))
}

func region(text string, x1, y1, x2, y2 int) TextRegion {
	return TextRegion{Text: text, Confidence: 0.9, Bounds: Bounds{X1: x1, Y1: y1, X2: x2, Y2: y2}}
}

func TestFragments_LinesPreferred(t *testing.T) {
	rec := &Recognition{
		Text:  "Sign in\n\nRemember me",
		Lines: []TextRegion{region("Sign in\n", 40, 50, 160, 80), region("  ", 0, 0, 5, 5), region("Remember me", 40, 200, 260, 230)},
		Words: []TextRegion{region("Sign", 40, 50, 90, 80)},
	}

	frags, strategy := Fragments(rec, DefaultFallbackLayout())
	if strategy != StrategyLines {
		t.Errorf("strategy: got %s, want lines", strategy)
	}

	want := []TextFragment{
		{Text: "Sign in", X: 40, Y: 50, Width: 120, Height: 30},
		{Text: "Remember me", X: 40, Y: 200, Width: 220, Height: 30},
	}
	if !reflect.DeepEqual(frags, want) {
		t.Errorf("fragments:\n got %+v\nwant %+v", frags, want)
	}
}

func TestFragments_WordsWhenNoLines(t *testing.T) {
	rec := &Recognition{
		Lines: []TextRegion{region("", 0, 0, 10, 10)},
		Words: []TextRegion{region("Submit", 300, 400, 380, 430)},
	}

	frags, strategy := Fragments(rec, DefaultFallbackLayout())
	if strategy != StrategyWords {
		t.Errorf("strategy: got %s, want words", strategy)
	}
	if len(frags) != 1 || frags[0].Text != "Submit" || frags[0].Width != 80 {
		t.Errorf("fragments: got %+v", frags)
	}
}

func TestFragments_RawFallback(t *testing.T) {
	rec := &Recognition{Text: "Login\nPassword"}

	frags, strategy := Fragments(rec, DefaultFallbackLayout())
	if strategy != StrategyRaw {
		t.Errorf("strategy: got %s, want raw", strategy)
	}

	want := []TextFragment{
		{Text: "Login", X: 100, Y: 100, Width: 75, Height: 30},
		{Text: "Password", X: 100, Y: 160, Width: 120, Height: 30},
	}
	if !reflect.DeepEqual(frags, want) {
		t.Errorf("fragments:\n got %+v\nwant %+v", frags, want)
	}
}

func TestFragments_RawFallbackSkipsBlankLines(t *testing.T) {
	rec := &Recognition{Text: "\r\nName\r\n   \n\nÉmail\n"}

	frags, _ := Fragments(rec, DefaultFallbackLayout())
	if len(frags) != 2 {
		t.Fatalf("got %d fragments, want 2: %+v", len(frags), frags)
	}
	if frags[0].Text != "Name" || frags[0].Y != 100 {
		t.Errorf("first: got %+v", frags[0])
	}
	// Width counts characters, not bytes.
	if frags[1].Text != "Émail" || frags[1].Y != 160 || frags[1].Width != 75 {
		t.Errorf("second: got %+v", frags[1])
	}
}

func TestFragments_Empty(t *testing.T) {
	tests := []struct {
		name string
		rec  *Recognition
	}{
		{"nil", nil},
		{"nothing", &Recognition{}},
		{"whitespace only", &Recognition{Text: " \n\t\n", Lines: []TextRegion{region(" ", 0, 0, 1, 1)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frags, strategy := Fragments(tt.rec, DefaultFallbackLayout())
			if strategy != StrategyNone {
				t.Errorf("strategy: got %s, want none", strategy)
			}
			if frags == nil || len(frags) != 0 {
				t.Errorf("fragments: got %#v, want empty", frags)
			}
		})
	}
}

func TestFragments_InvertedBoxClamped(t *testing.T) {
	rec := &Recognition{Lines: []TextRegion{region("odd", 50, 50, 40, 45)}}

	frags, _ := Fragments(rec, DefaultFallbackLayout())
	if frags[0].Width != 0 || frags[0].Height != 0 {
		t.Errorf("inverted box should clamp to zero size: %+v", frags[0])
	}
}

func TestExtractText_ClosesEngine(t *testing.T) {
	engine := &fakeEngine{rec: &Recognition{Text: "Login\nPassword"}}

	result, err := ExtractText(context.Background(), factoryFor(engine), DefaultOptions(), testImage(), DefaultFallbackLayout())
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if result.Strategy != StrategyRaw || len(result.Fragments) != 2 {
		t.Errorf("result: got %+v", result)
	}
	if engine.recognized != 1 {
		t.Errorf("Recognize called %d times, want 1", engine.recognized)
	}
	if engine.closed != 1 {
		t.Errorf("Close called %d times, want 1", engine.closed)
	}
}

func TestExtractText_RecognizeFailure(t *testing.T) {
	engine := &fakeEngine{err: errors.New("worker crashed")}

	_, err := ExtractText(context.Background(), factoryFor(engine), DefaultOptions(), testImage(), DefaultFallbackLayout())
	if !wferrors.IsRecognitionError(err) {
		t.Fatalf("got %v, want recognition error", err)
	}
	if engine.closed != 1 {
		t.Errorf("engine not closed after failure: closed=%d", engine.closed)
	}
}

func TestExtractText_InitFailure(t *testing.T) {
	failing := func(opts Options) (Engine, error) {
		return nil, errors.New("missing traineddata")
	}

	_, err := ExtractText(context.Background(), failing, DefaultOptions(), testImage(), DefaultFallbackLayout())
	if !wferrors.IsRecognitionError(err) {
		t.Errorf("got %v, want recognition error", err)
	}
}

func TestExtractText_NilEngine(t *testing.T) {
	noEngine := func(opts Options) (Engine, error) {
		return nil, nil
	}

	_, err := ExtractText(context.Background(), noEngine, DefaultOptions(), testImage(), DefaultFallbackLayout())
	if !wferrors.IsRecognitionError(err) {
		t.Errorf("got %v, want recognition error", err)
	}
}

func TestExtractText_PassesOptions(t *testing.T) {
	var got Options
	engine := &fakeEngine{rec: &Recognition{}}
	factory := func(opts Options) (Engine, error) {
		got = opts
		return engine, nil
	}

	want := Options{Language: "deu", TessdataPrefix: "/opt/tessdata"}
	if _, err := ExtractText(context.Background(), factory, want, testImage(), DefaultFallbackLayout()); err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if got != want {
		t.Errorf("options: got %+v, want %+v", got, want)
	}
}

func TestExtractText_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	started := false
	factory := func(opts Options) (Engine, error) {
		started = true
		return &fakeEngine{}, nil
	}

	_, err := ExtractText(ctx, factory, DefaultOptions(), testImage(), DefaultFallbackLayout())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
	if started {
		t.Error("engine should not be started for a cancelled context")
	}
}

// cancellingEngine cancels the context mid-recognition and fails.
type cancellingEngine struct {
	fakeEngine
	cancel context.CancelFunc
}

func (c *cancellingEngine) Recognize(ctx context.Context, img image.Image) (*Recognition, error) {
	c.cancel()
	return nil, errors.New("interrupted")
}

func TestExtractText_CancelledDuringRecognition(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine := &cancellingEngine{cancel: cancel}
	factory := func(opts Options) (Engine, error) {
		return engine, nil
	}

	_, err := ExtractText(ctx, factory, DefaultOptions(), testImage(), DefaultFallbackLayout())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
	if wferrors.IsRecognitionError(err) {
		t.Error("cancellation should not be reported as a recognition error")
	}
	if engine.closed != 1 {
		t.Errorf("engine not closed after cancellation: closed=%d", engine.closed)
	}
}
