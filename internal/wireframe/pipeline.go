// Package wireframe turns a photographed or scanned UI sketch into a flat,
// ordered list of typed canvas elements.
//
// The pipeline normalizes the image to a canonical width, then runs two
// independent branches over it: binarization plus connected-component blob
// extraction, and text recognition with a three-tier fallback. Both outputs
// are fused into elements by the elements package.
//
// A Pipeline holds only configuration. Each call owns its buffers, so a
// single Pipeline may be used from many goroutines.
package wireframe

import (
	"context"
	"fmt"
	"image"
	"io"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/wireframe-mcp/internal/detection"
	"github.com/ironsheep/wireframe-mcp/internal/elements"
	wferrors "github.com/ironsheep/wireframe-mcp/internal/errors"
	"github.com/ironsheep/wireframe-mcp/internal/imaging"
	"github.com/ironsheep/wireframe-mcp/internal/ocr"
)

// Config is every tunable of the pipeline. The pipeline reads nothing from
// the environment; see the config package for loading these values.
type Config struct {
	// CanonicalWidth is the width every image is scaled to (1000).
	CanonicalWidth int `json:"canonical_width"`

	// Threshold is the luminance cutoff for ink (180).
	Threshold int `json:"threshold"`

	// MaxCanvasPixels rejects images whose normalized canvas would hold more
	// pixels than this.
	MaxCanvasPixels int `json:"max_canvas_pixels"`

	// BlurRadius applies a Gaussian denoise before thresholding. Zero
	// disables it.
	BlurRadius float64 `json:"blur_radius"`

	Blobs    detection.BlobFilter `json:"blobs"`
	Elements elements.Options     `json:"elements"`
	OCR      ocr.Options          `json:"ocr"`
	Fallback ocr.FallbackLayout   `json:"fallback"`
}

// DefaultConfig returns the reference configuration.
func DefaultConfig() Config {
	return Config{
		CanonicalWidth:  imaging.DefaultCanonicalWidth,
		Threshold:       imaging.DefaultThreshold,
		MaxCanvasPixels: imaging.DefaultMaxCanvasPixels,
		Blobs:           detection.DefaultBlobFilter(),
		Elements:        elements.DefaultOptions(),
		OCR:             ocr.DefaultOptions(),
		Fallback:        ocr.DefaultFallbackLayout(),
	}
}

// Result is the full output of one pipeline run.
type Result struct {
	CanvasWidth  int                `json:"canvas_width"`
	CanvasHeight int                `json:"canvas_height"`
	Elements     []elements.Element `json:"elements"`

	Blobs     []detection.Blob   `json:"blobs"`
	Fragments []ocr.TextFragment `json:"fragments"`
	Strategy  ocr.Strategy       `json:"strategy"`

	// Degraded is set when text recognition failed and the result holds
	// shapes only. Warning carries the failure text.
	Degraded bool   `json:"degraded"`
	Warning  string `json:"warning,omitempty"`
}

// Pipeline runs extraction with a fixed configuration.
type Pipeline struct {
	cfg     Config
	engines ocr.EngineFactory
	log     logrus.FieldLogger
}

// New creates a pipeline. engines starts a text-recognition engine for each
// run; log receives diagnostics.
func New(cfg Config, engines ocr.EngineFactory, log logrus.FieldLogger) *Pipeline {
	return &Pipeline{cfg: cfg, engines: engines, log: log}
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// ExtractElements decodes an image from r and returns its elements.
//
// # Errors
//
//   - DECODE_FAILED when r does not hold a decodable image or its canvas
//     would exceed MaxCanvasPixels; nothing else runs
//   - ctx.Err() when ctx is cancelled before text recognition finishes
//
// A text-recognition failure is not returned; the elements then contain
// shapes only. Use Run to observe it.
func (p *Pipeline) ExtractElements(ctx context.Context, r io.Reader) ([]elements.Element, error) {
	res, err := p.RunReader(ctx, r, "upload")
	if err != nil {
		return nil, err
	}
	return res.Elements, nil
}

// RunReader decodes an image from r and runs the pipeline over it. source
// names the input in decode errors.
func (p *Pipeline) RunReader(ctx context.Context, r io.Reader, source string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	buf, err := imaging.DecodeNormalized(r, source, p.cfg.CanonicalWidth, p.cfg.MaxCanvasPixels)
	if err != nil {
		return nil, err
	}
	return p.RunBuffer(ctx, buf)
}

// Run normalizes an already decoded image and runs the pipeline over it.
func (p *Pipeline) Run(ctx context.Context, img image.Image) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	buf, err := imaging.Normalize(img, p.cfg.CanonicalWidth, p.cfg.MaxCanvasPixels)
	if err != nil {
		return nil, err
	}
	return p.RunBuffer(ctx, buf)
}

// RunBuffer runs both detection branches over a normalized buffer and fuses
// their outputs.
//
// Blob extraction and text recognition run concurrently. Blob extraction has
// no suspension points; only recognition waits on the engine.
func (p *Pipeline) RunBuffer(ctx context.Context, buf *imaging.PixelBuffer) (*Result, error) {
	log := p.log.WithFields(logrus.Fields{
		"canvas_width":  buf.Width,
		"canvas_height": buf.Height,
	})

	res := &Result{
		CanvasWidth:  buf.Width,
		CanvasHeight: buf.Height,
		Strategy:     ocr.StrategyNone,
		Fragments:    []ocr.TextFragment{},
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		mask := imaging.Binarize(imaging.Denoise(buf, p.cfg.BlurRadius), p.cfg.Threshold)
		res.Blobs = detection.ExtractBlobs(mask, p.cfg.Blobs)
		return nil
	})

	g.Go(func() error {
		text, err := ocr.ExtractText(gctx, p.engines, p.cfg.OCR, buf.Image(), p.cfg.Fallback)
		if err != nil {
			if wferrors.IsRecognitionError(err) {
				log.WithError(err).Warn("text recognition failed, continuing with shapes only")
				res.Degraded = true
				res.Warning = err.Error()
				return nil
			}
			return err
		}
		res.Fragments = text.Fragments
		res.Strategy = text.Strategy
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("extraction aborted: %w", err)
	}

	res.Elements = elements.Synthesize(buf.Width, buf.Height, res.Blobs, res.Fragments, p.cfg.Elements)

	log.WithFields(logrus.Fields{
		"blobs":     len(res.Blobs),
		"fragments": len(res.Fragments),
		"strategy":  res.Strategy,
		"elements":  len(res.Elements),
	}).Debug("wireframe extracted")

	return res, nil
}
