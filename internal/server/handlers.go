package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/wireframe-mcp/internal/canvas"
	wferrors "github.com/ironsheep/wireframe-mcp/internal/errors"
	"github.com/ironsheep/wireframe-mcp/internal/imaging"
	"github.com/ironsheep/wireframe-mcp/internal/ocr"
	"github.com/ironsheep/wireframe-mcp/internal/wireframe"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "wireframe_extract_elements").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
// Pipeline failures carry their error code and details in the error data.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	log := s.log.WithField("tool", params.Name)
	start := time.Now()

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		log.WithError(err).Warn("tool execution failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", errorData(err))
	}

	log.WithField("duration", time.Since(start)).Debug("tool executed")

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Extraction
	case "wireframe_extract_elements":
		return s.handleExtractElements(ctx, args)
	case "wireframe_preview":
		return s.handlePreview(ctx, args)

	// Documents
	case "wireframe_get_document":
		return s.handleGetDocument(args)
	case "wireframe_delete_document":
		return s.handleDeleteDocument(args)

	// Diagnostics
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "ocr_info":
		return ocr.GetInfo(s.pipeline.Config().OCR), nil

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message string, data interface{}) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// errorData returns the structured form of a pipeline error, or the plain
// error text.
func errorData(err error) interface{} {
	var pe *wferrors.PipelineError
	if errors.As(err, &pe) {
		return pe.ToMap()
	}
	return err.Error()
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Extraction Handlers ===

type extractArgs struct {
	Path        string `json:"path"`
	ImageBase64 string `json:"image_base64"`
	DocumentID  string `json:"document_id"`
}

// ExtractResult is returned by wireframe_extract_elements.
type ExtractResult struct {
	Document  *canvas.Document `json:"document"`
	Strategy  ocr.Strategy     `json:"text_strategy"`
	Blobs     int              `json:"blobs"`
	Fragments int              `json:"text_fragments"`
	Degraded  bool             `json:"degraded"`
	Warning   string           `json:"warning,omitempty"`
}

func (s *Server) handleExtractElements(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a extractArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	// Fail on an unknown document before doing any work.
	if a.DocumentID != "" {
		if _, err := s.store.Get(a.DocumentID); err != nil {
			return nil, fmt.Errorf("%w: %s", err, a.DocumentID)
		}
	}

	res, source, err := s.runExtraction(ctx, a)
	if err != nil {
		return nil, err
	}

	if a.DocumentID == "" {
		a.DocumentID = s.store.Create(source, res.CanvasWidth, res.CanvasHeight).ID
	} else if err := s.store.Resize(a.DocumentID, res.CanvasWidth, res.CanvasHeight); err != nil {
		return nil, fmt.Errorf("%w: %s", err, a.DocumentID)
	}
	doc, err := s.store.SetElements(a.DocumentID, res.Elements)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, a.DocumentID)
	}

	s.log.WithFields(logrus.Fields{
		"document": doc.ID,
		"source":   source,
		"elements": len(doc.Elements),
		"degraded": res.Degraded,
	}).Info("wireframe stored")

	return &ExtractResult{
		Document:  doc,
		Strategy:  res.Strategy,
		Blobs:     len(res.Blobs),
		Fragments: len(res.Fragments),
		Degraded:  res.Degraded,
		Warning:   res.Warning,
	}, nil
}

// runExtraction runs the pipeline on either a file path or inline base64
// data. Exactly one must be given.
func (s *Server) runExtraction(ctx context.Context, a extractArgs) (*wireframe.Result, string, error) {
	switch {
	case a.Path != "" && a.ImageBase64 != "":
		return nil, "", fmt.Errorf("path and image_base64 are mutually exclusive")
	case a.Path != "":
		img, err := s.cache.Load(a.Path)
		if err != nil {
			return nil, "", wferrors.NewDecodeError(a.Path, err)
		}
		res, err := s.pipeline.Run(ctx, img)
		return res, a.Path, err
	case a.ImageBase64 != "":
		data := base64.NewDecoder(base64.StdEncoding, strings.NewReader(a.ImageBase64))
		res, err := s.pipeline.RunReader(ctx, data, "image_base64")
		return res, "", err
	default:
		return nil, "", fmt.Errorf("one of path or image_base64 is required")
	}
}

type previewArgs struct {
	Path       string `json:"path"`
	DocumentID string `json:"document_id"`
	Labels     *bool  `json:"labels"`
	Thickness  int    `json:"thickness"`
}

// handlePreview overlays elements on the normalized image. With a
// document_id the stored elements are drawn over the document's source
// image, or over path when given; otherwise the image is extracted first.
func (s *Server) handlePreview(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a previewArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	var doc *canvas.Document
	if a.DocumentID != "" {
		var err error
		if doc, err = s.store.Get(a.DocumentID); err != nil {
			return nil, fmt.Errorf("%w: %s", err, a.DocumentID)
		}
		if a.Path == "" {
			a.Path = doc.Source
		}
	}
	if a.Path == "" {
		if doc != nil {
			return nil, fmt.Errorf("document %s has no source image; path is required", doc.ID)
		}
		return nil, fmt.Errorf("path is required")
	}

	opts := canvas.DefaultPreviewOptions()
	if a.Labels != nil {
		opts.Labels = *a.Labels
	}
	if a.Thickness > 0 {
		opts.Thickness = a.Thickness
	}

	cfg := s.pipeline.Config()
	buf, err := imaging.LoadNormalized(s.cache, a.Path, cfg.CanonicalWidth, cfg.MaxCanvasPixels)
	if err != nil {
		return nil, err
	}

	if doc != nil {
		if buf.Width != doc.CanvasWidth || buf.Height != doc.CanvasHeight {
			return nil, fmt.Errorf("%s normalizes to %dx%d but document %s is %dx%d",
				a.Path, buf.Width, buf.Height, doc.ID, doc.CanvasWidth, doc.CanvasHeight)
		}
		return canvas.RenderPreview(buf, doc.Plain(), opts)
	}

	res, err := s.pipeline.RunBuffer(ctx, buf)
	if err != nil {
		return nil, err
	}
	return canvas.RenderPreview(buf, res.Elements, opts)
}

// === Document Handlers ===

type documentArgs struct {
	DocumentID string `json:"document_id"`
}

func (s *Server) handleGetDocument(args json.RawMessage) (interface{}, error) {
	var a documentArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	doc, err := s.store.Get(a.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, a.DocumentID)
	}
	return doc, nil
}

func (s *Server) handleDeleteDocument(args json.RawMessage) (interface{}, error) {
	var a documentArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if err := s.store.Delete(a.DocumentID); err != nil {
		return nil, fmt.Errorf("%w: %s", err, a.DocumentID)
	}
	return map[string]interface{}{"deleted": a.DocumentID}, nil
}

// === Diagnostic Handlers ===

type pathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path, s.pipeline.Config().CanonicalWidth)
}
