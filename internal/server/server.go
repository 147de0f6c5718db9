package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/wireframe-mcp/internal/canvas"
	"github.com/ironsheep/wireframe-mcp/internal/imaging"
	"github.com/ironsheep/wireframe-mcp/internal/wireframe"
)

// ServerName is reported in the initialize handshake.
const ServerName = "wireframe-mcp"

// maxRequestSize bounds one JSON-RPC line. Inline base64 images make
// requests much larger than plain tool calls.
const maxRequestSize = 32 * 1024 * 1024

// Server handles MCP protocol communication
type Server struct {
	cache    *imaging.ImageCache
	pipeline *wireframe.Pipeline
	store    *canvas.Store
	log      logrus.FieldLogger
	version  string
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a server that extracts with pipeline and keeps documents in
// store.
func New(pipeline *wireframe.Pipeline, store *canvas.Store, log logrus.FieldLogger) *Server {
	return &Server{
		cache:    imaging.NewImageCache(),
		pipeline: pipeline,
		store:    store,
		log:      log,
		version:  "dev",
	}
}

// WithVersion sets the version reported to clients.
func (s *Server) WithVersion(version string) *Server {
	s.version = version
	return s
}

// Run reads one JSON-RPC request per line from in and writes responses to
// out until in is exhausted or ctx is cancelled. Cancellation is observed
// while a read is blocked; the reader goroutine is then left to finish on
// its own when in is closed.
func (s *Server) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	lines := make(chan []byte)
	errc := make(chan error, 1)
	go scanLines(ctx, in, lines, errc)

	encoder := json.NewEncoder(out)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var line []byte
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				err := <-errc
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				if err != nil {
					return fmt.Errorf("scanner error: %w", err)
				}
				return nil
			}
			line = l
		}

		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.log.WithError(err).Warn("failed to parse request")
			if err := encoder.Encode(s.errorResponse(nil, -32700, "Parse error", err.Error())); err != nil {
				s.log.WithError(err).Error("failed to encode response")
			}
			continue
		}

		resp := s.handleRequest(ctx, &req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				s.log.WithError(err).Error("failed to encode response")
			}
		}
	}
}

// scanLines sends each line of in on lines, then exactly one error (nil at
// EOF) on errc and closes lines.
func scanLines(ctx context.Context, in io.Reader, lines chan<- []byte, errc chan<- error) {
	defer close(lines)

	scanner := bufio.NewScanner(in)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, maxRequestSize)

	for scanner.Scan() {
		line := append([]byte(nil), scanner.Bytes()...)
		select {
		case lines <- line:
		case <-ctx.Done():
			errc <- ctx.Err()
			return
		}
	}
	errc <- scanner.Err()
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(ctx context.Context, req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    ServerName,
				"version": s.version,
			},
		},
	}
}
