// Package server implements the MCP (Model Context Protocol) server that
// turns UI sketches into wireframe documents.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Extraction:
//   - wireframe_extract_elements: Extract elements from a sketch into a document
//   - wireframe_preview: Overlay elements on the normalized sketch
//
// Documents:
//   - wireframe_get_document: Fetch a stored document
//   - wireframe_delete_document: Remove a stored document
//
// Diagnostics:
//   - image_dimensions: Source size and normalized canvas size
//   - ocr_info: Text recognition availability
//
// # Image Caching
//
// Decoded source images are cached by path, so extracting and then previewing
// the same sketch decodes it once.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with code
// -32000. For pipeline failures the data field holds the error code
// (DECODE_FAILED, RECOGNITION_FAILED) and its details; otherwise it holds the
// error text. A text-recognition failure during extraction is not an error:
// the document is stored with shapes only and the result is marked degraded.
//
// # Usage
//
//	pipeline := wireframe.New(cfg.Pipeline(), ocr.NewTesseract, logger)
//	srv := server.New(pipeline, canvas.NewStore(), logger)
//	if err := srv.Run(ctx, os.Stdin, os.Stdout); err != nil {
//	    logger.Fatal(err)
//	}
package server
