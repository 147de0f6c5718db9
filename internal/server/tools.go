package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

func documentIDProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Extraction
		{
			Name: "wireframe_extract_elements",
			Description: "Convert a photographed or scanned UI sketch into canvas elements. " +
				"The image is scaled to a 1000px wide canvas; closed shapes become inputs, images or containers " +
				"and recognized text becomes text elements. The result is stored as a document whose elements carry ids.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"image_base64": map[string]interface{}{
						"type":        "string",
						"description": "Base64-encoded image data, instead of path",
					},
					"document_id": documentIDProperty("Existing document whose elements are replaced (default: create a new document)"),
				},
			},
		},
		{
			Name:        "wireframe_preview",
			Description: "Draw element outlines and type labels over the normalized sketch and return it as base64-encoded PNG. Use this to check what extraction found.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file. Defaults to the document's source when document_id is given",
					},
					"document_id": documentIDProperty("Draw this document's elements instead of extracting again"),
					"labels": map[string]interface{}{
						"type":        "boolean",
						"description": "Draw element type labels (default: true)",
					},
					"thickness": map[string]interface{}{
						"type":        "integer",
						"description": "Outline thickness in pixels (default: 2)",
					},
				},
			},
		},

		// Documents
		{
			Name:        "wireframe_get_document",
			Description: "Return a stored document with its canvas size and elements in stacking order.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"document_id": documentIDProperty("Document id returned by wireframe_extract_elements"),
				},
				"required": []string{"document_id"},
			},
		},
		{
			Name:        "wireframe_delete_document",
			Description: "Delete a stored document.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"document_id": documentIDProperty("Document id to delete"),
				},
				"required": []string{"document_id"},
			},
		},

		// Diagnostics
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file and the canvas size it normalizes to.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "ocr_info",
			Description: "Report whether text recognition is available in this build.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
