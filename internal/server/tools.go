package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// documentProperties are the arguments every tool takes to select a page.
func documentProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to the document (PDF, PNG, JPEG, GIF, TIFF or BMP)",
		},
		"page": map[string]interface{}{
			"type":        "integer",
			"description": "0-based page index for PDF documents. Default 0",
			"default":     0,
		},
	}
}

// settingsSchema describes the processing settings object. Omitted fields
// keep the server's configured defaults.
func settingsSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": "Processing settings. Omitted fields use the configured defaults",
		"properties": map[string]interface{}{
			"enhance": map[string]interface{}{
				"type":        "boolean",
				"description": "Binarize into opaque black ink on a transparent background (default true)",
			},
			"threshold": map[string]interface{}{
				"type":        "integer",
				"minimum":     0,
				"maximum":     255,
				"description": "Luminance at or below which a pixel is ink (default 160)",
			},
			"invert": map[string]interface{}{
				"type":        "boolean",
				"description": "Treat light ink on a dark background as ink (default false)",
			},
			"remove_borders": map[string]interface{}{
				"type":        "boolean",
				"description": "Erase ruled lines and box borders crossing the crop (default true)",
			},
		},
	}
}

func withProperties(base map[string]interface{}, extra map[string]interface{}) map[string]interface{} {
	for k, v := range extra {
		base[k] = v
	}
	return base
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "document_load",
			Description: "Load a document page and return its natural pixel dimensions, format and page count. PDF pages are rasterized at the configured DPI and cached.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": documentProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "signature_detect",
			Description: "Find candidate signature regions on a page. Returns rectangles in natural pixel space plus detection diagnostics (grid size, scale, rejected blobs).",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": documentProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "signature_crop",
			Description: "Extract one region of a page as a cleaned PNG: ruled lines removed, ink binarized onto a transparent background, and an optional edit mask applied.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(documentProperties(), map[string]interface{}{
					"rect": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"x":      map[string]interface{}{"type": "number"},
							"y":      map[string]interface{}{"type": "number"},
							"width":  map[string]interface{}{"type": "number"},
							"height": map[string]interface{}{"type": "number"},
						},
						"required":    []string{"x", "y", "width", "height"},
						"description": "Region to extract",
					},
					"space": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"natural", "normalized"},
						"description": "Coordinate space of rect: natural pixels, or 0.0-1.0 fractions of the page. Default natural",
						"default":     "natural",
					},
					"settings": settingsSchema(),
					"mask_base64": map[string]interface{}{
						"type":        "string",
						"description": "Base64 PNG edit mask aligned with the crop. Any non-transparent mask pixel is erased",
					},
				}),
				"required": []string{"path", "rect"},
			},
		},
		{
			Name:        "signature_extract_all",
			Description: "Detect every signature region on a page and extract each one in parallel.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(documentProperties(), map[string]interface{}{
					"settings": settingsSchema(),
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "signature_overlay",
			Description: "Draw the detected signature regions (numbered) over the page for visual review.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(documentProperties(), map[string]interface{}{
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Outline color in hex format (e.g., '#E53935'). Default red",
					},
					"show_grid": map[string]interface{}{
						"type":        "boolean",
						"description": "Also draw the density grid the regions were found on. Default false",
						"default":     false,
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "signature_locate_ocr",
			Description: "Locate handwriting with Tesseract OCR: words recognized with low confidence are merged into regions and returned in natural pixel space. Requires Tesseract to be installed.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(documentProperties(), map[string]interface{}{
					"max_confidence": map[string]interface{}{
						"type":        "number",
						"minimum":     0,
						"maximum":     1,
						"description": "Words recognized at or above this confidence count as printed text (default from config, 0.6)",
					},
				}),
				"required": []string{"path"},
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
