package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/signature-tools-mcp/internal/detection"
	"github.com/ironsheep/signature-tools-mcp/internal/geometry"
	"github.com/ironsheep/signature-tools-mcp/internal/imaging"
	"github.com/ironsheep/signature-tools-mcp/internal/ocr"
	"github.com/ironsheep/signature-tools-mcp/internal/source"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "signature_detect", "signature_crop").
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
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	logger := s.log.WithField("tool", params.Name)
	start := time.Now()

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		logger.WithError(err).Warn("Tool execution failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	logger.WithField("elapsed", time.Since(start)).Debug("Tool completed")

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
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies configured defaults for optional parameters
//  3. Loads the page raster from cache, rendering PDFs as needed
//  4. Calls the appropriate imaging/detection/ocr function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "document_load":
		return s.handleDocumentLoad(args)
	case "signature_detect":
		return s.handleSignatureDetect(args)
	case "signature_crop":
		return s.handleSignatureCrop(args)
	case "signature_extract_all":
		return s.handleSignatureExtractAll(args)
	case "signature_overlay":
		return s.handleSignatureOverlay(args)
	case "signature_locate_ocr":
		return s.handleSignatureLocateOCR(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
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

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Page loading ===

// pageKey is the cache key of one document page.
func pageKey(path string, page int) string {
	return fmt.Sprintf("%s#%d", path, page)
}

// loadPage returns the raster of one document page and the document's page
// count. Image files are single-page documents; PDF pages are rendered at
// the configured DPI. Either way the page is opened through source.Open on
// first use and cached.
func (s *Server) loadPage(path string, page int) (image.Image, int, error) {
	if path == "" {
		return nil, 0, fmt.Errorf("path is required")
	}
	if page < 0 {
		return nil, 0, fmt.Errorf("page must not be negative, got %d", page)
	}

	img, err := s.cache.Load(pageKey(path, page), func() (image.Image, error) {
		return s.renderPage(path, page)
	})
	if err != nil {
		return nil, 0, err
	}

	s.mu.Lock()
	count := s.pages[path]
	s.mu.Unlock()
	return img, count, nil
}

// renderPage opens the document, rasterizes one page and records the
// document's page count.
func (s *Server) renderPage(path string, page int) (image.Image, error) {
	logger := s.log.WithFields(logrus.Fields{
		"path": path,
		"page": page,
	})

	src, err := source.Open(path)
	if err != nil {
		logger.WithError(err).Warn("Failed to open document")
		return nil, err
	}
	defer src.Close()

	img, err := src.RenderPage(page, s.cfg.PDFDPI)
	if err != nil {
		logger.WithError(err).Warn("Failed to rasterize page")
		return nil, err
	}

	s.mu.Lock()
	s.pages[path] = src.PageCount()
	s.mu.Unlock()

	logger.WithFields(logrus.Fields{
		"format": imaging.FormatFromPath(path),
		"width":  img.Bounds().Dx(),
		"height": img.Bounds().Dy(),
	}).Debug("Loaded page")

	return img, nil
}

// resolveSettings overlays the JSON settings object, if any, on the
// configured defaults and validates the result.
func (s *Server) resolveSettings(raw json.RawMessage) (imaging.Settings, error) {
	settings := s.cfg.Processing
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &settings); err != nil {
			return imaging.Settings{}, fmt.Errorf("invalid settings: %w", err)
		}
	}
	if err := settings.Validate(); err != nil {
		return imaging.Settings{}, err
	}
	return settings, nil
}

// === Document Handlers ===

type documentArgs struct {
	Path string `json:"path"`
	Page int    `json:"page"`
}

func (s *Server) handleDocumentLoad(args json.RawMessage) (interface{}, error) {
	var a documentArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, count, err := s.loadPage(a.Path, a.Page)
	if err != nil {
		return nil, err
	}
	return imaging.DescribeImage(img, a.Path, a.Page, count), nil
}

// === Detection Handlers ===

type detectResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	*detection.Result
}

func (s *Server) handleSignatureDetect(args json.RawMessage) (interface{}, error) {
	var a documentArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, _, err := s.loadPage(a.Path, a.Page)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	return &detectResult{
		Width:  b.Dx(),
		Height: b.Dy(),
		Result: s.detector.Analyze(img),
	}, nil
}

// === Extraction Handlers ===

type signatureCropArgs struct {
	Path       string               `json:"path"`
	Page       int                  `json:"page"`
	Rect       geometry.NaturalRect `json:"rect"`
	Space      string               `json:"space"`
	Settings   json.RawMessage      `json:"settings"`
	MaskBase64 string               `json:"mask_base64"`
}

type cropResult struct {
	Empty bool `json:"empty"`
	*imaging.Extraction
}

func (s *Server) handleSignatureCrop(args json.RawMessage) (interface{}, error) {
	var a signatureCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	settings, err := s.resolveSettings(a.Settings)
	if err != nil {
		return nil, err
	}
	img, _, err := s.loadPage(a.Path, a.Page)
	if err != nil {
		return nil, err
	}

	rect := a.Rect
	switch a.Space {
	case "", "natural":
	case "normalized":
		b := img.Bounds()
		rect = geometry.NormalizedRect(a.Rect).ToNatural(b.Dx(), b.Dy())
	default:
		return nil, fmt.Errorf("unknown coordinate space %q (want natural or normalized)", a.Space)
	}

	logger := s.log.WithFields(logrus.Fields{"path": a.Path, "page": a.Page})

	var mask []byte
	if a.MaskBase64 != "" {
		mask, err = base64.StdEncoding.DecodeString(a.MaskBase64)
		if err != nil {
			logger.WithError(err).Warn("Edit mask is not valid base64; ignored")
			mask = nil
		}
	}

	ext, err := imaging.Crop(img, rect, settings, mask)
	if err != nil {
		return nil, err
	}
	if mask != nil && !ext.MaskApplied {
		logger.Warn("Edit mask could not be decoded; ignored")
	}
	if ext.Empty() {
		logger.WithField("rect", rect.String()).Debug("Crop region has no area inside the page")
	}

	return &cropResult{Empty: ext.Empty(), Extraction: ext}, nil
}

type extractAllArgs struct {
	Path     string          `json:"path"`
	Page     int             `json:"page"`
	Settings json.RawMessage `json:"settings"`
}

type extractAllResult struct {
	Count       int                    `json:"count"`
	Regions     []geometry.NaturalRect `json:"regions"`
	Extractions []*imaging.Extraction  `json:"extractions"`
}

func (s *Server) handleSignatureExtractAll(args json.RawMessage) (interface{}, error) {
	var a extractAllArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	settings, err := s.resolveSettings(a.Settings)
	if err != nil {
		return nil, err
	}
	img, _, err := s.loadPage(a.Path, a.Page)
	if err != nil {
		return nil, err
	}

	regions := s.detector.Detect(img)
	extractions, err := imaging.CropAll(context.Background(), img, regions, settings, s.cfg.Workers)
	if err != nil {
		return nil, err
	}

	return &extractAllResult{
		Count:       len(extractions),
		Regions:     regions,
		Extractions: extractions,
	}, nil
}

// === Review Handlers ===

type overlayArgs struct {
	Path     string `json:"path"`
	Page     int    `json:"page"`
	Color    string `json:"color"`
	ShowGrid bool   `json:"show_grid"`
}

func (s *Server) handleSignatureOverlay(args json.RawMessage) (interface{}, error) {
	var a overlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, _, err := s.loadPage(a.Path, a.Page)
	if err != nil {
		return nil, err
	}

	result := s.detector.Analyze(img)
	opts := imaging.OverlayOptions{ColorHex: a.Color}
	if a.ShowGrid {
		opts.GridSpacing = result.CellPixels
	}
	return imaging.DrawRegions(img, result.Regions, opts)
}

type locateOCRArgs struct {
	Path          string   `json:"path"`
	Page          int      `json:"page"`
	MaxConfidence *float64 `json:"max_confidence"`
}

type locateOCRResult struct {
	Count      int                       `json:"count"`
	Regions    []geometry.NaturalRect    `json:"regions"`
	Normalized []geometry.NormalizedRect `json:"normalized"`
}

func (s *Server) handleSignatureLocateOCR(args json.RawMessage) (interface{}, error) {
	var a locateOCRArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	maxConfidence := s.cfg.OCRMaxConfidence
	if a.MaxConfidence != nil {
		if *a.MaxConfidence < 0 || *a.MaxConfidence > 1 {
			return nil, fmt.Errorf("max_confidence %g outside [0,1]", *a.MaxConfidence)
		}
		maxConfidence = *a.MaxConfidence
	}
	img, _, err := s.loadPage(a.Path, a.Page)
	if err != nil {
		return nil, err
	}

	normalized, err := ocr.LocateHandwriting(img, ocr.LocatorOptions{
		Language:      s.cfg.OCRLanguage,
		MaxConfidence: maxConfidence,
	})
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	regions := make([]geometry.NaturalRect, 0, len(normalized))
	for _, r := range normalized {
		regions = append(regions, r.ToNatural(b.Dx(), b.Dy()))
	}

	return &locateOCRResult{
		Count:      len(regions),
		Regions:    regions,
		Normalized: normalized,
	}, nil
}
