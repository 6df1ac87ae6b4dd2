// Package server implements the MCP (Model Context Protocol) server for
// signature extraction tools.
//
// The server exposes the imaging, detection and ocr packages as MCP tools,
// letting an MCP client find handwritten signatures on scanned documents and
// pull each one out as a clean transparent PNG.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//   - Logs: stderr, via logrus
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Every tool takes a document path and an optional 0-based page index.
//
// Documents:
//   - document_load: Page dimensions, format and page count
//
// Detection:
//   - signature_detect: Candidate signature rectangles plus grid diagnostics
//   - signature_locate_ocr: Low-confidence OCR words merged into regions
//
// Extraction:
//   - signature_crop: One region as a cleaned PNG, with optional edit mask
//   - signature_extract_all: Detect, then crop every region in parallel
//
// Review:
//   - signature_overlay: Numbered region outlines drawn over the page
//
// # Page Caching
//
// Every page is opened through the source package the first time it is
// requested: image files are decoded, PDF pages are rasterized at the
// configured DPI. The raster is cached under "path#page", so a detect
// followed by several crops decodes or renders the page once. The cache lives
// as long as the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// A crop whose region lies entirely outside the page is not an error; it
// returns "empty": true. An edit mask that cannot be decoded is ignored and
// reported as "mask_applied": false.
//
// # Usage
//
//	cfg, err := config.Load(path)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv, err := server.New(cfg, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
