// Package server implements the MCP (Model Context Protocol) server that
// exposes the pixel engine as tools.
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
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//   - image_decode_raw: Decode a TIFF or DNG sensor file
//
// Region Operations:
//   - image_crop: Extract rectangular region
//   - image_crop_quadrant: Extract named region (top-left, center, etc.)
//
// Color Operations:
//   - image_sample_color: Get color at pixel
//   - image_dominant_colors: Extract color palette
//   - image_convert_colorspace: Move color channels to another space
//
// Filter Operations:
//   - image_list_filters: Names accepted by image_filter
//   - image_filter: Apply a registered filter to an image, GIF or frame sequence
//   - image_convolve: Convolve with a custom kernel
//   - image_edge_detect: Canny edge detection
//   - image_detect_lines: Hough line segments, with optional arrow heads
//   - image_detect_rectangles: Axis-aligned boxes from edge contours
//   - image_detect_circles: Hough circles
//   - image_detect_text_regions: Text-like areas, without OCR
//
// Analysis Operations:
//   - image_histogram: Per-channel histograms
//   - image_hash: Perceptual hash
//   - image_diff: Sample-level difference between two images
//   - image_compare_regions: Compare two regions
//
// # Image Caching
//
// Decoded files are cached by path for the lifetime of the server. Each tool
// call converts the cached file to a fresh engine image, so tools never see
// each other's results. Files written by a tool are evicted from the cache.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	srv := server.New(server.Config{Version: version})
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
