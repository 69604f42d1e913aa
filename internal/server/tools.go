package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var (
	pathProperty = map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
	outputPathProperty = map[string]interface{}{
		"type":        "string",
		"description": "Optional path to write the result to. The format follows the extension. When omitted the result is returned as base64-encoded PNG",
	}
	layoutProperty = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"gray", "rgb", "bgr", "rgb_packed", "rgba", "bgra", "cmyk", "yuv"},
		"description": "Channel layout to load the image as. Defaults to the file's natural layout (gray, rgb or rgba)",
	}
	typeProperty = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"u8", "u16", "u32", "f16", "f32", "f64"},
		"description": "Sample type used for evaluation. Default f32",
		"default":     "f32",
	}
	workersProperty = map[string]interface{}{
		"type":        "integer",
		"description": "Number of worker goroutines. 0 uses all CPUs, 1 evaluates sequentially",
	}
	regionProperty = map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"x1": map[string]interface{}{"type": "integer"},
			"y1": map[string]interface{}{"type": "integer"},
			"x2": map[string]interface{}{"type": "integer"},
			"y2": map[string]interface{}{"type": "integer"},
		},
		"description": "Rectangle with inclusive (x1,y1) and exclusive (x2,y2)",
	}
)

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format, bit depth and natural channel layout.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_decode_raw",
			Description: "Decode a sensor file (TIFF or DNG) with the raw decoder registry and write it as a regular image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":        pathProperty,
					"output_path": outputPathProperty,
					"layout":      layoutProperty,
				},
				"required": []string{"path"},
			},
		},

		// Region Operations
		{
			Name:        "image_crop",
			Description: "Crop a rectangular region from an image and return it as base64-encoded PNG. Use this to zoom into areas that need detailed examination.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"x1": map[string]interface{}{
						"type":        "integer",
						"description": "Left edge X coordinate (0-based)",
					},
					"y1": map[string]interface{}{
						"type":        "integer",
						"description": "Top edge Y coordinate (0-based)",
					},
					"x2": map[string]interface{}{
						"type":        "integer",
						"description": "Right edge X coordinate (exclusive)",
					},
					"y2": map[string]interface{}{
						"type":        "integer",
						"description": "Bottom edge Y coordinate (exclusive)",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path", "x1", "y1", "x2", "y2"},
			},
		},
		{
			Name:        "image_crop_quadrant",
			Description: "Crop a named region of the image (top-left, top-right, bottom-left, bottom-right, top-half, bottom-half, left-half, right-half, center).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"region": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"top-left", "top-right", "bottom-left", "bottom-right", "top-half", "bottom-half", "left-half", "right-half", "center"},
						"description": "Named region to extract",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor. Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path", "region"},
			},
		},

		// Color Operations
		{
			Name:        "image_sample_color",
			Description: "Get the exact color value at a specific pixel coordinate, in the image's own layout and as RGB, hex and HSL.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
					"layout": layoutProperty,
				},
				"required": []string{"path", "x", "y"},
			},
		},
		{
			Name:        "image_dominant_colors",
			Description: "Extract the most common colors in an image or region.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of colors to return. Default 5",
						"default":     5,
					},
					"region": regionProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_convert_colorspace",
			Description: "Convert the color channels of an image between color spaces (srgb, linear, hsv, hsl, lab, luv, hcl, xyz). Values are stored normalized to 0..1.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"from": map[string]interface{}{
						"type":        "string",
						"description": "Source color space. Default srgb",
						"default":     "srgb",
					},
					"to": map[string]interface{}{
						"type":        "string",
						"description": "Target color space",
					},
					"output_path": outputPathProperty,
				},
				"required": []string{"path", "to"},
			},
		},

		// Filter Operations
		{
			Name:        "image_list_filters",
			Description: "List the names of the registered filters accepted by image_filter.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "image_filter",
			Description: "Apply a registered filter (see image_list_filters) to an image, an animated GIF or a numbered frame sequence such as frame_%04d.png.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"filter": map[string]interface{}{
						"type":        "string",
						"description": "Registered filter name, e.g. invert, grayscale, gaussian5, sobel_magnitude",
					},
					"output_path": outputPathProperty,
					"type":        typeProperty,
					"layout":      layoutProperty,
					"workers":     workersProperty,
				},
				"required": []string{"path", "filter"},
			},
		},
		{
			Name:        "image_convolve",
			Description: "Convolve an image with a custom kernel given as rows of weights.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"kernel": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type":  "array",
							"items": map[string]interface{}{"type": "number"},
						},
						"description": "Kernel weights, one array per row",
					},
					"border": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"clamp", "wrap", "zero"},
						"description": "How samples outside the image are read. Default clamp",
						"default":     "clamp",
					},
					"normalize": map[string]interface{}{
						"type":        "boolean",
						"description": "Scale the weights to sum to 1. Default false",
					},
					"output_path": outputPathProperty,
					"type":        typeProperty,
					"workers":     workersProperty,
				},
				"required": []string{"path", "kernel"},
			},
		},
		{
			Name:        "image_edge_detect",
			Description: "Detect edges using the Canny edge detection algorithm. Returns the edge map as base64-encoded PNG with edge statistics.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"threshold_low": map[string]interface{}{
						"type":        "integer",
						"description": "Low threshold for hysteresis (0-255). Default 50",
						"default":     50,
					},
					"threshold_high": map[string]interface{}{
						"type":        "integer",
						"description": "High threshold for hysteresis (0-255). Default 150",
						"default":     150,
					},
				},
				"required": []string{"path"},
			},
		},

		{
			Name:        "image_detect_lines",
			Description: "Detect straight line segments with a Hough transform over the Canny edge map. Useful for finding connections between elements.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"min_length": map[string]interface{}{
						"type":        "integer",
						"description": "Minimum line length in pixels (default 20)",
						"default":     20,
					},
					"detect_arrows": map[string]interface{}{
						"type":        "boolean",
						"description": "Whether to detect arrow heads at line endpoints",
						"default":     true,
					},
				},
				"required": []string{"path"},
			},
		},

		{
			Name:        "image_detect_rectangles",
			Description: "Detect axis-aligned rectangular shapes from the Canny edge contours. Useful for finding boxes in diagrams.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"min_area": map[string]interface{}{
						"type":        "integer",
						"description": "Minimum bounding box area in pixels (default 100)",
						"default":     100,
					},
					"tolerance": map[string]interface{}{
						"type":        "number",
						"description": "How close to rectangular a shape must be (0-1, default 0.9)",
						"default":     0.9,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_detect_circles",
			Description: "Detect circles with a Hough circle transform over the Canny edge map. Useful for finding nodes, connectors, or bullets.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"min_radius": map[string]interface{}{
						"type":        "integer",
						"description": "Minimum radius in pixels (default 5)",
						"default":     5,
					},
					"max_radius": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum radius in pixels (default 100). Wide ranges are slow",
						"default":     100,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_detect_text_regions",
			Description: "Detect regions whose edge texture looks like text. Returns bounding boxes without performing OCR.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"min_confidence": map[string]interface{}{
						"type":        "number",
						"description": "Minimum confidence threshold (0-1, default 0.5)",
						"default":     0.5,
					},
				},
				"required": []string{"path"},
			},
		},

		// Analysis Operations
		{
			Name:        "image_histogram",
			Description: "Compute one histogram per channel.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"bins": map[string]interface{}{
						"type":        "integer",
						"description": "Number of bins. Default 256",
						"default":     256,
					},
					"layout": layoutProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_hash",
			Description: "Compute a perceptual hash of an image. Similar images have hashes with a small bit distance.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_diff",
			Description: "Compare two images of the same size sample by sample and report how many samples differ and the distance between their hashes, overall and over the luminance grid alone.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path1": pathProperty,
					"path2": pathProperty,
					"max_entries": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of differing samples to list. Default 20",
						"default":     20,
					},
				},
				"required": []string{"path1", "path2"},
			},
		},
		{
			Name:        "image_compare_regions",
			Description: "Compare two regions of the same size. The second region may come from a different image. Reports CIEDE2000 color distances and a similarity score.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"path2": map[string]interface{}{
						"type":        "string",
						"description": "Optional second image for region2. Defaults to path",
					},
					"region1": regionProperty,
					"region2": regionProperty,
				},
				"required": []string{"path", "region1", "region2"},
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
