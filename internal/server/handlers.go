package server

import (
	"encoding/json"
	"fmt"

	"github.com/ironsheep/pixelkit/internal/codec"
	"github.com/ironsheep/pixelkit/internal/colorspace"
	"github.com/ironsheep/pixelkit/internal/detection"
	"github.com/ironsheep/pixelkit/internal/filter"
	"github.com/ironsheep/pixelkit/internal/imaging"
	"github.com/ironsheep/pixelkit/internal/kernel"
	"github.com/ironsheep/pixelkit/internal/pipeline"
	"github.com/ironsheep/pixelkit/internal/raw"
	"github.com/ironsheep/pixelkit/internal/sample"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_filter").
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

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

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
// Images are decoded once through the server cache and evaluated as f32
// samples unless a tool takes an explicit sample type.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_decode_raw":
		return s.handleImageDecodeRaw(args)

	// Region Operations
	case "image_crop":
		return s.handleImageCrop(args)
	case "image_crop_quadrant":
		return s.handleImageCropQuadrant(args)

	// Color Operations
	case "image_sample_color":
		return s.handleImageSampleColor(args)
	case "image_dominant_colors":
		return s.handleImageDominantColors(args)
	case "image_convert_colorspace":
		return s.handleImageConvertColorspace(args)

	// Filter Operations
	case "image_list_filters":
		return map[string]interface{}{"filters": filter.Names()}, nil
	case "image_filter":
		return s.handleImageFilter(args)
	case "image_convolve":
		return s.handleImageConvolve(args)
	case "image_edge_detect":
		return s.handleImageEdgeDetect(args)
	case "image_detect_lines":
		return s.handleImageDetectLines(args)
	case "image_detect_rectangles":
		return s.handleImageDetectRectangles(args)
	case "image_detect_circles":
		return s.handleImageDetectCircles(args)
	case "image_detect_text_regions":
		return s.handleImageDetectTextRegions(args)

	// Analysis Operations
	case "image_histogram":
		return s.handleImageHistogram(args)
	case "image_hash":
		return s.handleImageHash(args)
	case "image_diff":
		return s.handleImageDiff(args)
	case "image_compare_regions":
		return s.handleImageCompareRegions(args)

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
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// open loads path as f32 samples. An empty layout keeps the file's natural
// layout.
func (s *Server) open(path, layout string) (*imaging.Image[float32], error) {
	var c imaging.Color
	if layout == "" {
		info, err := codec.LoadInfo(s.cache, path)
		if err != nil {
			return nil, err
		}
		c = info.NaturalColor()
	} else {
		var err error
		if c, err = imaging.ParseColor(layout); err != nil {
			return nil, err
		}
	}
	return codec.OpenCached[float32](s.cache, path, c)
}

// ImageOutput is a tool result carrying an image, either written to a file
// or inlined as base64 PNG.
type ImageOutput struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Layout      string `json:"layout"`
	OutputPath  string `json:"output_path,omitempty"`
	ImageBase64 string `json:"image_base64,omitempty"`
}

func emit[T sample.Type](img *imaging.Image[T], outputPath string) (*ImageOutput, error) {
	out := &ImageOutput{Width: img.Width(), Height: img.Height(), Layout: img.Color().Name()}
	if outputPath != "" {
		if err := codec.Save(img, outputPath); err != nil {
			return nil, err
		}
		out.OutputPath = outputPath
		return out, nil
	}
	b64, err := codec.EncodePNGBase64(img)
	if err != nil {
		return nil, err
	}
	out.ImageBase64 = b64
	return out, nil
}

type regionArgs struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

func (r regionArgs) region() imaging.Region {
	return imaging.Region{X1: r.X1, Y1: r.Y1, X2: r.X2, Y2: r.Y2}
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return codec.LoadInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return codec.GetDimensions(s.cache, a.Path)
}

type imageDecodeRawArgs struct {
	Path       string `json:"path"`
	OutputPath string `json:"output_path"`
	Layout     string `json:"layout"`
}

// RawResult describes a decoded sensor file.
type RawResult struct {
	ImageOutput
	ComponentsPerPixel int  `json:"components_per_pixel"`
	Float              bool `json:"float"`
}

func (s *Server) handleImageDecodeRaw(args json.RawMessage) (interface{}, error) {
	var a imageDecodeRawArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	frame, ok := raw.Decode(a.Path)
	if !ok {
		return nil, fmt.Errorf("%w: no raw decoder could read %s", imaging.ErrDecode, a.Path)
	}

	layout := frame.Layout()
	if a.Layout != "" {
		var err error
		if layout, err = imaging.ParseColor(a.Layout); err != nil {
			return nil, err
		}
	}
	img, err := raw.ToImage[float32](frame, layout)
	if err != nil {
		return nil, err
	}
	out, err := emit(img, a.OutputPath)
	if err != nil {
		return nil, err
	}
	return &RawResult{ImageOutput: *out, ComponentsPerPixel: frame.CPP, Float: frame.IsFloat()}, nil
}

// === Region Operation Handlers ===

type imageCropArgs struct {
	Path  string  `json:"path"`
	X1    int     `json:"x1"`
	Y1    int     `json:"y1"`
	X2    int     `json:"x2"`
	Y2    int     `json:"y2"`
	Scale float64 `json:"scale"`
}

// CropResult contains a cropped region.
type CropResult struct {
	ImageOutput
	Region imaging.Region `json:"region"`
	Scale  float64        `json:"scale"`
}

func (s *Server) crop(img *imaging.Image[float32], r imaging.Region, scale float64) (*CropResult, error) {
	if scale == 0 {
		scale = 1.0
	}
	cropped, err := imaging.Crop(img, r)
	if err != nil {
		return nil, err
	}
	if cropped, err = imaging.Scale(cropped, scale); err != nil {
		return nil, err
	}
	out, err := emit(cropped, "")
	if err != nil {
		return nil, err
	}
	return &CropResult{ImageOutput: *out, Region: r, Scale: scale}, nil
}

func (s *Server) handleImageCrop(args json.RawMessage) (interface{}, error) {
	var a imageCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.open(a.Path, "")
	if err != nil {
		return nil, err
	}
	return s.crop(img, imaging.Region{X1: a.X1, Y1: a.Y1, X2: a.X2, Y2: a.Y2}, a.Scale)
}

type imageCropQuadrantArgs struct {
	Path   string  `json:"path"`
	Region string  `json:"region"`
	Scale  float64 `json:"scale"`
}

func (s *Server) handleImageCropQuadrant(args json.RawMessage) (interface{}, error) {
	var a imageCropQuadrantArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.open(a.Path, "")
	if err != nil {
		return nil, err
	}
	cropped, err := imaging.CropQuadrant(img, a.Region)
	if err != nil {
		return nil, err
	}
	if cropped, err = imaging.Scale(cropped, a.Scale); err != nil {
		return nil, err
	}
	out, err := emit(cropped, "")
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"image_base64": out.ImageBase64,
		"width":        out.Width,
		"height":       out.Height,
		"region":       a.Region,
		"scale":        a.Scale,
	}, nil
}

// === Color Operation Handlers ===

type imageSampleColorArgs struct {
	Path   string `json:"path"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Layout string `json:"layout"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.open(a.Path, a.Layout)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(img, a.X, a.Y)
}

type imageDominantColorsArgs struct {
	Path   string      `json:"path"`
	Count  int         `json:"count"`
	Region *regionArgs `json:"region,omitempty"`
}

func (s *Server) handleImageDominantColors(args json.RawMessage) (interface{}, error) {
	var a imageDominantColorsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Count == 0 {
		a.Count = 5
	}
	img, err := s.open(a.Path, "")
	if err != nil {
		return nil, err
	}
	if a.Region != nil {
		if img, err = imaging.Crop(img, a.Region.region()); err != nil {
			return nil, err
		}
	}
	return map[string]interface{}{
		"colors": imaging.DominantColors(img, a.Count),
	}, nil
}

type imageConvertColorspaceArgs struct {
	Path       string `json:"path"`
	From       string `json:"from"`
	To         string `json:"to"`
	OutputPath string `json:"output_path"`
}

func (s *Server) handleImageConvertColorspace(args json.RawMessage) (interface{}, error) {
	var a imageConvertColorspaceArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.From == "" {
		a.From = "srgb"
	}
	info, err := codec.LoadInfo(s.cache, a.Path)
	if err != nil {
		return nil, err
	}
	layout := imaging.RGB
	if info.HasAlpha {
		layout = imaging.RGBA
	}
	img, err := codec.OpenCached[float32](s.cache, a.Path, layout)
	if err != nil {
		return nil, err
	}
	converted, err := colorspace.Convert(colorspace.Default, img, a.From, a.To)
	if err != nil {
		return nil, err
	}
	return emit(converted, a.OutputPath)
}

// === Filter Operation Handlers ===

type imageFilterArgs struct {
	Path       string `json:"path"`
	Filter     string `json:"filter"`
	OutputPath string `json:"output_path"`
	Type       string `json:"type"`
	Layout     string `json:"layout"`
	Workers    *int   `json:"workers"`
}

func (s *Server) handleImageFilter(args json.RawMessage) (interface{}, error) {
	var a imageFilterArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	f, err := filter.Lookup(a.Filter)
	if err != nil {
		return nil, err
	}
	return s.apply(f, a.Path, a.OutputPath, a.Type, a.Layout, a.Workers)
}

type imageConvolveArgs struct {
	Path       string      `json:"path"`
	Kernel     [][]float64 `json:"kernel"`
	Border     string      `json:"border"`
	Normalize  bool        `json:"normalize"`
	OutputPath string      `json:"output_path"`
	Type       string      `json:"type"`
	Workers    *int        `json:"workers"`
}

func (s *Server) handleImageConvolve(args json.RawMessage) (interface{}, error) {
	var a imageConvolveArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	k, err := kernel.FromRows(a.Kernel)
	if err != nil {
		return nil, err
	}
	if a.Border != "" {
		b, err := kernel.ParseBorder(a.Border)
		if err != nil {
			return nil, err
		}
		k = k.WithBorder(b)
	}
	if a.Normalize {
		k = k.Normalize()
	}
	return s.apply(k, a.Path, a.OutputPath, a.Type, "", a.Workers)
}

// apply runs f over the file at path. With an output path the work goes
// through the pipeline, which also handles animations and sequences;
// otherwise the result is inlined.
func (s *Server) apply(f filter.Filter, path, outputPath, typ, layout string, workers *int) (interface{}, error) {
	n := s.cfg.Workers
	if workers != nil {
		n = *workers
	}
	if typ == "" {
		typ = "f32"
	}
	kind, err := sample.ParseKind(typ)
	if err != nil {
		return nil, err
	}

	if outputPath != "" {
		res, err := pipeline.Run(s.cache, pipeline.Job{
			Input:   path,
			Output:  outputPath,
			Filter:  f,
			Kind:    kind,
			Layout:  layout,
			Workers: n,
		})
		if err != nil {
			return nil, err
		}
		s.cache.Evict(outputPath)
		return res, nil
	}

	img, err := s.open(path, layout)
	if err != nil {
		return nil, err
	}
	out := img.NewLike()
	if err := filter.EvalWith(f, out, filter.Options{Workers: n}, img); err != nil {
		return nil, err
	}
	return emit(out, "")
}

type imageEdgeDetectArgs struct {
	Path          string `json:"path"`
	ThresholdLow  int    `json:"threshold_low"`
	ThresholdHigh int    `json:"threshold_high"`
}

// EdgeResult contains the edge map and its statistics.
type EdgeResult struct {
	ImageOutput
	EdgeCount   int     `json:"edge_count"`
	EdgeDensity float64 `json:"edge_density"`
}

func (s *Server) handleImageEdgeDetect(args json.RawMessage) (interface{}, error) {
	var a imageEdgeDetectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.ThresholdLow == 0 {
		a.ThresholdLow = 50
	}
	if a.ThresholdHigh == 0 {
		a.ThresholdHigh = 150
	}
	img, err := s.open(a.Path, "")
	if err != nil {
		return nil, err
	}
	edges, err := detection.EdgeDetect(img, a.ThresholdLow, a.ThresholdHigh)
	if err != nil {
		return nil, err
	}
	out, err := emit(edges, "")
	if err != nil {
		return nil, err
	}
	return &EdgeResult{
		ImageOutput: *out,
		EdgeCount:   detection.CountEdges(edges),
		EdgeDensity: detection.EdgeDensity(edges),
	}, nil
}

type imageDetectLinesArgs struct {
	Path         string `json:"path"`
	MinLength    int    `json:"min_length"`
	DetectArrows *bool  `json:"detect_arrows"`
}

func (s *Server) handleImageDetectLines(args json.RawMessage) (interface{}, error) {
	var a imageDetectLinesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.MinLength == 0 {
		a.MinLength = 20
	}
	arrows := a.DetectArrows == nil || *a.DetectArrows
	img, err := s.open(a.Path, "")
	if err != nil {
		return nil, err
	}
	return detection.DetectLines(img, a.MinLength, arrows)
}

type imageDetectRectanglesArgs struct {
	Path      string  `json:"path"`
	MinArea   int     `json:"min_area"`
	Tolerance float64 `json:"tolerance"`
}

func (s *Server) handleImageDetectRectangles(args json.RawMessage) (interface{}, error) {
	var a imageDetectRectanglesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.MinArea == 0 {
		a.MinArea = 100
	}
	if a.Tolerance == 0 {
		a.Tolerance = 0.9
	}
	img, err := s.open(a.Path, "")
	if err != nil {
		return nil, err
	}
	return detection.DetectRectangles(img, a.MinArea, a.Tolerance)
}

type imageDetectCirclesArgs struct {
	Path      string `json:"path"`
	MinRadius int    `json:"min_radius"`
	MaxRadius int    `json:"max_radius"`
}

func (s *Server) handleImageDetectCircles(args json.RawMessage) (interface{}, error) {
	var a imageDetectCirclesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.MinRadius == 0 {
		a.MinRadius = 5
	}
	if a.MaxRadius == 0 {
		a.MaxRadius = 100
	}
	img, err := s.open(a.Path, "")
	if err != nil {
		return nil, err
	}
	return detection.DetectCircles(img, a.MinRadius, a.MaxRadius)
}

type imageDetectTextRegionsArgs struct {
	Path          string  `json:"path"`
	MinConfidence float64 `json:"min_confidence"`
}

func (s *Server) handleImageDetectTextRegions(args json.RawMessage) (interface{}, error) {
	var a imageDetectTextRegionsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.MinConfidence == 0 {
		a.MinConfidence = 0.5
	}
	img, err := s.open(a.Path, "")
	if err != nil {
		return nil, err
	}
	return detection.DetectTextRegions(img, a.MinConfidence)
}

// === Analysis Operation Handlers ===

type imageHistogramArgs struct {
	Path   string `json:"path"`
	Bins   int    `json:"bins"`
	Layout string `json:"layout"`
}

// ChannelHistogram is the histogram of one channel.
type ChannelHistogram struct {
	Channel  int   `json:"channel"`
	Bins     []int `json:"bins"`
	Total    int   `json:"total"`
	MinIndex int   `json:"min_index"`
	MaxIndex int   `json:"max_index"`
}

func (s *Server) handleImageHistogram(args json.RawMessage) (interface{}, error) {
	var a imageHistogramArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Bins == 0 {
		a.Bins = 256
	}
	if a.Bins < 1 {
		return nil, fmt.Errorf("bins must be positive, got %d", a.Bins)
	}
	img, err := s.open(a.Path, a.Layout)
	if err != nil {
		return nil, err
	}

	hists := img.Histogram(a.Bins)
	channels := make([]ChannelHistogram, len(hists))
	for c, h := range hists {
		channels[c] = ChannelHistogram{
			Channel:  c,
			Bins:     h.Bins(),
			Total:    h.Sum(),
			MinIndex: h.MinIndex(),
			MaxIndex: h.MaxIndex(),
		}
	}
	return map[string]interface{}{
		"layout":   img.Color().Name(),
		"channels": channels,
	}, nil
}

func (s *Server) handleImageHash(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.open(a.Path, "")
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"hash": img.Hash().String(),
	}, nil
}

type imageDiffArgs struct {
	Path1      string `json:"path1"`
	Path2      string `json:"path2"`
	MaxEntries *int   `json:"max_entries"`
}

// DiffResult summarizes how two images differ.
type DiffResult struct {
	SamplesDifferent int                          `json:"samples_different"`
	TotalSamples     int                          `json:"total_samples"`
	HashDistance     int                          `json:"hash_distance"`
	GridDistance     int                          `json:"grid_distance"`
	Entries          []imaging.DiffEntry[float32] `json:"entries"`
}

func (s *Server) handleImageDiff(args json.RawMessage) (interface{}, error) {
	var a imageDiffArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	limit := 20
	if a.MaxEntries != nil {
		limit = *a.MaxEntries
	}
	img1, err := s.open(a.Path1, "")
	if err != nil {
		return nil, err
	}
	img2, err := s.open(a.Path2, img1.Color().Name())
	if err != nil {
		return nil, err
	}

	d, err := img2.Diff(img1)
	if err != nil {
		return nil, err
	}
	entries := d.Entries()
	if len(entries) > limit {
		entries = entries[:max(limit, 0)]
	}
	h1, h2 := img1.Hash(), img2.Hash()
	return &DiffResult{
		SamplesDifferent: d.Len(),
		TotalSamples:     img1.Len(),
		HashDistance:     h1.Diff(h2),
		GridDistance:     h1.GridDiff(h2),
		Entries:          entries,
	}, nil
}

type imageCompareRegionsArgs struct {
	Path    string     `json:"path"`
	Path2   string     `json:"path2"`
	Region1 regionArgs `json:"region1"`
	Region2 regionArgs `json:"region2"`
}

func (s *Server) handleImageCompareRegions(args json.RawMessage) (interface{}, error) {
	var a imageCompareRegionsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.open(a.Path, "")
	if err != nil {
		return nil, err
	}
	other := img
	if a.Path2 != "" && a.Path2 != a.Path {
		if other, err = s.open(a.Path2, img.Color().Name()); err != nil {
			return nil, err
		}
	}
	return imaging.CompareRegions(img, a.Region1.region(), other, a.Region2.region())
}
