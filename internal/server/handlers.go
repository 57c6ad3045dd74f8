package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"

	"github.com/ledgerlens/invoice-prep/internal/detection"
	"github.com/ledgerlens/invoice-prep/internal/imaging"
	"github.com/ledgerlens/invoice-prep/internal/pipeline"
)

// ToolCallParams represents the parameters for a tools/call request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "invoice_process").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// imageContent marks a tool result that should be returned as an inline
// image content block instead of JSON text.
type imageContent struct {
	Data     string
	MimeType string
}

// handleToolsCall processes a tools/call request and executes the tool.
//
// JSON results are wrapped in a text content block; handlers returning
// *imageContent produce an image content block instead, so clients can
// render the processed document directly. Execution errors map to a
// JSON-RPC error with code -32000 and a machine-readable error class in
// the data field.
func (s *Server) handleToolsCall(req *Request) *Response {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return &Response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &Error{
				Code:    -32000,
				Message: err.Error(),
				Data:    map[string]string{"class": errorClass(err)},
			},
		}
	}

	var content []map[string]interface{}
	if ic, ok := result.(*imageContent); ok {
		content = []map[string]interface{}{
			{"type": "image", "data": ic.Data, "mimeType": ic.MimeType},
		}
	} else {
		content = []map[string]interface{}{
			{"type": "text", "text": mustMarshalJSON(result)},
		}
	}

	return &Response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  map[string]interface{}{"content": content},
	}
}

// executeTool dispatches tool execution to the appropriate handler.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "invoice_process":
		return s.handleInvoiceProcess(args)
	case "invoice_process_custom":
		return s.handleInvoiceProcessCustom(args)
	case "image_info":
		return s.handleImageInfo(args)
	case "region_detect":
		return s.handleRegionDetect(args)
	case "region_preview":
		return s.handleRegionPreview(args)
	case "region_colors":
		return s.handleRegionColors(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorClass maps an error to the wire taxonomy so clients can branch
// without parsing message text.
func errorClass(err error) string {
	switch {
	case errors.Is(err, imaging.ErrSizeLimit):
		return "size_limit"
	case errors.Is(err, imaging.ErrUnsupportedFormat):
		return "unsupported_format"
	case errors.Is(err, imaging.ErrInvalidImage):
		return "invalid_image"
	case errors.Is(err, pipeline.ErrInvalidConfig):
		return "invalid_config"
	case errors.Is(err, imaging.ErrRegionOutOfBounds):
		return "region_out_of_bounds"
	}
	return "internal"
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *Response {
	return &Response{
		JSONRPC: "2.0",
		ID:      id,
		Error: &Error{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Processing Handlers ===

type processArgs struct {
	Path           string              `json:"path"`
	ImageBase64    string              `json:"image_base64"`
	ResponseFormat string              `json:"response_format"` // "json" (default) or "image"
	Overrides      *pipeline.Overrides `json:"overrides"`
}

// ProcessResult is the JSON form of a pipeline result.
type ProcessResult struct {
	ImageBase64    string           `json:"image_base64"`
	MimeType       string           `json:"mime_type"`
	Width          int              `json:"width"`
	Height         int              `json:"height"`
	OriginalWidth  int              `json:"original_width"`
	OriginalHeight int              `json:"original_height"`
	SelectedRegion detection.Region `json:"selected_region"`
	StrategyUsed   string           `json:"strategy_used"`
	UsedFallback   bool             `json:"used_fallback"`
}

func (s *Server) handleInvoiceProcess(args json.RawMessage) (interface{}, error) {
	var a processArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	cfg := pipeline.DefaultConfig().WithOverrides(a.Overrides)

	var res *pipeline.Result
	var err error
	switch {
	case a.Path != "":
		var img image.Image
		img, err = s.cache.Load(a.Path)
		if err == nil {
			res, err = pipeline.ProcessImage(context.Background(), img, cfg)
		}
	case a.ImageBase64 != "":
		var data []byte
		data, err = base64.StdEncoding.DecodeString(a.ImageBase64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad base64 input: %v", imaging.ErrInvalidImage, err)
		}
		res, err = pipeline.Process(context.Background(), data, cfg)
	default:
		return nil, fmt.Errorf("either path or image_base64 is required")
	}
	if err != nil {
		return nil, err
	}

	return packageResult(res, a.ResponseFormat)
}

type processCustomArgs struct {
	Path           string                 `json:"path"`
	ImageBase64    string                 `json:"image_base64"`
	ResponseFormat string                 `json:"response_format"`
	Params         *pipeline.CustomParams `json:"params"`
}

func (s *Server) handleInvoiceProcessCustom(args json.RawMessage) (interface{}, error) {
	var a processCustomArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	params := pipeline.OptimalCustomParams()
	if a.Params != nil {
		params = *a.Params
	}

	var res *pipeline.Result
	var err error
	switch {
	case a.Path != "":
		var img image.Image
		img, err = s.cache.Load(a.Path)
		if err == nil {
			res, err = pipeline.ProcessCustomImage(context.Background(), img, params)
		}
	case a.ImageBase64 != "":
		var data []byte
		data, err = base64.StdEncoding.DecodeString(a.ImageBase64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad base64 input: %v", imaging.ErrInvalidImage, err)
		}
		res, err = pipeline.ProcessCustom(context.Background(), data, params)
	default:
		return nil, fmt.Errorf("either path or image_base64 is required")
	}
	if err != nil {
		return nil, err
	}

	return packageResult(res, a.ResponseFormat)
}

// packageResult serializes a pipeline result per the requested response
// format: "image" yields an inline image content block, anything else the
// JSON envelope with diagnostics metadata.
func packageResult(res *pipeline.Result, format string) (interface{}, error) {
	encoded, err := imaging.EncodeBase64PNG(res.Image)
	if err != nil {
		return nil, err
	}

	if format == "image" {
		return &imageContent{Data: encoded, MimeType: "image/png"}, nil
	}

	bounds := res.Image.Bounds()
	return &ProcessResult{
		ImageBase64:    encoded,
		MimeType:       "image/png",
		Width:          bounds.Dx(),
		Height:         bounds.Dy(),
		OriginalWidth:  res.OriginalWidth,
		OriginalHeight: res.OriginalHeight,
		SelectedRegion: res.SelectedRegion,
		StrategyUsed:   string(res.StrategyUsed),
		UsedFallback:   res.UsedFallback,
	}, nil
}

// === Metadata and Diagnostics Handlers ===

type pathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageInfo(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// DetectResult reports every candidate plus the selection outcome, for
// diagnosing why a particular crop was (or wasn't) chosen.
type DetectResult struct {
	Candidates     []detection.Candidate `json:"candidates"`
	SelectedRegion detection.Region      `json:"selected_region"`
	StrategyUsed   string                `json:"strategy_used"`
	UsedFallback   bool                  `json:"used_fallback"`
}

// detectRegion runs detection and selection with default parameters over a
// cached photo.
func (s *Server) detectRegion(path string) (image.Image, *DetectResult, error) {
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, nil, err
	}

	cfg := pipeline.DefaultConfig()
	gray := imaging.ToGray(img)
	bounds := img.Bounds()

	candidates := detection.Detect(gray, detection.Options{
		CannyLow:  cfg.CannyLow,
		CannyHigh: cfg.CannyHigh,
	})
	region, strategy, usedFallback := detection.Select(candidates[:], bounds.Dx(), bounds.Dy(), detection.SelectorOptions{
		AspectMin:      cfg.AspectRatioMin,
		AspectMax:      cfg.AspectRatioMax,
		MarginFraction: cfg.MarginFraction,
	})

	return img, &DetectResult{
		Candidates:     candidates[:],
		SelectedRegion: region,
		StrategyUsed:   string(strategy),
		UsedFallback:   usedFallback,
	}, nil
}

func (s *Server) handleRegionDetect(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	_, result, err := s.detectRegion(a.Path)
	return result, err
}

type previewArgs struct {
	Path      string `json:"path"`
	Color     string `json:"color"`
	Thickness int    `json:"thickness"`
}

func (s *Server) handleRegionPreview(args json.RawMessage) (interface{}, error) {
	var a previewArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Color == "" {
		a.Color = "#FF0000"
	}
	if a.Thickness == 0 {
		a.Thickness = 3
	}

	img, result, err := s.detectRegion(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.DrawRegionOutline(img, result.SelectedRegion.Rect(), a.Color, a.Thickness)
}

type colorsArgs struct {
	Path      string            `json:"path"`
	Region    *detection.Region `json:"region"`
	MaxColors int               `json:"max_colors"`
}

func (s *Server) handleRegionColors(args json.RawMessage) (interface{}, error) {
	var a colorsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.MaxColors == 0 {
		a.MaxColors = 5
	}

	var img image.Image
	var region detection.Region
	if a.Region != nil {
		var err error
		img, err = s.cache.Load(a.Path)
		if err != nil {
			return nil, err
		}
		region = *a.Region
	} else {
		var result *DetectResult
		var err error
		img, result, err = s.detectRegion(a.Path)
		if err != nil {
			return nil, err
		}
		region = result.SelectedRegion
	}

	return imaging.DominantColors(img, region.Rect(), a.MaxColors)
}
