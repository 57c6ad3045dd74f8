package server

// Tool represents a tool definition exposed through tools/list.
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// input properties shared by the processing tools
func photoInputProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to the photo file (JPEG, PNG, WEBP or GIF, max 10MB)",
		},
		"image_base64": map[string]interface{}{
			"type":        "string",
			"description": "Raw photo bytes as base64, alternative to path",
		},
		"response_format": map[string]interface{}{
			"type":        "string",
			"description": "Result form: 'json' (default, base64 PNG plus metadata) or 'image' (inline image block)",
			"enum":        []string{"json", "image"},
		},
	}
}

// GetToolDefinitions returns all available tools.
func GetToolDefinitions() []Tool {
	processProps := photoInputProperties()
	processProps["overrides"] = map[string]interface{}{
		"type": "object",
		"description": "Optional pipeline parameter overrides. Recognized keys: median_blur_ksize (odd int >=3), " +
			"bilateral_d, bilateral_sigma_color, bilateral_sigma_space, clahe_clip_limit (float >0), " +
			"clahe_tile_grid_size (int >=1), enhance_clip_limit (float >0), canny_low, canny_high " +
			"(0 <= low < high <= 255), adaptive_block_size (odd int >=3), adaptive_c_offset (int), " +
			"morph_kernel_size (odd int >=1), margin_fraction (float, default 0.03), " +
			"aspect_ratio_min / aspect_ratio_max (defaults 0.3 / 3.0)",
	}

	customProps := photoInputProperties()
	customProps["params"] = map[string]interface{}{
		"type": "object",
		"description": "Per-stage tuning parameters; zero disables a stage. Keys: median_blur, bilateral_d, " +
			"bilateral_sigma, clahe_clip, clahe_grid, gaussian_blur, sharpness, adaptive_block, adaptive_c, " +
			"morph_open, morph_close, skip_crop. Omit to use the tuned optimal set.",
	}

	return []Tool{
		{
			Name: "invoice_process",
			Description: "Normalize a photographed invoice or receipt: detect and crop the document region, " +
				"denoise, boost local contrast, and binarize for text recognition. Returns the processed " +
				"image plus the selected region, the winning detection strategy, and whether the " +
				"full-frame fallback was used.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": processProps,
			},
		},
		{
			Name: "invoice_process_custom",
			Description: "Run the normalization pipeline with per-stage tuning control. Each filter stage can " +
				"be dialed or disabled independently; use this for parameter sweeps, not production processing.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": customProps,
			},
		},
		{
			Name:        "image_info",
			Description: "Get dimensions, sniffed format and file size of a photo.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the photo file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name: "region_detect",
			Description: "Run document-region detection only, reporting all three strategy candidates " +
				"(canny, otsu, brightness) and the selection outcome. Diagnostic tool for understanding " +
				"why a crop was chosen.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the photo file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name: "region_preview",
			Description: "Render the photo with the detected document region outlined, as base64 PNG. " +
				"Visual check of what invoice_process would crop.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the photo file",
					},
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Outline color as #RRGGBB. Default #FF0000",
					},
					"thickness": map[string]interface{}{
						"type":        "integer",
						"description": "Outline thickness in pixels. Default 3",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name: "region_colors",
			Description: "Summarize the dominant colors of the detected document region (or an explicit " +
				"region), using perceptual color merging. A region dominated by the paper color confirms " +
				"a good crop.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the photo file",
					},
					"region": map[string]interface{}{
						"type":        "object",
						"description": "Optional explicit region {x, y, width, height}; defaults to the detected document region",
					},
					"max_colors": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum colors to report. Default 5",
					},
				},
				"required": []string{"path"},
			},
		},
	}
}
