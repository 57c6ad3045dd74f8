package pipeline

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig indicates a configuration value violated its type or
// range constraint. Raised before any image processing happens.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the immutable parameter record for one pipeline invocation.
//
// Zero values are not meaningful; construct with DefaultConfig and adjust,
// or merge caller overrides with WithOverrides. The record is validated
// once at pipeline entry and never mutated mid-pipeline.
type Config struct {
	// MedianBlurKSize is the square neighborhood of the preprocess and
	// enhance median filters. Odd, >= 3.
	MedianBlurKSize int

	// BilateralD is the neighborhood diameter of the preprocess bilateral
	// filter.
	BilateralD int

	// BilateralSigmaColor is the bilateral range sigma in intensity levels.
	BilateralSigmaColor float64

	// BilateralSigmaSpace is the bilateral spatial sigma in pixels.
	BilateralSigmaSpace float64

	// CLAHEClipLimit bounds per-tile contrast amplification during
	// preprocessing. > 0.
	CLAHEClipLimit float64

	// CLAHETileGridSize is the CLAHE grid dimension (n x n tiles). >= 1.
	CLAHETileGridSize int

	// EnhanceClipLimit is the CLAHE clip used by the enhancement stage
	// after cropping. Higher than CLAHEClipLimit: cropped content has
	// already lost most background so it tolerates harder amplification.
	EnhanceClipLimit float64

	// CannyLow and CannyHigh are the edge-strategy hysteresis thresholds.
	// 0 <= low < high <= 255.
	CannyLow  int
	CannyHigh int

	// AdaptiveBlockSize is the local-mean neighborhood of the adaptive
	// thresholder. Odd, >= 3.
	AdaptiveBlockSize int

	// AdaptiveCOffset is subtracted from the local mean before comparing;
	// larger values classify fewer pixels as foreground.
	AdaptiveCOffset int

	// MorphKernelSize is the structuring element of the final cleanup
	// open/close. Odd, >= 1.
	MorphKernelSize int

	// MarginFraction is the safety margin added around the selected
	// region, per side, as a fraction of the larger region dimension.
	MarginFraction float64

	// AspectRatioMin and AspectRatioMax bound the height/width ratio a
	// candidate may have.
	AspectRatioMin float64
	AspectRatioMax float64
}

// DefaultConfig returns the tuned "optimal" pipeline parameters.
func DefaultConfig() Config {
	return Config{
		MedianBlurKSize:     5,
		BilateralD:          9,
		BilateralSigmaColor: 75,
		BilateralSigmaSpace: 75,
		CLAHEClipLimit:      2.0,
		CLAHETileGridSize:   8,
		EnhanceClipLimit:    4.0,
		CannyLow:            50,
		CannyHigh:           150,
		AdaptiveBlockSize:   31,
		AdaptiveCOffset:     15,
		MorphKernelSize:     3,
		MarginFraction:      0.03,
		AspectRatioMin:      0.3,
		AspectRatioMax:      3.0,
	}
}

// Overrides is the caller-facing option set: every field is optional and
// nil means "keep the default". The JSON names are the wire contract of
// the tool surface.
type Overrides struct {
	MedianBlurKSize     *int     `json:"median_blur_ksize,omitempty"`
	BilateralD          *int     `json:"bilateral_d,omitempty"`
	BilateralSigmaColor *float64 `json:"bilateral_sigma_color,omitempty"`
	BilateralSigmaSpace *float64 `json:"bilateral_sigma_space,omitempty"`
	CLAHEClipLimit      *float64 `json:"clahe_clip_limit,omitempty"`
	CLAHETileGridSize   *int     `json:"clahe_tile_grid_size,omitempty"`
	EnhanceClipLimit    *float64 `json:"enhance_clip_limit,omitempty"`
	CannyLow            *int     `json:"canny_low,omitempty"`
	CannyHigh           *int     `json:"canny_high,omitempty"`
	AdaptiveBlockSize   *int     `json:"adaptive_block_size,omitempty"`
	AdaptiveCOffset     *int     `json:"adaptive_c_offset,omitempty"`
	MorphKernelSize     *int     `json:"morph_kernel_size,omitempty"`
	MarginFraction      *float64 `json:"margin_fraction,omitempty"`
	AspectRatioMin      *float64 `json:"aspect_ratio_min,omitempty"`
	AspectRatioMax      *float64 `json:"aspect_ratio_max,omitempty"`
}

// WithOverrides returns a copy of the config with all non-nil override
// fields applied. The receiver is not modified. The result still needs
// Validate; merging never rejects values.
func (c Config) WithOverrides(o *Overrides) Config {
	if o == nil {
		return c
	}
	if o.MedianBlurKSize != nil {
		c.MedianBlurKSize = *o.MedianBlurKSize
	}
	if o.BilateralD != nil {
		c.BilateralD = *o.BilateralD
	}
	if o.BilateralSigmaColor != nil {
		c.BilateralSigmaColor = *o.BilateralSigmaColor
	}
	if o.BilateralSigmaSpace != nil {
		c.BilateralSigmaSpace = *o.BilateralSigmaSpace
	}
	if o.CLAHEClipLimit != nil {
		c.CLAHEClipLimit = *o.CLAHEClipLimit
	}
	if o.CLAHETileGridSize != nil {
		c.CLAHETileGridSize = *o.CLAHETileGridSize
	}
	if o.EnhanceClipLimit != nil {
		c.EnhanceClipLimit = *o.EnhanceClipLimit
	}
	if o.CannyLow != nil {
		c.CannyLow = *o.CannyLow
	}
	if o.CannyHigh != nil {
		c.CannyHigh = *o.CannyHigh
	}
	if o.AdaptiveBlockSize != nil {
		c.AdaptiveBlockSize = *o.AdaptiveBlockSize
	}
	if o.AdaptiveCOffset != nil {
		c.AdaptiveCOffset = *o.AdaptiveCOffset
	}
	if o.MorphKernelSize != nil {
		c.MorphKernelSize = *o.MorphKernelSize
	}
	if o.MarginFraction != nil {
		c.MarginFraction = *o.MarginFraction
	}
	if o.AspectRatioMin != nil {
		c.AspectRatioMin = *o.AspectRatioMin
	}
	if o.AspectRatioMax != nil {
		c.AspectRatioMax = *o.AspectRatioMax
	}
	return c
}

// Validate checks every range constraint. All violations wrap
// ErrInvalidConfig so callers can classify with errors.Is.
func (c Config) Validate() error {
	if c.MedianBlurKSize < 3 || c.MedianBlurKSize%2 == 0 {
		return fmt.Errorf("%w: median_blur_ksize must be odd and >= 3, got %d", ErrInvalidConfig, c.MedianBlurKSize)
	}
	if c.BilateralD < 1 {
		return fmt.Errorf("%w: bilateral_d must be >= 1, got %d", ErrInvalidConfig, c.BilateralD)
	}
	if c.BilateralSigmaColor <= 0 {
		return fmt.Errorf("%w: bilateral_sigma_color must be > 0, got %g", ErrInvalidConfig, c.BilateralSigmaColor)
	}
	if c.BilateralSigmaSpace <= 0 {
		return fmt.Errorf("%w: bilateral_sigma_space must be > 0, got %g", ErrInvalidConfig, c.BilateralSigmaSpace)
	}
	if c.CLAHEClipLimit <= 0 {
		return fmt.Errorf("%w: clahe_clip_limit must be > 0, got %g", ErrInvalidConfig, c.CLAHEClipLimit)
	}
	if c.CLAHETileGridSize < 1 {
		return fmt.Errorf("%w: clahe_tile_grid_size must be >= 1, got %d", ErrInvalidConfig, c.CLAHETileGridSize)
	}
	if c.EnhanceClipLimit <= 0 {
		return fmt.Errorf("%w: enhance_clip_limit must be > 0, got %g", ErrInvalidConfig, c.EnhanceClipLimit)
	}
	if c.CannyLow < 0 || c.CannyHigh > 255 || c.CannyLow >= c.CannyHigh {
		return fmt.Errorf("%w: canny thresholds must satisfy 0 <= low < high <= 255, got low=%d high=%d",
			ErrInvalidConfig, c.CannyLow, c.CannyHigh)
	}
	if c.AdaptiveBlockSize < 3 || c.AdaptiveBlockSize%2 == 0 {
		return fmt.Errorf("%w: adaptive_block_size must be odd and >= 3, got %d", ErrInvalidConfig, c.AdaptiveBlockSize)
	}
	if c.MorphKernelSize < 1 || c.MorphKernelSize%2 == 0 {
		return fmt.Errorf("%w: morph_kernel_size must be odd and >= 1, got %d", ErrInvalidConfig, c.MorphKernelSize)
	}
	if c.MarginFraction < 0 || c.MarginFraction >= 1 {
		return fmt.Errorf("%w: margin_fraction must be in [0, 1), got %g", ErrInvalidConfig, c.MarginFraction)
	}
	if c.AspectRatioMin <= 0 || c.AspectRatioMax <= c.AspectRatioMin {
		return fmt.Errorf("%w: aspect ratio band must satisfy 0 < min < max, got min=%g max=%g",
			ErrInvalidConfig, c.AspectRatioMin, c.AspectRatioMax)
	}
	return nil
}
