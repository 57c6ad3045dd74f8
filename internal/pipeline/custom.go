package pipeline

import (
	"context"
	"fmt"
	"image"

	"github.com/ledgerlens/invoice-prep/internal/detection"
	"github.com/ledgerlens/invoice-prep/internal/imaging"
)

// CustomParams is the tuning-surface parameter set: unlike Config, every
// stage can be dialed or disabled independently (zero disables), so a
// parameter sweep can isolate one filter's contribution.
//
// JSON names are the wire contract of the tuning tool.
type CustomParams struct {
	// MedianBlur kernel size; values <= 1 disable the median stage.
	MedianBlur int `json:"median_blur"`

	// BilateralD diameter; <= 0 disables the bilateral stage.
	BilateralD int `json:"bilateral_d"`

	// BilateralSigma is used for both the color and spatial sigma.
	BilateralSigma float64 `json:"bilateral_sigma"`

	// CLAHEClip; <= 0 disables contrast equalization.
	CLAHEClip float64 `json:"clahe_clip"`

	// CLAHEGrid tile dimension.
	CLAHEGrid int `json:"clahe_grid"`

	// GaussianBlur kernel size; <= 0 disables the Gaussian stage.
	GaussianBlur int `json:"gaussian_blur"`

	// Sharpness is the unsharp amount; <= 0 disables sharpening.
	Sharpness float64 `json:"sharpness"`

	// AdaptiveBlock and AdaptiveC parameterize the thresholder. The
	// thresholder always runs: binarization is the product, not a tweak.
	AdaptiveBlock int `json:"adaptive_block"`
	AdaptiveC     int `json:"adaptive_c"`

	// MorphOpen / MorphClose kernel sizes; <= 0 disables each.
	MorphOpen  int `json:"morph_open"`
	MorphClose int `json:"morph_close"`

	// SkipCrop bypasses detection and processes the full frame.
	SkipCrop bool `json:"skip_crop"`
}

// OptimalCustomParams returns the parameter set found best during manual
// tuning against real receipt photos. Values are pre-normalization; even
// kernel sizes are rounded up when applied.
func OptimalCustomParams() CustomParams {
	return CustomParams{
		MedianBlur:     1,
		BilateralD:     14,
		BilateralSigma: 100,
		CLAHEClip:      0,
		CLAHEGrid:      4,
		GaussianBlur:   6,
		Sharpness:      0,
		AdaptiveBlock:  17,
		AdaptiveC:      2,
		MorphOpen:      0,
		MorphClose:     0,
	}
}

// normalized returns a copy with even kernel sizes rounded up to odd.
// The tuning surface is forgiving where the main pipeline rejects: a
// slider hitting an even value should not abort a sweep.
func (p CustomParams) normalized() CustomParams {
	if p.MedianBlur > 1 && p.MedianBlur%2 == 0 {
		p.MedianBlur++
	}
	if p.GaussianBlur > 0 && p.GaussianBlur%2 == 0 {
		p.GaussianBlur++
	}
	if p.AdaptiveBlock%2 == 0 {
		p.AdaptiveBlock++
	}
	return p
}

// ProcessCustom decodes raw photo bytes and runs the tuning pipeline with
// per-stage control. Detection and selection use DefaultConfig parameters;
// the filter chain follows params.
func ProcessCustom(ctx context.Context, data []byte, params CustomParams) (*Result, error) {
	img, _, err := imaging.Decode(data, imaging.MaxInputBytes)
	if err != nil {
		return nil, err
	}
	return ProcessCustomImage(ctx, img, params)
}

// ProcessCustomImage runs the tuning pipeline on a decoded image.
func ProcessCustomImage(ctx context.Context, img image.Image, params CustomParams) (*Result, error) {
	p := params.normalized()
	if p.AdaptiveBlock < 3 {
		return nil, fmt.Errorf("%w: adaptive_block must be >= 3, got %d", ErrInvalidConfig, params.AdaptiveBlock)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: zero dimension %dx%d", imaging.ErrInvalidImage, width, height)
	}

	cfg := DefaultConfig()
	gray := imaging.ToGray(img)

	region := detection.Region{X: 0, Y: 0, Width: width, Height: height}
	strategy := detection.StrategyNone
	usedFallback := false

	if !p.SkipCrop {
		// Unlike the optimal pipeline, detection here sees the raw frame:
		// the sweep is about the filter chain, and a preprocessed detection
		// input would couple the two.
		candidates := detection.Detect(gray, detection.Options{
			CannyLow:  cfg.CannyLow,
			CannyHigh: cfg.CannyHigh,
		})
		region, strategy, usedFallback = detection.Select(candidates[:], width, height, detection.SelectorOptions{
			AspectMin:      cfg.AspectRatioMin,
			AspectMax:      cfg.AspectRatioMax,
			MarginFraction: cfg.MarginFraction,
		})
		cropped, err := imaging.Crop(gray, region.Rect())
		if err != nil {
			return nil, err
		}
		gray = imaging.ToGray(cropped)
	}
	if err := checkpoint(ctx); err != nil {
		return nil, err
	}

	out := imaging.Median(gray, p.MedianBlur)
	if p.BilateralD > 0 {
		out = imaging.Bilateral(out, p.BilateralD, p.BilateralSigma, p.BilateralSigma)
	}
	out = imaging.CLAHE(out, p.CLAHEClip, p.CLAHEGrid)
	out = imaging.Gaussian(out, p.GaussianBlur)
	out = imaging.Unsharp(out, sharpenRadius, p.Sharpness)
	if err := checkpoint(ctx); err != nil {
		return nil, err
	}

	binary, err := imaging.AdaptiveThreshold(out, p.AdaptiveBlock, p.AdaptiveC)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if p.MorphOpen > 0 {
		binary = imaging.Open(binary, p.MorphOpen, 1)
	}
	if p.MorphClose > 0 {
		binary = imaging.Close(binary, p.MorphClose, 1)
	}

	return &Result{
		Image:          binary,
		SelectedRegion: region,
		StrategyUsed:   strategy,
		UsedFallback:   usedFallback,
		OriginalWidth:  width,
		OriginalHeight: height,
	}, nil
}
