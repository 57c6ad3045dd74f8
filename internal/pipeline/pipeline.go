package pipeline

import (
	"context"
	"fmt"
	"image"

	"github.com/ledgerlens/invoice-prep/internal/detection"
	"github.com/ledgerlens/invoice-prep/internal/imaging"
)

// unsharp parameters of the enhancement stage, tuned to restore roughly
// 1.5x perceived sharpness after the denoise chain
const (
	sharpenRadius = 1.0
	sharpenAmount = 0.5
)

// bilateral sigma for the post-crop enhancement pass; gentler than the
// preprocess pass because the crop has already removed most background
const enhanceBilateralSigma = 50

// Result is the unit returned to callers. Read-only: the pipeline
// relinquishes ownership on return and never touches the fields again.
type Result struct {
	// Image is the terminal binary artifact: dark strokes at 0 on a 255
	// background, PNG-encodable.
	Image *image.Gray

	// SelectedRegion is the cropped document region in source-image pixel
	// coordinates, after margin expansion and clamping.
	SelectedRegion detection.Region

	// StrategyUsed names the detection strategy whose candidate was
	// selected, or detection.StrategyNone on fallback.
	StrategyUsed detection.Strategy

	// UsedFallback reports that no candidate survived selection and the
	// full frame was used instead.
	UsedFallback bool

	// OriginalWidth and OriginalHeight are the decoded input dimensions.
	OriginalWidth  int
	OriginalHeight int
}

// Process decodes raw photo bytes and runs the full normalization chain.
//
// Validation happens before any pixel work: the config is checked first
// (ErrInvalidConfig), then the byte size (imaging.ErrSizeLimit), format
// (imaging.ErrUnsupportedFormat) and decodability (imaging.ErrInvalidImage)
// gates run in that order. Errors surface to the caller untransformed;
// nothing is retried.
func Process(ctx context.Context, data []byte, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	img, _, err := imaging.Decode(data, imaging.MaxInputBytes)
	if err != nil {
		return nil, err
	}
	return ProcessImage(ctx, img, cfg)
}

// ProcessImage runs the normalization chain on an already-decoded image.
//
// The context is consulted between stages: each stage is a bounded, finite
// computation, so the stage boundary is the natural cancellation point. A
// canceled context aborts with ctx.Err() and no partial result.
func ProcessImage(ctx context.Context, img image.Image, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: zero dimension %dx%d", imaging.ErrInvalidImage, width, height)
	}

	// Stage 1: aggressive denoise and contrast normalization.
	pre := preprocess(imaging.ToGray(img), cfg)
	if err := checkpoint(ctx); err != nil {
		return nil, err
	}

	// Stage 2: three-way candidate detection.
	candidates := detection.Detect(pre, detection.Options{
		CannyLow:  cfg.CannyLow,
		CannyHigh: cfg.CannyHigh,
	})
	if err := checkpoint(ctx); err != nil {
		return nil, err
	}

	// Stage 3: selection with fallback.
	region, strategy, usedFallback := detection.Select(candidates[:], width, height, detection.SelectorOptions{
		AspectMin:      cfg.AspectRatioMin,
		AspectMax:      cfg.AspectRatioMax,
		MarginFraction: cfg.MarginFraction,
	})
	if err := checkpoint(ctx); err != nil {
		return nil, err
	}

	// Stage 4: crop the preprocessed frame to the selected region.
	cropped, err := imaging.Crop(pre, region.Rect())
	if err != nil {
		return nil, err
	}
	if err := checkpoint(ctx); err != nil {
		return nil, err
	}

	// Stage 5: single-channel reduction.
	gray := imaging.ToGray(cropped)
	if err := checkpoint(ctx); err != nil {
		return nil, err
	}

	// Stage 6: secondary denoise, aggressive local contrast, sharpening.
	enhanced := enhance(gray, cfg)
	if err := checkpoint(ctx); err != nil {
		return nil, err
	}

	// Stage 7: adaptive binarization.
	binary, err := imaging.AdaptiveThreshold(enhanced, cfg.AdaptiveBlockSize, cfg.AdaptiveCOffset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := checkpoint(ctx); err != nil {
		return nil, err
	}

	// Stage 8: morphological cleanup.
	final := cleanup(binary, cfg)

	return &Result{
		Image:          final,
		SelectedRegion: region,
		StrategyUsed:   strategy,
		UsedFallback:   usedFallback,
		OriginalWidth:  width,
		OriginalHeight: height,
	}, nil
}

// preprocess removes impulse and texture noise from the raw frame and
// normalizes uneven lighting, keeping document edges sharp for detection.
func preprocess(gray *image.Gray, cfg Config) *image.Gray {
	out := imaging.Median(gray, cfg.MedianBlurKSize)
	out = imaging.Bilateral(out, cfg.BilateralD, cfg.BilateralSigmaColor, cfg.BilateralSigmaSpace)
	out = imaging.Close(out, 3, 1)
	return imaging.CLAHE(out, cfg.CLAHEClipLimit, cfg.CLAHETileGridSize)
}

// enhance runs the post-crop cleanup chain: progressive denoise (median,
// Gaussian, bilateral, in that order), hard local contrast, then an
// unsharp pass to counteract the blur the denoise chain introduced.
func enhance(gray *image.Gray, cfg Config) *image.Gray {
	out := imaging.Median(gray, cfg.MedianBlurKSize)
	out = imaging.Gaussian(out, 3)
	out = imaging.Bilateral(out, cfg.BilateralD, enhanceBilateralSigma, enhanceBilateralSigma)
	out = imaging.CLAHE(out, cfg.EnhanceClipLimit, cfg.CLAHETileGridSize)
	return imaging.Unsharp(out, sharpenRadius, sharpenAmount)
}

// cleanup removes speckle from the binary image: opening drops isolated
// bright specks, closing fills pinholes in strokes, and a soft 3x3 median
// smooths the remaining jagged stroke edges.
func cleanup(binary *image.Gray, cfg Config) *image.Gray {
	out := imaging.Open(binary, cfg.MorphKernelSize, 1)
	out = imaging.Close(out, cfg.MorphKernelSize, 1)
	return imaging.Median(out, 3)
}

// checkpoint reports a context cancellation without blocking.
func checkpoint(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
