package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Crop extracts a rectangular sub-image.
//
// The rectangle is interpreted in the source image's coordinate space and
// must lie fully inside it. The selector clamps every region it emits, so a
// violation here signals a selector invariant break rather than bad user
// input; the check stays anyway and reports ErrRegionOutOfBounds.
func Crop(img image.Image, r image.Rectangle) (*image.NRGBA, error) {
	bounds := img.Bounds()
	if r.Empty() {
		return nil, fmt.Errorf("%w: empty region %v", ErrRegionOutOfBounds, r)
	}
	if !r.In(bounds) {
		return nil, fmt.Errorf("%w: region %v outside image bounds %v", ErrRegionOutOfBounds, r, bounds)
	}
	return imaging.Crop(img, r), nil
}

// Resize scales an image to the given dimensions with Lanczos resampling.
// Used by preview tooling, never by the pipeline itself.
func Resize(img image.Image, width, height int) *image.NRGBA {
	return imaging.Resize(img, width, height, imaging.Lanczos)
}
