package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/anthonynsimon/bild/segment"
)

// AdaptiveThreshold binarizes a grayscale image against a per-pixel local
// threshold.
//
// For each pixel the threshold is the Gaussian-weighted mean of a
// block x block neighborhood minus offset: pixels brighter than that local
// mean (minus the offset) become 255, the rest 0. Because the threshold
// tracks local illumination, text stays separable under the uneven lighting
// typical of photographed (not scanned) documents, where any single global
// cut collapses a shadowed corner to solid black.
//
// block must be odd and >= 3; the constraint is validated here defensively
// even though the pipeline config rejects bad values before any stage runs.
func AdaptiveThreshold(src *image.Gray, block, offset int) (*image.Gray, error) {
	if block < 3 || block%2 == 0 {
		return nil, fmt.Errorf("adaptive threshold block size must be odd and >= 3, got %d", block)
	}

	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	out := image.NewGray(image.Rect(0, 0, width, height))
	if width == 0 || height == 0 {
		return out, nil
	}

	kernel := gaussianKernel1D(block)
	radius := block / 2

	// Separable Gaussian mean: horizontal pass, then vertical.
	horiz := make([]float64, width*height)
	parallel.Line(height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < width; x++ {
				var sum float64
				for k := -radius; k <= radius; k++ {
					px := clamp(x+k, 0, width-1)
					sum += kernel[k+radius] * float64(src.GrayAt(px+bounds.Min.X, y+bounds.Min.Y).Y)
				}
				horiz[y*width+x] = sum
			}
		}
	})

	thresh := float64(offset)
	parallel.Line(height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < width; x++ {
				var mean float64
				for k := -radius; k <= radius; k++ {
					py := clamp(y+k, 0, height-1)
					mean += kernel[k+radius] * horiz[py*width+x]
				}
				v := float64(src.GrayAt(x+bounds.Min.X, y+bounds.Min.Y).Y)
				if v > mean-thresh {
					out.Pix[y*out.Stride+x] = 255
				}
			}
		}
	})
	return out, nil
}

// gaussianKernel1D builds a normalized 1D Gaussian kernel of the given odd
// size, with sigma derived from the size the way OpenCV does for its
// adaptive mean (sigma = 0.3*((size-1)*0.5 - 1) + 0.8).
func gaussianKernel1D(size int) []float64 {
	sigma := 0.3*(float64(size-1)*0.5-1) + 0.8
	radius := size / 2
	kernel := make([]float64, size)
	var sum float64
	for i := -radius; i <= radius; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+radius] = v
		sum += v
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// OtsuLevel computes the global threshold that minimizes intra-class
// intensity variance (equivalently, maximizes between-class variance) by
// scanning all 256 candidate levels over the image histogram.
func OtsuLevel(src *image.Gray) uint8 {
	bounds := src.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return 0
	}

	var hist [256]int
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			hist[src.GrayAt(x, y).Y]++
		}
	}

	var sumAll float64
	for i, n := range hist {
		sumAll += float64(i) * float64(n)
	}

	var best uint8
	var bestVariance float64
	var wBack, sumBack float64

	for t := 0; t < 256; t++ {
		wBack += float64(hist[t])
		if wBack == 0 {
			continue
		}
		wFore := float64(total) - wBack
		if wFore == 0 {
			break
		}
		sumBack += float64(t) * float64(hist[t])

		meanBack := sumBack / wBack
		meanFore := (sumAll - sumBack) / wFore
		diff := meanBack - meanFore
		variance := wBack * wFore * diff * diff

		if variance > bestVariance {
			bestVariance = variance
			best = uint8(t)
		}
	}
	return best
}

// Binarize applies a global threshold: pixels strictly above level become
// white, the rest black.
func Binarize(src *image.Gray, level uint8) *image.Gray {
	if level == 255 {
		// segment.Threshold maps >= level to white; force all-black instead
		// of letting pure white survive its inclusive comparison.
		out := image.NewGray(image.Rect(0, 0, src.Bounds().Dx(), src.Bounds().Dy()))
		return out
	}
	return ToGray(segment.Threshold(src, level+1))
}

// Invert flips a gray image (v -> 255-v). Used for the inverted polarity
// pass of the Otsu detection strategy.
func Invert(src *image.Gray) *image.Gray {
	out := CloneGray(src)
	for i, v := range out.Pix {
		out.Pix[i] = 255 - v
	}
	return out
}
