package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
)

// Median applies a median filter with a square ksize x ksize neighborhood.
// A ksize of 1 or less is a no-op copy. Removes impulse (salt and pepper)
// noise while keeping step edges intact.
func Median(src *image.Gray, ksize int) *image.Gray {
	if ksize <= 1 {
		return CloneGray(src)
	}
	return grayFromImage(effect.Median(src, float64(ksize)))
}

// Gaussian applies Gaussian smoothing with a ksize x ksize kernel.
// ksize must be odd; a ksize of 1 or less is a no-op copy.
func Gaussian(src *image.Gray, ksize int) *image.Gray {
	if ksize <= 1 {
		return CloneGray(src)
	}
	// bild builds a (2*radius+1) wide kernel.
	return grayFromImage(blur.Gaussian(src, float64(ksize/2)))
}

// Unsharp sharpens with an unsharp mask: the blurred image is subtracted
// from the source, scaled by amount, and added back. Used to counteract the
// softening left by the denoise chain.
func Unsharp(src *image.Gray, radius, amount float64) *image.Gray {
	if amount <= 0 {
		return CloneGray(src)
	}
	return grayFromImage(effect.UnsharpMask(src, radius, amount))
}

// Dilate grows bright regions using a square structuring element of the
// given kernel size (ksize 3 means a 3x3 element).
func Dilate(src *image.Gray, ksize, iterations int) *image.Gray {
	out := src
	radius := float64(maxInt(ksize/2, 1))
	for i := 0; i < iterations; i++ {
		out = grayFromImage(effect.Dilate(out, radius))
	}
	if out == src {
		return CloneGray(src)
	}
	return out
}

// Erode shrinks bright regions using a square structuring element of the
// given kernel size.
func Erode(src *image.Gray, ksize, iterations int) *image.Gray {
	out := src
	radius := float64(maxInt(ksize/2, 1))
	for i := 0; i < iterations; i++ {
		out = grayFromImage(effect.Erode(out, radius))
	}
	if out == src {
		return CloneGray(src)
	}
	return out
}

// Open performs morphological opening (erosion then dilation), removing
// foreground specks smaller than the structuring element.
func Open(src *image.Gray, ksize, iterations int) *image.Gray {
	out := src
	for i := 0; i < iterations; i++ {
		out = Dilate(Erode(out, ksize, 1), ksize, 1)
	}
	if out == src {
		return CloneGray(src)
	}
	return out
}

// Close performs morphological closing (dilation then erosion), filling
// background holes smaller than the structuring element.
func Close(src *image.Gray, ksize, iterations int) *image.Gray {
	out := src
	for i := 0; i < iterations; i++ {
		out = Erode(Dilate(out, ksize, 1), ksize, 1)
	}
	if out == src {
		return CloneGray(src)
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
