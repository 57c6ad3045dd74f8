package imaging

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/parallel"
)

// ToGray reduces an image to single-channel 8-bit intensity using ITU-R
// BT.601 luminance weights (0.299*R + 0.587*G + 0.114*B).
//
// If the source is already an *image.Gray, a copy is returned so the caller
// can treat the result as exclusively owned.
func ToGray(img image.Image) *image.Gray {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	out := image.NewGray(image.Rect(0, 0, width, height))

	if src, ok := img.(*image.Gray); ok {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				out.SetGray(x, y, src.GrayAt(x+bounds.Min.X, y+bounds.Min.Y))
			}
		}
		return out
	}

	parallel.Line(height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < width; x++ {
				r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
				lum := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
				out.SetGray(x, y, color.Gray{Y: uint8(lum + 0.5)})
			}
		}
	})
	return out
}

// grayFromImage collapses an RGBA result from a bild filter back to a gray
// plane. The filters are fed gray input (R=G=B) so the red channel carries
// the intensity unchanged.
func grayFromImage(img image.Image) *image.Gray {
	if rgba, ok := img.(*image.RGBA); ok {
		bounds := rgba.Bounds()
		width := bounds.Dx()
		height := bounds.Dy()
		out := image.NewGray(image.Rect(0, 0, width, height))
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				out.Pix[y*out.Stride+x] = rgba.RGBAAt(x+bounds.Min.X, y+bounds.Min.Y).R
			}
		}
		return out
	}
	return ToGray(img)
}

// CloneGray returns an independent copy of a gray image.
func CloneGray(src *image.Gray) *image.Gray {
	out := image.NewGray(src.Rect)
	copy(out.Pix, src.Pix)
	return out
}

// MeanIntensity returns the average pixel value of a gray image.
// An empty image yields 0.
func MeanIntensity(src *image.Gray) float64 {
	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return 0
	}

	var sum uint64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			sum += uint64(src.GrayAt(x, y).Y)
		}
	}
	return float64(sum) / float64(width*height)
}

// clamp constrains an integer value to the range [min, max].
// Used for boundary handling in convolution operations.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
