package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/parallel"
)

// Bilateral applies an edge-preserving bilateral filter.
//
// Each output pixel is a weighted average of its d x d neighborhood where
// the weight is the product of a spatial Gaussian (sigmaSpace) and a range
// Gaussian over the intensity difference (sigmaColor). Flat regions are
// smoothed like a plain Gaussian blur; across a strong intensity step the
// range term collapses the weight, so document edges stay sharp.
//
// Parameters:
//   - d: neighborhood diameter in pixels. Values <= 0 return a copy.
//   - sigmaColor: range standard deviation in intensity levels (0-255 scale).
//   - sigmaSpace: spatial standard deviation in pixels.
//
// Rows are processed in parallel; the filter is deterministic regardless of
// scheduling because every output pixel depends only on the input plane.
func Bilateral(src *image.Gray, d int, sigmaColor, sigmaSpace float64) *image.Gray {
	if d <= 0 || sigmaColor <= 0 || sigmaSpace <= 0 {
		return CloneGray(src)
	}

	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	out := image.NewGray(image.Rect(0, 0, width, height))

	radius := d / 2
	if radius < 1 {
		radius = 1
	}

	// Precompute the spatial weights and a 256-entry range weight table.
	size := 2*radius + 1
	spatial := make([]float64, size*size)
	for ky := -radius; ky <= radius; ky++ {
		for kx := -radius; kx <= radius; kx++ {
			d2 := float64(kx*kx + ky*ky)
			spatial[(ky+radius)*size+(kx+radius)] = math.Exp(-d2 / (2 * sigmaSpace * sigmaSpace))
		}
	}
	rangeW := make([]float64, 256)
	for i := range rangeW {
		diff := float64(i)
		rangeW[i] = math.Exp(-(diff * diff) / (2 * sigmaColor * sigmaColor))
	}

	parallel.Line(height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < width; x++ {
				center := src.GrayAt(x+bounds.Min.X, y+bounds.Min.Y).Y
				var sum, norm float64
				for ky := -radius; ky <= radius; ky++ {
					for kx := -radius; kx <= radius; kx++ {
						py := clamp(y+ky, 0, height-1)
						px := clamp(x+kx, 0, width-1)
						v := src.GrayAt(px+bounds.Min.X, py+bounds.Min.Y).Y
						diff := int(v) - int(center)
						if diff < 0 {
							diff = -diff
						}
						w := spatial[(ky+radius)*size+(kx+radius)] * rangeW[diff]
						sum += w * float64(v)
						norm += w
					}
				}
				out.Pix[y*out.Stride+x] = uint8(sum/norm + 0.5)
			}
		}
	})
	return out
}
