package detection

import (
	"image"
	"image/color"
)

// documentFixture draws a dark filled rectangle on a light field, the
// synthetic stand-in for a receipt lying on a bright table.
func documentFixture(width, height int, doc image.Rectangle) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 235
	}
	for y := doc.Min.Y; y < doc.Max.Y; y++ {
		for x := doc.Min.X; x < doc.Max.X; x++ {
			img.SetGray(x, y, color.Gray{Y: 40})
		}
	}
	return img
}

// blankFixture is a featureless white frame.
func blankFixture(width, height int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return img
}

// binaryMask builds a mask with the given rectangles set to 255.
func binaryMask(width, height int, rects ...image.Rectangle) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for _, r := range rects {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}

// regionNear reports whether got is within tol pixels of want on every edge.
func regionNear(got Region, want image.Rectangle, tol int) bool {
	abs := func(v int) int {
		if v < 0 {
			return -v
		}
		return v
	}
	return abs(got.X-want.Min.X) <= tol &&
		abs(got.Y-want.Min.Y) <= tol &&
		abs(got.X+got.Width-want.Max.X) <= tol &&
		abs(got.Y+got.Height-want.Max.Y) <= tol
}
