package imaging

import (
	"encoding/base64"
	"image"
	"image/color"
	"testing"
)

// decodeBase64 decodes a standard base64 payload, failing the test on error.
func decodeBase64(t *testing.T, s string) []byte {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	return data
}

// uniformGray creates a width x height gray image filled with value v.
func uniformGray(width, height int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

// rectOnGray creates a background-filled gray image with a filled rectangle
// of a different value.
func rectOnGray(width, height int, bg, fg uint8, r image.Rectangle) *image.Gray {
	img := uniformGray(width, height, bg)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetGray(x, y, color.Gray{Y: fg})
		}
	}
	return img
}

// uniformRGBA creates a width x height RGBA image filled with one color.
func uniformRGBA(width, height int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// grayEquals reports whether two gray images have identical pixels.
func grayEquals(a, b *image.Gray) bool {
	if a.Rect.Dx() != b.Rect.Dx() || a.Rect.Dy() != b.Rect.Dy() {
		return false
	}
	for y := 0; y < a.Rect.Dy(); y++ {
		for x := 0; x < a.Rect.Dx(); x++ {
			if a.GrayAt(x+a.Rect.Min.X, y+a.Rect.Min.Y).Y != b.GrayAt(x+b.Rect.Min.X, y+b.Rect.Min.Y).Y {
				return false
			}
		}
	}
	return true
}

// isBinary reports whether every pixel is 0 or 255.
func isBinary(img *image.Gray) bool {
	for _, v := range img.Pix {
		if v != 0 && v != 255 {
			return false
		}
	}
	return true
}
