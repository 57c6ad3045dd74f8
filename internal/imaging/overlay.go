package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"
	"strings"
)

// OverlayResult contains an annotated copy of an image encoded as
// base64 PNG, for eyeballing what the detector selected.
type OverlayResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// DrawRegionOutline renders a copy of img with a rectangular outline of the
// given thickness around region. The outline is clipped to the image; the
// source image is never modified.
func DrawRegionOutline(img image.Image, region image.Rectangle, colorHex string, thickness int) (*OverlayResult, error) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	lineColor, err := parseHexColor(colorHex)
	if err != nil {
		lineColor = color.RGBA{255, 0, 0, 255} // default: red
	}
	if thickness < 1 {
		thickness = 1
	}

	out := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(out, out.Bounds(), img, bounds.Min, draw.Src)

	r := region.Sub(bounds.Min).Intersect(out.Bounds())
	if r.Empty() {
		return nil, fmt.Errorf("%w: region %v outside image bounds %v", ErrRegionOutOfBounds, region, bounds)
	}

	for t := 0; t < thickness; t++ {
		top := clamp(r.Min.Y+t, 0, height-1)
		bottom := clamp(r.Max.Y-1-t, 0, height-1)
		for x := r.Min.X; x < r.Max.X; x++ {
			out.Set(x, top, lineColor)
			out.Set(x, bottom, lineColor)
		}
		left := clamp(r.Min.X+t, 0, width-1)
		right := clamp(r.Max.X-1-t, 0, width-1)
		for y := r.Min.Y; y < r.Max.Y; y++ {
			out.Set(left, y, lineColor)
			out.Set(right, y, lineColor)
		}
	}

	encoded, err := EncodeBase64PNG(out)
	if err != nil {
		return nil, err
	}
	return &OverlayResult{
		Width:       width,
		Height:      height,
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

// parseHexColor parses "#RRGGBB" (leading '#' optional) into an opaque RGBA.
func parseHexColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}, nil
}
