package imaging

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestCropValidRegion(t *testing.T) {
	src := uniformRGBA(100, 80, color.RGBA{R: 200, G: 10, B: 10, A: 255})

	out, err := Crop(src, image.Rect(10, 20, 60, 70))
	if err != nil {
		t.Fatalf("Crop() unexpected error: %v", err)
	}
	b := out.Bounds()
	if b.Dx() != 50 || b.Dy() != 50 {
		t.Errorf("cropped dimensions = %dx%d, want 50x50", b.Dx(), b.Dy())
	}
}

func TestCropOutOfBounds(t *testing.T) {
	src := uniformRGBA(50, 50, color.RGBA{A: 255})

	tests := []struct {
		name   string
		region image.Rectangle
	}{
		{"exceeds right edge", image.Rect(10, 10, 60, 40)},
		{"negative origin", image.Rect(-5, 0, 20, 20)},
		{"empty region", image.Rect(10, 10, 10, 10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Crop(src, tt.region)
			if !errors.Is(err, ErrRegionOutOfBounds) {
				t.Errorf("Crop() error = %v, want ErrRegionOutOfBounds", err)
			}
		})
	}
}

func TestResize(t *testing.T) {
	src := uniformRGBA(100, 60, color.RGBA{R: 30, G: 30, B: 30, A: 255})

	out := Resize(src, 50, 30)

	b := out.Bounds()
	if b.Dx() != 50 || b.Dy() != 30 {
		t.Errorf("resized dimensions = %dx%d, want 50x30", b.Dx(), b.Dy())
	}
}

func TestEncodePNGRoundTrip(t *testing.T) {
	src := rectOnGray(24, 16, 50, 210, image.Rect(4, 4, 20, 12))

	data, err := EncodePNG(src)
	if err != nil {
		t.Fatalf("EncodePNG() failed: %v", err)
	}

	img, format, err := Decode(data, 0)
	if err != nil {
		t.Fatalf("decoding encoded bytes failed: %v", err)
	}
	if format != "png" {
		t.Errorf("round-trip format = %q, want png", format)
	}
	if img.Bounds().Dx() != 24 || img.Bounds().Dy() != 16 {
		t.Errorf("round-trip dimensions = %dx%d, want 24x16", img.Bounds().Dx(), img.Bounds().Dy())
	}
	if got := ToGray(img).GrayAt(10, 8).Y; got != 210 {
		t.Errorf("round-trip pixel = %d, want 210", got)
	}
}

func TestEncodeBase64PNG(t *testing.T) {
	src := uniformGray(8, 8, 99)

	s, err := EncodeBase64PNG(src)
	if err != nil {
		t.Fatalf("EncodeBase64PNG() failed: %v", err)
	}
	if s == "" {
		t.Fatal("expected non-empty base64 payload")
	}
}
