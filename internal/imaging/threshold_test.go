package imaging

import (
	"image"
	"testing"
)

func TestAdaptiveThresholdProducesBinaryOutput(t *testing.T) {
	src := rectOnGray(60, 60, 210, 40, image.Rect(20, 20, 40, 40))

	dst, err := AdaptiveThreshold(src, 31, 15)
	if err != nil {
		t.Fatalf("AdaptiveThreshold() unexpected error: %v", err)
	}
	if !isBinary(dst) {
		t.Error("output must contain only 0 and 255")
	}
}

func TestAdaptiveThresholdSeparatesTextFromBackground(t *testing.T) {
	// Dark block on a bright field: block pixels map to 0 (ink), the
	// field away from the block maps to 255 (paper).
	src := rectOnGray(80, 80, 220, 30, image.Rect(30, 30, 50, 50))

	dst, err := AdaptiveThreshold(src, 31, 15)
	if err != nil {
		t.Fatalf("AdaptiveThreshold() unexpected error: %v", err)
	}

	if got := dst.GrayAt(40, 40).Y; got != 0 {
		t.Errorf("dark block center = %d, want 0", got)
	}
	if got := dst.GrayAt(5, 5).Y; got != 255 {
		t.Errorf("bright corner = %d, want 255", got)
	}
}

func TestAdaptiveThresholdUniformImageIsForeground(t *testing.T) {
	// On a flat field every pixel sits exactly at the local mean, so
	// v > mean - offset holds everywhere and the output is all white.
	src := uniformGray(40, 40, 128)

	dst, err := AdaptiveThreshold(src, 31, 15)
	if err != nil {
		t.Fatalf("AdaptiveThreshold() unexpected error: %v", err)
	}
	for i, v := range dst.Pix {
		if v != 255 {
			t.Fatalf("pixel %d = %d, want 255", i, v)
		}
	}
}

func TestAdaptiveThresholdIdempotentOnStripes(t *testing.T) {
	// Thin alternating stripes: already binary, and every window mixes
	// both values so a second pass reproduces the first exactly.
	src := image.NewGray(image.Rect(0, 0, 48, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 48; x++ {
			if x%6 < 3 {
				src.Pix[y*src.Stride+x] = 255
			}
		}
	}

	once, err := AdaptiveThreshold(src, 15, 5)
	if err != nil {
		t.Fatalf("first pass failed: %v", err)
	}
	twice, err := AdaptiveThreshold(once, 15, 5)
	if err != nil {
		t.Fatalf("second pass failed: %v", err)
	}
	if !grayEquals(once, twice) {
		t.Error("re-thresholding a thresholded stripe image must be a fixed point")
	}
}

func TestAdaptiveThresholdRejectsBadBlockSize(t *testing.T) {
	src := uniformGray(20, 20, 128)

	for _, block := range []int{0, 1, 2, 30} {
		if _, err := AdaptiveThreshold(src, block, 15); err == nil {
			t.Errorf("block size %d accepted, want error", block)
		}
	}
}

func TestOtsuLevelSeparatesBimodalHistogram(t *testing.T) {
	src := rectOnGray(40, 40, 200, 50, image.Rect(0, 0, 20, 40))

	level := OtsuLevel(src)

	if level < 50 || level >= 200 {
		t.Errorf("OtsuLevel() = %d, want a level between the two modes", level)
	}
}

func TestBinarize(t *testing.T) {
	src := rectOnGray(20, 20, 40, 220, image.Rect(0, 0, 10, 20))

	dst := Binarize(src, 128)

	if got := dst.GrayAt(5, 5).Y; got != 0 {
		t.Errorf("dark half = %d, want 0", got)
	}
	if got := dst.GrayAt(15, 5).Y; got != 255 {
		t.Errorf("bright half = %d, want 255", got)
	}
}

func TestBinarizeLevel255IsAllBlack(t *testing.T) {
	dst := Binarize(uniformGray(10, 10, 255), 255)
	for _, v := range dst.Pix {
		if v != 0 {
			t.Fatal("no pixel is strictly greater than 255")
		}
	}
}

func TestInvert(t *testing.T) {
	src := rectOnGray(10, 10, 0, 255, image.Rect(0, 0, 5, 10))

	dst := Invert(src)

	if got := dst.GrayAt(2, 2).Y; got != 255 {
		t.Errorf("inverted black = %d, want 255", got)
	}
	if got := dst.GrayAt(7, 2).Y; got != 0 {
		t.Errorf("inverted white = %d, want 0", got)
	}
}
