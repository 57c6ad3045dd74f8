package pipeline

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/ledgerlens/invoice-prep/internal/detection"
	"github.com/ledgerlens/invoice-prep/internal/imaging"
)

// receiptFixture paints a paper rectangle with horizontal text-like bars
// on a dark table. The bars are inset from the paper edge so the paper
// stays one connected bright component.
func receiptFixture(width, height int, paper image.Rectangle) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 20
	}
	for y := paper.Min.Y; y < paper.Max.Y; y++ {
		for x := paper.Min.X; x < paper.Max.X; x++ {
			img.SetGray(x, y, color.Gray{Y: 220})
		}
	}
	// Text bars: 8 px tall with 8 px leading, 6 px side margins.
	for y := paper.Min.Y + 8; y+8 <= paper.Max.Y-4; y += 16 {
		for dy := 0; dy < 8; dy++ {
			for x := paper.Min.X + 6; x < paper.Max.X-6; x++ {
				img.SetGray(x, y+dy, color.Gray{Y: 40})
			}
		}
	}
	return img
}

func blankWhite(width, height int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode fixture: %v", err)
	}
	return buf.Bytes()
}

func blackFraction(img *image.Gray) float64 {
	black := 0
	for _, v := range img.Pix {
		if v == 0 {
			black++
		}
	}
	return float64(black) / float64(len(img.Pix))
}

func TestProcessBlankImageFallsBack(t *testing.T) {
	data := encodePNG(t, blankWhite(200, 200))

	res, err := Process(context.Background(), data, DefaultConfig())
	if err != nil {
		t.Fatalf("Process() failed: %v", err)
	}

	if !res.UsedFallback {
		t.Error("blank frame should report usedFallback")
	}
	if res.StrategyUsed != detection.StrategyNone {
		t.Errorf("strategy = %q, want none", res.StrategyUsed)
	}
	full := detection.Region{X: 0, Y: 0, Width: 200, Height: 200}
	if res.SelectedRegion != full {
		t.Errorf("region = %+v, want the full frame", res.SelectedRegion)
	}
	for _, v := range res.Image.Pix {
		if v != 0 && v != 255 {
			t.Fatal("output must be strictly binary")
		}
	}
	if frac := blackFraction(res.Image); frac > 0.02 {
		t.Errorf("blank input produced %.1f%% black pixels, want near zero", frac*100)
	}
}

func TestProcessDetectsAndCropsReceipt(t *testing.T) {
	paper := image.Rect(60, 40, 160, 170)
	data := encodePNG(t, receiptFixture(240, 240, paper))

	res, err := Process(context.Background(), data, DefaultConfig())
	if err != nil {
		t.Fatalf("Process() failed: %v", err)
	}

	if res.UsedFallback {
		t.Fatal("detection should succeed on a high-contrast receipt")
	}
	if res.StrategyUsed == detection.StrategyNone {
		t.Error("a concrete strategy must be reported when not falling back")
	}
	if res.OriginalWidth != 240 || res.OriginalHeight != 240 {
		t.Errorf("original dimensions = %dx%d, want 240x240",
			res.OriginalWidth, res.OriginalHeight)
	}

	r := res.SelectedRegion
	if r.X < 0 || r.Y < 0 || r.X+r.Width > 240 || r.Y+r.Height > 240 {
		t.Fatalf("selected region %+v exceeds the frame", r)
	}
	// The region must cover the paper (minus a little edge erosion from
	// smoothing) without ballooning past double its area.
	inset := paper.Inset(8)
	if r.X > inset.Min.X || r.Y > inset.Min.Y ||
		r.X+r.Width < inset.Max.X || r.Y+r.Height < inset.Max.Y {
		t.Errorf("region %+v does not cover the paper %v", r, paper)
	}
	if r.Area() > 2*paper.Dx()*paper.Dy() {
		t.Errorf("region area %d is more than twice the paper area", r.Area())
	}

	if res.Image.Rect.Dx() != r.Width || res.Image.Rect.Dy() != r.Height {
		t.Errorf("output dimensions %dx%d do not match the region %+v",
			res.Image.Rect.Dx(), res.Image.Rect.Dy(), r)
	}
}

func TestProcessOutputHasSensibleInkCoverage(t *testing.T) {
	paper := image.Rect(60, 40, 160, 170)
	data := encodePNG(t, receiptFixture(240, 240, paper))

	res, err := Process(context.Background(), data, DefaultConfig())
	if err != nil {
		t.Fatalf("Process() failed: %v", err)
	}

	for _, v := range res.Image.Pix {
		if v != 0 && v != 255 {
			t.Fatal("output must be strictly binary")
		}
	}
	// The text bars survive as ink; an all-white or mostly-black result
	// means a stage destroyed the content.
	frac := blackFraction(res.Image)
	if frac < 0.02 || frac > 0.70 {
		t.Errorf("ink coverage = %.1f%%, want between 2%% and 70%%", frac*100)
	}
}

func TestProcessDeterministic(t *testing.T) {
	data := encodePNG(t, receiptFixture(200, 200, image.Rect(50, 40, 130, 150)))

	a, err := Process(context.Background(), data, DefaultConfig())
	if err != nil {
		t.Fatalf("first Process() failed: %v", err)
	}
	b, err := Process(context.Background(), data, DefaultConfig())
	if err != nil {
		t.Fatalf("second Process() failed: %v", err)
	}

	if a.SelectedRegion != b.SelectedRegion || a.StrategyUsed != b.StrategyUsed {
		t.Errorf("metadata differs between runs: %+v vs %+v", a, b)
	}
	if !bytes.Equal(a.Image.Pix, b.Image.Pix) {
		t.Error("pixel output differs between identical runs")
	}
}

func TestProcessValidatesConfigBeforeDecoding(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AdaptiveBlockSize = 30

	// Garbage bytes: if decoding ran first this would be a format error.
	_, err := Process(context.Background(), []byte("not an image"), cfg)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Process() error = %v, want ErrInvalidConfig", err)
	}
}

func TestProcessRejectsOversizedInput(t *testing.T) {
	_, err := Process(context.Background(), make([]byte, 11<<20), DefaultConfig())
	if !errors.Is(err, imaging.ErrSizeLimit) {
		t.Fatalf("Process() error = %v, want ErrSizeLimit", err)
	}
}

func TestProcessRejectsUnsupportedFormat(t *testing.T) {
	_, err := Process(context.Background(), []byte("BM this is a bitmap header, maybe"), DefaultConfig())
	if !errors.Is(err, imaging.ErrUnsupportedFormat) {
		t.Fatalf("Process() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestProcessImageCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ProcessImage(ctx, blankWhite(100, 100), DefaultConfig())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("ProcessImage() error = %v, want context.Canceled", err)
	}
}

func TestProcessImageZeroDimensions(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 0, 0))

	_, err := ProcessImage(context.Background(), img, DefaultConfig())
	if !errors.Is(err, imaging.ErrInvalidImage) {
		t.Fatalf("ProcessImage() error = %v, want ErrInvalidImage", err)
	}
}
