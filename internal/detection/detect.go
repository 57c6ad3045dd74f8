package detection

import (
	"image"
	"sync"
)

// Fraction of the frame area a candidate must cover to qualify, and the
// fraction above which it is considered background rather than document.
const (
	minAreaFraction = 0.10
	maxAreaFraction = 0.98
)

// Options carries the tunable detection parameters.
type Options struct {
	// CannyLow and CannyHigh are the hysteresis thresholds (0-255) for the
	// edge strategy.
	CannyLow  int
	CannyHigh int
}

// Detect runs all three strategies against a grayscale frame and returns
// exactly three candidates in fixed strategy order: Canny, Otsu,
// Brightness.
//
// The strategies share only the read-only input plane, so they execute
// concurrently; each writes to its own result slot, which keeps the output
// order a function of strategy identity rather than completion order. A
// strategy that finds no qualifying region contributes a zero-area
// candidate rather than being omitted.
func Detect(gray *image.Gray, opts Options) [3]Candidate {
	bounds := gray.Bounds()
	frameArea := bounds.Dx() * bounds.Dy()
	minArea := int(float64(frameArea) * minAreaFraction)
	maxArea := int(float64(frameArea) * maxAreaFraction)

	var out [3]Candidate
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		out[0] = detectCanny(gray, opts.CannyLow, opts.CannyHigh, minArea, maxArea)
	}()
	go func() {
		defer wg.Done()
		out[1] = detectOtsu(gray, minArea, maxArea)
	}()
	go func() {
		defer wg.Done()
		out[2] = detectBrightness(gray, minArea, maxArea)
	}()

	wg.Wait()
	return out
}
