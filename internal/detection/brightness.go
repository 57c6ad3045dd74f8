package detection

import (
	"image"

	"github.com/ledgerlens/invoice-prep/internal/imaging"
)

// brightnessOffset is how far a pixel must deviate from the frame's mean
// intensity to count as part of the document mask.
const brightnessOffset = 20

// detectBrightness proposes a candidate by intensity deviation from the
// frame mean.
//
// A frame darker than mid-gray is assumed to hold a light document on a
// dark background, and vice versa; the mask keeps pixels on the document
// side of mean +/- brightnessOffset. Morphological cleanup (7x7 close x2,
// open x1) consolidates the mask before contour tracing. The coarsest of
// the three strategies, but it still fires on washed-out photos where
// neither edges nor the Otsu split find anything usable.
func detectBrightness(gray *image.Gray, minArea, maxArea int) Candidate {
	mean := imaging.MeanIntensity(gray)

	var mask *image.Gray
	if mean < 128 {
		// Dark background, light document: keep pixels above mean+offset.
		level := clampInt(int(mean)+brightnessOffset, 0, 255)
		mask = imaging.Binarize(gray, uint8(level))
	} else {
		// Light background, dark document: keep pixels below mean-offset.
		level := clampInt(int(mean)-brightnessOffset-1, 0, 255)
		mask = imaging.Invert(imaging.Binarize(gray, uint8(level)))
	}

	cleaned := imaging.Close(mask, 7, 2)
	cleaned = imaging.Open(cleaned, 7, 1)

	cand := Candidate{Strategy: StrategyBrightness}
	if region, ok := largestRegion(cleaned, minArea, maxArea); ok {
		cand.Region = region
		cand.Area = region.Area()
	}
	return cand
}
