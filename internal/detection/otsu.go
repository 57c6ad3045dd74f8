package detection

import (
	"image"

	"github.com/ledgerlens/invoice-prep/internal/imaging"
)

// detectOtsu proposes a candidate via global Otsu binarization.
//
// The frame is blurred (5x5 Gaussian) and split at the Otsu level, which
// minimizes intra-class intensity variance without any tuning. Both
// polarities of the mask are evaluated so detection works whether the paper
// reads lighter or darker than the background. Each mask gets heavy
// morphological cleanup (10x10 close x3 to merge the document body, one
// open to drop stragglers) before contour tracing; the larger qualifying
// bounding rectangle across the two polarities wins.
func detectOtsu(gray *image.Gray, minArea, maxArea int) Candidate {
	blurred := imaging.Gaussian(gray, 5)
	level := imaging.OtsuLevel(blurred)
	binary := imaging.Binarize(blurred, level)

	cand := Candidate{Strategy: StrategyOtsu}
	for _, mask := range []*image.Gray{binary, imaging.Invert(binary)} {
		cleaned := imaging.Close(mask, 10, 3)
		cleaned = imaging.Open(cleaned, 10, 1)

		if region, ok := largestRegion(cleaned, minArea, maxArea); ok && region.Area() > cand.Area {
			cand.Region = region
			cand.Area = region.Area()
		}
	}
	return cand
}
