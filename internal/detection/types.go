package detection

import "image"

// Strategy identifies which detection strategy produced a candidate.
type Strategy string

const (
	// StrategyCanny is edge-based detection (highest tie-break priority).
	StrategyCanny Strategy = "canny"

	// StrategyOtsu is global-threshold-based detection.
	StrategyOtsu Strategy = "otsu"

	// StrategyBrightness is mean-intensity-deviation detection (lowest
	// tie-break priority).
	StrategyBrightness Strategy = "brightness"

	// StrategyNone marks the full-frame fallback when no candidate
	// survived selection.
	StrategyNone Strategy = "none"
)

// Region is a rectangle in source-image pixel coordinates.
//
// Invariant for regions produced by Select: 0 <= X, 0 <= Y,
// X+Width <= image width, Y+Height <= image height.
type Region struct {
	X      int `json:"x"`      // Left edge (inclusive)
	Y      int `json:"y"`      // Top edge (inclusive)
	Width  int `json:"width"`  // Horizontal extent in pixels
	Height int `json:"height"` // Vertical extent in pixels
}

// Area returns the region's area in square pixels.
func (r Region) Area() int {
	return r.Width * r.Height
}

// Rect converts the region to an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// AspectRatio returns height/width, the quantity gated by the selector.
// A zero-width region yields 0.
func (r Region) AspectRatio() float64 {
	if r.Width == 0 {
		return 0
	}
	return float64(r.Height) / float64(r.Width)
}

// Candidate is one strategy's guess at the document's location.
//
// Candidates exist only between Detect and Select; they are never
// persisted. A strategy that found nothing reports a zero Area.
type Candidate struct {
	// Region is the candidate's bounding rectangle.
	Region Region `json:"region"`

	// Area is the bounding rectangle's area in square pixels. Zero means
	// the strategy found no qualifying region.
	Area int `json:"area"`

	// Strategy names the producer, and doubles as the tie-break priority
	// key during selection.
	Strategy Strategy `json:"strategy"`
}
