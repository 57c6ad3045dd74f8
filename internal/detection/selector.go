package detection

// SelectorOptions carries the selection policy parameters.
type SelectorOptions struct {
	// AspectMin and AspectMax bound the accepted height/width ratio.
	// Candidates outside the band are degenerate slivers, not documents.
	AspectMin float64
	AspectMax float64

	// MarginFraction is the safety margin added on each side of the chosen
	// region, as a fraction of the larger region dimension.
	MarginFraction float64
}

// Select picks the best candidate for a width x height frame.
//
// Policy, in order:
//
//  1. Discard zero-area candidates and candidates whose height/width ratio
//     falls outside [AspectMin, AspectMax].
//  2. Among survivors, pick the maximum area. Ties go to the earliest
//     candidate in slice order, which Detect fixes as Canny, Otsu,
//     Brightness; the tie-break is a deliberate priority ranking (edge
//     evidence over threshold evidence over brightness evidence), not an
//     artifact of scheduling, so results are reproducible under
//     concurrent detection.
//  3. If nothing survives, fall back to the full frame and report
//     usedFallback=true. The fallback is a documented degraded mode, not
//     an error: downstream stages still produce usable output from the
//     uncropped frame.
//  4. Expand the choice by MarginFraction of max(regionWidth,
//     regionHeight) on every side, then clamp to the frame.
//
// The returned region always satisfies 0 <= X, 0 <= Y, X+Width <= width,
// Y+Height <= height.
func Select(candidates []Candidate, width, height int, opts SelectorOptions) (Region, Strategy, bool) {
	var best *Candidate
	for i := range candidates {
		c := &candidates[i]
		if c.Area <= 0 {
			continue
		}
		ratio := c.Region.AspectRatio()
		if ratio < opts.AspectMin || ratio > opts.AspectMax {
			continue
		}
		if best == nil || c.Area > best.Area {
			best = c
		}
	}

	if best == nil {
		return Region{X: 0, Y: 0, Width: width, Height: height}, StrategyNone, true
	}

	return expandAndClamp(best.Region, width, height, opts.MarginFraction), best.Strategy, false
}

// expandAndClamp grows a region by a uniform pixel margin proportional to
// its larger dimension and clamps the result to the frame.
func expandAndClamp(r Region, width, height int, marginFraction float64) Region {
	larger := r.Width
	if r.Height > larger {
		larger = r.Height
	}
	margin := int(float64(larger) * marginFraction)

	x0 := r.X - margin
	y0 := r.Y - margin
	x1 := r.X + r.Width + margin
	y1 := r.Y + r.Height + margin

	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > width {
		x1 = width
	}
	if y1 > height {
		y1 = height
	}

	return Region{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}
