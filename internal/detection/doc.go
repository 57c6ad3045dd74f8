// Package detection locates the document region inside a photographed
// invoice or receipt frame.
//
// Three independent strategies each propose a rectangular candidate:
//
//   - Canny: gradient edge detection with hysteresis, edge dilation to
//     reconnect fragmented document borders, then contour tracing. Strong
//     when the document boundary is visible against the background.
//   - Otsu: global binarization at the automatically chosen Otsu level,
//     evaluated in both polarities so it works whether the paper is lighter
//     or darker than the background, with morphological cleanup before
//     contour tracing.
//   - Brightness: a mask of pixels deviating from the frame's mean
//     intensity by a fixed offset. A coarse strategy that still fires on
//     low-gradient photos where Canny and Otsu find nothing usable.
//
// Detect runs the strategies concurrently over a shared read-only grayscale
// plane and always returns exactly three candidates, in fixed strategy
// order; a strategy that finds nothing contributes a zero-area candidate.
//
// Select applies the selection policy: candidates whose height/width ratio
// falls outside the configured band are discarded, the largest surviving
// area wins with ties broken by strategy priority (Canny > Otsu >
// Brightness), and if nothing survives the full frame is returned with the
// fallback flag set. The chosen region is expanded by a uniform margin and
// clamped to the frame, so downstream cropping can never go out of bounds.
package detection
