// Package pipeline turns a raw photograph of a paper invoice or receipt
// into a clean, upright, high-contrast binary image of the document region,
// ready for downstream text recognition.
//
// Process runs the fixed eight-stage chain:
//
//  1. Preprocess: median filter, bilateral filter, morphological closing,
//     CLAHE contrast normalization.
//  2. Detect: three concurrent boundary strategies (Canny, Otsu,
//     Brightness), each yielding one candidate region.
//  3. Select: aspect-ratio gate, maximum area, strategy-priority tie-break,
//     full-frame fallback, margin expansion and clamping.
//  4. Crop: extract the selected region.
//  5. Grayscale: luminance reduction.
//  6. Enhance: secondary denoise chain, aggressive CLAHE, unsharp
//     sharpening.
//  7. Adaptive threshold: Gaussian-weighted local mean binarization.
//  8. Cleanup: morphological open/close plus a final median filter.
//
// Every stage is a pure transform of the previous stage's output; a single
// invocation shares no state with any other, so the pipeline is safe to run
// concurrently across a worker pool with one image per worker. The context
// is checked between stages, making a request timeout take effect at the
// next stage boundary without partial output.
//
// Configuration is an immutable Config record resolved once at entry:
// DefaultConfig gives the tuned optimal pipeline, overrides are merged and
// validated before any stage executes, and validation failures
// (ErrInvalidConfig) surface before the input is even decoded.
//
// ProcessCustom is the tuning-oriented sibling entry where every filter
// stage can be dialed or disabled independently; it exists for parameter
// exploration, not production use.
package pipeline
